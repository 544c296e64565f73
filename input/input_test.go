package input

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScriptedEventsFireOnce(t *testing.T) {
	src := NewScripted(
		Step{Ticks: 3, Frame: Frame{Move: mgl32.Vec2{0, 1}, JumpPressed: true, JumpHeld: true}},
		Step{Ticks: 1, Frame: Frame{StrafeStarted: true}},
	)

	f := src.Poll(0)
	assert.True(t, f.JumpPressed)
	assert.True(t, f.HasMove())

	for tick := int64(1); tick < 3; tick++ {
		f = src.Poll(tick)
		assert.False(t, f.JumpPressed)
		assert.True(t, f.JumpHeld)
	}

	f = src.Poll(3)
	assert.True(t, f.StrafeStarted)
	require.False(t, src.Done())

	f = src.Poll(4)
	assert.True(t, src.Done())
	assert.False(t, f.HasMove())
}

func TestCameraIntegratesLook(t *testing.T) {
	src := NewScripted(Step{Ticks: 2, Frame: Frame{Look: mgl32.Vec2{45, 0}}})
	src.Poll(0)
	f := src.Poll(1)
	assert.InDelta(t, 90, src.camera.Yaw, 1e-4)
	assert.InDelta(t, 1, f.CameraForward.X(), 1e-5)
	assert.InDelta(t, 0, f.CameraForward.Z(), 1e-5)

	fixed := (&Camera{}).Apply(Frame{CameraForward: mgl32.Vec3{0, 0, -1}})
	assert.Equal(t, mgl32.Vec3{0, 0, -1}, fixed.CameraForward)
}
