package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"time"

	"github.com/ethaniccc/float32-cube/cube"
	"github.com/getsentry/sentry-go"
	"github.com/go-echarts/statsview"
	"github.com/go-echarts/statsview/viewer"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"
	"github.com/oomph-ac/locomotion/animation"
	"github.com/oomph-ac/locomotion/event"
	"github.com/oomph-ac/locomotion/input"
	"github.com/oomph-ac/locomotion/session"
	"github.com/oomph-ac/locomotion/settings"
	"github.com/oomph-ac/locomotion/simulation"
	"github.com/oomph-ac/locomotion/world"
	"github.com/sirupsen/logrus"
)

var (
	settingsPath = flag.String("settings", "", "path to a .toml or .yaml settings file")
	ticks        = flag.Int("ticks", 300, "number of ticks to simulate")
	realtime     = flag.Bool("realtime", false, "step at the configured tick rate instead of as fast as possible")
	recordPath   = flag.String("record", "", "file to record the events of the scene to")
)

// The following program simulates a handful of scripted characters on a small level and logs
// every locomotion event they produce.
func main() {
	flag.Parse()

	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{
		ForceColors:     true,
		TimestampFormat: "2006-01-02 15:04:05",
		FullTimestamp:   true,
	})

	st := settings.Default()
	if *settingsPath != "" {
		var err error
		if st, err = settings.Load(*settingsPath); err != nil {
			logger.Fatalf("unable to load settings: %v", err)
		}
	}
	if lvl, err := logrus.ParseLevel(st.Log.Level); err == nil {
		logger.SetLevel(lvl)
	}

	if dsn := os.Getenv("SENTRY_DSN"); dsn != "" {
		if err := sentry.Init(sentry.ClientOptions{Dsn: dsn, EnableTracing: true, TracesSampleRate: 1}); err != nil {
			logger.Errorf("unable to initialize sentry: %v", err)
		}
		defer sentry.Flush(time.Second * 5)
	}

	if os.Getenv("PPROF_ENABLED") != "" {
		// set configurations before calling `statsview.New()` method
		viewer.SetConfiguration(viewer.WithTheme(viewer.ThemeWesteros), viewer.WithAddr("localhost:8080"))

		mgr := statsview.New()
		go mgr.Start()
		defer mgr.Stop()
	}

	scene, err := simulation.New(simulation.Config{Settings: st, World: buildLevel(), Log: logger})
	if err != nil {
		logger.Fatalf("unable to create scene: %v", err)
	}
	defer scene.Close()

	scene.Subscribe(event.ListenerFunc(func(source uuid.UUID, ev event.Event) {
		fields := logrus.Fields{"character": source, "tick": ev.Time()}
		for el := ev.Fields().Front(); el != nil; el = el.Next() {
			fields[el.Key] = el.Value
		}
		logger.WithFields(fields).Info(ev.Name())
	}))

	if *recordPath != "" {
		f, err := os.Create(*recordPath)
		if err != nil {
			logger.Fatalf("unable to create recording: %v", err)
		}
		defer f.Close()
		rec, err := session.NewRecorder(f, st)
		if err != nil {
			logger.Fatalf("unable to start recording: %v", err)
		}
		scene.Subscribe(rec)
		defer func() {
			if err := rec.Err(); err != nil {
				logger.Errorf("recording incomplete: %v", err)
				return
			}
			logger.Infof("recorded %d events to %s", rec.Len(), *recordPath)
		}()
	}

	spawn(scene, logger)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	dt := st.TickDuration()
	var ticker *time.Ticker
	if *realtime {
		ticker = time.NewTicker(time.Duration(float64(time.Second) * float64(dt)))
		defer ticker.Stop()
	}
	for i := 0; i < *ticks; i++ {
		if ticker != nil {
			select {
			case <-ticker.C:
			case <-ctx.Done():
				return
			}
		} else if ctx.Err() != nil {
			return
		}
		if err := scene.Step(ctx, dt); err != nil {
			logger.Errorf("step failed: %v", err)
			return
		}
	}
	logger.Infof("simulated %d ticks of %d characters", scene.CurrentTick(), scene.Len())
}

// buildLevel returns a floor with a raised platform, a low step and a crate to push around.
func buildLevel() *world.World {
	w := world.New(world.Options{Gravity: -20, Friction: 4})
	w.AddStatic(cube.Box(-50, -1, -50, 50, 0, 50), world.LayerGround)
	w.AddStatic(cube.Box(-10, 0, -10, 0, 2, -4), world.LayerGround)
	w.AddStatic(cube.Box(-10, 0, 4, 0, 0.3, 10), world.LayerGround)
	w.AddBody(cube.Box(4, 0, -0.5, 5, 1, 0.5), 2)
	return w
}

func spawn(scene *simulation.Scene, logger *logrus.Logger) {
	east := mgl32.Vec3{1, 0, 0}
	forward := mgl32.Vec2{0, 1}

	scripts := []struct {
		name string
		pos  mgl32.Vec3
		yaw  float32
		src  input.Source
	}{
		{
			name: "ledge walker",
			pos:  mgl32.Vec3{-3, 2, -7},
			yaw:  90,
			src: input.NewScripted(
				input.Step{Ticks: 120, Frame: input.Frame{Move: forward, CameraForward: east}},
			),
		},
		{
			name: "step walker",
			pos:  mgl32.Vec3{-3, 0.3, 7},
			yaw:  90,
			src: input.NewScripted(
				input.Step{Ticks: 90, Frame: input.Frame{Move: forward, CameraForward: east}},
			),
		},
		{
			name: "crate pusher",
			pos:  mgl32.Vec3{0, 0, 0},
			yaw:  90,
			src: input.NewScripted(
				input.Step{Ticks: 60, Frame: input.Frame{Move: forward, CameraForward: east, SprintStarted: true}},
				input.Step{Ticks: 1, Frame: input.Frame{Move: forward, CameraForward: east, JumpPressed: true, JumpHeld: true}},
				input.Step{Ticks: 10, Frame: input.Frame{Move: forward, CameraForward: east, JumpHeld: true}},
				input.Step{Ticks: 60, Frame: input.Frame{Move: mgl32.Vec2{0, -1}, CameraForward: east}},
			),
		},
		{
			name: "strafer",
			pos:  mgl32.Vec3{0, 0, 10},
			yaw:  0,
			src: input.NewScripted(
				input.Step{Ticks: 1, Frame: input.Frame{CameraForward: mgl32.Vec3{0, 0, -1}, StrafeStarted: true}},
				input.Step{Ticks: 60, Frame: input.Frame{Move: mgl32.Vec2{1, 0}, CameraForward: mgl32.Vec3{0, 0, -1}}},
				input.Step{Ticks: 1, Frame: input.Frame{Move: forward, Look: mgl32.Vec2{30, 0}, StrafeEnded: true}},
				input.Step{Ticks: 60, Frame: input.Frame{Move: forward, Look: mgl32.Vec2{1, 0}}},
			),
		},
	}
	for _, s := range scripts {
		id, err := scene.Spawn(s.pos, s.yaw, &animation.Scripted{TurnTicks: 12, Overshoot: 4}, s.src)
		if err != nil {
			logger.Fatalf("unable to spawn %s: %v", s.name, err)
		}
		logger.WithField("character", id).Infof("spawned %s", s.name)
	}
}
