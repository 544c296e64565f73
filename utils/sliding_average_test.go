package utils

import (
	"testing"

	"github.com/chewxy/math32"
)

func TestSlidingAverageConverges(t *testing.T) {
	avg := NewSlidingAverage(5)
	want := []float32{1, 1, 1, 1, 1}
	for i, w := range want {
		if got := avg.Push(1); math32.Abs(got-w) > 1e-6 {
			t.Fatalf("push %d: expected %v, got %v", i, w, got)
		}
	}

	// Five samples of 0.5 fully replace the window.
	for i := 0; i < 5; i++ {
		avg.Push(0.5)
	}
	if got := avg.Value(); math32.Abs(got-0.5) > 1e-6 {
		t.Fatalf("expected 0.5 after refilling the window, got %v", got)
	}
}

func TestSlidingAveragePartialWindow(t *testing.T) {
	avg := NewSlidingAverage(4)
	avg.Push(0)
	if got := avg.Push(1); math32.Abs(got-0.5) > 1e-6 {
		t.Fatalf("expected mean over available samples 0.5, got %v", got)
	}
	avg.Push(1)
	avg.Push(1)
	if got := avg.Push(1); got != 1 {
		t.Fatalf("expected the first sample to leave the window, got %v", got)
	}
	avg.Reset()
	if avg.Len() != 0 || avg.Value() != 0 {
		t.Fatalf("expected empty window after reset")
	}
}

func TestSlidingAverageAlternating(t *testing.T) {
	odd, even := NewSlidingAverage(5), NewSlidingAverage(4)
	for i := 0; i < 20; i++ {
		v := float32(i % 2)
		odd.Push(v)
		even.Push(v)
		if i < 4 {
			continue
		}
		if got := odd.Value(); math32.Abs(got-0.5) > 0.1+1e-6 {
			t.Fatalf("tick %d: odd window strayed from 0.5: %v", i, got)
		}
		if got := even.Value(); math32.Abs(got-0.5) > 1e-6 {
			t.Fatalf("tick %d: even window expected 0.5, got %v", i, got)
		}
	}
}
