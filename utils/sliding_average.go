package utils

// SlidingAverage is the arithmetic mean of the last N samples pushed to it. Until N samples have
// been pushed, the mean is taken over the samples available.
type SlidingAverage struct {
	samples *CircularQueue[float32]
	sum     float32
}

// NewSlidingAverage returns a SlidingAverage over a window of n samples. A window below one is
// raised to one.
func NewSlidingAverage(n int) *SlidingAverage {
	return &SlidingAverage{samples: NewCircularQueue[float32](max(n, 1))}
}

// Push adds a sample to the window and returns the new mean.
func (s *SlidingAverage) Push(v float32) float32 {
	if s.samples.Full() {
		oldest, _ := s.samples.Pop()
		s.sum -= oldest
	}
	_ = s.samples.Append(v)
	s.sum += v
	return s.Value()
}

// Value returns the mean of the samples in the window, or zero if it is empty.
func (s *SlidingAverage) Value() float32 {
	n := s.samples.Len()
	if n == 0 {
		return 0
	}
	// Recomputed from the window once full to stop the running sum drifting.
	if s.samples.Full() {
		var sum float32
		for v := range s.samples.Iter() {
			sum += v
		}
		s.sum = sum
	}
	return s.sum / float32(n)
}

// Len returns the number of samples in the window.
func (s *SlidingAverage) Len() int {
	return s.samples.Len()
}

// Reset empties the window.
func (s *SlidingAverage) Reset() {
	s.samples.Clear()
	s.sum = 0
}
