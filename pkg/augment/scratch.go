package augment

import "sync"

// scratch is a reusable float64 grid for intermediate results (padded or
// resampled canvases). Grids are borrowed for the duration of one transform
// call and must be released on every return path, normally with defer:
//
//	grid := acquireScratch(w * h)
//	defer grid.release()
//
// A released grid must not be touched again.
type scratch struct {
	buf []float64
}

var scratchPool = sync.Pool{
	New: func() any { return new(scratch) },
}

// acquireScratch returns a zeroed grid of n elements.
func acquireScratch(n int) *scratch {
	s := scratchPool.Get().(*scratch)
	if cap(s.buf) < n {
		s.buf = make([]float64, n)
	} else {
		s.buf = s.buf[:n]
		clear(s.buf)
	}
	return s
}

func (s *scratch) release() {
	// Very large grids are dropped so one oversized call does not pin memory.
	if cap(s.buf) > 1<<20 {
		s.buf = nil
	}
	scratchPool.Put(s)
}
