package compute

import (
	"runtime"
	"sync"
)

// serialThreshold is the dispatch size below which goroutine fan-out
// costs more than it saves.
const serialThreshold = 256

type CPUBackend struct {
	workers int
}

func NewCPUBackend() *CPUBackend {
	return &CPUBackend{
		workers: runtime.NumCPU(),
	}
}

func (c *CPUBackend) Name() string    { return "cpu" }
func (c *CPUBackend) Available() bool { return true }
func (c *CPUBackend) Cleanup()        {}

func (c *CPUBackend) Dispatch(n int, kernel Kernel) {
	if n <= 0 {
		return
	}
	if n < serialThreshold || c.workers <= 1 {
		kernel(0, n)
		return
	}

	workers := c.workers
	if workers > n {
		workers = n
	}
	chunkSize := (n + workers - 1) / workers

	var wg sync.WaitGroup

	// Rounding chunkSize up can leave trailing workers with nothing
	// to do; they must not run, or slicing kernels see start > end.
	for w := 0; w < workers; w++ {
		start := w * chunkSize
		if start >= n {
			break
		}
		end := start + chunkSize
		if end > n {
			end = n
		}

		wg.Add(1)
		go func(s, e int) {
			defer wg.Done()
			kernel(s, e)
		}(start, end)
	}

	wg.Wait()
}
