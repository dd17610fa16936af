package dynamo

import (
	"runtime"
	"sync"
)

// ParallelFor executes fn over contiguous chunks of [0, n). Ranges smaller
// than minChunk run on the calling goroutine. workers <= 0 uses NumCPU.
func ParallelFor(n, minChunk, workers int, fn func(start, end int)) {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if n <= minChunk || workers <= 1 {
		fn(0, n)
		return
	}

	if minChunk > 0 && n/minChunk < workers {
		workers = n / minChunk
	}
	if workers < 1 {
		workers = 1
	}

	chunkSize := (n + workers - 1) / workers

	var wg sync.WaitGroup
	for start := 0; start < n; start += chunkSize {
		end := start + chunkSize
		if end > n {
			end = n
		}

		wg.Add(1)
		go func(s, e int) {
			defer wg.Done()
			fn(s, e)
		}(start, end)
	}

	wg.Wait()
}
