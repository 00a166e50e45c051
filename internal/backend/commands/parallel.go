package commands

import (
	"runtime"
	"sync"
	"sync/atomic"
)

// parallelForStop runs fn(i) over i in [0, n) using up to workers goroutines
// (GOMAXPROCS when workers <= 0). Work is distributed by striding. Once any
// fn returns true the remaining work is abandoned and parallelForStop
// returns true.
func parallelForStop(n, workers int, fn func(i int) bool) bool {
	if n <= 0 {
		return false
	}
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers > n {
		workers = n
	}

	var stop atomic.Bool
	var wg sync.WaitGroup
	wg.Add(workers)

	for w := 0; w < workers; w++ {
		w := w
		go func() {
			defer wg.Done()
			for i := w; i < n && !stop.Load(); i += workers {
				if fn(i) {
					stop.Store(true)
					return
				}
			}
		}()
	}

	wg.Wait()
	return stop.Load()
}
