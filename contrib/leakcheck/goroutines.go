package leakcheck

import (
	"log"
	"os"
	"runtime"
	"runtime/pprof"
	"time"
)

// ReportLeakedGoroutines checks that only numExpected goroutines remain
// once everything under test has been shut down. Goroutines get up to a
// second to finish their cleanup; anything still running after that is
// treated as a leak and the goroutine profile is dumped to stdout.
func ReportLeakedGoroutines(numExpected int) bool {
	cleanupPeriod := 1 * time.Second

	var numRunning int
	start := time.Now()
	for time.Since(start) <= cleanupPeriod {
		runtime.Gosched()

		numRunning = runtime.NumGoroutine()
		if numRunning <= numExpected {
			break
		}

		time.Sleep(10 * time.Millisecond)
	}

	if numRunning > numExpected {
		log.Printf("Detected a goroutine leak (%d goroutines > %d expected)", numRunning, numExpected)
		_ = pprof.Lookup("goroutine").WriteTo(os.Stdout, 1)
		return false
	}

	return true
}
