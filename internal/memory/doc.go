// Package memory keeps batch resizing inside the container memory limit.
//
// [ConfigureFromEnv] derives GOMEMLIMIT from MEMORY_LIMIT and MEMORY_RATIO.
// The default ratio of 0.80 leaves room for libvips, whose allocations are
// made in C and are invisible to the Go garbage collector.
//
// A [Monitor] samples heap usage and pauses workers that call
// [Monitor.WaitIfPaused] before decoding the next image:
//
//	monitor := memory.NewMonitor(memory.DefaultConfig())
//	monitor.Start()
//	defer monitor.Stop()
//
//	for id := range jobs {
//	    if !monitor.WaitIfPaused() {
//	        return
//	    }
//	    resolve(id)
//	}
package memory
