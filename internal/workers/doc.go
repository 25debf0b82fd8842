// Package workers sizes worker pools for batch resizing.
//
// Decoding and resampling images is CPU-bound, so the default is one worker
// per available CPU as reported by GOMAXPROCS (which follows container CPU
// limits). Set RESIZE_WORKERS to pin the count, for example to keep a warm
// run from starving a co-located web server.
//
//	n := workers.ForCPU(8) // at most 8
package workers
