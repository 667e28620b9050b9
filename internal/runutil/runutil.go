// internal/runutil/runutil.go
package runutil

import "runtime"

// EffectiveThreads maps the --threads value to a worker count:
// 0 (or negative) means all CPUs.
func EffectiveThreads(threads int) int {
	if threads > 0 {
		return threads
	}
	return runtime.NumCPU()
}

// BufferSize picks a channel buffer for the writer goroutine: four slots
// per worker, never less than 64.
func BufferSize(threads int) int {
	if n := EffectiveThreads(threads) * 4; n > 64 {
		return n
	}
	return 64
}
