package parfan

import "sync/atomic"

// defaultSystem is the process-wide instance behind the package-level
// functions. It is created once by Initialize and never stopped, matching
// the fire-and-forget lifetime of a per-process worker pool.
var defaultSystem atomic.Pointer[System]

// Initialize creates the process-wide default system. Call it exactly once
// at application startup, before any other package-level operation. A
// second call returns ErrAlreadyInitialized and leaves the existing system
// untouched.
//
// Library embedders that need isolated pools or a teardown path should use
// New directly instead.
func Initialize(opts ...Option) error {
	if defaultSystem.Load() != nil {
		return ErrAlreadyInitialized
	}

	s, err := New(opts...)
	if err != nil {
		return err
	}

	if !defaultSystem.CompareAndSwap(nil, s) {
		// Lost a race with a concurrent Initialize; discard our pool.
		_ = s.Stop(background)
		return ErrAlreadyInitialized
	}
	return nil
}

// Default returns the process-wide system, or nil if Initialize has not
// been called.
func Default() *System {
	return defaultSystem.Load()
}

// mustDefault panics if Initialize has not been called. Submitting work
// before initialization is a programming error, not a runtime condition.
func mustDefault() *System {
	s := defaultSystem.Load()
	if s == nil {
		panic("parfan: Initialize has not been called")
	}
	return s
}

// Execute submits one job to the default system. See System.Execute.
func Execute(job Job) {
	mustDefault().Execute(job)
}

// Dispatch partitions a ranged workload across the default system's
// workers. See System.Dispatch.
func Dispatch(jobCount, groupSize uint32, job func(Args)) {
	mustDefault().Dispatch(jobCount, groupSize, job)
}

// IsBusy reports whether the default system has unfinished work.
func IsBusy() bool {
	return mustDefault().IsBusy()
}

// Wait blocks until the default system is idle.
func Wait() {
	mustDefault().Wait()
}
