package parfan

import "runtime"

// Config holds configuration for a System.
type Config struct {
	// Workers is the number of worker goroutines. Defaults to the
	// detected hardware parallelism, with a minimum of 1.
	Workers int

	// QueueCapacity is the fixed capacity of the job buffer. It bounds
	// the number of submitted-but-not-started units system-wide; a full
	// buffer stalls submitters, never workers.
	QueueCapacity int

	// LockOSThreads dedicates an OS thread to each worker goroutine.
	// Performance tuning only.
	LockOSThreads bool
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Workers:       max(1, runtime.NumCPU()),
		QueueCapacity: 256,
	}
}
