package parfan

// Job is a zero-argument unit of executable work. Once submitted, the
// buffer owns its copy; the caller must not assume any particular execution
// time or thread.
type Job func()

// Args is passed to the callback of a ranged dispatch, once per logical
// index inside a group.
type Args struct {
	// JobIndex is the logical index in [0, jobCount).
	JobIndex uint32
	// GroupIndex identifies the group this index belongs to.
	GroupIndex uint32
}

// Execute submits one job for asynchronous execution. Any idle worker will
// pick it up. If the buffer is full, Execute retries with the poll/backoff
// discipline until the job is accepted; it is enqueued exactly once.
//
// The submitted label is advanced before the job becomes visible to
// workers, so IsBusy can never report a false idle between submission and
// completion.
func (s *System) Execute(job Job) {
	s.admit()
	s.submitted.Add(1)
	s.enqueue(job)
}

// Dispatch partitions the index range [0, jobCount) into contiguous groups
// of groupSize indices and submits one unit per group. Each group executes
// its indices serially, in increasing order, on a single worker; distinct
// groups may run concurrently on different workers in any relative order.
// Every index appears in exactly one group, exactly once.
//
// jobCount is how many logical jobs to generate; groupSize is how many of
// them execute serially per worker. Larger groups amortize scheduling
// overhead for small jobs. Dispatch with a zero jobCount or groupSize does
// nothing.
func (s *System) Dispatch(jobCount, groupSize uint32, job func(Args)) {
	if jobCount == 0 || groupSize == 0 {
		return
	}

	// Overestimate ("ceil") so a partial trailing group is still covered.
	groupCount := (jobCount + groupSize - 1) / groupSize

	s.hooks.EmitDispatchPlanned(background, jobCount, groupSize, groupCount)

	// Promise every group up front: IsBusy holds from here until the last
	// group finishes, even while later groups are still being enqueued.
	s.submitted.Add(uint64(groupCount))

	for groupIndex := uint32(0); groupIndex < groupCount; groupIndex++ {
		s.admit()

		// The closure captures the partition parameters by value; groups
		// in flight share nothing but the user callback.
		s.enqueue(func() {
			offset := groupIndex * groupSize
			end := min(offset+groupSize, jobCount)

			args := Args{GroupIndex: groupIndex}
			for i := offset; i < end; i++ {
				args.JobIndex = i
				job(args)
			}
		})
	}
}

// IsBusy reports whether any submitted unit has not yet finished. It is a
// cheap, lock-free snapshot: it may be momentarily stale, but the completed
// label only grows, so a false return is always trustworthy.
func (s *System) IsBusy() bool {
	return s.completed.Load() < s.submitted.Load()
}

// Wait blocks the calling thread until every submitted unit has finished.
// It never spins hot: each check nudges one sleeping worker and yields the
// processor (or sleeps, per the configured backoff), so a waiting caller
// cannot starve the workers on an oversubscribed system.
func (s *System) Wait() {
	for attempt := 1; s.IsBusy(); attempt++ {
		s.poll(attempt)
	}
}
