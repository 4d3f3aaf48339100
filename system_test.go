package parfan_test

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/parfan/parfan"
	"github.com/parfan/parfan/backoff"
	"github.com/parfan/parfan/middleware"
)

func newTestSystem(t *testing.T, opts ...parfan.Option) *parfan.System {
	t.Helper()
	s, err := parfan.New(opts...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.Stop(ctx); err != nil {
			t.Errorf("Stop: %v", err)
		}
	})
	return s
}

func TestExecute_RunsExactlyOnce(t *testing.T) {
	s := newTestSystem(t, parfan.WithWorkers(4))

	var runs atomic.Int64
	s.Execute(func() { runs.Add(1) })
	s.Wait()

	if got := runs.Load(); got != 1 {
		t.Errorf("job ran %d times, want 1", got)
	}
	if s.IsBusy() {
		t.Error("IsBusy() = true immediately after Wait")
	}
}

func TestExecute_ManyJobs(t *testing.T) {
	s := newTestSystem(t, parfan.WithWorkers(4))

	const jobs = 500
	var runs atomic.Int64
	for range jobs {
		s.Execute(func() { runs.Add(1) })
	}
	s.Wait()

	if got := runs.Load(); got != jobs {
		t.Errorf("ran %d jobs, want %d", got, jobs)
	}
	if s.Submitted() != jobs || s.Completed() != jobs {
		t.Errorf("labels = %d/%d, want %d/%d", s.Completed(), s.Submitted(), jobs, jobs)
	}
}

func TestDispatch_PartitionsContiguously(t *testing.T) {
	s := newTestSystem(t, parfan.WithWorkers(4))

	const (
		jobCount  = 10
		groupSize = 3
	)

	var mu sync.Mutex
	byGroup := make(map[uint32][]uint32)

	s.Dispatch(jobCount, groupSize, func(args parfan.Args) {
		mu.Lock()
		byGroup[args.GroupIndex] = append(byGroup[args.GroupIndex], args.JobIndex)
		mu.Unlock()
	})
	s.Wait()

	// ceil(10/3) = 4 groups.
	if len(byGroup) != 4 {
		t.Fatalf("observed %d groups, want 4", len(byGroup))
	}

	seen := make(map[uint32]int)
	for group, indices := range byGroup {
		for i, idx := range indices {
			seen[idx]++
			if idx/groupSize != group {
				t.Errorf("index %d observed in group %d, want group %d", idx, group, idx/groupSize)
			}
			// Indices inside a group execute serially in increasing order.
			if i > 0 && indices[i-1] >= idx {
				t.Errorf("group %d out of order: %v", group, indices)
			}
		}
	}

	for i := uint32(0); i < jobCount; i++ {
		if seen[i] != 1 {
			t.Errorf("index %d observed %d times, want exactly 1", i, seen[i])
		}
	}
}

func TestDispatch_ExactMultiple(t *testing.T) {
	s := newTestSystem(t, parfan.WithWorkers(2))

	var runs atomic.Int64
	s.Dispatch(12, 4, func(parfan.Args) { runs.Add(1) })
	s.Wait()

	if got := runs.Load(); got != 12 {
		t.Errorf("callback ran %d times, want 12", got)
	}
	if s.Submitted() != 3 {
		t.Errorf("Submitted() = %d, want 3 groups", s.Submitted())
	}
}

func TestDispatch_ZeroArgsAreNoOps(t *testing.T) {
	s := newTestSystem(t, parfan.WithWorkers(2))

	before := s.Submitted()
	var runs atomic.Int64

	s.Dispatch(0, 3, func(parfan.Args) { runs.Add(1) })
	s.Dispatch(10, 0, func(parfan.Args) { runs.Add(1) })

	if got := runs.Load(); got != 0 {
		t.Errorf("callback ran %d times, want 0", got)
	}
	if s.Submitted() != before {
		t.Errorf("Submitted() changed from %d to %d on no-op dispatch", before, s.Submitted())
	}
	if s.IsBusy() {
		t.Error("IsBusy() = true after no-op dispatches")
	}
}

func TestIsBusy_TrueWhilePending(t *testing.T) {
	s := newTestSystem(t, parfan.WithWorkers(1))

	gate := make(chan struct{})
	s.Execute(func() { <-gate })

	if !s.IsBusy() {
		t.Error("IsBusy() = false while a job is blocked")
	}

	close(gate)
	s.Wait()

	if s.IsBusy() {
		t.Error("IsBusy() = true after Wait")
	}
}

func TestSubmitBeyondCapacity_Completes(t *testing.T) {
	// Liveness: several multiples of the buffer capacity from a single
	// submitter must drain without deadlock.
	s := newTestSystem(t, parfan.WithWorkers(2), parfan.WithQueueCapacity(8))

	const jobs = 8 * 16
	var runs atomic.Int64
	for range jobs {
		s.Execute(func() { runs.Add(1) })
	}
	s.Wait()

	if got := runs.Load(); got != jobs {
		t.Errorf("ran %d jobs, want %d", got, jobs)
	}
}

func TestConcurrentSubmitters(t *testing.T) {
	// The submitted label is atomic, so concurrent Execute and Dispatch
	// callers are safe.
	s := newTestSystem(t, parfan.WithWorkers(4), parfan.WithQueueCapacity(16))

	const (
		submitters   = 8
		perSubmitter = 200
	)

	var runs atomic.Int64
	var g errgroup.Group
	for range submitters {
		g.Go(func() error {
			for range perSubmitter {
				s.Execute(func() { runs.Add(1) })
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		t.Fatalf("submitters: %v", err)
	}
	s.Wait()

	want := int64(submitters * perSubmitter)
	if got := runs.Load(); got != want {
		t.Errorf("ran %d jobs, want %d", got, want)
	}
}

func TestRecoveredPanic_StillCountsAsCompleted(t *testing.T) {
	logger := slog.New(slog.DiscardHandler)
	s := newTestSystem(t,
		parfan.WithWorkers(2),
		parfan.WithLogger(logger),
		parfan.WithMiddleware(middleware.Recover(logger)),
	)

	var after atomic.Bool
	s.Execute(func() { panic("boom") })
	s.Execute(func() { after.Store(true) })
	s.Wait()

	if !after.Load() {
		t.Error("job after a recovered panic did not run")
	}
	if s.IsBusy() {
		t.Error("IsBusy() = true after Wait despite recovered panic")
	}
}

func TestWithBackoff_SleepingStrategy(t *testing.T) {
	s := newTestSystem(t,
		parfan.WithWorkers(2),
		parfan.WithQueueCapacity(4),
		parfan.WithBackoff(backoff.NewConstant(100*time.Microsecond)),
	)

	var runs atomic.Int64
	for range 64 {
		s.Execute(func() { runs.Add(1) })
	}
	s.Wait()

	if got := runs.Load(); got != 64 {
		t.Errorf("ran %d jobs, want 64", got)
	}
}

func TestWithSubmitRate_PacesButCompletes(t *testing.T) {
	s := newTestSystem(t,
		parfan.WithWorkers(2),
		parfan.WithSubmitRate(10000, 1),
	)

	var runs atomic.Int64
	for range 20 {
		s.Execute(func() { runs.Add(1) })
	}
	s.Wait()

	if got := runs.Load(); got != 20 {
		t.Errorf("ran %d jobs, want 20", got)
	}
}

func TestNew_OptionValidation(t *testing.T) {
	tests := []struct {
		name string
		opt  parfan.Option
		want error
	}{
		{"zero workers", parfan.WithWorkers(0), parfan.ErrInvalidWorkers},
		{"negative capacity", parfan.WithQueueCapacity(-1), parfan.ErrInvalidCapacity},
		{"zero rate", parfan.WithSubmitRate(0, 1), parfan.ErrInvalidRate},
		{"zero burst", parfan.WithSubmitRate(100, 0), parfan.ErrInvalidRate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := parfan.New(tt.opt); !errors.Is(err, tt.want) {
				t.Errorf("New() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestConfigAccessors(t *testing.T) {
	s := newTestSystem(t, parfan.WithWorkers(3), parfan.WithQueueCapacity(32))

	if s.Workers() != 3 {
		t.Errorf("Workers() = %d, want 3", s.Workers())
	}
	if s.QueueCapacity() != 32 {
		t.Errorf("QueueCapacity() = %d, want 32", s.QueueCapacity())
	}
}
