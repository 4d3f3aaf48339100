package parfan_test

import (
	"errors"
	"sync/atomic"
	"testing"

	"github.com/parfan/parfan"
)

func TestPackageSurface_BeforeInitialize(t *testing.T) {
	if parfan.Default() != nil {
		t.Skip("default system already initialized by another test")
	}

	defer func() {
		if recover() == nil {
			t.Error("Execute before Initialize did not panic")
		}
	}()
	parfan.Execute(func() {})
}

func TestPackageSurface(t *testing.T) {
	// The default system lives for the whole test process; initialize it
	// here (or reuse it if another test got there first).
	if err := parfan.Initialize(parfan.WithWorkers(2)); err != nil &&
		!errors.Is(err, parfan.ErrAlreadyInitialized) {
		t.Fatalf("Initialize: %v", err)
	}

	// A second call must refuse and leave the system usable.
	if err := parfan.Initialize(); !errors.Is(err, parfan.ErrAlreadyInitialized) {
		t.Errorf("second Initialize error = %v, want ErrAlreadyInitialized", err)
	}

	var runs atomic.Int64
	parfan.Execute(func() { runs.Add(1) })
	parfan.Dispatch(10, 4, func(parfan.Args) { runs.Add(1) })
	parfan.Wait()

	if got := runs.Load(); got != 11 {
		t.Errorf("ran %d units, want 11", got)
	}
	if parfan.IsBusy() {
		t.Error("IsBusy() = true after Wait")
	}
	if parfan.Default() == nil {
		t.Error("Default() = nil after Initialize")
	}
}
