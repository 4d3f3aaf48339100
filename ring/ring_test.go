package ring_test

import (
	"sync"
	"testing"

	"github.com/parfan/parfan/ring"
)

func TestBuffer_FIFOOrder(t *testing.T) {
	b := ring.New[int](4)

	for i := 1; i <= 4; i++ {
		if !b.PushBack(i) {
			t.Fatalf("PushBack(%d) = false, want true", i)
		}
	}

	for want := 1; want <= 4; want++ {
		got, ok := b.PopFront()
		if !ok {
			t.Fatalf("PopFront() empty, want %d", want)
		}
		if got != want {
			t.Errorf("PopFront() = %d, want %d", got, want)
		}
	}
}

func TestBuffer_PushFailsWhenFull(t *testing.T) {
	b := ring.New[int](2)

	if !b.PushBack(1) || !b.PushBack(2) {
		t.Fatal("expected pushes up to capacity to succeed")
	}
	if b.PushBack(3) {
		t.Error("PushBack into full buffer = true, want false")
	}
	if b.Len() != 2 {
		t.Errorf("Len() = %d after failed push, want 2", b.Len())
	}

	// A failed push must have no side effect: contents are intact.
	got, _ := b.PopFront()
	if got != 1 {
		t.Errorf("PopFront() = %d, want 1", got)
	}
}

func TestBuffer_PopFailsWhenEmpty(t *testing.T) {
	b := ring.New[string](2)

	if got, ok := b.PopFront(); ok {
		t.Errorf("PopFront() on empty buffer = (%q, true), want ok=false", got)
	}
}

func TestBuffer_WrapsAround(t *testing.T) {
	b := ring.New[int](3)

	// Interleave pushes and pops so head/tail wrap past the end.
	next := 0
	pop := 0
	for range 10 {
		b.PushBack(next)
		next++
		got, ok := b.PopFront()
		if !ok {
			t.Fatal("unexpected empty buffer")
		}
		if got != pop {
			t.Errorf("PopFront() = %d, want %d", got, pop)
		}
		pop++
	}
	if b.Len() != 0 {
		t.Errorf("Len() = %d, want 0", b.Len())
	}
}

func TestBuffer_CapacityIsExact(t *testing.T) {
	const capacity = 256
	b := ring.New[int](capacity)

	for i := range capacity {
		if !b.PushBack(i) {
			t.Fatalf("PushBack failed at %d, want capacity %d", i, capacity)
		}
	}
	if b.PushBack(capacity) {
		t.Error("PushBack beyond capacity = true, want false")
	}
	if b.Cap() != capacity {
		t.Errorf("Cap() = %d, want %d", b.Cap(), capacity)
	}
}

func TestBuffer_ConcurrentProducersConsumers(t *testing.T) {
	const (
		producers   = 8
		perProducer = 1000
	)

	b := ring.New[int](64)
	var produced, consumed sync.WaitGroup
	var sum int64
	var sumMu sync.Mutex
	done := make(chan struct{})

	consumed.Add(4)
	for range 4 {
		go func() {
			defer consumed.Done()
			local := int64(0)
			for {
				v, ok := b.PopFront()
				if ok {
					local += int64(v)
					continue
				}
				select {
				case <-done:
					// Drain whatever is left after producers finish.
					for {
						v, ok := b.PopFront()
						if !ok {
							sumMu.Lock()
							sum += local
							sumMu.Unlock()
							return
						}
						local += int64(v)
					}
				default:
				}
			}
		}()
	}

	produced.Add(producers)
	for range producers {
		go func() {
			defer produced.Done()
			for i := 1; i <= perProducer; i++ {
				for !b.PushBack(i) {
					// Full: spin until a consumer frees a slot.
				}
			}
		}()
	}

	produced.Wait()
	close(done)
	consumed.Wait()

	want := int64(producers) * perProducer * (perProducer + 1) / 2
	if sum != want {
		t.Errorf("sum of consumed items = %d, want %d", sum, want)
	}
}

func TestNew_PanicsOnInvalidCapacity(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("New(0) did not panic")
		}
	}()
	ring.New[int](0)
}
