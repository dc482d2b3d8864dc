package queue

import (
	"sync"
	"testing"
	"time"

	"github.com/backmassage/vidfeed/internal/transcode"
)

func art(path string) transcode.Artifact {
	return transcode.Artifact{Path: path}
}

func TestTryEnqueue_CapacityCeiling(t *testing.T) {
	q := New(3)
	for i := 0; i < 3; i++ {
		if !q.TryEnqueue(art("a")) {
			t.Fatalf("enqueue %d refused below capacity", i)
		}
	}
	if q.TryEnqueue(art("overflow")) {
		t.Error("enqueue past capacity must be refused")
	}
	if q.Len() != 3 {
		t.Errorf("Len = %d, want 3", q.Len())
	}
}

func TestTryEnqueue_NeverBlocks(t *testing.T) {
	q := New(1)
	q.TryEnqueue(art("fill"))

	done := make(chan bool, 1)
	go func() { done <- q.TryEnqueue(art("x")) }()

	select {
	case ok := <-done:
		if ok {
			t.Error("full queue admitted an artifact")
		}
	case <-time.After(time.Second):
		t.Fatal("TryEnqueue blocked on a full queue")
	}
}

func TestTryDequeue_FIFO(t *testing.T) {
	q := New(2)
	q.TryEnqueue(art("first"))
	q.TryEnqueue(art("second"))

	a, ok := q.TryDequeue()
	if !ok || a.Path != "first" {
		t.Errorf("got (%v, %v), want first", a.Path, ok)
	}
	a, ok = q.TryDequeue()
	if !ok || a.Path != "second" {
		t.Errorf("got (%v, %v), want second", a.Path, ok)
	}
	if _, ok := q.TryDequeue(); ok {
		t.Error("dequeue from empty queue should report false")
	}
}

func TestTryEnqueue_RefillAfterDequeue(t *testing.T) {
	q := New(1)
	q.TryEnqueue(art("a"))
	q.TryDequeue()
	if !q.TryEnqueue(art("b")) {
		t.Error("space freed by dequeue should be reusable")
	}
}

func TestQueue_ConcurrentProducersRespectBound(t *testing.T) {
	const producers = 16
	const perProducer = 50
	q := New(7)

	var wg sync.WaitGroup
	var admitted sync.Map
	for i := 0; i < producers; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for j := 0; j < perProducer; j++ {
				q.TryEnqueue(art("x"))
				if q.Len() > q.Cap() {
					admitted.Store(id, true)
				}
			}
		}(i)
	}
	wg.Wait()

	admitted.Range(func(k, v any) bool {
		t.Fatalf("observed queue length above capacity (producer %v)", k)
		return false
	})
	if q.Len() != 7 {
		t.Errorf("Len = %d, want capacity 7 with no consumer draining", q.Len())
	}
}

func TestNew_RejectsZeroCapacity(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("New(0) should panic")
		}
	}()
	New(0)
}
