package lock

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

func TestLocalKeyLocker_SerializesSameKey(t *testing.T) {
	locker := NewLocalKeyLocker(0)

	var mu sync.Mutex
	inside := 0
	maxInside := 0

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock, err := locker.Lock(context.Background(), "act_1")
			if err != nil {
				t.Errorf("unexpected lock error: %v", err)
				return
			}
			mu.Lock()
			inside++
			if inside > maxInside {
				maxInside = inside
			}
			mu.Unlock()

			time.Sleep(2 * time.Millisecond)

			mu.Lock()
			inside--
			mu.Unlock()
			unlock()
		}()
	}
	wg.Wait()

	if maxInside != 1 {
		t.Fatalf("expected one holder at a time, saw %d", maxInside)
	}
	if len(locker.locks) != 0 {
		t.Fatalf("expected lock table to be empty, got %d entries", len(locker.locks))
	}
}

func TestLocalKeyLocker_IndependentKeys(t *testing.T) {
	locker := NewLocalKeyLocker(50 * time.Millisecond)

	unlockA, err := locker.Lock(context.Background(), "a")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer unlockA()

	unlockB, err := locker.Lock(context.Background(), "b")
	if err != nil {
		t.Fatalf("expected a different key to be free: %v", err)
	}
	unlockB()
}

func TestLocalKeyLocker_WaitTimeout(t *testing.T) {
	locker := NewLocalKeyLocker(20 * time.Millisecond)

	unlock, err := locker.Lock(context.Background(), "a")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := locker.Lock(context.Background(), "a"); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}

	unlock()
	unlock() // releasing twice is a no-op

	again, err := locker.Lock(context.Background(), "a")
	if err != nil {
		t.Fatalf("expected key to be free after release: %v", err)
	}
	again()
}
