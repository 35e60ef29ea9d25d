package utils

import (
	"sync/atomic"
	"testing"
	"time"
)

func TestURLSetNoDuplicates(t *testing.T) {
	s := NewURLSet()

	if !s.Add("https://www.daraz.com.np/products/a-i1.html") {
		t.Error("first Add should return true")
	}
	if s.Add("https://www.daraz.com.np/products/a-i1.html") {
		t.Error("second Add of same URL should return false")
	}
	if s.Size() != 1 {
		t.Errorf("size: got %d, want 1", s.Size())
	}
}

func TestURLSetConcurrency(t *testing.T) {
	s := NewURLSet()
	var added int64

	pool := NewWorkerPool(10, 0)
	for i := 0; i < 100; i++ {
		url := "https://www.daraz.com.np/products/same-i7.html"
		pool.Submit(func() {
			if s.Add(url) {
				atomic.AddInt64(&added, 1)
			}
		})
	}
	pool.Wait()

	if added != 1 {
		t.Errorf("expected exactly 1 successful add, got %d", added)
	}
}

func TestWorkerPoolRateLimit(t *testing.T) {
	rateLimitMs := 100
	pool := NewWorkerPool(1, rateLimitMs)

	var timestamps []time.Time
	mu := make(chan struct{}, 1)
	mu <- struct{}{}

	for i := 0; i < 3; i++ {
		pool.Submit(func() {
			<-mu
			timestamps = append(timestamps, time.Now())
			mu <- struct{}{}
		})
	}
	pool.Wait()

	for i := 1; i < len(timestamps); i++ {
		gap := timestamps[i].Sub(timestamps[i-1])
		min := time.Duration(rateLimitMs) * time.Millisecond
		if gap < min {
			t.Errorf("gap between job %d and %d: %v < minimum %v", i-1, i, gap, min)
		}
	}
}

func TestWorkerPoolMinimumSize(t *testing.T) {
	pool := NewWorkerPool(0, 0)

	var ran int64
	pool.Submit(func() { atomic.AddInt64(&ran, 1) })
	pool.Wait()

	if ran != 1 {
		t.Errorf("job did not run on a size-0 pool (clamped to 1)")
	}
}

func TestRetrySucceedsAfterFailures(t *testing.T) {
	logger := NewLogger()
	attempts := 0

	err := Retry("flaky", 3, time.Millisecond, logger, func() error {
		attempts++
		if attempts < 3 {
			return errTest
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Retry: %v", err)
	}
	if attempts != 3 {
		t.Errorf("attempts = %d; want 3", attempts)
	}
}

func TestRetryExhaustsAttempts(t *testing.T) {
	logger := NewLogger()

	err := Retry("hopeless", 2, time.Millisecond, logger, func() error { return errTest })
	if err == nil {
		t.Fatal("expected error after exhausting attempts")
	}
}

var errTest = &testError{}

type testError struct{}

func (*testError) Error() string { return "test error" }
