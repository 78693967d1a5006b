package ratelimit

import (
	"testing"
	"time"
)

func TestTokenBucket(t *testing.T) {
	tb := NewTokenBucket(5, time.Second)

	// Test initial capacity
	for i := 0; i < 5; i++ {
		if !tb.Allow() {
			t.Errorf("Expected token %d to be available", i+1)
		}
	}

	// Test exhaustion
	if tb.Allow() {
		t.Error("Expected no more tokens to be available")
	}

	// Test refill after waiting
	time.Sleep(time.Second + 100*time.Millisecond)
	if !tb.Allow() {
		t.Error("Expected tokens to be refilled after waiting")
	}

	// Test reset
	tb.tokens = 0
	tb.Reset()
	if tb.tokens != tb.capacity {
		t.Error("Expected tokens to be reset to capacity")
	}
}

func TestInterval(t *testing.T) {
	interval := NewInterval(50 * time.Millisecond)

	// First call passes immediately
	start := time.Now()
	interval.Wait()
	if elapsed := time.Since(start); elapsed > 10*time.Millisecond {
		t.Errorf("Expected first Wait to pass immediately, took %v", elapsed)
	}

	// Second call is spaced by the interval
	start = time.Now()
	interval.Wait()
	if elapsed := time.Since(start); elapsed < 40*time.Millisecond {
		t.Errorf("Expected second Wait to block for the interval, took %v", elapsed)
	}
}

func TestIntervalAllow(t *testing.T) {
	interval := NewInterval(time.Second)

	if !interval.Allow() {
		t.Error("Expected first Allow to pass")
	}
	if interval.Allow() {
		t.Error("Expected second Allow to be denied inside the interval")
	}
}

func TestIntervalReset(t *testing.T) {
	interval := NewInterval(time.Second)

	interval.Wait()
	interval.Reset()

	start := time.Now()
	interval.Wait()
	if elapsed := time.Since(start); elapsed > 10*time.Millisecond {
		t.Errorf("Expected Wait after Reset to pass immediately, took %v", elapsed)
	}
}

func TestIntervalZero(t *testing.T) {
	interval := NewInterval(0)

	// A zero interval never blocks
	for i := 0; i < 3; i++ {
		start := time.Now()
		interval.Wait()
		if elapsed := time.Since(start); elapsed > 10*time.Millisecond {
			t.Errorf("Expected zero-interval Wait to pass immediately, took %v", elapsed)
		}
	}
}
