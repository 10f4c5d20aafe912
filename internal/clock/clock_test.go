package clock

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestManualFiresInDeadlineOrder(t *testing.T) {
	m := NewManual(time.Unix(0, 0))
	var got []int
	m.AfterFunc(30*time.Millisecond, func() { got = append(got, 3) })
	m.AfterFunc(10*time.Millisecond, func() { got = append(got, 1) })
	m.AfterFunc(20*time.Millisecond, func() {
		got = append(got, 2)
		m.AfterFunc(5*time.Millisecond, func() { got = append(got, 25) })
	})
	m.Advance(25 * time.Millisecond)
	if len(got) != 3 || got[0] != 1 || got[1] != 2 || got[2] != 25 {
		t.Fatalf("unexpected order %v", got)
	}
	if m.Pending() != 1 {
		t.Fatalf("expected one pending timer, got %d", m.Pending())
	}
	if !m.Now().Equal(time.Unix(0, 0).Add(25 * time.Millisecond)) {
		t.Fatalf("unexpected now %v", m.Now())
	}
}

func TestManualStop(t *testing.T) {
	m := NewManual(time.Unix(0, 0))
	fired := false
	tm := m.AfterFunc(time.Second, func() { fired = true })
	if !tm.Stop() {
		t.Fatalf("expected stop to succeed")
	}
	if tm.Stop() {
		t.Fatalf("second stop should report false")
	}
	m.Advance(2 * time.Second)
	if fired {
		t.Fatalf("stopped timer fired")
	}
}

func TestSleepHonoursContext(t *testing.T) {
	m := NewManual(time.Unix(0, 0))
	ctx, cancel := context.WithCancel(context.Background())
	errc := make(chan error, 1)
	go func() { errc <- Sleep(ctx, m, time.Minute) }()
	m.BlockUntil(1)
	cancel()
	if err := <-errc; !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestSleepReturnsAfterAdvance(t *testing.T) {
	m := NewManual(time.Unix(0, 0))
	errc := make(chan error, 1)
	go func() { errc <- Sleep(context.Background(), m, 1500*time.Millisecond) }()
	m.BlockUntil(1)
	m.Advance(1499 * time.Millisecond)
	select {
	case err := <-errc:
		t.Fatalf("sleep returned early: %v", err)
	default:
	}
	m.Advance(time.Millisecond)
	if err := <-errc; err != nil {
		t.Fatalf("unexpected error %v", err)
	}
}
