package tracker

import (
	"errors"
	"testing"
	"time"

	"github.com/example/motogo/internal/clock"
	"github.com/example/motogo/internal/models"
)

func TestRegistryKeepsSessionsIndependent(t *testing.T) {
	clk := clock.NewManual(time.Unix(0, 0))
	r := NewRegistry()
	a, err := r.Open(Options{RideID: "a", Clock: clk})
	if err != nil {
		t.Fatal(err)
	}
	clk.Advance(3 * time.Second)
	b, err := r.Open(Options{RideID: "b", Clock: clk})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := r.Open(Options{RideID: "a", Clock: clk}); !errors.Is(err, ErrExists) {
		t.Fatalf("expected ErrExists, got %v", err)
	}
	a.Cancel()
	clk.Advance(3 * time.Second)
	if st := b.Snapshot(); st.Status != models.StatusFound {
		t.Fatalf("b should be found, got %s", st.Status)
	}
	if st := a.Snapshot(); st.Status != models.StatusFound {
		t.Fatalf("a should have found again, got %s", st.Status)
	}
	if r.Len() != 2 {
		t.Fatalf("expected 2 sessions, got %d", r.Len())
	}
}

func TestRegistryClose(t *testing.T) {
	clk := clock.NewManual(time.Unix(0, 0))
	r := NewRegistry()
	if _, err := r.Open(Options{RideID: "a", Clock: clk}); err != nil {
		t.Fatal(err)
	}
	clk.Advance(3 * time.Second)
	last, err := r.Close("a")
	if err != nil || last.Status != models.StatusFound {
		t.Fatalf("unexpected close result %+v %v", last, err)
	}
	if _, ok := r.Get("a"); ok {
		t.Fatalf("closed session still registered")
	}
	if _, err := r.Close("a"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if clk.Pending() != 0 {
		t.Fatalf("closed session left timers: %d", clk.Pending())
	}
}
