package storage

import (
	"context"
	"testing"
	"time"

	"github.com/example/motogo/internal/models"
)

func TestListFiltersAndSortsNewestFirst(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore(SeedHistory...)
	all, _ := m.List(ctx, Filter{})
	if len(all) != 5 || all[0].ID != "1" || all[4].ID != "5" {
		t.Fatalf("unexpected seed order %+v", all)
	}
	cancelled, _ := m.List(ctx, Filter{Status: models.HistoryCancelled})
	if len(cancelled) != 1 || cancelled[0].Origin != "Vila Madalena" {
		t.Fatalf("unexpected cancelled %+v", cancelled)
	}

	_ = m.Append(ctx, models.RideHistoryEntry{ID: "new", RequestedAt: time.Now(), Status: models.HistoryCompleted})
	completed, _ := m.List(ctx, Filter{Status: models.HistoryCompleted})
	if len(completed) != 5 || completed[0].ID != "new" {
		t.Fatalf("appended ride should come first, got %+v", completed)
	}
}

func TestParseFilter(t *testing.T) {
	for in, want := range map[string]models.HistoryStatus{"": "", "all": "", "completed": models.HistoryCompleted, "cancelled": models.HistoryCancelled} {
		f, err := ParseFilter(in)
		if err != nil || f.Status != want {
			t.Fatalf("ParseFilter(%q) = %+v, %v", in, f, err)
		}
	}
	if _, err := ParseFilter("pending"); err == nil {
		t.Fatalf("expected error for unknown filter")
	}
}
