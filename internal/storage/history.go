package storage

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/example/motogo/internal/models"
)

// Filter selects history entries by status; the zero value returns everything.
type Filter struct {
	Status models.HistoryStatus
}

// ParseFilter accepts the rider app's tab names: all, completed, cancelled.
func ParseFilter(v string) (Filter, error) {
	switch v {
	case "", "all":
		return Filter{}, nil
	case string(models.HistoryCompleted), string(models.HistoryCancelled):
		return Filter{Status: models.HistoryStatus(v)}, nil
	default:
		return Filter{}, fmt.Errorf("unknown history filter %q", v)
	}
}

func (f Filter) match(e models.RideHistoryEntry) bool {
	return f.Status == "" || e.Status == f.Status
}

// HistoryStore keeps finished rides.
type HistoryStore interface {
	Append(ctx context.Context, e models.RideHistoryEntry) error
	List(ctx context.Context, f Filter) ([]models.RideHistoryEntry, error)
}

type MemoryStore struct {
	mu      sync.RWMutex
	entries []models.RideHistoryEntry
}

func NewMemoryStore(seed ...models.RideHistoryEntry) *MemoryStore {
	return &MemoryStore{entries: append([]models.RideHistoryEntry(nil), seed...)}
}

func (m *MemoryStore) Append(_ context.Context, e models.RideHistoryEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, e)
	return nil
}

// List returns matching entries, newest first.
func (m *MemoryStore) List(_ context.Context, f Filter) ([]models.RideHistoryEntry, error) {
	m.mu.RLock()
	out := make([]models.RideHistoryEntry, 0, len(m.entries))
	for _, e := range m.entries {
		if f.match(e) {
			out = append(out, e)
		}
	}
	m.mu.RUnlock()
	sort.SliceStable(out, func(i, j int) bool { return out[i].RequestedAt.After(out[j].RequestedAt) })
	return out, nil
}

func seedTime(day, hour, min int) time.Time {
	return time.Date(2025, time.January, day, hour, min, 0, 0, time.FixedZone("BRT", -3*60*60))
}

// SeedHistory is the sample history shown before any ride has been tracked.
var SeedHistory = []models.RideHistoryEntry{
	{ID: "1", RequestedAt: seedTime(15, 14, 30), Origin: "Shopping Eldorado", Destination: "Av. Paulista, 1578", Duration: "18 min", Distance: "5.2 km", Fare: "R$ 15,90", Driver: models.HistoryDriver{Name: "Carlos Silva", Rating: 4.9}, PaymentMethod: models.PaymentCard, Status: models.HistoryCompleted},
	{ID: "2", RequestedAt: seedTime(14, 9, 15), Origin: "Rua Augusta, 1234", Destination: "Aeroporto de Congonhas", Duration: "32 min", Distance: "12.8 km", Fare: "R$ 28,50", Driver: models.HistoryDriver{Name: "Maria Santos", Rating: 5.0}, PaymentMethod: models.PaymentPix, Status: models.HistoryCompleted},
	{ID: "3", RequestedAt: seedTime(12, 19, 45), Origin: "Vila Madalena", Destination: "Itaim Bibi", Duration: "0 min", Distance: "0 km", Fare: "R$ 0,00", Driver: models.HistoryDriver{Name: "João Pereira", Rating: 4.7}, PaymentMethod: models.PaymentCard, Status: models.HistoryCancelled},
	{ID: "4", RequestedAt: seedTime(10, 16, 20), Origin: "Estação da Luz", Destination: "Mercado Municipal", Duration: "12 min", Distance: "3.1 km", Fare: "R$ 9,80", Driver: models.HistoryDriver{Name: "Ana Costa", Rating: 4.8}, PaymentMethod: models.PaymentCash, Status: models.HistoryCompleted},
	{ID: "5", RequestedAt: seedTime(8, 11, 0), Origin: "Parque Ibirapuera", Destination: "Shopping Iguatemi", Duration: "25 min", Distance: "8.7 km", Fare: "R$ 19,40", Driver: models.HistoryDriver{Name: "Roberto Lima", Rating: 4.6}, PaymentMethod: models.PaymentCard, Status: models.HistoryCompleted},
}
