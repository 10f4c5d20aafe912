package geo

import (
	"context"
	"testing"

	"github.com/example/motogo/internal/models"
)

func TestHaversineZero(t *testing.T) {
	d := Haversine(0, 0, 0, 0)
	if d != 0 {
		t.Fatalf("expected 0, got %f", d)
	}
}

func TestNearbySkipsOfflineAndSortsByDistance(t *testing.T) {
	ctx := context.Background()
	idx := NewIndex()
	_ = idx.Upsert(ctx, models.FleetDriver{ID: "far", Loc: models.Coord{Lat: -1.76, Lon: -55.87}, Online: true})
	_ = idx.Upsert(ctx, models.FleetDriver{ID: "near", Loc: models.Coord{Lat: -1.765, Lon: -55.865}, Online: true})
	_ = idx.Upsert(ctx, models.FleetDriver{ID: "off", Loc: models.Coord{Lat: -1.766, Lon: -55.866}, Online: false})
	got, err := idx.Nearby(ctx, -1.766, -55.866, 5)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || got[0].ID != "near" || got[1].ID != "far" {
		t.Fatalf("unexpected order %+v", got)
	}
	got, _ = idx.Nearby(ctx, -1.766, -55.866, 1)
	if len(got) != 1 {
		t.Fatalf("limit ignored: %d", len(got))
	}
}

func TestMetaRoundTrip(t *testing.T) {
	d := models.FleetDriver{ID: "d1", Name: "Ana Costa", Vehicle: "Yamaha Factor", Plate: "QRS-2B34", Rating: 4.8, Online: true}
	fields := MetaFields(d)
	m := make(map[string]string, len(fields))
	for k, v := range fields {
		m[k] = v.(string)
	}
	var out models.FleetDriver
	applyMeta(&out, m)
	if out.Name != d.Name || out.Plate != d.Plate || out.Rating != 4.8 || !out.Online {
		t.Fatalf("unexpected %+v", out)
	}
}
