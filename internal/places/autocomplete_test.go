package places

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/example/motogo/internal/clock"
)

type fakeProvider struct {
	mu      sync.Mutex
	queries []string
	results int
	err     error
}

func (f *fakeProvider) Autocomplete(ctx context.Context, input string) ([]Prediction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queries = append(f.queries, input)
	if f.err != nil {
		return nil, f.err
	}
	out := make([]Prediction, f.results)
	for i := range out {
		out[i] = Prediction{Description: fmt.Sprintf("%s %d", input, i), PlaceID: fmt.Sprintf("p%d", i)}
	}
	return out, nil
}

func newTestAutocompleter(p Provider) (*Autocompleter, *clock.Manual, *[][]Prediction) {
	clk := clock.NewManual(time.Unix(0, 0))
	var got [][]Prediction
	a := NewAutocompleter(context.Background(), p, Options{
		Clock:         clk,
		OnSuggestions: func(s []Prediction) { got = append(got, s) },
	})
	return a, clk, &got
}

func TestOnlyLastInputFires(t *testing.T) {
	p := &fakeProvider{results: 2}
	a, clk, got := newTestAutocompleter(p)
	a.Input("Sho")
	clk.Advance(100 * time.Millisecond)
	a.Input("Shop")
	clk.Advance(299 * time.Millisecond)
	a.Input("Shopping")
	clk.Advance(300 * time.Millisecond)
	if len(p.queries) != 1 || p.queries[0] != "Shopping" {
		t.Fatalf("expected one query for the last input, got %v", p.queries)
	}
	if len(*got) != 1 || len((*got)[0]) != 2 {
		t.Fatalf("unexpected suggestions %v", *got)
	}
}

func TestShortInputNeverQueries(t *testing.T) {
	p := &fakeProvider{results: 1}
	a, clk, _ := newTestAutocompleter(p)
	a.Input("Sh")
	clk.Advance(time.Second)
	a.Input("Sho")
	a.Input("Sh")
	clk.Advance(time.Second)
	if len(p.queries) != 0 {
		t.Fatalf("short input queried: %v", p.queries)
	}
}

func TestPaddedShortInputNeverQueries(t *testing.T) {
	p := &fakeProvider{results: 1}
	a, clk, _ := newTestAutocompleter(p)
	a.Input("   a")
	a.Input("ab   ")
	clk.Advance(time.Second)
	if len(p.queries) != 0 {
		t.Fatalf("padded short input queried: %v", p.queries)
	}
	a.Input("  Rua  ")
	clk.Advance(time.Second)
	if len(p.queries) != 1 || p.queries[0] != "Rua" {
		t.Fatalf("expected trimmed query, got %v", p.queries)
	}
}

func TestShortInputClearsSuggestions(t *testing.T) {
	p := &fakeProvider{results: 3}
	a, clk, got := newTestAutocompleter(p)
	a.Input("Vila")
	clk.Advance(300 * time.Millisecond)
	if len(a.Suggestions()) != 3 {
		t.Fatalf("expected suggestions")
	}
	a.Input("V")
	if len(a.Suggestions()) != 0 || (*got)[len(*got)-1] != nil {
		t.Fatalf("short input should clear suggestions")
	}
}

func TestMaxResults(t *testing.T) {
	p := &fakeProvider{results: 9}
	a, clk, _ := newTestAutocompleter(p)
	a.Input("Mercado")
	clk.Advance(300 * time.Millisecond)
	if n := len(a.Suggestions()); n != DefaultMaxResults {
		t.Fatalf("expected %d suggestions, got %d", DefaultMaxResults, n)
	}
}

func TestSelectEmitsAndClears(t *testing.T) {
	p := &fakeProvider{results: 2}
	clk := clock.NewManual(time.Unix(0, 0))
	var selected Prediction
	a := NewAutocompleter(context.Background(), p, Options{Clock: clk, OnSelect: func(pr Prediction) { selected = pr }})
	a.Input("Estação")
	clk.Advance(300 * time.Millisecond)
	pr, ok := a.Lookup("p1")
	if !ok {
		t.Fatalf("lookup failed")
	}
	a.Input("Estação da")
	a.Select(pr)
	clk.Advance(time.Second)
	if selected.Description != "Estação 1" {
		t.Fatalf("unexpected selection %+v", selected)
	}
	if len(a.Suggestions()) != 0 {
		t.Fatalf("select should clear suggestions")
	}
	if len(p.queries) != 1 {
		t.Fatalf("pending input fired after select: %v", p.queries)
	}
}

func TestProviderErrorClearsSuggestions(t *testing.T) {
	p := &fakeProvider{err: errors.New("quota")}
	a, clk, got := newTestAutocompleter(p)
	a.Input("Parque")
	clk.Advance(300 * time.Millisecond)
	if len(*got) != 1 || (*got)[0] != nil {
		t.Fatalf("expected empty suggestions on error, got %v", *got)
	}
}

func TestGoogleClient(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("input") != "Av. Paulista" || q.Get("language") != "pt-BR" || q.Get("components") != "country:br" || q.Get("key") != "k" {
			t.Errorf("unexpected query %v", q)
		}
		fmt.Fprint(w, `{"status":"OK","predictions":[{"description":"Av. Paulista, 1578 - São Paulo","place_id":"abc","structured_formatting":{"main_text":"Av. Paulista, 1578","secondary_text":"São Paulo"}}]}`)
	}))
	defer srv.Close()
	preds, err := NewGoogleClient(srv.URL, "k").Autocomplete(context.Background(), "Av. Paulista")
	if err != nil {
		t.Fatal(err)
	}
	if len(preds) != 1 || preds[0].PlaceID != "abc" || preds[0].StructuredFormatting.MainText != "Av. Paulista, 1578" {
		t.Fatalf("unexpected %+v", preds)
	}
}

func TestGoogleClientRequiresKey(t *testing.T) {
	if _, err := NewGoogleClient("", "").Autocomplete(context.Background(), "abc"); !errors.Is(err, ErrNoAPIKey) {
		t.Fatalf("expected ErrNoAPIKey, got %v", err)
	}
}
