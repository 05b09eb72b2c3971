package repository

import (
	"strings"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/iliyamo/quickshow/internal/model"
)

func TestBuildShowInsert(t *testing.T) {
	loc := time.FixedZone("UTC+2", 2*60*60)
	batch := []model.Show{
		model.NewShow("550", time.Date(2024, 5, 1, 14, 30, 0, 0, loc), 12),
		model.NewShow("550", time.Date(2024, 5, 1, 18, 0, 0, 0, loc), 12),
	}
	q, args, err := buildShowInsert(batch)
	if err != nil {
		t.Fatal(err)
	}
	if got := strings.Count(q, "(?, ?, ?, ?)"); got != 2 {
		t.Fatalf("expected 2 placeholder groups, got %d in %q", got, q)
	}
	if len(args) != 8 {
		t.Fatalf("expected 8 args, got %d", len(args))
	}
	if seats, ok := args[3].([]byte); !ok || string(seats) != "{}" {
		t.Fatalf("occupied seats must be written as {}, got %#v", args[3])
	}
	at, ok := args[1].(time.Time)
	if !ok || at.Location() != time.UTC || at.Hour() != 12 {
		t.Fatalf("show time should be stored in UTC, got %#v", args[1])
	}
}

func TestShowDocumentKeepsEmptySeatMap(t *testing.T) {
	s := model.NewShow("550", time.Date(2024, 5, 2, 20, 0, 0, 0, time.UTC), 9.5)
	raw, err := bson.Marshal(newShowDocument(s, time.Now().UTC()))
	if err != nil {
		t.Fatal(err)
	}
	v := bson.Raw(raw).Lookup("occupiedSeats")
	if v.Type != bson.TypeEmbeddedDocument {
		t.Fatalf("occupiedSeats must be an embedded document, got %v", v.Type)
	}
	elems, err := v.Document().Elements()
	if err != nil {
		t.Fatal(err)
	}
	if len(elems) != 0 {
		t.Fatalf("expected empty document, got %d elements", len(elems))
	}
	if mv := bson.Raw(raw).Lookup("movie").StringValue(); mv != "550" {
		t.Fatalf("unexpected movie %q", mv)
	}
}

func TestNormalizeMovieFillsLists(t *testing.T) {
	m := &model.Movie{ID: "1"}
	normalizeMovie(m)
	if m.Genres == nil || m.Casts == nil {
		t.Fatalf("lists must be non-nil after normalize")
	}
	if m.CreatedAt.IsZero() || !m.UpdatedAt.Equal(m.CreatedAt) {
		t.Fatalf("timestamps not set: %+v", m)
	}
}
