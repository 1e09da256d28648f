//go:build integration

package gbif

import (
	"context"
	"testing"
	"time"
)

func TestLiveMatch_Integration(t *testing.T) {
	client := NewClient(nil, 0)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	m, err := client.MatchByName(ctx, "Panthera leo")
	if err != nil {
		t.Fatalf("MatchByName: %v", err)
	}
	if m.Key() != 5219404 {
		t.Errorf("Panthera leo key = %d, want 5219404", m.Key())
	}

	rec, err := client.GetTaxon(ctx, m.Key())
	if err != nil {
		t.Fatalf("GetTaxon: %v", err)
	}
	if rec.CanonicalName != "Panthera leo" || rec.ParentKey == 0 {
		t.Errorf("record = %+v", rec)
	}
}
