package reconcile

import (
	"testing"
	"time"

	"github.com/Goldenboy100/golden-exchange--sub000/internal/models"

	"github.com/shopspring/decimal"
)

func rate(id string, buy, sell int64) models.Rate {
	return models.Rate{
		Id:       id,
		Name:     "Rate " + id,
		Code:     "R" + id,
		Category: models.RateLocal,
		Buy:      decimal.NewFromInt(buy),
		Sell:     decimal.NewFromInt(sell),
	}
}

func metal(id string) models.MetalRate {
	return models.MetalRate{
		Id:   id,
		Name: "Metal " + id,
		Buy:  decimal.NewFromInt(10),
		Sell: decimal.NewFromInt(11),
	}
}

func TestDiffEditedRowIsUpsertedAlone(t *testing.T) {
	prev := []models.Rate{rate("usd", 1000, 1010), rate("eur", 1090, 1105)}
	next := []models.Rate{rate("usd", 1002, 1012), prev[1]}

	ch := Diff("rates", prev, next)

	if len(ch.Removed) != 0 {
		t.Errorf("expected no removals, got %v", ch.Removed)
	}
	if len(ch.Upserted) != 1 {
		t.Fatalf("expected 1 upsert, got %d", len(ch.Upserted))
	}
	if ch.Upserted[0].Id != "usd" {
		t.Errorf("expected usd to be upserted, got %s", ch.Upserted[0].Id)
	}
}

func TestDiffRemovalOnly(t *testing.T) {
	prev := []models.MetalRate{metal("1"), metal("2"), metal("3")}
	next := []models.MetalRate{prev[0], prev[2]}

	ch := Diff("metals", prev, next)

	if len(ch.Upserted) != 0 {
		t.Errorf("expected no upserts, got %d", len(ch.Upserted))
	}
	if len(ch.Removed) != 1 || ch.Removed[0] != "2" {
		t.Errorf("expected removed [2], got %v", ch.Removed)
	}
}

func TestDiffNewRowIsUpserted(t *testing.T) {
	prev := []models.Rate{rate("usd", 1000, 1010)}
	next := []models.Rate{prev[0], rate("gbp", 1270, 1285)}

	ch := Diff("rates", prev, next)

	if len(ch.Removed) != 0 {
		t.Errorf("expected no removals, got %v", ch.Removed)
	}
	if len(ch.Upserted) != 1 || ch.Upserted[0].Id != "gbp" {
		t.Errorf("expected only gbp upserted, got %+v", ch.Upserted)
	}
}

func TestDiffUnchangedSnapshotsAreEmpty(t *testing.T) {
	now := time.Now()
	prev := []models.Rate{rate("usd", 1000, 1010)}
	prev[0].LastUpdated = now
	// A structurally equal copy, not the same backing array.
	next := []models.Rate{rate("usd", 1000, 1010)}
	next[0].LastUpdated = now

	ch := Diff("rates", prev, next)
	if !ch.Empty() {
		t.Errorf("expected empty diff, got removed=%v upserted=%+v", ch.Removed, ch.Upserted)
	}
}

func TestDiffDecimalValueEquality(t *testing.T) {
	a := rate("usd", 1000, 1010)
	b := a
	// Same numeric value, different internal exponent.
	b.Buy = decimal.NewFromFloat(1000.0)

	ch := Diff("rates", []models.Rate{a}, []models.Rate{b})
	if !ch.Empty() {
		t.Errorf("decimals equal by value must not produce a diff, got %+v", ch.Upserted)
	}
}

func TestDiffSetsAreDisjoint(t *testing.T) {
	prev := []models.Rate{rate("usd", 1000, 1010), rate("eur", 1090, 1105)}
	next := []models.Rate{rate("usd", 1001, 1011), rate("gbp", 1270, 1285)}

	ch := Diff("rates", prev, next)

	removed := make(map[string]bool)
	for _, id := range ch.Removed {
		removed[id] = true
	}
	for _, row := range ch.Upserted {
		if removed[row.Id] {
			t.Errorf("id %s appears in both Removed and Upserted", row.Id)
		}
	}
	if len(ch.Removed) != 1 || ch.Removed[0] != "eur" {
		t.Errorf("expected removed [eur], got %v", ch.Removed)
	}
	if len(ch.Upserted) != 2 {
		t.Errorf("expected 2 upserts, got %d", len(ch.Upserted))
	}
}

func TestDiffPanicsOnEmptyId(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on empty record id")
		}
	}()
	Diff("rates", nil, []models.Rate{rate("", 1, 2)})
}
