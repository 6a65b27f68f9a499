package cache

import (
	"testing"

	"github.com/Goldenboy100/golden-exchange--sub000/internal/models"
)

func TestDedupRatesCollapsesCaseAndWhitespace(t *testing.T) {
	rows := []models.Rate{
		{Id: "1", Name: "USD", Category: models.RateLocal},
		{Id: "2", Name: " usd ", Category: models.RateLocal},
		{Id: "3", Name: "EUR", Category: models.RateLocal},
	}

	got := DedupRates(rows)
	if len(got) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(got))
	}
	// First occurrence wins.
	if got[0].Id != "1" || got[1].Id != "3" {
		t.Errorf("expected ids [1 3], got [%s %s]", got[0].Id, got[1].Id)
	}
}

func TestDedupRatesKeepsDistinctCategories(t *testing.T) {
	rows := []models.Rate{
		{Id: "1", Name: "USD", Category: models.RateLocal},
		{Id: "2", Name: "USD", Category: models.RateTransfer},
	}

	if got := DedupRates(rows); len(got) != 2 {
		t.Errorf("same name in different categories must both survive, got %d", len(got))
	}
}

func TestDedupIsIdempotent(t *testing.T) {
	rows := []models.MetalRate{
		{Id: "1", Name: "Gold", Category: models.MetalGold},
		{Id: "2", Name: "gold", Category: models.MetalGold},
		{Id: "3", Name: "Silver", Category: models.MetalSilver},
	}

	once := DedupMetals(rows)
	twice := DedupMetals(once)

	if len(once) != 2 || len(twice) != len(once) {
		t.Errorf("dedup not idempotent: once=%d twice=%d", len(once), len(twice))
	}
	for i := range once {
		if once[i].Id != twice[i].Id {
			t.Errorf("second pass reordered rows: %v vs %v", once, twice)
		}
	}
}
