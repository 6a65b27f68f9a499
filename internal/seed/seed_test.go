package seed

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Goldenboy100/golden-exchange--sub000/internal/models"

	"github.com/shopspring/decimal"
)

func TestDefaultsAreWellFormed(t *testing.T) {
	d := Defaults()

	if len(d.Rates) == 0 || len(d.Metals) == 0 || len(d.Crypto) == 0 {
		t.Fatal("defaults must seed every rate board")
	}
	for _, r := range d.Rates {
		if r.Id == "" {
			t.Errorf("rate %q has no id", r.Name)
		}
	}
	if d.Config.Id != models.AppConfigId {
		t.Errorf("config id = %d, want %d", d.Config.Id, models.AppConfigId)
	}
}

func TestLoadEmptyPathUsesDefaults(t *testing.T) {
	d := Load("")
	if len(d.Rates) == 0 {
		t.Error("empty path must fall back to built-in defaults")
	}
}

func TestLoadBrokenFileFallsBack(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seed.yaml")
	if err := os.WriteFile(path, []byte("rates: [this is: not valid"), 0o644); err != nil {
		t.Fatal(err)
	}

	d := Load(path)
	if len(d.Rates) == 0 {
		t.Error("broken seed file must fall back to defaults, not fail startup")
	}
}

func TestLoadFileOverridesCollections(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seed.yaml")
	content := `
rates:
  - id: aed-local
    name: UAE Dirham
    code: AED
    category: local
    buy: 272.5
    sell: 275
crypto:
  - id: sol
    symbol: SOL
    price: 145.3
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	d, err := LoadFile(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if len(d.Rates) != 1 || d.Rates[0].Id != "aed-local" {
		t.Errorf("rates not overridden: %+v", d.Rates)
	}
	if !d.Rates[0].Buy.Equal(decimal.NewFromFloat(272.5)) {
		t.Errorf("buy = %s, want 272.5", d.Rates[0].Buy)
	}
	if len(d.Crypto) != 1 || d.Crypto[0].Symbol != "SOL" {
		t.Errorf("crypto not overridden: %+v", d.Crypto)
	}
	// Collections absent from the file keep their defaults.
	if len(d.Metals) == 0 {
		t.Error("metals should keep built-in defaults")
	}
}

func TestLoadFileRejectsMissingId(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seed.yaml")
	content := `
rates:
  - name: No Id Here
    code: XXX
    category: local
    buy: 1
    sell: 2
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadFile(path); err == nil {
		t.Error("expected error for rate without id")
	}
}
