package cache

import (
	"strings"

	"github.com/Goldenboy100/golden-exchange--sub000/internal/models"
)

// The rate-like collections historically accumulated duplicate rows keyed by
// the same (name, category) pair with whitespace or casing differences. The
// dedup pass repairs that on load, keeping the first occurrence. Running it
// again on its own output is a no-op.

// DedupRates collapses currency rates by case-insensitive-trimmed
// (name, category).
func DedupRates(rows []models.Rate) []models.Rate {
	return dedupBy(rows, func(r models.Rate) string {
		return pairKey(r.Name, string(r.Category))
	})
}

// DedupMetals collapses metal rates by case-insensitive-trimmed
// (name, category).
func DedupMetals(rows []models.MetalRate) []models.MetalRate {
	return dedupBy(rows, func(m models.MetalRate) string {
		return pairKey(m.Name, string(m.Category))
	})
}

func pairKey(name, category string) string {
	return strings.ToLower(strings.TrimSpace(name)) + "\x00" +
		strings.ToLower(strings.TrimSpace(category))
}

func dedupBy[T any](rows []T, key func(T) string) []T {
	seen := make(map[string]bool, len(rows))
	out := make([]T, 0, len(rows))
	for _, row := range rows {
		k := key(row)
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, row)
	}
	return out
}
