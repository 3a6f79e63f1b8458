package market

import (
	"fmt"
	"math/rand"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rec(crop, market, location string, price float64) PriceRecord {
	return PriceRecord{Crop: crop, Market: market, Location: location, Price: price, Unit: "Quintal"}
}

func ranked(p PriceRecord, best bool) RankedPriceRecord {
	return RankedPriceRecord{PriceRecord: p, IsBest: best}
}

func TestSelectPrices_Scenarios(t *testing.T) {
	wheatRampur := rec("Wheat", "Rampur", "Rampur", 2350)
	wheatSitaPur := rec("Wheat", "SitaPur", "SitaPur", 2310)
	riceRampur := rec("Rice", "Rampur", "Rampur", 3400)

	embedded, err := LoadEmbedded()
	require.NoError(t, err)

	tests := []struct {
		name     string
		catalog  []PriceRecord
		location string
		crop     string
		want     []RankedPriceRecord
	}{
		{
			name:     "location and crop match",
			catalog:  []PriceRecord{wheatRampur, wheatSitaPur, riceRampur},
			location: "Rampur",
			crop:     "Wheat",
			want: []RankedPriceRecord{
				ranked(wheatRampur, true),
				ranked(riceRampur, false),
				ranked(wheatSitaPur, false),
			},
		},
		{
			name:     "unknown village without crop falls back to first four",
			catalog:  embedded.Records,
			location: "Unknown Village",
			want: []RankedPriceRecord{
				ranked(embedded.Records[0], false),
				ranked(embedded.Records[1], false),
				ranked(embedded.Records[2], false),
				ranked(embedded.Records[3], false),
			},
		},
		{
			name:     "empty catalog",
			catalog:  nil,
			location: "Rampur",
			crop:     "Wheat",
			want:     []RankedPriceRecord{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SelectPrices(tt.catalog, tt.location, tt.crop)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("SelectPrices() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestSelectPrices_EdgeCases(t *testing.T) {
	t.Run("matching is case-insensitive", func(t *testing.T) {
		catalog := []PriceRecord{rec("Wheat", "Rampur Mandi", "Rampur", 2350), rec("Wheat", "Aligarh Mandi", "Aligarh", 2400)}
		got := SelectPrices(catalog, "  rampur ", "WHEAT")
		require.Len(t, got, 2)
		assert.False(t, got[0].IsBest)
		assert.True(t, got[1].IsBest)
	})

	t.Run("other crop prices are capped at two", func(t *testing.T) {
		catalog := []PriceRecord{
			rec("Wheat", "A", "A", 1),
			rec("Wheat", "B", "B", 2),
			rec("Wheat", "C", "C", 3),
			rec("Rice", "D", "D", 4),
		}
		got := SelectPrices(catalog, "Nowhere", "Wheat")
		want := []RankedPriceRecord{
			ranked(catalog[0], false),
			ranked(catalog[1], true),
			ranked(catalog[3], false),
		}
		assert.Empty(t, cmp.Diff(want, got))
	})

	t.Run("filler slots never go negative", func(t *testing.T) {
		catalog := []PriceRecord{
			rec("Wheat", "M1", "Rampur", 1),
			rec("Rice", "M1", "Rampur", 2),
			rec("Gram", "M1", "Rampur", 3),
			rec("Wheat", "M2", "Aligarh", 4),
			rec("Cotton", "M3", "Nagpur", 5),
		}
		got := SelectPrices(catalog, "Rampur", "Wheat")
		require.Len(t, got, 4)
		for _, r := range got {
			assert.NotEqual(t, "Cotton", r.Crop)
		}
		assert.True(t, got[3].IsBest)
	})

	t.Run("result is truncated to five", func(t *testing.T) {
		var catalog []PriceRecord
		for i := 0; i < 7; i++ {
			catalog = append(catalog, rec(fmt.Sprintf("Crop%d", i), "Rampur Mandi", "Rampur", float64(100+i)))
		}
		got := SelectPrices(catalog, "Rampur", "")
		require.Len(t, got, 5)
		assert.Equal(t, "Crop4", got[4].Crop)
	})

	t.Run("duplicates keep the first occurrence", func(t *testing.T) {
		catalog := []PriceRecord{
			rec("Wheat", "Rampur Mandi", "Rampur", 2000),
			rec("Wheat", "Rampur Mandi", "Rampur", 2500),
			rec("Rice", "Rampur Mandi", "Rampur", 3000),
		}
		got := SelectPrices(catalog, "Rampur", "Wheat")
		require.Len(t, got, 2)
		assert.Equal(t, 2000.0, got[0].Price)
		assert.True(t, got[0].IsBest)
	})

	t.Run("ties go to the first record", func(t *testing.T) {
		catalog := []PriceRecord{
			rec("Wheat", "Rampur Mandi", "Rampur", 2350),
			rec("Wheat", "Sita Pur Mandi", "Sita Pur", 2350),
		}
		got := SelectPrices(catalog, "Rampur", "Wheat")
		require.Len(t, got, 2)
		assert.True(t, got[0].IsBest)
		assert.False(t, got[1].IsBest)
	})

	t.Run("crop without any price has no best", func(t *testing.T) {
		catalog := []PriceRecord{rec("Rice", "Rampur Mandi", "Rampur", 3400)}
		got := SelectPrices(catalog, "Rampur", "Millet")
		require.Len(t, got, 1)
		assert.False(t, got[0].IsBest)
	})

	t.Run("short catalog fallback returns everything", func(t *testing.T) {
		catalog := []PriceRecord{rec("Rice", "Rampur Mandi", "Rampur", 3400)}
		got := SelectPrices(catalog, "Meerut", "")
		assert.Empty(t, cmp.Diff([]RankedPriceRecord{ranked(catalog[0], false)}, got))
	})
}

func TestSelectPrices_Properties(t *testing.T) {
	crops := []string{"Wheat", "Rice", "Maize", "Cotton"}
	places := []string{"Rampur", "Sita Pur", "Aligarh", "Nagpur", "Meerut"}
	rng := rand.New(rand.NewSource(42))

	for i := 0; i < 500; i++ {
		n := 1 + rng.Intn(12)
		catalog := make([]PriceRecord, n)
		for j := range catalog {
			place := places[rng.Intn(len(places))]
			catalog[j] = rec(crops[rng.Intn(len(crops))], place+" Mandi", place, float64(1+rng.Intn(5))*1000)
		}
		snapshot := append([]PriceRecord(nil), catalog...)

		location := places[rng.Intn(len(places))]
		if rng.Intn(4) == 0 {
			location = "Unknown Village"
		}
		crop := ""
		if rng.Intn(3) > 0 {
			crop = crops[rng.Intn(len(crops))]
		}

		got := SelectPrices(catalog, location, crop)

		require.GreaterOrEqual(t, len(got), 1)
		require.LessOrEqual(t, len(got), 5)
		assert.Equal(t, snapshot, catalog, "catalog must not be modified")
		assert.Empty(t, cmp.Diff(got, SelectPrices(catalog, location, crop)), "selection must be idempotent")

		if matchesNothing(catalog, location, crop) {
			// The fallback is the raw catalog head, duplicates included.
			want := fallback(catalog)
			assert.Empty(t, cmp.Diff(want, got))
			assert.Len(t, got, min(4, len(catalog)))
			continue
		}

		seen := map[marketCrop]bool{}
		bestCount := 0
		for _, r := range got {
			assert.False(t, seen[r.key()], "duplicate (market, crop) %v", r.key())
			seen[r.key()] = true
			if r.IsBest {
				bestCount++
			}
		}

		var sameCrop []RankedPriceRecord
		for _, r := range got {
			if crop != "" && strings.EqualFold(r.Crop, crop) {
				sameCrop = append(sameCrop, r)
			}
		}
		if len(sameCrop) == 0 {
			assert.Zero(t, bestCount)
			continue
		}
		require.Equal(t, 1, bestCount)
		best, ok := Best(got)
		require.True(t, ok)
		for _, r := range sameCrop {
			assert.GreaterOrEqual(t, best.Price, r.Price)
		}
	}
}

func matchesNothing(catalog []PriceRecord, location, crop string) bool {
	for _, p := range catalog {
		if strings.EqualFold(p.Location, location) || (crop != "" && strings.EqualFold(p.Crop, crop)) {
			return false
		}
	}
	return true
}

func TestSelectPrices_FallbackKeepsDuplicates(t *testing.T) {
	catalog := []PriceRecord{
		rec("Wheat", "Sita Pur Mandi", "Sita Pur", 2310),
		rec("Wheat", "Sita Pur Mandi", "Sita Pur", 2320),
		rec("Rice", "Aligarh Mandi", "Aligarh", 3300),
	}
	got := SelectPrices(catalog, "Meerut", "Cotton")
	want := []RankedPriceRecord{ranked(catalog[0], false), ranked(catalog[1], false), ranked(catalog[2], false)}
	assert.Empty(t, cmp.Diff(want, got))
}
