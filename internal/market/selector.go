package market

import "strings"

const (
	maxOtherCropPrices = 2
	fillTarget         = 3
	maxSelected        = 5
	fallbackSize       = 4
)

// SelectPrices picks up to five prices for a farmer in location, growing
// crop (empty when unknown):
//
//   - every record in the farmer's location,
//   - up to two prices for the crop from other locations,
//   - unrelated records from elsewhere to bring the list to three.
//
// Records are deduplicated by (market, crop). When nothing matches the
// location or the crop, the first four catalog entries are returned as-is.
// The highest same-crop price is marked best; ties go to the record
// listed first. SelectPrices never modifies catalog.
func SelectPrices(catalog []PriceRecord, location, crop string) []RankedPriceRecord {
	if len(catalog) == 0 {
		return []RankedPriceRecord{}
	}

	location = strings.TrimSpace(location)
	crop = strings.TrimSpace(crop)
	hasCrop := crop != ""

	var inLocation, otherForCrop, filler []PriceRecord
	for _, p := range catalog {
		switch {
		case strings.EqualFold(p.Location, location):
			inLocation = append(inLocation, p)
		case hasCrop && strings.EqualFold(p.Crop, crop):
			if len(otherForCrop) < maxOtherCropPrices {
				otherForCrop = append(otherForCrop, p)
			}
		default:
			filler = append(filler, p)
		}
	}

	if len(inLocation) == 0 && len(otherForCrop) == 0 {
		return fallback(catalog)
	}

	slots := fillTarget - len(inLocation) - len(otherForCrop)
	if slots < 0 {
		slots = 0
	}
	if slots < len(filler) {
		filler = filler[:slots]
	}

	combined := make([]PriceRecord, 0, len(inLocation)+len(otherForCrop)+len(filler))
	combined = append(combined, inLocation...)
	combined = append(combined, otherForCrop...)
	combined = append(combined, filler...)

	selected := dedupe(combined)
	if len(selected) > maxSelected {
		selected = selected[:maxSelected]
	}
	if len(selected) == 0 {
		return fallback(catalog)
	}

	out := make([]RankedPriceRecord, len(selected))
	for i, p := range selected {
		out[i] = RankedPriceRecord{PriceRecord: p}
	}
	if hasCrop {
		markBest(out, crop)
	}
	return out
}

func fallback(catalog []PriceRecord) []RankedPriceRecord {
	n := fallbackSize
	if len(catalog) < n {
		n = len(catalog)
	}
	out := make([]RankedPriceRecord, n)
	for i := 0; i < n; i++ {
		out[i] = RankedPriceRecord{PriceRecord: catalog[i]}
	}
	return out
}

func dedupe(records []PriceRecord) []PriceRecord {
	seen := make(map[marketCrop]struct{}, len(records))
	out := records[:0:0]
	for _, p := range records {
		if _, dup := seen[p.key()]; dup {
			continue
		}
		seen[p.key()] = struct{}{}
		out = append(out, p)
	}
	return out
}

func markBest(records []RankedPriceRecord, crop string) {
	best := -1
	for i, r := range records {
		if !strings.EqualFold(r.Crop, crop) {
			continue
		}
		if best < 0 || r.Price > records[best].Price {
			best = i
		}
	}
	if best >= 0 {
		records[best].IsBest = true
	}
}

// Best returns the record marked best, if any.
func Best(records []RankedPriceRecord) (RankedPriceRecord, bool) {
	for _, r := range records {
		if r.IsBest {
			return r, true
		}
	}
	return RankedPriceRecord{}, false
}
