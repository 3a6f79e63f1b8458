// Package market selects the market prices shown to a farmer from the
// price catalog.
package market

// PriceRecord is one catalog entry. Records are never modified after the
// catalog is loaded.
type PriceRecord struct {
	Crop     string  `json:"crop" yaml:"crop"`
	Market   string  `json:"market" yaml:"market"`
	Location string  `json:"location" yaml:"location"`
	Price    float64 `json:"price" yaml:"price"`
	Unit     string  `json:"unit" yaml:"unit"`
}

// RankedPriceRecord is a PriceRecord annotated for one request.
type RankedPriceRecord struct {
	PriceRecord
	IsBest bool `json:"isBest"`
}

type marketCrop struct {
	market string
	crop   string
}

func (p PriceRecord) key() marketCrop {
	return marketCrop{market: p.Market, crop: p.Crop}
}
