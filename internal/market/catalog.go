package market

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"kisan-sathi/internal/common/config"
	"kisan-sathi/internal/common/validation"

	"github.com/lib/pq"
	"gopkg.in/yaml.v3"
)

//go:embed data/market-prices.json
var embeddedCatalog []byte

var ErrEmptyCatalog = errors.New("catalog has no price records")

// Catalog is the loaded price list. It is shared read-only by all jobs.
type Catalog struct {
	Source  string
	Records []PriceRecord
}

type catalogDocument struct {
	MarketPrices []PriceRecord `json:"marketPrices" yaml:"marketPrices"`
}

// Select runs SelectPrices over the catalog.
func (c *Catalog) Select(location, crop string) []RankedPriceRecord {
	return SelectPrices(c.Records, location, crop)
}

func (c *Catalog) Len() int {
	return len(c.Records)
}

// Load picks the catalog source from configuration. db is only used for
// the "postgres" source and may be nil otherwise.
func Load(ctx context.Context, cfg config.CatalogConfig, db *sql.DB) (*Catalog, error) {
	switch cfg.Source {
	case "", "embedded":
		return LoadEmbedded()
	case "file":
		return LoadFile(cfg.Path)
	case "postgres":
		if db == nil {
			return nil, errors.New("catalog source postgres needs a database connection")
		}
		return LoadPostgres(ctx, db)
	default:
		return nil, fmt.Errorf("unknown catalog source %q", cfg.Source)
	}
}

// LoadEmbedded returns the dataset bundled with the binary.
func LoadEmbedded() (*Catalog, error) {
	records, err := Parse(embeddedCatalog, ".json")
	if err != nil {
		return nil, fmt.Errorf("embedded catalog: %w", err)
	}
	return &Catalog{Source: "embedded", Records: records}, nil
}

// LoadFile reads a JSON or YAML catalog with a top-level marketPrices list.
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog %s: %w", path, err)
	}
	records, err := Parse(data, filepath.Ext(path))
	if err != nil {
		return nil, fmt.Errorf("catalog %s: %w", path, err)
	}
	return &Catalog{Source: path, Records: records}, nil
}

// Parse decodes and validates a catalog document. ext selects the format;
// ".yaml" and ".yml" are YAML, anything else JSON.
func Parse(data []byte, ext string) ([]PriceRecord, error) {
	var generic interface{}
	var doc catalogDocument

	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &generic); err != nil {
			return nil, fmt.Errorf("decode yaml: %w", err)
		}
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("decode yaml: %w", err)
		}
	default:
		if err := json.Unmarshal(data, &generic); err != nil {
			return nil, fmt.Errorf("decode json: %w", err)
		}
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("decode json: %w", err)
		}
	}

	result, err := validation.Validate(generic, documentSchema())
	if err != nil {
		return nil, err
	}
	if !result.Valid {
		return nil, fmt.Errorf("invalid catalog: %s", result.Error())
	}
	if err := Validate(doc.MarketPrices); err != nil {
		return nil, err
	}
	return doc.MarketPrices, nil
}

// Validate checks the invariants a catalog must hold: at least one record,
// non-empty text fields and a positive price.
func Validate(records []PriceRecord) error {
	if len(records) == 0 {
		return ErrEmptyCatalog
	}
	var problems []string
	for i, p := range records {
		if strings.TrimSpace(p.Crop) == "" || strings.TrimSpace(p.Market) == "" ||
			strings.TrimSpace(p.Location) == "" || strings.TrimSpace(p.Unit) == "" {
			problems = append(problems, fmt.Sprintf("record %d: crop, market, location and unit are required", i))
		}
		if p.Price <= 0 {
			problems = append(problems, fmt.Sprintf("record %d: price must be positive", i))
		}
	}
	if len(problems) > 0 {
		return fmt.Errorf("invalid catalog: %s", strings.Join(problems, "; "))
	}
	return nil
}

func documentSchema() validation.JSONSchema {
	text := validation.Property{Type: "string", MinLength: validation.IntPtr(1)}
	return validation.JSONSchema{
		Type:     "object",
		Required: []string{"marketPrices"},
		Properties: map[string]validation.Property{
			"marketPrices": {
				Type:     "array",
				MinItems: validation.IntPtr(1),
				Items: &validation.Property{
					Type:     "object",
					Required: []string{"crop", "market", "location", "price", "unit"},
					Properties: map[string]validation.Property{
						"crop":     text,
						"market":   text,
						"location": text,
						"price":    {Type: "number", Minimum: validation.FloatPtr(0)},
						"unit":     text,
					},
				},
			},
		},
	}
}

// LoadPostgres reads the catalog from the market_prices table in position
// order.
func LoadPostgres(ctx context.Context, db *sql.DB) (*Catalog, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT crop, market, location, price, unit FROM market_prices ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("query market_prices: %w", err)
	}
	defer rows.Close()

	var records []PriceRecord
	for rows.Next() {
		var p PriceRecord
		if err := rows.Scan(&p.Crop, &p.Market, &p.Location, &p.Price, &p.Unit); err != nil {
			return nil, fmt.Errorf("scan market_prices: %w", err)
		}
		records = append(records, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read market_prices: %w", err)
	}
	if err := Validate(records); err != nil {
		return nil, err
	}
	return &Catalog{Source: "postgres", Records: records}, nil
}

// Import replaces the contents of market_prices inside tx, keeping record
// order in the position column.
func Import(ctx context.Context, tx *sql.Tx, records []PriceRecord) error {
	if err := Validate(records); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM market_prices`); err != nil {
		return fmt.Errorf("clear market_prices: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, pq.CopyIn("market_prices", "position", "crop", "market", "location", "price", "unit"))
	if err != nil {
		return fmt.Errorf("prepare copy: %w", err)
	}
	defer stmt.Close()

	for i, p := range records {
		if _, err := stmt.ExecContext(ctx, i, p.Crop, p.Market, p.Location, p.Price, p.Unit); err != nil {
			return fmt.Errorf("copy record %d: %w", i, err)
		}
	}
	if _, err := stmt.ExecContext(ctx); err != nil {
		return fmt.Errorf("flush copy: %w", err)
	}
	return nil
}
