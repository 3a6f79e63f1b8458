// Package history archives answered advisories in Elasticsearch and
// searches them by village, crop and free text.
package history

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"kisan-sathi/internal/models"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
)

var ErrMissingIndex = errors.New("index name is required")

// Mapping is the index definition passed to EnsureIndex at start-up.
const Mapping = `{
  "settings": {"number_of_shards": 1},
  "mappings": {
    "properties": {
      "advisoryId": {"type": "keyword"},
      "feature":    {"type": "keyword"},
      "userName":   {"type": "keyword"},
      "village":    {"type": "keyword", "normalizer": "lowercase"},
      "crop":       {"type": "keyword", "normalizer": "lowercase"},
      "language":   {"type": "keyword"},
      "question":   {"type": "text"},
      "answer":     {"type": "text"},
      "createdAt":  {"type": "date"}
    }
  }
}`

type Store struct {
	client *elasticsearch.Client
	index  string
}

func NewStore(client *elasticsearch.Client, index string) *Store {
	return &Store{client: client, index: index}
}

func (s *Store) Index() string { return s.index }

// Archive indexes rec under its AdvisoryID.
func (s *Store) Archive(ctx context.Context, rec models.AdvisoryRecord) error {
	if s.index == "" {
		return ErrMissingIndex
	}
	body, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode advisory: %w", err)
	}

	req := esapi.IndexRequest{
		Index:      s.index,
		DocumentID: rec.AdvisoryID,
		Body:       bytes.NewReader(body),
	}
	res, err := req.Do(ctx, s.client)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("index advisory: %s", res.String())
	}
	return nil
}

type Result struct {
	Records   []models.AdvisoryRecord
	TotalHits int64
	MaxScore  float64
}

type searchResponse struct {
	Took int64 `json:"took"`
	Hits struct {
		Total struct {
			Value int64 `json:"value"`
		} `json:"total"`
		MaxScore *float64 `json:"max_score"`
		Hits     []struct {
			Source models.AdvisoryRecord `json:"_source"`
		} `json:"hits"`
	} `json:"hits"`
}

func (s *Store) Search(ctx context.Context, q Query) (*Result, error) {
	if s.index == "" {
		return nil, ErrMissingIndex
	}
	q = q.normalized()
	body, err := json.Marshal(BuildSearchBody(q))
	if err != nil {
		return nil, fmt.Errorf("encode query: %w", err)
	}

	req := esapi.SearchRequest{
		Index: []string{s.index},
		Body:  strings.NewReader(string(body)),
		From:  &q.From,
		Size:  &q.Size,
	}
	res, err := req.Do(ctx, s.client)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, fmt.Errorf("search query failed: %s", res.String())
	}

	var r searchResponse
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}

	out := &Result{
		Records:   make([]models.AdvisoryRecord, 0, len(r.Hits.Hits)),
		TotalHits: r.Hits.Total.Value,
	}
	if r.Hits.MaxScore != nil {
		out.MaxScore = *r.Hits.MaxScore
	}
	for _, hit := range r.Hits.Hits {
		out.Records = append(out.Records, hit.Source)
	}
	return out, nil
}
