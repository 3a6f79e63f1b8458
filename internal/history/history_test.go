package history

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"kisan-sathi/internal/models"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTransport struct {
	status int
	body   string
	reqs   []*http.Request
	bodies []string
}

func (f *fakeTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	f.reqs = append(f.reqs, req)
	if req.Body != nil {
		b, _ := io.ReadAll(req.Body)
		f.bodies = append(f.bodies, string(b))
	}
	header := http.Header{}
	header.Set("X-Elastic-Product", "Elasticsearch")
	header.Set("Content-Type", "application/json")
	return &http.Response{
		StatusCode: f.status,
		Header:     header,
		Body:       io.NopCloser(strings.NewReader(f.body)),
		Request:    req,
	}, nil
}

func newTestStore(t *testing.T, tr *fakeTransport) *Store {
	t.Helper()
	es, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: []string{"http://localhost:9200"},
		Transport: tr,
	})
	require.NoError(t, err)
	return NewStore(es, "kisan-advisories")
}

func TestStore_Archive(t *testing.T) {
	tr := &fakeTransport{status: http.StatusCreated, body: `{"result":"created"}`}
	store := newTestStore(t, tr)

	rec := models.AdvisoryRecord{
		AdvisoryID: "adv-1",
		Feature:    "answer-farmer-question",
		Village:    "Rampur",
		Crop:       "Wheat",
		Question:   "When should I irrigate wheat?",
		Answer:     "At crown root initiation, about 21 days after sowing.",
		CreatedAt:  time.Date(2024, 11, 20, 9, 0, 0, 0, time.UTC),
	}
	require.NoError(t, store.Archive(context.Background(), rec))

	require.Len(t, tr.reqs, 1)
	assert.Equal(t, http.MethodPut, tr.reqs[0].Method)
	assert.Equal(t, "/kisan-advisories/_doc/adv-1", tr.reqs[0].URL.Path)

	var sent models.AdvisoryRecord
	require.NoError(t, json.Unmarshal([]byte(tr.bodies[0]), &sent))
	assert.Equal(t, rec, sent)
}

func TestStore_ArchiveError(t *testing.T) {
	tr := &fakeTransport{status: http.StatusBadRequest, body: `{"error":{"type":"mapper_parsing_exception"}}`}
	err := newTestStore(t, tr).Archive(context.Background(), models.AdvisoryRecord{AdvisoryID: "x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mapper_parsing_exception")

	err = NewStore(nil, "").Archive(context.Background(), models.AdvisoryRecord{})
	assert.ErrorIs(t, err, ErrMissingIndex)
}

func TestStore_Search(t *testing.T) {
	tr := &fakeTransport{status: http.StatusOK, body: `{
		"took": 3,
		"hits": {
			"total": {"value": 1},
			"max_score": 4.2,
			"hits": [{"_source": {"advisoryId": "adv-7", "feature": "soil-advisory", "village": "Aligarh", "crop": "Mustard", "question": "Is my soil too alkaline?", "answer": "Add gypsum.", "createdAt": "2024-10-01T06:30:00Z"}}]
		}
	}`}

	res, err := newTestStore(t, tr).Search(context.Background(), Query{Text: "alkaline soil", Village: "Aligarh", Size: 500})
	require.NoError(t, err)

	assert.Equal(t, int64(1), res.TotalHits)
	assert.Equal(t, 4.2, res.MaxScore)
	require.Len(t, res.Records, 1)
	assert.Equal(t, "adv-7", res.Records[0].AdvisoryID)

	require.Len(t, tr.reqs, 1)
	assert.Equal(t, "/kisan-advisories/_search", tr.reqs[0].URL.Path)
	assert.Equal(t, "100", tr.reqs[0].URL.Query().Get("size"))
	assert.Contains(t, tr.bodies[0], `"multi_match"`)
	assert.Contains(t, tr.bodies[0], `"village":"aligarh"`)
}

func TestStore_SearchEmptyAndError(t *testing.T) {
	tr := &fakeTransport{status: http.StatusOK, body: `{"took":1,"hits":{"total":{"value":0},"max_score":null,"hits":[]}}`}
	res, err := newTestStore(t, tr).Search(context.Background(), Query{})
	require.NoError(t, err)
	assert.NotNil(t, res.Records)
	assert.Empty(t, res.Records)
	assert.Zero(t, res.MaxScore)

	tr = &fakeTransport{status: http.StatusNotFound, body: `{"error":{"type":"index_not_found_exception"}}`}
	_, err = newTestStore(t, tr).Search(context.Background(), Query{})
	assert.Error(t, err)
}

func TestBuildSearchBody(t *testing.T) {
	body := BuildSearchBody(Query{Crop: "Wheat", Feature: "crop-advisory"})

	boolQuery := body["query"].(map[string]interface{})["bool"].(map[string]interface{})
	assert.Equal(t, []interface{}{map[string]interface{}{"match_all": map[string]interface{}{}}}, boolQuery["must"])
	assert.Equal(t, []interface{}{
		map[string]interface{}{"term": map[string]interface{}{"crop": "wheat"}},
		map[string]interface{}{"term": map[string]interface{}{"feature": "crop-advisory"}},
	}, boolQuery["filter"])
	assert.Contains(t, body, "sort")

	body = BuildSearchBody(Query{Text: "aphids"})
	assert.NotContains(t, body, "sort")
}

func TestQuery_Normalized(t *testing.T) {
	q := Query{Text: "  rust ", From: -3}.normalized()
	assert.Equal(t, "rust", q.Text)
	assert.Equal(t, 0, q.From)
	assert.Equal(t, DefaultSize, q.Size)
}
