package database

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostgres_Migrate(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	for range Schema {
		mock.ExpectExec("CREATE TABLE IF NOT EXISTS").WillReturnResult(sqlmock.NewResult(0, 0))
	}

	require.NoError(t, NewPostgresFromDB(db).Migrate(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_WithTxRollsBack(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectRollback()

	boom := errors.New("boom")
	err = NewPostgresFromDB(db).WithTx(context.Background(), func(tx *sql.Tx) error {
		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_WithTxCommits(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM market_prices").WillReturnResult(sqlmock.NewResult(0, 5))
	mock.ExpectCommit()

	err = NewPostgresFromDB(db).WithTx(context.Background(), func(tx *sql.Tx) error {
		_, err := tx.Exec("DELETE FROM market_prices")
		return err
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedis_JSONRoundTrip(t *testing.T) {
	mr := miniredis.RunT(t)
	client := NewRedisFromClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	defer client.Close()

	ctx := context.Background()
	require.NoError(t, client.Ping(ctx))

	type forecast struct {
		Summary string `json:"summary"`
	}

	var got forecast
	assert.ErrorIs(t, client.GetJSON(ctx, "weather:rampur", &got), ErrCacheMiss)

	require.NoError(t, client.SetJSON(ctx, "weather:rampur", forecast{Summary: "Sunny"}, time.Minute))
	require.NoError(t, client.GetJSON(ctx, "weather:rampur", &got))
	assert.Equal(t, "Sunny", got.Summary)

	mr.FastForward(2 * time.Minute)
	assert.ErrorIs(t, client.GetJSON(ctx, "weather:rampur", &got), ErrCacheMiss)
}

type esTransport struct {
	handler func(req *http.Request) (int, string)
	paths   []string
}

func (tr *esTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	tr.paths = append(tr.paths, req.Method+" "+req.URL.Path)
	status, body := tr.handler(req)
	header := http.Header{}
	header.Set("X-Elastic-Product", "Elasticsearch")
	header.Set("Content-Type", "application/json")
	return &http.Response{
		StatusCode: status,
		Header:     header,
		Body:       io.NopCloser(strings.NewReader(body)),
		Request:    req,
	}, nil
}

func TestElasticsearch_EnsureIndex(t *testing.T) {
	tests := []struct {
		name      string
		exists    bool
		wantCalls []string
	}{
		{
			name:      "already exists",
			exists:    true,
			wantCalls: []string{"HEAD /kisan-advisories"},
		},
		{
			name:      "created",
			wantCalls: []string{"HEAD /kisan-advisories", "PUT /kisan-advisories"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := &esTransport{handler: func(req *http.Request) (int, string) {
				if req.Method == http.MethodHead {
					if tt.exists {
						return http.StatusOK, ""
					}
					return http.StatusNotFound, ""
				}
				return http.StatusOK, `{"acknowledged":true}`
			}}
			client, err := NewElasticsearchWithTransport(tr)
			require.NoError(t, err)

			require.NoError(t, client.EnsureIndex(context.Background(), "kisan-advisories", `{"mappings":{}}`))
			assert.Equal(t, tt.wantCalls, tr.paths)
		})
	}
}
