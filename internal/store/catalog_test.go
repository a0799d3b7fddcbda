package store

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"buyers-backend/internal/config"
	"buyers-backend/internal/domain"
	appErrors "buyers-backend/pkg/errors"
	"buyers-backend/pkg/observability"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, *config.Config) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cfg := &config.Config{
		SupabaseURL: server.URL,
		SupabaseKey: "test-key",
		MacrosTable: "macros",
		MicrosTable: "micros",
	}
	metrics := observability.NewMetrics("test", prometheus.NewRegistry())
	client, err := NewClient(cfg, metrics, zap.NewNop())
	require.NoError(t, err)
	return client, cfg
}

func TestEnsureLabels_UpsertsThenResolves(t *testing.T) {
	// Arrange: the fake store accepts the upsert and returns ids on read.
	var methods []string
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.Contains(r.URL.Path, "micros") {
			http.NotFound(w, r)
			return
		}
		methods = append(methods, r.Method)
		w.Header().Set("Content-Type", "application/json")
		if r.Method == http.MethodPost {
			w.WriteHeader(http.StatusCreated)
			w.Write([]byte(`[]`))
			return
		}
		w.Write([]byte(`[{"id":1,"label":"Wellness"},{"id":2,"label":"Beauty"}]`))
	})
	client, cfg := newTestClient(t, handler)
	catalog := NewCatalog(client, cfg)

	// Act
	ids, err := catalog.EnsureLabels(context.Background(), domain.TagKindMicro, []string{"Wellness", "Beauty"})

	// Assert: one write then one read, every label resolved.
	require.NoError(t, err)
	assert.Equal(t, map[string]domain.TagID{"Wellness": 1, "Beauty": 2}, ids)
	assert.Equal(t, []string{http.MethodPost, http.MethodGet}, methods)
}

func TestEnsureLabels_EmptyInputSkipsStore(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("no store call expected")
	})
	client, cfg := newTestClient(t, handler)
	catalog := NewCatalog(client, cfg)

	ids, err := catalog.EnsureLabels(context.Background(), domain.TagKindMicro, nil)

	assert.NoError(t, err)
	assert.Empty(t, ids)
}

func TestEnsureLabels_StoreFailureIsUnavailable(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"boom"}`, http.StatusInternalServerError)
	})
	client, cfg := newTestClient(t, handler)
	catalog := NewCatalog(client, cfg)

	_, err := catalog.EnsureLabels(context.Background(), domain.TagKindMicro, []string{"Wellness"})

	assert.True(t, appErrors.IsUnavailable(err))
}

func TestEnsureLabels_UnknownKind(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})
	client, cfg := newTestClient(t, handler)
	catalog := NewCatalog(client, cfg)

	_, err := catalog.EnsureLabels(context.Background(), domain.TagKind("bogus"), []string{"Wellness"})

	assert.True(t, appErrors.IsValidation(err))
}
