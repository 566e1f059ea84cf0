package server

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"

	"reports/config"
	"reports/internal/ingest"
	"reports/internal/registry"
)

func newTestServer(t *testing.T) (*Server, *gin.Engine) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{Data: config.DataConfig{Dir: t.TempDir()}}
	reg, err := registry.Open(sqlite.Open(filepath.Join(t.TempDir(), "registry.db")))
	require.NoError(t, err)
	t.Cleanup(func() { reg.Close() })

	srv := NewServer(cfg, reg, ingest.NewPipeline(cfg, reg))
	return srv, srv.Router()
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestBrandLifecycle(t *testing.T) {
	_, router := newTestServer(t)

	w := doJSON(t, router, http.MethodPost, "/api/brands", map[string]string{"id": "acme", "name": "Acme"})
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, router, http.MethodPost, "/api/brands", map[string]string{"id": "acme", "name": "Dup"})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = doJSON(t, router, http.MethodGet, "/api/brands/acme", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, router, http.MethodGet, "/api/brands/nope", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(t, router, http.MethodPut, "/api/brands/acme", map[string]string{"name": "Acme Inc"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Acme Inc")

	w = doJSON(t, router, http.MethodDelete, "/api/brands/acme", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestImportAndMonthlyReport(t *testing.T) {
	_, router := newTestServer(t)

	w := doJSON(t, router, http.MethodPost, "/api/brands", map[string]string{"id": "acme", "name": "Acme"})
	require.Equal(t, http.StatusCreated, w.Code)

	report := strings.Join([]string{
		strings.Join([]string{"amazon-order-id", "purchase-date", "last-updated-date", "sales-channel", "product-name", "asin", "quantity", "item-price"}, "\t"),
		strings.Join([]string{"111-001", "2024-03-05T14:30:00Z", "2024-03-06T09:00:00Z", "Amazon.com", "Acme Widget", "B000TEST01", "2", "19.98"}, "\t"),
	}, "\n") + "\n"

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("report_file", "orders.txt")
	require.NoError(t, err)
	_, err = fw.Write([]byte(report))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/brands/acme/import", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"rows":1`)

	// The imported month shows up in the monthly summary.
	w = doJSON(t, router, http.MethodGet, "/api/brands/acme/reports/monthly?months=120", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var summaries []map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &summaries))
	found := false
	for _, s := range summaries {
		if s["period"] == "2024-03" {
			found = true
			totals := s["totals"].(map[string]any)
			assert.Equal(t, float64(2), totals["units"])
			assert.InDelta(t, 19.98, totals["total_sales"].(float64), 1e-9)
		}
	}
	assert.True(t, found, "2024-03 summary missing: %s", w.Body.String())

	// Backfill created metadata with the brand prefix stripped.
	w = doJSON(t, router, http.MethodGet, "/api/brands/acme/asin-meta/B000TEST01", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"title_override":"Widget"`)

	w = doJSON(t, router, http.MethodGet, "/api/brands/acme/imports", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "orders.txt")
}

func TestQueryValidation(t *testing.T) {
	_, router := newTestServer(t)

	w := doJSON(t, router, http.MethodPost, "/api/brands", map[string]string{"id": "acme", "name": "Acme"})
	require.Equal(t, http.StatusCreated, w.Code)

	cases := []string{
		"/api/brands/acme/reports/monthly?months=0",
		"/api/brands/acme/reports/monthly?months=three",
		"/api/brands/acme/reports/monthly?channel=mars",
		"/api/brands/acme/reports/weekly?start_date=2024-03-10&end_date=2024-03-01",
		"/api/brands/acme/reports/weekly?start_date=bad&end_date=2024-03-01",
		"/api/brands/acme/reports/total?start_date=2024-03-10&end_date=2024-03-01",
		"/api/brands/acme/reports/yearly?year=abc",
	}
	for _, path := range cases {
		w := doJSON(t, router, http.MethodGet, path, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code, path)
	}
}

func TestUsersEndpoints(t *testing.T) {
	_, router := newTestServer(t)

	w := doJSON(t, router, http.MethodPost, "/api/users", map[string]string{"username": "alice", "password": "s3cret"})
	require.Equal(t, http.StatusCreated, w.Code)
	assert.NotContains(t, w.Body.String(), "s3cret")

	w = doJSON(t, router, http.MethodPost, "/api/login", map[string]string{"username": "alice", "password": "s3cret"})
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, router, http.MethodPost, "/api/login", map[string]string{"username": "alice", "password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
