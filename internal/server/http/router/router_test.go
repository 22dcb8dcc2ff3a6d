package router

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/caovinhphuc/mia-logistics-manager-sub000/internal/domain/model"
	"github.com/caovinhphuc/mia-logistics-manager-sub000/internal/server/http/handlers"
	testhelpers "github.com/caovinhphuc/mia-logistics-manager-sub000/internal/test"
)

func TestSetupRoutes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	facade := &testhelpers.FacadeStub{
		QueryFn: func(model.QuerySpec) ([]model.OrderView, error) {
			return []model.OrderView{{Order: model.Order{ID: "ORD-1", CreatedAt: time.Unix(0, 0)}}}, nil
		},
	}
	engine := Setup(facade, logger)

	routes := []struct {
		method string
		path   string
		body   any
	}{
		{http.MethodGet, "/api/orders", nil},
		{http.MethodGet, "/api/orders/ORD-1", nil},
		{http.MethodPatch, "/api/orders/ORD-1", map[string]string{"notes": "fragile"}},
		{http.MethodPost, "/api/orders/bulk", map[string]any{"ids": []string{"ORD-1"}, "patch": map[string]string{"status": "picking"}}},
		{http.MethodPost, "/api/orders/ORD-1/assign", map[string]string{"staffId": "s-1"}},
		{http.MethodPost, "/api/orders/ORD-1/complete", nil},
		{http.MethodGet, "/api/metrics", nil},
		{http.MethodGet, "/api/view", nil},
		{http.MethodPut, "/api/view", map[string]string{"status": "pending"}},
		{http.MethodGet, "/api/sync", nil},
		{http.MethodPost, "/api/sync", nil},
		{http.MethodGet, "/api/priorities", nil},
		{http.MethodGet, "/api/alerts", nil},
		{http.MethodGet, AlertStreamPath, nil},
	}
	for _, r := range routes {
		var reader io.Reader
		if r.body != nil {
			data, _ := json.Marshal(r.body)
			reader = bytes.NewReader(data)
		}
		req := httptest.NewRequest(r.method, r.path, reader)
		req.Header.Set("Content-Type", "application/json")
		resp := testhelpers.NewStreamRecorder()
		engine.ServeHTTP(resp, req)
		if resp.Code != http.StatusOK {
			t.Fatalf("%s %s: expected status 200, got %d (%s)", r.method, r.path, resp.Code, resp.Body.String())
		}
	}
}

func TestSetupCompression(t *testing.T) {
	gin.SetMode(gin.TestMode)
	engine := Setup(&testhelpers.FacadeStub{}, slog.New(slog.NewJSONHandler(io.Discard, nil)))

	req := httptest.NewRequest(http.MethodGet, "/api/priorities", nil)
	req.Header.Set("Accept-Encoding", "gzip")
	resp := httptest.NewRecorder()
	engine.ServeHTTP(resp, req)
	if got := resp.Header().Get("Content-Encoding"); got != "gzip" {
		t.Fatalf("expected gzip response, got %q", got)
	}

	req = httptest.NewRequest(http.MethodGet, AlertStreamPath, nil)
	req.Header.Set("Accept-Encoding", "gzip")
	stream := testhelpers.NewStreamRecorder()
	engine.ServeHTTP(stream, req)
	if got := stream.Header().Get("Content-Encoding"); got != "" {
		t.Fatalf("expected uncompressed stream, got %q", got)
	}
}

var _ handlers.Facade = (*testhelpers.FacadeStub)(nil)
