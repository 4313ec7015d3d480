package main

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"connectrpc.com/connect"
	"github.com/alicebob/miniredis/v2"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/receiptsplit/internal/events"
	"github.com/mmynk/receiptsplit/internal/middleware"
	"github.com/mmynk/receiptsplit/internal/scanner"
	"github.com/mmynk/receiptsplit/internal/service"
	"github.com/mmynk/receiptsplit/internal/storage/images"
	"github.com/mmynk/receiptsplit/internal/storage/sqlite"
	"github.com/mmynk/receiptsplit/pkg/api"
)

type fixture struct {
	server *httptest.Server
	images *images.Store
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	dir := t.TempDir()

	store, err := sqlite.New(filepath.Join(dir, "bills.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	imageStore, err := images.New(filepath.Join(dir, "images"), "http://localhost:8080")
	require.NoError(t, err)

	staticDir := filepath.Join(dir, "static")
	require.NoError(t, os.MkdirAll(staticDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(staticDir, "index.html"), []byte("<h1>index</h1>"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(staticDir, "app.js"), []byte("console.log(1)"), 0o644))

	registry := prometheus.NewRegistry()
	limit, err := middleware.NewRateLimiter("1-H", nil)
	require.NoError(t, err)

	v := validator.New(validator.WithRequiredStructEnabled())
	router := newRouter(routerConfig{
		Bills:          service.NewBillService(store, events.Nop{}, v),
		Splits:         service.NewSplitService(v),
		Scans:          service.NewScanService(scanner.Disabled{}, imageStore, 1<<20, v),
		Images:         imageStore,
		StaticPath:     staticDir,
		AllowedOrigins: []string{"*"},
		Metrics:        middleware.NewRPCMetrics(registry),
		Registry:       registry,
		ScanLimit:      limit,
	})

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)
	return &fixture{server: server, images: imageStore}
}

func get(t *testing.T, url string) (*http.Response, string) {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(body)
}

func TestRouter_RPCAndMetrics(t *testing.T) {
	f := newFixture(t)
	client := api.NewSplitServiceClient(http.DefaultClient, f.server.URL)

	_, err := client.Summarize(context.Background(), connect.NewRequest(&api.SummarizeRequest{}))
	require.NoError(t, err)

	resp, body := get(t, f.server.URL+"/metrics")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, `receiptsplit_rpc_requests_total{code="ok",procedure="/receiptsplit.v1.SplitService/Summarize"} 1`)
}

func TestRouter_ScanIsRateLimited(t *testing.T) {
	f := newFixture(t)
	client := api.NewScanServiceClient(http.DefaultClient, f.server.URL)
	req := &api.ScanReceiptRequest{Image: []byte("\x89PNG\r\n\x1a\n"), ContentType: "image/png"}

	_, err := client.ScanReceipt(context.Background(), connect.NewRequest(req))
	assert.Equal(t, connect.CodeUnimplemented, connect.CodeOf(err))

	_, err = client.ScanReceipt(context.Background(), connect.NewRequest(req))
	assert.Equal(t, connect.CodeResourceExhausted, connect.CodeOf(err))
}

func TestRouter_Images(t *testing.T) {
	f := newFixture(t)
	name, err := f.images.Put(context.Background(), "image/png", []byte("\x89PNG\r\n\x1a\nfake"))
	require.NoError(t, err)

	resp, body := get(t, f.server.URL+"/images/"+name)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "image/png", resp.Header.Get("Content-Type"))
	assert.Equal(t, "\x89PNG\r\n\x1a\nfake", body)

	resp, _ = get(t, f.server.URL+"/images/00000000-0000-0000-0000-000000000000.png")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = get(t, f.server.URL+"/images/..%2Fbills.db")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestRouter_Static(t *testing.T) {
	f := newFixture(t)

	_, body := get(t, f.server.URL+"/")
	assert.Contains(t, body, "index")

	_, body = get(t, f.server.URL+"/app.js")
	assert.Equal(t, "console.log(1)", body)

	_, body = get(t, f.server.URL+"/bills/some-id")
	assert.Contains(t, body, "index")

	resp, _ := get(t, f.server.URL+"/receiptsplit.v1.NoSuchService/Call")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, body = get(t, f.server.URL+"/healthz")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", body)
}

func TestConnectRedis(t *testing.T) {
	ctx := context.Background()

	t.Run("disabled", func(t *testing.T) {
		rdb, err := connectRedis(ctx, "")
		require.NoError(t, err)
		assert.Nil(t, rdb)
	})

	t.Run("malformed url", func(t *testing.T) {
		_, err := connectRedis(ctx, "not a url")
		assert.Error(t, err)
	})

	t.Run("unreachable server", func(t *testing.T) {
		rdb, err := connectRedis(ctx, "redis://127.0.0.1:1/0")
		require.NoError(t, err)
		assert.Nil(t, rdb)

		// Startup goes on with in-memory limiting.
		limit, err := middleware.NewRateLimiter("10-M", rdb)
		require.NoError(t, err)
		assert.NotNil(t, limit)
	})

	t.Run("reachable server", func(t *testing.T) {
		mr := miniredis.RunT(t)
		rdb, err := connectRedis(ctx, "redis://"+mr.Addr()+"/0")
		require.NoError(t, err)
		require.NotNil(t, rdb)
		t.Cleanup(func() { rdb.Close() })
		assert.NoError(t, rdb.Ping(ctx).Err())
	})
}
