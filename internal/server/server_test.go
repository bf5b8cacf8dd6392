package server

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"ux-collector-be/internal/bootstrap"
	"ux-collector-be/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T) *config.Config {
	dir := t.TempDir()
	return &config.Config{
		App: config.AppConfig{
			Port:               "3000",
			Environment:        "test",
			LogFilePath:        filepath.Join(dir, "app.log"),
			AuditLogPath:       filepath.Join(dir, "audit.log"),
			CorsAllowedOrigins: "*",
			BodyLimitMB:        1,
		},
		Store: config.StoreConfig{
			Backend:         config.BackendMemory,
			Name:            "ux-experiment-v2",
			RecordPrefix:    "runs/",
			SequenceEnabled: true,
			PageSize:        100,
		},
		Admin: config.AdminConfig{
			Token:           "s3cret",
			DefaultPrefixes: []string{"runs/"},
			SampleLimit:     50,
		},
	}
}

type envelope struct {
	OK           bool   `json:"ok"`
	Key          string `json:"key"`
	Error        string `json:"error"`
	Mode         string `json:"mode"`
	TotalMatched int    `json:"totalMatched"`
	TotalDeleted int    `json:"totalDeleted"`
}

func TestCollectorFlow(t *testing.T) {
	cfg := testConfig(t)
	require.NoError(t, cfg.Validate())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	container, err := bootstrap.NewContainer(ctx, cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Close() })
	require.NoError(t, container.AuditConsumerService.Consume(ctx))

	app := New(cfg, container).GetApp()

	call := func(method, target, body string) (int, envelope) {
		req := httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
		var out envelope
		_ = json.NewDecoder(resp.Body).Decode(&out)
		return resp.StatusCode, out
	}

	for i := 0; i < 3; i++ {
		status, out := call("POST", "/api/collect", `{"meta":{"isMobile":false},"exp1":{"variant":"A"},"exp5":{"selected":"x"}}`)
		require.Equal(t, 200, status)
		assert.True(t, strings.HasPrefix(out.Key, "runs/"+time.Now().Format("2006-01-02")+"/"))
	}

	status, out := call("GET", "/api/cleanup_old_runs?token=s3cret", "")
	require.Equal(t, 200, status)
	assert.Equal(t, "dry-run", out.Mode)
	assert.Equal(t, 3, out.TotalMatched)

	status, out = call("GET", "/api/collect?token=wrong&delete=1", "")
	assert.Equal(t, 401, status)
	assert.Equal(t, "Unauthorized", out.Error)

	status, out = call("POST", "/.netlify/functions/cleanup_old_runs?token=s3cret&reset=1", "")
	require.Equal(t, 200, status)
	assert.Equal(t, 3, out.TotalDeleted)

	status, out = call("GET", "/api/cleanup_old_runs?token=s3cret", "")
	require.Equal(t, 200, status)
	assert.Equal(t, 0, out.TotalMatched)
}

func TestBodyLimit(t *testing.T) {
	cfg := testConfig(t)
	container, err := bootstrap.NewContainer(context.Background(), cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Close() })

	app := New(cfg, container).GetApp()
	big := `{"exp1":{},"exp5":{"pad":"` + strings.Repeat("x", 2*1024*1024) + `"}}`

	resp, err := app.Test(httptest.NewRequest("POST", "/api/collect", strings.NewReader(big)), -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, 413, resp.StatusCode)
}
