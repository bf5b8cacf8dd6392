package logger

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestZapLogger_ModuleAndDetails(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	l := NewFromZap(zap.New(core))

	l.Info("SUBMIT", "Record stored", map[string]interface{}{"key": "runs/a.json"})
	l.Warn("KEYALLOC", "fallback", nil)
	l.Error("SUBMIT", "store failed", map[string]interface{}{"error": "boom"})

	entries := logs.All()
	require.Len(t, entries, 3)

	assert.Equal(t, "Record stored", entries[0].Message)
	assert.Equal(t, "SUBMIT", entries[0].ContextMap()["module"])
	assert.Equal(t, map[string]interface{}{"key": "runs/a.json"}, entries[0].ContextMap()["details"])

	assert.Equal(t, map[string]interface{}{}, entries[1].ContextMap()["details"])
	assert.Equal(t, "boom", entries[2].ContextMap()["error_ref"])
}

func TestIsolatedLogger_WritesJSONLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit.log")
	l := NewIsolatedLogger(path)

	l.Info("AUDIT", "Record stored", map[string]interface{}{"key": "runs/x.json"})
	l.Debug("AUDIT", "below file level", nil)
	_ = l.Sync()

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	var lines []map[string]interface{}
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		var m map[string]interface{}
		require.NoError(t, json.Unmarshal(sc.Bytes(), &m))
		lines = append(lines, m)
	}

	require.Len(t, lines, 1)
	assert.Equal(t, "INFO", lines[0]["level"])
	assert.Equal(t, "Record stored", lines[0]["message"])
	assert.Equal(t, "AUDIT", lines[0]["module"])
	assert.Contains(t, lines[0], "timestamp")
}
