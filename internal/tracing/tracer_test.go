package tracing

import (
	"bufio"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zjrosen/regdash/internal/config"
)

func TestNewProvider_Disabled(t *testing.T) {
	provider, err := NewProvider(config.TracingConfig{Enabled: false}, "")
	require.NoError(t, err)
	require.False(t, provider.Enabled())

	// Creating spans should not panic
	_, span := provider.Tracer().Start(context.Background(), "test-span")
	span.End()

	require.NoError(t, provider.Shutdown(context.Background()))
}

func TestNewProvider_FileExporterWritesSpans(t *testing.T) {
	tracePath := filepath.Join(t.TempDir(), "traces.jsonl")

	provider, err := NewProvider(config.TracingConfig{
		Enabled:    true,
		Exporter:   "file",
		FilePath:   tracePath,
		SampleRate: 1.0,
	}, "test-service")
	require.NoError(t, err)
	require.True(t, provider.Enabled())

	_, span := provider.Tracer().Start(context.Background(), SpanAuthRegister)
	span.End()

	// Shutdown flushes the batcher
	require.NoError(t, provider.Shutdown(context.Background()))

	f, err := os.Open(tracePath)
	require.NoError(t, err)
	defer f.Close()

	scanner := bufio.NewScanner(f)
	require.True(t, scanner.Scan(), "expected one span line")

	var rec SpanRecord
	require.NoError(t, json.Unmarshal(scanner.Bytes(), &rec))
	require.Equal(t, SpanAuthRegister, rec.Name)
	require.Equal(t, "test-service", rec.Service)
	require.Len(t, rec.TraceID, 32)
}

func TestNewProvider_NoneExporter(t *testing.T) {
	provider, err := NewProvider(config.TracingConfig{Enabled: true, Exporter: "none"}, "")
	require.NoError(t, err)
	require.True(t, provider.Enabled())
	require.NoError(t, provider.Shutdown(context.Background()))
}

func TestNewProvider_UnknownExporter(t *testing.T) {
	_, err := NewProvider(config.TracingConfig{Enabled: true, Exporter: "zipkin"}, "")
	require.Error(t, err)
	require.Contains(t, err.Error(), "unsupported exporter type")
}
