package monitoring

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestTracingProvider(t *testing.T) {
	ctx := context.Background()

	t.Run("Disabled_ShouldBeNoop", func(t *testing.T) {
		tp, err := NewTracingProvider(ctx, TracingConfig{ServiceName: "mealplanner"}, zap.NewNop())
		require.NoError(t, err)

		_, span := tp.Tracer().Start(ctx, "noop")
		span.End()

		assert.False(t, span.SpanContext().IsValid())
		assert.NoError(t, tp.Shutdown(ctx))
	})

	t.Run("Stdout_ShouldExportSpans", func(t *testing.T) {
		var buf bytes.Buffer
		tp, err := NewTracingProvider(ctx, TracingConfig{
			ServiceName:  "mealplanner",
			Exporter:     ExporterStdout,
			SamplingRate: 1,
			Enabled:      true,
			Writer:       &buf,
		}, zap.NewNop())
		require.NoError(t, err)

		_, span := tp.Tracer().Start(ctx, "planner.Assemble")
		span.End()
		require.NoError(t, tp.Shutdown(ctx))

		assert.Contains(t, buf.String(), "planner.Assemble")
	})

	t.Run("UnknownExporter_ShouldFail", func(t *testing.T) {
		_, err := NewTracingProvider(ctx, TracingConfig{Exporter: "zipkin", Enabled: true}, zap.NewNop())
		assert.ErrorContains(t, err, "unsupported tracing exporter")
	})
}
