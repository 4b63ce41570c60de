package telemetry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-ledger/pkg/config"
)

func TestSetup_Desactivado(t *testing.T) {
	shutdown, err := Setup(context.Background(), config.TelemetryConfig{ServiceName: "stock-ledger"}, "test")
	require.NoError(t, err)
	require.NotNil(t, shutdown)
	assert.NoError(t, shutdown(context.Background()))
}

func TestTrimScheme(t *testing.T) {
	assert.Equal(t, "collector:4318", trimScheme("http://collector:4318/"))
	assert.Equal(t, "collector:4318", trimScheme("https://collector:4318"))
	assert.Equal(t, "localhost:4318", trimScheme("localhost:4318"))
}
