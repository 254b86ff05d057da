package telemetry_test

import (
	"testing"

	"github.com/billed/backend/internal/infrastructure/telemetry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func TestRegisterDBTracing(t *testing.T) {
	logger := zaptest.NewLogger(t)

	t.Run("disabled does nothing", func(t *testing.T) {
		db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
		require.NoError(t, err)

		cfg := telemetry.DefaultDBTracingConfig()
		assert.False(t, cfg.Enabled)
		require.NoError(t, telemetry.RegisterDBTracing(db, cfg, logger))
		assert.NotContains(t, db.Config.Plugins, "otelgorm")
	})

	t.Run("enabled registers the plugin", func(t *testing.T) {
		sr := setupTestTracer(t)
		db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
		require.NoError(t, err)

		cfg := telemetry.DBTracingConfig{Enabled: true, DBSystem: "sqlite"}
		require.NoError(t, telemetry.RegisterDBTracing(db, cfg, logger))
		assert.Contains(t, db.Config.Plugins, "otelgorm")

		var one int
		require.NoError(t, db.Raw("SELECT 1").Scan(&one).Error)
		assert.Equal(t, 1, one)
		assert.NotEmpty(t, sr.Ended())
	})
}
