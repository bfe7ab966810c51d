package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/membercore/membership/pkg/config"
)

func TestLoad(t *testing.T) {
	t.Run("parses env into struct", func(t *testing.T) {
		type testConfig struct {
			Name    string `env:"TEST_CONFIG_NAME" envDefault:"membership"`
			Workers int    `env:"TEST_CONFIG_WORKERS" envDefault:"4"`
		}

		t.Setenv("TEST_CONFIG_NAME", "billing")

		var cfg testConfig
		require.NoError(t, config.Load(&cfg))
		assert.Equal(t, "billing", cfg.Name)
		assert.Equal(t, 4, cfg.Workers)
	})

	t.Run("caches per type", func(t *testing.T) {
		type cachedConfig struct {
			Value string `env:"TEST_CACHED_VALUE" envDefault:"first"`
		}

		var first cachedConfig
		require.NoError(t, config.Load(&first))
		assert.Equal(t, "first", first.Value)

		// A later env change must not affect the cached copy.
		t.Setenv("TEST_CACHED_VALUE", "second")

		var second cachedConfig
		require.NoError(t, config.Load(&second))
		assert.Equal(t, "first", second.Value)
	})

	t.Run("nil pointer", func(t *testing.T) {
		type nilConfig struct{}
		err := config.Load[nilConfig](nil)
		assert.ErrorIs(t, err, config.ErrNilPointer)
	})

	t.Run("required variable missing", func(t *testing.T) {
		type requiredConfig struct {
			Token string `env:"TEST_REQUIRED_TOKEN,required"`
		}

		var cfg requiredConfig
		err := config.Load(&cfg)
		assert.ErrorIs(t, err, config.ErrParsingConfig)
	})
}
