package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/authgate/pkg/config"
)

// Each test uses its own config type because parsed values are cached per
// type for the life of the process.

func TestLoad(t *testing.T) {
	t.Run("reads tagged environment variables", func(t *testing.T) {
		type serverConfig struct {
			Host    string        `env:"LOADER_TEST_HOST" envDefault:"localhost"`
			Port    int           `env:"LOADER_TEST_PORT" envDefault:"8080"`
			Timeout time.Duration `env:"LOADER_TEST_TIMEOUT" envDefault:"5s"`
		}

		t.Setenv("LOADER_TEST_HOST", "0.0.0.0")
		t.Setenv("LOADER_TEST_PORT", "9090")

		var cfg serverConfig
		require.NoError(t, config.Load(&cfg))

		assert.Equal(t, "0.0.0.0", cfg.Host)
		assert.Equal(t, 9090, cfg.Port)
		assert.Equal(t, 5*time.Second, cfg.Timeout, "unset variables fall back to defaults")
	})

	t.Run("caches per type", func(t *testing.T) {
		type cachedConfig struct {
			Value string `env:"LOADER_TEST_CACHED" envDefault:"first"`
		}

		t.Setenv("LOADER_TEST_CACHED", "first")

		var a cachedConfig
		require.NoError(t, config.Load(&a))
		require.Equal(t, "first", a.Value)

		t.Setenv("LOADER_TEST_CACHED", "second")

		var b cachedConfig
		require.NoError(t, config.Load(&b))
		assert.Equal(t, "first", b.Value, "second load must return the cached value")
	})

	t.Run("nil pointer", func(t *testing.T) {
		type nilConfig struct {
			Value string `env:"LOADER_TEST_NIL"`
		}

		var cfg *nilConfig
		err := config.Load(cfg)
		assert.ErrorIs(t, err, config.ErrNilPointer)
	})

	t.Run("missing required variable", func(t *testing.T) {
		type requiredConfig struct {
			Secret string `env:"LOADER_TEST_ABSENT_SECRET,required"`
		}

		var cfg requiredConfig
		err := config.Load(&cfg)
		assert.ErrorIs(t, err, config.ErrParsingConfig)
	})

	t.Run("separated slices", func(t *testing.T) {
		type routesConfig struct {
			Routes []string `env:"LOADER_TEST_ROUTES" envSeparator:"," envDefault:"/"`
		}

		t.Setenv("LOADER_TEST_ROUTES", "/,/pricing,/about")

		var cfg routesConfig
		require.NoError(t, config.Load(&cfg))
		assert.Equal(t, []string{"/", "/pricing", "/about"}, cfg.Routes)
	})
}

func TestMustLoad(t *testing.T) {
	t.Run("panics on failure", func(t *testing.T) {
		type strictConfig struct {
			Token string `env:"LOADER_TEST_ABSENT_TOKEN,required"`
		}

		assert.Panics(t, func() {
			var cfg strictConfig
			config.MustLoad(&cfg)
		})
	})

	t.Run("passes through on success", func(t *testing.T) {
		type easyConfig struct {
			Name string `env:"LOADER_TEST_NAME" envDefault:"authgate"`
		}

		var cfg easyConfig
		assert.NotPanics(t, func() { config.MustLoad(&cfg) })
		assert.Equal(t, "authgate", cfg.Name)
	})
}
