// Package config loads environment-backed configuration structs.
//
// Configuration is declared as plain structs with `env` tags and loaded
// through Load or MustLoad:
//
//	type GuardConfig struct {
//		WaitTimeout time.Duration `env:"GUARD_WAIT_TIMEOUT" envDefault:"5s"`
//	}
//
//	var cfg GuardConfig
//	config.MustLoad(&cfg)
//
// Load reads the optional .env file once per process and caches each
// configuration type after the first successful parse, so packages can load
// their own configuration independently without re-reading the environment.
package config
