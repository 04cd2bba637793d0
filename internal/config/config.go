// Package config manages environment variables.
//
// It reads variable from the `.env` file,
// loads them into structured Go types (struct), and
// validates that required values are present so they
// can be reused accross the application runtime.
//
// Responsibilities:
//   - Load environment variables (optionally from a `.env` file).
//   - Map env vars into a structured Go config (structs).
//   - Apply sane defaults so the service runs with zero configuration.
//   - Validate values so the app fails fast on bad config.
package config

import (
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	// Side-effect import: triggers godotenv's autoload feature.
	// That means: if a `.env` file exists, it gets loaded into process env
	// *before* your code reads env vars. No explicit call needed.
	_ "github.com/joho/godotenv/autoload"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
	"github.com/rs/zerolog"
)

/*
	`koanf` is a config library. Its job is to read config source
	(e.g `.env`, yaml, json, etc) then unmarshal (i.e. decode from lower-level
	to higher-level obejct structure) into your struct.

	Key idea in this file:
	- Env vars are read using a prefix: TODO_
	- Keys are normalized (lowercased, prefix removed)
	- Nesting is expressed with a double underscore, which maps to the "."
	  delimiter koanf uses internally
	  e.g. TODO_SERVER__PORT -> server.port -> Config.Server.Port
	- A single underscore stays part of the key, so multi-word leaf fields
	  keep working: TODO_SERVER__READ_TIMEOUT -> server.read_timeout
*/

// Config is the root configuration object for the application.
//
// The `koanf:"..."` tags specify where koanf should map values from.
// The `validate:"..."` tags are used by go-playground/validator
// to enforce that the config is populated with sensible values.
//
// Observability is a pointer because it is optional. If not provided,
// we inject defaults at runtime.
type Config struct {
	Primary       Primary              `koanf:"primary" validate:"required"`
	Server        ServerConfig         `koanf:"server" validate:"required"`
	Database      DatabaseConfig       `koanf:"database" validate:"required"`
	Observability *ObservabilityConfig `koanf:"observability"`
}

// Primary holds top-level information about the runtime environment.
// Usually used to tag logs/traces and switch behavior based on env.
type Primary struct {
	Env string `koanf:"env" validate:"required"`
}

// ServerConfig groups settings for the HTTP server runtime.
//
// NOTE: Timeouts are ints holding seconds. Env vars supply plain numbers
// ("10" means ten seconds); the server layer converts to time.Duration.
type ServerConfig struct {
	// Host is the bind address. Empty means all interfaces.
	Host string `koanf:"host"`

	// Port is kept as a string because it is only ever concatenated into
	// a listen address.
	Port string `koanf:"port" validate:"required"`

	ReadTimeout  int `koanf:"read_timeout" validate:"required"`
	WriteTimeout int `koanf:"write_timeout" validate:"required"`
	IdleTimeout  int `koanf:"idle_timeout" validate:"required"`

	CORSAllowedOrigins []string `koanf:"cors_allowed_origins" validate:"required"`

	// RateLimit is the per-client request rate (requests/second) enforced by
	// the rate limiter middleware. Generous by default; this service is not
	// expected to be hammered.
	RateLimit float64 `koanf:"rate_limit" validate:"required,gt=0"`
}

// DatabaseConfig locates the embedded sqlite database file.
//
// There is deliberately no pool tuning here: the store runs on a single
// shared connection (opened at startup, closed at shutdown), so knobs like
// max_open_conns would only mislead.
type DatabaseConfig struct {
	// Path is the sqlite file path. The file is created on first open.
	Path string `koanf:"path" validate:"required"`
}

// New loads configuration from environment variables, unmarshals it into
// Config structs, applies defaults, validates it, and returns the resulting config.
//
// Behavior summary:
//   - Loads env vars with prefix TODO_
//   - Converts env keys into koanf keys ("__" becomes the "." nesting separator)
//   - Unmarshals into Config
//   - Fills in defaults for anything not provided (the service must boot with
//     zero env: port 8000, all interfaces, todo_project.db)
//   - Validates required config blocks/fields
//   - Overrides observability service name + environment
//   - Validates observability config as well
//
// NOTE: This function *logs fatally* on many errors. That means it will exit
// the process immediately. It only returns an error on the happy path currently,
// which is… a design choice.
func New() (*Config, error) {
	// Create a logger that writes in a human-friendly console format to STDERR.
	//
	// - zerolog.New(...) builds a base logger
	// - With().Timestamp() adds a timestamp field to each log entry
	// - Logger() finalizes it
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	// Create a new koanf instance.
	// The "." is the key-path delimiter koanf uses to represent nesting.
	// e.g. "server.port" means Config.Server.Port
	k := koanf.New(".")

	// Load environment variables into koanf.
	//
	// env.Provider parameters:
	//   1) prefix: "TODO_" means only env vars with this prefix are read
	//   2) delimiter: "." tells koanf how to interpret nested keys
	//   3) key-mapping func: transforms raw env var names into koanf keys
	//
	// The mapping function:
	//   - strings.TrimPrefix(s, "TODO_") removes the prefix
	//   - strings.ToLower(...) normalizes to lowercase
	//   - strings.ReplaceAll(..., "__", ".") turns the double underscore into
	//     the nesting separator
	//
	// Example:
	//   TODO_SERVER__READ_TIMEOUT -> "server.read_timeout" -> Config.Server.ReadTimeout
	err := k.Load(env.Provider("TODO_", ".", func(s string) string {
		return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, "TODO_")), "__", ".")
	}), nil)
	if err != nil {
		// Fatal logs the error and exits the program.
		logger.Fatal().Err(err).Msg("Could not load initial env variables.")
	}

	// mainConfig will hold the decoded configuration.
	mainConfig := &Config{}

	// Unmarshal reads the flat key-value store from koanf and fills mainConfig.
	//
	// The first argument is the key path to unmarshal from.
	// Using "" means "unmarshal everything from the root".
	err = k.Unmarshal("", mainConfig)
	if err != nil {
		logger.Fatal().Err(err).Msg("Could not unmarshal main config.")
	}

	// Fill in defaults before validating, so a bare `go run ./cmd/api`
	// boots a working service.
	applyDefaults(mainConfig)

	// Create a new validator instance.
	// This validator reads `validate:"..."` tags on struct fields.
	validate := validator.New()

	// Validate the entire config struct recursively.
	//
	// After defaulting, anything still missing or out of range is a real
	// configuration mistake, so fail fast.
	err = validate.Struct(mainConfig)
	if err != nil {
		logger.Fatal().Err(err).Msg("Config validation failed.")
	}

	// Override service name and environment from primary config.
	// Force service name and environment values regardless of what user set.
	// This ensures tracing/logging sees consistent service naming.
	//
	// - ServiceName is hardcoded to "todo-api"
	// - Environment is derived from Primary.Env
	mainConfig.Observability.ServiceName = "todo-api"
	mainConfig.Observability.Environment = mainConfig.Primary.Env

	// Validate observability config using its own validation logic.
	// This is separate from go-playground/validator tags and enforces
	// enum-ish constraints like the allowed log levels.
	if err := mainConfig.Observability.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("invalid observability config")
	}

	return mainConfig, nil
}

// applyDefaults fills every optional knob that was not supplied via env.
//
// The defaults here are the documented contract of the service:
// port 8000, all interfaces, todo_project.db next to the binary.
func applyDefaults(cfg *Config) {
	if cfg.Primary.Env == "" {
		cfg.Primary.Env = "local"
	}

	if cfg.Server.Port == "" {
		cfg.Server.Port = "8000"
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = 10
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = 10
	}
	if cfg.Server.IdleTimeout == 0 {
		cfg.Server.IdleTimeout = 60
	}
	if len(cfg.Server.CORSAllowedOrigins) == 0 {
		cfg.Server.CORSAllowedOrigins = []string{"*"}
	}
	if cfg.Server.RateLimit == 0 {
		cfg.Server.RateLimit = 100
	}

	if cfg.Database.Path == "" {
		cfg.Database.Path = "todo_project.db"
	}

	// Observability is a pointer field, so nil means "missing".
	if cfg.Observability == nil {
		cfg.Observability = DefaultObservabilityConfig()
		return
	}

	// Partially-set observability (say, just a license key) still needs the
	// rest of the block filled in, otherwise validation would reject it.
	obs := cfg.Observability
	defaults := DefaultObservabilityConfig()
	if obs.ServiceName == "" {
		obs.ServiceName = defaults.ServiceName
	}
	if obs.Environment == "" {
		obs.Environment = cfg.Primary.Env
	}
	if obs.Logging.Format == "" {
		obs.Logging.Format = defaults.Logging.Format
	}
	if obs.Logging.SlowQueryThreshold == 0 {
		obs.Logging.SlowQueryThreshold = defaults.Logging.SlowQueryThreshold
	}
	if obs.HealthChecks.Interval == 0 {
		obs.HealthChecks.Interval = defaults.HealthChecks.Interval
	}
	if obs.HealthChecks.Timeout == 0 {
		obs.HealthChecks.Timeout = defaults.HealthChecks.Timeout
	}
	if len(obs.HealthChecks.Checks) == 0 {
		obs.HealthChecks.Checks = defaults.HealthChecks.Checks
	}
}
