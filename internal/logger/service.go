package logger

import (
	"os"

	"github.com/deppfellow/todo-api/internal/config"
	"github.com/newrelic/go-agent/v3/newrelic"
)

// LoggerService owns the New Relic application instance.
//
// It exists so the rest of the codebase never touches the agent directly:
// middleware and handlers ask for the application via GetApplication() and
// must tolerate a nil answer, because the agent is optional.
type LoggerService struct {
	// app is nil when no license key is configured.
	app *newrelic.Application
}

// NewLoggerService initializes the New Relic agent from config.
//
// Behavior:
//   - Empty license key: returns a service with a nil application.
//     Logging still works, tracing is simply absent. This is the normal
//     mode for local development and tests.
//   - License key present: builds the application with the configured
//     feature toggles. A malformed key or bad agent config is a startup
//     error, because silently running without the APM you asked for is
//     worse than failing fast.
//
// The returned error is only non-nil when a key was supplied and the agent
// rejected the configuration.
func NewLoggerService(cfg *config.Config) (*LoggerService, error) {
	nrCfg := cfg.Observability.NewRelic

	if nrCfg.LicenseKey == "" {
		return &LoggerService{app: nil}, nil
	}

	// ConfigOptions are applied in order; later options win.
	opts := []newrelic.ConfigOption{
		newrelic.ConfigAppName(cfg.Observability.ServiceName),
		newrelic.ConfigLicense(nrCfg.LicenseKey),
		newrelic.ConfigAppLogForwardingEnabled(nrCfg.AppLogForwardingEnabled),
		newrelic.ConfigDistributedTracerEnabled(nrCfg.DistributedTracingEnabled),
	}

	// Agent-internal debug output. Keep off unless chasing agent issues,
	// it interleaves plain-text lines with the JSON app logs.
	if nrCfg.DebugLogging {
		opts = append(opts, newrelic.ConfigDebugLogger(os.Stdout))
	}

	app, err := newrelic.NewApplication(opts...)
	if err != nil {
		return nil, err
	}

	// Deliberately no WaitForConnection here: the agent connects in the
	// background and buffers early data. Blocking startup on an APM
	// handshake would make the service's availability depend on New Relic's.
	return &LoggerService{app: app}, nil
}

// GetApplication returns the New Relic application, or nil when the agent
// is disabled. Callers must nil-check.
func (s *LoggerService) GetApplication() *newrelic.Application {
	if s == nil {
		return nil
	}
	return s.app
}

// Shutdown flushes buffered agent data. Safe to call when the agent is
// disabled. Used during graceful shutdown; timeout bounds the flush.
func (s *LoggerService) Shutdown() {
	if s == nil || s.app == nil {
		return
	}
	s.app.Shutdown(shutdownTimeout)
}
