package logger

import (
	"io"
	"os"
	"time"

	"github.com/deppfellow/todo-api/internal/config"
	"github.com/newrelic/go-agent/v3/integrations/logcontext-v2/zerologWriter"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/pkgerrors"
)

// shutdownTimeout bounds how long we wait for the agent to flush on exit.
const shutdownTimeout = 10 * time.Second

func init() {
	// Errors are created with github.com/pkg/errors, which attaches stack
	// traces. This marshaler is what makes logger.Error().Stack() render them.
	zerolog.ErrorStackMarshaler = pkgerrors.MarshalStack
}

// New builds the application's root zerolog.Logger from config.
//
// Layering, inside out:
//  1. Pick the sink: stdout for JSON, a ConsoleWriter for human-readable
//     output. Console is for eyes only; log shippers get JSON.
//  2. If the New Relic agent is running and log forwarding is on, wrap the
//     JSON sink in zerologWriter so every line is decorated with linking
//     metadata and forwarded to New Relic. Console output is never wrapped,
//     the forwarder expects JSON.
//  3. Apply the effective level and the base fields every log line carries.
//
// Handlers never use this logger directly; they use the request-scoped
// child that the context middleware derives from it.
func New(cfg *config.Config, svc *LoggerService) zerolog.Logger {
	obs := cfg.Observability

	level, err := zerolog.ParseLevel(obs.GetLogLevel())
	if err != nil {
		// Config validation already gates the level values, so this is
		// unreachable in practice. Default to info rather than panic.
		level = zerolog.InfoLevel
	}

	var out io.Writer = os.Stdout
	console := obs.Logging.Format == "console"
	if console {
		out = zerolog.ConsoleWriter{Out: os.Stderr}
	}

	if app := svc.GetApplication(); app != nil && obs.NewRelic.AppLogForwardingEnabled && !console {
		out = zerologWriter.New(out, app)
	}

	return zerolog.New(out).
		Level(level).
		With().
		Timestamp().
		Str("service", obs.ServiceName).
		Str("env", obs.Environment).
		Logger()
}

// WithTraceContext returns a child logger carrying the transaction's trace
// identifiers, so log lines can be joined with distributed traces.
//
// The field names (trace.id, span.id) are the ones New Relic's log UI
// correlates on; do not rename them.
func WithTraceContext(l zerolog.Logger, txn *newrelic.Transaction) zerolog.Logger {
	if txn == nil {
		return l
	}

	md := txn.GetTraceMetadata()
	if md.TraceID == "" {
		return l
	}

	return l.With().
		Str("trace.id", md.TraceID).
		Str("span.id", md.SpanID).
		Logger()
}
