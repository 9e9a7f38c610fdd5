package logging

import (
	"context"
	"log/slog"
	"os"
	"time"

	slogseq "github.com/sokkalf/slog-seq"
)

// multiHandler forwards log records to multiple handlers
type multiHandler struct {
	handlers []slog.Handler
}

func (m *multiHandler) Enabled(ctx context.Context, level slog.Level) bool {
	// Enable if any handler is enabled for this level
	for _, h := range m.handlers {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (m *multiHandler) Handle(ctx context.Context, r slog.Record) error {
	for _, h := range m.handlers {
		if err := h.Handle(ctx, r.Clone()); err != nil {
			return err
		}
	}
	return nil
}

func (m *multiHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	handlers := make([]slog.Handler, len(m.handlers))
	for i, h := range m.handlers {
		handlers[i] = h.WithAttrs(attrs)
	}
	return &multiHandler{handlers: handlers}
}

func (m *multiHandler) WithGroup(name string) slog.Handler {
	handlers := make([]slog.Handler, len(m.handlers))
	for i, h := range m.handlers {
		handlers[i] = h.WithGroup(name)
	}
	return &multiHandler{handlers: handlers}
}

// Config controls where SetupLoggerWithConfig sends log output. DefaultConfig
// returns a usable starting point; override whatever fields the caller needs.
type Config struct {
	// Level is the minimum level both the console and Seq handlers emit.
	Level slog.Level
	// AddSource attaches the calling file:line to each record.
	AddSource bool
	// SeqEndpoint is the Seq server URL. Empty disables the Seq handler
	// entirely, leaving console-only logging.
	SeqEndpoint string
	// SeqBatchSize and SeqFlushInterval tune the Seq handler's batching.
	SeqBatchSize     int
	SeqFlushInterval time.Duration
}

// seqEndpointEnvVar overrides DefaultConfig's Seq endpoint when set, so a
// demo or test run can point at a different Seq instance without a code
// change.
const seqEndpointEnvVar = "TABLESTORE_SEQ_ENDPOINT"

// DefaultConfig returns console-plus-local-Seq logging at debug level, the
// setup cmd/tablestore uses out of the box.
func DefaultConfig() Config {
	endpoint := os.Getenv(seqEndpointEnvVar)
	if endpoint == "" {
		endpoint = "http://localhost:5341"
	}
	return Config{
		Level:            slog.LevelDebug,
		AddSource:        true,
		SeqEndpoint:      endpoint,
		SeqBatchSize:     1,
		SeqFlushInterval: 500 * time.Millisecond,
	}
}

// SetupLogger builds a logger from DefaultConfig and returns it with a
// cleanup function. It does not install the logger as slog's default.
func SetupLogger() (*slog.Logger, func()) {
	return SetupLoggerWithConfig(DefaultConfig())
}

// SetupLoggerWithConfig builds a logger that always writes to stdout and,
// when cfg.SeqEndpoint is non-empty, also fans out to a Seq server. If the
// Seq handler fails to come up, it falls back to console-only.
func SetupLoggerWithConfig(cfg Config) (*slog.Logger, func()) {
	consoleHandler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level:     cfg.Level,
		AddSource: cfg.AddSource,
	})

	if cfg.SeqEndpoint == "" {
		return slog.New(consoleHandler), func() {}
	}

	_, seqHandler := slogseq.NewLogger(
		cfg.SeqEndpoint,
		slogseq.WithBatchSize(cfg.SeqBatchSize),
		slogseq.WithFlushInterval(cfg.SeqFlushInterval),
		slogseq.WithHandlerOptions(&slog.HandlerOptions{
			Level:     cfg.Level,
			AddSource: cfg.AddSource,
		}),
	)

	if seqHandler == nil {
		return slog.New(consoleHandler), func() {}
	}

	multi := &multiHandler{
		handlers: []slog.Handler{consoleHandler, seqHandler},
	}
	logger := slog.New(multi)
	closeFn := func() {
		seqHandler.Close()
	}
	return logger, closeFn
}
