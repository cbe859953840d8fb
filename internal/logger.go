package internal

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/m-mizutani/preplan"
)

var testLogger *slog.Logger

func init() {
	testLogger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	if os.Getenv("PREPLAN_TEST_LOG") == "1" {
		testLogger = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
	}
}

// TestContext returns a background context carrying the test logger, so
// code under test exercises its log statements.
func TestContext() context.Context {
	return preplan.CtxWithLogger(context.Background(), testLogger)
}
