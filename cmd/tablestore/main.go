package main

import (
	"log/slog"
	"os"
	"time"

	"github.com/evenaglia/tablestore/internal/collection"
	"github.com/evenaglia/tablestore/internal/logging"
	"github.com/evenaglia/tablestore/internal/rowstore"
	"github.com/evenaglia/tablestore/internal/table"
)

func main() {
	logger, closeFn := logging.SetupLogger()
	defer closeFn()

	slog.SetDefault(logger)
	time.Sleep(1 * time.Second)
	slog.Info("starting tablestore demo")

	states, err := table.New([]string{"id", "name", "abbr", "region", "population"})
	if err != nil {
		slog.Error("failed to create table", "error", err)
		closeFn()
		os.Exit(1)
	}
	states.AddObserver(logging.NewLoggingObserver(slog.Default()))

	if _, err := states.Index("region", "population"); err != nil {
		slog.Error("index build failed", "error", err)
		closeFn()
		os.Exit(1)
	}

	clones, err := states.Insert([]rowstore.Row{
		{"id": 1, "name": "California", "abbr": "CA", "region": "West", "population": 36553215},
		{"id": 2, "name": "Texas", "abbr": "TX", "region": "South", "population": 23904380},
		{"id": 3, "name": "New York", "abbr": "NY", "region": "Northeast", "population": 19297729},
	})
	if err != nil {
		slog.Error("insert failed", "error", err)
		closeFn()
		os.Exit(1)
	}
	slog.Info("inserted rows", "count", len(clones))

	matches, err := states.FindWhere("abbr", "in", collection.NewSet("CA", "TX")).GetRows()
	if err != nil {
		slog.Error("query failed", "error", err)
		closeFn()
		os.Exit(1)
	}
	slog.Info("query returned rows", "count", len(matches))

	if err := states.ValidateIndex(); err != nil {
		slog.Error("index validation failed", "error", err)
		closeFn()
		os.Exit(1)
	}

	count, err := states.GetCount()
	if err != nil {
		slog.Error("getCount failed", "error", err)
		closeFn()
		os.Exit(1)
	}
	slog.Info("demo ready", "rows", count)
}
