package main

import (
	"context"
	"fmt"
	"os"

	"github.com/yungbote/placesync/internal/app"
	"github.com/yungbote/placesync/internal/ingest"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "ingest: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx := context.Background()

	application, err := app.New(ctx)
	if err != nil {
		return fmt.Errorf("init app: %w", err)
	}
	defer application.Close()

	runner := ingest.NewRunner(application.DB, application.Repos, application.Cfg, application.Log)
	if err := runner.Run(ctx); err != nil {
		application.Log.Error("ingest failed", "error", err)
		return err
	}
	return nil
}
