package main

import (
	"context"
	"fmt"
	"os"

	"github.com/yungbote/placesync/internal/app"
	"github.com/yungbote/placesync/internal/platform/dbctx"
	"github.com/yungbote/placesync/internal/report"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "report: %v\n", err)
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

	reporter := report.NewReporter(application.Repos.Summary, application.Cfg.Encoding, application.Log)
	summary, err := reporter.Generate(dbctx.Context{Ctx: ctx})
	if err != nil {
		application.Log.Error("summary generation failed", "error", err)
		return err
	}
	if err := reporter.WriteFile(application.Cfg.OutputPath(), summary); err != nil {
		application.Log.Error("summary write failed", "error", err)
		return err
	}
	return nil
}
