package main

import (
	"context"
	"log/slog"

	"godelterm/cmd/godel-cli/commands"
	"godelterm/lib/telemetry"
)

func main() {
	telemetry.InitSlog(true)

	ctx := context.Background()
	tel, err := telemetry.SetupFromEnv(ctx, "godel-cli")
	if err != nil {
		slog.Debug("telemetry export disabled", "err", err)
	} else {
		defer tel.Shutdown(ctx)
		telemetry.InstrumentPerfStats(ctx)
	}

	commands.ExecuteContext(ctx)
}
