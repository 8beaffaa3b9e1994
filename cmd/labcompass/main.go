package main

import (
	"context"
	"os"
	"time"

	"labcompass/cmd/labcompass/commands"
	"labcompass/lib/serviceutil"
	"labcompass/lib/telemetry"
)

func main() {
	telemetry.InitSlog(false)

	ctx := serviceutil.SignalContext()
	tel, err := telemetry.SetupFromEnv(ctx, "labcompass")
	if err != nil {
		serviceutil.Fatal("failed to setup telemetry", err)
	}

	code := 0
	if err := commands.ExecuteContext(ctx); err != nil {
		code = 1
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()
	tel.Shutdown(shutdownCtx)
	os.Exit(code)
}
