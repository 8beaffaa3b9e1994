package testutil

import (
	"context"
	"fmt"
	"testing"
	"time"

	"labcompass/lib/chrono"
	"labcompass/lib/labhistory"
	"labcompass/lib/labstore"
	"labcompass/lib/telemetry"
)

type ServiceParams struct {
	Name string
	// if unspecified, it will use `:memory:`
	DbPath string
	// if unspecified, the clock starts at 2024-11-05 09:00 in Tokyo
	Start time.Time
}

type ServiceResult struct {
	Store   *labstore.SQL
	History *labhistory.History
	Clock   *chrono.ManualTime
	Tel     *telemetry.Recorder
}

// SetupService sets up telemetry and a history over a sqlite store for the
// tests of a service, the returned function releases both.
func SetupService(t testing.TB, params ServiceParams) (ServiceResult, func()) {
	cleanup := telemetry.SetupForTesting(t, fmt.Sprintf("test:%s", params.Name))

	dbpath := ":memory:"
	if params.DbPath != "" {
		dbpath = params.DbPath
	}
	store, err := labstore.OpenSQLite(context.Background(), dbpath)
	if err != nil {
		t.Fatal(err)
	}

	start := params.Start
	if start.IsZero() {
		start = time.Date(2024, time.November, 5, 9, 0, 0, 0, chrono.Tokyo())
	}
	clock := chrono.NewManualTime(start)
	tel := &telemetry.Recorder{Inner: telemetry.SlogAPI{}}

	return ServiceResult{
			Store:   store,
			History: labhistory.NewHistory(store, clock, tel),
			Clock:   clock,
			Tel:     tel,
		}, func() {
			store.Close()
			cleanup()
		}
}
