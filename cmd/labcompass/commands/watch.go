package commands

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"labcompass/lib/chrono"
	"labcompass/lib/labhistory"
	"labcompass/lib/notify"
	"labcompass/lib/scrapers/phase1"
	"labcompass/lib/serviceutil"
	"labcompass/lib/telemetry"
	"labcompass/services/labcompass"

	"github.com/spf13/cobra"
)

const defaultSchedule = "*/15 8-22 * * *"

var watchSchedule *string
var watchPort *int
var watchNow *bool

func init() {
	watchSchedule = watchCmd.Flags().String("schedule", "", fmt.Sprintf("The cron schedule, defaults to watch.schedule or %q.", defaultSchedule))
	watchPort = watchCmd.Flags().Int("port", 0, "Serve the last run on this port, defaults to watch.status_port.")
	watchNow = watchCmd.Flags().Bool("now", false, "Run once immediately before waiting for the schedule.")
	rootCmd.AddCommand(watchCmd)
}

// watchRun is the outcome of one scheduled run.
type watchRun struct {
	RunID       string                             `json:"runId,omitempty"`
	Time        time.Time                          `json:"time"`
	Error       string                             `json:"error,omitempty"`
	Labs        int                                `json:"labs"`
	ChangedLabs int                                `json:"changedLabs"`
	History     map[string]labhistory.HistoryState `json:"history,omitempty"`
}

type watcher struct {
	client   *phase1.Client
	service  *labcompass.Service
	notifier notify.Notifier
	notify   bool
	time     chrono.TimeAPI
	tel      telemetry.API

	mutex sync.Mutex
	last  *watchRun
}

func (w *watcher) digests(view labcompass.View, now time.Time) []notify.Digest {
	var digests []notify.Digest
	if view.History != nil && view.History.ChangedLabs > 0 {
		digests = append(digests, notify.Digest{Key: labhistory.GlobalKey, State: *view.History, Time: now})
	}
	for _, stat := range view.ProgramStats {
		state, ok := view.ProgramHistory[stat.Program]
		if !ok || state.ChangedLabs == 0 {
			continue
		}
		digests = append(digests, notify.Digest{Key: stat.Program, State: state, Time: now})
	}
	return digests
}

func (w *watcher) run(ctx context.Context) {
	now := w.time.Now()
	result := watchRun{Time: now}
	defer func() {
		w.mutex.Lock()
		w.last = &result
		w.mutex.Unlock()
	}()

	ctx, cancel := context.WithTimeout(ctx, time.Minute)
	defer cancel()

	doc, err := w.client.Fetch(ctx)
	if err != nil {
		w.tel.ReportBroken("watch.fetch", err)
		result.Error = err.Error()
		return
	}
	view, err := w.service.Analyze(ctx, doc, labcompass.Options{})
	result.RunID = view.RunID
	if errors.Is(err, labcompass.ErrNoLabs) {
		w.tel.ReportWarning("watch.analyze", err)
		result.Error = err.Error()
		return
	}
	if err != nil {
		w.tel.ReportBroken("watch.analyze", err)
		result.Error = err.Error()
		return
	}

	result.Labs = len(view.Labs)
	result.History = map[string]labhistory.HistoryState{}
	if view.History != nil {
		result.ChangedLabs = view.History.ChangedLabs
		result.History[labhistory.GlobalKey] = *view.History
	}
	for program, state := range view.ProgramHistory {
		result.History[program] = state
	}
	slog.Info("watch run done", "run_id", view.RunID, "labs", result.Labs, "changed_labs", result.ChangedLabs)

	if !w.notify {
		return
	}
	for _, digest := range w.digests(view, now) {
		err := w.notifier.Send(ctx, digest)
		if err != nil {
			w.tel.ReportBroken("watch.notify", err)
		}
	}
}

func (w *watcher) ServeHTTP(rw http.ResponseWriter, _ *http.Request) {
	w.mutex.Lock()
	last := w.last
	w.mutex.Unlock()

	rw.Header().Set("content-type", "application/json")
	if last == nil {
		rw.WriteHeader(http.StatusNoContent)
		return
	}
	json.NewEncoder(rw).Encode(last)
}

var watchCmd = &cobra.Command{
	Use:   "watch [--schedule <cron spec>] [--port <port>] [--now]",
	Short: "Fetches the report on a schedule, records snapshots and mails what changed.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		e, err := openEnv(ctx)
		if err != nil {
			return err
		}
		defer e.Close()

		tel := telemetry.NewScopedAPI("watch", e.tel)
		client, err := phase1.NewClient(e.config.Report, telemetry.NewScopedAPI("phase1", e.tel))
		if err != nil {
			return fmt.Errorf("create report client: %w", err)
		}

		w := &watcher{
			client:   client,
			service:  e.service,
			notifier: notify.NewNotifier(e.config.Notify),
			notify:   e.config.Notify.Enabled(),
			time:     chrono.NewStandardTime(),
			tel:      tel,
		}

		schedule := *watchSchedule
		if schedule == "" {
			schedule = e.config.Watch.Schedule
		}
		if schedule == "" {
			schedule = defaultSchedule
		}
		port := *watchPort
		if port == 0 {
			port = e.config.Watch.StatusPort
		}

		telemetry.InstrumentPerfStats(ctx, time.Minute, tel)
		if port > 0 {
			mux := http.NewServeMux()
			mux.Handle("/status", w)
			go serviceutil.StartHttpServer(ctx, port, mux)
		}

		if *watchNow {
			w.run(ctx)
		}

		cron := chrono.NewStandardCron(tel)
		err = cron.Cron(schedule, func() { w.run(ctx) })
		if err != nil {
			cron.Stop()
			return fmt.Errorf("invalid schedule %q: %w", schedule, err)
		}
		slog.Info("watching report", "schedule", schedule, "notify", w.notify)

		<-ctx.Done()
		cron.Stop()
		return nil
	},
}
