package main

import (
	"log/slog"

	"beholder/internal/config"
	"beholder/internal/events"
	"beholder/internal/jobs"
	"beholder/internal/notify"
	"beholder/internal/progress"
	"beholder/internal/status"
	"beholder/internal/store"
	"beholder/internal/timeutil"
)

// newRouter wires every topic handler onto a router. The progress tracker is
// returned separately because the daemon also drives its sweep loop.
func newRouter(cfg *config.Config, stateStore store.Store, jobStore jobs.Store, logger *slog.Logger) (*events.Router, *progress.Tracker) {
	sink := notify.New(cfg, logger)
	tracker := progress.New(stateStore, sink, timeutil.SystemClock{}, logger, cfg.Watcher.SweepStage)
	statusHandler := status.New(cfg, jobStore, sink, logger)

	router := events.NewRouter(logger)
	register := func(topic events.Topic, handler events.Handler) {
		if err := router.Register(topic, handler); err != nil {
			// Registration only fails on wiring bugs in this function.
			panic(err)
		}
	}
	register(events.TopicProgress, events.NewProgressHandler(tracker))
	register(events.TopicStatus, events.NewStatusHandler(statusHandler))
	register(events.TopicError, events.NewErrorHandler(sink, logger))
	register(events.TopicEvents, events.NewUserEventHandler(sink, logger))

	return router, tracker
}
