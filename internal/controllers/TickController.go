package controllers

import (
	"context"
	"errors"
	"net/http"
	"streamwatch/internal/providers"
	"streamwatch/internal/structures"
	"streamwatch/internal/watcher"
	"streamwatch/internal/watcher/interfaces"
)

type TickController struct {
	conf      *structures.Config
	scheduler interfaces.SchedulerInterface
	logger    providers.Logger
}

func NewTickController(conf *structures.Config, scheduler interfaces.SchedulerInterface, logger providers.Logger) *TickController {
	return &TickController{conf: conf, scheduler: scheduler, logger: logger}
}

// Tick runs one reconciliation pass on demand. The pass is detached from
// the request so a client hanging up does not cut it short.
func (tc *TickController) Tick(w http.ResponseWriter, r *http.Request) {
	if !authorized(r, tc.conf.Trigger.AccessKey) {
		tc.logger.Warnf(providers.GetLogTypeByRequestType(r.Method), "Rejected tick from %s", r.RemoteAddr)
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	}

	report, err := tc.scheduler.RunOnce(context.WithoutCancel(r.Context()), watcher.SourceTrigger)
	status := http.StatusOK
	switch {
	case errors.Is(err, watcher.ErrTooSoon):
		status = http.StatusTooManyRequests
	case errors.Is(err, watcher.ErrPassRunning):
		status = http.StatusConflict
	case err != nil:
		tc.logger.Errorf(providers.TypeWatch, "Triggered pass failed: %s", err)
		status = http.StatusInternalServerError
	}
	writeJSON(w, status, report)
}
