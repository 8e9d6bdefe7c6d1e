package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"storefront/internal/domain"
	"storefront/internal/mediahook"
)

type eventResponse struct {
	Status string `json:"status"`
	JobID  string `json:"job_id,omitempty"`
	Mode   string `json:"mode"`
}

// MediaEvent accepts an asset-saved event. With a job queue the event is
// persisted for the worker; without one the hooks run in the background.
func (a *App) MediaEvent(w http.ResponseWriter, r *http.Request) {
	var ref domain.MediaRef
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<16))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&ref); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	if err := ref.Validate(); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", err.Error())
		return
	}

	if a.Jobs != nil {
		job, err := a.Jobs.Enqueue(r.Context(), ref)
		if err != nil {
			a.Logger.Error().Err(err).Str("ref", ref.String()).Msg("media event: enqueue failed")
			a.error(w, http.StatusInternalServerError, "internal", "failed to queue job")
			return
		}
		a.json(w, http.StatusAccepted, eventResponse{Status: string(job.Status), JobID: job.ID, Mode: "queued"})
		return
	}

	if a.Hooks == nil {
		a.error(w, http.StatusServiceUnavailable, "unavailable", "media hooks not configured")
		return
	}
	logger := a.Logger
	a.Hooks.Dispatch(context.WithoutCancel(r.Context()), ref, func(rep mediahook.Report) {
		if err := rep.Err(); err != nil && !errors.Is(err, context.Canceled) {
			logger.Warn().Err(err).Str("ref", rep.Ref.String()).Msg("media event: hooks reported problems")
		}
	})
	a.json(w, http.StatusAccepted, eventResponse{Status: "DISPATCHED", Mode: "inline"})
}
