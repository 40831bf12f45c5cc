/*
Package handler provides HTTP handler functions for the dashboard boundary:
metric sources push named numeric values, and moderation/alerting systems
push discrete alert events. Both routes require an operator token.
*/
package handler

import (
	"net/http"

	"shutterchat/internal/pkg/errs"
	"shutterchat/internal/pkg/req"
	"shutterchat/internal/pkg/resp"
)

type PushMetricsInput struct {
	// Metrics maps metric names to their current numeric values.
	Metrics map[string]float64 `json:"metrics"`
}

// HandlePushMetrics accepts named numeric values for the next dashboard snapshot.
func HandlePushMetrics(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input PushMetricsInput
		if customErr := req.BindJSON(r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		if len(input.Metrics) == 0 {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidParams))
			return
		}

		for name, value := range input.Metrics {
			deps.Broadcaster.SetMetric(name, value)
		}

		resp.RespondSuccess(w, r, nil)
	}
}

type PushAlertInput struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// HandlePushAlert broadcasts an alert to all dashboard subscribers immediately.
func HandlePushAlert(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input PushAlertInput
		if customErr := req.BindJSON(r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		if input.Kind == "" {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidParams))
			return
		}

		deps.Broadcaster.PublishAlert(input.Kind, input.Message)

		resp.RespondSuccess(w, r, nil)
	}
}
