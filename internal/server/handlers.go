package server

import (
	"context"
	"errors"
	"net/http"

	"buildlight/internal/light"
)

const (
	MaxPayloadBytes = 32 * 1024 // 32 KiB

	// AckBody is returned for every notification that decodes.
	AckBody = "Received"
)

// HandleWebhook handles build-status notifications.
//
// The acknowledgment is fire-and-forget with respect to the light: once the
// body decodes, the caller gets 200 "Received" whether the device call
// succeeds, reports the light off, or fails outright. Device problems are
// only visible in the logs.
func (s *Server) HandleWebhook(w http.ResponseWriter, r *http.Request) {
	notification, err := decodeNotification(r.Body)
	if err != nil {
		if errors.Is(err, errPayloadTooLarge) {
			http.Error(w, "Payload too large", http.StatusRequestEntityTooLarge)
			return
		}
		s.Logger.Warn("Rejected webhook payload", "error", err)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	s.Logger.Info("Received webhook", "build_id", notification.BuildID, "status", notification.Status)

	// The caller hanging up must not abort the light update; the controller
	// applies its own timeout.
	s.dispatch(context.WithoutCancel(r.Context()), notification)

	s.respondText(w, http.StatusOK, AckBody)
}

// dispatch sends the color for a recognized status to the light.
func (s *Server) dispatch(ctx context.Context, notification BuildNotification) {
	color, ok := light.ColorForStatus(notification.Status)
	if !ok {
		s.Logger.Info("Unknown status", "build_id", notification.BuildID, "status", notification.Status)
		return
	}

	result := s.Light.SetColor(ctx, color)
	s.Logger.Debug("Light update finished",
		"build_id", notification.BuildID,
		"color", color.String(),
		"outcome", result.Outcome.String())
}

// respondText sends a plain-text response
func (s *Server) respondText(w http.ResponseWriter, statusCode int, body string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(statusCode)
	if _, err := w.Write([]byte(body)); err != nil {
		s.Logger.Error("Failed to write response", "error", err)
	}
}
