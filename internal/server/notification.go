package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// BuildNotification is the payload a CI system posts to the webhook.
type BuildNotification struct {
	BuildID string `json:"build_id"`
	Status  string `json:"status"`
}

// errPayloadTooLarge marks a body that ran past the size cap while reading.
var errPayloadTooLarge = errors.New("payload too large")

// decodeNotification reads a notification from body. Both fields must be
// present and be strings; unknown fields are ignored.
func decodeNotification(body io.Reader) (BuildNotification, error) {
	data, err := io.ReadAll(body)
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return BuildNotification{}, errPayloadTooLarge
		}
		return BuildNotification{}, fmt.Errorf("failed to read payload: %w", err)
	}

	var raw struct {
		BuildID *string `json:"build_id"`
		Status  *string `json:"status"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return BuildNotification{}, fmt.Errorf("invalid JSON payload: %w", err)
	}

	if raw.BuildID == nil {
		return BuildNotification{}, errors.New("missing field 'build_id'")
	}
	if raw.Status == nil {
		return BuildNotification{}, errors.New("missing field 'status'")
	}

	return BuildNotification{BuildID: *raw.BuildID, Status: *raw.Status}, nil
}
