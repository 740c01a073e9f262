package light

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

const (
	// DefaultDeviceURL is the state endpoint of the WLED controller on the
	// local network.
	DefaultDeviceURL = "http://192.168.10.50/json/state"

	// DefaultTimeout bounds a single call to the device.
	DefaultTimeout = 10 * time.Second

	// MaxReplyBytes caps how much of the device reply is read.
	MaxReplyBytes = 1 << 20
)

// ErrIncompleteReply is returned when the device reply lacks state.on.
var ErrIncompleteReply = errors.New("device reply is missing state.on")

// Outcome classifies the result of a SetColor call.
type Outcome int

const (
	// Applied means the device reported the light on.
	Applied Outcome = iota
	// NotApplied means the device answered but reported the light off.
	NotApplied
	// Failed means the call did not complete or the reply could not be read.
	Failed
)

func (o Outcome) String() string {
	switch o {
	case Applied:
		return "applied"
	case NotApplied:
		return "not_applied"
	default:
		return "failed"
	}
}

// Result is what SetColor reports back. Err is set only when Outcome is Failed.
type Result struct {
	Outcome Outcome
	Err     error
}

// Controller sends color commands to a single WLED device.
//
// The HTTP client is shared between calls and holds no per-request state, so
// a Controller is safe for concurrent use.
type Controller struct {
	URL    string
	Client *http.Client
	Logger *slog.Logger
}

// NewController creates a controller for the device state endpoint at url.
// A zero timeout leaves calls unbounded.
func NewController(url string, timeout time.Duration, logger *slog.Logger) *Controller {
	return &Controller{
		URL:    url,
		Client: &http.Client{Timeout: timeout},
		Logger: logger,
	}
}

// SetColor asks the device to show the color and logs how it went.
//
// Failures never escape as errors or panics: a transport or decoding problem
// yields Failed, a reply reporting the light off yields NotApplied. No retry
// is attempted.
func (c *Controller) SetColor(ctx context.Context, color Color) Result {
	reply, err := c.send(ctx, color)
	if err != nil {
		c.Logger.Error("Failed to call WLED API", "color", color.String(), "url", c.URL, "error", err)
		return Result{Outcome: Failed, Err: err}
	}

	if !*reply.State.On {
		c.Logger.Warn("Failed to set LED color", "color", color.String(), "reason", "device reported light off")
		return Result{Outcome: NotApplied}
	}

	c.Logger.Info("LED color set successfully", "color", color.String())
	return Result{Outcome: Applied}
}

// send performs the request and decodes the reply.
func (c *Controller) send(ctx context.Context, color Color) (*DeviceReply, error) {
	body, err := json.Marshal(NewStateCommand(color))
	if err != nil {
		return nil, fmt.Errorf("failed to encode state command: %w", err)
	}

	c.Logger.Debug("Sending state command", "url", c.URL, "body", string(body))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.URL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	// The status code is not checked; a reply is judged by its body.
	data, err := io.ReadAll(io.LimitReader(resp.Body, MaxReplyBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read reply: %w", err)
	}

	var reply DeviceReply
	if err := json.Unmarshal(data, &reply); err != nil {
		return nil, fmt.Errorf("failed to decode reply (status %d): %w", resp.StatusCode, err)
	}

	if reply.State == nil || reply.State.On == nil {
		return nil, ErrIncompleteReply
	}

	return &reply, nil
}
