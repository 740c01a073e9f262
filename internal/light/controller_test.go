package light

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func newTestController(t *testing.T, url string, timeout time.Duration) (*Controller, *bytes.Buffer) {
	t.Helper()

	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))

	return NewController(url, timeout, logger), &logs
}

// newDevice starts a fake device that records the last request body and
// answers with reply.
func newDevice(t *testing.T, reply string, got *[]byte) *httptest.Server {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("Expected POST, got %s", r.Method)
		}
		if r.URL.Path != "/json/state" {
			t.Errorf("Expected path /json/state, got %s", r.URL.Path)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("Expected Content-Type application/json, got %q", ct)
		}

		body, _ := io.ReadAll(r.Body)
		if got != nil {
			*got = body
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, reply)
	}))
	t.Cleanup(srv.Close)

	return srv
}

func TestSetColor_RequestBody(t *testing.T) {
	tests := []struct {
		color Color
		rgb   []any
	}{
		{Green, []any{0.0, 255.0, 0.0}},
		{Red, []any{255.0, 0.0, 0.0}},
		{Blue, []any{0.0, 0.0, 255.0}},
	}

	for _, tt := range tests {
		t.Run(tt.color.String(), func(t *testing.T) {
			var body []byte
			device := newDevice(t, `{"state":{"on":true}}`, &body)
			controller, _ := newTestController(t, device.URL+"/json/state", time.Second)

			result := controller.SetColor(context.Background(), tt.color)
			if result.Outcome != Applied {
				t.Fatalf("Expected outcome applied, got %v (err: %v)", result.Outcome, result.Err)
			}

			var got map[string]any
			if err := json.Unmarshal(body, &got); err != nil {
				t.Fatalf("Device received invalid JSON %q: %v", body, err)
			}

			want := map[string]any{
				"on":  true,
				"bri": 255.0,
				"seg": map[string]any{
					"col": []any{tt.rgb},
				},
			}
			if diff := cmp.Diff(want, got); diff != "" {
				t.Errorf("Request body mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestSetColor_Outcomes(t *testing.T) {
	tests := []struct {
		name        string
		reply       string
		wantOutcome Outcome
		wantLog     string
	}{
		{"light on", `{"state":{"on":true,"bri":255}}`, Applied, "LED color set successfully"},
		{"light off", `{"state":{"on":false}}`, NotApplied, "Failed to set LED color"},
		{"not json", `<html>Not Found</html>`, Failed, "Failed to call WLED API"},
		{"empty body", ``, Failed, "Failed to call WLED API"},
		{"missing state", `{"info":{}}`, Failed, "Failed to call WLED API"},
		{"missing on", `{"state":{"bri":128}}`, Failed, "Failed to call WLED API"},
		{"null on", `{"state":{"on":null}}`, Failed, "Failed to call WLED API"},
		{"on not bool", `{"state":{"on":"yes"}}`, Failed, "Failed to call WLED API"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			device := newDevice(t, tt.reply, nil)
			controller, logs := newTestController(t, device.URL+"/json/state", time.Second)

			result := controller.SetColor(context.Background(), Red)

			if result.Outcome != tt.wantOutcome {
				t.Errorf("Expected outcome %v, got %v (err: %v)", tt.wantOutcome, result.Outcome, result.Err)
			}
			if (result.Err != nil) != (tt.wantOutcome == Failed) {
				t.Errorf("Expected error only for failed outcome, got %v", result.Err)
			}
			if !strings.Contains(logs.String(), tt.wantLog) {
				t.Errorf("Expected log to contain %q, got:\n%s", tt.wantLog, logs.String())
			}
		})
	}
}

func TestSetColor_IncompleteReply(t *testing.T) {
	device := newDevice(t, `{"state":{}}`, nil)
	controller, _ := newTestController(t, device.URL+"/json/state", time.Second)

	result := controller.SetColor(context.Background(), Green)
	if !errors.Is(result.Err, ErrIncompleteReply) {
		t.Errorf("Expected ErrIncompleteReply, got %v", result.Err)
	}
}

func TestSetColor_ConnectionRefused(t *testing.T) {
	device := httptest.NewServer(http.NotFoundHandler())
	url := device.URL + "/json/state"
	device.Close()

	controller, logs := newTestController(t, url, time.Second)

	result := controller.SetColor(context.Background(), Green)
	if result.Outcome != Failed {
		t.Errorf("Expected outcome failed, got %v", result.Outcome)
	}
	if result.Err == nil {
		t.Error("Expected an error for an unreachable device")
	}
	if !strings.Contains(logs.String(), "Failed to call WLED API") {
		t.Errorf("Expected failure to be logged, got:\n%s", logs.String())
	}
}

func TestSetColor_Timeout(t *testing.T) {
	release := make(chan struct{})
	device := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-release:
		}
	}))
	t.Cleanup(device.Close)
	t.Cleanup(func() { close(release) })

	controller, _ := newTestController(t, device.URL+"/json/state", 50*time.Millisecond)

	start := time.Now()
	result := controller.SetColor(context.Background(), Red)

	if result.Outcome != Failed {
		t.Errorf("Expected outcome failed, got %v", result.Outcome)
	}
	if elapsed := time.Since(start); elapsed > 5*time.Second {
		t.Errorf("Expected call to give up after the timeout, took %v", elapsed)
	}
}

func TestSetColor_LogsCommand(t *testing.T) {
	device := newDevice(t, `{"state":{"on":true}}`, nil)
	controller, logs := newTestController(t, device.URL+"/json/state", time.Second)

	controller.SetColor(context.Background(), Green)

	if !strings.Contains(logs.String(), "Sending state command") {
		t.Errorf("Expected debug log of the outgoing command, got:\n%s", logs.String())
	}
	if !strings.Contains(logs.String(), device.URL) {
		t.Errorf("Expected device URL in logs, got:\n%s", logs.String())
	}
}
