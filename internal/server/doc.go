// Package server implements the HTTP server for the buildlight webhook receiver.
//
// This package provides:
//   - The build-status webhook endpoint (POST /webhook)
//   - Request body size limiting (32 KiB max)
//   - Structured logging of all HTTP requests
//
// The server integrates with internal/light, which turns a build status into
// a color command for the WLED device.
//
// Delivery contract:
//   - Any request whose body decodes into a build notification is answered
//     with 200 "Received", whatever happens at the device
//   - Device failures are logged and never reported to the webhook caller
//   - Malformed or oversized bodies are rejected before dispatch
package server
