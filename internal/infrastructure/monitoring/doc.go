// Package monitoring provides Prometheus metrics for the handoff lifecycle.
//
// Tracked signals:
//   - Parse outcomes (accepted, rejected, ignored)
//   - Handshake resolutions (ready, timed_out) and wait duration
//   - Completion reports by status
//   - Outbound dispatch failures
//   - Pending session presence and staleness purges
//
// The collector is optional: every recorder is nil-safe, so an SDK
// instance without metrics wired in pays only a nil check.
package monitoring
