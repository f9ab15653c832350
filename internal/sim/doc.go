// Package sim implements the host simulator: a local stand-in for the
// TaskGate host app used while integrating a partner app against the SDK.
//
// The simulator plays the host's half of the protocol:
//   - Mints inbound handoff deep links from TOML scenario files
//   - Receives the outbound ready signal (/partner-ready)
//   - Receives completion reports (/callback)
//   - Streams received signals to a dashboard over WebSocket (/ws)
//   - Exposes Prometheus metrics (/metrics)
//
// Pair it with dispatch.HTTP in the partner app so outbound URLs land
// here instead of the OS link resolver.
package sim
