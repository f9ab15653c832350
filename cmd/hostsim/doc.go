// Command hostsim runs the TaskGate host simulator, a local stand-in
// for the host app used while integrating a partner against the SDK.
//
// Usage:
//
//	hostsim -port 8787 -scenarios scenarios.toml -dev
//
// Configuration is read from TASKGATE_* environment variables; flags
// override the environment.
package main
