// Package logging provides structured logging for the TaskGate partner SDK.
//
// Built on zap for performance. Production mode emits JSON to stdout;
// development mode emits colored console output with debug level enabled.
//
// Example Usage:
//
//	log := logging.NewDefault()
//	defer log.Sync()
//	log.Info("handoff accepted", zap.String("task_id", taskID))
package logging
