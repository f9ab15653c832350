// Package taskgate implements the partner side of the TaskGate handoff
// protocol: receiving a deep-link task from the host app, coordinating
// the readiness window, and reporting completion back through the OS.
//
// Lifecycle:
//  1. The OS link dispatcher delivers an inbound URL; HandleURL parses it
//     and installs the task session (replacing any prior one).
//  2. On a cold start a readiness handshake is armed: the host keeps its
//     transition screen up until the partner UI calls NotifyReady or the
//     countdown (default 3s) fires, whichever comes first.
//  3. The partner UI reads the task via PendingTask or the TaskReceived
//     event, displays it, and finishes with ReportCompletion, which
//     builds the completion URL and hands it back to the OS.
//
// Delivery policy: task data is immediately accessible through the
// accessors once parsed; events are an additional push channel. Both are
// backed by the same session store, so they can never drift.
//
// A session older than 30 seconds is treated as absent by every read and
// purged; the host-side context it belongs to is no longer live.
//
// Example Usage:
//
//	mgr, err := taskgate.New(taskgate.Config{ProviderID: "acme"})
//	mgr.Subscribe(func(e taskgate.Event) {
//		if e.Type == taskgate.EventTaskReceived {
//			showTask(e.Session)
//		}
//	})
//	// from the OS deep-link entry point:
//	mgr.HandleURL(incoming)
//	// once the task UI is on screen:
//	mgr.NotifyReady()
//	// when the user finishes:
//	mgr.ReportCompletion(taskgate.StatusFocus)
package taskgate
