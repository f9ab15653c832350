// Package dispatch abstracts the OS-level open-URL action used to hand
// control back to the TaskGate host.
//
// The SDK constructs outbound URLs (ready signal, completion report) and
// delegates delivery to a Dispatcher. Production builds wire the platform
// intent/universal-link glue behind this interface; the implementations
// here cover development and testing:
//   - Exec: shells out to the desktop opener (open / xdg-open / rundll32)
//   - HTTP: loopback GET delivery for use with the host simulator
//   - Func: adapter for test doubles
package dispatch
