package taskgate

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/taskgate/partner-sdk/internal/infrastructure/logging"
	"github.com/taskgate/partner-sdk/internal/infrastructure/monitoring"
	"github.com/taskgate/partner-sdk/internal/shared/id"
	"github.com/taskgate/partner-sdk/pkg/dispatch"
	"github.com/taskgate/partner-sdk/pkg/storage"
)

// Defaults applied by New when the corresponding Config field is zero.
const (
	DefaultWaitTimeout = 3 * time.Second
	DefaultSessionTTL  = 30 * time.Second
	DefaultHostScheme  = "taskgate"
)

// readySignalHost is the authority of the outbound ready-signal URL.
const readySignalHost = "partner-ready"

// dispatchTimeout bounds a single fire-and-forget outbound dispatch.
const dispatchTimeout = 5 * time.Second

// ErrProviderIDRequired is returned by New when no provider ID is set.
var ErrProviderIDRequired = errors.New("taskgate: provider ID is required")

// Config configures a Manager. ProviderID is required; everything else
// has a working default.
type Config struct {
	// ProviderID is the opaque identifier of this partner, appended to
	// every outbound URL.
	ProviderID string

	// WaitTimeout bounds the readiness handshake (default 3s). Must be
	// set before the first link arrives; it is not re-read afterwards.
	WaitTimeout time.Duration

	// SessionTTL is the staleness threshold (default 30s). A session
	// older than this is treated as absent by every read accessor.
	SessionTTL time.Duration

	// HostScheme is the URL scheme of the host app (default "taskgate"),
	// used for the outbound ready-signal URL.
	HostScheme string

	// Storage persists the pending session across process restarts.
	// Defaults to an in-memory store.
	Storage storage.KV

	// Dispatcher hands outbound URLs to the OS. Defaults to the desktop
	// platform opener.
	Dispatcher dispatch.Dispatcher

	// Logger defaults to the SDK's production zap logger.
	Logger *zap.Logger

	// Metrics is optional; nil disables collection.
	Metrics *monitoring.Metrics
}

// Manager owns the entire lifecycle of one task handoff: inbound parse,
// session storage, readiness handshake, and completion reporting. It is
// a long-lived object constructed once at app startup and threaded
// through as a dependency; multiple isolated instances may coexist in
// tests. Exactly one task session is active at a time.
type Manager struct {
	providerID  string
	waitTimeout time.Duration
	hostScheme  string
	dispatcher  dispatch.Dispatcher
	log         *zap.Logger
	metrics     *monitoring.Metrics
	clock       func() time.Time

	store  *sessionStore
	events bus

	mu          sync.Mutex
	hs          *handshake
	uiReady     bool // partner UI has signalled ready at least once
	initialized bool
}

// New creates a handoff manager and restores any persisted, non-stale
// session left over from a previous process (the cold-boot path).
func New(cfg Config) (*Manager, error) {
	if cfg.ProviderID == "" {
		return nil, ErrProviderIDRequired
	}
	if cfg.WaitTimeout <= 0 {
		cfg.WaitTimeout = DefaultWaitTimeout
	}
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = DefaultSessionTTL
	}
	if cfg.HostScheme == "" {
		cfg.HostScheme = DefaultHostScheme
	}
	if cfg.Storage == nil {
		cfg.Storage = storage.NewMemory()
	}
	if cfg.Dispatcher == nil {
		cfg.Dispatcher = dispatch.NewExec()
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.NewDefault().Logger
	}

	m := &Manager{
		providerID:  cfg.ProviderID,
		waitTimeout: cfg.WaitTimeout,
		hostScheme:  cfg.HostScheme,
		dispatcher:  cfg.Dispatcher,
		log:         cfg.Logger.Named("taskgate"),
		metrics:     cfg.Metrics,
		clock:       time.Now,
	}
	m.store = newSessionStore(cfg.Storage, cfg.SessionTTL, m.now, m.log, cfg.Metrics)
	m.store.onExpire = func() {
		m.events.emit(Event{Type: EventSessionCleared, Reason: ClearReasonExpired})
	}
	m.store.restore()
	m.initialized = true

	return m, nil
}

// now indirects through m.clock so tests can warp time.
func (m *Manager) now() time.Time {
	return m.clock()
}

// guard rejects use of a zero-value or nil manager. Misuse fails loudly
// in development and degrades to a logged no-op in production.
func (m *Manager) guard(op string) bool {
	if m == nil || !m.initialized {
		if logging.IsDevelopment() {
			panic("taskgate: " + op + " called before New")
		}
		zap.L().Error("taskgate manager used before initialization", zap.String("op", op))
		return false
	}
	return true
}

// HandleURL feeds an inbound URL from the OS link dispatcher into the
// manager. It returns true iff the URL was a valid handoff link, in which
// case the new session replaces any existing one, state is persisted, a
// TaskReceived event fires, and a readiness handshake is armed (cold
// start) or readiness is assumed immediately (warm start).
//
// Unrelated URLs return false silently; malformed handoff links return
// false with a warning log. Neither touches existing session state.
func (m *Manager) HandleURL(raw string) bool {
	if !m.guard("HandleURL") {
		return false
	}

	sess, isHandoff, err := parseHandoffURL(raw, m.now())
	if !isHandoff {
		m.metrics.RecordParse(monitoring.ParseIgnored)
		return false
	}
	if err != nil {
		m.log.Warn("rejected malformed handoff link", zap.Error(err))
		m.metrics.RecordParse(monitoring.ParseRejected)
		return false
	}

	hid := id.NewHandoffID()
	m.log.Info("handoff accepted",
		zap.String("handoff_id", hid.String()),
		zap.String("task_id", sess.TaskID),
		zap.String("session_id", sess.SessionID),
		zap.String("app_name", sess.AppName),
	)

	m.store.replace(sess)
	m.metrics.RecordParse(monitoring.ParseAccepted)

	m.mu.Lock()
	if m.hs != nil {
		// Last-session-wins: the prior wait context is discarded and its
		// timer must never fire.
		m.hs.cancel()
		m.hs = nil
	}
	warm := m.uiReady
	if !warm {
		m.hs = newHandshake(m.waitTimeout, m.now, m.onHandshakeResolved)
	}
	m.mu.Unlock()

	m.events.emit(Event{Type: EventTaskReceived, Session: sess.clone()})

	if warm {
		// The UI is already live, so readiness is immediate: deliver
		// synchronously instead of re-arming the timer.
		m.deliverResolution(OutcomeReady, 0)
	}
	return true
}

// NotifyReady is the partner UI's explicit readiness signal. The first
// call that reaches an outstanding handshake wins the race against its
// timer; later calls are no-ops. It also marks the process warm, so
// subsequent inbound links skip the wait entirely.
func (m *Manager) NotifyReady() {
	if !m.guard("NotifyReady") {
		return
	}

	m.mu.Lock()
	m.uiReady = true
	hs := m.hs
	m.mu.Unlock()

	if hs == nil {
		m.log.Debug("ready signal with no outstanding handshake")
		return
	}
	if !hs.ready(m.now) {
		m.log.Debug("late ready signal ignored, handshake already resolved")
	}
}

// onHandshakeResolved is the one-shot continuation attached to every
// handshake. Exactly one of {ready, timeout} reaches it. A resolution
// whose handshake is no longer the current one lost the race against a
// replacing handoff and is dropped; delivering it would double-resolve
// the session and orphan the replacement's handshake.
func (m *Manager) onHandshakeResolved(h *handshake, outcome Outcome, waited time.Duration) {
	m.mu.Lock()
	if m.hs != h {
		m.mu.Unlock()
		return
	}
	m.hs = nil
	m.mu.Unlock()

	m.deliverResolution(outcome, waited)
}

// deliverResolution signals the host to dismiss its transition screen and
// notifies subscribers. Ready and timeout have the same externally
// visible effect; only the recorded outcome differs.
func (m *Manager) deliverResolution(outcome Outcome, waited time.Duration) {
	m.metrics.RecordHandshake(outcome.String(), waited)
	m.log.Info("handshake resolved",
		zap.String("outcome", outcome.String()),
		zap.Duration("waited", waited),
	)

	m.dispatchURL(m.readySignalURL())
	m.events.emit(Event{Type: EventHandshakeResolved, Outcome: outcome})
}

// PendingTask returns a snapshot of the current task session, if a
// non-stale one exists. It never mutates live state beyond purging an
// expired session, and is safe to call repeatedly.
func (m *Manager) PendingTask() (TaskSession, bool) {
	if !m.guard("PendingTask") {
		return TaskSession{}, false
	}
	return m.store.snapshot()
}

// HasPendingTask reports whether a non-stale task session exists.
func (m *Manager) HasPendingTask() bool {
	if !m.guard("HasPendingTask") {
		return false
	}
	return m.store.has()
}

// ClearPendingTask purges the current session and any outstanding
// handshake without notifying the host. Use it after the routing decision
// has been consumed to prevent re-delivery on a later read.
func (m *Manager) ClearPendingTask() {
	if !m.guard("ClearPendingTask") {
		return
	}

	m.cancelHandshake()
	if m.store.clear() {
		m.events.emit(Event{Type: EventSessionCleared, Reason: ClearReasonExplicit})
	}
}

// ReportCompletion builds the completion URL from the session's callback
// URL, dispatches it fire-and-forget, and unconditionally clears the
// session and any pending handshake state.
//
// With no active session this is a warning no-op: a duplicate button
// press after a prior completion already cleared state is legitimate.
func (m *Manager) ReportCompletion(status CompletionStatus) {
	if !m.guard("ReportCompletion") {
		return
	}

	snap, ok := m.store.snapshot()
	if !ok || snap.CallbackURL == "" {
		m.log.Warn("completion report with no active session",
			zap.String("status", status.String()),
		)
		return
	}

	outbound := buildCompletionURL(snap.CallbackURL, status, m.providerID, snap.SessionID, snap.TaskID)
	m.log.Info("reporting completion",
		zap.String("status", status.String()),
		zap.String("task_id", snap.TaskID),
		zap.String("session_id", snap.SessionID),
	)

	m.dispatchURL(outbound)
	m.metrics.RecordCompletion(status.String())

	m.cancelHandshake()
	m.store.clear()
	m.events.emit(Event{Type: EventSessionCleared, Reason: ClearReasonCompleted})
}

// CancelTask reports completion with StatusCancelled.
func (m *Manager) CancelTask() {
	m.ReportCompletion(StatusCancelled)
}

// Subscribe registers a listener for lifecycle events. Listeners run
// synchronously on the emitting goroutine.
func (m *Manager) Subscribe(fn Listener) {
	if !m.guard("Subscribe") {
		return
	}
	m.events.subscribe(fn)
}

// cancelHandshake discards any outstanding handshake so its timer can
// never fire an effect.
func (m *Manager) cancelHandshake() {
	m.mu.Lock()
	if m.hs != nil {
		m.hs.cancel()
		m.hs = nil
	}
	m.mu.Unlock()
}

// dispatchURL hands a URL to the OS. Failures are absorbed here: an OS
// open has no reliable feedback channel, so callers always proceed as if
// the signal was sent.
func (m *Manager) dispatchURL(rawURL string) {
	ctx, cancel := context.WithTimeout(context.Background(), dispatchTimeout)
	defer cancel()

	if err := m.dispatcher.OpenURL(ctx, rawURL); err != nil {
		m.log.Error("outbound dispatch failed",
			zap.String("url", rawURL),
			zap.Error(err),
		)
		m.metrics.RecordDispatchFailure()
	}
}

// readySignalURL builds <scheme>://partner-ready?session_id=&provider_id=.
// The session may have expired or been cleared between arming and
// resolution; an unknown session_id is omitted rather than sent empty.
func (m *Manager) readySignalURL() string {
	pairs := make([]queryPair, 0, 2)
	if snap, ok := m.store.snapshot(); ok && snap.SessionID != "" {
		pairs = append(pairs, queryPair{"session_id", snap.SessionID})
	}
	pairs = append(pairs, queryPair{"provider_id", m.providerID})
	return m.hostScheme + "://" + readySignalHost + "?" + encodePairs(pairs)
}

type queryPair struct {
	key   string
	value string
}

// encodePairs encodes query parameters preserving the given order. The
// host's parsers do not care, but the wire format is documented with
// status first and identifiers after, so keep it deterministic.
func encodePairs(pairs []queryPair) string {
	parts := make([]string, 0, len(pairs))
	for _, p := range pairs {
		parts = append(parts, p.key+"="+url.QueryEscape(p.value))
	}
	return strings.Join(parts, "&")
}

// buildCompletionURL appends status, provider, and known identifiers to
// the session's callback URL.
func buildCompletionURL(callbackURL string, status CompletionStatus, providerID, sessionID, taskID string) string {
	pairs := []queryPair{
		{"status", status.String()},
		{"provider_id", providerID},
	}
	if sessionID != "" {
		pairs = append(pairs, queryPair{"session_id", sessionID})
	}
	if taskID != "" {
		pairs = append(pairs, queryPair{"task_id", taskID})
	}

	sep := "?"
	if strings.Contains(callbackURL, "?") {
		sep = "&"
	}
	return callbackURL + sep + encodePairs(pairs)
}
