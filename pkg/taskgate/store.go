package taskgate

import (
	"encoding/json"
	"strconv"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/taskgate/partner-sdk/internal/infrastructure/monitoring"
	"github.com/taskgate/partner-sdk/pkg/storage"
)

// Persisted state keys. These survive a process restart between the
// cold-start parse and the first read after re-initialization.
const (
	keyPendingTaskID      = "pending_task_id"
	keyPendingSessionID   = "pending_session_id"
	keyPendingCallbackURL = "pending_callback_url"
	keyPendingAppName     = "pending_app_name"
	keyPendingTimestamp   = "pending_timestamp"
	keyPendingExtra       = "pending_extra"
)

// sessionStore owns the single current TaskSession: in-memory for reads,
// mirrored into the KV adapter for restart survival. All reads apply the
// staleness check and purge expired state.
type sessionStore struct {
	kv      storage.KV
	ttl     time.Duration
	clock   func() time.Time
	log     *zap.Logger
	metrics *monitoring.Metrics

	// onExpire is invoked outside the store lock whenever a read purges
	// a stale session.
	onExpire func()

	mu      sync.Mutex
	current *TaskSession
}

func newSessionStore(kv storage.KV, ttl time.Duration, clock func() time.Time, log *zap.Logger, metrics *monitoring.Metrics) *sessionStore {
	return &sessionStore{
		kv:      kv,
		ttl:     ttl,
		clock:   clock,
		log:     log,
		metrics: metrics,
	}
}

// replace installs sess as the current session, discarding any prior one.
func (st *sessionStore) replace(sess TaskSession) {
	st.mu.Lock()
	defer st.mu.Unlock()

	copied := sess.clone()
	st.current = &copied
	st.persistLocked(copied)
	st.metrics.SetPendingSession(true)
}

// snapshot returns a copy of the current session if one exists and is not
// stale. A stale session is purged as a side effect.
func (st *sessionStore) snapshot() (TaskSession, bool) {
	sess, ok, expired := st.read()
	if expired && st.onExpire != nil {
		st.onExpire()
	}
	return sess, ok
}

// read does the locked staleness-checked read behind snapshot.
func (st *sessionStore) read() (TaskSession, bool, bool) {
	st.mu.Lock()
	defer st.mu.Unlock()

	if st.current == nil {
		return TaskSession{}, false, false
	}
	if st.current.staleAt(st.clock(), st.ttl) {
		st.log.Info("pending task expired",
			zap.String("task_id", st.current.TaskID),
			zap.String("session_id", st.current.SessionID),
		)
		st.clearLocked()
		st.metrics.RecordStaleSession()
		return TaskSession{}, false, true
	}
	return st.current.clone(), true, false
}

// has reports whether a non-stale session exists. Shares the snapshot
// path so staleness purging behaves identically for both accessors.
func (st *sessionStore) has() bool {
	_, ok := st.snapshot()
	return ok
}

// clear discards the current session and its persisted mirror, reporting
// whether a session was actually held.
func (st *sessionStore) clear() bool {
	st.mu.Lock()
	defer st.mu.Unlock()

	had := st.current != nil
	st.clearLocked()
	return had
}

func (st *sessionStore) clearLocked() {
	st.current = nil
	for _, key := range []string{
		keyPendingTaskID,
		keyPendingSessionID,
		keyPendingCallbackURL,
		keyPendingAppName,
		keyPendingTimestamp,
		keyPendingExtra,
	} {
		if err := st.kv.Delete(key); err != nil {
			st.log.Warn("failed to clear persisted state", zap.String("key", key), zap.Error(err))
		}
	}
	st.metrics.SetPendingSession(false)
}

// persistLocked mirrors the session into the KV adapter. Caller holds st.mu.
func (st *sessionStore) persistLocked(sess TaskSession) {
	entries := map[string]string{
		keyPendingTaskID:      sess.TaskID,
		keyPendingSessionID:   sess.SessionID,
		keyPendingCallbackURL: sess.CallbackURL,
		keyPendingAppName:     sess.AppName,
		keyPendingTimestamp:   strconv.FormatInt(sess.CreatedAt.UnixMilli(), 10),
	}

	if len(sess.AdditionalParams) > 0 {
		if data, err := json.Marshal(sess.AdditionalParams); err == nil {
			entries[keyPendingExtra] = string(data)
		} else {
			st.log.Warn("failed to serialize additional params", zap.Error(err))
		}
	} else {
		entries[keyPendingExtra] = ""
	}

	for key, value := range entries {
		if err := st.kv.Set(key, value); err != nil {
			st.log.Warn("failed to persist state", zap.String("key", key), zap.Error(err))
		}
	}
}

// restore rehydrates a persisted session at construction time, covering
// the cold-boot window between link arrival and a process restart. A
// stale or incomplete persisted session is purged instead.
func (st *sessionStore) restore() {
	st.mu.Lock()
	defer st.mu.Unlock()

	taskID, _ := st.kv.Get(keyPendingTaskID)
	callbackURL, _ := st.kv.Get(keyPendingCallbackURL)
	millis, _ := st.kv.Get(keyPendingTimestamp)
	if taskID == "" || callbackURL == "" || millis == "" {
		return
	}

	epoch, err := strconv.ParseInt(millis, 10, 64)
	if err != nil {
		st.log.Warn("corrupt persisted timestamp, discarding state", zap.String("value", millis))
		st.clearLocked()
		return
	}

	sess := TaskSession{
		TaskID:      taskID,
		CallbackURL: callbackURL,
		CreatedAt:   time.UnixMilli(epoch),
	}
	sess.SessionID, _ = st.kv.Get(keyPendingSessionID)
	sess.AppName, _ = st.kv.Get(keyPendingAppName)

	if raw, ok := st.kv.Get(keyPendingExtra); ok && raw != "" {
		extras := make(map[string]string)
		if err := json.Unmarshal([]byte(raw), &extras); err == nil {
			sess.AdditionalParams = extras
		} else {
			st.log.Warn("corrupt persisted extras, dropping them", zap.Error(err))
		}
	}
	if sess.AdditionalParams == nil {
		sess.AdditionalParams = make(map[string]string)
	}

	if sess.staleAt(st.clock(), st.ttl) {
		st.log.Info("persisted task expired during restart",
			zap.String("task_id", sess.TaskID),
		)
		st.clearLocked()
		st.metrics.RecordStaleSession()
		return
	}

	st.current = &sess
	st.metrics.SetPendingSession(true)
	st.log.Info("restored pending task from storage",
		zap.String("task_id", sess.TaskID),
		zap.String("session_id", sess.SessionID),
	)
}
