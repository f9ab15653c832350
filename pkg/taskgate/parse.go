package taskgate

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/taskgate/partner-sdk/internal/shared/id"
)

// PathMarker identifies a handoff link. The check is a substring match on
// the decoded path, not a prefix match: the host emits both
// /taskgate/start and legacy forms like /x/taskgate-old.
const PathMarker = "taskgate"

// Inbound query parameter names.
const (
	paramTaskID      = "task_id"
	paramCallbackURL = "callback_url"
	paramSessionID   = "session_id"
	paramAppName     = "app_name"
)

// parseHandoffURL decodes an inbound URL into a TaskSession.
//
// The returned bool reports whether the URL is a handoff link at all;
// false is an expected, frequent outcome (most inbound URLs are unrelated
// traffic) and carries no error. A non-nil error means the link carried
// the marker but is malformed: a required field is missing.
func parseHandoffURL(raw string, now time.Time) (TaskSession, bool, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return TaskSession{}, false, nil
	}
	if !strings.Contains(u.Path, PathMarker) {
		return TaskSession{}, false, nil
	}

	query := u.Query()

	taskID := query.Get(paramTaskID)
	if taskID == "" {
		return TaskSession{}, true, fmt.Errorf("handoff link missing required %s", paramTaskID)
	}
	callbackURL := query.Get(paramCallbackURL)
	if callbackURL == "" {
		return TaskSession{}, true, fmt.Errorf("handoff link missing required %s", paramCallbackURL)
	}

	sessionID := query.Get(paramSessionID)
	if sessionID == "" {
		sessionID = id.NewSessionToken()
	}

	extras := make(map[string]string)
	for key, values := range query {
		switch key {
		case paramTaskID, paramCallbackURL, paramSessionID, paramAppName:
			continue
		}
		if len(values) > 0 {
			extras[key] = values[0]
		}
	}

	return TaskSession{
		TaskID:           taskID,
		SessionID:        sessionID,
		CallbackURL:      callbackURL,
		AppName:          query.Get(paramAppName),
		AdditionalParams: extras,
		CreatedAt:        now,
	}, true, nil
}
