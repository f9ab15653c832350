package taskgate

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseHandoffURL(t *testing.T) {
	now := time.Unix(1724400000, 0)

	tests := []struct {
		name      string
		raw       string
		isHandoff bool
		wantErr   bool
	}{
		{
			name:      "full handoff link",
			raw:       "https://x.com/taskgate/start?task_id=breathing_30s&callback_url=https%3A%2F%2Fcb.example%2Fdone&session_id=abc123&app_name=Instagram",
			isHandoff: true,
		},
		{
			name:      "marker anywhere in path",
			raw:       "https://x.com/x/taskgate-old?task_id=t1&callback_url=https%3A%2F%2Fcb.example%2Fdone",
			isHandoff: true,
		},
		{
			name:      "unrelated traffic",
			raw:       "https://x.com/settings/profile?tab=privacy",
			isHandoff: false,
		},
		{
			name:      "marker only in query is not a handoff",
			raw:       "https://x.com/other?ref=taskgate",
			isHandoff: false,
		},
		{
			name:      "missing task_id",
			raw:       "https://x.com/taskgate/start?callback_url=https%3A%2F%2Fcb.example%2Fdone",
			isHandoff: true,
			wantErr:   true,
		},
		{
			name:      "missing callback_url",
			raw:       "https://x.com/taskgate/start?task_id=breathing_30s",
			isHandoff: true,
			wantErr:   true,
		},
		{
			name:      "custom scheme deep link",
			raw:       "partner://app/taskgate?task_id=t2&callback_url=https%3A%2F%2Fcb.example%2Fdone",
			isHandoff: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, isHandoff, err := parseHandoffURL(tt.raw, now)
			assert.Equal(t, tt.isHandoff, isHandoff)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestParseExtractsAllFields(t *testing.T) {
	now := time.Unix(1724400000, 0)
	raw := "https://x.com/taskgate/start?task_id=breathing_30s&callback_url=https%3A%2F%2Fcb.example%2Fdone&session_id=abc123&app_name=Instagram"

	sess, isHandoff, err := parseHandoffURL(raw, now)
	require.True(t, isHandoff)
	require.NoError(t, err)

	assert.Equal(t, "breathing_30s", sess.TaskID)
	assert.Equal(t, "https://cb.example/done", sess.CallbackURL)
	assert.Equal(t, "abc123", sess.SessionID)
	assert.Equal(t, "Instagram", sess.AppName)
	assert.Empty(t, sess.AdditionalParams)
	assert.Equal(t, now, sess.CreatedAt)
}

func TestParseCapturesExtraParams(t *testing.T) {
	raw := "https://x.com/taskgate/start?task_id=t1&callback_url=cb&difficulty=easy&locale=de-DE&count=3"

	sess, isHandoff, err := parseHandoffURL(raw, time.Now())
	require.True(t, isHandoff)
	require.NoError(t, err)

	// Values stay verbatim strings, no type coercion.
	assert.Equal(t, map[string]string{
		"difficulty": "easy",
		"locale":     "de-DE",
		"count":      "3",
	}, sess.AdditionalParams)
}

func TestParseSynthesizesSessionID(t *testing.T) {
	raw := "https://x.com/taskgate/start?task_id=breathing_30s&callback_url=https%3A%2F%2Fcb.example%2Fdone&app_name=Instagram"

	sess, isHandoff, err := parseHandoffURL(raw, time.Now())
	require.True(t, isHandoff)
	require.NoError(t, err)

	// First 8 characters of a canonical UUID: lowercase hex, no hyphen.
	assert.Regexp(t, `^[0-9a-f]{8}$`, sess.SessionID)

	other, _, _ := parseHandoffURL(raw, time.Now())
	assert.NotEqual(t, sess.SessionID, other.SessionID)
}

func TestParseGarbageInput(t *testing.T) {
	for _, raw := range []string{"", ":::", "not a url at all", "%zz"} {
		_, isHandoff, err := parseHandoffURL(raw, time.Now())
		assert.False(t, isHandoff, "input %q", raw)
		assert.NoError(t, err, "input %q", raw)
	}
}
