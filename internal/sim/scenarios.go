package sim

import (
	"fmt"
	"net/url"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// Scenario describes one canned handoff a developer can trigger against
// their partner app while integrating the SDK.
type Scenario struct {
	TaskID    string            `toml:"task_id"`
	AppName   string            `toml:"app_name"`
	SessionID string            `toml:"session_id"`
	Extra     map[string]string `toml:"extra"`
}

// ScenarioSet is the parsed scenario file.
type ScenarioSet struct {
	Scenarios map[string]Scenario `toml:"scenarios"`
}

// LoadScenarios reads a TOML scenario file.
func LoadScenarios(path string) (*ScenarioSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	var set ScenarioSet
	if err := toml.Unmarshal(data, &set); err != nil {
		return nil, fmt.Errorf("failed to parse scenario file %s: %w", path, err)
	}

	for name, sc := range set.Scenarios {
		if sc.TaskID == "" {
			return nil, fmt.Errorf("scenario %q missing task_id", name)
		}
	}
	return &set, nil
}

// Get returns the named scenario.
func (s *ScenarioSet) Get(name string) (Scenario, bool) {
	sc, ok := s.Scenarios[name]
	return sc, ok
}

// BuildLink constructs the inbound handoff deep link for this scenario,
// pointing the completion callback at callbackURL.
func (sc Scenario) BuildLink(partnerBase, callbackURL string) (string, error) {
	u, err := url.Parse(partnerBase)
	if err != nil {
		return "", fmt.Errorf("invalid partner base URL: %w", err)
	}

	q := u.Query()
	q.Set("task_id", sc.TaskID)
	q.Set("callback_url", callbackURL)
	if sc.SessionID != "" {
		q.Set("session_id", sc.SessionID)
	}
	if sc.AppName != "" {
		q.Set("app_name", sc.AppName)
	}
	for k, v := range sc.Extra {
		q.Set(k, v)
	}
	u.RawQuery = q.Encode()

	return u.String(), nil
}
