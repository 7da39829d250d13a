package mqtthost

import (
	"time"

	"github.com/nerrad567/gray-logic-alice/internal/host"
)

// StateMessage is the payload of a state topic.
type StateMessage struct {
	State       string         `json:"state"`
	Attributes  map[string]any `json:"attributes,omitempty"`
	LastUpdated time.Time      `json:"last_updated,omitzero"`
}

// toState converts the message of entityID to a host state.
func (m StateMessage) toState(entityID string) *host.State {
	st := host.NewState(entityID, m.State, m.Attributes)
	if !m.LastUpdated.IsZero() {
		st.LastUpdated = m.LastUpdated
	}
	return st
}
