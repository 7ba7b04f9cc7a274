package types

import "encoding/json"

// Activity is a third-party presence payload ("currently doing X").
// Only Name and Details are read; Raw keeps the payload as it was stored
// so it can be served back unchanged.
type Activity struct {
	Name    string `json:"name"`
	Details string `json:"details,omitempty"`

	Raw json.RawMessage `json:"-"`
}

// MarshalJSON serves the stored payload untouched when we have it.
func (a Activity) MarshalJSON() ([]byte, error) {
	if len(a.Raw) > 0 {
		return a.Raw, nil
	}
	type plain Activity
	return json.Marshal(plain(a))
}

// ActivityEnvelope is the canonical wire shape for every activity read.
type ActivityEnvelope struct {
	ActiveActivity *Activity `json:"active_activity"`
}
