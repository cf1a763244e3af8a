package stackitem

import "encoding/json"

// Items is a slice of Item with JSON (un)marshaling wired to
// MarshalJSON/UnmarshalJSON, letting result types hold a `[]Item` field
// directly instead of a []json.RawMessage intermediate.
type Items []Item

// MarshalJSON renders each item via MarshalJSON.
func (it Items) MarshalJSON() ([]byte, error) {
	raws := make([]json.RawMessage, len(it))
	for i, v := range it {
		raw, err := MarshalJSON(v)
		if err != nil {
			return nil, err
		}
		raws[i] = raw
	}
	if raws == nil {
		raws = []json.RawMessage{}
	}
	return json.Marshal(raws)
}

// UnmarshalJSON parses each item via UnmarshalJSON.
func (it *Items) UnmarshalJSON(data []byte) error {
	var raws []json.RawMessage
	if err := json.Unmarshal(data, &raws); err != nil {
		return err
	}
	items := make(Items, len(raws))
	for i, raw := range raws {
		v, err := UnmarshalJSON(raw)
		if err != nil {
			return err
		}
		items[i] = v
	}
	*it = items
	return nil
}
