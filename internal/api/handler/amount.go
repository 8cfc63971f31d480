package handler

import (
	"bytes"
	"encoding/json"
)

// flexAmount accepts a JSON number or string and keeps its literal text, so
// digits-only validation happens on what the client actually sent.
type flexAmount string

func (a *flexAmount) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*a = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*a = flexAmount(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*a = flexAmount(n.String())
	return nil
}
