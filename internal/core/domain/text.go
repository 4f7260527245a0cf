package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// NumericText is a field the API stores as a number but the console edits as
// text. It decodes from either a JSON number or a JSON string.
type NumericText string

func (n *NumericText) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		*n = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*n = NumericText(s)
		return nil
	}

	var num json.Number
	if err := json.Unmarshal(b, &num); err != nil {
		return fmt.Errorf("numeric text: %w", err)
	}
	*n = NumericText(num.String())
	return nil
}

func (n NumericText) String() string {
	return string(n)
}
