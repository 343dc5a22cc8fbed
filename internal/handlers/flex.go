package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// flexInt accepts 12, "12" or "" (zero). Booking forms post numbers as
// strings.
type flexInt int

func (f *flexInt) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*f = 0
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		return f.UnmarshalParam(s)
	}

	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	return f.UnmarshalParam(n.String())
}

// UnmarshalParam lets gin's form binding use the same rules.
func (f *flexInt) UnmarshalParam(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		*f = 0
		return nil
	}
	if n, err := strconv.Atoi(s); err == nil {
		*f = flexInt(n)
		return nil
	}
	fl, err := strconv.ParseFloat(s, 64)
	if err != nil || fl != float64(int(fl)) {
		return fmt.Errorf("not an integer: %q", s)
	}
	*f = flexInt(int(fl))
	return nil
}
