package relay

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// relayResponse is what the backend relay serves per platform.
type relayResponse struct {
	OngoingContests  []contestDTO `json:"ongoingContests,omitempty"`
	UpcomingContests []contestDTO `json:"upcomingContests"`
	PastContests     []contestDTO `json:"pastContests"`
}

// contestDTO accepts both naming variants the relay has used.
type contestDTO struct {
	ID          flexString `json:"id,omitempty"`
	Code        flexString `json:"code,omitempty"`
	Name        string     `json:"name,omitempty"`
	ContestName string     `json:"contestName,omitempty"`
	StartTime   flexString `json:"startTime,omitempty"`
	Time        flexString `json:"time,omitempty"`
	EndTime     flexString `json:"endTime,omitempty"`
	Duration    flexString `json:"duration,omitempty"`
	URL         string     `json:"url,omitempty"`
	ContestLink string     `json:"contestLink,omitempty"`
}

// flexString decodes a JSON string or number into its textual form.
type flexString string

func (f *flexString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*f = ""
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = flexString(strings.TrimSpace(s))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("expected string or number, got %s", b)
	}
	// Integral floats ("7200.0") are kept as integers.
	if fl, err := n.Float64(); err == nil && fl == float64(int64(fl)) {
		*f = flexString(strconv.FormatInt(int64(fl), 10))
		return nil
	}
	*f = flexString(n.String())
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if s := strings.TrimSpace(v); s != "" {
			return s
		}
	}
	return ""
}
