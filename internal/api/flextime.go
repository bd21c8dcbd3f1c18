package api

import (
	"encoding/json"
	"fmt"
	"time"
)

var timeLayouts = []string{time.RFC3339Nano, "2006-01-02T15:04:05"}

// flexTime accepts RFC 3339 timestamps as well as zone-less local
// timestamps, which are read as UTC.
type flexTime struct {
	time.Time
}

func (t *flexTime) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	for _, layout := range timeLayouts {
		if v, err := time.Parse(layout, raw); err == nil {
			t.Time = v.UTC()
			return nil
		}
	}
	return fmt.Errorf("invalid time %q", raw)
}

func (t *flexTime) ptr() *time.Time {
	if t == nil {
		return nil
	}
	v := t.Time
	return &v
}
