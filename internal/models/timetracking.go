package models

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Hours is a logged duration. Older clients stored it as a string.
type Hours float64

func (h *Hours) UnmarshalJSON(b []byte) error {
	var n float64
	if err := json.Unmarshal(b, &n); err == nil {
		*h = Hours(n)
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("hours: %w", err)
	}
	if strings.TrimSpace(s) == "" {
		*h = 0
		return nil
	}
	n, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return fmt.Errorf("hours %q: %w", s, err)
	}
	*h = Hours(n)
	return nil
}

type TimeTask struct {
	Meta
	Name string `json:"name"`
	Done bool   `json:"done"`
}

type TimeLog struct {
	Meta
	Task  string `json:"task"`
	Hours Hours  `json:"hours"`
	Date  string `json:"date"`
	Done  bool   `json:"done"`
}
