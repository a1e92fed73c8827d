package models

import (
	"encoding/json"
	"strconv"
	"strings"
)

// decodeMinutes accepts 60, 60.0 or "60". Anything else reads as zero.
func decodeMinutes(raw json.RawMessage) int {
	n := decodeAmount(raw)
	if n <= 0 {
		return 0
	}
	return int(n)
}

func decodeAmount(raw json.RawMessage) float64 {
	if len(raw) == 0 {
		return 0
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		return f
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return 0
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || f < 0 {
		return 0
	}
	return f
}
