package models

import (
	"encoding/json"
	"strconv"
	"strings"
)

// FlexibleID decodes an id sent as a number, a numeric string, null or
// anything else. Non-numeric and zero values decode to an absent id.
type FlexibleID struct {
	value *uint
}

func NewFlexibleID(id uint) FlexibleID {
	return FlexibleID{value: &id}
}

func (f *FlexibleID) UnmarshalJSON(b []byte) error {
	f.value = nil
	s := strings.Trim(strings.TrimSpace(string(b)), `"`)
	n, err := strconv.ParseUint(strings.TrimSpace(s), 10, 64)
	if err != nil || n == 0 {
		return nil
	}
	id := uint(n)
	f.value = &id
	return nil
}

func (f FlexibleID) MarshalJSON() ([]byte, error) {
	if f.value == nil {
		return []byte("null"), nil
	}
	return json.Marshal(*f.value)
}

// Ptr returns the id, or nil when absent.
func (f FlexibleID) Ptr() *uint {
	if f.value == nil {
		return nil
	}
	id := *f.value
	return &id
}
