package models

import (
	"bytes"
	"encoding/json"
)

// Ref is a reference to a user-like record. The API sends either the populated
// object or just its id.
type Ref struct {
	ID    string `json:"id"`
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
}

func (r *Ref) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		return json.Unmarshal(data, &r.ID)
	}

	var raw struct {
		MongoID  string `json:"_id"`
		ID       string `json:"id"`
		Name     string `json:"name"`
		FullName string `json:"fullName"`
		Email    string `json:"email"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	r.ID = firstNonEmpty(raw.MongoID, raw.ID)
	r.Name = firstNonEmpty(raw.Name, raw.FullName)
	r.Email = raw.Email
	return nil
}

// DisplayName falls back to a placeholder so a row never renders blank.
func (r *Ref) DisplayName() string {
	if r == nil || r.Name == "" {
		return "Unknown"
	}
	return r.Name
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
