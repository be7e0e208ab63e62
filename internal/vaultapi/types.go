package vaultapi

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Record is one stored credential as the service returns it. ID is
// server-assigned and stable for the record's lifetime; ordering within a
// listing is server-dictated.
type Record struct {
	ID          int64  `json:"id"`
	ServiceName string `json:"service_name"`
	Username    string `json:"username"`
	Password    string `json:"password"`
	Notes       string `json:"notes,omitempty"`
}

// LoginRequest is the body for POST /login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse is the body of a successful login.
type LoginResponse struct {
	AccessToken string `json:"access_token"`
	UserID      int64  `json:"user_id"`
}

// CreateRecordRequest is the body for POST /passwords.
type CreateRecordRequest struct {
	ServiceName string `json:"service_name"`
	Username    string `json:"username"`
	Password    string `json:"password"`
	Notes       string `json:"notes"`
}

// recordList decodes a listing response. Deployed versions of the service
// disagree on the shape: some wrap the records in {"passwords": [...]},
// others return a bare array. Both are accepted.
type recordList struct {
	Records []Record
}

func (l *recordList) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		return json.Unmarshal(trimmed, &l.Records)
	}

	var envelope struct {
		Passwords []Record `json:"passwords"`
	}
	if err := json.Unmarshal(trimmed, &envelope); err != nil {
		return fmt.Errorf("unrecognized listing shape: %w", err)
	}

	l.Records = envelope.Passwords
	return nil
}
