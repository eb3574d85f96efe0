package settings

import (
	"errors"
	"time"
)

// GlobalID is the single settings row.
const GlobalID = "GLOBAL_CONFIG"

const statusCommitted = "SUCCESS_COMMITTED"

var (
	ErrNoFields   = errors.New("no settings fields given")
	ErrInvalidKey = errors.New("settings keys must be non-empty")
)

type Settings struct {
	Values    map[string]any `json:"values"`
	UpdatedAt time.Time      `json:"updatedAt"`
}

type auditPayload struct {
	UpdatedFields map[string]any `json:"updatedFields"`
	Timestamp     string         `json:"timestamp"`
	Status        string         `json:"status"`
}
