package utils

import (
	"strings"

	"github.com/google/uuid"
)

// GenerateRequestID creates a short, log-friendly request id.
// Format: {prefix}-{8charHex}, e.g. "req-a3f8e2b1".
func GenerateRequestID(prefix string) string {
	short := strings.ReplaceAll(uuid.New().String(), "-", "")[:8]
	if prefix == "" {
		return short
	}
	return prefix + "-" + short
}

// SanitizeRequestID keeps an inbound id only if it is short and printable,
// so a client cannot inject arbitrary text into log lines
func SanitizeRequestID(id string) string {
	id = strings.TrimSpace(id)
	if id == "" || len(id) > 64 {
		return ""
	}
	for _, r := range id {
		if r < 0x21 || r > 0x7e {
			return ""
		}
	}
	return id
}
