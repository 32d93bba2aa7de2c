// Package logging provides structured logging for diskavl.
package logging

import "github.com/google/uuid"

// GenerateRequestID generates a unique request ID (a random UUID string).
// Each CLI command or shell statement gets one so its log lines can be
// grouped.
func GenerateRequestID() string {
	return uuid.NewString()
}
