// Package idhash computes deterministic identifiers from record
// content.
package idhash

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// ComputeRequestID computes a deterministic request_id using SHA256.
// Formula: SHA256(kind|created_at_ms|payload)
// Returns hex-encoded hash (64 characters).
func ComputeRequestID(kind string, createdAtMs int64, payload []byte) string {
	data := fmt.Sprintf("%s|%d|", kind, createdAtMs)

	h := sha256.New()
	h.Write([]byte(data))
	h.Write(payload)
	return hex.EncodeToString(h.Sum(nil))
}
