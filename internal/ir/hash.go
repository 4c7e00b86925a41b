package ir

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// Domain prefixes for content-addressed identity.
// Version suffix enables future algorithm migration.
const (
	DomainGraph = "seqraph/graph/v1"
	DomainStep  = "seqraph/step/v1"
)

// hashWithDomain computes SHA-256 hash with domain separation.
// Format: SHA256(domain + 0x00 + data)
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// SpecHash identifies a compiled fixture by content.
func SpecHash(spec *GraphSpec) (string, error) {
	data, err := json.Marshal(spec)
	if err != nil {
		return "", fmt.Errorf("SpecHash: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainGraph, data), nil
}

// StepHash identifies a step by position, operation, input and output.
// The run id is left out, so replaying the same operations on the same
// fixture reproduces the hashes in any run.
func StepHash(seq int64, op Op, input string, output []byte) string {
	data, err := json.Marshal(struct {
		Seq    int64           `json:"seq"`
		Op     Op              `json:"op"`
		Input  string          `json:"input"`
		Output json.RawMessage `json:"output,omitempty"`
	}{seq, op, input, json.RawMessage(output)})
	if err != nil {
		// Output is not valid JSON; hash it as an opaque string instead.
		data = []byte(fmt.Sprintf("%d\x00%s\x00%s\x00%q", seq, op, input, output))
	}
	return hashWithDomain(DomainStep, data)
}

// MustSpecHash is like SpecHash but panics on error.
// Use only in tests or when inputs are known to be valid.
func MustSpecHash(spec *GraphSpec) string {
	h, err := SpecHash(spec)
	if err != nil {
		panic(err)
	}
	return h
}
