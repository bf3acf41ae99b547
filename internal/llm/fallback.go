package llm

import (
	"context"
	"fmt"
	"strings"
)

// FallbackMarker appears in every response produced by Fallback.
const FallbackMarker = "Fallback model response"

const (
	fallbackSeedChars = 200
	fallbackGoalChars = 120
)

// Fallback is a deterministic local responder that keeps the workflow usable
// without network access or credentials. It performs no I/O.
type Fallback struct{}

// NewFallback creates a Fallback backend.
func NewFallback() *Fallback {
	return &Fallback{}
}

// Name implements Client.
func (*Fallback) Name() string { return "fallback" }

// Generate implements Client. It restates the start of both prompts in a
// fixed-shape response and never fails.
func (*Fallback) Generate(_ context.Context, system, user string) (string, error) {
	seed := strings.ReplaceAll(strings.TrimSpace(truncate(user, fallbackSeedChars)), "\n", " ")
	goal := truncate(system, fallbackGoalChars)

	var sb strings.Builder
	fmt.Fprintf(&sb, "[%s]\n", FallbackMarker)
	fmt.Fprintf(&sb, "System goal: %s...\n", goal)
	sb.WriteString("Actionable output:\n")
	fmt.Fprintf(&sb, "- Interpreted task: %s\n", seed)
	sb.WriteString("- Suggested approach: break work into small tested increments.\n")
	sb.WriteString("- Key risks: edge cases, error handling, and missing tests.\n")
	return sb.String(), nil
}

// truncate returns the first n characters of s, counting runes so that
// multi-byte characters are never split.
func truncate(s string, n int) string {
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}
