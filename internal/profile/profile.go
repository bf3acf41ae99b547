// Package profile provides the persisted personalization record that steers
// every agent prompt.
package profile

import (
	"fmt"
	"strings"
)

// UserProfile describes who the assistant is talking to and how they like
// to receive output. All list fields are ordered.
type UserProfile struct {
	Name                string   `json:"name"`
	ExperienceLevel     string   `json:"experience_level"`
	PreferredLanguages  []string `json:"preferred_languages"`
	PreferredFrameworks []string `json:"preferred_frameworks"`
	Tone                string   `json:"tone"`
	Priorities          []string `json:"priorities"`
	OutputPreferences   []string `json:"output_preferences"`
}

// Default returns a profile populated with the default values.
func Default() UserProfile {
	return UserProfile{
		Name:                "Your Name",
		ExperienceLevel:     "intermediate",
		PreferredLanguages:  []string{"python"},
		PreferredFrameworks: []string{"fastapi"},
		Tone:                "mentor",
		Priorities:          []string{"readability", "security", "testability"},
		OutputPreferences:   []string{"test-first", "checklist"},
	}
}

// PromptBlock renders the profile as the labeled block that opens every
// agent's user prompt.
func (p UserProfile) PromptBlock() string {
	var sb strings.Builder
	sb.WriteString("User profile:\n")
	fmt.Fprintf(&sb, "- Name: %s\n", p.Name)
	fmt.Fprintf(&sb, "- Experience: %s\n", p.ExperienceLevel)
	fmt.Fprintf(&sb, "- Languages: %s\n", strings.Join(p.PreferredLanguages, ", "))
	fmt.Fprintf(&sb, "- Frameworks: %s\n", strings.Join(p.PreferredFrameworks, ", "))
	fmt.Fprintf(&sb, "- Tone: %s\n", p.Tone)
	fmt.Fprintf(&sb, "- Priorities: %s\n", strings.Join(p.Priorities, ", "))
	fmt.Fprintf(&sb, "- Output preferences: %s", strings.Join(p.OutputPreferences, ", "))
	return sb.String()
}

// withEmptyLists returns a copy whose nil list fields are replaced by empty
// slices, so they serialize as [] rather than null.
func (p UserProfile) withEmptyLists() UserProfile {
	cp := p
	cp.PreferredLanguages = nonNil(p.PreferredLanguages)
	cp.PreferredFrameworks = nonNil(p.PreferredFrameworks)
	cp.Priorities = nonNil(p.Priorities)
	cp.OutputPreferences = nonNil(p.OutputPreferences)
	return cp
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
