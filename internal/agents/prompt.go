package agents

import (
	"bytes"
	"fmt"
	"text/template"
)

// EmptyContextMarker stands in for the prior-context section when no earlier
// stage has produced output.
const EmptyContextMarker = "(none)"

// SystemPromptTemplate frames every agent by name and mission.
const SystemPromptTemplate = `You are {{.Name}}. Mission: {{.Mission}}. Give concrete coding-focused output with steps, examples, and risks.`

// UserPromptTemplate carries the profile, the task, and everything earlier
// stages produced.
const UserPromptTemplate = `{{.ProfileBlock}}

Primary task:
{{.Task}}

Prior context from previous agents:
{{if .Context}}{{.Context}}{{else}}` + EmptyContextMarker + `{{end}}`

// Templates are parsed once at package load time.
var (
	systemTemplate = template.Must(template.New("system-prompt").Parse(SystemPromptTemplate))
	userTemplate   = template.Must(template.New("user-prompt").Parse(UserPromptTemplate))
)

// systemPromptData holds the values rendered into SystemPromptTemplate.
type systemPromptData struct {
	Name    string
	Mission string
}

// userPromptData holds the values rendered into UserPromptTemplate.
type userPromptData struct {
	ProfileBlock string
	Task         string
	Context      string // Empty renders EmptyContextMarker
}

// executeTemplate runs a pre-parsed template with the given data.
func executeTemplate(t *template.Template, data interface{}) (string, error) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template %s: %w", t.Name(), err)
	}
	return buf.String(), nil
}
