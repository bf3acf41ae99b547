package report

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"gopkg.in/yaml.v3"

	"github.com/gerunddev/quartet/internal/history"
	"github.com/gerunddev/quartet/internal/pipeline"
)

func sampleResult() pipeline.Result {
	return pipeline.Result{
		Plan:           "1. Write tests",
		Implementation: "func main() {\n\tif a < b && c > d {}\n}",
		Review:         "Looks fine.",
		Coaching:       "Keep going.",
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"", FormatText, false},
		{"text", FormatText, false},
		{"JSON", FormatJSON, false},
		{" yaml ", FormatYAML, false},
		{"yml", FormatYAML, false},
		{"xml", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseFormat(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseFormat(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestFormatList(t *testing.T) {
	if got, want := FormatList(), "text, json or yaml"; got != want {
		t.Errorf("FormatList() = %q, want %q", got, want)
	}

	_, err := ParseFormat("xml")
	if err == nil || !strings.Contains(err.Error(), "(want text, json or yaml)") {
		t.Errorf("expected supported formats in error, got %v", err)
	}

	for _, f := range Formats() {
		if got, err := ParseFormat(string(f)); err != nil || got != f {
			t.Errorf("ParseFormat(%q) = %q, %v", f, got, err)
		}
	}
}

func TestWriteText(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteText(&buf, sampleResult()); err != nil {
		t.Fatalf("WriteText() error: %v", err)
	}

	want := "\n=== PLAN ===\n\n1. Write tests\n" +
		"\n=== IMPLEMENTATION ===\n\nfunc main() {\n\tif a < b && c > d {}\n}\n" +
		"\n=== REVIEW ===\n\nLooks fine.\n" +
		"\n=== COACHING ===\n\nKeep going.\n"
	if diff := cmp.Diff(want, buf.String()); diff != "" {
		t.Errorf("text output mismatch (-want +got):\n%s", diff)
	}
}

func TestWriteResult_JSON(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteResult(&buf, FormatJSON, sampleResult()); err != nil {
		t.Fatalf("WriteResult() error: %v", err)
	}
	out := buf.String()

	if !strings.HasPrefix(out, "{\n  \"plan\": ") {
		t.Errorf("expected two-space indented object with plan first, got:\n%s", out)
	}
	if !strings.HasSuffix(out, "}\n") {
		t.Errorf("expected trailing newline, got %q", out[len(out)-3:])
	}
	if !strings.Contains(out, "a < b && c > d") {
		t.Errorf("expected unescaped code, got:\n%s", out)
	}

	var decoded map[string]string
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	wantKeys := map[string]string{
		"plan":           "1. Write tests",
		"implementation": "func main() {\n\tif a < b && c > d {}\n}",
		"review":         "Looks fine.",
		"coaching":       "Keep going.",
	}
	if diff := cmp.Diff(wantKeys, decoded); diff != "" {
		t.Errorf("decoded JSON mismatch (-want +got):\n%s", diff)
	}
}

func TestWriteResult_YAML(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteResult(&buf, FormatYAML, sampleResult()); err != nil {
		t.Fatalf("WriteResult() error: %v", err)
	}

	if !strings.HasPrefix(buf.String(), "plan: 1. Write tests\n") {
		t.Errorf("unexpected YAML:\n%s", buf.String())
	}

	var decoded pipeline.Result
	if err := yaml.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid YAML: %v", err)
	}
	if diff := cmp.Diff(sampleResult(), decoded); diff != "" {
		t.Errorf("decoded YAML mismatch (-want +got):\n%s", diff)
	}
}

func sampleRun() *history.Run {
	return &history.Run{
		ID:          "0f8fad5b-d9cb-469f-a165-70867728950e",
		Task:        "Create a CLI todo app",
		ProfileName: "Your Name",
		Backend:     "fallback",
		Result:      sampleResult(),
		CreatedAt:   time.Date(2026, 5, 4, 10, 0, 0, 0, time.UTC),
	}
}

func TestWriteRun_Text(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteRun(&buf, FormatText, sampleRun()); err != nil {
		t.Fatalf("WriteRun() error: %v", err)
	}
	out := buf.String()

	for _, want := range []string{
		"Run: 0f8fad5b-d9cb-469f-a165-70867728950e\n",
		"Task: Create a CLI todo app\n",
		"Profile: Your Name\n",
		"Backend: fallback\n",
		"\n=== COACHING ===\n\nKeep going.\n",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("expected output to contain %q, got:\n%s", want, out)
		}
	}
}

func TestWriteRun_JSON(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteRun(&buf, FormatJSON, sampleRun()); err != nil {
		t.Fatalf("WriteRun() error: %v", err)
	}

	var decoded history.Run
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	want := sampleRun()
	if diff := cmp.Diff(*want, decoded); diff != "" {
		t.Errorf("decoded run mismatch (-want +got):\n%s", diff)
	}
}

func TestWriteRunList(t *testing.T) {
	runs := []*history.Run{sampleRun()}
	long := sampleRun()
	long.ID = "11111111-2222-3333-4444-555555555555"
	long.Task = strings.Repeat("x", 100) + "\nsecond line"
	runs = append(runs, long)

	var buf bytes.Buffer
	if err := WriteRunList(&buf, runs); err != nil {
		t.Fatalf("WriteRunList() error: %v", err)
	}
	out := buf.String()

	for _, want := range []string{"ID", "CREATED", "TASK", "0f8fad5b", "11111111", "Create a CLI todo app", "fallback"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected list to contain %q, got:\n%s", want, out)
		}
	}
	if strings.Contains(out, "0f8fad5b-d9cb") {
		t.Error("expected short IDs in list")
	}
	if strings.Contains(out, "second line") {
		t.Error("expected long task to be truncated")
	}
}

func TestWriteRunList_Empty(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteRunList(&buf, nil); err != nil {
		t.Fatalf("WriteRunList() error: %v", err)
	}
	if buf.String() != "No runs recorded yet.\n" {
		t.Errorf("unexpected output %q", buf.String())
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in   string
		n    int
		want string
	}{
		{"short", 10, "short"},
		{"exactly10!", 10, "exactly10!"},
		{"this is too long", 10, "this is..."},
		{"héllo wörld", 8, "héllo..."},
		{"abc", 2, "ab"},
	}
	for _, tt := range tests {
		if got := truncate(tt.in, tt.n); got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.n, got, tt.want)
		}
	}
}
