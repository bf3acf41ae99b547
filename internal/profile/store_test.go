package profile

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestSaveLoad_RoundTrip(t *testing.T) {
	tests := []struct {
		name    string
		profile UserProfile
	}{
		{"defaults", Default()},
		{"custom", UserProfile{
			Name:                "Ada",
			ExperienceLevel:     "senior",
			PreferredLanguages:  []string{"go", "rust"},
			PreferredFrameworks: []string{"chi"},
			Tone:                "direct",
			Priorities:          []string{"performance"},
			OutputPreferences:   []string{"diffs", "checklist", "tests"},
		}},
		{"empty lists", UserProfile{
			Name:                "Empty",
			PreferredLanguages:  []string{},
			PreferredFrameworks: []string{},
			Priorities:          []string{},
			OutputPreferences:   []string{},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "profile.json")
			if err := Save(path, tt.profile); err != nil {
				t.Fatalf("Save() error: %v", err)
			}

			loaded, err := Load(path)
			if err != nil {
				t.Fatalf("Load() error: %v", err)
			}

			if diff := cmp.Diff(tt.profile, loaded); diff != "" {
				t.Errorf("round trip mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestSave_Format(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profile.json")
	if err := Save(path, Default()); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read saved profile: %v", err)
	}
	content := string(data)

	if !strings.HasSuffix(content, "}\n") {
		t.Errorf("expected trailing newline after object, got %q", content[len(content)-5:])
	}
	if !strings.Contains(content, "\n  \"experience_level\": \"intermediate\",") {
		t.Errorf("expected two-space indented snake_case keys, got:\n%s", content)
	}
	for _, key := range []string{"name", "preferred_languages", "preferred_frameworks", "tone", "priorities", "output_preferences"} {
		if !strings.Contains(content, `"`+key+`"`) {
			t.Errorf("expected key %q in saved profile", key)
		}
	}
}

func TestSave_NilListsWrittenAsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profile.json")
	if err := Save(path, UserProfile{Name: "Nil"}); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read saved profile: %v", err)
	}
	if strings.Contains(string(data), "null") {
		t.Errorf("expected no null values, got:\n%s", data)
	}
}

func TestSave_OverwritesAndCreatesDirs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "profile.json")

	if err := Save(path, UserProfile{Name: "First"}); err != nil {
		t.Fatalf("first Save() error: %v", err)
	}
	second := Default()
	second.Name = "Second"
	if err := Save(path, second); err != nil {
		t.Fatalf("second Save() error: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if loaded.Name != "Second" {
		t.Errorf("expected overwrite, got name %q", loaded.Name)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.json")

	_, err := Load(path)

	var nf *NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("expected *NotFoundError, got %T: %v", err, err)
	}
	if nf.Path != path {
		t.Errorf("expected path %s, got %s", path, nf.Path)
	}
	if !errors.Is(err, fs.ErrNotExist) {
		t.Error("expected errors.Is(err, fs.ErrNotExist)")
	}
	if _, statErr := os.Stat(path); !os.IsNotExist(statErr) {
		t.Error("Load must not create the profile file")
	}
}

func TestLoad_PartialAppliesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profile.json")
	content := `{"name": "Ada", "preferred_languages": ["go"], "tone": null}`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write profile: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	want := Default()
	want.Name = "Ada"
	want.PreferredLanguages = []string{"go"}
	if diff := cmp.Diff(want, loaded); diff != "" {
		t.Errorf("partial load mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad_Malformed(t *testing.T) {
	tests := []struct {
		name      string
		content   string
		wantField string
	}{
		{"scalar for list", `{"priorities": "security"}`, "priorities"},
		{"number for string", `{"name": 42}`, "name"},
		{"unknown key", `{"name": "Ada", "favourite_editor": "vim"}`, "favourite_editor"},
		{"invalid json", `{"name": `, ""},
		{"empty file", ``, ""},
		{"array document", `["name"]`, ""},
		{"trailing data", `{"name": "Ada"} {"name": "Bob"}`, ""},
		{"null document", `null`, ""},
		{"string document", `  "Ada"`, ""},
		{"null list element", `{"priorities": [null]}`, "priorities"},
		{"null among list elements", `{"preferred_languages": ["go", null]}`, "preferred_languages"},
		{"number list element", `{"output_preferences": ["steps", 3]}`, "output_preferences"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "profile.json")
			if err := os.WriteFile(path, []byte(tt.content), 0644); err != nil {
				t.Fatalf("failed to write profile: %v", err)
			}

			_, err := Load(path)

			var md *MalformedDataError
			if !errors.As(err, &md) {
				t.Fatalf("expected *MalformedDataError, got %T: %v", err, err)
			}
			if md.Field != tt.wantField {
				t.Errorf("expected field %q, got %q", tt.wantField, md.Field)
			}
			if md.Path != path {
				t.Errorf("expected path %s, got %s", path, md.Path)
			}
		})
	}
}

func TestInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profile.json")

	created, err := Init(path)
	if err != nil {
		t.Fatalf("Init() error: %v", err)
	}
	if !created {
		t.Error("expected Init to create a new profile")
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if diff := cmp.Diff(Default(), loaded); diff != "" {
		t.Errorf("initialized profile mismatch (-want +got):\n%s", diff)
	}

	// Existing file is left untouched.
	custom := Default()
	custom.Name = "Keep Me"
	if err := Save(path, custom); err != nil {
		t.Fatalf("Save() error: %v", err)
	}
	created, err = Init(path)
	if err != nil {
		t.Fatalf("second Init() error: %v", err)
	}
	if created {
		t.Error("expected Init to be a no-op for an existing file")
	}
	loaded, err = Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if loaded.Name != "Keep Me" {
		t.Errorf("Init overwrote existing profile, name = %q", loaded.Name)
	}
}
