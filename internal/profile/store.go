package profile

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// fileProfile is used for parsing JSON with pointer fields to detect what was set.
// A field that is absent or null keeps its default value. List elements are
// pointers so that a null element can be rejected rather than read as "".
type fileProfile struct {
	Name                *string    `json:"name"`
	ExperienceLevel     *string    `json:"experience_level"`
	PreferredLanguages  *[]*string `json:"preferred_languages"`
	PreferredFrameworks *[]*string `json:"preferred_frameworks"`
	Tone                *string    `json:"tone"`
	Priorities          *[]*string `json:"priorities"`
	OutputPreferences   *[]*string `json:"output_preferences"`
}

// Load reads a profile from path.
//
// Returns *NotFoundError if the path does not exist; the file is never created.
// Returns *MalformedDataError if the content is not a JSON object, contains an
// unknown key, or a field has an incompatible shape (including a null list
// element). Missing fields take their default values.
func Load(path string) (UserProfile, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return UserProfile{}, &NotFoundError{Path: path}
	}
	if err != nil {
		return UserProfile{}, fmt.Errorf("failed to read profile: %w", err)
	}

	// null would otherwise decode into an empty fileProfile.
	if trimmed := bytes.TrimSpace(data); len(trimmed) == 0 || trimmed[0] != '{' {
		return UserProfile{}, &MalformedDataError{Path: path, Err: errors.New("profile must be a JSON object")}
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()

	var fp fileProfile
	if err := dec.Decode(&fp); err != nil {
		return UserProfile{}, malformed(path, err)
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return UserProfile{}, &MalformedDataError{Path: path, Err: errors.New("unexpected data after profile object")}
	}

	p, err := mergeProfile(Default(), &fp)
	if err != nil {
		var md *MalformedDataError
		if errors.As(err, &md) {
			md.Path = path
		}
		return UserProfile{}, err
	}
	return p, nil
}

// malformed classifies a decode error, naming the offending field when the
// decoder reports one.
func malformed(path string, err error) *MalformedDataError {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return &MalformedDataError{Path: path, Field: typeErr.Field, Err: err}
	}

	// encoding/json reports unknown keys only through the message text.
	const unknownPrefix = "json: unknown field "
	if msg := err.Error(); strings.HasPrefix(msg, unknownPrefix) {
		return &MalformedDataError{Path: path, Field: strings.Trim(strings.TrimPrefix(msg, unknownPrefix), `"`), Err: err}
	}

	return &MalformedDataError{Path: path, Err: err}
}

// mergeProfile applies the set fields of fp over base.
func mergeProfile(base UserProfile, fp *fileProfile) (UserProfile, error) {
	if fp.Name != nil {
		base.Name = *fp.Name
	}
	if fp.ExperienceLevel != nil {
		base.ExperienceLevel = *fp.ExperienceLevel
	}
	if fp.Tone != nil {
		base.Tone = *fp.Tone
	}

	lists := []struct {
		field string
		src   *[]*string
		dst   *[]string
	}{
		{"preferred_languages", fp.PreferredLanguages, &base.PreferredLanguages},
		{"preferred_frameworks", fp.PreferredFrameworks, &base.PreferredFrameworks},
		{"priorities", fp.Priorities, &base.Priorities},
		{"output_preferences", fp.OutputPreferences, &base.OutputPreferences},
	}
	for _, l := range lists {
		if l.src == nil {
			continue
		}
		items, err := stringList(l.field, *l.src)
		if err != nil {
			return UserProfile{}, err
		}
		*l.dst = items
	}
	return base, nil
}

// stringList dereferences decoded list elements, rejecting nulls.
func stringList(field string, in []*string) ([]string, error) {
	out := make([]string, 0, len(in))
	for i, item := range in {
		if item == nil {
			return nil, &MalformedDataError{Field: field, Err: fmt.Errorf("element %d is null", i)}
		}
		out = append(out, *item)
	}
	return out, nil
}

// Save writes the profile to path as indented JSON with a trailing newline,
// replacing any existing file. Parent directories are created as needed.
func Save(path string, p UserProfile) error {
	data, err := json.MarshalIndent(p.withEmptyLists(), "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode profile: %w", err)
	}
	data = append(data, '\n')

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create profile directory: %w", err)
		}
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write profile: %w", err)
	}
	return nil
}

// Init writes a default profile to path unless a file already exists there.
// It reports whether a new file was created.
func Init(path string) (bool, error) {
	if _, err := os.Stat(path); err == nil {
		return false, nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return false, fmt.Errorf("failed to check profile: %w", err)
	}

	if err := Save(path, Default()); err != nil {
		return false, err
	}
	return true, nil
}
