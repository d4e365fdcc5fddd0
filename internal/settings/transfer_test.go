package settings_test

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/jmoret/rosterbee/internal/settings"
)

func writeImportFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "import.json")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing import file: %v", err)
	}
	return path
}

func TestImportExportRoundTrip(t *testing.T) {
	store := newTestStore(t)

	doc := settings.Defaults()
	doc.LMSSettings.CourseID = "7777"
	doc.HostingSettings.StudentReposGroup = "course-2026"

	path := filepath.Join(t.TempDir(), "snapshot.json")
	if err := store.ExportTo(doc, path); err != nil {
		t.Fatalf("exporting: %v", err)
	}

	got, err := store.ImportFrom(path)
	if err != nil {
		t.Fatalf("importing: %v", err)
	}
	if got != doc {
		t.Errorf("import/export mismatch:\ngot  %+v\nwant %+v", got, doc)
	}
}

func TestExportIsPrettyPrinted(t *testing.T) {
	store := newTestStore(t)

	path := filepath.Join(t.TempDir(), "snapshot.json")
	if err := store.ExportTo(settings.Defaults(), path); err != nil {
		t.Fatalf("exporting: %v", err)
	}
	data, _ := os.ReadFile(path)
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		t.Fatalf("exported file is not valid JSON: %v", err)
	}
	if len(data) > 0 && data[1] != '\n' {
		t.Error("export should be indented")
	}
}

func TestImportMalformedIsParseError(t *testing.T) {
	store := newTestStore(t)

	path := writeImportFile(t, "{broken")
	_, err := store.ImportFrom(path)
	var parseErr *settings.ParseError
	if !errors.As(err, &parseErr) {
		t.Errorf("got %v, want *ParseError", err)
	}
}

func TestImportUnknownFieldFailsValidation(t *testing.T) {
	store := newTestStore(t)

	path := writeImportFile(t, `{"lms_type": "Canvas", "not_a_field": 1}`)
	_, err := store.ImportFrom(path)
	var valErr *settings.ValidationError
	if !errors.As(err, &valErr) {
		t.Errorf("got %v, want *ValidationError", err)
	}
}

func TestImportWrongTypeFailsValidation(t *testing.T) {
	store := newTestStore(t)

	path := writeImportFile(t, `{"log_info": "yes"}`)
	_, err := store.ImportFrom(path)
	var valErr *settings.ValidationError
	if !errors.As(err, &valErr) {
		t.Errorf("got %v, want *ValidationError", err)
	}
}

func TestImportBadEnumFailsValidation(t *testing.T) {
	store := newTestStore(t)

	path := writeImportFile(t, `{"lms_type": "Blackboard"}`)
	_, err := store.ImportFrom(path)
	var valErr *settings.ValidationError
	if !errors.As(err, &valErr) {
		t.Errorf("got %v, want *ValidationError", err)
	}
}

// The default member option contains a comma, which needs escaping in
// the validation tag; both directions of the enum check must work.
func TestImportMemberOptionEnum(t *testing.T) {
	store := newTestStore(t)

	path := writeImportFile(t, `{"lms_member_option": "(email, gitid)"}`)
	if _, err := store.ImportFrom(path); err != nil {
		t.Errorf("comma-containing member option should validate: %v", err)
	}

	path = writeImportFile(t, `{"lms_member_option": "full_name"}`)
	_, err := store.ImportFrom(path)
	var valErr *settings.ValidationError
	if !errors.As(err, &valErr) {
		t.Errorf("got %v, want *ValidationError", err)
	}
}

func TestImportMissingFieldsAreDefaulted(t *testing.T) {
	store := newTestStore(t)

	path := writeImportFile(t, `{"lms_course_id": "55", "log_debug": true}`)
	got, err := store.ImportFrom(path)
	if err != nil {
		t.Fatalf("importing: %v", err)
	}
	want := settings.Defaults()
	want.LMSSettings.CourseID = "55"
	want.LogSettings.Debug = true
	if got != want {
		t.Errorf("got %+v, want %+v", got, want)
	}
}

// A failed import must leave everything as it was: the on-disk document,
// the profile list and the active pointer.
func TestImportFailureMutatesNothing(t *testing.T) {
	dir := t.TempDir()
	store, err := settings.NewStoreAt(dir)
	if err != nil {
		t.Fatalf("creating store: %v", err)
	}
	profiles := settings.NewProfileStore(dir)

	doc := settings.Defaults()
	doc.LMSSettings.CourseID = "keep-me"
	if err := store.Save(doc); err != nil {
		t.Fatalf("saving: %v", err)
	}
	profiles.Save("stable", doc)
	profiles.Load("stable")

	path := writeImportFile(t, `{"active_tab": "nonsense"}`)
	if _, err := store.ImportFrom(path); err == nil {
		t.Fatal("expected validation failure")
	}

	loaded, _ := store.Load()
	if loaded != doc {
		t.Error("failed import changed the stored document")
	}
	names, _ := profiles.List()
	if len(names) != 1 || names[0] != "stable" {
		t.Errorf("failed import changed profiles: %v", names)
	}
	active, _ := profiles.Active()
	if active != "stable" {
		t.Errorf("failed import changed active profile: %q", active)
	}
}

func TestImportMissingFileIsNotFound(t *testing.T) {
	store := newTestStore(t)

	_, err := store.ImportFrom(filepath.Join(t.TempDir(), "nope.json"))
	if !errors.Is(err, settings.ErrNotFound) {
		t.Errorf("got %v, want ErrNotFound", err)
	}
}
