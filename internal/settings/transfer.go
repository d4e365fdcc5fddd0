package settings

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// ImportFrom reads, parses and validates the document at path. Nothing is
// mutated on failure: a *ParseError or *ValidationError means the caller's
// in-memory document and all on-disk state are exactly as before.
//
// Import is a one-shot content transfer, not a location change. The active
// settings location is never rewritten; when path happens to be the active
// location there is nothing to update in the first place.
func (s *Store) ImportFrom(path string) (Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Defaults(), fmt.Errorf("import %s: %w", path, ErrNotFound)
		}
		return Defaults(), fmt.Errorf("reading %s: %w", path, err)
	}
	doc, err := decodeStrict(data, path)
	if err != nil {
		return Defaults(), err
	}
	return doc, nil
}

// ExportTo writes the given in-memory document (not necessarily the
// on-disk one) to path as a pretty-printed full snapshot. The write is
// atomic; readers never observe a partial file.
func (s *Store) ExportTo(doc Document, path string) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding settings: %w", err)
	}
	if err := writeFileAtomic(path, data); err != nil {
		return fmt.Errorf("exporting settings: %w", err)
	}
	return nil
}

// decodeStrict parses data into a defaulted document, distinguishing
// malformed JSON (*ParseError) from schema violations (*ValidationError):
// unknown keys, wrong field types, and enum values outside their closed
// sets all fail validation. Missing fields are not an error; they keep
// their defaults.
func decodeStrict(data []byte, path string) (Document, error) {
	doc := Defaults()
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&doc); err != nil {
		var syntaxErr *json.SyntaxError
		if errors.As(err, &syntaxErr) {
			return Defaults(), &ParseError{Path: path, Err: err}
		}
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return Defaults(), &ValidationError{Problems: []string{
				fmt.Sprintf("field %q: expected %s, got %s", typeErr.Field, typeErr.Type, typeErr.Value),
			}}
		}
		if strings.Contains(err.Error(), "unknown field") {
			return Defaults(), &ValidationError{Problems: []string{err.Error()}}
		}
		return Defaults(), &ParseError{Path: path, Err: err}
	}
	if err := validate.Struct(doc); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			problems := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				problems = append(problems, fmt.Sprintf("field %q fails %q", fe.Field(), fe.Tag()))
			}
			return Defaults(), &ValidationError{Problems: problems}
		}
		return Defaults(), &ValidationError{Problems: []string{err.Error()}}
	}
	return doc, nil
}
