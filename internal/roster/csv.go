package roster

import (
	"encoding/csv"
	"fmt"
	"os"

	"github.com/jmoret/rosterbee/internal/lms"
)

var infoHeader = []string{"Group", "Full name", "Last name", "Login ID", "Git ID", "Email"}

func infoRow(s lms.StudentInfo) []string {
	return []string{s.Group, s.FullName, s.LastName, s.LoginID, s.GitID, s.Email}
}

// WriteCSV writes the per-student info sheet.
func WriteCSV(path string, students []lms.StudentInfo) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(infoHeader); err != nil {
		return fmt.Errorf("writing csv header: %w", err)
	}
	for _, s := range students {
		if err := w.Write(infoRow(s)); err != nil {
			return fmt.Errorf("writing csv row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flushing csv: %w", err)
	}
	return f.Close()
}
