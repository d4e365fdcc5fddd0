package roster_test

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/jmoret/rosterbee/internal/lms"
	"github.com/jmoret/rosterbee/internal/roster"
	"github.com/jmoret/rosterbee/internal/settings"
)

func sampleStudents() []lms.StudentInfo {
	return []lms.StudentInfo{
		{Group: "team-01", FullName: "John Doe", LastName: "doe", LoginID: "jdoe", GitID: "1001", Email: "john.doe@uni.nl"},
		{Group: "team-01", FullName: "Ann Smith", LastName: "smith", LoginID: "asmith", GitID: "1002", Email: "ann.smith@uni.nl"},
		{Group: "", FullName: "Solo Player", LastName: "player", LoginID: "splayer", GitID: "1003", Email: "solo.player@uni.nl"},
	}
}

func TestBuildTeamsGroupsAndNames(t *testing.T) {
	opts := settings.Defaults().LMSSettings
	opts.FullGroups = true

	teams := roster.BuildTeams(sampleStudents(), opts)
	if len(teams) != 1 {
		t.Fatalf("got %d teams, want 1 (ungrouped dropped)", len(teams))
	}
	team := teams[0]
	if team.Name != "team-01-doe-smith" {
		t.Errorf("team name: got %q", team.Name)
	}
	want := []string{"(john.doe@uni.nl, 1001)", "(ann.smith@uni.nl, 1002)"}
	if len(team.Members) != 2 || team.Members[0] != want[0] || team.Members[1] != want[1] {
		t.Errorf("members: got %v, want %v", team.Members, want)
	}
}

func TestBuildTeamsKeepsLonersWithoutFullGroups(t *testing.T) {
	opts := settings.Defaults().LMSSettings
	opts.FullGroups = false
	opts.MemberOption = settings.MemberGitID

	teams := roster.BuildTeams(sampleStudents(), opts)
	if len(teams) != 2 {
		t.Fatalf("got %d teams, want 2", len(teams))
	}
	// Sorted by name: "player" < "team-01-doe-smith".
	if teams[0].Name != "player" {
		t.Errorf("singleton team name: got %q", teams[0].Name)
	}
	if len(teams[0].Members) != 1 || teams[0].Members[0] != "1003" {
		t.Errorf("singleton members: got %v", teams[0].Members)
	}
}

func TestBuildTeamsMemberOptions(t *testing.T) {
	students := sampleStudents()[:1]

	opts := settings.Defaults().LMSSettings
	opts.MemberOption = settings.MemberEmail
	if got := roster.BuildTeams(students, opts)[0].Members[0]; got != "john.doe@uni.nl" {
		t.Errorf("email option: got %q", got)
	}
	opts.MemberOption = settings.MemberGitID
	if got := roster.BuildTeams(students, opts)[0].Members[0]; got != "1001" {
		t.Errorf("git_id option: got %q", got)
	}
}

func TestBuildTeamsNamingFlags(t *testing.T) {
	students := sampleStudents()[:2]

	opts := settings.Defaults().LMSSettings
	opts.IncludeMember = false
	if got := roster.BuildTeams(students, opts)[0].Name; got != "team-01" {
		t.Errorf("group only: got %q", got)
	}

	opts.IncludeGroup = false
	opts.IncludeMember = true
	opts.IncludeInitials = true
	if got := roster.BuildTeams(students, opts)[0].Name; got != "doe-smith-jd-as" {
		t.Errorf("members and initials: got %q", got)
	}

	opts.IncludeMember = false
	opts.IncludeInitials = false
	if got := roster.BuildTeams(students, opts)[0].Name; got != "team-01" {
		t.Errorf("no flags should fall back to group: got %q", got)
	}
}

func TestInitialsHandleNonASCIINames(t *testing.T) {
	students := []lms.StudentInfo{
		{Group: "team-02", FullName: "Øyvind Åström", LastName: "åström", GitID: "1004", Email: "oyvind@uni.nl"},
	}
	opts := settings.Defaults().LMSSettings
	opts.IncludeGroup = false
	opts.IncludeMember = false
	opts.IncludeInitials = true

	if got := roster.BuildTeams(students, opts)[0].Name; got != "øå" {
		t.Errorf("initials: got %q, want %q", got, "øå")
	}
}

func TestYAMLRoundTrip(t *testing.T) {
	teams := roster.BuildTeams(sampleStudents(), settings.Defaults().LMSSettings)
	path := filepath.Join(t.TempDir(), "students.yaml")

	if err := roster.WriteYAML(path, teams); err != nil {
		t.Fatalf("writing yaml: %v", err)
	}
	got, err := roster.ReadYAML(path)
	if err != nil {
		t.Fatalf("reading yaml: %v", err)
	}
	if len(got) != len(teams) {
		t.Fatalf("got %d teams, want %d", len(got), len(teams))
	}
	for i := range teams {
		if got[i].Name != teams[i].Name {
			t.Errorf("team %d name: got %q, want %q", i, got[i].Name, teams[i].Name)
		}
	}
}

func TestWriteCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "student-info.csv")
	if err := roster.WriteCSV(path, sampleStudents()); err != nil {
		t.Fatalf("writing csv: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("opening csv: %v", err)
	}
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("parsing csv: %v", err)
	}
	if len(rows) != 4 {
		t.Fatalf("got %d rows, want header + 3", len(rows))
	}
	if rows[0][0] != "Group" || rows[0][5] != "Email" {
		t.Errorf("header: got %v", rows[0])
	}
	if rows[1][1] != "John Doe" || rows[1][4] != "1001" {
		t.Errorf("first row: got %v", rows[1])
	}
}

func TestWriteXLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "student-info.xlsx")
	if err := roster.WriteXLSX(path, sampleStudents()); err != nil {
		t.Fatalf("writing xlsx: %v", err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("opening xlsx: %v", err)
	}
	defer f.Close()
	rows, err := f.GetRows("Students")
	if err != nil {
		t.Fatalf("reading sheet: %v", err)
	}
	if len(rows) != 4 {
		t.Fatalf("got %d rows, want header + 3", len(rows))
	}
	if rows[0][0] != "Group" {
		t.Errorf("header: got %v", rows[0])
	}
	if rows[3][3] != "splayer" {
		t.Errorf("last row login id: got %v", rows[3])
	}
}
