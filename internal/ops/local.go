package ops

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/mordilloSan/go-logger/logger"

	"github.com/jmoret/rosterbee/internal/hosting"
	"github.com/jmoret/rosterbee/internal/lms"
	"github.com/jmoret/rosterbee/internal/progress"
	"github.com/jmoret/rosterbee/internal/roster"
	"github.com/jmoret/rosterbee/internal/settings"
)

// LocalService runs every operation in-process. The factory fields
// default to the real clients and can be swapped out in tests.
type LocalService struct {
	Store    *settings.Store
	Profiles *settings.ProfileStore

	LMSFactory      func(settings.LMSSettings) (lms.Client, error)
	PlatformFactory func(settings.HostingSettings) (hosting.Platform, error)
}

var _ Service = (*LocalService)(nil)

func NewLocalService(store *settings.Store, profiles *settings.ProfileStore) *LocalService {
	return &LocalService{
		Store:           store,
		Profiles:        profiles,
		LMSFactory:      lms.New,
		PlatformFactory: hosting.New,
	}
}

func (s *LocalService) LocatePath() (string, error) { return s.Store.Locate() }
func (s *LocalService) Exists() (bool, error)       { return s.Store.Exists() }

func (s *LocalService) Load() (settings.Document, error) { return s.Store.Load() }
func (s *LocalService) Save(doc settings.Document) error { return s.Store.Save(doc) }
func (s *LocalService) Schema() settings.Schema          { return settings.GetSchema() }

func (s *LocalService) ResetSettings() (settings.Document, error) {
	return s.Store.Reset()
}

func (s *LocalService) ResetSettingsLocation() (string, error) {
	return s.Store.ResetLocation()
}

func (s *LocalService) ListProfiles() ([]string, error) { return s.Profiles.List() }
func (s *LocalService) ActiveProfile() (string, error)  { return s.Profiles.Active() }
func (s *LocalService) LoadProfile(name string) (settings.Document, error) {
	return s.Profiles.Load(name)
}
func (s *LocalService) SaveProfile(name string, doc settings.Document) error {
	return s.Profiles.Save(name, doc)
}
func (s *LocalService) DeleteProfile(name string) error { return s.Profiles.Delete(name) }

func (s *LocalService) ImportSettings(path string) (settings.Document, error) {
	return s.Store.ImportFrom(path)
}
func (s *LocalService) ExportSettings(doc settings.Document, path string) error {
	return s.Store.ExportTo(doc, path)
}

// VerifyHostConfig checks credentials and group access on the hosting
// platform.
func (s *LocalService) VerifyHostConfig(ctx context.Context, hs settings.HostingSettings) Result {
	platform, err := s.PlatformFactory(hs)
	if err != nil {
		return failf("invalid hosting configuration: %v", err)
	}
	if err := platform.Verify(ctx); err != nil {
		return failf("verification failed: %v", err)
	}
	return okf("configuration verified for %s", hs.StudentReposGroup).
		withDetails("Platform: %s\nGroup: %s\nUser: %s", platform.Kind(), hs.StudentReposGroup, hs.User)
}

// VerifyLMSCourse checks the token by listing courses and confirms the
// configured course is among them.
func (s *LocalService) VerifyLMSCourse(ctx context.Context, ls settings.LMSSettings) Result {
	client, err := s.LMSFactory(ls)
	if err != nil {
		return failf("invalid lms configuration: %v", err)
	}
	courses, err := client.Verify(ctx)
	if err != nil {
		return failf("verification failed: %v", err)
	}
	if ls.CourseID == "" {
		return okf("credentials verified, %d courses visible", len(courses))
	}
	for _, c := range courses {
		if c.ID == ls.CourseID {
			return okf("course verified: %s", c.Name).
				withDetails("ID: %s\nCode: %s", c.ID, c.Code)
		}
	}
	return failf("course %s not found among %d visible courses", ls.CourseID, len(courses))
}

// GenerateRosterFiles fetches the roster and writes every enabled output
// file, reporting progress through sink. Generated file paths end up in
// the result details.
func (s *LocalService) GenerateRosterFiles(ctx context.Context, ls settings.LMSSettings, sink progress.Sink) Result {
	client, err := s.LMSFactory(ls)
	if err != nil {
		return failf("invalid lms configuration: %v", err)
	}

	progress.Milestonef(sink, "fetching students from %s", ls.Type)
	students, err := client.Students(ctx, ls.CourseID, func(done, total int) {
		progress.Transientf(sink, "students %d/%d", done, total)
	})
	if err != nil {
		return failf("fetching students: %v", err)
	}
	progress.Milestonef(sink, "fetched %d students", len(students))

	var generated []string

	if ls.OutputYAML {
		teams := roster.BuildTeams(students, ls)
		if err := roster.WriteYAML(ls.YamlFile, teams); err != nil {
			return failf("writing yaml: %v", err)
		}
		progress.Milestonef(sink, "wrote %s (%d teams)", ls.YamlFile, len(teams))
		generated = append(generated, fmt.Sprintf("YAML: %s (%d teams)", ls.YamlFile, len(teams)))
	}
	if ls.OutputCSV {
		path := filepath.Join(ls.InfoFolder, ls.CSVFile)
		if err := roster.WriteCSV(path, students); err != nil {
			return failf("writing csv: %v", err)
		}
		progress.Milestonef(sink, "wrote %s", path)
		generated = append(generated, "CSV: "+path)
	}
	if ls.OutputXLSX {
		path := filepath.Join(ls.InfoFolder, ls.XLSXFile)
		if err := roster.WriteXLSX(path, students); err != nil {
			return failf("writing xlsx: %v", err)
		}
		progress.Milestonef(sink, "wrote %s", path)
		generated = append(generated, "XLSX: "+path)
	}

	logger.Infof("generated %d roster file(s) for course %s", len(generated), ls.CourseID)
	return okf("successfully generated %d file(s)", len(generated)).
		withDetails("Students processed: %d\n\nGenerated files:\n%s", len(students), strings.Join(generated, "\n"))
}

func (s *LocalService) loadTeams(rs settings.RepoSettings) ([]roster.Team, []string, error) {
	teams, err := roster.ReadYAML(rs.YamlFile)
	if err != nil {
		return nil, nil, err
	}
	if len(teams) == 0 {
		return nil, nil, fmt.Errorf("no teams in %s", rs.YamlFile)
	}
	assignments := rs.AssignmentList()
	if len(assignments) == 0 {
		return nil, nil, fmt.Errorf("no assignments specified")
	}
	return teams, assignments, nil
}

// SetupRepos provisions one repository per team and assignment from the
// assignment templates.
func (s *LocalService) SetupRepos(ctx context.Context, hs settings.HostingSettings, rs settings.RepoSettings, sink progress.Sink) Result {
	teams, assignments, err := s.loadTeams(rs)
	if err != nil {
		return failf("%v", err)
	}
	platform, err := s.PlatformFactory(hs)
	if err != nil {
		return failf("invalid hosting configuration: %v", err)
	}
	if err := platform.Verify(ctx); err != nil {
		return failf("verification failed: %v", err)
	}

	result, err := hosting.Setup(ctx, platform, hs, teams, assignments, sink)
	if err != nil {
		return failf("setup failed: %v", err)
	}

	details := fmt.Sprintf("Created: %d\nAlready existed: %d\nErrors: %d",
		len(result.Created), len(result.Existing), len(result.Errors))
	if !result.OK() {
		var lines []string
		for _, e := range result.Errors {
			lines = append(lines, "  - "+e.Error())
		}
		return failf("setup completed with %d errors", len(result.Errors)).
			withDetails("%s\n\nErrors:\n%s", details, strings.Join(lines, "\n"))
	}
	return okf("student repositories created").withDetails("%s", details)
}

// CloneRepos fetches every team repository into the target folder using
// the configured directory layout.
func (s *LocalService) CloneRepos(ctx context.Context, hs settings.HostingSettings, rs settings.RepoSettings, sink progress.Sink) Result {
	teams, _, err := s.loadTeams(rs)
	if err != nil {
		return failf("%v", err)
	}
	platform, err := s.PlatformFactory(hs)
	if err != nil {
		return failf("invalid hosting configuration: %v", err)
	}

	result, err := hosting.Clone(ctx, platform, rs, teams, sink)
	if err != nil {
		return failf("clone failed: %v", err)
	}

	details := fmt.Sprintf("Cloned: %d\nSkipped: %d\nErrors: %d",
		len(result.Cloned), len(result.Skipped), len(result.Errors))
	if !result.OK() {
		var lines []string
		for _, e := range result.Errors {
			lines = append(lines, "  - "+e.Error())
		}
		return failf("clone completed with %d errors", len(result.Errors)).
			withDetails("%s\n\nErrors:\n%s", details, strings.Join(lines, "\n"))
	}
	return okf("repositories cloned into %s", rs.TargetFolder).withDetails("%s", details)
}
