package ops_test

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jmoret/rosterbee/internal/hosting"
	"github.com/jmoret/rosterbee/internal/lms"
	"github.com/jmoret/rosterbee/internal/ops"
	"github.com/jmoret/rosterbee/internal/progress"
	"github.com/jmoret/rosterbee/internal/roster"
	"github.com/jmoret/rosterbee/internal/settings"
)

type fakeLMS struct {
	courses  []lms.Course
	students []lms.StudentInfo
	err      error
}

func (f *fakeLMS) Verify(ctx context.Context) ([]lms.Course, error) {
	return f.courses, f.err
}

func (f *fakeLMS) Students(ctx context.Context, courseID string, tick lms.Tick) ([]lms.StudentInfo, error) {
	if f.err != nil {
		return nil, f.err
	}
	for i := range f.students {
		if tick != nil {
			tick(i+1, len(f.students))
		}
	}
	return f.students, nil
}

func newService(t *testing.T, fake *fakeLMS) *ops.LocalService {
	t.Helper()
	dir := t.TempDir()
	store, err := settings.NewStoreAt(dir)
	if err != nil {
		t.Fatalf("creating store: %v", err)
	}
	svc := ops.NewLocalService(store, settings.NewProfileStore(dir))
	if fake != nil {
		svc.LMSFactory = func(settings.LMSSettings) (lms.Client, error) { return fake, nil }
	}
	return svc
}

func TestVerifyLMSCourse(t *testing.T) {
	fake := &fakeLMS{courses: []lms.Course{
		{ID: "12", Name: "Programming", Code: "2IP90"},
	}}
	svc := newService(t, fake)

	ls := settings.Defaults().LMSSettings
	ls.CourseID = "12"
	res := svc.VerifyLMSCourse(context.Background(), ls)
	if !res.Success {
		t.Fatalf("verify failed: %s", res.Message)
	}
	if !strings.Contains(res.Message, "Programming") {
		t.Errorf("message should name the course: %q", res.Message)
	}

	ls.CourseID = "99"
	res = svc.VerifyLMSCourse(context.Background(), ls)
	if res.Success {
		t.Error("unknown course should fail")
	}

	fake.err = errors.New("401 unauthorized")
	res = svc.VerifyLMSCourse(context.Background(), ls)
	if res.Success || !strings.Contains(res.Message, "verification failed") {
		t.Errorf("bad token should fail verification: %+v", res)
	}
}

func TestGenerateRosterFilesStreamsAndWrites(t *testing.T) {
	fake := &fakeLMS{students: []lms.StudentInfo{
		{Group: "team-01", FullName: "John Doe", LastName: "doe", GitID: "1001", Email: "john.doe@uni.nl"},
		{Group: "team-01", FullName: "Ann Smith", LastName: "smith", GitID: "1002", Email: "ann.smith@uni.nl"},
	}}
	svc := newService(t, fake)

	dir := t.TempDir()
	ls := settings.Defaults().LMSSettings
	ls.CourseID = "12"
	ls.YamlFile = filepath.Join(dir, "students.yaml")
	ls.InfoFolder = dir
	ls.OutputCSV = true

	var stream []string
	sink := progress.SinkFunc(func(m string) { stream = append(stream, m) })

	res := svc.GenerateRosterFiles(context.Background(), ls, sink)
	if !res.Success {
		t.Fatalf("generate failed: %s / %s", res.Message, res.Details)
	}
	if !strings.Contains(res.Message, "2 file(s)") {
		t.Errorf("message: %q", res.Message)
	}
	if !strings.Contains(res.Details, "Students processed: 2") {
		t.Errorf("details: %q", res.Details)
	}

	teams, err := roster.ReadYAML(ls.YamlFile)
	if err != nil {
		t.Fatalf("reading generated yaml: %v", err)
	}
	if len(teams) != 1 {
		t.Errorf("got %d teams, want 1", len(teams))
	}

	// The stream interleaves milestones and transient ticks in emission
	// order: fetch milestone, per-student ticks, then the write reports.
	if len(stream) < 4 {
		t.Fatalf("stream too short: %v", stream)
	}
	if strings.HasPrefix(stream[0], progress.WirePrefix) {
		t.Errorf("first message should be a milestone: %q", stream[0])
	}
	if !strings.HasPrefix(stream[1], progress.WirePrefix) {
		t.Errorf("tick should carry the wire prefix: %q", stream[1])
	}
	last := stream[len(stream)-1]
	if !strings.Contains(last, ".csv") {
		t.Errorf("final milestone should report the csv: %q", last)
	}
}

func TestGenerateRosterFilesLMSFailure(t *testing.T) {
	svc := newService(t, &fakeLMS{err: errors.New("boom")})

	ls := settings.Defaults().LMSSettings
	res := svc.GenerateRosterFiles(context.Background(), ls, progress.Discard)
	if res.Success {
		t.Error("lms failure should produce a failed result")
	}
}

func TestSetupReposRequiresRoster(t *testing.T) {
	svc := newService(t, nil)

	rs := settings.Defaults().RepoSettings
	rs.YamlFile = filepath.Join(t.TempDir(), "missing.yaml")
	rs.Assignments = "a1"

	res := svc.SetupRepos(context.Background(), settings.Defaults().HostingSettings, rs, progress.Discard)
	if res.Success {
		t.Error("missing roster should fail")
	}
}

func TestSetupReposRequiresAssignments(t *testing.T) {
	svc := newService(t, nil)

	dir := t.TempDir()
	yamlPath := filepath.Join(dir, "students.yaml")
	teams := []roster.Team{{Name: "team-01", Members: []string{"a"}}}
	if err := roster.WriteYAML(yamlPath, teams); err != nil {
		t.Fatalf("writing roster: %v", err)
	}

	rs := settings.Defaults().RepoSettings
	rs.YamlFile = yamlPath

	res := svc.SetupRepos(context.Background(), settings.Defaults().HostingSettings, rs, progress.Discard)
	if res.Success || !strings.Contains(res.Message, "no assignments") {
		t.Errorf("empty assignments should fail: %+v", res)
	}
}

func TestVerifyHostConfigUnknownPlatform(t *testing.T) {
	svc := newService(t, nil)

	hs := settings.HostingSettings{BaseURL: "https://bitbucket.org"}
	res := svc.VerifyHostConfig(context.Background(), hs)
	if res.Success {
		t.Error("unknown platform should fail")
	}
}

func TestVerifyHostConfigLocal(t *testing.T) {
	svc := newService(t, nil)

	hs := settings.HostingSettings{BaseURL: t.TempDir(), StudentReposGroup: "g", User: "teacher"}
	res := svc.VerifyHostConfig(context.Background(), hs)
	if !res.Success {
		t.Fatalf("local verify failed: %s", res.Message)
	}
	if !strings.Contains(res.Details, string(hosting.KindLocal)) {
		t.Errorf("details should name the platform: %q", res.Details)
	}
}

func TestCloneReposRequiresTeams(t *testing.T) {
	svc := newService(t, nil)

	dir := t.TempDir()
	yamlPath := filepath.Join(dir, "students.yaml")
	if err := roster.WriteYAML(yamlPath, nil); err != nil {
		t.Fatalf("writing roster: %v", err)
	}

	rs := settings.Defaults().RepoSettings
	rs.YamlFile = yamlPath
	rs.Assignments = "a1"
	rs.TargetFolder = dir

	res := svc.CloneRepos(context.Background(), settings.Defaults().HostingSettings, rs, progress.Discard)
	if res.Success || !strings.Contains(res.Message, "no teams") {
		t.Errorf("empty roster should fail: %+v", res)
	}
}
