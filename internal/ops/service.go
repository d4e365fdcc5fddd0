// Package ops is the command surface behind the UI, the CLI and the
// websocket server. Every operation the frontends can invoke is a method
// here, so a missing or renamed operation fails at compile time instead
// of at dispatch time.
package ops

import (
	"context"

	"github.com/jmoret/rosterbee/internal/progress"
	"github.com/jmoret/rosterbee/internal/settings"
)

// Service is the closed set of operations. Settings and profile methods
// return errors for the caller to render; long-running operations return
// a Result and stream text through the given sink.
type Service interface {
	// Configuration store.
	LocatePath() (string, error)
	Exists() (bool, error)
	Load() (settings.Document, error)
	Save(doc settings.Document) error
	ResetSettings() (settings.Document, error)
	ResetSettingsLocation() (string, error)
	Schema() settings.Schema

	// Profiles.
	ListProfiles() ([]string, error)
	ActiveProfile() (string, error)
	LoadProfile(name string) (settings.Document, error)
	SaveProfile(name string, doc settings.Document) error
	DeleteProfile(name string) error

	// Import/export.
	ImportSettings(path string) (settings.Document, error)
	ExportSettings(doc settings.Document, path string) error

	// External operations.
	VerifyHostConfig(ctx context.Context, hs settings.HostingSettings) Result
	VerifyLMSCourse(ctx context.Context, ls settings.LMSSettings) Result
	GenerateRosterFiles(ctx context.Context, ls settings.LMSSettings, sink progress.Sink) Result
	SetupRepos(ctx context.Context, hs settings.HostingSettings, rs settings.RepoSettings, sink progress.Sink) Result
	CloneRepos(ctx context.Context, hs settings.HostingSettings, rs settings.RepoSettings, sink progress.Sink) Result
}
