package hosting

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mordilloSan/go-logger/logger"

	"github.com/jmoret/rosterbee/internal/progress"
	"github.com/jmoret/rosterbee/internal/roster"
	"github.com/jmoret/rosterbee/internal/settings"
)

// SetupError records one repository that could not be provisioned.
type SetupError struct {
	Team       string
	Assignment string
	Err        error
}

func (e SetupError) Error() string {
	return fmt.Sprintf("%s/%s: %v", e.Team, e.Assignment, e.Err)
}

// SetupResult summarizes a provisioning run.
type SetupResult struct {
	Created  []string
	Existing []string
	Errors   []SetupError
}

// OK reports whether every repository was provisioned.
func (r SetupResult) OK() bool { return len(r.Errors) == 0 }

// Setup provisions one repository per team and assignment, pushing the
// assignment's template content into each new repository. Repositories
// that already exist are left untouched. Progress goes to sink; per-repo
// failures are collected rather than aborting the run.
func Setup(ctx context.Context, p Platform, hs settings.HostingSettings, teams []roster.Team, assignments []string, sink progress.Sink) (SetupResult, error) {
	var result SetupResult

	workDir, err := os.MkdirTemp("", "rosterbee-setup-")
	if err != nil {
		return result, fmt.Errorf("creating work directory: %w", err)
	}
	defer os.RemoveAll(workDir)

	total := len(teams) * len(assignments)
	done := 0

	for _, assignment := range assignments {
		templateURL := TemplateURL(hs, assignment)
		templateDir := filepath.Join(workDir, assignment)
		progress.Milestonef(sink, "fetching template for %s", assignment)
		if err := runGit(ctx, "", "clone", "--bare", authedURL(templateURL, hs.AccessToken), templateDir); err != nil {
			return result, fmt.Errorf("cloning template %s: %w", assignment, err)
		}

		for _, team := range teams {
			if ctx.Err() != nil {
				return result, ctx.Err()
			}
			ref := RepoRef{Team: team.Name, Assignment: assignment}
			cloneURL, existed, err := p.EnsureRepo(ctx, ref.Name())
			if err != nil {
				result.Errors = append(result.Errors, SetupError{Team: team.Name, Assignment: assignment, Err: err})
				logger.Warnf("setup: %s/%s: %v", team.Name, assignment, err)
			} else if existed {
				result.Existing = append(result.Existing, ref.Name())
			} else if err := runGit(ctx, templateDir, "push", "--mirror", cloneURL); err != nil {
				result.Errors = append(result.Errors, SetupError{Team: team.Name, Assignment: assignment, Err: err})
				logger.Warnf("setup: pushing %s: %v", ref.Name(), err)
			} else {
				result.Created = append(result.Created, ref.Name())
			}
			done++
			progress.Transientf(sink, "%d/%d repositories", done, total)
		}
	}
	return result, nil
}
