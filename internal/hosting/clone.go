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

// ClonePath maps a repository onto the target directory according to
// the configured layout.
//
//	by-team  <target>/<team>/<assignment>
//	flat     <target>/<team>-<assignment>
//	by-task  <target>/<assignment>/<team>
func ClonePath(layout, target string, ref RepoRef) string {
	switch layout {
	case settings.LayoutByTeam:
		return filepath.Join(target, ref.Team, ref.Assignment)
	case settings.LayoutByTask:
		return filepath.Join(target, ref.Assignment, ref.Team)
	default:
		return filepath.Join(target, ref.Team+"-"+ref.Assignment)
	}
}

// CloneResult summarizes a clone run.
type CloneResult struct {
	Cloned  []string
	Skipped []string
	Errors  []SetupError
}

func (r CloneResult) OK() bool { return len(r.Errors) == 0 }

// Clone fetches every team's repository for every assignment into the
// target folder. Existing checkout directories are skipped, never pulled
// into, so local student work is not disturbed.
func Clone(ctx context.Context, p Platform, rs settings.RepoSettings, teams []roster.Team, sink progress.Sink) (CloneResult, error) {
	var result CloneResult

	assignments := rs.AssignmentList()
	if len(assignments) == 0 {
		return result, fmt.Errorf("no assignments configured")
	}
	if err := os.MkdirAll(rs.TargetFolder, 0o755); err != nil {
		return result, fmt.Errorf("creating target folder: %w", err)
	}

	total := len(teams) * len(assignments)
	done := 0

	for _, assignment := range assignments {
		for _, team := range teams {
			if ctx.Err() != nil {
				return result, ctx.Err()
			}
			ref := RepoRef{Team: team.Name, Assignment: assignment}
			dest := ClonePath(rs.DirectoryLayout, rs.TargetFolder, ref)

			done++
			if _, err := os.Stat(dest); err == nil {
				result.Skipped = append(result.Skipped, ref.Name())
				progress.Transientf(sink, "%d/%d repositories", done, total)
				continue
			}
			if err := runGit(ctx, "", "clone", p.CloneURL(ref.Name()), dest); err != nil {
				result.Errors = append(result.Errors, SetupError{Team: team.Name, Assignment: assignment, Err: err})
				logger.Warnf("clone: %s: %v", ref.Name(), err)
			} else {
				result.Cloned = append(result.Cloned, ref.Name())
			}
			progress.Transientf(sink, "%d/%d repositories", done, total)
		}
	}
	return result, nil
}
