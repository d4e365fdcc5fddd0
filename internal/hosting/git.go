package hosting

import (
	"context"
	"fmt"
	"os/exec"
	"regexp"
	"strings"
)

// runGit shells out to git, with dir as the working directory when set.
func runGit(ctx context.Context, dir string, args ...string) error {
	cmd := exec.CommandContext(ctx, "git", args...)
	if dir != "" {
		cmd.Dir = dir
	}
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("git %s: %s: %w", args[0], sanitize(strings.TrimSpace(string(out))), err)
	}
	return nil
}

var credentialRe = regexp.MustCompile(`oauth2:[^@\s]*@`)

// sanitize strips embedded credentials from git output before it
// reaches logs or the progress stream.
func sanitize(s string) string {
	return credentialRe.ReplaceAllString(s, "oauth2:***@")
}
