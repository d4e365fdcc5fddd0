package hosting

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jmoret/rosterbee/internal/settings"
)

// localPlatform keeps repositories as bare git directories under
// <base>/<group>/, for offline use and testing.
type localPlatform struct {
	base  string
	group string
}

func newLocalPlatform(hs settings.HostingSettings) *localPlatform {
	return &localPlatform{
		base:  strings.TrimRight(hs.BaseURL, "/"),
		group: hs.StudentReposGroup,
	}
}

func (p *localPlatform) Kind() Kind { return KindLocal }

func (p *localPlatform) groupDir() string {
	return filepath.Join(p.base, p.group)
}

// Verify only needs the base directory to exist and be a directory.
func (p *localPlatform) Verify(ctx context.Context) error {
	info, err := os.Stat(p.base)
	if err != nil {
		return fmt.Errorf("local platform base %q: %w", p.base, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("local platform base %q is not a directory", p.base)
	}
	return nil
}

func (p *localPlatform) CloneURL(name string) string {
	return filepath.Join(p.groupDir(), name+".git")
}

// EnsureRepo initializes a bare repository under the group directory.
func (p *localPlatform) EnsureRepo(ctx context.Context, name string) (string, bool, error) {
	dir := p.CloneURL(name)
	if _, err := os.Stat(dir); err == nil {
		return dir, true, nil
	}
	if err := os.MkdirAll(p.groupDir(), 0o755); err != nil {
		return "", false, fmt.Errorf("creating group directory: %w", err)
	}
	if err := runGit(ctx, "", "init", "--bare", dir); err != nil {
		return "", false, err
	}
	return dir, false, nil
}
