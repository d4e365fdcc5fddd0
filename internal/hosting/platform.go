// Package hosting provisions and clones student repositories on a git
// hosting platform. GitHub, GitLab, Gitea and a plain local filesystem
// are supported; the platform is inferred from the base URL.
package hosting

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/jmoret/rosterbee/internal/settings"
)

// Kind identifies a hosting platform flavour.
type Kind string

const (
	KindGitHub Kind = "github"
	KindGitLab Kind = "gitlab"
	KindGitea  Kind = "gitea"
	KindLocal  Kind = "local"
)

// Detect infers the platform from the base URL. Filesystem paths and
// URLs mentioning "local" map to the local platform; otherwise the host
// name must mention one of the known products.
func Detect(baseURL string) (Kind, error) {
	if strings.HasPrefix(baseURL, "/") || strings.Contains(baseURL, "local") {
		return KindLocal, nil
	}
	switch {
	case strings.Contains(baseURL, "github"):
		return KindGitHub, nil
	case strings.Contains(baseURL, "gitlab"):
		return KindGitLab, nil
	case strings.Contains(baseURL, "gitea"):
		return KindGitea, nil
	}
	return "", fmt.Errorf("unknown platform for %q: url must contain github, gitlab or gitea, or be a filesystem path", baseURL)
}

// RepoRef names one repository to be created or cloned.
type RepoRef struct {
	Team       string
	Assignment string
}

// Name is the repository name, always team-assignment.
func (r RepoRef) Name() string {
	return r.Team + "-" + r.Assignment
}

// Platform is the closed surface the setup and clone operations need.
type Platform interface {
	Kind() Kind
	// Verify checks credentials and group access.
	Verify(ctx context.Context) error
	// EnsureRepo creates the repository if needed and reports whether it
	// already existed, returning a URL git can push to and clone from.
	EnsureRepo(ctx context.Context, name string) (cloneURL string, existed bool, err error)
	// CloneURL returns the URL for an existing repository without
	// touching the platform.
	CloneURL(name string) string
}

// New builds the platform for the configured hosting settings.
func New(hs settings.HostingSettings) (Platform, error) {
	kind, err := Detect(hs.BaseURL)
	if err != nil {
		return nil, err
	}
	return NewOfKind(kind, hs)
}

// NewOfKind builds a platform of an explicit kind, bypassing URL
// detection.
func NewOfKind(kind Kind, hs settings.HostingSettings) (Platform, error) {
	if kind == KindLocal {
		return newLocalPlatform(hs), nil
	}
	return newRestPlatform(kind, hs), nil
}

// authedURL embeds the token into an https clone URL so git can
// authenticate non-interactively. Non-https URLs pass through unchanged.
func authedURL(rawURL, token string) string {
	if token == "" {
		return rawURL
	}
	u, err := url.Parse(rawURL)
	if err != nil || (u.Scheme != "https" && u.Scheme != "http") {
		return rawURL
	}
	u.User = url.UserPassword("oauth2", token)
	return u.String()
}
