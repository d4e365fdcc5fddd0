package hosting

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/jmoret/rosterbee/internal/settings"
)

// restPlatform talks to GitHub, GitLab or Gitea over their REST APIs.
// The three differ only in paths, auth header and payload shape.
type restPlatform struct {
	kind    Kind
	baseURL string
	token   string
	user    string
	group   string
	http    *http.Client
}

func newRestPlatform(kind Kind, hs settings.HostingSettings) *restPlatform {
	return &restPlatform{
		kind:    kind,
		baseURL: strings.TrimRight(hs.BaseURL, "/"),
		token:   hs.AccessToken,
		user:    hs.User,
		group:   hs.StudentReposGroup,
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

func (p *restPlatform) Kind() Kind { return p.kind }

func (p *restPlatform) apiURL(path string) string {
	switch p.kind {
	case KindGitLab:
		return p.baseURL + "/api/v4" + path
	case KindGitea:
		return p.baseURL + "/api/v1" + path
	default:
		// GitHub: api.github.com for the public site, <base>/api/v3 for
		// enterprise installs.
		if strings.Contains(p.baseURL, "github.com") {
			return "https://api.github.com" + path
		}
		return p.baseURL + "/api/v3" + path
	}
}

func (p *restPlatform) authorize(req *http.Request) {
	if p.kind == KindGitLab {
		req.Header.Set("PRIVATE-TOKEN", p.token)
		return
	}
	req.Header.Set("Authorization", "token "+p.token)
}

func (p *restPlatform) do(ctx context.Context, method, path string, body, out any) (int, error) {
	var payload io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return 0, fmt.Errorf("encoding request: %w", err)
		}
		payload = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, method, p.apiURL(path), payload)
	if err != nil {
		return 0, fmt.Errorf("building request: %w", err)
	}
	p.authorize(req)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := p.http.Do(req)
	if err != nil {
		return 0, fmt.Errorf("%s request %s: %w", p.kind, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return resp.StatusCode, fmt.Errorf("%s api error (%s): %s", p.kind, resp.Status, strings.TrimSpace(string(msg)))
	}
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return resp.StatusCode, fmt.Errorf("decoding %s response: %w", p.kind, err)
		}
	}
	return resp.StatusCode, nil
}

// Verify checks the token against the authenticated-user endpoint, then
// that the student repos group is reachable.
func (p *restPlatform) Verify(ctx context.Context) error {
	var me struct {
		Login    string `json:"login"`
		Username string `json:"username"`
	}
	if _, err := p.do(ctx, http.MethodGet, "/user", nil, &me); err != nil {
		return err
	}
	login := me.Login
	if login == "" {
		login = me.Username
	}
	if p.user != "" && !strings.EqualFold(login, p.user) {
		return fmt.Errorf("token belongs to %q, settings name %q", login, p.user)
	}
	if p.group == "" {
		return nil
	}
	_, err := p.do(ctx, http.MethodGet, p.groupPath(), nil, nil)
	if err != nil {
		return fmt.Errorf("group %q not accessible: %w", p.group, err)
	}
	return nil
}

func (p *restPlatform) groupPath() string {
	switch p.kind {
	case KindGitLab:
		return "/groups/" + url.PathEscape(p.group)
	case KindGitea:
		return "/orgs/" + url.PathEscape(p.group)
	default:
		return "/orgs/" + url.PathEscape(p.group)
	}
}

func (p *restPlatform) CloneURL(name string) string {
	return authedURL(fmt.Sprintf("%s/%s/%s.git", p.baseURL, p.group, name), p.token)
}

// EnsureRepo creates the named repository inside the student repos
// group, treating an already-exists response as success.
func (p *restPlatform) EnsureRepo(ctx context.Context, name string) (string, bool, error) {
	var status int
	var err error
	switch p.kind {
	case KindGitLab:
		var ns struct {
			ID int64 `json:"id"`
		}
		if _, err = p.do(ctx, http.MethodGet, "/groups/"+url.PathEscape(p.group), nil, &ns); err != nil {
			return "", false, err
		}
		body := map[string]any{"name": name, "path": name, "namespace_id": ns.ID, "visibility": "private"}
		status, err = p.do(ctx, http.MethodPost, "/projects", body, nil)
	case KindGitea:
		body := map[string]any{"name": name, "private": true, "auto_init": false}
		status, err = p.do(ctx, http.MethodPost, "/orgs/"+url.PathEscape(p.group)+"/repos", body, nil)
	default:
		body := map[string]any{"name": name, "private": true, "auto_init": false}
		status, err = p.do(ctx, http.MethodPost, "/orgs/"+url.PathEscape(p.group)+"/repos", body, nil)
	}
	if err != nil {
		if repoExists(status) {
			return p.CloneURL(name), true, nil
		}
		return "", false, err
	}
	return p.CloneURL(name), false, nil
}

// repoExists matches the conflict statuses the three platforms return
// for an already-existing repository. GitLab reports 400 with a
// "has already been taken" message, which is folded in here as well.
func repoExists(status int) bool {
	return status == http.StatusConflict || status == http.StatusUnprocessableEntity || status == http.StatusBadRequest
}
