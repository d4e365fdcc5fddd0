package lms

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/mordilloSan/go-logger/logger"
)

// CanvasClient speaks the Canvas REST API with bearer-token auth.
type CanvasClient struct {
	baseURL string
	token   string
	http    *http.Client
}

// NewCanvasClient builds a client for the given instance. A trailing
// slash on the base URL is tolerated.
func NewCanvasClient(baseURL, token string) *CanvasClient {
	return &CanvasClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

type canvasCourse struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	CourseCode string `json:"course_code"`
}

type canvasUser struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	ShortName string `json:"short_name"`
	LoginID   string `json:"login_id"`
	SISUserID string `json:"sis_user_id"`
}

type canvasProfile struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	ShortName    string `json:"short_name"`
	PrimaryEmail string `json:"primary_email"`
	LoginID      string `json:"login_id"`
	SISUserID    string `json:"sis_user_id"`
}

type canvasGroup struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type canvasMembership struct {
	UserID int64 `json:"user_id"`
}

func (c *CanvasClient) get(ctx context.Context, path string, query url.Values, out any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("canvas request %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("canvas api error (%s): %s", resp.Status, strings.TrimSpace(string(body)))
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding canvas response %s: %w", path, err)
	}
	return nil
}

// Verify lists the caller's courses, which fails on a bad token or URL.
func (c *CanvasClient) Verify(ctx context.Context) ([]Course, error) {
	q := url.Values{"per_page": {"100"}}
	var raw []canvasCourse
	if err := c.get(ctx, "/api/v1/courses", q, &raw); err != nil {
		return nil, err
	}
	courses := make([]Course, 0, len(raw))
	for _, cc := range raw {
		courses = append(courses, Course{
			ID:   strconv.FormatInt(cc.ID, 10),
			Name: cc.Name,
			Code: cc.CourseCode,
		})
	}
	return courses, nil
}

func (c *CanvasClient) courseUsers(ctx context.Context, courseID string) ([]canvasUser, error) {
	q := url.Values{
		"per_page":          {"100"},
		"enrollment_type[]": {"student"},
	}
	var users []canvasUser
	err := c.get(ctx, "/api/v1/courses/"+courseID+"/users", q, &users)
	return users, err
}

func (c *CanvasClient) courseGroups(ctx context.Context, courseID string) ([]canvasGroup, error) {
	q := url.Values{"per_page": {"100"}}
	var groups []canvasGroup
	err := c.get(ctx, "/api/v1/courses/"+courseID+"/groups", q, &groups)
	return groups, err
}

func (c *CanvasClient) groupMembers(ctx context.Context, groupID int64) ([]canvasMembership, error) {
	q := url.Values{"per_page": {"100"}}
	var members []canvasMembership
	err := c.get(ctx, "/api/v1/groups/"+strconv.FormatInt(groupID, 10)+"/memberships", q, &members)
	return members, err
}

// Students fetches the roster with group membership. One profile request
// per student is needed for the email address, so tick fires per student.
func (c *CanvasClient) Students(ctx context.Context, courseID string, tick Tick) ([]StudentInfo, error) {
	users, err := c.courseUsers(ctx, courseID)
	if err != nil {
		return nil, err
	}
	groups, err := c.courseGroups(ctx, courseID)
	if err != nil {
		return nil, err
	}

	userGroup := make(map[int64]string)
	for _, g := range groups {
		members, err := c.groupMembers(ctx, g.ID)
		if err != nil {
			return nil, err
		}
		for _, m := range members {
			userGroup[m.UserID] = g.Name
		}
	}

	students := make([]StudentInfo, 0, len(users))
	for i, u := range users {
		var profile canvasProfile
		if err := c.get(ctx, "/api/v1/users/"+strconv.FormatInt(u.ID, 10)+"/profile", nil, &profile); err != nil {
			return nil, err
		}
		gitID := profile.SISUserID
		if gitID == "" {
			gitID = profile.LoginID
		}
		fullName := profile.ShortName
		if fullName == "" {
			fullName = profile.Name
		}
		students = append(students, StudentInfo{
			Group:    userGroup[u.ID],
			FullName: fullName,
			LastName: LastNameFromEmail(profile.PrimaryEmail),
			LoginID:  profile.LoginID,
			GitID:    gitID,
			Email:    profile.PrimaryEmail,
		})
		if tick != nil {
			tick(i+1, len(users))
		}
	}
	logger.Debugf("canvas: fetched %d students, %d groups for course %s", len(students), len(groups), courseID)
	return students, nil
}
