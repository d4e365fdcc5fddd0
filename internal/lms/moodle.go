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

// MoodleClient speaks the Moodle web-service REST protocol. All calls go
// through a single endpoint with the token and function name as query
// parameters.
type MoodleClient struct {
	baseURL string
	token   string
	http    *http.Client
}

func NewMoodleClient(baseURL, token string) *MoodleClient {
	return &MoodleClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

type moodleError struct {
	Exception string `json:"exception"`
	ErrorCode string `json:"errorcode"`
	Message   string `json:"message"`
}

type moodleCourse struct {
	ID        int64  `json:"id"`
	FullName  string `json:"fullname"`
	ShortName string `json:"shortname"`
}

type moodleUser struct {
	ID       int64  `json:"id"`
	FullName string `json:"fullname"`
	UserName string `json:"username"`
	Email    string `json:"email"`
	IDNumber string `json:"idnumber"`
	Roles    []struct {
		ShortName string `json:"shortname"`
	} `json:"roles"`
}

type moodleGroup struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type moodleGroupMembers struct {
	GroupID int64   `json:"groupid"`
	UserIDs []int64 `json:"userids"`
}

type moodleSiteInfo struct {
	UserID int64 `json:"userid"`
}

func (c *MoodleClient) call(ctx context.Context, function string, params url.Values, out any) error {
	q := url.Values{
		"wstoken":            {c.token},
		"wsfunction":         {function},
		"moodlewsrestformat": {"json"},
	}
	for k, vs := range params {
		q[k] = vs
	}
	u := c.baseURL + "/webservice/rest/server.php?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("moodle request %s: %w", function, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 10<<20))
	if err != nil {
		return fmt.Errorf("reading moodle response %s: %w", function, err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("moodle api error (%s): %s", resp.Status, strings.TrimSpace(string(body)))
	}
	// Moodle reports failures as a 200 with an exception object.
	var fail moodleError
	if json.Unmarshal(body, &fail) == nil && fail.Exception != "" {
		return fmt.Errorf("moodle %s: %s (%s)", function, fail.Message, fail.ErrorCode)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decoding moodle response %s: %w", function, err)
	}
	return nil
}

// Verify resolves the token's own user then lists their courses.
func (c *MoodleClient) Verify(ctx context.Context) ([]Course, error) {
	var site moodleSiteInfo
	if err := c.call(ctx, "core_webservice_get_site_info", nil, &site); err != nil {
		return nil, err
	}
	params := url.Values{"userid": {strconv.FormatInt(site.UserID, 10)}}
	var raw []moodleCourse
	if err := c.call(ctx, "core_enrol_get_users_courses", params, &raw); err != nil {
		return nil, err
	}
	courses := make([]Course, 0, len(raw))
	for _, mc := range raw {
		courses = append(courses, Course{
			ID:   strconv.FormatInt(mc.ID, 10),
			Name: mc.FullName,
			Code: mc.ShortName,
		})
	}
	return courses, nil
}

// Students fetches the roster with group membership. Moodle returns the
// full enrollment in one call, so ticks fire per post-processing step.
func (c *MoodleClient) Students(ctx context.Context, courseID string, tick Tick) ([]StudentInfo, error) {
	params := url.Values{"courseid": {courseID}}
	var users []moodleUser
	if err := c.call(ctx, "core_enrol_get_enrolled_users", params, &users); err != nil {
		return nil, err
	}
	var groups []moodleGroup
	if err := c.call(ctx, "core_group_get_course_groups", params, &groups); err != nil {
		return nil, err
	}

	userGroup := make(map[int64]string)
	for _, g := range groups {
		gp := url.Values{"groupids[0]": {strconv.FormatInt(g.ID, 10)}}
		var members []moodleGroupMembers
		if err := c.call(ctx, "core_group_get_group_members", gp, &members); err != nil {
			return nil, err
		}
		for _, m := range members {
			for _, uid := range m.UserIDs {
				userGroup[uid] = g.Name
			}
		}
	}

	var students []StudentInfo
	done := 0
	for _, u := range users {
		if !hasStudentRole(u) {
			continue
		}
		gitID := u.IDNumber
		if gitID == "" {
			gitID = u.UserName
		}
		students = append(students, StudentInfo{
			Group:    userGroup[u.ID],
			FullName: u.FullName,
			LastName: LastNameFromEmail(u.Email),
			LoginID:  u.UserName,
			GitID:    gitID,
			Email:    u.Email,
		})
		done++
		if tick != nil {
			tick(done, len(users))
		}
	}
	logger.Debugf("moodle: fetched %d students, %d groups for course %s", len(students), len(groups), courseID)
	return students, nil
}

func hasStudentRole(u moodleUser) bool {
	// Enrollment listings without role detail are taken as students.
	if len(u.Roles) == 0 {
		return true
	}
	for _, r := range u.Roles {
		if r.ShortName == "student" {
			return true
		}
	}
	return false
}
