// Package lms talks to learning management systems to pull course
// rosters. Canvas and Moodle are supported behind a common client
// interface.
package lms

import (
	"context"
	"strings"
)

// Course is a course the authenticated user can see.
type Course struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Code string `json:"code,omitempty"`
}

// Group is a student group within a course.
type Group struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// StudentInfo is one enrolled student, normalized across providers.
type StudentInfo struct {
	Group    string `json:"group,omitempty"`
	FullName string `json:"full_name"`
	LastName string `json:"last_name"`
	LoginID  string `json:"login_id"`
	GitID    string `json:"git_id"`
	Email    string `json:"email"`
}

// Tick reports roster-fetch progress: done students out of total.
type Tick func(done, total int)

// Client is the provider-independent roster source.
type Client interface {
	// Verify checks the credentials by listing courses.
	Verify(ctx context.Context) ([]Course, error)
	// Students fetches the full roster of a course, including group
	// membership. tick may be nil.
	Students(ctx context.Context, courseID string, tick Tick) ([]StudentInfo, error)
}

// LastNameFromEmail derives a short surname from an address like
// "john.van.doe@uni.nl", taking the segment after the final dot in the
// local part.
func LastNameFromEmail(email string) string {
	local, _, _ := strings.Cut(email, "@")
	if i := strings.LastIndexByte(local, '.'); i >= 0 {
		return local[i+1:]
	}
	return local
}
