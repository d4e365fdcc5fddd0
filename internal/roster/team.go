// Package roster turns fetched student info into team lists and writes
// them out as YAML, CSV and XLSX files.
package roster

import (
	"fmt"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/jmoret/rosterbee/internal/lms"
	"github.com/jmoret/rosterbee/internal/settings"
)

// Team is one provisioning unit: a name and its member identifiers.
type Team struct {
	Name    string   `yaml:"name" json:"name"`
	Members []string `yaml:"members" json:"members"`
}

// memberID renders one student according to the configured member format.
func memberID(s lms.StudentInfo, option string) string {
	switch option {
	case settings.MemberEmail:
		return s.Email
	case settings.MemberGitID:
		return s.GitID
	default:
		return fmt.Sprintf("(%s, %s)", s.Email, s.GitID)
	}
}

func initials(fullName string) string {
	var b strings.Builder
	for _, word := range strings.Fields(fullName) {
		r, _ := utf8.DecodeRuneInString(word)
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String()
}

// teamName assembles the display name from the enabled naming parts.
// When nothing is enabled the group name, or failing that the first
// member's last name, keeps names non-empty.
func teamName(group string, members []lms.StudentInfo, opts settings.LMSSettings) string {
	var parts []string
	if opts.IncludeGroup && group != "" {
		parts = append(parts, group)
	}
	if opts.IncludeMember {
		for _, m := range members {
			parts = append(parts, m.LastName)
		}
	}
	if opts.IncludeInitials {
		for _, m := range members {
			parts = append(parts, initials(m.FullName))
		}
	}
	if len(parts) == 0 {
		if group != "" {
			return group
		}
		parts = append(parts, members[0].LastName)
	}
	return strings.Join(parts, "-")
}

// BuildTeams groups students by their LMS group and renders team names
// and member identifiers per the document's options. With FullGroups set,
// students without a group are dropped; otherwise each becomes a
// singleton team. Teams come out sorted by name.
func BuildTeams(students []lms.StudentInfo, opts settings.LMSSettings) []Team {
	byGroup := make(map[string][]lms.StudentInfo)
	var loners []lms.StudentInfo
	for _, s := range students {
		if s.Group == "" {
			loners = append(loners, s)
			continue
		}
		byGroup[s.Group] = append(byGroup[s.Group], s)
	}

	var teams []Team
	for group, members := range byGroup {
		sort.Slice(members, func(i, j int) bool { return members[i].LastName < members[j].LastName })
		team := Team{Name: teamName(group, members, opts)}
		for _, m := range members {
			team.Members = append(team.Members, memberID(m, opts.MemberOption))
		}
		teams = append(teams, team)
	}
	if !opts.FullGroups {
		for _, s := range loners {
			teams = append(teams, Team{
				Name:    teamName("", []lms.StudentInfo{s}, opts),
				Members: []string{memberID(s, opts.MemberOption)},
			})
		}
	}
	sort.Slice(teams, func(i, j int) bool { return teams[i].Name < teams[j].Name })
	return teams
}
