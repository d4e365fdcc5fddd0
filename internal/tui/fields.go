package tui

import (
	"strings"

	"github.com/jmoret/rosterbee/internal/settings"
)

// fieldClass determines which lock toggle guards a field. Connection
// fields sit behind the config lock, generation options behind the
// options lock, and free fields are always editable.
type fieldClass int

const (
	fieldFree fieldClass = iota
	fieldConfig
	fieldOption
)

// fieldSpec binds one form row to a document field. Text fields use
// get/set; boolean and enum fields toggle in place.
type fieldSpec struct {
	label  string
	class  fieldClass
	secret bool
	enum   []string
	get    func(*settings.Document) string
	set    func(*settings.Document, string)
	isBool bool
	getB   func(*settings.Document) bool
	setB   func(*settings.Document, bool)
}

func (f fieldSpec) display(doc *settings.Document) string {
	if f.isBool {
		if f.getB(doc) {
			return "[x]"
		}
		return "[ ]"
	}
	v := f.get(doc)
	if f.secret && v != "" {
		return strings.Repeat("*", 8)
	}
	return v
}

// cycle advances an enum field to its next allowed value.
func (f fieldSpec) cycle(doc *settings.Document) {
	cur := f.get(doc)
	for i, v := range f.enum {
		if v == cur {
			f.set(doc, f.enum[(i+1)%len(f.enum)])
			return
		}
	}
	f.set(doc, f.enum[0])
}

func rosterFields() []fieldSpec {
	return []fieldSpec{
		{label: "LMS", class: fieldConfig, enum: []string{settings.ProviderCanvas, settings.ProviderMoodle},
			get: func(d *settings.Document) string { return d.LMSSettings.Type },
			set: func(d *settings.Document, v string) { d.LMSSettings.Type = v }},
		{label: "URL mode", class: fieldConfig, enum: []string{settings.URLOptionPreset, settings.URLOptionCustom},
			get: func(d *settings.Document) string { return d.LMSSettings.URLOption },
			set: func(d *settings.Document, v string) { d.LMSSettings.URLOption = v }},
		{label: "Base URL", class: fieldConfig,
			get: func(d *settings.Document) string { return d.LMSSettings.BaseURL },
			set: func(d *settings.Document, v string) { d.LMSSettings.BaseURL = v }},
		{label: "Custom URL", class: fieldConfig,
			get: func(d *settings.Document) string { return d.LMSSettings.CustomURL },
			set: func(d *settings.Document, v string) { d.LMSSettings.CustomURL = v }},
		{label: "Access token", class: fieldConfig, secret: true,
			get: func(d *settings.Document) string { return d.LMSSettings.AccessToken },
			set: func(d *settings.Document, v string) { d.LMSSettings.AccessToken = v }},
		{label: "Course ID",
			get: func(d *settings.Document) string { return d.LMSSettings.CourseID },
			set: func(d *settings.Document, v string) { d.LMSSettings.CourseID = v }},
		{label: "Course name",
			get: func(d *settings.Document) string { return d.LMSSettings.CourseName },
			set: func(d *settings.Document, v string) { d.LMSSettings.CourseName = v }},
		{label: "YAML file",
			get: func(d *settings.Document) string { return d.LMSSettings.YamlFile },
			set: func(d *settings.Document, v string) { d.LMSSettings.YamlFile = v }},
		{label: "Info folder",
			get: func(d *settings.Document) string { return d.LMSSettings.InfoFolder },
			set: func(d *settings.Document, v string) { d.LMSSettings.InfoFolder = v }},
		{label: "CSV file",
			get: func(d *settings.Document) string { return d.LMSSettings.CSVFile },
			set: func(d *settings.Document, v string) { d.LMSSettings.CSVFile = v }},
		{label: "XLSX file",
			get: func(d *settings.Document) string { return d.LMSSettings.XLSXFile },
			set: func(d *settings.Document, v string) { d.LMSSettings.XLSXFile = v }},
		{label: "Member format", class: fieldOption,
			enum: []string{settings.MemberBoth, settings.MemberEmail, settings.MemberGitID},
			get:  func(d *settings.Document) string { return d.LMSSettings.MemberOption },
			set:  func(d *settings.Document, v string) { d.LMSSettings.MemberOption = v }},
		{label: "Include group", class: fieldOption, isBool: true,
			getB: func(d *settings.Document) bool { return d.LMSSettings.IncludeGroup },
			setB: func(d *settings.Document, v bool) { d.LMSSettings.IncludeGroup = v }},
		{label: "Include member", class: fieldOption, isBool: true,
			getB: func(d *settings.Document) bool { return d.LMSSettings.IncludeMember },
			setB: func(d *settings.Document, v bool) { d.LMSSettings.IncludeMember = v }},
		{label: "Include initials", class: fieldOption, isBool: true,
			getB: func(d *settings.Document) bool { return d.LMSSettings.IncludeInitials },
			setB: func(d *settings.Document, v bool) { d.LMSSettings.IncludeInitials = v }},
		{label: "Full groups only", class: fieldOption, isBool: true,
			getB: func(d *settings.Document) bool { return d.LMSSettings.FullGroups },
			setB: func(d *settings.Document, v bool) { d.LMSSettings.FullGroups = v }},
		{label: "Write YAML", isBool: true,
			getB: func(d *settings.Document) bool { return d.LMSSettings.OutputYAML },
			setB: func(d *settings.Document, v bool) { d.LMSSettings.OutputYAML = v }},
		{label: "Write CSV", isBool: true,
			getB: func(d *settings.Document) bool { return d.LMSSettings.OutputCSV },
			setB: func(d *settings.Document, v bool) { d.LMSSettings.OutputCSV = v }},
		{label: "Write XLSX", isBool: true,
			getB: func(d *settings.Document) bool { return d.LMSSettings.OutputXLSX },
			setB: func(d *settings.Document, v bool) { d.LMSSettings.OutputXLSX = v }},
	}
}

func repoFields() []fieldSpec {
	return []fieldSpec{
		{label: "Host URL", class: fieldConfig,
			get: func(d *settings.Document) string { return d.HostingSettings.BaseURL },
			set: func(d *settings.Document, v string) { d.HostingSettings.BaseURL = v }},
		{label: "Access token", class: fieldConfig, secret: true,
			get: func(d *settings.Document) string { return d.HostingSettings.AccessToken },
			set: func(d *settings.Document, v string) { d.HostingSettings.AccessToken = v }},
		{label: "User", class: fieldConfig,
			get: func(d *settings.Document) string { return d.HostingSettings.User },
			set: func(d *settings.Document, v string) { d.HostingSettings.User = v }},
		{label: "Student repos group", class: fieldConfig,
			get: func(d *settings.Document) string { return d.HostingSettings.StudentReposGroup },
			set: func(d *settings.Document, v string) { d.HostingSettings.StudentReposGroup = v }},
		{label: "Template group", class: fieldConfig,
			get: func(d *settings.Document) string { return d.HostingSettings.TemplateGroup },
			set: func(d *settings.Document, v string) { d.HostingSettings.TemplateGroup = v }},
		{label: "Roster file",
			get: func(d *settings.Document) string { return d.RepoSettings.YamlFile },
			set: func(d *settings.Document, v string) { d.RepoSettings.YamlFile = v }},
		{label: "Target folder",
			get: func(d *settings.Document) string { return d.RepoSettings.TargetFolder },
			set: func(d *settings.Document, v string) { d.RepoSettings.TargetFolder = v }},
		{label: "Assignments",
			get: func(d *settings.Document) string { return d.RepoSettings.Assignments },
			set: func(d *settings.Document, v string) { d.RepoSettings.Assignments = v }},
		{label: "Directory layout", class: fieldOption,
			enum: []string{settings.LayoutByTeam, settings.LayoutFlat, settings.LayoutByTask},
			get:  func(d *settings.Document) string { return d.RepoSettings.DirectoryLayout },
			set:  func(d *settings.Document, v string) { d.RepoSettings.DirectoryLayout = v }},
	}
}

// locked reports whether the field is currently read-only under the
// document's lock toggles.
func (f fieldSpec) locked(doc *settings.Document) bool {
	switch f.class {
	case fieldConfig:
		return doc.ChromeSettings.ConfigLocked
	case fieldOption:
		return doc.ChromeSettings.OptionsLocked
	default:
		return false
	}
}
