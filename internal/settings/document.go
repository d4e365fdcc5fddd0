package settings

// LMS providers.
const (
	ProviderCanvas = "Canvas"
	ProviderMoodle = "Moodle"
)

// Base-URL modes for the LMS connection.
const (
	URLOptionPreset = "preset"
	URLOptionCustom = "custom"
)

// Member identifier formats for generated rosters.
const (
	MemberBoth  = "(email, gitid)"
	MemberEmail = "email"
	MemberGitID = "git_id"
)

// Directory layouts for cloned student repositories.
const (
	LayoutByTeam = "by-team"
	LayoutFlat   = "flat"
	LayoutByTask = "by-task"
)

// Top-level tabs.
const (
	TabRoster = "roster"
	TabRepos  = "repos"
)

// LMSSettings configures the roster import side: which LMS to talk to,
// how to reach it, and what the generated files should look like.
type LMSSettings struct {
	Type            string `json:"lms_type" validate:"oneof=Canvas Moodle"`
	URLOption       string `json:"lms_url_option" validate:"oneof=preset custom"`
	BaseURL         string `json:"lms_base_url"`
	CustomURL       string `json:"lms_custom_url"`
	AccessToken     string `json:"lms_access_token"`
	CourseID        string `json:"lms_course_id"`
	CourseName      string `json:"lms_course_name"`
	YamlFile        string `json:"lms_yaml_file"`
	InfoFolder      string `json:"lms_info_folder"`
	CSVFile         string `json:"lms_csv_file"`
	XLSXFile        string `json:"lms_xlsx_file"`
	MemberOption    string `json:"lms_member_option" validate:"oneof='(email0x2C gitid)' email git_id"` // 0x2C: validator tag comma escape
	IncludeGroup    bool   `json:"lms_include_group"`
	IncludeMember   bool   `json:"lms_include_member"`
	IncludeInitials bool   `json:"lms_include_initials"`
	FullGroups      bool   `json:"lms_full_groups"`
	OutputYAML      bool   `json:"lms_output_yaml"`
	OutputCSV       bool   `json:"lms_output_csv"`
	OutputXLSX      bool   `json:"lms_output_xlsx"`
}

// HostingSettings configures the git hosting side.
type HostingSettings struct {
	BaseURL           string `json:"git_base_url"`
	AccessToken       string `json:"git_access_token"`
	User              string `json:"git_user"`
	StudentReposGroup string `json:"git_student_repos_group"`
	TemplateGroup     string `json:"git_template_group"`
}

// RepoSettings configures repository setup and cloning.
type RepoSettings struct {
	YamlFile        string `json:"yaml_file"`
	TargetFolder    string `json:"target_folder"`
	Assignments     string `json:"assignments"`
	DirectoryLayout string `json:"directory_layout" validate:"oneof=by-team flat by-task"`
}

// LogSettings holds the four independent verbosity toggles.
type LogSettings struct {
	Info    bool `json:"log_info"`
	Debug   bool `json:"log_debug"`
	Warning bool `json:"log_warning"`
	Error   bool `json:"log_error"`
}

// ChromeSettings is UI session state persisted alongside everything else.
type ChromeSettings struct {
	ActiveTab     string `json:"active_tab" validate:"oneof=roster repos"`
	ConfigLocked  bool   `json:"config_locked"`
	OptionsLocked bool   `json:"options_locked"`
	WindowWidth   int    `json:"window_width"`
	WindowHeight  int    `json:"window_height"`
	WindowX       int    `json:"window_x"`
	WindowY       int    `json:"window_y"`
}

// Document is the single canonical settings record. The sub-structs are
// embedded so the persisted JSON stays flat (one key per field), while
// in-memory replacement always swaps the whole document at once.
//
// Every field has a default; a loaded document is always total. Missing
// fields in a stored file take their default, nothing is ever omitted
// based on another field's value.
type Document struct {
	LMSSettings
	HostingSettings
	RepoSettings
	LogSettings
	ChromeSettings
}

// Defaults returns the all-defaults document.
func Defaults() Document {
	return Document{
		LMSSettings: LMSSettings{
			Type:          ProviderCanvas,
			URLOption:     URLOptionPreset,
			BaseURL:       "https://canvas.tue.nl",
			YamlFile:      "students.yaml",
			CSVFile:       "student-info.csv",
			XLSXFile:      "student-info.xlsx",
			MemberOption:  MemberBoth,
			IncludeGroup:  true,
			IncludeMember: true,
			FullGroups:    true,
			OutputYAML:    true,
		},
		HostingSettings: HostingSettings{
			BaseURL: "https://gitlab.tue.nl",
		},
		RepoSettings: RepoSettings{
			YamlFile:        "students.yaml",
			DirectoryLayout: LayoutFlat,
		},
		LogSettings: LogSettings{
			Info:    true,
			Warning: true,
			Error:   true,
		},
		ChromeSettings: ChromeSettings{
			ActiveTab:     TabRoster,
			ConfigLocked:  true,
			OptionsLocked: true,
		},
	}
}

// ResolvedLMSURL returns the base URL the LMS client should use,
// honouring the preset/custom selector. Both URL fields are always
// persisted regardless of which one is selected.
func (l LMSSettings) ResolvedLMSURL() string {
	if l.URLOption == URLOptionCustom {
		return l.CustomURL
	}
	return l.BaseURL
}

// AssignmentList splits the delimited assignments field into trimmed,
// non-empty names.
func (r RepoSettings) AssignmentList() []string {
	return splitAssignments(r.Assignments)
}
