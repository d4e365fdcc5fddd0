// Package tui is the interactive terminal frontend. Two tabs mirror the
// two halves of the settings document: roster import and repository
// provisioning. Long-running operations stream into a transcript pane.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jmoret/rosterbee/internal/ops"
	"github.com/jmoret/rosterbee/internal/progress"
	"github.com/jmoret/rosterbee/internal/settings"
)

type overlayType int

const (
	overlayNone overlayType = iota
	overlayEdit
	overlayProfiles
	overlayProfileName
	overlayHelp
)

type App struct {
	service ops.Service
	doc     settings.Document

	cursors map[string]int
	overlay overlayType
	input   textinput.Model
	editing int

	transcript transcript
	// opRunning blocks a second operation from starting while one is in
	// flight. Operations themselves are not cancellable.
	opRunning bool
	opCh      chan tea.Msg

	profiles      []string
	active        string
	profileCursor int

	notification string
	width        int
	height       int
	ready        bool
}

func NewApp(svc ops.Service, doc settings.Document) App {
	input := textinput.New()
	input.CharLimit = 512
	return App{
		service:    svc,
		doc:        doc,
		cursors:    map[string]int{settings.TabRoster: 0, settings.TabRepos: 0},
		input:      input,
		transcript: newTranscript(),
	}
}

func (a App) Init() tea.Cmd {
	return a.loadProfiles()
}

func (a App) fields() []fieldSpec {
	if a.doc.ChromeSettings.ActiveTab == settings.TabRepos {
		return repoFields()
	}
	return rosterFields()
}

func (a App) cursor() int {
	return a.cursors[a.doc.ChromeSettings.ActiveTab]
}

// Commands

func (a App) saveDoc() tea.Cmd {
	doc := a.doc
	return func() tea.Msg {
		if err := a.service.Save(doc); err != nil {
			return errMsg{err}
		}
		return docSavedMsg{}
	}
}

func (a App) loadProfiles() tea.Cmd {
	return func() tea.Msg {
		names, err := a.service.ListProfiles()
		if err != nil {
			return errMsg{err}
		}
		active, err := a.service.ActiveProfile()
		if err != nil {
			return errMsg{err}
		}
		return profilesLoadedMsg{names: names, active: active}
	}
}

func (a App) applyProfile(name string) tea.Cmd {
	return func() tea.Msg {
		doc, err := a.service.LoadProfile(name)
		if err != nil {
			return errMsg{err}
		}
		return profileAppliedMsg{name: name, doc: doc}
	}
}

func (a App) saveProfile(name string) tea.Cmd {
	doc := a.doc
	return func() tea.Msg {
		if err := a.service.SaveProfile(name, doc); err != nil {
			return errMsg{err}
		}
		return notifyMsg{text: fmt.Sprintf("Profile saved: %s", name)}
	}
}

func (a App) deleteProfile(name string) tea.Cmd {
	return func() tea.Msg {
		if err := a.service.DeleteProfile(name); err != nil {
			return errMsg{err}
		}
		return profileDeletedMsg{name: name}
	}
}

func (a App) notify(text string) tea.Cmd {
	return func() tea.Msg { return notifyMsg{text: text} }
}

func scheduleNotificationClear(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return clearNotificationMsg{}
	})
}

// listen pulls the next message off a running operation's channel.
func listen(ch chan tea.Msg) tea.Cmd {
	return func() tea.Msg {
		msg, ok := <-ch
		if !ok {
			return opClosedMsg{}
		}
		return msg
	}
}

// startOp launches one long-running operation in its own goroutine. The
// sink and the terminal result feed the returned channel in order.
func (a *App) startOp(run func(ctx context.Context, sink progress.Sink) ops.Result) tea.Cmd {
	ch := make(chan tea.Msg, 64)
	a.opCh = ch
	a.opRunning = true
	go func() {
		sink := progress.SinkFunc(func(m string) { ch <- streamMsg{text: m} })
		res := run(context.Background(), sink)
		ch <- opDoneMsg{result: res}
		close(ch)
	}()
	return listen(ch)
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.doc.ChromeSettings.WindowWidth = msg.Width
		a.doc.ChromeSettings.WindowHeight = msg.Height
		a.ready = true
		return a, nil

	case tea.KeyMsg:
		return a.handleKey(msg)

	case streamMsg:
		a.transcript.Append(msg.text)
		return a, listen(a.opCh)

	case opDoneMsg:
		a.transcript.Finish(progress.Outcome{
			Success: msg.result.Success,
			Message: msg.result.Message,
			Details: msg.result.Details,
		})
		return a, listen(a.opCh)

	case opClosedMsg:
		a.opRunning = false
		return a, nil

	case docSavedMsg:
		return a, a.notify("Settings saved")

	case profilesLoadedMsg:
		a.profiles = msg.names
		a.active = msg.active
		if a.profileCursor >= len(a.profiles) {
			a.profileCursor = 0
		}
		return a, nil

	case profileAppliedMsg:
		// Whole-document replacement, both tabs at once.
		a.doc = msg.doc
		a.active = msg.name
		a.overlay = overlayNone
		return a, tea.Batch(a.notify(fmt.Sprintf("Profile loaded: %s", msg.name)), a.saveDoc())

	case profileDeletedMsg:
		return a, tea.Batch(a.notify(fmt.Sprintf("Profile deleted: %s", msg.name)), a.loadProfiles())

	case errMsg:
		a.transcript.Append(fmt.Sprintf("error: %s", msg.err))
		return a, a.notify(fmt.Sprintf("Error: %s", msg.err))

	case notifyMsg:
		a.notification = msg.text
		return a, tea.Batch(a.loadProfiles(), scheduleNotificationClear(3*time.Second))

	case clearNotificationMsg:
		a.notification = ""
		return a, nil
	}
	return a, nil
}

func (a App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch a.overlay {
	case overlayEdit:
		return a.handleEditKey(msg)
	case overlayProfiles:
		return a.handleProfilesKey(msg)
	case overlayProfileName:
		return a.handleProfileNameKey(msg)
	case overlayHelp:
		if key.Matches(msg, keys.Escape) || key.Matches(msg, keys.Help) {
			a.overlay = overlayNone
		}
		return a, nil
	}

	switch {
	case key.Matches(msg, keys.Quit):
		// Chrome state rides along with the final save.
		return a, tea.Sequence(a.saveDoc(), tea.Quit)

	case key.Matches(msg, keys.NextTab):
		if a.doc.ChromeSettings.ActiveTab == settings.TabRoster {
			a.doc.ChromeSettings.ActiveTab = settings.TabRepos
		} else {
			a.doc.ChromeSettings.ActiveTab = settings.TabRoster
		}
		return a, nil

	case key.Matches(msg, keys.Up):
		if c := a.cursor(); c > 0 {
			a.cursors[a.doc.ChromeSettings.ActiveTab] = c - 1
		}
		return a, nil

	case key.Matches(msg, keys.Down):
		if c := a.cursor(); c < len(a.fields())-1 {
			a.cursors[a.doc.ChromeSettings.ActiveTab] = c + 1
		}
		return a, nil

	case key.Matches(msg, keys.Edit):
		return a.beginEdit()

	case key.Matches(msg, keys.LockConfig):
		a.doc.ChromeSettings.ConfigLocked = !a.doc.ChromeSettings.ConfigLocked
		return a, a.saveDoc()

	case key.Matches(msg, keys.LockOptions):
		a.doc.ChromeSettings.OptionsLocked = !a.doc.ChromeSettings.OptionsLocked
		return a, a.saveDoc()

	case key.Matches(msg, keys.SaveDoc):
		return a, a.saveDoc()

	case key.Matches(msg, keys.Profiles):
		a.overlay = overlayProfiles
		return a, a.loadProfiles()

	case key.Matches(msg, keys.Help):
		a.overlay = overlayHelp
		return a, nil

	case key.Matches(msg, keys.Verify):
		if a.opRunning {
			return a, a.notify("An operation is already running")
		}
		doc := a.doc
		var cmd tea.Cmd
		if a.doc.ChromeSettings.ActiveTab == settings.TabRoster {
			cmd = a.startOp(func(ctx context.Context, _ progress.Sink) ops.Result {
				return a.service.VerifyLMSCourse(ctx, doc.LMSSettings)
			})
		} else {
			cmd = a.startOp(func(ctx context.Context, _ progress.Sink) ops.Result {
				return a.service.VerifyHostConfig(ctx, doc.HostingSettings)
			})
		}
		return a, cmd

	case key.Matches(msg, keys.Run):
		if a.doc.ChromeSettings.ActiveTab != settings.TabRoster {
			return a, nil
		}
		if a.opRunning {
			return a, a.notify("An operation is already running")
		}
		doc := a.doc
		cmd := a.startOp(func(ctx context.Context, sink progress.Sink) ops.Result {
			return a.service.GenerateRosterFiles(ctx, doc.LMSSettings, sink)
		})
		return a, cmd

	case key.Matches(msg, keys.Setup):
		if a.doc.ChromeSettings.ActiveTab != settings.TabRepos {
			return a, nil
		}
		if a.opRunning {
			return a, a.notify("An operation is already running")
		}
		doc := a.doc
		cmd := a.startOp(func(ctx context.Context, sink progress.Sink) ops.Result {
			return a.service.SetupRepos(ctx, doc.HostingSettings, doc.RepoSettings, sink)
		})
		return a, cmd

	case key.Matches(msg, keys.Clone):
		if a.doc.ChromeSettings.ActiveTab != settings.TabRepos {
			return a, nil
		}
		if a.opRunning {
			return a, a.notify("An operation is already running")
		}
		doc := a.doc
		cmd := a.startOp(func(ctx context.Context, sink progress.Sink) ops.Result {
			return a.service.CloneRepos(ctx, doc.HostingSettings, doc.RepoSettings, sink)
		})
		return a, cmd
	}
	return a, nil
}

func (a App) beginEdit() (tea.Model, tea.Cmd) {
	fields := a.fields()
	f := fields[a.cursor()]
	if f.locked(&a.doc) {
		return a, a.notify("Field is locked")
	}
	if f.isBool {
		f.setB(&a.doc, !f.getB(&a.doc))
		return a, nil
	}
	if len(f.enum) > 0 {
		f.cycle(&a.doc)
		return a, nil
	}
	a.editing = a.cursor()
	a.input.SetValue(f.get(&a.doc))
	a.input.CursorEnd()
	a.input.Focus()
	a.overlay = overlayEdit
	return a, textinput.Blink
}

func (a App) handleEditKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Escape):
		a.overlay = overlayNone
		a.input.Blur()
		return a, nil
	case msg.Type == tea.KeyEnter:
		f := a.fields()[a.editing]
		f.set(&a.doc, a.input.Value())
		a.overlay = overlayNone
		a.input.Blur()
		return a, nil
	}
	var cmd tea.Cmd
	a.input, cmd = a.input.Update(msg)
	return a, cmd
}

func (a App) handleProfilesKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Escape), key.Matches(msg, keys.Profiles):
		a.overlay = overlayNone
		return a, nil
	case key.Matches(msg, keys.Up):
		if a.profileCursor > 0 {
			a.profileCursor--
		}
		return a, nil
	case key.Matches(msg, keys.Down):
		if a.profileCursor < len(a.profiles)-1 {
			a.profileCursor++
		}
		return a, nil
	case msg.Type == tea.KeyEnter:
		if len(a.profiles) == 0 {
			return a, nil
		}
		return a, a.applyProfile(a.profiles[a.profileCursor])
	case msg.String() == "n":
		a.input.SetValue("")
		a.input.Focus()
		a.overlay = overlayProfileName
		return a, textinput.Blink
	case msg.String() == "x":
		if len(a.profiles) == 0 {
			return a, nil
		}
		return a, a.deleteProfile(a.profiles[a.profileCursor])
	}
	return a, nil
}

func (a App) handleProfileNameKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Escape):
		a.overlay = overlayProfiles
		a.input.Blur()
		return a, nil
	case msg.Type == tea.KeyEnter:
		name := a.input.Value()
		a.overlay = overlayProfiles
		a.input.Blur()
		return a, tea.Batch(a.saveProfile(name), a.loadProfiles())
	}
	var cmd tea.Cmd
	a.input, cmd = a.input.Update(msg)
	return a, cmd
}

// View

func (a App) View() string {
	if !a.ready {
		return "loading..."
	}

	switch a.overlay {
	case overlayEdit:
		f := a.fields()[a.editing]
		return overlayStyle.Render(
			formTitleStyle.Render(f.label) + "\n\n" + a.input.View() +
				"\n\n" + helpStyle.Render("enter save · esc cancel"))
	case overlayProfileName:
		return overlayStyle.Render(
			formTitleStyle.Render("Save profile as") + "\n\n" + a.input.View() +
				"\n\n" + helpStyle.Render("enter save · esc back"))
	case overlayProfiles:
		return a.profilesView()
	case overlayHelp:
		return a.helpView()
	}

	tabs := a.tabBar()
	form := a.formView()
	output := a.transcriptView()
	body := lipgloss.JoinHorizontal(lipgloss.Top, form, output)
	status := a.statusBar()

	return lipgloss.JoinVertical(lipgloss.Left, tabs, body, status)
}

func (a App) tabBar() string {
	roster := tabStyle.Render("Roster")
	repos := tabStyle.Render("Repositories")
	if a.doc.ChromeSettings.ActiveTab == settings.TabRoster {
		roster = activeTabStyle.Render("Roster")
	} else {
		repos = activeTabStyle.Render("Repositories")
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, roster, repos)
}

func (a App) formView() string {
	fields := a.fields()
	var b strings.Builder
	for i, f := range fields {
		label := labelStyle
		if i == a.cursor() {
			label = selectedLabelStyle
		}
		value := f.display(&a.doc)
		if f.locked(&a.doc) {
			value = lockedStyle.Render(value + " 🔒")
		} else {
			value = valueStyle.Render(value)
		}
		fmt.Fprintf(&b, "%s %s\n", label.Render(fmt.Sprintf("%-20s", f.label)), value)
	}
	width := a.width/2 - 4
	return focusedPaneStyle.Width(width).Render(b.String())
}

func (a App) transcriptView() string {
	width := a.width - a.width/2 - 4
	maxLines := a.height - 8
	if maxLines < 3 {
		maxLines = 3
	}
	view := a.transcript.View(maxLines)
	if view == "" {
		view = helpStyle.Render("operation output appears here")
	}
	return paneStyle.Width(width).Render(view)
}

func (a App) statusBar() string {
	parts := []string{}
	if a.active != "" {
		parts = append(parts, profileActiveStyle.Render("profile: "+a.active))
	}
	locks := ""
	if a.doc.ChromeSettings.ConfigLocked {
		locks += "config locked"
	}
	if a.doc.ChromeSettings.OptionsLocked {
		if locks != "" {
			locks += " · "
		}
		locks += "options locked"
	}
	if locks != "" {
		parts = append(parts, lockedStyle.Render(locks))
	}
	if a.opRunning {
		parts = append(parts, transcriptTickStyle.Render("running..."))
	} else if a.transcript.hasRuns {
		if a.transcript.lastOK {
			parts = append(parts, transcriptOKStyle.Render("last run: ok"))
		} else {
			parts = append(parts, transcriptFailStyle.Render("last run: failed"))
		}
	}
	if a.notification != "" {
		parts = append(parts, notificationStyle.Render(a.notification))
	}
	parts = append(parts, helpStyle.Render("? help · q quit"))
	return statusBarStyle.Render(strings.Join(parts, "  "))
}

func (a App) profilesView() string {
	var b strings.Builder
	b.WriteString(formTitleStyle.Render("Profiles") + "\n\n")
	if len(a.profiles) == 0 {
		b.WriteString(helpStyle.Render("no profiles yet") + "\n")
	}
	for i, name := range a.profiles {
		marker := "  "
		if i == a.profileCursor {
			marker = "> "
		}
		line := marker + name
		if name == a.active {
			line += profileActiveStyle.Render(" (active)")
		}
		b.WriteString(line + "\n")
	}
	b.WriteString("\n" + helpStyle.Render("enter load · n save current · x delete · esc close"))
	return overlayStyle.Render(b.String())
}

func (a App) helpView() string {
	lines := []string{
		formTitleStyle.Render("Keys"),
		"",
		"tab      switch between roster and repositories",
		"j/k      move between fields",
		"enter    edit or toggle the selected field",
		"L        lock/unlock connection fields",
		"O        lock/unlock option fields",
		"v        verify configuration (current tab)",
		"g        generate roster files (roster tab)",
		"s        set up repositories (repos tab)",
		"c        clone repositories (repos tab)",
		"p        profiles",
		"w        save settings",
		"q        save and quit",
	}
	return overlayStyle.Render(strings.Join(lines, "\n"))
}
