package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/naveenspark/roster/internal/browser"
	"github.com/naveenspark/roster/internal/form"
	"github.com/naveenspark/roster/internal/gate"
	"github.com/naveenspark/roster/internal/metrics"
	"github.com/naveenspark/roster/internal/screen"
	"github.com/naveenspark/roster/internal/search"
	"github.com/naveenspark/roster/internal/session"
	"github.com/naveenspark/roster/pkg/domain"
)

// -- messages --

type projectsLoadedMsg struct {
	gen      uint64
	refresh  bool
	projects []domain.Project
	err      error
}

type projectDetailLoadedMsg struct {
	gen         uint64
	project     *domain.Project
	assignments []domain.Assignment
	err         error
}

type projectCreatedMsg struct {
	gen     uint64
	project *domain.Project
	err     error
}

type projectDeletedMsg struct {
	gen uint64
	id  string
	err error
}

// -- model --

// projectDetail is the per-project view. It has its own lifecycle so
// leaving the detail drops its in-flight load without touching the list.
type projectDetail struct {
	life        screen.Lifecycle
	phase       screen.Phase
	id          string
	project     *domain.Project
	assignments []domain.Assignment
}

type projectsModel struct {
	client   api
	user     session.User
	webURL   string
	life     screen.Lifecycle
	phase    screen.Phase
	projects []domain.Project
	status   domain.ProjectStatus // "" shows every status
	search   searchBar
	cursor   int
	mode     listMode
	form     formModel
	busy     bool
	detail   projectDetail
	width    int
	height   int
}

func newProjectsModel(c api, u session.User, webURL string) projectsModel {
	return projectsModel{client: c, user: u, webURL: webURL}
}

func (m projectsModel) mount() (projectsModel, tea.Cmd) {
	m.mode = modeList
	m.busy = false
	ctx, gen := m.life.Mount()
	m.phase = screen.Loading
	return m, m.load(ctx, gen, false)
}

func (m projectsModel) unmount() projectsModel {
	m.detail.life.Unmount()
	m.life.Unmount()
	return m
}

func (m projectsModel) load(ctx context.Context, gen uint64, refresh bool) tea.Cmd {
	c := m.client
	return func() tea.Msg {
		projects, err := c.ListProjects(ctx)
		return projectsLoadedMsg{gen: gen, refresh: refresh, projects: projects, err: err}
	}
}

// openDetail mounts the detail for id and loads the project and its
// assignments together.
func (m projectsModel) openDetail(id string) (projectsModel, tea.Cmd) {
	m.mode = modeDetail
	m.detail.id = id
	m.detail.project = nil
	m.detail.assignments = nil
	m.detail.phase = screen.Loading
	ctx, gen := m.detail.life.Mount()
	c := m.client
	return m, func() tea.Msg {
		var (
			project     *domain.Project
			assignments []domain.Assignment
		)
		err := screen.LoadAll(ctx,
			screen.Fetch(&project, func(ctx context.Context) (*domain.Project, error) {
				return c.GetProject(ctx, id)
			}),
			screen.Fetch(&assignments, c.ListAssignments),
		)
		if err != nil {
			return projectDetailLoadedMsg{gen: gen, err: err}
		}
		return projectDetailLoadedMsg{
			gen:         gen,
			project:     project,
			assignments: metrics.ForProject(assignments, id),
		}
	}
}

func (m projectsModel) closeDetail() projectsModel {
	m.detail.life.Unmount()
	m.mode = modeList
	return m
}

func (m projectsModel) Update(msg tea.Msg) (projectsModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case projectsLoadedMsg:
		if !m.life.Current(msg.gen) {
			return m, nil
		}
		if msg.err != nil {
			m.phase = m.phase.Next(screen.LoadFailed)
			fallback := "Failed to load projects"
			if msg.refresh {
				fallback = "Failed to refresh projects"
			}
			return m, notify(screen.Failed(msg.err, fallback))
		}
		m.projects = msg.projects
		m.cursor = clampCursor(m.cursor, len(m.visible()))
		m.phase = m.phase.Next(screen.Loaded)
		if msg.refresh {
			return m, notify(screen.Succeeded("Projects refreshed"))
		}

	case projectDetailLoadedMsg:
		if !m.detail.life.Current(msg.gen) {
			return m, nil
		}
		if msg.err != nil {
			m.detail.phase = m.detail.phase.Next(screen.LoadFailed)
			return m, notify(screen.Failed(msg.err, "Failed to load project"))
		}
		m.detail.project = msg.project
		m.detail.assignments = msg.assignments
		m.detail.phase = m.detail.phase.Next(screen.Loaded)

	case projectCreatedMsg:
		if !m.life.Current(msg.gen) {
			return m, nil
		}
		m.form.submitting = false
		m.phase = m.phase.Next(screen.Mutated)
		if msg.err != nil {
			return m, notify(screen.Failed(msg.err, "Failed to create project. Please try again."))
		}
		m.projects = screen.Upsert(m.projects, *msg.project)
		m.mode = modeList
		return m, notify(screen.Succeeded("Project created successfully!"))

	case projectDeletedMsg:
		if !m.life.Current(msg.gen) {
			return m, nil
		}
		m.busy = false
		m.phase = m.phase.Next(screen.Mutated)
		if msg.err != nil {
			m.mode = modeDetail
			return m, notify(screen.Failed(msg.err, "Failed to delete project."))
		}
		m.projects = screen.Remove(m.projects, msg.id)
		m.cursor = clampCursor(m.cursor, len(m.visible()))
		m = m.closeDetail()
		return m, notify(screen.Succeeded("Project deleted successfully"))

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

// visible applies the status filter, then the search.
func (m projectsModel) visible() []domain.Project {
	items := m.projects
	if m.status != "" {
		items = metrics.FilterByStatus(items, m.status)
	}
	return search.Filter(items, m.search.query, search.ProjectFields)
}

func (m projectsModel) selected() (domain.Project, bool) {
	vis := m.visible()
	if m.cursor < 0 || m.cursor >= len(vis) {
		return domain.Project{}, false
	}
	return vis[m.cursor], true
}

func (m projectsModel) editing() bool {
	return m.mode != modeList || m.search.active || m.busy
}

// nextStatus cycles all → planning → active → completed → all.
func nextStatus(s domain.ProjectStatus) domain.ProjectStatus {
	if s == "" {
		return domain.ProjectStatuses[0]
	}
	for i, v := range domain.ProjectStatuses {
		if v == s && i+1 < len(domain.ProjectStatuses) {
			return domain.ProjectStatuses[i+1]
		}
	}
	return ""
}

func (m projectsModel) handleKey(msg tea.KeyMsg) (projectsModel, tea.Cmd) {
	if m.phase != screen.Ready {
		return m, nil
	}
	key := msg.String()

	switch m.mode {
	case modeForm:
		var action formAction
		m.form, action = m.form.handleKey(key)
		switch action {
		case formSubmit:
			return m.submit()
		case formCancel:
			m.mode = modeList
		}
		return m, nil

	case modeConfirm:
		if m.busy {
			return m, nil
		}
		switch key {
		case "y", "Y":
			m.busy = true
			c, gen, id := m.client, m.life.Gen(), m.detail.id
			return m, func() tea.Msg {
				err := c.DeleteProject(context.Background(), id)
				return projectDeletedMsg{gen: gen, id: id, err: err}
			}
		case "n", "N", "esc":
			m.mode = modeDetail
		}
		return m, nil

	case modeDetail:
		switch key {
		case "esc":
			return m.closeDetail(), nil
		case "d":
			p := m.detail.project
			if p != nil && m.detail.phase == screen.Ready && gate.Project(m.user, *p).Has(gate.Delete) {
				m.mode = modeConfirm
			}
		case "o":
			link := browser.RecordURL(m.webURL, "projects", m.detail.id)
			if link == "" {
				return m, notify(screen.Informed("No web URL configured"))
			}
			return m, func() tea.Msg {
				if err := openURL(link); err != nil {
					return noticeMsg{notice: screen.Failed(err, "Could not open browser")}
				}
				return nil
			}
		case "r":
			return m.openDetail(m.detail.id)
		}
		return m, nil
	}

	var consumed bool
	if m.search, consumed = m.search.handleKey(key); consumed {
		m.cursor = clampCursor(m.cursor, len(m.visible()))
		return m, nil
	}

	switch key {
	case "j", "down":
		if m.cursor < len(m.visible())-1 {
			m.cursor++
		}
	case "k", "up":
		if m.cursor > 0 {
			m.cursor--
		}
	case "s":
		m.status = nextStatus(m.status)
		m.cursor = clampCursor(m.cursor, len(m.visible()))
	case "enter":
		if p, ok := m.selected(); ok && gate.Project(m.user, p).Has(gate.View) {
			return m.openDetail(p.ID)
		}
	case "n":
		if err := gate.RequireManager(m.user, "create projects"); err != nil {
			return m, notify(screen.Failed(err, ""))
		}
		m.form = newProjectForm()
		m.mode = modeForm
	case "r":
		ctx, gen := m.life.Mount()
		return m, m.load(ctx, gen, true)
	}
	return m, nil
}

func statusChoices() []choice {
	out := make([]choice, len(domain.ProjectStatuses))
	for i, s := range domain.ProjectStatuses {
		out[i] = choice{value: string(s), label: string(s)}
	}
	return out
}

func newProjectForm() formModel {
	return formModel{
		title: "New project",
		fields: []formField{
			{key: "name", label: "name"},
			{key: "description", label: "description"},
			{key: "status", label: "status", value: string(domain.StatusPlanning), choices: statusChoices()},
			{key: "startDate", label: "start date", hint: "YYYY-MM-DD"},
			{key: "endDate", label: "end date", hint: "YYYY-MM-DD (optional)"},
			{key: "teamSize", label: "team size", value: "1"},
			{key: "requiredSkills", label: "skills", hint: "comma separated"},
		},
	}
}

func (m projectsModel) submit() (projectsModel, tea.Cmd) {
	in := form.ProjectInput{
		Name:           m.form.value("name"),
		Description:    m.form.value("description"),
		Status:         domain.ProjectStatus(m.form.value("status")),
		StartDate:      m.form.value("startDate"),
		EndDate:        m.form.value("endDate"),
		TeamSize:       m.form.number("teamSize"),
		RequiredSkills: m.form.list("requiredSkills"),
	}
	if err := form.Check(in); err != nil {
		var fe form.Errors
		if errors.As(err, &fe) {
			m.form.errs = fe
			return m, nil
		}
		return m, notify(screen.Failed(err, "Please check the form and try again."))
	}
	m.form.errs = nil
	m.form.submitting = true
	c, gen, req := m.client, m.life.Gen(), in.Request(m.user.UserID())
	return m, func() tea.Msg {
		p, err := c.CreateProject(context.Background(), req)
		return projectCreatedMsg{gen: gen, project: p, err: err}
	}
}

func (m projectsModel) View() string {
	switch m.phase {
	case screen.Loading:
		return " " + dimStyle.Render("loading projects...") + "\n"
	case screen.NotFound:
		return " " + dimStyle.Render("projects could not be loaded. switch screens to retry") + "\n"
	}

	switch m.mode {
	case modeForm:
		return m.form.View()
	case modeDetail, modeConfirm:
		return m.viewDetail()
	}

	var b strings.Builder
	filter := "all"
	if m.status != "" {
		filter = string(m.status)
	}
	fmt.Fprintf(&b, " %s   %s   %s\n",
		stat("projects", len(m.projects)),
		stat("active", len(metrics.FilterByStatus(m.projects, domain.StatusActive))),
		dimStyle.Render("status: ")+accentStyle.Render(filter))
	b.WriteString(m.search.View())
	b.WriteString("\n")

	vis := m.visible()
	if len(vis) == 0 {
		switch {
		case m.search.query != "":
			b.WriteString(" " + dimStyle.Render("no projects match \""+m.search.query+"\"") + "\n")
		case m.status != "":
			b.WriteString(" " + dimStyle.Render("no "+string(m.status)+" projects") + "\n")
		default:
			b.WriteString(" " + dimStyle.Render("no projects yet") + "\n")
		}
		return b.String()
	}
	for i, p := range vis {
		cursor := " "
		if i == m.cursor {
			cursor = accentStyle.Render("▸")
		}
		fmt.Fprintf(&b, " %s %s %s %s %s\n",
			cursor,
			normalStyle.Render(pad(p.Name, 24)),
			pad(statusLabel(p.Status), 10),
			metaStyle.Render(pad(dateRange(p.StartDate, p.EndDate), 30)),
			dimStyle.Render(truncStr(skillList(p.RequiredSkills), 30)))
	}
	return b.String()
}

func (m projectsModel) viewDetail() string {
	d := m.detail
	switch d.phase {
	case screen.Loading:
		return " " + dimStyle.Render("loading project...") + "\n"
	case screen.NotFound:
		return " " + titleStyle.Render("Project not found") + "\n\n " +
			dimStyle.Render("it may have been deleted. ") + helpEntry("esc", "back to projects") + "\n"
	}
	if d.project == nil {
		return ""
	}
	p := *d.project
	var b strings.Builder
	fmt.Fprintf(&b, " %s  %s\n", titleStyle.Render(p.Name), statusLabel(p.Status))
	if p.Description != "" {
		b.WriteString(" " + dimStyle.Render(p.Description) + "\n")
	}
	b.WriteString("\n")

	load := metrics.SummarizeProject(p, d.assignments)
	row := func(label, value string) {
		fmt.Fprintf(&b, "   %s %s\n", metaStyle.Render(pad(label, 14)), value)
	}
	row("dates", dimStyle.Render(dateRange(p.StartDate, p.EndDate)))
	row("team size", normalStyle.Render(fmt.Sprint(p.TeamSize)))
	row("skills", dimStyle.Render(skillList(p.RequiredSkills)))
	row("progress", bar(load.Progress, 20)+" "+dimStyle.Render(pct(load.Progress)))
	row("allocation", loadStyle(load.TotalAllocation).Render(pct(load.TotalAllocation))+
		dimStyle.Render(fmt.Sprintf(" across %d, avg %s", load.Assignments, pct(load.AvgAllocation))))

	b.WriteString("\n " + sectionHeaderStyle.Render("TEAM") + "\n")
	if len(d.assignments) == 0 {
		b.WriteString("   " + dimStyle.Render("no one assigned") + "\n")
	}
	for _, a := range d.assignments {
		fmt.Fprintf(&b, "   %s %s %s\n",
			normalStyle.Render(pad(a.EngineerName(), 20)),
			metaStyle.Render(pad(a.Role, 18)),
			loadStyle(a.AllocationPercentage).Render(pct(a.AllocationPercentage)))
	}

	if m.mode == modeConfirm {
		b.WriteString("\n " + failureStyle.Render("Delete "+p.Name+"? (y/n)") + "\n")
		if m.busy {
			b.WriteString(" " + dimStyle.Render("deleting...") + "\n")
		}
	}
	return b.String()
}

func (m projectsModel) helpKeys() string {
	switch {
	case m.mode == modeForm:
		return m.form.helpKeys()
	case m.mode == modeConfirm:
		return helpEntry("y", "confirm") + "  " + helpEntry("n", "cancel")
	case m.mode == modeDetail:
		keys := helpEntry("o", "open") + "  " + helpEntry("r", "reload")
		if p := m.detail.project; p != nil && gate.Project(m.user, *p).Has(gate.Delete) {
			keys += "  " + helpEntry("d", "delete")
		}
		return keys + "  " + helpEntry("esc", "back")
	case m.search.active:
		return helpEntry("enter", "apply") + "  " + helpEntry("esc", "clear")
	}
	keys := helpEntry("j/k", "nav") + "  " + helpEntry("/", "search") + "  " + helpEntry("s", "status") + "  " + helpEntry("enter", "detail")
	if gate.CanCreate(m.user) {
		keys += "  " + helpEntry("n", "new")
	}
	return keys + "  " + helpEntry("r", "refresh")
}
