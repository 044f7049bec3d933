package tui

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/naveenspark/roster/internal/form"
	"github.com/naveenspark/roster/internal/gate"
	"github.com/naveenspark/roster/internal/metrics"
	"github.com/naveenspark/roster/internal/screen"
	"github.com/naveenspark/roster/internal/search"
	"github.com/naveenspark/roster/internal/session"
	"github.com/naveenspark/roster/pkg/domain"
)

// -- messages --

type assignmentsLoadedMsg struct {
	gen         uint64
	refresh     bool
	engineers   []domain.Engineer
	projects    []domain.Project
	assignments []domain.Assignment
	err         error
}

type assignmentSavedMsg struct {
	gen        uint64
	created    bool
	assignment *domain.Assignment
	err        error
}

type assignmentDeletedMsg struct {
	gen uint64
	id  string
	err error
}

// copyToClipboard is swapped out in tests.
var copyToClipboard = clipboard.WriteAll

// -- model --

type listMode int

const (
	modeList listMode = iota
	modeDetail
	modeForm
	modeConfirm
)

// assignmentsModel is the manager-only assignment list with create, edit,
// delete and a per-record detail view.
type assignmentsModel struct {
	client      api
	user        session.User
	life        screen.Lifecycle
	phase       screen.Phase
	engineers   []domain.Engineer
	projects    []domain.Project
	assignments []domain.Assignment
	search      searchBar
	cursor      int
	mode        listMode
	detailID    string
	form        formModel
	editingID   string // "" while creating
	busy        bool
	width       int
	height      int
}

func newAssignmentsModel(c api, u session.User) assignmentsModel {
	return assignmentsModel{client: c, user: u}
}

func (m assignmentsModel) mount() (assignmentsModel, tea.Cmd) {
	m.mode = modeList
	m.busy = false
	if err := gate.RequireManager(m.user, "view assignments"); err != nil {
		m.phase = screen.Loading.Next(screen.Rejected)
		return m, tea.Batch(notify(screen.Failed(err, "")), navigate(viewHome))
	}
	ctx, gen := m.life.Mount()
	m.phase = screen.Loading
	return m, m.load(ctx, gen, false)
}

func (m assignmentsModel) unmount() assignmentsModel {
	m.life.Unmount()
	return m
}

func (m assignmentsModel) load(ctx context.Context, gen uint64, refresh bool) tea.Cmd {
	c := m.client
	return func() tea.Msg {
		var (
			engineers   []domain.Engineer
			projects    []domain.Project
			assignments []domain.Assignment
		)
		err := screen.LoadAll(ctx,
			screen.Fetch(&engineers, c.ListEngineers),
			screen.Fetch(&projects, c.ListProjects),
			screen.Fetch(&assignments, c.ListAssignments),
		)
		if err != nil {
			return assignmentsLoadedMsg{gen: gen, refresh: refresh, err: err}
		}
		return assignmentsLoadedMsg{
			gen:         gen,
			refresh:     refresh,
			engineers:   engineers,
			projects:    projects,
			assignments: assignments,
		}
	}
}

func (m assignmentsModel) Update(msg tea.Msg) (assignmentsModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case assignmentsLoadedMsg:
		if !m.life.Current(msg.gen) {
			return m, nil
		}
		if msg.err != nil {
			m.phase = m.phase.Next(screen.LoadFailed)
			fallback := "Failed to load assignments"
			if msg.refresh {
				fallback = "Failed to refresh data"
			}
			return m, notify(screen.Failed(msg.err, fallback))
		}
		// All three collections land together.
		m.engineers = msg.engineers
		m.projects = msg.projects
		m.assignments = msg.assignments
		m.cursor = clampCursor(m.cursor, len(m.visible()))
		m.phase = m.phase.Next(screen.Loaded)
		if msg.refresh {
			return m, notify(screen.Succeeded("Assignments refreshed successfully"))
		}

	case assignmentSavedMsg:
		if !m.life.Current(msg.gen) {
			return m, nil
		}
		m.form.submitting = false
		m.phase = m.phase.Next(screen.Mutated)
		if msg.err != nil {
			// Keep the form open with the user's input.
			fallback := "Failed to update assignment. Please try again."
			if msg.created {
				fallback = "Failed to create assignment. Please try again."
			}
			return m, notify(screen.Failed(msg.err, fallback))
		}
		if msg.created {
			m.assignments = screen.Upsert(m.assignments, *msg.assignment)
			m.mode = modeList
			return m, notify(screen.Succeeded("Assignment created successfully!"))
		}
		m.assignments = screen.Replace(m.assignments, *msg.assignment)
		m.mode = modeDetail
		return m, notify(screen.Succeeded("Assignment updated successfully!"))

	case assignmentDeletedMsg:
		if !m.life.Current(msg.gen) {
			return m, nil
		}
		m.busy = false
		m.mode = modeList
		m.phase = m.phase.Next(screen.Mutated)
		if msg.err != nil {
			return m, notify(screen.Failed(msg.err, "Failed to delete assignment."))
		}
		m.assignments = screen.Remove(m.assignments, msg.id)
		if m.detailID == msg.id {
			m.detailID = ""
		}
		m.cursor = clampCursor(m.cursor, len(m.visible()))
		return m, notify(screen.Succeeded("Assignment deleted successfully"))

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

// visible is the assignment list after the search filter.
func (m assignmentsModel) visible() []domain.Assignment {
	return search.Filter(m.assignments, m.search.query, search.AssignmentFields)
}

func (m assignmentsModel) selected() (domain.Assignment, bool) {
	vis := m.visible()
	if m.cursor < 0 || m.cursor >= len(vis) {
		return domain.Assignment{}, false
	}
	return vis[m.cursor], true
}

// detail resolves the open record by id, so a search filter that no longer
// matches it after an edit cannot move the view onto another record.
func (m assignmentsModel) detail() (domain.Assignment, bool) {
	if m.detailID == "" {
		return domain.Assignment{}, false
	}
	return screen.Find(m.assignments, m.detailID)
}

func (m assignmentsModel) editing() bool {
	return m.mode != modeList || m.search.active || m.busy
}

func (m assignmentsModel) handleKey(msg tea.KeyMsg) (assignmentsModel, tea.Cmd) {
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
			if m.editingID != "" {
				m.mode = modeDetail
			} else {
				m.mode = modeList
			}
		}
		return m, nil

	case modeConfirm:
		if m.busy {
			return m, nil
		}
		switch key {
		case "y", "Y":
			return m.delete()
		case "n", "N", "esc":
			m.mode = modeDetail
		}
		return m, nil

	case modeDetail:
		a, ok := m.detail()
		if !ok {
			m.mode = modeList
			return m, nil
		}
		perms := gate.Assignment(m.user, a)
		switch key {
		case "esc":
			m.mode = modeList
		case "e":
			if perms.Has(gate.Edit) {
				return m.openForm(&a), nil
			}
		case "d":
			if perms.Has(gate.Delete) {
				m.mode = modeConfirm
			}
		case "c":
			id := a.ID
			return m, func() tea.Msg {
				if err := copyToClipboard(id); err != nil {
					return noticeMsg{notice: screen.Failed(err, "Could not copy to clipboard")}
				}
				return noticeMsg{notice: screen.Informed("Assignment id copied")}
			}
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
	case "enter":
		if a, ok := m.selected(); ok && gate.Assignment(m.user, a).Has(gate.View) {
			m.detailID = a.ID
			m.mode = modeDetail
		}
	case "n":
		if gate.CanCreate(m.user) {
			return m.openForm(nil), nil
		}
	case "r":
		ctx, gen := m.life.Mount()
		return m, m.load(ctx, gen, true)
	}
	return m, nil
}

func (m assignmentsModel) openForm(existing *domain.Assignment) assignmentsModel {
	in := form.AssignmentInput{AllocationPercentage: 100}
	title := "New assignment"
	m.editingID = ""
	if existing != nil {
		in = form.AssignmentFrom(*existing)
		title = "Edit assignment"
		m.editingID = existing.ID
	}
	m.form = newAssignmentForm(title, in, m.engineers, m.projects)
	m.mode = modeForm
	return m
}

func newAssignmentForm(title string, in form.AssignmentInput, engineers []domain.Engineer, projects []domain.Project) formModel {
	engineerChoices := make([]choice, 0, len(engineers))
	for _, e := range engineers {
		engineerChoices = append(engineerChoices, choice{
			value: e.ID,
			label: fmt.Sprintf("%s (%d%% available)", e.Name, e.Availability),
		})
	}
	projectChoices := make([]choice, 0, len(projects))
	for _, p := range projects {
		projectChoices = append(projectChoices, choice{value: p.ID, label: p.Name})
	}
	allocation := ""
	if in.AllocationPercentage != 0 {
		allocation = strconv.Itoa(in.AllocationPercentage)
	}
	return formModel{
		title: title,
		fields: []formField{
			{key: "engineerId", label: "engineer", value: in.EngineerID, choices: engineerChoices},
			{key: "projectId", label: "project", value: in.ProjectID, choices: projectChoices},
			{key: "role", label: "role", value: in.Role, hint: "e.g. Backend Developer"},
			{key: "allocationPercentage", label: "allocation %", value: allocation, hint: "1-100"},
			{key: "startDate", label: "start date", value: in.StartDate, hint: "YYYY-MM-DD"},
			{key: "endDate", label: "end date", value: in.EndDate, hint: "YYYY-MM-DD (optional)"},
		},
	}
}

func assignmentInput(f formModel) form.AssignmentInput {
	return form.AssignmentInput{
		EngineerID:           f.value("engineerId"),
		ProjectID:            f.value("projectId"),
		AllocationPercentage: f.number("allocationPercentage"),
		StartDate:            f.value("startDate"),
		EndDate:              f.value("endDate"),
		Role:                 f.value("role"),
	}
}

// submit validates locally and sends nothing when validation fails.
func (m assignmentsModel) submit() (assignmentsModel, tea.Cmd) {
	in := assignmentInput(m.form)
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

	c, gen, id := m.client, m.life.Gen(), m.editingID
	req := in.Request()
	return m, func() tea.Msg {
		if id == "" {
			a, err := c.CreateAssignment(context.Background(), req)
			return assignmentSavedMsg{gen: gen, created: true, assignment: a, err: err}
		}
		a, err := c.UpdateAssignment(context.Background(), id, req)
		return assignmentSavedMsg{gen: gen, assignment: a, err: err}
	}
}

func (m assignmentsModel) delete() (assignmentsModel, tea.Cmd) {
	a, ok := m.detail()
	if !ok {
		m.mode = modeList
		return m, nil
	}
	m.busy = true
	c, gen, id := m.client, m.life.Gen(), a.ID
	return m, func() tea.Msg {
		err := c.DeleteAssignment(context.Background(), id)
		return assignmentDeletedMsg{gen: gen, id: id, err: err}
	}
}

func (m assignmentsModel) View() string {
	switch m.phase {
	case screen.Loading:
		return " " + dimStyle.Render("loading assignments...") + "\n"
	case screen.Denied:
		return " " + dimStyle.Render("managers only") + "\n"
	case screen.NotFound:
		return " " + dimStyle.Render("assignments could not be loaded. switch screens to retry") + "\n"
	}

	switch m.mode {
	case modeForm:
		return m.form.View()
	case modeDetail, modeConfirm:
		a, ok := m.detail()
		if !ok {
			break
		}
		out := renderAssignmentDetail(a, gate.Assignment(m.user, a))
		if m.mode == modeConfirm {
			out += "\n " + failureStyle.Render(fmt.Sprintf("Delete %s on %s? (y/n)", a.EngineerName(), a.ProjectName())) + "\n"
			if m.busy {
				out += " " + dimStyle.Render("deleting...") + "\n"
			}
		}
		return out
	}

	var b strings.Builder
	sum := metrics.SummarizeAssignments(m.assignments)
	fmt.Fprintf(&b, " %s   %s   %s\n",
		stat("assignments", sum.Total),
		stat("active", sum.Active),
		stat("avg allocation", pct(sum.AvgAllocation)))
	b.WriteString(m.search.View())
	b.WriteString("\n")

	vis := m.visible()
	if len(vis) == 0 {
		if m.search.query != "" {
			b.WriteString(" " + dimStyle.Render("no assignments match \""+m.search.query+"\"") + "\n")
		} else {
			b.WriteString(" " + dimStyle.Render("no assignments yet. press n to create one") + "\n")
		}
		return b.String()
	}
	for i, a := range vis {
		cursor := " "
		if i == m.cursor {
			cursor = accentStyle.Render("▸")
		}
		fmt.Fprintf(&b, " %s %s %s %s %s %s\n",
			cursor,
			normalStyle.Render(pad(a.EngineerName(), 20)),
			dimStyle.Render(pad(a.ProjectName(), 22)),
			metaStyle.Render(pad(a.Role, 16)),
			loadStyle(a.AllocationPercentage).Render(fmt.Sprintf("%3d%%", a.AllocationPercentage)),
			metaStyle.Render(dateRange(a.StartDate, a.EndDate)))
	}
	return b.String()
}

// renderAssignmentDetail is the read-only detail shared by the manager
// list and the engineer home. perms decides which actions are offered.
func renderAssignmentDetail(a domain.Assignment, perms gate.Permissions) string {
	var b strings.Builder
	fmt.Fprintf(&b, " %s\n\n", titleStyle.Render(a.ProjectName()))

	row := func(label, value string) {
		fmt.Fprintf(&b, "   %s %s\n", metaStyle.Render(pad(label, 14)), value)
	}
	row("engineer", normalStyle.Render(a.EngineerName()))
	if a.Engineer != nil && a.Engineer.Email != "" {
		row("email", dimStyle.Render(a.Engineer.Email))
	}
	row("role", normalStyle.Render(a.Role))
	row("allocation", bar(a.AllocationPercentage, 20)+" "+loadStyle(a.AllocationPercentage).Render(pct(a.AllocationPercentage)))
	row("dates", dimStyle.Render(dateRange(a.StartDate, a.EndDate)))
	if a.Project != nil {
		row("status", statusLabel(a.Project.Status))
		row("required", dimStyle.Render(skillList(a.Project.RequiredSkills)))
	}
	if a.Progress != nil {
		row("progress", bar(*a.Progress, 20)+" "+dimStyle.Render(pct(*a.Progress)))
	}
	if since := formatSince(a.CreatedAt); since != "" {
		row("assigned", metaStyle.Render(since))
	}

	var actions []string
	if perms.Has(gate.Edit) {
		actions = append(actions, helpEntry("e", "edit"))
	}
	if perms.Has(gate.Delete) {
		actions = append(actions, helpEntry("d", "delete"))
	}
	if len(actions) == 0 {
		actions = append(actions, dimStyle.Render("read only"))
	}
	b.WriteString("\n   " + strings.Join(actions, "  ") + "\n")
	return b.String()
}

func (m assignmentsModel) helpKeys() string {
	switch {
	case m.mode == modeForm:
		return m.form.helpKeys()
	case m.mode == modeConfirm:
		return helpEntry("y", "confirm") + "  " + helpEntry("n", "cancel")
	case m.mode == modeDetail:
		return helpEntry("e", "edit") + "  " + helpEntry("d", "delete") + "  " + helpEntry("c", "copy id") + "  " + helpEntry("esc", "back")
	case m.search.active:
		return helpEntry("enter", "apply") + "  " + helpEntry("esc", "clear")
	}
	return helpEntry("j/k", "nav") + "  " + helpEntry("/", "search") + "  " + helpEntry("enter", "detail") + "  " + helpEntry("n", "new") + "  " + helpEntry("r", "refresh")
}
