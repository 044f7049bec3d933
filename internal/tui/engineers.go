package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/dustin/go-humanize"

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

type engineersLoadedMsg struct {
	gen       uint64
	refresh   bool
	engineers []domain.Engineer
	err       error
}

type capacityLoadedMsg struct {
	gen      uint64
	id       string
	capacity *domain.Capacity
	err      error
}

type engineerCreatedMsg struct {
	gen      uint64
	engineer *domain.Engineer
	err      error
}

type engineerDeletedMsg struct {
	gen uint64
	id  string
	err error
}

// openURL is swapped out in tests.
var openURL = browser.Open

// -- model --

// engineersModel is the manager-only roster.
type engineersModel struct {
	client    api
	user      session.User
	life      screen.Lifecycle
	phase     screen.Phase
	engineers []domain.Engineer
	search    searchBar
	cursor    int
	mode      listMode
	form      formModel
	busy      bool

	// detail view; capacity is fetched when the detail opens
	capacity    *domain.Capacity
	capacityFor string
	capacityErr bool

	width  int
	height int
}

func newEngineersModel(c api, u session.User) engineersModel {
	return engineersModel{client: c, user: u}
}

func (m engineersModel) mount() (engineersModel, tea.Cmd) {
	m.mode = modeList
	m.busy = false
	if err := gate.RequireManager(m.user, "view engineers"); err != nil {
		m.phase = screen.Loading.Next(screen.Rejected)
		return m, tea.Batch(notify(screen.Failed(err, "")), navigate(viewHome))
	}
	ctx, gen := m.life.Mount()
	m.phase = screen.Loading
	return m, m.load(ctx, gen, false)
}

func (m engineersModel) unmount() engineersModel {
	m.life.Unmount()
	return m
}

func (m engineersModel) load(ctx context.Context, gen uint64, refresh bool) tea.Cmd {
	c := m.client
	return func() tea.Msg {
		engineers, err := c.ListEngineers(ctx)
		return engineersLoadedMsg{gen: gen, refresh: refresh, engineers: engineers, err: err}
	}
}

func (m engineersModel) loadCapacity(id string) tea.Cmd {
	c, gen := m.client, m.life.Gen()
	return func() tea.Msg {
		capacity, err := c.GetEngineerCapacity(context.Background(), id)
		return capacityLoadedMsg{gen: gen, id: id, capacity: capacity, err: err}
	}
}

func (m engineersModel) Update(msg tea.Msg) (engineersModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case engineersLoadedMsg:
		if !m.life.Current(msg.gen) {
			return m, nil
		}
		if msg.err != nil {
			m.phase = m.phase.Next(screen.LoadFailed)
			fallback := "Failed to load engineers"
			if msg.refresh {
				fallback = "Failed to refresh engineers"
			}
			return m, notify(screen.Failed(msg.err, fallback))
		}
		m.engineers = msg.engineers
		m.cursor = clampCursor(m.cursor, len(m.visible()))
		m.phase = m.phase.Next(screen.Loaded)
		if msg.refresh {
			return m, notify(screen.Succeeded("Engineers list refreshed"))
		}

	case capacityLoadedMsg:
		if !m.life.Current(msg.gen) || msg.id != m.capacityFor {
			return m, nil
		}
		if msg.err != nil {
			m.capacityErr = true
			return m, notify(screen.Failed(msg.err, "Failed to load capacity"))
		}
		m.capacity = msg.capacity

	case engineerCreatedMsg:
		if !m.life.Current(msg.gen) {
			return m, nil
		}
		m.form.submitting = false
		m.phase = m.phase.Next(screen.Mutated)
		if msg.err != nil {
			return m, notify(screen.Failed(msg.err, "Failed to add engineer. Please try again."))
		}
		m.engineers = screen.Upsert(m.engineers, *msg.engineer)
		m.mode = modeList
		return m, notify(screen.Succeeded("Engineer added successfully!"))

	case engineerDeletedMsg:
		if !m.life.Current(msg.gen) {
			return m, nil
		}
		m.busy = false
		m.mode = modeList
		m.phase = m.phase.Next(screen.Mutated)
		if msg.err != nil {
			return m, notify(screen.Failed(msg.err, "Failed to delete engineer."))
		}
		m.engineers = screen.Remove(m.engineers, msg.id)
		m.cursor = clampCursor(m.cursor, len(m.visible()))
		return m, notify(screen.Succeeded("Engineer deleted successfully"))

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m engineersModel) visible() []domain.Engineer {
	return search.Filter(m.engineers, m.search.query, search.EngineerFields)
}

func (m engineersModel) selected() (domain.Engineer, bool) {
	vis := m.visible()
	if m.cursor < 0 || m.cursor >= len(vis) {
		return domain.Engineer{}, false
	}
	return vis[m.cursor], true
}

func (m engineersModel) editing() bool {
	return m.mode != modeList || m.search.active || m.busy
}

func (m engineersModel) handleKey(msg tea.KeyMsg) (engineersModel, tea.Cmd) {
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
			e, ok := m.selected()
			if !ok {
				m.mode = modeList
				return m, nil
			}
			m.busy = true
			c, gen, id := m.client, m.life.Gen(), e.ID
			return m, func() tea.Msg {
				err := c.DeleteEngineer(context.Background(), id)
				return engineerDeletedMsg{gen: gen, id: id, err: err}
			}
		case "n", "N", "esc":
			m.mode = modeDetail
		}
		return m, nil

	case modeDetail:
		e, ok := m.selected()
		if !ok {
			m.mode = modeList
			return m, nil
		}
		switch key {
		case "esc":
			m.mode = modeList
		case "d":
			if gate.Engineer(m.user, e).Has(gate.Delete) {
				m.mode = modeConfirm
			}
		case "c":
			email := e.Email
			return m, func() tea.Msg {
				if err := copyToClipboard(email); err != nil {
					return noticeMsg{notice: screen.Failed(err, "Could not copy to clipboard")}
				}
				return noticeMsg{notice: screen.Informed("Email copied: " + email)}
			}
		case "m":
			link := browser.Mailto(e.Email, "")
			return m, func() tea.Msg {
				if err := openURL(link); err != nil {
					return noticeMsg{notice: screen.Failed(err, "Could not open mail client")}
				}
				return nil
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
		if e, ok := m.selected(); ok && gate.Engineer(m.user, e).Has(gate.View) {
			m.mode = modeDetail
			m.capacity = nil
			m.capacityErr = false
			m.capacityFor = e.ID
			return m, m.loadCapacity(e.ID)
		}
	case "n":
		if gate.CanCreate(m.user) {
			m.form = newEngineerForm()
			m.mode = modeForm
		}
	case "r":
		ctx, gen := m.life.Mount()
		return m, m.load(ctx, gen, true)
	}
	return m, nil
}

func seniorityChoices() []choice {
	out := make([]choice, len(domain.Seniorities))
	for i, s := range domain.Seniorities {
		out[i] = choice{value: string(s), label: string(s)}
	}
	return out
}

func newEngineerForm() formModel {
	return formModel{
		title: "Add engineer",
		fields: []formField{
			{key: "name", label: "name"},
			{key: "email", label: "email"},
			{key: "seniority", label: "seniority", value: string(domain.SeniorityMid), choices: seniorityChoices()},
			{key: "department", label: "department"},
			{key: "skills", label: "skills", hint: "comma separated"},
			{key: "maxCapacity", label: "max capacity", value: "100", hint: "100 = full time"},
		},
	}
}

func (m engineersModel) submit() (engineersModel, tea.Cmd) {
	in := form.EngineerInput{
		Name:        m.form.value("name"),
		Email:       m.form.value("email"),
		Seniority:   domain.Seniority(m.form.value("seniority")),
		Department:  m.form.value("department"),
		Skills:      m.form.list("skills"),
		MaxCapacity: m.form.number("maxCapacity"),
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
	c, gen, req := m.client, m.life.Gen(), in.Request()
	return m, func() tea.Msg {
		e, err := c.CreateEngineer(context.Background(), req)
		return engineerCreatedMsg{gen: gen, engineer: e, err: err}
	}
}

func (m engineersModel) View() string {
	switch m.phase {
	case screen.Loading:
		return " " + dimStyle.Render("loading engineers...") + "\n"
	case screen.Denied:
		return " " + dimStyle.Render("managers only") + "\n"
	case screen.NotFound:
		return " " + dimStyle.Render("engineers could not be loaded. switch screens to retry") + "\n"
	}

	switch m.mode {
	case modeForm:
		return m.form.View()
	case modeDetail, modeConfirm:
		if e, ok := m.selected(); ok {
			out := m.viewDetail(e)
			if m.mode == modeConfirm {
				out += "\n " + failureStyle.Render("Delete "+e.Name+" and their assignments? (y/n)") + "\n"
				if m.busy {
					out += " " + dimStyle.Render("deleting...") + "\n"
				}
			}
			return out
		}
	}

	var b strings.Builder
	sum := metrics.SummarizeRoster(m.engineers)
	fmt.Fprintf(&b, " %s   %s   %s   %s\n",
		stat("engineers", sum.Total),
		stat("available", sum.Available),
		stat("senior", sum.Senior),
		stat("departments", sum.Departments))
	b.WriteString(m.search.View())
	b.WriteString("\n")

	vis := m.visible()
	if len(vis) == 0 {
		if m.search.query != "" {
			b.WriteString(" " + dimStyle.Render("no engineers match \""+m.search.query+"\"") + "\n")
		} else {
			b.WriteString(" " + dimStyle.Render("no engineers yet") + "\n")
		}
		return b.String()
	}
	for i, e := range vis {
		cursor := " "
		if i == m.cursor {
			cursor = accentStyle.Render("▸")
		}
		fmt.Fprintf(&b, " %s %s %s %s %s %s\n",
			cursor,
			normalStyle.Render(pad(e.Name, 20)),
			pad(seniorityLabel(e.Seniority), 8),
			dimStyle.Render(pad(e.Department, 14)),
			loadStyle(100-e.Availability).Render(fmt.Sprintf("%3d%% free", e.Availability)),
			metaStyle.Render(truncStr(skillList(e.Skills), 30)))
	}
	return b.String()
}

func (m engineersModel) viewDetail(e domain.Engineer) string {
	var b strings.Builder
	fmt.Fprintf(&b, " %s  %s\n\n", titleStyle.Render(e.Name), seniorityLabel(e.Seniority))
	row := func(label, value string) {
		fmt.Fprintf(&b, "   %s %s\n", metaStyle.Render(pad(label, 14)), value)
	}
	row("email", normalStyle.Render(e.Email))
	row("department", dimStyle.Render(e.Department))
	row("role", dimStyle.Render(string(e.Role)))
	row("skills", dimStyle.Render(skillList(e.Skills)))
	if e.CreatedAt != nil {
		row("joined", metaStyle.Render(humanize.Time(*e.CreatedAt)))
	}

	b.WriteString("\n " + sectionHeaderStyle.Render("CAPACITY") + "\n")
	switch {
	case m.capacity != nil && m.capacityFor == e.ID:
		c := m.capacity
		util := metrics.Utilization(c.UsedCapacity, c.TotalCapacity)
		row("utilization", bar(util, 20)+" "+loadStyle(util).Render(pct(util)))
		row("used", fmt.Sprintf("%d / %d", c.UsedCapacity, c.TotalCapacity))
		row("available", successStyle.Render(pct(c.AvailableCapacity)))
	case m.capacityErr:
		row("capacity", dimStyle.Render("unavailable"))
	default:
		row("capacity", dimStyle.Render("loading..."))
	}

	actions := []string{helpEntry("c", "copy email"), helpEntry("m", "mail")}
	if gate.Engineer(m.user, e).Has(gate.Delete) {
		actions = append(actions, helpEntry("d", "delete"))
	}
	b.WriteString("\n   " + strings.Join(actions, "  ") + "\n")
	return b.String()
}

func (m engineersModel) helpKeys() string {
	switch {
	case m.mode == modeForm:
		return m.form.helpKeys()
	case m.mode == modeConfirm:
		return helpEntry("y", "confirm") + "  " + helpEntry("n", "cancel")
	case m.mode == modeDetail:
		return helpEntry("c", "copy email") + "  " + helpEntry("m", "mail") + "  " + helpEntry("d", "delete") + "  " + helpEntry("esc", "back")
	case m.search.active:
		return helpEntry("enter", "apply") + "  " + helpEntry("esc", "clear")
	}
	return helpEntry("j/k", "nav") + "  " + helpEntry("/", "search") + "  " + helpEntry("enter", "detail") + "  " + helpEntry("n", "add") + "  " + helpEntry("r", "refresh")
}
