package tui

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/naveenspark/roster/internal/form"
	"github.com/naveenspark/roster/internal/screen"
	"github.com/naveenspark/roster/internal/session"
	"github.com/naveenspark/roster/pkg/domain"
)

// -- messages --

type profileLoadedMsg struct {
	gen     uint64
	profile *domain.Profile
	err     error
}

type profileSavedMsg struct {
	gen     uint64
	profile *domain.Profile
	err     error
}

// -- model --

type profileModel struct {
	client  api
	user    session.User
	life    screen.Lifecycle
	phase   screen.Phase
	profile *domain.Profile
	form    formModel
	edit    bool
	width   int
	height  int
}

func newProfileModel(c api, u session.User) profileModel {
	return profileModel{client: c, user: u}
}

func (m profileModel) mount() (profileModel, tea.Cmd) {
	m.edit = false
	ctx, gen := m.life.Mount()
	m.phase = screen.Loading
	c := m.client
	return m, func() tea.Msg {
		p, err := c.GetProfile(ctx)
		return profileLoadedMsg{gen: gen, profile: p, err: err}
	}
}

func (m profileModel) unmount() profileModel {
	m.life.Unmount()
	return m
}

func (m profileModel) Update(msg tea.Msg) (profileModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case profileLoadedMsg:
		if !m.life.Current(msg.gen) {
			return m, nil
		}
		if msg.err != nil {
			m.phase = m.phase.Next(screen.LoadFailed)
			return m, notify(screen.Failed(msg.err, "Failed to load profile"))
		}
		m.profile = msg.profile
		m.phase = m.phase.Next(screen.Loaded)

	case profileSavedMsg:
		if !m.life.Current(msg.gen) {
			return m, nil
		}
		m.form.submitting = false
		m.phase = m.phase.Next(screen.Mutated)
		if msg.err != nil {
			return m, notify(screen.Failed(msg.err, "Failed to update profile. Please try again."))
		}
		m.profile = msg.profile
		m.edit = false
		return m, notify(screen.Succeeded("Profile updated successfully"))

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m profileModel) editing() bool { return m.edit }

func (m profileModel) handleKey(msg tea.KeyMsg) (profileModel, tea.Cmd) {
	if m.phase != screen.Ready || m.profile == nil {
		return m, nil
	}
	key := msg.String()
	if m.edit {
		var action formAction
		m.form, action = m.form.handleKey(key)
		switch action {
		case formSubmit:
			return m.submit()
		case formCancel:
			m.edit = false
		}
		return m, nil
	}
	if key == "e" {
		m.form = newProfileForm(form.ProfileFrom(*m.profile))
		m.edit = true
	}
	return m, nil
}

func newProfileForm(in form.ProfileInput) formModel {
	capacity := ""
	if in.MaxCapacity != 0 {
		capacity = strconv.Itoa(in.MaxCapacity)
	}
	return formModel{
		title: "Edit profile",
		fields: []formField{
			{key: "name", label: "name", value: in.Name},
			{key: "skills", label: "skills", value: strings.Join(in.Skills, ", "), hint: "comma separated"},
			{key: "seniority", label: "seniority", value: string(in.Seniority), choices: seniorityChoices()},
			{key: "maxCapacity", label: "max capacity", value: capacity, hint: "100 = full time, 50 = part time"},
			{key: "department", label: "department", value: in.Department},
		},
	}
}

func (m profileModel) submit() (profileModel, tea.Cmd) {
	in := form.ProfileInput{
		Name:        m.form.value("name"),
		Skills:      m.form.list("skills"),
		Seniority:   domain.Seniority(m.form.value("seniority")),
		MaxCapacity: m.form.number("maxCapacity"),
		Department:  m.form.value("department"),
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
		p, err := c.UpdateProfile(context.Background(), req)
		return profileSavedMsg{gen: gen, profile: p, err: err}
	}
}

func (m profileModel) View() string {
	switch m.phase {
	case screen.Loading:
		return " " + dimStyle.Render("loading profile...") + "\n"
	case screen.NotFound:
		return " " + dimStyle.Render("profile could not be loaded. switch screens to retry") + "\n"
	}
	if m.profile == nil {
		return ""
	}
	if m.edit {
		return m.form.View()
	}

	p := m.profile
	var b strings.Builder
	fmt.Fprintf(&b, " %s  %s\n\n", titleStyle.Render(p.Name), metaStyle.Render(string(p.Role)))
	row := func(label, value string) {
		fmt.Fprintf(&b, "   %s %s\n", metaStyle.Render(pad(label, 14)), value)
	}
	row("email", normalStyle.Render(p.Email))
	if p.Seniority != "" {
		row("seniority", seniorityLabel(p.Seniority))
	}
	if p.Department != "" {
		row("department", dimStyle.Render(p.Department))
	}
	row("skills", dimStyle.Render(skillList(p.Skills)))
	capacity := p.MaxCapacity
	if capacity <= 0 {
		capacity = domain.DefaultMaxCapacity
	}
	label := "full time"
	if capacity < domain.DefaultMaxCapacity {
		label = "part time"
	}
	row("capacity", normalStyle.Render(pct(capacity))+" "+dimStyle.Render(label))
	return b.String()
}

func (m profileModel) helpKeys() string {
	if m.edit {
		return m.form.helpKeys()
	}
	return helpEntry("e", "edit")
}
