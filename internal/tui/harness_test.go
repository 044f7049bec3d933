package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/naveenspark/roster/internal/apitest"
	"github.com/naveenspark/roster/internal/screen"
	"github.com/naveenspark/roster/internal/session"
	"github.com/naveenspark/roster/pkg/client"
	"github.com/naveenspark/roster/pkg/domain"
)

var (
	grace = session.Manager{ID: "m1", Name: "Grace"}
	ada   = session.Engineer{ID: "e1", Name: "Ada"}
)

// fixture is a seeded fake API: one manager, two engineers, two projects
// and one assignment (Ada on Atlas at 60%).
type fixture struct {
	srv *apitest.Server
	url string
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	s := apitest.New()
	s.AddEngineer(domain.Engineer{
		ID: "m1", Name: "Grace", Email: "grace@example.com", Role: domain.RoleManager,
		Seniority: domain.SenioritySenior, Department: "Platform", Skills: []string{"Go"}, Availability: 100,
	}, "secret")
	s.AddEngineer(domain.Engineer{
		ID: "e1", Name: "Ada", Email: "ada@example.com", Role: domain.RoleEngineer,
		Seniority: domain.SeniorityMid, Department: "Platform", Skills: []string{"Go", "React"}, Availability: 100,
	}, "secret")
	s.AddEngineer(domain.Engineer{
		ID: "e2", Name: "Linus", Email: "linus@example.com", Role: domain.RoleEngineer,
		Seniority: domain.SeniorityJunior, Department: "Kernel", Skills: []string{"C"}, Availability: 100,
	}, "")
	s.AddProject(domain.Project{
		ID: "p1", Name: "Atlas", Description: "Billing rewrite", Status: domain.StatusActive,
		StartDate: "2025-01-01", TeamSize: 3, RequiredSkills: []string{"Go"}, ManagerID: "m1",
	})
	s.AddProject(domain.Project{
		ID: "p2", Name: "Beacon", Status: domain.StatusPlanning,
		StartDate: "2025-03-01", TeamSize: 2, RequiredSkills: []string{"React"}, ManagerID: "m1",
	})
	s.AddAssignment(domain.Assignment{
		ID: "a1", EngineerID: "e1", ProjectID: "p1", Role: "Backend",
		AllocationPercentage: 60, StartDate: "2025-01-01",
	})
	ts := apitest.Start(t, s)
	return fixture{srv: s, url: ts.URL}
}

// client returns an API client authenticated as u.
func (f fixture) client(u session.User) *client.Client {
	return client.New(f.url, apitest.Token(u.UserID(), u.DisplayName(), u.Role()))
}

// drain runs cmd and every command batched under it, returning the
// produced messages in order. Nil messages are dropped.
func drain(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, drain(c)...)
		}
		return out
	}
	if msg == nil {
		return nil
	}
	return []tea.Msg{msg}
}

type updater[M any] interface {
	Update(tea.Msg) (M, tea.Cmd)
}

// settle runs cmd to completion against m, feeding every resulting message
// back in. Notices and navigation are App-level and are returned instead.
func settle[M updater[M]](m M, cmd tea.Cmd) (M, []tea.Msg) {
	var app []tea.Msg
	queue := drain(cmd)
	for len(queue) > 0 {
		msg := queue[0]
		queue = queue[1:]
		switch msg.(type) {
		case noticeMsg, navigateMsg:
			app = append(app, msg)
			continue
		}
		var next tea.Cmd
		m, next = m.Update(msg)
		queue = append(queue, drain(next)...)
	}
	return m, app
}

// press sends key to m and settles whatever it starts.
func press[M updater[M]](m M, key string) (M, []tea.Msg) {
	m, cmd := m.Update(keyMsg(key))
	return settle(m, cmd)
}

func keyMsg(key string) tea.KeyMsg {
	switch key {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "backspace":
		return tea.KeyMsg{Type: tea.KeyBackspace}
	case "ctrl+s":
		return tea.KeyMsg{Type: tea.KeyCtrlS}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
}

func notices(msgs []tea.Msg) []screen.Notice {
	var out []screen.Notice
	for _, msg := range msgs {
		if n, ok := msg.(noticeMsg); ok {
			out = append(out, n.notice)
		}
	}
	return out
}

// onlyNotice fails unless msgs hold exactly one notice, and returns it.
func onlyNotice(t *testing.T, msgs []tea.Msg) screen.Notice {
	t.Helper()
	ns := notices(msgs)
	if len(ns) != 1 {
		t.Fatalf("got %d notices %+v, want exactly 1", len(ns), ns)
	}
	return ns[0]
}

func navigatedTo(msgs []tea.Msg) (view, bool) {
	for _, msg := range msgs {
		if n, ok := msg.(navigateMsg); ok {
			return n.to, true
		}
	}
	return 0, false
}

// fill sets form fields directly by key.
func fill(f formModel, values map[string]string) formModel {
	fields := make([]formField, len(f.fields))
	copy(fields, f.fields)
	for i := range fields {
		if v, ok := values[fields[i].key]; ok {
			fields[i].value = v
		}
	}
	f.fields = fields
	return f
}
