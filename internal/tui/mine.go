package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/naveenspark/roster/internal/gate"
	"github.com/naveenspark/roster/internal/metrics"
	"github.com/naveenspark/roster/internal/screen"
	"github.com/naveenspark/roster/internal/session"
	"github.com/naveenspark/roster/pkg/client"
	"github.com/naveenspark/roster/pkg/domain"
)

type mineLoadedMsg struct {
	gen         uint64
	self        *domain.Engineer
	assignments []domain.Assignment
	err         error
}

// mineModel is the engineer home: own workload and own assignments.
type mineModel struct {
	client      api
	user        session.User
	life        screen.Lifecycle
	phase       screen.Phase
	self        *domain.Engineer
	assignments []domain.Assignment
	cursor      int
	detail      bool
	width       int
	height      int
}

func newMineModel(c api, u session.User) mineModel {
	return mineModel{client: c, user: u}
}

func (m mineModel) mount() (mineModel, tea.Cmd) {
	ctx, gen := m.life.Mount()
	m.phase = screen.Loading
	m.detail = false
	return m, m.load(ctx, gen)
}

func (m mineModel) unmount() mineModel {
	m.life.Unmount()
	return m
}

func (m mineModel) load(ctx context.Context, gen uint64) tea.Cmd {
	c := m.client
	id := ""
	if m.user != nil {
		id = m.user.UserID()
	}
	return func() tea.Msg {
		var self *domain.Engineer
		var assignments []domain.Assignment
		err := screen.LoadAll(ctx,
			func(ctx context.Context) error {
				e, err := c.GetEngineer(ctx, id)
				if client.IsNotFound(err) {
					return nil
				}
				self = e
				return err
			},
			screen.Fetch(&assignments, c.ListAssignments),
		)
		if err != nil {
			return mineLoadedMsg{gen: gen, err: err}
		}
		return mineLoadedMsg{gen: gen, self: self, assignments: metrics.ForEngineer(assignments, id)}
	}
}

func (m mineModel) Update(msg tea.Msg) (mineModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case mineLoadedMsg:
		if !m.life.Current(msg.gen) {
			return m, nil
		}
		if msg.err != nil {
			m.phase = m.phase.Next(screen.LoadFailed)
			return m, notify(screen.Failed(msg.err, "Failed to load your assignments"))
		}
		m.self = msg.self
		m.assignments = msg.assignments
		m.cursor = clampCursor(m.cursor, len(m.assignments))
		m.phase = m.phase.Next(screen.Loaded)

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m mineModel) handleKey(msg tea.KeyMsg) (mineModel, tea.Cmd) {
	if m.phase != screen.Ready {
		return m, nil
	}
	if m.detail {
		if msg.String() == "esc" {
			m.detail = false
		}
		return m, nil
	}
	switch msg.String() {
	case "j", "down":
		if m.cursor < len(m.assignments)-1 {
			m.cursor++
		}
	case "k", "up":
		if m.cursor > 0 {
			m.cursor--
		}
	case "enter":
		if a, ok := m.selected(); ok && gate.Assignment(m.user, a).Has(gate.View) {
			m.detail = true
		}
	case "r":
		ctx, gen := m.life.Mount()
		return m, m.load(ctx, gen)
	}
	return m, nil
}

func (m mineModel) selected() (domain.Assignment, bool) {
	if m.cursor < 0 || m.cursor >= len(m.assignments) {
		return domain.Assignment{}, false
	}
	return m.assignments[m.cursor], true
}

func (m mineModel) editing() bool { return m.detail }

func (m mineModel) View() string {
	switch m.phase {
	case screen.Loading:
		return " " + dimStyle.Render("loading your work...") + "\n"
	case screen.NotFound:
		return " " + dimStyle.Render("your assignments could not be loaded") + "\n"
	}
	if m.detail {
		if a, ok := m.selected(); ok {
			return renderAssignmentDetail(a, gate.Assignment(m.user, a))
		}
	}

	var b strings.Builder
	w := metrics.SummarizeWorkload(m.self, m.assignments)
	fmt.Fprintf(&b, " %s   %s   %s   %s\n",
		stat("allocated", loadStyle(w.TotalAllocation).Render(pct(w.TotalAllocation))),
		stat("projects", w.ActiveProjects),
		stat("skills", w.SkillCount),
		stat("available", pct(w.AvailableCapacity)))
	if w.HasProgress {
		fmt.Fprintf(&b, " %s %s\n", bar(w.AvgProgress, 20), dimStyle.Render(pct(w.AvgProgress)+" average progress"))
	}
	if m.self != nil && len(m.self.Skills) > 0 {
		fmt.Fprintf(&b, " %s %s\n", metaStyle.Render("skills"), dimStyle.Render(skillList(m.self.Skills)))
	}
	b.WriteString("\n " + sectionHeaderStyle.Render("MY ASSIGNMENTS") + "\n")

	if len(m.assignments) == 0 {
		b.WriteString(" " + dimStyle.Render("you have no assignments yet") + "\n")
		return b.String()
	}
	for i, a := range m.assignments {
		cursor := " "
		if i == m.cursor {
			cursor = accentStyle.Render("▸")
		}
		status := ""
		if a.Project != nil {
			status = statusLabel(a.Project.Status)
		}
		fmt.Fprintf(&b, " %s %s %s %s %s\n",
			cursor,
			normalStyle.Render(pad(a.ProjectName(), 24)),
			dimStyle.Render(pad(a.Role, 16)),
			loadStyle(a.AllocationPercentage).Render(fmt.Sprintf("%3d%%", a.AllocationPercentage)),
			status)
	}
	return b.String()
}

func (m mineModel) helpKeys() string {
	if m.detail {
		return helpEntry("esc", "back")
	}
	return helpEntry("j/k", "nav") + "  " + helpEntry("enter", "detail") + "  " + helpEntry("r", "refresh")
}
