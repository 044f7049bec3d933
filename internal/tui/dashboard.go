package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/naveenspark/roster/internal/metrics"
	"github.com/naveenspark/roster/internal/screen"
	"github.com/naveenspark/roster/internal/session"
	"github.com/naveenspark/roster/pkg/domain"
)

// -- messages --

type dashboardLoadedMsg struct {
	gen       uint64
	engineers []domain.Engineer
	projects  []domain.Project
	err       error
}

// -- model --

// dashboardModel is the manager home: team summary, engineers by load and
// the project list.
type dashboardModel struct {
	client    api
	user      session.User
	life      screen.Lifecycle
	phase     screen.Phase
	engineers []domain.Engineer
	projects  []domain.Project
	width     int
	height    int
}

func newDashboardModel(c api, u session.User) dashboardModel {
	return dashboardModel{client: c, user: u}
}

func (m dashboardModel) mount() (dashboardModel, tea.Cmd) {
	ctx, gen := m.life.Mount()
	m.phase = screen.Loading
	return m, m.load(ctx, gen)
}

func (m dashboardModel) unmount() dashboardModel {
	m.life.Unmount()
	return m
}

func (m dashboardModel) load(ctx context.Context, gen uint64) tea.Cmd {
	c := m.client
	return func() tea.Msg {
		var engineers []domain.Engineer
		var projects []domain.Project
		err := screen.LoadAll(ctx,
			screen.Fetch(&engineers, c.ListEngineers),
			screen.Fetch(&projects, c.ListProjects),
		)
		if err != nil {
			return dashboardLoadedMsg{gen: gen, err: err}
		}
		return dashboardLoadedMsg{gen: gen, engineers: engineers, projects: projects}
	}
}

func (m dashboardModel) Update(msg tea.Msg) (dashboardModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case dashboardLoadedMsg:
		if !m.life.Current(msg.gen) {
			return m, nil
		}
		if msg.err != nil {
			m.phase = m.phase.Next(screen.LoadFailed)
			return m, notify(screen.Failed(msg.err, "Failed to load dashboard data"))
		}
		m.engineers = msg.engineers
		m.projects = msg.projects
		m.phase = m.phase.Next(screen.Loaded)

	case tea.KeyMsg:
		if msg.String() == "r" && m.phase == screen.Ready {
			ctx, gen := m.life.Mount()
			return m, m.load(ctx, gen)
		}
	}
	return m, nil
}

func (m dashboardModel) View() string {
	var b strings.Builder
	switch m.phase {
	case screen.Loading:
		return " " + dimStyle.Render("loading dashboard...") + "\n"
	case screen.NotFound:
		return " " + dimStyle.Render("dashboard data could not be loaded. switch screens to retry") + "\n"
	}

	name := ""
	if m.user != nil {
		name = m.user.DisplayName()
	}
	fmt.Fprintf(&b, " %s\n\n", selectedStyle.Render("Welcome back, "+name))

	team := metrics.SummarizeTeam(m.engineers, m.projects)
	fmt.Fprintf(&b, " %s   %s   %s\n\n",
		stat("engineers", team.TotalEngineers),
		stat("active projects", team.ActiveProjects),
		stat("avg allocation", pct(team.AvgAllocation)))

	b.WriteString(" " + sectionHeaderStyle.Render("TEAM") + "\n")
	if len(m.engineers) == 0 {
		b.WriteString(" " + dimStyle.Render("no engineers yet") + "\n")
	}
	for _, e := range m.engineers {
		used := metrics.UsedCapacity(e)
		fmt.Fprintf(&b, "   %s %s %s %s\n",
			normalStyle.Render(pad(e.Name, 22)),
			pad(seniorityLabel(e.Seniority), 8),
			bar(used, 20),
			loadStyle(used).Render(pct(used)))
	}

	b.WriteString("\n " + sectionHeaderStyle.Render("PROJECTS") + "\n")
	if len(m.projects) == 0 {
		b.WriteString(" " + dimStyle.Render("no projects yet") + "\n")
	}
	for _, p := range m.projects {
		fmt.Fprintf(&b, "   %s %s %s\n",
			normalStyle.Render(pad(p.Name, 28)),
			statusLabel(p.Status),
			metaStyle.Render(fmt.Sprintf("team %d", p.TeamSize)))
	}
	return b.String()
}

func (m dashboardModel) helpKeys() string {
	return helpEntry("1-5", "screens") + "  " + helpEntry("r", "refresh")
}
