package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/naveenspark/roster/internal/screen"
	"github.com/naveenspark/roster/internal/session"
	"github.com/naveenspark/roster/pkg/client"
	"github.com/naveenspark/roster/pkg/domain"
)

// api is the subset of *client.Client the screens use.
type api interface {
	ListEngineers(ctx context.Context) ([]domain.Engineer, error)
	GetEngineer(ctx context.Context, id string) (*domain.Engineer, error)
	GetEngineerCapacity(ctx context.Context, id string) (*domain.Capacity, error)
	CreateEngineer(ctx context.Context, req client.CreateEngineerRequest) (*domain.Engineer, error)
	DeleteEngineer(ctx context.Context, id string) error

	ListProjects(ctx context.Context) ([]domain.Project, error)
	GetProject(ctx context.Context, id string) (*domain.Project, error)
	CreateProject(ctx context.Context, req client.ProjectRequest) (*domain.Project, error)
	DeleteProject(ctx context.Context, id string) error

	ListAssignments(ctx context.Context) ([]domain.Assignment, error)
	CreateAssignment(ctx context.Context, req client.AssignmentRequest) (*domain.Assignment, error)
	UpdateAssignment(ctx context.Context, id string, req client.AssignmentRequest) (*domain.Assignment, error)
	DeleteAssignment(ctx context.Context, id string) error

	GetProfile(ctx context.Context) (*domain.Profile, error)
	UpdateProfile(ctx context.Context, req client.ProfileRequest) (*domain.Profile, error)
}

type view int

const (
	viewHome view = iota
	viewEngineers
	viewProjects
	viewAssignments
	viewProfile
)

// noticeTTL is how long a notice stays on screen.
const noticeTTL = 4 * time.Second

// Options configures the App.
type Options struct {
	Logger  *zap.Logger
	WebURL  string // base of the web app, for "open in browser"
	Version string
}

// App is the root Bubbletea model. The signed-in user is fixed for the
// lifetime of the App and handed to every screen.
type App struct {
	client      api
	user        session.User
	log         *zap.Logger
	version     string
	view        view
	dashboard   dashboardModel
	mine        mineModel
	engineers   engineersModel
	projects    projectsModel
	assignments assignmentsModel
	profile     profileModel
	notice      *screen.Notice
	helpOpen    bool
	width       int
	height      int
}

// NewApp creates a new TUI application for user.
func NewApp(c api, user session.User, opts Options) App {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return App{
		client:      c,
		user:        user,
		log:         log,
		version:     opts.Version,
		dashboard:   newDashboardModel(c, user),
		mine:        newMineModel(c, user),
		engineers:   newEngineersModel(c, user),
		projects:    newProjectsModel(c, user, opts.WebURL),
		assignments: newAssignmentsModel(c, user),
		profile:     newProfileModel(c, user),
	}
}

func (a App) Init() tea.Cmd {
	// Init cannot return the mounted model, so the first mount happens on
	// the mountMsg it schedules.
	return func() tea.Msg { return mountMsg{} }
}

// mountMsg mounts the current view.
type mountMsg struct{}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		// Chrome: header(1) + tabs(1) + notice(1) + help(1) = 4 lines
		body := tea.WindowSizeMsg{Width: msg.Width, Height: msg.Height - 4}
		a.dashboard, _ = a.dashboard.Update(body)
		a.mine, _ = a.mine.Update(body)
		a.engineers, _ = a.engineers.Update(body)
		a.projects, _ = a.projects.Update(body)
		a.assignments, _ = a.assignments.Update(body)
		a.profile, _ = a.profile.Update(body)
		return a, nil

	case mountMsg:
		return a.mount()

	case navigateMsg:
		return a.switchTo(msg.to)

	case noticeMsg:
		n := msg.notice
		a.notice = &n
		a.logNotice(n)
		id := n.ID
		return a, tea.Tick(noticeTTL, func(time.Time) tea.Msg { return noticeExpiredMsg{id: id} })

	case noticeExpiredMsg:
		if a.notice != nil && a.notice.ID == msg.id {
			a.notice = nil
		}
		return a, nil

	case tea.KeyMsg:
		if a.helpOpen {
			switch msg.String() {
			case "?", "esc":
				a.helpOpen = false
			case "q", "ctrl+c":
				return a, tea.Quit
			}
			return a, nil
		}
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
		if !a.isEditing() {
			switch msg.String() {
			case "?":
				a.helpOpen = true
				return a, nil
			case "q":
				return a, tea.Quit
			case "1":
				return a.switchTo(viewHome)
			case "2":
				return a.switchTo(viewEngineers)
			case "3":
				return a.switchTo(viewProjects)
			case "4":
				return a.switchTo(viewAssignments)
			case "5":
				return a.switchTo(viewProfile)
			}
		}
	}

	return a.route(msg)
}

// route forwards msg to the current view only. Results addressed to a
// screen that is no longer shown are dropped here or by its generation check.
func (a App) route(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch a.view {
	case viewHome:
		if session.IsManager(a.user) {
			a.dashboard, cmd = a.dashboard.Update(msg)
		} else {
			a.mine, cmd = a.mine.Update(msg)
		}
	case viewEngineers:
		a.engineers, cmd = a.engineers.Update(msg)
	case viewProjects:
		a.projects, cmd = a.projects.Update(msg)
	case viewAssignments:
		a.assignments, cmd = a.assignments.Update(msg)
	case viewProfile:
		a.profile, cmd = a.profile.Update(msg)
	}
	return a, cmd
}

func (a App) switchTo(v view) (tea.Model, tea.Cmd) {
	if v == a.view {
		return a, nil
	}
	a = a.unmount()
	a.view = v
	return a.mount()
}

func (a App) mount() (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch a.view {
	case viewHome:
		if session.IsManager(a.user) {
			a.dashboard, cmd = a.dashboard.mount()
		} else {
			a.mine, cmd = a.mine.mount()
		}
	case viewEngineers:
		a.engineers, cmd = a.engineers.mount()
	case viewProjects:
		a.projects, cmd = a.projects.mount()
	case viewAssignments:
		a.assignments, cmd = a.assignments.mount()
	case viewProfile:
		a.profile, cmd = a.profile.mount()
	}
	return a, cmd
}

func (a App) unmount() App {
	switch a.view {
	case viewHome:
		a.dashboard = a.dashboard.unmount()
		a.mine = a.mine.unmount()
	case viewEngineers:
		a.engineers = a.engineers.unmount()
	case viewProjects:
		a.projects = a.projects.unmount()
	case viewAssignments:
		a.assignments = a.assignments.unmount()
	case viewProfile:
		a.profile = a.profile.unmount()
	}
	return a
}

func (a App) isEditing() bool {
	switch a.view {
	case viewEngineers:
		return a.engineers.editing()
	case viewProjects:
		return a.projects.editing()
	case viewAssignments:
		return a.assignments.editing()
	case viewProfile:
		return a.profile.editing()
	case viewHome:
		if !session.IsManager(a.user) {
			return a.mine.editing()
		}
	}
	return false
}

func (a App) logNotice(n screen.Notice) {
	fields := []zap.Field{zap.String("notice_id", n.ID), zap.Int("view", int(a.view))}
	if n.Level == screen.Failure {
		a.log.Warn(n.Text, fields...)
		return
	}
	a.log.Info(n.Text, fields...)
}

func (a App) View() string {
	// Header: title left, signed-in user right
	title := titleStyle.Render("ROSTER")
	who := ""
	if a.user != nil {
		who = dimStyle.Render(a.user.DisplayName()) + " " + metaStyle.Render(string(a.user.Role()))
	}
	gap := a.width - lipgloss.Width(title) - lipgloss.Width(who) - 2
	if gap < 1 {
		gap = 1
	}
	header := " " + title + strings.Repeat(" ", gap) + who

	type tabEntry struct {
		key  string
		name string
		v    view
	}
	home := "Dashboard"
	if !session.IsManager(a.user) {
		home = "My Work"
	}
	tabs := []tabEntry{
		{"1", home, viewHome},
		{"2", "Engineers", viewEngineers},
		{"3", "Projects", viewProjects},
		{"4", "Assignments", viewAssignments},
		{"5", "Profile", viewProfile},
	}
	colWidth := max(a.width/len(tabs), 1)
	var tabBar strings.Builder
	for _, t := range tabs {
		var label string
		if t.v == a.view {
			label = accentStyle.Render(t.key) + " " + selectedStyle.Underline(true).Render(t.name)
		} else {
			label = metaStyle.Render(t.key) + " " + dimStyle.Render(t.name)
		}
		labelWidth := lipgloss.Width(label)
		leftPad := max((colWidth-labelWidth)/2, 0)
		rightPad := max(colWidth-labelWidth-leftPad, 0)
		tabBar.WriteString(strings.Repeat(" ", leftPad) + label + strings.Repeat(" ", rightPad))
	}

	var body, help string
	switch a.view {
	case viewHome:
		if session.IsManager(a.user) {
			body = a.dashboard.View()
			help = a.dashboard.helpKeys()
		} else {
			body = a.mine.View()
			help = a.mine.helpKeys()
		}
	case viewEngineers:
		body = a.engineers.View()
		help = a.engineers.helpKeys()
	case viewProjects:
		body = a.projects.View()
		help = a.projects.helpKeys()
	case viewAssignments:
		body = a.assignments.View()
		help = a.assignments.helpKeys()
	case viewProfile:
		body = a.profile.View()
		help = a.profile.helpKeys()
	}
	help = " " + help + "  " + helpEntry("?", "help") + "  " + helpEntry("q", "quit")

	if a.helpOpen {
		body = helpView()
		if a.version != "" {
			body += "\n  " + metaStyle.Render("roster "+a.version) + "\n"
		}
		help = " " + helpEntry("esc", "close")
	}

	noticeLine := ""
	if a.notice != nil {
		noticeLine = " " + noticeStyle(a.notice.Level).Render(a.notice.Text)
	}

	chrome := 4
	body = strings.TrimRight(truncateToHeight(body, a.height-chrome), "\n")

	return fmt.Sprintf("%s\n%s\n%s\n%s\n%s", header, tabBar.String(), body, noticeLine, help)
}
