package tui

import (
	"net/http"
	"strings"
	"testing"

	"github.com/naveenspark/roster/internal/screen"
	"github.com/naveenspark/roster/internal/session"
	"github.com/naveenspark/roster/pkg/domain"
)

func readyProjects(t *testing.T, f fixture, u session.User) projectsModel {
	t.Helper()
	m, cmd := newProjectsModel(f.client(u), u, "https://roster.example.com/").mount()
	m, msgs := settle(m, cmd)
	if m.phase != screen.Ready {
		t.Fatalf("phase = %v, want Ready (notices %+v)", m.phase, notices(msgs))
	}
	return m
}

func TestProjectsVisibleToEngineers(t *testing.T) {
	f := newFixture(t)
	m := readyProjects(t, f, ada)

	if len(m.projects) != 2 {
		t.Errorf("got %d projects, want 2", len(m.projects))
	}
	if strings.Contains(m.helpKeys(), "new") {
		t.Error("engineers should not be offered project creation")
	}
}

func TestProjectsCreateDeniedForEngineer(t *testing.T) {
	f := newFixture(t)
	m := readyProjects(t, f, ada)

	m, msgs := press(m, "n")
	if n := onlyNotice(t, msgs); n.Text != "Access denied. Only managers can create projects." {
		t.Errorf("notice = %q", n.Text)
	}
	if m.mode != modeList {
		t.Errorf("mode = %v, want list", m.mode)
	}
	if got := f.srv.Calls(http.MethodPost, "/api/projects"); got != 0 {
		t.Errorf("POST called %d times, want 0", got)
	}
}

func TestProjectsStatusFilterCycle(t *testing.T) {
	f := newFixture(t)
	m := readyProjects(t, f, grace)

	want := []struct {
		status domain.ProjectStatus
		count  int
	}{
		{domain.StatusPlanning, 1},
		{domain.StatusActive, 1},
		{domain.StatusCompleted, 0},
		{"", 2},
	}
	for _, w := range want {
		m, _ = press(m, "s")
		if m.status != w.status || len(m.visible()) != w.count {
			t.Errorf("status %q shows %d, want %q with %d", m.status, len(m.visible()), w.status, w.count)
		}
	}
}

func TestProjectsDetailLoadsTeam(t *testing.T) {
	f := newFixture(t)
	m := readyProjects(t, f, grace)

	m, msgs := press(m, "enter")
	if len(msgs) != 0 {
		t.Errorf("unexpected messages %+v", msgs)
	}
	if m.mode != modeDetail || m.detail.phase != screen.Ready {
		t.Fatalf("mode = %v detail phase = %v", m.mode, m.detail.phase)
	}
	if m.detail.project == nil || m.detail.project.ID != "p1" {
		t.Fatalf("detail project = %+v", m.detail.project)
	}
	if len(m.detail.assignments) != 1 {
		t.Errorf("got %d assignments on Atlas, want 1", len(m.detail.assignments))
	}
	out := m.View()
	for _, want := range []string{"Atlas", "Ada", "65%"} {
		if !strings.Contains(out, want) {
			t.Errorf("detail missing %q:\n%s", want, out)
		}
	}
}

func TestProjectsDetailNotFound(t *testing.T) {
	f := newFixture(t)
	m := readyProjects(t, f, grace)
	f.srv.Fail(http.MethodGet, "/api/projects/{id}", http.StatusNotFound, "Project not found")

	m, msgs := press(m, "enter")
	if n := onlyNotice(t, msgs); n.Level != screen.Failure || n.Text != "Project not found" {
		t.Errorf("notice = %+v", n)
	}
	if m.detail.phase != screen.NotFound {
		t.Fatalf("detail phase = %v, want NotFound", m.detail.phase)
	}
	if out := m.View(); !strings.Contains(out, "Project not found") {
		t.Errorf("view = %q", out)
	}

	m, _ = press(m, "esc")
	if m.mode != modeList || m.phase != screen.Ready {
		t.Errorf("esc should return to the list, mode = %v", m.mode)
	}
}

func TestProjectsDetailStaleAfterClose(t *testing.T) {
	f := newFixture(t)
	m := readyProjects(t, f, grace)

	m, cmd := m.Update(keyMsg("enter"))
	m, _ = press(m, "esc")
	m, _ = settle(m, cmd)

	if m.mode != modeList || m.detail.project != nil {
		t.Errorf("closed detail received a late load: mode %v", m.mode)
	}
}

func TestProjectsCreate(t *testing.T) {
	f := newFixture(t)
	m := readyProjects(t, f, grace)

	m, _ = press(m, "n")
	m.form = fill(m.form, map[string]string{
		"name":           "Comet",
		"startDate":      "2025-06-01",
		"teamSize":       "",
		"requiredSkills": "Go, Rust",
	})
	m, msgs := press(m, "ctrl+s")

	if n := onlyNotice(t, msgs); n.Level != screen.Success || n.Text != "Project created successfully!" {
		t.Errorf("notice = %+v", n)
	}
	if len(m.projects) != 3 {
		t.Fatalf("got %d projects, want 3", len(m.projects))
	}
	created := m.projects[2]
	if created.Status != domain.StatusPlanning || created.TeamSize != 1 || created.ManagerID != "m1" {
		t.Errorf("created = %+v", created)
	}
}

func TestProjectsCreateRequiresStartDate(t *testing.T) {
	f := newFixture(t)
	m := readyProjects(t, f, grace)

	m, _ = press(m, "n")
	m.form = fill(m.form, map[string]string{"name": "Comet"})
	m, _ = press(m, "ctrl+s")

	if m.form.errs.Get("startDate") == "" {
		t.Errorf("errs = %v, want a startDate error", m.form.errs)
	}
	if got := f.srv.Calls(http.MethodPost, "/api/projects"); got != 0 {
		t.Errorf("POST called %d times, want 0", got)
	}
}

func TestProjectsDelete(t *testing.T) {
	f := newFixture(t)
	m := readyProjects(t, f, grace)

	m, _ = press(m, "enter")
	m, _ = press(m, "d")
	if m.mode != modeConfirm {
		t.Fatalf("mode = %v, want confirm", m.mode)
	}
	m, msgs := press(m, "y")

	if n := onlyNotice(t, msgs); n.Text != "Project deleted successfully" {
		t.Errorf("notice = %q", n.Text)
	}
	if len(m.projects) != 1 || m.projects[0].ID != "p2" {
		t.Errorf("projects = %+v", m.projects)
	}
	if m.mode != modeList {
		t.Errorf("mode = %v, want list", m.mode)
	}
}

func TestProjectsEngineerCannotDelete(t *testing.T) {
	f := newFixture(t)
	m := readyProjects(t, f, ada)

	m, _ = press(m, "enter")
	m, _ = press(m, "d")
	if m.mode != modeDetail {
		t.Errorf("mode = %v, want detail", m.mode)
	}
}

func TestProjectsOpenInBrowser(t *testing.T) {
	var opened string
	orig := openURL
	openURL = func(s string) error { opened = s; return nil }
	t.Cleanup(func() { openURL = orig })

	f := newFixture(t)
	m := readyProjects(t, f, grace)
	m, _ = press(m, "enter")
	press(m, "o")

	if opened != "https://roster.example.com/projects/p1" {
		t.Errorf("opened %q", opened)
	}

	m.webURL = ""
	_, msgs := press(m, "o")
	if n := onlyNotice(t, msgs); n.Text != "No web URL configured" {
		t.Errorf("notice = %q", n.Text)
	}
}

func TestNextStatus(t *testing.T) {
	tests := []struct {
		in, want domain.ProjectStatus
	}{
		{"", domain.StatusPlanning},
		{domain.StatusPlanning, domain.StatusActive},
		{domain.StatusActive, domain.StatusCompleted},
		{domain.StatusCompleted, ""},
		{"archived", ""},
	}
	for _, tc := range tests {
		if got := nextStatus(tc.in); got != tc.want {
			t.Errorf("nextStatus(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
