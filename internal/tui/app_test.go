package tui

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/naveenspark/roster/internal/screen"
	"github.com/naveenspark/roster/internal/session"
)

func newTestApp(u session.User) App {
	a := NewApp(nil, u, Options{Version: "v1.2.3"})
	a.width = 100
	a.height = 30
	return a
}

// settleApp runs cmd against the App, feeding results back in. Notice
// expiry ticks are not run.
func settleApp(t *testing.T, a App, cmd tea.Cmd) App {
	t.Helper()
	queue := drain(cmd)
	for len(queue) > 0 {
		msg := queue[0]
		queue = queue[1:]
		model, next := a.Update(msg)
		a = model.(App)
		if _, ok := msg.(noticeMsg); ok {
			continue
		}
		queue = append(queue, drain(next)...)
	}
	return a
}

func TestAppInitMounts(t *testing.T) {
	a := newTestApp(grace)
	msgs := drain(a.Init())
	if len(msgs) != 1 {
		t.Fatalf("got %d messages, want 1", len(msgs))
	}
	if _, ok := msgs[0].(mountMsg); !ok {
		t.Fatalf("got %T, want mountMsg", msgs[0])
	}
	model, cmd := a.Update(msgs[0])
	a = model.(App)
	if cmd == nil || a.dashboard.phase != screen.Loading {
		t.Errorf("dashboard not mounted: phase %v", a.dashboard.phase)
	}
}

func TestAppTabSwitching(t *testing.T) {
	tests := []struct {
		key      string
		wantView view
	}{
		{"2", viewEngineers},
		{"3", viewProjects},
		{"4", viewAssignments},
		{"5", viewProfile},
	}
	for _, tc := range tests {
		t.Run(tc.key, func(t *testing.T) {
			model, cmd := newTestApp(grace).Update(keyMsg(tc.key))
			a := model.(App)
			if a.view != tc.wantView {
				t.Errorf("after key %q: view = %d, want %d", tc.key, a.view, tc.wantView)
			}
			if cmd == nil {
				t.Error("switching should mount the new screen")
			}
		})
	}
}

func TestAppSameTabDoesNotRemount(t *testing.T) {
	a := newTestApp(grace)
	_, cmd := a.Update(keyMsg("1"))
	if cmd != nil {
		t.Error("pressing the current tab should not remount")
	}
}

func TestAppEditingSuppressesGlobalKeys(t *testing.T) {
	a := newTestApp(grace)
	a.view = viewAssignments
	a.assignments.mode = modeForm

	if !a.isEditing() {
		t.Fatal("expected isEditing with an open form")
	}
	for _, key := range []string{"2", "q", "?"} {
		model, _ := a.Update(keyMsg(key))
		got := model.(App)
		if got.view != viewAssignments || got.helpOpen {
			t.Errorf("key %q escaped the form", key)
		}
	}
}

func TestAppCtrlCAlwaysQuits(t *testing.T) {
	a := newTestApp(grace)
	a.view = viewProfile
	a.profile.edit = true

	_, cmd := a.Update(keyMsg("ctrl+c"))
	if cmd == nil {
		t.Fatal("expected a quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("ctrl+c did not quit")
	}
}

func TestAppQuitOnQ(t *testing.T) {
	_, cmd := newTestApp(ada).Update(keyMsg("q"))
	if cmd == nil {
		t.Fatal("expected quit command on 'q'")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q did not quit")
	}
}

func TestAppHelpOverlay(t *testing.T) {
	a := newTestApp(grace)
	model, _ := a.Update(keyMsg("?"))
	a = model.(App)
	if !a.helpOpen {
		t.Fatal("? should open help")
	}
	if out := a.View(); !strings.Contains(out, "roster v1.2.3") {
		t.Errorf("help missing version:\n%s", out)
	}

	model, _ = a.Update(keyMsg("2"))
	a = model.(App)
	if a.view != viewHome {
		t.Error("tab keys should not pass through the help overlay")
	}
	model, _ = a.Update(keyMsg("esc"))
	a = model.(App)
	if a.helpOpen {
		t.Error("esc should close help")
	}
}

func TestAppNoticeLifecycle(t *testing.T) {
	a := newTestApp(grace)
	first := screen.Succeeded("Assignment created successfully!")

	model, cmd := a.Update(noticeMsg{notice: first})
	a = model.(App)
	if cmd == nil {
		t.Error("expected an expiry tick")
	}
	if a.notice == nil || a.notice.ID != first.ID {
		t.Fatalf("notice = %+v", a.notice)
	}
	if !strings.Contains(a.View(), "Assignment created successfully!") {
		t.Error("notice not rendered")
	}

	second := screen.Failed(errors.New("boom"), "Failed to delete assignment.")
	model, _ = a.Update(noticeMsg{notice: second})
	a = model.(App)

	// The first notice's timer must not clear its replacement.
	model, _ = a.Update(noticeExpiredMsg{id: first.ID})
	a = model.(App)
	if a.notice == nil || a.notice.ID != second.ID {
		t.Fatalf("replacement notice cleared early: %+v", a.notice)
	}

	model, _ = a.Update(noticeExpiredMsg{id: second.ID})
	a = model.(App)
	if a.notice != nil {
		t.Error("notice should expire")
	}
}

func TestAppNavigateMsg(t *testing.T) {
	a := newTestApp(grace)
	a.view = viewEngineers
	model, _ := a.Update(navigateMsg{to: viewHome})
	a = model.(App)
	if a.view != viewHome {
		t.Errorf("view = %d, want home", a.view)
	}
}

func TestAppViewRendersTabBar(t *testing.T) {
	tests := []struct {
		user session.User
		home string
	}{
		{grace, "Dashboard"},
		{ada, "My Work"},
	}
	for _, tc := range tests {
		view := newTestApp(tc.user).View()
		for _, want := range []string{"ROSTER", tc.home, "Engineers", "Projects", "Assignments", "Profile", tc.user.DisplayName()} {
			if !strings.Contains(view, want) {
				t.Errorf("view for %s missing %q", tc.user.DisplayName(), want)
			}
		}
	}
}

func TestAppEngineerBouncedFromAssignments(t *testing.T) {
	f := newFixture(t)
	a := NewApp(f.client(ada), ada, Options{})
	a = settleApp(t, a, a.Init())
	if a.mine.phase != screen.Ready {
		t.Fatalf("home phase = %v, want Ready", a.mine.phase)
	}

	model, cmd := a.Update(keyMsg("4"))
	a = settleApp(t, model.(App), cmd)

	if a.view != viewHome {
		t.Errorf("view = %d, want home", a.view)
	}
	if a.notice == nil || a.notice.Text != "Access denied. Only managers can view assignments." {
		t.Errorf("notice = %+v", a.notice)
	}
	if a.assignments.phase != screen.Denied {
		t.Errorf("assignments phase = %v, want Denied", a.assignments.phase)
	}
}

func TestAppLateResultAfterSwitchIsDropped(t *testing.T) {
	f := newFixture(t)
	a := NewApp(f.client(grace), grace, Options{})
	a = settleApp(t, a, a.Init())

	model, pending := a.Update(keyMsg("2"))
	a = model.(App)
	model, _ = a.Update(keyMsg("3"))
	a = settleApp(t, model.(App), nil)

	// The engineers load finishes after the user moved on.
	a = settleApp(t, a, pending)
	if a.engineers.engineers != nil {
		t.Error("engineers screen accepted a result after unmount")
	}
	if a.notice != nil {
		t.Errorf("late result produced a notice: %+v", a.notice)
	}
}
