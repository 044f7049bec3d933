package tui

import (
	"net/http"
	"strings"
	"testing"

	"github.com/naveenspark/roster/internal/screen"
)

func readyEngineers(t *testing.T, f fixture) engineersModel {
	t.Helper()
	m, cmd := newEngineersModel(f.client(grace), grace).mount()
	m, msgs := settle(m, cmd)
	if m.phase != screen.Ready {
		t.Fatalf("phase = %v, want Ready (notices %+v)", m.phase, notices(msgs))
	}
	return m
}

// selectEngineer moves the cursor to the engineer named name.
func selectEngineer(t *testing.T, m engineersModel, name string) engineersModel {
	t.Helper()
	for i, e := range m.visible() {
		if e.Name == name {
			m.cursor = i
			return m
		}
	}
	t.Fatalf("engineer %q not listed", name)
	return m
}

func TestEngineersDeniedForEngineer(t *testing.T) {
	f := newFixture(t)
	m, cmd := newEngineersModel(f.client(ada), ada).mount()
	m, msgs := settle(m, cmd)

	if m.phase != screen.Denied {
		t.Errorf("phase = %v, want Denied", m.phase)
	}
	if n := onlyNotice(t, msgs); n.Text != "Access denied. Only managers can view engineers." {
		t.Errorf("notice = %q", n.Text)
	}
	if _, ok := navigatedTo(msgs); !ok {
		t.Error("expected navigation home")
	}
	if got := f.srv.Calls(http.MethodGet, "/api/engineers"); got != 0 {
		t.Errorf("GET /api/engineers called %d times, want 0", got)
	}
}

func TestEngineersListAndSummary(t *testing.T) {
	f := newFixture(t)
	m := readyEngineers(t, f)

	if len(m.engineers) != 3 {
		t.Fatalf("got %d engineers, want 3", len(m.engineers))
	}
	out := m.View()
	for _, want := range []string{"Grace", "Ada", "Linus", "departments"} {
		if !strings.Contains(out, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestEngineersSearchBySkill(t *testing.T) {
	f := newFixture(t)
	m := readyEngineers(t, f)

	m, _ = press(m, "/")
	for _, r := range "react" {
		m, _ = press(m, string(r))
	}
	m, _ = press(m, "enter")

	vis := m.visible()
	if len(vis) != 1 || vis[0].Name != "Ada" {
		t.Errorf("visible = %+v, want only Ada", vis)
	}
	if m.search.active {
		t.Error("enter should close the search bar")
	}
}

func TestEngineersDetailLoadsCapacity(t *testing.T) {
	f := newFixture(t)
	m := readyEngineers(t, f)
	m = selectEngineer(t, m, "Ada")

	m, msgs := press(m, "enter")
	if len(msgs) != 0 {
		t.Errorf("unexpected messages %+v", msgs)
	}
	if m.mode != modeDetail {
		t.Fatalf("mode = %v, want detail", m.mode)
	}
	if m.capacity == nil || m.capacity.UsedCapacity != 60 || m.capacity.AvailableCapacity != 40 {
		t.Fatalf("capacity = %+v, want used 60 available 40", m.capacity)
	}
	if out := m.View(); !strings.Contains(out, "60%") {
		t.Errorf("detail missing utilization:\n%s", out)
	}
}

func TestEngineersCapacityFailureStaysInDetail(t *testing.T) {
	f := newFixture(t)
	f.srv.Fail(http.MethodGet, "/api/engineers/{id}/capacity", http.StatusInternalServerError, "")
	m := readyEngineers(t, f)

	m, msgs := press(m, "enter")
	if n := onlyNotice(t, msgs); n.Text != "Failed to load capacity" {
		t.Errorf("notice = %q", n.Text)
	}
	if m.mode != modeDetail || !m.capacityErr {
		t.Errorf("mode = %v capacityErr = %v", m.mode, m.capacityErr)
	}
}

func TestEngineersCopyEmailAndMail(t *testing.T) {
	var copied, opened string
	origCopy, origOpen := copyToClipboard, openURL
	copyToClipboard = func(s string) error { copied = s; return nil }
	openURL = func(s string) error { opened = s; return nil }
	t.Cleanup(func() { copyToClipboard, openURL = origCopy, origOpen })

	f := newFixture(t)
	m := readyEngineers(t, f)
	m = selectEngineer(t, m, "Linus")
	m, _ = press(m, "enter")

	m, msgs := press(m, "c")
	if copied != "linus@example.com" {
		t.Errorf("copied %q", copied)
	}
	if n := onlyNotice(t, msgs); !strings.Contains(n.Text, "linus@example.com") {
		t.Errorf("notice = %q", n.Text)
	}

	_, msgs = press(m, "m")
	if opened != "mailto:linus@example.com" {
		t.Errorf("opened %q", opened)
	}
	if len(msgs) != 0 {
		t.Errorf("unexpected messages %+v", msgs)
	}
}

func TestEngineersAddValidatesLocally(t *testing.T) {
	f := newFixture(t)
	m := readyEngineers(t, f)

	m, _ = press(m, "n")
	m.form = fill(m.form, map[string]string{"name": "Ken", "email": "not-an-email"})
	m, msgs := press(m, "ctrl+s")

	if len(msgs) != 0 {
		t.Errorf("unexpected messages %+v", msgs)
	}
	if m.form.errs.Get("email") == "" {
		t.Errorf("errs = %v, want an email error", m.form.errs)
	}
	if got := f.srv.Calls(http.MethodPost, "/api/engineers"); got != 0 {
		t.Errorf("POST called %d times, want 0", got)
	}
}

func TestEngineersAdd(t *testing.T) {
	f := newFixture(t)
	m := readyEngineers(t, f)

	m, _ = press(m, "n")
	m.form = fill(m.form, map[string]string{
		"name":   "Ken",
		"email":  "ken@example.com",
		"skills": "C, go, C",
	})
	m, msgs := press(m, "ctrl+s")

	if n := onlyNotice(t, msgs); n.Text != "Engineer added successfully!" {
		t.Errorf("notice = %q", n.Text)
	}
	if len(m.engineers) != 4 {
		t.Fatalf("got %d engineers, want 4", len(m.engineers))
	}
	added := m.engineers[3]
	if added.Name != "Ken" || len(added.Skills) != 2 || added.Capacity() != 100 {
		t.Errorf("added = %+v", added)
	}
}

func TestEngineersAddConflictShowsServerMessage(t *testing.T) {
	f := newFixture(t)
	m := readyEngineers(t, f)

	m, _ = press(m, "n")
	m.form = fill(m.form, map[string]string{"name": "Ada Two", "email": "ada@example.com"})
	m, msgs := press(m, "ctrl+s")

	if n := onlyNotice(t, msgs); n.Text != "Email already registered" {
		t.Errorf("notice = %q", n.Text)
	}
	if m.mode != modeForm || len(m.engineers) != 3 {
		t.Errorf("mode = %v, %d engineers", m.mode, len(m.engineers))
	}
}

func TestEngineersDelete(t *testing.T) {
	f := newFixture(t)
	m := readyEngineers(t, f)
	m = selectEngineer(t, m, "Ada")

	m, _ = press(m, "enter")
	m, _ = press(m, "d")
	if m.mode != modeConfirm {
		t.Fatalf("mode = %v, want confirm", m.mode)
	}
	m, msgs := press(m, "y")

	if n := onlyNotice(t, msgs); n.Text != "Engineer deleted successfully" {
		t.Errorf("notice = %q", n.Text)
	}
	for _, e := range m.engineers {
		if e.ID == "e1" {
			t.Error("Ada still listed")
		}
	}
	if m.mode != modeList {
		t.Errorf("mode = %v, want list", m.mode)
	}
}

func TestEngineersRefresh(t *testing.T) {
	f := newFixture(t)
	m := readyEngineers(t, f)

	_, msgs := press(m, "r")
	if n := onlyNotice(t, msgs); n.Text != "Engineers list refreshed" {
		t.Errorf("notice = %q", n.Text)
	}
}
