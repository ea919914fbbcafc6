package login

import (
	"strings"
	"testing"

	"buzz/internal/testing/fakeauth"

	tea "github.com/charmbracelet/bubbletea"
)

func TestView_MountScreen(t *testing.T) {
	view := newTestModel(&fakeauth.Gateway{}).View()

	for _, want := range []string{"B U Z Z", PasscodePlaceholder, sendLabel, signInLabel} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestView_PasscodeIsMasked(t *testing.T) {
	m := filled(t, &fakeauth.Gateway{})
	view := m.View()

	if strings.Contains(view, "123456") {
		t.Error("passcode should not be rendered in clear text")
	}
	if !strings.Contains(view, "••••••") {
		t.Error("expected masked passcode")
	}
}

func TestView_ShowsProgressWhilePending(t *testing.T) {
	m := newTestModel(&fakeauth.Gateway{})
	m = typeText(t, m, "a@b.com")
	m, _ = press(t, m, tea.KeyEnter)

	if !strings.Contains(m.View(), "Sending code...") {
		t.Error("expected request progress line")
	}
}

func TestView_ShowsAlertText(t *testing.T) {
	gw := &fakeauth.Gateway{RequestErr: fakeauth.BackendError(400, "Invalid email")}
	m := newTestModel(gw)
	m = typeText(t, m, "a@b.com")
	m, cmd := press(t, m, tea.KeyEnter)
	m, _ = settle(t, m, cmd)

	view := m.View()
	if !strings.Contains(view, "Invalid email") {
		t.Error("alert text missing from view")
	}
	if !strings.Contains(view, "ok") {
		t.Error("alert help should offer dismissal")
	}
}

func TestView_SignedIn(t *testing.T) {
	m := filled(t, &fakeauth.Gateway{})
	m, cmd := press(t, m, tea.KeyEnter)
	if !strings.Contains(m.View(), "Signing in...") {
		t.Error("expected verify progress line")
	}

	m, _ = settle(t, m, cmd)
	if !strings.Contains(m.View(), "Signed in as a@b.com") {
		t.Error("expected signed-in status line")
	}
}
