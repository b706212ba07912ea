// ABOUTME: Integration tests for the root TUI model
// ABOUTME: Tests screen wiring, optimistic rollback, and session expiry routing

package tui

import (
	"net/http"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/golang-jwt/jwt/v5"

	"github.com/crmdesk/cli/internal/api"
	"github.com/crmdesk/cli/internal/config"
	"github.com/crmdesk/cli/internal/query"
	"github.com/crmdesk/cli/internal/session"
)

func testToken(t *testing.T, roles []string) string {
	t.Helper()
	claims := jwt.MapClaims{
		"sub":       "grace@example.com",
		"userId":    7,
		"firstName": "Grace",
		"lastName":  "Hopper",
		"roles":     roles,
		"exp":       time.Now().Add(time.Hour).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}
	return signed
}

func testApp(t *testing.T, loggedIn bool, roles []string) *App {
	t.Helper()
	cfg := &config.Config{APIURL: "http://localhost:8080", ConfigDir: t.TempDir(), CacheTTL: 300}
	tokens := session.NewTokenFile(cfg.ConfigDir)
	client := api.New(cfg.APIURL, tokens)
	store := session.New(tokens, client)
	if loggedIn {
		if err := tokens.Save(testToken(t, roles)); err != nil {
			t.Fatalf("failed to save token: %v", err)
		}
	}
	store.Bootstrap()

	app := New(cfg, client, store, query.NewRunner(time.Minute))
	model, _ := app.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return model.(*App)
}

func TestInitialScreen_LoginWhenLoggedOut(t *testing.T) {
	app := testApp(t, false, nil)
	if app.screen != screenLogin {
		t.Errorf("expected login screen without a session, got %d", app.screen)
	}
}

func TestInitialScreen_TicketsWhenLoggedIn(t *testing.T) {
	app := testApp(t, true, []string{api.RoleAgent})
	if app.screen != screenTickets {
		t.Errorf("expected ticket screen with a valid session, got %d", app.screen)
	}
}

func TestTicketsLoaded_RendersRows(t *testing.T) {
	app := testApp(t, true, []string{api.RoleAgent})

	model, _ := app.Update(ticketsLoadedMsg{
		tickets: []api.Ticket{
			{ID: 1, Subject: "VPN down", Status: api.StatusOpen, Priority: api.PriorityHigh, CreatedAt: time.Now()},
		},
		sortBy: api.SortNewest,
	})
	app = model.(*App)

	view := app.View()
	if !strings.Contains(view, "VPN down") {
		t.Error("expected ticket subject in view")
	}
	if !strings.Contains(view, "Grace Hopper") {
		t.Error("expected logged-in user in header")
	}
}

func TestTicketsLoaded_AppliesSort(t *testing.T) {
	app := testApp(t, true, []string{api.RoleAgent})
	old := time.Now().Add(-time.Hour)

	model, _ := app.Update(ticketsLoadedMsg{
		tickets: []api.Ticket{
			{ID: 1, Subject: "older", CreatedAt: old},
			{ID: 2, Subject: "newer", CreatedAt: time.Now()},
		},
		sortBy: api.SortNewest,
	})
	app = model.(*App)

	view := app.View()
	if strings.Index(view, "newer") > strings.Index(view, "older") {
		t.Error("expected newest ticket first")
	}
}

func TestSessionExpired_RoutesToLogin(t *testing.T) {
	app := testApp(t, true, []string{api.RoleAgent})

	model, _ := app.Update(ticketsLoadedMsg{err: &api.Error{Status: http.StatusUnauthorized, Message: "token expired"}})
	app = model.(*App)

	if app.screen != screenLogin {
		t.Errorf("expected login screen after 401, got %d", app.screen)
	}
	if app.store.IsAuthenticated() {
		t.Error("expected session cleared after 401")
	}
	if !strings.Contains(app.View(), "Session expired") {
		t.Error("expected expiry notice on login screen")
	}
}

func TestStatusMutationFailure_RollsBack(t *testing.T) {
	app := testApp(t, true, []string{api.RoleAgent})
	model, _ := app.Update(ticketsLoadedMsg{
		tickets: []api.Ticket{{ID: 5, Subject: "Flaky wifi", Status: api.StatusOpen, Priority: api.PriorityMedium, CreatedAt: time.Now()}},
		sortBy:  api.SortNewest,
	})
	app = model.(*App)

	// Optimistic apply happens when the screen requests the change.
	app.tickets.ApplyStatus(5, api.StatusInProgress)

	model, _ = app.Update(statusResultMsg{
		id:   5,
		from: api.StatusOpen,
		err:  &api.Error{Status: http.StatusBadRequest, Message: "Invalid status transition"},
	})
	app = model.(*App)

	if sel := app.tickets.Selected(); sel == nil || sel.Status != api.StatusOpen {
		t.Error("expected failed mutation rolled back to OPEN")
	}
	if !strings.Contains(app.View(), "Invalid status transition") {
		t.Error("expected backend message surfaced verbatim")
	}
}

func TestDepartmentsScreen_AdminOnly(t *testing.T) {
	agent := testApp(t, true, []string{api.RoleAgent})
	model, _ := agent.Update(tea.KeyMsg{Type: tea.KeyCtrlD})
	agent = model.(*App)
	if agent.screen != screenTickets {
		t.Error("expected non-admin blocked from the departments screen")
	}

	admin := testApp(t, true, []string{api.RoleAdmin})
	model, _ = admin.Update(tea.KeyMsg{Type: tea.KeyCtrlD})
	admin = model.(*App)
	if admin.screen != screenDepartments {
		t.Error("expected admin to reach the departments screen")
	}
}

func TestLogoutKey_ReturnsToLogin(t *testing.T) {
	app := testApp(t, true, []string{api.RoleAgent})
	model, _ := app.Update(tea.KeyMsg{Type: tea.KeyCtrlL})
	app = model.(*App)

	if app.screen != screenLogin {
		t.Errorf("expected login screen after logout, got %d", app.screen)
	}
	if app.store.IsAuthenticated() {
		t.Error("expected session cleared on logout")
	}
}
