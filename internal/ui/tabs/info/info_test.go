package info

import (
	"strings"
	"testing"
	"time"

	"github.com/lvanderveken/cycletrack/internal/app"
	"github.com/lvanderveken/cycletrack/internal/config"
)

func testConfig() *config.Config {
	return &config.Config{
		StorePath:       "/tmp/usage.json",
		DatabasePath:    "/tmp/history.db",
		LogPath:         "/tmp/cycletrack.log",
		RefreshInterval: time.Hour,
		Notifications:   true,
	}
}

func TestNew(t *testing.T) {
	m := New(app.NewState(), testConfig())
	if m == nil {
		t.Fatal("New returned nil")
	}
}

func TestModel_View(t *testing.T) {
	m := New(app.NewState(), testConfig())
	m.SetSize(80, 60)

	view := m.View()
	if view == "" {
		t.Fatal("View returned empty string")
	}
	if !strings.Contains(view, "/tmp/usage.json") {
		t.Errorf("view missing store path:\n%s", view)
	}
	if !strings.Contains(view, "1h0m0s") {
		t.Errorf("view missing refresh interval:\n%s", view)
	}
	if !strings.Contains(view, "calendar month") {
		t.Errorf("view missing cycle mode:\n%s", view)
	}
}

func TestModel_ViewNilConfig(t *testing.T) {
	m := New(app.NewState(), nil)
	m.SetSize(80, 60)

	view := m.View()
	if !strings.Contains(view, "Configuration not loaded") {
		t.Errorf("nil-config view missing placeholder:\n%s", view)
	}
}

func TestModel_SetSize(t *testing.T) {
	m := New(app.NewState(), testConfig())
	m.SetSize(100, 50)
}
