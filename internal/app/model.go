package app

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/lvanderveken/cycletrack/internal/db"
	"github.com/lvanderveken/cycletrack/internal/models"
	"github.com/lvanderveken/cycletrack/internal/store"
	"github.com/lvanderveken/cycletrack/internal/tracker"
	"github.com/lvanderveken/cycletrack/internal/ui/styles"
)

// TabID represents the identifier for a tab in the application.
type TabID int

const (
	// TabDashboard is the ID for the dashboard tab.
	TabDashboard TabID = iota
	// TabHistory is the ID for the history tab.
	TabHistory
	// TabInfo is the ID for the info tab.
	TabInfo
)

// String returns the string representation of the TabID.
func (t TabID) String() string {
	switch t {
	case TabDashboard:
		return "Dashboard"
	case TabHistory:
		return "History"
	case TabInfo:
		return "Info"
	default:
		return "Unknown"
	}
}

// Tab defines the interface that all tabs must implement.
type Tab interface {
	Init() tea.Cmd
	Update(msg tea.Msg) (Tab, tea.Cmd)
	View() string
	SetSize(width, height int)
	ShortHelp() []key.Binding
}

// KeyMap defines the keybindings for the application.
type KeyMap struct {
	Tab1         key.Binding
	Tab2         key.Binding
	Tab3         key.Binding
	NextTab      key.Binding
	PrevTab      key.Binding
	UpdateUsage  key.Binding
	SetLimit     key.Binding
	SetResetDate key.Binding
	ResetCycle   key.Binding
	Refresh      key.Binding
	Help         key.Binding
	Quit         key.Binding
	Confirm      key.Binding
	Cancel       key.Binding
}

// DefaultKeyMap returns the default keybindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Tab1:         key.NewBinding(key.WithKeys("1"), key.WithHelp("1", "dashboard")),
		Tab2:         key.NewBinding(key.WithKeys("2"), key.WithHelp("2", "history")),
		Tab3:         key.NewBinding(key.WithKeys("3"), key.WithHelp("3", "info")),
		NextTab:      key.NewBinding(key.WithKeys("tab", "right"), key.WithHelp("tab/→", "next tab")),
		PrevTab:      key.NewBinding(key.WithKeys("shift+tab", "left"), key.WithHelp("shift+tab/←", "prev tab")),
		UpdateUsage:  key.NewBinding(key.WithKeys("u"), key.WithHelp("u", "update usage")),
		SetLimit:     key.NewBinding(key.WithKeys("l"), key.WithHelp("l", "set limit")),
		SetResetDate: key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "set reset date")),
		ResetCycle:   key.NewBinding(key.WithKeys("R"), key.WithHelp("R", "reset cycle")),
		Refresh:      key.NewBinding(key.WithKeys("r", "ctrl+r"), key.WithHelp("r", "refresh")),
		Help:         key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "toggle help")),
		Quit:         key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		Confirm:      key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "confirm")),
		Cancel:       key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
	}
}

// ShortHelp returns key bindings for the short help view.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.UpdateUsage, k.SetLimit, k.SetResetDate, k.Help, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Tab1, k.Tab2, k.Tab3, k.NextTab, k.PrevTab},
		{k.UpdateUsage, k.SetLimit, k.SetResetDate, k.ResetCycle},
		{k.Refresh, k.Help, k.Quit},
	}
}

// promptMode says which edit the text-input overlay currently collects.
type promptMode int

const (
	promptNone promptMode = iota
	promptUsage
	promptLimit
	promptResetDate
	promptConfirmReset
)

// Model is the root Bubble Tea model.
type Model struct {
	svc      *tracker.Service
	database *db.DB
	st       *store.Store
	state    *State

	tabs      []Tab
	activeTab TabID

	keys   KeyMap
	help   help.Model
	input  textinput.Model
	prompt promptMode

	notice    string
	noticeErr bool

	refreshInterval time.Duration
	width           int
	height          int
}

// NewModel creates the root model. database may be nil (history disabled).
func NewModel(svc *tracker.Service, database *db.DB, st *store.Store, refreshInterval time.Duration) *Model {
	ti := textinput.New()
	ti.CharLimit = 32
	ti.Width = 24

	m := &Model{
		svc:             svc,
		database:        database,
		st:              st,
		state:           NewState(),
		keys:            DefaultKeyMap(),
		help:            help.New(),
		input:           ti,
		refreshInterval: refreshInterval,
	}
	m.state.SetSnapshot(initialSnapshot(svc))
	return m
}

// GetState returns the shared state tabs render from.
func (m *Model) GetState() *State {
	return m.state
}

// SetTabs installs the tab models.
func (m *Model) SetTabs(tabs []Tab) {
	m.tabs = tabs
}

// Init starts the tick loop and event subscriptions.
func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		tickCmd(m.refreshInterval),
		loadHistoryCmd(m.database),
		waitForTrackerEvent(m.svc.Events()),
	}
	if m.st != nil {
		cmds = append(cmds, waitForStoreChange(m.st.Changes()))
	}
	for _, tab := range m.tabs {
		if cmd := tab.Init(); cmd != nil {
			cmds = append(cmds, cmd)
		}
	}
	return tea.Batch(cmds...)
}

// Update handles messages.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		for _, tab := range m.tabs {
			tab.SetSize(msg.Width, msg.Height-4)
		}
		return m, nil

	case tea.KeyMsg:
		if m.prompt != promptNone {
			return m.updatePrompt(msg)
		}
		return m.updateKeys(msg)

	case TickMsg:
		return m, tea.Batch(
			refreshCmd(m.svc),
			loadHistoryCmd(m.database),
			tickCmd(m.refreshInterval),
		)

	case SnapshotMsg:
		m.state.SetSnapshot(msg.Snapshot)
		return m, nil

	case HistoryLoadedMsg:
		if msg.Error == nil {
			m.state.SetHistory(msg.Points)
		}
		return m, nil

	case EditResultMsg:
		return m.handleEditResult(msg)

	case ReloadedMsg:
		if msg.Error == nil {
			m.state.SetSnapshot(msg.Snapshot)
			m.setNotice("Record reloaded after external edit", false)
		} else {
			m.setNotice(fmt.Sprintf("Reload failed: %v", msg.Error), true)
		}
		return m, clearNoticeCmd()

	case TrackerEventMsg:
		return m.handleTrackerEvent(msg)

	case StoreChangedMsg:
		cmds := []tea.Cmd{reloadCmd(m.svc)}
		if m.st != nil {
			cmds = append(cmds, waitForStoreChange(m.st.Changes()))
		}
		return m, tea.Batch(cmds...)

	case TabSwitchMsg:
		if int(msg.Tab) < len(m.tabs) {
			m.activeTab = msg.Tab
		}
		return m, nil

	case ClearNoticeMsg:
		m.notice = ""
		return m, nil
	}

	// Forward everything else to the active tab.
	if int(m.activeTab) < len(m.tabs) {
		tab, cmd := m.tabs[m.activeTab].Update(msg)
		m.tabs[m.activeTab] = tab
		return m, cmd
	}
	return m, nil
}

func (m *Model) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil

	case key.Matches(msg, m.keys.Tab1):
		m.activeTab = TabDashboard
	case key.Matches(msg, m.keys.Tab2):
		m.activeTab = TabHistory
	case key.Matches(msg, m.keys.Tab3):
		m.activeTab = TabInfo
	case key.Matches(msg, m.keys.NextTab):
		if n := TabID(len(m.tabs)); n > 0 {
			m.activeTab = (m.activeTab + 1) % n
		}
	case key.Matches(msg, m.keys.PrevTab):
		if n := TabID(len(m.tabs)); n > 0 {
			m.activeTab = (m.activeTab + n - 1) % n
		}

	case key.Matches(msg, m.keys.Refresh):
		return m, tea.Batch(refreshCmd(m.svc), loadHistoryCmd(m.database))

	case key.Matches(msg, m.keys.UpdateUsage):
		return m.openPrompt(promptUsage), nil
	case key.Matches(msg, m.keys.SetLimit):
		return m.openPrompt(promptLimit), nil
	case key.Matches(msg, m.keys.SetResetDate):
		return m.openPrompt(promptResetDate), nil
	case key.Matches(msg, m.keys.ResetCycle):
		return m.openPrompt(promptConfirmReset), nil

	default:
		if int(m.activeTab) < len(m.tabs) {
			tab, cmd := m.tabs[m.activeTab].Update(msg)
			m.tabs[m.activeTab] = tab
			return m, cmd
		}
	}
	return m, nil
}

func (m *Model) openPrompt(mode promptMode) *Model {
	m.prompt = mode
	m.input.Reset()

	snap := m.state.Snapshot()
	switch mode {
	case promptUsage:
		m.input.Placeholder = fmt.Sprintf("current: %.1f", snap.Record.CurrentUsage)
	case promptLimit:
		m.input.Placeholder = fmt.Sprintf("current: %.1f", snap.Record.MonthlyLimit)
	case promptResetDate:
		m.input.Placeholder = "YYYY-MM-DD"
	case promptConfirmReset:
		m.input.Placeholder = ""
	}
	m.input.Focus()
	return m
}

func (m *Model) updatePrompt(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Cancel):
		m.prompt = promptNone
		m.input.Blur()
		return m, nil

	case key.Matches(msg, m.keys.Confirm):
		return m.submitPrompt()
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) submitPrompt() (tea.Model, tea.Cmd) {
	mode := m.prompt
	value := strings.TrimSpace(m.input.Value())
	m.prompt = promptNone
	m.input.Blur()

	switch mode {
	case promptUsage, promptLimit:
		v, err := strconv.ParseFloat(value, 64)
		if err != nil {
			m.setNotice(fmt.Sprintf("Not a number: %q", value), true)
			return m, clearNoticeCmd()
		}
		if mode == promptUsage {
			return m, updateUsageCmd(m.svc, v)
		}
		return m, setLimitCmd(m.svc, v)

	case promptResetDate:
		return m, setResetDateCmd(m.svc, value)

	case promptConfirmReset:
		return m, resetCycleCmd(m.svc)
	}
	return m, nil
}

func (m *Model) handleEditResult(msg EditResultMsg) (tea.Model, tea.Cmd) {
	if msg.Error != nil {
		m.setNotice(fmt.Sprintf("Rejected %s: %v", msg.Action, msg.Error), true)
		return m, clearNoticeCmd()
	}
	m.state.SetSnapshot(msg.Snapshot)
	m.setNotice(fmt.Sprintf("Updated %s", msg.Action), false)
	return m, tea.Batch(clearNoticeCmd(), loadHistoryCmd(m.database))
}

func (m *Model) handleTrackerEvent(msg TrackerEventMsg) (tea.Model, tea.Cmd) {
	cmds := []tea.Cmd{waitForTrackerEvent(m.svc.Events())}

	switch ev := msg.Event.(type) {
	case tracker.RecordChangedEvent:
		m.state.SetSnapshot(ev.Snapshot)
	case tracker.RolloverEvent:
		m.setNotice("New billing cycle started "+ev.NewResetDate, false)
		cmds = append(cmds, clearNoticeCmd(), snapshotCmd(m.svc))
	case tracker.StatusChangedEvent:
		m.setNotice(fmt.Sprintf("Status: %s → %s", ev.From, ev.To), ev.To != models.StatusOnTrack)
		cmds = append(cmds, clearNoticeCmd())
	}
	return m, tea.Batch(cmds...)
}

func (m *Model) setNotice(text string, isErr bool) {
	m.notice = text
	m.noticeErr = isErr
}

// View renders the full application frame.
func (m *Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	var b strings.Builder

	b.WriteString(m.viewHeader())
	b.WriteString("\n")
	b.WriteString(m.viewTabBar())
	b.WriteString("\n")

	if int(m.activeTab) < len(m.tabs) {
		b.WriteString(m.tabs[m.activeTab].View())
	}
	b.WriteString("\n")

	if m.prompt != promptNone {
		b.WriteString(m.viewPrompt())
		b.WriteString("\n")
	}
	if m.notice != "" {
		style := styles.NotificationInfoStyle
		if m.noticeErr {
			style = styles.NotificationErrorStyle
		}
		b.WriteString(style.Render(m.notice))
		b.WriteString("\n")
	}

	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func (m *Model) viewHeader() string {
	snap := m.state.Snapshot()
	title := styles.TitleStyle.Render("cycletrack " + snap.Title())
	return ansi.Truncate(title, m.width, "…")
}

func (m *Model) viewTabBar() string {
	var rendered []string
	for i := range m.tabs {
		id := TabID(i)
		label := fmt.Sprintf("%d %s", i+1, id)
		if id == m.activeTab {
			rendered = append(rendered, styles.ActiveTabStyle.Render(label))
		} else {
			rendered = append(rendered, styles.InactiveTabStyle.Render(label))
		}
	}
	bar := lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
	return ansi.Truncate(bar, m.width, "…")
}

func (m *Model) viewPrompt() string {
	var label string
	switch m.prompt {
	case promptUsage:
		label = "Enter current usage"
	case promptLimit:
		label = "Enter monthly limit"
	case promptResetDate:
		label = "Enter billing reset date (YYYY-MM-DD)"
	case promptConfirmReset:
		label = "Reset usage to 0? Press enter to confirm, esc to cancel"
	}

	content := styles.SubTitleStyle.Render(label)
	if m.prompt != promptConfirmReset {
		content += "\n" + m.input.View()
	}
	return styles.PromptStyle.Render(content)
}
