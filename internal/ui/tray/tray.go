package tray

import (
	"fmt"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"
)

// Callbacks defines tray action handlers.
type Callbacks struct {
	OnToggle      func()
	OnReset       func()
	OnCycleMode   func()
	OnPauseFor    func(time.Duration)
	OnPreferences func()
	OnQuit        func()
}

// Manager handles system tray state. The single toggle item doubles as
// start, pause, resume and acknowledge, mirroring the primary control.
type Manager struct {
	app         desktop.App
	statusItem  *fyne.MenuItem
	toggleItem  *fyne.MenuItem
	resetItem   *fyne.MenuItem
	cycleItem   *fyne.MenuItem
	pauseFor    *fyne.MenuItem
	todayItem   *fyne.MenuItem
	weekItem    *fyne.MenuItem
	callbacks   Callbacks
	statusLabel string
}

// New creates a tray manager with the provided callbacks.
func New(app desktop.App, callbacks Callbacks) *Manager {
	manager := &Manager{
		app:       app,
		callbacks: callbacks,
	}

	manager.statusItem = fyne.NewMenuItem("Status: idle", nil)
	manager.statusItem.Disabled = true

	manager.toggleItem = fyne.NewMenuItem("Start", func() {
		if manager.callbacks.OnToggle != nil {
			manager.callbacks.OnToggle()
		}
	})

	manager.resetItem = fyne.NewMenuItem("Reset", func() {
		if manager.callbacks.OnReset != nil {
			manager.callbacks.OnReset()
		}
	})

	manager.cycleItem = fyne.NewMenuItem("Switch mode", func() {
		if manager.callbacks.OnCycleMode != nil {
			manager.callbacks.OnCycleMode()
		}
	})

	manager.pauseFor = fyne.NewMenuItem("Pause for...", nil)
	manager.pauseFor.ChildMenu = fyne.NewMenu("",
		fyne.NewMenuItem("5 minutes", func() {
			if manager.callbacks.OnPauseFor != nil {
				manager.callbacks.OnPauseFor(5 * time.Minute)
			}
		}),
		fyne.NewMenuItem("15 minutes", func() {
			if manager.callbacks.OnPauseFor != nil {
				manager.callbacks.OnPauseFor(15 * time.Minute)
			}
		}),
		fyne.NewMenuItem("30 minutes", func() {
			if manager.callbacks.OnPauseFor != nil {
				manager.callbacks.OnPauseFor(30 * time.Minute)
			}
		}),
		fyne.NewMenuItem("60 minutes", func() {
			if manager.callbacks.OnPauseFor != nil {
				manager.callbacks.OnPauseFor(60 * time.Minute)
			}
		}))

	manager.todayItem = fyne.NewMenuItem("Today: no sessions", nil)
	manager.todayItem.Disabled = true
	manager.weekItem = fyne.NewMenuItem("This week: no sessions", nil)
	manager.weekItem.Disabled = true

	app.SetSystemTrayMenu(manager.buildMenu())
	return manager
}

// SetStatus updates the status line, e.g. "Work 24:10".
func (manager *Manager) SetStatus(status string) {
	manager.statusLabel = status
	manager.statusItem.Label = fmt.Sprintf("Status: %s", status)
	manager.refreshMenu()
}

// SetToggleLabel renames the primary control, e.g. "Pause" or
// "Acknowledge".
func (manager *Manager) SetToggleLabel(label string) {
	manager.toggleItem.Label = label
	manager.refreshMenu()
}

// SetCycleEnabled enables mode switching only while the timer is idle.
func (manager *Manager) SetCycleEnabled(enabled bool) {
	manager.cycleItem.Disabled = !enabled
	manager.refreshMenu()
}

// SetStats updates the focus statistics lines.
func (manager *Manager) SetStats(today, week string) {
	manager.todayItem.Label = fmt.Sprintf("Today: %s", today)
	manager.weekItem.Label = fmt.Sprintf("This week: %s", week)
	manager.refreshMenu()
}

func (manager *Manager) buildMenu() *fyne.Menu {
	return fyne.NewMenu("FocusLoop",
		manager.statusItem,
		manager.todayItem,
		manager.weekItem,
		manager.toggleItem,
		manager.resetItem,
		manager.cycleItem,
		manager.pauseFor,
		fyne.NewMenuItem("Preferences", func() {
			if manager.callbacks.OnPreferences != nil {
				manager.callbacks.OnPreferences()
			}
		}),
		fyne.NewMenuItem("Quit", func() {
			if manager.callbacks.OnQuit != nil {
				manager.callbacks.OnQuit()
			}
		}),
	)
}

func (manager *Manager) refreshMenu() {
	if manager.app != nil {
		manager.app.SetSystemTrayMenu(manager.buildMenu())
	}
}
