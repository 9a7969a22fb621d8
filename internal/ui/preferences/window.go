// Package preferences provides the settings window.
package preferences

import (
	"fmt"
	"strconv"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"

	"focusloop/internal/core/model"
)

// Window handles the preferences UI.
type Window struct {
	window        fyne.Window
	settings      model.Settings
	onSave        func(model.Settings)
	workMin       *widget.Entry
	shortMin      *widget.Entry
	longMin       *widget.Entry
	interval      *widget.Entry
	autoBreaks    *widget.Check
	autoWork      *widget.Check
	notifications *widget.Check
}

// New creates a preferences window.
func New(app fyne.App, settings model.Settings, onSave func(model.Settings)) *Window {
	window := app.NewWindow("FocusLoop Settings")

	workMin := widget.NewEntry()
	shortMin := widget.NewEntry()
	longMin := widget.NewEntry()
	interval := widget.NewEntry()

	autoBreaks := widget.NewCheck("Start breaks automatically", nil)
	autoWork := widget.NewCheck("Start work automatically after breaks", nil)
	notifications := widget.NewCheck("Desktop notifications", nil)

	form := container.NewVBox(
		widget.NewLabelWithStyle("Durations", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		container.NewHBox(widget.NewLabel("Work session"), workMin, widget.NewLabel("min")),
		container.NewHBox(widget.NewLabel("Short break"), shortMin, widget.NewLabel("min")),
		container.NewHBox(widget.NewLabel("Long break"), longMin, widget.NewLabel("min")),
		container.NewHBox(widget.NewLabel("Long break every"), interval, widget.NewLabel("work sessions")),
		widget.NewLabelWithStyle("Behavior", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		autoBreaks,
		autoWork,
		notifications,
	)

	saveButton := widget.NewButton("Save", nil)
	cancelButton := widget.NewButton("Cancel", nil)
	buttons := container.NewHBox(saveButton, layout.NewSpacer(), cancelButton)

	window.SetContent(container.NewBorder(nil, buttons, nil, nil, form))
	window.Resize(fyne.NewSize(400, 360))
	window.SetCloseIntercept(window.Hide)

	prefs := &Window{
		window:        window,
		settings:      settings,
		onSave:        onSave,
		workMin:       workMin,
		shortMin:      shortMin,
		longMin:       longMin,
		interval:      interval,
		autoBreaks:    autoBreaks,
		autoWork:      autoWork,
		notifications: notifications,
	}
	prefs.applySettings(settings)

	saveButton.OnTapped = prefs.handleSave
	cancelButton.OnTapped = func() {
		prefs.applySettings(prefs.settings)
		window.Hide()
	}

	return prefs
}

// Show displays the preferences window.
func (prefs *Window) Show() {
	prefs.window.Show()
	prefs.window.RequestFocus()
}

// UpdateSettings replaces window values.
func (prefs *Window) UpdateSettings(settings model.Settings) {
	prefs.settings = settings
	prefs.applySettings(settings)
}

func (prefs *Window) applySettings(settings model.Settings) {
	prefs.workMin.SetText(fmt.Sprintf("%d", settings.WorkMinutes))
	prefs.shortMin.SetText(fmt.Sprintf("%d", settings.ShortBreakMinutes))
	prefs.longMin.SetText(fmt.Sprintf("%d", settings.LongBreakMinutes))
	prefs.interval.SetText(fmt.Sprintf("%d", settings.LongBreakInterval))
	prefs.autoBreaks.SetChecked(settings.AutoStartBreaks)
	prefs.autoWork.SetChecked(settings.AutoStartWork)
	prefs.notifications.SetChecked(settings.Notifications)
}

func (prefs *Window) handleSave() {
	settings := prefs.settings

	if minutes, ok := parseIntInRange(prefs.workMin.Text, 1, 60); ok {
		settings.WorkMinutes = minutes
	}
	if minutes, ok := parseIntInRange(prefs.shortMin.Text, 1, 60); ok {
		settings.ShortBreakMinutes = minutes
	}
	if minutes, ok := parseIntInRange(prefs.longMin.Text, 1, 60); ok {
		settings.LongBreakMinutes = minutes
	}
	if count, ok := parseIntInRange(prefs.interval.Text, 1, 10); ok {
		settings.LongBreakInterval = count
	}

	settings.AutoStartBreaks = prefs.autoBreaks.Checked
	settings.AutoStartWork = prefs.autoWork.Checked
	settings.Notifications = prefs.notifications.Checked

	prefs.settings = settings
	if prefs.onSave != nil {
		prefs.onSave(settings)
	}
	prefs.window.Hide()
}

func parseIntInRange(value string, min, max int) (int, bool) {
	parsed, err := strconv.Atoi(value)
	if err != nil || parsed < min || parsed > max {
		return 0, false
	}
	return parsed, true
}
