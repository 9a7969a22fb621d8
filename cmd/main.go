package main

import (
	"fmt"
	"log"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"focusloop/internal/core/engine"
	"focusloop/internal/core/model"
	"focusloop/internal/core/orchestrator"
	"focusloop/internal/core/stats"
	"focusloop/internal/notify"
	"focusloop/internal/platform"
	"focusloop/internal/storage"
	"focusloop/internal/ui/preferences"
	"focusloop/internal/ui/tray"
)

const appName = "FocusLoop"

// loggingRecorder persists completed sessions and logs failures; the
// orchestrator itself never performs I/O.
type loggingRecorder struct {
	sessions storage.SessionLog
}

func (recorder loggingRecorder) Append(session model.Session) error {
	if err := recorder.sessions.Append(session); err != nil {
		log.Printf("record session: %v", err)
		return err
	}
	return nil
}

func main() {
	guard, err := platform.AcquireSingleInstance(appName)
	if err != nil {
		log.Printf("single instance: %v", err)
		return
	}
	defer func() {
		_ = guard.Release()
	}()

	settings, err := storage.LoadSettings(appName)
	if err != nil {
		log.Printf("load settings: %v", err)
	}

	configDir, err := storage.ConfigDir(appName)
	if err != nil {
		log.Printf("config dir: %v", err)
		return
	}
	sessionLog, err := storage.NewJSONSessionLog(configDir)
	if err != nil {
		log.Printf("open session log: %v", err)
		return
	}

	orc := orchestrator.New(settings, orchestrator.Config{
		Recorder: loggingRecorder{sessions: sessionLog},
	})
	dispatcher := notify.NewDispatcher(settings.Notifications)

	fyneApp := app.NewWithID("com.focusloop.app")
	desktopApp, ok := fyneApp.(desktop.App)
	if !ok {
		log.Printf("system tray unsupported on this platform")
		return
	}

	trayWindow := fyneApp.NewWindow(appName)
	trayWindow.SetContent(widget.NewLabel("FocusLoop is running in the system tray."))
	trayWindow.SetCloseIntercept(trayWindow.Hide)
	trayWindow.Hide()
	desktopApp.SetSystemTrayWindow(trayWindow)

	var prefsWindow *preferences.Window
	prefsWindow = preferences.New(fyneApp, settings, func(updated model.Settings) {
		if err := orc.UpdateSettings(updated); err != nil {
			log.Printf("update settings: %v", err)
			prefsWindow.UpdateSettings(orc.Settings())
			return
		}
		dispatcher.SetEnabled(updated.Notifications)
		if err := storage.SaveSettings(appName, updated); err != nil {
			log.Printf("save settings: %v", err)
		}
	})

	var pauseTimer *time.Timer
	var trayManager *tray.Manager
	trayManager = tray.New(desktopApp, tray.Callbacks{
		OnToggle: func() {
			orc.ToggleStartPause()
		},
		OnReset: func() {
			orc.Reset()
		},
		OnCycleMode: func() {
			if err := orc.CycleMode(); err != nil {
				log.Printf("cycle mode: %v", err)
			}
		},
		OnPauseFor: func(duration time.Duration) {
			if pauseTimer != nil {
				pauseTimer.Stop()
			}
			orc.Pause()
			pauseTimer = time.AfterFunc(duration, orc.Resume)
		},
		OnPreferences: func() {
			prefsWindow.Show()
		},
		OnQuit: func() {
			orc.Close()
			fyneApp.Quit()
		},
	})

	runningIcon := theme.MediaPlayIcon()
	idleIcon := theme.MediaPauseIcon()
	desktopApp.SetSystemTrayIcon(idleIcon)

	refreshStats := func() {
		sessions, err := sessionLog.All()
		if err != nil {
			log.Printf("read session log: %v", err)
			return
		}
		now := time.Now()
		today := stats.Summarize(sessions, stats.PeriodDaily, now)
		week := stats.Summarize(sessions, stats.PeriodWeekly, now)
		trayManager.SetStats(formatSummary(today), formatSummary(week))
	}

	awaitingAck := false
	events := orc.Subscribe(16)
	go func() {
		for event := range events {
			switch event.Type {
			case orchestrator.EventTick:
				ack := awaitingAck
				fyne.Do(func() {
					handleTick(event, trayManager, desktopApp, runningIcon, idleIcon, ack)
				})
			case orchestrator.EventAwaitingAck:
				awaitingAck = true
				dispatcher.Completed(event.Mode, event.NextMode)
				fyne.Do(func() {
					trayManager.SetStatus(fmt.Sprintf("%s complete", event.Mode.Label()))
					trayManager.SetToggleLabel("Acknowledge")
					trayManager.SetCycleEnabled(false)
					refreshStats()
				})
			case orchestrator.EventAcknowledged:
				awaitingAck = false
				if event.Snapshot.State == engine.StateRunning {
					dispatcher.Started(event.Mode)
				}
				fyne.Do(func() {
					handleTick(event, trayManager, desktopApp, runningIcon, idleIcon, false)
				})
			}
		}
	}()

	refreshStats()
	trayManager.SetStatus(fmt.Sprintf("%s (idle)", orc.Mode().Label()))

	fyneApp.Run()
}

func handleTick(event orchestrator.Event, trayManager *tray.Manager, desktopApp desktop.App, runningIcon, idleIcon fyne.Resource, awaitingAck bool) {
	if awaitingAck {
		return
	}
	switch event.Snapshot.State {
	case engine.StateRunning:
		trayManager.SetStatus(fmt.Sprintf("%s %s", event.Mode.Label(), formatRemaining(event.Snapshot.Remaining)))
		trayManager.SetToggleLabel("Pause")
		trayManager.SetCycleEnabled(false)
		desktopApp.SetSystemTrayIcon(runningIcon)
	case engine.StatePaused:
		trayManager.SetStatus(fmt.Sprintf("%s %s (paused)", event.Mode.Label(), formatRemaining(event.Snapshot.Remaining)))
		trayManager.SetToggleLabel("Resume")
		trayManager.SetCycleEnabled(false)
		desktopApp.SetSystemTrayIcon(idleIcon)
	default:
		trayManager.SetStatus(fmt.Sprintf("%s (idle)", event.Mode.Label()))
		trayManager.SetToggleLabel("Start")
		trayManager.SetCycleEnabled(true)
		desktopApp.SetSystemTrayIcon(idleIcon)
	}
}

func formatRemaining(remaining time.Duration) string {
	if remaining < 0 {
		remaining = 0
	}
	seconds := int(remaining.Seconds())
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}

func formatSummary(summary stats.Summary) string {
	if summary.CompletedCount == 0 {
		return "no sessions"
	}
	word := "sessions"
	if summary.CompletedCount == 1 {
		word = "session"
	}
	return fmt.Sprintf("%d %s (%s)", summary.CompletedCount, word, formatFocus(summary.TotalFocus))
}

func formatFocus(total time.Duration) string {
	minutes := int(total.Minutes())
	if minutes < 60 {
		return fmt.Sprintf("%dm", minutes)
	}
	return fmt.Sprintf("%dh %02dm", minutes/60, minutes%60)
}
