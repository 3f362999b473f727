package main

import (
	"errors"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"startime/config"
	"startime/model"
	"startime/storage"
	"startime/ui"
)

const Version = "v0.1.0"

// runModal shows a standalone full-screen program before the app starts
func runModal(m tea.Model) tea.Model {
	p := tea.NewProgram(m, tea.WithAltScreen())
	final, err := p.Run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	return final
}

func main() {
	// Environment configuration is all or nothing
	if config.HasAnyEnvVar() && !config.HasAllEnvVars() {
		errorMsg := fmt.Sprintf("Missing environment variable: %s\n\n"+
			"When using environment variables, all 3 must be set:\n"+
			"  • %s\n"+
			"  • %s\n"+
			"  • %s\n\n"+
			"Set the missing variable(s) before launching startime.",
			config.GetMissingEnvVar(), config.EnvHTTPBackend, config.EnvWSBackend, config.EnvDataDir)

		runModal(ui.NewErrorModal("Configuration Error", errorMsg))
		os.Exit(0)
	}

	cfg, err := config.Load()
	if err != nil {
		runModal(ui.NewErrorModal("Configuration Error", err.Error()))
		os.Exit(1)
	}

	config.InitDebugLog(cfg.DataDir())

	enc := config.NewEncryptionManager(cfg.SecurityMethod, cfg.SSHKeyPath)
	if err := enc.Initialize(); err != nil {
		if !errors.Is(err, config.ErrPassphraseRequired) {
			runModal(ui.NewErrorModal("Encryption Error", err.Error()))
			os.Exit(1)
		}

		final := runModal(ui.NewPassphraseModal(cfg.SSHKeyPath, enc))
		if pm, ok := final.(ui.PassphraseModal); !ok || !pm.Unlocked() {
			os.Exit(0)
		}
	}

	kb, err := config.LoadKeybindings(cfg.DataDir())
	if err != nil {
		if config.DebugLog != nil {
			config.DebugLog.Printf("Keybindings unreadable, using defaults: %v", err)
		}
		kb = config.DefaultKeybindings()
	}
	if ok, msg := kb.Validate(); !ok {
		runModal(ui.NewErrorModal("Keybinding Error", msg))
		os.Exit(1)
	}

	lock := storage.NewInstanceLock(cfg.DataDir())
	isLocked, runningPID, err := lock.Check()
	if err != nil {
		fmt.Printf("Failed to check instance lock: %v\n", err)
		os.Exit(1)
	}
	if isLocked {
		final := runModal(ui.NewInstanceLockedModal(runningPID))
		if lm, ok := final.(ui.InstanceLockedModal); !ok || !lm.ForceDelete() {
			os.Exit(0)
		}
		if config.DebugLog != nil {
			config.DebugLog.Printf("Removing lock file held by PID %d on user request", runningPID)
		}
	}

	if err := lock.Lock(); err != nil {
		fmt.Printf("Failed to lock data directory: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		if err := lock.Unlock(); err != nil && config.DebugLog != nil {
			config.DebugLog.Printf("Warning: failed to remove lock file: %v", err)
		}
	}()

	store, err := storage.NewKVStore(cfg.DataDir())
	if err != nil {
		_ = lock.Unlock()
		fmt.Printf("Failed to open local store: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	m, err := model.NewModel(cfg, store, enc, Version)
	if err != nil {
		store.Close()
		_ = lock.Unlock()
		fmt.Printf("Failed to restore state: %v\n", err)
		os.Exit(1)
	}

	p := tea.NewProgram(ui.NewAppView(m, kb), tea.WithAltScreen())
	_, runErr := p.Run()
	m.Shutdown()

	if runErr != nil {
		fmt.Printf("Error running startime: %v\n", runErr)
		store.Close()
		_ = lock.Unlock()
		os.Exit(1)
	}
}
