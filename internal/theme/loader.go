package theme

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
)

// Loader resolves palettes by name with hot-reload support.
type Loader struct {
	mu          sync.RWMutex
	logger      *slog.Logger
	themesDir   string
	currentName string
	theme       *Theme
	watcher     *Watcher

	// Set by StartHotReload; LoadTheme moves the watcher to the new theme.
	hotReload bool
	hotCtx    context.Context
	onChange  func(*Theme)
}

// NewLoader creates a loader reading user palettes from themesDir. An empty
// themesDir means ThemesDir().
func NewLoader(themesDir string, logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}

	if themesDir == "" {
		dir, err := ThemesDir()
		if err != nil {
			logger.Warn("failed to get themes directory", "error", err)
		}
		themesDir = dir
	}

	return &Loader{
		logger:    logger,
		themesDir: themesDir,
	}
}

// LoadTheme loads a palette by name.
// Resolution order:
//  1. User themes directory (~/.config/poptui/themes/<name>.toml)
//  2. Bundled palettes
//  3. The bundled default
//
// A user file with a bundled name overrides the bundled palette.
func (l *Loader) LoadTheme(name string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if name == "" {
		name = DefaultThemeName
	}

	if l.themesDir != "" {
		path := filepath.Join(l.themesDir, name+".toml")
		if _, err := os.Stat(path); err == nil {
			t, err := NewTheme(name, path)
			if err != nil {
				l.logger.Warn("failed to load user theme, trying bundled", "theme", name, "error", err)
			} else {
				l.setTheme(t)
				l.logger.Debug("loaded user theme", "name", name, "path", path)
				return nil
			}
		}
	}

	if t, err := NewEmbeddedTheme(name); err == nil {
		l.setTheme(t)
		l.logger.Debug("loaded bundled theme", "name", name)
		return nil
	}

	l.logger.Warn("theme not found, using default", "theme", name)
	l.setTheme(NewDefaultTheme())
	return nil
}

func (l *Loader) setTheme(t *Theme) {
	l.theme = t
	l.currentName = t.Name
	if l.hotReload {
		l.restartWatcherLocked()
	}
}

// Theme returns the currently loaded theme, loading the default if nothing
// has been loaded yet.
func (l *Loader) Theme() *Theme {
	l.mu.RLock()
	t := l.theme
	l.mu.RUnlock()
	if t != nil {
		return t
	}

	_ = l.LoadTheme("")
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.theme
}

// CurrentTheme returns the name of the currently loaded theme.
func (l *Loader) CurrentTheme() string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.currentName
}

// Reload reloads the current theme from disk.
func (l *Loader) Reload() error {
	return l.LoadTheme(l.CurrentTheme())
}

// StartHotReload starts watching the current theme file and calls onChange
// with the reloaded theme. Bundled themes are not watched, but hot reload
// stays armed: a later LoadTheme of a user theme starts watching that file.
func (l *Loader) StartHotReload(ctx context.Context, onChange func(*Theme)) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.hotReload = true
	l.hotCtx = ctx
	l.onChange = onChange
	l.restartWatcherLocked()
}

// restartWatcherLocked replaces the watcher with one for the current theme.
// l.mu must be held.
func (l *Loader) restartWatcherLocked() {
	if l.watcher != nil {
		l.watcher.Stop()
		l.watcher = nil
	}

	if l.theme == nil || l.theme.IsDefault {
		l.logger.Debug("not starting hot-reload for bundled theme")
		return
	}

	onChange := l.onChange
	l.watcher = NewWatcher(l.theme, l.logger)
	l.watcher.SetChangeCallback(func(t *Theme) {
		l.logger.Info("hot-reloaded theme", "name", t.Name)
		if onChange != nil {
			onChange(t)
		}
	})

	if err := l.watcher.Start(l.hotCtx); err != nil {
		l.logger.Warn("failed to start theme watcher", "error", err)
	}
}

// IsWatching reports whether a theme file is being watched.
func (l *Loader) IsWatching() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.watcher != nil && l.watcher.IsRunning()
}

// StopHotReload stops watching the theme for changes.
func (l *Loader) StopHotReload() {
	l.mu.Lock()
	w := l.watcher
	l.watcher = nil
	l.hotReload = false
	l.hotCtx = nil
	l.onChange = nil
	l.mu.Unlock()

	if w != nil {
		w.Stop()
	}
}

// ListThemes returns available palette names, bundled first.
func (l *Loader) ListThemes() []string {
	infos, err := ListAvailableThemes(l.themesDir)
	if err != nil {
		l.logger.Debug("failed to read themes directory", "error", err)
	}
	names := make([]string, 0, len(infos))
	for _, info := range infos {
		names = append(names, info.Name)
	}
	return names
}
