package discord

import (
	"errors"
	"fmt"
	"regexp"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/whotypes/dndspawner/internal/commands"
)

var extensionName = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)

// ValidExtensionName reports whether name can be used as an extension identifier.
func ValidExtensionName(name string) bool {
	return extensionName.MatchString(name)
}

// BotControl is what extensions may ask of the running client.
type BotControl interface {
	Prefix() string
	Commands() []*commands.Command
	Lookup(name string) (*commands.Command, bool)
	ExtensionOf(cmd *commands.Command) string
	Extensions() []ExtensionStatus
	LoadExtension(name string) error
	UnloadExtension(name string) error
	ReloadExtension(name string) error
	Uptime() time.Duration
	Shutdown()
}

// ExtensionDeps is handed to every extension constructor.
type ExtensionDeps struct {
	Log zerolog.Logger
	Bot BotControl
}

type Constructor func(deps ExtensionDeps) (commands.Extension, error)

// Entry registers a constructor under a stable identifier.
type Entry struct {
	Name string
	New  Constructor
}

type ExtensionStatus struct {
	Name     string
	Loaded   bool
	Error    string
	LoadedAt time.Time
}

// Loader builds extensions from a registry and adds them to a router.
type Loader struct {
	log    zerolog.Logger
	router *commands.Router
	deps   ExtensionDeps

	mu      sync.Mutex
	entries []Entry
	byName  map[string]Entry
	status  map[string]*ExtensionStatus
	loaded  map[string]commands.Extension
}

// NewLoader keeps the registry order. Entries with an invalid name or no
// constructor are never loaded.
func NewLoader(log zerolog.Logger, router *commands.Router, registry []Entry, deps ExtensionDeps) *Loader {
	l := &Loader{
		log:     log,
		router:  router,
		deps:    deps,
		entries: registry,
		byName:  make(map[string]Entry),
		status:  make(map[string]*ExtensionStatus),
		loaded:  make(map[string]commands.Extension),
	}
	for _, e := range registry {
		if !ValidExtensionName(e.Name) || e.New == nil {
			continue
		}
		if _, dup := l.byName[e.Name]; dup {
			continue
		}
		l.byName[e.Name] = e
		l.status[e.Name] = &ExtensionStatus{Name: e.Name}
	}
	return l
}

// LoadAll attempts every loadable entry once, logging each outcome, and
// returns how many loaded. A failure never stops the remaining entries.
func (l *Loader) LoadAll() int {
	if len(l.entries) == 0 {
		l.log.Warn().Msg("No extensions found!")
		return 0
	}

	loaded := 0
	seen := make(map[string]bool)
	for _, e := range l.entries {
		if _, ok := l.byName[e.Name]; !ok || seen[e.Name] {
			continue
		}
		seen[e.Name] = true

		if err := l.Load(e.Name); err != nil {
			l.log.Error().
				Str("extension", e.Name).
				Msgf("Failed to load extension %s due to %s: %v", e.Name, typeName(err), err)
			continue
		}
		l.log.Info().Msgf("Loaded extension %s", e.Name)
		loaded++
	}
	return loaded
}

func (l *Loader) Load(name string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.loadLocked(name)
}

func (l *Loader) loadLocked(name string) error {
	if !ValidExtensionName(name) {
		return fmt.Errorf("%w: %q", ErrInvalidExtensionName, name)
	}
	entry, ok := l.byName[name]
	if !ok {
		return &ExtensionNotFoundError{Name: name}
	}
	if _, ok := l.loaded[name]; ok {
		return &ExtensionAlreadyLoadedError{Name: name}
	}
	st := l.status[name]

	deps := l.deps
	deps.Log = l.deps.Log.With().Str("extension", name).Logger()

	ext, err := construct(entry, deps)
	if err == nil {
		err = l.router.AddExtension(name, ext)
		if err != nil {
			l.close(name, ext)
		}
	}
	if err != nil {
		st.Loaded = false
		st.Error = err.Error()
		return &ExtensionFailedError{Name: name, Err: err}
	}

	l.loaded[name] = ext
	st.Loaded = true
	st.Error = ""
	st.LoadedAt = time.Now()
	return nil
}

func (l *Loader) Unload(name string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.unloadLocked(name)
}

func (l *Loader) unloadLocked(name string) error {
	if !ValidExtensionName(name) {
		return fmt.Errorf("%w: %q", ErrInvalidExtensionName, name)
	}
	if _, ok := l.byName[name]; !ok {
		return &ExtensionNotFoundError{Name: name}
	}
	ext, ok := l.loaded[name]
	if !ok {
		return &ExtensionNotLoadedError{Name: name}
	}
	if _, err := l.router.RemoveExtension(name); err != nil {
		return err
	}
	delete(l.loaded, name)
	l.close(name, ext)

	st := l.status[name]
	st.Loaded = false
	st.LoadedAt = time.Time{}
	return nil
}

// Reload replaces name with a fresh instance from its constructor. When the
// new instance fails, the previous one is registered again and stays loaded.
func (l *Loader) Reload(name string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !ValidExtensionName(name) {
		return fmt.Errorf("%w: %q", ErrInvalidExtensionName, name)
	}
	if _, ok := l.byName[name]; !ok {
		return &ExtensionNotFoundError{Name: name}
	}
	old, ok := l.loaded[name]
	if !ok {
		return &ExtensionNotLoadedError{Name: name}
	}
	if _, err := l.router.RemoveExtension(name); err != nil {
		return err
	}
	delete(l.loaded, name)

	st := l.status[name]
	loadedAt := st.LoadedAt
	err := l.loadLocked(name)
	if err == nil {
		l.close(name, old)
		return nil
	}

	if addErr := l.router.AddExtension(name, old); addErr != nil {
		l.close(name, old)
		l.log.Error().Err(addErr).Str("extension", name).Msg("Failed to restore extension after a failed reload")
		return err
	}
	l.loaded[name] = old
	st.Loaded = true
	st.LoadedAt = loadedAt
	l.log.Warn().Err(err).Str("extension", name).Msg("Reload failed, kept the previous version")
	return err
}

// UnloadAll unloads every loaded extension, closing those that hold resources.
func (l *Loader) UnloadAll() {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, e := range l.entries {
		if _, ok := l.loaded[e.Name]; ok {
			if err := l.unloadLocked(e.Name); err != nil {
				l.log.Warn().Err(err).Str("extension", e.Name).Msg("Failed to unload extension")
			}
		}
	}
}

// Statuses reports every loadable entry in registry order.
func (l *Loader) Statuses() []ExtensionStatus {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]ExtensionStatus, 0, len(l.status))
	seen := make(map[string]bool)
	for _, e := range l.entries {
		st, ok := l.status[e.Name]
		if !ok || seen[e.Name] {
			continue
		}
		seen[e.Name] = true
		out = append(out, *st)
	}
	return out
}

// Names lists the loadable identifiers in registry order.
func (l *Loader) Names() []string {
	statuses := l.Statuses()
	names := make([]string, len(statuses))
	for i, st := range statuses {
		names[i] = st.Name
	}
	return names
}

func (l *Loader) close(name string, ext commands.Extension) {
	c, ok := ext.(commands.Closer)
	if !ok {
		return
	}
	if err := c.Close(); err != nil {
		l.log.Warn().Err(err).Str("extension", name).Msg("Failed to close extension")
	}
}

func construct(e Entry, deps ExtensionDeps) (ext commands.Extension, err error) {
	defer func() {
		if p := recover(); p != nil {
			ext, err = nil, fmt.Errorf("panic: %v", p)
		}
	}()
	ext, err = e.New(deps)
	if err == nil && ext == nil {
		err = errors.New("constructor returned no extension")
	}
	return ext, err
}
