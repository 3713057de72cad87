package linklog

import (
	"os"
	"path/filepath"
	"sync"

	"github.com/spf13/afero"
)

const (
	CONFIG_FILE_NAME       = "linklog.properties"
	DEBUG_CONFIG_FILE_NAME = "linklog.debug.properties"
)

// Factory looks up and creates named logger chains wired to one rule
// store. Lookups are case-insensitive; the first spelling of a name is
// the one displayed. The factory is plain glue: sinks never reference
// it, and it registers itself as the rule store's reload observer so
// automatic reloads re-resolve every cached sink's level.
type Factory struct {
	mtx        sync.Mutex
	rules      *Rules
	cache      map[string]*Sink
	newBackend func(name string) Backend
}

// NewFactory wires a factory to a rule store. A nil store gets a fresh
// one. The default backend is a console backend on stdout.
func NewFactory(rules *Rules) *Factory {
	if rules == nil {
		rules = NewRules()
	}
	f := &Factory{
		rules: rules,
		cache: map[string]*Sink{},
		newBackend: func(name string) Backend {
			return NewConsoleBackend(os.Stdout).ForName(name)
		},
	}
	rules.OnReload(f.refreshLevels)
	return f
}

// WithBackend replaces the constructor used for new sinks' backends.
func (f *Factory) WithBackend(fn func(name string) Backend) *Factory {
	if fn != nil {
		f.mtx.Lock()
		f.newBackend = fn
		f.mtx.Unlock()
	}
	return f
}

func (f *Factory) Rules() *Rules { return f.rules }

// GetLogger returns the chain root for name, creating it on first use
// with the level the rule store resolves for it.
func (f *Factory) GetLogger(name string) *Sink {
	key := normName(name)
	f.mtx.Lock()
	defer f.mtx.Unlock()
	if s, ok := f.cache[key]; ok {
		return s
	}
	level := f.rules.GetLevelForLogger(name, DEFAULT_LEVEL)
	s := NewSink(name, level, f.newBackend(name)).WithRules(f.rules)
	f.cache[key] = s
	return s
}

// LoadConfigFile loads rules from a file and pushes the re-resolved
// levels into every cached sink.
func (f *Factory) LoadConfigFile(path string) error {
	if err := f.rules.LoadFromFile(path); err != nil {
		return err
	}
	f.refreshLevels()
	return nil
}

// LoadConfigText is LoadConfigFile for in-memory configuration.
func (f *Factory) LoadConfigText(content string) {
	f.rules.LoadFromText(content)
	f.refreshLevels()
}

// LoadDefaultConfig probes the standard search path and loads the first
// config file found. Reports whether one was loaded.
func (f *Factory) LoadDefaultConfig() bool {
	path, ok := FindConfigFile(f.rules.fs)
	if !ok {
		return false
	}
	return f.LoadConfigFile(path) == nil
}

func (f *Factory) refreshLevels() {
	f.mtx.Lock()
	defer f.mtx.Unlock()
	for key, s := range f.cache {
		s.SetLevel(f.rules.GetLevelForLogger(key, DEFAULT_LEVEL))
	}
}

// FindConfigFile probes for a properties file: the debug-named variant
// before the release one, in the current directory, the executable's
// directory and the executable's parent. First hit wins.
func FindConfigFile(fs afero.Fs) (string, bool) {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	dirs := []string{"."}
	if exe, err := os.Executable(); err == nil {
		exeDir := filepath.Dir(exe)
		dirs = append(dirs, exeDir, filepath.Dir(exeDir))
	}
	for _, dir := range dirs {
		for _, name := range []string{DEBUG_CONFIG_FILE_NAME, CONFIG_FILE_NAME} {
			path := filepath.Join(dir, name)
			if ok, err := afero.Exists(fs, path); err == nil && ok {
				return path, true
			}
		}
	}
	return "", false
}

// Process-wide convenience instance for the application's outermost
// layer. The core types carry no singleton assumption themselves.
var (
	defaultOnce    sync.Once
	defaultFactory *Factory
)

// Default returns the process-wide factory, loading the default config
// file on first use if one is present.
func Default() *Factory {
	defaultOnce.Do(func() {
		defaultFactory = NewFactory(nil)
		defaultFactory.LoadDefaultConfig()
	})
	return defaultFactory
}

// GetLogger returns a named chain from the process-wide factory.
func GetLogger(name string) *Sink {
	return Default().GetLogger(name)
}
