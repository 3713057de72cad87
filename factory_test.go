package linklog

import (
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
)

func newTestFactory(rules *Rules) *Factory {
	return NewFactory(rules).WithBackend(func(string) Backend { return &fakeBackend{} })
}

func TestFactory_GetLogger(t *testing.T) {
	t.Run("caches_by_name", func(t *testing.T) {
		f := newTestFactory(nil)
		a := f.GetLogger("app.db")
		b := f.GetLogger("app.db")
		assert.Same(t, a, b)
	})
	t.Run("cache_is_case_insensitive", func(t *testing.T) {
		f := newTestFactory(nil)
		a := f.GetLogger("App.DB")
		b := f.GetLogger("app.db")
		assert.Same(t, a, b)
		assert.Equal(t, "App.DB", a.Name(), "first spelling should be displayed")
	})
	t.Run("level_from_rules", func(t *testing.T) {
		rules := NewRules()
		rules.LoadFromText("app.db=TRACE\napp.*=ERROR\n")
		f := newTestFactory(rules)
		assert.Equal(t, TRACE, f.GetLogger("app.db").GetLevel())
		assert.Equal(t, ERROR, f.GetLogger("app.net").GetLevel())
		assert.Equal(t, DEFAULT_LEVEL, f.GetLogger("other").GetLevel())
	})
	t.Run("distinct_names_distinct_sinks", func(t *testing.T) {
		f := newTestFactory(nil)
		assert.NotSame(t, f.GetLogger("a"), f.GetLogger("b"))
	})
}

func TestFactory_LoadConfigText(t *testing.T) {
	f := newTestFactory(nil)
	s := f.GetLogger("app.db")
	assert.Equal(t, DEFAULT_LEVEL, s.GetLevel())
	f.LoadConfigText("app.db=TRACE\n")
	assert.Equal(t, TRACE, s.GetLevel(), "cached sink level not refreshed")
}

func TestFactory_LoadConfigFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	assert.NoError(t, afero.WriteFile(fs, "lv.properties", []byte("app.*=DEBUG\n"), 0644))
	rules := NewRulesWith(fs, nil)
	f := newTestFactory(rules)
	s := f.GetLogger("app.db")
	assert.NoError(t, f.LoadConfigFile("lv.properties"))
	assert.Equal(t, DEBUG, s.GetLevel())
	assert.Error(t, f.LoadConfigFile("missing.properties"))
}

func TestFactory_ReloadPropagation(t *testing.T) {
	fs := afero.NewMemMapFs()
	content := "app.db=DEBUG\nscan=true\nscan.period=5 seconds\n"
	assert.NoError(t, afero.WriteFile(fs, "lv.properties", []byte(content), 0644))
	clk := newMockClock(time.Time{})
	rules := NewRulesWith(fs, clk)
	f := newTestFactory(rules)
	assert.NoError(t, f.LoadConfigFile("lv.properties"))

	s := f.GetLogger("app.db")
	assert.Equal(t, DEBUG, s.GetLevel())

	newContent := "app.db=FATAL\nscan=true\nscan.period=5 seconds\n"
	assert.NoError(t, afero.WriteFile(fs, "lv.properties", []byte(newContent), 0644))
	stamp := time.Date(2030, 6, 1, 12, 0, 0, 0, time.UTC)
	assert.NoError(t, fs.Chtimes("lv.properties", stamp, stamp))
	clk.Advance(6 * time.Second)

	// an ordinary log call trips the opportunistic reload, which in
	// turn pushes the new level into the cached sink
	s.Info("trigger")
	assert.Equal(t, FATAL, s.GetLevel(), "reload did not propagate to cached sink")
}

func TestFindConfigFile(t *testing.T) {
	t.Run("nothing_found", func(t *testing.T) {
		_, ok := FindConfigFile(afero.NewMemMapFs())
		assert.False(t, ok)
	})
	t.Run("release_name", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		assert.NoError(t, afero.WriteFile(fs, CONFIG_FILE_NAME, []byte("root=WARN\n"), 0644))
		path, ok := FindConfigFile(fs)
		assert.True(t, ok)
		assert.Equal(t, CONFIG_FILE_NAME, path)
	})
	t.Run("debug_name_wins", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		assert.NoError(t, afero.WriteFile(fs, CONFIG_FILE_NAME, []byte(""), 0644))
		assert.NoError(t, afero.WriteFile(fs, DEBUG_CONFIG_FILE_NAME, []byte(""), 0644))
		path, ok := FindConfigFile(fs)
		assert.True(t, ok)
		assert.Equal(t, DEBUG_CONFIG_FILE_NAME, path)
	})
}

func TestFactory_LoadDefaultConfig(t *testing.T) {
	fs := afero.NewMemMapFs()
	assert.NoError(t, afero.WriteFile(fs, CONFIG_FILE_NAME, []byte("app.db=TRACE\n"), 0644))
	f := newTestFactory(NewRulesWith(fs, nil))
	assert.True(t, f.LoadDefaultConfig())
	assert.Equal(t, TRACE, f.GetLogger("app.db").GetLevel())

	empty := newTestFactory(NewRulesWith(afero.NewMemMapFs(), nil))
	assert.False(t, empty.LoadDefaultConfig())
}

func TestDefault(t *testing.T) {
	a := Default()
	b := Default()
	assert.Same(t, a, b)
	assert.Same(t, GetLogger("pkg.default"), a.GetLogger("pkg.default"))
}
