package linklog

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/spf13/afero"
	"github.com/spf13/cast"
)

const (
	ROOT_KEY        = "root"
	SCAN_KEY        = "scan"
	SCAN_PERIOD_KEY = "scan.period"

	DEFAULT_SCAN_PERIOD = 60 * time.Second
	MIN_SCAN_PERIOD     = time.Second
)

// wildcardRule is a "prefix.*" pattern. segments is the number of
// dot-separated name parts before the '*' and ranks the rule: more
// segments means more specific, and more specific wins.
type wildcardRule struct {
	prefix   string
	segments int
	level    Level
}

// Rules resolves a dotted logger name to an effective minimum level
// using exact rules, wildcard rules and a root fallback, and reloads
// its backing file opportunistically on the logging path.
//
// A single mutex guards everything. Configuration operations are rare
// next to log calls, and the only thing the hot path exercises is the
// elapsed-time gate in CheckAndReloadIfNeeded.
type Rules struct {
	mtx   sync.Mutex
	fs    afero.Fs
	clock Clock

	rootLevel Level
	exact     map[string]Level
	wild      []wildcardRule

	path       string
	modTime    time.Time
	lastCheck  time.Time
	scan       bool
	scanPeriod time.Duration
	reloaded   bool
	onReload   func()
}

func NewRules() *Rules {
	return NewRulesWith(nil, nil)
}

// NewRulesWith builds a store on an explicit filesystem and clock.
// Nil arguments select the OS filesystem and the system clock.
func NewRulesWith(fs afero.Fs, clk Clock) *Rules {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	if clk == nil {
		clk = realClock{}
	}
	return &Rules{
		fs:         fs,
		clock:      clk,
		rootLevel:  DEFAULT_LEVEL,
		exact:      map[string]Level{},
		scanPeriod: DEFAULT_SCAN_PERIOD,
	}
}

// ruleSet is a fully parsed configuration. Parsing builds one of these
// outside the store lock; the lock is only taken for the swap.
type ruleSet struct {
	root       Level
	exact      map[string]Level
	wild       []wildcardRule
	scan       bool
	scanPeriod time.Duration
}

func parseRules(content string) *ruleSet {
	rs := &ruleSet{
		root:       DEFAULT_LEVEL,
		exact:      map[string]Level{},
		scanPeriod: DEFAULT_SCAN_PERIOD,
	}
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "!") {
			continue
		}
		key, value, found := strings.Cut(line, "=")
		if !found {
			continue
		}
		key = strings.ToLower(strings.TrimSpace(key))
		value = strings.TrimSpace(value)
		if key == "" || value == "" {
			continue
		}
		switch key {
		case SCAN_KEY:
			rs.scan = cast.ToBool(value)
		case SCAN_PERIOD_KEY:
			rs.scanPeriod = parseScanPeriod(value)
		default:
			rs.put(key, levelOrDefault(value, DEFAULT_LEVEL))
		}
	}
	sortWildcards(rs.wild)
	return rs
}

func (rs *ruleSet) put(key string, level Level) {
	switch {
	case key == ROOT_KEY || key == "*":
		rs.root = level
	case strings.Contains(key, "*"):
		rs.wild = putWildcard(rs.wild, key, level)
	default:
		rs.exact[key] = level
	}
}

// putWildcard replaces an existing identical pattern or appends a new
// one. Callers re-sort afterwards.
func putWildcard(rules []wildcardRule, pattern string, level Level) []wildcardRule {
	prefix := pattern[:strings.IndexByte(pattern, '*')]
	for i := range rules {
		if rules[i].prefix == prefix {
			rules[i].level = level
			return rules
		}
	}
	return append(rules, wildcardRule{
		prefix:   prefix,
		segments: countSegments(prefix),
		level:    level,
	})
}

func countSegments(prefix string) int {
	trimmed := strings.Trim(prefix, ".")
	if trimmed == "" {
		return 0
	}
	return strings.Count(trimmed, ".") + 1
}

// sortWildcards orders by specificity, most specific first. The sort is
// stable, so equal-specificity patterns keep load order and the
// first-loaded one wins a tie.
func sortWildcards(rules []wildcardRule) {
	sort.SliceStable(rules, func(i, j int) bool {
		return rules[i].segments > rules[j].segments
	})
}

func parseScanPeriod(value string) time.Duration {
	period := DEFAULT_SCAN_PERIOD
	fields := strings.Fields(value)
	if len(fields) == 2 {
		if n := cast.ToInt(fields[0]); n > 0 {
			if unit, ok := scanPeriodUnit(fields[1]); ok {
				period = time.Duration(n) * unit
			}
		}
	}
	if period < MIN_SCAN_PERIOD {
		period = MIN_SCAN_PERIOD
	}
	return period
}

func scanPeriodUnit(name string) (time.Duration, bool) {
	switch strings.ToLower(name) {
	case "millisecond", "milliseconds", "ms":
		return time.Millisecond, true
	case "second", "seconds", "s":
		return time.Second, true
	case "minute", "minutes", "m":
		return time.Minute, true
	case "hour", "hours", "h":
		return time.Hour, true
	case "day", "days", "d":
		return 24 * time.Hour, true
	}
	return 0, false
}

// LoadFromText replaces the whole rule set with the parsed content.
// Malformed lines and unknown level names are skipped or defaulted,
// never surfaced.
func (r *Rules) LoadFromText(content string) {
	rs := parseRules(content)
	r.mtx.Lock()
	r.apply(rs)
	r.mtx.Unlock()
}

// apply swaps in a parsed rule set. Callers hold the mutex.
func (r *Rules) apply(rs *ruleSet) {
	r.rootLevel = rs.root
	r.exact = rs.exact
	r.wild = rs.wild
	r.scan = rs.scan
	r.scanPeriod = rs.scanPeriod
}

// LoadFromFile reads and parses the file, replacing all rules, and
// records the path and modification time for later reload checks. A
// missing file is reported to the caller: an explicit load is a user
// action and fails loudly, unlike the automatic reload.
func (r *Rules) LoadFromFile(path string) error {
	data, err := afero.ReadFile(r.fs, path)
	if err != nil {
		return fmt.Errorf("load level config %q: %w", path, err)
	}
	info, err := r.fs.Stat(path)
	if err != nil {
		return fmt.Errorf("stat level config %q: %w", path, err)
	}
	rs := parseRules(string(data))
	r.mtx.Lock()
	r.apply(rs)
	r.path = path
	r.modTime = info.ModTime()
	r.lastCheck = r.clock.Now()
	r.mtx.Unlock()
	return nil
}

// Reload re-reads the file recorded by the last LoadFromFile.
func (r *Rules) Reload() error {
	r.mtx.Lock()
	path := r.path
	r.mtx.Unlock()
	if path == "" {
		return fmt.Errorf("no level config file loaded")
	}
	return r.LoadFromFile(path)
}

// Clear resets the store to its pristine state: no rules, no backing
// file, auto-reload off.
func (r *Rules) Clear() {
	r.mtx.Lock()
	defer r.mtx.Unlock()
	r.rootLevel = DEFAULT_LEVEL
	r.exact = map[string]Level{}
	r.wild = nil
	r.path = ""
	r.modTime = time.Time{}
	r.lastCheck = time.Time{}
	r.scan = false
	r.scanPeriod = DEFAULT_SCAN_PERIOD
	r.reloaded = false
}

// GetLevelForLogger resolves name against the rules, first hit wins:
// exact rule, then wildcards by specificity, then the root level, then
// the caller's default.
//
// The root level only participates when it differs from INFO. An
// explicit root=INFO is indistinguishable from an unset root and defers
// to the caller's default. Compatibility behavior, kept on purpose.
func (r *Rules) GetLevelForLogger(name string, def Level) Level {
	key := normName(name)
	r.mtx.Lock()
	defer r.mtx.Unlock()
	if level, ok := r.exact[key]; ok {
		return level
	}
	for _, w := range r.wild {
		if strings.HasPrefix(key, w.prefix) {
			return w.level
		}
	}
	if r.rootLevel != DEFAULT_LEVEL {
		return r.rootLevel
	}
	return def
}

// SetLoggerLevel installs a programmatic override. The name is
// classified like a config line: root sentinel, wildcard or exact.
// Setting an existing wildcard pattern replaces it; equal-specificity
// wildcards keep their insertion order.
func (r *Rules) SetLoggerLevel(name string, level Level) {
	key := normName(name)
	level = normLevel(level)
	r.mtx.Lock()
	defer r.mtx.Unlock()
	switch {
	case key == ROOT_KEY || key == "*":
		r.rootLevel = level
	case strings.Contains(key, "*"):
		r.wild = putWildcard(r.wild, key, level)
		sortWildcards(r.wild)
	default:
		r.exact[key] = level
	}
}

// CheckAndReloadIfNeeded is the opportunistic reload check, cheap
// enough to call on every log call. Until the scan period elapses it is
// a single elapsed-time comparison with no filesystem access. Past the
// gate it stats the file and reparses only on a modification-time
// change. Every failure keeps the previous configuration: a reload must
// never take down the logging path.
func (r *Rules) CheckAndReloadIfNeeded() {
	r.mtx.Lock()
	if !r.scan || r.path == "" {
		r.mtx.Unlock()
		return
	}
	now := r.clock.Now()
	if now.Sub(r.lastCheck) < r.scanPeriod {
		r.mtx.Unlock()
		return
	}
	// advance the check time even if the stat or read fails below,
	// otherwise a broken file would be retried on every log call
	r.lastCheck = now
	path, prev := r.path, r.modTime
	r.mtx.Unlock()

	info, err := r.fs.Stat(path)
	if err != nil || info.ModTime().Equal(prev) {
		return
	}
	data, err := afero.ReadFile(r.fs, path)
	if err != nil {
		return
	}
	rs := parseRules(string(data))
	r.mtx.Lock()
	r.apply(rs)
	r.path = path
	r.modTime = info.ModTime()
	r.reloaded = true
	cb := r.onReload
	r.mtx.Unlock()
	if cb != nil {
		cb()
	}
}

// WasConfigReloaded reports whether an automatic reload happened since
// the last call. Read-and-clear: true at most once per reload.
func (r *Rules) WasConfigReloaded() bool {
	r.mtx.Lock()
	defer r.mtx.Unlock()
	was := r.reloaded
	r.reloaded = false
	return was
}

// OnReload registers a callback fired after every successful automatic
// reload, outside the store lock. The factory uses it to push refreshed
// levels into cached sinks.
func (r *Rules) OnReload(fn func()) {
	r.mtx.Lock()
	r.onReload = fn
	r.mtx.Unlock()
}

func (r *Rules) ScanEnabled() bool {
	r.mtx.Lock()
	defer r.mtx.Unlock()
	return r.scan
}

func (r *Rules) ScanPeriod() time.Duration {
	r.mtx.Lock()
	defer r.mtx.Unlock()
	return r.scanPeriod
}

func (r *Rules) RootLevel() Level {
	r.mtx.Lock()
	defer r.mtx.Unlock()
	return r.rootLevel
}

// RuleCount returns how many exact and wildcard rules are installed.
func (r *Rules) RuleCount() (exact, wild int) {
	r.mtx.Lock()
	defer r.mtx.Unlock()
	return len(r.exact), len(r.wild)
}

// normName normalizes a logger name for matching. Display names keep
// their case, rule lookups do not.
func normName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
