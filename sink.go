package linklog

import (
	"fmt"
	"sync"
)

// Sink is one logging destination in a chain. It gates a record by its
// own minimum level, renders it through its backend and forwards the
// record to the next sink regardless of whether it rendered it itself.
// Filtering is per-node, so every destination in a chain decides
// independently.
//
// The mutex guards the level and the next pointer only. Chain walks
// hold one sink's lock at a time (see chain.go).
type Sink struct {
	mtx     sync.Mutex
	name    string
	level   Level
	next    *Sink
	backend Backend
	rules   *Rules
}

// NewSink creates a standalone sink. A nil backend makes the sink a
// pure forwarder.
func NewSink(name string, level Level, backend Backend) *Sink {
	return &Sink{
		name:    name,
		level:   normLevel(level),
		backend: backend,
	}
}

// WithRules attaches the rule store whose opportunistic reload check
// runs on every log call through this sink.
func (s *Sink) WithRules(rules *Rules) *Sink {
	s.mtx.Lock()
	s.rules = rules
	s.mtx.Unlock()
	return s
}

// Name returns the display name, case preserved.
func (s *Sink) Name() string { return s.name }

func (s *Sink) SetLevel(level Level) *Sink {
	s.mtx.Lock()
	s.level = normLevel(level)
	s.mtx.Unlock()
	return s
}

func (s *Sink) GetLevel() Level {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	return s.level
}

// IsEnabled reports whether a record at level would be rendered by this
// sink. No side effects, so callers can skip expensive message
// construction.
func (s *Sink) IsEnabled(level Level) bool {
	return normLevel(level) >= s.GetLevel()
}

func (s *Sink) IsTraceEnabled() bool { return s.IsEnabled(TRACE) }
func (s *Sink) IsDebugEnabled() bool { return s.IsEnabled(DEBUG) }
func (s *Sink) IsInfoEnabled() bool  { return s.IsEnabled(INFO) }
func (s *Sink) IsWarnEnabled() bool  { return s.IsEnabled(WARN) }
func (s *Sink) IsErrorEnabled() bool { return s.IsEnabled(ERROR) }
func (s *Sink) IsFatalEnabled() bool { return s.IsEnabled(FATAL) }

// Log renders args at an explicit level.
func (s *Sink) Log(level Level, args ...any) {
	s.log(level, fmt.Sprint(args...))
}

// Logf renders a formatted message at an explicit level.
func (s *Sink) Logf(level Level, format string, args ...any) {
	s.log(level, fmt.Sprintf(format, args...))
}

// LogErr renders args with the error detail appended.
func (s *Sink) LogErr(level Level, err error, args ...any) {
	s.log(level, withErr(fmt.Sprint(args...), err))
}

func (s *Sink) Trace(args ...any)                 { s.log(TRACE, fmt.Sprint(args...)) }
func (s *Sink) Debug(args ...any)                 { s.log(DEBUG, fmt.Sprint(args...)) }
func (s *Sink) Info(args ...any)                  { s.log(INFO, fmt.Sprint(args...)) }
func (s *Sink) Warn(args ...any)                  { s.log(WARN, fmt.Sprint(args...)) }
func (s *Sink) Error(args ...any)                 { s.log(ERROR, fmt.Sprint(args...)) }
func (s *Sink) Fatal(args ...any)                 { s.log(FATAL, fmt.Sprint(args...)) }
func (s *Sink) Tracef(format string, args ...any) { s.log(TRACE, fmt.Sprintf(format, args...)) }
func (s *Sink) Debugf(format string, args ...any) { s.log(DEBUG, fmt.Sprintf(format, args...)) }
func (s *Sink) Infof(format string, args ...any)  { s.log(INFO, fmt.Sprintf(format, args...)) }
func (s *Sink) Warnf(format string, args ...any)  { s.log(WARN, fmt.Sprintf(format, args...)) }
func (s *Sink) Errorf(format string, args ...any) { s.log(ERROR, fmt.Sprintf(format, args...)) }
func (s *Sink) Fatalf(format string, args ...any) { s.log(FATAL, fmt.Sprintf(format, args...)) }

func (s *Sink) TraceErr(err error, args ...any) { s.log(TRACE, withErr(fmt.Sprint(args...), err)) }
func (s *Sink) DebugErr(err error, args ...any) { s.log(DEBUG, withErr(fmt.Sprint(args...), err)) }
func (s *Sink) InfoErr(err error, args ...any)  { s.log(INFO, withErr(fmt.Sprint(args...), err)) }
func (s *Sink) WarnErr(err error, args ...any)  { s.log(WARN, withErr(fmt.Sprint(args...), err)) }
func (s *Sink) ErrorErr(err error, args ...any) { s.log(ERROR, withErr(fmt.Sprint(args...), err)) }
func (s *Sink) FatalErr(err error, args ...any) { s.log(FATAL, withErr(fmt.Sprint(args...), err)) }

func withErr(text string, err error) string {
	if err == nil {
		return text
	}
	if text == "" {
		return err.Error()
	}
	return text + ": " + err.Error()
}

// log is the single dispatch primitive all call shapes funnel into:
// reload check, own gate, emit, forward. Forwarding happens whether or
// not this sink rendered, and the next sink re-applies its own gate and
// reload check.
func (s *Sink) log(level Level, text string) {
	level = normLevel(level)

	s.mtx.Lock()
	rules := s.rules
	s.mtx.Unlock()
	if rules != nil {
		rules.CheckAndReloadIfNeeded()
	}

	s.mtx.Lock()
	min, next, backend := s.level, s.next, s.backend
	s.mtx.Unlock()

	if level >= min && backend != nil {
		emit(backend, level, text)
	}
	if next != nil {
		next.log(level, text)
	}
}

// emit shields the chain from a panicking backend: rendering failures
// are the backend's problem, the chain keeps forwarding.
func emit(b Backend, level Level, text string) {
	defer func() { _ = recover() }()
	b.Emit(level, text)
}
