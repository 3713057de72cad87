package linklog

import "strings"

// Level is an ordered severity scale. Threshold checks compare with >=,
// so a sink with level WARN renders WARN, ERROR and FATAL records.
type Level uint8

const (
	TRACE Level = iota
	DEBUG
	INFO
	WARN
	ERROR
	FATAL
	_LVL_MAX_for_checks_only
)

const DEFAULT_LEVEL = INFO

// LevelMap holds one string per level, indexable by Level.
type LevelMap [_LVL_MAX_for_checks_only]string

var LevelFullNames = &LevelMap{
	"TRACE", //TRACE
	"DEBUG", //DEBUG
	"INFO",  //INFO
	"WARN",  //WARN
	"ERROR", //ERROR
	"FATAL", //FATAL
}

var LevelShortNames = &LevelMap{
	"TRC", //TRACE
	"DBG", //DEBUG
	"INF", //INFO
	"WRN", //WARN
	"ERR", //ERROR
	"FTL", //FATAL
}

func (l Level) String() string {
	return LevelFullNames[normLevel(l)]
}

func normLevel(level Level) Level {
	if level < _LVL_MAX_for_checks_only {
		return level
	}
	return _LVL_MAX_for_checks_only - 1
}

// ParseLevel converts a level name to its Level, case-insensitively.
func ParseLevel(s string) (Level, bool) {
	name := strings.ToUpper(strings.TrimSpace(s))
	for i, full := range LevelFullNames {
		if name == full {
			return Level(i), true
		}
	}
	return DEFAULT_LEVEL, false
}

// levelOrDefault never fails: unknown names fall back to def. Rule parsing
// relies on this so a config typo can not break logging.
func levelOrDefault(s string, def Level) Level {
	if level, ok := ParseLevel(s); ok {
		return level
	}
	return def
}
