package linklog

import "github.com/kataras/golog"

// GologBackend forwards records to a kataras/golog logger, the
// third-party adapter seam made concrete. Level filtering stays with
// the sink, so the wrapped golog logger is opened up to debug.
type GologBackend struct {
	logger *golog.Logger
}

func NewGologBackend(logger *golog.Logger) *GologBackend {
	if logger == nil {
		logger = golog.Default
	}
	logger.SetLevel("debug")
	return &GologBackend{logger: logger}
}

func (b *GologBackend) Emit(level Level, line string) {
	switch normLevel(level) {
	case TRACE, DEBUG:
		b.logger.Debug(line)
	case INFO:
		b.logger.Info(line)
	case WARN:
		b.logger.Warn(line)
	case ERROR:
		b.logger.Error(line)
	case FATAL:
		// golog's Fatal exits the process; an adapter must not
		b.logger.Error(line)
	}
}
