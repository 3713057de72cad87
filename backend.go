package linklog

// Backend renders one formatted record. This is the only thing a sink
// knows about its destination: console, debug writer and third-party
// adapters all plug in here.
type Backend interface {
	Emit(level Level, line string)
}
