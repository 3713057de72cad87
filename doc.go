// Package linklog is a logging facade built around two ideas: a
// chain-of-responsibility logger and a hierarchical level configuration.
//
// A Sink is one logging destination. Sinks link into chains: every sink
// gates a record by its own minimum level, renders it through its
// Backend when the gate passes, and forwards the record to the next
// sink either way. Multiple destinations are active at once without any
// composite type, and each one filters independently.
//
//	console := linklog.NewSink("app", linklog.INFO, linklog.NewConsoleBackend(os.Stdout))
//	file := linklog.NewSink("app.file", linklog.DEBUG, linklog.NewWriterBackend(f))
//	console.AddToChain(file)
//	console.Infof("listening on %s", addr) // rendered by both
//
// Levels come from a Rules store loaded from a properties file:
//
//	root=WARN
//	myapp.db=DEBUG
//	myapp.net.*=TRACE
//	scan=true
//	scan.period=30 seconds
//
// The most specific rule wins: exact names beat wildcard prefixes, and
// a longer wildcard prefix beats a shorter one. With scan enabled the
// file is re-checked opportunistically on the logging path itself: a
// cheap elapsed-time gate on every call, a stat and reparse only once
// the period has elapsed. No background goroutine, and a broken or
// missing file never disturbs the previous configuration.
//
// A Factory ties the two together, caching one chain per dotted name
// and re-resolving cached levels whenever the configuration reloads:
//
//	f := linklog.NewFactory(rules)
//	log := f.GetLogger("myapp.db")
//	log.Warn("slow query")
package linklog
