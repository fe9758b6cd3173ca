package feedback

import "log"

// Logger receives the filter's log output.
type Logger interface {
	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
}

const logPrefix = "[Recursion Effect] "

type stdLogger struct {
	debug bool
}

var _ Logger = &stdLogger{}

// NewStdLogger returns a Logger backed by the standard log package.
//
// Parameters:
//   - debug: whether Debugf output is written
//
// Returns:
//   - Logger: the logger
func NewStdLogger(debug bool) Logger {
	return &stdLogger{debug: debug}
}

func (l *stdLogger) Debugf(format string, args ...any) {
	if l.debug {
		log.Printf(logPrefix+"debug: "+format, args...)
	}
}

func (l *stdLogger) Infof(format string, args ...any) {
	log.Printf(logPrefix+format, args...)
}

func (l *stdLogger) Warnf(format string, args ...any) {
	log.Printf(logPrefix+"warning: "+format, args...)
}

func (l *stdLogger) Errorf(format string, args ...any) {
	log.Printf(logPrefix+"error: "+format, args...)
}

type nopLogger struct{}

// NopLogger discards everything.
var NopLogger Logger = nopLogger{}

func (nopLogger) Debugf(string, ...any) {}
func (nopLogger) Infof(string, ...any)  {}
func (nopLogger) Warnf(string, ...any)  {}
func (nopLogger) Errorf(string, ...any) {}
