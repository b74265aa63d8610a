package simulator

import (
	"fmt"
	"time"
)

// Marcadores de las líneas del log de validación.
const (
	markOK   = "✓"
	markFail = "✗"
	markWarn = "⚠"
)

// ProgressFunc recibe cada línea del log en el momento en que se produce.
type ProgressFunc func(line string)

// stepLog acumula las líneas con marca de tiempo, en orden estricto.
type stepLog struct {
	now      Clock
	lines    []string
	progress ProgressFunc
	failed   bool
}

func newStepLog(now Clock, progress ProgressFunc) *stepLog {
	return &stepLog{now: now, progress: progress}
}

func (l *stepLog) add(format string, args ...any) {
	line := fmt.Sprintf("[%s] %s", l.now().UTC().Format(time.RFC3339Nano), fmt.Sprintf(format, args...))
	l.lines = append(l.lines, line)
	if l.progress != nil {
		l.progress(line)
	}
}

func (l *stepLog) ok(format string, args ...any) {
	l.add(markOK+" "+format, args...)
}

func (l *stepLog) warn(format string, args ...any) {
	l.add(markWarn+" "+format, args...)
}

// fail registra el fallo estructural; el proceso se considera fallido sin importar errorRate.
func (l *stepLog) fail(format string, args ...any) {
	l.failed = true
	l.add(markFail+" "+format, args...)
}

func (l *stepLog) Lines() []string {
	return append([]string(nil), l.lines...)
}
