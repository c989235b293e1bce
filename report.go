package aksview

import (
	"fmt"
	"log/slog"
	"sync"
)

// Reporter receives diagnostics from a viewer. Fault is called for
// contract violations and unrecoverable platform failures; after it
// returns, the viewer panics with a *FaultError, so a fault never
// returns control to the failing call. Warn is called for best-effort
// failures such as an unmap or sync error, and execution continues.
//
// Implementations must not call back into the viewer.
type Reporter interface {
	Fault(op string, err error)
	Warn(op string, err error)
}

// FaultError is the panic value raised after Reporter.Fault. Hosts that
// must outlive a fault can recover it at their call boundary.
type FaultError struct {
	Op  string
	Err error
}

func (e *FaultError) Error() string {
	return fmt.Sprintf("aksview: %s: %v", e.Op, e.Err)
}

func (e *FaultError) Unwrap() error {
	return e.Err
}

// logReporter is the built-in Reporter. It logs through log/slog and
// leaves termination to the unrecovered panic that follows a fault.
type logReporter struct{}

func (logReporter) Fault(op string, err error) {
	slog.Error("aksview fault", "op", op, "err", err)
}

func (logReporter) Warn(op string, err error) {
	slog.Warn("aksview warning", "op", op, "err", err)
}

var (
	reporterMu      sync.Mutex
	defaultReporter Reporter = logReporter{}
)

// SetDefaultReporter replaces the process-wide reporter used by viewers
// opened without WithReporter. Passing nil restores the built-in
// slog-backed reporter. Viewers already open keep the reporter they
// were opened with.
func SetDefaultReporter(r Reporter) {
	reporterMu.Lock()
	defer reporterMu.Unlock()
	if r == nil {
		r = logReporter{}
	}
	defaultReporter = r
}

// DefaultReporter returns the current process-wide reporter.
func DefaultReporter() Reporter {
	reporterMu.Lock()
	defer reporterMu.Unlock()
	return defaultReporter
}

// fault reports an unrecoverable condition and panics. It never returns.
func (v *Viewer) fault(op string, err error) {
	r := DefaultReporter()
	if v != nil && v.reporter != nil {
		r = v.reporter
	}
	r.Fault(op, err)
	panic(&FaultError{Op: op, Err: err})
}

// warn reports a best-effort failure and returns.
func (v *Viewer) warn(op string, err error) {
	r := DefaultReporter()
	if v != nil && v.reporter != nil {
		r = v.reporter
	}
	r.Warn(op, err)
}
