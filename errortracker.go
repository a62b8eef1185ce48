package prepkit

import "sync"

// errorTracker accumulates errors for debugging and reporting.
// The pty reader and the process waiter run on their own goroutines,
// and either may generate errors.
type errorTracker struct {
	m    sync.Mutex
	errs []error
}

func (et *errorTracker) log(err error) {
	if err == nil {
		return
	}
	et.m.Lock()
	et.errs = append(et.errs, err)
	et.m.Unlock()
}

func (et *errorTracker) lastError() error {
	if et == nil {
		return nil
	}
	et.m.Lock()
	defer et.m.Unlock()
	if len(et.errs) == 0 {
		return nil
	}
	return et.errs[len(et.errs)-1]
}
