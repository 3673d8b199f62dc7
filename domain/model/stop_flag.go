package model

import "sync/atomic"

// StopFlag is the single piece of mutable state shared between the shell
// and the watcher. The shell sets it to request a stop and clears it
// before a restart; the watcher observes it between polls. Cancellation
// is cooperative: setting the flag never preempts an in-flight compile
// or a running child binary.
type StopFlag struct {
	set atomic.Bool
}

func (f *StopFlag) Set() {
	f.set.Store(true)
}

func (f *StopFlag) Clear() {
	f.set.Store(false)
}

func (f *StopFlag) IsSet() bool {
	return f.set.Load()
}
