//go:build unix

package reset

import (
	"os/signal"
	"syscall"
)

const resetSignalName = "SIGUSR1"

func (w *Watcher) install() error {
	if signal.Ignored(syscall.SIGUSR1) {
		w.log.Debug("SIGUSR1 was ignored by the parent process; installing handler anyway")
	}
	signal.Notify(w.sigCh, syscall.SIGUSR1)
	return nil
}
