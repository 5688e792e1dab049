//go:build !unix

package reset

const resetSignalName = "none"

func (w *Watcher) install() error {
	return ErrUnsupported
}
