package utils

import (
	"os"
	"os/signal"
	"syscall"
)

func WaitTerminate() <-chan os.Signal {
	c := make(chan os.Signal, 3)
	signal.Notify(c, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	return c
}

// RedirectFile points the descriptor of from at to, so writes that bypass
// the log package (panics, runtime errors) land in the same file.
func RedirectFile(from, to *os.File) {
	if err := syscall.Dup2(int(to.Fd()), int(from.Fd())); err != nil {
		LogFatal("failed to redirect %v to %v: %v", from.Name(), to.Name(), err)
	}
}

// OpenLogFile opens path for appending, creating it when missing.
func OpenLogFile(path string) (*os.File, error) {
	return os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
}
