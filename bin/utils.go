package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

// install_sig_handler returns a context cancelled on the first
// interrupt or terminate signal.
func install_sig_handler() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGTERM)
}
