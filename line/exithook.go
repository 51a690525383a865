package line

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/kylelemons/lined/term"
)

// installTerminationHook registers the once-per-process hook (via
// exitHookOnce in controller.go) that restores the terminal when the
// process dies to a signal, so raw mode never outlives it. This
// goroutine is the one piece of the module that runs outside the
// synchronous edit loop; it exists only to pair EnableRaw with
// DisableRaw on exit paths the loop itself never sees.
func installTerminationHook(ta term.Adapter) {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)
	go func() {
		<-c
		ta.DisableRaw()
		os.Exit(1)
	}()
}
