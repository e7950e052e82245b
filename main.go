package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	flags "github.com/jessevdk/go-flags"

	"gpslogger/internal/config"
	"gpslogger/internal/ui/gui"
	"gpslogger/internal/ui/headless"
)

var BuildVersion = "dev"

func main() {
	rootCtx, stopSignals := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stopSignals()

	opts, err := config.ParseOptions()
	if err != nil {
		var flagErr *flags.Error
		if errors.As(err, &flagErr) && flagErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	if saved, loadErr := config.LoadSettings(); loadErr == nil {
		opts = config.MergeOptionsWithSettings(opts, saved)
	}
	opts = config.ApplyDefaults(opts)
	if err := config.Validate(opts); err != nil {
		fmt.Fprintln(os.Stderr, "invalid configuration:", err)
		os.Exit(2)
	}

	lock, lockedByOther, lockErr := acquireInstanceLock()
	if lockErr != nil {
		fmt.Fprintln(os.Stderr, "failed to initialize single-instance lock:", lockErr)
		os.Exit(2)
	}
	if lockedByOther {
		if !gui.Available() || opts.Headless {
			fmt.Fprintln(os.Stderr, "GPS Logger is already running.")
		} else {
			hideAndDetachConsoleForGUI()
			showAlreadyRunningDialog()
		}
		os.Exit(1)
	}
	defer func() {
		_ = lock.Release()
	}()

	if err := config.SaveSettings(config.SettingsFromOptions(opts)); err != nil {
		fmt.Fprintln(os.Stderr, "warning: could not save launch settings:", err)
	}

	// Headless-tag builds always run the terminal front end.
	if !gui.Available() || opts.Headless {
		headless.Run(rootCtx, BuildVersion, opts)
		return
	}
	hideAndDetachConsoleForGUI()
	gui.Run(rootCtx, BuildVersion, opts)
}
