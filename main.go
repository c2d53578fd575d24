package main

import (
	"bufio"
	"errors"
	"io"
	"os"

	"ddsmapconv/logger"

	"github.com/mattn/go-isatty"
)

func main() {
	fd := os.Stdout.Fd()
	terminal := isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)

	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, terminal))
}

// run returns 0 on every path except a malformed command line, so that
// drag and drop launches never report failure to the shell.
func run(args []string, in io.Reader, out io.Writer, terminal bool) int {
	cfg, err := ParseConfig(args)
	console := logger.NewConsole(cfg.ConsoleOptions(out, terminal))
	if err != nil {
		console.Error("Configuration error: %v", err)
		PrintUsage(console)
		return 2
	}

	if cfg.ShowVersion {
		console.Box("ddsmapconv version information", cfg.VersionInfo())
		return 0
	}

	if len(cfg.Inputs) == 0 {
		console.Error("There are no files to convert. Drag and drop files onto the program to start converting.")
		waitForKey(in, console)
		return 0
	}

	settings, created, err := LoadSettings(cfg.SettingsPath)
	switch {
	case errors.Is(err, ErrSettingsWrite):
		console.Warn("Using default settings: %v", err)
	case err != nil:
		console.Error("Settings error in %s: %v", cfg.SettingsPath, err)
		waitForKey(in, console)
		return 0
	case created:
		console.Info("Created %s with default settings", cfg.SettingsPath)
	}
	cfg.Settings = settings
	PrintSettings(console, settings)

	processor := NewProcessor(cfg, console)
	pause := !settings.CloseWithoutPause

	func() {
		processor.Open()
		defer processor.Close()

		if err := processor.ProcessAll(cfg.Inputs); err != nil {
			pause = true
		}
	}()

	processor.PrintSummary()

	if pause {
		waitForKey(in, console)
	}
	return 0
}

// waitForKey blocks until a line (or EOF) arrives on in.
func waitForKey(in io.Reader, console *logger.Console) {
	console.Log("Press Enter to continue . . .")
	_, _ = bufio.NewReader(in).ReadString('\n')
}
