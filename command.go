package main

import (
	"bytes"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"

	"ddsmapconv/logger"
)

const DefaultOutputDir = "./ConvertedTextures"

type Config struct {
	Inputs       []string
	OutputDir    string
	SettingsPath string
	Settings     Settings
	Version      string
	NoColor      bool
	JSON         bool
	ShowVersion  bool
}

var (
	Version   = "dev"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

func newFlagSet(cfg *Config) *flag.FlagSet {
	fs := flag.NewFlagSet("ddsmapconv", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.OutputDir, "out", DefaultOutputDir, "Folder the converted textures are written to")
	fs.StringVar(&cfg.SettingsPath, "settings", "", "Settings file (default: settings.ini next to the executable)")
	fs.BoolVar(&cfg.NoColor, "no-color", false, "Disable colored output")
	fs.BoolVar(&cfg.JSON, "json", false, "Print one JSON object per status line")
	fs.BoolVar(&cfg.ShowVersion, "version", false, "Show version information")
	return fs
}

// ParseConfig parses the command line. Settings are loaded separately.
func ParseConfig(args []string) (*Config, error) {
	cfg := &Config{Version: Version}

	fs := newFlagSet(cfg)
	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("parsing flags: %w", err)
	}
	cfg.Inputs = fs.Args()

	if cfg.ShowVersion {
		return cfg, nil
	}

	if cfg.SettingsPath == "" {
		path, err := DefaultSettingsPath()
		if err != nil {
			return nil, err
		}
		cfg.SettingsPath = path
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (cfg *Config) validate() error {
	if strings.TrimSpace(cfg.OutputDir) == "" {
		return errors.New("output folder must not be empty")
	}
	return nil
}

// ConsoleOptions builds logger options for out. Colors are used only when
// out is a terminal and -no-color was not given.
func (cfg *Config) ConsoleOptions(out io.Writer, terminal bool) *logger.RichLoggerOptions {
	opts := logger.DefaultOptions()
	opts.Output = out
	opts.EnableColors = terminal
	if cfg != nil {
		opts.EnableColors = terminal && !cfg.NoColor
		opts.EnableJSON = cfg.JSON
	}
	return opts
}

func (cfg *Config) VersionInfo() string {
	return fmt.Sprintf(
		"Version: %s\nBuild date: %s\nGit commit: %s",
		cfg.Version, BuildDate, GitCommit,
	)
}

func PrintUsage(console *logger.Console) {
	console.Log("Usage: ddsmapconv [options] <file1.dds> [file2.dds ...]")
	console.Log("Options:")

	var buf bytes.Buffer
	fs := newFlagSet(&Config{})
	fs.SetOutput(&buf)
	fs.PrintDefaults()

	for _, line := range strings.Split(buf.String(), "\n") {
		if line != "" {
			console.Log("  %s", line)
		}
	}
}
