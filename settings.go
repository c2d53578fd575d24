package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"ddsmapconv/logger"

	"gopkg.in/ini.v1"
)

const (
	settingsFileName = "settings.ini"
	settingsSection  = "Settings"

	keyRemoveBump        = "RemoveBumpFromFilename"
	keyGenerateSpec      = "GenerateSpecFile"
	keyCloseWithoutPause = "CloseTheProgramWithoutPause"
)

var (
	// ErrInvalidSetting marks a key whose value is neither "1" nor "0".
	ErrInvalidSetting = errors.New("invalid setting")
	// ErrSettingsWrite marks a failure to create the default settings file.
	ErrSettingsWrite = errors.New("cannot write settings file")
)

// Settings are the persisted switches read once at startup.
type Settings struct {
	RemoveBumpFromFilename bool
	GenerateSpecFile       bool
	CloseWithoutPause      bool
}

func DefaultSettings() Settings {
	return Settings{
		RemoveBumpFromFilename: true,
		GenerateSpecFile:       true,
		CloseWithoutPause:      true,
	}
}

func (s Settings) entries() []settingEntry {
	return []settingEntry{
		{keyRemoveBump, s.RemoveBumpFromFilename},
		{keyGenerateSpec, s.GenerateSpecFile},
		{keyCloseWithoutPause, s.CloseWithoutPause},
	}
}

type settingEntry struct {
	key   string
	value bool
}

// DefaultSettingsPath returns settings.ini next to the running executable.
func DefaultSettingsPath() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("locating executable: %w", err)
	}
	return filepath.Join(filepath.Dir(exe), settingsFileName), nil
}

// LoadSettings reads path, or writes the defaults to it when it does not
// exist yet. created reports that the file was written. A failure to write
// the defaults still returns them, with an error wrapping ErrSettingsWrite.
func LoadSettings(path string) (s Settings, created bool, err error) {
	if _, err := os.Stat(path); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return Settings{}, false, fmt.Errorf("checking settings file: %w", err)
		}
		s = DefaultSettings()
		if err := s.Save(path); err != nil {
			return s, false, err
		}
		return s, true, nil
	}

	// Section and key names match regardless of case.
	file, err := ini.LoadSources(ini.LoadOptions{Insensitive: true}, path)
	if err != nil {
		return Settings{}, false, fmt.Errorf("reading settings file: %w", err)
	}
	sec := file.Section(settingsSection)

	for _, f := range []struct {
		key string
		dst *bool
	}{
		{keyRemoveBump, &s.RemoveBumpFromFilename},
		{keyGenerateSpec, &s.GenerateSpecFile},
		{keyCloseWithoutPause, &s.CloseWithoutPause},
	} {
		if *f.dst, err = parseSwitch(sec, f.key); err != nil {
			return Settings{}, false, err
		}
	}
	return s, false, nil
}

// parseSwitch treats a missing key as off.
func parseSwitch(sec *ini.Section, key string) (bool, error) {
	if !sec.HasKey(key) {
		return false, nil
	}
	switch v := strings.TrimSpace(sec.Key(key).String()); v {
	case "1":
		return true, nil
	case "0":
		return false, nil
	default:
		return false, fmt.Errorf("%w: %s=%q, expected 1 or 0", ErrInvalidSetting, key, v)
	}
}

// Save writes s to path as a single [Settings] section.
func (s Settings) Save(path string) error {
	file := ini.Empty()
	sec, err := file.NewSection(settingsSection)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrSettingsWrite, err)
	}
	for _, e := range s.entries() {
		if _, err := sec.NewKey(e.key, switchValue(e.value)); err != nil {
			return fmt.Errorf("%w: %w", ErrSettingsWrite, err)
		}
	}
	if err := file.SaveTo(path); err != nil {
		return fmt.Errorf("%w: %w", ErrSettingsWrite, err)
	}
	return nil
}

func switchValue(b bool) string {
	if b {
		return "1"
	}
	return "0"
}

func trueFalse(b bool) string {
	if b {
		return "True"
	}
	return "False"
}

// PrintSettings shows the resolved settings under a banner.
func PrintSettings(console *logger.Console, s Settings) {
	console.Header("Program Settings")
	console.Log("%s\t\t%s", keyRemoveBump, trueFalse(s.RemoveBumpFromFilename))
	console.Log("%s\t\t%s", keyGenerateSpec, trueFalse(s.GenerateSpecFile))
	console.Log("%s\t%s", keyCloseWithoutPause, trueFalse(s.CloseWithoutPause))
	console.Blank()
}
