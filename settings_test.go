package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"ddsmapconv/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func plainConsole() (*logger.Console, *bytes.Buffer) {
	var buf bytes.Buffer
	opts := logger.DefaultOptions()
	opts.Output = &buf
	opts.EnableColors = false
	return logger.NewConsole(opts), &buf
}

func writeSettings(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), settingsFileName)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadSettingsCreatesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), settingsFileName)

	s, created, err := LoadSettings(path)
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, DefaultSettings(), s)
	assert.FileExists(t, path)

	again, created, err := LoadSettings(path)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, s, again)
}

func TestLoadSettingsReadsValues(t *testing.T) {
	path := writeSettings(t, "[Settings]\nRemoveBumpFromFilename=0\nGenerateSpecFile=1\nCloseTheProgramWithoutPause=0\n")

	s, created, err := LoadSettings(path)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, Settings{GenerateSpecFile: true}, s)
}

func TestLoadSettingsMissingKeysAreOff(t *testing.T) {
	path := writeSettings(t, "[Settings]\nGenerateSpecFile = 1\n")

	s, _, err := LoadSettings(path)
	require.NoError(t, err)
	assert.Equal(t, Settings{GenerateSpecFile: true}, s)

	path = writeSettings(t, "")
	s, _, err = LoadSettings(path)
	require.NoError(t, err)
	assert.Equal(t, Settings{}, s)
}

func TestLoadSettingsIgnoresNameCase(t *testing.T) {
	path := writeSettings(t, "[settings]\ngeneratespecfile=1\nREMOVEBUMPFROMFILENAME=1\nCloseTheProgramWithoutPause=0\n")

	s, _, err := LoadSettings(path)
	require.NoError(t, err)
	assert.Equal(t, Settings{RemoveBumpFromFilename: true, GenerateSpecFile: true}, s)
}

func TestLoadSettingsRejectsMalformedValues(t *testing.T) {
	content := "[Settings]\nRemoveBumpFromFilename=yes\nGenerateSpecFile=1\nCloseTheProgramWithoutPause=1\n"
	path := writeSettings(t, content)

	_, _, err := LoadSettings(path)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidSetting))
	assert.Contains(t, err.Error(), "RemoveBumpFromFilename")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, content, string(data), "existing file must not be rewritten")
}

func TestLoadSettingsWriteFailure(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", settingsFileName)

	s, created, err := LoadSettings(path)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrSettingsWrite))
	assert.False(t, created)
	assert.Equal(t, DefaultSettings(), s)
}

func TestSettingsSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), settingsFileName)
	want := Settings{RemoveBumpFromFilename: true, CloseWithoutPause: true}

	require.NoError(t, want.Save(path))
	got, _, err := LoadSettings(path)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestPrintSettings(t *testing.T) {
	console, buf := plainConsole()

	PrintSettings(console, Settings{RemoveBumpFromFilename: true})

	want := logger.Banner("Program Settings", logger.DefaultBannerWidth) + "\n" +
		"RemoveBumpFromFilename\t\tTrue\n" +
		"GenerateSpecFile\t\tFalse\n" +
		"CloseTheProgramWithoutPause\tFalse\n" +
		"\n"
	assert.Equal(t, want, buf.String())
}
