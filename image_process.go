package main

import (
	"bufio"
	"errors"
	"fmt"
	"image"
	"io/fs"
	"os"
	"path/filepath"

	"ddsmapconv/dds"
	"ddsmapconv/logger"
	"ddsmapconv/tga"
)

const (
	specularSuffix = "Spec"
	normalSuffix   = "Normal"
)

// ErrProcessorClosed is returned when a file is processed outside Open/Close.
var ErrProcessorClosed = errors.New("processor is not open")

type ErrorKind int

const (
	KindFileNotFound ErrorKind = iota
	KindDecode
	KindWriteSpecular
	KindWriteNormal
)

func (k ErrorKind) String() string {
	switch k {
	case KindFileNotFound:
		return "file not found"
	case KindDecode:
		return "decode failure"
	case KindWriteSpecular:
		return "specular write failure"
	case KindWriteNormal:
		return "normal write failure"
	}
	return "unknown failure"
}

// ProcessError is the terminal failure of one file in a batch.
type ProcessError struct {
	Kind  ErrorKind
	Index int
	Total int
	Path  string
	Err   error
}

func (e *ProcessError) Error() string {
	return fmt.Sprintf("[%d/%d] %s: %s: %v", e.Index, e.Total, e.Kind, e.Path, e.Err)
}

func (e *ProcessError) Unwrap() error {
	return e.Err
}

type ProcessStats struct {
	TotalFiles     int
	ConvertedFiles int
	SpecularMaps   int
	NormalMaps     int
}

// Processor converts DDS files one at a time. The DDS decoder it holds is
// acquired by Open and released by Close.
type Processor struct {
	Settings  Settings
	OutputDir string
	Console   *logger.Console
	Stats     ProcessStats

	decoder *dds.Decoder
}

func NewProcessor(cfg *Config, console *logger.Console) *Processor {
	return &Processor{
		Settings:  cfg.Settings,
		OutputDir: cfg.OutputDir,
		Console:   console,
	}
}

func (p *Processor) Open() {
	if p.decoder == nil {
		p.decoder = dds.NewDecoder()
	}
}

// Close releases the decoder. Calling it more than once is harmless.
func (p *Processor) Close() {
	p.decoder = nil
}

// ProcessAll converts paths in order and stops at the first failure, which
// is returned. Files after it are never touched.
func (p *Processor) ProcessAll(paths []string) error {
	p.Stats = ProcessStats{TotalFiles: len(paths)}

	for i, path := range paths {
		if err := p.ProcessFile(path, i+1, len(paths)); err != nil {
			return err
		}
	}
	return nil
}

// ProcessFile converts the file at path, the index-th of total (1-based),
// into a normal map and, when enabled, a specular map.
func (p *Processor) ProcessFile(path string, index, total int) error {
	if p.decoder == nil {
		return ErrProcessorClosed
	}

	prefix := fmt.Sprintf("[%d/%d]", index, total)
	fail := func(kind ErrorKind, err error) error {
		perr := &ProcessError{Kind: kind, Index: index, Total: total, Path: path, Err: err}
		p.report(prefix, perr)
		return perr
	}

	if _, err := os.Stat(path); err != nil {
		return fail(KindFileNotFound, err)
	}

	base := OutputBaseName(path, p.Settings.RemoveBumpFromFilename)

	tex, err := p.decode(path)
	if err != nil {
		return fail(KindDecode, err)
	}

	timer := p.Console.StartTimer(prefix + " Conversion")

	p.Console.Header(prefix)
	p.Console.Log("%s File: %q [%dx%d] (bpp: %d)", prefix, filepath.Base(path), tex.Width, tex.Height, tex.BitsPerPixel)

	if err := ensureDir(p.OutputDir); err != nil {
		kind := KindWriteNormal
		if p.Settings.GenerateSpecFile {
			kind = KindWriteSpecular
		}
		return fail(kind, err)
	}

	if p.Settings.GenerateSpecFile {
		p.Console.Log("%s Saving: Specular...", prefix)
		if err := p.writeMap(OutputFileName(base, specularSuffix), SpecularMap(tex.Image)); err != nil {
			return fail(KindWriteSpecular, err)
		}
		p.Stats.SpecularMaps++
		p.Console.Success("%s The Spec is saved.", prefix)
	}

	p.Console.Log("%s Saving: Normal...", prefix)
	if err := p.writeMap(OutputFileName(base, normalSuffix), NormalMap(tex.Image, tex.HasAlpha)); err != nil {
		return fail(KindWriteNormal, err)
	}
	p.Stats.NormalMaps++
	p.Console.Success("%s The Normal is saved.", prefix)

	p.Stats.ConvertedFiles++
	timer.End()
	p.Console.Blank()
	return nil
}

func (p *Processor) decode(path string) (*dds.Texture, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening file: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("reading file info: %w", err)
	}

	tex, err := p.decoder.DecodeSized(bufio.NewReader(f), info.Size())
	if err != nil {
		return nil, fmt.Errorf("decoding DDS: %w", err)
	}
	return tex, nil
}

func (p *Processor) writeMap(name string, img image.Image) (err error) {
	f, err := os.Create(filepath.Join(p.OutputDir, name))
	if err != nil {
		return fmt.Errorf("creating %s: %w", name, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("closing %s: %w", name, cerr)
		}
	}()

	if err := tga.Encode(f, img); err != nil {
		return fmt.Errorf("writing %s: %w", name, err)
	}
	return nil
}

func (p *Processor) report(prefix string, perr *ProcessError) {
	switch perr.Kind {
	case KindFileNotFound:
		p.Console.Error("%s The file could not be found. [%s]", prefix, perr.Path)
	case KindDecode:
		p.Console.Error("%s The file could not be opened. [%s]", prefix, perr.Path)
		p.Console.Error("If you are using a dds file, make sure that it is not BC7")
	case KindWriteSpecular:
		p.Console.Error("%s Error saving the Spec file.", prefix)
	case KindWriteNormal:
		p.Console.Error("%s Error saving the Normal file.", prefix)
	}
	p.Console.Log("%s Reason: %v", prefix, perr.Err)
}

// PrintSummary shows what the last ProcessAll produced.
func (p *Processor) PrintSummary() {
	if p.Console.JSON {
		p.Console.Logger.Info("summary",
			"total", p.Stats.TotalFiles,
			"converted", p.Stats.ConvertedFiles,
			"specular", p.Stats.SpecularMaps,
			"normal", p.Stats.NormalMaps,
			"output", p.OutputDir,
		)
		return
	}

	table := p.Console.NewTable([]string{"Metric", "Value"})
	table.AddRow("Converted files", fmt.Sprintf("%d/%d", p.Stats.ConvertedFiles, p.Stats.TotalFiles))
	table.AddRow("Specular maps", fmt.Sprintf("%d", p.Stats.SpecularMaps))
	table.AddRow("Normal maps", fmt.Sprintf("%d", p.Stats.NormalMaps))
	table.AddRow("Output folder", p.OutputDir)
	table.Print()
}

// ensureDir creates dir when missing. Parents are not created.
func ensureDir(dir string) error {
	info, err := os.Stat(dir)
	if err == nil {
		if !info.IsDir() {
			return fmt.Errorf("%s is not a directory", dir)
		}
		return nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	if err := os.Mkdir(dir, 0o755); err != nil {
		return fmt.Errorf("creating output folder: %w", err)
	}
	return nil
}
