// SPDX-License-Identifier: MIT

// Package config loads solver and scheme settings from YAML.
//
// A document only needs the keys it changes; everything else keeps the
// value of the embedded default.yaml. Validation is explicit: Load and
// Parse return settings that already passed Validate.
package config

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/katalvlaran/lvfdm/mesher"
	"github.com/katalvlaran/lvfdm/pricing"
	"github.com/katalvlaran/lvfdm/scheme"
)

// MaxFileSize bounds the size of a settings file.
const MaxFileSize = 1 << 20

// ErrInvalid reports a malformed or out-of-range settings document.
var ErrInvalid = errors.New("config: invalid settings")

//go:embed default.yaml
var defaultYAML []byte

// Scheme selects the time-stepping scheme. Zero weights mean the
// literature default of the named scheme.
type Scheme struct {
	Type  string  `yaml:"type"`
	Theta float64 `yaml:"theta"`
	Mu    float64 `yaml:"mu"`
}

// Grid holds the spatial discretisation.
type Grid struct {
	XPoints     int     `yaml:"x_points"`
	VPoints     int     `yaml:"v_points"`
	Eps         float64 `yaml:"eps"`
	ScaleFactor float64 `yaml:"scale_factor"`
}

// Settings is the root document.
type Settings struct {
	Scheme       Scheme `yaml:"scheme"`
	TimeSteps    int    `yaml:"time_steps"`
	DampingSteps int    `yaml:"damping_steps"`
	Grid         Grid   `yaml:"grid"`
	Parallelism  int    `yaml:"parallelism"`
}

// Default returns the embedded default settings.
func Default() Settings {
	var s Settings
	if err := yaml.Unmarshal(defaultYAML, &s); err != nil {
		panic("config: embedded default.yaml: " + err.Error())
	}

	return s
}

// Load reads and parses the file at path.
func Load(path string) (Settings, error) {
	info, err := os.Stat(path)
	if err != nil {
		return Settings{}, fmt.Errorf("config.Load: %w", err)
	}
	if info.Size() > MaxFileSize {
		return Settings{}, fmt.Errorf("config.Load %s: %d bytes exceeds %d: %w", path, info.Size(), MaxFileSize, ErrInvalid)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Settings{}, fmt.Errorf("config.Load: %w", err)
	}
	s, err := Parse(data)
	if err != nil {
		return Settings{}, fmt.Errorf("config.Load %s: %w", path, err)
	}

	return s, nil
}

// Parse decodes data over the defaults and validates the result. Unknown
// keys are rejected.
func Parse(data []byte) (Settings, error) {
	s := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&s); err != nil && !errors.Is(err, io.EOF) {
		return Settings{}, fmt.Errorf("config.Parse: %v: %w", err, ErrInvalid)
	}
	if err := s.Validate(); err != nil {
		return Settings{}, err
	}

	return s, nil
}

// Validate checks ranges and the scheme name.
func (s Settings) Validate() error {
	switch {
	case s.TimeSteps < 1:
		return fmt.Errorf("time_steps %d: %w", s.TimeSteps, ErrInvalid)
	case s.DampingSteps < 0:
		return fmt.Errorf("damping_steps %d: %w", s.DampingSteps, ErrInvalid)
	case s.Grid.XPoints < 3 || s.Grid.VPoints < 3:
		return fmt.Errorf("grid %dx%d: %w", s.Grid.XPoints, s.Grid.VPoints, ErrInvalid)
	case !(s.Grid.Eps > 0 && s.Grid.Eps < 0.5):
		return fmt.Errorf("grid.eps %g: %w", s.Grid.Eps, ErrInvalid)
	case !(s.Grid.ScaleFactor > 0):
		return fmt.Errorf("grid.scale_factor %g: %w", s.Grid.ScaleFactor, ErrInvalid)
	case s.Parallelism < 1:
		return fmt.Errorf("parallelism %d: %w", s.Parallelism, ErrInvalid)
	}
	if _, err := s.SchemeDesc(); err != nil {
		return err
	}

	return nil
}

// SchemeDesc resolves the scheme section into a validated scheme.Desc.
func (s Settings) SchemeDesc() (scheme.Desc, error) {
	t, err := scheme.ParseType(s.Scheme.Type)
	if err != nil {
		return scheme.Desc{}, fmt.Errorf("scheme.type: %v: %w", err, ErrInvalid)
	}
	d, err := scheme.DefaultDesc(t)
	if err != nil {
		return scheme.Desc{}, fmt.Errorf("scheme.type: %v: %w", err, ErrInvalid)
	}
	if s.Scheme.Theta != 0 {
		d.Theta = s.Scheme.Theta
	}
	if s.Scheme.Mu != 0 {
		d.Mu = s.Scheme.Mu
	}
	if err := d.Validate(); err != nil {
		return scheme.Desc{}, fmt.Errorf("scheme: %v: %w", err, ErrInvalid)
	}

	return d, nil
}

// EngineOptions translates validated settings into pricing options.
func (s Settings) EngineOptions() ([]pricing.Option, error) {
	d, err := s.SchemeDesc()
	if err != nil {
		return nil, err
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}

	return []pricing.Option{
		pricing.WithScheme(d),
		pricing.WithTimeSteps(s.TimeSteps),
		pricing.WithDampingSteps(s.DampingSteps),
		pricing.WithGrid(s.Grid.XPoints, s.Grid.VPoints),
		pricing.WithParallelism(s.Parallelism),
		pricing.WithMesherOptions(mesher.WithEps(s.Grid.Eps), mesher.WithScaleFactor(s.Grid.ScaleFactor)),
	}, nil
}
