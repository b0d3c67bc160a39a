// Package config holds the file names and rendering options of an analysis
// run. Every field has a default, so a config file only needs the fields it
// changes.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/user/hbond_analyzer_go/internal/gmx"
)

// Config is a run configuration. It can be instanced through Load or by
// hand; in the latter case call Check before using it.
type Config struct {
	// Gmx configures the external hydrogen-bond search.
	Gmx GmxConfig `yaml:"gmx"`

	// TimeSeries is the bond count file (gmx hbond -num).
	TimeSeries string `yaml:"timeSeries"`

	// PairIndex is the donor/acceptor index file (gmx hbond -hbn).
	PairIndex string `yaml:"pairIndex"`

	// Map is the hydrogen-bond existence map (gmx hbond -hbm).
	Map string `yaml:"map"`

	// MatrixCSV receives the existence map as CSV.
	MatrixCSV string `yaml:"matrixCsv"`

	// Plots are the output image names.
	Plots PlotConfig `yaml:"plots"`

	// Report is the PDF report written by the report command.
	Report string `yaml:"report"`

	// DPI is the resolution of every chart.
	DPI int `yaml:"dpi"`
}

// GmxConfig is the YAML form of gmx.HBondConfig. Its output names come from
// Config.TimeSeries, Config.PairIndex and Config.Map.
type GmxConfig struct {
	Exec       string   `yaml:"exec"`
	Structure  string   `yaml:"structure"`
	TPR        string   `yaml:"tpr"`
	Index      string   `yaml:"index"`
	Selections []string `yaml:"selections"`
}

// PlotConfig names the chart files.
type PlotConfig struct {
	TimeSeries string `yaml:"timeSeries"`
	Pairs      string `yaml:"pairs"`
	Residues   string `yaml:"residues"`
	KDE        string `yaml:"kde"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	d := gmx.HBondDefault
	return &Config{
		Gmx: GmxConfig{
			Exec:       d.Exec,
			Structure:  d.Structure,
			TPR:        d.TPR,
			Index:      d.Index,
			Selections: append([]string(nil), d.Selections...),
		},
		TimeSeries: d.NumOut,
		PairIndex:  d.IndexOut,
		Map:        d.MapOut,
		MatrixCSV:  "hbond_map.csv",
		Plots: PlotConfig{
			TimeSeries: "hbonds_vs_time.png",
			Pairs:      "hbond_pairs.png",
			Residues:   "hbond_residues.png",
			KDE:        "hbond_kde.png",
		},
		Report: "hbond_report.pdf",
		DPI:    300,
	}
}

// Load reads a YAML configuration file on top of the defaults and checks it.
// An empty file yields the defaults.
func Load(path string) (*Config, error) {
	c := Default()
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to decode config file %s: %w", path, err)
	}
	if err := c.Check(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// Check returns an error if a required field is empty or out of range.
func (c *Config) Check() error {
	required := map[string]string{
		"gmx.exec":         c.Gmx.Exec,
		"gmx.structure":    c.Gmx.Structure,
		"gmx.tpr":          c.Gmx.TPR,
		"gmx.index":        c.Gmx.Index,
		"timeSeries":       c.TimeSeries,
		"pairIndex":        c.PairIndex,
		"map":              c.Map,
		"matrixCsv":        c.MatrixCSV,
		"plots.timeSeries": c.Plots.TimeSeries,
		"plots.pairs":      c.Plots.Pairs,
		"plots.residues":   c.Plots.Residues,
		"plots.kde":        c.Plots.KDE,
		"report":           c.Report,
	}
	for key, v := range required {
		if v == "" {
			return fmt.Errorf("config field %s must not be empty", key)
		}
	}
	if len(c.Gmx.Selections) == 0 {
		return fmt.Errorf("config field gmx.selections must list at least one group")
	}
	if c.DPI < 1 || c.DPI > 2400 {
		return fmt.Errorf("config field dpi must be between 1 and 2400, got %d", c.DPI)
	}
	return nil
}

// HBond returns the gmx invocation described by c.
func (c *Config) HBond() gmx.HBondConfig {
	return gmx.HBondConfig{
		Exec:       c.Gmx.Exec,
		Structure:  c.Gmx.Structure,
		TPR:        c.Gmx.TPR,
		Index:      c.Gmx.Index,
		MapOut:     c.Map,
		NumOut:     c.TimeSeries,
		IndexOut:   c.PairIndex,
		Selections: c.Gmx.Selections,
	}
}
