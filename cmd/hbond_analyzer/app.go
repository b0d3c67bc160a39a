package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/user/hbond_analyzer_go/internal/analysis"
	"github.com/user/hbond_analyzer_go/internal/config"
	"github.com/user/hbond_analyzer_go/internal/parser"
	"github.com/user/hbond_analyzer_go/internal/report"
)

// App runs the analysis pipelines with one configuration. Results meant for
// the user go to out; progress goes to the default logger.
type App struct {
	out io.Writer
	cfg *config.Config
}

// NewApp creates a new App for cfg.
func NewApp(out io.Writer, cfg *config.Config) *App {
	return &App{out: out, cfg: cfg}
}

func (a *App) sendStatus(message string, args ...any) {
	slog.Info(message, args...)
}

func (a *App) warn(format string, args ...any) {
	fmt.Fprintf(a.out, "Warning: "+format+"\n", args...)
}

func pick(override, fallback string) string {
	if override != "" {
		return override
	}
	return fallback
}

// timeSeries loads the bond count series and the pair index and summarizes them.
func (a *App) timeSeries() (*parser.TimeSeries, analysis.Summary, error) {
	a.sendStatus("Parsing time series.", "file", a.cfg.TimeSeries)
	ts, err := parser.LoadXVG(a.cfg.TimeSeries)
	if err != nil {
		return nil, analysis.Summary{}, fmt.Errorf("error parsing time series: %w", err)
	}
	if len(ts.Skipped) > 0 {
		a.sendStatus("Skipped unreadable lines.", "file", a.cfg.TimeSeries, "count", len(ts.Skipped))
	}

	pairs, skipped, err := parser.LoadNDXPairs(a.cfg.PairIndex)
	if err != nil {
		return nil, analysis.Summary{}, fmt.Errorf("error parsing pair index: %w", err)
	}
	if len(skipped) > 0 {
		slog.Debug("Skipped index lines without exactly two indices.", "file", a.cfg.PairIndex, "count", len(skipped))
	}
	return ts, analysis.Summarize(ts, pairs), nil
}

func (a *App) printSummary(s analysis.Summary) {
	fmt.Fprintf(a.out, "Frames analyzed: %d\n", s.Frames)
	if s.HasFrames() {
		fmt.Fprintf(a.out, "Max bonds in a frame: %d\n", s.MaxBonds)
		fmt.Fprintf(a.out, "Mean bonds per frame: %.2f\n", s.MeanBonds)
	} else {
		fmt.Fprintln(a.out, "Max bonds in a frame: N/A")
		fmt.Fprintln(a.out, "Mean bonds per frame: N/A")
	}
	fmt.Fprintf(a.out, "Unique donor-acceptor pairs: %d\n", s.UniquePairs)
}

// RunTimeSeries prints the time series summary and plots bonds against time.
// No plot is written when the series has no valid samples.
func (a *App) RunTimeSeries(ctx context.Context, output string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	ts, summary, err := a.timeSeries()
	if err != nil {
		return err
	}
	a.printSummary(summary)

	if ts.Empty() {
		fmt.Fprintln(a.out, "No valid data found in the .xvg file.")
		return nil
	}
	img, err := report.CreateTimeSeriesPlot(ts, a.cfg.DPI)
	if err != nil {
		return fmt.Errorf("error generating time series plot: %w", err)
	}
	path := pick(output, a.cfg.Plots.TimeSeries)
	if err := report.SavePNG(path, img); err != nil {
		return err
	}
	a.sendStatus("Time series plot written.", "file", path)
	return nil
}

// occurrence reads the hydrogen-bond map and its pair labels, saves the map
// as CSV, and aggregates it per pair and per residue. The labelled matrix is
// returned alongside the results.
func (a *App) occurrence() (*analysis.OccurrenceResults, *parser.OccurrenceMatrix, error) {
	a.sendStatus("Parsing hydrogen-bond map.", "file", a.cfg.Map)
	pm, err := parser.LoadXPM(a.cfg.Map)
	if err != nil {
		return nil, nil, fmt.Errorf("error parsing hydrogen-bond map: %w", err)
	}
	if len(pm.Skipped) > 0 {
		slog.Debug("Skipped non-pixel map lines.", "file", a.cfg.Map, "count", len(pm.Skipped))
	}
	if err := parser.SaveMatrixCSV(a.cfg.MatrixCSV, pm); err != nil {
		return nil, nil, fmt.Errorf("error writing %s: %w", a.cfg.MatrixCSV, err)
	}

	labels, err := parser.LoadNDXLabels(a.cfg.PairIndex)
	if err != nil {
		return nil, nil, fmt.Errorf("error parsing pair labels: %w", err)
	}
	m, err := parser.NewOccurrenceMatrix(pm, labels)
	if err != nil {
		return nil, nil, fmt.Errorf("error building occurrence matrix from %s and %s: %w", a.cfg.Map, a.cfg.PairIndex, err)
	}

	res, err := analysis.AnalyzeOccurrence(m)
	if err != nil {
		return nil, nil, fmt.Errorf("error analyzing occurrence: %w", err)
	}
	for _, e := range res.AnalysisErrors {
		slog.Debug(e)
	}
	a.sendStatus("Occurrence analysis complete.", "frames", res.Frames, "pairs", len(res.Pairs), "residues", len(res.Residues))
	return res, m, nil
}

// occurrencePlots renders the pair and residue charts. The residue chart is
// left out when no label names two residues.
func (a *App) occurrencePlots(res *analysis.OccurrenceResults) (pairs, residues []byte, err error) {
	pairs, err = report.CreatePairOccurrencePlot(res.Pairs, a.cfg.DPI)
	if err != nil {
		return nil, nil, fmt.Errorf("error generating pair occurrence plot: %w", err)
	}
	if len(res.Residues) == 0 {
		a.warn("no pair label names a donor and acceptor residue, skipping the residue plot.")
		return pairs, nil, nil
	}
	residues, err = report.CreateResidueOccurrencePlot(res.Residues, a.cfg.DPI)
	if err != nil {
		return nil, nil, fmt.Errorf("error generating residue occurrence plot: %w", err)
	}
	return pairs, residues, nil
}

// RunOccupancy runs gmx hbond (unless skipGmx is set) and plots how often
// each pair and each residue is hydrogen bonded.
func (a *App) RunOccupancy(ctx context.Context, skipGmx bool) error {
	if !skipGmx {
		if err := a.cfg.HBond().Run(ctx); err != nil {
			return err
		}
	}

	res, _, err := a.occurrence()
	if err != nil {
		return err
	}
	pairImg, residueImg, err := a.occurrencePlots(res)
	if err != nil {
		return err
	}

	written := []string{a.cfg.Plots.Pairs}
	if err := report.SavePNG(a.cfg.Plots.Pairs, pairImg); err != nil {
		return err
	}
	if residueImg != nil {
		if err := report.SavePNG(a.cfg.Plots.Residues, residueImg); err != nil {
			return err
		}
		written = append(written, a.cfg.Plots.Residues)
	}
	fmt.Fprintf(a.out, "Plots generated: %s\n", strings.Join(written, ", "))
	return nil
}

// densities estimates one density per file. Files beyond the palette size,
// empty files and files without spread are skipped with a warning.
func (a *App) densities(ctx context.Context, files []string) ([]report.DensityCurve, error) {
	curves := make([]report.DensityCurve, 0, len(files))
	for i, file := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if i >= len(report.KDEPalette) {
			a.warn("no color defined for file %s, it will be skipped.", file)
			continue
		}

		counts, skipped, err := parser.LoadCounts(file)
		if err != nil {
			return nil, fmt.Errorf("error parsing %s: %w", file, err)
		}
		if len(skipped) > 0 {
			slog.Debug("Skipped unreadable lines.", "file", file, "count", len(skipped))
		}
		if len(counts) == 0 {
			a.warn("file %s contains no valid data.", file)
			continue
		}

		d, err := analysis.EstimateDensity(parser.TrimExt(file), counts)
		if errors.Is(err, analysis.ErrDegenerate) {
			a.warn("file %s: %v.", file, err)
			continue
		} else if err != nil {
			return nil, fmt.Errorf("error estimating density of %s: %w", file, err)
		}
		slog.Debug("Density estimated.", "file", file, "samples", len(counts), "bandwidth", d.Bandwidth)
		curves = append(curves, report.DensityCurve{Density: d, Slot: i})
	}
	return curves, nil
}

// RunKDE compares the bond count distributions of several runs in one chart.
func (a *App) RunKDE(ctx context.Context, files []string, output string) error {
	curves, err := a.densities(ctx, files)
	if err != nil {
		return err
	}
	if len(curves) == 0 {
		a.warn("no file contained usable data, no plot written.")
		return nil
	}
	img, err := report.CreateKDEPlot(curves, a.cfg.DPI)
	if err != nil {
		return fmt.Errorf("error generating KDE plot: %w", err)
	}
	path := pick(output, a.cfg.Plots.KDE)
	if err := report.SavePNG(path, img); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "KDE plot written: %s\n", path)
	return nil
}

// RunReport builds the PDF report from existing gmx hbond output. Any
// extra files are compared in a KDE chart.
func (a *App) RunReport(ctx context.Context, files []string, output string) error {
	data := report.ReportData{Plots: make(map[string][]byte)}

	ts, summary, err := a.timeSeries()
	if err != nil {
		return err
	}
	data.Summary = &summary
	if !ts.Empty() {
		img, err := report.CreateTimeSeriesPlot(ts, a.cfg.DPI)
		if err != nil {
			return fmt.Errorf("error generating time series plot: %w", err)
		}
		data.Plots[report.PlotTimeSeries] = img
	}

	res, m, err := a.occurrence()
	if err != nil {
		return err
	}
	data.Occurrence = res
	mapImg, err := report.CreateExistenceMapPlot(m, a.cfg.DPI)
	if err != nil {
		return fmt.Errorf("error generating existence map plot: %w", err)
	}
	data.Plots[report.PlotMap] = mapImg
	pairImg, residueImg, err := a.occurrencePlots(res)
	if err != nil {
		return err
	}
	data.Plots[report.PlotPairs] = pairImg
	data.Plots[report.PlotResidues] = residueImg

	if len(files) > 0 {
		curves, err := a.densities(ctx, files)
		if err != nil {
			return err
		}
		if len(curves) > 0 {
			img, err := report.CreateKDEPlot(curves, a.cfg.DPI)
			if err != nil {
				return fmt.Errorf("error generating KDE plot: %w", err)
			}
			data.Plots[report.PlotKDE] = img
		}
	}

	path := pick(output, a.cfg.Report)
	a.sendStatus("Generating PDF.", "file", path)
	if err := report.BuildPDFReport(path, data); err != nil {
		return fmt.Errorf("error generating PDF report: %w", err)
	}
	fmt.Fprintf(a.out, "PDF report successfully generated: %s\n", path)
	return nil
}
