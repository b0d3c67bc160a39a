package report

import (
	"bytes"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/jung-kurt/gofpdf"

	"github.com/user/hbond_analyzer_go/internal/analysis"
)

const (
	inchToMm               = 25.4
	pdfPageWidthLandscape  = 11 * inchToMm // Letter landscape
	pdfPageHeightLandscape = 8.5 * inchToMm
	pdfMargin              = 0.5 * inchToMm
	pdfContentWidth        = pdfPageWidthLandscape - (2 * pdfMargin)

	// maxTableRows limits the ranking tables to the top entries.
	maxTableRows = 15
)

// Keys of ReportData.Plots.
const (
	PlotTimeSeries = "timeseries"
	PlotMap        = "map"
	PlotPairs      = "pairs"
	PlotResidues   = "residues"
	PlotKDE        = "kde"
)

// ReportData is everything a PDF report can show. Nil or empty parts are
// reported as unavailable.
type ReportData struct {
	Title      string
	Summary    *analysis.Summary
	Occurrence *analysis.OccurrenceResults
	Plots      map[string][]byte // PNG images keyed by the Plot* constants
}

// pdfStyler holds reusable styling and state for PDF generation
type pdfStyler struct {
	pdf         *gofpdf.Fpdf
	styles      map[string]func()
	lineHeight  float64
	currentY    float64 // Manually tracked Y position for flowing content
	pageHeight  float64
	contentTopY float64
}

func newPDFStyler(pdf *gofpdf.Fpdf) *pdfStyler {
	s := &pdfStyler{
		pdf:         pdf,
		styles:      make(map[string]func()),
		lineHeight:  6, // mm
		pageHeight:  pdfPageHeightLandscape - pdfMargin,
		contentTopY: pdfMargin,
	}
	s.currentY = s.contentTopY
	s.defineStyles()
	return s
}

func (s *pdfStyler) defineStyles() {
	s.styles["h1"] = func() {
		s.pdf.SetFont("Arial", "B", 16)
		s.pdf.SetTextColor(0, 0, 0)
	}
	s.styles["h2"] = func() {
		s.pdf.SetFont("Arial", "B", 14)
		s.pdf.SetTextColor(0, 0, 0)
	}
	s.styles["normal"] = func() {
		s.pdf.SetFont("Arial", "", 10)
		s.pdf.SetTextColor(0, 0, 0)
	}
	s.styles["tableHeader"] = func() {
		s.pdf.SetFont("Arial", "B", 9)
		s.pdf.SetFillColor(200, 200, 200)
		s.pdf.SetTextColor(0, 0, 0)
	}
	s.styles["tableCell"] = func() {
		s.pdf.SetFont("Arial", "", 9)
		s.pdf.SetTextColor(50, 50, 50)
	}
}

func (s *pdfStyler) applyStyle(styleName string) {
	if fn, ok := s.styles[styleName]; ok {
		fn()
	} else {
		s.styles["normal"]()
	}
}

func (s *pdfStyler) newPage() {
	s.pdf.AddPage()
	s.currentY = s.contentTopY
}

func (s *pdfStyler) checkAddPage(neededHeight float64) {
	if s.currentY+neededHeight > s.pageHeight {
		s.newPage()
	}
}

func (s *pdfStyler) writeParagraph(text string, styleName string, align string) {
	s.applyStyle(styleName)
	lines := s.pdf.SplitLines([]byte(text), pdfContentWidth)
	s.checkAddPage(float64(len(lines)) * s.lineHeight)

	s.pdf.SetXY(pdfMargin, s.currentY)
	s.pdf.MultiCell(pdfContentWidth, s.lineHeight, text, "", align, false)
	s.currentY = s.pdf.GetY() + 1
}

func (s *pdfStyler) addSpacer(height float64) {
	s.currentY += height
	if s.currentY > s.pageHeight {
		s.newPage()
	}
}

// writeTable draws a bordered table; relWidths are fractions of the content width.
func (s *pdfStyler) writeTable(headers []string, relWidths []float64, rows [][]string) {
	widths := make([]float64, len(relWidths))
	for i, rel := range relWidths {
		widths[i] = rel * pdfContentWidth
	}
	drawRow := func(cells []string, style string, fill bool) {
		s.checkAddPage(s.lineHeight)
		s.applyStyle(style)
		x := pdfMargin
		for i, cell := range cells {
			s.pdf.SetXY(x, s.currentY)
			s.pdf.CellFormat(widths[i], s.lineHeight, cell, "1", 0, "C", fill, 0, "")
			x += widths[i]
		}
		s.currentY += s.lineHeight
	}

	s.checkAddPage(s.lineHeight * float64(min(len(rows), 5)+1))
	drawRow(headers, "tableHeader", true)
	for _, row := range rows {
		drawRow(row, "tableCell", false)
	}
}

func (s *pdfStyler) addImage(imageBytes []byte, imageName string, width, height float64, caption string) {
	s.pdf.RegisterImageOptionsReader(imageName, gofpdf.ImageOptions{ImageType: "PNG"}, bytes.NewReader(imageBytes))

	if width > pdfContentWidth {
		ratio := pdfContentWidth / width
		width = pdfContentWidth
		height *= ratio
	}
	captionHeight := 0.0
	if caption != "" {
		captionHeight = s.lineHeight + 1
	}
	s.checkAddPage(height + captionHeight)

	x := pdfMargin + (pdfContentWidth-width)/2
	s.pdf.ImageOptions(imageName, x, s.currentY, width, height, false, gofpdf.ImageOptions{ImageType: "PNG"}, 0, "")
	s.currentY += height

	if caption != "" {
		s.addSpacer(1)
		s.writeParagraph(caption, "normal", "C")
	}
	s.addSpacer(2)
}

func (s *pdfStyler) writeSummary(sum *analysis.Summary) {
	s.writeParagraph("Time Series Summary", "h2", "L")
	if sum == nil {
		s.writeParagraph("No time series was analysed.", "normal", "L")
		return
	}
	maxBonds, meanBonds := "N/A", "N/A"
	if sum.HasFrames() {
		maxBonds = strconv.Itoa(sum.MaxBonds)
		meanBonds = fmt.Sprintf("%.2f", sum.MeanBonds)
	}
	s.writeTable(
		[]string{"Frames analysed", "Max bonds in a frame", "Mean bonds per frame", "Unique donor-acceptor pairs"},
		[]float64{0.25, 0.25, 0.25, 0.25},
		[][]string{{strconv.Itoa(sum.Frames), maxBonds, meanBonds, strconv.Itoa(sum.UniquePairs)}},
	)
}

func (s *pdfStyler) writeOccurrence(occ *analysis.OccurrenceResults) {
	s.writeParagraph("Most Frequent Donor-Acceptor Pairs", "h2", "L")
	if occ == nil || len(occ.Pairs) == 0 {
		s.writeParagraph("No hydrogen-bond map was analysed.", "normal", "L")
		return
	}
	s.writeParagraph(fmt.Sprintf("%d pairs over %d frames.", len(occ.Pairs), occ.Frames), "normal", "L")
	rows := make([][]string, 0, maxTableRows)
	for i, po := range occ.Pairs {
		if i >= maxTableRows {
			break
		}
		rows = append(rows, []string{strconv.Itoa(i + 1), po.Label, fmt.Sprintf("%.1f", po.Percent)})
	}
	s.writeTable([]string{"Rank", "Pair", "Occurrence (%)"}, []float64{0.1, 0.6, 0.3}, rows)
	s.addSpacer(5)

	s.writeParagraph("Residues by Total Occurrence", "h2", "L")
	if len(occ.Residues) == 0 {
		s.writeParagraph("No pair label names a donor and acceptor residue.", "normal", "L")
		return
	}
	rows = rows[:0]
	for i, ro := range occ.Residues {
		if i >= maxTableRows {
			break
		}
		rows = append(rows, []string{strconv.Itoa(i + 1), ro.Residue, fmt.Sprintf("%.0f", ro.Total)})
	}
	s.writeTable([]string{"Rank", "Residue", "Total occurrences"}, []float64{0.1, 0.6, 0.3}, rows)
}

// BuildPDFReport writes a PDF bundling the summary statistics, the top pair
// and residue rankings, and every chart in data.Plots.
func BuildPDFReport(filepath string, data ReportData) error {
	pdf := gofpdf.New("L", "mm", "Letter", "")
	pdf.SetMargins(pdfMargin, pdfMargin, pdfMargin)
	pdf.SetAutoPageBreak(false, pdfMargin)

	styler := newPDFStyler(pdf)
	styler.newPage()

	title := data.Title
	if title == "" {
		title = "Hydrogen Bond Analysis Report"
	}
	styler.writeParagraph(title, "h1", "C")
	styler.addSpacer(5)
	styler.writeSummary(data.Summary)
	styler.addSpacer(5)
	styler.writeOccurrence(data.Occurrence)

	styler.newPage()
	styler.writeParagraph("Graphical Analysis", "h1", "C")
	styler.addSpacer(5)

	plotDefs := []struct {
		Key     string
		Title   string
		Caption string
		Aspect  float64 // height / width of the rendered chart
	}{
		{PlotTimeSeries, "Hydrogen Bonds vs Time", "Number of hydrogen bonds in each frame", 6.0 / 10.0},
		{PlotMap, "Existence Map", "Frames in which each donor-acceptor pair is bonded", 8.0 / 12.0},
		{PlotPairs, "Pair Occurrence", "Percentage of frames each donor-acceptor pair is bonded", 8.0 / 12.0},
		{PlotResidues, "Residue Occurrence", "Bonded frames summed per residue", 6.0 / 10.0},
		{PlotKDE, "Bond Count Distributions", "Kernel density estimates of the bond count", 6.0 / 8.0},
	}
	imgHeight := styler.pageHeight - styler.contentTopY - 3*styler.lineHeight

	shown := 0
	for _, pDef := range plotDefs {
		imgBytes, ok := data.Plots[pDef.Key]
		if !ok || len(imgBytes) == 0 {
			slog.Debug("Plot not available for report.", "plot", pDef.Key)
			continue
		}
		if shown > 0 {
			styler.newPage()
		}
		styler.writeParagraph(pDef.Title, "h2", "L")
		height := imgHeight - styler.currentY + styler.contentTopY
		styler.addImage(imgBytes, pDef.Key, height/pDef.Aspect, height, pDef.Caption)
		shown++
	}
	if shown == 0 {
		styler.writeParagraph("No charts available.", "normal", "L")
	}

	if err := pdf.OutputFileAndClose(filepath); err != nil {
		return fmt.Errorf("failed to write PDF report: %w", err)
	}
	return nil
}
