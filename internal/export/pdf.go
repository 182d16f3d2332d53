package export

import (
	"fmt"
	"io"
	"strconv"

	"github.com/go-pdf/fpdf"

	"cyberdock/internal/engine"
	"cyberdock/internal/format"
)

const (
	// ReportTitle heads the first page of the expedition document.
	ReportTitle = "Relatório de Expedição e Logística"

	pdfMargin    = 7.0
	pdfRowHeight = 5.0
	pdfFont      = "Helvetica"
)

var detailWidths = []float64{34, 36, 28, 24, 18, 34, 22}

type pdfWriter struct {
	pdf *fpdf.Fpdf
	tr  func(string) string
}

func newPDFWriter() *pdfWriter {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(pdfMargin, pdfMargin, pdfMargin)
	pdf.SetAutoPageBreak(false, pdfMargin)
	pdf.SetTitle(ReportTitle, true)
	return &pdfWriter{pdf: pdf, tr: pdf.UnicodeTranslatorFromDescriptor("")}
}

func (w *pdfWriter) usableWidth() float64 {
	pageW, _ := w.pdf.GetPageSize()
	left, _, right, _ := w.pdf.GetMargins()
	return pageW - left - right
}

// fits reports whether another row fits on the current page.
func (w *pdfWriter) fits(h float64) bool {
	_, pageH := w.pdf.GetPageSize()
	_, _, _, bottom := w.pdf.GetMargins()
	return w.pdf.GetY()+h <= pageH-bottom
}

// clip shortens s with an ellipsis until it fits in width.
func (w *pdfWriter) clip(s string, width float64) string {
	s = w.tr(s)
	if w.pdf.GetStringWidth(s) <= width-1 {
		return s
	}
	// Translated text is single-byte, so trimming bytes is safe.
	b := []byte(s)
	for len(b) > 0 && w.pdf.GetStringWidth(string(b)+"...") > width-1 {
		b = b[:len(b)-1]
	}
	return string(b) + "..."
}

func (w *pdfWriter) row(cells []string, widths []float64, header bool) {
	if header {
		w.pdf.SetFont(pdfFont, "B", 6)
		w.pdf.SetFillColor(211, 211, 211)
	} else {
		w.pdf.SetFont(pdfFont, "", 6)
	}
	for i, c := range cells {
		w.pdf.CellFormat(widths[i], pdfRowHeight, w.clip(c, widths[i]), "1", 0, "C", header, 0, "")
	}
	w.pdf.Ln(-1)
}

// table draws rows under a header, repeating the header on each new page.
func (w *pdfWriter) table(header []string, rows [][]string, widths []float64) {
	w.row(header, widths, true)
	for _, r := range rows {
		if !w.fits(pdfRowHeight) {
			w.pdf.AddPage()
			w.row(header, widths, true)
		}
		w.row(r, widths, false)
	}
}

func (w *pdfWriter) heading(text string, size float64) {
	w.pdf.SetFont(pdfFont, "B", size)
	w.pdf.CellFormat(w.usableWidth(), size*0.6, w.tr(text), "", 1, "C", false, 0, "")
	w.pdf.Ln(2)
}

func (w *pdfWriter) label(name, value string) {
	w.pdf.SetFont(pdfFont, "B", 9)
	nameW := w.pdf.GetStringWidth(w.tr(name)) + 2
	w.pdf.CellFormat(nameW, pdfRowHeight, w.tr(name), "", 0, "L", false, 0, "")
	w.pdf.SetFont(pdfFont, "", 9)
	w.pdf.CellFormat(w.usableWidth()-nameW, pdfRowHeight, w.tr(value), "", 1, "L", false, 0, "")
}

func (w *pdfWriter) kpis(res engine.ShipmentsResponse) {
	half := w.usableWidth() / 2
	w.pdf.SetFont(pdfFont, "", 8)
	w.pdf.SetFillColor(245, 245, 245)
	w.pdf.CellFormat(half, pdfRowHeight, w.tr("Total de Vendas Filtradas"), "1", 0, "L", true, 0, "")
	w.pdf.CellFormat(half, pdfRowHeight, format.Integer(float64(res.Summary.Orders)), "1", 1, "L", true, 0, "")
	w.pdf.SetFillColor(211, 211, 211)
	w.pdf.CellFormat(half, pdfRowHeight, w.tr("Quantidade Total"), "1", 0, "L", true, 0, "")
	w.pdf.CellFormat(half, pdfRowHeight, format.Integer(res.Summary.Units), "1", 1, "L", true, 0, "")
}

// WritePDF renders the header, periods, KPIs and detail table, then one
// page per rollup.
func WritePDF(out io.Writer, res engine.ShipmentsResponse) error {
	w := newPDFWriter()

	w.pdf.AddPage()
	w.heading(ReportTitle, 16)
	w.label("Venda:", displayPeriod(res.SalePeriod))
	w.label("Expedição:", displayPeriod(res.Deadline))
	w.pdf.Ln(4)
	w.kpis(res)
	w.pdf.Ln(4)

	rows := make([][]string, len(res.Rows))
	for i, r := range res.Rows {
		rows[i] = detailRecord(r)
	}
	w.table(detailHeader, rows, detailWidths)

	for _, sec := range rollupSections(res) {
		w.pdf.AddPage()
		w.heading(sec.title, 12)

		third := w.usableWidth() / 3
		widths := []float64{third, third, third}
		var body [][]string
		for _, r := range sec.table.WithTotal() {
			body = append(body, []string{r.Label, format.Integer(r.Units), strconv.Itoa(r.Orders)})
		}
		w.table(rollupHeader(sec.title), body, widths)
	}

	if err := w.pdf.Output(out); err != nil {
		return fmt.Errorf("error rendering pdf: %w", err)
	}
	return nil
}
