package export

import (
	"fmt"
	"io"
	"time"

	"github.com/jung-kurt/gofpdf"

	"github.com/diillson/arch-schedule-go/internal/domain/entity"
)

const pdfTableWidth = 190.0

func writePDF(w io.Writer, grid *entity.Grid, title string, columnWidths []float64) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	headerColor := [3]int{40, 40, 40}
	headerTextColor := [3]int{255, 255, 255}
	bodyTextColor := [3]int{50, 50, 50}
	lineColor := [3]int{200, 200, 200}

	widths := scaleWidths(columnWidths, pdfTableWidth)

	pdf.SetFooterFunc(func() {
		pdf.SetY(-15)
		pdf.SetFont("Arial", "I", 8)
		pdf.SetTextColor(128, 128, 128)
		footerText := fmt.Sprintf("Generated by arch-schedule | %s", time.Now().Format("2006-01-02"))
		pdf.CellFormat(0, 10, tr(footerText), "", 0, "L", false, 0, "")
		pdf.CellFormat(0, 10, tr(fmt.Sprintf("Page %d", pdf.PageNo())), "", 0, "R", false, 0, "")
	})

	drawHeader := func() {
		pdf.SetFillColor(headerColor[0], headerColor[1], headerColor[2])
		pdf.SetTextColor(headerTextColor[0], headerTextColor[1], headerTextColor[2])
		pdf.SetFont("Arial", "B", 10)
		for i, h := range grid.Row(entity.HeaderRow) {
			pdf.CellFormat(widths[i], 8, tr(h), "", 0, "L", true, 0, "")
		}
		pdf.Ln(-1)
	}

	pdf.AddPage()

	pdf.SetFont("Arial", "B", 14)
	pdf.SetTextColor(0, 0, 0)
	pdf.CellFormat(0, 12, tr(title), "", 1, "L", false, 0, "")
	pdf.SetDrawColor(lineColor[0], lineColor[1], lineColor[2])
	pdf.Line(pdf.GetX(), pdf.GetY(), pdf.GetX()+pdfTableWidth, pdf.GetY())
	pdf.Ln(4)

	drawHeader()

	_, pageHeight := pdf.GetPageSize()
	_, _, _, bottomMargin := pdf.GetMargins()
	for _, row := range grid.DataRows() {
		if pdf.GetY()+7 > pageHeight-bottomMargin-15 {
			pdf.AddPage()
			drawHeader()
		}

		style := ""
		if row[0] == "TOTAL" {
			style = "B"
		}
		pdf.SetFont("Arial", style, 10)
		pdf.SetTextColor(bodyTextColor[0], bodyTextColor[1], bodyTextColor[2])
		pdf.CellFormat(widths[0], 7, tr(row[0]), "B", 0, "L", false, 0, "")
		pdf.CellFormat(widths[1], 7, tr(row[1]), "B", 0, "R", false, 0, "")
		pdf.CellFormat(widths[2], 7, tr(row[2]), "B", 1, "L", false, 0, "")
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("error rendering PDF: %w", err)
	}
	return nil
}

// scaleWidths distribui total proporcionalmente às larguras configuradas.
func scaleWidths(widths []float64, total float64) []float64 {
	w := make([]float64, len(entity.Columns))
	sum := 0.0
	for i := range w {
		w[i] = defaultColumnWidths[i]
		if i < len(widths) && widths[i] > 0 {
			w[i] = widths[i]
		}
		sum += w[i]
	}
	for i := range w {
		w[i] = w[i] / sum * total
	}
	return w
}
