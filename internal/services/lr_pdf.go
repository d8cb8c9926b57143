package services

import (
	"bytes"

	"github.com/phpdave11/gofpdf"
)

// Page geometry in mm. A4 is 210x297; the printable band matches the legacy
// forms the office prints on.
const (
	pageMarginX  = 12.0
	pageMarginY  = 12.0
	contentWidth = 186.0
)

// encodeConsignmentPDF serializes the layout into a single PDF stream. Both
// copies land in one document as consecutive pages.
func encodeConsignmentPDF(layout consignmentLayout, logo []byte) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Consignment Note", false)
	pdf.SetMargins(pageMarginX, pageMarginY, pageMarginX)
	pdf.SetAutoPageBreak(false, pageMarginY)

	logoOpts := gofpdf.ImageOptions{ImageType: "PNG", ReadDpi: true}
	hasLogo := len(logo) > 0
	if hasLogo {
		pdf.RegisterImageOptionsReader("org-logo", logoOpts, bytes.NewReader(logo))
	}

	for _, page := range layout.Pages {
		drawConsignmentPage(pdf, page, hasLogo, logoOpts)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func drawConsignmentPage(pdf *gofpdf.Fpdf, page consignmentPage, hasLogo bool, logoOpts gofpdf.ImageOptions) {
	pdf.AddPage()

	if hasLogo {
		pdf.ImageOptions("org-logo", pageMarginX, 10, 40, 0, false, logoOpts, 0, "")
	}

	// Copy label, top right.
	pdf.SetFont("Helvetica", "", 8)
	pdf.SetXY(pageMarginX+contentWidth-48, 10)
	pdf.CellFormat(48, 4, page.CopyLabel, "", 0, "R", false, 0, "")

	// Title block.
	pdf.SetXY(pageMarginX, 17)
	pdf.SetFont("Helvetica", "B", 13)
	pdf.CellFormat(contentWidth, 6, page.Title, "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 8)
	pdf.CellFormat(contentWidth, 4, page.Subtitle, "", 1, "C", false, 0, "")

	y := 30.0
	y = drawLabeledGrid(pdf, y, page.TopGrid, 10)
	y += 4

	y = drawPartyBox(pdf, y, page.Consignor, page.Consignee)
	y += 4

	y = drawInvoiceTable(pdf, y, page.InvoiceTitle, page.InvoiceColumns, page.InvoiceRows)
	y += 4

	y = drawLabeledGrid(pdf, y, [][]labeledValue{page.PermitCells}, 12)
	y += 3

	y = drawInsurance(pdf, y, page)
	y += 4

	y = drawDetailsGrid(pdf, y, page.DetailsTitle, page.DetailRows)
	y += 5

	y = drawSignBlock(pdf, y, page.SignCaption, page.PodCaption)
	y += 4

	drawCaution(pdf, y, page.Caution)
}

// drawLabeledGrid renders rows of bordered label-over-value cells, each row
// splitting the content width evenly.
func drawLabeledGrid(pdf *gofpdf.Fpdf, y float64, rows [][]labeledValue, cellH float64) float64 {
	for _, row := range rows {
		if len(row) == 0 {
			continue
		}
		w := contentWidth / float64(len(row))
		x := pageMarginX
		for _, cell := range row {
			pdf.Rect(x, y, w, cellH, "D")
			pdf.SetXY(x+1, y+1)
			pdf.SetFont("Helvetica", "", 6.5)
			pdf.SetTextColor(80, 80, 80)
			pdf.CellFormat(w-2, 3, cell.Label, "", 0, "L", false, 0, "")
			pdf.SetXY(x+1, y+cellH-4.5)
			pdf.SetFont("Helvetica", "B", 8)
			pdf.SetTextColor(0, 0, 0)
			pdf.CellFormat(w-2, 3.5, cell.Value, "", 0, "L", false, 0, "")
			x += w
		}
		y += cellH
	}
	return y
}

func drawPartyBox(pdf *gofpdf.Fpdf, y float64, consignor, consignee partyBlock) float64 {
	const boxH = 26.0
	leftW := contentWidth * 0.55
	pdf.Rect(pageMarginX, y, contentWidth, boxH, "D")
	pdf.Line(pageMarginX+leftW, y, pageMarginX+leftW, y+boxH)

	drawParty(pdf, pageMarginX, y, leftW, consignor)
	drawParty(pdf, pageMarginX+leftW, y, contentWidth-leftW, consignee)
	return y + boxH
}

func drawParty(pdf *gofpdf.Fpdf, x, y, w float64, p partyBlock) {
	pdf.SetXY(x+2, y+2)
	pdf.SetFont("Helvetica", "B", 9)
	pdf.CellFormat(w-4, 4, p.Title, "", 0, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 8)
	pdf.SetXY(x+2, y+8)
	pdf.CellFormat(w-4, 4, p.Name, "", 0, "L", false, 0, "")
	pdf.SetXY(x+2, y+13)
	pdf.CellFormat(w-4, 4, p.Address1, "", 0, "L", false, 0, "")
	pdf.SetXY(x+2, y+18)
	pdf.CellFormat(w-4, 4, p.Address2, "", 0, "L", false, 0, "")
}

var invoiceColWidths = []float64{14, 52, 28, 32, 28, 32}
var invoiceColAligns = []string{"C", "L", "C", "R", "C", "R"}

func drawInvoiceTable(pdf *gofpdf.Fpdf, y float64, title string, columns []string, rows [][]string) float64 {
	pdf.SetXY(pageMarginX, y)
	pdf.SetFont("Helvetica", "B", 9)
	pdf.CellFormat(contentWidth, 4, title, "", 1, "L", false, 0, "")
	y += 5

	pdf.SetXY(pageMarginX, y)
	pdf.SetFont("Helvetica", "B", 8)
	for i, col := range columns {
		pdf.CellFormat(invoiceColWidths[i], 6, col, "1", 0, "C", false, 0, "")
	}
	y += 6

	pdf.SetFont("Helvetica", "", 8)
	for _, row := range rows {
		pdf.SetXY(pageMarginX, y)
		for i, cell := range row {
			pdf.CellFormat(invoiceColWidths[i], 6, cell, "1", 0, invoiceColAligns[i], false, 0, "")
		}
		y += 6
	}
	return y
}

func drawInsurance(pdf *gofpdf.Fpdf, y float64, page consignmentPage) float64 {
	const boxH = 8.0
	pdf.Rect(pageMarginX, y, contentWidth, boxH, "D")
	pdf.SetFont("Helvetica", "", 7.5)
	pdf.SetXY(pageMarginX+2, y+2.5)
	pdf.CellFormat(52, 3.5, page.InsuranceLead, "", 0, "L", false, 0, "")

	x := pageMarginX + 56
	x = drawCheckbox(pdf, x, y+2.2, page.NotInsuredChecked, page.NotInsuredText)
	x += 6
	drawCheckbox(pdf, x, y+2.2, page.InsuredChecked, page.InsuredText)
	return y + boxH
}

func drawCheckbox(pdf *gofpdf.Fpdf, x, y float64, checked bool, caption string) float64 {
	const box = 3.2
	pdf.Rect(x, y, box, box, "D")
	if checked {
		pdf.SetFont("Helvetica", "B", 7.5)
		pdf.SetXY(x, y-0.2)
		pdf.CellFormat(box, box, "X", "", 0, "C", false, 0, "")
	}
	pdf.SetFont("Helvetica", "", 7.5)
	pdf.SetXY(x+box+1.5, y)
	pdf.CellFormat(50, box, caption, "", 0, "L", false, 0, "")
	return x + box + 1.5 + pdf.GetStringWidth(caption)
}

func drawDetailsGrid(pdf *gofpdf.Fpdf, y float64, title string, rows [][]labeledValue) float64 {
	top := y
	pdf.SetXY(pageMarginX, y)
	pdf.SetFont("Helvetica", "B", 9)
	pdf.CellFormat(contentWidth, 6, title, "1", 1, "C", false, 0, "")
	y += 6

	const rowH = 8.0
	for _, row := range rows {
		if len(row) == 0 {
			continue
		}
		pairW := contentWidth / float64(len(row))
		labelW := pairW * 0.42
		x := pageMarginX
		for _, cell := range row {
			pdf.Rect(x, y, pairW, rowH, "D")
			pdf.Line(x+labelW, y, x+labelW, y+rowH)
			pdf.SetXY(x+1, y+2)
			pdf.SetFont("Helvetica", "B", 7)
			pdf.CellFormat(labelW-2, 4, cell.Label, "", 0, "L", false, 0, "")
			pdf.SetXY(x+labelW+1, y+2)
			pdf.SetFont("Helvetica", "", 7.5)
			pdf.CellFormat(pairW-labelW-2, 4, cell.Value, "", 0, "L", false, 0, "")
			x += pairW
		}
		y += rowH
	}
	pdf.Rect(pageMarginX, top, contentWidth, y-top, "D")
	return y
}

func drawSignBlock(pdf *gofpdf.Fpdf, y float64, signCaption, podCaption []string) float64 {
	const boxH = 28.0
	halfW := contentWidth / 2
	pdf.Rect(pageMarginX, y, contentWidth, boxH, "D")
	pdf.Line(pageMarginX+halfW, y, pageMarginX+halfW, y+boxH)

	drawCaptionLines(pdf, pageMarginX, y, halfW, signCaption)
	drawCaptionLines(pdf, pageMarginX+halfW, y, halfW, podCaption)
	return y + boxH
}

func drawCaptionLines(pdf *gofpdf.Fpdf, x, y, w float64, lines []string) {
	for i, line := range lines {
		style := ""
		if i == 0 {
			style = "B"
		}
		pdf.SetFont("Helvetica", style, 8)
		pdf.SetXY(x+2, y+2+float64(i)*5)
		pdf.CellFormat(w-4, 4, line, "", 0, "L", false, 0, "")
	}
}

func drawCaution(pdf *gofpdf.Fpdf, y float64, caution string) {
	pdf.Line(pageMarginX, y, pageMarginX+contentWidth, y)
	pdf.SetXY(pageMarginX, y+1.5)
	pdf.SetFont("Helvetica", "", 7.5)
	pdf.MultiCell(contentWidth, 3.5, caution, "", "L", false)
}
