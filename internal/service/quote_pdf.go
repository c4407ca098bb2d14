// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"bytes"
	"fmt"

	"github.com/phpdave11/gofpdf"
	"github.com/skip2/go-qrcode"

	"github.com/viajexmundo/agencia/internal/util"
)

const (
	pdfMargin   = 18.0
	pdfQRSize   = 32.0
	pdfLineHigh = 6.0
)

// QuoteFilename returns the attachment filename of a quote PDF.
func QuoteFilename(q Quote) string {
	return util.DownloadFilename("cotizacion "+q.Package.PackageCode+" "+q.ClientName, ".pdf", "cotizacion")
}

// RenderQuotePDF renders q as a one-page A4 PDF. When the advisor has a
// phone number, or the agency a WhatsApp number, a QR code linking to that
// WhatsApp chat is printed in the header.
func RenderQuotePDF(q Quote, agency Agency) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(pdfMargin, pdfMargin, pdfMargin)
	pdf.SetAutoPageBreak(true, pdfMargin)
	pdf.SetTitle(text("Cotizacion "+q.Package.Name), false)
	pdf.SetAuthor(text(agency.Name), false)
	pdf.AddPage()

	phone := q.advisorDigits
	if phone == "" {
		phone = DigitsOnly(agency.WhatsAppNumber)
	}
	if phone != "" {
		png, err := qrcode.Encode(BuildWhatsAppURL(phone, q.Package.PackageCode, q.Package.Name), qrcode.Medium, 256)
		if err != nil {
			return nil, fmt.Errorf("encoding quote QR code: %w", err)
		}
		opts := gofpdf.ImageOptions{ImageType: "png"}
		pdf.RegisterImageOptionsReader("whatsapp", opts, bytes.NewReader(png))
		pageW, _ := pdf.GetPageSize()
		pdf.ImageOptions("whatsapp", pageW-pdfMargin-pdfQRSize, pdfMargin, pdfQRSize, pdfQRSize, false, opts, 0, "")
	}

	pdf.SetFont("Helvetica", "B", 18)
	pdf.CellFormat(0, 10, text(agency.Name), "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, pdfLineHigh, "COTIZACION", "", 1, "L", false, 0, "")
	pdf.CellFormat(0, pdfLineHigh, text("Emision: "+q.IssueDate), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, pdfLineHigh, text("Vigente hasta: "+q.ValidUntil), "", 1, "L", false, 0, "")
	pdf.Ln(10)

	section(pdf, "Cliente")
	line(pdf, q.ClientName)
	section(pdf, "Asesor")
	line(pdf, q.AdvisorName)
	line(pdf, q.AdvisorPhone)
	section(pdf, "Viaje")
	line(pdf, fmt.Sprintf("%s (%s)", q.Package.Name, q.Package.PackageCode))
	line(pdf, fmt.Sprintf("%s, %d dias", q.Package.Destination, q.Package.DurationDays))
	line(pdf, fmt.Sprintf("Viajeros: %d", q.Travelers))
	line(pdf, "Salida: "+q.TravelDateStart)
	line(pdf, "Regreso: "+q.TravelDateEnd)

	list(pdf, "Incluye", q.Includes)
	list(pdf, "No incluye", q.Excludes)

	if q.Flight != nil {
		section(pdf, "Vuelo")
		line(pdf, "Ruta: "+q.Flight.Route)
		for _, segment := range q.Flight.Segments {
			line(pdf, "- "+segment)
		}
		line(pdf, "Precio vuelo: "+FormatPrice(q.Flight.Price, q.Currency))
	}

	section(pdf, "Resumen")
	amount(pdf, "Paquete", FormatPrice(q.PackagePrice, q.Currency))
	flight := "No incluido"
	if q.Flight != nil {
		flight = FormatPrice(q.FlightPrice, q.Currency)
	}
	amount(pdf, "Vuelo", flight)
	pdf.SetFont("Helvetica", "B", 12)
	amount(pdf, "Total", q.FormattedTotal)

	list(pdf, "Notas", q.Notes)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("rendering quote PDF: %w", err)
	}
	return buf.Bytes(), nil
}

// text transliterates s for the PDF core fonts.
func text(s string) string {
	return util.ASCII(s)
}

func section(pdf *gofpdf.Fpdf, title string) {
	pdf.Ln(2)
	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(0, pdfLineHigh+1, text(title), "B", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
}

func line(pdf *gofpdf.Fpdf, s string) {
	pdf.MultiCell(0, pdfLineHigh, text(s), "", "L", false)
}

func list(pdf *gofpdf.Fpdf, title string, items []string) {
	if len(items) == 0 {
		return
	}
	section(pdf, title)
	for _, item := range items {
		line(pdf, "- "+item)
	}
}

func amount(pdf *gofpdf.Fpdf, label, value string) {
	pdf.CellFormat(100, pdfLineHigh+1, text(label), "", 0, "L", false, 0, "")
	pdf.CellFormat(0, pdfLineHigh+1, text(value), "", 1, "R", false, 0, "")
}
