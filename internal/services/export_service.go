package services

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"auraportal/internal/models"

	"github.com/jung-kurt/gofpdf"
)

// Presigned share links stay valid for a day.
const shareLinkExpiry = 24 * time.Hour

// CardExporter serializes an assembled card into a shareable document.
type CardExporter interface {
	RenderPDF(card *models.CardPayload) ([]byte, error)
	ShareCard(ctx context.Context, card *models.CardPayload) (string, error)
}

type cardExporter struct {
	minioSvc MinioService
	bucket   string
}

// NewCardExporter creates a new card exporter
func NewCardExporter(minioSvc MinioService, bucket string) CardExporter {
	return &cardExporter{minioSvc: minioSvc, bucket: bucket}
}

// RenderPDF builds a two-page landscape document: the card front on page
// one, the back with dependents and usage notes on page two.
func (e *cardExporter) RenderPDF(card *models.CardPayload) ([]byte, error) {
	pdf := gofpdf.New("L", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	marginX := 25.0
	marginY := 20.0
	pdf.SetMargins(marginX, marginY, marginX)
	pdf.SetAutoPageBreak(true, marginY)

	// Front
	pdf.AddPage()
	pdf.SetFont("Arial", "B", 20)
	pdf.SetTextColor(33, 37, 41)
	pdf.SetXY(marginX, marginY)
	pdf.Cell(0, 12, tr("CARTEIRA DE ASSOCIADO AURA"))
	pdf.Ln(18)

	pdf.SetFont("Arial", "B", 14)
	pdf.Cell(0, 10, tr(card.Nome))
	pdf.Ln(12)

	pdf.SetFont("Arial", "", 12)
	pdf.Cell(0, 8, tr(fmt.Sprintf("CPF: %s", card.CPF)))
	pdf.Ln(8)
	pdf.Cell(0, 8, tr(fmt.Sprintf("Registro: %s", card.Registro)))
	pdf.Ln(8)
	pdf.Cell(0, 8, tr(fmt.Sprintf("Validade: %s", card.Validade)))
	pdf.Ln(8)

	if card.Tipo == models.CardDependente {
		pdf.Cell(0, 8, tr("Tipo: Dependente"))
		pdf.Ln(8)
		if card.TitularNome != "" {
			pdf.Cell(0, 8, tr(fmt.Sprintf("Titular: %s", card.TitularNome)))
			pdf.Ln(8)
		}
	} else {
		pdf.Cell(0, 8, tr("Tipo: Titular"))
		pdf.Ln(8)
	}

	// Back
	pdf.AddPage()
	pdf.SetFont("Arial", "B", 14)
	pdf.Cell(0, 10, tr("VERSO DA CARTEIRA"))
	pdf.Ln(14)

	if len(card.Dependentes) > 0 {
		pdf.SetFont("Arial", "B", 11)
		pdf.SetFillColor(240, 240, 240)

		headers := []string{"Dependente", "CPF", "Registro", "Validade"}
		colWidths := []float64{80, 45, 60, 30}
		for i, header := range headers {
			pdf.CellFormat(colWidths[i], 8, tr(header), "1", 0, "C", true, 0, "")
		}
		pdf.Ln(8)

		pdf.SetFont("Arial", "", 10)
		for _, dep := range card.Dependentes {
			pdf.CellFormat(colWidths[0], 8, tr(dep.Nome), "1", 0, "L", false, 0, "")
			pdf.CellFormat(colWidths[1], 8, dep.CPF, "1", 0, "C", false, 0, "")
			pdf.CellFormat(colWidths[2], 8, dep.Registro, "1", 0, "C", false, 0, "")
			pdf.CellFormat(colWidths[3], 8, dep.Validade, "1", 0, "C", false, 0, "")
			pdf.Ln(8)
		}
		pdf.Ln(6)
	}

	pdf.SetFont("Arial", "", 10)
	pdf.MultiCell(0, 6, tr("Uso pessoal e intransferível. A apresentação desta carteira pode ser exigida junto a um documento oficial com foto."), "", "L", false)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render card PDF: %w", err)
	}
	return buf.Bytes(), nil
}

// ShareCard renders the card, stores it in object storage and returns a
// presigned link the member can pass around.
func (e *cardExporter) ShareCard(ctx context.Context, card *models.CardPayload) (string, error) {
	data, err := e.RenderPDF(card)
	if err != nil {
		return "", err
	}

	if err := e.minioSvc.EnsureBucketExists(ctx, e.bucket); err != nil {
		return "", fmt.Errorf("failed to ensure bucket: %w", err)
	}

	objectName := fmt.Sprintf("carteira-%s-%d.pdf", card.CPF, time.Now().Unix())
	if err := e.minioSvc.UploadObject(ctx, e.bucket, objectName, bytes.NewReader(data), int64(len(data)), "application/pdf"); err != nil {
		return "", fmt.Errorf("failed to upload card: %w", err)
	}

	url, err := e.minioSvc.GetPresignedURL(e.bucket, objectName, shareLinkExpiry)
	if err != nil {
		return "", fmt.Errorf("failed to presign card link: %w", err)
	}
	return url, nil
}
