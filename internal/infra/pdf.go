package infra

// pdf.go — closing report generation using go-pdf/fpdf.
// One A4 page per cierre with:
//   - Punto de venta header and session dates
//   - Per-payment-type table (esperado, declarado, diferencia)
//   - Bold totals with the favorable / desfavorable classification
//
// The output file is saved to storagePath/cierre_{id}.pdf.

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"caffito/internal/model"

	"github.com/go-pdf/fpdf"
	"github.com/shopspring/decimal"
)

// GenerateReporteCierrePDF renders the closing report for a closed caja.
// storagePath is the directory where the PDF will be written (created if
// needed). Returns the absolute path to the generated file.
func GenerateReporteCierrePDF(caja *model.Caja, storagePath string) (string, error) {
	if err := os.MkdirAll(storagePath, 0755); err != nil {
		return "", fmt.Errorf("pdf: create storage dir: %w", err)
	}

	fileName := fmt.Sprintf("cierre_%s.pdf", caja.ID)
	filePath := filepath.Join(storagePath, fileName)

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 30

	// ── Header ───────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(contentW, 9, tr("Reporte de Cierre de Caja"), "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(contentW, 6, tr(fmt.Sprintf("Punto de venta: %d — %s", caja.PuntoDeVenta, caja.PuntoDeVentaNombre)), "", 1, "L", false, 0, "")
	pdf.CellFormat(contentW, 6, tr("Cajero: "+caja.UsuarioLogin), "", 1, "L", false, 0, "")
	pdf.CellFormat(contentW, 6, "Apertura: "+caja.FechaInicio.Format("02/01/2006 15:04"), "", 1, "L", false, 0, "")
	if caja.FechaFin != nil {
		pdf.CellFormat(contentW, 6, "Cierre: "+caja.FechaFin.Format("02/01/2006 15:04"), "", 1, "L", false, 0, "")
	}
	pdf.Ln(4)

	// ── Flujo table ──────────────────────────────────────────────────────────
	col1 := contentW * 0.40 // tipo de pago
	col2 := contentW * 0.20 // esperado
	col3 := contentW * 0.20 // declarado
	col4 := contentW * 0.20 // diferencia

	pdf.SetFont("Helvetica", "B", 9)
	pdf.CellFormat(col1, 7, "Tipo de pago", "B", 0, "L", false, 0, "")
	pdf.CellFormat(col2, 7, "Esperado", "B", 0, "R", false, 0, "")
	pdf.CellFormat(col3, 7, "Declarado", "B", 0, "R", false, 0, "")
	pdf.CellFormat(col4, 7, "Diferencia", "B", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "", 9)
	totalDiferencia := decimal.Zero
	for _, f := range caja.Flujos {
		pdf.CellFormat(col1, 6, tr(model.TrimFixed(f.TipoPagoNombre)), "", 0, "L", false, 0, "")
		pdf.CellFormat(col2, 6, FormatARS(f.Pendiente), "", 0, "R", false, 0, "")
		pdf.CellFormat(col3, 6, FormatARS(f.Ingreso), "", 0, "R", false, 0, "")
		pdf.CellFormat(col4, 6, FormatARS(f.Diferencia), "", 1, "R", false, 0, "")
		totalDiferencia = totalDiferencia.Add(f.Diferencia)
	}

	pdf.Ln(2)
	pdf.Line(15, pdf.GetY(), pageW-15, pdf.GetY())
	pdf.Ln(2)

	// ── Totals ───────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(col1+col2, 7, "Fondo inicial:", "", 0, "L", false, 0, "")
	pdf.CellFormat(col3+col4, 7, FormatARS(caja.Inicio), "", 1, "R", false, 0, "")
	pdf.CellFormat(col1+col2, 7, "Ingresos registrados:", "", 0, "L", false, 0, "")
	pdf.CellFormat(col3+col4, 7, FormatARS(caja.Ingresos), "", 1, "R", false, 0, "")
	pdf.CellFormat(col1+col2, 7, "Gastos registrados:", "", 0, "L", false, 0, "")
	pdf.CellFormat(col3+col4, 7, FormatARS(caja.Gastos), "", 1, "R", false, 0, "")
	if caja.Cierre != nil {
		pdf.CellFormat(col1+col2, 7, "Cierre declarado:", "", 0, "L", false, 0, "")
		pdf.CellFormat(col3+col4, 7, FormatARS(*caja.Cierre), "", 1, "R", false, 0, "")
	}

	clasificacion := "favorable"
	if totalDiferencia.IsNegative() {
		clasificacion = "desfavorable"
	}
	pdf.Ln(2)
	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(col1+col2, 8, tr("Diferencia ("+clasificacion+"):"), "", 0, "L", false, 0, "")
	pdf.CellFormat(col3+col4, 8, FormatARS(totalDiferencia), "", 1, "R", false, 0, "")

	if err := pdf.OutputFileAndClose(filePath); err != nil {
		return "", fmt.Errorf("pdf: write file: %w", err)
	}

	return filePath, nil
}

// FormatARS renders a decimal as Argentine currency: $ 1.234,56
// (dot as thousands separator, comma as decimal separator).
func FormatARS(d decimal.Decimal) string {
	s := d.Abs().StringFixed(2)
	parts := strings.SplitN(s, ".", 2)
	entero, dec := parts[0], parts[1]

	var b strings.Builder
	for i, r := range entero {
		if i > 0 && (len(entero)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}

	sign := ""
	if d.IsNegative() {
		sign = "-"
	}
	return sign + "$ " + b.String() + "," + dec
}
