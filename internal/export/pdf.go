package export

import (
	"bytes"
	"fmt"
	"sort"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/shopspring/decimal"

	"github.com/BruksfildServices01/salon-manager/internal/domain/cashregister"
	"github.com/BruksfildServices01/salon-manager/internal/models"
)

const PDFContentType = "application/pdf"

func money(d decimal.Decimal) string {
	return "R$ " + d.StringFixed(2)
}

var methodLabels = map[string]string{
	"cash":       "Dinheiro",
	"debit":      "Débito",
	"credit":     "Crédito",
	"pix":        "Pix",
	"on_account": "A prazo",
}

func methodLabel(m string) string {
	if l, ok := methodLabels[m]; ok {
		return l
	}
	return m
}

// SaleReceipt renders an 80mm receipt-style PDF for a sale.
func SaleReceipt(salon *models.Salon, sale *models.Sale, loc *time.Location) ([]byte, error) {
	// Height grows with the number of items.
	height := 90.0 + float64(len(sale.Items))*5
	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "mm",
		Size:           fpdf.SizeType{Wd: 80, Ht: height},
	})
	pdf.SetMargins(4, 4, 4)
	pdf.SetAutoPageBreak(false, 4)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pageW, _ := pdf.GetPageSize()
	w := pageW - 8

	// ── Header ──
	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(w, 6, tr(salon.Name), "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 7)
	if salon.Address != "" {
		pdf.CellFormat(w, 4, tr(salon.Address), "", 1, "C", false, 0, "")
	}
	if salon.Phone != "" {
		pdf.CellFormat(w, 4, salon.Phone, "", 1, "C", false, 0, "")
	}
	pdf.Ln(2)

	pdf.SetFont("Helvetica", "B", 8)
	pdf.CellFormat(w, 5, tr(fmt.Sprintf("Venda Nº %d", sale.ID)), "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 7)
	pdf.CellFormat(w, 4, sale.CreatedAt.In(loc).Format("02/01/2006 15:04"), "", 1, "L", false, 0, "")
	if sale.Customer != nil {
		pdf.CellFormat(w, 4, tr("Cliente: "+sale.Customer.Name), "", 1, "L", false, 0, "")
	}
	if sale.Status == "cancelled" {
		pdf.SetFont("Helvetica", "B", 8)
		pdf.CellFormat(w, 5, "CANCELADA", "", 1, "C", false, 0, "")
	}
	pdf.Ln(1)
	pdf.Line(4, pdf.GetY(), pageW-4, pdf.GetY())
	pdf.Ln(2)

	// ── Items ──
	c1, c2, c3 := w*0.55, w*0.15, w*0.30
	pdf.SetFont("Helvetica", "B", 7)
	pdf.CellFormat(c1, 5, tr("Descrição"), "B", 0, "L", false, 0, "")
	pdf.CellFormat(c2, 5, "Qtd", "B", 0, "C", false, 0, "")
	pdf.CellFormat(c3, 5, "Total", "B", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "", 7)
	for _, it := range sale.Items {
		pdf.CellFormat(c1, 5, tr(it.Description), "", 0, "L", false, 0, "")
		pdf.CellFormat(c2, 5, fmt.Sprintf("%d", it.Quantity), "", 0, "C", false, 0, "")
		pdf.CellFormat(c3, 5, money(it.Total), "", 1, "R", false, 0, "")
	}
	pdf.Ln(1)
	pdf.Line(4, pdf.GetY(), pageW-4, pdf.GetY())
	pdf.Ln(2)

	// ── Totals ──
	line := func(label, value string, bold bool) {
		style := ""
		if bold {
			style = "B"
		}
		pdf.SetFont("Helvetica", style, 8)
		pdf.CellFormat(w*0.6, 5, tr(label), "", 0, "L", false, 0, "")
		pdf.CellFormat(w*0.4, 5, value, "", 1, "R", false, 0, "")
	}
	line("Subtotal", money(sale.Subtotal), false)
	if sale.Discount.IsPositive() {
		line("Desconto", "- "+money(sale.Discount), false)
	}
	line("Total", money(sale.Total), true)
	line("Pagamento", tr(methodLabel(sale.PaymentMethod)), false)

	pdf.Ln(3)
	pdf.SetFont("Helvetica", "I", 7)
	pdf.CellFormat(w, 4, tr("Obrigado pela preferência!"), "", 1, "C", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("pdf: receipt: %w", err)
	}
	return buf.Bytes(), nil
}

// CashReport renders the closing report of a cash register on A4.
func CashReport(salon *models.Salon, rep cashregister.Report, loc *time.Location) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	reg := rep.Register

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, tr(salon.Name), "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(0, 7, tr(fmt.Sprintf("Relatório de caixa Nº %d", reg.ID)), "", 1, "L", false, 0, "")
	pdf.Ln(3)

	row := func(label, value string) {
		pdf.SetFont("Helvetica", "", 10)
		pdf.CellFormat(70, 7, tr(label), "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(0, 7, tr(value), "", 1, "L", false, 0, "")
	}

	row("Abertura", stamp(reg.OpenedAt, loc))
	if reg.ClosedAt != nil {
		row("Fechamento", stamp(*reg.ClosedAt, loc))
	}
	row("Status", reg.Status)
	row("Valor de abertura", money(reg.OpeningAmount))
	row("Total de entradas", money(rep.TotalEntries))
	row("Total de saídas", money(rep.TotalExits))
	row("Dinheiro esperado", money(rep.ExpectedCash))
	if reg.CountedAmount != nil {
		row("Dinheiro contado", money(*reg.CountedAmount))
	}
	if reg.Difference != nil {
		row("Diferença", money(*reg.Difference))
	}
	if reg.Classification != "" {
		row("Classificação", reg.Classification)
	}
	row("Movimentos", fmt.Sprintf("%d", rep.Movements))
	pdf.Ln(4)

	table := func(title string, data map[string]cashregister.MethodTotals, label func(string) string) {
		pdf.SetFont("Helvetica", "B", 11)
		pdf.CellFormat(0, 8, tr(title), "", 1, "L", false, 0, "")

		pdf.SetFillColor(230, 230, 230)
		pdf.SetFont("Helvetica", "B", 9)
		pdf.CellFormat(70, 7, "", "1", 0, "L", true, 0, "")
		pdf.CellFormat(50, 7, "Entradas", "1", 0, "R", true, 0, "")
		pdf.CellFormat(50, 7, tr("Saídas"), "1", 1, "R", true, 0, "")

		keys := make([]string, 0, len(data))
		for k := range data {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		pdf.SetFont("Helvetica", "", 9)
		for _, k := range keys {
			t := data[k]
			pdf.CellFormat(70, 7, tr(label(k)), "1", 0, "L", false, 0, "")
			pdf.CellFormat(50, 7, money(t.Entries), "1", 0, "R", false, 0, "")
			pdf.CellFormat(50, 7, money(t.Exits), "1", 1, "R", false, 0, "")
		}
		pdf.Ln(4)
	}

	table("Por forma de pagamento", rep.ByMethod, methodLabel)
	table("Por categoria", rep.ByCategory, func(s string) string { return s })

	if reg.Notes != "" {
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(0, 7, tr("Observações"), "", 1, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		pdf.MultiCell(0, 6, tr(reg.Notes), "", "L", false)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("pdf: cash report: %w", err)
	}
	return buf.Bytes(), nil
}
