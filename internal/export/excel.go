package export

import (
	"bytes"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/BruksfildServices01/salon-manager/internal/models"
)

const XLSXContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type sheet struct {
	name    string
	headers []any
	rows    [][]any
}

func workbook(sheets ...sheet) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, err
	}

	for i, sh := range sheets {
		if i == 0 {
			if err := f.SetSheetName("Sheet1", sh.name); err != nil {
				return nil, err
			}
		} else if _, err := f.NewSheet(sh.name); err != nil {
			return nil, err
		}

		if err := f.SetSheetRow(sh.name, "A1", &sh.headers); err != nil {
			return nil, err
		}
		last, _ := excelize.CoordinatesToCellName(len(sh.headers), 1)
		if err := f.SetCellStyle(sh.name, "A1", last, bold); err != nil {
			return nil, err
		}

		for r, row := range sh.rows {
			cell, _ := excelize.CoordinatesToCellName(1, r+2)
			if err := f.SetSheetRow(sh.name, cell, &row); err != nil {
				return nil, err
			}
		}
	}

	return f.WriteToBuffer()
}

func stamp(t time.Time, loc *time.Location) string {
	return t.In(loc).Format("02/01/2006 15:04")
}

func day(t time.Time) string {
	return t.Format("02/01/2006")
}

func optStamp(t *time.Time, loc *time.Location) string {
	if t == nil {
		return ""
	}
	return stamp(*t, loc)
}

// Appointments renders one row per appointment.
func Appointments(rows []models.Appointment, loc *time.Location) (*bytes.Buffer, error) {
	sh := sheet{
		name:    "Agendamentos",
		headers: []any{"ID", "Início", "Fim", "Cliente", "Telefone", "Serviço", "Profissional", "Status", "Valor"},
	}
	for _, ap := range rows {
		sh.rows = append(sh.rows, []any{
			ap.ID,
			stamp(ap.StartTime, loc),
			stamp(ap.EndTime, loc),
			ap.Customer.Name,
			ap.Customer.Phone,
			ap.Service.Name,
			ap.Professional.Name,
			ap.Status,
			ap.Price.InexactFloat64(),
		})
	}
	return workbook(sh)
}

// Sales renders a sheet of sales and a sheet with their items.
func Sales(rows []models.Sale, loc *time.Location) (*bytes.Buffer, error) {
	sales := sheet{
		name:    "Vendas",
		headers: []any{"ID", "Data", "Cliente", "Subtotal", "Desconto", "Total", "Pagamento", "Status"},
	}
	items := sheet{
		name:    "Itens",
		headers: []any{"Venda", "Tipo", "Descrição", "Qtd", "Unitário", "Total"},
	}

	for _, s := range rows {
		customer := ""
		if s.Customer != nil {
			customer = s.Customer.Name
		}
		sales.rows = append(sales.rows, []any{
			s.ID,
			stamp(s.CreatedAt, loc),
			customer,
			s.Subtotal.InexactFloat64(),
			s.Discount.InexactFloat64(),
			s.Total.InexactFloat64(),
			s.PaymentMethod,
			s.Status,
		})
		for _, it := range s.Items {
			items.rows = append(items.rows, []any{
				s.ID, it.Kind, it.Description, it.Quantity,
				it.UnitPrice.InexactFloat64(), it.Total.InexactFloat64(),
			})
		}
	}
	return workbook(sales, items)
}

func CashMovements(rows []models.CashMovement, loc *time.Location) (*bytes.Buffer, error) {
	sh := sheet{
		name:    "Movimentos",
		headers: []any{"ID", "Data", "Tipo", "Categoria", "Forma", "Valor", "Descrição"},
	}
	for _, m := range rows {
		sh.rows = append(sh.rows, []any{
			m.ID,
			stamp(m.CreatedAt, loc),
			m.Type,
			m.Category,
			m.PaymentMethod,
			m.Amount.InexactFloat64(),
			m.Description,
		})
	}
	return workbook(sh)
}

// Ledger puts payables and receivables side by side in two sheets.
func Ledger(payables []models.Payable, receivables []models.Receivable, loc *time.Location) (*bytes.Buffer, error) {
	pay := sheet{
		name:    "Contas a pagar",
		headers: []any{"ID", "Descrição", "Fornecedor", "Categoria", "Vencimento", "Valor", "Status", "Pago em"},
	}
	for _, p := range payables {
		pay.rows = append(pay.rows, []any{
			p.ID, p.Description, p.Supplier, p.Category, day(p.DueDate),
			p.Amount.InexactFloat64(), p.Status, optStamp(p.PaidAt, loc),
		})
	}

	rec := sheet{
		name:    "Contas a receber",
		headers: []any{"ID", "Descrição", "Cliente", "Vencimento", "Valor", "Status", "Recebido em"},
	}
	for _, r := range receivables {
		customer := ""
		if r.Customer != nil {
			customer = r.Customer.Name
		}
		rec.rows = append(rec.rows, []any{
			r.ID, r.Description, customer, day(r.DueDate),
			r.Amount.InexactFloat64(), r.Status, optStamp(r.PaidAt, loc),
		})
	}

	return workbook(pay, rec)
}
