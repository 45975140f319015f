package notification

import (
	"bytes"
	"html/template"
)

var reminderTmpl = template.Must(template.New("reminder").Parse(`<!doctype html>
<html>
<body style="font-family: Arial, sans-serif; color: #333;">
  <h2>{{.Salon}}</h2>
  <p>Olá, {{.Customer}}!</p>
  <p>Lembrete: você tem <strong>{{.Service}}</strong> com {{.Professional}}
     {{if .Soon}}daqui a pouco, às{{else}}amanhã, às{{end}} <strong>{{.Time}}</strong> ({{.Date}}).</p>
  {{if .Address}}<p>Endereço: {{.Address}}</p>{{end}}
  <p>Se não puder comparecer, avise-nos com antecedência.</p>
</body>
</html>`))

var receiptTmpl = template.Must(template.New("receipt").Parse(`<!doctype html>
<html>
<body style="font-family: Arial, sans-serif; color: #333;">
  <h2>{{.Salon}}</h2>
  <p>Olá{{if .Customer}}, {{.Customer}}{{end}}!</p>
  <p>Segue em anexo o recibo da sua compra nº {{.SaleID}} no valor de <strong>{{.Total}}</strong>.</p>
  <p>Obrigado pela preferência.</p>
</body>
</html>`))

type reminderData struct {
	Salon        string
	Address      string
	Customer     string
	Service      string
	Professional string
	Date         string
	Time         string
	Soon         bool
}

type receiptData struct {
	Salon    string
	Customer string
	SaleID   uint
	Total    string
}

func render(t *template.Template, data any) (string, error) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
