package notification

import (
	htmltemplate "html/template"
	"strings"
	"text/template"

	"github.com/shopspring/decimal"
)

var funcs = template.FuncMap{
	"money": func(d decimal.Decimal) string { return d.StringFixed(2) },
}

var (
	confirmEmailTmpl = template.Must(template.New("confirm").Parse(
		`Hello, {{.Name}}!

To activate your {{.Site}} account, confirm your email address with this token:

{{.Token}}

The token is valid for 24 hours.
`))

	passwordResetTmpl = template.Must(template.New("reset").Parse(
		`Hello, {{.Name}}!

A password reset was requested for your {{.Site}} account. Use this token to set a new password:

{{.Token}}

If you did not ask for a reset, ignore this message.
`))

	catalogImportedTmpl = template.Must(template.New("imported").Parse(
		`Hello, {{.Name}}!

The catalog of "{{.Shop}}" has been imported.
Listings imported: {{.Imported}}
Listings retired: {{.Retired}}
`))

	orderPlacedTmpl = template.Must(template.New("placed").Funcs(funcs).Parse(
		`Hello, {{.Name}}!

Your order {{.OrderID}} has been received and is now "{{.Status}}".
{{range .Lines}}
- {{.ProductName}} ({{.ShopName}}) x {{.Quantity}} = {{money .Sum}}{{end}}

Total: {{money .Total}}
{{if .Address}}Delivery: {{.Address}}
{{end}}`))

	invoiceTextTmpl = template.Must(template.New("invoice").Funcs(funcs).Parse(
		`Invoice for order {{.OrderID}} ({{.Status}})
Buyer: {{.Buyer}}
{{if .Address}}Delivery: {{.Address}}
{{end}}{{if .Phone}}Phone: {{.Phone}}
{{end}}{{range .Lines}}
{{.ShopName}} | {{.ProductName}} {{.Model}} | {{.Quantity}} x {{money .Price}} = {{money .Sum}}{{end}}

Total: {{money .Total}}
`))

	invoiceHTMLTmpl = htmltemplate.Must(htmltemplate.New("invoice").Funcs(htmltemplate.FuncMap(funcs)).Parse(
		`<h2>Invoice for order {{.OrderID}}</h2>
<p>Status: {{.Status}}<br>Buyer: {{.Buyer}}{{if .Address}}<br>Delivery: {{.Address}}{{end}}{{if .Phone}}<br>Phone: {{.Phone}}{{end}}</p>
<table border="1" cellpadding="4" cellspacing="0">
<tr><th>Shop</th><th>Product</th><th>Model</th><th>Qty</th><th>Price</th><th>Sum</th></tr>
{{range .Lines}}<tr><td>{{.ShopName}}</td><td>{{.ProductName}}</td><td>{{.Model}}</td><td>{{.Quantity}}</td><td>{{money .Price}}</td><td>{{money .Sum}}</td></tr>
{{end}}</table>
<p><b>Total: {{money .Total}}</b></p>
`))
)

func render(tmpl *template.Template, data any) (string, error) {
	var b strings.Builder
	if err := tmpl.Execute(&b, data); err != nil {
		return "", err
	}
	return b.String(), nil
}

func renderHTML(tmpl *htmltemplate.Template, data any) (string, error) {
	var b strings.Builder
	if err := tmpl.Execute(&b, data); err != nil {
		return "", err
	}
	return b.String(), nil
}
