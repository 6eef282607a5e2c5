package entity

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/sangkips/invoicer/pkg/money"
)

// LineItem is one parsed invoice row.
type LineItem struct {
	Item        string          `json:"item"`
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
}

// Total is quantity × unit price.
func (l LineItem) Total() decimal.Decimal {
	return l.Quantity.Mul(l.UnitPrice)
}

// VAT is the tax on Total at vatPercentage.
func (l LineItem) VAT(vatPercentage decimal.Decimal) decimal.Decimal {
	return money.Percent(l.Total(), vatPercentage)
}

// TotalInclVAT is Total plus VAT.
func (l LineItem) TotalInclVAT(vatPercentage decimal.Decimal) decimal.Decimal {
	return l.Total().Add(l.VAT(vatPercentage))
}

// InvoiceTotals holds the accumulated figures of an invoice. The grand total
// is always derived, never stored.
type InvoiceTotals struct {
	Subtotal decimal.Decimal `json:"subtotal"`
	VATTotal decimal.Decimal `json:"vat_total"`
}

// GrandTotal is Subtotal + VATTotal.
func (t InvoiceTotals) GrandTotal() decimal.Decimal {
	return t.Subtotal.Add(t.VATTotal)
}

// MarshalJSON includes the derived grand total.
func (t InvoiceTotals) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Subtotal   decimal.Decimal `json:"subtotal"`
		VATTotal   decimal.Decimal `json:"vat_total"`
		GrandTotal decimal.Decimal `json:"grand_total"`
	}{t.Subtotal, t.VATTotal, t.GrandTotal()})
}

// CustomField is a free-form label/value pair printed under the sender block.
type CustomField struct {
	Label string `json:"label" yaml:"label" form:"label"`
	Value string `json:"value" yaml:"value" form:"value"`
}

// InvoiceMetadata carries everything printed on the page besides the table.
type InvoiceMetadata struct {
	Title           string        `json:"title" yaml:"title"`
	CompanyName     string        `json:"company_name" yaml:"company_name"`
	InvoiceNumber   string        `json:"invoice_number" yaml:"invoice_number"`
	InvoiceDate     string        `json:"invoice_date" yaml:"invoice_date"`
	DueDate         string        `json:"due_date" yaml:"due_date"`
	CustomerName    string        `json:"customer_name" yaml:"customer_name"`
	CustomerAddress string        `json:"customer_address" yaml:"customer_address"`
	ThemeColor      string        `json:"theme_color" yaml:"theme_color"`
	FontSize        int           `json:"font_size" yaml:"font_size"`
	Currency        string        `json:"currency" yaml:"currency"`
	CustomFields    []CustomField `json:"custom_fields" yaml:"custom_fields"`
}

// DefaultTitle is printed when the metadata carries no title.
const DefaultTitle = "INVOICE"

// Font size bounds accepted by the renderer.
const (
	MinFontSize = 8
	MaxFontSize = 20
)

// RawNumber is a user supplied number kept as text until it is validated.
// It accepts both JSON strings and JSON numbers.
type RawNumber string

// UnmarshalJSON accepts "2", 2 and 2.5 alike.
func (n *RawNumber) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*n = ""
		return nil
	}
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		var num json.Number
		if err := json.Unmarshal(data, &num); err != nil {
			return err
		}
		*n = RawNumber(num.String())
		return nil
	}
	*n = RawNumber(str)
	return nil
}

// UnmarshalYAML keeps the scalar text as written.
func (n *RawNumber) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("expected a number, got %s", value.Tag)
	}
	*n = RawNumber(value.Value)
	return nil
}

// String returns the trimmed text.
func (n RawNumber) String() string {
	return strings.TrimSpace(string(n))
}

// RawLineItem is a line-item grid row as typed by the user.
type RawLineItem struct {
	Item        string    `json:"item" yaml:"item"`
	Description string    `json:"description" yaml:"description"`
	Quantity    RawNumber `json:"quantity" yaml:"quantity"`
	UnitPrice   RawNumber `json:"unit_price" yaml:"unit_price"`
}

// IsBlank reports whether every cell of the row is empty. Blank rows come
// from the dynamic grid and are skipped.
func (r RawLineItem) IsBlank() bool {
	return strings.TrimSpace(r.Item) == "" &&
		strings.TrimSpace(r.Description) == "" &&
		r.Quantity.String() == "" &&
		r.UnitPrice.String() == ""
}
