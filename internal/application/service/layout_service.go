package service

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/sangkips/invoicer/internal/domain/entity"
	"github.com/sangkips/invoicer/pkg/apperror"
	"github.com/sangkips/invoicer/pkg/money"
)

// LayoutHeader is the header row of the invoice table.
var LayoutHeader = []string{"Item", "Description", "Quantity", "Unit Price", "Total", "VAT", "Total incl. VAT"}

var maxVAT = decimal.NewFromInt(100)

// LayoutService turns line items into the formatted invoice table.
type LayoutService struct{}

// NewLayoutService creates a new layout service
func NewLayoutService() *LayoutService {
	return &LayoutService{}
}

// ParseVAT parses and validates a VAT percentage. Empty means 0.
func (s *LayoutService) ParseVAT(raw entity.RawNumber) (decimal.Decimal, error) {
	text := raw.String()
	if text == "" {
		return decimal.Zero, nil
	}
	vat, err := decimal.NewFromString(text)
	if err != nil {
		return decimal.Zero, apperror.NewValueError("vat_percentage", fmt.Sprintf("VAT percentage %q is not a number", text))
	}
	if err := s.ValidateVAT(vat); err != nil {
		return decimal.Zero, err
	}
	return vat, nil
}

// ValidateVAT checks that vat lies in 0..100.
func (s *LayoutService) ValidateVAT(vat decimal.Decimal) error {
	if vat.IsNegative() || vat.GreaterThan(maxVAT) {
		return apperror.NewValueError("vat_percentage", fmt.Sprintf("VAT percentage %s must be between 0 and 100", vat.String()))
	}
	return nil
}

// ParseLineItem validates one raw grid row. row is the 1-based row number
// used in error messages.
func (s *LayoutService) ParseLineItem(row int, raw entity.RawLineItem) (entity.LineItem, []apperror.FieldError) {
	var errs []apperror.FieldError

	qty, err := parseAmount(raw.Quantity)
	if err != nil {
		errs = append(errs, apperror.FieldError{
			Field:   fmt.Sprintf("items[%d].quantity", row),
			Message: fmt.Sprintf("row %d: quantity %s", row, err.Error()),
		})
	}
	price, err := parseAmount(raw.UnitPrice)
	if err != nil {
		errs = append(errs, apperror.FieldError{
			Field:   fmt.Sprintf("items[%d].unit_price", row),
			Message: fmt.Sprintf("row %d: unit price %s", row, err.Error()),
		})
	}
	if len(errs) > 0 {
		return entity.LineItem{}, errs
	}

	return entity.LineItem{
		Item:        strings.TrimSpace(raw.Item),
		Description: strings.TrimSpace(raw.Description),
		Quantity:    qty,
		UnitPrice:   price,
	}, nil
}

// ParseLineItems validates every non-blank row and reports all failures at once.
func (s *LayoutService) ParseLineItems(rows []entity.RawLineItem) ([]entity.LineItem, error) {
	items := make([]entity.LineItem, 0, len(rows))
	var fieldErrors []apperror.FieldError

	for i, raw := range rows {
		if raw.IsBlank() {
			continue
		}
		item, errs := s.ParseLineItem(i+1, raw)
		if len(errs) > 0 {
			fieldErrors = append(fieldErrors, errs...)
			continue
		}
		items = append(items, item)
	}

	if len(fieldErrors) > 0 {
		return nil, apperror.NewValidationError(fieldErrors)
	}
	return items, nil
}

// Totals accumulates subtotal and VAT over items. Sums are exact; rounding
// happens only when values are formatted.
func (s *LayoutService) Totals(items []entity.LineItem, vat decimal.Decimal) entity.InvoiceTotals {
	totals := entity.InvoiceTotals{Subtotal: decimal.Zero, VATTotal: decimal.Zero}
	for _, item := range items {
		totals.Subtotal = totals.Subtotal.Add(item.Total())
		totals.VATTotal = totals.VATTotal.Add(item.VAT(vat))
	}
	return totals
}

// BuildLayout computes the invoice table for items at the given VAT rate.
func (s *LayoutService) BuildLayout(items []entity.LineItem, vat decimal.Decimal, currency string) (*entity.LayoutTable, error) {
	if err := s.ValidateVAT(vat); err != nil {
		return nil, err
	}
	for i, item := range items {
		if item.Quantity.IsNegative() || item.UnitPrice.IsNegative() {
			return nil, apperror.NewValueError(fmt.Sprintf("items[%d]", i+1), fmt.Sprintf("row %d: quantity and unit price must not be negative", i+1))
		}
	}

	table := &entity.LayoutTable{
		Header: append([]string(nil), LayoutHeader...),
		Rows:   make([][]string, 0, len(items)),
		Totals: s.Totals(items, vat),
	}

	for _, item := range items {
		table.Rows = append(table.Rows, []string{
			item.Item,
			item.Description,
			money.Quantity(item.Quantity),
			money.Format(item.UnitPrice, currency),
			money.Format(item.Total(), currency),
			money.Format(item.VAT(vat), currency),
			money.Format(item.TotalInclVAT(vat), currency),
		})
	}

	last := len(LayoutHeader) - 1
	table.Summary = [][]string{
		summaryRow(last, "Subtotal", money.Format(table.Totals.Subtotal, currency)),
		summaryRow(last, fmt.Sprintf("VAT (%s%%)", vat.String()), money.Format(table.Totals.VATTotal, currency)),
		summaryRow(last, "Grand Total", money.Format(table.Totals.GrandTotal(), currency)),
	}

	return table, nil
}

// LayoutForm validates a submitted form and builds its table. The returned
// metadata has defaults applied.
func (s *LayoutService) LayoutForm(state entity.FormState) (entity.InvoiceMetadata, *entity.LayoutTable, error) {
	items, err := s.ParseLineItems(state.Items)
	if err != nil {
		return state.Metadata, nil, err
	}
	vat, err := s.ParseVAT(state.VATPercentage)
	if err != nil {
		return state.Metadata, nil, err
	}
	meta, _, err := NormalizeMetadata(state.Metadata)
	if err != nil {
		return state.Metadata, nil, err
	}
	table, err := s.BuildLayout(items, vat, meta.Currency)
	if err != nil {
		return state.Metadata, nil, err
	}
	return meta, table, nil
}

// summaryRow puts label in the second to last column and value in the last.
func summaryRow(last int, label, value string) []string {
	row := make([]string, last+1)
	row[last-1] = label
	row[last] = value
	return row
}

func parseAmount(raw entity.RawNumber) (decimal.Decimal, error) {
	text := raw.String()
	if text == "" {
		return decimal.Zero, fmt.Errorf("is required")
	}
	d, err := decimal.NewFromString(text)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%q is not a number", text)
	}
	if d.IsNegative() {
		return decimal.Zero, fmt.Errorf("%q must not be negative", text)
	}
	return d, nil
}
