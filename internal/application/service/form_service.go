package service

import (
	"fmt"
	"strings"

	"github.com/sangkips/invoicer/internal/domain/entity"
	"github.com/sangkips/invoicer/internal/domain/enum"
	"github.com/sangkips/invoicer/pkg/apperror"
	"github.com/sangkips/invoicer/pkg/pdf"
)

// FormDefaults seeds a fresh form.
type FormDefaults struct {
	ThemeColor string
	FontSize   int
	Currency   string
	QRData     string
	// UnicodeFont is set when a UTF-8 font file is configured. Without one
	// only symbols the core PDF font can draw are offered.
	UnicodeFont bool
}

// FormAction is one edit applied to a FormState.
type FormAction struct {
	Type        enum.FormActionType `json:"type" binding:"required"`
	Index       int                 `json:"index"`
	CustomField *entity.CustomField `json:"custom_field,omitempty"`
	LineItem    *entity.RawLineItem `json:"line_item,omitempty"`
	Currency    string              `json:"currency,omitempty"`
}

// FormService applies edits to the invoice form state. It keeps no state of
// its own: each call takes the current state and returns the next one.
type FormService struct {
	defaults FormDefaults
}

// NewFormService creates a new form service
func NewFormService(defaults FormDefaults) *FormService {
	if defaults.ThemeColor == "" {
		defaults.ThemeColor = DefaultThemeColor
	}
	if defaults.FontSize == 0 {
		defaults.FontSize = DefaultFontSize
	}
	if defaults.Currency == "" {
		defaults.Currency = enum.DefaultCurrency
	}
	if defaults.QRData == "" {
		defaults.QRData = "Pay to: 1234567890"
	}
	return &FormService{defaults: defaults}
}

// NewFormState returns the state shown on a blank form.
func (s *FormService) NewFormState() entity.FormState {
	return entity.FormState{
		Metadata: entity.InvoiceMetadata{
			Title:           entity.DefaultTitle,
			CompanyName:     "Your Company Name",
			InvoiceNumber:   "0001",
			CustomerName:    "Customer Name",
			CustomerAddress: "123 Customer St, City, Country",
			ThemeColor:      s.defaults.ThemeColor,
			FontSize:        s.defaults.FontSize,
			Currency:        s.defaults.Currency,
			CustomFields:    []entity.CustomField{{Label: "PO Number", Value: ""}},
		},
		Items: []entity.RawLineItem{
			{Item: "001", Description: "Product A", Quantity: "2", UnitPrice: "10.00"},
			{Item: "002", Description: "Product B", Quantity: "1", UnitPrice: "15.00"},
		},
		VATPercentage: "0",
		QRData:        s.defaults.QRData,
	}
}

// Currencies lists the selectable currency symbols.
func (s *FormService) Currencies() []string {
	out := make([]string, 0, len(enum.Currencies))
	for _, c := range enum.Currencies {
		if s.defaults.UnicodeFont || pdf.Encodable(c) {
			out = append(out, c)
		}
	}
	return out
}

// Apply returns state with action applied. state itself is left untouched.
func (s *FormService) Apply(state entity.FormState, action FormAction) (entity.FormState, error) {
	next := state.Clone()

	switch action.Type {
	case enum.FormActionAddCustomField:
		field := entity.CustomField{}
		if action.CustomField != nil {
			field = *action.CustomField
		}
		next.Metadata.CustomFields = append(next.Metadata.CustomFields, field)

	case enum.FormActionRemoveCustomField:
		if err := checkIndex("custom_fields", action.Index, len(next.Metadata.CustomFields)); err != nil {
			return state, err
		}
		fields := next.Metadata.CustomFields
		next.Metadata.CustomFields = append(fields[:action.Index], fields[action.Index+1:]...)

	case enum.FormActionUpdateCustomField:
		if err := checkIndex("custom_fields", action.Index, len(next.Metadata.CustomFields)); err != nil {
			return state, err
		}
		if action.CustomField == nil {
			return state, apperror.NewValueError("custom_field", "custom field is required")
		}
		next.Metadata.CustomFields[action.Index] = *action.CustomField

	case enum.FormActionAddLineItem:
		item := entity.RawLineItem{}
		if action.LineItem != nil {
			item = *action.LineItem
		}
		next.Items = append(next.Items, item)

	case enum.FormActionRemoveLineItem:
		if err := checkIndex("items", action.Index, len(next.Items)); err != nil {
			return state, err
		}
		next.Items = append(next.Items[:action.Index], next.Items[action.Index+1:]...)

	case enum.FormActionUpdateLineItem:
		if err := checkIndex("items", action.Index, len(next.Items)); err != nil {
			return state, err
		}
		if action.LineItem == nil {
			return state, apperror.NewValueError("line_item", "line item is required")
		}
		next.Items[action.Index] = *action.LineItem

	case enum.FormActionSetCurrency:
		symbol := strings.TrimSpace(action.Currency)
		if symbol == "" {
			return state, apperror.NewValueError("currency", "currency symbol must not be empty")
		}
		next.Metadata.Currency = symbol

	default:
		return state, apperror.NewValueError("type", fmt.Sprintf("unknown form action %q", action.Type))
	}

	return next, nil
}

func checkIndex(field string, index, length int) error {
	if index < 0 || index >= length {
		return apperror.NewValueError(fmt.Sprintf("%s[%d]", field, index), fmt.Sprintf("%s index %d is out of range", field, index))
	}
	return nil
}
