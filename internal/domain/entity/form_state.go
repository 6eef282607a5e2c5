package entity

// FormState is the editable state behind the invoice form. Every form update
// takes a FormState and returns a new one; nothing is kept between requests.
type FormState struct {
	Metadata      InvoiceMetadata `json:"metadata" yaml:"metadata"`
	Items         []RawLineItem   `json:"items" yaml:"items"`
	VATPercentage RawNumber       `json:"vat_percentage" yaml:"vat_percentage"`
	QRData        string          `json:"qr_data" yaml:"qr_data"`
	SaveDir       string          `json:"save_dir,omitempty" yaml:"save_dir"`
}

// Clone returns a deep copy so callers can derive a new state without
// touching the original slices.
func (s FormState) Clone() FormState {
	out := s
	if s.Items != nil {
		out.Items = make([]RawLineItem, len(s.Items))
		copy(out.Items, s.Items)
	}
	if s.Metadata.CustomFields != nil {
		out.Metadata.CustomFields = make([]CustomField, len(s.Metadata.CustomFields))
		copy(out.Metadata.CustomFields, s.Metadata.CustomFields)
	}
	return out
}
