package request

import (
	"github.com/sangkips/invoicer/internal/application/service"
	"github.com/sangkips/invoicer/internal/domain/entity"
)

// InvoiceRequest is the JSON body for layout, render and export calls.
type InvoiceRequest struct {
	Metadata      entity.InvoiceMetadata `json:"metadata"`
	Items         []entity.RawLineItem   `json:"items"`
	VATPercentage entity.RawNumber       `json:"vat_percentage"`
	QRData        string                 `json:"qr_data"`
	SaveDir       string                 `json:"save_dir"`
}

// ToFormState converts the request into form state.
func (r *InvoiceRequest) ToFormState() entity.FormState {
	return entity.FormState{
		Metadata:      r.Metadata,
		Items:         r.Items,
		VATPercentage: r.VATPercentage,
		QRData:        r.QRData,
		SaveDir:       r.SaveDir,
	}
}

// FormActionRequest is the body of POST /api/v1/form/actions.
type FormActionRequest struct {
	State  entity.FormState   `json:"state"`
	Action service.FormAction `json:"action"`
}

// QRRequest is the body of POST /api/v1/qr.
type QRRequest struct {
	Text string `json:"text" binding:"required"`
}
