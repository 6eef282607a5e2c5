package entity

import "github.com/google/uuid"

// Export file names inside an export.
const (
	InvoiceFileName = "invoice.pdf"
	QRFileName      = "qr.png"
)

// ExportResult describes the files produced by one export.
type ExportResult struct {
	ID       uuid.UUID     `json:"id"`
	Files    []string      `json:"files"`
	Totals   InvoiceTotals `json:"totals"`
	Currency string        `json:"currency"`
	// CopiedTo is the path of the PDF copy in the requested save directory.
	CopiedTo string `json:"copied_to,omitempty"`
	// CopyError reports a failed copy; the export itself still succeeded.
	CopyError string `json:"copy_error,omitempty"`
}
