package handler

import (
	"bytes"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sangkips/invoicer/internal/application/service"
	"github.com/sangkips/invoicer/internal/domain/entity"
	"github.com/sangkips/invoicer/internal/domain/enum"
	"github.com/sangkips/invoicer/internal/presentation/http/dto/request"
	"github.com/sangkips/invoicer/internal/presentation/http/dto/response"
	"github.com/sangkips/invoicer/pkg/apperror"
	"github.com/sangkips/invoicer/pkg/qr"
)

// InvoiceHandler handles the JSON invoice API
type InvoiceHandler struct {
	formService   *service.FormService
	layoutService *service.LayoutService
	renderService *service.RenderService
	exportService *service.ExportService
	importService *service.ImportService
	uploadMaxSize int64
}

// NewInvoiceHandler creates a new invoice handler
func NewInvoiceHandler(
	formService *service.FormService,
	layoutService *service.LayoutService,
	renderService *service.RenderService,
	exportService *service.ExportService,
	importService *service.ImportService,
	uploadMaxSize int64,
) *InvoiceHandler {
	return &InvoiceHandler{
		formService:   formService,
		layoutService: layoutService,
		renderService: renderService,
		exportService: exportService,
		importService: importService,
		uploadMaxSize: uploadMaxSize,
	}
}

// Currencies lists the selectable currency symbols
func (h *InvoiceHandler) Currencies(c *gin.Context) {
	response.OK(c, "Currencies retrieved successfully", gin.H{
		"currencies": h.formService.Currencies(),
		"default":    enum.DefaultCurrency,
	})
}

// NewForm returns the default form state
func (h *InvoiceHandler) NewForm(c *gin.Context) {
	response.OK(c, "Form state created", h.formService.NewFormState())
}

// FormAction applies one edit to a form state
func (h *InvoiceHandler) FormAction(c *gin.Context) {
	var req request.FormActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	state, err := h.formService.Apply(req.State, req.Action)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Form updated", state)
}

// Layout computes the formatted invoice table
func (h *InvoiceHandler) Layout(c *gin.Context) {
	var req request.InvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	_, table, err := h.layoutService.LayoutForm(req.ToFormState())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Layout computed", table)
}

// Render returns the invoice PDF
func (h *InvoiceHandler) Render(c *gin.Context) {
	var req request.InvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	meta, table, err := h.layoutService.LayoutForm(req.ToFormState())
	if err != nil {
		response.Error(c, err)
		return
	}

	var buf bytes.Buffer
	err = h.renderService.RenderTo(c.Request.Context(), &buf, service.RenderRequest{
		QRData:   req.QRData,
		Metadata: meta,
		Layout:   table,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Header("Content-Disposition", "attachment; filename=\""+entity.InvoiceFileName+"\"")
	c.Data(http.StatusOK, "application/pdf", buf.Bytes())
}

// Export renders the invoice and stores it for download
func (h *InvoiceHandler) Export(c *gin.Context) {
	var req request.InvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	result, err := h.exportService.Export(c.Request.Context(), service.ExportRequest{State: req.ToFormState()})
	if err != nil {
		response.Error(c, err)
		return
	}

	message := "Invoice exported successfully"
	if result.CopyError != "" {
		message = "Invoice exported, but the copy to the save directory failed"
	}
	response.Created(c, message, result)
}

// ImportItems reads line items from an uploaded .xlsx workbook
func (h *InvoiceHandler) ImportItems(c *gin.Context) {
	header, err := c.FormFile("file")
	if err != nil {
		response.BadRequest(c, "A spreadsheet must be uploaded in the \"file\" field")
		return
	}

	upload, err := openUpload(header, h.uploadMaxSize)
	if err != nil {
		response.Error(c, err)
		return
	}

	result, err := h.importService.ImportLineItems(bytes.NewReader(upload.Data))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Line items imported", result)
}

// QR returns a QR code PNG
func (h *InvoiceHandler) QR(c *gin.Context) {
	var req request.QRRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, []apperror.FieldError{{Field: "text", Message: "text is required"}})
		return
	}

	png, err := qr.Encode(req.Text)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Data(http.StatusOK, "image/png", png)
}
