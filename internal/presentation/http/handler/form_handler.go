package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/sangkips/invoicer/internal/application/service"
	"github.com/sangkips/invoicer/internal/domain/entity"
	"github.com/sangkips/invoicer/pkg/apperror"
	"github.com/sangkips/invoicer/pkg/money"
)

// FormOptions configures the HTML form pages.
type FormOptions struct {
	AppName       string
	AllowCopy     bool
	UploadMaxSize int64
}

// FormHandler serves the browser form: every submit posts the whole form
// back and gets the next page, so no session state is kept.
type FormHandler struct {
	formService   *service.FormService
	layoutService *service.LayoutService
	exportService *service.ExportService
	opts          FormOptions
	logger        *zap.Logger
}

// NewFormHandler creates a new form handler
func NewFormHandler(formService *service.FormService, layoutService *service.LayoutService, exportService *service.ExportService, opts FormOptions, logger *zap.Logger) *FormHandler {
	return &FormHandler{
		formService:   formService,
		layoutService: layoutService,
		exportService: exportService,
		opts:          opts,
		logger:        logger,
	}
}

type indexView struct {
	AppName    string
	State      entity.FormState
	Currencies []string
	Layout     *entity.LayoutTable
	AllowCopy  bool
	Message    string
	Errors     []apperror.FieldError
}

type resultView struct {
	AppName       string
	InvoiceNumber string
	GrandTotal    string
	Result        *entity.ExportResult
}

// Index renders a fresh form.
func (h *FormHandler) Index(c *gin.Context) {
	h.renderIndex(c, http.StatusOK, h.formService.NewFormState(), nil)
}

// Update applies the pressed form button and re-renders the form.
func (h *FormHandler) Update(c *gin.Context) {
	state, err := parseFormState(c)
	if err != nil {
		h.renderIndex(c, http.StatusUnprocessableEntity, state, err)
		return
	}

	if value := c.PostForm("action"); value != "" && value != "refresh" {
		action, err := parseFormAction(value)
		if err != nil {
			h.renderIndex(c, http.StatusUnprocessableEntity, state, err)
			return
		}
		state, err = h.formService.Apply(state, action)
		if err != nil {
			h.renderIndex(c, http.StatusUnprocessableEntity, state, err)
			return
		}
	}

	h.renderIndex(c, http.StatusOK, state, nil)
}

// Export renders the submitted form to PDF and shows the download page.
func (h *FormHandler) Export(c *gin.Context) {
	state, err := parseFormState(c)
	if err != nil {
		h.renderIndex(c, http.StatusUnprocessableEntity, state, err)
		return
	}

	logo, err := readUpload(c, "logo", h.opts.UploadMaxSize)
	if err != nil {
		h.renderIndex(c, statusOf(err), state, err)
		return
	}

	result, err := h.exportService.Export(c.Request.Context(), service.ExportRequest{State: state, Logo: logo})
	if err != nil {
		h.renderIndex(c, statusOf(err), state, err)
		return
	}

	c.HTML(http.StatusOK, "result.html", resultView{
		AppName:       h.opts.AppName,
		InvoiceNumber: state.Metadata.InvoiceNumber,
		GrandTotal:    money.Format(result.Totals.GrandTotal(), result.Currency),
		Result:        result,
	})
}

// Download streams a stored export file.
func (h *FormHandler) Download(c *gin.Context) {
	file := c.Param("file")
	rc, size, err := h.exportService.Open(c.Request.Context(), c.Param("id"), file)
	if err != nil {
		if apperror.IsKind(err, apperror.KindNotFound) {
			c.String(http.StatusNotFound, "export not found")
			return
		}
		_ = c.Error(err)
		c.String(http.StatusInternalServerError, "could not read export")
		return
	}
	defer rc.Close()

	contentType := "application/pdf"
	if file == entity.QRFileName {
		contentType = "image/png"
	}
	c.DataFromReader(http.StatusOK, size, contentType, rc, map[string]string{
		"Content-Disposition": "attachment; filename=" + strconv.Quote(file),
	})
}

func (h *FormHandler) renderIndex(c *gin.Context, status int, state entity.FormState, err error) {
	view := indexView{
		AppName:    h.opts.AppName,
		State:      state,
		Currencies: h.formService.Currencies(),
		AllowCopy:  h.opts.AllowCopy,
	}

	if err != nil {
		appErr := apperror.GetAppError(err)
		view.Message = appErr.Message
		view.Errors = appErr.Errors
		if len(view.Errors) == 0 {
			view.Errors = []apperror.FieldError{{Message: appErr.Message}}
		}
		if appErr.Kind != apperror.KindValue {
			h.logger.Error("Form request failed", zap.Error(err), zap.String("request_id", GetRequestID(c)))
		}
	}

	// the preview is best effort; errors are reported on export
	if _, table, layoutErr := h.layoutService.LayoutForm(state); layoutErr == nil {
		view.Layout = table
	}

	c.HTML(status, "index.html", view)
}

func statusOf(err error) int {
	return apperror.GetAppError(err).Code
}
