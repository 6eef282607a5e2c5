package handler

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/sangkips/invoicer/internal/application/service"
	"github.com/sangkips/invoicer/internal/domain/entity"
	"github.com/sangkips/invoicer/internal/domain/enum"
	"github.com/sangkips/invoicer/pkg/apperror"
)

// GetRequestID extracts the request ID set by the logger middleware
func GetRequestID(c *gin.Context) string {
	return c.GetString("request_id")
}

// readUpload reads an optional multipart file. A missing field returns nil.
func readUpload(c *gin.Context, field string, maxSize int64) (*service.Upload, error) {
	header, err := c.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
		return nil, nil
	}
	if err != nil {
		return nil, apperror.NewBadRequestError("Invalid upload: " + err.Error())
	}
	return openUpload(header, maxSize)
}

func openUpload(header *multipart.FileHeader, maxSize int64) (*service.Upload, error) {
	if maxSize > 0 && header.Size > maxSize {
		return nil, apperror.NewValueError("file", fmt.Sprintf("%s exceeds the %d byte upload limit", header.Filename, maxSize))
	}
	f, err := header.Open()
	if err != nil {
		return nil, apperror.NewIOError("failed to open upload "+header.Filename, err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, apperror.NewIOError("failed to read upload "+header.Filename, err)
	}
	return &service.Upload{Name: header.Filename, Data: data}, nil
}

// parseFormState reads the invoice form fields posted by the HTML page.
func parseFormState(c *gin.Context) (entity.FormState, error) {
	state := entity.FormState{
		Metadata: entity.InvoiceMetadata{
			Title:           c.PostForm("title"),
			CompanyName:     c.PostForm("company_name"),
			InvoiceNumber:   c.PostForm("invoice_number"),
			InvoiceDate:     c.PostForm("invoice_date"),
			DueDate:         c.PostForm("due_date"),
			CustomerName:    c.PostForm("customer_name"),
			CustomerAddress: c.PostForm("customer_address"),
			ThemeColor:      c.PostForm("theme_color"),
			Currency:        c.PostForm("currency"),
		},
		VATPercentage: entity.RawNumber(c.PostForm("vat_percentage")),
		QRData:        c.PostForm("qr_data"),
		SaveDir:       strings.TrimSpace(c.PostForm("save_dir")),
	}

	if custom := strings.TrimSpace(c.PostForm("custom_currency")); custom != "" {
		state.Metadata.Currency = custom
	}

	if raw := strings.TrimSpace(c.PostForm("font_size")); raw != "" {
		size, err := strconv.Atoi(raw)
		if err != nil {
			return state, apperror.NewValueError("font_size", fmt.Sprintf("font size %q is not a whole number", raw))
		}
		state.Metadata.FontSize = size
	}

	labels := c.PostFormArray("cf_label")
	values := c.PostFormArray("cf_value")
	state.Metadata.CustomFields = make([]entity.CustomField, len(labels))
	for i := range labels {
		state.Metadata.CustomFields[i] = entity.CustomField{Label: labels[i], Value: at(values, i)}
	}

	codes := c.PostFormArray("item_item")
	descriptions := c.PostFormArray("item_description")
	quantities := c.PostFormArray("item_quantity")
	prices := c.PostFormArray("item_unit_price")
	state.Items = make([]entity.RawLineItem, len(codes))
	for i := range codes {
		state.Items[i] = entity.RawLineItem{
			Item:        codes[i],
			Description: at(descriptions, i),
			Quantity:    entity.RawNumber(at(quantities, i)),
			UnitPrice:   entity.RawNumber(at(prices, i)),
		}
	}

	return state, nil
}

// parseFormAction decodes a submit button value such as "remove_line_item:2".
func parseFormAction(value string) (service.FormAction, error) {
	name, index, hasIndex := strings.Cut(value, ":")
	action := service.FormAction{Type: enum.FormActionType(name)}
	if !action.Type.IsValid() {
		return action, apperror.NewValueError("action", fmt.Sprintf("unknown form action %q", name))
	}
	if hasIndex {
		i, err := strconv.Atoi(index)
		if err != nil {
			return action, apperror.NewValueError("action", fmt.Sprintf("invalid index in %q", value))
		}
		action.Index = i
	}
	return action, nil
}

func at(values []string, i int) string {
	if i < len(values) {
		return values[i]
	}
	return ""
}
