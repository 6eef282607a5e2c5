package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"io/fs"
	"math"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/sangkips/invoicer/internal/domain/entity"
	"github.com/sangkips/invoicer/internal/domain/enum"
	"github.com/sangkips/invoicer/pkg/apperror"
	"github.com/sangkips/invoicer/pkg/pdf"
	"github.com/sangkips/invoicer/pkg/qr"
)

// LogoPlaceholder is drawn when no usable logo is supplied.
const LogoPlaceholder = "[LOGO PLACEHOLDER]"

// Default texts for the fixed page furniture.
const (
	DefaultQRCaption  = "Scan to pay"
	DefaultFooter     = "Thank you for your business!"
	DefaultThemeColor = "#4F8EF7"
	DefaultFontSize   = 10
)

// Page geometry in points from the top-left corner of an A4 page. Positions
// are absolute: long custom-field lists or many line items overlap whatever
// sits below or above them.
const (
	titleBaseline       = 50
	companyBaseline     = 72
	logoX               = 40
	logoY               = 60
	logoW               = 100
	logoH               = 50
	placeholderBaseline = 80
	senderX             = 40
	recipientX          = 350
	blockTop            = 130
	blockStep           = 15
	customFieldsTop     = 195
	customFieldGap      = 5
	tableX              = 40
	tableBottom         = 350
	tableHeaderPadding  = 12
	qrX                 = 450
	qrY                 = 370
	qrSize              = 100
	qrCaptionBaseline   = 482
	footerBaseline      = 810
)

var tableColWidths = []float64{60, 150, 50, 60, 50, 50, 60}

// RenderOptions configures the renderer.
type RenderOptions struct {
	QRCaption string
	Footer    string
	// FontFile is an optional UTF-8 TTF font for currency symbols outside cp1252.
	FontFile string
	Compress bool
	Creator  string
	// TempDir holds the per-render QR image. Empty means os.TempDir().
	TempDir string
	// Now stamps the PDF creation date.
	Now func() time.Time
}

// RenderRequest is everything needed to draw one invoice page.
type RenderRequest struct {
	OutputPath string
	// LogoPath is optional; a missing or unusable file draws LogoPlaceholder.
	LogoPath string
	QRData   string
	Metadata entity.InvoiceMetadata
	Items    []entity.LineItem
	// VATPercentage applies to Items. Ignored when Layout is set.
	VATPercentage decimal.Decimal
	// Layout is a pre-built table; when nil it is computed from Items.
	Layout *entity.LayoutTable
}

// RenderService draws invoice pages.
type RenderService struct {
	layout *LayoutService
	opts   RenderOptions
	logger *zap.Logger
}

// NewRenderService creates a new render service
func NewRenderService(layout *LayoutService, opts RenderOptions, logger *zap.Logger) *RenderService {
	if opts.QRCaption == "" {
		opts.QRCaption = DefaultQRCaption
	}
	if opts.Footer == "" {
		opts.Footer = DefaultFooter
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RenderService{layout: layout, opts: opts, logger: logger}
}

// NormalizeMetadata fills defaults and validates styling fields.
func NormalizeMetadata(m entity.InvoiceMetadata) (entity.InvoiceMetadata, pdf.Color, error) {
	if strings.TrimSpace(m.Title) == "" {
		m.Title = entity.DefaultTitle
	}
	if strings.TrimSpace(m.Currency) == "" {
		m.Currency = enum.DefaultCurrency
	}
	if m.FontSize == 0 {
		m.FontSize = DefaultFontSize
	}
	if m.FontSize < entity.MinFontSize || m.FontSize > entity.MaxFontSize {
		return m, pdf.Color{}, apperror.Newf(apperror.KindValue, "font size %d must be between %d and %d", m.FontSize, entity.MinFontSize, entity.MaxFontSize)
	}
	if strings.TrimSpace(m.ThemeColor) == "" {
		m.ThemeColor = DefaultThemeColor
	}
	theme, err := pdf.ParseHexColor(m.ThemeColor)
	if err != nil {
		return m, pdf.Color{}, apperror.NewValueError("theme_color", "theme color must be a hex color such as #4F8EF7")
	}
	return m, theme, nil
}

// Render writes the invoice PDF to req.OutputPath. A partially written file
// is removed on failure.
func (s *RenderService) Render(ctx context.Context, req RenderRequest) error {
	if req.OutputPath == "" {
		return apperror.NewValueError("output_path", "output path is required")
	}

	var buf bytes.Buffer
	if err := s.RenderTo(ctx, &buf, req); err != nil {
		return err
	}

	if err := os.WriteFile(req.OutputPath, buf.Bytes(), 0o644); err != nil {
		os.Remove(req.OutputPath)
		return apperror.NewIOError("failed to write invoice "+req.OutputPath, err)
	}

	s.logger.Info("Invoice saved",
		zap.String("path", req.OutputPath),
		zap.String("invoice_number", req.Metadata.InvoiceNumber),
		zap.Int("bytes", buf.Len()),
	)
	return nil
}

// RenderTo draws the invoice and writes the finished PDF to w.
func (s *RenderService) RenderTo(ctx context.Context, w io.Writer, req RenderRequest) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	meta, theme, err := NormalizeMetadata(req.Metadata)
	if err != nil {
		return err
	}

	table := req.Layout
	if table == nil {
		table, err = s.layout.BuildLayout(req.Items, req.VATPercentage, meta.Currency)
		if err != nil {
			return err
		}
	}

	if err := s.checkGlyphs(meta, table); err != nil {
		return err
	}

	logo, err := s.loadLogo(req.LogoPath)
	if err != nil {
		return err
	}

	var qrPath string
	if qr.HasPayload(req.QRData) {
		qrPath, err = qr.GenerateTemp(req.QRData, s.opts.TempDir)
		if err != nil {
			return err
		}
		defer func() {
			if rmErr := os.Remove(qrPath); rmErr != nil && !errors.Is(rmErr, fs.ErrNotExist) {
				s.logger.Warn("Failed to remove temporary QR image", zap.String("path", qrPath), zap.Error(rmErr))
			}
		}()
	}

	doc := pdf.NewDocument(pdf.Options{
		Title:        meta.Title + " " + meta.InvoiceNumber,
		Author:       meta.CompanyName,
		Creator:      s.opts.Creator,
		CreationDate: s.opts.Now(),
		FontFile:     s.opts.FontFile,
		Compress:     s.opts.Compress,
	})
	fontSize := float64(meta.FontSize)

	s.drawHeader(doc, meta, theme, logo)
	s.drawParties(doc, meta)
	s.drawCustomFields(doc, meta)

	doc.TableBottomAt(tableX, tableBottom, pdf.Table{
		Header:        table.Header,
		Body:          table.Rows,
		Footer:        table.Summary,
		ColWidths:     tableColWidths,
		FontSize:      fontSize,
		HeaderFill:    theme,
		HeaderText:    pdf.WhiteSmoke,
		BodyText:      pdf.Black,
		GridColor:     theme,
		HeaderPadding: tableHeaderPadding,
		BodyFills:     []pdf.Color{pdf.Beige, pdf.White},
	})

	if qrPath != "" {
		doc.ImageFile(qrPath, "PNG", qrX, qrY, qrSize, qrSize)
		doc.SetFont(pdf.StyleRegular, math.Floor(fontSize*0.8)).
			SetTextColor(pdf.Black).
			Text(qrX, qrCaptionBaseline, s.opts.QRCaption)
	}

	doc.SetFont(pdf.StyleRegular, fontSize).
		SetTextColor(pdf.Gray).
		TextCentered(footerBaseline, s.opts.Footer)

	if err := doc.Err(); err != nil {
		return apperror.Newf(apperror.KindInternal, "failed to draw invoice: %v", err)
	}
	if err := doc.Output(w); err != nil {
		return apperror.NewIOError("failed to write invoice", err)
	}
	return nil
}

func (s *RenderService) drawHeader(doc *pdf.Document, meta entity.InvoiceMetadata, theme pdf.Color, logo *logoImage) {
	fontSize := float64(meta.FontSize)

	doc.SetFont(pdf.StyleBold, fontSize*2).
		SetTextColor(theme).
		TextCentered(titleBaseline, meta.Title)

	if meta.CompanyName != "" {
		doc.SetFont(pdf.StyleBold, fontSize+2).
			SetTextColor(pdf.Black).
			TextCentered(companyBaseline, meta.CompanyName)
	}

	doc.SetTextColor(pdf.Black)
	// A recorded error is left for RenderTo to report; only a failure of the
	// logo itself falls back to the placeholder.
	if logo != nil && doc.Err() == nil {
		w, h := logo.fit(logoW, logoH)
		doc.ImageBytes(logo.data, logo.imageType, logoX+(logoW-w)/2, logoY+(logoH-h)/2, w, h)
		err := doc.Err()
		if err == nil {
			return
		}
		s.logger.Warn("Logo could not be embedded, drawing placeholder", zap.Error(err))
		doc.ClearErr()
	}
	doc.SetFont(pdf.StyleBold, fontSize).Text(logoX, placeholderBaseline, LogoPlaceholder)
}

func (s *RenderService) drawParties(doc *pdf.Document, meta entity.InvoiceMetadata) {
	doc.SetFont(pdf.StyleRegular, float64(meta.FontSize)).SetTextColor(pdf.Black)

	y := float64(blockTop)
	doc.Text(senderX, y, "From: "+meta.CompanyName)
	doc.Text(senderX, y+blockStep, "Invoice #: "+meta.InvoiceNumber)
	doc.Text(senderX, y+2*blockStep, "Date: "+meta.InvoiceDate)
	doc.Text(senderX, y+3*blockStep, "Due Date: "+meta.DueDate)

	doc.Text(recipientX, y, "Bill To: "+meta.CustomerName)
	for _, line := range strings.Split(strings.ReplaceAll(meta.CustomerAddress, "\r\n", "\n"), "\n") {
		y += blockStep
		doc.Text(recipientX, y, strings.TrimSpace(line))
	}
}

func (s *RenderService) drawCustomFields(doc *pdf.Document, meta entity.InvoiceMetadata) {
	y := float64(customFieldsTop)
	for _, f := range meta.CustomFields {
		if strings.TrimSpace(f.Label) == "" {
			continue
		}
		doc.TextF(senderX, y, "%s: %s", f.Label, f.Value)
		y += float64(meta.FontSize + customFieldGap)
	}
}

// checkGlyphs rejects text the core font would draw as dots. Any text is
// accepted once a UTF-8 font file is configured.
func (s *RenderService) checkGlyphs(meta entity.InvoiceMetadata, table *entity.LayoutTable) error {
	if s.opts.FontFile != "" {
		return nil
	}

	var fieldErrors []apperror.FieldError
	check := func(field, text string) {
		if !pdf.Encodable(text) {
			fieldErrors = append(fieldErrors, apperror.FieldError{
				Field:   field,
				Message: fmt.Sprintf("%q cannot be drawn without a UTF-8 font (set INVOICE_FONT_FILE)", text),
			})
		}
	}

	check("currency", meta.Currency)
	check("title", meta.Title)
	check("company_name", meta.CompanyName)
	check("invoice_number", meta.InvoiceNumber)
	check("invoice_date", meta.InvoiceDate)
	check("due_date", meta.DueDate)
	check("customer_name", meta.CustomerName)
	check("customer_address", meta.CustomerAddress)
	for i, f := range meta.CustomFields {
		if strings.TrimSpace(f.Label) == "" {
			continue
		}
		check(fmt.Sprintf("custom_fields[%d]", i+1), f.Label+f.Value)
	}
	if pdf.Encodable(meta.Currency) {
		for i, row := range table.Rows {
			check(fmt.Sprintf("items[%d]", i+1), strings.Join(row, ""))
		}
	}
	check("qr_caption", s.opts.QRCaption)
	check("footer", s.opts.Footer)

	if len(fieldErrors) == 0 {
		return nil
	}
	appErr := apperror.NewValidationError(fieldErrors)
	appErr.Message = fieldErrors[0].Message
	return appErr
}

type logoImage struct {
	data      []byte
	imageType string
	width     int
	height    int
}

// fit scales the image into a maxW x maxH box keeping its aspect ratio.
func (l *logoImage) fit(maxW, maxH float64) (float64, float64) {
	scale := math.Min(maxW/float64(l.width), maxH/float64(l.height))
	return float64(l.width) * scale, float64(l.height) * scale
}

// loadLogo returns nil when the page should carry the placeholder. Only an
// existing file that cannot be read is an error.
func (s *RenderService) loadLogo(path string) (*logoImage, error) {
	if strings.TrimSpace(path) == "" {
		return nil, nil
	}

	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			s.logger.Warn("Logo not found, drawing placeholder", zap.String("path", path))
			return nil, nil
		}
		return nil, apperror.NewIOError("failed to read logo "+path, err)
	}
	if info.IsDir() {
		s.logger.Warn("Logo path is a directory, drawing placeholder", zap.String("path", path))
		return nil, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, apperror.NewIOError("failed to read logo "+path, err)
	}

	var imageType string
	switch http.DetectContentType(data) {
	case "image/png":
		imageType = "PNG"
	case "image/jpeg":
		imageType = "JPG"
	case "image/gif":
		imageType = "GIF"
	default:
		s.logger.Warn("Logo is not a PNG, JPEG or GIF image, drawing placeholder", zap.String("path", path))
		return nil, nil
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil || cfg.Width == 0 || cfg.Height == 0 {
		s.logger.Warn("Logo could not be decoded, drawing placeholder", zap.String("path", path), zap.Error(err))
		return nil, nil
	}

	return &logoImage{data: data, imageType: imageType, width: cfg.Width, height: cfg.Height}, nil
}
