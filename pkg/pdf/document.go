// Package pdf is a small absolute-position page builder on top of gofpdf.
//
// Coordinates are points measured from the top-left corner of the page.
// Text is placed by baseline, images and tables by their top-left corner
// unless stated otherwise.
package pdf

import (
	"bytes"
	"fmt"
	"io"
	"time"

	"github.com/jung-kurt/gofpdf"
	"golang.org/x/text/encoding/charmap"
)

// Font styles.
const (
	StyleRegular = ""
	StyleBold    = "B"
)

// DefaultFamily is the core font used when no UTF-8 font file is configured.
const DefaultFamily = "Helvetica"

const utf8Family = "InvoiceSans"

const defaultFontSize = 10

// Options configures a new Document.
type Options struct {
	Title   string
	Author  string
	Creator string
	// CreationDate is written into the document info dictionary. Pin it to
	// get byte-identical output for identical input.
	CreationDate time.Time
	// FontFile is an optional TTF file registered as a UTF-8 font. Without it
	// text is translated to cp1252 for the core Helvetica font.
	FontFile string
	// Compress toggles stream compression (on by default in gofpdf).
	Compress bool
}

// Document builds a single fixed-size A4 page.
type Document struct {
	pdf    *gofpdf.Fpdf
	tr     func(string) string
	family string
	images int

	style    string
	fontSize float64
}

// NewDocument creates an A4 portrait document with one page and no automatic
// page breaks.
func NewDocument(opts Options) *Document {
	p := gofpdf.New("P", "pt", "A4", "")
	p.SetCatalogSort(true)
	p.SetCompression(opts.Compress)
	p.SetAutoPageBreak(false, 0)
	p.SetMargins(0, 0, 0)
	if !opts.CreationDate.IsZero() {
		p.SetCreationDate(opts.CreationDate)
	}
	if opts.Title != "" {
		p.SetTitle(opts.Title, true)
	}
	if opts.Author != "" {
		p.SetAuthor(opts.Author, true)
	}
	if opts.Creator != "" {
		p.SetCreator(opts.Creator, true)
	}

	d := &Document{pdf: p, family: DefaultFamily}
	if opts.FontFile != "" {
		p.AddUTF8Font(utf8Family, StyleRegular, opts.FontFile)
		p.AddUTF8Font(utf8Family, StyleBold, opts.FontFile)
		d.family = utf8Family
		d.tr = func(s string) string { return s }
	} else {
		d.tr = p.UnicodeTranslatorFromDescriptor("")
	}

	p.AddPage()
	d.SetFont(StyleRegular, defaultFontSize)
	return d
}

// Encodable reports whether the core fonts can draw s. The core fonts use
// cp1252; anything else is drawn as "." unless Options.FontFile is set.
func Encodable(s string) bool {
	_, err := charmap.Windows1252.NewEncoder().String(s)
	return err == nil
}

// Width returns the page width.
func (d *Document) Width() float64 {
	w, _ := d.pdf.GetPageSize()
	return w
}

// SetFont selects the font style and size for subsequent text.
func (d *Document) SetFont(style string, size float64) *Document {
	d.pdf.SetFont(d.family, style, size)
	d.style, d.fontSize = style, size
	return d
}

// SetTextColor sets the color for subsequent text.
func (d *Document) SetTextColor(c Color) *Document {
	d.pdf.SetTextColor(c.R, c.G, c.B)
	return d
}

// Text draws s with its baseline at (x, y).
func (d *Document) Text(x, y float64, s string) *Document {
	d.pdf.Text(x, y, d.tr(s))
	return d
}

// TextF draws a formatted string with its baseline at (x, y).
func (d *Document) TextF(x, y float64, format string, args ...interface{}) *Document {
	return d.Text(x, y, fmt.Sprintf(format, args...))
}

// TextCentered draws s horizontally centered on the page at baseline y.
func (d *Document) TextCentered(y float64, s string) *Document {
	s = d.tr(s)
	x := (d.Width() - d.pdf.GetStringWidth(s)) / 2
	d.pdf.Text(x, y, s)
	return d
}

// ImageFile places the image at path with its top-left corner at (x, y).
// imageType is "PNG", "JPG" or "GIF"; empty infers it from the extension.
func (d *Document) ImageFile(path, imageType string, x, y, w, h float64) *Document {
	d.pdf.ImageOptions(path, x, y, w, h, false, gofpdf.ImageOptions{ImageType: imageType}, 0, "")
	return d
}

// ImageBytes registers data as an image and places it like ImageFile.
func (d *Document) ImageBytes(data []byte, imageType string, x, y, w, h float64) *Document {
	d.images++
	name := fmt.Sprintf("img%d", d.images)
	opts := gofpdf.ImageOptions{ImageType: imageType}
	d.pdf.RegisterImageOptionsReader(name, opts, bytes.NewReader(data))
	d.pdf.ImageOptions(name, x, y, w, h, false, opts, 0, "")
	return d
}

// Cell draws a bordered, optionally filled, centered text cell with its
// top-left corner at (x, y).
func (d *Document) Cell(x, y, w, h float64, s string, fill *Color, border Color) *Document {
	d.pdf.SetDrawColor(border.R, border.G, border.B)
	if fill != nil {
		d.pdf.SetFillColor(fill.R, fill.G, fill.B)
	}
	d.pdf.SetXY(x, y)
	d.pdf.CellFormat(w, h, d.tr(s), "1", 0, "CM", fill != nil, 0, "")
	return d
}

// SetLineWidth sets the stroke width for borders and rectangles.
func (d *Document) SetLineWidth(w float64) *Document {
	d.pdf.SetLineWidth(w)
	return d
}

// Err returns the first drawing error, if any.
func (d *Document) Err() error {
	return d.pdf.Error()
}

// ClearErr drops a recorded drawing error so the page can continue.
func (d *Document) ClearErr() {
	d.pdf.ClearError()
}

// Output finalizes the page and writes it to w.
func (d *Document) Output(w io.Writer) error {
	return d.pdf.Output(w)
}
