package pdf

// Table is a grid of pre-formatted cells drawn at an absolute position.
type Table struct {
	Header []string
	Body   [][]string
	// Footer rows are drawn after the body in bold.
	Footer    [][]string
	ColWidths []float64

	FontSize      float64
	HeaderFill    Color
	HeaderText    Color
	BodyText      Color
	GridColor     Color
	HeaderPadding float64
	// BodyFills alternate across body rows. Footer rows use the first fill.
	BodyFills []Color
}

// RowHeight is the height of one body row.
func (t Table) RowHeight() float64 {
	return t.FontSize + 8
}

// HeaderHeight is the height of the header row.
func (t Table) HeaderHeight() float64 {
	return t.RowHeight() + t.HeaderPadding
}

// Width is the sum of the column widths.
func (t Table) Width() float64 {
	var w float64
	for _, cw := range t.ColWidths {
		w += cw
	}
	return w
}

// Height is the full drawn height of the table.
func (t Table) Height() float64 {
	rows := len(t.Body) + len(t.Footer)
	return t.HeaderHeight() + float64(rows)*t.RowHeight()
}

// TableBottomAt draws t so that its bottom edge sits at y. Extra rows make
// the table grow upward.
func (d *Document) TableBottomAt(x, bottom float64, t Table) *Document {
	return d.TableAt(x, bottom-t.Height(), t)
}

// TableAt draws t with its top-left corner at (x, y).
func (d *Document) TableAt(x, y float64, t Table) *Document {
	prevStyle, prevSize := d.style, d.fontSize

	d.SetLineWidth(1)

	d.SetFont(StyleBold, t.FontSize).SetTextColor(t.HeaderText)
	d.row(x, y, t.HeaderHeight(), t.ColWidths, t.Header, &t.HeaderFill, t.GridColor)
	y += t.HeaderHeight()

	d.SetFont(StyleRegular, t.FontSize).SetTextColor(t.BodyText)
	for i, cells := range t.Body {
		d.row(x, y, t.RowHeight(), t.ColWidths, cells, t.fill(i), t.GridColor)
		y += t.RowHeight()
	}

	d.SetFont(StyleBold, t.FontSize)
	for _, cells := range t.Footer {
		d.row(x, y, t.RowHeight(), t.ColWidths, cells, t.fill(0), t.GridColor)
		y += t.RowHeight()
	}

	d.SetFont(prevStyle, prevSize)
	return d
}

func (t Table) fill(row int) *Color {
	if len(t.BodyFills) == 0 {
		return nil
	}
	c := t.BodyFills[row%len(t.BodyFills)]
	return &c
}

func (d *Document) row(x, y, h float64, widths []float64, cells []string, fill *Color, grid Color) {
	for i, w := range widths {
		var s string
		if i < len(cells) {
			s = cells[i]
		}
		d.Cell(x, y, w, h, s, fill, grid)
		x += w
	}
}
