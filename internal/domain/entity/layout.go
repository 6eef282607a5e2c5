package entity

// LayoutTable is the computed invoice table: every cell is already formatted
// for display. It is a value object built per render and never stored.
type LayoutTable struct {
	Header  []string      `json:"header"`
	Rows    [][]string    `json:"rows"`
	Summary [][]string    `json:"summary"`
	Totals  InvoiceTotals `json:"totals"`
}

// AllRows returns header, item rows and summary rows in drawing order.
func (t *LayoutTable) AllRows() [][]string {
	out := make([][]string, 0, 1+len(t.Rows)+len(t.Summary))
	out = append(out, t.Header)
	out = append(out, t.Rows...)
	out = append(out, t.Summary...)
	return out
}
