package pdf

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseHexColor(t *testing.T) {
	c, err := ParseHexColor("#4F8EF7")
	require.NoError(t, err)
	assert.Equal(t, Color{0x4f, 0x8e, 0xf7}, c)
	assert.Equal(t, "#4f8ef7", c.Hex())

	c, err = ParseHexColor("fff")
	require.NoError(t, err)
	assert.Equal(t, White, c)

	for _, bad := range []string{"", "#12345", "#zzzzzz", "blue"} {
		_, err := ParseHexColor(bad)
		assert.Error(t, err, bad)
	}
}

func TestTableGeometry(t *testing.T) {
	tbl := Table{
		Header:        []string{"a", "b"},
		Body:          [][]string{{"1", "2"}, {"3", "4"}},
		Footer:        [][]string{{"", "6"}},
		ColWidths:     []float64{60, 40},
		FontSize:      10,
		HeaderPadding: 12,
	}

	assert.Equal(t, 100.0, tbl.Width())
	assert.Equal(t, 18.0, tbl.RowHeight())
	assert.Equal(t, 30.0, tbl.HeaderHeight())
	assert.Equal(t, 30.0+3*18.0, tbl.Height())
}

func TestDocumentOutput(t *testing.T) {
	doc := NewDocument(Options{Title: "Invoice", CreationDate: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)})
	doc.SetFont(StyleBold, 12).Text(40, 50, "Hello (world)")
	doc.TextCentered(80, "centered")
	doc.TableAt(40, 100, Table{
		Header:    []string{"Item", "Total"},
		Body:      [][]string{{"001", "$20.00"}},
		ColWidths: []float64{60, 80},
		FontSize:  10,
		BodyFills: []Color{Beige, White},
	})

	var buf bytes.Buffer
	require.NoError(t, doc.Output(&buf))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
	assert.Contains(t, buf.String(), `Hello \(world\)`)
	assert.Contains(t, buf.String(), "$20.00")
}

func TestDocumentIsDeterministicWithPinnedDate(t *testing.T) {
	render := func() []byte {
		doc := NewDocument(Options{CreationDate: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), Compress: true})
		doc.Text(40, 50, "same")
		var buf bytes.Buffer
		require.NoError(t, doc.Output(&buf))
		return buf.Bytes()
	}
	assert.Equal(t, render(), render())
}

func TestEncodable(t *testing.T) {
	for _, s := range []string{"$23.20", "€23.20", "£1.00", "¥5", "Müller & Söhne"} {
		assert.True(t, Encodable(s), s)
	}
	for _, s := range []string{"₦23.20", "₹", "₩", "Łódź"} {
		assert.False(t, Encodable(s), s)
	}
}
