package service

import (
	"math/rand"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sangkips/invoicer/internal/domain/entity"
	"github.com/sangkips/invoicer/pkg/apperror"
	"github.com/sangkips/invoicer/pkg/money"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestBuildLayoutSingleItem(t *testing.T) {
	s := NewLayoutService()
	items := []entity.LineItem{{Item: "001", Description: "Product A", Quantity: dec("2"), UnitPrice: dec("10.00")}}

	table, err := s.BuildLayout(items, dec("16"), "$")
	require.NoError(t, err)

	require.Len(t, table.Rows, 1)
	assert.Equal(t, []string{"001", "Product A", "2", "$10.00", "$20.00", "$3.20", "$23.20"}, table.Rows[0])
	assert.Equal(t, LayoutHeader, table.Header)

	require.Len(t, table.Summary, 3)
	assert.Equal(t, []string{"", "", "", "", "", "Subtotal", "$20.00"}, table.Summary[0])
	assert.Equal(t, []string{"", "", "", "", "", "VAT (16%)", "$3.20"}, table.Summary[1])
	assert.Equal(t, []string{"", "", "", "", "", "Grand Total", "$23.20"}, table.Summary[2])

	assert.Equal(t, "20.00", table.Totals.Subtotal.StringFixed(2))
	assert.Equal(t, "3.20", table.Totals.VATTotal.StringFixed(2))
	assert.Equal(t, "23.20", table.Totals.GrandTotal().StringFixed(2))
}

func TestBuildLayoutNoItems(t *testing.T) {
	table, err := NewLayoutService().BuildLayout(nil, dec("16"), "€")
	require.NoError(t, err)

	assert.Empty(t, table.Rows)
	assert.Len(t, table.AllRows(), 4)
	assert.Equal(t, "0.00", table.Totals.Subtotal.StringFixed(2))
	assert.Equal(t, "0.00", table.Totals.VATTotal.StringFixed(2))
	assert.Equal(t, "0.00", table.Totals.GrandTotal().StringFixed(2))
	assert.Equal(t, "€0.00", table.Summary[2][6])
}

func TestBuildLayoutTotalsProperties(t *testing.T) {
	s := NewLayoutService()
	rng := rand.New(rand.NewSource(42))

	for n := 0; n < 200; n++ {
		vat := decimal.NewFromInt(int64(rng.Intn(101)))
		var items []entity.LineItem
		for i := 0; i < rng.Intn(8); i++ {
			items = append(items, entity.LineItem{
				Item:      "x",
				Quantity:  decimal.New(int64(rng.Intn(10000)), -2),
				UnitPrice: decimal.New(int64(rng.Intn(1000000)), -2),
			})
		}

		table, err := s.BuildLayout(items, vat, "")
		require.NoError(t, err)

		subtotal, vatTotal := decimal.Zero, decimal.Zero
		for i, item := range items {
			lineTotal := item.Quantity.Mul(item.UnitPrice)
			assert.Equal(t, lineTotal.StringFixed(2), table.Rows[i][4])
			subtotal = subtotal.Add(lineTotal)
			vatTotal = vatTotal.Add(lineTotal.Mul(vat).Div(decimal.NewFromInt(100)))
		}

		assert.True(t, table.Totals.Subtotal.Equal(subtotal))
		assert.True(t, table.Totals.VATTotal.Equal(vatTotal))
		assert.True(t, table.Totals.GrandTotal().Equal(subtotal.Add(vatTotal)))
		assert.Equal(t, money.Format(subtotal.Add(vatTotal), ""), table.Summary[2][6])
	}
}

func TestBuildLayoutRejectsVATOutOfRange(t *testing.T) {
	s := NewLayoutService()
	for _, v := range []string{"-1", "100.01", "250"} {
		_, err := s.BuildLayout(nil, dec(v), "$")
		require.Error(t, err, v)
		assert.True(t, apperror.IsKind(err, apperror.KindValue))
	}

	_, err := s.BuildLayout(nil, dec("100"), "$")
	assert.NoError(t, err)
}

func TestBuildLayoutRejectsNegativeItems(t *testing.T) {
	_, err := NewLayoutService().BuildLayout([]entity.LineItem{{Quantity: dec("-1"), UnitPrice: dec("1")}}, decimal.Zero, "$")
	require.Error(t, err)
	assert.True(t, apperror.IsKind(err, apperror.KindValue))
}

func TestParseLineItems(t *testing.T) {
	s := NewLayoutService()

	items, err := s.ParseLineItems([]entity.RawLineItem{
		{Item: " 001 ", Description: "Product A", Quantity: "2", UnitPrice: "10.00"},
		{},
		{Item: "002", Description: "Product B", Quantity: "1.5", UnitPrice: "15"},
	})
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "001", items[0].Item)
	assert.True(t, items[1].Quantity.Equal(dec("1.5")))
}

func TestParseLineItemsCollectsValueErrors(t *testing.T) {
	_, err := NewLayoutService().ParseLineItems([]entity.RawLineItem{
		{Item: "001", Quantity: "two", UnitPrice: "10"},
		{Item: "002", Quantity: "1", UnitPrice: ""},
		{Item: "003", Quantity: "-3", UnitPrice: "abc"},
	})
	require.Error(t, err)
	assert.True(t, apperror.IsKind(err, apperror.KindValue))

	appErr := apperror.GetAppError(err)
	fields := make([]string, 0, len(appErr.Errors))
	for _, fe := range appErr.Errors {
		fields = append(fields, fe.Field)
	}
	assert.Equal(t, []string{"items[1].quantity", "items[2].unit_price", "items[3].quantity", "items[3].unit_price"}, fields)
}

func TestParseVAT(t *testing.T) {
	s := NewLayoutService()

	v, err := s.ParseVAT("")
	require.NoError(t, err)
	assert.True(t, v.IsZero())

	v, err = s.ParseVAT(" 16 ")
	require.NoError(t, err)
	assert.True(t, v.Equal(dec("16")))

	_, err = s.ParseVAT("sixteen")
	assert.True(t, apperror.IsKind(err, apperror.KindValue))

	_, err = s.ParseVAT("101")
	assert.True(t, apperror.IsKind(err, apperror.KindValue))
}

func TestLayoutFormAppliesDefaults(t *testing.T) {
	state := NewFormService(FormDefaults{}).NewFormState()
	state.Metadata.Currency = ""
	state.VATPercentage = ""

	meta, table, err := NewLayoutService().LayoutForm(state)
	require.NoError(t, err)
	assert.Equal(t, "$", meta.Currency)
	require.Len(t, table.Rows, 2)
	assert.Equal(t, "$20.00", table.Rows[0][4])
	assert.Equal(t, "$35.00", table.Summary[2][6])
}
