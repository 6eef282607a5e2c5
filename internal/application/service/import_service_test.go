package service

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/sangkips/invoicer/internal/domain/entity"
	"github.com/sangkips/invoicer/pkg/apperror"
)

func workbook(t *testing.T, rows ...[]interface{}) *bytes.Buffer {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	for i, row := range rows {
		cellName, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		r := row
		require.NoError(t, f.SetSheetRow("Sheet1", cellName, &r))
	}

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf
}

func TestImportLineItems(t *testing.T) {
	buf := workbook(t,
		[]interface{}{"Item", "Description", "Quantity", "Unit Price"},
		[]interface{}{"001", "Product A", 2, 10},
		[]interface{}{"002", "Product B", "lots", 15},
		[]interface{}{},
		[]interface{}{"003", "Product C", 1.5, "4.20"},
	)

	result, err := NewImportService(NewLayoutService()).ImportLineItems(buf)
	require.NoError(t, err)

	assert.Equal(t, 3, result.TotalRows)
	assert.Equal(t, 2, result.Successful)
	assert.Equal(t, 1, result.Failed)
	require.Len(t, result.Items, 2)
	assert.Equal(t, entity.RawLineItem{Item: "001", Description: "Product A", Quantity: "2", UnitPrice: "10"}, result.Items[0])
	assert.Equal(t, "003", result.Items[1].Item)

	require.Len(t, result.Errors, 1)
	assert.Equal(t, 3, result.Errors[0].Row)
	assert.Equal(t, "quantity", result.Errors[0].Field)
}

func TestImportLineItemsMatchesHeaderCaseInsensitively(t *testing.T) {
	buf := workbook(t,
		[]interface{}{"unit price", "QUANTITY", "item", "description"},
		[]interface{}{"5", "2", "X1", "Thing"},
	)

	result, err := NewImportService(NewLayoutService()).ImportLineItems(buf)
	require.NoError(t, err)
	require.Len(t, result.Items, 1)
	assert.Equal(t, entity.RawNumber("5"), result.Items[0].UnitPrice)
	assert.Equal(t, "X1", result.Items[0].Item)
}

func TestImportLineItemsRejectsMissingColumns(t *testing.T) {
	buf := workbook(t, []interface{}{"Item", "Description"})

	_, err := NewImportService(NewLayoutService()).ImportLineItems(buf)
	require.Error(t, err)
	assert.True(t, apperror.IsKind(err, apperror.KindValue))
}

func TestImportLineItemsRejectsGarbage(t *testing.T) {
	_, err := NewImportService(NewLayoutService()).ImportLineItems(bytes.NewReader([]byte("not a workbook")))
	require.Error(t, err)
}
