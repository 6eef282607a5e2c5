package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sangkips/invoicer/internal/domain/entity"
	"github.com/sangkips/invoicer/internal/domain/enum"
	"github.com/sangkips/invoicer/pkg/apperror"
)

func TestNewFormState(t *testing.T) {
	state := NewFormService(FormDefaults{}).NewFormState()

	require.Len(t, state.Metadata.CustomFields, 1)
	assert.Equal(t, "PO Number", state.Metadata.CustomFields[0].Label)
	assert.Len(t, state.Items, 2)
	assert.Equal(t, "$", state.Metadata.Currency)
	assert.Equal(t, "#4F8EF7", state.Metadata.ThemeColor)
	assert.Equal(t, 10, state.Metadata.FontSize)
}

func TestApplyDoesNotMutateInput(t *testing.T) {
	s := NewFormService(FormDefaults{})
	state := s.NewFormState()

	next, err := s.Apply(state, FormAction{Type: enum.FormActionRemoveCustomField, Index: 0})
	require.NoError(t, err)
	assert.Empty(t, next.Metadata.CustomFields)
	assert.Len(t, state.Metadata.CustomFields, 1)

	next, err = s.Apply(state, FormAction{Type: enum.FormActionRemoveLineItem, Index: 0})
	require.NoError(t, err)
	require.Len(t, next.Items, 1)
	assert.Equal(t, "002", next.Items[0].Item)
	assert.Equal(t, "001", state.Items[0].Item)
	assert.Len(t, state.Items, 2)
}

func TestApplyCustomFieldActions(t *testing.T) {
	s := NewFormService(FormDefaults{})
	state := s.NewFormState()

	state, err := s.Apply(state, FormAction{Type: enum.FormActionAddCustomField})
	require.NoError(t, err)
	require.Len(t, state.Metadata.CustomFields, 2)
	assert.Equal(t, entity.CustomField{}, state.Metadata.CustomFields[1])

	state, err = s.Apply(state, FormAction{
		Type:        enum.FormActionUpdateCustomField,
		Index:       1,
		CustomField: &entity.CustomField{Label: "Reference", Value: "R-1"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Reference", state.Metadata.CustomFields[1].Label)
}

func TestApplyLineItemActions(t *testing.T) {
	s := NewFormService(FormDefaults{})
	state := s.NewFormState()

	state, err := s.Apply(state, FormAction{
		Type:     enum.FormActionAddLineItem,
		LineItem: &entity.RawLineItem{Item: "003", Quantity: "4", UnitPrice: "2.50"},
	})
	require.NoError(t, err)
	require.Len(t, state.Items, 3)

	state, err = s.Apply(state, FormAction{
		Type:     enum.FormActionUpdateLineItem,
		Index:    2,
		LineItem: &entity.RawLineItem{Item: "003", Quantity: "5", UnitPrice: "2.50"},
	})
	require.NoError(t, err)
	assert.Equal(t, entity.RawNumber("5"), state.Items[2].Quantity)
}

func TestApplyRejectsBadIndexes(t *testing.T) {
	s := NewFormService(FormDefaults{})
	state := s.NewFormState()

	for _, action := range []FormAction{
		{Type: enum.FormActionRemoveCustomField, Index: 5},
		{Type: enum.FormActionRemoveLineItem, Index: -1},
		{Type: enum.FormActionUpdateLineItem, Index: 0},
		{Type: enum.FormActionSetCurrency, Currency: "  "},
		{Type: "explode"},
	} {
		next, err := s.Apply(state, action)
		require.Error(t, err, action.Type)
		assert.True(t, apperror.IsKind(err, apperror.KindValue))
		assert.Equal(t, state, next)
	}
}

func TestApplySetCurrencyAcceptsCustomSymbol(t *testing.T) {
	s := NewFormService(FormDefaults{})
	next, err := s.Apply(s.NewFormState(), FormAction{Type: enum.FormActionSetCurrency, Currency: "CHF "})
	require.NoError(t, err)
	assert.Equal(t, "CHF", next.Metadata.Currency)
	assert.NotContains(t, s.Currencies(), "CHF")
}

func TestCurrenciesFollowFontSupport(t *testing.T) {
	core := NewFormService(FormDefaults{}).Currencies()
	assert.Equal(t, []string{"$", "€", "£", "¥"}, core)

	unicode := NewFormService(FormDefaults{UnicodeFont: true}).Currencies()
	assert.Equal(t, enum.Currencies, unicode)
	assert.Contains(t, unicode, "₦")
}
