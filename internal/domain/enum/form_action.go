package enum

import (
	"encoding/json"
	"fmt"
)

// FormActionType identifies an edit applied to the invoice form state
type FormActionType string

const (
	FormActionAddCustomField    FormActionType = "add_custom_field"
	FormActionRemoveCustomField FormActionType = "remove_custom_field"
	FormActionUpdateCustomField FormActionType = "update_custom_field"
	FormActionAddLineItem       FormActionType = "add_line_item"
	FormActionRemoveLineItem    FormActionType = "remove_line_item"
	FormActionUpdateLineItem    FormActionType = "update_line_item"
	FormActionSetCurrency       FormActionType = "set_currency"
)

var formActionTypes = []FormActionType{
	FormActionAddCustomField,
	FormActionRemoveCustomField,
	FormActionUpdateCustomField,
	FormActionAddLineItem,
	FormActionRemoveLineItem,
	FormActionUpdateLineItem,
	FormActionSetCurrency,
}

func (t FormActionType) String() string {
	return string(t)
}

// IsValid reports whether t is a known action.
func (t FormActionType) IsValid() bool {
	for _, v := range formActionTypes {
		if v == t {
			return true
		}
	}
	return false
}

func (t *FormActionType) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	v := FormActionType(str)
	if !v.IsValid() {
		return fmt.Errorf("unknown form action %q", str)
	}
	*t = v
	return nil
}
