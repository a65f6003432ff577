package form

import (
	"github.com/eoauman/sylman/pkg/logger"
)

// Accessor reads and writes primitive field values by id. Missing elements
// are never fatal: reads return "" and writes are skipped, with a logged
// warning, because optional sections of the form may simply not be rendered.
type Accessor struct {
	root *Node
}

func NewAccessor(root *Node) *Accessor {
	return &Accessor{root: root}
}

// GetValue returns the current value of a field, or "" when the field does
// not exist.
func (a *Accessor) GetValue(fieldID string) string {
	n := a.root.FindByID(fieldID)
	if n == nil {
		logger.Warnf("form: field %q not found, returning empty value", fieldID)
		return ""
	}
	return n.Value
}

// SetValue writes into the field if present. Select fields only accept values
// among their options; anything else is skipped with a warning. Callers rely
// on this silent-skip policy to populate partially rendered forms without
// errors.
func (a *Accessor) SetValue(fieldID, value string) {
	n := a.root.FindByID(fieldID)
	if n == nil {
		logger.Warnf("form: field %q not found, skipping set", fieldID)
		return
	}
	if n.Kind == KindSelect && !n.HasOption(value) {
		logger.Warnf("form: select %q has no option %q, skipping set", fieldID, value)
		return
	}
	n.Value = value
}
