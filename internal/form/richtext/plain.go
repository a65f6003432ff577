package richtext

import "errors"

// ErrMissingNode is returned by Attach when the container or hidden node is
// absent from the tree.
var ErrMissingNode = errors.New("richtext: missing container or hidden node")

// PlainEditor is a minimal Editor backed by a string. It stands in for a
// browser rich-text widget in tests and in the bundled CLI.
type PlainEditor struct {
	content  string
	onChange func()
}

func NewPlainEditor() *PlainEditor { return &PlainEditor{} }

// NewPlain is a Config-compatible constructor.
func NewPlain() Editor { return NewPlainEditor() }

func (e *PlainEditor) Content() string { return e.content }

// SetContent replaces the content without firing the change listener, the
// same way seeding a real editor does not count as a user edit.
func (e *PlainEditor) SetContent(s string) { e.content = s }

func (e *PlainEditor) OnChange(fn func()) { e.onChange = fn }

// Input simulates a user edit: it replaces the content and fires the change
// listener.
func (e *PlainEditor) Input(s string) {
	e.content = s
	if e.onChange != nil {
		e.onChange()
	}
}
