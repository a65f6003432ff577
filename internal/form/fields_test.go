package form

import "testing"

func TestAccessorGetSet(t *testing.T) {
	root := NewTree()
	root.Append(NewNode(KindInput, "courseTitle"))
	acc := NewAccessor(root)

	acc.SetValue("courseTitle", "Operating Systems")
	if got := acc.GetValue("courseTitle"); got != "Operating Systems" {
		t.Fatalf("got %q", got)
	}
}

func TestAccessorMissingFieldIsSilent(t *testing.T) {
	acc := NewAccessor(NewTree())
	// neither call may panic or error; missing fields are a logged no-op
	if got := acc.GetValue("ghost"); got != "" {
		t.Fatalf("expected empty value, got %q", got)
	}
	acc.SetValue("ghost", "anything")
}

func TestAccessorSelectOnlyAcceptsListedOptions(t *testing.T) {
	root := NewTree()
	sel := NewNode(KindSelect, "programSelect")
	sel.Options = []string{"", "BSCS", "BSIT"}
	root.Append(sel)
	acc := NewAccessor(root)

	acc.SetValue("programSelect", "BSCS")
	if got := acc.GetValue("programSelect"); got != "BSCS" {
		t.Fatalf("got %q", got)
	}
	acc.SetValue("programSelect", "BOGUS")
	if got := acc.GetValue("programSelect"); got != "BSCS" {
		t.Fatalf("unlisted option applied: %q", got)
	}
}
