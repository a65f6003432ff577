package syllabus

import (
	"reflect"
	"testing"
)

func TestSLOKeyRoundTrip(t *testing.T) {
	key := SLOKey(2, 3)
	if key != "2.3" {
		t.Fatalf("unexpected key: %s", key)
	}
	o, s, ok := ParseSLOKey(key)
	if !ok || o != 2 || s != 3 {
		t.Fatalf("parse failed: %d %d %v", o, s, ok)
	}
}

func TestParseSLOKeyRejectsMalformed(t *testing.T) {
	for _, bad := range []string{"", "1", "1.", ".1", "a.b", "0.1", "1.0", "1.2.3"} {
		if _, _, ok := ParseSLOKey(bad); ok {
			t.Fatalf("expected %q to be rejected", bad)
		}
	}
}

func TestSortedSLOKeysNumericOrder(t *testing.T) {
	m := map[string][]string{
		"10.1": nil, "2.10": nil, "2.2": nil, "1.1": nil,
	}
	got := SortedSLOKeys(m)
	want := []string{"1.1", "2.2", "2.10", "10.1"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v want %v", got, want)
	}
}

func TestNormalizeReplacesNilCollections(t *testing.T) {
	d := &Document{Modules: []Module{{Title: "Intro"}}}
	d.Normalize()
	if d.Instructors == nil || d.Outcomes == nil || d.Assessments == nil ||
		d.Weighting == nil || d.Modules == nil || d.Policies == nil {
		t.Fatalf("nil collection survived normalize: %+v", d)
	}
	if d.Modules[0].Assignments == nil {
		t.Fatalf("nil assignments survived normalize")
	}
}

func TestCloneDoesNotAlias(t *testing.T) {
	d := &Document{
		Outcomes:    map[string][]string{"1.1": {"original"}},
		Modules:     []Module{{Title: "M1", Assignments: []string{"a"}}},
		Policies:    map[string]string{"attendance": "x"},
		Instructors: []Instructor{{Name: "Alice"}},
	}
	cp := d.Clone()
	cp.Outcomes["1.1"][0] = "changed"
	cp.Modules[0].Assignments[0] = "changed"
	cp.Policies["attendance"] = "changed"
	cp.Instructors[0].Name = "changed"
	if d.Outcomes["1.1"][0] != "original" || d.Modules[0].Assignments[0] != "a" ||
		d.Policies["attendance"] != "x" || d.Instructors[0].Name != "Alice" {
		t.Fatalf("clone aliases source: %+v", d)
	}
}

func TestWeightingTotal(t *testing.T) {
	d := &Document{Weighting: []WeightingDetail{{Weight: 30}, {Weight: 30}, {Weight: 50}}}
	if got := d.WeightingTotal(); got != 110 {
		t.Fatalf("got %v want 110", got)
	}
}

func TestMissingRequired(t *testing.T) {
	d := &Document{}
	got := d.MissingRequired()
	want := []string{"courseTitle", "courseNumber", "programSelect"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v want %v", got, want)
	}

	d.Course.Title = "Operating Systems"
	d.Course.Number = "CS401"
	d.Program = ProgramBSCS
	if missing := d.MissingRequired(); len(missing) != 0 {
		t.Fatalf("expected complete, missing %v", missing)
	}
}

func TestDefaultPolicyTextPriority(t *testing.T) {
	// program override wins
	bscs := DefaultPolicyText(ProgramBSCS, "academicIntegrity")
	generic := DefaultPolicyText("", "academicIntegrity")
	if bscs == generic || bscs == "" || generic == "" {
		t.Fatalf("expected distinct program override, got %q vs %q", bscs, generic)
	}
	// unknown key is empty, not a sentinel
	if got := DefaultPolicyText(ProgramBSCS, "noSuchKey"); got != "" {
		t.Fatalf("expected empty for unknown key, got %q", got)
	}
	// every fixed key has institutional boilerplate
	for _, key := range PolicyKeys {
		if DefaultPolicyText("", key) == "" {
			t.Fatalf("no boilerplate for %s", key)
		}
	}
}

func TestDefaultSLOsCoverEveryProgram(t *testing.T) {
	for _, p := range Programs {
		seeds, ok := DefaultSLOs[p]
		if !ok || len(seeds) == 0 {
			t.Fatalf("no SLO seeds for %s", p)
		}
		for key := range seeds {
			o, _, ok := ParseSLOKey(key)
			if !ok {
				t.Fatalf("malformed seed key %q for %s", key, p)
			}
			if o > len(ProgramOutcomes[p]) {
				t.Fatalf("seed %q exceeds outcome count for %s", key, p)
			}
		}
	}
}
