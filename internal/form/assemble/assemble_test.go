package assemble

import (
	"reflect"
	"testing"

	"github.com/eoauman/sylman/internal/form"
	"github.com/eoauman/sylman/internal/form/groups"
	"github.com/eoauman/sylman/internal/form/richtext"
	"github.com/eoauman/sylman/internal/syllabus"
)

func newEditorStack() (*form.Node, *richtext.Bridge, *groups.Builder, *Populator) {
	root := groups.NewSyllabusForm()
	bridge := richtext.NewBridge(root)
	builder := groups.NewBuilder(root, bridge, richtext.NewPlain)
	return root, bridge, builder, NewPopulator(root, bridge, builder)
}

// fullDocument is shaped the way an assembled form shapes it: every displayed
// SLO key has assessments, every policy key has text, no LastEdited stamp.
func fullDocument() *syllabus.Document {
	doc := &syllabus.Document{
		Course: syllabus.CourseInfo{
			Title:       "Operating Systems",
			Number:      "CS401",
			Credits:     "3",
			Term:        "Fall 2026",
			StartDate:   "2026-08-24",
			Description: "Processes, memory, and file systems.",
		},
		Program: syllabus.ProgramBSCS,
		Instructors: []syllabus.Instructor{
			{Name: "Alice Chen", Email: "achen@example.edu", Office: "ENG 214", OfficeHours: "<p>MW 2-4</p>"},
			{Name: "Bob Diaz", Email: "bdiaz@example.edu"},
		},
		Outcomes: map[string][]string{
			"1.1": {"Decompose a problem"},
			"1.2": {"Estimate complexity"},
			"2.1": {"Implement a scheduler"},
		},
		Assessments: map[string][]string{
			"1.1": {"Quiz 1"},
			"1.2": {"Homework 2"},
			"2.1": {"Project 1", "Project 2"},
		},
		Weighting: []syllabus.WeightingDetail{
			{Label: "Homework", Weight: 40},
			{Label: "Exams", Weight: 60},
		},
		Modules: []syllabus.Module{
			{Title: "Introduction", DateRange: "08/24/2026-08/30/2026", Assignments: []string{"Read ch. 1"}},
			{Title: "Processes", DateRange: "08/31/2026-09/06/2026", Assignments: []string{}},
		},
		Policies: map[string]string{},
	}
	for _, key := range syllabus.PolicyKeys {
		doc.Policies[key] = "Custom " + key + " text"
	}
	doc.Normalize()
	return doc
}

func TestPopulateAssembleRoundTrip(t *testing.T) {
	root, bridge, _, pop := newEditorStack()
	doc := fullDocument()

	pop.Populate(doc)
	bridge.SyncAll()
	got := Assemble(root)

	if !reflect.DeepEqual(got, doc) {
		t.Fatalf("round trip diverged:\n got: %+v\nwant: %+v", got, doc)
	}
}

func TestRoundTripIsStableAcrossRepeats(t *testing.T) {
	root, bridge, _, pop := newEditorStack()
	doc := fullDocument()

	pop.Populate(doc)
	bridge.SyncAll()
	first := Assemble(root)

	pop.Populate(first)
	bridge.SyncAll()
	second := Assemble(root)

	if !reflect.DeepEqual(first, second) {
		t.Fatalf("second pass diverged:\n first: %+v\nsecond: %+v", first, second)
	}
}

func TestAssembleEmptyFormIsAllEmptyNotNil(t *testing.T) {
	root := groups.NewSyllabusForm()
	got := Assemble(root)

	if got.Instructors == nil || got.Outcomes == nil || got.Assessments == nil ||
		got.Weighting == nil || got.Modules == nil || got.Policies == nil {
		t.Fatalf("assembled nils: %+v", got)
	}
	if len(got.Instructors) != 0 || len(got.Outcomes) != 0 || len(got.Modules) != 0 {
		t.Fatalf("empty form assembled content: %+v", got)
	}
	// the scaffolded policy fields are discovered even when blank
	if len(got.Policies) != len(syllabus.PolicyKeys) {
		t.Fatalf("expected %d policy entries, got %d", len(syllabus.PolicyKeys), len(got.Policies))
	}
}

func TestAssembleKeysSLOsByPlaceholder(t *testing.T) {
	root, bridge, builder, _ := newEditorStack()
	builder.EnsureOutcomeGroup(2, "Design solutions")
	first, _ := builder.AddSLO(2, "one")
	builder.AddSLO(2, "two")
	builder.RemoveSLO(2, first)
	bridge.SyncAll()

	got := Assemble(root)
	if _, ok := got.Outcomes["2.1"]; ok {
		t.Fatalf("removed key reappeared: %v", got.Outcomes)
	}
	if !reflect.DeepEqual(got.Outcomes["2.2"], []string{"two"}) {
		t.Fatalf("survivor key wrong: %v", got.Outcomes)
	}
}

func TestPopulateSeedsDefaultSLOsWhenEmpty(t *testing.T) {
	root, bridge, _, pop := newEditorStack()
	doc := &syllabus.Document{Program: syllabus.ProgramBSCS}
	doc.Normalize()

	pop.Populate(doc)
	bridge.SyncAll()
	got := Assemble(root)

	seeds := syllabus.DefaultSLOs[syllabus.ProgramBSCS]
	if len(got.Outcomes) != len(seeds) {
		t.Fatalf("expected %d seeded keys, got %v", len(seeds), got.Outcomes)
	}
	for key, texts := range seeds {
		if !reflect.DeepEqual(got.Outcomes[key], texts) {
			t.Fatalf("seed %s wrong: %v", key, got.Outcomes[key])
		}
	}
}

func TestPopulateGivesBlankAssessmentPerDisplayedKey(t *testing.T) {
	root, _, _, pop := newEditorStack()
	doc := &syllabus.Document{
		Program:  syllabus.ProgramBSCS,
		Outcomes: map[string][]string{"1.1": {"Decompose"}, "3.2": {"Present"}},
	}
	doc.Normalize()
	pop.Populate(doc)

	got := Assemble(root)
	for _, key := range []string{"1.1", "3.2"} {
		if !reflect.DeepEqual(got.Assessments[key], []string{""}) {
			t.Fatalf("key %s: %v", key, got.Assessments[key])
		}
	}
}

func TestPopulateKeepsDisplayedAssessments(t *testing.T) {
	root, _, builder, pop := newEditorStack()
	builder.AddAssessment("1.1", "In-class quiz on decomposition")

	// repopulating with nothing stored must not discard what the section shows
	doc := &syllabus.Document{
		Program:  syllabus.ProgramBSCS,
		Outcomes: map[string][]string{"1.1": {"Decompose"}},
	}
	doc.Normalize()
	pop.Populate(doc)

	got := Assemble(root)
	if !reflect.DeepEqual(got.Assessments["1.1"], []string{"In-class quiz on decomposition"}) {
		t.Fatalf("displayed assessment lost: %v", got.Assessments["1.1"])
	}

	// stored entries still take priority over what is displayed
	doc.Assessments = map[string][]string{"1.1": {"Quiz 1"}}
	pop.Populate(doc)
	got = Assemble(root)
	if !reflect.DeepEqual(got.Assessments["1.1"], []string{"Quiz 1"}) {
		t.Fatalf("stored assessment did not win: %v", got.Assessments["1.1"])
	}
}

func TestPopulatePolicyPriority(t *testing.T) {
	root, _, _, pop := newEditorStack()
	doc := &syllabus.Document{
		Program:  syllabus.ProgramBSCS,
		Policies: map[string]string{"attendance": "Stored attendance text"},
	}
	doc.Normalize()
	pop.Populate(doc)
	acc := form.NewAccessor(root)

	// stored text wins
	if got := acc.GetValue(groups.PolicyFieldID("attendance")); got != "Stored attendance text" {
		t.Fatalf("stored policy lost: %q", got)
	}
	// program override for a key with no stored text
	want := syllabus.DefaultPolicyText(syllabus.ProgramBSCS, "academicIntegrity")
	if got := acc.GetValue(groups.PolicyFieldID("academicIntegrity")); got != want {
		t.Fatalf("program boilerplate not applied: %q", got)
	}
	// every fixed key is non-empty after population
	for _, key := range syllabus.PolicyKeys {
		if acc.GetValue(groups.PolicyFieldID(key)) == "" {
			t.Fatalf("policy %s left blank", key)
		}
	}
}

func TestPopulateDerivesWeightingFromModules(t *testing.T) {
	root, _, _, pop := newEditorStack()
	doc := &syllabus.Document{
		Program: syllabus.ProgramBSCS,
		Modules: []syllabus.Module{
			{Title: "Intro", DateRange: "01/01/2024-01/07/2024"},
			{Title: "Processes", DateRange: "01/08/2024-01/14/2024"},
		},
	}
	doc.Normalize()
	pop.Populate(doc)

	got := Assemble(root)
	if len(got.Weighting) != 2 {
		t.Fatalf("expected 2 derived rows, got %v", got.Weighting)
	}
	if got.Weighting[0].Label != "Intro" || got.Weighting[0].Weight != 50 {
		t.Fatalf("unexpected derived row: %+v", got.Weighting[0])
	}
}

func TestPopulateClearsPreviousDocument(t *testing.T) {
	root, bridge, _, pop := newEditorStack()

	pop.Populate(fullDocument())
	small := &syllabus.Document{
		Program:     syllabus.ProgramBSIT,
		Instructors: []syllabus.Instructor{{Name: "Solo"}},
		Outcomes:    map[string][]string{"1.1": {"only"}},
		Assessments: map[string][]string{"1.1": {"quiz"}},
	}
	small.Normalize()
	pop.Populate(small)
	bridge.SyncAll()

	got := Assemble(root)
	if len(got.Instructors) != 1 || got.Instructors[0].Name != "Solo" {
		t.Fatalf("stale instructors survived: %+v", got.Instructors)
	}
	if len(got.Outcomes) != 1 {
		t.Fatalf("stale outcomes survived: %v", got.Outcomes)
	}
	if len(got.Modules) != 0 {
		t.Fatalf("stale modules survived: %v", got.Modules)
	}
}
