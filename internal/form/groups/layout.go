package groups

import (
	"fmt"

	"github.com/eoauman/sylman/internal/form"
	"github.com/eoauman/sylman/internal/syllabus"
)

// Field and container ids shared by the builder, assembler, and populator.
// Scalar ids form the fixed list the assembler scans; everything repeatable
// lives under the list containers below.
const (
	FieldCourseTitle   = "courseTitle"
	FieldCourseNumber  = "courseNumber"
	FieldCredits       = "credits"
	FieldDeliveryMode  = "deliveryMode"
	FieldTerm          = "term"
	FieldLocation      = "location"
	FieldMeetingTimes  = "meetingTimes"
	FieldStartDate     = "startDate"
	FieldDescription   = "description"
	FieldPrerequisites = "prerequisites"
	FieldProgram       = "programSelect"

	ContainerInstructors = "instructorList"
	ContainerOutcomes    = "sloContainer"
	ContainerAssessments = "assessmentContainer"
	ContainerWeighting   = "weightingList"
	ContainerModules     = "moduleList"
	ContainerPolicies    = "policyList"

	ButtonAddInstructor = "addInstructor"
	ButtonAddWeightRow  = "addWeightRow"
	ButtonAddModule     = "addModule"

	WeightTotalID = "weightTotal"

	// PolicyKeyAttr marks policy fields; the assembler discovers them by
	// this attribute, never by a hardcoded key list.
	PolicyKeyAttr = "data-policy-key"

	// AttrOverWeighted flags the weighting total display when it exceeds 100.
	AttrOverWeighted = "data-over-weighted"
)

// ScalarFieldIDs is the fixed id list for scalar course metadata, in form
// order.
var ScalarFieldIDs = []string{
	FieldCourseTitle,
	FieldCourseNumber,
	FieldCredits,
	FieldDeliveryMode,
	FieldTerm,
	FieldLocation,
	FieldMeetingTimes,
	FieldStartDate,
	FieldDescription,
	FieldPrerequisites,
}

// Per-item id helpers. Indices are 1-based everywhere, matching the
// "<outcomeIndex>.<sloIndex>" key convention.

func InstructorGroupID(i int) string  { return fmt.Sprintf("instructor%d", i) }
func InstructorNameID(i int) string   { return fmt.Sprintf("instructorName%d", i) }
func InstructorEmailID(i int) string  { return fmt.Sprintf("instructorEmail%d", i) }
func InstructorPhoneID(i int) string  { return fmt.Sprintf("instructorPhone%d", i) }
func InstructorOfficeID(i int) string { return fmt.Sprintf("instructorOffice%d", i) }
func OfficeHoursEditorID(i int) string { return fmt.Sprintf("officeHoursEditor%d", i) }
func OfficeHoursHiddenID(i int) string { return fmt.Sprintf("officeHours%d", i) }

func OutcomeGroupID(o int) string { return fmt.Sprintf("outcomeGroup%d", o) }
func AddSLOButtonID(o int) string { return fmt.Sprintf("addSlo%d", o) }
func SLOName(o int) string        { return fmt.Sprintf("slo%d[]", o) }
func SLOInputID(key string) string { return "slo_" + key }

func AssessmentGroupID(key string) string { return "assessmentGroup" + key }
func AssessmentName(key string) string    { return fmt.Sprintf("assessments%s[]", key) }
func AddAssessmentButtonID(key string) string { return "addAssessment" + key }

func WeightRowID(i int) string   { return fmt.Sprintf("weightRow%d", i) }
func WeightLabelID(i int) string { return fmt.Sprintf("weightLabel%d", i) }
func WeightValueID(i int) string { return fmt.Sprintf("weightValue%d", i) }

func ModuleGroupID(n int) string       { return fmt.Sprintf("module%d", n) }
func ModuleTitleID(n int) string       { return fmt.Sprintf("moduleTitle%d", n) }
func ModuleDatesID(n int) string       { return fmt.Sprintf("moduleDates%d", n) }
func AssignmentListID(n int) string    { return fmt.Sprintf("assignments%d", n) }
func AssignmentName(n int) string      { return fmt.Sprintf("assignments%d[]", n) }
func AddAssignmentButtonID(n int) string { return fmt.Sprintf("addAssignment%d", n) }

func PolicyFieldID(key string) string { return "policy_" + key }

// NewSyllabusForm builds the static scaffolding: scalar fields, the program
// selector, the repeatable-section containers with their "add" controls, and
// one marked policy textarea per fixed key. Repeatable items themselves are
// created by the Builder.
func NewSyllabusForm() *form.Node {
	root := form.NewTree()

	for _, id := range ScalarFieldIDs {
		root.Append(form.NewNode(form.KindInput, id))
	}

	program := form.NewNode(form.KindSelect, FieldProgram)
	program.Options = append([]string{""}, syllabus.Programs...)
	root.Append(program)

	instructors := form.NewNode(form.KindContainer, ContainerInstructors)
	instructors.Append(form.NewNode(form.KindButton, ButtonAddInstructor))
	root.Append(instructors)

	root.Append(form.NewNode(form.KindContainer, ContainerOutcomes))
	root.Append(form.NewNode(form.KindContainer, ContainerAssessments))

	weighting := form.NewNode(form.KindContainer, ContainerWeighting)
	weighting.Append(form.NewNode(form.KindButton, ButtonAddWeightRow))
	root.Append(weighting)
	total := form.NewNode(form.KindHidden, WeightTotalID)
	total.Value = "0%"
	total.SetAttr(AttrOverWeighted, "false")
	root.Append(total)

	modules := form.NewNode(form.KindContainer, ContainerModules)
	modules.Append(form.NewNode(form.KindButton, ButtonAddModule))
	root.Append(modules)

	policies := form.NewNode(form.KindContainer, ContainerPolicies)
	for _, key := range syllabus.PolicyKeys {
		field := form.NewNode(form.KindTextArea, PolicyFieldID(key))
		field.SetAttr(PolicyKeyAttr, key)
		policies.Append(field)
	}
	root.Append(policies)

	return root
}
