package assemble

import (
	"strconv"
	"strings"

	"github.com/eoauman/sylman/internal/form"
	"github.com/eoauman/sylman/internal/form/groups"
	"github.com/eoauman/sylman/internal/syllabus"
)

// Assemble walks the form tree and builds the document sent to the server.
// Missing sections contribute empty values, never nils, so an assembled
// document serializes the same shape as a decoded one. Callers must run the
// rich-text bridge's SyncAll first; assembly reads hidden nodes only.
func Assemble(root *form.Node) *syllabus.Document {
	acc := form.NewAccessor(root)

	doc := &syllabus.Document{
		Course: syllabus.CourseInfo{
			Title:         acc.GetValue(groups.FieldCourseTitle),
			Number:        acc.GetValue(groups.FieldCourseNumber),
			Credits:       acc.GetValue(groups.FieldCredits),
			DeliveryMode:  acc.GetValue(groups.FieldDeliveryMode),
			Term:          acc.GetValue(groups.FieldTerm),
			Location:      acc.GetValue(groups.FieldLocation),
			MeetingTimes:  acc.GetValue(groups.FieldMeetingTimes),
			StartDate:     acc.GetValue(groups.FieldStartDate),
			Description:   acc.GetValue(groups.FieldDescription),
			Prerequisites: acc.GetValue(groups.FieldPrerequisites),
		},
		Program: acc.GetValue(groups.FieldProgram),
	}

	doc.Instructors = assembleInstructors(root)
	doc.Outcomes = assembleOutcomes(root)
	doc.Assessments = assembleAssessments(root)
	doc.Weighting = assembleWeighting(root)
	doc.Modules = assembleModules(root)
	doc.Policies = assemblePolicies(root)

	doc.Normalize()
	return doc
}

func assembleInstructors(root *form.Node) []syllabus.Instructor {
	list := root.FindByID(groups.ContainerInstructors)
	out := []syllabus.Instructor{}
	if list == nil {
		return out
	}
	for _, group := range list.Children() {
		i, ok := indexSuffix(group.ID, "instructor")
		if !ok {
			continue
		}
		out = append(out, syllabus.Instructor{
			Name:        childValue(group, groups.InstructorNameID(i)),
			Email:       childValue(group, groups.InstructorEmailID(i)),
			Phone:       childValue(group, groups.InstructorPhoneID(i)),
			Office:      childValue(group, groups.InstructorOfficeID(i)),
			OfficeHours: childValue(group, groups.OfficeHoursHiddenID(i)),
		})
	}
	return out
}

// assembleOutcomes keys each SLO input by its placeholder, so a form whose
// middle entry was removed assembles sparse keys rather than renumbered ones.
func assembleOutcomes(root *form.Node) map[string][]string {
	out := map[string][]string{}
	container := root.FindByID(groups.ContainerOutcomes)
	if container == nil {
		return out
	}
	for _, group := range container.Children() {
		o, ok := indexSuffix(group.ID, "outcomeGroup")
		if !ok {
			continue
		}
		for _, input := range group.FindAllByName(groups.SLOName(o)) {
			key := input.Placeholder
			if _, _, valid := syllabus.ParseSLOKey(key); !valid {
				continue
			}
			out[key] = append(out[key], input.Value)
		}
	}
	return out
}

func assembleAssessments(root *form.Node) map[string][]string {
	out := map[string][]string{}
	container := root.FindByID(groups.ContainerAssessments)
	if container == nil {
		return out
	}
	for _, group := range container.Children() {
		key := strings.TrimPrefix(group.ID, "assessmentGroup")
		if key == group.ID {
			continue
		}
		values := []string{}
		for _, input := range group.FindAllByName(groups.AssessmentName(key)) {
			values = append(values, input.Value)
		}
		out[key] = values
	}
	return out
}

func assembleWeighting(root *form.Node) []syllabus.WeightingDetail {
	list := root.FindByID(groups.ContainerWeighting)
	out := []syllabus.WeightingDetail{}
	if list == nil {
		return out
	}
	for _, row := range list.Children() {
		i, ok := indexSuffix(row.ID, "weightRow")
		if !ok {
			continue
		}
		weight, _ := strconv.ParseFloat(strings.TrimSpace(childValue(row, groups.WeightValueID(i))), 64)
		out = append(out, syllabus.WeightingDetail{
			Label:  childValue(row, groups.WeightLabelID(i)),
			Weight: weight,
		})
	}
	return out
}

func assembleModules(root *form.Node) []syllabus.Module {
	list := root.FindByID(groups.ContainerModules)
	out := []syllabus.Module{}
	if list == nil {
		return out
	}
	for _, group := range list.Children() {
		n, ok := indexSuffix(group.ID, "module")
		if !ok {
			continue
		}
		m := syllabus.Module{
			Title:       childValue(group, groups.ModuleTitleID(n)),
			DateRange:   childValue(group, groups.ModuleDatesID(n)),
			Assignments: []string{},
		}
		for _, input := range group.FindAllByName(groups.AssignmentName(n)) {
			m.Assignments = append(m.Assignments, input.Value)
		}
		out = append(out, m)
	}
	return out
}

// assemblePolicies discovers policy fields by their marker attribute. Fields
// added to the form later are picked up with no assembler change.
func assemblePolicies(root *form.Node) map[string]string {
	out := map[string]string{}
	for _, node := range root.FindAllByAttr(groups.PolicyKeyAttr) {
		key, _ := node.Attr(groups.PolicyKeyAttr)
		out[key] = node.Value
	}
	return out
}

func childValue(group *form.Node, id string) string {
	if n := group.FindByID(id); n != nil {
		return n.Value
	}
	return ""
}

func indexSuffix(id, prefix string) (int, bool) {
	if !strings.HasPrefix(id, prefix) {
		return 0, false
	}
	n, err := strconv.Atoi(strings.TrimPrefix(id, prefix))
	if err != nil || n < 1 {
		return 0, false
	}
	return n, true
}
