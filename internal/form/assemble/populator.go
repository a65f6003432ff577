package assemble

import (
	"strings"

	"github.com/eoauman/sylman/internal/form"
	"github.com/eoauman/sylman/internal/form/groups"
	"github.com/eoauman/sylman/internal/form/richtext"
	"github.com/eoauman/sylman/internal/syllabus"
	"github.com/eoauman/sylman/pkg/logger"
)

// Populator fills the form tree from a fetched document. Population is a
// clear-and-rebuild: each repeatable section is emptied (editors detached
// first) and regenerated, so stale rows from a previously loaded document
// never survive into the next one.
type Populator struct {
	root    *form.Node
	acc     *form.Accessor
	bridge  *richtext.Bridge
	builder *groups.Builder
}

func NewPopulator(root *form.Node, bridge *richtext.Bridge, builder *groups.Builder) *Populator {
	return &Populator{
		root:    root,
		acc:     form.NewAccessor(root),
		bridge:  bridge,
		builder: builder,
	}
}

// Populate loads doc into the tree. The program selector is written first so
// program-dependent seeding (outcome titles, default SLOs, policy boilerplate)
// sees the right program.
func (p *Populator) Populate(doc *syllabus.Document) {
	doc = doc.Clone()

	p.acc.SetValue(groups.FieldProgram, doc.Program)
	p.populateScalars(doc)
	p.populateInstructors(doc.Instructors)

	outcomes := doc.Outcomes
	if len(outcomes) == 0 {
		if seeds, ok := syllabus.DefaultSLOs[doc.Program]; ok {
			logger.Infof("populate: no stored outcomes, seeding defaults for %s", doc.Program)
			outcomes = seeds
		}
	}
	p.populateOutcomes(doc.Program, outcomes)
	p.populateAssessments(outcomes, doc.Assessments)
	p.populateWeighting(doc)
	p.populateModules(doc.Modules)
	p.populatePolicies(doc.Program, doc.Policies)
}

func (p *Populator) populateScalars(doc *syllabus.Document) {
	c := doc.Course
	for id, value := range map[string]string{
		groups.FieldCourseTitle:   c.Title,
		groups.FieldCourseNumber:  c.Number,
		groups.FieldCredits:       c.Credits,
		groups.FieldDeliveryMode:  c.DeliveryMode,
		groups.FieldTerm:          c.Term,
		groups.FieldLocation:      c.Location,
		groups.FieldMeetingTimes:  c.MeetingTimes,
		groups.FieldStartDate:     c.StartDate,
		groups.FieldDescription:   c.Description,
		groups.FieldPrerequisites: c.Prerequisites,
	} {
		p.acc.SetValue(id, value)
	}
}

func (p *Populator) populateInstructors(instructors []syllabus.Instructor) {
	for _, i := range p.builder.InstructorIndexes() {
		p.builder.RemoveInstructor(i)
	}
	for _, ins := range instructors {
		i, err := p.builder.AddInstructor()
		if err != nil {
			logger.Warnf("populate: instructor block not added: %v", err)
			return
		}
		p.acc.SetValue(groups.InstructorNameID(i), ins.Name)
		p.acc.SetValue(groups.InstructorEmailID(i), ins.Email)
		p.acc.SetValue(groups.InstructorPhoneID(i), ins.Phone)
		p.acc.SetValue(groups.InstructorOfficeID(i), ins.Office)
		if p.bridge != nil && p.bridge.Attached(groups.OfficeHoursHiddenID(i)) {
			p.bridge.Seed(groups.OfficeHoursHiddenID(i), ins.OfficeHours)
		} else {
			p.acc.SetValue(groups.OfficeHoursHiddenID(i), ins.OfficeHours)
		}
	}
}

// populateOutcomes rebuilds the outcome groups and places each stored key
// verbatim. Keys left sparse by earlier removals stay sparse.
func (p *Populator) populateOutcomes(program string, outcomes map[string][]string) {
	if container := p.root.FindByID(groups.ContainerOutcomes); container != nil {
		container.Clear()
	}
	titles := syllabus.ProgramOutcomes[program]
	for o, title := range titles {
		if _, err := p.builder.EnsureOutcomeGroup(o+1, title); err != nil {
			return
		}
	}
	for _, key := range syllabus.SortedSLOKeys(outcomes) {
		o, _, ok := syllabus.ParseSLOKey(key)
		if !ok {
			logger.Warnf("populate: skipping malformed outcome key %q", key)
			continue
		}
		if _, err := p.builder.EnsureOutcomeGroup(o, outcomeTitle(titles, o)); err != nil {
			continue
		}
		for _, text := range outcomes[key] {
			if _, err := p.builder.PlaceSLO(o, key, text); err != nil {
				logger.Warnf("populate: outcome %s not placed: %v", key, err)
			}
		}
	}
}

func outcomeTitle(titles []string, o int) string {
	if o >= 1 && o <= len(titles) {
		return titles[o-1]
	}
	return ""
}

// populateAssessments renders one group per merged SLO key. Stored entries
// win, then whatever the section already displays (captured before the
// rebuild, so typed text survives a repopulation with nothing stored), then a
// single blank input so the section is always editable. Stored keys no longer
// displayed are rendered too, so saved text is never dropped on load.
func (p *Populator) populateAssessments(outcomes, assessments map[string][]string) {
	displayed := map[string][]string{}
	if container := p.root.FindByID(groups.ContainerAssessments); container != nil {
		for _, group := range container.Children() {
			key := strings.TrimPrefix(group.ID, "assessmentGroup")
			if key == group.ID {
				continue
			}
			for _, input := range group.FindAllByName(groups.AssessmentName(key)) {
				displayed[key] = append(displayed[key], input.Value)
			}
		}
		container.Clear()
	}

	merged := map[string][]string{}
	for k := range outcomes {
		merged[k] = nil
	}
	for k, v := range assessments {
		merged[k] = v
	}

	for _, key := range syllabus.SortedSLOKeys(merged) {
		values := assessments[key]
		if len(values) == 0 {
			values = displayed[key]
		}
		if len(values) == 0 {
			values = []string{""}
		}
		for _, v := range values {
			if _, err := p.builder.AddAssessment(key, v); err != nil {
				logger.Warnf("populate: assessment for %s not placed: %v", key, err)
			}
		}
	}
}

// populateWeighting renders stored rows; with none stored but modules present,
// it proposes an even split across the modules as a starting point.
func (p *Populator) populateWeighting(doc *syllabus.Document) {
	p.clearPrefixed(groups.ContainerWeighting, "weightRow")
	rows := doc.Weighting
	if len(rows) == 0 && len(doc.Modules) > 0 {
		share := 100.0 / float64(len(doc.Modules))
		for _, m := range doc.Modules {
			rows = append(rows, syllabus.WeightingDetail{Label: m.Title, Weight: share})
		}
	}
	for _, row := range rows {
		if _, err := p.builder.AddWeightRow(row.Label, row.Weight); err != nil {
			logger.Warnf("populate: weighting row not placed: %v", err)
			break
		}
	}
	p.builder.RecalculateWeightTotal()
}

func (p *Populator) populateModules(modules []syllabus.Module) {
	p.clearPrefixed(groups.ContainerModules, "module")
	for _, m := range modules {
		group, err := p.builder.PlaceModule(m.Title, m.DateRange)
		if err != nil {
			logger.Warnf("populate: module %q not placed: %v", m.Title, err)
			break
		}
		n, ok := indexSuffix(group.ID, "module")
		if !ok {
			continue
		}
		for _, a := range m.Assignments {
			if _, err := p.builder.AddAssignment(n, a); err != nil {
				logger.Warnf("populate: assignment not placed: %v", err)
			}
		}
	}
}

// populatePolicies seeds every fixed key: the stored text wins, then the
// program's boilerplate, then institution-wide boilerplate. No field is left
// out even when the document predates a key.
func (p *Populator) populatePolicies(program string, policies map[string]string) {
	for _, key := range syllabus.PolicyKeys {
		value, ok := policies[key]
		if !ok || value == "" {
			value = syllabus.DefaultPolicyText(program, key)
		}
		p.acc.SetValue(groups.PolicyFieldID(key), value)
	}
}

// clearPrefixed removes a container's prefixed item groups, keeping its add
// control in place.
func (p *Populator) clearPrefixed(containerID, prefix string) {
	container := p.root.FindByID(containerID)
	if container == nil {
		return
	}
	for _, c := range container.Children() {
		if _, ok := indexSuffix(c.ID, prefix); ok {
			c.Remove()
		}
	}
}
