package groups

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/eoauman/sylman/internal/form"
	"github.com/eoauman/sylman/internal/form/richtext"
	"github.com/eoauman/sylman/internal/syllabus"
	"github.com/eoauman/sylman/pkg/logger"
)

// MaxModules caps the module list; adds beyond it are rejected.
const MaxModules = 20

var (
	ErrDuplicateSLO     = errors.New("an entry with this key already exists under the outcome")
	ErrModuleCap        = errors.New("module limit reached")
	ErrNoStartDate      = errors.New("select a course start date before adding modules")
	ErrMissingContainer = errors.New("list container not found")
)

// Builder renders and maintains the repeatable form sections. Every add
// keeps the section's "add" control as the last child; removals detach the
// item without renumbering surviving siblings.
type Builder struct {
	root      *form.Node
	acc       *form.Accessor
	bridge    *richtext.Bridge
	newEditor func() richtext.Editor
}

func NewBuilder(root *form.Node, bridge *richtext.Bridge, newEditor func() richtext.Editor) *Builder {
	if newEditor == nil {
		newEditor = richtext.NewPlain
	}
	return &Builder{root: root, acc: form.NewAccessor(root), bridge: bridge, newEditor: newEditor}
}

func (b *Builder) container(id string) (*form.Node, error) {
	n := b.root.FindByID(id)
	if n == nil {
		logger.Warnf("groups: container %q not found", id)
		return nil, ErrMissingContainer
	}
	return n, nil
}

// nextFreeIndex returns one past the highest numeric suffix among children
// whose ids start with prefix, so re-adding after a mid-list removal never
// reuses a live id.
func nextFreeIndex(parent *form.Node, prefix string) int {
	max := 0
	for _, c := range parent.Children() {
		if !strings.HasPrefix(c.ID, prefix) {
			continue
		}
		if n, err := strconv.Atoi(strings.TrimPrefix(c.ID, prefix)); err == nil && n > max {
			max = n
		}
	}
	return max + 1
}

// moveAddButtonLast keeps the add control as the container's last child.
func moveAddButtonLast(parent *form.Node, buttonID string) {
	if btn := parent.FindByID(buttonID); btn != nil {
		btn.MoveToEnd()
	}
}

// --- Instructors ---

// AddInstructor appends an instructor block and mounts its office-hours
// editor. Returns the new block's index.
func (b *Builder) AddInstructor() (int, error) {
	list, err := b.container(ContainerInstructors)
	if err != nil {
		return 0, err
	}
	i := nextFreeIndex(list, "instructor")
	group := form.NewNode(form.KindContainer, InstructorGroupID(i))
	group.Append(form.NewNode(form.KindInput, InstructorNameID(i)))
	group.Append(form.NewNode(form.KindInput, InstructorEmailID(i)))
	group.Append(form.NewNode(form.KindInput, InstructorPhoneID(i)))
	group.Append(form.NewNode(form.KindInput, InstructorOfficeID(i)))
	group.Append(form.NewNode(form.KindContainer, OfficeHoursEditorID(i)))
	group.Append(form.NewNode(form.KindHidden, OfficeHoursHiddenID(i)))
	list.Append(group)
	moveAddButtonLast(list, ButtonAddInstructor)

	if b.bridge != nil {
		if _, err := b.bridge.Attach(OfficeHoursHiddenID(i), richtext.Config{
			ContainerID: OfficeHoursEditorID(i),
			HiddenID:    OfficeHoursHiddenID(i),
			New:         b.newEditor,
		}); err != nil {
			logger.Warnf("groups: office-hours editor for instructor %d not attached: %v", i, err)
		}
	}
	return i, nil
}

// RemoveInstructor detaches the block and its editor. Detach must precede
// removal so the editor's change listener is released.
func (b *Builder) RemoveInstructor(i int) {
	if b.bridge != nil {
		b.bridge.Detach(OfficeHoursHiddenID(i))
	}
	if group := b.root.FindByID(InstructorGroupID(i)); group != nil {
		group.Remove()
	}
	if list := b.root.FindByID(ContainerInstructors); list != nil {
		moveAddButtonLast(list, ButtonAddInstructor)
	}
}

// InstructorIndexes lists the live instructor block indexes in form order.
func (b *Builder) InstructorIndexes() []int {
	list := b.root.FindByID(ContainerInstructors)
	if list == nil {
		return nil
	}
	var out []int
	for _, c := range list.Children() {
		if strings.HasPrefix(c.ID, "instructor") {
			if n, err := strconv.Atoi(strings.TrimPrefix(c.ID, "instructor")); err == nil {
				out = append(out, n)
			}
		}
	}
	return out
}

// --- Student learning outcomes ---

// EnsureOutcomeGroup creates (or returns) the group for outcome index o.
func (b *Builder) EnsureOutcomeGroup(o int, title string) (*form.Node, error) {
	parent, err := b.container(ContainerOutcomes)
	if err != nil {
		return nil, err
	}
	if existing := parent.FindByID(OutcomeGroupID(o)); existing != nil {
		return existing, nil
	}
	group := form.NewNode(form.KindContainer, OutcomeGroupID(o))
	group.Label = title
	group.Append(form.NewNode(form.KindButton, AddSLOButtonID(o)))
	parent.Append(group)
	return group, nil
}

// AddSLO appends an SLO input under outcome o. The next sub-index is the
// existing count plus one; when removals left a gap, that computed key can
// collide with a survivor, and the add is rejected with the tree unchanged.
// Removal never renumbers, so the guard is load-bearing.
func (b *Builder) AddSLO(o int, text string) (*form.Node, error) {
	group := b.root.FindByID(OutcomeGroupID(o))
	if group == nil {
		logger.Warnf("groups: outcome group %d not found", o)
		return nil, ErrMissingContainer
	}
	s := len(group.FindAllByName(SLOName(o))) + 1
	key := syllabus.SLOKey(o, s)
	for _, existing := range group.FindAllByName(SLOName(o)) {
		if existing.Placeholder == key {
			logger.Warnf("groups: slo %s already present, rejecting add", key)
			return nil, ErrDuplicateSLO
		}
	}
	input := form.NewNode(form.KindInput, SLOInputID(key))
	input.Name = SLOName(o)
	input.Placeholder = key
	input.Value = text
	group.Append(input)
	moveAddButtonLast(group, AddSLOButtonID(o))
	return input, nil
}

// PlaceSLO inserts an input carrying an exact stored key. Population uses
// this instead of AddSLO because a saved document's keys may be sparse after
// removals, and repopulating must preserve them verbatim.
func (b *Builder) PlaceSLO(o int, key, text string) (*form.Node, error) {
	group := b.root.FindByID(OutcomeGroupID(o))
	if group == nil {
		logger.Warnf("groups: outcome group %d not found", o)
		return nil, ErrMissingContainer
	}
	input := form.NewNode(form.KindInput, SLOInputID(key))
	input.Name = SLOName(o)
	input.Placeholder = key
	input.Value = text
	group.Append(input)
	moveAddButtonLast(group, AddSLOButtonID(o))
	return input, nil
}

// RemoveSLO detaches one SLO input. Surviving placeholders keep their keys:
// removing "2.1" leaves "2.2" as "2.2".
func (b *Builder) RemoveSLO(o int, node *form.Node) {
	node.Remove()
	if group := b.root.FindByID(OutcomeGroupID(o)); group != nil {
		moveAddButtonLast(group, AddSLOButtonID(o))
	}
}

// --- Assessments ---

// EnsureAssessmentGroup creates (or returns) the assessment group for an SLO
// key.
func (b *Builder) EnsureAssessmentGroup(key string) (*form.Node, error) {
	parent, err := b.container(ContainerAssessments)
	if err != nil {
		return nil, err
	}
	if existing := parent.FindByID(AssessmentGroupID(key)); existing != nil {
		return existing, nil
	}
	group := form.NewNode(form.KindContainer, AssessmentGroupID(key))
	group.Label = key
	group.Append(form.NewNode(form.KindButton, AddAssessmentButtonID(key)))
	parent.Append(group)
	return group, nil
}

// AddAssessment appends one assessment input under an SLO key.
func (b *Builder) AddAssessment(key, text string) (*form.Node, error) {
	group, err := b.EnsureAssessmentGroup(key)
	if err != nil {
		return nil, err
	}
	n := len(group.FindAllByName(AssessmentName(key))) + 1
	input := form.NewNode(form.KindInput, fmt.Sprintf("assessment%s_%d", key, n))
	input.Name = AssessmentName(key)
	input.Value = text
	group.Append(input)
	moveAddButtonLast(group, AddAssessmentButtonID(key))
	return input, nil
}

// --- Weighting ---

// AddWeightRow appends a (label, weight) row and recomputes the total.
func (b *Builder) AddWeightRow(label string, weight float64) (*form.Node, error) {
	list, err := b.container(ContainerWeighting)
	if err != nil {
		return nil, err
	}
	i := nextFreeIndex(list, "weightRow")
	row := form.NewNode(form.KindContainer, WeightRowID(i))
	labelField := form.NewNode(form.KindInput, WeightLabelID(i))
	labelField.Value = label
	row.Append(labelField)
	valueField := form.NewNode(form.KindInput, WeightValueID(i))
	valueField.Value = strconv.FormatFloat(weight, 'f', -1, 64)
	row.Append(valueField)
	list.Append(row)
	moveAddButtonLast(list, ButtonAddWeightRow)
	b.RecalculateWeightTotal()
	return row, nil
}

// RemoveWeightRow detaches a row and recomputes the total.
func (b *Builder) RemoveWeightRow(row *form.Node) {
	row.Remove()
	if list := b.root.FindByID(ContainerWeighting); list != nil {
		moveAddButtonLast(list, ButtonAddWeightRow)
	}
	b.RecalculateWeightTotal()
}

// RecalculateWeightTotal sums the weight fields into the total display and
// flags totals above 100. The total is advisory; nothing blocks an
// over-weighted form.
func (b *Builder) RecalculateWeightTotal() {
	list := b.root.FindByID(ContainerWeighting)
	total := b.root.FindByID(WeightTotalID)
	if list == nil || total == nil {
		return
	}
	var sum float64
	for _, row := range list.Children() {
		if !strings.HasPrefix(row.ID, "weightRow") {
			continue
		}
		for _, c := range row.Children() {
			if strings.HasPrefix(c.ID, "weightValue") {
				if v, err := strconv.ParseFloat(strings.TrimSpace(c.Value), 64); err == nil {
					sum += v
				}
			}
		}
	}
	total.Value = strconv.FormatFloat(sum, 'f', -1, 64) + "%"
	total.SetAttr(AttrOverWeighted, strconv.FormatBool(sum > 100))
}

// --- Modules ---

// AddModule appends module number count+1 with its computed date range.
// Adding past the cap, or without a selected start date, is rejected with a
// warning and no tree change.
func (b *Builder) AddModule(title string) (*form.Node, error) {
	list, err := b.container(ContainerModules)
	if err != nil {
		return nil, err
	}
	count := 0
	for _, c := range list.Children() {
		if strings.HasPrefix(c.ID, "module") {
			count++
		}
	}
	if count >= MaxModules {
		logger.Warnf("groups: module cap of %d reached, rejecting add", MaxModules)
		return nil, ErrModuleCap
	}
	start := b.acc.GetValue(FieldStartDate)
	if strings.TrimSpace(start) == "" {
		logger.Warnf("groups: no start date selected, rejecting module add")
		return nil, ErrNoStartDate
	}
	dates, err := ModuleDateRange(start, count+1)
	if err != nil {
		logger.Warnf("groups: bad start date %q: %v", start, err)
		return nil, err
	}
	return b.PlaceModule(title, dates)
}

// PlaceModule appends a module carrying a stored date range verbatim.
// Population uses this instead of AddModule so a saved range round-trips
// unchanged even when the start date field is empty or has since moved.
func (b *Builder) PlaceModule(title, dateRange string) (*form.Node, error) {
	list, err := b.container(ContainerModules)
	if err != nil {
		return nil, err
	}
	count := 0
	for _, c := range list.Children() {
		if strings.HasPrefix(c.ID, "module") {
			count++
		}
	}
	if count >= MaxModules {
		logger.Warnf("groups: module cap of %d reached, rejecting add", MaxModules)
		return nil, ErrModuleCap
	}
	n := count + 1
	group := form.NewNode(form.KindContainer, ModuleGroupID(n))
	titleField := form.NewNode(form.KindInput, ModuleTitleID(n))
	titleField.Value = title
	group.Append(titleField)
	datesField := form.NewNode(form.KindInput, ModuleDatesID(n))
	datesField.Value = dateRange
	group.Append(datesField)
	assignments := form.NewNode(form.KindContainer, AssignmentListID(n))
	assignments.Append(form.NewNode(form.KindButton, AddAssignmentButtonID(n)))
	group.Append(assignments)
	list.Append(group)
	moveAddButtonLast(list, ButtonAddModule)
	return group, nil
}

// AddAssignment appends one assignment input to module n's list.
func (b *Builder) AddAssignment(n int, text string) (*form.Node, error) {
	list := b.root.FindByID(AssignmentListID(n))
	if list == nil {
		logger.Warnf("groups: assignment list for module %d not found", n)
		return nil, ErrMissingContainer
	}
	k := len(list.FindAllByName(AssignmentName(n))) + 1
	input := form.NewNode(form.KindInput, fmt.Sprintf("assignment%d_%d", n, k))
	input.Name = AssignmentName(n)
	input.Value = text
	list.Append(input)
	moveAddButtonLast(list, AddAssignmentButtonID(n))
	return input, nil
}

// ModuleDateRange computes module n's span: start + 7*(n-1) days through
// six days later, formatted MM/DD/YYYY-MM/DD/YYYY. The start date is
// accepted in ISO (date input) or MM/DD/YYYY form.
func ModuleDateRange(start string, n int) (string, error) {
	t, err := parseStartDate(start)
	if err != nil {
		return "", err
	}
	from := t.AddDate(0, 0, 7*(n-1))
	to := from.AddDate(0, 0, 6)
	return from.Format("01/02/2006") + "-" + to.Format("01/02/2006"), nil
}

func parseStartDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	return time.Parse("01/02/2006", s)
}
