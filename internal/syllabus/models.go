package syllabus

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Document is the persistent syllabus model. A document is a draft until its
// first successful create assigns an ID; afterwards every save is an update
// keyed by that ID.
type Document struct {
	Course      CourseInfo         `json:"course" bson:"course"`
	Instructors []Instructor       `json:"instructors" bson:"instructors"`
	Program     string             `json:"programSelect" bson:"programSelect"`
	Outcomes    map[string][]string `json:"slos" bson:"slos"`
	Assessments map[string][]string `json:"assessments" bson:"assessments"`
	Weighting   []WeightingDetail  `json:"weightingDetails" bson:"weightingDetails"`
	Modules     []Module           `json:"modules" bson:"modules"`
	Policies    map[string]string  `json:"policies" bson:"policies"`
	LastEdited  string             `json:"lastEdited,omitempty" bson:"lastEdited,omitempty"`
}

// CourseInfo carries the scalar course metadata fields.
type CourseInfo struct {
	Title         string `json:"courseTitle" bson:"courseTitle"`
	Number        string `json:"courseNumber" bson:"courseNumber"`
	Credits       string `json:"credits" bson:"credits"`
	DeliveryMode  string `json:"deliveryMode" bson:"deliveryMode"`
	Term          string `json:"term" bson:"term"`
	Location      string `json:"location" bson:"location"`
	MeetingTimes  string `json:"meetingTimes" bson:"meetingTimes"`
	StartDate     string `json:"startDate" bson:"startDate"`
	Description   string `json:"description" bson:"description"`
	Prerequisites string `json:"prerequisites" bson:"prerequisites"`
}

// Instructor is one repeatable instructor block. OfficeHours carries rich text.
type Instructor struct {
	Name        string `json:"name" bson:"name"`
	Email       string `json:"email" bson:"email"`
	Phone       string `json:"phone" bson:"phone"`
	Office      string `json:"office" bson:"office"`
	OfficeHours string `json:"officeHours" bson:"officeHours"`
}

// WeightingDetail is a (label, percentage) pair. The total across a document
// is advisory; the UI flags totals above 100 but never blocks them.
type WeightingDetail struct {
	Label  string  `json:"label" bson:"label"`
	Weight float64 `json:"weight" bson:"weight"`
}

// Module is a dated block of course content with an ordered assignment list.
type Module struct {
	Title       string   `json:"title" bson:"title"`
	DateRange   string   `json:"dateRange" bson:"dateRange"`
	Assignments []string `json:"assignments" bson:"assignments"`
}

// Record is the persisted envelope around a Document.
type Record struct {
	ID           string    `json:"id" bson:"id"`
	UserID       string    `json:"userId" bson:"userId"`
	SyllabusData Document  `json:"syllabusData" bson:"syllabusData"`
	CreatedAt    time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt" bson:"updatedAt"`
}

// SLOKey builds the canonical "<outcomeIndex>.<sloIndex>" key (1-based).
func SLOKey(outcome, slo int) string {
	return fmt.Sprintf("%d.%d", outcome, slo)
}

// ParseSLOKey splits a "<outcome>.<slo>" key. ok is false for malformed keys.
func ParseSLOKey(key string) (outcome, slo int, ok bool) {
	parts := strings.SplitN(key, ".", 2)
	if len(parts) != 2 {
		return 0, 0, false
	}
	o, err1 := strconv.Atoi(parts[0])
	s, err2 := strconv.Atoi(parts[1])
	if err1 != nil || err2 != nil || o < 1 || s < 1 {
		return 0, 0, false
	}
	return o, s, true
}

// SortedSLOKeys returns the map's keys ordered by outcome index, then SLO
// index, numerically. Malformed keys sort last, lexically.
func SortedSLOKeys(m map[string][]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		oi, si, oki := ParseSLOKey(keys[i])
		oj, sj, okj := ParseSLOKey(keys[j])
		if oki && okj {
			if oi != oj {
				return oi < oj
			}
			return si < sj
		}
		if oki != okj {
			return oki
		}
		return keys[i] < keys[j]
	})
	return keys
}

// Normalize replaces nil collections with empty ones so assembled and decoded
// documents compare and serialize identically (no null fields on the wire).
func (d *Document) Normalize() {
	if d.Instructors == nil {
		d.Instructors = []Instructor{}
	}
	if d.Outcomes == nil {
		d.Outcomes = map[string][]string{}
	}
	if d.Assessments == nil {
		d.Assessments = map[string][]string{}
	}
	if d.Weighting == nil {
		d.Weighting = []WeightingDetail{}
	}
	if d.Modules == nil {
		d.Modules = []Module{}
	}
	if d.Policies == nil {
		d.Policies = map[string]string{}
	}
	for i := range d.Modules {
		if d.Modules[i].Assignments == nil {
			d.Modules[i].Assignments = []string{}
		}
	}
}

// Clone returns a deep copy with no shared collections. Copies produced for
// the copy endpoint must never alias the source document.
func (d *Document) Clone() *Document {
	out := *d
	out.Instructors = append([]Instructor(nil), d.Instructors...)
	out.Weighting = append([]WeightingDetail(nil), d.Weighting...)
	out.Outcomes = cloneStringsMap(d.Outcomes)
	out.Assessments = cloneStringsMap(d.Assessments)
	out.Policies = make(map[string]string, len(d.Policies))
	for k, v := range d.Policies {
		out.Policies[k] = v
	}
	out.Modules = make([]Module, len(d.Modules))
	for i, m := range d.Modules {
		m.Assignments = append([]string(nil), m.Assignments...)
		out.Modules[i] = m
	}
	out.Normalize()
	return &out
}

func cloneStringsMap(m map[string][]string) map[string][]string {
	out := make(map[string][]string, len(m))
	for k, v := range m {
		out[k] = append([]string(nil), v...)
	}
	return out
}

// WeightingTotal sums the weighting percentages.
func (d *Document) WeightingTotal() float64 {
	var total float64
	for _, w := range d.Weighting {
		total += w.Weight
	}
	return total
}

// MissingRequired reports the required scalar fields that are empty. Required
// fields gate manual saves only; autosave skips validation entirely.
func (d *Document) MissingRequired() []string {
	var missing []string
	if strings.TrimSpace(d.Course.Title) == "" {
		missing = append(missing, "courseTitle")
	}
	if strings.TrimSpace(d.Course.Number) == "" {
		missing = append(missing, "courseNumber")
	}
	if strings.TrimSpace(d.Program) == "" {
		missing = append(missing, "programSelect")
	}
	return missing
}
