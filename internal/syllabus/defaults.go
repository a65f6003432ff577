package syllabus

// Static program and policy tables. These are maintained by hand and updated
// when a program revises its outcomes or the institution revises its
// boilerplate; nothing in here is derived at runtime.

// Program codes offered by the syllabus editor's program selector.
const (
	ProgramBSCS = "BSCS" // Computer Science
	ProgramBSIT = "BSIT" // Information Technology
	ProgramBSSE = "BSSE" // Software Engineering
	ProgramBSDA = "BSDA" // Data Analytics
)

// Programs lists every selectable program code, in selector order.
var Programs = []string{ProgramBSCS, ProgramBSIT, ProgramBSSE, ProgramBSDA}

// ValidProgram reports whether code is a known program.
func ValidProgram(code string) bool {
	for _, p := range Programs {
		if p == code {
			return true
		}
	}
	return false
}

// ProgramOutcomes maps a program to its ordered high-level outcome titles.
// The 1-based position in this list is the outcome index used in SLO keys.
var ProgramOutcomes = map[string][]string{
	ProgramBSCS: {
		"Analyze a complex computing problem and apply principles of computing to identify solutions",
		"Design, implement, and evaluate a computing-based solution to meet a given set of requirements",
		"Communicate effectively in a variety of professional contexts",
		"Recognize professional responsibilities and make informed judgments based on legal and ethical principles",
		"Apply computer science theory and software development fundamentals to produce computing-based solutions",
	},
	ProgramBSIT: {
		"Identify and analyze user needs in the selection, creation, and administration of computing systems",
		"Design, implement, and evaluate a computing-based solution to meet a given set of requirements",
		"Communicate effectively in a variety of professional contexts",
		"Function effectively as a member or leader of a team engaged in IT activities",
		"Use systemic approaches to select, deploy, integrate, and administer computing technologies",
	},
	ProgramBSSE: {
		"Analyze a complex computing problem and apply engineering principles to identify solutions",
		"Design, implement, and evaluate software systems that meet specified requirements",
		"Communicate effectively with a range of audiences about software engineering practice",
		"Recognize ethical and professional responsibilities in engineering situations",
		"Apply software engineering processes appropriate to the project and organization",
	},
	ProgramBSDA: {
		"Formulate data questions grounded in a domain context",
		"Prepare, transform, and manage data for analysis",
		"Apply statistical and machine-learning methods to derive insight from data",
		"Communicate analytic findings to technical and non-technical audiences",
		"Evaluate data practice against privacy, security, and ethical standards",
	},
}

// DefaultSLOs seeds the SLO table the first time a program is selected, so a
// fresh selection never shows an empty outcomes section. Keys follow the
// "<outcomeIndex>.<sloIndex>" convention.
var DefaultSLOs = map[string]map[string][]string{
	ProgramBSCS: {
		"1.1": {"Decompose a problem statement into computable subproblems"},
		"2.1": {"Implement a working solution from a design specification"},
		"3.1": {"Present technical material in written and oral form"},
		"4.1": {"Identify ethical issues in a computing scenario"},
		"5.1": {"Select appropriate data structures and algorithms for a task"},
	},
	ProgramBSIT: {
		"1.1": {"Gather and document end-user requirements"},
		"2.1": {"Deploy a networked service that satisfies stated requirements"},
		"3.1": {"Produce documentation appropriate to a professional audience"},
		"4.1": {"Contribute to a team deliverable with defined responsibilities"},
		"5.1": {"Administer an operating system and its services"},
	},
	ProgramBSSE: {
		"1.1": {"Model a system using standard engineering notations"},
		"2.1": {"Verify software behavior against its specification"},
		"3.1": {"Write a requirements document for a stakeholder audience"},
		"4.1": {"Apply a professional code of ethics to an engineering decision"},
		"5.1": {"Follow a defined software process across a project lifecycle"},
	},
	ProgramBSDA: {
		"1.1": {"Translate a domain question into a testable data question"},
		"2.1": {"Clean and reshape a raw dataset for analysis"},
		"3.1": {"Fit and interpret a predictive model"},
		"4.1": {"Visualize findings for a non-technical audience"},
		"5.1": {"Assess a data pipeline for privacy and security exposures"},
	},
}

// PolicyKeys is the fixed set of policy/service sections every populated
// syllabus carries. Assembly discovers policy fields by marker attribute;
// population seeds from this list so no key is ever left out.
var PolicyKeys = []string{
	"attendance",
	"lateWork",
	"makeupExams",
	"academicIntegrity",
	"plagiarism",
	"classroomConduct",
	"netiquette",
	"disabilityServices",
	"counselingServices",
	"tutoringServices",
	"libraryServices",
	"technologySupport",
	"titleIX",
	"veteransServices",
	"emergencyProcedures",
	"incompleteGrades",
	"withdrawalPolicy",
	"copyrightNotice",
}

// defaultPolicyText is the institution-wide boilerplate used when a program
// has no specific override for a key.
var defaultPolicyText = map[string]string{
	"attendance":          "Regular attendance is expected. More than three unexcused absences may lower the final grade; students are responsible for material covered during any absence.",
	"lateWork":            "Assignments submitted after the posted deadline lose 10% per calendar day and are not accepted more than one week late without prior arrangement.",
	"makeupExams":         "Make-up examinations are offered only for documented emergencies and must be arranged with the instructor within 48 hours of the scheduled exam.",
	"academicIntegrity":   "All work submitted must be the student's own. Violations of the academic integrity policy are reported to the Office of Student Conduct and may result in course failure.",
	"plagiarism":          "Presenting the words, code, or ideas of another as your own, including uncredited use of generated content, constitutes plagiarism and is handled under the academic integrity policy.",
	"classroomConduct":    "Students are expected to contribute to a respectful learning environment. Disruptive behavior may result in removal from the session and referral to Student Conduct.",
	"netiquette":          "Online communication should remain professional and courteous. Review messages before posting; harassment in any course forum is treated as a conduct violation.",
	"disabilityServices":  "Students with documented disabilities may arrange reasonable accommodations through the Office of Accessibility Services. Contact the office early in the term; accommodations are not retroactive.",
	"counselingServices":  "Free, confidential counseling is available to all enrolled students through the Counseling Center, including after-hours crisis support.",
	"tutoringServices":    "The Academic Success Center offers free tutoring, writing support, and study-skills workshops both on campus and online.",
	"libraryServices":     "The university library provides research databases, interlibrary loan, and librarian consultations for all enrolled students.",
	"technologySupport":   "The IT Help Desk supports course technology, accounts, and the learning management system. Report outages promptly; technical failure does not automatically extend deadlines.",
	"titleIX":             "The university prohibits sex-based discrimination and harassment. Faculty are responsible employees and must report disclosures to the Title IX Coordinator.",
	"veteransServices":    "The Office of Veterans Services assists students using military education benefits with certification, advising, and referral services.",
	"emergencyProcedures": "In an emergency, follow posted evacuation routes and official university alerts. Register for the campus alert system to receive notifications.",
	"incompleteGrades":    "A grade of Incomplete may be assigned only when most coursework is complete and circumstances beyond the student's control prevent finishing; remaining work is due within one term.",
	"withdrawalPolicy":    "Students may withdraw without grade penalty through the published withdrawal deadline. After the deadline, withdrawal requires dean approval and documented circumstances.",
	"copyrightNotice":     "Course materials are provided for enrolled students only and may not be redistributed or posted to external sites without written permission.",
}

// programPolicyText carries program-specific overrides layered over the
// institutional boilerplate.
var programPolicyText = map[string]map[string]string{
	ProgramBSCS: {
		"academicIntegrity": "All submitted code must be the student's own unless collaboration is explicitly permitted. Automated similarity analysis is applied to programming submissions; uncredited use of generated or copied code is an integrity violation.",
		"technologySupport": "Programming courses assume access to the department's development environment. The CS systems group supports lab accounts, version control hosting, and the grading platform.",
	},
	ProgramBSIT: {
		"technologySupport": "IT courses use departmental virtual lab infrastructure. Provisioning issues should be reported to the IT lab coordinator; the virtual lab is unavailable during the Sunday maintenance window.",
	},
	ProgramBSSE: {
		"academicIntegrity": "Team projects require an individual contribution log. Claiming credit for work performed by teammates, or uncredited external code, is an integrity violation.",
	},
	ProgramBSDA: {
		"copyrightNotice": "Datasets distributed in this course may carry their own license terms in addition to university policy; redistribution of licensed datasets is prohibited.",
	},
}

// DefaultPolicyText returns the boilerplate for a policy key under the given
// program: program override first, institutional default second, empty string
// when the key is unknown. Never returns a missing-key sentinel.
func DefaultPolicyText(program, key string) string {
	if overrides, ok := programPolicyText[program]; ok {
		if text, ok := overrides[key]; ok {
			return text
		}
	}
	return defaultPolicyText[key]
}
