package models

// Step identifies the current wizard step
type Step int

const (
	StepUpload Step = iota + 1
	StepRefine
	StepResults
)

// String returns a human-readable name for the step
func (s Step) String() string {
	switch s {
	case StepUpload:
		return "upload"
	case StepRefine:
		return "refine"
	case StepResults:
		return "results"
	default:
		return "unknown"
	}
}

// Language proficiency levels accepted by the extraction schema
const (
	ProficiencyBasic        = "Basic"
	ProficiencyIntermediate = "Intermediate"
	ProficiencyAdvanced     = "Advanced"
	ProficiencyNative       = "Native"
)

// AllowedMimeTypes lists the resume formats accepted for upload
var AllowedMimeTypes = []string{
	"application/pdf",
	"image/jpeg",
	"image/png",
	"image/webp",
}

// IsAllowedMimeType reports whether mimeType is an accepted resume format
func IsAllowedMimeType(mimeType string) bool {
	for _, m := range AllowedMimeTypes {
		if m == mimeType {
			return true
		}
	}
	return false
}

// JobSearchCriteria captures one upload submission. It is immutable once
// stored; a re-submission replaces it wholesale.
type JobSearchCriteria struct {
	TargetCountry    string `json:"targetCountry"`
	TargetJobTitle   string `json:"targetJobTitle"`
	ResumeFileBase64 string `json:"resumeFileBase64"`
	ResumeMimeType   string `json:"resumeMimeType"`
}

// Equal reports field-wise equality on the 4-tuple that identifies a
// submission. Used to skip redundant extraction calls.
func (c JobSearchCriteria) Equal(other JobSearchCriteria) bool {
	return c.TargetCountry == other.TargetCountry &&
		c.TargetJobTitle == other.TargetJobTitle &&
		c.ResumeFileBase64 == other.ResumeFileBase64 &&
		c.ResumeMimeType == other.ResumeMimeType
}

// WorkExperience is one employment entry on the resume
type WorkExperience struct {
	Company     string `json:"company"`
	Role        string `json:"role"`
	Duration    string `json:"duration"`
	Description string `json:"description"`
}

// Education is one education entry on the resume
type Education struct {
	Institution string `json:"institution"`
	Degree      string `json:"degree"`
	Year        string `json:"year"`
}

// Project is one personal or professional project entry
type Project struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Link        string `json:"link,omitempty"`
}

// Language is a spoken language with an estimated proficiency
type Language struct {
	Language    string `json:"language"`
	Proficiency string `json:"proficiency"`
}

// UserLinks holds profile and portfolio URLs found on the resume
type UserLinks struct {
	LinkedIn  string `json:"linkedin"`
	Portfolio string `json:"portfolio"`
	GitHub    string `json:"github"`
	Other     string `json:"other"`
}

// UserProfile is the structured resume extracted by the AI and edited by
// the user during the refine step. List order is display order; every
// field is always present, possibly empty.
type UserProfile struct {
	FullName       string           `json:"fullName"`
	Email          string           `json:"email"`
	Phone          string           `json:"phone"`
	Summary        string           `json:"summary"`
	Skills         []string         `json:"skills"`
	Experience     []WorkExperience `json:"experience"`
	Education      []Education      `json:"education"`
	Certifications []string         `json:"certifications"`
	Languages      []Language       `json:"languages"`
	Projects       []Project        `json:"projects"`
	Links          UserLinks        `json:"links"`
}

// EmptyProfile returns the canonical zero-value profile: all strings
// empty, all lists empty (never nil), all link fields empty.
func EmptyProfile() UserProfile {
	return UserProfile{
		Skills:         []string{},
		Experience:     []WorkExperience{},
		Education:      []Education{},
		Certifications: []string{},
		Languages:      []Language{},
		Projects:       []Project{},
	}
}

// Normalize replaces nil lists with empty ones so downstream consumers
// never see an absent field
func (p UserProfile) Normalize() UserProfile {
	if p.Skills == nil {
		p.Skills = []string{}
	}
	if p.Experience == nil {
		p.Experience = []WorkExperience{}
	}
	if p.Education == nil {
		p.Education = []Education{}
	}
	if p.Certifications == nil {
		p.Certifications = []string{}
	}
	if p.Languages == nil {
		p.Languages = []Language{}
	}
	if p.Projects == nil {
		p.Projects = []Project{}
	}
	return p
}

// Clone returns a deep copy of the profile so callers cannot mutate
// lists shared with the wizard session
func (p UserProfile) Clone() UserProfile {
	out := p
	out.Skills = append([]string{}, p.Skills...)
	out.Experience = append([]WorkExperience{}, p.Experience...)
	out.Education = append([]Education{}, p.Education...)
	out.Certifications = append([]string{}, p.Certifications...)
	out.Languages = append([]Language{}, p.Languages...)
	out.Projects = append([]Project{}, p.Projects...)
	return out
}

// JobListing is one job match found by the advice call
type JobListing struct {
	Title      string  `json:"title"`
	Company    string  `json:"company"`
	Location   string  `json:"location"`
	Platform   string  `json:"platform"`
	URL        string  `json:"url"`
	MatchScore float64 `json:"matchScore,omitempty"`
}

// GroundingSource is a web citation the AI attached when it used search
// to produce part of its answer
type GroundingSource struct {
	Title string `json:"title"`
	URI   string `json:"uri"`
}

// CareerAdvice is the output of the advice call: score, critique, skill
// gap analysis, job matches and the grounding citations merged in by the
// gateway. Immutable once stored.
type CareerAdvice struct {
	ResumeScore           float64           `json:"resumeScore"`
	ResumeCritique        string            `json:"resumeCritique"`
	ExecutiveSummary      string            `json:"executiveSummary"`
	SkillGapAnalysis      string            `json:"skillGapAnalysis"`
	ImprovementSuggestion string            `json:"improvementSuggestion"`
	RecommendedRoleTitle  string            `json:"recommendedRoleTitle"`
	Jobs                  []JobListing      `json:"jobs"`
	GroundingURLs         []GroundingSource `json:"groundingUrls"`
}

// Normalize replaces nil lists with empty ones
func (a CareerAdvice) Normalize() CareerAdvice {
	if a.Jobs == nil {
		a.Jobs = []JobListing{}
	}
	if a.GroundingURLs == nil {
		a.GroundingURLs = []GroundingSource{}
	}
	return a
}
