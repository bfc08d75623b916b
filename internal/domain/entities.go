// Package domain holds the core entities and ports of the profile
// extraction service.
//
// The types here are the sole output contract of the parsing engine:
// a StructuredProfile assembled from employment, education, skill and
// interest entries plus personal contact data. Adapters depend on this
// package; it depends on nothing but the standard library.
package domain

import (
	"context"
	"errors"
	"time"
)

// Error taxonomy (sentinels)
var (
	ErrInvalidArgument = errors.New("invalid argument")
	ErrNotFound        = errors.New("not found")
	ErrConflict        = errors.New("conflict")
	// ErrEmptyInput signals that the text handed to the engine was empty or
	// whitespace-only, which almost always means upstream extraction failed.
	// It is the only condition the engine surfaces as an error.
	ErrEmptyInput        = errors.New("empty input")
	ErrUpstreamTimeout   = errors.New("upstream timeout")
	ErrUpstreamRateLimit = errors.New("upstream rate limit")
	ErrSchemaInvalid     = errors.New("schema invalid")
	ErrInternal          = errors.New("internal error")
)

// DateRange is a normalized employment/education period.
// Dates are zero-padded "YYYY-MM" strings or empty when unknown.
// Invariant: IsCurrent implies EndDate == "".
type DateRange struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	IsCurrent bool   `json:"is_current"`
}

// EmploymentEntry is one job in the career history. Entries are created
// by a single parse invocation and never mutated afterwards.
type EmploymentEntry struct {
	ID           string    `json:"id"`
	Position     string    `json:"position"`
	Company      string    `json:"company"`
	Location     string    `json:"location"`
	DateRange    DateRange `json:"date_range"`
	Description  string    `json:"description"`
	Achievements []string  `json:"achievements"`
}

// EducationEntry is one school/degree record.
type EducationEntry struct {
	ID           string    `json:"id"`
	Institution  string    `json:"institution"`
	Degree       string    `json:"degree"`
	Field        string    `json:"field"`
	Location     string    `json:"location"`
	DateRange    DateRange `json:"date_range"`
	GPA          string    `json:"gpa"`
	Achievements []string  `json:"achievements"`
}

// SkillCategory enumerates skill classifications.
type SkillCategory string

// Skill categories.
const (
	SkillTechnical SkillCategory = "technical"
	SkillSoft      SkillCategory = "soft"
	SkillLanguage  SkillCategory = "language"
	SkillOther     SkillCategory = "other"
)

// SkillLevel enumerates proficiency levels.
type SkillLevel string

// Skill levels.
const (
	LevelBeginner     SkillLevel = "beginner"
	LevelIntermediate SkillLevel = "intermediate"
	LevelAdvanced     SkillLevel = "advanced"
	LevelExpert       SkillLevel = "expert"
)

// SkillEntry is a single skill with its classification.
type SkillEntry struct {
	ID       string        `json:"id"`
	Name     string        `json:"name"`
	Category SkillCategory `json:"category"`
	Level    SkillLevel    `json:"level"`
}

// InterestCategory enumerates interest classifications.
type InterestCategory string

// Interest categories.
const (
	InterestHobby     InterestCategory = "hobby"
	InterestVolunteer InterestCategory = "volunteer"
	InterestGeneral   InterestCategory = "interest"
	InterestOther     InterestCategory = "other"
)

// InterestEntry is a hobby/volunteer/interest record.
type InterestEntry struct {
	ID          string           `json:"id"`
	Name        string           `json:"name"`
	Category    InterestCategory `json:"category"`
	Description string           `json:"description"`
}

// PersonalInfo is the contact block of a profile. Fields default to
// empty strings when not found; at most one instance per profile.
type PersonalInfo struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Location  string `json:"location"`
	Website   string `json:"website"`
	LinkedIn  string `json:"linkedin"`
	GitHub    string `json:"github"`
}

// Profile is the structured career profile produced by the engine.
// Ownership transfers to the caller once returned.
type Profile struct {
	Personal   PersonalInfo      `json:"personal"`
	Employment []EmploymentEntry `json:"employment"`
	Education  []EducationEntry  `json:"education"`
	Skills     []SkillEntry      `json:"skills"`
	Interests  []InterestEntry   `json:"interests"`
}

// EnsureArrays replaces nil collections with empty slices so an
// encoded profile always carries JSON arrays, never null. Both the
// heuristic engine and the AI validator run it before handing a
// profile to callers.
func (p *Profile) EnsureArrays() {
	if p.Employment == nil {
		p.Employment = []EmploymentEntry{}
	}
	if p.Education == nil {
		p.Education = []EducationEntry{}
	}
	if p.Skills == nil {
		p.Skills = []SkillEntry{}
	}
	if p.Interests == nil {
		p.Interests = []InterestEntry{}
	}
	for i := range p.Employment {
		if p.Employment[i].Achievements == nil {
			p.Employment[i].Achievements = []string{}
		}
	}
	for i := range p.Education {
		if p.Education[i].Achievements == nil {
			p.Education[i].Achievements = []string{}
		}
	}
}

// ParseSource identifies which path produced the employment list.
type ParseSource string

// Parse sources.
const (
	SourceAI        ParseSource = "ai"
	SourceHeuristic ParseSource = "heuristic"
)

// ParseDiagnostics is observability metadata about a parse. It is not
// part of the functional contract.
type ParseDiagnostics struct {
	Source   ParseSource `json:"source"`
	Strategy string      `json:"strategy,omitempty"`
	AIError  string      `json:"ai_error,omitempty"`
}

// StoredProfile wraps a Profile with persistence metadata.
type StoredProfile struct {
	ID          string
	Profile     Profile
	Diagnostics ParseDiagnostics
	Filename    string
	CreatedAt   time.Time
}

// JobStatus enumerates async parse job states.
type JobStatus string

// Job states.
const (
	JobQueued     JobStatus = "queued"
	JobProcessing JobStatus = "processing"
	JobCompleted  JobStatus = "completed"
	JobFailed     JobStatus = "failed"
)

// ParseJob tracks an async parse request through the queue.
type ParseJob struct {
	ID        string
	Status    JobStatus
	Error     string
	ProfileID string
	Filename  string
	Text      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ParseTaskPayload is the queue message for async parsing.
type ParseTaskPayload struct {
	JobID    string `json:"job_id"`
	Filename string `json:"filename"`
	Text     string `json:"text"`
}

// Repositories (ports)

// ProfileRepository persists parsed profiles.
type ProfileRepository interface {
	Create(ctx Context, p StoredProfile) (string, error)
	Get(ctx Context, id string) (StoredProfile, error)
}

// JobRepository persists async parse jobs.
type JobRepository interface {
	Create(ctx Context, j ParseJob) (string, error)
	Get(ctx Context, id string) (ParseJob, error)
	UpdateStatus(ctx Context, id string, status JobStatus, errMsg *string) error
	SetProfileID(ctx Context, id, profileID string) error
}

// Queue (port)

// Queue enqueues async parse tasks.
type Queue interface {
	EnqueueParse(ctx Context, payload ParseTaskPayload) (string, error)
}

// AIDelegate (port)
// ExtractProfile offers raw resume text to an external structured-output
// service. Implementations must honor ctx deadlines; a non-nil error
// means the heuristic engine should take over.
type AIDelegate interface {
	ExtractProfile(ctx Context, text string) (Profile, error)
}

// TextExtractor (port)
// ExtractPath extracts plain text from a document file at path.
// Implementations may call external services (e.g., Tika).
type TextExtractor interface {
	ExtractPath(ctx Context, fileName, path string) (string, error)
}

// Context aliases context.Context so domain signatures stay compact.
type Context = context.Context
