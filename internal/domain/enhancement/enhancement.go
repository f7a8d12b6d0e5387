package enhancement

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Enhancement tracks one prompt from raw input to refined output.
// JSON columns hold the literal JSON null until their workflow step has run.
type Enhancement struct {
	ID                 string                                  `gorm:"column:id;type:varchar(36);primaryKey" json:"id"`
	OriginalPrompt     string                                  `gorm:"column:original_prompt;type:text;not null" json:"originalPrompt"`
	AnalysisResults    datatypes.JSONType[*AnalysisResult]     `gorm:"column:analysis_results" json:"analysisResults"`
	FollowUpQuestions  datatypes.JSONType[[]Question]          `gorm:"column:follow_up_questions" json:"followUpQuestions"`
	Answers            datatypes.JSONType[[]Answer]            `gorm:"column:answers" json:"answers"`
	EnhancedPrompt     *string                                 `gorm:"column:enhanced_prompt;type:text" json:"enhancedPrompt"`
	ImprovementSummary datatypes.JSONType[*ImprovementSummary] `gorm:"column:improvement_summary" json:"improvementSummary"`
	Completed          bool                                    `gorm:"column:completed;not null;default:false;index" json:"completed"`
	Saved              bool                                    `gorm:"column:saved;not null;default:false;index" json:"saved"`
	Title              *string                                 `gorm:"column:title;type:varchar(120)" json:"title"`
	Style              Style                                   `gorm:"column:style;type:varchar(20);not null;default:detailed" json:"style"`
	CreatedAt          time.Time                               `gorm:"column:created_at;not null;index" json:"createdAt"`
	UpdatedAt          time.Time                               `gorm:"column:updated_at;not null" json:"updatedAt"`
}

func (Enhancement) TableName() string { return "prompt_enhancements" }

func (e *Enhancement) BeforeCreate(tx *gorm.DB) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	now := Now()
	if e.CreatedAt.IsZero() {
		e.CreatedAt = now
	}
	if e.UpdatedAt.IsZero() {
		e.UpdatedAt = e.CreatedAt
	}
	if e.Style == "" {
		e.Style = StyleDetailed
	}
	return nil
}

// AfterFind pins loaded timestamps to UTC so every read serializes the same way.
func (e *Enhancement) AfterFind(tx *gorm.DB) error {
	e.CreatedAt = e.CreatedAt.UTC()
	e.UpdatedAt = e.UpdatedAt.UTC()
	return nil
}

// Now is the timestamp source for records, at the precision Postgres stores.
func Now() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}

// New returns a draft in the created state: every step field null, not
// completed, not saved.
func New(originalPrompt string, style Style) *Enhancement {
	if style == "" {
		style = StyleDetailed
	}
	return &Enhancement{
		OriginalPrompt:     originalPrompt,
		AnalysisResults:    datatypes.NewJSONType[*AnalysisResult](nil),
		FollowUpQuestions:  datatypes.NewJSONType[[]Question](nil),
		Answers:            datatypes.NewJSONType[[]Answer](nil),
		ImprovementSummary: datatypes.NewJSONType[*ImprovementSummary](nil),
		Style:              style,
	}
}

// State reports the workflow state derived from which fields are populated.
func (e *Enhancement) State() State {
	switch {
	case e.Completed:
		return StateCompleted
	case e.AnalysisResults.Data() != nil && e.FollowUpQuestions.Data() != nil:
		return StateAnalyzed
	default:
		return StateCreated
	}
}

type State string

const (
	StateCreated   State = "created"
	StateAnalyzed  State = "analyzed"
	StateCompleted State = "completed"
)

type AnalysisResult struct {
	Summary      string   `json:"summary"`
	Gaps         []string `json:"gaps"`
	Weaknesses   []string `json:"weaknesses"`
	ClarityScore float64  `json:"clarityScore"`
}

type ImprovementSummary struct {
	OriginalLength       int     `json:"originalLength"`
	EnhancedLength       int     `json:"enhancedLength"`
	ImprovementRatio     float64 `json:"improvementRatio"`
	ClarityScore         float64 `json:"clarityScore"`
	EnhancedClarityScore float64 `json:"enhancedClarityScore"`
}

type Style string

const (
	StyleDetailed       Style = "detailed"
	StyleCreative       Style = "creative"
	StyleTechnical      Style = "technical"
	StyleConversational Style = "conversational"
)

var Styles = []Style{StyleDetailed, StyleCreative, StyleTechnical, StyleConversational}

func (s Style) Valid() bool {
	switch s {
	case StyleDetailed, StyleCreative, StyleTechnical, StyleConversational:
		return true
	default:
		return false
	}
}

// ParseStyle treats "" as absent and rejects anything outside the four presets.
func ParseStyle(raw string) (Style, bool) {
	if raw == "" {
		return "", true
	}
	s := Style(raw)
	return s, s.Valid()
}
