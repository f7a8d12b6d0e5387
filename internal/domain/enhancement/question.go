package enhancement

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

type QuestionType string

const (
	QuestionText     QuestionType = "text"
	QuestionChoice   QuestionType = "choice"
	QuestionScale    QuestionType = "scale"
	QuestionCheckbox QuestionType = "checkbox"
)

func (t QuestionType) Valid() bool {
	switch t {
	case QuestionText, QuestionChoice, QuestionScale, QuestionCheckbox:
		return true
	default:
		return false
	}
}

// HasOptions reports whether questions of this type carry an option list.
func (t QuestionType) HasOptions() bool {
	return t == QuestionChoice || t == QuestionCheckbox
}

type Question struct {
	ID       string       `json:"id"`
	Question string       `json:"question"`
	Type     QuestionType `json:"type"`
	Options  []string     `json:"options,omitempty"`
	Required bool         `json:"required"`
}

type Answer struct {
	QuestionID string      `json:"questionId" validate:"required"`
	Answer     AnswerValue `json:"answer"`
}

type AnswerKind int

const (
	AnswerNone AnswerKind = iota
	AnswerString
	AnswerList
	AnswerNumber
)

// AnswerValue is a string, a list of strings, or a number.
type AnswerValue struct {
	kind AnswerKind
	str  string
	list []string
	num  float64
}

func StringAnswer(s string) AnswerValue { return AnswerValue{kind: AnswerString, str: s} }
func ListAnswer(l []string) AnswerValue {
	return AnswerValue{kind: AnswerList, list: append([]string{}, l...)}
}
func NumberAnswer(n float64) AnswerValue { return AnswerValue{kind: AnswerNumber, num: n} }
func (v AnswerValue) Kind() AnswerKind   { return v.kind }
func (v AnswerValue) String() string     { return v.str }
func (v AnswerValue) List() []string     { return v.list }
func (v AnswerValue) Number() float64    { return v.num }
func (v AnswerValue) IsZero() bool       { return v.kind == AnswerNone }

// Text renders the value the way it is shown to the model: lists joined with
// ", " and numbers without trailing zeros.
func (v AnswerValue) Text() string {
	switch v.kind {
	case AnswerString:
		return v.str
	case AnswerList:
		return strings.Join(v.list, ", ")
	case AnswerNumber:
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	default:
		return ""
	}
}

func (v AnswerValue) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case AnswerString:
		return json.Marshal(v.str)
	case AnswerList:
		if v.list == nil {
			return []byte("[]"), nil
		}
		return json.Marshal(v.list)
	case AnswerNumber:
		return json.Marshal(v.num)
	default:
		return []byte("null"), nil
	}
}

func (v *AnswerValue) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*v = AnswerValue{}
		return nil
	}
	switch trimmed[0] {
	case '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return err
		}
		*v = StringAnswer(s)
		return nil
	case '[':
		var l []string
		if err := json.Unmarshal(trimmed, &l); err != nil {
			return fmt.Errorf("answer list must contain only strings")
		}
		*v = ListAnswer(l)
		return nil
	default:
		var n float64
		if err := json.Unmarshal(trimmed, &n); err != nil {
			return fmt.Errorf("answer must be a string, a list of strings, or a number")
		}
		*v = NumberAnswer(n)
		return nil
	}
}

// Accepts reports whether the value has the shape required by a question type.
func (t QuestionType) Accepts(v AnswerValue) bool {
	switch t {
	case QuestionText, QuestionChoice:
		return v.kind == AnswerString
	case QuestionCheckbox:
		return v.kind == AnswerList
	case QuestionScale:
		return v.kind == AnswerNumber
	default:
		return false
	}
}
