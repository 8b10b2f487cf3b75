package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

type QuestionType string

const (
	MultipleChoice QuestionType = "multiple_choice"
	TrueFalse      QuestionType = "true_false"
	ShortAnswer    QuestionType = "short_answer"
)

const (
	MinOptions = 2
	MaxOptions = 6
)

var (
	ErrEmptyQuiz           = errors.New("quiz has no questions")
	ErrEmptyQuestionText   = errors.New("question text is required")
	ErrTooFewOptions       = errors.New("multiple choice questions need at least 2 options")
	ErrTooManyOptions      = errors.New("multiple choice questions allow at most 6 options")
	ErrNoCorrectOption     = errors.New("exactly one option must be marked correct")
	ErrEmptyCorrectAnswer  = errors.New("a model answer is required")
	ErrUnknownQuestionType = errors.New("unknown question type")
)

// QuizOption is a single multiple choice answer option.
type QuizOption struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	IsCorrect bool   `json:"isCorrect"`
}

// QuizQuestion is a tagged variant over Type. Only the fields relevant to the
// variant carry meaning: Options for multiple_choice, CorrectBool for
// true_false, CorrectText for short_answer.
type QuizQuestion struct {
	ID          string       `json:"id"`
	Type        QuestionType `json:"type"`
	Question    string       `json:"question"`
	Explanation string       `json:"explanation,omitempty"`
	Points      int          `json:"points"`
	Required    bool         `json:"required"`
	Order       int          `json:"order"`
	Options     []QuizOption `json:"options,omitempty"`
	CorrectBool bool         `json:"-"`
	CorrectText string       `json:"-"`
}

// questionJSON mirrors the stored shape, where correctAnswer is polymorphic
// (boolean for true_false, string for short_answer).
type questionJSON struct {
	ID            string          `json:"id"`
	Type          QuestionType    `json:"type"`
	Question      string          `json:"question"`
	Explanation   string          `json:"explanation,omitempty"`
	Points        int             `json:"points"`
	Required      bool            `json:"required"`
	Order         int             `json:"order"`
	Options       []QuizOption    `json:"options,omitempty"`
	CorrectAnswer json.RawMessage `json:"correctAnswer,omitempty"`
}

func (q QuizQuestion) MarshalJSON() ([]byte, error) {
	out := questionJSON{
		ID:          q.ID,
		Type:        q.Type,
		Question:    q.Question,
		Explanation: q.Explanation,
		Points:      q.Points,
		Required:    q.Required,
		Order:       q.Order,
		Options:     q.Options,
	}
	switch q.Type {
	case TrueFalse:
		raw, _ := json.Marshal(q.CorrectBool)
		out.CorrectAnswer = raw
	case ShortAnswer:
		raw, _ := json.Marshal(q.CorrectText)
		out.CorrectAnswer = raw
	}
	return json.Marshal(out)
}

func (q *QuizQuestion) UnmarshalJSON(data []byte) error {
	var in questionJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	q.ID = in.ID
	q.Type = in.Type
	q.Question = in.Question
	q.Explanation = in.Explanation
	q.Points = in.Points
	q.Required = in.Required
	q.Order = in.Order
	q.Options = in.Options
	q.CorrectBool = false
	q.CorrectText = ""
	if len(in.CorrectAnswer) == 0 {
		return nil
	}
	switch in.Type {
	case TrueFalse:
		return json.Unmarshal(in.CorrectAnswer, &q.CorrectBool)
	case ShortAnswer:
		return json.Unmarshal(in.CorrectAnswer, &q.CorrectText)
	}
	return nil
}

// CorrectOption returns the option marked correct, or nil.
func (q *QuizQuestion) CorrectOption() *QuizOption {
	for i := range q.Options {
		if q.Options[i].IsCorrect {
			return &q.Options[i]
		}
	}
	return nil
}

// Validate reports whether the question is gradeable.
func (q *QuizQuestion) Validate() error {
	if strings.TrimSpace(q.Question) == "" {
		return ErrEmptyQuestionText
	}
	switch q.Type {
	case MultipleChoice:
		if len(q.Options) < MinOptions {
			return ErrTooFewOptions
		}
		if len(q.Options) > MaxOptions {
			return ErrTooManyOptions
		}
		correct := 0
		for _, opt := range q.Options {
			if opt.IsCorrect {
				correct++
			}
		}
		if correct != 1 {
			return ErrNoCorrectOption
		}
	case TrueFalse:
		// any boolean value is acceptable
	case ShortAnswer:
		if strings.TrimSpace(q.CorrectText) == "" {
			return ErrEmptyCorrectAnswer
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownQuestionType, q.Type)
	}
	return nil
}

type QuizSettings struct {
	Description     string `json:"description"`
	Instructions    string `json:"instructions"`
	ShowProgress    bool   `json:"showProgress"`
	RequirePassword bool   `json:"requirePassword"`
	Password        string `json:"password,omitempty"`
}

// Quiz is the authored definition embedded in a lesson.
// swagger:model Quiz
type Quiz struct {
	Questions          []QuizQuestion `json:"questions"`
	TimeLimit          int            `json:"timeLimit"`    // minutes
	MaxAttempts        int            `json:"maxAttempts"`
	PassingScore       int            `json:"passingScore"` // percent
	ShowCorrectAnswers bool           `json:"showCorrectAnswers"`
	AllowReview        bool           `json:"allowReview"`
	RandomizeQuestions bool           `json:"randomizeQuestions"`
	Settings           QuizSettings   `json:"settings"`
}

// DefaultQuiz returns an empty quiz with the authoring defaults.
func DefaultQuiz() Quiz {
	return Quiz{
		Questions:          []QuizQuestion{},
		TimeLimit:          30,
		MaxAttempts:        3,
		PassingScore:       70,
		ShowCorrectAnswers: true,
		AllowReview:        true,
		Settings: QuizSettings{
			Instructions: "Read each question carefully and choose the correct answer.",
			ShowProgress: true,
		},
	}
}

// Validate returns the first validation failure, if any. A quiz with zero
// questions is incomplete and never gradeable.
func (qz *Quiz) Validate() error {
	if len(qz.Questions) == 0 {
		return ErrEmptyQuiz
	}
	for i := range qz.Questions {
		if err := qz.Questions[i].Validate(); err != nil {
			return fmt.Errorf("question %d: %w", i+1, err)
		}
	}
	return nil
}

func (qz *Quiz) IsGradeable() bool {
	return qz.Validate() == nil
}

// Question looks up a question by id.
func (qz *Quiz) Question(id string) *QuizQuestion {
	for i := range qz.Questions {
		if qz.Questions[i].ID == id {
			return &qz.Questions[i]
		}
	}
	return nil
}

// Clone deep-copies the quiz so edits never alias a previously published value.
func (qz Quiz) Clone() Quiz {
	out := qz
	out.Questions = make([]QuizQuestion, len(qz.Questions))
	copy(out.Questions, qz.Questions)
	for i := range out.Questions {
		if qz.Questions[i].Options != nil {
			opts := make([]QuizOption, len(qz.Questions[i].Options))
			copy(opts, qz.Questions[i].Options)
			out.Questions[i].Options = opts
		}
	}
	return out
}

// Sanitized strips grading data so student clients never receive answers.
func (qz Quiz) Sanitized() Quiz {
	out := qz.Clone()
	for i := range out.Questions {
		out.Questions[i].Explanation = ""
		out.Questions[i].CorrectBool = false
		out.Questions[i].CorrectText = ""
		for j := range out.Questions[i].Options {
			out.Questions[i].Options[j].IsCorrect = false
		}
	}
	out.Settings.Password = ""
	return out
}
