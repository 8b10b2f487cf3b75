package service

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"edulearn_backend/internal/model"
)

const editorDebounce = 100 * time.Millisecond

var (
	ErrQuestionNotFound  = errors.New("question not found")
	ErrOptionNotFound    = errors.New("option not found")
	ErrNotMultipleChoice = errors.New("operation only applies to multiple choice questions")
	ErrDeletionCancelled = errors.New("deletion cancelled")
)

type MoveDirection string

const (
	MoveUp   MoveDirection = "up"
	MoveDown MoveDirection = "down"
)

// QuestionPatch is a partial question update; nil fields are left untouched.
// Order is only changed when the patch sets it explicitly.
type QuestionPatch struct {
	Question    *string
	Explanation *string
	Points      *int
	Required    *bool
	Order       *int
	Options     *[]model.QuizOption
	CorrectBool *bool
	CorrectText *string
}

// QuizPatch is a partial update of quiz-level settings.
type QuizPatch struct {
	TimeLimit          *int
	MaxAttempts        *int
	PassingScore       *int
	ShowCorrectAnswers *bool
	AllowReview        *bool
	RandomizeQuestions *bool
	Description        *string
	Instructions       *string
	ShowProgress       *bool
	RequirePassword    *bool
	Password           *string
}

// QuizEditor drives interactive quiz authoring for one instructor session.
// Every mutation replaces the held quiz with a fresh immutable value and
// schedules the change callback on a coalescing timer, so a burst of edits
// results in a single save. The in-memory value always reflects the latest
// edit immediately.
//
// The editor is meant for a single goroutine (one authoring client); the
// mutex only guards the value against the timer goroutine.
type QuizEditor struct {
	mu       sync.Mutex
	quiz     model.Quiz
	onChange func(model.Quiz)
	confirm  func(prompt string) bool
	timer    *time.Timer
	debounce time.Duration
	closed   bool
}

// NewQuizEditor starts editing from initial (or a default empty quiz when
// nil). onChange receives the debounced edited value; confirm guards
// irreversible actions and may be nil to skip confirmation.
func NewQuizEditor(initial *model.Quiz, onChange func(model.Quiz), confirm func(prompt string) bool) *QuizEditor {
	quiz := model.DefaultQuiz()
	if initial != nil {
		quiz = initial.Clone()
	}
	return &QuizEditor{
		quiz:     quiz,
		onChange: onChange,
		confirm:  confirm,
		debounce: editorDebounce,
	}
}

// Quiz returns a copy of the current value.
func (e *QuizEditor) Quiz() model.Quiz {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.quiz.Clone()
}

// Validate reports whether the current value could be published.
func (e *QuizEditor) Validate() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.quiz.Validate()
}

// AddQuestion appends a question of the given type with authoring defaults
// and assigns it the next order number.
func (e *QuizEditor) AddQuestion(t model.QuestionType) (model.QuizQuestion, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	q := model.QuizQuestion{
		ID:       model.GenerateUUID(),
		Type:     t,
		Points:   1,
		Required: true,
		Order:    len(e.quiz.Questions) + 1,
	}
	switch t {
	case model.MultipleChoice:
		q.Options = []model.QuizOption{
			{ID: "1"}, {ID: "2"}, {ID: "3"}, {ID: "4"},
		}
	case model.TrueFalse:
		q.CorrectBool = true
	case model.ShortAnswer:
		// empty model answer until the author fills it in
	default:
		return model.QuizQuestion{}, fmt.Errorf("%w: %q", model.ErrUnknownQuestionType, t)
	}

	next := e.quiz.Clone()
	next.Questions = append(next.Questions, q)
	e.commitLocked(next)
	return q, nil
}

// UpdateQuestion merges the patch into the matching question.
func (e *QuizEditor) UpdateQuestion(id string, patch QuestionPatch) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	next := e.quiz.Clone()
	q := next.Question(id)
	if q == nil {
		return ErrQuestionNotFound
	}

	if patch.Question != nil {
		q.Question = *patch.Question
	}
	if patch.Explanation != nil {
		q.Explanation = *patch.Explanation
	}
	if patch.Points != nil && *patch.Points >= 1 {
		q.Points = *patch.Points
	}
	if patch.Required != nil {
		q.Required = *patch.Required
	}
	if patch.Order != nil {
		q.Order = *patch.Order
	}
	if patch.Options != nil {
		q.Options = append([]model.QuizOption(nil), (*patch.Options)...)
	}
	if patch.CorrectBool != nil {
		q.CorrectBool = *patch.CorrectBool
	}
	if patch.CorrectText != nil {
		q.CorrectText = *patch.CorrectText
	}

	e.commitLocked(next)
	return nil
}

// DeleteQuestion removes a question after confirmation. Remaining questions
// keep their order numbers; renumbering happens on the next MoveQuestion.
func (e *QuizEditor) DeleteQuestion(id string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	found := false
	next := e.quiz.Clone()
	kept := next.Questions[:0]
	for _, q := range next.Questions {
		if q.ID == id {
			found = true
			continue
		}
		kept = append(kept, q)
	}
	if !found {
		return ErrQuestionNotFound
	}
	if e.confirm != nil && !e.confirm("Delete this question?") {
		return ErrDeletionCancelled
	}
	next.Questions = kept
	e.commitLocked(next)
	return nil
}

// MoveQuestion swaps the question with its neighbour in the given direction
// and renumbers the whole sequence 1-based. Moving past either end is a no-op.
func (e *QuizEditor) MoveQuestion(id string, direction MoveDirection) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	next := e.quiz.Clone()
	idx := -1
	for i := range next.Questions {
		if next.Questions[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return ErrQuestionNotFound
	}

	switch direction {
	case MoveUp:
		if idx == 0 {
			return nil
		}
		next.Questions[idx], next.Questions[idx-1] = next.Questions[idx-1], next.Questions[idx]
	case MoveDown:
		if idx == len(next.Questions)-1 {
			return nil
		}
		next.Questions[idx], next.Questions[idx+1] = next.Questions[idx+1], next.Questions[idx]
	default:
		return fmt.Errorf("unknown move direction %q", direction)
	}

	for i := range next.Questions {
		next.Questions[i].Order = i + 1
	}
	e.commitLocked(next)
	return nil
}

// AddOption appends an empty option to a multiple choice question.
func (e *QuizEditor) AddOption(questionID string) (model.QuizOption, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	next := e.quiz.Clone()
	q := next.Question(questionID)
	if q == nil {
		return model.QuizOption{}, ErrQuestionNotFound
	}
	if q.Type != model.MultipleChoice {
		return model.QuizOption{}, ErrNotMultipleChoice
	}
	if len(q.Options) >= model.MaxOptions {
		return model.QuizOption{}, model.ErrTooManyOptions
	}

	opt := model.QuizOption{ID: model.GenerateUUID()}
	q.Options = append(q.Options, opt)
	e.commitLocked(next)
	return opt, nil
}

// RemoveOption deletes an option; dropping below the minimum is rejected.
func (e *QuizEditor) RemoveOption(questionID, optionID string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	next := e.quiz.Clone()
	q := next.Question(questionID)
	if q == nil {
		return ErrQuestionNotFound
	}
	if q.Type != model.MultipleChoice {
		return ErrNotMultipleChoice
	}
	if len(q.Options) <= model.MinOptions {
		return model.ErrTooFewOptions
	}

	kept := q.Options[:0]
	found := false
	for _, opt := range q.Options {
		if opt.ID == optionID {
			found = true
			continue
		}
		kept = append(kept, opt)
	}
	if !found {
		return ErrOptionNotFound
	}
	q.Options = kept
	e.commitLocked(next)
	return nil
}

// SetCorrectOption marks exactly one option correct, clearing all others.
func (e *QuizEditor) SetCorrectOption(questionID, optionID string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	next := e.quiz.Clone()
	q := next.Question(questionID)
	if q == nil {
		return ErrQuestionNotFound
	}
	if q.Type != model.MultipleChoice {
		return ErrNotMultipleChoice
	}

	found := false
	for i := range q.Options {
		correct := q.Options[i].ID == optionID
		q.Options[i].IsCorrect = correct
		if correct {
			found = true
		}
	}
	if !found {
		return ErrOptionNotFound
	}
	e.commitLocked(next)
	return nil
}

// UpdateOptionText edits one option's label.
func (e *QuizEditor) UpdateOptionText(questionID, optionID, text string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	next := e.quiz.Clone()
	q := next.Question(questionID)
	if q == nil {
		return ErrQuestionNotFound
	}
	for i := range q.Options {
		if q.Options[i].ID == optionID {
			q.Options[i].Text = text
			e.commitLocked(next)
			return nil
		}
	}
	return ErrOptionNotFound
}

// UpdateQuiz merges quiz-level setting changes.
func (e *QuizEditor) UpdateQuiz(patch QuizPatch) {
	e.mu.Lock()
	defer e.mu.Unlock()

	next := e.quiz.Clone()
	if patch.TimeLimit != nil && *patch.TimeLimit >= 1 {
		next.TimeLimit = *patch.TimeLimit
	}
	if patch.MaxAttempts != nil && *patch.MaxAttempts >= 1 {
		next.MaxAttempts = *patch.MaxAttempts
	}
	if patch.PassingScore != nil && *patch.PassingScore >= 0 && *patch.PassingScore <= 100 {
		next.PassingScore = *patch.PassingScore
	}
	if patch.ShowCorrectAnswers != nil {
		next.ShowCorrectAnswers = *patch.ShowCorrectAnswers
	}
	if patch.AllowReview != nil {
		next.AllowReview = *patch.AllowReview
	}
	if patch.RandomizeQuestions != nil {
		next.RandomizeQuestions = *patch.RandomizeQuestions
	}
	if patch.Description != nil {
		next.Settings.Description = *patch.Description
	}
	if patch.Instructions != nil {
		next.Settings.Instructions = *patch.Instructions
	}
	if patch.ShowProgress != nil {
		next.Settings.ShowProgress = *patch.ShowProgress
	}
	if patch.RequirePassword != nil {
		next.Settings.RequirePassword = *patch.RequirePassword
	}
	if patch.Password != nil {
		next.Settings.Password = *patch.Password
	}
	e.commitLocked(next)
}

// Flush delivers any pending change immediately.
func (e *QuizEditor) Flush() {
	e.mu.Lock()
	if e.timer != nil {
		e.timer.Stop()
		e.timer = nil
	}
	closed := e.closed
	quiz := e.quiz.Clone()
	fn := e.onChange
	e.mu.Unlock()

	if !closed && fn != nil {
		fn(quiz)
	}
}

// Close cancels any pending change delivery. The timer is stopped rather than
// allowed to fire against a torn-down consumer.
func (e *QuizEditor) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.closed = true
	if e.timer != nil {
		e.timer.Stop()
		e.timer = nil
	}
}

// commitLocked swaps in the new value and (re)arms the debounce timer.
func (e *QuizEditor) commitLocked(next model.Quiz) {
	e.quiz = next
	if e.closed || e.onChange == nil {
		return
	}
	if e.timer != nil {
		e.timer.Stop()
	}
	e.timer = time.AfterFunc(e.debounce, func() {
		e.mu.Lock()
		if e.closed {
			e.mu.Unlock()
			return
		}
		quiz := e.quiz.Clone()
		fn := e.onChange
		e.mu.Unlock()
		fn(quiz)
	})
}
