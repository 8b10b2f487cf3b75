package service

import (
	"errors"
	"math/rand"
	"strings"
	"time"

	"edulearn_backend/internal/model"
)

type SessionState string

const (
	SessionInProgress SessionState = "in_progress"
	SessionSubmitted  SessionState = "submitted"
)

var (
	ErrSessionFinished   = errors.New("quiz session already submitted")
	ErrNotOnLastQuestion = errors.New("finish is only allowed on the last question")
)

// QuizScore is the outcome of grading one set of answers.
type QuizScore struct {
	Correct     int             `json:"correct"`
	Total       int             `json:"total"`
	Percentage  int             `json:"percentage"`
	Passed      bool            `json:"passed"`
	PerQuestion map[string]bool `json:"perQuestion"`
}

// QuizSession walks a student through one attempt. Navigation is linear with
// clamped bounds; answers can be revised until Finish. The session holds its
// own question order so a randomized attempt stays stable for its lifetime.
type QuizSession struct {
	quiz      model.Quiz
	questions []model.QuizQuestion
	answers   map[string]model.AnswerValue
	index     int
	state     SessionState
	startedAt time.Time
}

// NewQuizSession starts an attempt against quiz. The quiz must be gradeable;
// when RandomizeQuestions is set the presentation order is shuffled.
func NewQuizSession(quiz model.Quiz) (*QuizSession, error) {
	if err := quiz.Validate(); err != nil {
		return nil, err
	}
	q := quiz.Clone()
	questions := make([]model.QuizQuestion, len(q.Questions))
	copy(questions, q.Questions)
	if q.RandomizeQuestions {
		rand.Shuffle(len(questions), func(i, j int) {
			questions[i], questions[j] = questions[j], questions[i]
		})
	}
	return &QuizSession{
		quiz:      q,
		questions: questions,
		answers:   make(map[string]model.AnswerValue),
		state:     SessionInProgress,
		startedAt: time.Now(),
	}, nil
}

func (s *QuizSession) State() SessionState { return s.state }

// Current returns the question at the cursor.
func (s *QuizSession) Current() model.QuizQuestion {
	return s.questions[s.index]
}

func (s *QuizSession) Index() int { return s.index }

func (s *QuizSession) QuestionCount() int { return len(s.questions) }

// Progress is answered questions out of the total, as a percentage.
func (s *QuizSession) Progress() int {
	return roundPercent(len(s.answers), len(s.questions))
}

// Answer records or revises the answer for a question.
func (s *QuizSession) Answer(questionID string, value model.AnswerValue) error {
	if s.state == SessionSubmitted {
		return ErrSessionFinished
	}
	if s.quiz.Question(questionID) == nil {
		return ErrQuestionNotFound
	}
	s.answers[questionID] = value
	return nil
}

// Next advances the cursor, clamped at the last question.
func (s *QuizSession) Next() error {
	if s.state == SessionSubmitted {
		return ErrSessionFinished
	}
	if s.index < len(s.questions)-1 {
		s.index++
	}
	return nil
}

// Previous moves the cursor back, clamped at the first question.
func (s *QuizSession) Previous() error {
	if s.state == SessionSubmitted {
		return ErrSessionFinished
	}
	if s.index > 0 {
		s.index--
	}
	return nil
}

// Finish grades the attempt and freezes the session. It is only valid on the
// last question; unanswered questions simply count as wrong.
func (s *QuizSession) Finish() (QuizScore, error) {
	if s.state == SessionSubmitted {
		return QuizScore{}, ErrSessionFinished
	}
	if s.index != len(s.questions)-1 {
		return QuizScore{}, ErrNotOnLastQuestion
	}
	s.state = SessionSubmitted
	return CalculateScore(s.quiz, s.answers), nil
}

// Answers returns a copy of the given answers so far.
func (s *QuizSession) Answers() map[string]model.AnswerValue {
	out := make(map[string]model.AnswerValue, len(s.answers))
	for k, v := range s.answers {
		out[k] = v
	}
	return out
}

// TimeSpent is the elapsed attempt duration in whole seconds.
func (s *QuizSession) TimeSpent() int {
	return int(time.Since(s.startedAt) / time.Second)
}

// BuildSubmission packages the finished attempt as a submission record.
// SubmittedAt is left for the recording layer to stamp.
func (s *QuizSession) BuildSubmission(studentID, studentName string, score QuizScore) model.QuizSubmission {
	return model.QuizSubmission{
		StudentID:      studentID,
		StudentName:    studentName,
		Answers:        s.Answers(),
		CorrectAnswers: score.PerQuestion,
		Score:          score.Percentage,
		MaxScore:       100,
		TimeSpent:      s.TimeSpent(),
	}
}

// CalculateScore grades answers against quiz. Every question weighs the same:
// the percentage is round(100 * correct / total). Short answers compare
// case-insensitively after trimming whitespace.
func CalculateScore(quiz model.Quiz, answers map[string]model.AnswerValue) QuizScore {
	score := QuizScore{
		Total:       len(quiz.Questions),
		PerQuestion: make(map[string]bool, len(quiz.Questions)),
	}
	for i := range quiz.Questions {
		q := &quiz.Questions[i]
		given, ok := answers[q.ID]
		correct := ok && isCorrect(q, given)
		score.PerQuestion[q.ID] = correct
		if correct {
			score.Correct++
		}
	}
	if score.Total > 0 {
		score.Percentage = roundPercent(score.Correct, score.Total)
	}
	score.Passed = score.Percentage >= quiz.PassingScore
	return score
}

func isCorrect(q *model.QuizQuestion, given model.AnswerValue) bool {
	switch q.Type {
	case model.MultipleChoice:
		opt := q.CorrectOption()
		return opt != nil && !given.IsBool && given.Text == opt.ID
	case model.TrueFalse:
		return given.IsBool && given.Bool == q.CorrectBool
	case model.ShortAnswer:
		if given.IsBool {
			return false
		}
		want := strings.ToLower(strings.TrimSpace(q.CorrectText))
		got := strings.ToLower(strings.TrimSpace(given.Text))
		return want != "" && want == got
	}
	return false
}

// roundPercent is round(100 * part / whole); zero when whole is zero.
func roundPercent(part, whole int) int {
	if whole == 0 {
		return 0
	}
	return (part*100 + whole/2) / whole
}
