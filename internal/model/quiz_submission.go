package model

import (
	"encoding/json"
	"fmt"
	"time"
)

// AnswerValue is a single given answer. Multiple choice answers carry the
// selected option id in Text, short answers the free text, and true/false
// answers the boolean in Bool (with IsBool set).
type AnswerValue struct {
	Text   string
	Bool   bool
	IsBool bool
}

func TextAnswer(s string) AnswerValue { return AnswerValue{Text: s} }
func BoolAnswer(b bool) AnswerValue   { return AnswerValue{Bool: b, IsBool: true} }

// Key renders the answer the way it is bucketed in answer distributions.
func (v AnswerValue) Key() string {
	if v.IsBool {
		return fmt.Sprintf("%t", v.Bool)
	}
	return v.Text
}

func (v AnswerValue) MarshalJSON() ([]byte, error) {
	if v.IsBool {
		return json.Marshal(v.Bool)
	}
	return json.Marshal(v.Text)
}

func (v *AnswerValue) UnmarshalJSON(data []byte) error {
	var b bool
	if err := json.Unmarshal(data, &b); err == nil {
		*v = AnswerValue{Bool: b, IsBool: true}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*v = AnswerValue{Text: s}
	return nil
}

// QuizSubmission is one immutable record of a completed attempt, keyed under
// quiz_submissions/{courseId}/{lessonId}/{submissionId}.
// swagger:model QuizSubmission
type QuizSubmission struct {
	ID             string                 `json:"id,omitempty"`
	StudentID      string                 `json:"studentId"`
	StudentName    string                 `json:"studentName,omitempty"`
	Answers        map[string]AnswerValue `json:"answers,omitempty"`
	CorrectAnswers map[string]bool        `json:"correctAnswers,omitempty"`
	Score          int                    `json:"score"` // 0-100
	MaxScore       int                    `json:"maxScore,omitempty"`
	TimeSpent      int                    `json:"timeSpent"` // seconds
	SubmittedAt    time.Time              `json:"submittedAt"`
}

// QuizAttempt is the per-attempt summary recorded in a student's analytics.
type QuizAttempt struct {
	SubmissionID string    `json:"submissionId"`
	Score        int       `json:"score"`
	TimeSpent    int       `json:"timeSpent"`
	Passed       bool      `json:"passed"`
	SubmittedAt  time.Time `json:"submittedAt"`
}

// UserQuizAnalytics is the per-student record derived from all their attempts,
// stored under quiz_analytics/{courseId}/{lessonId}/{studentId}. It is always
// reconstructible by replaying the attempt list.
// swagger:model UserQuizAnalytics
type UserQuizAnalytics struct {
	Attempts       []QuizAttempt `json:"attempts"`
	TotalAttempts  int           `json:"totalAttempts"`
	BestScore      int           `json:"bestScore"`
	AverageScore   int           `json:"averageScore"`
	Passed         bool          `json:"passed"`
	TotalTimeSpent int           `json:"totalTimeSpent"`
	LastAttemptAt  time.Time     `json:"lastAttemptAt"`
}

// BuildUserAnalytics replays attempts into a fresh analytics record.
func BuildUserAnalytics(attempts []QuizAttempt) UserQuizAnalytics {
	a := UserQuizAnalytics{Attempts: attempts, TotalAttempts: len(attempts)}
	if len(attempts) == 0 {
		a.Attempts = []QuizAttempt{}
		return a
	}
	sum := 0
	for _, at := range attempts {
		if at.Score > a.BestScore {
			a.BestScore = at.Score
		}
		if at.Passed {
			a.Passed = true
		}
		if at.SubmittedAt.After(a.LastAttemptAt) {
			a.LastAttemptAt = at.SubmittedAt
		}
		sum += at.Score
		a.TotalTimeSpent += at.TimeSpent
	}
	a.AverageScore = roundDiv(sum, len(attempts))
	return a
}

// roundDiv is round(a/b) for non-negative a and positive b.
func roundDiv(a, b int) int {
	return (a + b/2) / b
}
