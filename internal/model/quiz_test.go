package model_test

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"edulearn_backend/internal/model"
)

func gradeableQuiz() model.Quiz {
	q := model.DefaultQuiz()
	q.Questions = []model.QuizQuestion{
		{
			ID: "q1", Type: model.MultipleChoice, Question: "2+2?", Points: 1, Order: 1,
			Options: []model.QuizOption{
				{ID: "a", Text: "3"},
				{ID: "b", Text: "4", IsCorrect: true},
			},
		},
		{ID: "q2", Type: model.TrueFalse, Question: "The sky is blue.", Points: 1, Order: 2, CorrectBool: true},
		{ID: "q3", Type: model.ShortAnswer, Question: "Capital of France?", Points: 1, Order: 3, CorrectText: "Paris"},
	}
	return q
}

func TestQuizValidation(t *testing.T) {
	empty := model.DefaultQuiz()
	if err := empty.Validate(); !errors.Is(err, model.ErrEmptyQuiz) {
		t.Fatalf("expected ErrEmptyQuiz, got %v", err)
	}

	quiz := gradeableQuiz()
	if err := quiz.Validate(); err != nil {
		t.Fatalf("expected valid quiz, got %v", err)
	}
	if !quiz.IsGradeable() {
		t.Fatal("expected gradeable quiz")
	}

	cases := []struct {
		name   string
		mutate func(*model.Quiz)
		want   error
	}{
		{"blank question text", func(q *model.Quiz) { q.Questions[0].Question = "  " }, model.ErrEmptyQuestionText},
		{"too few options", func(q *model.Quiz) { q.Questions[0].Options = q.Questions[0].Options[:1] }, model.ErrTooFewOptions},
		{"no correct option", func(q *model.Quiz) { q.Questions[0].Options[1].IsCorrect = false }, model.ErrNoCorrectOption},
		{"two correct options", func(q *model.Quiz) { q.Questions[0].Options[0].IsCorrect = true }, model.ErrNoCorrectOption},
		{"empty model answer", func(q *model.Quiz) { q.Questions[2].CorrectText = " " }, model.ErrEmptyCorrectAnswer},
		{"unknown type", func(q *model.Quiz) { q.Questions[1].Type = "essay" }, model.ErrUnknownQuestionType},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			q := gradeableQuiz()
			tc.mutate(&q)
			if err := q.Validate(); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestQuizTooManyOptions(t *testing.T) {
	quiz := gradeableQuiz()
	for i := 0; i < 5; i++ {
		quiz.Questions[0].Options = append(quiz.Questions[0].Options, model.QuizOption{ID: string(rune('c' + i))})
	}
	if err := quiz.Validate(); !errors.Is(err, model.ErrTooManyOptions) {
		t.Fatalf("expected ErrTooManyOptions, got %v", err)
	}
}

func TestCloneIsIndependent(t *testing.T) {
	quiz := gradeableQuiz()
	clone := quiz.Clone()
	clone.Questions[0].Question = "changed"
	clone.Questions[0].Options[1].Text = "changed"

	if quiz.Questions[0].Question != "2+2?" {
		t.Fatal("clone mutation leaked into the original question")
	}
	if quiz.Questions[0].Options[1].Text != "4" {
		t.Fatal("clone mutation leaked into the original options")
	}
}

func TestSanitizedStripsAnswers(t *testing.T) {
	quiz := gradeableQuiz()
	quiz.Questions[0].Explanation = "because arithmetic"
	quiz.Settings.RequirePassword = true
	quiz.Settings.Password = "secret"

	clean := quiz.Sanitized()
	for _, q := range clean.Questions {
		if q.Explanation != "" || q.CorrectBool || q.CorrectText != "" {
			t.Fatalf("sanitized question still carries grading data: %+v", q)
		}
		for _, opt := range q.Options {
			if opt.IsCorrect {
				t.Fatalf("sanitized option still marked correct: %+v", opt)
			}
		}
	}
	if clean.Settings.Password != "" {
		t.Fatal("sanitized quiz still carries the password")
	}
	if quiz.Questions[1].CorrectBool != true {
		t.Fatal("sanitizing mutated the original")
	}
}

func TestQuestionCorrectAnswerJSON(t *testing.T) {
	tf := model.QuizQuestion{ID: "q1", Type: model.TrueFalse, Question: "x", CorrectBool: true}
	raw, err := json.Marshal(tf)
	if err != nil {
		t.Fatal(err)
	}
	var generic map[string]interface{}
	if err := json.Unmarshal(raw, &generic); err != nil {
		t.Fatal(err)
	}
	if v, ok := generic["correctAnswer"].(bool); !ok || !v {
		t.Fatalf("expected boolean correctAnswer, got %v", generic["correctAnswer"])
	}

	var back model.QuizQuestion
	if err := json.Unmarshal(raw, &back); err != nil {
		t.Fatal(err)
	}
	if !back.CorrectBool {
		t.Fatal("true_false correctAnswer lost in round trip")
	}

	sa := model.QuizQuestion{ID: "q2", Type: model.ShortAnswer, Question: "x", CorrectText: "Paris"}
	raw, err = json.Marshal(sa)
	if err != nil {
		t.Fatal(err)
	}
	if err := json.Unmarshal(raw, &back); err != nil {
		t.Fatal(err)
	}
	if back.CorrectText != "Paris" {
		t.Fatalf("short_answer correctAnswer lost, got %q", back.CorrectText)
	}
}

func TestAnswerValueJSON(t *testing.T) {
	var v model.AnswerValue
	if err := json.Unmarshal([]byte(`true`), &v); err != nil {
		t.Fatal(err)
	}
	if !v.IsBool || !v.Bool || v.Key() != "true" {
		t.Fatalf("boolean answer mis-decoded: %+v", v)
	}

	if err := json.Unmarshal([]byte(`"opt-2"`), &v); err != nil {
		t.Fatal(err)
	}
	if v.IsBool || v.Text != "opt-2" || v.Key() != "opt-2" {
		t.Fatalf("string answer mis-decoded: %+v", v)
	}

	raw, err := json.Marshal(model.BoolAnswer(false))
	if err != nil {
		t.Fatal(err)
	}
	if string(raw) != "false" {
		t.Fatalf("expected bare false, got %s", raw)
	}
}

func TestBuildUserAnalytics(t *testing.T) {
	empty := model.BuildUserAnalytics(nil)
	if empty.TotalAttempts != 0 || empty.Attempts == nil || empty.Passed {
		t.Fatalf("empty analytics not zeroed: %+v", empty)
	}

	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	attempts := []model.QuizAttempt{
		{SubmissionID: "s1", Score: 60, TimeSpent: 400, Passed: false, SubmittedAt: base},
		{SubmissionID: "s2", Score: 90, TimeSpent: 300, Passed: true, SubmittedAt: base.Add(time.Hour)},
		{SubmissionID: "s3", Score: 75, TimeSpent: 350, Passed: true, SubmittedAt: base.Add(2 * time.Hour)},
	}
	a := model.BuildUserAnalytics(attempts)
	if a.TotalAttempts != 3 {
		t.Fatalf("totalAttempts = %d", a.TotalAttempts)
	}
	if a.BestScore != 90 {
		t.Fatalf("bestScore = %d", a.BestScore)
	}
	if a.AverageScore != 75 {
		t.Fatalf("averageScore = %d", a.AverageScore)
	}
	if !a.Passed {
		t.Fatal("expected passed once any attempt passed")
	}
	if a.TotalTimeSpent != 1050 {
		t.Fatalf("totalTimeSpent = %d", a.TotalTimeSpent)
	}
	if !a.LastAttemptAt.Equal(base.Add(2 * time.Hour)) {
		t.Fatalf("lastAttemptAt = %v", a.LastAttemptAt)
	}
}
