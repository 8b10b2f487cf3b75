package service

import (
	"errors"
	"sync"
	"testing"
	"time"

	"edulearn_backend/internal/model"
)

func TestEditorAddQuestionDefaults(t *testing.T) {
	e := NewQuizEditor(nil, nil, nil)

	mc, err := e.AddQuestion(model.MultipleChoice)
	if err != nil {
		t.Fatal(err)
	}
	if len(mc.Options) != 4 {
		t.Fatalf("new multiple choice question has %d options", len(mc.Options))
	}
	if mc.Points != 1 || !mc.Required || mc.Order != 1 {
		t.Fatalf("authoring defaults wrong: %+v", mc)
	}

	tf, err := e.AddQuestion(model.TrueFalse)
	if err != nil {
		t.Fatal(err)
	}
	if !tf.CorrectBool {
		t.Fatal("true_false should default to true")
	}
	if tf.Order != 2 {
		t.Fatalf("second question order = %d", tf.Order)
	}

	if _, err := e.AddQuestion("essay"); !errors.Is(err, model.ErrUnknownQuestionType) {
		t.Fatalf("expected ErrUnknownQuestionType, got %v", err)
	}
}

func TestEditorOptionBounds(t *testing.T) {
	e := NewQuizEditor(nil, nil, nil)
	q, _ := e.AddQuestion(model.MultipleChoice)

	// 4 defaults, room for 2 more
	for i := 0; i < 2; i++ {
		if _, err := e.AddOption(q.ID); err != nil {
			t.Fatal(err)
		}
	}
	if _, err := e.AddOption(q.ID); !errors.Is(err, model.ErrTooManyOptions) {
		t.Fatalf("expected ErrTooManyOptions, got %v", err)
	}

	quiz := e.Quiz()
	opts := quiz.Question(q.ID).Options
	for len(opts) > model.MinOptions {
		if err := e.RemoveOption(q.ID, opts[len(opts)-1].ID); err != nil {
			t.Fatal(err)
		}
		quiz = e.Quiz()
		opts = quiz.Question(q.ID).Options
	}
	if err := e.RemoveOption(q.ID, opts[0].ID); !errors.Is(err, model.ErrTooFewOptions) {
		t.Fatalf("expected ErrTooFewOptions, got %v", err)
	}

	tf, _ := e.AddQuestion(model.TrueFalse)
	if _, err := e.AddOption(tf.ID); !errors.Is(err, ErrNotMultipleChoice) {
		t.Fatalf("expected ErrNotMultipleChoice, got %v", err)
	}
}

func TestEditorSetCorrectOptionIsExclusive(t *testing.T) {
	e := NewQuizEditor(nil, nil, nil)
	q, _ := e.AddQuestion(model.MultipleChoice)

	if err := e.SetCorrectOption(q.ID, "1"); err != nil {
		t.Fatal(err)
	}
	if err := e.SetCorrectOption(q.ID, "3"); err != nil {
		t.Fatal(err)
	}

	quiz := e.Quiz()
	got := quiz.Question(q.ID)
	for _, opt := range got.Options {
		if opt.ID == "3" && !opt.IsCorrect {
			t.Fatal("newly chosen option not marked correct")
		}
		if opt.ID != "3" && opt.IsCorrect {
			t.Fatalf("option %s still marked correct", opt.ID)
		}
	}

	if err := e.SetCorrectOption(q.ID, "nope"); !errors.Is(err, ErrOptionNotFound) {
		t.Fatalf("expected ErrOptionNotFound, got %v", err)
	}
}

func TestEditorMoveQuestionRenumbers(t *testing.T) {
	e := NewQuizEditor(nil, nil, nil)
	a, _ := e.AddQuestion(model.TrueFalse)
	b, _ := e.AddQuestion(model.TrueFalse)
	c, _ := e.AddQuestion(model.TrueFalse)

	if err := e.MoveQuestion(c.ID, MoveUp); err != nil {
		t.Fatal(err)
	}
	quiz := e.Quiz()
	wantOrder := []string{a.ID, c.ID, b.ID}
	for i, q := range quiz.Questions {
		if q.ID != wantOrder[i] {
			t.Fatalf("position %d = %s, want %s", i, q.ID, wantOrder[i])
		}
		if q.Order != i+1 {
			t.Fatalf("question %s order = %d, want %d", q.ID, q.Order, i+1)
		}
	}

	// moving past either end is a no-op
	if err := e.MoveQuestion(a.ID, MoveUp); err != nil {
		t.Fatal(err)
	}
	if err := e.MoveQuestion(b.ID, MoveDown); err != nil {
		t.Fatal(err)
	}
	if got := e.Quiz().Questions[0].ID; got != a.ID {
		t.Fatalf("first question = %s", got)
	}
}

func TestEditorDeleteQuestionConfirmation(t *testing.T) {
	declined := func(string) bool { return false }
	e := NewQuizEditor(nil, nil, declined)
	q, _ := e.AddQuestion(model.TrueFalse)

	if err := e.DeleteQuestion(q.ID); !errors.Is(err, ErrDeletionCancelled) {
		t.Fatalf("expected ErrDeletionCancelled, got %v", err)
	}
	if len(e.Quiz().Questions) != 1 {
		t.Fatal("declined deletion still removed the question")
	}

	accepted := func(string) bool { return true }
	e2 := NewQuizEditor(nil, nil, accepted)
	q2, _ := e2.AddQuestion(model.TrueFalse)
	if err := e2.DeleteQuestion(q2.ID); err != nil {
		t.Fatal(err)
	}
	if len(e2.Quiz().Questions) != 0 {
		t.Fatal("accepted deletion kept the question")
	}

	if err := e2.DeleteQuestion("missing"); !errors.Is(err, ErrQuestionNotFound) {
		t.Fatalf("expected ErrQuestionNotFound, got %v", err)
	}
}

func TestEditorDebounceCoalescesBursts(t *testing.T) {
	var mu sync.Mutex
	var saves []int

	e := NewQuizEditor(nil, func(q model.Quiz) {
		mu.Lock()
		saves = append(saves, len(q.Questions))
		mu.Unlock()
	}, nil)
	e.debounce = 20 * time.Millisecond
	defer e.Close()

	for i := 0; i < 5; i++ {
		if _, err := e.AddQuestion(model.TrueFalse); err != nil {
			t.Fatal(err)
		}
	}

	time.Sleep(100 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	if len(saves) != 1 {
		t.Fatalf("expected one coalesced save, got %d", len(saves))
	}
	if saves[0] != 5 {
		t.Fatalf("save carried %d questions, want 5", saves[0])
	}
}

func TestEditorCloseCancelsPendingSave(t *testing.T) {
	var mu sync.Mutex
	calls := 0

	e := NewQuizEditor(nil, func(model.Quiz) {
		mu.Lock()
		calls++
		mu.Unlock()
	}, nil)
	e.debounce = 20 * time.Millisecond

	e.AddQuestion(model.TrueFalse)
	e.Close()

	time.Sleep(60 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	if calls != 0 {
		t.Fatalf("save fired after Close, calls = %d", calls)
	}
}

func TestEditorFlushDeliversImmediately(t *testing.T) {
	var mu sync.Mutex
	calls := 0

	e := NewQuizEditor(nil, func(model.Quiz) {
		mu.Lock()
		calls++
		mu.Unlock()
	}, nil)
	defer e.Close()

	e.AddQuestion(model.TrueFalse)
	e.Flush()

	mu.Lock()
	defer mu.Unlock()
	if calls != 1 {
		t.Fatalf("flush calls = %d", calls)
	}
}

func TestEditorUpdateQuizSettings(t *testing.T) {
	e := NewQuizEditor(nil, nil, nil)

	limit := 45
	attempts := 5
	passing := 80
	randomize := true
	desc := "midterm review"
	e.UpdateQuiz(QuizPatch{
		TimeLimit:          &limit,
		MaxAttempts:        &attempts,
		PassingScore:       &passing,
		RandomizeQuestions: &randomize,
		Description:        &desc,
	})

	q := e.Quiz()
	if q.TimeLimit != 45 || q.MaxAttempts != 5 || q.PassingScore != 80 {
		t.Fatalf("settings not applied: %+v", q)
	}
	if !q.RandomizeQuestions || q.Settings.Description != "midterm review" {
		t.Fatalf("settings not applied: %+v", q)
	}

	bad := 150
	e.UpdateQuiz(QuizPatch{PassingScore: &bad})
	if e.Quiz().PassingScore != 80 {
		t.Fatal("out-of-range passing score was applied")
	}
}
