package service

import (
	"context"
	"errors"
	"testing"

	"edulearn_backend/internal/model"
	"edulearn_backend/internal/store"
	"edulearn_backend/internal/util"
)

func newTestQuizService() *QuizService {
	return &QuizService{
		Store:            store.NewMemoryStore(),
		PassingScore:     70,
		LeaderboardLimit: 10,
	}
}

func submitScore(t *testing.T, s *QuizService, studentID string, score, timeSpent int) *model.QuizSubmission {
	t.Helper()
	sub, err := s.SubmitQuiz(context.Background(), "c1", "l1", model.QuizSubmission{
		StudentID: studentID,
		Score:     score,
		TimeSpent: timeSpent,
	}, 0)
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	return sub
}

func TestSubmitQuizValidation(t *testing.T) {
	s := newTestQuizService()
	ctx := context.Background()

	cases := []struct {
		name string
		sub  model.QuizSubmission
		want error
	}{
		{"missing student", model.QuizSubmission{Score: 50}, ErrMissingStudentID},
		{"blank student", model.QuizSubmission{StudentID: "  ", Score: 50}, ErrMissingStudentID},
		{"score too high", model.QuizSubmission{StudentID: "u1", Score: 101}, ErrInvalidScore},
		{"score negative", model.QuizSubmission{StudentID: "u1", Score: -1}, ErrInvalidScore},
		{"negative time", model.QuizSubmission{StudentID: "u1", Score: 50, TimeSpent: -5}, ErrInvalidTimeSpent},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := s.SubmitQuiz(ctx, "c1", "l1", tc.sub, 0); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestSubmitQuizUpdatesUserAnalytics(t *testing.T) {
	s := newTestQuizService()
	ctx := context.Background()

	submitScore(t, s, "u1", 60, 400)
	submitScore(t, s, "u1", 90, 300)
	submitScore(t, s, "u1", 75, 350)

	progress, err := s.GetUserProgress(ctx, "c1", "l1", "u1")
	if err != nil {
		t.Fatal(err)
	}
	if progress.TotalAttempts != 3 {
		t.Fatalf("totalAttempts = %d", progress.TotalAttempts)
	}
	if progress.BestScore != 90 {
		t.Fatalf("bestScore = %d", progress.BestScore)
	}
	if progress.AverageScore != 75 {
		t.Fatalf("averageScore = %d", progress.AverageScore)
	}
	if !progress.Passed {
		t.Fatal("expected passed after a 90")
	}
	if progress.TotalTimeSpent != 1050 {
		t.Fatalf("totalTimeSpent = %d", progress.TotalTimeSpent)
	}
	if len(progress.Attempts) != 3 {
		t.Fatalf("attempt history has %d entries", len(progress.Attempts))
	}
}

func TestSubmitQuizEnforcesMaxAttempts(t *testing.T) {
	s := newTestQuizService()
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if _, err := s.SubmitQuiz(ctx, "c1", "l1", model.QuizSubmission{StudentID: "u1", Score: 50}, 3); err != nil {
			t.Fatalf("attempt %d failed: %v", i+1, err)
		}
	}
	_, err := s.SubmitQuiz(ctx, "c1", "l1", model.QuizSubmission{StudentID: "u1", Score: 50}, 3)
	if !errors.Is(err, util.ErrMaxAttemptsReached) {
		t.Fatalf("expected ErrMaxAttemptsReached, got %v", err)
	}

	// other students are unaffected
	if _, err := s.SubmitQuiz(ctx, "c1", "l1", model.QuizSubmission{StudentID: "u2", Score: 50}, 3); err != nil {
		t.Fatalf("other student blocked: %v", err)
	}
}

func TestGetUserProgressZeroValue(t *testing.T) {
	s := newTestQuizService()
	progress, err := s.GetUserProgress(context.Background(), "c1", "l1", "nobody")
	if err != nil {
		t.Fatal(err)
	}
	if progress.TotalAttempts != 0 || progress.Attempts == nil || progress.Passed {
		t.Fatalf("expected zero-valued progress, got %+v", progress)
	}
}

func TestListSubmissionsOrdered(t *testing.T) {
	s := newTestQuizService()

	submitScore(t, s, "u1", 60, 100)
	submitScore(t, s, "u2", 70, 100)
	submitScore(t, s, "u1", 80, 100)

	subs, err := s.ListSubmissions(context.Background(), "c1", "l1")
	if err != nil {
		t.Fatal(err)
	}
	if len(subs) != 3 {
		t.Fatalf("got %d submissions", len(subs))
	}
	for i := 1; i < len(subs); i++ {
		if subs[i].SubmittedAt.Before(subs[i-1].SubmittedAt) {
			t.Fatal("submissions not in chronological order")
		}
	}
	for _, sub := range subs {
		if sub.ID == "" {
			t.Fatal("submission lost its key")
		}
	}
}

func TestDeleteSubmissionRebuildsAnalytics(t *testing.T) {
	s := newTestQuizService()
	ctx := context.Background()

	submitScore(t, s, "u1", 60, 400)
	best := submitScore(t, s, "u1", 90, 300)

	if err := s.DeleteSubmission(ctx, "c1", "l1", best.ID); err != nil {
		t.Fatal(err)
	}

	progress, err := s.GetUserProgress(ctx, "c1", "l1", "u1")
	if err != nil {
		t.Fatal(err)
	}
	if progress.TotalAttempts != 1 {
		t.Fatalf("totalAttempts = %d after delete", progress.TotalAttempts)
	}
	if progress.BestScore != 60 {
		t.Fatalf("bestScore = %d after deleting the 90", progress.BestScore)
	}
	if progress.Passed {
		t.Fatal("passed should drop when the passing attempt is removed")
	}
}

func TestDeleteLastSubmissionRemovesAnalytics(t *testing.T) {
	s := newTestQuizService()
	ctx := context.Background()

	only := submitScore(t, s, "u1", 80, 200)
	if err := s.DeleteSubmission(ctx, "c1", "l1", only.ID); err != nil {
		t.Fatal(err)
	}

	raw, err := s.Store.Read(ctx, "quiz_analytics/c1/l1/u1")
	if err != nil {
		t.Fatal(err)
	}
	if raw != nil {
		t.Fatalf("analytics record should be removed, got %s", raw)
	}
}

func TestDeleteSubmissionNotFound(t *testing.T) {
	s := newTestQuizService()
	err := s.DeleteSubmission(context.Background(), "c1", "l1", "missing")
	if !errors.Is(err, util.ErrSubmissionNotFound) {
		t.Fatalf("expected ErrSubmissionNotFound, got %v", err)
	}
}

func TestLeaderboardOrdering(t *testing.T) {
	s := newTestQuizService()
	ctx := context.Background()

	// u1: best 90 over three attempts
	submitScore(t, s, "u1", 70, 100)
	submitScore(t, s, "u1", 80, 100)
	submitScore(t, s, "u1", 90, 100)
	// u2: 90 first try, fewer attempts wins the tie
	submitScore(t, s, "u2", 90, 100)
	// u3: lower best score
	submitScore(t, s, "u3", 85, 100)

	entries, err := s.GetLeaderboard(ctx, "c1", "l1", 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 3 {
		t.Fatalf("got %d entries", len(entries))
	}
	if entries[0].StudentID != "u2" {
		t.Fatalf("rank 1 = %s, want u2 (fewer attempts at 90)", entries[0].StudentID)
	}
	if entries[1].StudentID != "u1" {
		t.Fatalf("rank 2 = %s, want u1", entries[1].StudentID)
	}
	if entries[2].StudentID != "u3" {
		t.Fatalf("rank 3 = %s, want u3", entries[2].StudentID)
	}

	top, err := s.GetLeaderboard(ctx, "c1", "l1", 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(top) != 2 {
		t.Fatalf("limit not applied, got %d entries", len(top))
	}
}
