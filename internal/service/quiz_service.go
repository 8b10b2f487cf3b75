package service

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"strings"
	"time"

	"edulearn_backend/internal/config"
	"edulearn_backend/internal/model"
	"edulearn_backend/internal/store"
	"edulearn_backend/internal/util"
	"edulearn_backend/pkg/logger"
	"edulearn_backend/pkg/monitoring"

	"go.uber.org/zap"
)

const (
	submissionsRoot = "quiz_submissions"
	analyticsRoot   = "quiz_analytics"
)

var (
	ErrMissingStudentID = errors.New("studentId is required")
	ErrInvalidScore     = errors.New("score must be between 0 and 100")
	ErrInvalidTimeSpent = errors.New("timeSpent must not be negative")
)

// QuizService records submissions and maintains the per-student analytics
// derived from them. Submissions are append-only; the analytics record is a
// pure function of the student's attempt list and is rebuilt whenever that
// list changes.
type QuizService struct {
	Store            store.KeyedStore
	PassingScore     int
	LeaderboardLimit int
}

func NewQuizService(st store.KeyedStore, cfg *config.Config) *QuizService {
	return &QuizService{
		Store:            st,
		PassingScore:     cfg.Quiz.DefaultPassingScore,
		LeaderboardLimit: cfg.Quiz.LeaderboardLimit,
	}
}

func submissionsPath(courseID, lessonID string) string {
	return store.Join(submissionsRoot, courseID, lessonID)
}

func analyticsPath(courseID, lessonID, studentID string) string {
	return store.Join(analyticsRoot, courseID, lessonID, studentID)
}

// SubmitQuiz validates and records one attempt, then folds it into the
// student's analytics. maxAttempts comes from the quiz definition; zero means
// unlimited. Passed is judged against the platform-wide passing bar, not the
// quiz's own in-session threshold.
func (s *QuizService) SubmitQuiz(ctx context.Context, courseID, lessonID string, sub model.QuizSubmission, maxAttempts int) (*model.QuizSubmission, error) {
	if strings.TrimSpace(sub.StudentID) == "" {
		return nil, ErrMissingStudentID
	}
	if sub.Score < 0 || sub.Score > 100 {
		return nil, ErrInvalidScore
	}
	if sub.TimeSpent < 0 {
		return nil, ErrInvalidTimeSpent
	}

	current, err := s.GetUserProgress(ctx, courseID, lessonID, sub.StudentID)
	if err != nil {
		return nil, err
	}
	if maxAttempts > 0 && current.TotalAttempts >= maxAttempts {
		return nil, util.ErrMaxAttemptsReached
	}

	sub.SubmittedAt = time.Now().UTC()
	sub.ID = ""
	id, err := s.Store.Push(ctx, submissionsPath(courseID, lessonID), sub)
	if err != nil {
		return nil, err
	}
	sub.ID = id

	passed := sub.Score >= s.PassingScore
	attempts := append(current.Attempts, model.QuizAttempt{
		SubmissionID: id,
		Score:        sub.Score,
		TimeSpent:    sub.TimeSpent,
		Passed:       passed,
		SubmittedAt:  sub.SubmittedAt,
	})
	analytics := model.BuildUserAnalytics(attempts)
	if err := s.Store.Write(ctx, analyticsPath(courseID, lessonID, sub.StudentID), analytics); err != nil {
		// the submission itself is durable; the derived record stays stale
		// until a DeleteSubmission replays the full list
		logger.Log.Error("failed to update user quiz analytics",
			zap.String("courseId", courseID),
			zap.String("lessonId", lessonID),
			zap.String("studentId", sub.StudentID),
			zap.Error(err))
		return nil, err
	}

	result := "failed"
	if passed {
		result = "passed"
	}
	monitoring.QuizSubmissions.WithLabelValues(result).Inc()

	logger.Log.Info("quiz submission recorded",
		zap.String("courseId", courseID),
		zap.String("lessonId", lessonID),
		zap.String("studentId", sub.StudentID),
		zap.String("submissionId", id),
		zap.Int("score", sub.Score),
		zap.Bool("passed", passed))
	return &sub, nil
}

// GetUserProgress returns the student's analytics record, or a zero-valued
// record when they have no attempts yet.
func (s *QuizService) GetUserProgress(ctx context.Context, courseID, lessonID, studentID string) (model.UserQuizAnalytics, error) {
	raw, err := s.Store.Read(ctx, analyticsPath(courseID, lessonID, studentID))
	if err != nil {
		return model.UserQuizAnalytics{}, err
	}
	if raw == nil {
		return model.UserQuizAnalytics{Attempts: []model.QuizAttempt{}}, nil
	}
	var a model.UserQuizAnalytics
	if err := json.Unmarshal(raw, &a); err != nil {
		return model.UserQuizAnalytics{}, err
	}
	if a.Attempts == nil {
		a.Attempts = []model.QuizAttempt{}
	}
	return a, nil
}

// ListSubmissions returns every submission for the lesson's quiz, oldest
// first. The child key becomes the submission ID.
func (s *QuizService) ListSubmissions(ctx context.Context, courseID, lessonID string) ([]model.QuizSubmission, error) {
	children, err := s.Store.List(ctx, submissionsPath(courseID, lessonID))
	if err != nil {
		return nil, err
	}
	subs := make([]model.QuizSubmission, 0, len(children))
	for id, raw := range children {
		var sub model.QuizSubmission
		if err := json.Unmarshal(raw, &sub); err != nil {
			logger.Log.Warn("skipping malformed quiz submission",
				zap.String("submissionId", id), zap.Error(err))
			continue
		}
		sub.ID = id
		subs = append(subs, sub)
	}
	sort.Slice(subs, func(i, j int) bool {
		if subs[i].SubmittedAt.Equal(subs[j].SubmittedAt) {
			return subs[i].ID < subs[j].ID
		}
		return subs[i].SubmittedAt.Before(subs[j].SubmittedAt)
	})
	return subs, nil
}

// DeleteSubmission removes one attempt and rebuilds the owning student's
// analytics by replaying their remaining submissions. When none remain the
// analytics record is removed entirely.
func (s *QuizService) DeleteSubmission(ctx context.Context, courseID, lessonID, submissionID string) error {
	path := store.Join(submissionsPath(courseID, lessonID), submissionID)
	raw, err := s.Store.Read(ctx, path)
	if err != nil {
		return err
	}
	if raw == nil {
		return util.ErrSubmissionNotFound
	}
	var sub model.QuizSubmission
	if err := json.Unmarshal(raw, &sub); err != nil {
		return err
	}
	if err := s.Store.Remove(ctx, path); err != nil {
		return err
	}
	return s.rebuildUserAnalytics(ctx, courseID, lessonID, sub.StudentID)
}

// rebuildUserAnalytics replays all of one student's surviving submissions
// into a fresh analytics record.
func (s *QuizService) rebuildUserAnalytics(ctx context.Context, courseID, lessonID, studentID string) error {
	subs, err := s.ListSubmissions(ctx, courseID, lessonID)
	if err != nil {
		return err
	}
	var attempts []model.QuizAttempt
	for _, sub := range subs {
		if sub.StudentID != studentID {
			continue
		}
		attempts = append(attempts, model.QuizAttempt{
			SubmissionID: sub.ID,
			Score:        sub.Score,
			TimeSpent:    sub.TimeSpent,
			Passed:       sub.Score >= s.PassingScore,
			SubmittedAt:  sub.SubmittedAt,
		})
	}
	target := analyticsPath(courseID, lessonID, studentID)
	if len(attempts) == 0 {
		return s.Store.Remove(ctx, target)
	}
	return s.Store.Write(ctx, target, model.BuildUserAnalytics(attempts))
}

// GetLeaderboard ranks students by best score, breaking ties by fewer
// attempts and then by most recent attempt. limit <= 0 falls back to the
// configured default.
func (s *QuizService) GetLeaderboard(ctx context.Context, courseID, lessonID string, limit int) ([]model.LeaderboardEntry, error) {
	children, err := s.Store.List(ctx, store.Join(analyticsRoot, courseID, lessonID))
	if err != nil {
		return nil, err
	}
	entries := make([]model.LeaderboardEntry, 0, len(children))
	for studentID, raw := range children {
		var a model.UserQuizAnalytics
		if err := json.Unmarshal(raw, &a); err != nil {
			logger.Log.Warn("skipping malformed analytics record",
				zap.String("studentId", studentID), zap.Error(err))
			continue
		}
		entries = append(entries, model.LeaderboardEntry{
			StudentID:     studentID,
			BestScore:     a.BestScore,
			TotalAttempts: a.TotalAttempts,
			AverageScore:  a.AverageScore,
			Passed:        a.Passed,
			LastAttemptAt: a.LastAttemptAt,
		})
	}
	sort.Slice(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.BestScore != b.BestScore {
			return a.BestScore > b.BestScore
		}
		if a.TotalAttempts != b.TotalAttempts {
			return a.TotalAttempts < b.TotalAttempts
		}
		return a.LastAttemptAt.After(b.LastAttemptAt)
	})
	if limit <= 0 {
		limit = s.LeaderboardLimit
	}
	if limit <= 0 {
		limit = 10
	}
	if len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}
