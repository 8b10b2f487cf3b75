package service

import (
	"context"
	"sort"
	"strconv"
	"strings"
	"time"

	"edulearn_backend/internal/config"
	"edulearn_backend/internal/model"
	"edulearn_backend/internal/store"
	"edulearn_backend/pkg/logger"
	"edulearn_backend/pkg/monitoring"

	"go.uber.org/zap"
)

// QuizAnalyticsService computes cross-student aggregates over the submission
// set. Analytics are derived on demand and never persisted; a subscription
// can keep a consumer's view current as submissions arrive.
type QuizAnalyticsService struct {
	Store        store.KeyedStore
	Quiz         *QuizService
	PassingScore int
}

func NewQuizAnalyticsService(st store.KeyedStore, quizService *QuizService, cfg *config.Config) *QuizAnalyticsService {
	return &QuizAnalyticsService{
		Store:        st,
		Quiz:         quizService,
		PassingScore: cfg.Quiz.DefaultPassingScore,
	}
}

// GetAnalytics loads the current submission set and aggregates it.
func (s *QuizAnalyticsService) GetAnalytics(ctx context.Context, courseID, lessonID string) (model.QuizAnalytics, error) {
	subs, err := s.Quiz.ListSubmissions(ctx, courseID, lessonID)
	if err != nil {
		return model.QuizAnalytics{}, err
	}
	return ComputeAnalytics(subs, s.PassingScore), nil
}

// Watch recomputes analytics on every submission change and delivers each
// fresh aggregate to onUpdate, starting with the current state. The returned
// cancel stops the subscription.
func (s *QuizAnalyticsService) Watch(ctx context.Context, courseID, lessonID string, onUpdate func(model.QuizAnalytics)) (func(), error) {
	recompute := func() {
		analytics, err := s.GetAnalytics(ctx, courseID, lessonID)
		if err != nil {
			logger.Log.Error("analytics recompute failed",
				zap.String("courseId", courseID),
				zap.String("lessonId", lessonID),
				zap.Error(err))
			return
		}
		monitoring.AnalyticsRecomputes.Inc()
		onUpdate(analytics)
	}

	cancel, err := s.Store.Subscribe(submissionsPath(courseID, lessonID), func(string) {
		recompute()
	})
	if err != nil {
		return nil, err
	}
	recompute()
	return cancel, nil
}

// ComputeAnalytics folds a submission set into the aggregate view. It is a
// pure function: the same submissions always yield the same analytics, and
// an empty set yields a fully zeroed (but never nil) structure.
func ComputeAnalytics(subs []model.QuizSubmission, passingScore int) model.QuizAnalytics {
	a := model.QuizAnalytics{
		Submissions:       []model.QuizSubmission{},
		QuestionStats:     []model.QuestionStat{},
		TimeDistribution:  timeBuckets(),
		ScoreDistribution: scoreBuckets(),
	}
	if len(subs) == 0 {
		return a
	}

	a.Submissions = subs
	a.TotalAttempts = len(subs)

	students := make(map[string]struct{})
	scoreSum, timeSum, passedCount := 0, 0, 0
	byQuestion := make(map[string]*model.QuestionStat)
	var questionOrder []string

	for _, sub := range subs {
		students[sub.StudentID] = struct{}{}
		scoreSum += sub.Score
		timeSum += sub.TimeSpent
		if sub.Score >= passingScore {
			passedCount++
		}
		a.TimeDistribution[timeBucket(sub.TimeSpent)]++
		a.ScoreDistribution[scoreBucket(sub.Score)]++

		// per-question stats need both the given answer and its grading
		if sub.Answers == nil || sub.CorrectAnswers == nil {
			continue
		}
		for questionID, given := range sub.Answers {
			// an answer with no grading entry counts as a wrong attempt
			correct := sub.CorrectAnswers[questionID]
			stat, ok := byQuestion[questionID]
			if !ok {
				stat = &model.QuestionStat{
					QuestionID: questionID,
					Answers:    make(map[string]int),
				}
				byQuestion[questionID] = stat
				questionOrder = append(questionOrder, questionID)
			}
			stat.TotalAttempts++
			if correct {
				stat.CorrectAttempts++
			}
			stat.Answers[given.Key()]++
		}
	}

	a.UniqueStudents = len(students)
	a.AverageScore = roundDivInt(scoreSum, len(subs))
	a.AverageTime = roundDivInt(timeSum, len(subs))
	a.PassingRate = roundPercent(passedCount, len(subs))
	a.CompletionRate = 100

	sort.Strings(questionOrder)
	for _, id := range questionOrder {
		stat := byQuestion[id]
		stat.CorrectRate = roundPercent(stat.CorrectAttempts, stat.TotalAttempts)
		a.QuestionStats = append(a.QuestionStats, *stat)
	}
	return a
}

func timeBuckets() map[string]int {
	return map[string]int{
		"under5min": 0, "5to10min": 0, "10to20min": 0, "20to30min": 0, "over30min": 0,
	}
}

// timeBucket assigns a duration in seconds to its bucket; lower bounds are
// inclusive, upper bounds exclusive.
func timeBucket(seconds int) string {
	switch {
	case seconds < 300:
		return "under5min"
	case seconds < 600:
		return "5to10min"
	case seconds < 1200:
		return "10to20min"
	case seconds < 1800:
		return "20to30min"
	default:
		return "over30min"
	}
}

func scoreBuckets() map[string]int {
	return map[string]int{
		"90-100": 0, "80-89": 0, "70-79": 0, "60-69": 0, "below60": 0,
	}
}

func scoreBucket(score int) string {
	switch {
	case score >= 90:
		return "90-100"
	case score >= 80:
		return "80-89"
	case score >= 70:
		return "70-79"
	case score >= 60:
		return "60-69"
	default:
		return "below60"
	}
}

// ExportCSV renders the submission set as a spreadsheet-friendly CSV. Every
// cell is quoted, with embedded quotes doubled.
func (s *QuizAnalyticsService) ExportCSV(ctx context.Context, courseID, lessonID string) ([]byte, error) {
	subs, err := s.Quiz.ListSubmissions(ctx, courseID, lessonID)
	if err != nil {
		return nil, err
	}
	return RenderSubmissionsCSV(subs, s.PassingScore), nil
}

var csvHeader = []string{
	"Student ID",
	"Submission ID",
	"Score (%)",
	"Time Spent (seconds)",
	"Time Spent (minutes)",
	"Submitted At",
	"Passed",
	"Questions Answered",
	"Max Score",
}

// RenderSubmissionsCSV produces the export body, one row per submission.
func RenderSubmissionsCSV(subs []model.QuizSubmission, passingScore int) []byte {
	var b strings.Builder
	writeCSVRow(&b, csvHeader)
	for _, sub := range subs {
		passed := "No"
		if sub.Score >= passingScore {
			passed = "Yes"
		}
		maxScore := sub.MaxScore
		if maxScore == 0 {
			maxScore = 100
		}
		writeCSVRow(&b, []string{
			sub.StudentID,
			sub.ID,
			strconv.Itoa(sub.Score),
			strconv.Itoa(sub.TimeSpent),
			strconv.Itoa(roundDivInt(sub.TimeSpent, 60)),
			sub.SubmittedAt.UTC().Format(time.RFC3339),
			passed,
			strconv.Itoa(len(sub.Answers)),
			strconv.Itoa(maxScore),
		})
	}
	return []byte(b.String())
}

func writeCSVRow(b *strings.Builder, cells []string) {
	for i, cell := range cells {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteByte('"')
		b.WriteString(strings.ReplaceAll(cell, `"`, `""`))
		b.WriteByte('"')
	}
	b.WriteString("\r\n")
}

// ExportFileName names the download after the lesson and the export date.
func ExportFileName(lessonID string, now time.Time) string {
	return "quiz-analytics-" + lessonID + "-" + now.UTC().Format("2006-01-02") + ".csv"
}

// roundDivInt is round(a/b); zero when b is zero.
func roundDivInt(a, b int) int {
	if b == 0 {
		return 0
	}
	return (a + b/2) / b
}
