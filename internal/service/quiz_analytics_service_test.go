package service

import (
	"context"
	"reflect"
	"strings"
	"testing"
	"time"

	"edulearn_backend/internal/model"
	"edulearn_backend/internal/store"
)

func analyticsFixture() []model.QuizSubmission {
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	return []model.QuizSubmission{
		{
			ID: "s1", StudentID: "u1", Score: 90, TimeSpent: 250, SubmittedAt: base,
			Answers:        map[string]model.AnswerValue{"q1": model.TextAnswer("b"), "q2": model.BoolAnswer(true)},
			CorrectAnswers: map[string]bool{"q1": true, "q2": true},
		},
		{
			ID: "s2", StudentID: "u2", Score: 60, TimeSpent: 700, SubmittedAt: base.Add(time.Minute),
			Answers:        map[string]model.AnswerValue{"q1": model.TextAnswer("a"), "q2": model.BoolAnswer(true)},
			CorrectAnswers: map[string]bool{"q1": false, "q2": true},
		},
		{
			ID: "s3", StudentID: "u1", Score: 75, TimeSpent: 300, SubmittedAt: base.Add(2 * time.Minute),
			Answers:        map[string]model.AnswerValue{"q1": model.TextAnswer("b"), "q2": model.BoolAnswer(false)},
			CorrectAnswers: map[string]bool{"q1": true, "q2": false},
		},
	}
}

func TestComputeAnalyticsEmpty(t *testing.T) {
	a := ComputeAnalytics(nil, 70)
	if a.TotalAttempts != 0 || a.UniqueStudents != 0 || a.AverageScore != 0 {
		t.Fatalf("empty analytics not zeroed: %+v", a)
	}
	if a.Submissions == nil || a.QuestionStats == nil {
		t.Fatal("slices must be initialized, not nil")
	}
	if a.TimeDistribution == nil || a.ScoreDistribution == nil {
		t.Fatal("distributions must be initialized, not nil")
	}
	if len(a.TimeDistribution) != 5 || len(a.ScoreDistribution) != 5 {
		t.Fatalf("distributions missing buckets: %v %v", a.TimeDistribution, a.ScoreDistribution)
	}
}

func TestComputeAnalyticsAggregates(t *testing.T) {
	a := ComputeAnalytics(analyticsFixture(), 70)

	if a.TotalAttempts != 3 {
		t.Fatalf("totalAttempts = %d", a.TotalAttempts)
	}
	if a.UniqueStudents != 2 {
		t.Fatalf("uniqueStudents = %d", a.UniqueStudents)
	}
	if a.AverageScore != 75 {
		t.Fatalf("averageScore = %d", a.AverageScore)
	}
	if a.AverageTime != 417 {
		t.Fatalf("averageTime = %d", a.AverageTime)
	}
	// 90 and 75 pass at the 70 bar, 60 does not
	if a.PassingRate != 67 {
		t.Fatalf("passingRate = %d", a.PassingRate)
	}
	if a.CompletionRate != 100 {
		t.Fatalf("completionRate = %d", a.CompletionRate)
	}

	if a.TimeDistribution["under5min"] != 1 || a.TimeDistribution["5to10min"] != 1 || a.TimeDistribution["10to20min"] != 1 {
		t.Fatalf("timeDistribution = %v", a.TimeDistribution)
	}
	if a.ScoreDistribution["90-100"] != 1 || a.ScoreDistribution["70-79"] != 1 || a.ScoreDistribution["60-69"] != 1 {
		t.Fatalf("scoreDistribution = %v", a.ScoreDistribution)
	}
}

func TestComputeAnalyticsQuestionStats(t *testing.T) {
	a := ComputeAnalytics(analyticsFixture(), 70)

	if len(a.QuestionStats) != 2 {
		t.Fatalf("got %d question stats", len(a.QuestionStats))
	}
	byID := map[string]model.QuestionStat{}
	for _, stat := range a.QuestionStats {
		byID[stat.QuestionID] = stat
	}

	q1 := byID["q1"]
	if q1.TotalAttempts != 3 || q1.CorrectAttempts != 2 || q1.CorrectRate != 67 {
		t.Fatalf("q1 stats = %+v", q1)
	}
	if q1.Answers["b"] != 2 || q1.Answers["a"] != 1 {
		t.Fatalf("q1 answer spread = %v", q1.Answers)
	}

	q2 := byID["q2"]
	if q2.Answers["true"] != 2 || q2.Answers["false"] != 1 {
		t.Fatalf("q2 answer spread = %v", q2.Answers)
	}
}

func TestComputeAnalyticsSkipsUngradedSubmissions(t *testing.T) {
	subs := analyticsFixture()
	subs = append(subs, model.QuizSubmission{
		ID: "s4", StudentID: "u3", Score: 50, TimeSpent: 100,
		Answers: map[string]model.AnswerValue{"q1": model.TextAnswer("a")},
		// no CorrectAnswers map
	})
	a := ComputeAnalytics(subs, 70)

	if a.TotalAttempts != 4 {
		t.Fatalf("ungraded submission dropped from totals: %d", a.TotalAttempts)
	}
	for _, stat := range a.QuestionStats {
		if stat.QuestionID == "q1" && stat.TotalAttempts != 3 {
			t.Fatalf("ungraded submission leaked into question stats: %+v", stat)
		}
	}
}

func TestComputeAnalyticsCountsUngradedAnswersAsWrong(t *testing.T) {
	subs := analyticsFixture()
	subs = append(subs, model.QuizSubmission{
		ID: "s4", StudentID: "u3", Score: 40, TimeSpent: 100,
		Answers:        map[string]model.AnswerValue{"q1": model.TextAnswer("c"), "q3": model.TextAnswer("x")},
		CorrectAnswers: map[string]bool{"q1": false},
	})
	a := ComputeAnalytics(subs, 70)

	byID := map[string]model.QuestionStat{}
	for _, stat := range a.QuestionStats {
		byID[stat.QuestionID] = stat
	}

	// q3 has no grading entry yet still shows up as an incorrect attempt
	q3 := byID["q3"]
	if q3.TotalAttempts != 1 || q3.CorrectAttempts != 0 || q3.CorrectRate != 0 {
		t.Fatalf("q3 stats = %+v", q3)
	}
	if q3.Answers["x"] != 1 {
		t.Fatalf("q3 answer spread = %v", q3.Answers)
	}

	q1 := byID["q1"]
	if q1.TotalAttempts != 4 || q1.CorrectAttempts != 2 {
		t.Fatalf("q1 stats = %+v", q1)
	}
}

func TestComputeAnalyticsIsPure(t *testing.T) {
	subs := analyticsFixture()
	first := ComputeAnalytics(subs, 70)
	second := ComputeAnalytics(subs, 70)
	if !reflect.DeepEqual(first, second) {
		t.Fatal("same input produced different analytics")
	}
}

func TestTimeAndScoreBucketBoundaries(t *testing.T) {
	timeCases := map[int]string{
		0:    "under5min",
		299:  "under5min",
		300:  "5to10min",
		599:  "5to10min",
		600:  "10to20min",
		1199: "10to20min",
		1200: "20to30min",
		1799: "20to30min",
		1800: "over30min",
	}
	for seconds, want := range timeCases {
		if got := timeBucket(seconds); got != want {
			t.Errorf("timeBucket(%d) = %s, want %s", seconds, got, want)
		}
	}

	scoreCases := map[int]string{
		100: "90-100",
		90:  "90-100",
		89:  "80-89",
		80:  "80-89",
		79:  "70-79",
		70:  "70-79",
		69:  "60-69",
		60:  "60-69",
		59:  "below60",
		0:   "below60",
	}
	for score, want := range scoreCases {
		if got := scoreBucket(score); got != want {
			t.Errorf("scoreBucket(%d) = %s, want %s", score, got, want)
		}
	}
}

func TestWatchRecomputesOnNewSubmissions(t *testing.T) {
	st := store.NewMemoryStore()
	qs := &QuizService{Store: st, PassingScore: 70, LeaderboardLimit: 10}
	as := &QuizAnalyticsService{Store: st, Quiz: qs, PassingScore: 70}
	ctx := context.Background()

	var updates []model.QuizAnalytics
	cancel, err := as.Watch(ctx, "c1", "l1", func(a model.QuizAnalytics) {
		updates = append(updates, a)
	})
	if err != nil {
		t.Fatal(err)
	}
	defer cancel()

	if len(updates) != 1 || updates[0].TotalAttempts != 0 {
		t.Fatalf("expected initial empty snapshot, got %+v", updates)
	}

	if _, err := qs.SubmitQuiz(ctx, "c1", "l1", model.QuizSubmission{StudentID: "u1", Score: 80}, 0); err != nil {
		t.Fatal(err)
	}

	// memory store delivers notifications synchronously
	last := updates[len(updates)-1]
	if last.TotalAttempts != 1 || last.UniqueStudents != 1 {
		t.Fatalf("recompute missing the new submission: %+v", last)
	}

	cancel()
	before := len(updates)
	if _, err := qs.SubmitQuiz(ctx, "c1", "l1", model.QuizSubmission{StudentID: "u2", Score: 60}, 0); err != nil {
		t.Fatal(err)
	}
	if len(updates) != before {
		t.Fatal("cancelled watch still received updates")
	}
}

func TestRenderSubmissionsCSV(t *testing.T) {
	subs := []model.QuizSubmission{
		{
			ID: "s1", StudentID: "u1", Score: 90, TimeSpent: 250, MaxScore: 100,
			SubmittedAt: time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
			Answers:     map[string]model.AnswerValue{"q1": model.TextAnswer("b"), "q2": model.BoolAnswer(true)},
		},
		{
			ID: "s2", StudentID: `u"2`, Score: 60, TimeSpent: 90,
			SubmittedAt: time.Date(2026, 3, 1, 11, 0, 0, 0, time.UTC),
		},
	}

	body := string(RenderSubmissionsCSV(subs, 70))
	lines := strings.Split(strings.TrimRight(body, "\r\n"), "\r\n")
	if len(lines) != 3 {
		t.Fatalf("expected header plus 2 rows, got %d lines", len(lines))
	}
	if !strings.HasPrefix(lines[0], `"Student ID","Submission ID","Score (%)"`) {
		t.Fatalf("header = %s", lines[0])
	}

	if !strings.Contains(lines[1], `"u1","s1","90","250","4","2026-03-01T10:00:00Z","Yes","2","100"`) {
		t.Fatalf("row 1 = %s", lines[1])
	}
	// embedded quote doubled, zero MaxScore defaults to 100, 90s rounds to 2 minutes
	if !strings.Contains(lines[2], `"u""2","s2","60","90","2","2026-03-01T11:00:00Z","No","0","100"`) {
		t.Fatalf("row 2 = %s", lines[2])
	}

	// every cell quoted
	for _, line := range lines {
		for _, cell := range strings.Split(line, ",") {
			if !strings.HasPrefix(cell, `"`) || !strings.HasSuffix(cell, `"`) {
				t.Fatalf("unquoted cell %q in line %s", cell, line)
			}
		}
	}
}

func TestExportFileName(t *testing.T) {
	now := time.Date(2026, 3, 1, 23, 59, 0, 0, time.UTC)
	got := ExportFileName("lesson-7", now)
	if got != "quiz-analytics-lesson-7-2026-03-01.csv" {
		t.Fatalf("filename = %s", got)
	}
}
