package model

import "time"

// QuestionStat aggregates correctness and answer spread for one question.
type QuestionStat struct {
	QuestionID      string         `json:"questionId"`
	TotalAttempts   int            `json:"totalAttempts"`
	CorrectAttempts int            `json:"correctAttempts"`
	CorrectRate     int            `json:"correctRate"` // percent
	Answers         map[string]int `json:"answers"`     // answer value -> count
}

// QuizAnalytics is the cross-student aggregate for one quiz. It is computed on
// demand from the current submission set and never persisted.
// swagger:model QuizAnalytics
type QuizAnalytics struct {
	TotalAttempts     int              `json:"totalAttempts"`
	UniqueStudents    int              `json:"uniqueStudents"`
	AverageScore      int              `json:"averageScore"`
	PassingRate       int              `json:"passingRate"` // percent of attempts at or above the platform bar
	AverageTime       int              `json:"averageTime"` // seconds
	Submissions       []QuizSubmission `json:"submissions"`
	QuestionStats     []QuestionStat   `json:"questionStats"`
	TimeDistribution  map[string]int   `json:"timeDistribution"`
	ScoreDistribution map[string]int   `json:"scoreDistribution"`
	CompletionRate    int              `json:"completionRate"`
}

// LeaderboardEntry ranks a student by best score, then fewer attempts, then
// most recent attempt.
type LeaderboardEntry struct {
	StudentID     string    `json:"studentId"`
	BestScore     int       `json:"bestScore"`
	TotalAttempts int       `json:"totalAttempts"`
	AverageScore  int       `json:"averageScore"`
	Passed        bool      `json:"passed"`
	LastAttemptAt time.Time `json:"lastAttemptAt"`
}
