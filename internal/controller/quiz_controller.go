package controller

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"edulearn_backend/internal/model"
	"edulearn_backend/internal/service"
	"edulearn_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// QuizSource resolves the gradeable quiz a submission is recorded against.
type QuizSource interface {
	QuizForTaking(lessonID string) (*model.Quiz, error)
}

type QuizController struct {
	QuizService      *service.QuizService
	AnalyticsService *service.QuizAnalyticsService
	Lessons          QuizSource
}

func NewQuizController(quizService *service.QuizService, analyticsService *service.QuizAnalyticsService, lessons QuizSource) *QuizController {
	return &QuizController{
		QuizService:      quizService,
		AnalyticsService: analyticsService,
		Lessons:          lessons,
	}
}

// SubmitRequest is one completed quiz attempt.
// swagger:model SubmitRequest
type SubmitRequest struct {
	StudentName    string                       `json:"studentName"`
	Answers        map[string]model.AnswerValue `json:"answers" binding:"required"`
	CorrectAnswers map[string]bool              `json:"correctAnswers"`
	Score          int                          `json:"score"`
	TimeSpent      int                          `json:"timeSpent"`
}

// SubmitQuiz godoc
// @Summary Submit a quiz attempt
// @Description Records the attempt and updates the student's analytics. Attempts beyond the quiz's maxAttempts are rejected.
// @Tags quiz
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param courseId path string true "Course ID"
// @Param lessonId path string true "Lesson ID"
// @Param body body SubmitRequest true "Attempt details"
// @Success 201 {object} util.Response{data=model.QuizSubmission}
// @Failure 400 {object} util.Response "No quiz on the lesson, or the quiz is incomplete"
// @Failure 404 {object} util.Response
// @Failure 429 {object} util.Response "Maximum attempts reached"
// @Router /api/courses/{courseId}/lessons/{lessonId}/quiz/submissions [post]
func (c *QuizController) SubmitQuiz(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}
	var req SubmitRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	courseID := ctx.Param("courseId")
	lessonID := ctx.Param("lessonId")

	quiz, err := c.Lessons.QuizForTaking(lessonID)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrLessonNotFound), errors.Is(err, util.ErrCourseNotFound):
			util.NotFound(ctx)
		case errors.Is(err, util.ErrLessonHasNoQuiz), errors.Is(err, util.ErrQuizNotGradeable):
			util.BadRequest(ctx, err.Error())
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	sub := model.QuizSubmission{
		StudentID:      strconv.FormatUint(uint64(claims.UserID), 10),
		StudentName:    req.StudentName,
		Answers:        req.Answers,
		CorrectAnswers: req.CorrectAnswers,
		Score:          req.Score,
		TimeSpent:      req.TimeSpent,
	}
	recorded, err := c.QuizService.SubmitQuiz(ctx.Request.Context(), courseID, lessonID, sub, quiz.MaxAttempts)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrMaxAttemptsReached):
			util.Error(ctx, 429, err.Error())
		case errors.Is(err, service.ErrMissingStudentID),
			errors.Is(err, service.ErrInvalidScore),
			errors.Is(err, service.ErrInvalidTimeSpent):
			util.BadRequest(ctx, err.Error())
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Created(ctx, recorded)
}

// GetMyProgress godoc
// @Summary The authenticated student's quiz progress for a lesson
// @Tags quiz
// @Produce json
// @Security BearerAuth
// @Param courseId path string true "Course ID"
// @Param lessonId path string true "Lesson ID"
// @Success 200 {object} util.Response{data=model.UserQuizAnalytics}
// @Router /api/courses/{courseId}/lessons/{lessonId}/quiz/progress [get]
func (c *QuizController) GetMyProgress(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}
	progress, err := c.QuizService.GetUserProgress(
		ctx.Request.Context(),
		ctx.Param("courseId"),
		ctx.Param("lessonId"),
		strconv.FormatUint(uint64(claims.UserID), 10),
	)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, progress)
}

// GetAnalytics godoc
// @Summary Aggregate quiz analytics across all students
// @Tags quiz
// @Produce json
// @Security BearerAuth
// @Param courseId path string true "Course ID"
// @Param lessonId path string true "Lesson ID"
// @Success 200 {object} util.Response{data=model.QuizAnalytics}
// @Router /api/courses/{courseId}/lessons/{lessonId}/quiz/analytics [get]
func (c *QuizController) GetAnalytics(ctx *gin.Context) {
	analytics, err := c.AnalyticsService.GetAnalytics(ctx.Request.Context(), ctx.Param("courseId"), ctx.Param("lessonId"))
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, analytics)
}

// GetLeaderboard godoc
// @Summary Quiz leaderboard
// @Description Students ranked by best score, then fewer attempts, then most recent attempt.
// @Tags quiz
// @Produce json
// @Security BearerAuth
// @Param courseId path string true "Course ID"
// @Param lessonId path string true "Lesson ID"
// @Param limit query int false "Maximum entries"
// @Success 200 {object} util.Response{data=[]model.LeaderboardEntry}
// @Router /api/courses/{courseId}/lessons/{lessonId}/quiz/leaderboard [get]
func (c *QuizController) GetLeaderboard(ctx *gin.Context) {
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "0"))
	entries, err := c.QuizService.GetLeaderboard(ctx.Request.Context(), ctx.Param("courseId"), ctx.Param("lessonId"), limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, entries)
}

// ExportAnalytics godoc
// @Summary Download quiz submissions as CSV
// @Tags quiz
// @Produce text/csv
// @Security BearerAuth
// @Param courseId path string true "Course ID"
// @Param lessonId path string true "Lesson ID"
// @Success 200 {string} string "CSV body"
// @Router /api/courses/{courseId}/lessons/{lessonId}/quiz/analytics/export [get]
func (c *QuizController) ExportAnalytics(ctx *gin.Context) {
	lessonID := ctx.Param("lessonId")
	body, err := c.AnalyticsService.ExportCSV(ctx.Request.Context(), ctx.Param("courseId"), lessonID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	filename := service.ExportFileName(lessonID, time.Now())
	ctx.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	ctx.Data(200, "text/csv; charset=utf-8", body)
}

// DeleteSubmission godoc
// @Summary Delete one quiz submission
// @Description Removes the attempt and rebuilds the owning student's analytics from their remaining submissions.
// @Tags quiz
// @Produce json
// @Security BearerAuth
// @Param courseId path string true "Course ID"
// @Param lessonId path string true "Lesson ID"
// @Param submissionId path string true "Submission ID"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/courses/{courseId}/lessons/{lessonId}/quiz/submissions/{submissionId} [delete]
func (c *QuizController) DeleteSubmission(ctx *gin.Context) {
	err := c.QuizService.DeleteSubmission(
		ctx.Request.Context(),
		ctx.Param("courseId"),
		ctx.Param("lessonId"),
		ctx.Param("submissionId"),
	)
	if err != nil {
		if errors.Is(err, util.ErrSubmissionNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, nil)
}

// ListSubmissions godoc
// @Summary All submissions for a lesson's quiz
// @Tags quiz
// @Produce json
// @Security BearerAuth
// @Param courseId path string true "Course ID"
// @Param lessonId path string true "Lesson ID"
// @Success 200 {object} util.Response{data=[]model.QuizSubmission}
// @Router /api/courses/{courseId}/lessons/{lessonId}/quiz/submissions [get]
func (c *QuizController) ListSubmissions(ctx *gin.Context) {
	subs, err := c.QuizService.ListSubmissions(ctx.Request.Context(), ctx.Param("courseId"), ctx.Param("lessonId"))
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, subs)
}
