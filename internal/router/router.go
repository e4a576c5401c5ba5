package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/inkwell-edu/inkwell-backend/internal/config"
	"github.com/inkwell-edu/inkwell-backend/internal/handler"
	"github.com/inkwell-edu/inkwell-backend/internal/middleware"
	"github.com/inkwell-edu/inkwell-backend/internal/response"
	"github.com/inkwell-edu/inkwell-backend/internal/service"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Auth       *handler.AuthHandler
	Exam       *handler.ExamHandler
	Submission *handler.SubmissionHandler
	Grading    *handler.GradingHandler
	Dashboard  *handler.DashboardHandler
	WS         *handler.WSHandler
}

// SetupRouter configures all Gin route groups with appropriate middlewares.
func SetupRouter(
	authService *service.AuthService,
	handlers *Handlers,
	cfg *config.Config,
) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	router := gin.Default()

	// ─── CORS ──────────────────────────────────────────────────────────
	// If AllowedOrigins is set in config, restrict to that list;
	// otherwise allow all (*) so dev works without extra config.
	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	// Apply request ID middleware globally so every response includes metadata.
	router.Use(response.RequestIDMiddleware())

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		response.Success(c, http.StatusOK, gin.H{"status": "ok"})
	})

	// Rate limiter for auth routes (30 requests per minute per IP).
	authLimiter := middleware.NewRateLimiter(30, time.Minute)

	// ─── 1. Auth Group (Public, Rate Limited) ──────────────────────────
	auth := router.Group("/api/v1/auth")
	auth.Use(authLimiter.Middleware())
	{
		auth.POST("/register", handlers.Auth.Register)
		auth.POST("/login", handlers.Auth.Login)

		// Authenticated profile routes
		auth.POST("/logout", middleware.RequireJWT(authService), handlers.Auth.Logout)
		auth.GET("/me", middleware.RequireJWT(authService), handlers.Auth.Me)
	}

	// ─── 2. Student Group (JWT + Single Device) ────────────────────────
	studentAPI := router.Group("/api/v1/student")
	studentAPI.Use(
		middleware.RequireStudentJWT(authService),
		middleware.CheckSingleDeviceSession(authService),
	)
	{
		studentAPI.GET("/exams", handlers.Submission.Lobby)
		studentAPI.GET("/exams/:exam_id", handlers.Submission.GetExam)
		studentAPI.POST("/exams/:exam_id/submission", handlers.Submission.SubmitEssay)
		studentAPI.GET("/exams/:exam_id/submission", handlers.Submission.GetResult)
		studentAPI.PUT("/exams/:exam_id/draft", handlers.Submission.SaveDraft)
		studentAPI.GET("/exams/:exam_id/draft", handlers.Submission.GetDraft)
	}

	// ─── 3. WebSocket Group (Student WS Auth) ──────────────────────────
	ws := router.Group("/ws/v1")
	ws.Use(middleware.RequireStudentWSAuth(authService))
	{
		ws.GET("/student/exams/:exam_id/draft", handlers.WS.DraftStream)
	}

	// ─── 4. Staff Group (JWT) ──────────────────────────────────────────
	staffAPI := router.Group("/api/v1/staff")
	staffAPI.Use(middleware.RequireStaffJWT(authService))
	{
		staffAPI.GET("/dashboard", handlers.Dashboard.GetSummary)

		staffAPI.POST("/exams", handlers.Exam.CreateExam)
		staffAPI.GET("/exams", handlers.Exam.ListExams)
		staffAPI.GET("/exams/:exam_id", handlers.Exam.GetExam)
		staffAPI.GET("/exams/:exam_id/submissions", handlers.Grading.ListSubmissions)

		staffAPI.GET("/submissions/:submission_id", handlers.Grading.GetSubmission)
		staffAPI.PUT("/submissions/:submission_id/grade", handlers.Grading.GradeSubmission)
	}

	return router
}
