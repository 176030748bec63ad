package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/acadops/registrar-api/internal/middleware"
	"github.com/acadops/registrar-api/internal/models"
	"github.com/acadops/registrar-api/internal/service"
	"github.com/acadops/registrar-api/pkg/config"
)

// Handlers bundles every HTTP handler for route registration.
type Handlers struct {
	Auth        *AuthHandler
	Departments *DepartmentHandler
	Batches     *BatchHandler
	Subjects    *SubjectHandler
	Semesters   *SemesterHandler
	Lectures    *LectureHandler
	Teachers    *TeacherHandler
	Students    *StudentHandler
	Results     *ResultHandler
	Transcripts *TranscriptHandler
}

// RouterDeps carries the cross-cutting pieces the route table needs.
type RouterDeps struct {
	Auth    *service.AuthService
	Metrics *service.MetricsService
	Redis   *redis.Client
	Lookup  config.LookupConfig
	Logger  *zap.Logger
}

// Register mounts all routes on the engine. Staff routes sit behind JWT
// plus a capability gate; the public lookup is unauthenticated but rate
// limited.
func Register(r *gin.Engine, h Handlers, deps RouterDeps) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/ready", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", gin.WrapH(deps.Metrics.Handler()))

	api := r.Group("/api/v1")
	api.POST("/auth/login", h.Auth.Login)

	public := api.Group("/public")
	public.Use(middleware.LookupRateLimit(deps.Redis, deps.Lookup, deps.Metrics, deps.Logger))
	{
		public.GET("/results", h.Transcripts.PublicLookup)
		public.GET("/students/:id/semesters/:semesterId", h.Transcripts.PublicTranscript)
	}

	staff := api.Group("")
	staff.Use(middleware.JWT(deps.Auth))

	curriculum := staff.Group("", middleware.RequireCapability(models.CapManageCurriculum))
	{
		curriculum.POST("/departments", h.Departments.Create)
		curriculum.PATCH("/departments/:id/status", h.Departments.SetStatus)
		curriculum.POST("/batches", h.Batches.Create)
		curriculum.PATCH("/batches/:id/status", h.Batches.SetStatus)
		curriculum.POST("/subjects", h.Subjects.Create)
		curriculum.PUT("/subjects/:id", h.Subjects.Update)
		curriculum.PATCH("/subjects/:id/status", h.Subjects.SetStatus)
		curriculum.POST("/semesters", h.Semesters.Create)
		curriculum.PUT("/semesters/:id", h.Semesters.Update)
	}

	staffing := staff.Group("", middleware.RequireCapability(models.CapAssignLectures))
	{
		staffing.POST("/lectures", h.Lectures.Assign)
		staffing.DELETE("/lectures/:id", h.Lectures.Unassign)
		staffing.POST("/teachers", h.Teachers.Create)
	}

	marks := staff.Group("", middleware.RequireCapability(models.CapEnterMarks))
	{
		marks.PUT("/results", h.Results.Save)
	}

	registry := staff.Group("", middleware.RequireCapability(models.CapManageStudents))
	{
		registry.POST("/students", h.Students.Register)
		registry.PATCH("/students/:id/status", h.Students.UpdateStatus)
	}

	reports := staff.Group("", middleware.RequireCapability(models.CapViewReports))
	{
		reports.GET("/departments", h.Departments.List)
		reports.GET("/batches", h.Batches.List)
		reports.GET("/batches/plan", h.Batches.Plan)
		reports.GET("/batches/:id/semesters", h.Semesters.ListByBatch)
		reports.GET("/batches/:id/available-subjects", h.Semesters.AvailableSubjects)
		reports.GET("/batches/:id/schedule", h.Lectures.Schedule)
		reports.GET("/subjects", h.Subjects.List)
		reports.GET("/lectures", h.Lectures.List)
		reports.GET("/teachers", h.Teachers.List)
		reports.GET("/teachers/:id", h.Teachers.Get)
		reports.GET("/students", h.Students.List)
		reports.GET("/students/:id", h.Students.Get)
		reports.GET("/students/:id/semesters/:semesterId/transcript", h.Transcripts.Get)
		reports.GET("/students/:id/semesters/:semesterId/transcript/export", h.Transcripts.Export)
		reports.GET("/students/:id/semesters/:semesterId/subjects/:subjectId/result", h.Results.Get)
	}
}
