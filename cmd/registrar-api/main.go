package main

import (
	"fmt"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/acadops/registrar-api/api/swagger"
	"github.com/acadops/registrar-api/internal/handler"
	"github.com/acadops/registrar-api/internal/middleware"
	"github.com/acadops/registrar-api/internal/repository"
	"github.com/acadops/registrar-api/internal/service"
	"github.com/acadops/registrar-api/pkg/cache"
	"github.com/acadops/registrar-api/pkg/config"
	"github.com/acadops/registrar-api/pkg/database"
	"github.com/acadops/registrar-api/pkg/export"
	"github.com/acadops/registrar-api/pkg/logger"
	corsmiddleware "github.com/acadops/registrar-api/pkg/middleware/cors"
	reqidmiddleware "github.com/acadops/registrar-api/pkg/middleware/requestid"
)

// @title Registrar API
// @version 1.0.0
// @description Academic records administration and public result lookup
// @BasePath /api/v1
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		// The limiter fails open, so a missing Redis degrades rather
		// than blocks startup.
		logr.Sugar().Warnw("redis unavailable, lookup rate limiting disabled", "error", err)
		redisClient = nil
	}

	validate := validator.New()

	departmentRepo := repository.NewDepartmentRepository(db)
	batchRepo := repository.NewBatchRepository(db)
	subjectRepo := repository.NewSubjectRepository(db)
	semesterRepo := repository.NewSemesterRepository(db)
	lectureRepo := repository.NewLectureRepository(db)
	teacherRepo := repository.NewTeacherRepository(db)
	studentRepo := repository.NewStudentRepository(db)
	resultRepo := repository.NewResultRepository(db)
	userRepo := repository.NewUserRepository(db)

	metricsSvc := service.NewMetricsService()
	authSvc := service.NewAuthService(userRepo, validate, logr, service.AuthConfig{
		Secret:     cfg.JWT.Secret,
		Expiration: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	}, nil)
	departmentSvc := service.NewDepartmentService(departmentRepo, validate, logr)
	batchSvc := service.NewBatchService(batchRepo, departmentRepo, validate, logr, nil)
	subjectSvc := service.NewSubjectService(subjectRepo, departmentRepo, validate, logr)
	curriculumSvc := service.NewCurriculumService(semesterRepo, subjectRepo, batchRepo, validate, logr, nil)
	lectureSvc := service.NewLectureService(lectureRepo, teacherRepo, semesterRepo, validate, logr, nil)
	teacherSvc := service.NewTeacherService(teacherRepo, departmentRepo, validate, logr)
	studentSvc := service.NewStudentService(studentRepo, departmentRepo, batchRepo, validate, logr)
	resultSvc := service.NewResultService(resultRepo, studentRepo, subjectRepo, semesterRepo, validate, logr)
	transcriptSvc := service.NewTranscriptService(
		studentRepo, batchRepo, semesterRepo, subjectRepo, resultRepo,
		export.NewCSVExporter(),
		export.NewPDFExporter(cfg.Export.InstitutionName, cfg.Export.FooterNote),
		logr,
	)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	handler.Register(r, handler.Handlers{
		Auth:        handler.NewAuthHandler(authSvc),
		Departments: handler.NewDepartmentHandler(departmentSvc),
		Batches:     handler.NewBatchHandler(batchSvc),
		Subjects:    handler.NewSubjectHandler(subjectSvc),
		Semesters:   handler.NewSemesterHandler(curriculumSvc),
		Lectures:    handler.NewLectureHandler(lectureSvc),
		Teachers:    handler.NewTeacherHandler(teacherSvc),
		Students:    handler.NewStudentHandler(studentSvc),
		Results:     handler.NewResultHandler(resultSvc, metricsSvc),
		Transcripts: handler.NewTranscriptHandler(transcriptSvc),
	}, handler.RouterDeps{
		Auth:    authSvc,
		Metrics: metricsSvc,
		Redis:   redisClient,
		Lookup:  cfg.Lookup,
		Logger:  logr,
	})

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
