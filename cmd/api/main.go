package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/campushub/college-api/api/swagger"
	"github.com/campushub/college-api/internal/handler"
	"github.com/campushub/college-api/internal/mailer"
	"github.com/campushub/college-api/internal/middleware"
	"github.com/campushub/college-api/internal/models"
	"github.com/campushub/college-api/internal/repository"
	"github.com/campushub/college-api/internal/service"
	"github.com/campushub/college-api/pkg/cache"
	"github.com/campushub/college-api/pkg/config"
	"github.com/campushub/college-api/pkg/database"
	"github.com/campushub/college-api/pkg/jobs"
	"github.com/campushub/college-api/pkg/logger"
	corsmiddleware "github.com/campushub/college-api/pkg/middleware/cors"
	"github.com/campushub/college-api/pkg/middleware/ratelimit"
	reqidmiddleware "github.com/campushub/college-api/pkg/middleware/requestid"
)

// @title College ERP API
// @version 1.0.0
// @description Attendance, results, fees, and academic calendar management
// @BasePath /api/v1
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

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

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	metricsSvc := service.NewMetricsService()

	var cacheSvc *service.CacheService
	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Warn("redis unavailable, rollup caching disabled")
	} else {
		cacheRepo := repository.NewCacheRepository(redisClient, logr)
		defer cacheRepo.Close()
		cacheSvc = service.NewCacheService(cacheRepo, metricsSvc, 10*time.Minute, logr, true)
	}

	validate := validator.New()

	userRepo := repository.NewUserRepository(db)
	registrationRepo := repository.NewRegistrationRepository(db)
	studentRepo := repository.NewStudentRepository(db)
	facultyRepo := repository.NewFacultyRepository(db)
	attendanceRepo := repository.NewAttendanceRepository(db)
	resultRepo := repository.NewResultRepository(db)
	academicRepo := repository.NewAcademicRepository(db)
	feeRepo := repository.NewFeeRepository(db)
	calendarRepo := repository.NewCalendarRepository(db)

	mail := mailer.FromConfig(cfg.Mail, logr)
	mailQueue := jobs.NewQueue("mail", service.NewMailQueueHandler(mail), jobs.QueueConfig{
		Workers:    cfg.Mail.QueueWorkers,
		MaxRetries: cfg.Mail.QueueRetries,
		Logger:     logr,
	})
	mailQueue.Start(ctx)
	defer mailQueue.Stop()

	profiles := service.NewProfileResolver(studentRepo, facultyRepo)
	authSvc := service.NewAuthService(userRepo, profiles, validate, logr, service.AuthConfig{
		Secret:     cfg.JWT.Secret,
		Expiration: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})
	registrationSvc := service.NewRegistrationService(registrationRepo, userRepo, mail, mailQueue, validate, logr, service.RegistrationConfig{
		FrontendBaseURL: cfg.Mail.FrontendBaseURL,
	})

	attendanceSvc := service.NewAttendanceService(attendanceRepo, cacheSvc, validate, logr)
	resultSvc := service.NewResultService(resultRepo, cacheSvc, validate, logr)
	studentSvc := service.NewStudentService(studentRepo, attendanceSvc, resultSvc, validate, logr)
	facultySvc := service.NewFacultyService(facultyRepo, validate, logr)
	academicSvc := service.NewAcademicService(academicRepo, validate, logr)
	feeSvc := service.NewFeeService(feeRepo, validate, logr)
	calendarSvc := service.NewCalendarService(calendarRepo, validate, logr)
	dashboardSvc := service.NewDashboardService(service.DashboardCounters{
		Students: studentRepo,
		Faculty:  facultyRepo,
		Fees:     feeRepo,
		Calendar: calendarRepo,
		Accounts: userRepo,
	}, cacheSvc, cfg.Dashboard.CacheTTL, logr)
	exportSvc := service.NewExportService(studentSvc, attendanceSvc, resultSvc, logr)

	authHandler := handler.NewAuthHandler(authSvc, registrationSvc)
	studentHandler := handler.NewStudentHandler(studentSvc)
	facultyHandler := handler.NewFacultyHandler(facultySvc)
	attendanceHandler := handler.NewAttendanceHandler(attendanceSvc)
	resultHandler := handler.NewResultHandler(resultSvc)
	academicHandler := handler.NewAcademicHandler(academicSvc, studentSvc)
	feeHandler := handler.NewFeeHandler(feeSvc)
	calendarHandler := handler.NewCalendarHandler(calendarSvc)
	dashboardHandler := handler.NewDashboardHandler(dashboardSvc)
	reportHandler := handler.NewReportHandler(exportSvc)
	metricsHandler := handler.NewMetricsHandler(metricsSvc, db.DB)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Ready)
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	registerRoutes(r, cfg, authSvc,
		authHandler, studentHandler, facultyHandler, attendanceHandler,
		resultHandler, academicHandler, feeHandler, calendarHandler,
		dashboardHandler, reportHandler)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Sugar().Errorw("graceful shutdown failed", "error", err)
	}
}

func registerRoutes(
	r *gin.Engine,
	cfg *config.Config,
	authSvc *service.AuthService,
	auth *handler.AuthHandler,
	students *handler.StudentHandler,
	faculty *handler.FacultyHandler,
	attendance *handler.AttendanceHandler,
	results *handler.ResultHandler,
	academics *handler.AcademicHandler,
	fees *handler.FeeHandler,
	calendar *handler.CalendarHandler,
	dashboard *handler.DashboardHandler,
	reports *handler.ReportHandler,
) {
	api := r.Group(cfg.APIPrefix)

	public := api.Group("/auth")
	if cfg.RateLimit.Enabled {
		public.Use(ratelimit.New(cfg.RateLimit.Burst, cfg.RateLimit.PerMinute).Middleware())
	}
	public.POST("/login", auth.Login)
	public.POST("/register/student", auth.RegisterStudent)
	public.POST("/register/faculty", auth.RegisterFaculty)

	authed := api.Group("")
	authed.Use(middleware.JWT(authSvc))

	account := authed.Group("/auth")
	account.GET("/me", auth.Me)
	account.POST("/change-password", auth.ChangePassword)
	account.POST("/accounts/:id/activate", middleware.RequireRoles(models.RoleAdmin), auth.ActivateAccount)

	studentGroup := authed.Group("/students")
	studentGroup.GET("", middleware.RequireRoles(models.RoleAdmin, models.RoleFaculty), students.List)
	studentGroup.GET("/me", middleware.RequireRoles(models.RoleStudent), students.Me)
	studentGroup.GET("/:id", middleware.RolesOrSelf(models.RoleAdmin, models.RoleFaculty), students.Get)
	studentGroup.GET("/:id/detail", middleware.RolesOrSelf(models.RoleAdmin, models.RoleFaculty), students.Detail)
	studentGroup.PUT("/:id", middleware.RolesOrSelf(models.RoleAdmin), students.Update)
	studentGroup.DELETE("/:id", middleware.RequireRoles(models.RoleAdmin), students.Delete)

	facultyGroup := authed.Group("/faculty")
	facultyGroup.GET("", middleware.RequireRoles(models.RoleAdmin, models.RoleFaculty), faculty.List)
	facultyGroup.GET("/me", middleware.RequireRoles(models.RoleFaculty), faculty.Me)
	facultyGroup.GET("/:id", middleware.RolesOrSelf(models.RoleAdmin, models.RoleFaculty), faculty.Get)
	facultyGroup.PUT("/:id", middleware.RolesOrSelf(models.RoleAdmin), faculty.Update)

	attendanceGroup := authed.Group("/attendance")
	attendanceGroup.POST("", middleware.RequireRoles(models.RoleAdmin, models.RoleFaculty), attendance.Mark)
	attendanceGroup.GET("", middleware.RequireRoles(models.RoleAdmin, models.RoleFaculty), attendance.List)
	attendanceGroup.GET("/report", middleware.RequireRoles(models.RoleAdmin, models.RoleFaculty), attendance.DayReport)
	attendanceGroup.GET("/students/:id", middleware.RolesOrSelf(models.RoleAdmin, models.RoleFaculty), attendance.ListForStudent)
	attendanceGroup.GET("/students/:id/stats", middleware.RolesOrSelf(models.RoleAdmin, models.RoleFaculty), attendance.Stats)
	attendanceGroup.PATCH("/:id", middleware.RequireRoles(models.RoleAdmin, models.RoleFaculty), attendance.UpdateStatus)
	attendanceGroup.DELETE("/:id", middleware.RequireRoles(models.RoleAdmin), attendance.Delete)

	resultGroup := authed.Group("/results")
	resultGroup.POST("", middleware.RequireRoles(models.RoleAdmin, models.RoleFaculty), results.Create)
	resultGroup.GET("", middleware.RequireRoles(models.RoleAdmin, models.RoleFaculty), results.List)
	resultGroup.GET("/students/:id/summary", middleware.RolesOrSelf(models.RoleAdmin, models.RoleFaculty), results.SemesterSummaries)
	resultGroup.PUT("/:id", middleware.RequireRoles(models.RoleAdmin, models.RoleFaculty), results.Update)
	resultGroup.DELETE("/:id", middleware.RequireRoles(models.RoleAdmin), results.Delete)

	noteGroup := authed.Group("/notes")
	noteGroup.POST("", middleware.RequireRoles(models.RoleAdmin, models.RoleFaculty), academics.CreateNote)
	noteGroup.GET("", academics.ListNotes)
	noteGroup.GET("/:id", academics.GetNote)
	noteGroup.DELETE("/:id", middleware.RequireRoles(models.RoleAdmin, models.RoleFaculty), academics.DeleteNote)

	announcementGroup := authed.Group("/announcements")
	announcementGroup.POST("", middleware.RequireRoles(models.RoleAdmin, models.RoleFaculty), academics.CreateAnnouncement)
	announcementGroup.GET("", academics.ListAnnouncements)
	announcementGroup.DELETE("/:id", middleware.RequireRoles(models.RoleAdmin), academics.DeleteAnnouncement)

	feeGroup := authed.Group("/fees")
	feeGroup.POST("", middleware.RequireRoles(models.RoleAdmin), fees.Create)
	feeGroup.GET("/students/:id", middleware.RolesOrSelf(models.RoleAdmin), fees.ListByStudent)
	feeGroup.GET("/:id", middleware.RequireRoles(models.RoleAdmin), fees.Get)
	feeGroup.POST("/:id/payments", middleware.RequireRoles(models.RoleAdmin), fees.RecordPayment)
	feeGroup.GET("/:id/payments", middleware.RequireRoles(models.RoleAdmin), fees.Payments)

	holidayGroup := authed.Group("/holidays")
	holidayGroup.POST("", middleware.RequireRoles(models.RoleAdmin), calendar.CreateHoliday)
	holidayGroup.GET("", calendar.ListHolidays)
	holidayGroup.DELETE("/:id", middleware.RequireRoles(models.RoleAdmin), calendar.DeleteHoliday)

	leaveGroup := authed.Group("/leaves")
	leaveGroup.POST("", middleware.RequireRoles(models.RoleStudent), calendar.ApplyLeave)
	leaveGroup.GET("/me", middleware.RequireRoles(models.RoleStudent), calendar.MyLeaves)
	leaveGroup.GET("/pending", middleware.RequireRoles(models.RoleAdmin, models.RoleFaculty), calendar.PendingLeaves)
	leaveGroup.POST("/:id/review", middleware.RequireRoles(models.RoleAdmin, models.RoleFaculty), calendar.ReviewLeave)

	eventGroup := authed.Group("/events")
	eventGroup.POST("", middleware.RequireRoles(models.RoleAdmin), calendar.CreateEvent)
	eventGroup.GET("", calendar.UpcomingEvents)
	eventGroup.DELETE("/:id", middleware.RequireRoles(models.RoleAdmin), calendar.DeleteEvent)

	if cfg.Dashboard.Enabled {
		authed.GET("/dashboard/system", middleware.RequireRoles(models.RoleAdmin), dashboard.SystemStats)
	}

	if cfg.Exports.Enabled {
		reportGroup := authed.Group("/reports")
		reportGroup.GET("/students/:id/attendance", middleware.RolesOrSelf(models.RoleAdmin, models.RoleFaculty), reports.AttendanceReport)
		reportGroup.GET("/students/:id/results", middleware.RolesOrSelf(models.RoleAdmin, models.RoleFaculty), reports.ResultReport)
	}
}
