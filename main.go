package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"github.com/robfig/cron/v3"

	"schoolhub_backend/internals/configs"
	database "schoolhub_backend/internals/databases"
	admissionService "schoolhub_backend/internals/features/admissions/service"
	dashboardService "schoolhub_backend/internals/features/dashboard/service"
	expenseService "schoolhub_backend/internals/features/finance/expenses/service"
	feeService "schoolhub_backend/internals/features/finance/fees/service"
	payrollScheduler "schoolhub_backend/internals/features/finance/payroll/scheduler"
	payrollService "schoolhub_backend/internals/features/finance/payroll/service"
	summaryService "schoolhub_backend/internals/features/finance/summary/service"
	homeService "schoolhub_backend/internals/features/home/service"
	attendanceService "schoolhub_backend/internals/features/school/attendance/service"
	classService "schoolhub_backend/internals/features/school/classes/service"
	examService "schoolhub_backend/internals/features/school/exams/service"
	studentService "schoolhub_backend/internals/features/school/students/service"
	subjectService "schoolhub_backend/internals/features/school/subjects/service"
	teacherService "schoolhub_backend/internals/features/school/teachers/service"
	authScheduler "schoolhub_backend/internals/features/users/auth/scheduler"
	authService "schoolhub_backend/internals/features/users/auth/service"
	"schoolhub_backend/internals/helpers/mailer"
	helperOSS "schoolhub_backend/internals/helpers/oss"
	"schoolhub_backend/internals/helpers/reporter"
	middlewares "schoolhub_backend/internals/middlewares"
	routes "schoolhub_backend/internals/route"
	routeDetails "schoolhub_backend/internals/route/details"
	"schoolhub_backend/internals/seeds"
	"schoolhub_backend/internals/web"
)

func main() {
	configs.LoadEnv()
	log := configs.Logger("main")

	reporter.Init()
	defer reporter.Close()

	// DB connect + pool + warm-up
	database.ConnectDB()
	database.TunePool()
	database.WarmUpQueries()
	if err := database.AutoMigrate(database.DB); err != nil {
		log.Fatal().Err(err).Msg("[DB] migrate failed")
	}
	if configs.GetBool("SEED_ON_START") {
		if err := seeds.RunAllSeeds(context.Background(), database.DB); err != nil {
			log.Error().Err(err).Msg("[SEED] failed")
		}
	}

	app := fiber.New(fiber.Config{
		JSONEncoder:             sonic.Marshal,
		JSONDecoder:             sonic.Unmarshal,
		Views:                   web.Engine(),
		ErrorHandler:            middlewares.ErrorHandler,
		BodyLimit:               12 * 1024 * 1024,
		DisableStartupMessage:   true,
		ProxyHeader:             fiber.HeaderXForwardedFor,
		EnableTrustedProxyCheck: true,
		TrustedProxies:          []string{"0.0.0.0/0"},
	})
	middlewares.SetupMiddlewares(app)

	svc := buildServices(context.Background())
	routes.SetupRoutes(app, database.DB, svc)

	var jobs *cron.Cron
	if configs.GetBool("SCHEDULER_ENABLED") {
		jobs = cron.New(cron.WithLocation(time.UTC))
		if _, err := authScheduler.RegisterBlacklistCleanup(jobs, svc.Auth.Blacklist); err != nil {
			log.Error().Err(err).Msg("[CRON] blacklist cleanup")
		}
		if _, err := payrollScheduler.RegisterMonthlyPayroll(jobs, svc.Finance.Payroll); err != nil {
			log.Error().Err(err).Msg("[CRON] monthly payroll")
		}
		jobs.Start()
	}

	app.Server().ReadTimeout = 15 * time.Second
	app.Server().WriteTimeout = 30 * time.Second
	app.Server().IdleTimeout = 90 * time.Second

	port := configs.GetEnv("PORT", "3000")
	go func() {
		log.Info().Str("port", port).Msg("listening")
		if err := app.Listen("0.0.0.0:" + port); err != nil {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	// graceful shutdown: stop jobs, drain requests, close the pool
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	if jobs != nil {
		<-jobs.Stop().Done()
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = app.ShutdownWithContext(ctx)

	if sqlDB, err := database.DB.DB(); err == nil {
		_ = sqlDB.Close()
	}
	log.Info().Msg("stopped")
}

func buildServices(ctx context.Context) *routes.Services {
	db := database.DB
	store := helperOSS.NewBlobStoreFromEnv(configs.GetEnv("OSS_PREFIX", "schoolhub"))
	mail := mailer.New()

	serverKey := configs.GetEnv("MIDTRANS_SERVER_KEY")
	if serverKey == "" {
		configs.Logger("main").Warn().Msg("[MIDTRANS] MIDTRANS_SERVER_KEY is not set, payment notifications will be rejected")
	}
	gateway := feeService.NewMidtransGateway(serverKey, configs.GetBool("MIDTRANS_USE_PROD"))

	return &routes.Services{
		Auth: authService.NewAuthService(db, authService.NewBlacklistFromEnv(ctx, db)),
		School: routeDetails.School{
			Classes:    classService.NewClassService(db),
			Subjects:   subjectService.NewSubjectService(db),
			Teachers:   teacherService.NewTeacherService(db),
			Students:   studentService.NewStudentService(db, store),
			Exams:      examService.NewExamService(db),
			Attendance: attendanceService.NewAttendanceService(db),
		},
		Finance: routeDetails.Finance{
			Fees:     feeService.NewFeeService(db, gateway, serverKey),
			Expenses: expenseService.NewExpenseService(db),
			Payroll:  payrollService.NewPayrollService(db, configs.LoadPayrollPolicy()),
			Summary:  summaryService.NewSummaryService(db),
		},
		Site: routeDetails.Site{
			Home:       homeService.NewHomeService(db, mail),
			Admissions: admissionService.NewAdmissionService(db, store, mail),
			Dashboard:  dashboardService.NewDashboardService(db),
		},
	}
}
