package main

import (
	"context"
	"fmt"
	"time"

	common_api "go-transfer/internal/common/api"
	"go-transfer/internal/common/errs"
	"go-transfer/internal/config"
	"go-transfer/internal/database"
	"go-transfer/internal/features/audit"
	"go-transfer/internal/features/calendar"
	"go-transfer/internal/features/contact"
	"go-transfer/internal/features/email"
	"go-transfer/internal/features/notification"
	"go-transfer/internal/features/process"
	"go-transfer/internal/features/reminder"
	"go-transfer/internal/features/system"
	"go-transfer/internal/logger"
	"go-transfer/internal/middleware"
	"go-transfer/pkg/utils"

	_ "go-transfer/docs" // Import swagger docs

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// NewFiberServer creates a new Fiber app instance
func NewFiberServer() *fiber.App {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error": err.Error(),
			})
		},
	})

	app.Use(middleware.CORSMiddleware())

	return app
}

// AsRoute is a helper function to reduce boilerplate.
// It tags the constructor so Fx knows to add it to the "routes" group.
func AsRoute(f any) any {
	return fx.Annotate(
		f,
		fx.As(new(common_api.Route)),
		fx.ResultTags(`group:"routes"`),
	)
}

// RegisterAllRoutes takes the group "routes" (slice of interfaces)
// and calls Setup() on each one.
func RegisterAllRoutes(app *fiber.App, routes []common_api.Route, log *zap.Logger) {
	log.Info("Registering routes", zap.Int("count", len(routes)))
	for _, route := range routes {
		log.Debug("Setting up route", zap.String("route", fmt.Sprintf("%T", route)))
		route.Setup(app)
	}
}

var RegisterAllRoutesWithAnnotation = fx.Annotate(
	RegisterAllRoutes,
	fx.ParamTags(``, `group:"routes"`, ``),
)

// StartServer creates a lifecycle hook to start Fiber in a goroutine
// and shut it down when the app exits.
func StartServer(lc fx.Lifecycle, app *fiber.App, cfg *config.Config, log *zap.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				port := fmt.Sprintf(":%s", cfg.Port)
				if err := app.Listen(port); err != nil {
					log.Fatal("Server failed to start", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return app.Shutdown()
		},
	})
}

// InitializeIndexes ensures that necessary database indexes are created
func InitializeIndexes(lc fx.Lifecycle, processRepo process.ProcessRepository, notificationRepo notification.NotificationRepository, log *zap.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
				defer cancel()

				if err := processRepo.EnsureIndexes(ctx); err != nil {
					log.Warn("Failed to ensure process indexes", zap.Error(err))
				}
				if err := notificationRepo.EnsureIndexes(ctx); err != nil {
					log.Warn("Failed to ensure notification indexes", zap.Error(err))
				}
			}()
			return nil
		},
	})
}

// StartWorkflow loads the working set and then starts the reminder tick so
// the first tick already sees every stored reminder.
func StartWorkflow(lc fx.Lifecycle, processes process.ProcessService, scheduler *reminder.Scheduler, notifications notification.NotificationService, log *zap.Logger) {
	processes.OnStatusChange(notifications.StatusChanged)

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			g, gctx := errgroup.WithContext(ctx)
			g.Go(func() error {
				return processes.Load(gctx)
			})
			g.Go(func() error {
				granted, err := notifications.RequestAuthorization(gctx)
				if err == nil && !granted {
					log.Warn("Notifications are disabled; reminders will only be listed")
				}
				return err
			})
			if err := g.Wait(); err != nil {
				return fmt.Errorf("failed to start workflow: %w", err)
			}
			return scheduler.Start(ctx)
		},
		OnStop: func(ctx context.Context) error {
			return scheduler.Stop()
		},
	})
}

// @title           Transfer Workflow API
// @version         1.0
// @description     Processes, reminders and email drafts for a player agency.
// @host            localhost:8000
// @BasePath        /
func main() {
	app := fx.New(
		fx.Provide(
			// Load Config
			config.LoadConfig,
			// Initialize Logger
			logger.NewLogger,
			// Initialize Fiber Server
			NewFiberServer,
			// Initialize Database
			database.NewDatabase,
			system.NewRegistry,
			errs.NewQueue,
			reminder.NewSystemClock,
			email.DefaultPrompts,
			// Initialize Repository
			audit.NewAuditRepository,
			process.NewProcessRepository,
			contact.NewContactRepository,
			notification.NewNotificationRepository,
			calendar.NewEventRepository,
			email.NewEmailRepository,
			// Initialize Services
			audit.NewAuditService,
			process.NewProcessService,
			reminder.NewMetrics,
			reminder.NewScheduler,
			notification.NewHub,
			notification.NewNotificationService,
			calendar.NewCalendarService,
			email.NewHTTPGenerator,
			email.NewSMTPMailer,
			email.NewComposer,
			email.NewEmailService,
			// Interface Adapters to break circular dependencies and satisfy Fx
			func(r *prometheus.Registry) prometheus.Registerer { return r },
			func(r contact.ContactRepository) contact.Directory { return r },
			func(s *reminder.Scheduler) process.ReminderSink { return s },
			func(s notification.NotificationService) reminder.Notifier { return s },
			func(s calendar.CalendarService) reminder.Calendar { return s },
			// Initialize Controller
			audit.NewAuditController,
			process.NewProcessController,
			contact.NewContactController,
			reminder.NewReminderController,
			notification.NewNotificationController,
			calendar.NewCalendarController,
			email.NewEmailController,
			system.NewAlertController,
			// Initialize API Routes
			AsRoute(audit.NewAuditApi),
			AsRoute(process.NewProcessApi),
			AsRoute(contact.NewContactApi),
			AsRoute(reminder.NewReminderApi),
			AsRoute(notification.NewNotificationApi),
			AsRoute(calendar.NewCalendarApi),
			AsRoute(email.NewEmailApi),
			AsRoute(system.NewAlertApi),
			AsRoute(system.NewHealthApi),
			AsRoute(system.NewMetricsApi),
			AsRoute(system.NewSwaggerApi),
		),
		fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: log}
		}),
		fx.Invoke(
			func(cfg *config.Config) { utils.SetSecret(cfg.JWTSecret) },
			RegisterAllRoutesWithAnnotation,
			StartServer,
			InitializeIndexes,
			StartWorkflow,
		),
	)

	app.Run()
}
