package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/anjiri1684/cricket_coach/apiclient"
	"github.com/anjiri1684/cricket_coach/cache"
	config "github.com/anjiri1684/cricket_coach/configs"
	"github.com/anjiri1684/cricket_coach/handlers"
	"github.com/anjiri1684/cricket_coach/jobs"
	"github.com/anjiri1684/cricket_coach/lifecycle"
	"github.com/anjiri1684/cricket_coach/middleware"
	"github.com/anjiri1684/cricket_coach/notifications"
	"github.com/anjiri1684/cricket_coach/routes"
	"github.com/anjiri1684/cricket_coach/services"
	"github.com/anjiri1684/cricket_coach/session"
	"github.com/anjiri1684/cricket_coach/utils"
	"github.com/anjiri1684/cricket_coach/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/robfig/cron/v3"
)

func main() {
	cfg, foundEnv, err := config.LoadConfig()
	if err != nil {
		bootLog := utils.NewLogger("production")
		bootLog.Fatal().Err(err).Msg("load config")
	}
	log := utils.NewLogger(cfg.AppEnv)
	if !foundEnv {
		log.Info().Msg("no .env file found, using process environment")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	resolver := lifecycle.NewResolver(cfg.Location)
	sessions := session.NewProvider(cfg.SessionIdleTimeout, log.With().Str("component", "sessions").Logger())

	api := apiclient.New(cfg.APIBaseURL,
		apiclient.WithTimeout(cfg.APITimeout),
		apiclient.WithLogger(log.With().Str("component", "apiclient").Logger()),
	)
	api.SetUnauthorizedHandler(func(token string) {
		sessions.Teardown(token)
	})

	var store cache.Store = cache.NewMemory()
	if cfg.RedisAddr != "" {
		if rdb := cache.Connect(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB); rdb != nil {
			defer rdb.Close()
			store = cache.NewRedis(rdb, "cricket:catalog:")
			log.Info().Str("addr", cfg.RedisAddr).Msg("catalog cache on redis")
		} else {
			log.Warn().Str("addr", cfg.RedisAddr).Msg("redis unreachable, using in-memory catalog cache")
		}
	}

	hub := websocket.NewHub(log.With().Str("component", "hub").Logger())
	go hub.Run(ctx)
	notifier := notifications.NewDispatcher(log.With().Str("component", "notifications").Logger(), hub)

	poller := jobs.NewPoller(api, cfg.PaymentPollInterval, cfg.PaymentPollTimeout, log.With().Str("component", "poller").Logger())
	catalogService := services.NewCatalogService(api, store, cfg.CatalogCacheTTL, log)
	bookingService := services.NewBookingService(api, resolver, notifier, log)
	paymentService := services.NewPaymentService(api, poller, notifier, log)
	availabilityService := services.NewAvailabilityService(api, resolver, log)
	adminService := services.NewAdminService(api, resolver, catalogService, log)
	authService := services.NewAuthService(api, sessions, log)

	scheduler := cron.New()
	if err := jobs.Schedule(scheduler, cfg.AutoCompleteSchedule, "auto-complete sessions", func() {
		jobs.AutoCompleteSessions(ctx, sessions, bookingService, log)
	}, log); err != nil {
		log.Fatal().Err(err).Msg("schedule auto-complete")
	}
	if err := jobs.Schedule(scheduler, cfg.SessionSweepSchedule, "sweep sessions", func() {
		jobs.SweepSessions(sessions, time.Now(), log)
	}, log); err != nil {
		log.Fatal().Err(err).Msg("schedule session sweep")
	}
	reminderWindow := 5 * time.Minute
	if cfg.ReminderSchedule != "" {
		if reminderWindow, err = jobs.Interval(cfg.ReminderSchedule, time.Now()); err != nil {
			log.Fatal().Err(err).Msg("parse reminder schedule")
		}
	}
	reminders := jobs.NewReminders(sessions, resolver, notifier, cfg.ReminderLead, reminderWindow, log.With().Str("component", "reminders").Logger())
	if err := jobs.Schedule(scheduler, cfg.ReminderSchedule, "session reminders", func() {
		reminders.Send(time.Now())
	}, log); err != nil {
		log.Fatal().Err(err).Msg("schedule reminders")
	}
	scheduler.Start()
	defer scheduler.Stop()

	app := fiber.New(fiber.Config{
		AppName:      "Cricket Coach",
		Immutable:    true,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			var e *fiber.Error
			if errors.As(err, &e) {
				code = e.Code
			}
			log.Error().Err(err).Str("path", c.Path()).Str("method", c.Method()).Int("status", code).Msg("request failed")
			return c.Status(code).JSON(fiber.Map{"error": err.Error()})
		},
	})

	app.Use(requestid.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORSOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, Sec-WebSocket-Key, Sec-WebSocket-Version",
		AllowMethods: "GET, POST, PUT, PATCH, DELETE, OPTIONS",
		MaxAge:       86400,
	}))
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		TimeFormat: "2006-01-02 15:04:05",
		TimeZone:   cfg.Location.String(),
		Format:     "[${time}] ${locals:requestid} ${status} - ${latency} ${method} ${path}\n",
	}))

	attach := middleware.AttachSession(sessions)
	guard := routes.Guard{middleware.Protected(cfg.JWTSecret), attach}

	availabilityHandler := handlers.NewAvailabilityHandler(availabilityService)
	routes.PublicRoutes(app, handlers.NewCatalogHandler(catalogService), availabilityHandler)
	routes.AuthRoutes(app, guard, handlers.NewAuthHandler(authService))
	routes.BookingRoutes(app, guard, handlers.NewBookingHandler(bookingService))
	routes.PaymentRoutes(app, guard, handlers.NewPaymentHandler(paymentService))
	routes.CoachRoutes(app, guard, availabilityHandler)
	routes.AdminRoutes(app, guard, handlers.NewAdminHandler(adminService))
	routes.NotificationRoutes(app, attach, handlers.NewNotificationHandler(hub, sessions, log))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "sessions": sessions.Len()})
	})

	go func() {
		<-ctx.Done()
		log.Info().Msg("shutting down")
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			log.Error().Err(err).Msg("shutdown")
		}
	}()

	log.Info().Str("port", cfg.Port).Str("api", cfg.APIBaseURL).Msg("server starting")
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("server failed to start")
	}
}
