package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"turnero/config"
	"turnero/cron"
	"turnero/database"
	appointmentRepo "turnero/database/repository/appointment"
	conversationRepo "turnero/database/repository/conversation"
	professionalRepo "turnero/database/repository/professional"
	"turnero/handlers"
	"turnero/middleware"
	"turnero/models"
	"turnero/routes"
	"turnero/services/availability"
	"turnero/services/booking"
	"turnero/services/calendar"
	"turnero/services/conversation"
	"turnero/services/extraction"
	"turnero/services/messaging"
	"turnero/services/pending"
	"turnero/services/tasks"
	"turnero/utils"

	"github.com/gin-gonic/gin"
	"google.golang.org/api/option"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitOfferCache()

	if err := appointmentRepo.EnsureIndexes(); err != nil {
		logger.Sugar().Warnf("main: failed to ensure indexes: %v", err)
	}

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware())

	// repositories.
	profRepo := professionalRepo.NewMongoProfessionalRepo()
	apptRepo := appointmentRepo.NewMongoAppointmentRepo()
	convRepo := conversationRepo.NewMongoConversationRepo()

	// services.
	heuristic := extraction.NewHeuristicExtractor()
	var extractor extraction.Extractor = heuristic
	if config.AppConfig.ExtractionMode == "llm" && config.AppConfig.GeminiAPIKey != "" {
		gem, err := extraction.NewGeminiExtractor(config.AppConfig.GeminiAPIKey)
		if err != nil {
			logger.Sugar().Warnf("main: gemini init failed, using heuristic extraction: %v", err)
		} else {
			extractor = &extraction.FallbackExtractor{Delegate: gem, Heuristic: heuristic}
		}
	}

	var calProvider calendar.Provider = calendar.SimulatedProvider{}
	mode := availability.ModeSimulate
	if config.AppConfig.CalendarMode == "real" {
		mode = availability.ModeReal
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		gp, err := calendar.NewGoogleProvider(ctx,
			option.WithCredentialsFile(config.AppConfig.GoogleCredentialsFile))
		cancel()
		if err != nil {
			logger.Sugar().Warnf("main: google calendar init failed, continuing without sync: %v", err)
			calProvider = nil
		} else {
			calProvider = gp
		}
	}

	engine := &availability.DefaultEngine{
		Mode:          mode,
		Appointments:  apptRepo,
		Professionals: profRepo,
		Calendar:      calProvider,
		HorizonDays:   config.AppConfig.SearchHorizonDays,
		Hours: models.WorkingHours{
			StartHour:    config.AppConfig.WorkdayStartHour,
			EndHour:      config.AppConfig.WorkdayEndHour,
			WeekdaysOnly: config.AppConfig.WeekdaysOnly,
		},
	}

	initialStatus := models.StatusPending
	if config.AppConfig.BookingInitialStatus == "confirmed" {
		initialStatus = models.StatusConfirmed
	}
	committer := &booking.DefaultCommitter{
		Repo:          apptRepo,
		Calendar:      calProvider,
		InitialStatus: initialStatus,
	}

	offerTTL := time.Duration(config.AppConfig.OfferTTLMin) * time.Minute
	offers := pending.NewRedisStore(utils.GetOfferCacheClient(), offerTTL)

	sender := messaging.NewWhatsAppSender(
		config.AppConfig.WhatsAppToken,
		config.AppConfig.WhatsAppPhoneID,
	)

	reminders := tasks.NewScheduler(config.AppConfig.ReminderLeadMin)
	cron.InitReminderWorker(sender, apptRepo)

	orchestrator := &conversation.Orchestrator{
		Professionals:      profRepo,
		Conversations:      convRepo,
		Extractor:          extractor,
		Engine:             engine,
		Offers:             offers,
		Committer:          committer,
		Sender:             sender,
		Reminders:          reminders,
		SlotCount:          config.AppConfig.OfferSlotCount,
		DefaultDurationMin: config.AppConfig.DefaultDurationMin,
	}

	webhookHandler := handlers.NewWebhookHandler(orchestrator, config.AppConfig.WhatsAppVerifyToken)
	botHandler := handlers.NewBotHandler(orchestrator)
	adminHandler := handlers.NewAdminHandler(apptRepo, profRepo, convRepo)

	routes.RegisterRoutes(router, webhookHandler, botHandler, adminHandler)

	// Start the HTTP server.
	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
