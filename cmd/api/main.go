package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/xenocrm/crm-backend/api/routes"
	"github.com/xenocrm/crm-backend/internal/config"
	"github.com/xenocrm/crm-backend/internal/handlers"
	"github.com/xenocrm/crm-backend/internal/repositories"
	mongorepo "github.com/xenocrm/crm-backend/internal/repositories/mongodb"
	"github.com/xenocrm/crm-backend/internal/services"
	"github.com/xenocrm/crm-backend/pkg/emailgateway"
	"github.com/xenocrm/crm-backend/pkg/genai"
	"github.com/xenocrm/crm-backend/pkg/mongodb"
)

func main() {
	// Load .env if present, real environment wins
	if err := godotenv.Load(); err != nil {
		log.Println("[INFO] No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	mongoClient, err := mongodb.NewClient(cfg.MongoDB.URI)
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer func() {
		if err := mongoClient.Disconnect(context.Background()); err != nil {
			log.Printf("[ERROR] Error disconnecting from MongoDB: %v", err)
		}
	}()

	db := mongoClient.Database(cfg.MongoDB.Database)

	// Repositories
	var customerRepo repositories.CustomerRepository = mongorepo.NewCustomerRepository(db)
	var orderRepo repositories.OrderRepository = mongorepo.NewOrderRepository(db)
	var campaignRepo repositories.CampaignRepository = mongorepo.NewCampaignRepository(db)
	var logRepo repositories.CommunicationLogRepository = mongorepo.NewCommunicationLogRepository(db)
	var adminUserRepo repositories.AdminUserRepository = mongorepo.NewAdminUserRepository(db)

	// External gateways
	gateway := emailgateway.NewHTTPGateway(
		cfg.Email.BaseURL,
		cfg.Email.APIKey,
		cfg.Email.FromName,
		cfg.Email.FromEmail,
		cfg.Email.MockEmail,
	)
	generator := genai.NewClient(cfg.GenAI.BaseURL, cfg.GenAI.APIKey, cfg.GenAI.Model, cfg.GenAI.MockGenAI)

	// Services
	audienceService := services.NewAudienceService(customerRepo)
	customerService := services.NewCustomerService(customerRepo)
	orderService := services.NewOrderService(orderRepo, customerRepo)
	campaignService := services.NewCampaignService(campaignRepo, logRepo, audienceService)
	dispatcher := services.NewCampaignDispatcher(campaignRepo, logRepo, audienceService, gateway, cfg.Delivery)
	aiService := services.NewAIService(generator)
	authService := services.NewAuthService(adminUserRepo, cfg)

	// Retry deliveries that were interrupted by a previous shutdown
	if recovered, err := dispatcher.RecoverPending(context.Background()); err != nil {
		log.Printf("[WARN] Pending delivery recovery failed: %v", err)
	} else if recovered > 0 {
		log.Printf("[INFO] Recovered %d pending deliveries", recovered)
	}

	// Handlers
	handlerDeps := routes.HandlerDependencies{
		AuthHandler:      handlers.NewAuthHandler(authService),
		CustomerHandler:  handlers.NewCustomerHandler(customerService),
		OrderHandler:     handlers.NewOrderHandler(orderService),
		CampaignHandler:  handlers.NewCampaignHandler(campaignService, audienceService, dispatcher, gateway),
		AIHandler:        handlers.NewAIHandler(aiService),
		AnalyticsHandler: handlers.NewAnalyticsHandler(customerService, orderService, campaignService, dispatcher),
	}

	router := routes.SetupRouter(cfg, handlerDeps)

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	log.Printf("Server starting on port %s", cfg.Server.Port)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown: ", err)
	}

	// Stop in-flight campaign deliveries; interrupted logs stay PENDING
	// and are picked up by the recovery sweep on next start.
	dispatcher.Stop()

	log.Println("Server exiting")
}
