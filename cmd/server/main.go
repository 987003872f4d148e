package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fabric-backend/internal/billing"
	"fabric-backend/internal/billstore"
	"fabric-backend/internal/cache"
	"fabric-backend/internal/config"
	"fabric-backend/internal/database"
	"fabric-backend/internal/db"
	"fabric-backend/internal/handlers"
	"fabric-backend/internal/health"
	h "fabric-backend/internal/http"
	"fabric-backend/internal/livefeed"
	"fabric-backend/internal/middleware"
	"fabric-backend/internal/repositories"
	"fabric-backend/internal/repositories/dynamo"
	"fabric-backend/internal/services"
	"fabric-backend/internal/tasks"
	"fabric-backend/internal/whatsapp"
	"fabric-backend/migrations"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/hibiken/asynq"
)

// sideEffectTimeout bounds one background run of bill generation and dispatch
const sideEffectTimeout = 2 * time.Minute

type stores struct {
	jobs     services.JobStore
	expenses services.ExpenseStore
	rates    services.RateStore
	pinger   health.Pinger
	close    func()
}

// openStores connects the configured storage driver. Postgres runs the embedded migrations first.
func openStores(ctx context.Context, cfg *config.Config) stores {
	switch cfg.Database.Driver {
	case "dynamodb":
		client := db.ConnectDynamoDB(cfg)
		tables := cfg.Database.DynamoDB
		log.Printf("[DB] Using DynamoDB tables %s, %s, %s", tables.JobsTable, tables.ExpensesTable, tables.RatesTable)
		return stores{
			jobs:     dynamo.NewJobStore(client, tables.JobsTable),
			expenses: dynamo.NewExpenseStore(client, tables.ExpensesTable),
			rates:    dynamo.NewRateStore(client, tables.RatesTable),
			pinger: health.PingFunc(func(ctx context.Context) error {
				_, err := client.ListTables(ctx, &dynamodb.ListTablesInput{Limit: aws.Int32(1)})
				return err
			}),
			close: func() {},
		}
	case "postgres", "":
		pool := db.Connect(cfg)

		log.Println("Running database migrations...")
		migrateCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
		defer cancel()
		if err := database.NewMigrator(pool, migrations.FS).RunMigrations(migrateCtx); err != nil {
			log.Fatalf("Failed to run migrations: %v", err)
		}

		return stores{
			jobs:     repositories.NewJobRepository(pool),
			expenses: repositories.NewExpenseRepository(pool),
			rates:    repositories.NewRateConfigRepository(pool),
			pinger:   pool,
			close:    pool.Close,
		}
	default:
		log.Fatalf("[DB] unknown database driver %q", cfg.Database.Driver)
		return stores{}
	}
}

func openBillStore(ctx context.Context, cfg *config.Config) services.BillStore {
	if cfg.Bills.Storage == "r2" {
		r2cfg := cfg.Bills.R2
		store, err := billstore.NewR2FromConfig(ctx, billstore.R2Config{
			Endpoint:  r2cfg.Endpoint,
			AccessKey: r2cfg.AccessKey,
			SecretKey: r2cfg.SecretKey,
			Bucket:    r2cfg.Bucket,
			Region:    r2cfg.Region,
			Prefix:    r2cfg.Prefix,
		})
		if err != nil {
			log.Fatalf("[Bill] %v", err)
		}
		return store
	}

	store, err := billstore.NewLocal(cfg.Bills.Dir)
	if err != nil {
		log.Fatalf("[Bill] %v", err)
	}
	log.Printf("[Bill] Storing bills in %s", cfg.Bills.Dir)
	return store
}

func main() {
	cfg := config.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st := openStores(ctx, cfg)
	defer st.close()

	// Redis is optional: without it the dashboard is uncached and side effects run in process
	redisUp := true
	if err := cache.Init(cache.Options{Addr: cfg.RedisAddr(), Password: cfg.Redis.Password, DB: cfg.Redis.DB}); err != nil {
		log.Printf("[Redis] Cache unavailable: %v (side effects will run in process)", err)
		redisUp = false
	} else {
		log.Println("[Redis] Cache connected successfully")
		defer cache.Close()
	}

	bills := openBillStore(ctx, cfg)

	provider := whatsapp.CreateWhatsAppProvider(whatsapp.WhatsAppConfig{
		Provider:      cfg.WhatsApp.Provider,
		AccountSID:    cfg.WhatsApp.AccountSID,
		AuthToken:     cfg.WhatsApp.AuthToken,
		FromNumber:    cfg.WhatsApp.FromNumber,
		APIKey:        cfg.WhatsApp.APIKey,
		PhoneNumberID: cfg.WhatsApp.PhoneNumberID,
		BaseURL:       cfg.WhatsApp.BaseURL,
	})
	sender := whatsapp.NewRateLimited(provider, cfg.WhatsApp.MaxPerSecond, cfg.WhatsApp.Burst)

	biz := cfg.Bills.Business
	business := billing.Business{
		Name:     biz.Name,
		Address:  biz.Address,
		Email:    biz.Email,
		Contacts: biz.Contacts,
		GSTIN:    biz.GSTIN,
		LogoPath: biz.LogoPath,
	}

	// Initialize services
	jobService := services.NewJobService(st.jobs)
	rateService := services.NewRateService(st.rates)
	expenseService := services.NewExpenseService(st.expenses)
	invoiceService := services.NewInvoiceService(bills, st.jobs, business, cfg.Bills.PublicBaseURL)
	notificationService := services.NewNotificationService(sender, st.jobs, invoiceService)
	dashboardService := services.NewDashboardService(st.jobs, st.expenses)
	stageService := services.NewStageService(st.jobs, st.expenses, rateService, invoiceService, notificationService)
	stageService.StrictTransitions = cfg.Workflow.StrictTransitions

	hub := livefeed.NewHub()
	stageService.Observer = hub
	go hub.Run(ctx)

	var inline *tasks.InlineQueue
	workerDone := make(chan struct{})
	if redisUp {
		redisOpts := asynq.RedisClientOpt{Addr: cfg.RedisAddr(), Password: cfg.Redis.Password, DB: cfg.Redis.DB}
		queue := tasks.NewAsynqQueue(redisOpts)
		defer queue.Close()
		stageService.Queue = queue

		worker := tasks.NewWorker(redisOpts, stageService, cfg.Workflow.TaskConcurrency)
		go func() {
			defer close(workerDone)
			if err := worker.Run(ctx); err != nil {
				log.Printf("[Tasks] Worker stopped: %v", err)
			}
		}()
		log.Printf("[Tasks] Side effects queued through Redis (concurrency %d)", cfg.Workflow.TaskConcurrency)
	} else {
		inline = tasks.NewInlineQueue(stageService, sideEffectTimeout)
		stageService.Queue = inline
		close(workerDone)
	}

	healthChecker := health.NewHealthChecker(st.pinger, cfg.Database.Driver)

	router := h.NewRouter(h.Handlers{
		Job:       handlers.NewJobHandler(jobService, stageService),
		Expense:   handlers.NewExpenseHandler(expenseService),
		Rate:      handlers.NewRateHandler(rateService),
		Bill:      handlers.NewBillHandler(invoiceService, notificationService),
		Dashboard: handlers.NewDashboardHandler(dashboardService),
		Health:    handlers.NewHealthHandler(healthChecker),
		Live:      hub,
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           middleware.NewCORS(cfg)(router),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("Server running on %s (storage: %s, bills: %s, whatsapp: %s)",
			srv.Addr, cfg.Database.Driver, cfg.Bills.Storage, sender.GetName())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Graceful shutdown failed: %v", err)
	}
	if inline != nil {
		if err := inline.Wait(shutdownCtx); err != nil {
			log.Printf("[Tasks] Gave up waiting for side effects: %v", err)
		}
	}
	select {
	case <-workerDone:
	case <-shutdownCtx.Done():
		log.Printf("[Tasks] Gave up waiting for worker: %v", shutdownCtx.Err())
	}
}
