package main

import (
	"context"

	"github.com/subastando/auction-api/internal/auction/application"
	auctionhttp "github.com/subastando/auction-api/internal/auction/infra/http"
	"github.com/subastando/auction-api/internal/auction/infra/repository/postgres"
	"github.com/subastando/auction-api/internal/finalizer"
	"github.com/subastando/auction-api/internal/notifier"
	"github.com/subastando/auction-api/internal/shared/config"
	"github.com/subastando/auction-api/internal/shared/db"
	"github.com/subastando/auction-api/internal/shared/db/migrations"
	"github.com/subastando/auction-api/internal/shared/httpserver"
	"github.com/subastando/auction-api/internal/shared/logger"
	"go.uber.org/zap"
)

func main() {
	log := logger.GetLogger()
	defer log.Sync()

	log.Info("Starting auction API server...")

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Configuration failed", zap.Error(err))
	}

	if err := migrations.Run(cfg.PostgresDSN()); err != nil {
		log.Fatal("Database migration failed", zap.Error(err))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool, err := db.NewPostgresPool(ctx, cfg)
	if err != nil {
		log.Fatal("Database connection failed", zap.Error(err))
	}
	defer pool.Close()

	auctionRepo := postgres.NewAuctionRepository(pool)
	bidRepo := postgres.NewBidRepository(pool)
	categoryRepo := postgres.NewCategoryRepository(pool)
	profileRepo := postgres.NewProfileRepository(pool)
	txManager := postgres.NewTxManager(pool)

	mailer := notifier.NewResendNotifier(cfg.ResendAPIKey, cfg.ResendFromEmail, cfg.NotifyEmail)

	settleUC := application.NewSettleUseCase(auctionRepo, bidRepo, profileRepo, txManager, mailer, nil)
	placeBidUC := application.NewPlaceBidUseCase(auctionRepo, bidRepo, txManager, settleUC)
	listingUC := application.NewListingUseCase(auctionRepo, bidRepo, categoryRepo, nil)
	queryUC := application.NewQueryUseCase(auctionRepo, bidRepo, categoryRepo, profileRepo)
	svc := application.NewAuctionService(placeBidUC, settleUC, listingUC, queryUC)

	sweeper := finalizer.New(auctionRepo, svc, cfg.FinalizerInterval, nil)
	go sweeper.Run(ctx)

	server := httpserver.New()
	handler := auctionhttp.NewHandler(svc, auctionhttp.NewAdminAuth(cfg))
	handler.Register(server.App())

	if err := server.Start(cfg.HTTPAddr, cancel); err != nil {
		log.Fatal("HTTP server failed", zap.Error(err))
	}
}
