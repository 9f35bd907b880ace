package main

import (
	"os"

	"app/internal/config"
	"app/internal/domain/model"
	"app/internal/handler"
	"app/internal/infra/db"
	infraRepo "app/internal/infra/repository"
	"app/internal/server"
	"app/internal/shipping"
	"app/internal/usecase"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	//.envは無くてもよい（本番は環境変数で渡す）
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("config load failed")
	}

	if cfg.GoEnv == "dev" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	//DB接続
	gormDB, err := db.Connect()
	if err != nil {
		log.Fatal().Err(err).Msg("db connect failed")
	}

	if err := gormDB.AutoMigrate(
		&model.User{},
		&model.Product{},
		&model.CartItem{},
		&model.Order{},
		&model.OrderItem{},
		&model.Payment{},
		&model.ShippingAddress{},
		&model.ShippingOrder{},
		&model.Notification{},
	); err != nil {
		log.Fatal().Err(err).Msg("migration failed")
	}

	//Repository（GORM実装）生成
	txManager := infraRepo.NewTxManagerGorm(gormDB)
	orderRepo := infraRepo.NewOrderGormRepository(gormDB)
	orderItemRepo := infraRepo.NewOrderItemGormRepository(gormDB)
	paymentRepo := infraRepo.NewPaymentGormRepository(gormDB)
	cartItemRepo := infraRepo.NewCartItemGormRepository(gormDB)
	productRepo := infraRepo.NewProductGormRepository(gormDB)
	addressRepo := infraRepo.NewShippingAddressGormRepository(gormDB)
	shippingOrderRepo := infraRepo.NewShippingOrderGormRepository(gormDB)
	notificationRepo := infraRepo.NewNotificationGormRepository(gormDB)
	userRepo := infraRepo.NewUserGormRepository(gormDB)

	//配送業者。GHNはAPIキー未設定ならモック料率で動く
	factory := shipping.NewFactory(
		shipping.NewGHNProvider(cfg.Shipping),
		shipping.NewMockProvider(),
	)

	//Usecase生成
	shippingUC := usecase.NewShippingUsecase(addressRepo, shippingOrderRepo, productRepo, factory, cfg.Shipping)
	orderUC := usecase.NewOrderUsecase(txManager, cartItemRepo, productRepo, orderRepo, orderItemRepo, userRepo, notificationRepo, shippingUC)
	paymentUC := usecase.NewPaymentUsecase(txManager, orderRepo, paymentRepo, cfg.VNPay)
	cartUC := usecase.NewCartUsecase(cartItemRepo, productRepo)
	notificationUC := usecase.NewNotificationUsecase(notificationRepo)

	//Handler生成
	handlers := server.Handlers{
		Order:        handler.NewOrderHandler(orderUC),
		Payment:      handler.NewPaymentHandler(paymentUC),
		Shipping:     handler.NewShippingHandler(shippingUC),
		Cart:         handler.NewCartHandler(cartUC),
		Notification: handler.NewNotificationHandler(notificationUC),
	}

	//Server起動
	e := server.New(cfg)
	server.RegisterRoutes(e, cfg, handlers)

	if err := server.Start(e, cfg); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
