package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
	gorm_postgres "gorm.io/driver/postgres"
	"gorm.io/gorm"

	"dispatch/cmd"
	httpin "dispatch/internal/adapters/in/http"
	"dispatch/internal/adapters/out/pglisten"
	"dispatch/internal/adapters/out/postgres"
	"dispatch/internal/adapters/out/postgres/driverrepo"
	"dispatch/internal/adapters/out/postgres/orderrepo"
	"dispatch/internal/adapters/out/postgres/settlementrepo"
	"dispatch/internal/adapters/out/postgres/walletrepo"
	"dispatch/internal/adapters/out/s3store"
)

func main() {
	ctx := context.Background()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	configs := getConfigs()

	gormDB, err := gorm.Open(gorm_postgres.Open(configs.DSN()), &gorm.Config{})
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}

	if err = migrate(gormDB); err != nil {
		logger.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	signatures, err := s3store.NewS3SignatureStore(ctx, configs.S3Bucket, configs.S3Region)
	if err != nil {
		logger.Error("failed to create signature store", "error", err)
		os.Exit(1)
	}

	changeFeed, err := pglisten.NewPqOrderChangeFeed(configs.DSN(), logger)
	if err != nil {
		logger.Error("failed to create order change feed", "error", err)
		os.Exit(1)
	}

	app := cmd.NewCompositionRoot(configs, gormDB, signatures, logger)

	jobManager := app.CreateJobManager()
	if err = jobManager.StartAll(); err != nil {
		logger.Error("failed to start background jobs", "error", err)
		os.Exit(1)
	}
	defer jobManager.StopAll()

	server := httpin.NewServer(
		app.CreateCreateOrderCommandHandler(),
		app.CreateCreateDriverCommandHandler(),
		app.CreateClaimOrderCommandHandler(),
		app.CreateReleaseOrderCommandHandler(),
		app.CreateAdvanceOrderCommandHandler(),
		app.CreateCompleteDeliveryCommandHandler(),
		app.CreateCancelOrderCommandHandler(),
		app.CreateFailOrderCommandHandler(),
		app.CreateRemitCashCommandHandler(),
		app.CreateSetDriverStatusCommandHandler(),
		app.CreateAdjustWalletCommandHandler(),
		app.CreateGetAvailableOrdersQueryHandler(),
		app.CreateGetDriverLedgerQueryHandler(),
		app.CreateGetUnremittedTotalsQueryHandler(),
	)

	feed := httpin.NewOrderFeed(changeFeed, logger)
	if err = feed.Start(ctx); err != nil {
		logger.Error("failed to start order feed", "error", err)
		os.Exit(1)
	}

	startWebServer(server, feed, configs.HTTPPort)
}

func migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&orderrepo.OrderDTO{},
		&driverrepo.DriverDTO{},
		&settlementrepo.DriverTransactionDTO{},
		&settlementrepo.VendorTransactionDTO{},
		&walletrepo.WalletDTO{},
		&walletrepo.WalletEntryDTO{},
	)
	if err != nil {
		return err
	}

	// The change feed is dead without the trigger feeding its channel.
	return postgres.InstallOrderChangeNotifications(db)
}

func getConfigs() cmd.Config {
	config := cmd.Config{
		HTTPPort:            goDotEnvVariable("HTTP_PORT"),
		DBHost:              goDotEnvVariable("DB_HOST"),
		DBPort:              goDotEnvVariable("DB_PORT"),
		DBUser:              goDotEnvVariable("DB_USER"),
		DBPassword:          goDotEnvVariable("DB_PASSWORD"),
		DBName:              goDotEnvVariable("DB_NAME"),
		DBSslMode:           goDotEnvVariable("DB_SSLMODE"),
		S3Bucket:            goDotEnvVariable("S3_BUCKET"),
		S3Region:            goDotEnvVariable("S3_REGION"),
		ReconcileSchedule:   goDotEnvVariable("RECONCILE_SCHEDULE"),
		OrphanSweepSchedule: goDotEnvVariable("ORPHAN_SWEEP_SCHEDULE"),
	}
	return config
}

func goDotEnvVariable(key string) string {
	err := godotenv.Load(".env")
	if err != nil {
		log.Fatalf("Error loading .env file")
	}
	return os.Getenv(key)
}

func startWebServer(server *httpin.Server, feed *httpin.OrderFeed, port string) {
	e := echo.New()
	e.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "Healthy")
	})

	server.RegisterRoutes(e)
	feed.RegisterRoutes(e)

	e.Logger.Fatal(e.Start(fmt.Sprintf("0.0.0.0:%s", port)))
}
