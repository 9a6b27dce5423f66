package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
	"go.uber.org/zap"
	gorm_postgres "gorm.io/driver/postgres"
	"gorm.io/gorm"

	"shiptrack/cmd"
	httpin "shiptrack/internal/adapters/in/http"
	"shiptrack/internal/adapters/out/carrierapi"
	"shiptrack/internal/adapters/out/policyfile"
	"shiptrack/internal/adapters/out/postgres/chargerepo"
	"shiptrack/internal/adapters/out/postgres/shipmentrepo"
	"shiptrack/internal/jobs"
)

func main() {
	configs := getConfigs()

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	gormDB := mustConnectDB(configs)

	resolver, err := policyfile.Load(configs.SubsidiaryRulesPath)
	if err != nil {
		logger.Fatal("failed to load subsidiary policy", zap.Error(err))
	}

	var cache carrierapi.Cache
	if configs.RedisURL != "" {
		redisCache, cacheErr := carrierapi.NewRedisCache(configs.RedisURL)
		if cacheErr != nil {
			logger.Fatal("failed to connect to Redis", zap.Error(cacheErr))
		}
		defer func() { _ = redisCache.Close() }()
		cache = redisCache
	}

	app := cmd.NewCompositionRoot(configs, gormDB, cache, resolver, logger)

	jobManager := jobs.NewJobManager(
		app.CreateReconcileShipmentsCommandHandler(),
		configs.ReconcileCronSpec,
		logger,
	)
	if err := jobManager.StartAll(); err != nil {
		logger.Fatal("failed to start jobs", zap.Error(err))
	}
	defer jobManager.StopAll()

	startWebServer(&app, configs.HTTPPort)
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
		CarrierAPIBaseURL:   goDotEnvVariable("CARRIER_API_BASE_URL"),
		CarrierAPIKey:       goDotEnvVariable("CARRIER_API_KEY"),
		ReportFeedURL:       goDotEnvVariable("REPORT_FEED_URL"),
		SubsidiaryRulesPath: goDotEnvVariable("SUBSIDIARY_RULES_PATH"),
		RedisURL:            os.Getenv("REDIS_URL"),
		FetchWorkers:        goDotEnvIntVariable("FETCH_WORKERS"),
		ReconcileCronSpec:   goDotEnvVariable("RECONCILE_CRON_SPEC"),
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

func goDotEnvIntVariable(key string) int {
	raw := goDotEnvVariable(key)
	if raw == "" {
		return 0
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		log.Fatalf("Invalid integer for %s: %v", key, err)
	}
	return value
}

func mustConnectDB(configs cmd.Config) *gorm.DB {
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		configs.DBHost, configs.DBPort, configs.DBUser,
		configs.DBPassword, configs.DBName, configs.DBSslMode)

	db, err := gorm.Open(gorm_postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	err = db.AutoMigrate(
		&shipmentrepo.ShipmentDTO{},
		&shipmentrepo.HistoryEntryDTO{},
		&chargerepo.ChargeShipmentDTO{},
		&chargerepo.ChargeHistoryEntryDTO{},
	)
	if err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	return db
}

func startWebServer(app *cmd.CompositionRoot, port string) {
	e := echo.New()

	server := httpin.NewServer(
		app.CreateReconcileShipmentsCommandHandler(),
		app.CreateGetBacklogQueryHandler(),
		app.CreateGetShipmentHistoryQueryHandler(),
	)
	server.RegisterRoutes(e)

	e.Logger.Fatal(e.Start(fmt.Sprintf("0.0.0.0:%s", port)))
}
