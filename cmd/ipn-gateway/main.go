package main

import (
	// Go Internal Packages
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	// Local Packages
	config "ipn-gateway/config"
	kafka "ipn-gateway/kafka"
	mongodb "ipn-gateway/repositories/mongodb"
	redis "ipn-gateway/repositories/redis"
	server "ipn-gateway/server"
	ipn "ipn-gateway/services/ipn"

	// External Packages
	"github.com/alecthomas/kingpin/v2"
	_ "github.com/jsternberg/zap-logfmt"
	"github.com/knadh/koanf"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/twmb/franz-go/plugin/kprom"
	"go.uber.org/zap"
)

// LoadConfig loads the default configuration and overrides it with the config file
// specified by the path defined in the config flag
func LoadConfig() *koanf.Koanf {
	configPathMsg := "Path to the application config file"
	configPath := kingpin.Flag("config", configPathMsg).Short('c').Default("config.yml").String()

	kingpin.Parse()
	k := koanf.New(".")
	_ = k.Load(rawbytes.Provider(config.DefaultConfig), yaml.Parser())
	if *configPath != "" {
		_ = k.Load(file.Provider(*configPath), yaml.Parser())
	}
	return k
}

func main() {
	k := LoadConfig()
	appKonf := config.Config{}

	// Unmarshalling config into struct
	err := k.Unmarshal("", &appKonf)
	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}

	// Validate the config loaded
	if err = appKonf.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	if !appKonf.IsProdMode {
		k.Print()
	}

	cfg := zap.NewProductionConfig()
	cfg.Encoding = "logfmt"
	_ = cfg.Level.UnmarshalText([]byte(k.String("logger.level")))
	cfg.InitialFields = make(map[string]any)
	cfg.InitialFields["host"], _ = os.Hostname()
	cfg.InitialFields["service"] = appKonf.Application
	cfg.OutputPaths = []string{"stdout"}
	logger, _ := cfg.Build()
	defer func() {
		_ = logger.Sync()
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Mongo Connection
	mongoClient, err := mongodb.Connect(ctx, appKonf.Mongo.URI)
	if err != nil {
		logger.Fatal("cannot create mongo client", zap.Error(err))
	}

	// Redis Connection
	redisClient, err := redis.Connect(ctx, appKonf.Redis.URI, appKonf.Redis.Password)
	if err != nil {
		logger.Fatal("cannot create redis client", zap.Error(err))
	}

	txRepo := mongodb.NewTransactionRepository(mongoClient, appKonf.Mongo.Database)
	customerRepo := mongodb.NewCustomerRepository(mongoClient, appKonf.Mongo.Database)
	outcomeRepo := mongodb.NewOutcomeRepository(mongoClient, appKonf.Mongo.Database)
	deadLetters := redis.NewDeadLetterStore(redisClient, logger)

	metrics := kprom.NewMetrics("ipn")

	var producer *kafka.Producer
	if appKonf.Kafka.Enabled {
		conf := &kafka.ProducerConfig{
			Brokers: appKonf.Kafka.Brokers,
			Name:    appKonf.Kafka.ProducerName,
			Topic:   appKonf.Kafka.Topic,
		}
		producer, err = kafka.NewEventProducer(conf, logger, metrics)
		if err != nil {
			logger.Fatal("cannot create event producer", zap.Error(err))
		}
	}
	defer producer.Close(context.Background())

	service := ipn.NewService(logger, txRepo, customerRepo, outcomeRepo, producer, deadLetters, appKonf.Validation)
	handler := server.NewHandler(service, logger)
	router := server.NewRouter(handler, appKonf.Auth, logger, metrics.Handler())

	srv := &http.Server{
		Addr:         appKonf.Server.Addr,
		Handler:      router,
		ReadTimeout:  time.Duration(appKonf.Server.ReadTimeoutSecs) * time.Second,
		WriteTimeout: time.Duration(appKonf.Server.WriteTimeoutSecs) * time.Second,
	}

	go func() {
		logger.Info("listening", zap.String("addr", appKonf.Server.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}
}
