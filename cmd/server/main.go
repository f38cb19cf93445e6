package main

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/carewatch/carewatch/config"
	"github.com/carewatch/carewatch/module/core"
)

func main() {
	cfg := config.Load()

	logger, err := config.NewLogger(cfg)
	if err != nil {
		panic(fmt.Sprintf("logger: %v", err))
	}
	defer func() { _ = logger.Sync() }()

	db, err := config.NewPostgres(cfg)
	if err != nil {
		logger.Fatal("postgres", zap.Error(err))
	}
	defer func() { _ = db.Close() }()

	amqpConn, err := config.NewRabbitMQ(cfg)
	if err != nil {
		logger.Fatal("rabbitmq", zap.Error(err))
	}
	defer func() { _ = amqpConn.Close() }()

	mqttClient, err := config.NewMQTT(cfg)
	if err != nil {
		logger.Fatal("mqtt", zap.Error(err))
	}
	defer mqttClient.Disconnect(250)

	redisClient, err := config.NewRedis(cfg)
	if err != nil {
		logger.Fatal("redis", zap.Error(err))
	}
	defer func() { _ = redisClient.Close() }()

	opts := core.Options{
		DedupWindow:    cfg.DedupWindow,
		ChannelTimeout: cfg.ChannelTimeout,
		GeofenceTTL:    cfg.GeofenceTTL,
		BaseURL:        cfg.BaseURL,

		TwilioAccountSID: cfg.TwilioAccountSID,
		TwilioAuthToken:  cfg.TwilioAuthToken,
		TwilioFromNumber: cfg.TwilioFromNumber,
		ResendAPIKey:     cfg.ResendAPIKey,
		EmailFrom:        cfg.EmailFrom,
		VAPIDPublicKey:   cfg.VAPIDPublicKey,
		VAPIDPrivateKey:  cfg.VAPIDPrivateKey,
		VAPIDSubscriber:  cfg.VAPIDSubscriber,
	}

	coreModule, err := core.Build(db, amqpConn, mqttClient, redisClient, opts, logger)
	if err != nil {
		logger.Fatal("core module", zap.Error(err))
	}

	if err := coreModule.StartSubscribers(); err != nil {
		logger.Fatal("start subscribers", zap.Error(err))
	}

	r := gin.Default()

	health := config.NewHealthChecker(db, amqpConn, mqttClient, redisClient)
	health.Register(r)

	coreModule.RegisterRoutes(r.Group("/api"), r.Group(""))

	logger.Info("listening", zap.String("port", cfg.HTTPPort))
	if err := r.Run(":" + cfg.HTTPPort); err != nil {
		logger.Fatal("server", zap.Error(err))
	}
}
