package core

import (
	"database/sql"
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	handler "github.com/carewatch/carewatch/module/core/internal/handler/http"
	"github.com/carewatch/carewatch/module/core/internal/handler/subscriber"
	"github.com/carewatch/carewatch/module/core/internal/notifier"
	"github.com/carewatch/carewatch/module/core/internal/repository/database/postgres"
	"github.com/carewatch/carewatch/module/core/internal/repository/database/rediscache"
	"github.com/carewatch/carewatch/module/core/internal/repository/publisher/rabbitmq"
	"github.com/carewatch/carewatch/module/core/service"
)

// Options carries the pipeline settings and third-party credentials the
// module needs beyond its backend connections.
type Options struct {
	DedupWindow    time.Duration
	ChannelTimeout time.Duration
	GeofenceTTL    time.Duration
	BaseURL        string

	TwilioAccountSID string
	TwilioAuthToken  string
	TwilioFromNumber string
	ResendAPIKey     string
	EmailFrom        string
	VAPIDPublicKey   string
	VAPIDPrivateKey  string
	VAPIDSubscriber  string
}

type Module struct {
	LocationSvc *service.LocationService
	GeofenceSvc *service.GeofenceService
	AlertSvc    *service.AlertService
	NotifierSvc *service.NotifierService

	locationHandler *handler.LocationHandler
	deviceHandler   *handler.DeviceHandler
	alertHandler    *handler.AlertHandler
	twimlHandler    *handler.TwiMLHandler
	subscriber      *subscriber.LocationSubscriber
}

func Build(db *sql.DB, amqpConn *amqp.Connection, mqttClient mqtt.Client, redisClient *redis.Client, opts Options, logger *zap.Logger) (*Module, error) {
	deviceRepo := postgres.NewDeviceRepo(db)
	locationRepo := postgres.NewLocationRepo(db)
	geofenceRepo := rediscache.NewGeofenceCache(redisClient, postgres.NewGeofenceRepo(db), opts.GeofenceTTL, logger)
	alertRepo := postgres.NewAlertRepo(db)
	contactRepo := postgres.NewContactRepo(db)

	alertPub, err := rabbitmq.NewAlertPublisher(amqpConn)
	if err != nil {
		return nil, fmt.Errorf("alert publisher: %w", err)
	}

	push := notifier.NewWebPushClient(notifier.WebPushConfig{
		VAPIDPublicKey:  opts.VAPIDPublicKey,
		VAPIDPrivateKey: opts.VAPIDPrivateKey,
		Subscriber:      opts.VAPIDSubscriber,
	})
	twilio := notifier.NewTwilioClient(notifier.TwilioConfig{
		AccountSID: opts.TwilioAccountSID,
		AuthToken:  opts.TwilioAuthToken,
		FromNumber: opts.TwilioFromNumber,
	}, opts.ChannelTimeout)
	email := notifier.NewResendClient(notifier.ResendConfig{
		APIKey: opts.ResendAPIKey,
		From:   opts.EmailFrom,
	}, opts.ChannelTimeout)

	notifierSvc := service.NewNotifierService(push, twilio, twilio, email, opts.BaseURL, opts.ChannelTimeout, logger)
	alertSvc := service.NewAlertService(alertRepo, contactRepo, alertPub, notifierSvc, opts.DedupWindow, logger)
	geofenceSvc := service.NewGeofenceService(geofenceRepo, alertSvc, logger)
	locationSvc := service.NewLocationService(deviceRepo, locationRepo, geofenceSvc, logger)

	return &Module{
		LocationSvc:     locationSvc,
		GeofenceSvc:     geofenceSvc,
		AlertSvc:        alertSvc,
		NotifierSvc:     notifierSvc,
		locationHandler: handler.NewLocationHandler(locationSvc),
		deviceHandler:   handler.NewDeviceHandler(locationSvc),
		alertHandler:    handler.NewAlertHandler(alertSvc),
		twimlHandler:    handler.NewTwiMLHandler(),
		subscriber:      subscriber.NewLocationSubscriber(mqttClient, locationSvc, logger),
	}, nil
}

// RegisterRoutes mounts the JSON API on api and the voice markup endpoint on
// root, where the telephony gateway fetches it.
func (m *Module) RegisterRoutes(api, root *gin.RouterGroup) {
	m.locationHandler.Register(api)
	m.deviceHandler.Register(api)
	m.alertHandler.Register(api)
	m.twimlHandler.Register(root)
}

func (m *Module) StartSubscribers() error {
	return m.subscriber.Start()
}
