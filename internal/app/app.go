package app

import (
	"context"
	"database/sql"
	"net/http"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"tankwatch/internal/alerting"
	"tankwatch/internal/config"
	"tankwatch/internal/cooldown"
	"tankwatch/internal/db"
	"tankwatch/internal/fanout"
	httpserver "tankwatch/internal/http"
	"tankwatch/internal/http/handlers"
	"tankwatch/internal/mqtt"
	redisclient "tankwatch/internal/redis"
	"tankwatch/internal/repository"
	"tankwatch/internal/service"
	"tankwatch/internal/sms"
	"tankwatch/internal/ws"
)

// App wires tankwatch dependencies.
type App struct {
	server *httpserver.Server
	source *mqtt.Source
	db     *sql.DB
	redis  *goredis.Client
	logger *zap.Logger
}

// New constructs application components.
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	sqlDB, err := db.NewPostgres(cfg.Database.DSN)
	if err != nil {
		return nil, err
	}

	readingRepo := repository.NewReadingRepository(sqlDB)
	alertRepo := repository.NewAlertRepository(sqlDB)

	var redisCli *goredis.Client
	var tracker cooldown.Tracker
	switch cfg.Alerting.Tracker {
	case config.TrackerRedis:
		redisCli, err = redisclient.NewClient(cfg.Redis.Addr, cfg.Redis.Password)
		if err != nil {
			sqlDB.Close()
			return nil, err
		}
		tracker = cooldown.NewRedisTracker(redisCli, cfg.CooldownWindow())
	default:
		tracker = cooldown.NewMemoryTracker(cfg.CooldownWindow())
	}

	var gateway alerting.SMSGateway
	if cfg.SMS.Enabled {
		snsGateway, err := sms.NewSNSGateway(ctx, cfg.SMS.Region, cfg.SMS.SenderID)
		if err != nil {
			sqlDB.Close()
			return nil, err
		}
		gateway = snsGateway
	} else {
		logger.Info("sms delivery disabled, alerts will only be recorded")
	}

	dispatcher := alerting.NewDispatcher(alertRepo, gateway, cfg.Alerting.CountryCode, logger)
	bus := fanout.NewBus(logger)

	ingestService := service.NewIngestService(
		readingRepo,
		tracker,
		dispatcher,
		bus,
		cfg.Alerting.LowThreshold,
		logger,
	)
	queryService := service.NewQueryService(readingRepo, alertRepo)

	readingsHandler := handlers.NewReadingsHandler(ingestService, logger)
	queriesHandler := handlers.NewQueriesHandler(queryService, logger)

	routes := httpserver.Routes{
		SubmitReading:  http.HandlerFunc(readingsHandler.Submit),
		LatestReading:  http.HandlerFunc(queriesHandler.Latest),
		ReadingHistory: http.HandlerFunc(queriesHandler.History),
		LatestAlert:    http.HandlerFunc(queriesHandler.LatestAlert),
		Realtime:       ws.NewServer(bus, logger),
		Health:         handlers.NewHealthHandler(),
	}

	router := httpserver.NewRouter(routes)
	server := httpserver.NewServer(cfg.HTTPAddress(), router, logger)

	var source *mqtt.Source
	if cfg.MQTT.BrokerURL != "" {
		source = mqtt.NewSource(mqtt.Options{
			BrokerURL: cfg.MQTT.BrokerURL,
			Topic:     cfg.MQTT.Topic,
			ClientID:  cfg.MQTT.ClientID,
			Username:  cfg.MQTT.Username,
			Password:  cfg.MQTT.Password,
		}, ingestService, logger)
	}

	return &App{
		server: server,
		source: source,
		db:     sqlDB,
		redis:  redisCli,
		logger: logger,
	}, nil
}

// Run starts the MQTT bridge (when configured) and serves HTTP requests.
func (a *App) Run(ctx context.Context) error {
	if a.source != nil {
		// Connect retries until the broker is reachable; never gate HTTP on it.
		go func() {
			if err := a.source.Start(); err != nil {
				a.logger.Warn("mqtt bridge failed to start", zap.Error(err))
			}
		}()
	}
	return a.server.Run(ctx)
}

// Close releases resources.
func (a *App) Close() {
	if a.source != nil {
		a.source.Stop()
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.logger.Warn("failed to close redis client", zap.Error(err))
		}
	}
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.logger.Warn("failed to close db", zap.Error(err))
		}
	}
}
