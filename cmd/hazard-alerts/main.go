package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/diwise/hazard-alerts/internal/pkg/application/alerts"
	"github.com/diwise/hazard-alerts/internal/pkg/application/geofence"
	"github.com/diwise/hazard-alerts/internal/pkg/application/notifications"
	"github.com/diwise/hazard-alerts/internal/pkg/infrastructure/logging"
	"github.com/diwise/hazard-alerts/internal/pkg/infrastructure/repositories/database"
	"github.com/diwise/hazard-alerts/internal/pkg/infrastructure/repositories/locationcache"
	"github.com/diwise/hazard-alerts/internal/pkg/infrastructure/router"
	"github.com/diwise/hazard-alerts/internal/pkg/infrastructure/tracing"
	"github.com/diwise/hazard-alerts/internal/pkg/presentation/api"
	"github.com/diwise/hazard-alerts/pkg/types"
	"github.com/diwise/messaging-golang/pkg/messaging"
	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

const serviceName string = "hazard-alerts"

type flagType int
type flagMap map[flagType]string

const (
	listenAddress flagType = iota
	servicePort
	controlPort
	enableTracing

	policiesFile
	configurationFile
	usersFile

	dbHost
	dbUser
	dbPassword
	dbPort
	dbName
	dbSSLMode

	redisAddr
	redisPassword
)

func defaultFlags() flagMap {
	return flagMap{
		listenAddress: "0.0.0.0",
		servicePort:   "8080",
		controlPort:   "8000",
		enableTracing: "true",

		policiesFile:      "/opt/diwise/config/authz.rego",
		configurationFile: "/opt/diwise/config/config.yaml",
		usersFile:         "/opt/diwise/config/users.csv",

		dbHost:     "",
		dbUser:     "",
		dbPassword: "",
		dbPort:     "5432",
		dbName:     "diwise",
		dbSSLMode:  "disable",

		redisAddr:     "",
		redisPassword: "",
	}
}

func main() {
	_ = godotenv.Load(".env.local")

	ctx, flags := parseExternalConfig(context.Background(), defaultFlags())

	serviceVersion := version()
	ctx, logger := logging.NewLogger(ctx, serviceName, serviceVersion)
	logger.Info().Msg("starting up ...")

	cleanup, err := tracing.Init(ctx, logger, serviceName, serviceVersion, flags[enableTracing] == "true")
	exitIf(err, logger, "failed to init tracing")
	defer cleanup()

	cfgFile, err := os.Open(flags[configurationFile])
	exitIf(err, logger, "could not open configuration file")

	cfg, err := alerts.LoadConfiguration(cfgFile)
	cfgFile.Close()
	exitIf(err, logger, "could not load configuration")

	policies, err := os.Open(flags[policiesFile])
	exitIf(err, logger, "unable to open opa policy file")
	defer policies.Close()

	var users io.ReadCloser
	if f, err := os.Open(flags[usersFile]); err == nil {
		users = f
	} else {
		logger.Warn().Err(err).Msg("no users file, starting without seeded users")
	}

	messenger, err := messaging.Initialize(messaging.LoadConfiguration(serviceName, logger))
	exitIf(err, logger, "failed to init messenger")
	defer messenger.Close()

	svc, closeStores, err := initialize(ctx, flags, cfg, users, messenger)
	exitIf(err, logger, "failed to initialize alert service")
	defer closeStores()

	locationReported := &types.LocationReported{}
	messenger.RegisterTopicMessageHandler(locationReported.TopicName(), alerts.NewLocationReportedHandler(svc))

	r, err := api.RegisterHandlers(ctx, router.New(serviceName), policies, svc)
	exitIf(err, logger, "failed to register api handlers")

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go serveControl(ctx, flags[listenAddress]+":"+flags[controlPort])

	err = serve(ctx, flags[listenAddress]+":"+flags[servicePort], r)
	exitIf(err, logger, "failed to start request router")

	logger.Info().Msg("shutting down")
}

// initialize wires storage, notification transport and the alert service. Postgres is used when
// a database host is configured and redis caches locations when a redis address is configured.
func initialize(ctx context.Context, flags flagMap, cfg *alerts.Config, users io.ReadCloser, messenger alerts.Messenger) (alerts.AlertService, func(), error) {
	logger := logging.GetFromContext(ctx)
	closers := []func(){}
	closeAll := func() {
		for _, c := range closers {
			c()
		}
	}

	var connect database.ConnectorFunc
	if flags[dbHost] != "" {
		connect = database.NewPostgreSQLConnector(logger, database.ConnectorConfig{
			Host:     flags[dbHost],
			Port:     flags[dbPort],
			Username: flags[dbUser],
			DbName:   flags[dbName],
			Password: flags[dbPassword],
			SslMode:  flags[dbSSLMode],
		})
	} else {
		logger.Warn().Msg("no database host configured, using an in-memory database")
		connect = database.NewSQLiteConnector(logger)
	}

	db, err := database.New(connect)
	if err != nil {
		return nil, closeAll, fmt.Errorf("failed to connect to database: %w", err)
	}

	var locations alerts.LocationStore = db
	if flags[redisAddr] != "" {
		cache, err := locationcache.New(ctx, locationcache.Config{
			Addr:     flags[redisAddr],
			Password: flags[redisPassword],
		})
		if err != nil {
			return nil, closeAll, fmt.Errorf("failed to connect to location cache: %w", err)
		}
		closers = append(closers, func() { cache.Close() })
		locations = cache
	}

	for _, z := range cfg.Zones {
		if err := geofence.Validate(z); err != nil {
			logger.Warn().Err(err).Str("polygon_id", z.ID).Msg("configured zone will be ignored when resolving memberships")
		}
	}

	if err = database.SeedZones(ctx, db, cfg.Zones); err != nil {
		return nil, closeAll, err
	}

	if users != nil {
		defer users.Close()
		if err = database.SeedUsers(ctx, db, locations, users, time.Now()); err != nil {
			return nil, closeAll, fmt.Errorf("failed to seed users: %w", err)
		}
	}

	transport, err := notifications.NewCloudEventsTransport(&cfg.Notifications)
	if err != nil {
		return nil, closeAll, fmt.Errorf("failed to create notification transport: %w", err)
	}

	notifier := notifications.NewNotifier(transport, &cfg.Notifications)

	return alerts.New(db, locations, notifier, messenger, cfg.Alerts), closeAll, nil
}

func serve(ctx context.Context, addr string, handler http.Handler) error {
	logger := logging.GetFromContext(ctx)
	server := &http.Server{Addr: addr, Handler: handler}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		server.Shutdown(shutdownCtx)
	}()

	logger.Info().Str("addr", addr).Msg("starting to listen for connections")

	err := server.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func serveControl(ctx context.Context, addr string) {
	r := chi.NewRouter()
	r.Handle("/metrics", promhttp.Handler())

	if err := serve(ctx, addr, r); err != nil {
		logging.GetFromContext(ctx).Error().Err(err).Msg("control server failed")
	}
}

func parseExternalConfig(ctx context.Context, flags flagMap) (context.Context, flagMap) {
	// Allow environment variables to override certain defaults
	envOrDef := func(name string, def string) string {
		if value, ok := os.LookupEnv(name); ok && value != "" {
			return value
		}
		return def
	}

	flags[listenAddress] = envOrDef("LISTEN_ADDRESS", flags[listenAddress])
	flags[controlPort] = envOrDef("CONTROL_PORT", flags[controlPort])
	flags[servicePort] = envOrDef("SERVICE_PORT", flags[servicePort])
	flags[enableTracing] = envOrDef("ENABLE_TRACING", flags[enableTracing])

	flags[policiesFile] = envOrDef("POLICIES_FILE", flags[policiesFile])
	flags[configurationFile] = envOrDef("CONFIG_FILE", flags[configurationFile])
	flags[usersFile] = envOrDef("USERS_FILE", flags[usersFile])

	flags[dbHost] = envOrDef("POSTGRES_HOST", flags[dbHost])
	flags[dbPort] = envOrDef("POSTGRES_PORT", flags[dbPort])
	flags[dbName] = envOrDef("POSTGRES_DBNAME", flags[dbName])
	flags[dbUser] = envOrDef("POSTGRES_USER", flags[dbUser])
	flags[dbPassword] = envOrDef("POSTGRES_PASSWORD", flags[dbPassword])
	flags[dbSSLMode] = envOrDef("POSTGRES_SSLMODE", flags[dbSSLMode])

	flags[redisAddr] = envOrDef("REDIS_ADDR", flags[redisAddr])
	flags[redisPassword] = envOrDef("REDIS_PASSWORD", flags[redisPassword])

	apply := func(f flagType) func(string) error {
		return func(value string) error {
			flags[f] = value
			return nil
		}
	}

	// Allow command line arguments to override defaults and environment variables
	flag.Func("policies", "an authorization policy file", apply(policiesFile))
	flag.Func("config", "alert service configuration file", apply(configurationFile))
	flag.Func("users", "list of registered users", apply(usersFile))
	flag.Parse()

	return ctx, flags
}

func version() string {
	buildInfo, ok := debug.ReadBuildInfo()
	if !ok {
		return "unknown"
	}

	buildSettings := buildInfo.Settings
	infoMap := map[string]string{}
	for _, s := range buildSettings {
		infoMap[s.Key] = s.Value
	}

	sha := infoMap["vcs.revision"]
	if infoMap["vcs.modified"] == "true" {
		sha += "+"
	}

	return sha
}

func exitIf(err error, logger zerolog.Logger, msg string) {
	if err != nil {
		logger.Error().Err(err).Msg(msg)
		time.Sleep(2 * time.Second)
		os.Exit(1)
	}
}
