// Gray Logic Alice bridge.
//
// Exposes the entities of the Gray Logic home automation host to the Yandex
// smart home platform (Alice). Host state arrives over MQTT into a SQLite
// store; platform requests are answered over HTTP; device actions are
// published back to the host, broadcast to WebSocket clients and recorded
// in InfluxDB.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nerrad567/gray-logic-alice/internal/api"
	"github.com/nerrad567/gray-logic-alice/internal/bridges/mqtthost"
	"github.com/nerrad567/gray-logic-alice/internal/device"
	"github.com/nerrad567/gray-logic-alice/internal/handler"
	"github.com/nerrad567/gray-logic-alice/internal/history"
	"github.com/nerrad567/gray-logic-alice/internal/host"
	"github.com/nerrad567/gray-logic-alice/internal/hoststore"
	"github.com/nerrad567/gray-logic-alice/internal/infrastructure/config"
	"github.com/nerrad567/gray-logic-alice/internal/infrastructure/database"
	"github.com/nerrad567/gray-logic-alice/internal/infrastructure/influxdb"
	"github.com/nerrad567/gray-logic-alice/internal/infrastructure/logging"
	"github.com/nerrad567/gray-logic-alice/internal/infrastructure/mqtt"
	"github.com/nerrad567/gray-logic-alice/migrations"
)

// Version information - set at build time via ldflags
// Example: go build -ldflags "-X main.version=1.0.0 -X main.commit=abc123"
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

const (
	// Default configuration file path
	defaultConfigPath = "configs/alice.yaml"

	// maintenanceInterval is how often health is checked and the service
	// call journal is pruned.
	maintenanceInterval = time.Hour

	// journalRetention is how long journaled service calls are kept.
	journalRetention = 30 * 24 * time.Hour
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run is the application logic, separated from main for testability.
func run(ctx context.Context, args []string, stdout io.Writer) error {
	flags := flag.NewFlagSet("alicebridge", flag.ContinueOnError)
	issueToken := flags.String("issue-token", "", "print a bearer token for `user` and exit")
	if err := flags.Parse(args); err != nil {
		return err
	}

	configPath := getConfigPath()
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	if *issueToken != "" {
		token, tokenErr := api.IssueToken(cfg.Security.JWT, *issueToken, time.Now())
		if tokenErr != nil {
			return fmt.Errorf("issuing token: %w", tokenErr)
		}
		fmt.Fprintln(stdout, token)
		return nil
	}

	log := logging.New(cfg.Logging, version)
	defer log.Close() //nolint:errcheck // best effort on exit
	log.Info("starting Gray Logic Alice bridge",
		"version", version,
		"commit", commit,
		"build_date", date,
		"config", configPath,
	)

	// Database and host store
	db, err := database.Open(database.Config{
		Path:        cfg.Database.Path,
		WALMode:     cfg.Database.WALMode,
		BusyTimeout: cfg.Database.BusyTimeout,
	})
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer func() {
		log.Info("closing database")
		if closeErr := db.Close(); closeErr != nil {
			log.Error("error closing database", "error", closeErr)
		}
	}()
	if migrateErr := db.Migrate(ctx, migrations.FS); migrateErr != nil {
		return fmt.Errorf("running migrations: %w", migrateErr)
	}

	store := hoststore.New(db.DB)
	store.SetLogger(log)
	if loadErr := store.Load(ctx); loadErr != nil {
		return fmt.Errorf("loading host store: %w", loadErr)
	}
	log.Info("host store loaded", "path", db.Path(), "entities", store.StateCount())

	hub := api.NewHub(cfg.WebSocket, log)
	buses := host.MultiBus{hub}
	var caller host.ServiceCaller = store

	// MQTT host bridge (optional)
	var mqttClient *mqtt.Client
	var bridge *mqtthost.Bridge
	if cfg.MQTT.Enabled {
		mqttClient, bridge, err = startHostBridge(ctx, cfg, store, log)
		if err != nil {
			return err
		}
		defer func() {
			log.Info("stopping host bridge")
			bridge.Stop()
			if closeErr := mqttClient.Close(); closeErr != nil {
				log.Error("error closing MQTT", "error", closeErr)
			}
		}()
		caller = &journaledCaller{next: bridge, journal: store, log: log}
		buses = append(buses, bridge)
	} else {
		log.Info("MQTT disabled, service calls are journaled only")
	}

	// InfluxDB history (optional)
	var influxClient *influxdb.Client
	var recorder *history.Recorder
	if cfg.InfluxDB.Enabled {
		influxClient, err = influxdb.Connect(ctx, cfg.InfluxDB)
		if err != nil {
			return fmt.Errorf("connecting to InfluxDB: %w", err)
		}
		defer func() {
			log.Info("closing InfluxDB connection")
			if closeErr := influxClient.Close(); closeErr != nil {
				log.Error("error closing InfluxDB", "error", closeErr)
			}
		}()
		influxClient.SetOnError(func(err error) {
			log.Error("InfluxDB write error", "error", err)
		})
		recorder = history.New(influxClient, cfg.Alice.HistoryMeasurement)
		recorder.SetLogger(log)
		buses = append(buses, recorder)
		log.Info("InfluxDB connected",
			"url", cfg.InfluxDB.URL,
			"bucket", cfg.InfluxDB.Bucket,
		)
	} else {
		log.Info("InfluxDB disabled")
	}

	// Devices and request handling
	hostView := host.Bundle{
		StateReader:   store,
		ServiceCaller: caller,
		EventBus:      buses,
		Registry:      store,
		EntryStore:    store,
	}
	resolver := device.NewResolver(hostView, cfg.Alice, nil)
	resolver.SetLogger(log)
	resolver.SetErrorCodeFunc(handler.RulesErrorCodeFunc(cfg.Alice, store))

	requests := handler.New(resolver)
	requests.SetLogger(log)
	if recorder != nil {
		requests.SetStatesObserver(recorder.RecordStates)
	}

	deps := api.Deps{
		Config:   cfg.API,
		WS:       cfg.WebSocket,
		Security: cfg.Security,
		Logger:   log,
		Handler:  requests,
		Hub:      hub,
		Journal:  store,
		States:   store,
		DB:       db.DB,
		Version:  version,
	}
	if bridge != nil {
		deps.Bridge = bridge
	}
	server, err := api.New(deps)
	if err != nil {
		return fmt.Errorf("creating API server: %w", err)
	}
	if startErr := server.Start(ctx); startErr != nil {
		return fmt.Errorf("starting API server: %w", startErr)
	}
	defer func() {
		if closeErr := server.Close(); closeErr != nil {
			log.Error("error closing API server", "error", closeErr)
		}
	}()

	if err := healthCheck(ctx, db, mqttClient, influxClient); err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	log.Info("initialisation complete, waiting for shutdown signal")

	maintenanceLoop(ctx, db, mqttClient, influxClient, store, log)

	// Deferred closes run in reverse order: API server, InfluxDB, host
	// bridge and MQTT, database.
	log.Info("shutdown signal received, cleaning up")
	return nil
}

// getConfigPath returns the configuration file path.
// Uses GRAYLOGIC_CONFIG environment variable if set, otherwise default.
func getConfigPath() string {
	if path := os.Getenv("GRAYLOGIC_CONFIG"); path != "" {
		return path
	}
	return defaultConfigPath
}

// startHostBridge connects to the broker and starts ingesting host state.
func startHostBridge(ctx context.Context, cfg *config.Config, store *hoststore.Store, log *logging.Logger) (*mqtt.Client, *mqtthost.Bridge, error) {
	client, err := mqtt.Connect(cfg.MQTT)
	if err != nil {
		return nil, nil, fmt.Errorf("connecting to MQTT: %w", err)
	}
	client.SetLogger(log)
	client.SetOnConnect(func() {
		log.Info("MQTT reconnected")
	})
	client.SetOnDisconnect(func(err error) {
		log.Warn("MQTT disconnected", "error", err)
	})
	log.Info("MQTT connected",
		"broker", fmt.Sprintf("%s:%d", cfg.MQTT.Broker.Host, cfg.MQTT.Broker.Port),
		"client_id", cfg.MQTT.Broker.ClientID,
		"topic_prefix", client.Topics().Prefix(),
	)

	bridge, err := mqtthost.NewBridge(mqtthost.Options{
		MQTTClient: client,
		Store:      store,
		QoS:        byte(cfg.MQTT.QoS), // #nosec G115 -- validated to 0..2
		Logger: log,
	})
	if err != nil {
		client.Close() //nolint:errcheck // cleanup on error path
		return nil, nil, fmt.Errorf("creating host bridge: %w", err)
	}
	if err := bridge.Start(ctx); err != nil {
		bridge.Stop()
		client.Close() //nolint:errcheck // cleanup on error path
		return nil, nil, fmt.Errorf("starting host bridge: %w", err)
	}
	return client, bridge, nil
}

// healthCheck verifies all infrastructure connections are healthy. Nil
// clients are disabled components.
func healthCheck(ctx context.Context, db *database.DB, mqttClient *mqtt.Client, influxClient *influxdb.Client) error {
	if err := db.HealthCheck(ctx); err != nil {
		return fmt.Errorf("database: %w", err)
	}
	if mqttClient != nil {
		if err := mqttClient.HealthCheck(ctx); err != nil {
			return fmt.Errorf("mqtt: %w", err)
		}
	}
	if influxClient != nil {
		if err := influxClient.HealthCheck(ctx); err != nil {
			return fmt.Errorf("influxdb: %w", err)
		}
	}
	return nil
}

// maintenanceLoop checks health and prunes the service call journal until
// ctx is cancelled.
func maintenanceLoop(ctx context.Context, db *database.DB, mqttClient *mqtt.Client, influxClient *influxdb.Client, store *hoststore.Store, log *logging.Logger) {
	ticker := time.NewTicker(maintenanceInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := healthCheck(ctx, db, mqttClient, influxClient); err != nil {
				log.Warn("health check failed", "error", err)
			}
			pruned, err := store.PruneServiceCalls(ctx, journalRetention)
			if err != nil {
				log.Warn("pruning service call journal failed", "error", err)
			} else if pruned > 0 {
				log.Info("service call journal pruned", "removed", pruned)
			}
		}
	}
}

// journaledCaller forwards service calls to the host and records the ones
// that were sent.
type journaledCaller struct {
	next    host.ServiceCaller
	journal host.ServiceCaller
	log     *logging.Logger
}

// CallService implements host.ServiceCaller.
func (c *journaledCaller) CallService(ctx context.Context, call host.ServiceCall) error {
	if err := c.next.CallService(ctx, call); err != nil {
		return err
	}
	if err := c.journal.CallService(ctx, call); err != nil {
		c.log.Warn("failed to journal service call", "service", call.Name(), "error", err)
	}
	return nil
}
