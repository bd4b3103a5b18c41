package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Skotchmaster/hospital_management/internal/config"
	"github.com/Skotchmaster/hospital_management/internal/credentials"
	"github.com/Skotchmaster/hospital_management/internal/events"
	"github.com/Skotchmaster/hospital_management/internal/httpserver"
	"github.com/Skotchmaster/hospital_management/internal/logging"
	"github.com/Skotchmaster/hospital_management/internal/pictures"
	"github.com/Skotchmaster/hospital_management/internal/service"
	"github.com/Skotchmaster/hospital_management/internal/storage"
	"github.com/Skotchmaster/hospital_management/internal/storage/gormrepo"
	"github.com/Skotchmaster/hospital_management/internal/storage/mongo"
	"github.com/Skotchmaster/hospital_management/internal/tokens"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.New(cfg.LogLevel)
	slog.SetDefault(logger)

	initCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	store, err := openStore(initCtx, cfg)
	if err != nil {
		cancel()
		log.Fatalf("storage init: %v", err)
	}
	pics, err := openPictures(initCtx, cfg)
	cancel()
	if err != nil {
		log.Fatalf("pictures init: %v", err)
	}

	var publisher events.Publisher = events.Nop{}
	var producer *events.KafkaProducer
	if cfg.Kafka.Enabled() {
		producer = events.NewKafkaProducer(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		publisher = producer
	}

	issuer, err := tokens.NewIssuer(tokens.Config{
		AccessSecret:  []byte(cfg.AccessTokenSecret),
		RefreshSecret: []byte(cfg.RefreshTokenSecret),
		AccessTTL:     cfg.AccessTokenExpiry,
		RefreshTTL:    cfg.RefreshTokenExpiry,
	})
	if err != nil {
		log.Fatalf("tokens: %v", err)
	}

	e := httpserver.New(&httpserver.Deps{
		Logger: logger,
		Store:  store,
		Auth: &service.AuthService{
			Creds:    credentials.New(store, cfg.BcryptCost),
			Issuer:   issuer,
			Profiles: store,
			Pictures: pics,
			Events:   publisher,
		},
		Doctors:      &service.DoctorService{Doctors: store},
		Patients:     &service.PatientService{Patients: store},
		Hospitals:    &service.HospitalService{Hospitals: store, Departments: store},
		Departments:  &service.DepartmentService{Departments: store, Hospitals: store},
		Records:      &service.RecordService{Records: store, Doctors: store, Patients: store},
		CORSOrigins:  cfg.CORSOrigins,
		CookieSecure: cfg.CookieSecure,
		CSRF:         cfg.CSRFEnabled,
		BodyLimit:    cfg.BodyLimit,
	})

	go func() {
		logger.Info("server_started", "port", cfg.Port, "db_driver", cfg.DBDriver, "pictures", cfg.S3.Enabled(), "events", cfg.Kafka.Enabled())
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("echo start: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		logger.Error("echo_shutdown_failed", "error", err)
	}
	if producer != nil {
		if err := producer.Close(); err != nil {
			logger.Error("kafka_close_failed", "error", err)
		}
	}
	if err := store.Close(); err != nil {
		logger.Error("storage_close_failed", "error", err)
	}
	logger.Info("server_stopped")
}

func openStore(ctx context.Context, cfg config.Config) (storage.Store, error) {
	switch cfg.DBDriver {
	case config.DriverMongo:
		return mongo.New(ctx, cfg.DatabaseURL)
	case config.DriverSQLite:
		return gormrepo.Open(ctx, gormrepo.DriverSQLite, cfg.DatabaseURL)
	default:
		return gormrepo.Open(ctx, gormrepo.DriverPostgres, cfg.DatabaseURL)
	}
}

// openPictures falls back to a store that refuses uploads when no S3
// endpoint is configured.
func openPictures(ctx context.Context, cfg config.Config) (pictures.Store, error) {
	if !cfg.S3.Enabled() {
		slog.Warn("picture storage disabled, uploads will be refused")
		return pictures.Disabled{}, nil
	}
	return pictures.NewMinio(ctx, pictures.MinioConfig{
		Endpoint:      cfg.S3.Endpoint,
		AccessKey:     cfg.S3.AccessKey,
		SecretKey:     cfg.S3.SecretKey,
		Bucket:        cfg.S3.Bucket,
		PublicBaseURL: cfg.S3.PublicBaseURL,
		MaxBytes:      cfg.S3.MaxPictureBytes,
	})
}
