package service

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"owl-care/owl-common/database"
	"owl-care/owl-common/mqtt"
	rediscommon "owl-care/owl-common/redis"
	"owl-care/owl-medical/internal/alert"
	"owl-care/owl-medical/internal/config"
	"owl-care/owl-medical/internal/consumer"
	httpapi "owl-care/owl-medical/internal/http"
	"owl-care/owl-medical/internal/medical"
	"owl-care/owl-medical/internal/repository"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// MedicalService wires repository, alert sinks, checker, HTTP server and the optional consumer
type MedicalService struct {
	config      *config.Config
	db          *sql.DB
	redisClient *redis.Client
	mqttClient  *mqtt.Client
	kafka       *alert.KafkaService
	repo        repository.PatientInfoRepository
	checker     *medical.Service
	consumer    *consumer.MeasurementConsumer
	mqttIngest  *consumer.MQTTConsumer
	server      *Server
	logger      *zap.Logger
}

// NewMedicalService connects every configured backend; on error whatever was opened is released
func NewMedicalService(cfg *config.Config, logger *zap.Logger) (*MedicalService, error) {
	s := &MedicalService{config: cfg, logger: logger}

	if err := s.setup(); err != nil {
		s.Stop()
		return nil, err
	}
	return s, nil
}

func (s *MedicalService) setup() error {
	repo, err := s.buildRepository()
	if err != nil {
		return err
	}
	s.repo = repo

	alerts, err := s.buildAlerts()
	if err != nil {
		return err
	}
	s.checker = medical.NewService(repo, alerts, s.logger)

	if s.config.Consumer.Enabled {
		client, err := s.redis()
		if err != nil {
			return err
		}
		s.consumer = consumer.NewMeasurementConsumer(s.config, client, s.checker, s.logger)
	}

	if s.config.Ingest.Enabled {
		client, err := s.mqtt()
		if err != nil {
			return err
		}
		s.mqttIngest = consumer.NewMQTTConsumer(s.config, client, s.checker, s.logger)
	}

	var probes []httpapi.HealthProbe
	if s.config.UsesMQTT() {
		probes = append(probes, httpapi.HealthProbe{Name: "mqtt", Healthy: s.mqttClient.IsConnected})
	}

	router := httpapi.NewRouter(s.logger)
	router.RegisterPatientRoutes(httpapi.NewPatientHandler(repo, s.checker, s.logger))
	router.RegisterOpsRoutes(probes...)
	s.server = NewServer(s.config.HTTP.Addr, router, s.logger)
	return nil
}

func (s *MedicalService) buildRepository() (repository.PatientInfoRepository, error) {
	switch s.config.Repository.Backend {
	case config.BackendPostgres:
		db, err := database.NewPostgresDB(&s.config.Database)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		s.db = db
		return repository.NewPostgresPatientRepository(db, s.logger), nil
	default:
		return repository.NewFilePatientRepository(s.config.Repository.FilePath, s.logger)
	}
}

func (s *MedicalService) buildAlerts() (alert.Service, error) {
	var sinks []alert.Sink
	for _, name := range s.config.Alert.Sinks {
		var svc alert.Service
		switch name {
		case config.SinkLog:
			svc = alert.NewLogService(s.logger)
		case config.SinkMQTT:
			client, err := s.mqtt()
			if err != nil {
				return nil, err
			}
			svc = alert.NewMQTTService(client, s.config.Alert.MQTTTopic, s.config.MQTT.QoS)
		case config.SinkStream:
			client, err := s.redis()
			if err != nil {
				return nil, err
			}
			svc = alert.NewStreamService(client, s.config.Alert.Stream)
		case config.SinkKafka:
			s.kafka = alert.NewKafkaService(alert.NewKafkaWriter(&s.config.Kafka))
			svc = s.kafka
		case config.SinkWebhook:
			wh := s.config.Alert.Webhook
			svc = alert.NewWebhookService(wh.URL, wh.Timeout, wh.Retries)
		default:
			return nil, fmt.Errorf("unknown alert sink %q", name)
		}
		sinks = append(sinks, alert.Sink{Name: name, Service: svc})
	}

	s.logger.Info("Alert sinks configured", zap.Strings("sinks", s.config.Alert.Sinks))
	return alert.NewMultiService(s.logger, sinks...), nil
}

// redis connects lazily; the stream sink and the consumer share one client
func (s *MedicalService) redis() (*redis.Client, error) {
	if s.redisClient != nil {
		return s.redisClient, nil
	}
	client := rediscommon.NewRedisClient(&s.config.Redis)
	s.redisClient = client

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rediscommon.Ping(ctx, client); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return client, nil
}

// mqtt connects lazily; the alert sink and the ingest share one client
func (s *MedicalService) mqtt() (*mqtt.Client, error) {
	if s.mqttClient != nil {
		return s.mqttClient, nil
	}
	client, err := mqtt.NewClient(&s.config.MQTT, s.logger)
	if err != nil {
		return nil, err
	}
	s.mqttClient = client
	return client, nil
}

// Start serves HTTP (and consumes measurements when enabled) until ctx is cancelled
func (s *MedicalService) Start(ctx context.Context) error {
	errCh := make(chan error, 3)
	go func() {
		errCh <- s.server.Start()
	}()

	consumerCtx, cancelConsumer := context.WithCancel(ctx)
	defer cancelConsumer()
	if s.consumer != nil {
		go func() {
			if err := s.consumer.Start(consumerCtx); err != nil {
				errCh <- fmt.Errorf("measurement consumer: %w", err)
			}
		}()
	}
	if s.mqttIngest != nil {
		go func() {
			if err := s.mqttIngest.Start(consumerCtx); err != nil {
				errCh <- fmt.Errorf("mqtt measurement consumer: %w", err)
			}
		}()
	}

	var runErr error
	select {
	case <-ctx.Done():
	case runErr = <-errCh:
	}

	cancelConsumer()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := s.server.Stop(shutdownCtx); err != nil && runErr == nil {
		runErr = err
	}
	return runErr
}

// Stop releases every connection opened by the service
func (s *MedicalService) Stop() {
	if s.kafka != nil {
		if err := s.kafka.Close(); err != nil {
			s.logger.Warn("Failed to close kafka writer", zap.Error(err))
		}
	}
	if s.mqttClient != nil {
		s.mqttClient.Disconnect()
	}
	if err := rediscommon.Close(s.redisClient); err != nil {
		s.logger.Warn("Failed to close redis", zap.Error(err))
	}
	if err := database.Close(s.db); err != nil {
		s.logger.Warn("Failed to close database", zap.Error(err))
	}
}
