package di

import (
	"fmt"

	"SIPScope/internal/domain/repository"
	internalrepo "SIPScope/internal/repository"
	"SIPScope/internal/usecase"
	pkgch "SIPScope/pkg/clickhouse"
	"SIPScope/pkg/config"
	pkgkafka "SIPScope/pkg/kafka"
	applogger "SIPScope/pkg/logger"
	"SIPScope/pkg/metrics"
	"SIPScope/pkg/server"
)

// ProvideLogger creates the application logger.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	l, err := applogger.New(&applogger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	})
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	return l, nil
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() repository.Metrics {
	return metrics.New()
}

// ProvideSeriesSource creates the CSV price series loader.
func ProvideSeriesSource(cfg *config.Config, l *applogger.Logger) repository.SeriesSource {
	src := internalrepo.NewCSVSeriesSource(cfg.Input.File, cfg.Input.Symbol)
	src.SetLogger(l)
	return src
}

// ProvideTableSink creates the CSV ranking table writer.
func ProvideTableSink(cfg *config.Config) repository.TableSink {
	return internalrepo.NewCSVTableSink(cfg.Output.Dir)
}

// ProvideResultStore creates ClickHouse storage when enabled, nil
// otherwise.
func ProvideResultStore(cfg *config.Config) (repository.ResultStore, error) {
	if !cfg.ClickHouse.Enabled {
		return nil, nil
	}
	client, err := pkgch.NewClient(
		pkgch.WithHost(cfg.ClickHouse.Host),
		pkgch.WithPort(cfg.ClickHouse.Port),
		pkgch.WithDatabase(cfg.ClickHouse.Database),
		pkgch.WithCredentials(cfg.ClickHouse.User, cfg.ClickHouse.Password),
		pkgch.WithMaxConnections(10, 5),
		pkgch.WithTimeouts(cfg.ClickHouse.DialTimeout, cfg.ClickHouse.ReadTimeout),
		pkgch.WithMaxExecutionTime(cfg.ClickHouse.MaxExecutionTime),
	)
	if err != nil {
		return nil, fmt.Errorf("clickhouse client: %w", err)
	}
	return internalrepo.NewClickHouseResultStore(client.DB(), cfg.ClickHouse.Database), nil
}

// ProvidePublisher creates the Kafka rankings publisher when enabled,
// nil otherwise.
func ProvidePublisher(cfg *config.Config) (repository.Publisher, error) {
	if !cfg.Kafka.Enabled {
		return nil, nil
	}
	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithCompression(cfg.Kafka.Compression),
		pkgkafka.WithRequiredAcks(cfg.Kafka.RequiredAcks),
		pkgkafka.WithMaxAttempts(cfg.Kafka.MaxAttempts),
		pkgkafka.WithTimeouts(cfg.Kafka.WriteTimeout, cfg.Kafka.ReadTimeout),
		pkgkafka.WithHashByKey(true),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}
	return internalrepo.NewKafkaRankingsPublisher(producer, cfg.Kafka.Topic), nil
}

// ProvidePipeline creates the analysis pipeline.
func ProvidePipeline(l *applogger.Logger, m repository.Metrics) *usecase.Pipeline {
	return usecase.NewPipeline(l, m)
}

// ProvideAnalysisService creates the shared analysis holder.
func ProvideAnalysisService() *usecase.AnalysisService {
	return usecase.NewAnalysisService()
}

// ProvideApp creates the application with optional destinations wired.
func ProvideApp(
	cfg *config.Config,
	l *applogger.Logger,
	pipeline *usecase.Pipeline,
	source repository.SeriesSource,
	svc *usecase.AnalysisService,
	sink repository.TableSink,
	store repository.ResultStore,
	publisher repository.Publisher,
) *server.App {
	app := server.New(cfg, l, pipeline, source, svc)
	app.SetTableSink(sink)
	if store != nil {
		app.SetResultStore(store)
	}
	if publisher != nil {
		app.SetPublisher(publisher)
	}
	return app
}
