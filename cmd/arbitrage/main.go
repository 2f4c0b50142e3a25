package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/wyfcoding/quantengine/internal/arbitrage/application"
	"github.com/wyfcoding/quantengine/internal/arbitrage/domain"
	"github.com/wyfcoding/quantengine/internal/arbitrage/infrastructure/messaging"
	persistencemysql "github.com/wyfcoding/quantengine/internal/arbitrage/infrastructure/persistence/mysql"
	httphandler "github.com/wyfcoding/quantengine/internal/arbitrage/interfaces/http"
	"github.com/wyfcoding/quantengine/pkg/config"
	"github.com/wyfcoding/quantengine/pkg/db"
	"github.com/wyfcoding/quantengine/pkg/logger"
	"github.com/wyfcoding/quantengine/pkg/middleware"
	"github.com/wyfcoding/quantengine/pkg/mq"
)

const serviceName = "arbitrage"

func loadConfig() (*config.Config, error) {
	path := os.Getenv("QUANTENGINE_CONFIG")
	if path == "" {
		return config.Default(), nil
	}
	return config.Load(path)
}

func initLogger(cfg *config.Config) error {
	return logger.Init(logger.Config{
		Level:      cfg.Logger.Level,
		Format:     cfg.Logger.Format,
		Output:     cfg.Logger.Output,
		FilePath:   cfg.Logger.FilePath,
		MaxSize:    cfg.Logger.MaxSize,
		MaxBackups: cfg.Logger.MaxBackups,
		MaxAge:     cfg.Logger.MaxAge,
		Compress:   cfg.Logger.Compress,
		WithCaller: cfg.Logger.WithCaller,
	})
}

func main() {
	cfg, err := loadConfig()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	if err := initLogger(cfg); err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}

	// 数据库可选：DSN 为空时不持久化扫描结果
	var repo application.OpportunityRepository
	if cfg.Database.DSN != "" {
		conn, err := db.Open(db.Config{
			DSN:             cfg.Database.DSN,
			MaxOpenConns:    cfg.Database.MaxOpenConns,
			MaxIdleConns:    cfg.Database.MaxIdleConns,
			ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
		})
		if err != nil {
			log.Fatalf("failed to connect database: %v", err)
		}
		defer conn.Close()
		if err := persistencemysql.AutoMigrate(conn.DB); err != nil {
			log.Fatalf("failed to migrate database: %v", err)
		}
		repo = persistencemysql.NewOpportunityRepository(conn.DB)
	}

	// Kafka 可选：未配置 broker 时不发布机会事件
	var publisher domain.EventPublisher
	var producer *mq.Producer
	if len(cfg.Kafka.Brokers) > 0 {
		producer = mq.NewProducer(mq.ProducerConfig{
			Brokers:      cfg.Kafka.Brokers,
			MaxRetries:   cfg.Kafka.MaxRetries,
			RetryBackoff: cfg.Kafka.RetryBackoff,
		})
		publisher = messaging.NewKafkaEventPublisher(producer, cfg.Kafka.OpportunityTopic)
	}

	scanner := domain.NewScanner(domain.ScannerConfig{
		Tolerance:    cfg.Engine.ArbitrageTolerance,
		VolThreshold: cfg.Engine.VolSpreadThreshold,
	})
	svc := application.NewArbitrageService(scanner, repo, publisher)

	engine := gin.New()
	engine.Use(middleware.Recovery(), middleware.Logging())
	httphandler.NewArbitrageHandler(svc, repo).RegisterRoutes(engine.Group(""))
	engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy", "service": serviceName, "timestamp": time.Now().Unix()})
	})

	addr := fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port)
	srv := &http.Server{Addr: addr, Handler: engine}
	go func() {
		logger.Get().Info("http server started", "service", serviceName, "addr", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("failed to serve: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Get().Info("shutting down server...", "service", serviceName)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Get().Error("forced shutdown", "error", err)
	}
	if producer != nil {
		if err := producer.Close(); err != nil {
			logger.Get().Error("failed to close kafka producer", "error", err)
		}
	}
}
