package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Capitan-Parrot/proctoring-demo/internal/api"
	"github.com/Capitan-Parrot/proctoring-demo/internal/config"
	"github.com/Capitan-Parrot/proctoring-demo/internal/controller"
	"github.com/Capitan-Parrot/proctoring-demo/internal/database"
	"github.com/Capitan-Parrot/proctoring-demo/internal/display"
	"github.com/Capitan-Parrot/proctoring-demo/internal/kafka"
	"github.com/Capitan-Parrot/proctoring-demo/internal/metrics"
	"github.com/Capitan-Parrot/proctoring-demo/internal/runner"
	"github.com/Capitan-Parrot/proctoring-demo/internal/s3"
	"github.com/Capitan-Parrot/proctoring-demo/internal/scheduler"
)

func main() {
	log.Println("Main: init...")

	// Чтение конфига
	cfg, err := config.LoadConfig(os.Getenv("CONFIG_PATH"))
	if err != nil {
		log.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Поверхности отображения: доска для /status, терминал, Kafka
	board := display.NewBoard()
	sinks := display.Multi{board}
	if cfg.Display.Terminal {
		sinks = append(sinks, display.NewTerminal(os.Stdout, cfg.Display.ShowTicks))
	}

	// Инициализация базы данных
	var (
		journal runner.Journal
		history api.SessionHistory
	)
	if cfg.Postgres.DSN != "" {
		db, err := database.New(cfg.Postgres.DSN)
		if err != nil {
			log.Fatalf("Failed to connect to Postgres: %v", err)
		}
		defer db.Close()
		if err := db.Init(ctx); err != nil {
			log.Fatalf("Failed to init journal tables: %v", err)
		}
		journal, history = db, db
	}

	// Инициализация s3
	var (
		reportStore  runner.ReportStore
		reportSource api.ReportSource
	)
	if cfg.Minio.Endpoint != "" {
		minioClient, err := s3.NewMinioClient(cfg.Minio.Endpoint, cfg.Minio.AccessKey, cfg.Minio.SecretKey, cfg.Minio.Bucket, cfg.Minio.Secure)
		if err != nil {
			log.Fatalf("Failed connect to MinIO: %v", err)
		}
		reportStore, reportSource = minioClient, minioClient
	}

	if len(cfg.Kafka.Brokers) > 0 {
		producer, err := kafka.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.DisplayTopic, cfg.Kafka.DisplayKey)
		if err != nil {
			log.Fatalf("Failed to create Kafka producer: %v", err)
		}
		defer producer.Close()

		publisher := display.NewPublisher(producer, cfg.Kafka.DisplayQueue)
		// Close выполняется раньше producer.Close и успевает отправить очередь
		defer publisher.Close()
		sinks = append(sinks, publisher)
	}

	m := metrics.New()
	sessions := runner.NewSessions(ctx, journal, reportStore, m)
	ctrl := controller.New(
		sinks,
		scheduler.NewTicker(ctx),
		controller.SystemClock{},
		controller.SampleRandom{},
		controller.WithObserver(sessions),
	)
	r := runner.New(ctrl)

	if len(cfg.Kafka.Brokers) > 0 {
		listener, err := kafka.NewCommandListener(cfg.Kafka.Brokers, cfg.Kafka.GroupID, cfg.Kafka.CommandTopic)
		if err != nil {
			log.Fatalf("Failed to create Kafka consumer: %v", err)
		}
		defer listener.Close()
		listener.Start(ctx)
		go r.ListenAndRun(ctx, listener.Commands())
	}

	if cfg.Demo.AutoStart {
		ctrl.Start()
		if cfg.Demo.AutoCycle {
			if err := ctrl.StartAutoDemo(); err != nil {
				log.Printf("Main: auto demo: %v", err)
			}
		}
	}

	// Настройка роутера
	handlers := api.NewHandlers(ctrl, board, sessions, reportSource, history)
	server := &http.Server{
		Addr:    cfg.HTTP.Addr,
		Handler: handlers.Router(m.Handler()),
	}
	// Запуск сервера
	go func() {
		log.Printf("Starting proctoring demo API server on %s", cfg.HTTP.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("HTTP server error: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	<-stop
	log.Println("Main: shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}

	// Закрываем текущую сессию, чтобы записался отчёт
	ctrl.Stop()
	cancel()
}
