package application

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/hamrokrishi/advisory-service/internal/config"
	"github.com/hamrokrishi/advisory-service/internal/database"
	"github.com/hamrokrishi/advisory-service/internal/handler"
	"github.com/hamrokrishi/advisory-service/internal/notify"
	"github.com/hamrokrishi/advisory-service/internal/router"
	"github.com/hamrokrishi/advisory-service/internal/service"
	"github.com/hamrokrishi/advisory-service/internal/ws"
)

// API is the HTTP application (mode api).
type API struct {
	cfg      *config.Config
	httpSrv  *http.Server
	hub      *ws.Hub
	producer *notify.Producer
}

// NewAPI migrates the database and wires services, notifier, websocket
// hub and router together.
func NewAPI(cfg *config.Config) (*API, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := database.MigrateUp(cfg.DatabaseURL()); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	db, err := database.Open(cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("database: %w", err)
	}

	directorySvc := service.NewDirectoryService(db)
	ticketSvc := service.NewTicketService(db, directorySvc)
	messageSvc := service.NewMessageService(db)

	producer := notify.NewProducer(cfg.KafkaBrokers, cfg.KafkaTopicNotify)
	mailer := notify.NewMailer(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.Username, cfg.SMTP.Password, cfg.SMTP.From)
	dispatcher := notify.NewDispatcher(producer, mailer, directorySvc)

	hub := ws.NewHub()

	mux := router.New(router.Handlers{
		Ticket:    handler.NewTicketHandler(ticketSvc, dispatcher),
		Message:   handler.NewMessageHandler(messageSvc, dispatcher, hub),
		Directory: handler.NewDirectoryHandler(directorySvc),
		WS:        &ws.Handler{Hub: hub, AllowedOrigins: cfg.WSAllowedOrigins},
	})

	httpSrv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	return &API{
		cfg:      cfg,
		httpSrv:  httpSrv,
		hub:      hub,
		producer: producer,
	}, nil
}

// Run starts the websocket hub and HTTP server, blocking until ctx is
// cancelled.
func (a *API) Run(ctx context.Context) error {
	host := a.cfg.AppHost
	if host == "0.0.0.0" {
		host = "localhost"
	}
	base := "http://" + host + ":" + a.cfg.HTTPPort
	log.Printf("HTTP server listening on %s", a.httpSrv.Addr)
	log.Printf("  Swagger UI:    %s/swagger", base)
	log.Printf("  Swagger spec:  %s/swagger/openapi.json", base)
	log.Printf("  Health:        %s/health", base)
	log.Printf("  Ready:         %s/ready", base)
	log.Printf("  API v1:        %s/api/v1/", base)
	log.Printf("  Websocket:     ws://%s:%s/ws", host, a.cfg.HTTPPort)
	if a.producer.Active() {
		log.Printf("notify: producing events to Kafka topic %q", a.cfg.KafkaTopicNotify)
	} else {
		log.Printf("notify: Kafka disabled (KAFKA_BROKERS not set)")
	}

	go a.hub.Run()
	go func() {
		if err := a.httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("http: %v", err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := a.httpSrv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	if err := a.producer.Close(); err != nil {
		log.Printf("notify: close producer: %v", err)
	}
	return nil
}
