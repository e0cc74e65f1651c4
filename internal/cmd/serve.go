package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"care4pets/internal/cache"
	"care4pets/internal/database"
	"care4pets/internal/events"
	"care4pets/internal/server"
	"care4pets/pkg/rabbitmq"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	RunE:  runServe,
}

var autoMigrate bool

func init() {
	serveCmd.Flags().BoolVar(&autoMigrate, "migrate", true, "run schema migrations before serving")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	rt, err := bootstrap()
	if err != nil {
		return err
	}
	defer rt.close()
	cfg, log := rt.cfg, rt.log

	if autoMigrate {
		if err := database.Migrate(rt.db); err != nil {
			return err
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	unread := cache.UnreadCache(cache.NoopUnreadCache{})
	if cfg.RedisURL != "" {
		client, err := cache.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			return err
		}
		defer client.Close()
		unread = cache.NewRedisUnreadCache(client, cache.DefaultTTL)
		log.Info("Unread notification cache enabled")
	}

	// Without a broker, events go straight to the notification service.
	var (
		publisher events.Publisher
		mqClient  *rabbitmq.Client
		inProcess *events.InProcessPublisher
	)
	if cfg.RabbitMQURL != "" {
		mqClient, err = rabbitmq.NewClient(rabbitmq.Config{
			URL:      cfg.RabbitMQURL,
			Exchange: events.DefaultExchange,
			Logger:   log,
		})
		if err != nil {
			return fmt.Errorf("failed to initialize RabbitMQ client: %w", err)
		}
		defer mqClient.Close()
		publisher = events.NewAMQPPublisher(mqClient)
	} else {
		inProcess = events.NewInProcessPublisher()
		publisher = inProcess
	}

	svc := server.NewServices(rt.db, cfg, publisher, unread, log)

	if mqClient != nil {
		handler := events.DeliveryHandler(svc.Notifications.HandleEvent)
		if err := mqClient.Consume(events.NotificationQueue, events.AllTypes, handler); err != nil {
			return fmt.Errorf("failed to start notification consumer: %w", err)
		}
	} else {
		inProcess.Subscribe(svc.Notifications.HandleEvent)
	}

	app := server.New(cfg, svc, rt.db, log)

	serveErr := make(chan error, 1)
	go func() {
		log.Info("Starting server", zap.String("addr", cfg.Port))
		serveErr <- app.Listen(cfg.Port)
	}()

	select {
	case err := <-serveErr:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	log.Info("Shutting down server...")
	if err := app.Shutdown(); err != nil {
		log.Error("Error during Fiber shutdown", zap.Error(err))
	}
	log.Info("Server gracefully stopped")
	return nil
}
