package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"salao/config"
	httpapi "salao/terminal/internal/api/http"
	"salao/terminal/internal/apiclient"
	"salao/terminal/internal/events"
	"salao/terminal/internal/logger"
	"salao/terminal/internal/notify"
	"salao/terminal/internal/service"
	"salao/terminal/internal/session"
	"salao/terminal/internal/storage"
)

func main() {
	cfg := config.Load()
	log := logger.New("terminal", os.Stdout)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	router, cleanup := newApp(ctx, cfg, log)
	defer cleanup()

	if err := httpapi.StartServer(ctx, cfg.ListenAddr, router, log); err != nil {
		log.Error("server", "", "server stopped", err)
		os.Exit(1)
	}
}

// newApp wires the terminal against the backend in cfg. Redis and Kafka are
// only used when configured. cleanup releases them and stops the token
// watcher.
func newApp(ctx context.Context, cfg config.Config, log *logger.Logger) (http.Handler, func()) {
	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	sess := session.New()
	feed := notify.NewFeed(log, 50)
	client := apiclient.New(cfg.APIBaseURL, &http.Client{Timeout: cfg.RequestTimeout}, sess, feed, log)

	var store session.Store
	if rdb := config.MustInitRedis(cfg.RedisAddr); rdb != nil {
		closers = append(closers, func() { rdb.Close() })
		store = storage.NewRedisSessionStore(rdb, cfg.SessionTTL, cfg.TerminalID)
	}

	var kitchen service.KitchenPublisher
	if writer := config.NewKafkaWriter(cfg.KafkaBroker, cfg.KitchenTopic); writer != nil {
		closers = append(closers, func() { writer.Close() })
		kitchen = storage.NewKafkaKitchenPublisher(writer)
	}

	watcher := service.NewTokenWatcher(ctx, client, sess, feed, log)
	closers = append(closers, watcher.Stop)
	auth := service.NewAuthService(client, sess, store, watcher, feed, log)
	if auth.Restore(ctx) {
		log.Info("restore_session", "", "remembered session restored")
	}

	drafts := service.NewDraftService(ctx, client, feed, kitchen, log)
	sess.OnClear(drafts.CloseAll)
	tables := service.NewTableService(client, feed, service.TableQRGenerator{BaseURL: cfg.QRBaseURL}, log)
	orders := service.NewOrderBoard(client, feed, log)

	relay := events.NewRelay(cfg.WSURL, sess.Token, log)
	feed.Subscribe(relay.PublishNotification)
	go relay.Run(ctx)

	handler := httpapi.NewHandler(auth, drafts, tables, orders)
	handler.Session = sess
	handler.Feed = feed
	handler.Events = relay
	handler.Log = log

	limiter := httpapi.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
	return httpapi.NewRouter(handler, limiter, cfg.AllowedOrigins), cleanup
}
