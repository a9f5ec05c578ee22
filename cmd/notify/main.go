package main

import (
	"context"
	"encoding/json"
	stdlog "log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/tazhibayda/posts-service/internal/config"
	"github.com/tazhibayda/posts-service/internal/log"
	"github.com/tazhibayda/posts-service/internal/mail"
	"github.com/tazhibayda/posts-service/internal/queue"
)

func main() {
	cfg := config.LoadNotify()

	if _, err := log.Init(cfg.Prod); err != nil {
		stdlog.Fatalf("log init: %v", err)
	}
	defer log.Sync()

	cons, err := queue.NewConsumer(cfg.RabbitURL, cfg.Exchange, cfg.Queue, cfg.BindKey)
	if err != nil {
		log.L.Fatal("rabbit consumer init", zap.Error(err))
	}
	defer cons.Close()

	sender := &mail.Sender{Log: log.L}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.L.Info("notify worker up",
		zap.String("exchange", cfg.Exchange),
		zap.String("queue", cfg.Queue),
		zap.String("key", cfg.BindKey),
		zap.Int("workers", cfg.Concurrency))

	err = cons.Consume(ctx, cfg.Concurrency, func(key string, body []byte) error {
		switch key {
		case queue.KeyUserRegistered:
			var ev queue.UserRegistered
			if err := json.Unmarshal(body, &ev); err != nil {
				log.L.Warn("bad user.registered payload", zap.Error(err))
				return nil // drop, do not requeue garbage
			}
			return sender.SendWelcome(ev.Email, ev.Username)
		case queue.KeyPasswordReset:
			var ev queue.PasswordResetRequested
			if err := json.Unmarshal(body, &ev); err != nil {
				log.L.Warn("bad password reset payload", zap.Error(err))
				return nil
			}
			return sender.SendPasswordReset(ev.Email, cfg.BaseURL+"/auth/reset/"+ev.Token+"/")
		default:
			log.L.Debug("ignoring event", zap.String("key", key))
			return nil
		}
	})
	if err != nil {
		log.L.Fatal("consumer stopped", zap.Error(err))
	}
}
