package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"github.com/fedotrick/Import-SMS/internal/bot"
	"github.com/fedotrick/Import-SMS/internal/botstate"
	"github.com/fedotrick/Import-SMS/internal/config"
	"github.com/fedotrick/Import-SMS/internal/journal"
	"github.com/fedotrick/Import-SMS/internal/logger"
	"github.com/fedotrick/Import-SMS/internal/telegram"
)

func main() {
	cfg, err := config.LoadBot()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.Log.Level, cfg.Log.Format, "plavka-journal")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	log.Info("Starting plavka-journal bot",
		zap.String("xlsx_path", cfg.Store.XLSXPath),
		zap.String("journal_path", cfg.Store.JournalPath),
	)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	melts := journal.New(cfg.Store.XLSXPath, cfg.Store.LockTimeout, log)
	messages := journal.New(cfg.Store.JournalPath, cfg.Store.LockTimeout, log)
	store := journal.NewSet(melts, messages)
	if err := store.EnsureReady(ctx); err != nil {
		log.Fatal("Failed to prepare journal workbooks", zap.Error(err))
	}

	var states botstate.Store = botstate.NewMemoryStore()
	if cfg.Redis.Addr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			log.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		states = botstate.NewRedisStore(client, 0)
		log.Info("Using Redis for chat state", zap.String("addr", cfg.Redis.Addr))
	}

	client := telegram.NewClient(cfg.Bot.APIURL, cfg.Bot.Token, log)
	me, err := client.GetMe(ctx)
	if err != nil {
		log.Fatal("Failed to reach Telegram API", zap.Error(err))
	}
	log.Info("Authorized", zap.String("username", me.Username), zap.Int64("bot_id", me.ID))

	handler := bot.New(client, store, states, log)
	poller := telegram.NewPoller(client, log)
	if err := poller.Run(ctx, handler); err != nil {
		log.Error("Polling stopped with error", zap.Error(err))
	}

	log.Info("Shutdown complete")
}
