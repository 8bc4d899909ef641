package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"deliberate/backend/internal/appeal"
	"deliberate/backend/internal/config"
	"deliberate/backend/internal/events"
	"deliberate/backend/internal/logging"
	"deliberate/backend/internal/models"
	"deliberate/backend/internal/storage"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const usage = `Usage: admin <command> [args]

Commands:
  pending [page_size] [cursor]                        list PENDING appeals
  assign <appeal_id> <moderator_id>                   claim an appeal for a moderator
  unassign <appeal_id>                                return an appeal to the queue
  review <appeal_id> <moderator_id> <upheld|denied> <reasoning...>
  stats [start] [end]                                 counts by status (RFC 3339 bounds)
  add-moderator <display_name...>                     register a moderator
  watch                                               print events as they are published`

func main() {
	if len(os.Args) < 2 {
		fmt.Println(usage)
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	logger, err := logging.New(cfg.LogLevel, "console")
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	db, err := storage.Open(cfg.DBDriver, cfg.DSN(), logger)
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}
	if err := storage.Migrate(db); err != nil {
		log.Fatalf("failed to run migrations: %v", err)
	}
	store := storage.NewStorageService(db, logger)

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	defer func() { _ = rdb.Close() }()

	svc := appeal.NewService(store, store, events.NewRedisPublisher(rdb, cfg.EventsChannel), logger)
	svc.DefaultPageSize = cfg.DefaultPageSize
	svc.MaxPageSize = cfg.MaxPageSize

	ctx := context.Background()
	args := os.Args[2:]

	switch os.Args[1] {
	case "pending":
		pageSize := 0
		if len(args) > 0 {
			pageSize, err = strconv.Atoi(args[0])
			if err != nil {
				fmt.Println("Invalid page size. Please provide an integer.")
				os.Exit(1)
			}
		}
		cursor := ""
		if len(args) > 1 {
			cursor = args[1]
		}
		page, err := svc.GetPendingAppeals(ctx, pageSize, cursor, "")
		if err != nil {
			log.Fatalf("Error listing appeals: %v", err)
		}
		printJSON(page)
	case "assign":
		if len(args) != 2 {
			fmt.Println("Usage: admin assign <appeal_id> <moderator_id>")
			os.Exit(1)
		}
		res, err := svc.AssignAppealToModerator(ctx, args[0], args[1])
		if err != nil {
			log.Fatalf("Error assigning appeal: %v", err)
		}
		fmt.Printf("Appeal %s is now under review by %s.\n", res.ID, args[1])
	case "unassign":
		if len(args) != 1 {
			fmt.Println("Usage: admin unassign <appeal_id>")
			os.Exit(1)
		}
		res, err := svc.UnassignAppeal(ctx, args[0])
		if err != nil {
			log.Fatalf("Error unassigning appeal: %v", err)
		}
		fmt.Printf("Appeal %s is back in the queue.\n", res.ID)
	case "review":
		if len(args) < 4 {
			fmt.Println("Usage: admin review <appeal_id> <moderator_id> <upheld|denied> <reasoning...>")
			os.Exit(1)
		}
		res, err := svc.ReviewAppeal(ctx, args[0], args[1], models.ReviewDecision(args[2]), strings.Join(args[3:], " "))
		if err != nil {
			log.Fatalf("Error reviewing appeal: %v", err)
		}
		fmt.Printf("Appeal %s resolved as %s.\n", res.ID, res.Status)
	case "stats":
		var start, end *time.Time
		if len(args) > 0 {
			start = parseTime(args[0])
		}
		if len(args) > 1 {
			end = parseTime(args[1])
		}
		stats, err := svc.GetAppealStatistics(ctx, start, end)
		if err != nil {
			log.Fatalf("Error computing statistics: %v", err)
		}
		printJSON(stats)
	case "add-moderator":
		if len(args) == 0 {
			fmt.Println("Usage: admin add-moderator <display_name...>")
			os.Exit(1)
		}
		m := &models.Moderator{DisplayName: strings.Join(args, " ")}
		if err := store.SaveModerator(ctx, m); err != nil {
			log.Fatalf("Error adding moderator: %v", err)
		}
		fmt.Printf("Moderator %q added with id %s.\n", m.DisplayName, m.ID)
	case "watch":
		watch(rdb, cfg.EventsChannel, logger)
	default:
		fmt.Println("Unknown command")
		fmt.Println(usage)
		os.Exit(1)
	}
}

func watch(rdb *redis.Client, channel string, logger *zap.Logger) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ready := make(chan struct{})
	go func() {
		<-ready
		fmt.Printf("Listening on %s, Ctrl+C to stop.\n", channel)
	}()

	l := events.NewListener(rdb, channel, logger)
	err := l.Run(ctx, func(_ context.Context, e events.Envelope) {
		fmt.Printf("%s %s %s\n", e.OccurredAt.Format(time.RFC3339), e.Type, string(e.Payload))
	}, ready)
	if err != nil && ctx.Err() == nil {
		log.Fatalf("Error watching events: %v", err)
	}
}

func parseTime(s string) *time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		fmt.Printf("Invalid time %q. Please use RFC 3339, e.g. 2026-01-31T00:00:00Z.\n", s)
		os.Exit(1)
	}
	return &t
}

func printJSON(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		log.Fatalf("encode output: %v", err)
	}
}
