package main

import (
	"bufio"
	"context"
	"database/sql"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	_ "github.com/lib/pq"

	"fundregistry/internal/platform/config"
	"fundregistry/internal/platform/logger"
	platformredis "fundregistry/internal/platform/redis"
	registrycfg "fundregistry/internal/registry/config"
	"fundregistry/internal/registry/models"
	"fundregistry/internal/registry/runlock"
	"fundregistry/internal/registry/service"
	"fundregistry/internal/registry/store"
	"fundregistry/internal/review"
	dErrors "fundregistry/pkg/domain-errors"
	"fundregistry/pkg/requestcontext"
)

// ingest resolves a batch of candidate records from an NDJSON file (or
// stdin) against the registry. Records are processed strictly in input
// order; a store failure aborts the run naming the record that hit it, so
// the operator can fix the store and resume from there.
func main() {
	input := flag.String("input", "-", "NDJSON file of candidate records, - for stdin")
	source := flag.String("source", "", "default source_id for records that carry none")
	lockTTL := flag.Duration("lock-ttl", 30*time.Minute, "ingest run lock TTL")
	flag.Parse()

	cfg := config.FromEnv()
	log := logger.New()

	if err := run(cfg, log, *input, *source, *lockTTL); err != nil {
		log.Error("ingest failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

type inputRecord struct {
	FundName       string `json:"fund_name"`
	GeneralPartner string `json:"general_partner,omitempty"`
	VintageYear    int    `json:"vintage_year,omitempty"`
	SourceID       string `json:"source_id,omitempty"`
}

func run(cfg config.Config, log *slog.Logger, input, defaultSource string, lockTTL time.Duration) error {
	ctx := requestcontext.WithTime(context.Background(), time.Now().UTC())

	// One ingest at a time per registry: two concurrent runs would race on
	// the resolver's read-then-create step and mint duplicate funds.
	if cfg.RedisURL != "" {
		redisClient, err := platformredis.New(cfg.RedisURL)
		if err != nil {
			return fmt.Errorf("connect redis: %w", err)
		}
		defer redisClient.Close()

		lock := runlock.New(redisClient.Client, lockTTL)
		if err := lock.Acquire(ctx); err != nil {
			return err
		}
		defer func() {
			if err := lock.Release(ctx); err != nil {
				log.Error("lock release failed", slog.String("error", err.Error()))
			}
		}()
	}

	st, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer closeStore()

	publisher, closeReview, err := openReviewPublisher(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("open review publisher: %w", err)
	}
	defer closeReview()

	resolver, err := service.New(ctx, st, registrycfg.Default(),
		service.WithLogger(log),
		service.WithReviewPublisher(publisher),
	)
	if err != nil {
		return fmt.Errorf("load registry: %w", err)
	}

	in, closeInput, err := openInput(input)
	if err != nil {
		return err
	}
	defer closeInput()

	counts := map[models.MatchType]int{}
	skipped := 0
	line := 0

	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}

		var rec inputRecord
		if err := json.Unmarshal([]byte(text), &rec); err != nil {
			log.Warn("skipping malformed record",
				slog.Int("line", line),
				slog.String("error", err.Error()),
			)
			skipped++
			continue
		}
		if rec.SourceID == "" {
			rec.SourceID = defaultSource
		}

		res, err := resolver.Resolve(ctx, models.CandidateRecord{
			FundNameRaw:    rec.FundName,
			GeneralPartner: rec.GeneralPartner,
			VintageYear:    rec.VintageYear,
			SourceID:       rec.SourceID,
		})
		if err != nil {
			if dErrors.HasCode(err, dErrors.CodeValidation) {
				log.Warn("skipping invalid record",
					slog.Int("line", line),
					slog.String("fund_name", rec.FundName),
					slog.String("error", err.Error()),
				)
				skipped++
				continue
			}
			// Store trouble mid-batch: stop here rather than resolve the
			// rest against a registry we can no longer persist to.
			return fmt.Errorf("record %d (%q): %w", line, rec.FundName, err)
		}
		counts[res.MatchType]++
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read input: %w", err)
	}

	stats := resolver.Stats()
	log.Info("ingest complete",
		slog.Int("records", line),
		slog.Int("exact", counts[models.MatchExact]),
		slog.Int("alias", counts[models.MatchAlias]),
		slog.Int("fuzzy", counts[models.MatchFuzzy]),
		slog.Int("new", counts[models.MatchNew]),
		slog.Int("skipped", skipped),
		slog.Int("total_funds", stats.TotalFunds),
		slog.Int("total_aliases", stats.TotalAliases),
	)
	return nil
}

func openInput(path string) (io.Reader, func(), error) {
	if path == "-" {
		return os.Stdin, func() {}, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open input: %w", err)
	}
	return f, func() { _ = f.Close() }, nil
}

func openStore(ctx context.Context, cfg config.Config) (service.Store, func(), error) {
	if cfg.PostgresURL == "" {
		return store.NewInMemory(), func() {}, nil
	}

	db, err := sql.Open("postgres", cfg.PostgresURL)
	if err != nil {
		return nil, nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, nil, err
	}

	pg := store.NewPostgres(db)
	if err := pg.Migrate(ctx); err != nil {
		_ = db.Close()
		return nil, nil, err
	}
	return pg, func() { _ = db.Close() }, nil
}

func openReviewPublisher(ctx context.Context, cfg config.Config, log *slog.Logger) (review.Publisher, func(), error) {
	if cfg.KafkaBrokers == "" {
		return review.NewLogPublisher(log), func() {}, nil
	}

	brokers := strings.Split(cfg.KafkaBrokers, ",")
	kafka, err := review.NewKafkaPublisher(ctx, brokers, cfg.ReviewTopic)
	if err != nil {
		return nil, nil, err
	}
	return kafka, kafka.Close, nil
}
