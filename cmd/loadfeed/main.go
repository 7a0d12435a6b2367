package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/shopfront/backend/internal/application/importapp"
	"github.com/shopfront/backend/internal/domain/identity"
	"github.com/shopfront/backend/internal/domain/shared"
	"github.com/shopfront/backend/internal/infrastructure/config"
	"github.com/shopfront/backend/internal/infrastructure/feed"
	"github.com/shopfront/backend/internal/infrastructure/logger"
	"github.com/shopfront/backend/internal/infrastructure/persistence"
	"go.uber.org/zap"
)

const defaultShopEmail = "shop@example.com"

func main() {
	var (
		email    string
		password string
		logLevel string
		timeout  time.Duration
	)
	flag.StringVar(&email, "email", defaultShopEmail, "Email of the shop account that owns the feed")
	flag.StringVar(&password, "password", "", "Password for the shop account when it has to be created")
	flag.StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	flag.DurationVar(&timeout, "timeout", 5*time.Minute, "Time limit for the whole import")
	flag.Usage = printUsage
	flag.Parse()

	if flag.NArg() != 1 {
		printUsage()
		os.Exit(1)
	}
	path := flag.Arg(0)

	log, err := logger.New(&logger.Config{
		Level:      logLevel,
		Format:     "console",
		Output:     "stdout",
		TimeFormat: "2006-01-02 15:04:05",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration", zap.Error(err))
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	db, err := persistence.Open(ctx, &cfg.Database, persistence.Options{
		Logger: logger.NewGormLogger(log, logger.MapGormLogLevel(logLevel), 200*time.Millisecond),
	})
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	accounts := persistence.NewGormAccountRepository(db.DB)
	parser := feed.NewYAMLParser()
	loader := &feedLoader{
		accounts: accounts,
		importer: importapp.NewFeedImporter(persistence.NewGormTransactionScope(db.DB), accounts, nil, parser, log),
		parser:   parser,
		maxSize:  cfg.Feed.MaxSize,
		logger:   log,
	}

	account, err := loader.ensureShopAccount(ctx, email, password)
	if err != nil {
		log.Fatal("Failed to prepare shop account", zap.String("email", email), zap.Error(err))
	}
	result, err := loader.load(ctx, account.ID, path)
	if err != nil {
		log.Fatal("Feed import failed", zap.String("file", path), zap.Error(err))
	}
	log.Info("Feed imported",
		zap.String("file", path),
		zap.String("shop", result.Shop),
		zap.Int("imported", result.Imported),
		zap.Int("retired", result.Retired),
	)
}

// feedLoader imports a feed file from disk on behalf of one shop account
type feedLoader struct {
	accounts identity.AccountRepository
	importer *importapp.FeedImporter
	parser   importapp.FeedParser
	maxSize  int64
	logger   *zap.Logger
}

// ensureShopAccount returns the shop account for email, creating an active one
// when none exists. An existing buyer account is refused.
func (l *feedLoader) ensureShopAccount(ctx context.Context, email, password string) (*identity.Account, error) {
	account, err := l.accounts.FindByEmail(ctx, email)
	if err == nil {
		if !account.IsShop() {
			return nil, fmt.Errorf("account %s is not a shop account", email)
		}
		return account, nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return nil, fmt.Errorf("find account: %w", err)
	}
	if password == "" {
		return nil, fmt.Errorf("account %s does not exist; pass -password to create it", email)
	}

	account, err = identity.NewAccount(email, password, identity.AccountTypeShop, identity.Profile{
		FirstName: "Shop",
		LastName:  "Owner",
	})
	if err != nil {
		return nil, err
	}
	account.Activate()
	if err := l.accounts.Create(ctx, account); err != nil {
		return nil, fmt.Errorf("create account: %w", err)
	}
	l.logger.Info("Shop account created", zap.String("email", account.Email))
	return account, nil
}

// load reads, parses and imports the feed file at path
func (l *feedLoader) load(ctx context.Context, accountID uuid.UUID, path string) (importapp.ImportResult, error) {
	info, err := os.Stat(path)
	if err != nil {
		return importapp.ImportResult{}, err
	}
	if l.maxSize > 0 && info.Size() > l.maxSize {
		return importapp.ImportResult{}, fmt.Errorf("feed file is %d bytes, limit is %d", info.Size(), l.maxSize)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return importapp.ImportResult{}, err
	}
	parsed, err := l.parser.Parse(data)
	if err != nil {
		return importapp.ImportResult{}, err
	}
	result := l.importer.ImportFeed(ctx, accountID, parsed)
	if !result.Status {
		if result.Code != "" {
			return result, fmt.Errorf("%s: %s", result.Code, result.Error)
		}
		return result, errors.New(result.Error)
	}
	return result, nil
}

func printUsage() {
	fmt.Println(`Shopfront feed loader

Imports a YAML catalog feed from a local file into the shop of one account.
The account is created as an active shop account when it does not exist.

Usage:
  loadfeed [flags] <file>

Flags:
  -email string       Shop account email (default: shop@example.com)
  -password string    Password used when the account has to be created
  -timeout duration   Time limit for the whole import (default: 5m)
  -log-level string   Log level: debug, info, warn, error (default: info)

Environment Variables:
  SHOP_DATABASE_HOST, SHOP_DATABASE_PORT, SHOP_DATABASE_USER,
  SHOP_DATABASE_PASSWORD, SHOP_DATABASE_DBNAME, SHOP_DATABASE_SSLMODE,
  SHOP_FEED_MAX_SIZE`)
}
