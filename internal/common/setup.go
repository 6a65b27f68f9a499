package common

import (
	"log"
	"strings"

	"github.com/Goldenboy100/golden-exchange--sub000/internal/cache"
	"github.com/Goldenboy100/golden-exchange--sub000/internal/models"
	"github.com/Goldenboy100/golden-exchange--sub000/internal/reconcile"
	"github.com/Goldenboy100/golden-exchange--sub000/internal/remote"
	"github.com/Goldenboy100/golden-exchange--sub000/internal/seed"
	"github.com/Goldenboy100/golden-exchange--sub000/internal/store"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

// init loads environment variables from .env file if it exists
func init() {
	// Environment variables can also be set via shell export, docker, etc.
	if err := godotenv.Load(); err != nil {
		log.Printf("Note: No .env file found or unable to load it: %v\n", err)
	} else {
		log.Println("Loaded environment variables from .env file")
	}
}

// Services bundles everything a sync client needs.
type Services struct {
	Medium *cache.SQLiteMedium
	Cache  *cache.Cache
	Store  *store.Store
	Engine *reconcile.Engine
	Remote *remote.Client
}

func InitializeLogger() (*zap.Logger, func()) {
	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	zap.ReplaceGlobals(logger)

	cleanup := func() {
		if err := logger.Sync(); err != nil {
			if !isIgnorableSyncError(err) {
				log.Printf("Failed to sync logger: %v\n", err)
			}
		}
	}

	return logger, cleanup
}

// InitializeServices builds the client stack: durable cache, snapshot store
// hydrated cache-first (with the rate dedup repair pass), remote client, and
// the reconciliation engine with every collection bound.
func InitializeServices(cfg *models.Config) (*Services, error) {
	medium, err := cache.OpenSQLite(cfg.Cache.Path)
	if err != nil {
		return nil, err
	}

	c := cache.New(medium, cfg.Cache.Namespace, func(err error) {
		// The single user-facing quota alert for the session.
		zap.L().Warn("Device storage is full; changes will not survive a restart", zap.Error(err))
	})

	defaults := seed.Load(cfg.SeedFile)
	st := store.New(store.Defaults{
		Rates:        cache.DedupRates(cache.Load(c, store.KeyRates, defaults.Rates)),
		Metals:       cache.DedupMetals(cache.Load(c, store.KeyMetals, defaults.Metals)),
		Crypto:       cache.Load(c, store.KeyCrypto, defaults.Crypto),
		News:         cache.Load(c, store.KeyNews, defaults.Headlines),
		Users:        cache.Load(c, store.KeyUsers, []models.User{}),
		Transactions: cache.Load(c, store.KeyTransactions, []models.Transaction{}),
		Products:     cache.Load(c, store.KeyProducts, []models.Product{}),
		Categories:   cache.Load(c, store.KeyCategories, []models.Category{}),
		Config:       cache.LoadValue(c, store.KeyConfig, defaults.Config),
		Theme:        cache.LoadValue(c, "theme", "dark"),
		Language:     cache.LoadValue(c, "language", defaults.Config.Language),
		SessionUser:  cache.LoadValue(c, "session", ""),
	})

	client, err := remote.NewClient(cfg.Remote.BaseURL)
	if err != nil {
		medium.Close()
		return nil, err
	}

	eng := reconcile.NewEngine(c)
	reconcile.Bind(eng, st.Rates, remote.Collection[models.Rate](client, store.KeyRates))
	reconcile.Bind(eng, st.Metals, remote.Collection[models.MetalRate](client, store.KeyMetals))
	reconcile.Bind(eng, st.Crypto, remote.Collection[models.CryptoRate](client, store.KeyCrypto))
	reconcile.Bind(eng, st.News, remote.Collection[models.Headline](client, store.KeyNews))
	reconcile.Bind(eng, st.Users, remote.Collection[models.User](client, store.KeyUsers))
	reconcile.Bind(eng, st.Transactions, remote.Collection[models.Transaction](client, store.KeyTransactions))
	reconcile.Bind(eng, st.Products, remote.Collection[models.Product](client, store.KeyProducts))
	reconcile.Bind(eng, st.Categories, remote.Collection[models.Category](client, store.KeyCategories))
	reconcile.BindConfig(eng, st.Config, remote.Collection[models.AppConfig](client, store.KeyConfig))

	// Device-local settings only persist; they are never reconciled.
	reconcile.PersistScalar(eng, st.Theme)
	reconcile.PersistScalar(eng, st.Language)
	reconcile.PersistScalar(eng, st.SessionUser)

	return &Services{
		Medium: medium,
		Cache:  c,
		Store:  st,
		Engine: eng,
		Remote: client,
	}, nil
}

// Close drains in-flight remote pushes, then releases the cache.
func (s *Services) Close() {
	if s.Engine != nil {
		s.Engine.Wait()
	}
	if s.Medium != nil {
		s.Medium.Close()
	}
}

func isIgnorableSyncError(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "sync /dev/stderr: inappropriate ioctl for device") ||
		strings.Contains(msg, "sync /dev/stdout: inappropriate ioctl for device")
}
