package app

import (
	"canteen-pos/config"
	"canteen-pos/libs"
	"canteen-pos/middleware"
	"canteen-pos/repositories"
	"canteen-pos/routes"
	"canteen-pos/services"
	"canteen-pos/utils"
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

// App is a wired terminal: one staff session, one cart and one checkout.
type App struct {
	Router *gin.Engine

	redis   *redis.Client
	journal *pgxpool.Pool
}

// New connects the optional Redis cache and sales journal, builds the
// services and registers the routes on router.
func New(cfg *config.Config, router *gin.Engine) *App {
	logger := log.New(os.Stdout, "[canteen-pos] ", log.LstdFlags|log.Lmicroseconds)

	a := &App{Router: router}

	var cache repositories.CatalogCache
	if a.redis = config.ConnectRedis(); a.redis != nil {
		cache = repositories.NewRedisCatalogCache(a.redis)
	} else {
		cache = repositories.NewMemoryCatalogCache()
	}

	var journal services.Journal
	if a.journal = config.ConnectJournalDB(); a.journal != nil {
		journal = repositories.NewJournalRepository(a.journal)
	}

	ledger := libs.NewLedgerClient(cfg.LedgerBaseURL, cfg.LedgerTimeout)
	tokens := utils.NewTokenIssuer(cfg.JWTSecret, cfg.JWTExpiry)

	state := services.NewState()
	history := services.NewHistoryService(journal, logger)
	deps := routes.Dependencies{
		Sessions: services.NewSessionService(state, ledger, tokens, logger),
		Catalog:  services.NewCatalogService(state, ledger, cache, cfg.LedgerCatalogMode, cfg.CatalogTTL, logger),
		Cart:     services.NewCartService(state, ledger, logger),
		Checkout: services.NewCheckoutService(state, ledger, history, services.CheckoutConfig{
			CashAccountID: cfg.CashAccountID,
			Currency:      cfg.Currency,
		}, logger),
		History: history,
		Tokens:  tokens,
	}

	router.Use(middleware.CORSMiddleware(cfg.OriginURL))
	routes.SetupRoutes(router, deps)
	return a
}

func (a *App) Close() {
	if a.redis != nil {
		a.redis.Close()
	}
	if a.journal != nil {
		a.journal.Close()
	}
}
