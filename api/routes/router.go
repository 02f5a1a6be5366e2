package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tavolaops/tavola-backend/api/controllers"
	"github.com/tavolaops/tavola-backend/api/middleware"
	"github.com/tavolaops/tavola-backend/internal/accounts"
	internalauth "github.com/tavolaops/tavola-backend/internal/auth"
	"github.com/tavolaops/tavola-backend/internal/events"
	"github.com/tavolaops/tavola-backend/internal/inventory"
	"github.com/tavolaops/tavola-backend/internal/menu"
	"github.com/tavolaops/tavola-backend/internal/orders"
	"github.com/tavolaops/tavola-backend/pkg/auth/session"
	"github.com/tavolaops/tavola-backend/pkg/config"
	"github.com/tavolaops/tavola-backend/pkg/enums"
	"github.com/tavolaops/tavola-backend/pkg/logger"
	"github.com/tavolaops/tavola-backend/pkg/metrics"
	"github.com/tavolaops/tavola-backend/pkg/redis"
)

// Deps bundles everything the HTTP surface needs.
type Deps struct {
	Config      *config.Config
	Logger      *logger.Logger
	Database    controllers.Pinger
	Redis       *redis.Client
	Sessions    session.AccessSessionChecker
	HTTPMetrics *metrics.HTTPMetrics

	AuthService      internalauth.Service
	AccountService   accounts.Service
	MenuService      menu.Service
	InventoryService inventory.Service
	OrderService     orders.Service
	EventService     events.Service
}

func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(deps.HTTPMetrics),
		middleware.CORS(),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginUsernameLimit,
	)
	registerPolicy := middleware.NewAuthRateLimitPolicy(
		"register",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		cfg.AuthRateLimit.RegisterUsernameLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, deps.Database, deps.Redis, logg))
	})

	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(registerPolicy, deps.Redis, logg)).Post("/register", controllers.AuthRegister(deps.AccountService, logg))
		r.With(middleware.AuthRateLimit(loginPolicy, deps.Redis, logg)).Post("/login", controllers.AuthLogin(deps.AuthService, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, deps.Sessions, logg))
			r.Post("/logout", controllers.AuthLogout(deps.AuthService, logg))
			r.Get("/me", controllers.AuthMe(deps.AuthService, logg))
		})
	})

	r.Route("/api/v1/menu", func(r chi.Router) {
		r.Get("/", controllers.PublicListMenu(deps.MenuService, logg))
		r.Get("/categories", controllers.PublicMenuCategories(deps.MenuService, logg))
		r.Get("/{itemId}", controllers.PublicGetMenuItem(deps.MenuService, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, deps.Sessions, logg))
			r.Use(middleware.RequireRole(logg, enums.RoleChef, enums.RoleAdmin))
			r.Post("/", controllers.StaffCreateMenuItem(deps.MenuService, logg))
			r.Put("/{itemId}", controllers.StaffUpdateMenuItem(deps.MenuService, logg))
			r.Patch("/{itemId}/availability", controllers.StaffToggleMenuItemAvailability(deps.MenuService, logg))
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, deps.Sessions, logg))
			r.Use(middleware.RequireRole(logg, enums.RoleAdmin))
			r.Delete("/{itemId}", controllers.StaffDeleteMenuItem(deps.MenuService, logg))
		})
	})

	r.Route("/api/v1/inventory", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, deps.Sessions, logg))

		r.Get("/", controllers.StaffListInventory(deps.InventoryService, logg))
		r.Get("/categories", controllers.StaffInventoryCategories(deps.InventoryService, logg))
		r.Get("/movements", controllers.StaffListStockMovements(deps.InventoryService, logg))
		r.Get("/{itemId}", controllers.StaffGetInventoryItem(deps.InventoryService, logg))
		r.Post("/{itemId}/stock-movement", controllers.StaffRecordStockMovement(deps.InventoryService, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireRole(logg, enums.RoleAdmin))
			r.Get("/usage-report", controllers.AdminInventoryUsageReport(deps.InventoryService, logg))
			r.Post("/", controllers.AdminCreateInventoryItem(deps.InventoryService, logg))
			r.Put("/{itemId}", controllers.AdminUpdateInventoryItem(deps.InventoryService, logg))
			r.Delete("/{itemId}", controllers.AdminDeleteInventoryItem(deps.InventoryService, logg))
		})
	})

	r.Route("/api/v1/orders", func(r chi.Router) {
		r.Post("/", controllers.PublicCreateOrder(deps.OrderService, logg))
		// customers look up their own order by id, no session needed
		r.Get("/{orderId}", controllers.PublicGetOrder(deps.OrderService, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, deps.Sessions, logg))
			r.Get("/", controllers.StaffListOrders(deps.OrderService, logg))
			r.Patch("/{orderId}/status", controllers.StaffUpdateOrderStatus(deps.OrderService, logg))
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, deps.Sessions, logg))
			r.Use(middleware.RequireRole(logg, enums.RoleAdmin))
			r.Get("/stats", controllers.AdminOrderStats(deps.OrderService, logg))
			r.Put("/{orderId}", controllers.AdminUpdateOrder(deps.OrderService, logg))
			r.Delete("/{orderId}", controllers.AdminDeleteOrder(deps.OrderService, logg))
		})
	})

	r.Route("/api/v1/events", func(r chi.Router) {
		r.Get("/", controllers.PublicListEvents(deps.EventService, logg))
		r.Get("/{eventId}", controllers.PublicGetEvent(deps.EventService, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, deps.Sessions, logg))
			r.Use(middleware.RequireRole(logg, enums.RoleAdmin))
			r.Post("/", controllers.AdminCreateEvent(deps.EventService, logg))
			r.Put("/{eventId}", controllers.AdminUpdateEvent(deps.EventService, logg))
			r.Patch("/{eventId}/active", controllers.AdminToggleEventActive(deps.EventService, logg))
			r.Delete("/{eventId}", controllers.AdminDeleteEvent(deps.EventService, logg))
		})
	})

	r.Route("/api/v1/users", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, deps.Sessions, logg))
		r.Use(middleware.RequireRole(logg, enums.RoleAdmin))

		r.Get("/", controllers.AdminListAccounts(deps.AccountService, logg))
		r.Post("/", controllers.AdminCreateAccount(deps.AccountService, logg))
		r.Get("/{accountId}", controllers.AdminGetAccount(deps.AccountService, logg))
		r.Put("/{accountId}", controllers.AdminUpdateAccount(deps.AccountService, logg))
		r.Patch("/{accountId}/active", controllers.AdminToggleAccountActive(deps.AccountService, logg))
		r.Delete("/{accountId}", controllers.AdminDeleteAccount(deps.AccountService, logg))
	})

	return r
}
