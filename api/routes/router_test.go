package routes

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/tavolaops/tavola-backend/internal/accounts"
	internalauth "github.com/tavolaops/tavola-backend/internal/auth"
	"github.com/tavolaops/tavola-backend/internal/events"
	"github.com/tavolaops/tavola-backend/internal/inventory"
	"github.com/tavolaops/tavola-backend/internal/menu"
	"github.com/tavolaops/tavola-backend/internal/orders"
	pkgAuth "github.com/tavolaops/tavola-backend/pkg/auth"
	"github.com/tavolaops/tavola-backend/pkg/auth/session"
	"github.com/tavolaops/tavola-backend/pkg/config"
	"github.com/tavolaops/tavola-backend/pkg/enums"
	"github.com/tavolaops/tavola-backend/pkg/logger"
)

type stubPinger struct{}

func (stubPinger) Ping(context.Context) error {
	return nil
}

type stubSessionChecker struct{}

func (stubSessionChecker) HasSession(ctx context.Context, accessID string) (bool, error) {
	return true, nil
}

type stubAuthService struct{}

func (stubAuthService) Login(ctx context.Context, input internalauth.LoginInput) (*internalauth.LoginResult, error) {
	return &internalauth.LoginResult{}, nil
}

func (stubAuthService) Logout(ctx context.Context, accessID string) error {
	return nil
}

func (stubAuthService) Me(ctx context.Context, accountID uuid.UUID) (*accounts.AccountDTO, error) {
	return &accounts.AccountDTO{ID: accountID}, nil
}

type stubAccountService struct{}

func (stubAccountService) Register(ctx context.Context, input accounts.RegisterInput) (*accounts.AccountDTO, error) {
	return &accounts.AccountDTO{}, nil
}

func (stubAccountService) ListAccounts(ctx context.Context) ([]accounts.AccountDTO, error) {
	return []accounts.AccountDTO{}, nil
}

func (stubAccountService) GetAccount(ctx context.Context, id uuid.UUID) (*accounts.AccountDTO, error) {
	return &accounts.AccountDTO{ID: id}, nil
}

func (stubAccountService) CreateAccount(ctx context.Context, input accounts.CreateAccountInput) (*accounts.AccountDTO, error) {
	return &accounts.AccountDTO{}, nil
}

func (stubAccountService) UpdateAccount(ctx context.Context, id uuid.UUID, input accounts.UpdateAccountInput) (*accounts.AccountDTO, error) {
	return &accounts.AccountDTO{ID: id}, nil
}

func (stubAccountService) ToggleActive(ctx context.Context, id uuid.UUID) (*accounts.AccountDTO, error) {
	return &accounts.AccountDTO{ID: id}, nil
}

func (stubAccountService) DeleteAccount(ctx context.Context, actorID, id uuid.UUID) error {
	return nil
}

type stubMenuService struct{}

func (stubMenuService) ListMenu(ctx context.Context, input menu.ListMenuInput) ([]menu.MenuItemDTO, error) {
	return []menu.MenuItemDTO{}, nil
}

func (stubMenuService) GetMenuItem(ctx context.Context, id uuid.UUID) (*menu.MenuItemDTO, error) {
	return &menu.MenuItemDTO{ID: id}, nil
}

func (stubMenuService) ListCategories(ctx context.Context) ([]string, error) {
	return []string{}, nil
}

func (stubMenuService) CreateMenuItem(ctx context.Context, actorID uuid.UUID, input menu.CreateMenuItemInput) (*menu.MenuItemDTO, error) {
	return &menu.MenuItemDTO{}, nil
}

func (stubMenuService) UpdateMenuItem(ctx context.Context, id uuid.UUID, input menu.UpdateMenuItemInput) (*menu.MenuItemDTO, error) {
	return &menu.MenuItemDTO{ID: id}, nil
}

func (stubMenuService) ToggleAvailability(ctx context.Context, id uuid.UUID) (*menu.MenuItemDTO, error) {
	return &menu.MenuItemDTO{ID: id}, nil
}

func (stubMenuService) DeleteMenuItem(ctx context.Context, id uuid.UUID) error {
	return nil
}

type stubInventoryService struct{}

func (stubInventoryService) ListInventory(ctx context.Context, input inventory.ListInventoryInput) ([]inventory.InventoryItemDTO, error) {
	return []inventory.InventoryItemDTO{}, nil
}

func (stubInventoryService) GetInventoryItem(ctx context.Context, id uuid.UUID) (*inventory.InventoryItemDTO, error) {
	return &inventory.InventoryItemDTO{ID: id}, nil
}

func (stubInventoryService) ListCategories(ctx context.Context) ([]string, error) {
	return []string{}, nil
}

func (stubInventoryService) CreateInventoryItem(ctx context.Context, input inventory.CreateInventoryItemInput) (*inventory.InventoryItemDTO, error) {
	return &inventory.InventoryItemDTO{}, nil
}

func (stubInventoryService) UpdateInventoryItem(ctx context.Context, id uuid.UUID, input inventory.UpdateInventoryItemInput) (*inventory.InventoryItemDTO, error) {
	return &inventory.InventoryItemDTO{ID: id}, nil
}

func (stubInventoryService) DeleteInventoryItem(ctx context.Context, id uuid.UUID) error {
	return nil
}

func (stubInventoryService) ApplyMovement(ctx context.Context, itemID, actorID uuid.UUID, input inventory.MovementInput) (*inventory.MovementResultDTO, error) {
	return &inventory.MovementResultDTO{
		Movement: &inventory.StockMovementDTO{InventoryItemID: itemID},
		Item:     &inventory.InventoryItemDTO{ID: itemID},
	}, nil
}

func (stubInventoryService) ListMovements(ctx context.Context, input inventory.ListMovementsInput) ([]inventory.StockMovementDTO, error) {
	return []inventory.StockMovementDTO{}, nil
}

func (stubInventoryService) UsageReport(ctx context.Context) (*inventory.UsageReportDTO, error) {
	return &inventory.UsageReportDTO{}, nil
}

type stubOrderService struct{}

func (stubOrderService) CreateOrder(ctx context.Context, input orders.CreateOrderInput) (*orders.OrderDTO, error) {
	return &orders.OrderDTO{}, nil
}

func (stubOrderService) ListOrders(ctx context.Context, input orders.ListOrdersInput) ([]orders.OrderDTO, error) {
	return []orders.OrderDTO{}, nil
}

func (stubOrderService) GetOrder(ctx context.Context, id uuid.UUID) (*orders.OrderDTO, error) {
	return &orders.OrderDTO{ID: id}, nil
}

func (stubOrderService) UpdateStatus(ctx context.Context, id uuid.UUID, status enums.OrderStatus) (*orders.OrderDTO, error) {
	return &orders.OrderDTO{ID: id, Status: status}, nil
}

func (stubOrderService) UpdateOrder(ctx context.Context, id uuid.UUID, input orders.UpdateOrderInput) (*orders.OrderDTO, error) {
	return &orders.OrderDTO{ID: id}, nil
}

func (stubOrderService) DeleteOrder(ctx context.Context, id uuid.UUID) error {
	return nil
}

func (stubOrderService) Stats(ctx context.Context) (*orders.StatsDTO, error) {
	return &orders.StatsDTO{}, nil
}

type stubEventService struct{}

func (stubEventService) ListEvents(ctx context.Context, input events.ListEventsInput) ([]events.EventDTO, error) {
	return []events.EventDTO{}, nil
}

func (stubEventService) GetEvent(ctx context.Context, id uuid.UUID) (*events.EventDTO, error) {
	return &events.EventDTO{ID: id}, nil
}

func (stubEventService) CreateEvent(ctx context.Context, actorID uuid.UUID, input events.CreateEventInput) (*events.EventDTO, error) {
	return &events.EventDTO{}, nil
}

func (stubEventService) UpdateEvent(ctx context.Context, id uuid.UUID, input events.UpdateEventInput) (*events.EventDTO, error) {
	return &events.EventDTO{ID: id}, nil
}

func (stubEventService) ToggleActive(ctx context.Context, id uuid.UUID) (*events.EventDTO, error) {
	return &events.EventDTO{ID: id}, nil
}

func (stubEventService) DeleteEvent(ctx context.Context, id uuid.UUID) error {
	return nil
}

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Env: "test", Port: "0"},
		JWT: config.JWTConfig{
			Secret:            "secret",
			Issuer:            "issuer",
			ExpirationMinutes: 60,
		},
	}
}

func newTestRouter(cfg *config.Config) http.Handler {
	logg := logger.New(logger.Options{ServiceName: "test-routing", Level: logger.ParseLevel("debug"), Output: io.Discard})
	return NewRouter(Deps{
		Config:           cfg,
		Logger:           logg,
		Database:         stubPinger{},
		Sessions:         stubSessionChecker{},
		AuthService:      stubAuthService{},
		AccountService:   stubAccountService{},
		MenuService:      stubMenuService{},
		InventoryService: stubInventoryService{},
		OrderService:     stubOrderService{},
		EventService:     stubEventService{},
	})
}

func buildToken(t *testing.T, cfg *config.Config, role enums.Role) string {
	t.Helper()
	token, err := pkgAuth.MintAccessToken(cfg.JWT, time.Now(), pkgAuth.AccessTokenPayload{
		AccountID: uuid.New(),
		Role:      role,
		JTI:       session.NewAccessID(),
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	return token
}

func TestPublicMenuNeedsNoToken(t *testing.T) {
	router := newTestRouter(testConfig())
	req := httptest.NewRequest(http.MethodGet, "/api/v1/menu", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
}

func TestInventoryRejectsMissingJWT(t *testing.T) {
	router := newTestRouter(testConfig())
	req := httptest.NewRequest(http.MethodGet, "/api/v1/inventory", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token got %d", resp.Code)
	}
}

func TestInventoryAllowsAnyStaffRole(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/inventory", nil)
	req.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.RoleUser))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
}

func TestMenuMutationRequiresChefOrAdmin(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)

	asUser := httptest.NewRequest(http.MethodPatch, "/api/v1/menu/"+uuid.NewString()+"/availability", nil)
	asUser.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.RoleUser))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, asUser)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for user got %d", resp.Code)
	}

	asChef := httptest.NewRequest(http.MethodPatch, "/api/v1/menu/"+uuid.NewString()+"/availability", nil)
	asChef.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.RoleChef))
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, asChef)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for chef got %d", resp.Code)
	}
}

func TestMenuDeleteRequiresAdmin(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)

	asChef := httptest.NewRequest(http.MethodDelete, "/api/v1/menu/"+uuid.NewString(), nil)
	asChef.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.RoleChef))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, asChef)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for chef got %d", resp.Code)
	}

	asAdmin := httptest.NewRequest(http.MethodDelete, "/api/v1/menu/"+uuid.NewString(), nil)
	asAdmin.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.RoleAdmin))
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, asAdmin)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for admin got %d", resp.Code)
	}
}

func TestUsersRequiresAdmin(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)

	asChef := httptest.NewRequest(http.MethodGet, "/api/v1/users", nil)
	asChef.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.RoleChef))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, asChef)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for chef got %d", resp.Code)
	}

	asAdmin := httptest.NewRequest(http.MethodGet, "/api/v1/users", nil)
	asAdmin.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.RoleAdmin))
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, asAdmin)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for admin got %d", resp.Code)
	}
}

func TestOrderStatsRequiresAdmin(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)

	asUser := httptest.NewRequest(http.MethodGet, "/api/v1/orders/stats", nil)
	asUser.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.RoleUser))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, asUser)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for user got %d", resp.Code)
	}

	asAdmin := httptest.NewRequest(http.MethodGet, "/api/v1/orders/stats", nil)
	asAdmin.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.RoleAdmin))
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, asAdmin)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for admin got %d", resp.Code)
	}
}

func TestUsageReportRequiresAdmin(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)

	asChef := httptest.NewRequest(http.MethodGet, "/api/v1/inventory/usage-report", nil)
	asChef.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.RoleChef))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, asChef)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for chef got %d", resp.Code)
	}

	asAdmin := httptest.NewRequest(http.MethodGet, "/api/v1/inventory/usage-report", nil)
	asAdmin.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.RoleAdmin))
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, asAdmin)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for admin got %d", resp.Code)
	}
}

func TestOrderLookupNeedsNoToken(t *testing.T) {
	router := newTestRouter(testConfig())
	req := httptest.NewRequest(http.MethodGet, "/api/v1/orders/"+uuid.NewString(), nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 without token got %d", resp.Code)
	}
}

func TestHealthLive(t *testing.T) {
	router := newTestRouter(testConfig())
	req := httptest.NewRequest(http.MethodGet, "/health/live", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
}
