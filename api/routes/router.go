package routes

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/eventmartlabs/eventmart-backend/api/controllers"
	"github.com/eventmartlabs/eventmart-backend/api/middleware"
	accountsvc "github.com/eventmartlabs/eventmart-backend/internal/accounts"
	"github.com/eventmartlabs/eventmart-backend/internal/auth"
	cartsvc "github.com/eventmartlabs/eventmart-backend/internal/cart"
	checkoutsvc "github.com/eventmartlabs/eventmart-backend/internal/checkout"
	ordersvc "github.com/eventmartlabs/eventmart-backend/internal/orders"
	productsvc "github.com/eventmartlabs/eventmart-backend/internal/products"
	vendorsvc "github.com/eventmartlabs/eventmart-backend/internal/vendors"
	"github.com/eventmartlabs/eventmart-backend/pkg/auth/session"
	"github.com/eventmartlabs/eventmart-backend/pkg/config"
	"github.com/eventmartlabs/eventmart-backend/pkg/db"
	"github.com/eventmartlabs/eventmart-backend/pkg/enums"
	"github.com/eventmartlabs/eventmart-backend/pkg/logger"
	"github.com/eventmartlabs/eventmart-backend/pkg/metrics"
	pkgredis "github.com/eventmartlabs/eventmart-backend/pkg/redis"
)

// Deps bundles everything the HTTP surface needs.
type Deps struct {
	Config         *config.Config
	Logger         *logger.Logger
	DB             db.Pinger
	Redis          *pkgredis.Client
	SessionChecker session.AccessSessionChecker
	Registry       *prometheus.Registry
	HTTPMetrics    *metrics.HTTPMetrics

	Auth     auth.Service
	Accounts accountsvc.Service
	Vendors  vendorsvc.Service
	Products productsvc.Service
	Cart     cartsvc.Service
	Checkout checkoutsvc.Service
	Orders   ordersvc.Service
}

// NewRouter assembles the full route table with its middleware chain.
func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	// A typed nil *Client must not reach the middleware nil checks.
	var idemStore pkgredis.IdempotencyStore
	var limiter interface {
		IncrWithTTL(ctx context.Context, key string, ttl time.Duration) (int64, error)
	}
	var redisPinger db.Pinger
	if deps.Redis != nil {
		idemStore = deps.Redis
		limiter = deps.Redis
		redisPinger = deps.Redis
	}

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
		cfg.AuthRateLimit.LoginEmailLimit,
	)
	signupPolicy := middleware.NewAuthRateLimitPolicy(
		"signup",
		cfg.AuthRateLimit.SignupWindow,
		cfg.AuthRateLimit.SignupIPLimit,
		cfg.AuthRateLimit.SignupEmailLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, deps.DB, redisPinger))
	})

	if deps.Registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.Use(middleware.Idempotency(idemStore, logg))
		r.With(middleware.AuthRateLimit(signupPolicy, limiter, logg)).Post("/signup/user", controllers.AuthSignupUser(deps.Auth, logg))
		r.With(middleware.AuthRateLimit(signupPolicy, limiter, logg)).Post("/signup/vendor", controllers.AuthSignupVendor(deps.Auth, logg))
		r.With(middleware.AuthRateLimit(loginPolicy, limiter, logg)).Post("/login", controllers.AuthLogin(deps.Auth, logg))
		r.Post("/refresh", controllers.AuthRefresh(deps.Auth, logg))
		r.Post("/logout", controllers.AuthLogout(deps.Auth, logg))
	})

	// Public catalog reads.
	r.Route("/api/v1/vendors", func(r chi.Router) {
		r.Get("/", controllers.VendorList(deps.Vendors, logg))
		r.Get("/{vendorId}", controllers.VendorDetail(deps.Vendors, logg))
		r.Get("/{vendorId}/products", controllers.VendorProducts(deps.Products, logg))
	})
	r.Route("/api/v1/products", func(r chi.Router) {
		r.Get("/", controllers.ProductCatalog(deps.Products, logg))
		r.Get("/{productId}", controllers.ProductDetail(deps.Products, logg))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, deps.SessionChecker, logg))
		r.Use(middleware.Idempotency(idemStore, logg))

		r.Post("/cart/quote", controllers.CartQuote(deps.Cart, logg))
		r.Post("/checkout", controllers.Checkout(deps.Checkout, logg))

		r.Route("/orders", func(r chi.Router) {
			r.Post("/", controllers.OrderCreate(deps.Orders, logg))
			r.Get("/", controllers.OrderList(deps.Orders, logg))
			r.Get("/{orderId}", controllers.OrderDetail(deps.Orders, logg))
			r.Put("/{orderId}", controllers.OrderUpdateStatus(deps.Orders, logg))
		})

		r.Route("/vendor", func(r chi.Router) {
			r.Use(middleware.RequireRole(string(enums.AccountRoleVendor), logg))
			r.Post("/products", controllers.VendorCreateProduct(deps.Products, logg))
			r.Put("/products/{productId}", controllers.VendorUpdateProduct(deps.Products, logg))
			r.Delete("/products/{productId}", controllers.VendorDeleteProduct(deps.Products, logg))
		})
	})

	r.Route("/api/admin/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, deps.SessionChecker, logg))
		r.Use(middleware.RequireRole(string(enums.AccountRoleAdmin), logg))

		r.Route("/accounts", func(r chi.Router) {
			r.Get("/", controllers.AdminAccountList(deps.Accounts, logg))
			r.Get("/{accountId}", controllers.AdminAccountDetail(deps.Accounts, logg))
			r.Delete("/{accountId}", controllers.AdminAccountDelete(deps.Accounts, logg))
		})
		r.Route("/vendors", func(r chi.Router) {
			r.Get("/", controllers.AdminVendorList(deps.Vendors, logg))
			r.Get("/{vendorId}", controllers.VendorDetail(deps.Vendors, logg))
			r.Delete("/{vendorId}", controllers.AdminVendorDelete(deps.Vendors, logg))
		})
	})

	return r
}
