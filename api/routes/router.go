package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/aventra-health/benefits-store-backend/api/controllers"
	"github.com/aventra-health/benefits-store-backend/api/middleware"
	authsvc "github.com/aventra-health/benefits-store-backend/internal/auth"
	"github.com/aventra-health/benefits-store-backend/internal/cart"
	"github.com/aventra-health/benefits-store-backend/internal/catalog"
	checkoutsvc "github.com/aventra-health/benefits-store-backend/internal/checkout"
	"github.com/aventra-health/benefits-store-backend/internal/orders"
	"github.com/aventra-health/benefits-store-backend/pkg/auth/session"
	"github.com/aventra-health/benefits-store-backend/pkg/config"
	"github.com/aventra-health/benefits-store-backend/pkg/logger"
	"github.com/aventra-health/benefits-store-backend/pkg/redis"
)

// Deps bundles everything the HTTP surface needs. Optional fields (Gatherer,
// Pingers entries) may be nil.
type Deps struct {
	Config   *config.Config
	Logger   *logger.Logger
	Redis    *redis.Client
	Sessions session.AccessSessionChecker
	Gatherer prometheus.Gatherer
	Pingers  map[string]controllers.Pinger

	Auth     authsvc.Service
	Catalog  *catalog.Service
	Cart     *cart.Service
	Checkout *checkoutsvc.Service
	Orders   *orders.Service
}

func NewRouter(d Deps) http.Handler {
	cfg := d.Config
	logg := d.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)
	registerPolicy := middleware.NewAuthRateLimitPolicy(
		"register",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		cfg.AuthRateLimit.RegisterEmailLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, d.Pingers))
	})

	if d.Gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(d.Gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api/auth/customer", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(registerPolicy, d.Redis, logg)).Post("/register", controllers.Register(d.Auth, logg))
		r.With(middleware.AuthRateLimit(loginPolicy, d.Redis, logg)).Post("/login", controllers.Login(d.Auth, logg))
		r.Post("/refresh", controllers.Refresh(d.Auth, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, d.Sessions, logg))
			r.Use(middleware.RequireCustomer(logg))
			r.Get("/me", controllers.Me(d.Auth, logg))
			r.Post("/logout", controllers.Logout(d.Auth, logg))
		})
	})

	r.Route("/api/products", func(r chi.Router) {
		r.Get("/", controllers.ListProducts(d.Catalog, logg))
		r.Get("/{slug}", controllers.GetProductBySlug(d.Catalog, logg))
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, d.Sessions, logg))
		r.Use(middleware.RequireCustomer(logg))

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", controllers.GetCart(d.Cart, logg))
			r.Post("/", controllers.AddCartItem(d.Cart, logg))
			r.Put("/{itemID}", controllers.UpdateCartItem(d.Cart, logg))
			r.Delete("/{itemID}", controllers.RemoveCartItem(d.Cart, logg))
		})

		r.Post("/checkout", controllers.Checkout(d.Checkout, logg))

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", controllers.ListMyOrders(d.Orders, logg))
			r.Get("/{orderID}", controllers.GetMyOrder(d.Orders, logg))
		})
	})

	r.Route("/api/admin", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, d.Sessions, logg))
		r.Use(middleware.RequireAdmin(logg))

		r.Route("/products", func(r chi.Router) {
			r.Get("/", controllers.AdminListProducts(d.Catalog, logg))
			r.Post("/", controllers.AdminCreateProduct(d.Catalog, logg))
			r.Get("/{productID}", controllers.AdminGetProduct(d.Catalog, logg))
			r.Put("/{productID}", controllers.AdminUpdateProduct(d.Catalog, logg))
		})
	})

	return r
}
