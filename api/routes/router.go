package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dreamboutique/boutique-backend/api/controllers"
	"github.com/dreamboutique/boutique-backend/api/middleware"
	authsvc "github.com/dreamboutique/boutique-backend/internal/auth"
	cartsvc "github.com/dreamboutique/boutique-backend/internal/cart"
	checkoutsvc "github.com/dreamboutique/boutique-backend/internal/checkout"
	discountsvc "github.com/dreamboutique/boutique-backend/internal/discounts"
	favoritesvc "github.com/dreamboutique/boutique-backend/internal/favorites"
	notificationsvc "github.com/dreamboutique/boutique-backend/internal/notifications"
	ordersvc "github.com/dreamboutique/boutique-backend/internal/orders"
	productsvc "github.com/dreamboutique/boutique-backend/internal/products"
	reportsvc "github.com/dreamboutique/boutique-backend/internal/reports"
	usersvc "github.com/dreamboutique/boutique-backend/internal/users"
	"github.com/dreamboutique/boutique-backend/pkg/auth/session"
	"github.com/dreamboutique/boutique-backend/pkg/config"
	"github.com/dreamboutique/boutique-backend/pkg/db"
	"github.com/dreamboutique/boutique-backend/pkg/enums"
	"github.com/dreamboutique/boutique-backend/pkg/logger"
	"github.com/dreamboutique/boutique-backend/pkg/redis"
)

// Services bundles everything the router wires into handlers.
type Services struct {
	Auth          authsvc.Service
	Users         usersvc.Service
	Products      productsvc.Service
	Discounts     discountsvc.Service
	Cart          cartsvc.Service
	Checkout      checkoutsvc.Service
	Orders        ordersvc.Service
	Favorites     favoritesvc.Service
	Notifications notificationsvc.Service
	Reports       reportsvc.Service
}

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbClient *db.Client,
	redisClient *redis.Client,
	sessions session.AccessSessionChecker,
	svcs Services,
) http.Handler {
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

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbClient, redisClient))
	})

	// Storefront surface. Shoppers are anonymous; the cart token header is
	// the only identity they carry.
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.CartToken(logg))

		r.Route("/products", func(r chi.Router) {
			r.Get("/", controllers.ListProducts(svcs.Products, logg))
			r.Get("/{productId}", controllers.GetProduct(svcs.Products, logg))
		})
		r.Get("/brands", controllers.ListBrands(svcs.Products, logg))

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", controllers.CartFetch(svcs.Cart, logg))
			r.Post("/items", controllers.CartAddItem(svcs.Cart, logg))
			r.Put("/items/{productId}", controllers.CartSetQuantity(svcs.Cart, logg))
			r.Delete("/items/{productId}", controllers.CartRemoveItem(svcs.Cart, logg))
			r.Delete("/", controllers.CartClear(svcs.Cart, logg))
			r.Post("/coupon", controllers.CartApplyCoupon(svcs.Cart, logg))
			r.Delete("/coupon", controllers.CartRemoveCoupon(svcs.Cart, logg))
		})

		r.Post("/checkout", controllers.Checkout(svcs.Checkout, logg))
		r.Get("/orders/track/{trackingNumber}", controllers.TrackOrder(svcs.Orders, logg))

		r.Route("/favorites", func(r chi.Router) {
			r.Get("/", controllers.FavoritesList(svcs.Favorites, logg))
			r.Post("/{productId}/toggle", controllers.FavoritesToggle(svcs.Favorites, logg))
			r.Delete("/{productId}", controllers.FavoritesRemove(svcs.Favorites, logg))
		})
	})

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(loginPolicy, redisClient, logg)).Post("/login", controllers.AuthLogin(svcs.Auth, logg))
		r.Post("/refresh", controllers.AuthRefresh(svcs.Auth, logg))
		r.Post("/logout", controllers.AuthLogout(svcs.Auth, logg))
	})

	// Staff surface. Any authenticated staff member can work the floor
	// endpoints; management stays behind the admin role.
	r.Route("/api/staff/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, sessions, logg))

		r.Route("/attendance", func(r chi.Router) {
			r.Post("/check-in", controllers.AttendanceCheckIn(svcs.Users, logg))
			r.Post("/check-out", controllers.AttendanceCheckOut(svcs.Users, logg))
			r.Get("/", controllers.AttendanceHistory(svcs.Users, logg))
		})

		r.Route("/notifications", func(r chi.Router) {
			r.Get("/", controllers.ListNotifications(svcs.Notifications, logg))
			r.Post("/{notificationId}/read", controllers.MarkNotificationRead(svcs.Notifications, logg))
			r.Post("/read-all", controllers.MarkAllNotificationsRead(svcs.Notifications, logg))
		})

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", controllers.AdminListOrders(svcs.Orders, logg))
			r.Get("/{orderId}", controllers.AdminOrderDetail(svcs.Orders, logg))
			r.Post("/{orderId}/status", controllers.AdminUpdateOrderStatus(svcs.Orders, logg))
		})
	})

	r.Route("/api/admin/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, sessions, logg))
		r.Use(middleware.RequireRole(enums.StaffRoleAdmin.String(), logg))

		r.Get("/dashboard", controllers.AdminDashboard(svcs.Reports, logg))

		r.Route("/products", func(r chi.Router) {
			r.Post("/", controllers.AdminCreateProduct(svcs.Products, logg))
			r.Patch("/{productId}", controllers.AdminUpdateProduct(svcs.Products, logg))
			r.Delete("/{productId}", controllers.AdminDeleteProduct(svcs.Products, logg))
		})
		r.Post("/brands", controllers.AdminSaveBrand(svcs.Products, logg))

		r.Route("/discounts", func(r chi.Router) {
			r.Get("/", controllers.AdminListDiscounts(svcs.Discounts, logg))
			r.Post("/", controllers.AdminCreateDiscount(svcs.Discounts, logg))
			r.Get("/{ruleId}", controllers.AdminGetDiscount(svcs.Discounts, logg))
			r.Patch("/{ruleId}", controllers.AdminUpdateDiscount(svcs.Discounts, logg))
			r.Post("/{ruleId}/active", controllers.AdminSetDiscountActive(svcs.Discounts, logg))
			r.Post("/{ruleId}/toggle", controllers.AdminToggleDiscount(svcs.Discounts, logg))
			r.Delete("/{ruleId}", controllers.AdminDeleteDiscount(svcs.Discounts, logg))
		})

		r.Route("/staff", func(r chi.Router) {
			r.Get("/", controllers.AdminListStaff(svcs.Users, logg))
			r.Post("/", controllers.AdminCreateStaff(svcs.Users, logg))
			r.Get("/{userId}", controllers.AdminGetStaff(svcs.Users, logg))
			r.Patch("/{userId}", controllers.AdminUpdateStaff(svcs.Users, logg))
			r.Delete("/{userId}", controllers.AdminDeleteStaff(svcs.Users, logg))
			r.Get("/{userId}/attendance", controllers.AdminAttendanceHistory(svcs.Users, logg))
		})

		r.Post("/notifications/announce", controllers.AnnounceNotification(svcs.Notifications, logg))
	})

	return r
}
