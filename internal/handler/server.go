package handler

import (
	"embed"
	"html/template"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/mahdibiabani/stone-store/internal/port"
	"github.com/mahdibiabani/stone-store/internal/service"
)

//go:embed templates/*.html
var templateFS embed.FS

type Server struct {
	checkout *service.CheckoutService
	payments *service.PaymentService
	accounts *service.AccountService

	stones port.StoneRepository
	carts  port.CartRepository
	orders port.OrderRepository
	quotes port.QuoteRepository

	// mockPayment exposes the local mock payment page.
	mockPayment bool
	callbackURL string

	templates *template.Template
	logger    *slog.Logger
}

func NewServer(
	checkout *service.CheckoutService,
	payments *service.PaymentService,
	accounts *service.AccountService,
	stones port.StoneRepository,
	carts port.CartRepository,
	orders port.OrderRepository,
	quotes port.QuoteRepository,
	mockPayment bool,
	callbackURL string,
	logger *slog.Logger,
) *Server {
	return &Server{
		checkout:    checkout,
		payments:    payments,
		accounts:    accounts,
		stones:      stones,
		carts:       carts,
		orders:      orders,
		quotes:      quotes,
		mockPayment: mockPayment,
		callbackURL: callbackURL,
		templates:   template.Must(template.ParseFS(templateFS, "templates/*.html")),
		logger:      logger,
	}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.Route("/api", func(r chi.Router) {
		r.Get("/categories", s.handleListCategories)
		r.Get("/stones", s.handleListStones)
		r.Get("/stones/featured", s.handleFeaturedStones)
		r.Get("/stones/{id}", s.handleGetStone)

		r.Post("/quotes", s.handleSubmitQuote)

		r.Post("/auth/register", s.handleRegister)
		r.Post("/auth/login", s.handleLogin)

		// the gateway redirects with GET, webhooks arrive as POST
		r.Get("/payment/callback", s.handlePaymentCallback)
		r.Post("/payment/callback", s.handlePaymentCallback)

		r.Group(func(r chi.Router) {
			r.Use(s.requireAuth)

			r.Get("/cart", s.handleGetCart)
			r.Post("/cart/items", s.handleAddCartItem)
			r.Post("/cart/items/update", s.handleUpdateCartItem)
			r.Post("/cart/items/remove", s.handleRemoveCartItem)
			r.Post("/cart/clear", s.handleClearCart)
			r.Post("/cart/checkout", s.handleCheckout)

			r.Get("/orders", s.handleListOrders)
			r.Get("/orders/{id}", s.handleGetOrder)

			r.Get("/profile", s.handleGetProfile)
			r.Patch("/profile", s.handleUpdateProfile)
		})
	})

	if s.mockPayment {
		// the gateway client links to the trailing-slash form
		r.Get("/payment/mock", s.handleMockPayment)
		r.Get("/payment/mock/", s.handleMockPayment)
	}

	return r
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		s.logger.InfoContext(r.Context(), "request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()))
	})
}
