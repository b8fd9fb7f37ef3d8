package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "github.com/quangtd/vidxu/docs"
	"github.com/quangtd/vidxu/internal/config"
	adminhandlers "github.com/quangtd/vidxu/internal/handlers/admin"
	authhandlers "github.com/quangtd/vidxu/internal/handlers/auth"
	callbackhandlers "github.com/quangtd/vidxu/internal/handlers/callbacks"
	ordershandlers "github.com/quangtd/vidxu/internal/handlers/orders"
	paymenthandlers "github.com/quangtd/vidxu/internal/handlers/payments"
	wallethandlers "github.com/quangtd/vidxu/internal/handlers/wallet"
	"github.com/quangtd/vidxu/internal/service"
	"github.com/quangtd/vidxu/pkg/auth"
)

type AuthHandler interface {
	Register(w http.ResponseWriter, r *http.Request)
	Login(w http.ResponseWriter, r *http.Request)
}

type WalletHandler interface {
	GetWallet(w http.ResponseWriter, r *http.Request)
	GetLedger(w http.ResponseWriter, r *http.Request)
}

type OrderHandler interface {
	CreateOrder(w http.ResponseWriter, r *http.Request)
	GetOrders(w http.ResponseWriter, r *http.Request)
	GetOrder(w http.ResponseWriter, r *http.Request)
	CancelOrder(w http.ResponseWriter, r *http.Request)
}

type PaymentHandler interface {
	CreatePayment(w http.ResponseWriter, r *http.Request)
	GetPayments(w http.ResponseWriter, r *http.Request)
}

type CallbackHandler interface {
	ProviderResult(w http.ResponseWriter, r *http.Request)
	GatewayWebhook(w http.ResponseWriter, r *http.Request)
}

type AdminHandler interface {
	Credit(w http.ResponseWriter, r *http.Request)
}

type Handlers struct {
	AuthHandler     AuthHandler
	WalletHandler   WalletHandler
	OrderHandler    OrderHandler
	PaymentHandler  PaymentHandler
	CallbackHandler CallbackHandler
	AdminHandler    AdminHandler
}

func New(cfg *config.Config, s *service.Services) *Handlers {
	return &Handlers{
		AuthHandler:     authhandlers.New(s.AuthService),
		WalletHandler:   wallethandlers.New(s.WalletService),
		OrderHandler:    ordershandlers.New(s.OrderService),
		PaymentHandler:  paymenthandlers.New(s.PaymentService),
		CallbackHandler: callbackhandlers.New(s.OrderService, s.PaymentService),
		AdminHandler:    adminhandlers.New(s.WalletService, cfg.AdminToken),
	}
}

func (h *Handlers) InitRoutes(r chi.Router) chi.Router {
	r.Use(
		middleware.RealIP,
		middleware.Recoverer,
		middleware.Logger,
	)
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("doc.json"),
	))
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/user", func(r chi.Router) {
		r.Post("/register", h.AuthHandler.Register)
		r.Post("/login", h.AuthHandler.Login)

		r.Group(func(r chi.Router) {
			r.Use(auth.AuthMiddleware)
			r.Route("/wallet", func(r chi.Router) {
				r.Get("/", h.WalletHandler.GetWallet)
				r.Get("/ledger", h.WalletHandler.GetLedger)
			})
			r.Route("/orders", func(r chi.Router) {
				r.Post("/", h.OrderHandler.CreateOrder)
				r.Get("/", h.OrderHandler.GetOrders)
				r.Get("/{id}", h.OrderHandler.GetOrder)
				r.Post("/{id}/cancel", h.OrderHandler.CancelOrder)
			})
			r.Route("/payments", func(r chi.Router) {
				r.Post("/", h.PaymentHandler.CreatePayment)
				r.Get("/", h.PaymentHandler.GetPayments)
			})
		})
	})

	r.Route("/api/callbacks", func(r chi.Router) {
		r.Post("/provider", h.CallbackHandler.ProviderResult)
		r.Post("/gateway", h.CallbackHandler.GatewayWebhook)
	})

	r.Post("/api/admin/credit", h.AdminHandler.Credit)

	return r
}
