package service

import (
	"github.com/quangtd/vidxu/internal/config"
	"github.com/quangtd/vidxu/internal/events"
	"github.com/quangtd/vidxu/internal/gateway"
	"github.com/quangtd/vidxu/internal/pg"
	"github.com/quangtd/vidxu/internal/repo"
	"github.com/quangtd/vidxu/internal/service/authservice"
	"github.com/quangtd/vidxu/internal/service/orderservice"
	"github.com/quangtd/vidxu/internal/service/paymentservice"
	"github.com/quangtd/vidxu/internal/service/walletservice"
	"github.com/quangtd/vidxu/internal/submit"
	pkgauth "github.com/quangtd/vidxu/pkg/auth"
	"github.com/quangtd/vidxu/pkg/clients"
)

type Services struct {
	AuthService    *authservice.Service
	WalletService  *walletservice.Service
	OrderService   *orderservice.Service
	PaymentService *paymentservice.Service
	Submitter      *submit.Submitter
}

func New(cfg *config.Config, repo *repo.Repositories, txManager pg.TXManager) *Services {
	httpClient := clients.NewHTTPClient()
	publisher := events.NewLogPublisher()

	walletService := walletservice.New(repo.LedgerRepo, txManager)
	submitter := submit.NewSubmitter(cfg, httpClient)
	orderService := orderservice.New(repo.OrderRepo, repo.CatalogRepo, walletService, submitter, publisher)
	paymentService := paymentservice.New(cfg, repo.PaymentRepo, walletService, gateway.New(cfg, httpClient), publisher)
	authService := authservice.New(repo.UserRepo, walletService, &pkgauth.HashService{}, &pkgauth.JWTService{})

	return &Services{
		AuthService:    authService,
		WalletService:  walletService,
		OrderService:   orderService,
		PaymentService: paymentService,
		Submitter:      submitter,
	}
}
