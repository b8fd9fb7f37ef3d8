package repo

import (
	"github.com/quangtd/vidxu/internal/pg"
	accountrepo "github.com/quangtd/vidxu/internal/repo/account-repo"
	orderrepo "github.com/quangtd/vidxu/internal/repo/order-repo"
	paymentrepo "github.com/quangtd/vidxu/internal/repo/payment-repo"
	servicerepo "github.com/quangtd/vidxu/internal/repo/service-repo"
	userrepo "github.com/quangtd/vidxu/internal/repo/user-repo"
	"github.com/quangtd/vidxu/internal/service/authservice"
	"github.com/quangtd/vidxu/internal/service/orderservice"
	"github.com/quangtd/vidxu/internal/service/paymentservice"
	"github.com/quangtd/vidxu/internal/service/walletservice"
)

type Repositories struct {
	UserRepo    authservice.Repo
	LedgerRepo  walletservice.LedgerRepo
	OrderRepo   orderservice.Repo
	CatalogRepo orderservice.CatalogRepo
	PaymentRepo paymentservice.Repo
}

func New(conn pg.Database, txManager pg.TXManager) *Repositories {
	userRepo := userrepo.New(conn)
	ledgerRepo := accountrepo.New(conn, txManager)
	orderRepo := orderrepo.New(conn, txManager)
	catalogRepo := servicerepo.New(conn)
	paymentRepo := paymentrepo.New(conn)

	return &Repositories{
		UserRepo:    userRepo,
		LedgerRepo:  ledgerRepo,
		OrderRepo:   orderRepo,
		CatalogRepo: catalogRepo,
		PaymentRepo: paymentRepo,
	}
}
