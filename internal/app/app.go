// Package app assembles repositories and use cases for both storage engines.
package app

import (
	"github.com/jmoiron/sqlx"

	"github.com/fekuna/omnipos-mrp-service/internal/database"
	"github.com/fekuna/omnipos-mrp-service/internal/events"
	"github.com/fekuna/omnipos-mrp-service/internal/inventory"
	inventoryRepo "github.com/fekuna/omnipos-mrp-service/internal/inventory/repository"
	inventoryUC "github.com/fekuna/omnipos-mrp-service/internal/inventory/usecase"
	"github.com/fekuna/omnipos-mrp-service/internal/lock"
	"github.com/fekuna/omnipos-mrp-service/internal/order"
	orderRepo "github.com/fekuna/omnipos-mrp-service/internal/order/repository"
	orderUC "github.com/fekuna/omnipos-mrp-service/internal/order/usecase"
	"github.com/fekuna/omnipos-mrp-service/internal/party"
	partyRepo "github.com/fekuna/omnipos-mrp-service/internal/party/repository"
	partyUC "github.com/fekuna/omnipos-mrp-service/internal/party/usecase"
	"github.com/fekuna/omnipos-mrp-service/internal/product"
	productRepo "github.com/fekuna/omnipos-mrp-service/internal/product/repository"
	productUC "github.com/fekuna/omnipos-mrp-service/internal/product/usecase"
	"github.com/fekuna/omnipos-mrp-service/internal/wip"
	wipRepo "github.com/fekuna/omnipos-mrp-service/internal/wip/repository"
	wipUC "github.com/fekuna/omnipos-mrp-service/internal/wip/usecase"
	"github.com/fekuna/omnipos-mrp-service/pkg/logger"
)

type Repositories struct {
	Tx        database.Transactor
	Products  product.Repository
	Movements inventory.Repository
	Batches   wip.Repository
	Orders    order.Repository
	Parties   party.Repository
}

func NewPostgresRepositories(db *sqlx.DB) *Repositories {
	return &Repositories{
		Tx:        database.NewSQLTransactor(db),
		Products:  productRepo.NewPGRepository(db),
		Movements: inventoryRepo.NewPGRepository(db),
		Batches:   wipRepo.NewPGRepository(db),
		Orders:    orderRepo.NewPGRepository(db),
		Parties:   partyRepo.NewPGRepository(db),
	}
}

func NewMemoryRepositories() *Repositories {
	db := database.NewMemoryDB()
	return &Repositories{
		Tx:        db,
		Products:  productRepo.NewMemoryRepository(db),
		Movements: inventoryRepo.NewMemoryRepository(db),
		Batches:   wipRepo.NewMemoryRepository(db),
		Orders:    orderRepo.NewMemoryRepository(db),
		Parties:   partyRepo.NewMemoryRepository(db),
	}
}

// Options carries the optional infrastructure. Nil fields fall back to
// in-process defaults.
type Options struct {
	Logger     logger.ZapLogger
	Locker     lock.Locker
	Publisher  events.Publisher
	Search     product.SearchIndex
	PartyCache party.Cache
}

type UseCases struct {
	Ledger    inventory.Ledger
	Inventory inventory.UseCase
	Products  product.UseCase
	WIP       wip.UseCase
	Orders    order.UseCase
	Parties   party.UseCase
}

func NewUseCases(repos *Repositories, opts Options) *UseCases {
	log := opts.Logger
	if log == nil {
		log = logger.NewNop()
	}
	locker := opts.Locker
	if locker == nil {
		locker = lock.NewLocalLocker()
	}
	publisher := opts.Publisher
	if publisher == nil {
		publisher = events.NoopPublisher{}
	}

	ledger := inventoryUC.NewLedger(repos.Products, repos.Movements, repos.Tx, opts.Search, log)
	parties := partyUC.NewPartyUseCase(repos.Parties, opts.PartyCache, log)

	return &UseCases{
		Ledger:    ledger,
		Inventory: inventoryUC.NewInventoryUseCase(ledger, repos.Movements, locker, publisher, log),
		Products:  productUC.NewProductUseCase(repos.Products, ledger, repos.Tx, opts.Search, log),
		WIP:       wipUC.NewWipUseCase(repos.Batches, ledger, repos.Tx, locker, publisher, log),
		Orders:    orderUC.NewOrderUseCase(repos.Orders, ledger, parties, repos.Tx, locker, publisher, log),
		Parties:   parties,
	}
}
