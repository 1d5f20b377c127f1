package trade

import (
	"context"

	"github.com/optica/backend/internal/domain/catalog"
	"github.com/optica/backend/internal/domain/partner"
	"github.com/optica/backend/internal/domain/trade"
)

// TransactionScope runs a function inside one database transaction.
// Every repository handed to fn shares that transaction; returning an error
// rolls it back, returning nil commits it.
type TransactionScope interface {
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides the repositories a stock-adjusting
// document needs, all bound to the current transaction.
type TransactionalRepositories interface {
	ProductRepo() catalog.ProductRepository
	SaleRepo() trade.SaleRepository
	PurchaseRepo() trade.PurchaseRepository
	ClientRepo() partner.ClientRepository
}

// NoOpTransactionScope is a transaction scope that doesn't actually use transactions.
// This is useful for testing with in-memory or mocked repositories.
type NoOpTransactionScope struct {
	productRepo  catalog.ProductRepository
	saleRepo     trade.SaleRepository
	purchaseRepo trade.PurchaseRepository
	clientRepo   partner.ClientRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope with the given repositories.
func NewNoOpTransactionScope(
	productRepo catalog.ProductRepository,
	saleRepo trade.SaleRepository,
	purchaseRepo trade.PurchaseRepository,
	clientRepo partner.ClientRepository,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		productRepo:  productRepo,
		saleRepo:     saleRepo,
		purchaseRepo: purchaseRepo,
		clientRepo:   clientRepo,
	}
}

// Execute runs the function without a real transaction.
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// ProductRepo returns the product repository.
func (s *NoOpTransactionScope) ProductRepo() catalog.ProductRepository {
	return s.productRepo
}

// SaleRepo returns the sale repository.
func (s *NoOpTransactionScope) SaleRepo() trade.SaleRepository {
	return s.saleRepo
}

// PurchaseRepo returns the purchase repository.
func (s *NoOpTransactionScope) PurchaseRepo() trade.PurchaseRepository {
	return s.purchaseRepo
}

// ClientRepo returns the client repository.
func (s *NoOpTransactionScope) ClientRepo() partner.ClientRepository {
	return s.clientRepo
}

var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
