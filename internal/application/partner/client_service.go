package partner

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/optica/backend/internal/domain/partner"
	"github.com/optica/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// ErrClientAlreadyExists is returned when a client with the same RUT is registered
var ErrClientAlreadyExists = shared.NewDomainError("CLIENT_ALREADY_EXISTS", "A client with this RUT already exists")

// ClientService handles client business operations
type ClientService struct {
	clientRepo partner.ClientRepository
	logger     *zap.Logger
	now        func() time.Time
}

// NewClientService creates a new ClientService
func NewClientService(clientRepo partner.ClientRepository, logger *zap.Logger) *ClientService {
	return &ClientService{clientRepo: clientRepo, logger: logger, now: time.Now}
}

// Create registers a new client
func (s *ClientService) Create(ctx context.Context, req CreateClientRequest) (*partner.Client, error) {
	client, err := partner.NewClient(req.toData(), s.now())
	if err != nil {
		return nil, err
	}

	existing, err := s.clientRepo.FindByRUT(ctx, client.RUT)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, ErrClientAlreadyExists
	}

	if err := s.clientRepo.Create(ctx, client); err != nil {
		if errors.Is(err, shared.ErrAlreadyExists) {
			return nil, ErrClientAlreadyExists
		}
		return nil, err
	}
	return client, nil
}

// GetByID retrieves a client
func (s *ClientService) GetByID(ctx context.Context, id int64) (*partner.Client, error) {
	client, err := s.clientRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError(shared.ErrNotFound.Code, fmt.Sprintf("Client %d not found", id))
		}
		return nil, err
	}
	return client, nil
}

// List retrieves clients with search and pagination
func (s *ClientService) List(ctx context.Context, f ClientListFilter) (shared.Paginated[partner.Client], error) {
	filter := shared.Filter{Page: f.Page, PageSize: f.PageSize, Search: f.Search}.Normalize()
	clients, total, err := s.clientRepo.FindAll(ctx, filter)
	if err != nil {
		return shared.Paginated[partner.Client]{}, err
	}
	return shared.NewPaginated(clients, total, filter.Page, filter.PageSize), nil
}

// GetOrCreateByRUT returns the client holding rut, creating it from
// defaults the first time the RUT is seen.
func (s *ClientService) GetOrCreateByRUT(ctx context.Context, rut string, defaults CreateClientRequest) (*partner.Client, error) {
	data := defaults.toData()
	data.RUT = rut
	candidate, err := partner.NewClient(data, s.now())
	if err != nil {
		return nil, err
	}

	client, created, err := s.clientRepo.GetOrCreateByRUT(ctx, candidate)
	if err != nil {
		return nil, err
	}
	if created {
		s.logger.Info("Client registered", zap.Int64("client_id", client.ID), zap.String("rut", client.RUT))
	}
	return client, nil
}
