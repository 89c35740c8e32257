package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"lending-ledger/internal/apperrors"
	"lending-ledger/internal/models"
)

// ClientService manages borrower records.
type ClientService struct {
	clients ClientStore
	loans   LoanStore
	logger  *zap.Logger
}

func NewClientService(clients ClientStore, loans LoanStore, logger *zap.Logger) *ClientService {
	return &ClientService{clients: clients, loans: loans, logger: logger}
}

func (s *ClientService) Create(ctx context.Context, req models.ClientRequest) (*models.Client, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, fmt.Errorf("%w: name is required", apperrors.ErrInvalidInput)
	}

	now := nowUTC()
	client := &models.Client{
		ID:         uuid.New().String(),
		Name:       strings.TrimSpace(req.Name),
		DocumentID: req.DocumentID,
		Phone:      req.Phone,
		Address:    req.Address,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := s.clients.Create(ctx, client); err != nil {
		return nil, err
	}
	s.logger.Info("client created", zap.String("client_id", client.ID))
	return client, nil
}

func (s *ClientService) Get(ctx context.Context, id string) (*models.Client, error) {
	return s.clients.GetByID(ctx, id)
}

func (s *ClientService) List(ctx context.Context) ([]*models.Client, error) {
	return s.clients.List(ctx)
}

func (s *ClientService) Update(ctx context.Context, id string, req models.ClientRequest) (*models.Client, error) {
	client, err := s.clients.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.Name) == "" {
		return nil, fmt.Errorf("%w: name is required", apperrors.ErrInvalidInput)
	}

	client.Name = strings.TrimSpace(req.Name)
	client.DocumentID = req.DocumentID
	client.Phone = req.Phone
	client.Address = req.Address
	client.UpdatedAt = nowUTC()

	if err := s.clients.Update(ctx, client); err != nil {
		return nil, err
	}
	return client, nil
}

// Delete removes a client unless loans reference it.
func (s *ClientService) Delete(ctx context.Context, id string) error {
	loans, err := s.loans.ListByClient(ctx, id)
	if err != nil {
		return err
	}
	if len(loans) > 0 {
		return fmt.Errorf("%w: client %s has %d loans", apperrors.ErrConflict, id, len(loans))
	}
	if err := s.clients.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("client deleted", zap.String("client_id", id))
	return nil
}
