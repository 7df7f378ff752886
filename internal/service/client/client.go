// internal/service/client/client.go
package client

import (
	"context"
	"database/sql"
	"fmt"

	"fitcoach-service/internal/domain/client"
	"fitcoach-service/internal/repository/postgres"

	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"
)

type ClientService struct {
	clientRepo *postgres.ClientRepository
	logger     *zap.Logger
}

func NewClientService(clientRepo *postgres.ClientRepository, logger *zap.Logger) *ClientService {
	return &ClientService{
		clientRepo: clientRepo,
		logger:     logger,
	}
}

// CreateClient adds a coached client for a trainer
func (s *ClientService) CreateClient(ctx context.Context, trainerID string, req *client.CreateClientRequest) (*client.Client, error) {
	c := &client.Client{
		TrainerID: trainerID,
		Reference: ulid.Make().String(),
		FullName:  req.FullName,
		Email:     sql.NullString{String: req.Email, Valid: req.Email != ""},
		Phone:     sql.NullString{String: req.Phone, Valid: req.Phone != ""},
		Goals:     req.Goals,
		Notes:     sql.NullString{String: req.Notes, Valid: req.Notes != ""},
		Metadata:  req.Metadata,
		IsActive:  true,
	}

	if err := s.clientRepo.Create(ctx, c); err != nil {
		s.logger.Error("failed to create client", zap.Error(err))
		return nil, fmt.Errorf("failed to create client: %w", err)
	}

	s.logger.Info("client created",
		zap.Int64("client_id", c.ID),
		zap.String("reference", c.Reference),
		zap.String("trainer_id", trainerID),
	)

	return c, nil
}

// GetClient retrieves one of the trainer's clients by ID
func (s *ClientService) GetClient(ctx context.Context, trainerID string, clientID int64) (*client.Client, error) {
	return s.clientRepo.FindByID(ctx, trainerID, clientID)
}

// GetClientByReference retrieves a client by its external reference
func (s *ClientService) GetClientByReference(ctx context.Context, trainerID, reference string) (*client.Client, error) {
	return s.clientRepo.FindByReference(ctx, trainerID, reference)
}

// ListClients lists the trainer's clients with search and paging
func (s *ClientService) ListClients(ctx context.Context, trainerID string, q *client.ListClientsQuery) (*client.ClientList, error) {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.PageSize < 1 {
		q.PageSize = 20
	}

	clients, total, err := s.clientRepo.List(ctx, trainerID, q)
	if err != nil {
		return nil, fmt.Errorf("failed to list clients: %w", err)
	}

	return &client.ClientList{
		Clients:  clients,
		Total:    total,
		Page:     q.Page,
		PageSize: q.PageSize,
	}, nil
}

// UpdateClient edits a coached client
func (s *ClientService) UpdateClient(ctx context.Context, trainerID string, clientID int64, req *client.UpdateClientRequest) (*client.Client, error) {
	c, err := s.clientRepo.FindByID(ctx, trainerID, clientID)
	if err != nil {
		return nil, err
	}

	if req.FullName != "" {
		c.FullName = req.FullName
	}
	if req.Email != "" {
		c.Email = sql.NullString{String: req.Email, Valid: true}
	}
	if req.Phone != "" {
		c.Phone = sql.NullString{String: req.Phone, Valid: true}
	}
	if req.Goals != nil {
		c.Goals = req.Goals
	}
	if req.Notes != "" {
		c.Notes = sql.NullString{String: req.Notes, Valid: true}
	}
	if req.Metadata != nil {
		c.Metadata = req.Metadata
	}

	if err := s.clientRepo.Update(ctx, c); err != nil {
		s.logger.Error("failed to update client", zap.Int64("client_id", clientID), zap.Error(err))
		return nil, err
	}

	return c, nil
}

// ArchiveClient deactivates a client without deleting history
func (s *ClientService) ArchiveClient(ctx context.Context, trainerID string, clientID int64) error {
	return s.clientRepo.SetActive(ctx, trainerID, clientID, false)
}

// ReactivateClient brings an archived client back
func (s *ClientService) ReactivateClient(ctx context.Context, trainerID string, clientID int64) error {
	return s.clientRepo.SetActive(ctx, trainerID, clientID, true)
}

// DeleteClient soft-deletes a client
func (s *ClientService) DeleteClient(ctx context.Context, trainerID string, clientID int64) error {
	if err := s.clientRepo.Delete(ctx, trainerID, clientID); err != nil {
		return err
	}

	s.logger.Info("client deleted",
		zap.Int64("client_id", clientID),
		zap.String("trainer_id", trainerID),
	)
	return nil
}
