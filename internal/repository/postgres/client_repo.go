// internal/repository/postgres/client_repo.go
package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"fitcoach-service/internal/domain/client"
	xerrors "fitcoach-service/internal/pkg/errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lib/pq"
)

type ClientRepository struct {
	db *pgxpool.Pool
}

func NewClientRepository(db *pgxpool.Pool) *ClientRepository {
	return &ClientRepository{db: db}
}

// Create creates a new coached client
func (r *ClientRepository) Create(ctx context.Context, c *client.Client) error {
	query := `
		INSERT INTO clients (
			trainer_id, reference, full_name, email, phone, goals, notes, metadata, is_active
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at, updated_at
	`

	metadataJSON, err := marshalMetadata(c.Metadata)
	if err != nil {
		return err
	}

	err = r.db.QueryRow(
		ctx, query,
		c.TrainerID, c.Reference, c.FullName, c.Email, c.Phone,
		pq.Array(c.Goals), c.Notes, metadataJSON, c.IsActive,
	).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to create client: %w", err)
	}

	return nil
}

// FindByID retrieves a client owned by the given trainer
func (r *ClientRepository) FindByID(ctx context.Context, trainerID string, id int64) (*client.Client, error) {
	query := `
		SELECT id, trainer_id, reference, full_name, email, phone, goals,
		       notes, is_active, metadata, created_at, updated_at, deleted_at
		FROM clients
		WHERE id = $1 AND trainer_id = $2 AND deleted_at IS NULL
	`

	return r.scanOne(r.db.QueryRow(ctx, query, id, trainerID))
}

// FindByReference retrieves a client by its external reference
func (r *ClientRepository) FindByReference(ctx context.Context, trainerID, reference string) (*client.Client, error) {
	query := `
		SELECT id, trainer_id, reference, full_name, email, phone, goals,
		       notes, is_active, metadata, created_at, updated_at, deleted_at
		FROM clients
		WHERE reference = $1 AND trainer_id = $2 AND deleted_at IS NULL
	`

	return r.scanOne(r.db.QueryRow(ctx, query, reference, trainerID))
}

// List returns the trainer's clients with optional search and active filters.
func (r *ClientRepository) List(ctx context.Context, trainerID string, q *client.ListClientsQuery) ([]*client.Client, int64, error) {
	conditions := []string{"trainer_id = $1", "deleted_at IS NULL"}
	args := []interface{}{trainerID}

	if q.Search != "" {
		args = append(args, "%"+strings.ToLower(q.Search)+"%")
		conditions = append(conditions, fmt.Sprintf("(LOWER(full_name) LIKE $%d OR LOWER(COALESCE(email, '')) LIKE $%d)", len(args), len(args)))
	}
	if q.Active != nil {
		args = append(args, *q.Active)
		conditions = append(conditions, fmt.Sprintf("is_active = $%d", len(args)))
	}

	where := strings.Join(conditions, " AND ")

	var total int64
	countQuery := "SELECT COUNT(*) FROM clients WHERE " + where
	if err := r.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count clients: %w", err)
	}

	args = append(args, q.PageSize, (q.Page-1)*q.PageSize)
	listQuery := fmt.Sprintf(`
		SELECT id, trainer_id, reference, full_name, email, phone, goals,
		       notes, is_active, metadata, created_at, updated_at, deleted_at
		FROM clients
		WHERE %s
		ORDER BY full_name ASC
		LIMIT $%d OFFSET $%d
	`, where, len(args)-1, len(args))

	rows, err := r.db.Query(ctx, listQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list clients: %w", err)
	}
	defer rows.Close()

	var clients []*client.Client
	for rows.Next() {
		c, err := r.scanOne(rows)
		if err != nil {
			return nil, 0, err
		}
		clients = append(clients, c)
	}

	return clients, total, rows.Err()
}

// Update updates mutable client fields
func (r *ClientRepository) Update(ctx context.Context, c *client.Client) error {
	query := `
		UPDATE clients
		SET full_name = $1, email = $2, phone = $3, goals = $4, notes = $5,
		    metadata = $6, updated_at = NOW()
		WHERE id = $7 AND trainer_id = $8 AND deleted_at IS NULL
		RETURNING updated_at
	`

	metadataJSON, err := marshalMetadata(c.Metadata)
	if err != nil {
		return err
	}

	err = r.db.QueryRow(
		ctx, query,
		c.FullName, c.Email, c.Phone, pq.Array(c.Goals), c.Notes,
		metadataJSON, c.ID, c.TrainerID,
	).Scan(&c.UpdatedAt)

	if errors.Is(err, pgx.ErrNoRows) {
		return xerrors.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to update client: %w", err)
	}

	return nil
}

// SetActive archives or reactivates a client
func (r *ClientRepository) SetActive(ctx context.Context, trainerID string, id int64, active bool) error {
	query := `
		UPDATE clients SET is_active = $1, updated_at = NOW()
		WHERE id = $2 AND trainer_id = $3 AND deleted_at IS NULL
	`

	tag, err := r.db.Exec(ctx, query, active, id, trainerID)
	if err != nil {
		return fmt.Errorf("failed to set client active state: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return xerrors.ErrNotFound
	}

	return nil
}

// Delete soft-deletes a client
func (r *ClientRepository) Delete(ctx context.Context, trainerID string, id int64) error {
	query := `
		UPDATE clients SET deleted_at = NOW(), updated_at = NOW()
		WHERE id = $1 AND trainer_id = $2 AND deleted_at IS NULL
	`

	tag, err := r.db.Exec(ctx, query, id, trainerID)
	if err != nil {
		return fmt.Errorf("failed to delete client: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return xerrors.ErrNotFound
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func (r *ClientRepository) scanOne(row rowScanner) (*client.Client, error) {
	var c client.Client
	var metadataJSON []byte

	err := row.Scan(
		&c.ID, &c.TrainerID, &c.Reference, &c.FullName, &c.Email, &c.Phone,
		pq.Array(&c.Goals), &c.Notes, &c.IsActive, &metadataJSON,
		&c.CreatedAt, &c.UpdatedAt, &c.DeletedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, xerrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan client: %w", err)
	}

	if len(metadataJSON) > 0 {
		if err := json.Unmarshal(metadataJSON, &c.Metadata); err != nil {
			return nil, fmt.Errorf("failed to unmarshal metadata: %w", err)
		}
	}

	return &c, nil
}

func marshalMetadata(m map[string]interface{}) ([]byte, error) {
	if m == nil {
		return nil, nil
	}
	data, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal metadata: %w", err)
	}
	return data, nil
}
