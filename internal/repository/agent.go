package repository

import (
	"context"

	"estatehub-backend/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const agentColumns = `id, created_at, updated_at, fullname, email, phone_number,
	profile_picture_url, role, instagram, description`

type AgentRepository struct {
	pool *pgxpool.Pool
}

func NewAgentRepository(pool *pgxpool.Pool) *AgentRepository {
	return &AgentRepository{pool: pool}
}

func (r *AgentRepository) FindByUserID(ctx context.Context, userID uuid.UUID) (*model.Agent, error) {
	a := &model.Agent{}
	err := scanAgent(r.pool.QueryRow(ctx, "SELECT "+agentColumns+" FROM agents WHERE id = $1", userID), a)
	if err != nil {
		return nil, err
	}
	return a, nil
}

func (r *AgentRepository) FindByName(ctx context.Context, fullname string) (*model.Agent, error) {
	a := &model.Agent{}
	err := scanAgent(r.pool.QueryRow(ctx, "SELECT "+agentColumns+" FROM agents WHERE fullname = $1", fullname), a)
	if err != nil {
		return nil, err
	}
	return a, nil
}

func (r *AgentRepository) FindAll(ctx context.Context) ([]model.Agent, error) {
	rows, err := r.pool.Query(ctx, "SELECT "+agentColumns+" FROM agents ORDER BY fullname ASC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var agents []model.Agent
	for rows.Next() {
		var a model.Agent
		if err := scanAgent(rows, &a); err != nil {
			return nil, err
		}
		agents = append(agents, a)
	}
	if agents == nil {
		agents = []model.Agent{}
	}
	return agents, rows.Err()
}

func scanAgent(row pgx.Row, a *model.Agent) error {
	return row.Scan(
		&a.ID, &a.CreatedAt, &a.UpdatedAt, &a.Fullname, &a.Email, &a.PhoneNumber,
		&a.ProfilePictureURL, &a.Role, &a.Instagram, &a.Description,
	)
}
