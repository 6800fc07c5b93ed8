package repository

import (
	"context"

	"github.com/yashas-13/inv-123/internal/model"

	"gorm.io/gorm"
)

type AgentRepository interface {
	Create(ctx context.Context, a *model.Agent) error
	List(ctx context.Context) ([]model.Agent, error)
}

type agentRepo struct{ db *gorm.DB }

func NewAgentRepository(db *gorm.DB) AgentRepository { return &agentRepo{db: db} }

func (r *agentRepo) Create(ctx context.Context, a *model.Agent) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *agentRepo) List(ctx context.Context) ([]model.Agent, error) {
	var agents []model.Agent
	err := r.db.WithContext(ctx).Order("agent_name ASC").Find(&agents).Error
	return agents, err
}
