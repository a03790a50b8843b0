package handlers

import (
	"context"

	"github.com/rogerio-castellano/financial-planner-server/internal/log"
	"github.com/rogerio-castellano/financial-planner-server/internal/models"
)

// Planner is implemented by service.Planner.
type Planner interface {
	LinkToken(ctx context.Context, userID string) (string, error)
	SetPublicToken(ctx context.Context, userID, publicToken string) (string, error)
	Unlink(ctx context.Context, userID string) (string, error)
	BankAccounts(ctx context.Context, userID string) ([]models.BankAccount, error)
	Holdings(ctx context.Context, userID string) ([]models.Holding, error)
	CashFlowAccounts(ctx context.Context, userID string) (models.CashFlowSummary, error)
}

type Server struct {
	planner Planner
	logger  *log.Logger
}

func NewServer(planner Planner, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Discard()
	}
	return &Server{
		planner: planner,
		logger:  logger.WithComponent(log.ComponentHTTP),
	}
}
