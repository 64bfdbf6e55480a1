package client

import (
	"context"

	"github.com/dmitrijs2005/skillswap/internal/client/models"
)

// AuthResult is the body of a successful login or registration.
type AuthResult struct {
	User  models.User
	Token string
}

// Client is the backend API contract. An empty token means the request is
// sent without credentials.
type Client interface {
	Register(ctx context.Context, r models.Registration) (*AuthResult, error)
	Login(ctx context.Context, email, password string) (*AuthResult, error)

	ListUsers(ctx context.Context, token string) ([]models.User, error)
	SetAvailability(ctx context.Context, token string, userID int64, available bool) (*models.User, error)

	ListProjects(ctx context.Context, token string) ([]models.Project, error)
	CreateProject(ctx context.Context, token string, p models.NewProject) (*models.Project, error)
	JoinProject(ctx context.Context, token string, projectID int64) (*models.Project, error)

	ListSkillSwaps(ctx context.Context, token string) ([]models.SkillSwap, error)
	ProposeSkillSwap(ctx context.Context, token string, p models.SwapProposal) (*models.SkillSwap, error)
	UpdateSkillSwapStatus(ctx context.Context, token string, swapID int64, status models.SwapStatus) (*models.SkillSwap, error)
	ListSkillSwapMessages(ctx context.Context, token string, swapID int64) ([]models.SkillSwapMessage, error)
	PostSkillSwapMessage(ctx context.Context, token string, swapID int64, message string) (*models.SkillSwapMessage, error)
	SkillSwapHistory(ctx context.Context, token string, swapID int64) ([]models.StatusChange, error)
}
