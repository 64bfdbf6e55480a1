package client

import (
	"context"
	"fmt"
	"net/http"

	"github.com/dmitrijs2005/skillswap/internal/client/models"
	"github.com/dmitrijs2005/skillswap/internal/common"
)

func (c *HTTPClient) Register(ctx context.Context, r models.Registration) (*AuthResult, error) {
	req := registerRequest{
		Name:     r.Name,
		Email:    r.Email,
		Password: r.Password,
		Skills:   common.OrEmpty(r.Skills),
		Bio:      r.Bio,
	}
	return c.authenticate(ctx, "/auth/register", req)
}

func (c *HTTPClient) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	return c.authenticate(ctx, "/auth/login", loginRequest{Email: email, Password: password})
}

func (c *HTTPClient) authenticate(ctx context.Context, path string, req any) (*AuthResult, error) {
	var resp wireAuthResult
	if err := c.call(ctx, http.MethodPost, path, "", req, &resp); err != nil {
		return nil, err
	}
	if resp.Token == "" {
		return nil, &TransportError{Status: http.StatusOK, Message: "response carries no token"}
	}
	return &AuthResult{User: resp.User.model(), Token: resp.Token}, nil
}

func (c *HTTPClient) ListUsers(ctx context.Context, token string) ([]models.User, error) {
	var resp []wireUser
	if err := c.call(ctx, http.MethodGet, "/users", token, nil, &resp); err != nil {
		return nil, err
	}
	return mapAll(resp, wireUser.model), nil
}

func (c *HTTPClient) SetAvailability(ctx context.Context, token string, userID int64, available bool) (*models.User, error) {
	var resp *wireUser
	path := fmt.Sprintf("/users/%d/availability", userID)
	if err := c.call(ctx, http.MethodPatch, path, token, availabilityRequest{Available: available}, &resp); err != nil {
		return nil, err
	}
	if resp == nil {
		return nil, nil
	}
	u := resp.model()
	return &u, nil
}

func (c *HTTPClient) ListProjects(ctx context.Context, token string) ([]models.Project, error) {
	var resp []wireProject
	if err := c.call(ctx, http.MethodGet, "/projects", token, nil, &resp); err != nil {
		return nil, err
	}
	return mapAll(resp, wireProject.model), nil
}

func (c *HTTPClient) CreateProject(ctx context.Context, token string, p models.NewProject) (*models.Project, error) {
	req := createProjectRequest{
		Title:          p.Title,
		Description:    p.Description,
		RequiredSkills: common.OrEmpty(p.RequiredSkills),
	}
	var resp *wireProject
	if err := c.call(ctx, http.MethodPost, "/projects", token, req, &resp); err != nil {
		return nil, err
	}
	return projectOrNil(resp), nil
}

func (c *HTTPClient) JoinProject(ctx context.Context, token string, projectID int64) (*models.Project, error) {
	var resp *wireProject
	path := fmt.Sprintf("/projects/%d/join", projectID)
	if err := c.call(ctx, http.MethodPost, path, token, nil, &resp); err != nil {
		return nil, err
	}
	return projectOrNil(resp), nil
}

func (c *HTTPClient) ListSkillSwaps(ctx context.Context, token string) ([]models.SkillSwap, error) {
	var resp []wireSkillSwap
	if err := c.call(ctx, http.MethodGet, "/skill-swaps", token, nil, &resp); err != nil {
		return nil, err
	}
	swaps := mapAll(resp, wireSkillSwap.model)
	if err := checkStatuses(swaps...); err != nil {
		return nil, err
	}
	return swaps, nil
}

func (c *HTTPClient) ProposeSkillSwap(ctx context.Context, token string, p models.SwapProposal) (*models.SkillSwap, error) {
	req := proposeSwapRequest{
		ToUserID:       p.ToUserID,
		OfferedSkill:   p.OfferedSkill,
		RequestedSkill: p.RequestedSkill,
		Message:        p.Message,
	}
	var resp *wireSkillSwap
	if err := c.call(ctx, http.MethodPost, "/skill-swaps", token, req, &resp); err != nil {
		return nil, err
	}
	return swapOrNil(resp)
}

// UpdateSkillSwapStatus returns nil without error when the server answers
// with an empty body.
func (c *HTTPClient) UpdateSkillSwapStatus(ctx context.Context, token string, swapID int64, status models.SwapStatus) (*models.SkillSwap, error) {
	var resp *wireSkillSwap
	path := fmt.Sprintf("/skill-swaps/%d/status", swapID)
	if err := c.call(ctx, http.MethodPatch, path, token, swapStatusRequest{Status: status}, &resp); err != nil {
		return nil, err
	}
	return swapOrNil(resp)
}

func (c *HTTPClient) ListSkillSwapMessages(ctx context.Context, token string, swapID int64) ([]models.SkillSwapMessage, error) {
	var resp []wireMessage
	path := fmt.Sprintf("/skill-swaps/%d/messages", swapID)
	if err := c.call(ctx, http.MethodGet, path, token, nil, &resp); err != nil {
		return nil, err
	}
	return mapAll(resp, wireMessage.model), nil
}

func (c *HTTPClient) PostSkillSwapMessage(ctx context.Context, token string, swapID int64, message string) (*models.SkillSwapMessage, error) {
	var resp *wireMessage
	path := fmt.Sprintf("/skill-swaps/%d/messages", swapID)
	if err := c.call(ctx, http.MethodPost, path, token, swapMessageRequest{Message: message}, &resp); err != nil {
		return nil, err
	}
	if resp == nil {
		return nil, nil
	}
	m := resp.model()
	return &m, nil
}

func (c *HTTPClient) SkillSwapHistory(ctx context.Context, token string, swapID int64) ([]models.StatusChange, error) {
	var resp []wireStatusChange
	path := fmt.Sprintf("/skill-swaps/%d/history", swapID)
	if err := c.call(ctx, http.MethodGet, path, token, nil, &resp); err != nil {
		return nil, err
	}
	return mapAll(resp, wireStatusChange.model), nil
}

func projectOrNil(w *wireProject) *models.Project {
	if w == nil {
		return nil
	}
	p := w.model()
	return &p
}

func swapOrNil(w *wireSkillSwap) (*models.SkillSwap, error) {
	if w == nil {
		return nil, nil
	}
	s := w.model()
	if err := checkStatuses(s); err != nil {
		return nil, err
	}
	return &s, nil
}

// checkStatuses rejects swaps carrying a status the client cannot act on.
func checkStatuses(swaps ...models.SkillSwap) error {
	for _, s := range swaps {
		if !s.Status.Known() {
			return &TransportError{
				Status:  http.StatusOK,
				Message: fmt.Sprintf("skill-swap %d has unknown status %q", s.ID, s.Status),
			}
		}
	}
	return nil
}
