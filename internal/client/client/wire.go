package client

import (
	"time"

	"github.com/dmitrijs2005/skillswap/internal/client/models"
	"github.com/dmitrijs2005/skillswap/internal/common"
)

// Wire DTOs. The backend mixes snake_case and camelCase; where both spellings
// are accepted the snake_case value wins when set.

type wireUser struct {
	ID        int64    `json:"id"`
	Name      string   `json:"name"`
	Email     string   `json:"email"`
	Skills    []string `json:"skills"`
	Bio       string   `json:"bio"`
	Available bool     `json:"available"`
}

func (w wireUser) model() models.User {
	return models.User{
		ID:        w.ID,
		Name:      w.Name,
		Email:     w.Email,
		Skills:    common.Unique(w.Skills),
		Bio:       w.Bio,
		Available: w.Available,
	}
}

type wireAuthResult struct {
	User  wireUser `json:"user"`
	Token string   `json:"token"`
}

type wireProject struct {
	ID                  int64    `json:"id"`
	Title               string   `json:"title"`
	Description         string   `json:"description"`
	RequiredSkills      []string `json:"requiredSkills"`
	RequiredSkillsSnake []string `json:"required_skills"`
	CreatorID           int64    `json:"creator_id"`
	CreatorIDCamel      int64    `json:"creatorId"`
	Members             []int64  `json:"members"`
}

func (w wireProject) model() models.Project {
	skills := w.RequiredSkills
	if w.RequiredSkillsSnake != nil {
		skills = w.RequiredSkillsSnake
	}
	return models.Project{
		ID:             w.ID,
		Title:          w.Title,
		Description:    w.Description,
		RequiredSkills: common.OrEmpty(skills),
		CreatorID:      pick(w.CreatorID, w.CreatorIDCamel),
		Members:        common.Unique(w.Members),
	}
}

type wireSkillSwap struct {
	ID                  int64  `json:"id"`
	FromUserID          int64  `json:"from_user_id"`
	FromUserIDCamel     int64  `json:"fromUserId"`
	ToUserID            int64  `json:"to_user_id"`
	ToUserIDCamel       int64  `json:"toUserId"`
	OfferedSkill        string `json:"offered_skill"`
	OfferedSkillCamel   string `json:"offeredSkill"`
	RequestedSkill      string `json:"requested_skill"`
	RequestedSkillCamel string `json:"requestedSkill"`
	Message             string `json:"message"`
	Status              string `json:"status"`
}

func (w wireSkillSwap) model() models.SkillSwap {
	return models.SkillSwap{
		ID:             w.ID,
		FromUserID:     pick(w.FromUserID, w.FromUserIDCamel),
		ToUserID:       pick(w.ToUserID, w.ToUserIDCamel),
		OfferedSkill:   pick(w.OfferedSkill, w.OfferedSkillCamel),
		RequestedSkill: pick(w.RequestedSkill, w.RequestedSkillCamel),
		Message:        w.Message,
		Status:         models.SwapStatus(w.Status),
	}
}

type wireMessage struct {
	ID               int64     `json:"id"`
	SkillSwapID      int64     `json:"skill_swap_id"`
	SkillSwapIDCamel int64     `json:"skillSwapId"`
	SenderID         int64     `json:"sender_id"`
	SenderIDCamel    int64     `json:"senderId"`
	Message          string    `json:"message"`
	CreatedAt        time.Time `json:"created_at"`
	CreatedAtCamel   time.Time `json:"createdAt"`
}

func (w wireMessage) model() models.SkillSwapMessage {
	return models.SkillSwapMessage{
		ID:          w.ID,
		SkillSwapID: pick(w.SkillSwapID, w.SkillSwapIDCamel),
		SenderID:    pick(w.SenderID, w.SenderIDCamel),
		Message:     w.Message,
		CreatedAt:   pickTime(w.CreatedAt, w.CreatedAtCamel),
	}
}

type wireStatusChange struct {
	Status         string    `json:"status"`
	ChangedBy      int64     `json:"changed_by"`
	ChangedByCamel int64     `json:"changedBy"`
	ChangedAt      time.Time `json:"changed_at"`
	ChangedAtCamel time.Time `json:"changedAt"`
}

func (w wireStatusChange) model() models.StatusChange {
	return models.StatusChange{
		Status:    models.SwapStatus(w.Status),
		ChangedBy: pick(w.ChangedBy, w.ChangedByCamel),
		ChangedAt: pickTime(w.ChangedAt, w.ChangedAtCamel),
	}
}

// Request bodies.

type registerRequest struct {
	Name     string   `json:"name"`
	Email    string   `json:"email"`
	Password string   `json:"password"`
	Skills   []string `json:"skills"`
	Bio      string   `json:"bio"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type availabilityRequest struct {
	Available bool `json:"available"`
}

type createProjectRequest struct {
	Title          string   `json:"title"`
	Description    string   `json:"description"`
	RequiredSkills []string `json:"requiredSkills"`
}

type proposeSwapRequest struct {
	ToUserID       int64  `json:"toUserId"`
	OfferedSkill   string `json:"offeredSkill"`
	RequestedSkill string `json:"requestedSkill"`
	Message        string `json:"message"`
}

type swapStatusRequest struct {
	Status models.SwapStatus `json:"status"`
}

type swapMessageRequest struct {
	Message string `json:"message"`
}

func pick[T comparable](primary, fallback T) T {
	var zero T
	if primary != zero {
		return primary
	}
	return fallback
}

func pickTime(primary, fallback time.Time) time.Time {
	if !primary.IsZero() {
		return primary
	}
	return fallback
}

func mapAll[W any, M any](in []W, fn func(W) M) []M {
	out := make([]M, 0, len(in))
	for _, w := range in {
		out = append(out, fn(w))
	}
	return out
}
