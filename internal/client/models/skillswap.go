package models

import "time"

// SwapStatus is the lifecycle state of a SkillSwap.
type SwapStatus string

const (
	SwapPending  SwapStatus = "pending"
	SwapAccepted SwapStatus = "accepted"
	SwapDeclined SwapStatus = "declined"
)

// Final reports whether no further transition is allowed out of s.
func (s SwapStatus) Final() bool {
	return s == SwapAccepted || s == SwapDeclined
}

// Known reports whether s is one of the statuses above.
func (s SwapStatus) Known() bool {
	return s == SwapPending || s.Final()
}

// CanTransitionTo reports whether moving from s to next is forward progress.
// Only pending -> accepted|declined is allowed.
func (s SwapStatus) CanTransitionTo(next SwapStatus) bool {
	return s == SwapPending && next.Final()
}

// SkillSwap is a proposal to exchange one skill for another.
type SkillSwap struct {
	ID             int64      `json:"id"`
	FromUserID     int64      `json:"fromUserId"`
	ToUserID       int64      `json:"toUserId"`
	OfferedSkill   string     `json:"offeredSkill"`
	RequestedSkill string     `json:"requestedSkill"`
	Message        string     `json:"message"`
	Status         SwapStatus `json:"status"`
}

// Clone returns s; a SkillSwap holds no references.
func (s SkillSwap) Clone() SkillSwap { return s }

// Involves reports whether userID is either side of the swap.
func (s SkillSwap) Involves(userID int64) bool {
	return s.FromUserID == userID || s.ToUserID == userID
}

// SwapProposal is the payload for proposing a swap. The proposer is taken
// from the session on the server side.
type SwapProposal struct {
	ToUserID       int64
	OfferedSkill   string
	RequestedSkill string
	Message        string
}

// SkillSwapMessage is a chat message attached to a swap.
type SkillSwapMessage struct {
	ID          int64     `json:"id"`
	SkillSwapID int64     `json:"skillSwapId"`
	SenderID    int64     `json:"senderId"`
	Message     string    `json:"message"`
	CreatedAt   time.Time `json:"createdAt"`
}

// StatusChange is one entry of a swap's status history.
type StatusChange struct {
	Status    SwapStatus `json:"status"`
	ChangedBy int64      `json:"changedBy"`
	ChangedAt time.Time  `json:"changedAt"`
}
