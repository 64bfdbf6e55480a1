package cli

import (
	"context"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/skillswap/internal/client/models"
)

// Swaps lists the skill-swaps the signed-in user is part of. Pending swaps
// proposed to the user are flagged.
func (a *App) Swaps(ctx context.Context) error {
	swaps := a.svc.SkillSwaps()
	me, known := a.identityID()
	if known {
		swaps = slices.DeleteFunc(swaps, func(s models.SkillSwap) bool { return !s.Involves(me) })
	}
	if len(swaps) == 0 {
		fmt.Fprintln(a.out, "No skill-swaps")
		return nil
	}
	for _, s := range swaps {
		if known && s.ToUserID == me && s.Status == models.SwapPending {
			fmt.Fprint(a.out, "! ")
		}
		a.printSwap(s)
	}
	return nil
}

// Propose handles "propose <user id> <offered skill> <requested skill> [message...]".
func (a *App) Propose(ctx context.Context, args []string) error {
	if len(args) < 3 {
		return a.report(fmt.Errorf("usage: propose <user id> <offered skill> <requested skill> [message]"))
	}
	to, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil || to <= 0 {
		return a.report(fmt.Errorf("invalid user id %q", args[0]))
	}

	p := models.SwapProposal{
		ToUserID:       to,
		OfferedSkill:   args[1],
		RequestedSkill: args[2],
		Message:        strings.Join(args[3:], " "),
	}
	s, err := a.svc.ProposeSwap(ctx, p)
	if s != nil {
		fmt.Fprint(a.out, "Proposed ")
		a.printSwap(*s)
	}
	if err != nil {
		return a.report(err)
	}
	return nil
}

func (a *App) Accept(ctx context.Context, args []string) error {
	return a.setStatus(ctx, args, models.SwapAccepted)
}

func (a *App) Decline(ctx context.Context, args []string) error {
	return a.setStatus(ctx, args, models.SwapDeclined)
}

func (a *App) setStatus(ctx context.Context, args []string, status models.SwapStatus) error {
	id, err := parseID(args, "accept|decline <swap id>")
	if err != nil {
		return a.report(err)
	}
	if _, err := a.svc.UpdateSwapStatus(ctx, id, status); err != nil {
		return a.report(err)
	}
	fmt.Fprintf(a.out, "Skill-swap %d %s\n", id, status)
	return nil
}

func (a *App) Messages(ctx context.Context, args []string) error {
	id, err := parseID(args, "messages <swap id>")
	if err != nil {
		return a.report(err)
	}
	msgs, err := a.svc.SwapMessages(ctx, id)
	if err != nil {
		return a.report(err)
	}
	if len(msgs) == 0 {
		fmt.Fprintln(a.out, "No messages")
	}
	for _, m := range msgs {
		fmt.Fprintf(a.out, "%s %s: %s\n", m.CreatedAt.Format("2006-01-02 15:04"), a.userName(m.SenderID), m.Message)
	}
	return nil
}

func (a *App) Send(ctx context.Context, args []string) error {
	id, err := parseID(args, "send <swap id> <message>")
	if err != nil {
		return a.report(err)
	}
	text := strings.Join(args[1:], " ")
	if text == "" {
		return a.report(fmt.Errorf("message is empty"))
	}
	if _, err := a.svc.SendSwapMessage(ctx, id, text); err != nil {
		return a.report(err)
	}
	fmt.Fprintln(a.out, "Sent")
	return nil
}

func (a *App) History(ctx context.Context, args []string) error {
	id, err := parseID(args, "history <swap id>")
	if err != nil {
		return a.report(err)
	}
	history, err := a.svc.SwapHistory(ctx, id)
	if err != nil {
		return a.report(err)
	}
	for _, h := range history {
		fmt.Fprintf(a.out, "%s %s by %s\n", h.ChangedAt.Format("2006-01-02 15:04"), h.Status, a.userName(h.ChangedBy))
	}
	return nil
}
