package cli

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/dmitrijs2005/skillswap/internal/client/models"
)

// Users handles "users [skill]". With a skill, only users offering it are
// listed.
func (a *App) Users(ctx context.Context, args []string) error {
	users := a.svc.Users()
	if len(args) > 0 {
		skill := strings.Join(args, " ")
		users = slices.DeleteFunc(users, func(u models.User) bool { return !u.HasSkill(skill) })
	}
	if len(users) == 0 {
		fmt.Fprintln(a.out, "No users loaded")
		return nil
	}
	for _, u := range users {
		mark := " "
		if u.Available {
			mark = "*"
		}
		fmt.Fprintf(a.out, "%s [%d] %s: %s\n", mark, u.ID, u.Name, strings.Join(u.Skills, ", "))
	}
	return nil
}

// Toggle flips the signed-in user's availability.
func (a *App) Toggle(ctx context.Context) error {
	u, err := a.svc.ToggleAvailability(ctx)
	if u != nil {
		fmt.Fprintf(a.out, "Available: %t\n", u.Available)
	}
	if err != nil {
		return a.report(err)
	}
	return nil
}
