package cli

import (
	"context"
	"fmt"
)

func (a *App) Refresh(ctx context.Context) error {
	if err := a.svc.Refresh(ctx); err != nil {
		return a.report(err)
	}
	fmt.Fprintf(a.out, "Loaded %d users, %d projects, %d skill-swaps\n",
		len(a.svc.Users()), len(a.svc.Projects()), len(a.svc.SkillSwaps()))
	return nil
}

// ShowError prints the facade's error slot.
func (a *App) ShowError(ctx context.Context) error {
	if err := a.svc.Err(); err != nil {
		fmt.Fprintf(a.out, "Last error: %v\n", err)
		return nil
	}
	fmt.Fprintln(a.out, "No error")
	return nil
}

func (a *App) ClearError(ctx context.Context) error {
	a.svc.ClearError()
	return nil
}
