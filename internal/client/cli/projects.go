package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/skillswap/internal/client/models"
)

func (a *App) Projects(ctx context.Context) error {
	projects := a.svc.Projects()
	if len(projects) == 0 {
		fmt.Fprintln(a.out, "No projects loaded")
		return nil
	}
	me, known := a.identityID()
	for _, p := range projects {
		fmt.Fprintf(a.out, "[%d] %s by %s, needs: %s, members: %d",
			p.ID, p.Title, a.userName(p.CreatorID), strings.Join(p.RequiredSkills, ", "), len(p.Members))
		switch {
		case known && p.CreatorID == me:
			fmt.Fprint(a.out, " (yours)")
		case known && p.HasMember(me):
			fmt.Fprint(a.out, " (joined)")
		}
		fmt.Fprintln(a.out)
	}
	return nil
}

// NewProject prompts for title, description and required skills.
func (a *App) NewProject(ctx context.Context) error {
	title, err := getSimpleText(a.reader, "Enter title", a.out)
	if err != nil {
		return err
	}
	if title == "" {
		return a.report(fmt.Errorf("title is required"))
	}
	description, err := GetMultiline(a.reader, "Enter description", a.out)
	if err != nil {
		return err
	}
	skills, err := getSimpleText(a.reader, "Enter required skills (comma separated)", a.out)
	if err != nil {
		return err
	}

	p, err := a.svc.CreateProject(ctx, models.NewProject{Title: title, Description: description, RequiredSkills: SplitList(skills)})
	if p != nil {
		fmt.Fprintf(a.out, "Created project [%d] %s\n", p.ID, p.Title)
	}
	if err != nil {
		return a.report(err)
	}
	return nil
}

func (a *App) Join(ctx context.Context, args []string) error {
	id, err := parseID(args, "join <project id>")
	if err != nil {
		return a.report(err)
	}
	p, err := a.svc.JoinProject(ctx, id)
	if p != nil {
		fmt.Fprintf(a.out, "Joined [%d] %s\n", p.ID, p.Title)
	}
	if err != nil {
		return a.report(err)
	}
	return nil
}
