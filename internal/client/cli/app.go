package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"

	"github.com/common-nighthawk/go-figure"
	"github.com/dmitrijs2005/skillswap/internal/client/models"
	"github.com/dmitrijs2005/skillswap/internal/client/services"
)

type App struct {
	svc    services.AppService
	reader *bufio.Reader
	out    io.Writer
}

func NewApp(svc services.AppService, in io.Reader, out io.Writer) *App {
	return &App{svc: svc, reader: bufio.NewReader(in), out: out}
}

// Run prints the banner and blocks in the REPL until the user exits or
// input ends.
func (a *App) Run(ctx context.Context) {
	fmt.Fprintln(a.out, figure.NewFigure("SkillSwap", "cybermedium", true).String())
	fmt.Fprintln(a.out, "Welcome to SkillSwap CLI (type 'help' for commands)")
	runREPL(ctx, a, a.getStatus, a.reader)
}

func (a *App) isLoggedIn() bool {
	return a.svc.Session().Authenticated()
}

func (a *App) getStatus() string {
	sess := a.svc.Session()
	s := sess.State().String()
	if sess.Identity != nil {
		s = sess.Identity.Name + " " + s
	}
	if a.svc.Err() != nil {
		s += " !"
	}
	return fmt.Sprintf("(%s)", s)
}

// identityID returns the signed-in user's id, if confirmed.
func (a *App) identityID() (int64, bool) {
	sess := a.svc.Session()
	if sess.Identity == nil {
		return 0, false
	}
	return sess.Identity.ID, true
}

// userName resolves id against the users mirror. Ids of users not loaded
// yet are shown as "#id".
func (a *App) userName(id int64) string {
	if u, ok := a.svc.User(id); ok {
		return u.Name
	}
	return fmt.Sprintf("#%d", id)
}

func (a *App) printSwap(s models.SkillSwap) {
	fmt.Fprintf(a.out, "[%d] %s -> %s: %s for %s (%s)\n",
		s.ID, a.userName(s.FromUserID), a.userName(s.ToUserID), s.OfferedSkill, s.RequestedSkill, s.Status)
	if s.Message != "" {
		fmt.Fprintf(a.out, "      %q\n", s.Message)
	}
}
