// Package cli provides the interactive SkillSwap command-line client.
//
// The REPL is a pure consumer of services.AppService: every command maps to
// one facade action and renders the mirrored collections afterwards. The
// loop is started via App.Run(ctx), which blocks until the user exits.
// See App and runREPL for details.
package cli
