package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"mpcconsole/internal/client/guard"
	"mpcconsole/internal/client/models"
)

// access tells the dispatcher who may run a command.
type access int

const (
	accessPublic access = iota // available without a session
	accessAny                  // any authenticated user
	accessAdmin
	accessUser
)

// command is one REPL verb. run receives the arguments after the verb.
type command struct {
	name   string
	usage  string
	help   string
	access access
	run    func(ctx context.Context, args []string) error
}

// commands builds the dispatch table. It is a method so handlers close over
// the app.
func (a *App) commands() []command {
	return []command{
		{name: "login", help: "authenticate with username and password", access: accessPublic, run: a.cmdLogin},
		{name: "logout", help: "end the current session", access: accessAny, run: a.cmdLogout},
		{name: "whoami", help: "show the current session", access: accessAny, run: a.cmdWhoami},

		{name: "dashboard", help: "overview for your role", access: accessAny, run: a.cmdDashboard},
		{name: "balance", help: "wallet balance", access: accessAny, run: a.cmdBalance},
		{name: "receive", help: "show the wallet receiving address", access: accessUser, run: a.cmdReceive},
		{name: "send", help: "create a transaction", access: accessUser, run: a.cmdSend},
		{name: "history", usage: "history [limit [offset]]", help: "your transaction history", access: accessUser, run: a.cmdHistory},

		{name: "status", help: "cluster health summary", access: accessAdmin, run: a.cmdClusterStatus},
		{name: "nodes", help: "list signer nodes", access: accessAdmin, run: a.cmdNodes},
		{name: "txs", usage: "txs [limit [offset]]", help: "list cluster transactions", access: accessAdmin, run: a.cmdTxs},

		{name: "tx", usage: "tx <txid>", help: "show one transaction", access: accessAny, run: a.cmdTx},
		{name: "watch", usage: "watch <txid>", help: "follow a transaction to a final state", access: accessAny, run: a.cmdWatch},

		{name: "users", help: "list console users", access: accessAdmin, run: a.cmdUsers},
		{name: "adduser", help: "create a console user", access: accessAdmin, run: a.cmdAddUser},
		{name: "deluser", usage: "deluser <id>", help: "delete a console user", access: accessAdmin, run: a.cmdDelUser},

		{name: "dkg", help: "key generation status", access: accessAdmin, run: a.cmdDkgStatus},
		{name: "dkg-init", usage: "dkg-init <cggmp24|frost> <threshold> <total>", help: "start a key generation ceremony", access: accessAdmin, run: a.cmdDkgInit},
		{name: "aux", help: "auxiliary parameter status", access: accessAdmin, run: a.cmdAuxStatus},
		{name: "aux-gen", help: "start auxiliary parameter generation", access: accessAdmin, run: a.cmdAuxGen},
		{name: "presig", help: "presignature pool status", access: accessAdmin, run: a.cmdPresigStatus},
		{name: "presig-gen", usage: "presig-gen <count>", help: "top up the presignature pool", access: accessAdmin, run: a.cmdPresigGen},
	}
}

// repl reads commands until EOF, "exit" or ctx cancellation. Every command
// is treated as a navigation: the route guard decides whether the caller may
// go there, and a refused command prints the redirect instead of running.
func (a *App) repl(ctx context.Context) error {
	cmds := a.commands()
	byName := make(map[string]command, len(cmds))
	for _, c := range cmds {
		byName[c.name] = c
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		fmt.Fprintf(a.out, "mpc %s> ", a.promptStatus())
		line, err := a.reader.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return err
		}
		eof := err != nil
		parts := strings.Fields(line)
		if len(parts) == 0 {
			if eof {
				return nil
			}
			continue
		}

		if done := a.dispatch(ctx, byName, cmds, parts); done || eof {
			return nil
		}
	}
}

// dispatch runs one parsed input line and reports whether the REPL should
// exit.
func (a *App) dispatch(ctx context.Context, byName map[string]command, cmds []command, parts []string) bool {
	switch parts[0] {
	case "help":
		a.printHelp(cmds)
		return false
	case "exit", "quit":
		fmt.Fprintln(a.out, "Bye!")
		return true
	}

	c, ok := byName[parts[0]]
	if !ok {
		fmt.Fprintf(a.out, "Unknown command: %s (try help)\n", parts[0])
		return false
	}
	if !a.admit(c) {
		return false
	}
	if err := c.run(ctx, parts[1:]); err != nil {
		fmt.Fprintf(a.out, "error: %s\n", err)
	}
	return false
}

// admit runs the route guard for one command and reports whether it may
// execute. Refusals print where the user was sent instead.
func (a *App) admit(c command) bool {
	session := a.creds.Session()

	if c.access == accessPublic {
		if session != nil {
			fmt.Fprintln(a.out, "already logged in, logout first")
			return false
		}
		return true
	}

	v := guard.Evaluate(requiredRole(c.access, session), session, time.Now())
	if v.Allowed {
		return true
	}
	if v.RedirectTo == guard.PathLogin {
		fmt.Fprintf(a.out, "-> %s, please log in first\n", guard.PathLogin)
	} else {
		fmt.Fprintf(a.out, "not available for your role -> %s\n", v.RedirectTo)
	}
	return false
}

// requiredRole maps a command's access level to the role the guard should
// demand. Commands open to any authenticated user demand the session's own
// role, so only missing or expired sessions are turned away.
func requiredRole(acc access, session *models.Session) models.Role {
	switch acc {
	case accessAdmin:
		return models.RoleAdmin
	case accessUser:
		return models.RoleUser
	default:
		if session != nil {
			return session.User.Role
		}
		return models.RoleUser
	}
}

func (a *App) promptStatus() string {
	s := a.creds.Session()
	if s == nil {
		return "guest"
	}
	return fmt.Sprintf("%s@%s", s.User.Username, guard.HomeFor(s.User.Role))
}

func (a *App) printHelp(cmds []command) {
	session := a.creds.Session()
	fmt.Fprintln(a.out, "Available commands:")
	for _, c := range cmds {
		if !visible(c.access, session) {
			continue
		}
		u := c.usage
		if u == "" {
			u = c.name
		}
		fmt.Fprintf(a.out, "  %-42s %s\n", u, c.help)
	}
	fmt.Fprintf(a.out, "  %-42s %s\n", "help", "this text")
	fmt.Fprintf(a.out, "  %-42s %s\n", "exit", "leave the console")
}

func visible(acc access, session *models.Session) bool {
	switch acc {
	case accessPublic:
		return session == nil
	case accessAdmin:
		return session != nil && session.User.Role == models.RoleAdmin
	case accessUser:
		return session != nil && session.User.Role == models.RoleUser
	default:
		return session != nil
	}
}
