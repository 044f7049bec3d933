package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	goversion "github.com/caarlos0/go-version"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/naveenspark/roster/internal/config"
	"github.com/naveenspark/roster/internal/logging"
	"github.com/naveenspark/roster/internal/session"
	"github.com/naveenspark/roster/internal/tui"
	"github.com/naveenspark/roster/pkg/client"
)

// set at build time via -ldflags "-X main.version=... -X main.commit=..."
var (
	version = "dev"
	commit  = ""
	date    = ""
)

var (
	stdin        io.Reader = os.Stdin
	stdout       io.Writer = os.Stdout
	readPassword           = term.ReadPassword // mockable
	isTerminal             = term.IsTerminal
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	if len(args) > 0 {
		switch args[0] {
		case "--version", "version", "-v":
			fmt.Fprintln(stdout, buildVersion(version, commit, date).String())
			return nil
		case "help", "--help", "-h":
			printHelp(stdout)
			return nil
		}
	}

	cfg, err := config.Load(os.Getenv("ROSTER_CONFIG"))
	if err != nil {
		return err
	}
	log, closeLog, err := logging.New(cfg.LogFile, cfg.Production())
	if err != nil {
		return err
	}
	defer closeLog()
	log.Debug("config loaded", zap.String("api_url", cfg.APIURL), zap.String("env", cfg.Env))

	store := session.NewStore(cfg.TokenPath)

	if len(args) > 0 {
		switch args[0] {
		case "login":
			return runLogin(cfg, store, log)
		case "logout":
			return runLogout(store)
		case "whoami":
			return runWhoami(store)
		default:
			printHelp(stdout)
			return fmt.Errorf("unknown command %q", args[0])
		}
	}

	user, ok := store.CurrentUser()
	if !ok {
		printSignedOut(stdout, "")
		return nil
	}
	c := newClient(cfg, store.Token(), log)
	// Only force re-login on actual auth failures (401), not transient errors.
	if _, err := c.GetProfile(context.Background()); err != nil {
		if client.IsStatus(err, http.StatusUnauthorized) {
			printSignedOut(stdout, "Your session has expired.")
			return nil
		}
		log.Warn("profile check failed", zap.Error(err))
	}
	return runTUI(c, user, cfg, log)
}

func newClient(cfg *config.Config, token string, log *zap.Logger) *client.Client {
	return client.New(cfg.APIURL, token, client.WithTimeout(cfg.Timeout), client.WithLogger(log))
}

func runTUI(c *client.Client, user session.User, cfg *config.Config, log *zap.Logger) error {
	app := tui.NewApp(c, user, tui.Options{
		Logger:  log,
		WebURL:  cfg.WebURL,
		Version: version,
	})
	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("tui error: %w", err)
	}
	return nil
}

func runLogin(cfg *config.Config, store *session.Store, log *zap.Logger) error {
	fmt.Fprint(stdout, "Email: ")
	email, err := bufio.NewReader(stdin).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("read email: %w", err)
	}
	email = strings.TrimSpace(email)
	if email == "" {
		return errors.New("email is required")
	}

	fmt.Fprint(stdout, "Password: ")
	pwd, err := readPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(stdout)
	if err != nil {
		return fmt.Errorf("read password: %w", err)
	}
	if len(pwd) == 0 {
		return errors.New("password is required")
	}

	resp, err := newClient(cfg, "", log).Login(context.Background(), email, string(pwd))
	if err != nil {
		if msg, ok := client.ServerMessage(err); ok {
			return fmt.Errorf("login failed: %s", msg)
		}
		return fmt.Errorf("login failed: %w", err)
	}
	if err := store.Save(resp.Token); err != nil {
		return err
	}
	log.Info("signed in", zap.String("user_id", resp.User.ID), zap.String("role", string(resp.User.Role)))
	fmt.Fprintf(stdout, "Signed in as %s (%s)\n", resp.User.Name, resp.User.Role)

	user, err := session.UserFromToken(resp.Token)
	if err != nil {
		return err
	}
	// Launch the TUI straight away when attached to a terminal.
	if !isTerminal(int(os.Stdout.Fd())) {
		return nil
	}
	fmt.Fprintln(stdout)
	return runTUI(newClient(cfg, resp.Token, log), user, cfg, log)
}

func runLogout(store *session.Store) error {
	removed, err := store.Clear()
	if err != nil {
		return err
	}
	if !removed {
		fmt.Fprintln(stdout, "Already logged out.")
		return nil
	}
	fmt.Fprintln(stdout, "Logged out.")
	return nil
}

func runWhoami(store *session.Store) error {
	user, ok := store.CurrentUser()
	if !ok {
		fmt.Fprintln(stdout, "Not signed in. Run: roster login")
		return nil
	}
	fmt.Fprintf(stdout, "%s (%s) id=%s\n", user.DisplayName(), user.Role(), user.UserID())
	return nil
}

func buildVersion(version, commit, date string) goversion.Info {
	return goversion.GetVersionInfo(
		goversion.WithAppDetails("roster", "Team capacity planning in the terminal.", "https://github.com/naveenspark/roster"),
		func(i *goversion.Info) {
			if version != "" {
				i.GitVersion = version
			}
			if commit != "" {
				i.GitCommit = commit
			}
			if date != "" {
				i.BuildDate = date
			}
		},
	)
}
