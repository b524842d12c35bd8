package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"personal-ledger/internal/auth"
	"personal-ledger/internal/config"
	"personal-ledger/internal/logging"
	"personal-ledger/internal/models"
	"personal-ledger/internal/session"
	"personal-ledger/internal/storage"

	"github.com/google/subcommands"
	"golang.org/x/term"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// app carries what the subcommands share during one invocation.
type app struct {
	cfg    *config.Config
	logger *slog.Logger
	stdin  io.Reader
	lines  *bufio.Scanner
	stdout io.Writer
	stderr io.Writer

	username string
	password string

	session *session.Session
	auth    *auth.Service
	store   storage.LedgerStore
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	config.LoadEnvFile()
	cfg := config.Load()

	fs := flag.NewFlagSet("ledger", flag.ContinueOnError)
	fs.SetOutput(stderr)

	a := &app{
		cfg:     cfg,
		stdin:   stdin,
		lines:   bufio.NewScanner(stdin),
		stdout:  stdout,
		stderr:  stderr,
		session: session.New(),
	}
	fs.StringVar(&a.username, "user", os.Getenv("LEDGER_USER"), "Username")
	fs.StringVar(&a.password, "password", "", "Password (optional, will prompt if omitted)")
	dataDir := fs.String("data-dir", cfg.DataDir, "Directory holding ledgers, accounts and avatars")
	fs.StringVar(&cfg.Backend, "backend", cfg.Backend, "Ledger storage backend (csv or sqlite)")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return int(subcommands.ExitSuccess)
		}
		return int(subcommands.ExitUsageError)
	}

	if *dataDir != cfg.DataDir {
		cfg.DataDir = *dataDir
		if os.Getenv("LEDGER_SQLITE_PATH") == "" {
			cfg.SQLitePath = filepath.Join(cfg.DataDir, "ledger.db")
		}
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return int(subcommands.ExitFailure)
	}

	a.logger = logging.Setup(cfg, stderr)
	svc, err := auth.NewServiceFromConfig(cfg, a.session, a.logger)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return int(subcommands.ExitFailure)
	}
	a.auth = svc
	defer a.close()

	cdr := subcommands.NewCommander(fs, "ledger")
	cdr.Output = stdout
	cdr.Error = stderr
	cdr.Register(cdr.HelpCommand(), "")
	cdr.Register(cdr.FlagsCommand(), "")
	cdr.Register(cdr.CommandsCommand(), "")

	cdr.Register(&registerCmd{}, "account")
	cdr.Register(&whoamiCmd{}, "account")
	cdr.Register(&profileCmd{}, "account")

	cdr.Register(&addCmd{}, "ledger")
	cdr.Register(&listCmd{}, "ledger")
	cdr.Register(&deleteCmd{}, "ledger")

	cdr.Register(&summaryCmd{}, "reports")
	cdr.Register(&dailyCmd{}, "reports")
	cdr.Register(&exportCmd{}, "reports")
	cdr.Register(&categoriesCmd{}, "reports")

	return int(cdr.Execute(context.Background(), a))
}

func (a *app) close() {
	if a.store != nil {
		if err := a.store.Close(); err != nil {
			logging.For(a.logger, logging.ComponentCLI).Error("Failed to close ledger store", "error", err)
		}
	}
}

// fromArgs extracts the app passed to Commander.Execute.
func fromArgs(args []interface{}) *app {
	return args[0].(*app)
}

func (a *app) errorf(format string, args ...any) {
	fmt.Fprintf(a.stderr, "Error: "+format+"\n", args...)
}

// ledger opens the configured store on first use.
func (a *app) ledger() (storage.LedgerStore, error) {
	if a.store != nil {
		return a.store, nil
	}
	s, err := storage.Open(a.cfg, a.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to open ledger store: %w", err)
	}
	a.store = s
	return s, nil
}

// readSecret returns the -password flag or prompts for it.
func (a *app) readSecret(prompt string) (string, error) {
	if a.password != "" {
		return a.password, nil
	}
	fmt.Fprint(a.stdout, prompt)
	pw, err := readPassword(a.stdin, a.lines)
	fmt.Fprintln(a.stdout) // Print newline after password input
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return pw, nil
}

// login authenticates -user and places the account in the session.
func (a *app) login() (*models.User, error) {
	if strings.TrimSpace(a.username) == "" {
		return nil, errors.New("missing required flag: -user")
	}
	pw, err := a.readSecret("Password: ")
	if err != nil {
		return nil, err
	}
	u, err := a.auth.Login(a.username, pw)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, errors.New("invalid username or password")
	}
	a.session.Set(u)
	return u, nil
}

// openLedger logs in and returns the store and the session user's handle.
func (a *app) openLedger() (storage.LedgerStore, storage.Handle, error) {
	if _, err := a.login(); err != nil {
		return nil, "", err
	}
	h, err := storage.HandleFor(a.session.Username())
	if err != nil {
		return nil, "", err
	}
	s, err := a.ledger()
	if err != nil {
		return nil, "", err
	}
	return s, h, nil
}

// readPassword reads without echo from a terminal, otherwise one line from lines.
func readPassword(stdin io.Reader, lines *bufio.Scanner) (string, error) {
	// Check if stdin is a terminal
	if f, ok := stdin.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		bytePassword, err := term.ReadPassword(int(f.Fd()))
		if err != nil {
			return "", err
		}
		return string(bytePassword), nil
	}

	// Fallback for non-terminal (e.g. tests, pipes)
	if lines.Scan() {
		return lines.Text(), nil
	}
	if err := lines.Err(); err != nil {
		return "", err
	}
	return "", io.EOF
}
