package main

import (
	"context"
	"flag"
	"fmt"
	"strings"

	"personal-ledger/internal/auth"

	"github.com/google/subcommands"
)

type registerCmd struct {
	name string
}

func (*registerCmd) Name() string     { return "register" }
func (*registerCmd) Synopsis() string { return "create a new account" }
func (*registerCmd) Usage() string {
	return `ledger -user <username> [-password <password>] register -name <display name>

  Creates an account. The password is prompted twice when -password is omitted.
`
}

func (c *registerCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.name, "name", "", "Display name (required)")
}

func (c *registerCmd) Execute(_ context.Context, _ *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	a := fromArgs(args)

	password := a.password
	if password == "" {
		pw, err := a.readSecret("Password: ")
		if err != nil {
			a.errorf("%v", err)
			return subcommands.ExitFailure
		}
		confirm, err := a.readSecret("Confirm password: ")
		if err != nil {
			a.errorf("%v", err)
			return subcommands.ExitFailure
		}
		if pw != confirm {
			a.errorf("passwords do not match")
			return subcommands.ExitFailure
		}
		password = pw
	}

	ok, err := a.auth.Register(a.username, password, c.name)
	if err != nil {
		a.errorf("%v", err)
		return subcommands.ExitFailure
	}
	if !ok {
		a.errorf("registration failed: -user, password and -name are required and the username must not be taken")
		return subcommands.ExitFailure
	}
	fmt.Fprintf(a.stdout, "User %s registered\n", strings.TrimSpace(a.username))
	return subcommands.ExitSuccess
}

type whoamiCmd struct{}

func (*whoamiCmd) Name() string             { return "whoami" }
func (*whoamiCmd) Synopsis() string         { return "show the logged-in account" }
func (*whoamiCmd) Usage() string            { return "ledger -user <username> whoami\n" }
func (*whoamiCmd) SetFlags(_ *flag.FlagSet) {}

func (*whoamiCmd) Execute(_ context.Context, _ *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	a := fromArgs(args)
	if _, err := a.login(); err != nil {
		a.errorf("%v", err)
		return subcommands.ExitFailure
	}
	printUser(a)
	return subcommands.ExitSuccess
}

func printUser(a *app) {
	u := a.session.Get()
	fmt.Fprintf(a.stdout, "Username: %s\nName:     %s\n", u.Username, u.DisplayName)
	if u.HasAvatar() {
		fmt.Fprintf(a.stdout, "Avatar:   %s\n", u.Avatar)
	}
}

type profileCmd struct {
	name        string
	newPassword string
	avatar      string
}

func (*profileCmd) Name() string     { return "profile" }
func (*profileCmd) Synopsis() string { return "update display name, password or avatar" }
func (*profileCmd) Usage() string {
	return `ledger -user <username> profile [-name <name>] [-new-password <pw>] [-avatar <image>]

  Updates the profile of the logged-in account. Passwords shorter than 4
  characters are ignored. The avatar image is copied into the data directory.
`
}

func (c *profileCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.name, "name", "", "New display name")
	f.StringVar(&c.newPassword, "new-password", "", "New password (at least 4 characters)")
	f.StringVar(&c.avatar, "avatar", "", "Path to an avatar image")
}

func (c *profileCmd) Execute(_ context.Context, _ *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	a := fromArgs(args)
	if _, err := a.login(); err != nil {
		a.errorf("%v", err)
		return subcommands.ExitFailure
	}
	if c.newPassword != "" && len([]rune(c.newPassword)) < auth.MinPasswordLength {
		fmt.Fprintf(a.stderr, "Warning: new password is shorter than %d characters and was not applied\n", auth.MinPasswordLength)
	}

	u, err := a.auth.UpdateProfile(a.session.Username(), auth.ProfileUpdate{
		DisplayName:  c.name,
		NewPassword:  c.newPassword,
		AvatarSource: c.avatar,
	})
	if err != nil {
		a.errorf("%v", err)
		return subcommands.ExitFailure
	}
	if u == nil {
		a.errorf("account %s no longer exists", a.session.Username())
		return subcommands.ExitFailure
	}
	if c.avatar != "" && u.Avatar == "" {
		fmt.Fprintf(a.stderr, "Warning: avatar %s could not be copied\n", c.avatar)
	}
	printUser(a)
	return subcommands.ExitSuccess
}
