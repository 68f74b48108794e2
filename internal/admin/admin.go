// Package admin implements the operator tool that bootstraps administrator
// accounts: it creates a new admin or promotes an existing account.
package admin

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"

	"github.com/dmitrijs2005/trophy/internal/common"
	"github.com/dmitrijs2005/trophy/internal/flagx"
	"github.com/dmitrijs2005/trophy/internal/server/models"
	"github.com/dmitrijs2005/trophy/internal/server/services"
	"github.com/dmitrijs2005/trophy/internal/shared"
)

// Options selects what the tool does.
type Options struct {
	Email   string
	Name    string
	Promote bool
}

// ParseOptions reads -email, -name and -promote from args. Flags owned by the
// server config are ignored.
func ParseOptions(args []string) (Options, error) {
	var o Options

	fs := flag.NewFlagSet("admin", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.StringVar(&o.Email, "email", "", "account email")
	fs.StringVar(&o.Name, "name", "", "display name for a new admin")
	fs.BoolVar(&o.Promote, "promote", false, "promote an existing account instead of creating one")

	if err := fs.Parse(flagx.FilterArgs(args, []string{"-email", "-name", "-promote"})); err != nil {
		return o, err
	}
	return o, nil
}

// Accounts is the part of services.AuthService the tool needs.
type Accounts interface {
	RegisterAdmin(ctx context.Context, req services.RegisterRequest) (*models.User, error)
	PromoteToAdmin(ctx context.Context, email string) (*models.User, error)
}

// Run prompts for whatever opts leave out and performs the action. The
// password is read without echo and confirmed.
func Run(ctx context.Context, accounts Accounts, opts Options, in *bufio.Reader, w io.Writer) (*models.User, error) {
	var err error
	if opts.Email == "" {
		if opts.Email, err = GetSimpleText(in, "Email", w); err != nil {
			return nil, err
		}
	}

	if opts.Promote {
		u, err := accounts.PromoteToAdmin(ctx, opts.Email)
		if errors.Is(err, common.ErrorNotFound) {
			return nil, fmt.Errorf("no account with email %q", opts.Email)
		}
		return u, err
	}

	if opts.Name == "" {
		if opts.Name, err = GetSimpleText(in, "Name", w); err != nil {
			return nil, err
		}
	}

	pw, err := GetPassword(w, "Password: ")
	if err != nil {
		return nil, err
	}
	defer shared.WipeByteArray(pw)

	confirm, err := GetPassword(w, "Repeat password: ")
	if err != nil {
		return nil, err
	}
	defer shared.WipeByteArray(confirm)

	if string(pw) != string(confirm) {
		return nil, errors.New("passwords do not match")
	}

	u, err := accounts.RegisterAdmin(ctx, services.RegisterRequest{
		Email:    opts.Email,
		Password: string(pw),
		Name:     opts.Name,
	})
	if errors.Is(err, common.ErrConflict) {
		return nil, fmt.Errorf("account %q already exists, use -promote", opts.Email)
	}
	return u, err
}
