package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ericfisherdev/accountdesk/internal/application"
	"github.com/ericfisherdev/accountdesk/internal/domain/model"
)

func (c *cli) newListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all accounts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.withStore(cmd.Context(), func(s *application.AccountStore) error {
				return c.writer().Accounts(s.List())
			})
		},
	}
}

func (c *cli) newCreateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "create",
		Short: "Create a blank Local account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.withStore(cmd.Context(), func(s *application.AccountStore) error {
				acc, err := s.Create(cmd.Context())
				if err != nil {
					return err
				}
				return c.writer().Accounts([]model.Account{acc})
			})
		},
	}
}

// updateFlags holds the fields an update may change. Unset flags keep the
// stored value.
type updateFlags struct {
	accountType string
	login       string
	password    string
	labels      string
}

// accountUpdater is the slice of AccountStore that update needs.
type accountUpdater interface {
	Get(id string) (model.Account, bool)
	Update(ctx context.Context, account model.Account) (bool, error)
}

// applyUpdate overlays the changed flags on the stored account, saves it and
// returns the record as stored.
func applyUpdate(ctx context.Context, s accountUpdater, id string, f updateFlags, changed func(string) bool) (model.Account, error) {
	acc, ok := s.Get(id)
	if !ok {
		return model.Account{}, fmt.Errorf("account %s not found", id)
	}

	if changed("type") {
		t := model.AccountType(f.accountType)
		if !t.Valid() {
			return model.Account{}, fmt.Errorf("invalid account type %q: expected %s or %s",
				f.accountType, model.AccountTypeLDAP, model.AccountTypeLocal)
		}
		acc.Type = t
	}
	if changed("login") {
		acc.Login = f.login
	}
	if changed("password") {
		acc.Password = model.StringPtr(f.password)
	}
	if changed("labels") {
		acc.Labels = application.ParseLabels(f.labels)
	}
	// Switching back from LDAP needs a password field to bind to.
	if acc.Type == model.AccountTypeLocal && acc.Password == nil {
		acc.Password = model.StringPtr("")
	}

	applied, err := s.Update(ctx, acc)
	if err != nil {
		return model.Account{}, err
	}
	if !applied {
		return model.Account{}, fmt.Errorf("account %s not found", id)
	}

	updated, ok := s.Get(id)
	if !ok {
		return model.Account{}, fmt.Errorf("account %s was deleted during update", id)
	}
	return updated, nil
}

func (c *cli) newUpdateCommand() *cobra.Command {
	var f updateFlags

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update an account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withStore(cmd.Context(), func(s *application.AccountStore) error {
				updated, err := applyUpdate(cmd.Context(), s, args[0], f, cmd.Flags().Changed)
				if err != nil {
					return err
				}
				return c.writer().Accounts([]model.Account{updated})
			})
		},
	}

	cmd.Flags().StringVar(&f.accountType, "type", "", "Account type: LDAP|Local")
	cmd.Flags().StringVar(&f.login, "login", "", "Login name")
	cmd.Flags().StringVar(&f.password, "password", "", "Password (ignored for LDAP accounts)")
	cmd.Flags().StringVar(&f.labels, "labels", "", "Labels separated by ';'")

	return cmd
}

func (c *cli) newDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withStore(cmd.Context(), func(s *application.AccountStore) error {
				return s.Delete(cmd.Context(), args[0])
			})
		},
	}
}

func (c *cli) newLabelsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "labels <text>",
		Short: "Show how a label string is split",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return c.writer().Labels(application.ParseLabels(args[0]))
		},
	}
}
