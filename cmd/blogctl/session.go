package main

import (
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/quillpress/blog-client/internal/core/domain"
)

func (c *cli) sessionCommands() []*cobra.Command {
	return []*cobra.Command{
		c.loginCommand(),
		c.registerCommand(),
		{
			Use:   "logout",
			Short: "Sign out and forget the stored token",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				if err := c.app.Session.Logout(cmd.Context()); err != nil {
					return err
				}
				c.printf("Signed out\n")
				return nil
			},
		},
		{
			Use:   "whoami",
			Short: "Show the signed-in user",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				u, ok := c.app.Session.Current()
				if !ok {
					c.printf("Not signed in\n")
					return nil
				}
				c.printf("%s <%s>\n", u.Name, u.Email)
				c.printf("id: %s\n", u.ID)

				exp, ok, err := c.app.Session.TokenExpiry(cmd.Context())
				if err != nil {
					return err
				}
				if ok {
					c.printf("token expires: %s\n", exp.Local().Format(time.RFC1123))
				}
				return nil
			},
		},
		c.tokenCommand(),
	}
}

func (c *cli) loginCommand() *cobra.Command {
	var creds domain.Credentials
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			creds.Email = strings.TrimSpace(creds.Email)
			if err := c.app.Forms.Validate(creds); err != nil {
				return err
			}
			u, err := c.app.Session.Login(cmd.Context(), creds)
			if err != nil {
				return err
			}
			c.printf("Signed in as %s\n", u.Name)
			return nil
		},
	}
	cmd.Flags().StringVar(&creds.Email, "email", "", "account email")
	cmd.Flags().StringVar(&creds.Password, "password", "", "account password")
	return cmd
}

func (c *cli) registerCommand() *cobra.Command {
	var p domain.Profile
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account and sign in",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p.Email = strings.TrimSpace(p.Email)
			if err := c.app.Forms.Validate(p); err != nil {
				return err
			}
			u, err := c.app.Session.Register(cmd.Context(), p)
			if err != nil {
				return err
			}
			c.printf("Welcome, %s\n", u.Name)
			return nil
		},
	}
	cmd.Flags().StringVar(&p.Name, "name", "", "display name")
	cmd.Flags().StringVar(&p.Email, "email", "", "account email")
	cmd.Flags().StringVar(&p.Password, "password", "", "password, at least 6 characters")
	cmd.Flags().StringVar(&p.ConfirmPassword, "confirm", "", "repeat the password")
	return cmd
}

func (c *cli) tokenCommand() *cobra.Command {
	token := &cobra.Command{
		Use:   "token",
		Short: "Manage the bearer token sent with requests",
	}
	token.AddCommand(
		&cobra.Command{
			Use:   "set <token>",
			Short: "Store a bearer token",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := c.app.Session.SetToken(cmd.Context(), args[0]); err != nil {
					return err
				}
				c.printf("Token stored\n")
				return nil
			},
		},
		&cobra.Command{
			Use:   "clear",
			Short: "Forget the bearer token",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				if err := c.app.Session.SetToken(cmd.Context(), ""); err != nil {
					return err
				}
				c.printf("Token cleared\n")
				return nil
			},
		},
	)
	return token
}
