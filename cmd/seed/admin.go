package main

import (
	"context"
	"errors"

	"github.com/ministry-site/core/internal/modules/auth/auth"
	"go.uber.org/zap"
)

type adminCommand struct {
	Username string `short:"u" long:"username" default:"admin" description:"Admin username"`
	Email    string `short:"e" long:"email" required:"true" description:"Admin email"`
	Password string `short:"p" long:"password" env:"ADMIN_PASSWORD" required:"true" description:"Admin password"`
	Reset    bool   `long:"reset" description:"Reset password and email when the user exists"`
}

func (c *adminCommand) Execute([]string) error {
	if len(c.Password) < 8 {
		return errors.New("password must be at least 8 characters")
	}
	e, err := open()
	if err != nil {
		return err
	}
	defer e.close()

	// The signer is only needed for login; EnsureAdmin never issues tokens.
	svc := auth.NewService(e.db, nil)
	created, err := svc.EnsureAdmin(context.Background(), c.Username, c.Email, c.Password, c.Reset)
	if err != nil {
		return err
	}
	switch {
	case created:
		e.log.Info("admin user created", zap.String("username", c.Username))
	case c.Reset:
		e.log.Info("admin user reset", zap.String("username", c.Username))
	default:
		e.log.Info("admin user already exists, pass --reset to overwrite", zap.String("username", c.Username))
	}
	return nil
}

func init() {
	_, _ = parser.AddCommand("admin", "Create or reset the admin user", "", &adminCommand{})
}
