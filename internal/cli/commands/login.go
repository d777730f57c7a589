package commands

import (
	"Inventaris/internal/cli/api"
	"Inventaris/internal/cli/auth"
	"Inventaris/internal/config"
	"Inventaris/internal/model"
	"context"
	"errors"
	"fmt"
	"net/http"
)

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string     `json:"token"`
	User  model.User `json:"user"`
}

type loginCmd struct{}

func (loginCmd) Name() string        { return "login" }
func (loginCmd) Description() string { return "Login and store auth token" }
func (loginCmd) Usage() string       { return "login <username> <password>" }

func (loginCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 2 {
		return ErrUsage
	}
	var resp loginResponse
	err := api.New(cfg.ServerURL, "").Post(ctx, "/api/login", LoginRequest{Username: args[0], Password: args[1]}, &resp)
	var apiErr *api.Error
	if errors.As(err, &apiErr) && apiErr.Status == http.StatusUnauthorized {
		return errors.New("invalid username or password")
	}
	if err != nil {
		return err
	}
	if err := auth.SaveToken(cfg.TokenFile, resp.Token); err != nil {
		return fmt.Errorf("saving auth: %w", err)
	}
	printf("Logged in as %s (%s)\n", resp.User.Name, resp.User.Role)
	return nil
}

type logoutCmd struct{}

func (logoutCmd) Name() string        { return "logout" }
func (logoutCmd) Description() string { return "Forget the stored auth token" }
func (logoutCmd) Usage() string       { return "logout" }

func (logoutCmd) Run(_ context.Context, cfg *config.Config, args []string) error {
	if len(args) != 0 {
		return ErrUsage
	}
	if err := auth.ClearToken(cfg.TokenFile); err != nil {
		return err
	}
	printf("Logged out\n")
	return nil
}

func init() {
	RegisterCmd(loginCmd{})
	RegisterCmd(logoutCmd{})
}
