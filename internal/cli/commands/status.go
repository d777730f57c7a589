package commands

import (
	"Inventaris/internal/config"
	"context"
)

type meResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Role string `json:"role"`
}

type statusCmd struct{}

func (statusCmd) Name() string        { return "status" }
func (statusCmd) Description() string { return "Show who is logged in" }
func (statusCmd) Usage() string       { return "status" }

func (statusCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 0 {
		return ErrUsage
	}
	c, err := authedClient(cfg)
	if err != nil {
		return err
	}
	var me meResponse
	if err := c.Get(ctx, "/api/me", &me); err != nil {
		return err
	}
	printf("Logged in as %s (%s, id %d)\n", me.Name, me.Role, me.ID)
	return nil
}

func init() { RegisterCmd(statusCmd{}) }
