package commands

import (
	"Inventaris/internal/config"
	"Inventaris/internal/model"
	"context"
	"fmt"
)

type itemsCmd struct{}

func (itemsCmd) Name() string        { return "items" }
func (itemsCmd) Description() string { return "Показать каталог и остатки" }
func (itemsCmd) Usage() string       { return "items" }
func (itemsCmd) Aliases() []string   { return []string{"ls"} }

func (itemsCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 0 {
		return ErrUsage
	}
	c, err := authedClient(cfg)
	if err != nil {
		return err
	}
	var list []model.Item
	if err := c.Get(ctx, "/api/items", &list); err != nil {
		return err
	}
	if len(list) == 0 {
		printf("Каталог пуст\n")
		return nil
	}
	tw := newTable(Out)
	fmt.Fprintln(tw, "ID\tNAME\tAVAILABLE\tDESCRIPTION")
	for _, it := range list {
		fmt.Fprintf(tw, "%d\t%s\t%d\t%s\n", it.ID, it.Name, it.Stock, it.Description)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	printf("Всего: %d\n", len(list))
	return nil
}

func init() { RegisterCmd(itemsCmd{}) }
