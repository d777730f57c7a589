package commands

import (
	"Inventaris/internal/config"
	"Inventaris/internal/model"
	"context"
	"fmt"
	"strconv"
	"strings"
)

type borrowRequest struct {
	ItemID   int64  `json:"item_id"`
	Quantity int    `json:"quantity"`
	Purpose  string `json:"purpose"`
}

type returnRequest struct {
	BorrowingID   int64  `json:"borrowing_id"`
	ConditionNote string `json:"condition_note"`
}

type borrowCmd struct{}

func (borrowCmd) Name() string        { return "borrow" }
func (borrowCmd) Description() string { return "Borrow units of an item" }
func (borrowCmd) Usage() string       { return "borrow <item-id> <qty> <purpose...>" }

func (borrowCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) < 3 {
		return ErrUsage
	}
	itemID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return ErrUsage
	}
	qty, err := strconv.Atoi(args[1])
	if err != nil {
		return ErrUsage
	}
	c, err := authedClient(cfg)
	if err != nil {
		return err
	}
	var b model.Borrowing
	req := borrowRequest{ItemID: itemID, Quantity: qty, Purpose: strings.Join(args[2:], " ")}
	if err := c.Post(ctx, "/api/borrow", req, &b); err != nil {
		return err
	}
	printf("Borrowed %d x %s (borrowing #%d)\n", b.Quantity, b.ItemName, b.ID)
	return nil
}

type returnCmd struct{}

func (returnCmd) Name() string        { return "return" }
func (returnCmd) Description() string { return "Return a borrowing with a condition note" }
func (returnCmd) Usage() string       { return "return <borrowing-id> <note...>" }

func (returnCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) < 2 {
		return ErrUsage
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return ErrUsage
	}
	c, err := authedClient(cfg)
	if err != nil {
		return err
	}
	var b model.Borrowing
	req := returnRequest{BorrowingID: id, ConditionNote: strings.Join(args[1:], " ")}
	if err := c.Post(ctx, "/api/return", req, &b); err != nil {
		return err
	}
	printf("Returned %d x %s (borrowing #%d)\n", b.Quantity, b.ItemName, b.ID)
	return nil
}

type borrowingsCmd struct{}

func (borrowingsCmd) Name() string        { return "borrowings" }
func (borrowingsCmd) Description() string { return "List my borrowings (--all: everyone, admin only)" }
func (borrowingsCmd) Usage() string       { return "borrowings [--all]" }
func (borrowingsCmd) Aliases() []string   { return []string{"loans"} }

func (borrowingsCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	path := "/api/my-borrowings"
	switch {
	case len(args) == 1 && args[0] == "--all":
		path = "/api/all-borrowings"
	case len(args) != 0:
		return ErrUsage
	}
	c, err := authedClient(cfg)
	if err != nil {
		return err
	}
	var list []model.Borrowing
	if err := c.Get(ctx, path, &list); err != nil {
		return err
	}
	if len(list) == 0 {
		printf("Нет выдач\n")
		return nil
	}
	tw := newTable(Out)
	fmt.Fprintln(tw, "ID\tITEM\tQTY\tBORROWER\tSTATUS\tBORROWED\tRETURNED\tPURPOSE")
	for _, b := range list {
		borrowed := b.BorrowDate
		fmt.Fprintf(tw, "%d\t%s\t%d\t%s\t%s\t%s\t%s\t%s\n",
			b.ID, b.ItemName, b.Quantity, b.BorrowerName, b.Status, fmtDate(&borrowed), fmtDate(b.ReturnDate), b.Purpose)
	}
	return tw.Flush()
}

func init() {
	RegisterCmd(borrowCmd{})
	RegisterCmd(returnCmd{})
	RegisterCmd(borrowingsCmd{})
}
