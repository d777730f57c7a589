package commands

import (
	"Inventaris/internal/cli/api"
	"Inventaris/internal/cli/auth"
	"Inventaris/internal/config"
	"fmt"
	"io"
	"text/tabwriter"
	"time"
)

// authedClient: клиент с сохранённым токеном.
func authedClient(cfg *config.Config) (*api.Client, error) {
	token, err := auth.LoadToken(cfg.TokenFile)
	if err != nil {
		return nil, err
	}
	return api.New(cfg.ServerURL, token), nil
}

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
}

func fmtDate(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.Local().Format("2006-01-02 15:04")
}

func printf(format string, args ...any) {
	fmt.Fprintf(Out, format, args...)
}
