package main

import (
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/shenikar/animal_rescue_dispatch/internal/repository"
)

func seedCommand(log *logrus.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Insert the default responder roster if it is empty",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, pool, err := connectDB(ctx)
			if err != nil {
				return err
			}
			defer pool.Close()

			cache := connectCache(ctx, cfg, log)
			if cache != nil {
				defer cache.Close()
			}

			repo := repository.NewResponderRepository(pool, cache, cfg.CacheTTL)
			inserted, err := repo.Seed(ctx, repository.DefaultResponders())
			if err != nil {
				return err
			}
			if inserted == 0 {
				count, err := repo.CountResponders(ctx)
				if err != nil {
					return err
				}
				return writeSeedResult(cmd.OutOrStdout(), inserted, count)
			}
			return writeSeedResult(cmd.OutOrStdout(), inserted, 0)
		},
	}
}

// writeSeedResult печатает итог seed; existing учитывается, только если ничего не добавлено
func writeSeedResult(w io.Writer, inserted, existing int) error {
	if inserted == 0 {
		_, err := fmt.Fprintf(w, "roster already populated (%d responders), nothing to do\n", existing)
		return err
	}
	_, err := fmt.Fprintf(w, "inserted %d responders\n", inserted)
	return err
}
