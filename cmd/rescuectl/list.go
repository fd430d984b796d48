package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/shenikar/animal_rescue_dispatch/internal/models"
	"github.com/shenikar/animal_rescue_dispatch/internal/repository"
)

func respondersCommand() *cobra.Command {
	respondersCmd := &cobra.Command{
		Use:   "responders",
		Short: "Inspect the responder roster",
	}

	var asJSON bool
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List responders ordered by name",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, pool, err := connectDB(ctx)
			if err != nil {
				return err
			}
			defer pool.Close()

			roster, err := repository.NewResponderRepository(pool, nil, cfg.CacheTTL).ListResponders(ctx)
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), roster)
			}
			return writeResponders(cmd.OutOrStdout(), roster)
		},
	}
	listCmd.Flags().BoolVar(&asJSON, "json", false, "print as JSON")

	respondersCmd.AddCommand(listCmd)
	return respondersCmd
}

func alertsCommand() *cobra.Command {
	alertsCmd := &cobra.Command{
		Use:   "alerts",
		Short: "Inspect stored alerts",
	}

	var (
		asJSON bool
		limit  int
	)
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List alerts, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, pool, err := connectDB(ctx)
			if err != nil {
				return err
			}
			defer pool.Close()

			alerts, err := repository.NewAlertRepository(pool, nil, cfg.CacheTTL).List(ctx)
			if err != nil {
				return err
			}
			if limit > 0 && len(alerts) > limit {
				alerts = alerts[:limit]
			}
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), alerts)
			}
			return writeAlerts(cmd.OutOrStdout(), alerts)
		},
	}
	listCmd.Flags().BoolVar(&asJSON, "json", false, "print as JSON")
	listCmd.Flags().IntVar(&limit, "limit", 50, "maximum number of alerts to print, 0 for all")

	alertsCmd.AddCommand(listCmd)
	return alertsCmd
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeResponders(w io.Writer, roster []*models.Responder) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tEMAIL\tLATITUDE\tLONGITUDE\tRADIUS_KM")
	for _, r := range roster {
		fmt.Fprintf(tw, "%s\t%s\t%.4f\t%.4f\t%.1f\n", r.Name, r.Email, r.Latitude, r.Longitude, r.RadiusKm)
	}
	return tw.Flush()
}

func writeAlerts(w io.Writer, alerts []*models.Alert) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tCREATED\tANIMAL\tSEVERITY\tSTATUS\tEXECUTION")
	for _, a := range alerts {
		execution := "-"
		if a.ExecutionID != nil {
			execution = *a.ExecutionID
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\t%s\n",
			a.ID, a.CreatedAt.Format("2006-01-02 15:04:05"), a.AnimalType, a.Severity, a.Status, execution)
	}
	return tw.Flush()
}
