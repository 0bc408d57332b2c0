package main

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"github.com/warp/resource-planner/config"
)

func snapshotsCmd(g *globals) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "snapshots",
		Short: "List or prune saved versions (sqlite backend)",
	}

	var limit int
	list := &cobra.Command{
		Use:   "list",
		Short: "List saved versions, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := openSQLite(g)
			if err != nil {
				return err
			}
			defer b.Close()

			infos, err := b.SQLite.ListSnapshots(cmd.Context(), limit)
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tSAVED AT\tPEOPLE\tTEAMS\tDEPARTMENTS\tPROJECTS")
			for _, s := range infos {
				fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%d\t%d\n",
					s.ID, s.SavedAt.Local().Format(time.DateTime), s.People, s.Teams, s.Departments, s.Projects)
			}
			return tw.Flush()
		},
	}
	list.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum rows (0 = all)")

	var keep int
	prune := &cobra.Command{
		Use:   "prune",
		Short: "Delete all but the newest versions",
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := openSQLite(g)
			if err != nil {
				return err
			}
			defer b.Close()

			n, err := b.SQLite.Prune(cmd.Context(), keep)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %d snapshot(s)\n", n)
			return nil
		},
	}
	prune.Flags().IntVar(&keep, "keep", 50, "Number of newest versions to keep")

	cmd.AddCommand(list, prune)
	return cmd
}

func openSQLite(g *globals) (*backend, error) {
	cfg, logger, err := g.load()
	if err != nil {
		return nil, err
	}
	if cfg.Storage.Backend != config.BackendSQLite {
		return nil, fmt.Errorf("snapshots need the sqlite backend, configured backend is %q", cfg.Storage.Backend)
	}
	return openBackend(cfg.Storage, logger)
}
