package main

import (
	"errors"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"medi-response-service/internal/app"
)

func newHistoryCmd(appFn func() *app.Application) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "history [session-id]",
		Short: "List stored sessions, or the turns of one session",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := appFn().OpenStore()
			if err != nil {
				return err
			}
			if db == nil {
				return errors.New("no history store configured (STORE_PATH is empty)")
			}
			ctx := cmd.Context()
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			defer tw.Flush()

			if len(args) == 0 {
				sessions, err := db.ListSessions(ctx, limit)
				if err != nil {
					return err
				}
				fmt.Fprintln(tw, "SESSION\tEMOTION\tCREATED")
				for _, s := range sessions {
					fmt.Fprintf(tw, "%s\t%s\t%s\n", s.ID, s.Emotion, s.CreatedAt.Local().Format(time.DateTime))
				}
				return nil
			}

			turns, err := db.Turns(ctx, args[0])
			if err != nil {
				return err
			}
			if len(turns) == 0 {
				return fmt.Errorf("session %s has no turns", args[0])
			}
			for _, t := range turns {
				fmt.Fprintf(tw, "%d\tDoctor:\t%s\n", t.Seq, t.Doctor)
				fmt.Fprintf(tw, "\tRelative:\t%s\n", t.Response)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 20, "maximum sessions to list")
	return cmd
}
