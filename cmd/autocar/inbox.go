package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/autocaravecchauffeur/autocar"
)

func newInboxCmd() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "inbox",
		Short: "List contact messages, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e := getEnv(cmd)
			inbox, err := autocar.NewInbox(e.cfg.InboxPath)
			if err != nil {
				return fmt.Errorf("open inbox: %w", err)
			}
			defer inbox.Close()

			msgs, err := inbox.List(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if len(msgs) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no messages")
				return nil
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "RECEIVED\tNAME\tEMAIL\tSUBJECT\tMESSAGE")
			for _, m := range msgs {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
					m.CreatedAt.Local().Format("2006-01-02 15:04"),
					m.Name, m.Email, m.Subject, preview(m.Message, 60))
			}
			return tw.Flush()
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 20, "number of messages to show (0 for all)")
	return cmd
}

// preview flattens a message to one line of at most n runes.
func preview(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
