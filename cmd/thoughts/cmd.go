package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/leopalladium/thoughtboard/client"
	"github.com/leopalladium/thoughtboard/config"
	"github.com/leopalladium/thoughtboard/logging"
	"github.com/spf13/cobra"
)

func newCmd() *cobra.Command {
	var apiURL string
	cmd := &cobra.Command{
		Use:          "thoughts",
		Short:        "List and post thoughts on a thought board",
		SilenceUsage: true,
	}
	cmd.PersistentFlags().StringVar(&apiURL, "api-url", client.DefaultBaseURL, "Base URL of the thoughts API (env THOUGHTBOARD_API_URL)")

	newClient := func(cmd *cobra.Command) (*client.Client, error) {
		var cfg struct {
			Client config.Client
			Log    config.Log
		}
		if err := config.Load(&cfg); err != nil {
			return nil, err
		}
		if cmd.Flags().Changed("api-url") {
			cfg.Client.APIURL = apiURL
		}
		if err := cfg.Client.Validate(); err != nil {
			return nil, err
		}
		logger := logging.New(os.Stderr, cfg.Log.Level, cfg.Log.Format)
		return client.New(cfg.Client.APIURL, logger), nil
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List thoughts, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newClient(cmd)
			if err != nil {
				return err
			}
			thoughts, err := c.ListThoughts(cmd.Context())
			if err != nil {
				return err
			}
			return printThoughts(cmd.OutOrStdout(), thoughts)
		},
	}

	createCmd := &cobra.Command{
		Use:   "create <content>",
		Short: "Post a thought",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newClient(cmd)
			if err != nil {
				return err
			}
			t, err := c.CreateThought(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), t)
		},
	}

	cmd.AddCommand(listCmd, createCmd)
	return cmd
}

func printThoughts(w io.Writer, thoughts []client.Thought) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tCREATED AT\tCONTENT")
	for _, t := range thoughts {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", t.ID(), t.CreatedAt(), t.Content)
	}
	return tw.Flush()
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}
