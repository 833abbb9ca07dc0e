package main

import (
	"fmt"
	"log"
	"strings"

	"github.com/spf13/cobra"

	"adxquery/config"
	"adxquery/query"
	"adxquery/snapshot"
)

func queryCommand() *cobra.Command {
	var projection string
	var limit int
	var caseInsensitive bool
	var stats bool
	var configPath string

	cmd := &cobra.Command{
		Use:   "query <snapshot> <filter>",
		Short: "Run an RFC 4515 filter query against a snapshot file",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			defaults, err := config.LoadDriverDefaults(configPath)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("case-insensitive") {
				caseInsensitive = defaults.CaseInsensitive
			}
			if !cmd.Flags().Changed("limit") && defaults.Limit != 0 {
				limit = defaults.Limit
			}
			if !cmd.Flags().Changed("projection") && defaults.Projection != "" {
				projection = defaults.Projection
			}

			snap, err := snapshot.Open(args[0], log.Default())
			if err != nil {
				return err
			}

			opts := query.Options{
				Limit:           limit,
				CaseInsensitive: caseInsensitive,
				CollectStats:    stats,
			}
			if projection != "" {
				for _, p := range strings.Split(projection, ",") {
					opts.Projection = append(opts.Projection, strings.TrimSpace(p))
				}
			}

			engine := query.New(snap)
			results, resultStats, err := engine.Run(args[1], opts)
			if err != nil {
				return err
			}

			for _, obj := range results {
				fmt.Println(obj.DN)
				for _, entry := range obj.Attributes.Entries() {
					fmt.Printf("  %s: %s\n", entry.Key, strings.Join(entry.Value, ", "))
				}
			}
			if resultStats != nil {
				fmt.Fprintf(cmd.OutOrStdout(), "scanned=%d matched=%d decode_errors=%d elapsed=%s\n",
					resultStats.ObjectsScanned, resultStats.ObjectsMatched, resultStats.DecodeErrors, resultStats.Elapsed)
			}
			if len(results) == 0 {
				return errNoMatches
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&projection, "projection", "", "comma-separated attribute names to emit (default: all)")
	cmd.Flags().IntVar(&limit, "limit", 0, "maximum number of matches to return (0 = unlimited)")
	cmd.Flags().BoolVar(&caseInsensitive, "case-insensitive", true, "fold case when comparing string values")
	cmd.Flags().BoolVar(&stats, "stats", false, "print scan counters after results")
	cmd.Flags().StringVar(&configPath, "config", ".env", "ambient defaults file")
	return cmd
}

// errNoMatches is a sentinel distinguishing "ran fine, zero matches" (exit
// 1) from any real failure (exit 3). cobra prints it like any other RunE
// error, landing the no-matches message on stderr.
var errNoMatches = &noMatchesError{}

type noMatchesError struct{}

func (*noMatchesError) Error() string { return "no matching objects" }
