package main

import (
	"fmt"
	"log"
	"strings"

	"github.com/spf13/cobra"

	"adxquery/compare"
	"adxquery/snapshot"
)

func compareCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "compare <old.dat> <new.dat>",
		Short: "Compare two snapshots and report added, removed, and changed objects",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			oldSnap, err := snapshot.Open(args[0], log.Default())
			if err != nil {
				return err
			}
			newSnap, err := snapshot.Open(args[1], log.Default())
			if err != nil {
				return err
			}
			result, err := compare.Snapshots(oldSnap, newSnap, compare.Options{})
			if err != nil {
				return err
			}

			for _, added := range result.Added {
				fmt.Printf("+ %s\n", added.DN)
			}
			for _, removed := range result.Removed {
				fmt.Printf("- %s\n", removed.DN)
			}
			for _, changed := range result.Changed {
				fmt.Printf("~ %s\n", changed.DN)
				for _, a := range changed.Attributes {
					fmt.Printf("    %s: [%s] -> [%s]\n", a.Name, strings.Join(a.Old, ", "), strings.Join(a.New, ", "))
				}
			}
			return nil
		},
	}
}
