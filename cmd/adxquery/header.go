package main

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"adxquery/activedirectory/valuecodec"
	"adxquery/snapshot"
)

func headerCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "header <snapshot>",
		Short: "Dump a snapshot's header metadata",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			snap, err := snapshot.Open(args[0], log.Default())
			if err != nil {
				return err
			}
			h := snap.DumpHeader()
			fmt.Printf("version:         %d\n", h.Version)
			fmt.Printf("source server:   %s\n", h.SourceServer)
			fmt.Printf("created:         %s\n", formatCreated(h.CreatedRaw))
			fmt.Printf("attribute count: %d\n", h.AttributeCount)
			fmt.Printf("class count:     %d\n", h.ClassCount)
			fmt.Printf("prefix count:    %d\n", h.PrefixCount)
			fmt.Printf("object count:    %d\n", h.ObjectCount)
			return nil
		},
	}
}

func formatCreated(raw []byte) string {
	t, never, err := valuecodec.DecodeFILETIME(raw)
	if err != nil {
		return valuecodec.FormatBinaryHex(raw)
	}
	return valuecodec.FormatTimestamp(t, never)
}
