package cmd

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var flagIterateSkip int64

var iterateCmd = &cobra.Command{
	Use:   "iterate",
	Short: "Walk every populated (id, value) pair in ascending order",
	Args:  cobra.NoArgs,
	Run:   runIterate,
}

func init() {
	iterateCmd.Flags().Int64Var(&flagIterateSkip, "skip", 0, "skip this many entries before printing")
}

func runIterate(_ *cobra.Command, _ []string) {
	ctx := context.Background()

	store, err := openStore()
	if err != nil {
		log.Fatal().Err(err).Msg("could not open store")
	}

	tree, err := openTree(ctx, store)
	if err != nil {
		log.Fatal().Err(err).Msg("could not open tree")
	}

	it := tree.Iterator()
	fmt.Printf("total: %d\n", it.TotalCount())

	if flagIterateSkip > 0 {
		skipped, err := it.Skip(ctx, flagIterateSkip)
		if err != nil {
			log.Fatal().Err(err).Msg("skip failed")
		}
		if skipped < flagIterateSkip {
			return
		}
	}

	for it.HasNext() {
		id, value, err := it.Next(ctx)
		if err != nil {
			log.Fatal().Err(err).Msg("iterate failed")
		}
		fmt.Printf("%d: %s\n", id, string(value))
	}
}
