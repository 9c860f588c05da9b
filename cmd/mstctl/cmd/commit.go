package cmd

import (
	"context"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var commitCmd = &cobra.Command{
	Use:   "commit",
	Short: "Commit any pending in-memory state and print the new root hash",
	Args:  cobra.NoArgs,
	Run:   runCommit,
}

func runCommit(_ *cobra.Command, _ []string) {
	ctx := context.Background()

	store, err := openStore()
	if err != nil {
		log.Fatal().Err(err).Msg("could not open store")
	}

	tree, err := openTree(ctx, store)
	if err != nil {
		log.Fatal().Err(err).Msg("could not open tree")
	}

	digest, err := tree.Commit(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("commit failed")
	}
	if err := writeHead(digest); err != nil {
		log.Fatal().Err(err).Msg("could not persist new root hash")
	}

	log.Info().Str("root_hash", digestString(digest)).Msg("committed")
}
