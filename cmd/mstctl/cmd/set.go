package cmd

import (
	"context"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var setCmd = &cobra.Command{
	Use:   "set <id> <value>",
	Short: "Set one (id, value) pair and commit immediately",
	Args:  cobra.ExactArgs(2),
	Run:   runSet,
}

func runSet(_ *cobra.Command, args []string) {
	ctx := context.Background()

	id, err := parseID(args[0])
	if err != nil {
		log.Fatal().Err(err).Msg("invalid id")
	}

	store, err := openStore()
	if err != nil {
		log.Fatal().Err(err).Msg("could not open store")
	}

	tree, err := openTree(ctx, store)
	if err != nil {
		log.Fatal().Err(err).Msg("could not open tree")
	}

	if err := tree.Set(ctx, id, []byte(args[1])); err != nil {
		log.Fatal().Err(err).Int64("id", id).Msg("set failed")
	}

	digest, err := tree.Commit(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("commit failed")
	}
	if err := writeHead(digest); err != nil {
		log.Fatal().Err(err).Msg("could not persist new root hash")
	}

	log.Info().Int64("id", id).Str("root_hash", digestString(digest)).Msg("set and committed")
}
