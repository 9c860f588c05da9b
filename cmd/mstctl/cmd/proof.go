package cmd

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var proofCmd = &cobra.Command{
	Use:   "proof <id>",
	Short: "Print the root-first digest sequence authenticating id",
	Args:  cobra.ExactArgs(1),
	Run:   runProof,
}

func runProof(_ *cobra.Command, args []string) {
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

	proof, err := tree.GetProof(ctx, id)
	if err != nil {
		log.Fatal().Err(err).Int64("id", id).Msg("proof failed")
	}
	if proof == nil {
		fmt.Println("<unpopulated>")
		return
	}
	for i, d := range proof {
		fmt.Printf("%d: %s\n", i, digestString(d))
	}
}
