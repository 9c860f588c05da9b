package cmd

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var getCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Print the value stored at id, or <nil> if unpopulated",
	Args:  cobra.ExactArgs(1),
	Run:   runGet,
}

func runGet(_ *cobra.Command, args []string) {
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

	value, err := tree.Get(ctx, id)
	if err != nil {
		log.Fatal().Err(err).Int64("id", id).Msg("get failed")
	}
	if value == nil {
		fmt.Println("<nil>")
		return
	}
	fmt.Println(string(value))
}
