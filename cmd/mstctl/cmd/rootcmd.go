package cmd

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// rootCmd2 prints the currently recorded root hash; named to avoid
// colliding with the package's own rootCmd (the cobra program root).
var rootCmd2 = &cobra.Command{
	Use:   "root",
	Short: "Print the last committed root hash",
	Args:  cobra.NoArgs,
	Run:   runRoot,
}

func runRoot(_ *cobra.Command, _ []string) {
	head, err := readHead()
	if err != nil {
		log.Fatal().Err(err).Msg("could not read recorded root hash")
	}
	fmt.Println(digestString(head))
}
