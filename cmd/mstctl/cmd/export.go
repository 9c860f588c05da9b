package cmd

import (
	"context"
	"io/ioutil"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/vmihailenco/msgpack/v4"
)

var flagExportOut string

// snapshotEntry is a debug-only record, never the canonical wire
// format (that stays the fixed IndexEntry/LeafValue encoding in
// ledger/mst/indexentry.go). It exists so operators can pull a
// tree's contents into a single portable file for offline diffing.
type snapshotEntry struct {
	ID    int64  `msgpack:"id"`
	Value []byte `msgpack:"value"`
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Dump every (id, value) pair to a msgpack snapshot file (debug only, not the canonical wire format)",
	Args:  cobra.NoArgs,
	Run:   runExport,
}

func init() {
	exportCmd.Flags().StringVar(&flagExportOut, "out", "snapshot.msgpack", "output file path")
}

func runExport(_ *cobra.Command, _ []string) {
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
	entries := make([]snapshotEntry, 0, it.TotalCount())
	for it.HasNext() {
		id, value, err := it.Next(ctx)
		if err != nil {
			log.Fatal().Err(err).Msg("iterate failed")
		}
		entries = append(entries, snapshotEntry{ID: id, Value: value})
	}

	out, err := msgpack.Marshal(entries)
	if err != nil {
		log.Fatal().Err(err).Msg("encoding snapshot failed")
	}

	if err := ioutil.WriteFile(flagExportOut, out, 0o644); err != nil {
		log.Fatal().Err(err).Msg("writing snapshot failed")
	}

	log.Info().Int("entries", len(entries)).Str("path", flagExportOut).Msg("snapshot written")
}
