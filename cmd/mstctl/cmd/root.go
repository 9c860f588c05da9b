package cmd

import (
	"fmt"
	"os"

	"github.com/opentracing/opentracing-go"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	jaegercfg "github.com/uber/jaeger-client-go/config"
)

var (
	flagLogLevel string
	flagStore    string
	flagDataDir  string
	flagPrefix   string
	flagDegree   int
	flagHash     string
	flagVerify   bool
	flagTrace    bool
)

var rootCmd = &cobra.Command{
	Use:   "mstctl",
	Short: "Inspect and drive a Merkle Sorted Tree against a KV backend",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		setLogLevel()
		if flagTrace {
			initTracer()
		}
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagLogLevel, "loglevel", "l", "info",
		"log level (panic, fatal, error, warn, info, debug)")
	rootCmd.PersistentFlags().StringVar(&flagStore, "store", "memory",
		"KV backend: badger, leveldb, or memory")
	rootCmd.PersistentFlags().StringVar(&flagDataDir, "datadir", "mstctl-data",
		"directory for the badger/leveldb backend")
	rootCmd.PersistentFlags().StringVar(&flagPrefix, "prefix", "mst",
		"key prefix under which tree nodes are stored")
	rootCmd.PersistentFlags().IntVar(&flagDegree, "degree", 4,
		"tree branching factor: 4, 8, or 16")
	rootCmd.PersistentFlags().StringVar(&flagHash, "hash", "sha256",
		"hash algorithm: sha256, keccak256, or blake2b256")
	rootCmd.PersistentFlags().BoolVar(&flagVerify, "verify-on-load", false,
		"re-hash every node loaded from storage and compare against its digest")
	rootCmd.PersistentFlags().BoolVar(&flagTrace, "trace", false,
		"report Commit/Open spans to a local Jaeger agent")

	rootCmd.AddCommand(setCmd, getCmd, proofCmd, commitCmd, iterateCmd, rootCmd2, exportCmd)

	cobra.OnInitialize(initConfig)
}

func initConfig() {
	viper.SetEnvPrefix("MSTCTL")
	viper.AutomaticEnv()
}

func setLogLevel() {
	lvl, err := zerolog.ParseLevel(flagLogLevel)
	if err != nil {
		log.Fatal().Str("loglevel", flagLogLevel).Msg("unsupported log level")
	}
	zerolog.SetGlobalLevel(lvl)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
}

func initTracer() {
	cfg := jaegercfg.Configuration{
		ServiceName: "mstctl",
		Sampler: &jaegercfg.SamplerConfig{
			Type:  "const",
			Param: 1,
		},
		Reporter: &jaegercfg.ReporterConfig{
			LogSpans: true,
		},
	}
	tracer, _, err := cfg.NewTracer()
	if err != nil {
		log.Fatal().Err(err).Msg("could not initialize jaeger tracer")
	}
	opentracing.SetGlobalTracer(tracer)
}
