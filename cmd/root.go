package cmd

import (
	"fmt"
	"github.com/ValentinKolb/dPickle/cmd/codec"
	"github.com/ValentinKolb/dPickle/cmd/perf"
	"github.com/ValentinKolb/dPickle/cmd/util"
	"github.com/spf13/cobra"
	"os"
)

const (
	Version = "0.3.0"
)

var (

	// RootCmd represents the base command when called without any subcommands
	RootCmd = &cobra.Command{
		Use:   "dpickle",
		Short: "binary pickling of typed values",
		Long: fmt.Sprintf(`dPickle (v%s)

A compact binary serialization library written in Go. Values are written by
composable picklers with identity based deduplication of shared references.
The configuration can be set via command line flags or environment variables.
The format of the environment variables is DPICKLE_<flag> (e.g. DPICKLE_DEDUP=false)`, Version),
		SilenceUsage: true,
	}
	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print the version number of dPickle",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("dPickle v%s\n", Version)
		},
	}
)

func init() {
	// Initialize viper
	cobra.OnInitialize(util.InitConfig)

	// Add Commands
	RootCmd.AddCommand(codec.EncodeCmd)
	RootCmd.AddCommand(codec.DecodeCmd)
	RootCmd.AddCommand(codec.TypesCmd)
	RootCmd.AddCommand(perf.PerfCmd)
	RootCmd.AddCommand(versionCmd)

	// Add Flags
	util.SetupPickleFlags(RootCmd)
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the RootCmd.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
