package perf

import (
	"fmt"
	"github.com/ValentinKolb/dPickle/cmd/util"
	"github.com/ValentinKolb/dPickle/lib/common"
	"github.com/ValentinKolb/dPickle/lib/serializer"
	"github.com/lni/dragonboat/v4/logger"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"slices"
	"strings"
)

var Logger = logger.GetLogger("cli")

var (
	// PerfCmd benchmarks the serializers on the sample records
	PerfCmd = &cobra.Command{
		Use:   "perf",
		Short: "Performance testing tool for the serializers",
		Long: `Serializes and deserializes the sample records with every selected serializer
and reports time per operation, latency percentiles and encoded sizes.`,
		Args:    cobra.NoArgs,
		PreRunE: processPerfConfig,
		RunE:    run,
	}
	perfConfig      *common.CLIConfig
	perfSerializers = serializer.Names()
	perfRecords     = make([]string, 0)
	perfNumThreads  = 1
	perfSkip        = make([]string, 0)
)

func init() {
	// add flags
	key := "serializers"
	PerfCmd.Flags().String(key, strings.Join(serializer.Names(), ","), util.WrapString("Serializers to test (comma separated)"))
	key = "records"
	PerfCmd.Flags().String(key, "", util.WrapString("Sample records to use (comma separated, empty for all)"))
	key = "skip"
	PerfCmd.Flags().String(key, "", util.WrapString("Benchmarks to skip (comma separated - e.g. serialize,deserialize)"))
	key = "threads"
	PerfCmd.Flags().Int(key, 1, util.WrapString("Number of threads to use for the benchmark"))
	key = "csv"
	PerfCmd.Flags().String(key, "", util.WrapString("Optional path to save benchmark results as CSV"))
	key = "prometheus"
	PerfCmd.Flags().String(key, "", util.WrapString("Optional path to save the latency histograms in the Prometheus text format"))
}

func processPerfConfig(cmd *cobra.Command, _ []string) error {
	if err := util.BindCommandFlags(cmd); err != nil {
		return err
	}

	// Read the configuration from the command line flags and environment variables
	perfConfig = util.GetCLIConfig()
	if err := util.SetupLogging(perfConfig); err != nil {
		return err
	}

	perfSerializers = splitList(viper.GetString("serializers"))
	slices.Sort(perfSerializers)
	perfSerializers = slices.Compact(perfSerializers)
	for _, name := range perfSerializers {
		if !slices.Contains(serializer.Names(), name) {
			return fmt.Errorf("invalid serializer %s (available: %v)", name, serializer.Names())
		}
	}

	samples := common.SampleRecords()
	perfRecords = splitList(viper.GetString("records"))
	if len(perfRecords) == 0 {
		for name := range samples {
			perfRecords = append(perfRecords, name)
		}
	}
	slices.Sort(perfRecords)
	perfRecords = slices.Compact(perfRecords)
	for _, name := range perfRecords {
		if _, ok := samples[name]; !ok {
			return fmt.Errorf("invalid record %s", name)
		}
	}

	perfNumThreads = max(viper.GetInt("threads"), 1)
	perfSkip = splitList(viper.GetString("skip"))
	return nil
}

// splitList splits a comma separated list and drops empty elements
func splitList(s string) []string {
	out := make([]string, 0)
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func shouldSkip(test string) bool {
	return slices.Contains(perfSkip, test)
}
