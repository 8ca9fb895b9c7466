package perf

import (
	"encoding/csv"
	"fmt"
	"github.com/ValentinKolb/dPickle/cmd/util"
	"github.com/ValentinKolb/dPickle/lib/common"
	"github.com/ValentinKolb/dPickle/lib/serializer"
	vmmetrics "github.com/VictoriaMetrics/metrics"
	gometrics "github.com/rcrowley/go-metrics"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"math"
	"os"
	"strconv"
	"strings"
	"testing"
	"time"
)

// result is the outcome of one benchmark
type result struct {
	Test       string
	Serializer string
	Record     string
	Bench      testing.BenchmarkResult
	Latency    gometrics.Timer
	Size       int
}

func (r result) skipped() bool {
	return r.Bench.N == 0
}

func run(_ *cobra.Command, _ []string) error {

	fmt.Println("Performance testing tool for dPickle serializers")

	// Print configuration
	fmt.Println()
	fmt.Println("Configuration:")
	fmt.Println(perfConfig.String())
	fmt.Printf("Threads: %d\n", perfNumThreads)
	fmt.Printf("Records: %s\n", strings.Join(perfRecords, ", "))
	fmt.Println()

	fmt.Println("starting tests...")

	histograms := vmmetrics.NewSet()
	samples := common.SampleRecords()
	results := make([]result, 0, len(perfSerializers)*len(perfRecords)*2)

	for _, name := range perfSerializers {
		s, err := util.GetSerializer(name, perfConfig)
		if err != nil {
			return err
		}

		fmt.Printf("\n%s\n", strings.ToUpper(name))
		sizes := common.NewSizeHistogram()

		for _, recName := range perfRecords {
			rec := samples[recName]

			// the deserialize benchmark needs the encoded record anyway
			data, err := s.Serialize(rec)
			if err != nil {
				return fmt.Errorf("%s failed to serialize %s: %w", name, recName, err)
			}
			sizes.AddSample(len(data))

			for _, test := range []string{"serialize", "deserialize"} {
				r := result{Test: test, Serializer: name, Record: recName, Size: len(data)}
				if !shouldSkip(test) {
					hist := histograms.NewHistogram(fmt.Sprintf(`dpickle_op_duration_seconds{op=%q,serializer=%q,record=%q}`, test, name, recName))
					r.Bench, r.Latency = benchmark(test, s, rec, data, hist)
				}
				printResult(r)
				results = append(results, r)
			}
		}

		printSizes(sizes)
	}

	printSummary(results)

	// Write results to csv is specified
	if csvPath := viper.GetString("csv"); csvPath != "" {
		fmt.Printf("\nExporting results to CSV: %s\n", csvPath)
		if err := writeResultsToCSV(csvPath, results, perfConfig); err != nil {
			return fmt.Errorf("failed to export results to CSV: %v", err)
		}
		fmt.Println("Export complete")
	}

	// Write histograms if specified
	if promPath := viper.GetString("prometheus"); promPath != "" {
		fmt.Printf("\nExporting latency histograms: %s\n", promPath)
		if err := writeHistograms(promPath, histograms); err != nil {
			return fmt.Errorf("failed to export histograms: %v", err)
		}
		fmt.Println("Export complete")
	}

	return nil
}

// benchmark runs one operation in parallel until testing.Benchmark is
// satisfied. Every call is timed into hist and the returned timer.
func benchmark(test string, s serializer.ISerializer, rec common.Record, data []byte, hist *vmmetrics.Histogram) (testing.BenchmarkResult, gometrics.Timer) {
	timer := gometrics.NewTimer()
	defer timer.Stop()

	op := func() error {
		_, err := s.Serialize(rec)
		return err
	}
	if test == "deserialize" {
		op = func() error {
			var out common.Record
			return s.Deserialize(data, &out)
		}
	}

	bench := testing.Benchmark(func(b *testing.B) {
		b.SetParallelism(perfNumThreads)
		b.ReportAllocs()

		b.ResetTimer()

		b.RunParallel(func(pb *testing.PB) {
			for pb.Next() {
				start := time.Now()
				if err := op(); err != nil {
					Logger.Errorf("(%s) - error: %v", test, err)
				}
				elapsed := time.Since(start)
				timer.Update(elapsed)
				hist.Update(elapsed.Seconds())
			}
		})
	})

	return bench, timer.Snapshot()
}

// --------------------------------------------------------------------------
// Output
// --------------------------------------------------------------------------

// printResult prints the result of a benchmark test in a formatted way
func printResult(r result) {
	label := r.Test + "/" + r.Record
	if r.skipped() {
		fmt.Printf("%-28sskipped\n", label)
		return
	}

	nsPerOp := math.Max(float64(r.Bench.NsPerOp()), 1) // prevent division by zero
	opsPerSec := 1.0 / (nsPerOp / 1e9)
	p := r.Latency.Percentiles([]float64{0.5, 0.99})

	fmt.Printf("%-28s%.0fns/op (%s/op)\t%.0f ops/sec\tp50 %s\tp99 %s\t%d allocs/op\t%d bytes\n",
		label, nsPerOp, time.Duration(nsPerOp), opsPerSec,
		time.Duration(p[0]), time.Duration(p[1]), r.Bench.AllocsPerOp(), r.Size)
}

// printSizes prints the encoded size distribution of one serializer
func printSizes(sizes *common.SizeHistogram) {
	fmt.Printf("%-28s%d records, avg %d bytes, p50 <= %d bytes, p99 <= %d bytes\n",
		"sizes", sizes.Count(), sizes.AverageSize(), sizes.PercentileEstimate(50), sizes.PercentileEstimate(99))
}

// printSummary prints the ns/op statistics across all records per
// serializer and test
func printSummary(results []result) {
	fmt.Println()
	fmt.Println("SUMMARY (ns/op across records)")

	for _, name := range perfSerializers {
		for _, test := range []string{"serialize", "deserialize"} {
			values := make([]float64, 0, len(perfRecords))
			for _, r := range results {
				if r.Serializer == name && r.Test == test && !r.skipped() {
					values = append(values, float64(r.Bench.NsPerOp()))
				}
			}
			if len(values) == 0 {
				continue
			}
			stats := common.NewStats(values)
			fmt.Printf("%-28smean %.0f\tstd %.0f\tmin %.0f\tmax %.0f\n",
				name+"/"+test, stats.Mean, stats.StdDeviation, stats.Min, stats.Max)
		}
	}
}

// writeResultsToCSV writes benchmark results to a CSV file
func writeResultsToCSV(csvPath string, results []result, config *common.CLIConfig) error {
	file, err := os.Create(csvPath)
	if err != nil {
		return fmt.Errorf("failed to create CSV file: %v", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	// Write header
	header := []string{
		"Test", "Serializer", "Record", "NsPerOp", "DurationPerOp", "OpsPerSec",
		"P50Ns", "P99Ns", "AllocsPerOp", "BytesPerOp", "EncodedBytes", "Skipped",
		"Deduplicate", "Threads",
	}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %v", err)
	}

	// Write test results
	for _, r := range results {
		var nsPerOp, opsPerSec, p50, p99 float64
		skipped := "true"

		if !r.skipped() {
			skipped = "false"
			nsPerOp = math.Max(float64(r.Bench.NsPerOp()), 1)
			opsPerSec = 1.0 / (nsPerOp / 1e9)
			p := r.Latency.Percentiles([]float64{0.5, 0.99})
			p50, p99 = p[0], p[1]
		}

		row := []string{
			r.Test,
			r.Serializer,
			r.Record,
			fmt.Sprintf("%.0f", nsPerOp),
			time.Duration(nsPerOp).String(),
			fmt.Sprintf("%.0f", opsPerSec),
			fmt.Sprintf("%.0f", p50),
			fmt.Sprintf("%.0f", p99),
			strconv.FormatInt(r.Bench.AllocsPerOp(), 10),
			strconv.FormatInt(r.Bench.AllocedBytesPerOp(), 10),
			strconv.Itoa(r.Size),
			skipped,
			strconv.FormatBool(config.Pickle.Deduplicate),
			strconv.Itoa(perfNumThreads),
		}

		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write row for test %s: %v", r.Test, err)
		}
	}

	return nil
}

// writeHistograms writes the latency histograms in the Prometheus text format
func writeHistograms(path string, set *vmmetrics.Set) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	set.WritePrometheus(file)
	return nil
}
