// Package main provides a performance benchmarking tool for the DevPulse CLI.
// It measures refresh latency for a set of repositories, treating the first
// run after a cache clear as cold and averaging the remaining runs as warm,
// then benchmarks the offline commands (forecast, insights, status) that are
// served entirely from local state, generating CSV output for analysis.
//
// Prerequisites:
// - devpulse binary installed and available in PATH
// - DEVPULSE_TOKEN set for authenticated GitHub API access
//
// Usage: go run benchmark/main.go [owner/name ...]
//
//	owner/name: Repositories to benchmark (defaults to a small public set)
package main

import (
	"encoding/csv"
	"fmt"
	"os"
	"os/exec"
	"time"
)

// BenchmarkResult holds the result of a benchmark run (cold run and average of warm runs).
type BenchmarkResult struct {
	Repository string
	Command    string
	ColdTime   string
	WarmTime   string
}

// BenchmarkConfig holds configuration for the benchmark run.
type BenchmarkConfig struct {
	Timeout   time.Duration
	WarmRuns  int
	TestRepos []string
}

func main() {
	config := BenchmarkConfig{
		Timeout:  2 * time.Minute,
		WarmRuns: 3,
		TestRepos: []string{
			"octocat/hello-world",
			"golang/example",
			"kubernetes/sample-controller",
		},
	}
	if len(os.Args) > 1 {
		config.TestRepos = os.Args[1:]
	}

	if err := checkPrerequisites(); err != nil {
		fmt.Printf("Prerequisites check failed: %v\n", err)
		os.Exit(1)
	}

	// Clear trained models so refreshes do full training work
	fmt.Printf("Clearing trained models...\n")
	clearCmd := exec.Command("devpulse", "store", "clear")
	if output, err := clearCmd.CombinedOutput(); err != nil {
		fmt.Printf("Warning: failed to clear models: %v\nOutput: %s\n", err, string(output))
	} else {
		fmt.Printf("Models cleared successfully\n")
	}

	results := runBenchmarks(config)

	if err := saveResults(results); err != nil {
		fmt.Printf("Failed to save results: %v\n", err)
		os.Exit(1)
	}

	printSummary(results)
}

// checkPrerequisites verifies that the devpulse binary and a token are available
func checkPrerequisites() error {
	if _, err := exec.LookPath("devpulse"); err != nil {
		return fmt.Errorf("devpulse binary not found in PATH")
	}
	if os.Getenv("DEVPULSE_TOKEN") == "" {
		return fmt.Errorf("DEVPULSE_TOKEN is not set")
	}
	return nil
}

// runBenchmarks executes all benchmark tests across configured repositories
func runBenchmarks(config BenchmarkConfig) []BenchmarkResult {
	var results []BenchmarkResult

	fmt.Printf("Starting benchmark: %d repos, %v timeout, %d warm runs\n",
		len(config.TestRepos), config.Timeout, config.WarmRuns)

	for _, repo := range config.TestRepos {
		fmt.Printf("Benchmarking %s\n", repo)

		// Refresh: first run fetches from GitHub, later runs hit the cache
		results = append(results, runBenchmarkSuite(config, repo, "refresh", "refresh (fetch vs cache)", nil))

		// Offline commands served from local stores
		results = append(results, runBenchmarkSuite(config, repo, "forecast", "forecast generation", []string{"--horizon", "14"}))
		results = append(results, runBenchmarkSuite(config, repo, "insights", "insights generation", nil))
		results = append(results, runBenchmarkSuite(config, repo, "status", "orchestrator status", nil))
	}

	return results
}

// runBenchmarkSuite runs cold and warm benchmarks for a command against one repo
func runBenchmarkSuite(config BenchmarkConfig, repo, command, description string, extraArgs []string) BenchmarkResult {
	fmt.Printf("Running %s on %s\n", description, repo)

	cold, times := runBenchmark(config, repo, command, extraArgs)

	coldStr := "TIMEOUT"
	if cold > 0 {
		coldStr = fmt.Sprintf("%.3fs", cold)
	}
	warmStr := "TIMEOUT"
	if len(times) > 0 {
		var sum float64
		for _, t := range times {
			sum += t
		}
		warmStr = fmt.Sprintf("%.3fs", sum/float64(len(times)))
	}

	fmt.Printf("  Cold time: %s, Warm average: %s\n", coldStr, warmStr)

	return BenchmarkResult{
		Repository: repo,
		Command:    command,
		ColdTime:   coldStr,
		WarmTime:   warmStr,
	}
}

// runBenchmark executes a devpulse command multiple times and returns cold time and warm times
func runBenchmark(config BenchmarkConfig, repo, command string, extraArgs []string) (coldTime float64, warmTimes []float64) {
	args := []string{command, repo}
	args = append(args, extraArgs...)

	var times []float64
	for run := 1; run <= config.WarmRuns+1; run++ {
		start := time.Now()

		cmd := exec.Command("devpulse", args...)

		done := make(chan bool)
		var cmdErr error

		go func() {
			_, cmdErr = cmd.CombinedOutput()
			done <- true
		}()

		select {
		case <-done:
			if cmdErr == nil {
				times = append(times, time.Since(start).Seconds())
			}
		case <-time.After(config.Timeout):
			// Timeout - don't add to times
		}
	}

	if len(times) > 0 {
		coldTime = times[0]
		warmTimes = times[1:]
	}
	return
}

// saveResults writes benchmark results to a timestamped CSV file
func saveResults(results []BenchmarkResult) error {
	timestamp := time.Now().Format("20060102_150405")
	filename := fmt.Sprintf("/tmp/devpulse_benchmark_%s.csv", timestamp)

	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			fmt.Printf("Warning: failed to close file %s: %v\n", filename, closeErr)
		}
	}()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	// Write header
	if err := writer.Write([]string{"repo", "cmd", "cold_time", "warm_avg"}); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	// Write results
	for _, result := range results {
		if err := writer.Write([]string{result.Repository, result.Command, result.ColdTime, result.WarmTime}); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	fmt.Printf("Results saved to %s\n", filename)
	return nil
}

// printSummary displays the final benchmark results summary
func printSummary(results []BenchmarkResult) {
	fmt.Printf("Benchmark complete\n")

	printCommandSummary(results, "refresh", "Refresh:")
	printCommandSummary(results, "forecast", "Forecast:")
	printCommandSummary(results, "insights", "Insights:")
	printCommandSummary(results, "status", "Status:")

	fmt.Printf("Benchmark script completed successfully\n")
}

// printCommandSummary displays results for a specific command type
func printCommandSummary(results []BenchmarkResult, command, title string) {
	fmt.Printf("%s\n", title)
	for _, result := range results {
		if result.Command == command {
			fmt.Printf("  %-30s: Cold: %s, Warm: %s\n", result.Repository, result.ColdTime, result.WarmTime)
		}
	}
}
