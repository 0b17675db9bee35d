package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/devpulse/devpulse/internal/contract"
	"github.com/devpulse/devpulse/schema"
)

// PrintRefreshStatus outputs the orchestrator status, dispatching on the
// configured format.
func PrintRefreshStatus(status *schema.RefreshStatus, cfg *contract.Config) error {
	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSONOut(w, status)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeStatusCSV(w, status)
		}, "Wrote CSV")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeStatusText(w, status, cfg)
		}, "Wrote status")
	}
}

func writeStatusText(w io.Writer, status *schema.RefreshStatus, cfg *contract.Config) error {
	fmt.Fprintf(w, "%s\n", header("Refresh Status", "🩺", cfg))

	fmt.Fprintf(w, "Cache: %d entries (%d fresh, %d stale), max age %d minutes\n",
		status.Cache.Entries, status.Cache.Fresh, status.Cache.Stale, status.Cache.MaxAgeMins)
	if len(status.Cache.Keys) > 0 {
		fmt.Fprintf(w, "  Keys: %s\n", strings.Join(status.Cache.Keys, ", "))
	}

	fmt.Fprintf(w, "Rate limit: %d of %d used in %ds window (%d remaining)\n",
		status.Rate.Used, status.Rate.MaxRequests, status.Rate.WindowSeconds, status.Rate.Remaining)

	running := "stopped"
	if status.Queue.Running {
		running = "running"
	}
	fmt.Fprintf(w, "Queue: %d of %d pending, worker %s\n",
		status.Queue.Depth, status.Queue.Capacity, running)

	if len(status.InFlight) > 0 {
		fmt.Fprintf(w, "In flight: %s\n", strings.Join(status.InFlight, ", "))
	}
	return nil
}

func writeStatusCSV(w io.Writer, status *schema.RefreshStatus) error {
	header := []string{"section", "field", "value"}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		records := [][]string{
			{"cache", "entries", strconv.Itoa(status.Cache.Entries)},
			{"cache", "fresh", strconv.Itoa(status.Cache.Fresh)},
			{"cache", "stale", strconv.Itoa(status.Cache.Stale)},
			{"cache", "max_age_minutes", strconv.Itoa(status.Cache.MaxAgeMins)},
			{"rate", "window_seconds", strconv.Itoa(status.Rate.WindowSeconds)},
			{"rate", "max_requests", strconv.Itoa(status.Rate.MaxRequests)},
			{"rate", "used", strconv.Itoa(status.Rate.Used)},
			{"rate", "remaining", strconv.Itoa(status.Rate.Remaining)},
			{"queue", "depth", strconv.Itoa(status.Queue.Depth)},
			{"queue", "capacity", strconv.Itoa(status.Queue.Capacity)},
			{"queue", "worker_running", strconv.FormatBool(status.Queue.Running)},
		}
		for _, key := range status.InFlight {
			records = append(records, []string{"in_flight", "key", key})
		}
		for _, rec := range records {
			if err := cw.Write(rec); err != nil {
				return err
			}
		}
		return nil
	})
}
