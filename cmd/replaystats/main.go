// Command replaystats aggregates a decoded replay dump and prints chart-ready
// panels as JSON.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"

	"github.com/Swordopolis/sc2-replay-analyzer/internal/aggregate"
	"github.com/Swordopolis/sc2-replay-analyzer/internal/logging"
	"github.com/Swordopolis/sc2-replay-analyzer/internal/replay"
	"github.com/Swordopolis/sc2-replay-analyzer/internal/series"
)

type report struct {
	Participants []aggregate.ParticipantSummary `json:"participants"`
	Panels       []series.Panel                 `json:"panels"`
}

func main() {
	in := flag.String("in", "-", "replay dump JSON file, - for stdin")
	workers := flag.Int("workers", 1, "participants folded concurrently")
	verbose := flag.Bool("v", false, "debug logging on stderr")
	flag.Parse()

	level := zerolog.InfoLevel
	if *verbose {
		level = zerolog.DebugLevel
	}
	logger := logging.New(os.Stderr, level)

	if err := run(*in, *workers, os.Stdout, logger); err != nil {
		logger.Errorf("%v", err)
		os.Exit(1)
	}
}

func run(path string, workers int, out io.Writer, logger logging.Interface) error {
	r := os.Stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("open dump: %w", err)
		}
		defer f.Close()
		r = f
	}

	dump, err := replay.ReadDump(r)
	if err != nil {
		return err
	}
	logger.Debugf("read %d participants, %d events", len(dump.Participants), len(dump.Events))

	set, err := aggregate.BuildAggregates(&aggregate.ReplayData{
		Participants: dump.Participants,
		Events:       dump.Events,
	}, workers)
	if err != nil {
		return err
	}
	logger.Debugf("%d applied, %d skipped, %d ignored, %d ledgers pruned",
		set.Applied, set.Skipped, set.Ignored, set.Pruned)

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(report{
		Participants: aggregate.Summarize(set),
		Panels:       series.BuildPanels(set),
	})
}
