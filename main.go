package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"

	"ps2/mmu"
	"ps2/system"
)

func main() {
	logPath := flag.String("log", "", "debug log file, stdout when empty")
	strict := flag.Bool("strict", false, "fail on overlapping mappings")
	stats := flag.Bool("stats", false, "serve runtime statistics")
	statsAddr := flag.String("stats-addr", "", "statistics server address")
	graph := flag.String("memviz", "", "write the EE memory map as graphviz to this file")
	flag.Parse()

	opts := system.DefaultOptions()
	opts.LogPath = *logPath
	opts.StatsView = *stats
	opts.StatsViewAddress = *statsAddr
	if *strict {
		opts.Overlap = mmu.OverlapReject
	}

	ps2, err := system.New(opts)
	if err != nil {
		log.Panicln(err)
	}
	defer ps2.Close()

	if *graph != "" {
		if err := writeMemoryMap(ps2, *graph); err != nil {
			log.Panicln(err)
		}
	}
	ps2.DumpState(os.Stdout)

	if *stats {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()
		fmt.Println("ctrl-c to quit")
		<-ctx.Done()
	}
}

func writeMemoryMap(ps2 *system.System, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	ps2.EEMMU.Visualise(f)
	return nil
}
