package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"ux-collector-be/internal/bootstrap"
	"ux-collector-be/internal/config"
	"ux-collector-be/internal/pkg/logger"
	"ux-collector-be/pkg/maintenance"

	"github.com/fatih/color"
)

func main() {
	prefixes := flag.String("prefix", "", "comma separated prefixes (default: configured maintenance prefixes)")
	contains := flag.String("contains", "", "only keys containing this substring")
	doDelete := flag.Bool("delete", false, "delete matched keys (default is a dry run)")
	asJSON := flag.Bool("json", false, "print the raw report as JSON")
	timeout := flag.Duration("timeout", 5*time.Minute, "overall timeout")
	flag.Parse()

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("[FATAL] %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	store, closeStore, err := bootstrap.OpenStore(ctx, cfg, logger.NewNopLogger())
	if err != nil {
		log.Fatalf("[FATAL] %v", err)
	}
	defer closeStore()

	req := maintenance.Request{
		Prefixes: splitList(*prefixes),
		Contains: *contains,
		DryRun:   !*doDelete,
	}
	if len(req.Prefixes) == 0 {
		req.Prefixes = cfg.MaintenancePrefixes()
	}

	report, err := maintenance.NewSweeper(store, cfg.Admin.SampleLimit, logger.NewNopLogger()).Sweep(ctx, req)
	if err != nil {
		color.Red("Sweep aborted, nothing was deleted: %v", err)
		closeStore()
		os.Exit(1)
	}

	if *asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(report)
	} else {
		printReport(cfg.Store.Name, report)
	}

	if !report.OK {
		closeStore()
		os.Exit(2)
	}
}

func printReport(storeName string, r *maintenance.Report) {
	header := color.New(color.Bold)
	header.Printf("Store %s, mode %s", storeName, r.Mode)
	if r.Contains != "" {
		header.Printf(", contains %q", r.Contains)
	}
	fmt.Println()

	for _, p := range r.Prefixes {
		fmt.Printf("  %-32s matched %d", p.Prefix, p.Matched)
		if r.Mode == maintenance.ModeDelete {
			fmt.Printf(", deleted %s", color.GreenString("%d", p.Deleted))
			if p.Failed > 0 {
				fmt.Printf(", failed %s", color.RedString("%d", p.Failed))
			}
		}
		fmt.Println()
		for _, k := range p.Sample {
			color.HiBlack("    %s", k)
		}
		for _, e := range p.Errors {
			color.Red("    %s: %s", e.Key, e.Error)
		}
	}

	switch {
	case r.Mode == maintenance.ModeDryRun:
		color.Yellow("Dry run: %d keys would be deleted. Re-run with -delete to remove them.", r.TotalMatched)
	case r.OK:
		color.Green("Deleted %d of %d keys.", r.TotalDeleted, r.TotalMatched)
	default:
		color.Red("Deleted %d of %d keys, %d failed.", r.TotalDeleted, r.TotalMatched, r.TotalFailed)
	}
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
