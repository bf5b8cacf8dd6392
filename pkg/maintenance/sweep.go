// Package maintenance lists and prunes stored records across key prefixes.
package maintenance

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"ux-collector-be/internal/pkg/logger"
	"ux-collector-be/pkg/blobstore"
)

const (
	ModeDryRun = "dry-run"
	ModeDelete = "delete"

	DefaultSampleLimit = 50
)

// ErrListFailed wraps any listing error. Nothing has been deleted when it is returned.
var ErrListFailed = errors.New("list failed")

type Request struct {
	Prefixes []string
	Contains string
	DryRun   bool
}

type KeyError struct {
	Key   string `json:"key"`
	Error string `json:"error"`
}

type PrefixReport struct {
	Prefix  string     `json:"prefix"`
	Matched int        `json:"matched"`
	Deleted int        `json:"deleted"`
	Failed  int        `json:"failed"`
	Sample  []string   `json:"sample,omitempty"`
	Errors  []KeyError `json:"errors,omitempty"`

	keys []string
}

// Report is the outcome of a sweep. OK is false only when at least one delete failed.
type Report struct {
	OK           bool           `json:"ok"`
	Mode         string         `json:"mode"`
	Contains     string         `json:"contains"`
	TotalMatched int            `json:"totalMatched"`
	TotalDeleted int            `json:"totalDeleted"`
	TotalFailed  int            `json:"totalFailed"`
	Prefixes     []PrefixReport `json:"prefixes"`
}

// Errors returns every per-key failure across prefixes.
func (r *Report) Errors() []KeyError {
	var out []KeyError
	for _, p := range r.Prefixes {
		out = append(out, p.Errors...)
	}
	return out
}

type Sweeper struct {
	Store       blobstore.Store
	SampleLimit int
	Logger      logger.ILogger
}

func NewSweeper(store blobstore.Store, sampleLimit int, log logger.ILogger) *Sweeper {
	if sampleLimit <= 0 {
		sampleLimit = DefaultSampleLimit
	}
	return &Sweeper{Store: store, SampleLimit: sampleLimit, Logger: log}
}

// Sweep lists every prefix first and only then deletes, so a listing failure never leaves a
// half-finished sweep behind. A key matched under an earlier prefix is not matched again.
func (s *Sweeper) Sweep(ctx context.Context, req Request) (*Report, error) {
	report := &Report{OK: true, Mode: ModeDelete, Contains: req.Contains}
	if req.DryRun {
		report.Mode = ModeDryRun
	}

	seen := make(map[string]struct{})
	for _, prefix := range req.Prefixes {
		keys, err := blobstore.ListAll(ctx, s.Store, prefix)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrListFailed, err)
		}

		pr := PrefixReport{Prefix: prefix}
		for _, k := range keys {
			if req.Contains != "" && !strings.Contains(k, req.Contains) {
				continue
			}
			if _, dup := seen[k]; dup {
				continue
			}
			seen[k] = struct{}{}
			pr.keys = append(pr.keys, k)
		}
		pr.Matched = len(pr.keys)
		report.TotalMatched += pr.Matched
		report.Prefixes = append(report.Prefixes, pr)
	}

	if req.DryRun {
		for i := range report.Prefixes {
			pr := &report.Prefixes[i]
			pr.Sample = pr.keys[:min(len(pr.keys), s.SampleLimit)]
		}
		s.Logger.Info("MAINTENANCE", "Dry run finished", map[string]interface{}{
			"prefixes": req.Prefixes,
			"contains": req.Contains,
			"matched":  report.TotalMatched,
		})
		return report, nil
	}

	for i := range report.Prefixes {
		pr := &report.Prefixes[i]
		for _, k := range pr.keys {
			if err := s.Store.Delete(ctx, k); err != nil {
				pr.Failed++
				pr.Errors = append(pr.Errors, KeyError{Key: k, Error: err.Error()})
				continue
			}
			pr.Deleted++
		}
		report.TotalDeleted += pr.Deleted
		report.TotalFailed += pr.Failed
	}
	report.OK = report.TotalFailed == 0

	details := map[string]interface{}{
		"prefixes": req.Prefixes,
		"contains": req.Contains,
		"deleted":  report.TotalDeleted,
		"failed":   report.TotalFailed,
	}
	if report.OK {
		s.Logger.Info("MAINTENANCE", "Sweep finished", details)
	} else {
		s.Logger.Warn("MAINTENANCE", "Sweep finished with failed deletes", details)
	}
	return report, nil
}
