// Package keyalloc derives storage keys for experiment records.
//
// A key reads, in order: day bucket, advisory sequence number, device class, condition label,
// random suffix:
//
//	runs/2026-10-18/000042_mobile_variant-b_k3v9x0a1b2c3.json
//
// The sequence number is the count of keys already under the prefix plus one. Concurrent writers
// can compute the same number; only the random suffix makes a key unique.
package keyalloc

import (
	"context"
	"fmt"
	"strings"
	"time"

	"ux-collector-be/internal/pkg/logger"
	"ux-collector-be/pkg/blobstore"
	"ux-collector-be/pkg/experiment"
)

const (
	maxLabelLen  = 32
	suffixLen    = 12
	noLabel      = "na"
	keyExtension = ".json"
)

type Allocator struct {
	Store    blobstore.Store
	Now      func() time.Time
	Suffix   Generator
	Sequence bool
	Logger   logger.ILogger
}

func New(store blobstore.Store, sequence bool, log logger.ILogger) *Allocator {
	return &Allocator{
		Store:    store,
		Now:      time.Now,
		Suffix:   NanoID(suffixLen),
		Sequence: sequence,
		Logger:   log,
	}
}

// Allocate returns a fresh key under prefix for p. Listing failures degrade to FallbackKey;
// the only error returned is the context's.
func (a *Allocator) Allocate(ctx context.Context, prefix string, p experiment.Payload) (string, error) {
	seq := 0
	if a.Sequence {
		keys, err := blobstore.ListAll(ctx, a.Store, prefix)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return "", ctxErr
			}
			a.Logger.Warn("KEYALLOC", "Listing failed, using fallback key", map[string]interface{}{
				"prefix": prefix,
				"error":  err.Error(),
			})
			return a.FallbackKey(prefix), nil
		}
		seq = len(keys) + 1
	}

	device := "desktop"
	if p.Meta.IsMobile {
		device = "mobile"
	}

	now := a.now()
	return fmt.Sprintf("%s%s/%06d_%s_%s_%s%s",
		prefix,
		now.Format("2006-01-02"),
		seq,
		device,
		SanitizeLabel(p.Condition()),
		a.Suffix(),
		keyExtension,
	), nil
}

// FallbackKey is the legacy key shape: timestamp plus UUID, no listing involved.
func (a *Allocator) FallbackKey(prefix string) string {
	ts := strings.NewReplacer(":", "-", ".", "-").Replace(a.now().UTC().Format(time.RFC3339Nano))
	return prefix + ts + "_" + UUID()() + keyExtension
}

// SanitizeLabel keeps [A-Za-z0-9_-], maps every other rune to '-', and truncates.
func SanitizeLabel(label string) string {
	if label == "" {
		return noLabel
	}
	var b strings.Builder
	n := 0
	for _, r := range label {
		if n == maxLabelLen {
			break
		}
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteByte('-')
		}
		n++
	}
	return b.String()
}

func (a *Allocator) now() time.Time {
	if a.Now == nil {
		return time.Now()
	}
	return a.Now()
}
