package keyalloc

import (
	"bytes"
	"context"
	"errors"
	"regexp"
	"strings"
	"testing"
	"time"

	"ux-collector-be/internal/pkg/logger"
	"ux-collector-be/pkg/blobstore"
	"ux-collector-be/pkg/experiment"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var serverNow = time.Date(2026, 10, 18, 23, 30, 0, 0, time.Local)

type failingLister struct {
	blobstore.Store
}

func (failingLister) List(ctx context.Context, opts blobstore.ListOptions) (blobstore.ListResult, error) {
	return blobstore.ListResult{}, errors.New("store unavailable")
}

func newAllocator(store blobstore.Store) *Allocator {
	a := New(store, true, logger.NewNopLogger())
	a.Now = func() time.Time { return serverNow }
	return a
}

func payload(mobile bool, variant string) experiment.Payload {
	p := experiment.Payload{Slots: map[string]experiment.ExperimentState{}}
	p.Meta.IsMobile = mobile
	if variant != "" {
		p.Slots["exp1"] = experiment.ExperimentState{"variant": variant}
	}
	return p
}

func TestAllocate_KeyShape(t *testing.T) {
	ctx := context.Background()
	store := blobstore.NewMemoryStore(2)
	for _, k := range []string{"runs/a", "runs/b", "runs/c", "other/d"} {
		require.NoError(t, store.Set(ctx, k, []byte("{}"), blobstore.ContentTypeJSON))
	}
	a := newAllocator(store)
	a.Suffix = func() string { return "abc123" }

	key, err := a.Allocate(ctx, "runs/", payload(true, "Variant B/2"))

	require.NoError(t, err)
	assert.Equal(t, "runs/2026-10-18/000004_mobile_Variant-B-2_abc123.json", key)
}

func TestAllocate_DefaultsAndDesktop(t *testing.T) {
	a := newAllocator(blobstore.NewMemoryStore(0))

	key, err := a.Allocate(context.Background(), "runs/", payload(false, ""))

	require.NoError(t, err)
	assert.Regexp(t, regexp.MustCompile(`^runs/2026-10-18/000001_desktop_na_[0-9a-z]{12}\.json$`), key)
}

func TestAllocate_SequenceDisabledSkipsListing(t *testing.T) {
	a := newAllocator(failingLister{})
	a.Sequence = false

	key, err := a.Allocate(context.Background(), "runs/", payload(false, "A"))

	require.NoError(t, err)
	assert.Contains(t, key, "/000000_desktop_A_")
}

func TestAllocate_FallbackOnListFailure(t *testing.T) {
	a := newAllocator(failingLister{})

	key, err := a.Allocate(context.Background(), "runs/", payload(false, "A"))

	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(key, "runs/"))
	assert.Regexp(t, regexp.MustCompile(`^runs/\d{4}-\d{2}-\d{2}T\d{2}-\d{2}-\d{2}(-\d+)?Z_[0-9a-f-]{36}\.json$`), key)
}

func TestAllocate_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newAllocator(blobstore.NewMemoryStore(0)).Allocate(ctx, "runs/", payload(false, ""))

	assert.ErrorIs(t, err, context.Canceled)
}

func TestAllocate_SameSequenceDistinctKeys(t *testing.T) {
	ctx := context.Background()
	a := newAllocator(blobstore.NewMemoryStore(0))

	// Neither key is written before the second allocation, so both see the same count.
	k1, err := a.Allocate(ctx, "runs/", payload(false, "A"))
	require.NoError(t, err)
	k2, err := a.Allocate(ctx, "runs/", payload(false, "A"))
	require.NoError(t, err)

	assert.Contains(t, k1, "/000001_")
	assert.Contains(t, k2, "/000001_")
	assert.NotEqual(t, k1, k2)
}

func TestSanitizeLabel(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "", want: "na"},
		{in: "control", want: "control"},
		{in: "A_b-9", want: "A_b-9"},
		{in: "grün blau", want: "gr-n-blau"},
		{in: "../../etc", want: "------etc"},
		{in: strings.Repeat("x", 40), want: strings.Repeat("x", 32)},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, SanitizeLabel(tt.in))
		})
	}
}

func TestNanoID(t *testing.T) {
	id := NanoID(12)()

	assert.Len(t, id, 12)
	assert.Regexp(t, `^[0-9a-z]+$`, id)
	assert.NotEqual(t, id, NanoID(12)())
}

func TestNanoID_RejectsBiasedBytes(t *testing.T) {
	tests := []struct {
		name    string
		src     []byte
		length  int
		want    string
		wantErr bool
	}{
		{name: "accepted bytes", src: []byte{0, 35, 36, 251}, length: 4, want: "0z0z"},
		{name: "high bytes are redrawn", src: []byte{252, 255, 1, 253, 2}, length: 2, want: "12"},
		{name: "source runs dry", src: []byte{254, 255}, length: 2, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, err := nanoID(bytes.NewReader(tt.src), tt.length)

			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, id)
		})
	}
}
