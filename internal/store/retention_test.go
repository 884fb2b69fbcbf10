package store_test

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/macrat/isdown/internal/store"
	"github.com/macrat/isdown/internal/testutil"
	api "github.com/macrat/isdown/lib-isdown"
)

func TestRetention_Apply(t *testing.T) {
	t.Parallel()

	h := api.History{
		testutil.Up(-31 * 24 * time.Hour),
		testutil.Down(-30 * 24 * time.Hour),
		testutil.Up(-30*24*time.Hour + time.Second),
		testutil.Up(-time.Hour),
		testutil.Up(0),
	}

	tests := []struct {
		Name   string
		Policy store.Retention
		Want   api.History
	}{
		{"forever", store.KeepForever, h},
		{"30d", store.KeepFor(30 * 24 * time.Hour), h[2:]},
		{"31d", store.KeepFor(31 * 24 * time.Hour), h[1:]},
		{"1h", store.KeepFor(time.Hour), h[4:]},
		{"zero", store.KeepFor(0), api.History{}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.Name, func(t *testing.T) {
			got := tt.Policy.Apply(h, testutil.BaseTime)
			if diff := cmp.Diff(tt.Want, got); diff != "" {
				t.Errorf("unexpected result\n%s", diff)
			}

			if maxAge, ok := tt.Policy.MaxAge(); ok {
				cutoff := testutil.BaseTime.Add(-maxAge)
				for _, o := range got {
					if !o.Timestamp.After(cutoff) {
						t.Errorf("record at %s should be pruned (cutoff %s)", o.Timestamp, cutoff)
					}
				}
			}
		})
	}
}

func TestRetention_Apply_keepsOrder(t *testing.T) {
	h := api.History{
		testutil.Up(-2 * time.Hour),
		testutil.Down(-3 * time.Hour),
		testutil.Up(-time.Hour),
		testutil.Up(-time.Hour),
	}

	got := store.KeepFor(150*time.Minute).Apply(h, testutil.BaseTime)
	want := api.History{h[0], h[2], h[3]}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("unexpected result\n%s", diff)
	}
}

func TestRetention_String(t *testing.T) {
	tests := []struct {
		Input store.Retention
		Want  string
	}{
		{store.KeepForever, "forever"},
		{store.Retention{}, "forever"},
		{store.KeepFor(90 * 24 * time.Hour), "90d"},
		{store.KeepFor(36 * time.Hour), "36h0m0s"},
	}

	for _, tt := range tests {
		if got := tt.Input.String(); got != tt.Want {
			t.Errorf("expected %q but got %q", tt.Want, got)
		}
	}

	if !store.KeepForever.IsForever() || store.KeepFor(time.Hour).IsForever() {
		t.Errorf("unexpected IsForever result")
	}
}
