package contract

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestParseSince tests absolute and relative cutoff parsing.
func TestParseSince(t *testing.T) {
	now := time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)

	t.Run("absolute dates", func(t *testing.T) {
		got, err := ParseSince("2023-06-01", now)
		require.NoError(t, err)
		assert.Equal(t, time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC), got)

		got, err = ParseSince("2023-06-01T10:30:00Z", now)
		require.NoError(t, err)
		assert.Equal(t, time.Date(2023, 6, 1, 10, 30, 0, 0, time.UTC), got)
	})

	t.Run("relative forms", func(t *testing.T) {
		cases := []struct {
			input string
			want  time.Time
		}{
			{"2 years ago", now.AddDate(-2, 0, 0)},
			{"6 months ago", now.AddDate(0, -6, 0)},
			{"3 weeks ago", now.Add(-3 * 7 * 24 * time.Hour)},
			{"10 days ago", now.Add(-10 * 24 * time.Hour)},
			{"1 hour ago", now.Add(-time.Hour)},
			{"1 year ago", now.AddDate(-1, 0, 0)}, // singular unit
		}
		for _, tc := range cases {
			got, err := ParseSince(tc.input, now)
			require.NoError(t, err, tc.input)
			assert.Equal(t, tc.want, got, tc.input)
		}
	})

	t.Run("whitespace and case are tolerated", func(t *testing.T) {
		got, err := ParseSince("  2 Years Ago  ", now)
		require.NoError(t, err)
		assert.Equal(t, now.AddDate(-2, 0, 0), got)
	})

	t.Run("invalid inputs", func(t *testing.T) {
		for _, input := range []string{"", "yesterday", "2 fortnights ago", "ago", "06/01/2023"} {
			_, err := ParseSince(input, now)
			assert.Error(t, err, input)
		}
	})
}

// FuzzParseSince fuzzes the cutoff parser; it must never panic and never
// return a non-zero time together with an error.
func FuzzParseSince(f *testing.F) {
	f.Add("2023-06-01")
	f.Add("2 years ago")
	f.Add("garbage")
	now := time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)
	f.Fuzz(func(t *testing.T, input string) {
		got, err := ParseSince(input, now)
		if err != nil && !got.IsZero() {
			t.Fatalf("non-zero time with error for %q", input)
		}
	})
}
