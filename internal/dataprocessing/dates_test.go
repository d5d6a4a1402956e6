package dataprocessing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDateParser(t *testing.T) {
	p := NewDateParser(nil)

	tests := []struct {
		input  string
		want   time.Time
		wantOK bool
	}{
		{"2024-01-08", time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC), true},
		{" 2024-01-08 13:45:00 ", time.Date(2024, 1, 8, 13, 45, 0, 0, time.UTC), true},
		{"2024-01-08T13:45:00", time.Date(2024, 1, 8, 13, 45, 0, 0, time.UTC), true},
		{"2024-01-08 10:30", time.Date(2024, 1, 8, 10, 30, 0, 0, time.UTC), true},
		{"2024-01-08T10:30", time.Date(2024, 1, 8, 10, 30, 0, 0, time.UTC), true},
		{"05/01/2024", time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC), true},
		{"31/12/2023 08:00", time.Date(2023, 12, 31, 8, 0, 0, 0, time.UTC), true},
		{"2024/02/29", time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC), true},
		{"", time.Time{}, false},
		{"   ", time.Time{}, false},
		{"12/31/2023", time.Time{}, false},
		{"2023-02-30", time.Time{}, false},
		{"yesterday", time.Time{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := p.Parse(tt.input)
			assert.Equal(t, tt.wantOK, ok)
			assert.True(t, tt.want.Equal(got), "got %v", got)
		})
	}
}

func TestDateParserCustomLayouts(t *testing.T) {
	p := NewDateParser([]string{"01/02/2006"})

	got, ok := p.Parse("12/31/2023")
	assert.True(t, ok)
	assert.Equal(t, time.December, got.Month())

	_, ok = p.Parse("2024-01-01")
	assert.False(t, ok)
	assert.Equal(t, []string{"01/02/2006"}, p.Layouts())
}
