package sources

import (
	"testing"
	"time"
)

func TestParseTime(t *testing.T) {
	ist := time.FixedZone("IST", 5*3600+1800)
	want := time.Date(2025, 1, 8, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		input   string
		loc     *time.Location
		wantErr bool
	}{
		{"rfc3339 with offset", "2025-01-08T14:30:00+05:30", nil, false},
		{"rfc3339 utc", "2025-01-08T09:00:00Z", nil, false},
		{"codechef padded", "08 Jan 2025  14:30:00", ist, false},
		{"codechef single space", "08 Jan 2025 14:30:00", ist, false},
		{"naive iso in zone", "2025-01-08 14:30:00", ist, false},
		{"unix seconds", "1736326800", nil, false},
		{"unix millis", "1736326800000", nil, false},
		{"empty", "  ", nil, true},
		{"garbage", "next tuesday", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseTime(tt.input, tt.loc)
			if tt.wantErr {
				if err == nil {
					t.Errorf("ParseTime(%q) should fail", tt.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseTime(%q) error = %v", tt.input, err)
			}
			if !got.Equal(want) {
				t.Errorf("ParseTime(%q) = %v, want %v", tt.input, got, want)
			}
		})
	}
}
