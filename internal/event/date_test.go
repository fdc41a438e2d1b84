package event

import (
	"testing"
	"time"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		name      string
		dateText  string
		wantYear  int
		wantMonth time.Month
		wantDay   int
		wantZero  bool
	}{
		{
			name:      "report header",
			dateText:  "Saturday, October 5, 2019",
			wantYear:  2019,
			wantMonth: time.October,
			wantDay:   5,
		},
		{
			name:      "extra whitespace",
			dateText:  "  Tuesday,   March 10,  2020 ",
			wantYear:  2020,
			wantMonth: time.March,
			wantDay:   10,
		},
		{
			name:      "bilingual header",
			dateText:  "samedi 5 octobre 2019 / Saturday, October 5, 2019",
			wantYear:  2019,
			wantMonth: time.October,
			wantDay:   5,
		},
		{
			name:      "scoreboard key",
			dateText:  "20191005",
			wantYear:  2019,
			wantMonth: time.October,
			wantDay:   5,
		},
		{
			name:     "empty",
			dateText: "",
			wantZero: true,
		},
		{
			name:     "garbage",
			dateText: "Attendance 18,000",
			wantZero: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseDate(tt.dateText)
			if tt.wantZero {
				if !got.IsZero() {
					t.Errorf("ParseDate(%q) = %v, want zero time", tt.dateText, got)
				}
				return
			}
			if got.Year() != tt.wantYear || got.Month() != tt.wantMonth || got.Day() != tt.wantDay {
				t.Errorf("ParseDate(%q) = %v, want %d-%02d-%02d", tt.dateText, got, tt.wantYear, tt.wantMonth, tt.wantDay)
			}
		})
	}
}
