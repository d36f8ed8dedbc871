package schedule

import (
	"errors"
	"reflect"
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestValidateManualTrip(t *testing.T) {
	start := date(2025, 1, 1)
	policy := DefaultPolicy()

	tests := []struct {
		name    string
		trip    ManualTrip
		wantErr error
	}{
		{
			name:    "valid trip",
			trip:    ManualTrip{Entry: date(2025, 1, 1), Exit: date(2025, 1, 15)},
			wantErr: nil,
		},
		{
			name:    "single day trip",
			trip:    ManualTrip{Entry: date(2025, 2, 10), Exit: date(2025, 2, 10)},
			wantErr: nil,
		},
		{
			name:    "exactly max duration",
			trip:    ManualTrip{Entry: date(2025, 1, 1), Exit: date(2025, 3, 31)},
			wantErr: nil,
		},
		{
			name:    "entry before visa start",
			trip:    ManualTrip{Entry: date(2024, 12, 31), Exit: date(2025, 1, 10)},
			wantErr: ErrEntryBeforeStart,
		},
		{
			name:    "exit before entry",
			trip:    ManualTrip{Entry: date(2025, 1, 10), Exit: date(2025, 1, 5)},
			wantErr: ErrExitBeforeEntry,
		},
		{
			name:    "one day over max",
			trip:    ManualTrip{Entry: date(2025, 1, 1), Exit: date(2025, 4, 1)},
			wantErr: ErrStayTooLong,
		},
		{
			name:    "entry check wins over exit check",
			trip:    ManualTrip{Entry: date(2024, 12, 1), Exit: date(2024, 11, 1)},
			wantErr: ErrEntryBeforeStart,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateManualTrip(start, tt.trip, policy)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateManualTrip() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestBuild_ShortWindowSingleStay(t *testing.T) {
	start := date(2025, 1, 1)
	w := NewWindow("3 months", 90, start)

	got, err := Build(start, nil, w, DefaultPolicy())
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	want := Schedule{
		Stays: []Stay{
			{Kind: KindOptimized, Entry: date(2025, 1, 1), Exit: date(2025, 3, 31), DurationDays: 90},
		},
		TripCount: 1,
		TotalDays: 90,
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Build() = %+v, want %+v", got, want)
	}
}

func TestBuild_YearWindow(t *testing.T) {
	start := date(2025, 1, 1)
	w := NewWindow("1 year", 365, start)

	got, err := Build(start, nil, w, DefaultPolicy())
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	want := Schedule{
		Stays: []Stay{
			{Kind: KindOptimized, Entry: date(2025, 1, 1), Exit: date(2025, 3, 31), DurationDays: 90},
			{Kind: KindOptimized, Entry: date(2025, 6, 30), Exit: date(2025, 9, 27), DurationDays: 90},
			{Kind: KindOptimized, Entry: date(2025, 12, 27), Exit: date(2025, 12, 31), DurationDays: 5},
		},
		TripCount: 3,
		TotalDays: 185,
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Build() = %+v, want %+v", got, want)
	}

	last := got.Stays[len(got.Stays)-1]
	if last.Exit.After(w.End) {
		t.Errorf("last exit %v is after window end %v", last.Exit, w.End)
	}
}

func TestBuild_WithManualTrip(t *testing.T) {
	start := date(2025, 1, 1)
	w := NewWindow("1 year", 365, start)
	manual := &ManualTrip{Entry: date(2025, 1, 1), Exit: date(2025, 1, 15)}

	got, err := Build(start, manual, w, DefaultPolicy())
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	want := Schedule{
		Stays: []Stay{
			{Kind: KindManual, Entry: date(2025, 1, 1), Exit: date(2025, 1, 15), DurationDays: 15},
			{Kind: KindOptimized, Entry: date(2025, 4, 16), Exit: date(2025, 7, 14), DurationDays: 90},
			{Kind: KindOptimized, Entry: date(2025, 10, 13), Exit: date(2025, 12, 31), DurationDays: 80},
		},
		TripCount: 3,
		TotalDays: 185,
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Build() = %+v, want %+v", got, want)
	}
}

func TestBuild_ManualTripBeyondWindowEnd(t *testing.T) {
	start := date(2025, 1, 1)
	manual := &ManualTrip{Entry: date(2025, 3, 1), Exit: date(2025, 4, 15)}

	short := NewWindow("3 months", 90, start)
	_, err := Build(start, manual, short, DefaultPolicy())
	if !errors.Is(err, ErrManualTripBeyondWindow) {
		t.Fatalf("Build() error = %v, want ErrManualTripBeyondWindow", err)
	}

	// Остальные окна считаются независимо и с той же поездкой работают.
	year := NewWindow("1 year", 365, start)
	got, err := Build(start, manual, year, DefaultPolicy())
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if got.TripCount == 0 {
		t.Fatal("Build() returned empty schedule for applicable window")
	}
	if got.Stays[0].Kind != KindManual {
		t.Errorf("first stay kind = %v, want %v", got.Stays[0].Kind, KindManual)
	}
	if !got.Stays[1].Entry.Equal(date(2025, 7, 15)) {
		t.Errorf("second entry = %v, want 2025-07-15", got.Stays[1].Entry)
	}
}

func TestBuild_StartAfterWindowEnd(t *testing.T) {
	w := NewWindow("3 months", 90, date(2025, 1, 1))

	got, err := Build(date(2025, 6, 1), nil, w, DefaultPolicy())
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if got.TripCount != 0 || len(got.Stays) != 0 || got.TotalDays != 0 {
		t.Errorf("Build() = %+v, want empty schedule", got)
	}
}

func TestBuild_Invariants(t *testing.T) {
	start := date(2025, 1, 1)
	policy := DefaultPolicy()
	manual := &ManualTrip{Entry: date(2025, 1, 1), Exit: date(2025, 1, 15)}

	for _, v := range DefaultValidities() {
		for _, trip := range []*ManualTrip{nil, manual} {
			w := NewWindow(v.Label, v.Days, start)
			got, err := Build(start, trip, w, policy)
			if err != nil {
				t.Fatalf("Build(%s) error = %v", v.Label, err)
			}

			total := 0
			for i, s := range got.Stays {
				if s.DurationDays < 1 || s.DurationDays > policy.MaxStayDays {
					t.Errorf("%s: stay %d duration = %d, want 1..%d", v.Label, i, s.DurationDays, policy.MaxStayDays)
				}
				if s.DurationDays != DaysInclusive(s.Entry, s.Exit) {
					t.Errorf("%s: stay %d duration %d does not match dates", v.Label, i, s.DurationDays)
				}
				if s.Exit.After(w.End) {
					t.Errorf("%s: stay %d exit %v is after window end %v", v.Label, i, s.Exit, w.End)
				}
				if i > 0 {
					prev := got.Stays[i-1]
					if !s.Entry.After(prev.Entry) {
						t.Errorf("%s: entries not strictly increasing at %d", v.Label, i)
					}
					wantEntry := prev.Exit.AddDate(0, 0, policy.RecoveryGapDays)
					if !s.Entry.Equal(wantEntry) {
						t.Errorf("%s: stay %d entry = %v, want %v", v.Label, i, s.Entry, wantEntry)
					}
				}
				total += s.DurationDays
			}
			if got.TotalDays != total {
				t.Errorf("%s: TotalDays = %d, want %d", v.Label, got.TotalDays, total)
			}
			if got.TripCount != len(got.Stays) {
				t.Errorf("%s: TripCount = %d, want %d", v.Label, got.TripCount, len(got.Stays))
			}
		}
	}
}

func TestBuild_Idempotent(t *testing.T) {
	start := date(2025, 1, 1)
	w := NewWindow("2 years", 730, start)
	manual := &ManualTrip{Entry: date(2025, 2, 1), Exit: date(2025, 3, 10)}

	first, err := Build(start, manual, w, DefaultPolicy())
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	second, err := Build(start, manual, w, DefaultPolicy())
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("Build() is not deterministic: %+v != %+v", first, second)
	}
}

func TestBuild_CustomPolicy(t *testing.T) {
	start := date(2025, 1, 1)
	w := NewWindow("custom", 30, start)
	policy := Policy{MaxStayDays: 10, RecoveryGapDays: 5}

	got, err := Build(start, nil, w, policy)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	want := Schedule{
		Stays: []Stay{
			{Kind: KindOptimized, Entry: date(2025, 1, 1), Exit: date(2025, 1, 10), DurationDays: 10},
			{Kind: KindOptimized, Entry: date(2025, 1, 15), Exit: date(2025, 1, 24), DurationDays: 10},
			{Kind: KindOptimized, Entry: date(2025, 1, 29), Exit: date(2025, 1, 30), DurationDays: 2},
		},
		TripCount: 3,
		TotalDays: 22,
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Build() = %+v, want %+v", got, want)
	}
}
