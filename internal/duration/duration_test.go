package duration

import "testing"

func TestClassify(t *testing.T) {
	tests := []struct {
		name    string
		minutes *int
		want    Bucket
	}{
		{name: "unknown", minutes: nil, want: Unknown},
		{name: "zero", minutes: Minutes(0), want: Zero},
		{name: "one minute", minutes: Minutes(1), want: 1},
		{name: "one hour", minutes: Minutes(60), want: 1},
		{name: "just over one hour", minutes: Minutes(61), want: 2},
		{name: "two hours", minutes: Minutes(120), want: 2},
		{name: "four hours", minutes: Minutes(240), want: 3},
		{name: "eight hours", minutes: Minutes(480), want: 4},
		{name: "five hundred", minutes: Minutes(500), want: 5},
		{name: "sixteen hours", minutes: Minutes(960), want: 5},
		{name: "overflow", minutes: Minutes(961), want: Long},
		{name: "negative", minutes: Minutes(-5), want: Unknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.minutes); got != tt.want {
				t.Errorf("Classify() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestClassifyMonotonic(t *testing.T) {
	prev := Classify(Minutes(0))
	for m := 1; m <= 3000; m++ {
		b := Classify(Minutes(m))
		if b < prev {
			t.Fatalf("bucket decreased at %d minutes: %d < %d", m, b, prev)
		}
		prev = b
	}
}

func TestColourCoversEveryBucket(t *testing.T) {
	seen := map[Bucket]bool{}
	for m := 0; m <= 3000; m++ {
		seen[Classify(Minutes(m))] = true
	}
	seen[Classify(nil)] = true
	for b := range seen {
		if _, ok := colours[b]; !ok {
			t.Errorf("no colour for bucket %d", b)
		}
	}
	for _, b := range Buckets() {
		if _, ok := colours[b]; !ok {
			t.Errorf("Buckets() returned %d without colour", b)
		}
	}
	if got := Colour(42); got != "#999" {
		t.Errorf("Colour(42) = %q, want fallback #999", got)
	}
	if Colour(Zero) != "#333" || Colour(Unknown) != "#999" {
		t.Error("zero and unknown colours changed")
	}
}

func TestFormat(t *testing.T) {
	tests := map[int]string{
		0:   "0:00",
		5:   "0:05",
		60:  "1:00",
		135: "2:15",
		961: "16:01",
	}
	for in, want := range tests {
		if got := Format(in); got != want {
			t.Errorf("Format(%d) = %q, want %q", in, got, want)
		}
	}
}
