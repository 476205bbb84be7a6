package duration

import "fmt"

// Bucket is the ordinal travel-time class used for colour coding.
type Bucket int

const (
	Unknown Bucket = -1
	Zero    Bucket = 0
	Long    Bucket = 6
)

// ceilings holds the upper bound in minutes of buckets 1..5.
var ceilings = [...]int{60, 120, 240, 480, 960}

var colours = map[Bucket]string{
	Unknown: "#999",
	Zero:    "#333",
	1:       "#191",
	2:       "#2d1",
	3:       "#d4d411",
	4:       "#d91",
	5:       "#d41",
	Long:    "#a41",
}

var labels = map[Bucket]string{
	Unknown: "?",
	Zero:    "0",
	1:       "< 1h",
	2:       "1h-2h",
	3:       "2h-4h",
	4:       "4h-8h",
	5:       "8h-16h",
	Long:    "> 16h",
}

// Classify maps a duration in minutes to its bucket. nil means unknown.
func Classify(minutes *int) Bucket {
	if minutes == nil {
		return Unknown
	}
	m := *minutes
	if m == 0 {
		return Zero
	}
	if m < 0 {
		return Unknown
	}
	for i, c := range ceilings {
		if m <= c {
			return Bucket(i + 1)
		}
	}
	return Long
}

// Colour returns the display colour of b. Buckets outside the known range
// get the unknown colour.
func Colour(b Bucket) string {
	if c, ok := colours[b]; ok {
		return c
	}
	return colours[Unknown]
}

func (b Bucket) Label() string {
	if l, ok := labels[b]; ok {
		return l
	}
	return labels[Unknown]
}

// Buckets lists every bucket Classify can return, in ascending order.
func Buckets() []Bucket {
	out := make([]Bucket, 0, len(ceilings)+3)
	for b := Unknown; b <= Long; b++ {
		out = append(out, b)
	}
	return out
}

// Format renders minutes as h:mm.
func Format(minutes int) string {
	if minutes < 0 {
		minutes = 0
	}
	return fmt.Sprintf("%d:%02d", minutes/60, minutes%60)
}

// Minutes is a convenience for building optional durations.
func Minutes(m int) *int { return &m }
