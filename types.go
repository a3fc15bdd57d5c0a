package main

import (
	"fmt"
	"math"
	"time"
)

// Source is a configured source repository
type Source struct {
	Name string
	Path string
}

// Watermark is the author time of the most recently replicated commit,
// kept as epoch seconds plus the author's UTC offset in minutes.
type Watermark struct {
	Seconds int64
	Offset  int
}

// MinWatermark sorts before every commit time. It stands in for a watermark
// that was never written.
var MinWatermark = Watermark{Seconds: math.MinInt64, Offset: math.MinInt}

// watermarkOf returns the watermark of a signature time
func watermarkOf(t time.Time) Watermark {
	_, offset := t.Zone()
	return Watermark{Seconds: t.Unix(), Offset: offset / 60}
}

// Compare orders watermarks by seconds, then by offset.
func (w Watermark) Compare(o Watermark) int {
	switch {
	case w.Seconds < o.Seconds:
		return -1
	case w.Seconds > o.Seconds:
		return 1
	case w.Offset < o.Offset:
		return -1
	case w.Offset > o.Offset:
		return 1
	}
	return 0
}

func (w Watermark) String() string {
	return fmt.Sprintf("%d %d", w.Seconds, w.Offset)
}
