package synthe

import (
	"math"
	"testing"
)

func TestLoadNoteTable(t *testing.T) {
	table, err := LoadNoteTable()
	if err != nil {
		t.Fatalf("LoadNoteTable failed: %v", err)
	}
	if len(table.Bands) != 128 {
		t.Fatalf("Expected 128 bands, got %d", len(table.Bands))
	}

	// A4 = 440Hz
	a4 := table.Bands[69]
	if a4.Number != 69 {
		t.Errorf("Band 69 has number %d", a4.Number)
	}
	if math.Abs(a4.Center-440.0) > 0.01 {
		t.Errorf("A4 center expected 440, got %v", a4.Center)
	}
	if a4.LowerFreq >= a4.Center || a4.UpperFreq <= a4.Center {
		t.Errorf("A4 band does not contain its center: [%v, %v]", a4.LowerFreq, a4.UpperFreq)
	}

	// 频段必须单调递增
	for i := 1; i < len(table.Bands); i++ {
		if table.Bands[i].Center <= table.Bands[i-1].Center {
			t.Fatalf("Band centers not increasing at %d", i)
		}
	}
}

func TestNoteName(t *testing.T) {
	cases := []struct {
		number uint8
		name   string
	}{
		{69, "A4"},
		{60, "C4"},
		{0, "C-1"},
		{127, "G9"},
		{61, "C#4"},
	}
	for _, c := range cases {
		if got := NoteName(c.number); got != c.name {
			t.Errorf("NoteName(%d) = %q, expected %q", c.number, got, c.name)
		}
	}
}
