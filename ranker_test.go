package synthe

import "testing"

// 构造只含指定频段的小音符表
func makeTestTable(bands ...NoteBand) *NoteTable {
	return &NoteTable{Bands: bands}
}

func TestRankOrdering(t *testing.T) {
	// 分辨率 1Hz/bin，三个频段各占两个 bin
	table := makeTestTable(
		NoteBand{Number: 10, LowerFreq: 0, UpperFreq: 2},
		NoteBand{Number: 20, LowerFreq: 2, UpperFreq: 4},
		NoteBand{Number: 30, LowerFreq: 4, UpperFreq: 6},
	)
	nr := NewNoteRanker(table)
	mags := []float64{1, 1, 9, 9, 4, 4}

	var dst [3]RankedNote
	nr.Rank(mags, 1.0, 0, dst[:])

	expected := []uint8{20, 30, 10}
	for i, note := range expected {
		if !dst[i].Valid || dst[i].Note != note {
			t.Errorf("Slot %d: expected note %d, got %+v", i, note, dst[i])
		}
	}
	if dst[0].Energy != 9 || dst[1].Energy != 4 || dst[2].Energy != 1 {
		t.Errorf("Energies wrong: %+v", dst)
	}
}

func TestRankUnsetSlots(t *testing.T) {
	// 有效频段不足时，剩余槽位必须是显式的空标记，
	// 而不是音符号 0
	table := makeTestTable(NoteBand{Number: 50, LowerFreq: 0, UpperFreq: 2})
	nr := NewNoteRanker(table)

	var dst [NumRankedNotes]RankedNote
	nr.Rank([]float64{3, 3}, 1.0, 0, dst[:])

	if !dst[0].Valid || dst[0].Note != 50 {
		t.Fatalf("Slot 0 expected note 50, got %+v", dst[0])
	}
	for i := 1; i < NumRankedNotes; i++ {
		if dst[i].Valid {
			t.Errorf("Slot %d should be unset, got %+v", i, dst[i])
		}
	}
}

func TestRankSkipsInvalidBands(t *testing.T) {
	table := makeTestTable(
		NoteBand{Number: 10, LowerFreq: 0, UpperFreq: 2},
		NoteBand{Number: 20, LowerFreq: 100, UpperFreq: 200}, // 越出谱外
		NoteBand{Number: 30, LowerFreq: 3, UpperFreq: 3.5},   // 截断后为空区间
	)
	nr := NewNoteRanker(table)

	var dst [3]RankedNote
	nr.Rank([]float64{1, 1, 1, 1}, 1.0, 0, dst[:])

	if !dst[0].Valid || dst[0].Note != 10 {
		t.Errorf("Slot 0 expected note 10, got %+v", dst[0])
	}
	if dst[1].Valid || dst[2].Valid {
		t.Errorf("Invalid bands must be skipped, got %+v", dst)
	}
}

func TestRankTransposeClamp(t *testing.T) {
	// 极端移调作用在边界音符上也必须钳制在 [0,127]
	table := makeTestTable(
		NoteBand{Number: 0, LowerFreq: 0, UpperFreq: 2},
		NoteBand{Number: 127, LowerFreq: 2, UpperFreq: 4},
	)
	nr := NewNoteRanker(table)
	mags := []float64{5, 5, 9, 9}

	var dst [2]RankedNote
	nr.Rank(mags, 1.0, 127, dst[:])
	for i, slot := range dst {
		if !slot.Valid || slot.Note > 127 {
			t.Errorf("Transpose +127 slot %d out of range: %+v", i, slot)
		}
	}
	if dst[0].Note != 127 {
		t.Errorf("127 + 127 should clamp to 127, got %d", dst[0].Note)
	}

	nr.Rank(mags, 1.0, -127, dst[:])
	if dst[1].Note != 0 {
		t.Errorf("0 - 127 should clamp to 0, got %d", dst[1].Note)
	}
}

func TestRankDominantNote(t *testing.T) {
	// 场景: 48kHz、1024 点帧、440Hz 纯正弦、补零 x8、无窗
	// => 主音符应为 69 (A4)
	tableFull, err := LoadNoteTable()
	if err != nil {
		t.Fatal(err)
	}
	sa := NewSpectrumAnalyzer(testSampleRate)
	nr := NewNoteRanker(tableFull)
	frame := generateSineFrame(440, testFrameSize, testSampleRate, 0.5)

	resolution, mags := sa.Analyze(frame, 8, false)

	var dst [NumRankedNotes]RankedNote
	nr.Rank(mags, resolution, 0, dst[:])

	if !dst[0].Valid || dst[0].Note != 69 {
		t.Fatalf("440Hz dominant note expected 69, got %+v", dst[0])
	}
	t.Logf("Top notes: %+v", dst)
}
