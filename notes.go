package synthe

import (
	_ "embed"
	"fmt"
	"strconv"
	"strings"
)

//go:embed notes.csv
var notesData string

// NoteBand 单个 MIDI 音符对应的频段
type NoteBand struct {
	Number    int     // MIDI 音符号 (0-127)
	Center    float64 // 中心频率 (Hz)
	LowerFreq float64 // 频段下限 (Hz)
	UpperFreq float64 // 频段上限 (Hz)
}

// NoteTable 音符号到频段的静态查找表。
// 启动时从内嵌资源加载一次；频段之间允许有空隙或重叠，
// 管线对此必须容错。
type NoteTable struct {
	Bands []NoteBand
}

// LoadNoteTable 解析内嵌的音符表资源。
// 每行: 音符号 中心频率 下限 上限 (空白分隔)。
// 格式错误是致命的初始化错误，只会在启动时发生。
func LoadNoteTable() (*NoteTable, error) {
	table := &NoteTable{}

	for lineNo, line := range strings.Split(strings.TrimSpace(notesData), "\n") {
		fields := strings.Fields(line)
		if len(fields) < 4 {
			return nil, fmt.Errorf("note table line %d: expected 4 fields, got %d", lineNo+1, len(fields))
		}

		number, err := strconv.Atoi(fields[0])
		if err != nil {
			return nil, fmt.Errorf("note table line %d: bad note number: %v", lineNo+1, err)
		}
		if number < 0 || number > 127 {
			return nil, fmt.Errorf("note table line %d: note number %d out of range", lineNo+1, number)
		}

		var freqs [3]float64
		for i, f := range fields[1:4] {
			freqs[i], err = strconv.ParseFloat(f, 64)
			if err != nil {
				return nil, fmt.Errorf("note table line %d: bad frequency: %v", lineNo+1, err)
			}
		}

		table.Bands = append(table.Bands, NoteBand{
			Number:    number,
			Center:    freqs[0],
			LowerFreq: freqs[1],
			UpperFreq: freqs[2],
		})
	}

	if len(table.Bands) == 0 {
		return nil, fmt.Errorf("note table is empty")
	}
	return table, nil
}

var noteNames = [12]string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

// NoteName 返回音符的显示名称，如 69 -> "A4"
func NoteName(number uint8) string {
	return fmt.Sprintf("%s%d", noteNames[number%12], int(number)/12-1)
}
