package synthe

import (
	"bufio"
	"fmt"
	"os"
)

// FrameDebugger 定义帧级调试器接口。
// 消费循环只依赖这个接口，不依赖具体的文件操作。
type FrameDebugger interface {
	Record(res Result)
	Close()
}

// CsvFrameDebugger 把每帧的关键状态写入 CSV，方便离线画图排查
type CsvFrameDebugger struct {
	file   *os.File
	writer *bufio.Writer
}

// NewCsvFrameDebugger 创建 CSV 调试器
func NewCsvFrameDebugger(filename string) (*CsvFrameDebugger, error) {
	f, err := os.Create(filename)
	if err != nil {
		return nil, err
	}
	w := bufio.NewWriter(f)
	if _, err := w.WriteString("LoudnessDb,Note,Energy,Events,Calibrated\n"); err != nil {
		f.Close()
		return nil, err
	}
	return &CsvFrameDebugger{file: f, writer: w}, nil
}

// Record 记录单帧结果
func (d *CsvFrameDebugger) Record(res Result) {
	note := -1
	energy := 0.0
	if res.Notes[0].Valid {
		note = int(res.Notes[0].Note)
		energy = res.Notes[0].Energy
	}
	calibrated := 0
	if res.Calibrated {
		calibrated = 1
	}
	fmt.Fprintf(d.writer, "%f,%d,%f,%d,%d\n", res.LoudnessDb, note, energy, res.NumEvents, calibrated)
}

// Close 刷新缓冲并关闭文件
func (d *CsvFrameDebugger) Close() {
	if d.writer != nil {
		d.writer.Flush()
	}
	if d.file != nil {
		d.file.Close()
	}
}

// NoOpDebugger 空实现，生产环境默认使用，
// 避免核心代码里到处判空。
type NoOpDebugger struct{}

func (d *NoOpDebugger) Record(res Result) {}
func (d *NoOpDebugger) Close()            {}
