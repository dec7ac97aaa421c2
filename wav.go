package synthe

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"
)

// WavReader 简单的 WAV 文件读取器，用于回放模式 (仅支持 16-bit PCM)。
// 立体声文件只取第一个声道。
type WavReader struct {
	file       *os.File
	SampleRate int
	Channels   int
}

// NewWavReader 打开 WAV 文件并定位到数据块
func NewWavReader(filename string) (*WavReader, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}

	riff := make([]byte, 12)
	if _, err := io.ReadFull(f, riff); err != nil {
		f.Close()
		return nil, err
	}
	if string(riff[0:4]) != "RIFF" || string(riff[8:12]) != "WAVE" {
		f.Close()
		return nil, fmt.Errorf("invalid wav file")
	}

	var channels, sampleRate, bitsPerSample int
	foundFmt := false

	// 逐块扫描，直到遇到 data 块
	for {
		header := make([]byte, 8)
		if _, err := io.ReadFull(f, header); err != nil {
			f.Close()
			return nil, fmt.Errorf("invalid wav file: missing data chunk")
		}
		chunkID := string(header[0:4])
		chunkSize := int64(binary.LittleEndian.Uint32(header[4:8]))
		padding := chunkSize % 2

		switch chunkID {
		case "fmt ":
			if chunkSize < 16 {
				f.Close()
				return nil, fmt.Errorf("fmt chunk too small")
			}
			fmtData := make([]byte, chunkSize)
			if _, err := io.ReadFull(f, fmtData); err != nil {
				f.Close()
				return nil, err
			}
			if padding > 0 {
				f.Seek(padding, io.SeekCurrent)
			}
			channels = int(binary.LittleEndian.Uint16(fmtData[2:4]))
			sampleRate = int(binary.LittleEndian.Uint32(fmtData[4:8]))
			bitsPerSample = int(binary.LittleEndian.Uint16(fmtData[14:16]))
			foundFmt = true
		case "data":
			if !foundFmt {
				f.Close()
				return nil, fmt.Errorf("invalid wav file: data before fmt")
			}
			if bitsPerSample != 16 {
				f.Close()
				return nil, fmt.Errorf("only 16-bit wav supported, got %d", bitsPerSample)
			}
			return &WavReader{file: f, SampleRate: sampleRate, Channels: channels}, nil
		default:
			if _, err := f.Seek(chunkSize+padding, io.SeekCurrent); err != nil {
				f.Close()
				return nil, err
			}
		}
	}
}

// ReadSamples 读取至多 count 个采样点并归一化为 float32。
// 文件读完返回 io.EOF。
func (r *WavReader) ReadSamples(count int) ([]float32, error) {
	buf := make([]byte, count*r.Channels*2)
	n, err := r.file.Read(buf)
	if err != nil && err != io.EOF {
		return nil, err
	}
	if n == 0 {
		return nil, io.EOF
	}

	numFrames := n / (2 * r.Channels)
	out := make([]float32, numFrames)
	for i := 0; i < numFrames; i++ {
		val := int16(binary.LittleEndian.Uint16(buf[i*2*r.Channels:]))
		out[i] = float32(val) / 32768.0
	}
	return out, nil
}

// Close 关闭文件
func (r *WavReader) Close() error {
	return r.file.Close()
}

// WavWriter 简单的 WAV 文件写入器 (16-bit PCM Mono)，用于录音
type WavWriter struct {
	file       *os.File
	sampleRate int
	dataSize   int
}

// NewWavWriter 创建写入器，头部在 Close 时回写
func NewWavWriter(filename string, sampleRate int) (*WavWriter, error) {
	f, err := os.Create(filename)
	if err != nil {
		return nil, err
	}
	// 先写 44 字节占位头
	if _, err := f.Write(make([]byte, 44)); err != nil {
		f.Close()
		return nil, err
	}
	return &WavWriter{file: f, sampleRate: sampleRate}, nil
}

// WriteSamples 写入 float32 采样，限幅后转为 int16
func (w *WavWriter) WriteSamples(samples []float32) error {
	buf := make([]byte, len(samples)*2)
	for i, s := range samples {
		if s > 1.0 {
			s = 1.0
		} else if s < -1.0 {
			s = -1.0
		}
		binary.LittleEndian.PutUint16(buf[i*2:], uint16(int16(s*32767)))
	}
	n, err := w.file.Write(buf)
	if err != nil {
		return err
	}
	w.dataSize += n
	return nil
}

// Close 回写 WAV 头并关闭文件
func (w *WavWriter) Close() error {
	header := make([]byte, 44)
	copy(header[0:], "RIFF")
	binary.LittleEndian.PutUint32(header[4:], uint32(36+w.dataSize))
	copy(header[8:], "WAVE")
	copy(header[12:], "fmt ")
	binary.LittleEndian.PutUint32(header[16:], 16) // PCM fmt 块大小
	binary.LittleEndian.PutUint16(header[20:], 1)  // PCM
	binary.LittleEndian.PutUint16(header[22:], 1)  // Mono
	binary.LittleEndian.PutUint32(header[24:], uint32(w.sampleRate))
	binary.LittleEndian.PutUint32(header[28:], uint32(w.sampleRate*2))
	binary.LittleEndian.PutUint16(header[32:], 2)
	binary.LittleEndian.PutUint16(header[34:], 16)
	copy(header[36:], "data")
	binary.LittleEndian.PutUint32(header[40:], uint32(w.dataSize))

	if _, err := w.file.Seek(0, io.SeekStart); err != nil {
		return err
	}
	if _, err := w.file.Write(header); err != nil {
		return err
	}
	return w.file.Close()
}
