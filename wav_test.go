package synthe

import (
	"io"
	"math"
	"path/filepath"
	"testing"
)

func TestWavRoundTrip(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "roundtrip.wav")

	samples := generateSineFrame(440, testFrameSize, testSampleRate, 0.5)
	w, err := NewWavWriter(filename, 48000)
	if err != nil {
		t.Fatal(err)
	}
	if err := w.WriteSamples(samples); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}

	r, err := NewWavReader(filename)
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()

	if r.SampleRate != 48000 {
		t.Errorf("Sample rate expected 48000, got %d", r.SampleRate)
	}
	if r.Channels != 1 {
		t.Errorf("Channels expected 1, got %d", r.Channels)
	}

	got, err := r.ReadSamples(testFrameSize)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != testFrameSize {
		t.Fatalf("Expected %d samples, got %d", testFrameSize, len(got))
	}

	// 允许 16-bit 量化误差 (截断 + 满幅刻度差)
	for i := range got {
		if math.Abs(float64(got[i]-samples[i])) > 2.0/32768 {
			t.Fatalf("Sample %d: wrote %v, read %v", i, samples[i], got[i])
		}
	}

	if _, err := r.ReadSamples(testFrameSize); err != io.EOF {
		t.Errorf("Expected EOF after data, got %v", err)
	}
}

func TestWavReaderRejectsGarbage(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "bad.wav")
	w, err := NewWavWriter(filename, 48000)
	if err != nil {
		t.Fatal(err)
	}
	w.file.WriteString("not a riff header at all")
	w.file.Close()

	// 头部是占位零字节，RIFF 校验必须失败
	if _, err := NewWavReader(filename); err == nil {
		t.Error("Expected error for invalid wav file")
	}
}
