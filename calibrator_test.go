package synthe

import "testing"

func TestCalibratorRoundTrip(t *testing.T) {
	// 用帧 X 采集基线后再处理同一帧 X，每个 bin 都必须归零
	sa := NewSpectrumAnalyzer(testSampleRate)
	nc := &NoiseCalibrator{}
	frame := generateSineFrame(440, testFrameSize, testSampleRate, 0.3)

	_, mags := sa.Analyze(frame, 2, false)
	if !nc.Apply(mags, true) {
		t.Fatal("Capture frame should report true")
	}
	if !nc.Active() {
		t.Fatal("Calibrator should be active after capture")
	}

	_, mags = sa.Analyze(frame, 2, false)
	if nc.Apply(mags, false) {
		t.Fatal("Non-capture frame should report false")
	}
	for i, m := range mags {
		if m != 0 {
			t.Fatalf("Bin %d expected 0 after round trip, got %v", i, m)
		}
	}
}

func TestCalibratorNeverNegative(t *testing.T) {
	nc := &NoiseCalibrator{}
	nc.Apply([]float64{5, 5, 5}, true)

	mags := []float64{10, 5, 1}
	nc.Apply(mags, false)
	expected := []float64{5, 0, 0}
	for i := range mags {
		if mags[i] != expected[i] {
			t.Errorf("Bin %d: expected %v, got %v", i, expected[i], mags[i])
		}
	}
}

func TestCalibratorStaleBaseline(t *testing.T) {
	// 补零倍数变化后谱长不同，旧基线必须作废且本帧不做扣除
	nc := &NoiseCalibrator{}
	nc.Apply([]float64{1, 2, 3, 4}, true)

	mags := []float64{7, 8}
	nc.Apply(mags, false)
	if mags[0] != 7 || mags[1] != 8 {
		t.Errorf("Stale baseline must not modify the frame, got %v", mags)
	}
	if nc.Active() {
		t.Error("Stale baseline should be discarded")
	}
}

func TestCalibratorRecapture(t *testing.T) {
	// 再次采集表示丢弃旧基线重新开始
	nc := &NoiseCalibrator{}
	nc.Apply([]float64{1, 1}, true)
	nc.Apply([]float64{3, 3}, true)

	mags := []float64{5, 5}
	nc.Apply(mags, false)
	if mags[0] != 2 || mags[1] != 2 {
		t.Errorf("Expected subtraction against the new baseline, got %v", mags)
	}
}
