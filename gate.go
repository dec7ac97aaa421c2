package synthe

import "math"

// LoudnessDb 计算一帧的响度 (dB)。
// 公式: 20 * log10(RMS)。RMS 为零 (完全静音) 时返回负无穷，
// 而不是报错。
func LoudnessDb(samples []float32) float64 {
	if len(samples) == 0 {
		return math.Inf(-1)
	}
	var sum float64
	for _, v := range samples {
		sum += float64(v) * float64(v)
	}
	rms := math.Sqrt(sum / float64(len(samples)))
	if rms == 0 {
		return math.Inf(-1)
	}
	return 20 * math.Log10(rms)
}

// GatePass 判断一帧的能量是否足以进入分析。
// 通过条件: floor(loudnessDb) > thresholdDb。负无穷永远不通过。
func GatePass(loudnessDb, thresholdDb float64) bool {
	if math.IsInf(loudnessDb, -1) {
		return false
	}
	return math.Floor(loudnessDb) > thresholdDb
}
