package synthe

// NoiseCalibrator 采集并扣除恒定的噪声底 (风扇声、电源哼声等)。
// 状态机: Idle (无基线) -> ArmedForCapture (收到请求) -> Active (持有基线)。
// 请求通过 Config 的边沿触发标志传入；基线由处理线程独占持有，
// 不跨线程访问。
type NoiseCalibrator struct {
	baseline []float64
}

// Apply 对一帧的幅度谱执行校准，原地修改 mags。
// capture 为 true 时把本帧原始谱存为基线并返回 true，
// 该帧不应产生音符判定。
// 持有基线时逐 bin 做 max(0, 当前值 - 基线)，结果不会为负。
// 基线长度与当前谱不符 (补零倍数变过) 时作废基线并跳过扣除，
// 本帧按 Idle 处理。
func (nc *NoiseCalibrator) Apply(mags []float64, capture bool) bool {
	if capture {
		nc.baseline = append(nc.baseline[:0], mags...)
		return true
	}
	if nc.baseline == nil {
		return false
	}
	if len(nc.baseline) != len(mags) {
		nc.baseline = nil
		return false
	}
	for i, b := range nc.baseline {
		if mags[i] > b {
			mags[i] -= b
		} else {
			mags[i] = 0
		}
	}
	return false
}

// Active 是否持有基线
func (nc *NoiseCalibrator) Active() bool {
	return nc.baseline != nil
}

// Reset 丢弃基线，回到 Idle
func (nc *NoiseCalibrator) Reset() {
	nc.baseline = nil
}
