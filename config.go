package synthe

import "sync/atomic"

// Config 集中管理处理管线的所有可调参数。
// 字段由控制线程写入，处理线程以无锁原子读取；
// 各字段独立一致，不保证跨字段的原子快照
// (一帧可能观察到新旧参数的混合，最多延迟一个块生效)。
type Config struct {
	thresholdDb  atomic.Int32 // 响度门限 (dB)。floor(帧响度) 必须大于该值才进入分析
	oversampling atomic.Int32 // FFT 补零倍数 (>=1)。提高频率插值精度，不增加信息量
	useWindow    atomic.Bool  // 是否应用汉宁窗。减少频谱泄漏，略微牺牲幅度保真度
	transpose    atomic.Int32 // 移调半音数 (-127..127)，加在检出音符上
	calibRequest atomic.Bool  // 噪声校准请求，边沿触发，采集后由处理线程清除
}

// DefaultConfig 返回默认配置
func DefaultConfig() *Config {
	cfg := &Config{}
	cfg.SetVolumeThreshold(62) // 约 -30dB
	cfg.SetOversampling(8)
	cfg.SetUseWindow(false)
	cfg.SetTranspose(0)
	return cfg
}

// SetVolumeThreshold 按 0-100 的音量刻度设置门限。
// 映射公式: thresholdDb = (value/100 - 1) * 80，即 0 -> -80dB, 100 -> 0dB
func (c *Config) SetVolumeThreshold(value int) {
	c.thresholdDb.Store(int32((float64(value)/100 - 1) * 80))
}

// ThresholdDb 当前门限 (dB)
func (c *Config) ThresholdDb() float64 {
	return float64(c.thresholdDb.Load())
}

// SetOversampling 设置补零倍数，小于 1 的值按 1 处理
func (c *Config) SetOversampling(factor int) {
	if factor < 1 {
		factor = 1
	}
	c.oversampling.Store(int32(factor))
}

// Oversampling 当前补零倍数
func (c *Config) Oversampling() int {
	factor := int(c.oversampling.Load())
	if factor < 1 {
		return 1
	}
	return factor
}

// SetUseWindow 设置是否加窗
func (c *Config) SetUseWindow(use bool) {
	c.useWindow.Store(use)
}

// UseWindow 是否加窗
func (c *Config) UseWindow() bool {
	return c.useWindow.Load()
}

// SetTranspose 设置移调半音数，钳制在 [-127, 127]
func (c *Config) SetTranspose(semitones int) {
	if semitones < -127 {
		semitones = -127
	}
	if semitones > 127 {
		semitones = 127
	}
	c.transpose.Store(int32(semitones))
}

// Transpose 当前移调半音数
func (c *Config) Transpose() int {
	return int(c.transpose.Load())
}

// RequestCalibration 请求在下一个过门限的帧上采集噪声基线。
// 已持有基线时再次请求表示丢弃旧基线重新采集。
func (c *Config) RequestCalibration() {
	c.calibRequest.Store(true)
}

// TakeCalibrationRequest 原子地取走校准请求。
// 只由处理线程调用，保证一次请求只触发一次采集。
func (c *Config) TakeCalibrationRequest() bool {
	return c.calibRequest.CompareAndSwap(true, false)
}
