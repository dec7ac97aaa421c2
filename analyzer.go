package synthe

import (
	"math"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
)

// SpectrumAnalyzer 负责加窗、补零和 FFT 幅度谱计算。
// 内部缓冲区跨帧复用，只在帧长或补零倍数变化时重新分配，
// 避免实时路径上的反复堆分配。
type SpectrumAnalyzer struct {
	sampleRate float64

	window []float64    // 汉宁窗系数缓存，长度跟随帧长
	input  []complex128 // 补零后的 FFT 输入缓冲
	mags   []float64    // 输出幅度谱缓冲
}

// NewSpectrumAnalyzer 创建频谱分析器。
// 采样率在管线生命周期内固定。
func NewSpectrumAnalyzer(sampleRate float64) *SpectrumAnalyzer {
	return &SpectrumAnalyzer{sampleRate: sampleRate}
}

// Analyze 计算一帧的幅度谱。
// oversampling 为补零倍数 (1 = 不补零)，applyWindow 决定是否加汉宁窗。
// 返回频率分辨率 (Hz/bin) 和 [0, paddedLength/2-1) 区间的幅度，
// 即丢弃镜像半谱和奈奎斯特 bin。返回的切片在下次调用前有效。
func (sa *SpectrumAnalyzer) Analyze(samples []float32, oversampling int, applyWindow bool) (float64, []float64) {
	if oversampling < 1 {
		oversampling = 1
	}
	n := len(samples)
	padded := n * oversampling

	if len(sa.input) != padded {
		sa.input = make([]complex128, padded)
		sa.mags = make([]float64, padded/2-1)
	}
	if applyWindow && len(sa.window) != n {
		sa.window = hannWindow(n)
	}

	for i, v := range samples {
		x := float64(v)
		if applyWindow {
			x *= sa.window[i]
		}
		sa.input[i] = complex(x, 0) // 虚部在现实信号中恒为 0
	}
	for i := n; i < padded; i++ {
		sa.input[i] = 0
	}

	spectrum := fft.FFT(sa.input)

	for i := range sa.mags {
		sa.mags[i] = cmplx.Abs(spectrum[i])
	}

	return sa.sampleRate / float64(padded), sa.mags
}

// hannWindow 生成汉宁窗系数
// 公式: 0.5 * (1 - cos(2*PI*n / (N-1)))
func hannWindow(n int) []float64 {
	w := make([]float64, n)
	for i := range w {
		w[i] = 0.5 * (1 - math.Cos(2*math.Pi*float64(i)/float64(n-1)))
	}
	return w
}
