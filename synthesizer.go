package synthe

// Result 单帧处理结果。
// Notes 按能量降序排列，槽位 0 是主音符，也是唯一驱动去抖的槽位；
// 其余槽位仅供显示。Events 最多两个 (换音时先关后开)。
type Result struct {
	LoudnessDb float64
	Notes      [NumRankedNotes]RankedNote
	Events     [2]NoteEvent
	NumEvents  int
	Calibrated bool // 本帧被用于采集噪声基线
}

// Synthesizer 把门限、频谱分析、噪声校准、排序和去抖
// 串成每块音频一次的处理管线。
// Process 只能由单个处理线程 (音频回调) 调用；
// Config 可由控制线程并发修改。
// 校准基线和发声状态只属于本实例的处理路径。
type Synthesizer struct {
	cfg        *Config
	analyzer   *SpectrumAnalyzer
	calibrator *NoiseCalibrator
	ranker     *NoteRanker
	tracker    *NoteTransitionTracker

	results chan Result
	events  []NoteEvent // 跨帧复用的事件缓冲
}

// NewSynthesizer 创建管线实例
func NewSynthesizer(table *NoteTable, sampleRate float64) *Synthesizer {
	return &Synthesizer{
		cfg:        DefaultConfig(),
		analyzer:   NewSpectrumAnalyzer(sampleRate),
		calibrator: &NoiseCalibrator{},
		ranker:     NewNoteRanker(table),
		tracker:    &NoteTransitionTracker{},
		results:    make(chan Result, 16),
		events:     make([]NoteEvent, 0, 2),
	}
}

// Config 返回共享配置，控制线程通过它修改参数
func (s *Synthesizer) Config() *Config {
	return s.cfg
}

// Results 处理结果通道。发送端永不阻塞：
// 消费不及时的帧被丢弃，保证实时路径不欠载。
func (s *Synthesizer) Results() <-chan Result {
	return s.results
}

// Calibrated 是否持有噪声基线
func (s *Synthesizer) Calibrated() bool {
	return s.calibrator.Active()
}

// Process 处理一帧音频，由音频回调按块节奏调用。
// 门限不通过、校准采集帧和无有效频段都视为"本帧无检测"，
// 不是错误；去抖器照常接收"无检测"输入以便及时关音。
func (s *Synthesizer) Process(samples []float32) {
	var res Result
	res.LoudnessDb = LoudnessDb(samples)

	detected := false
	var dominant uint8

	if GatePass(res.LoudnessDb, s.cfg.ThresholdDb()) {
		resolution, mags := s.analyzer.Analyze(samples, s.cfg.Oversampling(), s.cfg.UseWindow())

		if s.calibrator.Apply(mags, s.cfg.TakeCalibrationRequest()) {
			res.Calibrated = true
		} else {
			s.ranker.Rank(mags, resolution, s.cfg.Transpose(), res.Notes[:])
			if res.Notes[0].Valid {
				detected = true
				dominant = res.Notes[0].Note
			}
		}
	}

	s.events = s.tracker.Track(dominant, detected, s.events[:0])
	res.NumEvents = copy(res.Events[:], s.events)

	select {
	case s.results <- res:
	default:
		// 消费侧积压时丢帧，绝不在热路径上阻塞
	}
}
