package synthe

import (
	"fmt"
	"log"
	"sync"
	"time"
)

// System 管理整个音符检测系统的生命周期:
// 音频输入 (实时采集或 WAV 回放)、录音分流、处理管线、
// 结果消费与输出端分发。
type System struct {
	// 配置
	SampleRate      int
	FrameSize       int
	AudioDeviceName string

	// 组件
	synth        *Synthesizer
	audioCapture *AudioCapture
	wavReader    *WavReader
	wavWriter    *WavWriter
	debugger     FrameDebugger

	// 输出端。可在运行中由控制线程切换，故加锁保护。
	// soundingNote 是消费侧对"输出端上哪个音还开着"的记账，
	// 去抖器本身的状态始终只属于处理线程。
	sinkMu       sync.Mutex
	sink         NoteSink
	soundingNote uint8
	soundingOn   bool

	// 帧缓冲: 采集回调给的块长不定，凑满固定帧长再送入管线
	frameBuf  []float32
	frameFill int

	replayFile string
	recordFile string
	done       chan struct{}

	// OnResult 每帧结果回调 (显示用)，在消费 goroutine 中调用
	OnResult func(Result)
}

// NewSystem 创建系统实例
func NewSystem() *System {
	return &System{
		SampleRate: 48000,
		FrameSize:  1024,
		debugger:   &NoOpDebugger{},
		done:       make(chan struct{}),
	}
}

// EnableRecording 开启录音分流
func (s *System) EnableRecording(filename string) {
	s.recordFile = filename
}

// SetReplayFile 设置回放文件 (设置后进入回放模式)
func (s *System) SetReplayFile(filename string) {
	s.replayFile = filename
}

// EnableDebugCsv 开启帧级 CSV 调试输出
func (s *System) EnableDebugCsv(filename string) error {
	dbg, err := NewCsvFrameDebugger(filename)
	if err != nil {
		return fmt.Errorf("failed to create debug csv: %v", err)
	}
	s.debugger = dbg
	return nil
}

// SetSink 切换音符输出端。旧输出端上还在发声的音符先被关掉，
// 避免切换后音符卡在开启状态。传 nil 表示停用输出。
func (s *System) SetSink(sink NoteSink) {
	s.sinkMu.Lock()
	defer s.sinkMu.Unlock()

	if s.sink != nil {
		if s.soundingOn {
			_ = s.sink.NoteOff(s.soundingNote)
			s.soundingOn = false
		}
		_ = s.sink.Close()
	}
	s.sink = sink
}

// Synth 返回处理管线，控制线程通过 Synth().Config() 修改参数
func (s *System) Synth() *Synthesizer {
	return s.synth
}

// Start 启动系统。初始化失败是致命错误，管线不会启动。
func (s *System) Start() error {
	table, err := LoadNoteTable()
	if err != nil {
		return fmt.Errorf("failed to load note table: %v", err)
	}

	if s.replayFile != "" {
		// 回放模式: 采样率以文件为准
		s.wavReader, err = NewWavReader(s.replayFile)
		if err != nil {
			return fmt.Errorf("failed to open replay file: %v", err)
		}
		s.SampleRate = s.wavReader.SampleRate
		log.Printf("Mode: REPLAY (%s, %dHz)", s.replayFile, s.SampleRate)
	}

	s.synth = NewSynthesizer(table, float64(s.SampleRate))
	s.frameBuf = make([]float32, s.FrameSize)

	if s.recordFile != "" && s.replayFile == "" {
		s.wavWriter, err = NewWavWriter(s.recordFile, s.SampleRate)
		if err != nil {
			return fmt.Errorf("failed to create wav file: %v", err)
		}
		log.Printf("Recording audio to %s", s.recordFile)
	}

	go s.runConsumer()

	if s.replayFile != "" {
		go s.runReplayLoop()
		return nil
	}
	return s.startAudioCapture()
}

// Stop 停止系统并释放资源
func (s *System) Stop() {
	close(s.done)
	if s.audioCapture != nil {
		s.audioCapture.Stop()
	}
	if s.wavWriter != nil {
		if err := s.wavWriter.Close(); err != nil {
			log.Printf("Warning: failed to finalize recording: %v", err)
		}
	}
	if s.wavReader != nil {
		s.wavReader.Close()
	}
	s.SetSink(nil)
	s.debugger.Close()
}

// 内部: 处理一块采集到的音频
func (s *System) processAudioChunk(samples []float32) {
	if s.wavWriter != nil {
		_ = s.wavWriter.WriteSamples(samples)
	}
	// 凑满固定帧长再处理
	for len(samples) > 0 {
		n := copy(s.frameBuf[s.frameFill:], samples)
		s.frameFill += n
		samples = samples[n:]
		if s.frameFill == len(s.frameBuf) {
			s.synth.Process(s.frameBuf)
			s.frameFill = 0
		}
	}
}

// 内部: 消费循环。带短超时地等待结果，
// 把去抖事件分发给输出端，把整帧结果交给显示回调。
func (s *System) runConsumer() {
	for {
		select {
		case <-s.done:
			return
		case res := <-s.synth.Results():
			s.handleResult(res)
		case <-time.After(50 * time.Millisecond):
			// 没有新帧，继续等
		}
	}
}

func (s *System) handleResult(res Result) {
	s.debugger.Record(res)

	if res.Calibrated {
		log.Printf("[CALIB] Noise baseline captured.")
	}

	for i := 0; i < res.NumEvents; i++ {
		ev := res.Events[i]

		s.sinkMu.Lock()
		s.soundingNote = ev.Note
		s.soundingOn = ev.On
		var err error
		if s.sink != nil {
			if ev.On {
				err = s.sink.NoteOn(ev.Note)
			} else {
				err = s.sink.NoteOff(ev.Note)
			}
		}
		s.sinkMu.Unlock()

		if err != nil {
			log.Printf("Warning: note sink send failed: %v", err)
		}
	}

	if s.OnResult != nil {
		s.OnResult(res)
	}
}

// 内部: 启动实时采集
func (s *System) startAudioCapture() error {
	var err error
	s.audioCapture, err = NewAudioCapture(s.SampleRate, s.AudioDeviceName, s.processAudioChunk)
	if err != nil {
		return fmt.Errorf("failed to init audio capture: %v", err)
	}
	return s.audioCapture.Start()
}

// 内部: 回放循环，按实时节奏喂帧
func (s *System) runReplayLoop() {
	interval := time.Second * time.Duration(s.FrameSize) / time.Duration(s.SampleRate)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	log.Println("Replay started...")
	for {
		select {
		case <-s.done:
			return
		case <-ticker.C:
			samples, err := s.wavReader.ReadSamples(s.FrameSize)
			if err != nil {
				log.Println("End of replay file.")
				return
			}
			s.processAudioChunk(samples)
		}
	}
}
