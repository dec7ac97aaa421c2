package synthe

import (
	"fmt"
	"log"
	"strings"
	"unsafe"

	"github.com/gen2brain/malgo"
)

// FrameCallback 音频数据回调，收到的是单声道 float32 采样
type FrameCallback func(samples []float32)

// AudioCapture 管理麦克风采集设备
type AudioCapture struct {
	ctx        *malgo.AllocatedContext
	device     *malgo.Device
	SampleRate int
	Callback   FrameCallback
}

// NewAudioCapture 创建采集实例。
// targetDeviceName 非空时按子串匹配选择设备，否则用系统默认输入。
func NewAudioCapture(sampleRate int, targetDeviceName string, callback FrameCallback) (*AudioCapture, error) {
	ctx, err := malgo.InitContext(nil, malgo.ContextConfig{}, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to init malgo context: %v", err)
	}

	ac := &AudioCapture{
		ctx:        ctx,
		SampleRate: sampleRate,
		Callback:   callback,
	}

	deviceConfig := malgo.DefaultDeviceConfig(malgo.Capture)
	deviceConfig.Capture.Format = malgo.FormatF32
	deviceConfig.Capture.Channels = 1
	deviceConfig.SampleRate = uint32(sampleRate)
	deviceConfig.Alsa.NoMMap = 1

	if targetDeviceName != "" {
		infos, err := ctx.Devices(malgo.Capture)
		if err == nil {
			for _, info := range infos {
				if strings.Contains(strings.ToLower(info.Name()), strings.ToLower(targetDeviceName)) {
					deviceConfig.Capture.DeviceID = info.ID.Pointer()
					log.Printf("Selected audio device: %s", info.Name())
					break
				}
			}
		}
	}

	onRecvFrames := func(pOutputSample, pInputSamples []byte, framecount uint32) {
		if ac.Callback == nil || len(pInputSamples) == 0 {
			return
		}
		samples := unsafe.Slice((*float32)(unsafe.Pointer(&pInputSamples[0])), int(framecount))
		ac.Callback(samples)
	}

	device, err := malgo.InitDevice(ctx.Context, deviceConfig, malgo.DeviceCallbacks{Data: onRecvFrames})
	if err != nil {
		_ = ctx.Uninit()
		ctx.Free()
		return nil, fmt.Errorf("failed to init capture device: %v", err)
	}
	ac.device = device

	log.Printf("Audio device initialized. Rate: %d Hz", device.SampleRate())
	return ac, nil
}

// Start 启动采集
func (ac *AudioCapture) Start() error {
	if ac.device == nil {
		return fmt.Errorf("device not initialized")
	}
	return ac.device.Start()
}

// Stop 停止采集并释放资源
func (ac *AudioCapture) Stop() {
	if ac.device != nil {
		ac.device.Uninit()
		ac.device = nil
	}
	if ac.ctx != nil {
		_ = ac.ctx.Uninit()
		ac.ctx.Free()
		ac.ctx = nil
	}
}
