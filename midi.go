package synthe

import (
	"fmt"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv" // 注册 rtmidi 驱动
)

// NoteSink 音符事件的外部消费端 (MIDI 设备、串口合成器等)。
// 调用方保证先关后开的事件顺序，实现方按单声部处理即可。
type NoteSink interface {
	NoteOn(note uint8) error
	NoteOff(note uint8) error
	Close() error
}

// midiVelocity 固定力度，时序粒度之外的表现力不在范围内
const midiVelocity uint8 = 0x64

// MidiSink 通过系统 MIDI 输出端口发送音符消息
type MidiSink struct {
	port drivers.Out
	send func(midi.Message) error
}

// MidiOutPorts 列出可用的 MIDI 输出端口名
func MidiOutPorts() []string {
	var names []string
	for _, port := range midi.GetOutPorts() {
		names = append(names, port.String())
	}
	return names
}

// NewMidiSink 打开第 index 个 MIDI 输出端口
func NewMidiSink(index int) (*MidiSink, error) {
	ports := midi.GetOutPorts()
	if index < 0 || index >= len(ports) {
		return nil, fmt.Errorf("midi out port %d not found (%d available)", index, len(ports))
	}
	send, err := midi.SendTo(ports[index])
	if err != nil {
		return nil, fmt.Errorf("failed to open midi port %q: %v", ports[index].String(), err)
	}
	return &MidiSink{port: ports[index], send: send}, nil
}

// NoteOn 发送通道 0 的 NoteOn
func (m *MidiSink) NoteOn(note uint8) error {
	return m.send(midi.NoteOn(0, note, midiVelocity))
}

// NoteOff 发送通道 0 的 NoteOff
func (m *MidiSink) NoteOff(note uint8) error {
	return m.send(midi.NoteOff(0, note))
}

// Close 关闭端口
func (m *MidiSink) Close() error {
	return m.port.Close()
}
