package synthe

import (
	"fmt"

	"github.com/tarm/serial"
)

// MIDI 线路协议的状态字节
const (
	serialNoteOnStatus  byte = 0x90
	serialNoteOffStatus byte = 0x80

	// SerialMidiBaud MIDI 硬件的标准波特率
	SerialMidiBaud = 31250
)

// SerialSink 通过串口发送原始 MIDI 字节，
// 面向挂在 USB 转串口上的硬件合成器/单片机。
type SerialSink struct {
	port *serial.Port
}

// NewSerialSink 打开串口。baud <= 0 时使用 MIDI 标准波特率。
func NewSerialSink(device string, baud int) (*SerialSink, error) {
	if baud <= 0 {
		baud = SerialMidiBaud
	}
	port, err := serial.OpenPort(&serial.Config{Name: device, Baud: baud})
	if err != nil {
		return nil, fmt.Errorf("failed to open serial port %s: %v", device, err)
	}
	return &SerialSink{port: port}, nil
}

// NoteOn 写入 3 字节 NoteOn 帧
func (s *SerialSink) NoteOn(note uint8) error {
	_, err := s.port.Write([]byte{serialNoteOnStatus, note, midiVelocity})
	return err
}

// NoteOff 写入 3 字节 NoteOff 帧
func (s *SerialSink) NoteOff(note uint8) error {
	_, err := s.port.Write([]byte{serialNoteOffStatus, note, 0})
	return err
}

// Close 关闭串口
func (s *SerialSink) Close() error {
	return s.port.Close()
}
