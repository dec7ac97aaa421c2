package main

import (
	"bufio"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"sync"
	"syscall"

	"synthe"
)

func main() {
	// 1. 解析命令行参数
	inputFile := flag.String("file", "", "Input wav file for replay testing")
	recordAudio := flag.Bool("record", false, "Record audio to capture.wav")
	deviceName := flag.String("device", "", "Capture device name substring (default: system default)")
	midiPort := flag.Int("midi", -1, "MIDI out port index (-1 = disabled)")
	serialDev := flag.String("serial", "", "Serial MIDI device (e.g. /dev/ttyUSB0)")
	debugCsv := flag.String("debug", "", "Write per-frame debug CSV to file")
	listPorts := flag.Bool("list", false, "List MIDI out ports and exit")
	flag.Parse()

	if *listPorts {
		ports := synthe.MidiOutPorts()
		if len(ports) == 0 {
			fmt.Println("No MIDI out ports found.")
		}
		for i, name := range ports {
			fmt.Printf("%d: %s\n", i, name)
		}
		return
	}

	// 2. 初始化系统
	system := synthe.NewSystem()
	system.AudioDeviceName = *deviceName
	if *inputFile != "" {
		system.SetReplayFile(*inputFile)
	}
	if *recordAudio {
		system.EnableRecording("capture.wav")
	}
	if *debugCsv != "" {
		if err := system.EnableDebugCsv(*debugCsv); err != nil {
			log.Fatalf("Debug csv failed: %v", err)
		}
	}

	// 显示: 记录最新一帧的候选列表，事件即时打印
	var mu sync.Mutex
	var latest synthe.Result
	system.OnResult = func(res synthe.Result) {
		mu.Lock()
		latest = res
		mu.Unlock()
		for i := 0; i < res.NumEvents; i++ {
			ev := res.Events[i]
			if ev.On {
				fmt.Printf("NOTE ON  %-4s (%d)\n", synthe.NoteName(ev.Note), ev.Note)
			} else {
				fmt.Printf("NOTE OFF %-4s (%d)\n", synthe.NoteName(ev.Note), ev.Note)
			}
		}
	}

	// 3. 启动系统
	if err := system.Start(); err != nil {
		log.Fatalf("System start failed: %v", err)
	}
	defer system.Stop()

	if *midiPort >= 0 {
		sink, err := synthe.NewMidiSink(*midiPort)
		if err != nil {
			log.Fatalf("MIDI init failed: %v", err)
		}
		system.SetSink(sink)
	} else if *serialDev != "" {
		sink, err := synthe.NewSerialSink(*serialDev, synthe.SerialMidiBaud)
		if err != nil {
			log.Fatalf("Serial init failed: %v", err)
		}
		system.SetSink(sink)
	}

	// 4. 主循环 (处理信号和控制台输入)
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		scanner := bufio.NewScanner(os.Stdin)
		fmt.Println("System ready. Commands: calibrate | volume 0-100 | oversample N | window on/off | transpose N | midi N | notes | exit")
		fmt.Print("> ")

		cfg := system.Synth().Config()
		for scanner.Scan() {
			fields := strings.Fields(strings.TrimSpace(scanner.Text()))
			if len(fields) == 0 {
				fmt.Print("> ")
				continue
			}

			switch strings.ToLower(fields[0]) {
			case "exit", "quit":
				sigChan <- os.Interrupt
				return
			case "calibrate":
				cfg.RequestCalibration()
				fmt.Println("Calibration armed: baseline captures on next audible frame.")
			case "volume":
				if v, ok := intArg(fields); ok {
					cfg.SetVolumeThreshold(v)
					fmt.Printf("Gate threshold: %.0f dB\n", cfg.ThresholdDb())
				}
			case "oversample":
				if v, ok := intArg(fields); ok {
					cfg.SetOversampling(v)
					fmt.Printf("Oversampling: x%d\n", cfg.Oversampling())
				}
			case "window":
				if len(fields) > 1 {
					cfg.SetUseWindow(fields[1] == "on")
					fmt.Printf("Hann window: %v\n", cfg.UseWindow())
				}
			case "transpose":
				if v, ok := intArg(fields); ok {
					cfg.SetTranspose(v)
					fmt.Printf("Transpose: %+d semitones\n", cfg.Transpose())
				}
			case "midi":
				if v, ok := intArg(fields); ok {
					if v < 0 {
						system.SetSink(nil)
						fmt.Println("MIDI output disabled.")
					} else if sink, err := synthe.NewMidiSink(v); err != nil {
						log.Printf("MIDI open failed: %v", err)
					} else {
						system.SetSink(sink)
						fmt.Printf("MIDI output: port %d\n", v)
					}
				}
			case "notes":
				mu.Lock()
				res := latest
				mu.Unlock()
				printRanked(res)
			default:
				fmt.Println("Unknown command.")
			}
			fmt.Print("> ")
		}
	}()

	<-sigChan
	fmt.Println("\nShutting down...")
}

// intArg 解析命令的整数参数
func intArg(fields []string) (int, bool) {
	if len(fields) < 2 {
		fmt.Println("Missing argument.")
		return 0, false
	}
	v, err := strconv.Atoi(fields[1])
	if err != nil {
		fmt.Println("Bad argument:", fields[1])
		return 0, false
	}
	return v, true
}

// printRanked 打印最新一帧的候选音符列表
func printRanked(res synthe.Result) {
	fmt.Printf("Loudness: %.1f dB\n", res.LoudnessDb)
	for i, slot := range res.Notes {
		if slot.Valid {
			fmt.Printf("%d: %-4s (%d)  energy %.3f\n", i+1, synthe.NoteName(slot.Note), slot.Note, slot.Energy)
		} else {
			fmt.Printf("%d: -\n", i+1)
		}
	}
}
