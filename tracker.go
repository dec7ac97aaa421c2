package synthe

// NoteEvent 一次音符开/关事件
type NoteEvent struct {
	Note uint8
	On   bool
}

// NoteTransitionTracker 把逐帧的主音符检测去抖成稳定的开/关事件。
// 当前发声音符由实例独占持有，没有任何进程级可变状态，
// 因此多条管线可以并存，测试也是确定性的。
type NoteTransitionTracker struct {
	sounding    uint8
	hasSounding bool
}

// Track 输入本帧的主音符 (present=false 表示本帧无检测)，
// 把产生的事件追加到 events 并返回。
//
//	无发声 + 无检测: 无事件
//	无发声 + 检出 m: NoteOn(m)
//	发声 n + 无检测: NoteOff(n)
//	发声 n + 检出 n: 无事件 (延音)
//	发声 n + 检出 m: NoteOff(n) 后 NoteOn(m)
//
// 换音时必须先关后开：下游按单声部处理，
// 绝不能出现两个音同时发声而中间没有关音。
func (t *NoteTransitionTracker) Track(note uint8, present bool, events []NoteEvent) []NoteEvent {
	switch {
	case !present && !t.hasSounding:
		// 持续静音，无事发生
	case !present && t.hasSounding:
		events = append(events, NoteEvent{Note: t.sounding, On: false})
		t.hasSounding = false
	case present && !t.hasSounding:
		events = append(events, NoteEvent{Note: note, On: true})
		t.sounding = note
		t.hasSounding = true
	case present && note != t.sounding:
		events = append(events, NoteEvent{Note: t.sounding, On: false})
		events = append(events, NoteEvent{Note: note, On: true})
		t.sounding = note
	}
	return events
}

// Sounding 返回当前发声音符
func (t *NoteTransitionTracker) Sounding() (uint8, bool) {
	return t.sounding, t.hasSounding
}

// Reset 清除发声状态，不产生事件
func (t *NoteTransitionTracker) Reset() {
	t.hasSounding = false
}
