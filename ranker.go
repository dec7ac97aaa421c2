package synthe

import (
	"container/heap"
	"math"
)

// NumRankedNotes 每帧输出的候选音符槽位数
const NumRankedNotes = 5

// RankedNote 单个候选音符及其平均能量。
// Valid 为 false 表示该槽位没有检测结果；
// 不复用 0 号音符表示"无检测"，避免与真实的最低音混淆。
type RankedNote struct {
	Note   uint8
	Energy float64
	Valid  bool
}

type noteEnergy struct {
	number int
	energy float64
}

// energyHeap 按能量降序的大顶堆，用于有界的 top-N 选取。
// 候选频段通常有 128 个而 N 只有 5，堆选取比全排序划算。
type energyHeap []noteEnergy

func (h energyHeap) Len() int           { return len(h) }
func (h energyHeap) Less(i, j int) bool { return h[i].energy > h[j].energy }
func (h energyHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }

func (h *energyHeap) Push(x any) {
	*h = append(*h, x.(noteEnergy))
}

func (h *energyHeap) Pop() any {
	old := *h
	n := len(old)
	v := old[n-1]
	*h = old[:n-1]
	return v
}

// NoteRanker 把幅度谱映射为按能量降序排列的候选音符
type NoteRanker struct {
	table      *NoteTable
	candidates energyHeap // 跨帧复用的候选缓冲
}

// NewNoteRanker 创建排序器
func NewNoteRanker(table *NoteTable) *NoteRanker {
	return &NoteRanker{
		table:      table,
		candidates: make(energyHeap, 0, 128),
	}
}

// Rank 对每个频段求 [下限/分辨率, 上限/分辨率) 区间 (整数截断)
// 的平均幅度，取能量最高的前 len(dst) 个音符写入 dst。
// bin 区间为空或越出谱外的频段直接跳过，平均值非有限的同样跳过，
// NaN 永远不会进入输出。
// transpose 为移调半音数，结果钳制在 [0, 127]。
// 有效频段不足时剩余槽位写入 Valid=false 的空标记。
func (nr *NoteRanker) Rank(mags []float64, freqResolution float64, transpose int, dst []RankedNote) {
	nr.candidates = nr.candidates[:0]

	for _, band := range nr.table.Bands {
		lo := int(band.LowerFreq / freqResolution)
		hi := int(band.UpperFreq / freqResolution)
		if lo < 0 || hi > len(mags) || lo >= hi {
			continue
		}

		var sum float64
		for _, m := range mags[lo:hi] {
			sum += m
		}
		avg := sum / float64(hi-lo)
		if math.IsNaN(avg) || math.IsInf(avg, 0) {
			continue
		}

		nr.candidates = append(nr.candidates, noteEnergy{number: band.Number, energy: avg})
	}

	heap.Init(&nr.candidates)

	for i := range dst {
		if nr.candidates.Len() == 0 {
			dst[i] = RankedNote{}
			continue
		}
		top := heap.Pop(&nr.candidates).(noteEnergy)

		note := top.number + transpose
		if note < 0 {
			note = 0
		}
		if note > 127 {
			note = 127
		}
		dst[i] = RankedNote{Note: uint8(note), Energy: top.energy, Valid: true}
	}
}
