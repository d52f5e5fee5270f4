// Package feedback 维护用户行为日志：有界、按时间新到旧排列。
package feedback

import (
	"sort"
	"time"

	"github.com/rushteam/rtrec/core"
)

// DefaultCapacity 是行为日志的默认容量。
const DefaultCapacity = 1000

// Log 是有界的行为日志，按 Timestamp 从新到旧排列，同一时间戳按插入顺序（后插入的在前）。
// 超过容量时淘汰最旧的记录。
//
// Log 本身不加锁，由持有者（engine）保证单写多读。
type Log struct {
	entries  []core.Interaction
	capacity int
}

// NewLog 用初始行为构建日志。
// 初始行为按时间稳定排序（同一时间戳保留输入顺序），超过容量只保留最新的 capacity 条。
func NewLog(capacity int, initial []core.Interaction) *Log {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	entries := make([]core.Interaction, len(initial), max(len(initial), capacity))
	copy(entries, initial)
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Timestamp.After(entries[j].Timestamp)
	})
	if len(entries) > capacity {
		entries = entries[:capacity]
	}
	return &Log{entries: entries, capacity: capacity}
}

// Insert 把一条行为插入到日志前部（保持新到旧顺序），返回被淘汰的记录。
// 常见情况下新行为是最新的，直接落在下标 0。
func (l *Log) Insert(in core.Interaction) []core.Interaction {
	// 第一个不晚于 in 的位置；同一时间戳时新插入的排在前面
	idx := sort.Search(len(l.entries), func(i int) bool {
		return !l.entries[i].Timestamp.After(in.Timestamp)
	})
	l.entries = append(l.entries, core.Interaction{})
	copy(l.entries[idx+1:], l.entries[idx:])
	l.entries[idx] = in

	if len(l.entries) <= l.capacity {
		return nil
	}
	evicted := append([]core.Interaction(nil), l.entries[l.capacity:]...)
	clear(l.entries[l.capacity:])
	l.entries = l.entries[:l.capacity]
	return evicted
}

// Entries 返回全部行为（新到旧）。返回值归日志所有，调用方不得修改。
func (l *Log) Entries() []core.Interaction {
	return l.entries
}

// Since 返回时间戳严格晚于 cutoff 的行为（新到旧）。
func (l *Log) Since(cutoff time.Time) []core.Interaction {
	idx := sort.Search(len(l.entries), func(i int) bool {
		return !l.entries[i].Timestamp.After(cutoff)
	})
	return l.entries[:idx]
}

// Len 返回当前条数。
func (l *Log) Len() int {
	return len(l.entries)
}

// Capacity 返回容量上限。
func (l *Log) Capacity() int {
	return l.capacity
}

// Oldest 返回最旧的一条行为。
func (l *Log) Oldest() (core.Interaction, bool) {
	if len(l.entries) == 0 {
		return core.Interaction{}, false
	}
	return l.entries[len(l.entries)-1], true
}
