package realtime

import (
	"sort"

	"github.com/comalice/fiberx"
)

// Task is work run on the loop goroutine with exclusive access to the
// runtime.
type Task func(rt *fiberx.Runtime)

// TaskWithMeta adds sequencing metadata for deterministic ordering.
type TaskWithMeta struct {
	Task        Task
	SequenceNum uint64
	Priority    int
}

// sortTasks orders tasks by priority, then submission order.
func sortTasks(tasks []TaskWithMeta) {
	sort.SliceStable(tasks, func(i, j int) bool {
		if tasks[i].Priority != tasks[j].Priority {
			return tasks[i].Priority > tasks[j].Priority
		}
		return tasks[i].SequenceNum < tasks[j].SequenceNum
	})
}
