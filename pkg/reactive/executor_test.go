package reactive

import "testing"

func TestManualExecutorRunsNestedTasks(t *testing.T) {
	exec := NewManualExecutor()
	var order []int
	exec.Schedule(func() {
		order = append(order, 1)
		exec.Schedule(func() { order = append(order, 3) })
	})
	exec.Schedule(func() { order = append(order, 2) })
	if len(order) != 0 {
		t.Fatalf("tasks ran before Flush")
	}
	exec.Flush()
	if len(order) != 3 || order[0] != 1 || order[1] != 2 || order[2] != 3 {
		t.Fatalf("unexpected order %v", order)
	}
	if exec.Pending() != 0 {
		t.Fatalf("expected empty queue, got %d", exec.Pending())
	}
}

func TestSerialExecutorPreservesOrder(t *testing.T) {
	exec := NewSerialExecutor(nil)
	defer exec.Close()
	var order []int
	for n := 0; n < 20; n++ {
		exec.Schedule(func() { order = append(order, n) })
	}
	exec.Flush()
	if len(order) != 20 {
		t.Fatalf("expected 20 tasks, got %d", len(order))
	}
	for idx, n := range order {
		if idx != n {
			t.Fatalf("task %d ran at position %d", n, idx)
		}
	}
}

func TestSerialExecutorSurvivesPanics(t *testing.T) {
	exec := NewSerialExecutor(nil)
	defer exec.Close()
	ran := false
	exec.Schedule(func() { panic("boom") })
	exec.Schedule(func() { ran = true })
	exec.Flush()
	if !ran {
		t.Fatalf("task after a panic did not run")
	}
}

func TestSerialExecutorDropsTasksAfterClose(t *testing.T) {
	exec := NewSerialExecutor(nil)
	exec.Close()
	ran := false
	exec.Schedule(func() { ran = true })
	exec.Flush()
	if ran {
		t.Fatalf("task ran after Close")
	}
}
