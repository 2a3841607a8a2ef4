package service

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

type TaskState int

const (
	TaskPending TaskState = iota
	TaskDone
	TaskCancelled
)

// scheduledTask is one named delayed action. The context handed to the action
// is cancelled on immediate cancellation so a cooperative action can bail out.
type scheduledTask struct {
	mu     sync.Mutex
	state  TaskState
	timer  *time.Timer
	cancel context.CancelFunc
}

func (t *scheduledTask) currentState() TaskState {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// TaskRegistry holds named, cancelable delayed actions. Names are a
// best-effort identity: scheduling over a live name replaces the handle
// without stopping the old timer, that bookkeeping is the caller's.
type TaskRegistry struct {
	mu    sync.Mutex
	tasks map[string]*scheduledTask
}

func NewTaskRegistry() *TaskRegistry {
	return &TaskRegistry{tasks: make(map[string]*scheduledTask)}
}

// Schedule runs action after delay and stores its handle under name.
func (r *TaskRegistry) Schedule(name string, delay time.Duration, action func(ctx context.Context)) {
	ctx, cancel := context.WithCancel(context.Background())
	task := &scheduledTask{cancel: cancel}

	task.timer = time.AfterFunc(delay, func() {
		task.mu.Lock()
		if task.state != TaskPending {
			task.mu.Unlock()
			return
		}
		task.mu.Unlock()

		action(ctx)

		task.mu.Lock()
		if task.state == TaskPending {
			// an immediate cancel that lands mid-action cancels the context;
			// that task finished interrupted, not done
			if ctx.Err() != nil {
				task.state = TaskCancelled
			} else {
				task.state = TaskDone
			}
		}
		task.mu.Unlock()
	})

	log.Debug().Str("task", name).Dur("delay", delay).Msg("scheduling task")

	r.mu.Lock()
	r.tasks[name] = task
	r.mu.Unlock()
}

// Cancel requests cancellation of the named task. Unknown names are a no-op.
// A non-immediate cancel lets an in-flight action finish; an immediate cancel
// additionally cancels the context the action runs under.
func (r *TaskRegistry) Cancel(name string, immediate bool) {
	r.mu.Lock()
	task, ok := r.tasks[name]
	r.mu.Unlock()

	if !ok {
		log.Debug().Str("task", name).Msg("cancel requested for unknown task")
		return
	}

	task.mu.Lock()
	if task.state == TaskPending && task.timer.Stop() {
		task.state = TaskCancelled
	}
	task.mu.Unlock()

	if immediate {
		task.cancel()
	}
}

func (r *TaskRegistry) Contains(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, ok := r.tasks[name]

	return ok
}

// State reports the named task's state, if it is registered.
func (r *TaskRegistry) State(name string) (TaskState, bool) {
	r.mu.Lock()
	task, ok := r.tasks[name]
	r.mu.Unlock()

	if !ok {
		return TaskPending, false
	}

	return task.currentState(), true
}

// Sweep drops entries whose task is done or cancelled.
func (r *TaskRegistry) Sweep() {
	r.mu.Lock()
	defer r.mu.Unlock()

	names := make([]string, 0, len(r.tasks))
	for name := range r.tasks {
		names = append(names, name)
	}

	for _, name := range names {
		if r.tasks[name].currentState() != TaskPending {
			delete(r.tasks, name)
		}
	}
}
