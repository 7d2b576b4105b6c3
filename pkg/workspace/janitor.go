package workspace

import (
	"path/filepath"
	"sort"
	"sync"
	"time"

	"financial-assistant-be/internal/pkg/logger"
)

type JobState string

const (
	JobScheduled JobState = "SCHEDULED"
	JobFired     JobState = "FIRED"
)

// JobInfo is the caller-visible snapshot of a scheduled deletion.
type JobInfo struct {
	Path   string    `json:"path"`
	FireAt time.Time `json:"fire_at"`
	State  JobState  `json:"state"`
}

type job struct {
	info  JobInfo
	timer *time.Timer
}

// Janitor owns the deferred deletion jobs: one one-shot timer per path, no
// persistence, explicit cancellation. A job fires at most once and removes
// itself from the registry afterwards, so re-scheduling the path is allowed
// once the previous job is gone.
type Janitor struct {
	mu      sync.Mutex
	jobs    map[string]*job
	ops     *Ops
	log     logger.ILogger
	onFired func(path string)
}

func NewJanitor(ops *Ops, log logger.ILogger) *Janitor {
	return &Janitor{
		jobs: make(map[string]*job),
		ops:  ops,
		log:  log,
	}
}

// OnFired registers a hook invoked after a fired job has deleted its path.
func (j *Janitor) OnFired(fn func(path string)) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.onFired = fn
}

// Schedule registers the deferred deletion of path after delay. Scheduling a
// path that already has an active job does not arm a second timer; the
// existing job comes back with created=false.
func (j *Janitor) Schedule(path string, delay time.Duration) (JobInfo, bool) {
	path = filepath.Clean(path)

	j.mu.Lock()
	defer j.mu.Unlock()

	if existing, ok := j.jobs[path]; ok {
		return existing.info, false
	}

	jb := &job{
		info: JobInfo{
			Path:   path,
			FireAt: time.Now().Add(delay),
			State:  JobScheduled,
		},
	}
	jb.timer = time.AfterFunc(delay, func() { j.fire(path) })
	j.jobs[path] = jb

	j.log.Info(moduleName, "Scheduled directory deletion", map[string]interface{}{
		"path":    path,
		"fire_at": jb.info.FireAt,
	})
	return jb.info, true
}

// Cancel stops a pending job. It reports false when the path has no active
// job or the job is already firing; a job that started firing finishes.
func (j *Janitor) Cancel(path string) bool {
	path = filepath.Clean(path)

	j.mu.Lock()
	defer j.mu.Unlock()

	jb, ok := j.jobs[path]
	if !ok || jb.info.State != JobScheduled {
		return false
	}
	if !jb.timer.Stop() {
		return false
	}
	delete(j.jobs, path)
	j.log.Info(moduleName, "Canceled directory deletion", map[string]interface{}{"path": path})
	return true
}

// Jobs snapshots the active jobs, ordered by path.
func (j *Janitor) Jobs() []JobInfo {
	j.mu.Lock()
	defer j.mu.Unlock()

	infos := make([]JobInfo, 0, len(j.jobs))
	for _, jb := range j.jobs {
		infos = append(infos, jb.info)
	}
	sort.Slice(infos, func(a, b int) bool { return infos[a].Path < infos[b].Path })
	return infos
}

func (j *Janitor) fire(path string) {
	j.mu.Lock()
	jb, ok := j.jobs[path]
	if !ok {
		j.mu.Unlock()
		return
	}
	jb.info.State = JobFired
	hook := j.onFired
	j.mu.Unlock()

	// Delete outside the lock; the removal can be slow on large trees.
	j.ops.DeleteTempDir(path, true)

	j.mu.Lock()
	delete(j.jobs, path)
	j.mu.Unlock()

	j.log.Info(moduleName, "Deletion job fired", map[string]interface{}{"path": path})
	if hook != nil {
		hook(path)
	}
}
