package pipeline

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"sync"
	"time"

	"github.com/btraven00/korpus/internal/corpus"
	"github.com/btraven00/korpus/internal/filter"
)

// WorkerPool runs a pipeline over documents in parallel.
type WorkerPool struct {
	ctx            context.Context
	pipeline       *Pipeline
	tasks          chan Task
	results        chan TaskResult
	progressChan   chan ProgressUpdate
	cancel         context.CancelFunc
	wg             sync.WaitGroup
	numWorkers     int
	totalTasks     int
	completedTasks int
	mu             sync.RWMutex
}

// Task is one document of a batch.
type Task struct {
	Doc   *corpus.RawDocument
	Index int
}

// ID returns the task's identifier within its batch.
func (t Task) ID() string {
	return strconv.Itoa(t.Index)
}

// TaskResult is the outcome of one task. Doc is nil when the document was
// dropped or failed.
type TaskResult struct {
	Err    error
	Doc    *corpus.Document
	Reason filter.Reason
	Task   Task
}

// ProgressUpdate provides progress information. TaskID is the task's batch
// index; DocID is the document identifier.
type ProgressUpdate struct {
	TaskID      string
	DocID       string
	Status      TaskStatus
	Message     string
	Completed   int
	Total       int
	ElapsedTime time.Duration
}

// TaskStatus represents the status of a task.
type TaskStatus string

const (
	TaskStatusPending    TaskStatus = "pending"
	TaskStatusProcessing TaskStatus = "processing"
	TaskStatusCompleted  TaskStatus = "completed"
	TaskStatusDropped    TaskStatus = "dropped"
	TaskStatusFailed     TaskStatus = "failed"
)

// DefaultWorkers is used when a non-positive worker count is requested.
const DefaultWorkers = 4

// NewWorkerPool creates a pool of numWorkers workers running pl. Canceling
// ctx stops the workers after their current document.
func NewWorkerPool(ctx context.Context, pl *Pipeline, numWorkers int) *WorkerPool {
	if numWorkers <= 0 {
		numWorkers = DefaultWorkers
	}

	ctx, cancel := context.WithCancel(ctx)

	return &WorkerPool{
		pipeline:     pl,
		numWorkers:   numWorkers,
		tasks:        make(chan Task, numWorkers*2),
		results:      make(chan TaskResult, numWorkers*2),
		progressChan: make(chan ProgressUpdate, 100),
		ctx:          ctx,
		cancel:       cancel,
	}
}

// Start launches the workers.
func (wp *WorkerPool) Start() {
	for i := 0; i < wp.numWorkers; i++ {
		wp.wg.Add(1)
		go wp.worker(i)
	}
}

func (wp *WorkerPool) worker(workerID int) {
	defer wp.wg.Done()

	for {
		select {
		case <-wp.ctx.Done():
			return
		case task, ok := <-wp.tasks:
			if !ok {
				return
			}

			wp.processTask(workerID, task)
		}
	}
}

func (wp *WorkerPool) processTask(workerID int, task Task) {
	start := time.Now()
	id := task.ID()

	wp.sendProgress(ProgressUpdate{
		TaskID:  id,
		DocID:   task.Doc.ID.String(),
		Status:  TaskStatusProcessing,
		Message: fmt.Sprintf("Worker %d started processing", workerID),
	})

	doc, reason, err := wp.run(task)
	elapsed := time.Since(start)

	wp.mu.Lock()
	wp.completedTasks++
	completed := wp.completedTasks
	total := wp.totalTasks
	wp.mu.Unlock()

	status := TaskStatusCompleted
	message := fmt.Sprintf("Worker %d completed in %v", workerID, elapsed)

	switch {
	case err != nil:
		status = TaskStatusFailed
		message = fmt.Sprintf("Worker %d failed: %v", workerID, err)
	case doc == nil:
		status = TaskStatusDropped
		message = fmt.Sprintf("Worker %d dropped document: %s", workerID, reason)
	}

	wp.sendProgress(ProgressUpdate{
		TaskID:      id,
		DocID:       task.Doc.ID.String(),
		Status:      status,
		Completed:   completed,
		Total:       total,
		ElapsedTime: elapsed,
		Message:     message,
	})

	wp.results <- TaskResult{
		Task:   task,
		Doc:    doc,
		Reason: reason,
		Err:    err,
	}
}

// run processes one document, turning a panic in a stage into an error so
// the rest of the batch survives.
func (wp *WorkerPool) run(task Task) (doc *corpus.Document, reason filter.Reason, err error) {
	defer func() {
		if r := recover(); r != nil {
			doc = nil
			err = fmt.Errorf("document %s: %v", task.Doc.ID, r)
		}
	}()

	doc, reason = wp.pipeline.Evaluate(task.Doc)
	return doc, reason, nil
}

// sendProgress sends a progress update if the channel is not full.
func (wp *WorkerPool) sendProgress(update ProgressUpdate) {
	select {
	case wp.progressChan <- update:
	default:
	}
}

// SubmitTask queues a task. It returns false when the pool was canceled
// before the task could be queued.
func (wp *WorkerPool) SubmitTask(task Task) bool {
	wp.mu.Lock()
	wp.totalTasks++
	wp.mu.Unlock()

	wp.sendProgress(ProgressUpdate{
		TaskID:  task.ID(),
		DocID:   task.Doc.ID.String(),
		Status:  TaskStatusPending,
		Message: "Task queued for processing",
	})

	select {
	case wp.tasks <- task:
		return true
	case <-wp.ctx.Done():
		return false
	}
}

// SubmitBatch queues one task per document, indexed by position. It stops
// early and returns false when the pool is canceled.
func (wp *WorkerPool) SubmitBatch(docs []*corpus.RawDocument) bool {
	for i, doc := range docs {
		if !wp.SubmitTask(Task{Index: i, Doc: doc}) {
			return false
		}
	}
	return true
}

// Results returns the results channel.
func (wp *WorkerPool) Results() <-chan TaskResult {
	return wp.results
}

// Progress returns the progress channel.
func (wp *WorkerPool) Progress() <-chan ProgressUpdate {
	return wp.progressChan
}

// Wait closes the task queue, waits for the workers and closes the result
// and progress channels.
func (wp *WorkerPool) Wait() {
	close(wp.tasks)
	wp.wg.Wait()
	close(wp.results)
	close(wp.progressChan)
	wp.cancel()
}

// Shutdown cancels the workers and waits for them.
func (wp *WorkerPool) Shutdown() {
	wp.cancel()
	wp.Wait()
}

// GetStats returns current processing statistics.
func (wp *WorkerPool) GetStats() WorkerPoolStats {
	wp.mu.RLock()
	defer wp.mu.RUnlock()

	return WorkerPoolStats{
		TotalTasks:     wp.totalTasks,
		CompletedTasks: wp.completedTasks,
		PendingTasks:   wp.totalTasks - wp.completedTasks,
		NumWorkers:     wp.numWorkers,
	}
}

// WorkerPoolStats provides statistics about the worker pool.
type WorkerPoolStats struct {
	TotalTasks     int `json:"total_tasks"`
	CompletedTasks int `json:"completed_tasks"`
	PendingTasks   int `json:"pending_tasks"`
	NumWorkers     int `json:"num_workers"`
}

// ProgressTracker tracks progress for a batch of tasks.
type ProgressTracker struct {
	startTime    time.Time
	lastUpdate   time.Time
	taskStatuses map[string]TaskStatus
	updateCount  int
	mu           sync.RWMutex
}

// NewProgressTracker creates a new progress tracker.
func NewProgressTracker() *ProgressTracker {
	return &ProgressTracker{
		startTime:    time.Now(),
		lastUpdate:   time.Now(),
		taskStatuses: make(map[string]TaskStatus),
	}
}

// Update records a progress update.
func (pt *ProgressTracker) Update(update ProgressUpdate) {
	pt.mu.Lock()
	defer pt.mu.Unlock()

	pt.taskStatuses[update.TaskID] = update.Status
	pt.lastUpdate = time.Now()
	pt.updateCount++
}

// GetSummary returns a summary of the current progress.
func (pt *ProgressTracker) GetSummary() ProgressSummary {
	pt.mu.RLock()
	defer pt.mu.RUnlock()

	summary := ProgressSummary{
		StartTime:    pt.startTime,
		LastUpdate:   pt.lastUpdate,
		ElapsedTime:  time.Since(pt.startTime),
		UpdateCount:  pt.updateCount,
		StatusCounts: make(map[TaskStatus]int),
	}

	for _, status := range pt.taskStatuses {
		summary.StatusCounts[status]++
	}

	summary.TotalTasks = len(pt.taskStatuses)

	return summary
}

// ProgressSummary provides a summary of progress tracking.
type ProgressSummary struct {
	StartTime    time.Time          `json:"start_time"`
	LastUpdate   time.Time          `json:"last_update"`
	StatusCounts map[TaskStatus]int `json:"status_counts"`
	ElapsedTime  time.Duration      `json:"elapsed_time"`
	UpdateCount  int                `json:"update_count"`
	TotalTasks   int                `json:"total_tasks"`
}

// Done returns the number of finished tasks, kept or not.
func (s ProgressSummary) Done() int {
	return s.StatusCounts[TaskStatusCompleted] + s.StatusCounts[TaskStatusDropped] + s.StatusCounts[TaskStatusFailed]
}

// PrintProgress writes a one-line progress report to w.
func (pt *ProgressTracker) PrintProgress(w io.Writer) {
	summary := pt.GetSummary()
	done := summary.Done()

	fmt.Fprintf(w, "\rProgress: %d/%d documents", done, summary.TotalTasks)

	if dropped := summary.StatusCounts[TaskStatusDropped]; dropped > 0 {
		fmt.Fprintf(w, " (%d dropped)", dropped)
	}

	if failed := summary.StatusCounts[TaskStatusFailed]; failed > 0 {
		fmt.Fprintf(w, " (%d failed)", failed)
	}

	if summary.TotalTasks > 0 {
		percentage := float64(done) / float64(summary.TotalTasks) * 100
		fmt.Fprintf(w, " [%.1f%%]", percentage)
	}

	fmt.Fprintf(w, " [%v elapsed]", summary.ElapsedTime.Round(time.Second))

	if done > 0 && done < summary.TotalTasks {
		fmt.Fprintf(w, " [~%v left]", pt.EstimateCompletion().Round(time.Second))
	}
}

// EstimateCompletion estimates the time left for the tracked tasks.
func (pt *ProgressTracker) EstimateCompletion() time.Duration {
	summary := pt.GetSummary()

	done := summary.Done()
	if done == 0 || summary.TotalTasks == 0 {
		return 0
	}

	avgTimePerTask := summary.ElapsedTime / time.Duration(done)
	remaining := summary.TotalTasks - done

	return avgTimePerTask * time.Duration(remaining)
}
