package concurrent

import (
	"runtime"

	"github.com/ogdakke/pathfilter/internal/logger"
)

func NewWorkerPool(workerCount int, jobBufferSize int, classifier Classifier) *WorkerPool {
	if workerCount <= 0 {
		workerCount = runtime.NumCPU()
	}

	return &WorkerPool{
		workerCount: workerCount,
		classifier:  classifier,
		jobs:        make(chan PathJob, jobBufferSize),
		results:     make(chan PathResult, jobBufferSize),
		done:        make(chan struct{}),
	}
}

func (wp *WorkerPool) Start() {
	logger.Debug("Starting worker pool", "workers", wp.workerCount)

	for i := 0; i < wp.workerCount; i++ {
		wp.wg.Add(1)
		go wp.worker(i)
	}

	go func() {
		wp.wg.Wait()
		close(wp.results)
		close(wp.done)
	}()
}

func (wp *WorkerPool) AddJob(job PathJob) {
	wp.jobs <- job
}

func (wp *WorkerPool) Jobs() chan<- PathJob {
	return wp.jobs
}

func (wp *WorkerPool) CloseJobs() {
	close(wp.jobs)
}

func (wp *WorkerPool) Results() <-chan PathResult {
	return wp.results
}

func (wp *WorkerPool) Done() <-chan struct{} {
	return wp.done
}

func (wp *WorkerPool) WorkerCount() int {
	return wp.workerCount
}

func (wp *WorkerPool) worker(id int) {
	defer wp.wg.Done()

	logger.Trace("Worker started", "worker_id", id)

	for job := range wp.jobs {
		wp.results <- PathResult{
			Index:   job.Index,
			Verdict: wp.classifier.Classify(job.Path),
		}
	}

	logger.Trace("Worker finished", "worker_id", id)
}

// FeedPaths sends every path as a job and closes jobChan when done. Run it in
// its own goroutine while the caller drains results.
func FeedPaths(paths []string, jobChan chan<- PathJob) {
	defer close(jobChan)

	logger.Trace("Feeding paths", "count", len(paths))
	for i, path := range paths {
		jobChan <- PathJob{Index: i, Path: path}
	}
}
