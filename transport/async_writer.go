package transport

import (
	"errors"
	"sync"
)

// ErrAsyncWriterClosed is returned by Submit once Close has been called.
var ErrAsyncWriterClosed = errors.New("transport: async writer closed")

type writerJob struct {
	topic  string
	meta   Meta
	extra  [][]byte
	isEOS  bool
	seqID  uint64
	result chan writerJobResult
}

type writerJobResult struct {
	res WriterResult
	err error
}

// Ticket resolves an asynchronously submitted send to its eventual result;
// obtained from AsyncWriter.Submit/SubmitEOS.
type Ticket struct {
	ch chan writerJobResult
}

// Wait blocks until the send this ticket refers to completes.
func (t Ticket) Wait() (WriterResult, error) {
	r := <-t.ch
	return r.res, r.err
}

// AsyncWriter is the non-blocking wrapper around Writer (§4.G): a single
// worker goroutine drains a bounded job queue and performs the blocking
// send (and, for confirmed roles, the ack wait) sequentially, so that a
// caller's hot path never blocks on the network — it only blocks, if at
// all, on the queue being full, and can always resolve the eventual
// outcome later via the returned Ticket. Mirrors the teacher's sendLoop/
// cmplLoop split between submission and completion.
type AsyncWriter struct {
	writer *Writer
	jobs   chan writerJob
	// stopped is closed by loop once a.jobs has been drained and closed,
	// so Close can join the worker instead of returning while it still
	// has outstanding work.
	stopped chan struct{}

	mu     sync.Mutex
	closed bool
}

// NewAsyncWriter starts the worker goroutine over writer. queueSize bounds
// how many outstanding sends may be queued before Submit blocks.
func NewAsyncWriter(writer *Writer, queueSize int) *AsyncWriter {
	if queueSize <= 0 {
		queueSize = 64
	}
	a := &AsyncWriter{
		writer:  writer,
		jobs:    make(chan writerJob, queueSize),
		stopped: make(chan struct{}),
	}
	go a.loop()
	return a
}

// loop drains a.jobs to completion once it is closed, running every job
// still buffered at shutdown time instead of dropping it (spec §4.G
// "draining outstanding work").
func (a *AsyncWriter) loop() {
	defer close(a.stopped)
	for job := range a.jobs {
		a.run(job)
	}
}

func (a *AsyncWriter) run(job writerJob) {
	var res WriterResult
	var err error
	if job.isEOS {
		res, err = a.writer.SendEOS(job.topic, job.seqID)
	} else {
		res, err = a.writer.SendMessage(job.topic, job.meta, job.extra)
	}
	job.result <- writerJobResult{res: res, err: err}
}

// Submit enqueues a data send and returns a Ticket to resolve it later.
func (a *AsyncWriter) Submit(topic string, meta Meta, extra [][]byte) (Ticket, error) {
	return a.enqueue(writerJob{topic: topic, meta: meta, extra: extra})
}

// SubmitEOS enqueues an end-of-stream send and returns a Ticket to resolve
// it later.
func (a *AsyncWriter) SubmitEOS(topic string, seqID uint64) (Ticket, error) {
	return a.enqueue(writerJob{topic: topic, isEOS: true, seqID: seqID})
}

func (a *AsyncWriter) enqueue(job writerJob) (Ticket, error) {
	job.result = make(chan writerJobResult, 1)
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		return Ticket{}, ErrAsyncWriterClosed
	}
	// holding mu while sending keeps this send and Close's close(a.jobs)
	// mutually exclusive, so a.jobs is never closed while a send is racing it.
	a.jobs <- job
	return Ticket{ch: job.result}, nil
}

// Close stops accepting new submissions, lets the worker drain every job
// still buffered in a.jobs, joins the worker goroutine, and only then
// closes the underlying writer (spec §4.G "signaling the worker, draining
// outstanding work, and joining").
func (a *AsyncWriter) Close() error {
	a.mu.Lock()
	if !a.closed {
		a.closed = true
		close(a.jobs)
	}
	a.mu.Unlock()
	<-a.stopped
	return a.writer.Close()
}
