package workers

import (
	"log"
	"sync"

	"github.com/nivedh-git/attendsysbackend/services"
)

// NotificationJob is one pending delivery
type NotificationJob struct {
	IdentityID uint
	Title      string
	Message    string
	Severity   string
}

// NotificationDispatcher delivers notifications asynchronously through a
// bounded queue and a small worker pool, so attendance writes never wait on
// a notification sink. It implements services.Notifier.
type NotificationDispatcher struct {
	JobQueue chan NotificationJob
	Sink     services.Notifier
	Wg       sync.WaitGroup

	mu     sync.Mutex
	closed bool
}

// Ensure NotificationDispatcher implements services.Notifier
var _ services.Notifier = (*NotificationDispatcher)(nil)

// NewNotificationDispatcher starts numWorkers workers draining a queue of
// queueSize pending notifications into the given sink
func NewNotificationDispatcher(sink services.Notifier, queueSize, numWorkers int) *NotificationDispatcher {
	if numWorkers <= 0 {
		numWorkers = 1
	}
	if queueSize <= 0 {
		queueSize = 100
	}
	d := &NotificationDispatcher{
		JobQueue: make(chan NotificationJob, queueSize),
		Sink:     sink,
	}
	d.Wg.Add(numWorkers)
	for i := 0; i < numWorkers; i++ {
		go d.worker(i)
	}
	log.Printf("Started %d notification worker(s) with queue size %d", numWorkers, queueSize)
	return d
}

// worker drains jobs from the queue into the sink
func (d *NotificationDispatcher) worker(id int) {
	defer d.Wg.Done()

	for job := range d.JobQueue {
		if err := d.Sink.Notify(job.IdentityID, job.Title, job.Message, job.Severity); err != nil {
			log.Printf("Worker %d: failed to deliver notification to identity %d: %v", id, job.IdentityID, err)
		}
	}
	log.Printf("Notification worker %d stopping: queue closed", id)
}

// Notify enqueues a delivery. A full queue drops the notification with a
// log line rather than blocking the caller; after Stop the dispatcher
// likewise drops instead of panicking on a closed channel.
func (d *NotificationDispatcher) Notify(identityID uint, title, message, severity string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		log.Printf("Warning: dispatcher stopped, dropping notification for identity %d", identityID)
		return nil
	}

	select {
	case d.JobQueue <- NotificationJob{IdentityID: identityID, Title: title, Message: message, Severity: severity}:
	default:
		log.Printf("Warning: notification queue full, dropping notification for identity %d", identityID)
	}
	return nil
}

// Stop closes the queue and waits for the workers to drain it
func (d *NotificationDispatcher) Stop() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	close(d.JobQueue)
	d.mu.Unlock()

	d.Wg.Wait()
	log.Println("Notification dispatcher stopped")
}
