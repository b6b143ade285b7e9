/*
Copyright 2026.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package mail

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

// QueueItem represents a single email to be sent.
type QueueItem struct {
	ID        string
	Receivers []string
	Subject   string
	Body      string
	CreatedAt time.Time
}

// Queue manages asynchronous mail sending so callers never wait on SMTP.
// Retries are handled inside the sender; an item that still fails is dropped
// with a log line (mail is best-effort).
type Queue struct {
	sender       Sender
	queue        chan *QueueItem
	log          *zap.SugaredLogger
	maxQueueSize int

	wg     sync.WaitGroup
	ctx    context.Context
	cancel context.CancelFunc
}

// NewQueue creates a new mail queue for asynchronous sending.
func NewQueue(sender Sender, log *zap.SugaredLogger, maxQueueSize int) *Queue {
	if maxQueueSize <= 0 {
		maxQueueSize = 1000
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Queue{
		sender:       sender,
		queue:        make(chan *QueueItem, maxQueueSize),
		log:          log.Named("mail-queue"),
		maxQueueSize: maxQueueSize,
		ctx:          ctx,
		cancel:       cancel,
	}
}

// Start begins the background worker for processing emails.
func (q *Queue) Start() {
	q.wg.Add(1)
	go q.worker()
	q.log.Info("Mail queue worker started")
}

// Enqueue adds an email to the queue for sending. Returns an error when the
// queue is full or the receivers list is empty.
func (q *Queue) Enqueue(id string, receivers []string, subject, body string) error {
	if len(receivers) == 0 {
		return fmt.Errorf("cannot enqueue email %s: empty receivers list", id)
	}

	item := &QueueItem{
		ID:        id,
		Receivers: receivers,
		Subject:   subject,
		Body:      body,
		CreatedAt: time.Now(),
	}
	select {
	case q.queue <- item:
		return nil
	default:
		return fmt.Errorf("mail queue full (%d items), dropping email %s", q.maxQueueSize, id)
	}
}

func (q *Queue) worker() {
	defer q.wg.Done()
	for {
		select {
		case <-q.ctx.Done():
			return
		case item := <-q.queue:
			if err := q.sender.Send(item.Receivers, item.Subject, item.Body); err != nil {
				q.log.Errorw("Dropping undeliverable email", "id", item.ID, "error", err)
			}
		}
	}
}

// Stop shuts the worker down, waiting up to the context deadline.
func (q *Queue) Stop(ctx context.Context) error {
	q.cancel()

	done := make(chan struct{})
	go func() {
		q.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
