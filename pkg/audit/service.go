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

// Package audit provides the audit trail for the escalation lifecycle. Events
// are emitted fire-and-forget through a bounded queue to the configured sinks
// (structured log always, Kafka when brokers are configured); a slow or
// failing sink can never stall request handling or the sweeper.
package audit

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/frontdesk/frontdesk/pkg/metrics"
)

const (
	defaultQueueSize = 1024
	// writeTimeout bounds a single sink write so one stuck sink cannot block
	// the worker forever.
	writeTimeout = 5 * time.Second
)

// Service fans audit events out to its sinks from a single background worker.
type Service struct {
	logger *zap.Logger
	sinks  []Sink
	queue  chan *Event

	wg sync.WaitGroup
	// mu orders queue sends against close(s.queue); a send that raced past
	// the closed check must not hit a closed channel.
	mu     sync.RWMutex
	closed bool
}

// NewService creates the audit service and starts its worker. queueSize <= 0
// selects the default.
func NewService(logger *zap.Logger, queueSize int, sinks ...Sink) *Service {
	if queueSize <= 0 {
		queueSize = defaultQueueSize
	}
	s := &Service{
		logger: logger.Named("audit-service"),
		sinks:  sinks,
		queue:  make(chan *Event, queueSize),
	}
	s.wg.Add(1)
	go s.worker()
	return s
}

// Emit queues an event without blocking. When the queue is full the event is
// dropped and counted; auditing must never backpressure the caller.
func (s *Service) Emit(event *Event) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return
	}
	select {
	case s.queue <- event:
	default:
		metrics.AuditEventsDropped.Inc()
		s.logger.Warn("Audit queue full, dropping event",
			zap.String("event_id", event.ID),
			zap.String("event_type", string(event.Type)))
	}
}

func (s *Service) worker() {
	defer s.wg.Done()
	for event := range s.queue {
		for _, sink := range s.sinks {
			ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
			if err := sink.Write(ctx, event); err != nil {
				s.logger.Error("Audit sink write failed",
					zap.String("sink", sink.Name()),
					zap.String("event_id", event.ID),
					zap.Error(err))
			}
			cancel()
		}
	}
}

// Close drains the queue, stops the worker and closes every sink.
func (s *Service) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	close(s.queue)
	s.mu.Unlock()

	s.wg.Wait()
	for _, sink := range s.sinks {
		if err := sink.Close(); err != nil {
			s.logger.Warn("Failed to close audit sink",
				zap.String("sink", sink.Name()),
				zap.Error(err))
		}
	}
}
