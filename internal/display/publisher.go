package display

import (
	"log"
	"sync"
	"time"

	"github.com/Capitan-Parrot/proctoring-demo/internal/models"
)

const defaultQueueSize = 256

type EventSender interface {
	SendEvent(event models.DisplayEvent) error
}

// Publisher turns display updates into events for an EventSender. Updates
// are queued and sent in order by one goroutine, so a slow sender never
// blocks the caller. When the queue is full the event is dropped.
type Publisher struct {
	sender EventSender
	now    func() time.Time
	queue  chan models.DisplayEvent
	wg     sync.WaitGroup

	mu     sync.RWMutex
	closed bool
}

// NewPublisher starts the send loop. queueSize <= 0 picks a default.
func NewPublisher(sender EventSender, queueSize int) *Publisher {
	if queueSize <= 0 {
		queueSize = defaultQueueSize
	}
	p := &Publisher{
		sender: sender,
		now:    time.Now,
		queue:  make(chan models.DisplayEvent, queueSize),
	}
	p.wg.Add(1)
	go p.loop()
	return p
}

func (p *Publisher) SetSensorReading(slot models.Slot, status string, severity models.Severity) {
	p.enqueue(models.DisplayEvent{
		Kind:     models.EventSensorReading,
		Slot:     slot,
		Status:   status,
		Severity: severity,
	})
}

func (p *Publisher) SetCaption(text string) {
	p.enqueue(models.DisplayEvent{Kind: models.EventCaption, Text: text})
}

func (p *Publisher) SetAlertBanner(visible bool, message string) {
	p.enqueue(models.DisplayEvent{Kind: models.EventAlertBanner, Visible: visible, Text: message})
}

func (p *Publisher) SetElapsedTime(text string) {
	p.enqueue(models.DisplayEvent{Kind: models.EventElapsedTime, Text: text})
}

// Close stops accepting updates and waits until the queued ones are sent.
func (p *Publisher) Close() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	close(p.queue)
	p.mu.Unlock()

	p.wg.Wait()
}

func (p *Publisher) enqueue(event models.DisplayEvent) {
	event.TimeStamp = p.now().UTC()

	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return
	}
	select {
	case p.queue <- event:
	default:
		log.Printf("Publisher: queue full, dropping %s event", event.Kind)
	}
}

func (p *Publisher) loop() {
	defer p.wg.Done()
	for event := range p.queue {
		if err := p.sender.SendEvent(event); err != nil {
			log.Printf("Publisher: error sending %s event: %v", event.Kind, err)
		}
	}
}
