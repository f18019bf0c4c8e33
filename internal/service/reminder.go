package service

import (
	"context"
	"log"
	"sync"
	"time"

	"wastenot-api/internal/cache"
	"wastenot-api/internal/model"
	"wastenot-api/internal/repository"
)

// Notifier delivers a notification to a single user.
type Notifier interface {
	Notify(ctx context.Context, userID, title, body string) error
}

// LogNotifier writes notifications to the application log. It stands in
// for a push-notification transport in deployments that don't have one.
type LogNotifier struct{}

func (LogNotifier) Notify(_ context.Context, userID, title, body string) error {
	log.Printf("[Notify] user=%s title=%q body=%q", userID, title, body)
	return nil
}

// ReminderConfig holds configuration for the reminder scheduler.
type ReminderConfig struct {
	// PollInterval is how often due reminders are drained from the queue.
	// Default: 30 seconds
	PollInterval time.Duration
}

// ReminderService watches the reminder queue and notifies every member of
// an inventory when an item's reminder comes due. It also implements the
// scheduling hooks the item service calls on create/update/delete.
type ReminderService struct {
	queue       cache.ReminderQueue
	inventories repository.InventoryRepository
	notifier    Notifier
	config      ReminderConfig
	ticker      *time.Ticker
	stopCh      chan struct{}
	stopOnce    sync.Once
	isRunning   bool
	mu          sync.Mutex
}

// NewReminderService creates a new reminder scheduler.
func NewReminderService(queue cache.ReminderQueue, inventories repository.InventoryRepository, notifier Notifier, config ReminderConfig) *ReminderService {
	if config.PollInterval == 0 {
		config.PollInterval = 30 * time.Second
	}
	if notifier == nil {
		notifier = LogNotifier{}
	}

	return &ReminderService{
		queue:       queue,
		inventories: inventories,
		notifier:    notifier,
		config:      config,
		stopCh:      make(chan struct{}),
	}
}

// ScheduleItem enqueues a reminder for the item if it carries a reminder
// date, and cancels any previously scheduled one otherwise. Queue failures
// are logged, not surfaced: a missed reminder never fails the item write.
func (s *ReminderService) ScheduleItem(ctx context.Context, item *model.InventoryItem) {
	if item.ReminderDate == nil {
		s.CancelItem(ctx, item.InventoryID, item.ID)
		return
	}

	entry := cache.ReminderEntry{
		InventoryID: item.InventoryID,
		ItemID:      item.ID,
		ItemName:    item.ItemName,
		DueAt:       *item.ReminderDate,
	}
	if err := s.queue.Schedule(ctx, entry); err != nil {
		log.Printf("[ReminderService] Failed to schedule reminder for item %s: %v", item.ID, err)
	}
}

// CancelItem removes any scheduled reminder for the item.
func (s *ReminderService) CancelItem(ctx context.Context, inventoryID, itemID string) {
	if err := s.queue.Cancel(ctx, inventoryID, itemID); err != nil {
		log.Printf("[ReminderService] Failed to cancel reminder for item %s: %v", itemID, err)
	}
}

// Start begins the reminder polling loop.
func (s *ReminderService) Start() {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return
	}
	s.isRunning = true
	s.ticker = time.NewTicker(s.config.PollInterval)
	s.mu.Unlock()

	log.Printf("[ReminderService] Started - Interval: %v", s.config.PollInterval)

	go s.run()
}

// run is the main polling loop.
func (s *ReminderService) run() {
	for {
		select {
		case <-s.ticker.C:
			s.deliverDue()
		case <-s.stopCh:
			log.Printf("[ReminderService] Stopped")
			return
		}
	}
}

// deliverDue drains due reminders and fans each out to the members of its
// inventory.
func (s *ReminderService) deliverDue() {
	ctx, cancel := context.WithTimeout(context.Background(), 1*time.Minute)
	defer cancel()

	due, err := s.queue.PopDue(ctx, time.Now())
	if err != nil {
		log.Printf("[ReminderService] Error draining due reminders: %v", err)
		return
	}
	if len(due) == 0 {
		return
	}

	log.Printf("[ReminderService] Delivering %d due reminder(s)", len(due))
	s.deliver(ctx, due)
}

// deliver fans each due entry out to the members of its inventory.
func (s *ReminderService) deliver(ctx context.Context, due []cache.ReminderEntry) {
	for _, entry := range due {
		inventory, err := s.inventories.GetByID(ctx, entry.InventoryID)
		if err != nil {
			// Inventory may have been deleted after the reminder was
			// queued. Nothing to deliver.
			log.Printf("[ReminderService] Skipping reminder for missing inventory %s: %v",
				entry.InventoryID, err)
			continue
		}

		for _, member := range inventory.MembersArray {
			if err := s.notifier.Notify(ctx, member, "Item reminder",
				entry.ItemName+" needs your attention"); err != nil {
				log.Printf("[ReminderService] Failed to notify user %s: %v", member, err)
			}
		}
	}
}

// Stop stops the reminder scheduler.
func (s *ReminderService) Stop() {
	s.stopOnce.Do(func() {
		s.mu.Lock()
		defer s.mu.Unlock()

		if s.ticker != nil {
			s.ticker.Stop()
		}
		close(s.stopCh)
		s.isRunning = false
	})
}

// RunNow triggers an immediate delivery pass. Returns the number of
// reminders that were due.
func (s *ReminderService) RunNow() (int, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 1*time.Minute)
	defer cancel()

	due, err := s.queue.PopDue(ctx, time.Now())
	if err != nil {
		return 0, err
	}

	s.deliver(ctx, due)
	return len(due), nil
}

var _ ReminderScheduler = (*ReminderService)(nil)
