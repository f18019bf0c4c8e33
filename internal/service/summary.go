package service

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"wastenot-api/internal/repository"
)

// SummaryConfig holds configuration for the daily expiry summary.
type SummaryConfig struct {
	// Interval is how often the summary runs.
	// Default: 24 hours
	Interval time.Duration
}

// SummaryScheduler periodically collects items expiring tomorrow and sends
// each affected user a single digest notification covering all of their
// inventories.
type SummaryScheduler struct {
	items       repository.ItemRepository
	inventories repository.InventoryRepository
	notifier    Notifier
	config      SummaryConfig
	ticker      *time.Ticker
	stopCh      chan struct{}
	stopOnce    sync.Once
	isRunning   bool
	mu          sync.Mutex
}

// NewSummaryScheduler creates a new summary scheduler.
func NewSummaryScheduler(items repository.ItemRepository, inventories repository.InventoryRepository, notifier Notifier, config SummaryConfig) *SummaryScheduler {
	if config.Interval == 0 {
		config.Interval = 24 * time.Hour
	}
	if notifier == nil {
		notifier = LogNotifier{}
	}

	return &SummaryScheduler{
		items:       items,
		inventories: inventories,
		notifier:    notifier,
		config:      config,
		stopCh:      make(chan struct{}),
	}
}

// Start begins the summary scheduler.
func (s *SummaryScheduler) Start() {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return
	}
	s.isRunning = true
	s.ticker = time.NewTicker(s.config.Interval)
	s.mu.Unlock()

	log.Printf("[SummaryScheduler] Started - Interval: %v", s.config.Interval)

	go s.run()
}

// run is the main summary loop.
func (s *SummaryScheduler) run() {
	for {
		select {
		case <-s.ticker.C:
			if _, err := s.RunNow(); err != nil {
				log.Printf("[SummaryScheduler] Error running summary: %v", err)
			}
		case <-s.stopCh:
			log.Printf("[SummaryScheduler] Stopped")
			return
		}
	}
}

// Stop stops the summary scheduler.
func (s *SummaryScheduler) Stop() {
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

// RunNow collects tomorrow's expiring items and sends the digests. Returns
// the number of users notified.
func (s *SummaryScheduler) RunNow() (int, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	start, end := tomorrowRange(time.Now())

	expiring, err := s.items.ListExpiringBetween(ctx, start, end)
	if err != nil {
		return 0, fmt.Errorf("failed to list expiring items: %w", err)
	}
	if len(expiring) == 0 {
		log.Printf("[SummaryScheduler] No items expiring tomorrow")
		return 0, nil
	}

	// Group by user across all inventories the items belong to.
	perUser := make(map[string][]string)
	memberCache := make(map[string][]string)

	for _, item := range expiring {
		members, ok := memberCache[item.InventoryID]
		if !ok {
			inventory, err := s.inventories.GetByID(ctx, item.InventoryID)
			if err != nil {
				log.Printf("[SummaryScheduler] Skipping items of missing inventory %s: %v",
					item.InventoryID, err)
				memberCache[item.InventoryID] = nil
				continue
			}
			members = inventory.MembersArray
			memberCache[item.InventoryID] = members
		}
		for _, member := range members {
			perUser[member] = append(perUser[member], item.ItemName)
		}
	}

	notified := 0
	for userID, names := range perUser {
		body := summaryBody(names)
		if err := s.notifier.Notify(ctx, userID, "Expiring tomorrow", body); err != nil {
			log.Printf("[SummaryScheduler] Failed to notify user %s: %v", userID, err)
			continue
		}
		notified++
	}

	log.Printf("[SummaryScheduler] Notified %d user(s) about %d expiring item(s)",
		notified, len(expiring))

	return notified, nil
}

// tomorrowRange returns the inclusive bounds of the calendar day after now,
// in now's location.
func tomorrowRange(now time.Time) (time.Time, time.Time) {
	year, month, day := now.Date()
	start := time.Date(year, month, day+1, 0, 0, 0, 0, now.Location())
	end := time.Date(year, month, day+1, 23, 59, 59, 999000000, now.Location())
	return start, end
}

// summaryBody builds the digest message for one user.
func summaryBody(names []string) string {
	const maxListed = 5
	listed := names
	if len(listed) > maxListed {
		listed = listed[:maxListed]
	}
	body := fmt.Sprintf("You have %d item(s) expiring tomorrow: %s",
		len(names), strings.Join(listed, ", "))
	if len(names) > maxListed {
		body += fmt.Sprintf(" and %d more", len(names)-maxListed)
	}
	return body
}
