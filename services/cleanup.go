// services/cleanup.go - background maintenance sweeps
package services

import (
	"log"
	"os"
	"strconv"
	"time"
)

// CleanupService periodically flips persisted status of overdue pending
// EOIs. Readers apply lazy expiry regardless, so the sweep is purely a
// store-consistency job.
type CleanupService struct {
	eois *EOIService
	stop chan struct{}
}

var cleanupService *CleanupService

// InitCleanupService initializes the singleton cleanup service.
func InitCleanupService(eois *EOIService) {
	cleanupService = &CleanupService{
		eois: eois,
		stop: make(chan struct{}),
	}
}

// GetCleanupService returns the initialized cleanup service.
func GetCleanupService() *CleanupService {
	return cleanupService
}

// Start runs the sweep loop until Stop is called.
func (s *CleanupService) Start() {
	interval := time.Duration(getSweepMinutes()) * time.Minute

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				s.SweepExpiredEOIs()
			case <-s.stop:
				return
			}
		}
	}()
}

// Stop stops the sweep loop.
func (s *CleanupService) Stop() {
	close(s.stop)
}

// SweepExpiredEOIs runs one sweep pass.
func (s *CleanupService) SweepExpiredEOIs() {
	flipped, err := s.eois.ExpireOverdue()
	if err != nil {
		log.Printf("cleanup: expire overdue EOIs: %v", err)
		return
	}
	if flipped > 0 {
		log.Printf("✅ Cleanup: marked %d overdue EOIs expired", flipped)
	}
}

func getSweepMinutes() int {
	if val := os.Getenv("EOI_SWEEP_INTERVAL_MINUTES"); val != "" {
		if n, err := strconv.Atoi(val); err == nil && n > 0 {
			return n
		}
	}
	return 60
}
