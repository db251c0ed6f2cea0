package services

import (
	"canteen-pos/models"
	"context"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Journal is a durable append-only copy of committed transactions.
type Journal interface {
	Append(ctx context.Context, tx models.Transaction) error
}

// HistoryService keeps the terminal's transactions in memory, most recent
// first. It is not persisted; the optional journal is write-only.
type HistoryService struct {
	mu      sync.RWMutex
	entries []models.Transaction
	lastID  int64
	journal Journal
	logger  *log.Logger
	now     func() time.Time
}

func NewHistoryService(journal Journal, logger *log.Logger) *HistoryService {
	return &HistoryService{
		journal: journal,
		logger:  logger,
		now:     time.Now,
	}
}

// Record finalizes tx with the next local id, a creation time and a
// reference when missing, and prepends it to the history.
func (s *HistoryService) Record(tx models.Transaction) models.Transaction {
	s.mu.Lock()
	s.lastID++
	tx.ID = s.lastID
	if tx.CreatedAt.IsZero() {
		tx.CreatedAt = s.now()
	}
	if tx.Reference == "" {
		tx.Reference = uuid.NewString()
	}
	s.entries = append([]models.Transaction{tx}, s.entries...)
	s.mu.Unlock()

	if s.journal != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.journal.Append(ctx, tx); err != nil {
			s.logger.Printf("journal append for transaction %s failed: %v", tx.Reference, models.WrapError(models.ErrPersistence, "journal write", err))
		}
	}
	return tx
}

func (s *HistoryService) List() []models.Transaction {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Transaction, len(s.entries))
	copy(out, s.entries)
	return out
}

func (s *HistoryService) Get(id int64) (models.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, tx := range s.entries {
		if tx.ID == id {
			return tx, nil
		}
	}
	return models.Transaction{}, models.NewError(models.ErrNotFound, "transaction not found")
}
