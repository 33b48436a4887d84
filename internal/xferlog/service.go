package xferlog

import (
	"errors"
	"time"

	"vsftpd-manager/internal/models"
)

// Service answers activity queries over a log source. Every call re-reads and
// re-scans the full log; no state is carried between calls.
type Service struct {
	Source   Source
	Window   time.Duration
	HomeBase string
	Now      func() time.Time
}

func NewService(source Source, window time.Duration, homeBase string) *Service {
	if window <= 0 {
		window = DefaultWindow
	}
	return &Service{Source: source, Window: window, HomeBase: homeBase, Now: time.Now}
}

// Stats aggregates the transfers inside the window. A missing log degrades to
// an empty summary; only an unreadable source is an error.
func (s *Service) Stats() (Summary, error) {
	content, err := s.Source.ReadAll()
	if errors.Is(err, ErrSourceUnavailable) {
		return Summary{Users: map[string]models.UserActivity{}}, nil
	}
	if err != nil {
		return Summary{}, err
	}
	return Aggregate(content, s.Now(), s.Window), nil
}

// RecentUsers returns the ranked activity list derived from Stats.
func (s *Service) RecentUsers() ([]models.RecentActivityEntry, error) {
	sum, err := s.Stats()
	if err != nil {
		return nil, err
	}
	return Rank(sum.Users, s.Now()), nil
}

// DistinctUsers returns the most recent distinct actors from the reverse
// scan. A missing log degrades to an empty list.
func (s *Service) DistinctUsers() ([]models.RecentTransfer, error) {
	content, err := s.Source.ReadAll()
	if errors.Is(err, ErrSourceUnavailable) {
		return []models.RecentTransfer{}, nil
	}
	if err != nil {
		return nil, err
	}
	return RecentDistinct(content, s.HomeBase, MaxDistinct), nil
}

// Raw returns the full log content for display.
func (s *Service) Raw() (string, error) {
	return s.Source.ReadAll()
}
