package service

import (
	"context"
	"time"

	"courtside/internal/cache"
	"courtside/internal/domain"

	"github.com/rs/zerolog"
)

// Slot is one candidate interval in an availability listing.
type Slot struct {
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	Available bool   `json:"available"`
}

// interval is a half-open [Start, End) range in minutes past midnight.
type interval struct {
	Start int
	End   int
}

func (a interval) overlaps(b interval) bool {
	return a.Start < b.End && b.Start < a.End
}

// computeSlots generates successive slotMinutes-long intervals from opening
// time, dropping (not truncating) a trailing partial slot, and marks each
// unavailable when it intersects any busy interval.
func computeSlots(openingMin, closingMin, slotMinutes int, busy []interval) []Slot {
	if slotMinutes <= 0 || closingMin <= openingMin {
		return nil
	}
	var out []Slot
	for start := openingMin; start+slotMinutes <= closingMin; start += slotMinutes {
		cand := interval{Start: start, End: start + slotMinutes}
		available := true
		for _, b := range busy {
			if cand.overlaps(b) {
				available = false
				break
			}
		}
		out = append(out, Slot{
			StartTime: formatHHMM(cand.Start),
			EndTime:   formatHHMM(cand.End),
			Available: available,
		})
	}
	return out
}

type AvailabilityService struct {
	courts      CourtStore
	bookings    BookingStore
	cache       *cache.AvailabilityCache
	slotMinutes int
	logger      zerolog.Logger
}

func NewAvailabilityService(courts CourtStore, bookings BookingStore, c *cache.AvailabilityCache, slotMinutes int, logger zerolog.Logger) *AvailabilityService {
	if slotMinutes <= 0 {
		slotMinutes = 60
	}
	return &AvailabilityService{
		courts:      courts,
		bookings:    bookings,
		cache:       c,
		slotMinutes: slotMinutes,
		logger:      logger,
	}
}

// SlotsForDate returns the ordered candidate slots for a court on a date.
// Occupied means a PENDING/CONFIRMED booking or an owner-blocked slot.
func (s *AvailabilityService) SlotsForDate(ctx context.Context, courtID uint, date string) ([]Slot, error) {
	if _, err := time.Parse(dateLayout, date); err != nil {
		return nil, domain.Validationf("InvalidDate", "date must be YYYY-MM-DD")
	}

	var cached []Slot
	if s.cache.Get(ctx, courtID, date, &cached) {
		return cached, nil
	}

	court, err := s.courts.GetWithFacility(ctx, courtID)
	if err != nil {
		return nil, err
	}
	opening, err := parseHHMM(court.OpeningTime)
	if err != nil {
		return nil, err
	}
	closing, err := parseHHMM(court.ClosingTime)
	if err != nil {
		return nil, err
	}

	busy, err := s.busyIntervals(ctx, courtID, date)
	if err != nil {
		return nil, err
	}

	slots := computeSlots(opening, closing, s.slotMinutes, busy)
	s.cache.Set(ctx, courtID, date, slots)
	return slots, nil
}

func (s *AvailabilityService) busyIntervals(ctx context.Context, courtID uint, date string) ([]interval, error) {
	bookings, err := s.bookings.ListActiveForDate(ctx, courtID, date)
	if err != nil {
		return nil, err
	}
	blocked, err := s.courts.ListBlockedSlots(ctx, courtID, date)
	if err != nil {
		return nil, err
	}

	busy := make([]interval, 0, len(bookings)+len(blocked))
	appendRange := func(startStr, endStr string) {
		start, err1 := parseHHMM(startStr)
		end, err2 := parseHHMM(endStr)
		if err1 != nil || err2 != nil {
			s.logger.Warn().Uint("court_id", courtID).Str("date", date).
				Str("start", startStr).Str("end", endStr).
				Msg("skipping occupied interval with malformed times")
			return
		}
		busy = append(busy, interval{Start: start, End: end})
	}
	for _, b := range bookings {
		appendRange(b.StartTime, b.EndTime)
	}
	for _, t := range blocked {
		appendRange(t.StartTime, t.EndTime)
	}
	return busy, nil
}
