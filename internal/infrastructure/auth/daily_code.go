package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"fmt"
	"math/big"
	"time"

	"github.com/google/uuid"
)

// DailyCodeService derives the rotating admin override code. The code is
// deterministic per tenant and calendar day so every admin device shows
// the same value without coordination, and it cannot be predicted without
// the tenant seed.
type DailyCodeService struct {
	seed string
}

// NewDailyCodeService creates a new DailyCodeService
func NewDailyCodeService(seed string) *DailyCodeService {
	return &DailyCodeService{seed: seed}
}

// CodeFor returns the 6 digit admin code for the tenant on the given day
func (s *DailyCodeService) CodeFor(tenantID uuid.UUID, day time.Time) string {
	payload := fmt.Sprintf("%s-%s-%s", day.Format("2006-01-02"), tenantID, s.seed)
	sum := sha256.Sum256([]byte(payload))

	var v uint64
	for _, b := range sum[:5] {
		v = v<<8 | uint64(b)
	}
	return fmt.Sprintf("%06d", v%1000000)
}

// Verify checks a presented code against today's and, to absorb midnight
// rollover, yesterday's code.
func (s *DailyCodeService) Verify(tenantID uuid.UUID, code string, now time.Time) bool {
	today := s.CodeFor(tenantID, now)
	yesterday := s.CodeFor(tenantID, now.AddDate(0, 0, -1))

	matchToday := subtle.ConstantTimeCompare([]byte(today), []byte(code)) == 1
	matchYesterday := subtle.ConstantTimeCompare([]byte(yesterday), []byte(code)) == 1
	return matchToday || matchYesterday
}

// GenerateSecurityCode returns a random 6 digit code for per-sale
// confirmation, drawn from crypto/rand.
func GenerateSecurityCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", fmt.Errorf("failed to generate security code: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
