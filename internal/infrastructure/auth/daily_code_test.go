package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDailyCodeService_CodeFor(t *testing.T) {
	svc := NewDailyCodeService("unit-test-seed")
	tenantID := uuid.New()
	day := time.Date(2025, 5, 12, 14, 30, 0, 0, time.UTC)

	t.Run("is deterministic within a day", func(t *testing.T) {
		morning := time.Date(2025, 5, 12, 8, 0, 0, 0, time.UTC)
		evening := time.Date(2025, 5, 12, 22, 0, 0, 0, time.UTC)

		assert.Equal(t, svc.CodeFor(tenantID, morning), svc.CodeFor(tenantID, evening))
	})

	t.Run("is 6 digits", func(t *testing.T) {
		code := svc.CodeFor(tenantID, day)

		assert.Len(t, code, 6)
		for _, c := range code {
			assert.True(t, c >= '0' && c <= '9')
		}
	})

	t.Run("changes across days", func(t *testing.T) {
		assert.NotEqual(t, svc.CodeFor(tenantID, day), svc.CodeFor(tenantID, day.AddDate(0, 0, 1)))
	})

	t.Run("differs per tenant", func(t *testing.T) {
		assert.NotEqual(t, svc.CodeFor(tenantID, day), svc.CodeFor(uuid.New(), day))
	})

	t.Run("differs per seed", func(t *testing.T) {
		other := NewDailyCodeService("another-seed")

		assert.NotEqual(t, svc.CodeFor(tenantID, day), other.CodeFor(tenantID, day))
	})
}

func TestDailyCodeService_Verify(t *testing.T) {
	svc := NewDailyCodeService("unit-test-seed")
	tenantID := uuid.New()
	now := time.Date(2025, 5, 12, 0, 5, 0, 0, time.UTC)

	t.Run("accepts today's code", func(t *testing.T) {
		assert.True(t, svc.Verify(tenantID, svc.CodeFor(tenantID, now), now))
	})

	t.Run("accepts yesterday's code shortly after midnight", func(t *testing.T) {
		yesterday := svc.CodeFor(tenantID, now.AddDate(0, 0, -1))

		assert.True(t, svc.Verify(tenantID, yesterday, now))
	})

	t.Run("rejects stale and wrong codes", func(t *testing.T) {
		twoDaysAgo := svc.CodeFor(tenantID, now.AddDate(0, 0, -2))

		assert.False(t, svc.Verify(tenantID, twoDaysAgo, now))
		assert.False(t, svc.Verify(tenantID, "000000", now))
	})
}

func TestGenerateSecurityCode(t *testing.T) {
	t.Run("produces 6 digit codes", func(t *testing.T) {
		for i := 0; i < 20; i++ {
			code, err := GenerateSecurityCode()
			require.NoError(t, err)
			assert.Len(t, code, 6)
			for _, c := range code {
				assert.True(t, c >= '0' && c <= '9')
			}
		}
	})
}
