package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/numberfinder/backend/internal/domain"
)

func TestPercent(t *testing.T) {
	tests := []struct {
		uploaded, total, want int
	}{
		{0, 20, 0},
		{5, 20, 25},
		{20, 20, 100},
		{5, 7, 71},
		{1, 3, 33},
		{2, 3, 67},
		{0, 0, 100},
		{0, -1, 100},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, domain.Percent(tc.uploaded, tc.total), "Percent(%d, %d)", tc.uploaded, tc.total)
	}
}

func TestUploadPhase_Busy(t *testing.T) {
	assert.True(t, domain.PhaseGenerating.Busy())
	assert.True(t, domain.PhaseUploading.Busy())
	assert.False(t, domain.PhaseIdle.Busy())
	assert.False(t, domain.PhaseCompleted.Busy())
	assert.False(t, domain.PhaseAborted.Busy())
}

func TestNewContactFilter(t *testing.T) {
	f, ok := domain.NewContactFilter("  Ahmad \t")
	assert.True(t, ok)
	assert.Equal(t, "Ahmad", f.Term)

	_, ok = domain.NewContactFilter(" \n ")
	assert.False(t, ok)
}

func TestClampLimit(t *testing.T) {
	assert.Equal(t, domain.MaxSearchResults, domain.ClampLimit(0))
	assert.Equal(t, domain.MaxSearchResults, domain.ClampLimit(-3))
	assert.Equal(t, domain.MaxSearchResults, domain.ClampLimit(500))
	assert.Equal(t, 7, domain.ClampLimit(7))
}

func TestValidateContact(t *testing.T) {
	require.NoError(t, domain.ValidateContact(domain.Contact{Name: "Sara Ali", Phone: "0501234567"}))

	err := domain.ValidateContact(domain.Contact{Name: "  ", Phone: "0501234567"})
	assert.ErrorIs(t, err, domain.ErrValidation)

	err = domain.ValidateContact(domain.Contact{Name: "Sara Ali"})
	assert.ErrorIs(t, err, domain.ErrValidation)
}
