package policy_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"rentlens/internal/policy"
)

func intp(v int) *int { return &v }

func TestDefaults(t *testing.T) {
	p := policy.Default()

	assert.Equal(t, 0.6, p.Confidence.Warn)
	assert.Equal(t, 0.3, p.Confidence.Error)
	assert.LessOrEqual(t, p.Confidence.Error, p.Confidence.Warn)

	assert.Equal(t, 300, p.Price.MinPrice)
	assert.Equal(t, 1700, p.Price.BaseMax)
	assert.Equal(t, 1000, p.Price.PerBedMax)
	assert.Equal(t, 9000, p.Price.CapMax)
	assert.Equal(t, 9000, p.Price.UnknownMax)

	assert.Equal(t, 0, p.Bedrooms.Min)
	assert.Equal(t, 10, p.Bedrooms.Max)
	assert.Equal(t, 1.0, p.Bathrooms.Min)
	assert.Equal(t, 10.0, p.Bathrooms.Max)
}

func TestMaxForBedrooms(t *testing.T) {
	pol := policy.DefaultPricePolicy()

	tests := []struct {
		name string
		beds *int
		want int
	}{
		{"unknown bedrooms uses unknown max", nil, 9000},
		{"zero bedrooms", intp(0), 1700},
		{"one bedroom", intp(1), 2700},
		{"two bedrooms", intp(2), 3700},
		{"seven bedrooms hits cap", intp(8), 9000},
		{"twenty bedrooms capped", intp(20), 9000},
		{"negative bedrooms clamped to zero", intp(-3), 1700},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, pol.MaxForBedrooms(tt.beds))
		})
	}
}

func TestMaxForBedrooms_CustomPolicy(t *testing.T) {
	pol := policy.PricePolicy{
		MinPrice:   100,
		BaseMax:    500,
		PerBedMax:  250,
		CapMax:     2000,
		UnknownMax: 1500,
	}

	assert.Equal(t, 1500, pol.MaxForBedrooms(nil))
	assert.Equal(t, 1000, pol.MaxForBedrooms(intp(2)))
	assert.Equal(t, 2000, pol.MaxForBedrooms(intp(10)))
}
