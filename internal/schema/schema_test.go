package schema_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rentlens/internal/schema"
)

func TestRentalRecord_DecodeLLMOutput(t *testing.T) {
	raw := `{
		"price_monthly": {"value": 2500, "evidence": "$2,500/mo", "confidence": 0.95},
		"bedrooms": {"value": 2, "evidence": "2BR", "confidence": 0.9},
		"bathrooms": {"value": 1.5, "evidence": "1.5 bath", "confidence": 0.85},
		"address": {"value": null, "evidence": null, "confidence": 0.15},
		"utilities_text": {"value": "water included", "confidence": 0.7}
	}`

	var rec schema.RentalRecord
	require.NoError(t, json.Unmarshal([]byte(raw), &rec))

	require.NotNil(t, rec.PriceMonthly.Value)
	assert.Equal(t, 2500, *rec.PriceMonthly.Value)
	require.NotNil(t, rec.PriceMonthly.Evidence)
	assert.Equal(t, "$2,500/mo", *rec.PriceMonthly.Evidence)
	assert.InDelta(t, 0.95, rec.PriceMonthly.Confidence, 1e-9)

	require.NotNil(t, rec.Bathrooms.Value)
	assert.InDelta(t, 1.5, *rec.Bathrooms.Value, 1e-9)

	// null value decodes to nil pointer; confidence still carried
	assert.Nil(t, rec.Address.Value)
	assert.Nil(t, rec.Address.Evidence)
	assert.InDelta(t, 0.15, rec.Address.Confidence, 1e-9)

	// evidence key absent entirely
	require.NotNil(t, rec.UtilitiesText.Value)
	assert.Nil(t, rec.UtilitiesText.Evidence)
}

func TestRentalRecord_MissingFieldsZeroValued(t *testing.T) {
	var rec schema.RentalRecord
	require.NoError(t, json.Unmarshal([]byte(`{}`), &rec))

	assert.Nil(t, rec.PriceMonthly.Value)
	assert.Zero(t, rec.PriceMonthly.Confidence)
	assert.Nil(t, rec.Bedrooms.Value)
}

func TestExtracted_EvidenceOmittedWhenNil(t *testing.T) {
	e := schema.Extracted[int]{Confidence: 0.4}
	data, err := json.Marshal(e)
	require.NoError(t, err)

	assert.JSONEq(t, `{"value":null,"confidence":0.4}`, string(data))
}
