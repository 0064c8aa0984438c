package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeScrubsNaN(t *testing.T) {
	raw := PriceSnapshot{
		ProductName:   "Milk",
		ProductBrand:  "nan",
		ProductAmount: "nan",
		StoreAddress:  "nan",
		StoreRegion:   "copenhagen",
		Price:         "2.50",
	}

	clean := raw.Sanitize()
	assert.Equal(t, "Milk", clean.ProductName)
	assert.Equal(t, "", clean.ProductBrand)
	assert.Equal(t, "None", clean.ProductAmount)
	assert.Equal(t, "", clean.StoreAddress)
	assert.Equal(t, "copenhagen", clean.StoreRegion)
	assert.Equal(t, "2.50", clean.Price)
}

func TestSanitizeIsIdempotent(t *testing.T) {
	raw := PriceSnapshot{ProductBrand: "nan", ProductAmount: "nan"}

	once := raw.Sanitize()
	twice := once.Sanitize()
	assert.Equal(t, once, twice)

	// "None" must not collapse further on a second pass.
	assert.Equal(t, "None", twice.ProductAmount)
}

func TestSanitizeLeavesCleanValuesAlone(t *testing.T) {
	raw := PriceSnapshot{
		ProductName:   "Rye Bread",
		ProductBrand:  "Schulstad",
		ProductAmount: "950g",
		StoreName:     "Netto",
		Price:         "14.95",
	}
	assert.Equal(t, raw, raw.Sanitize())
}

func TestSessionIsAuthenticated(t *testing.T) {
	var nilSession *Session
	assert.False(t, nilSession.IsAuthenticated())
	assert.False(t, (&Session{ServerURL: "https://example.test"}).IsAuthenticated())
	assert.True(t, (&Session{Token: "tok"}).IsAuthenticated())
}
