package content

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDeriveSlug(t *testing.T) {
	assert.Equal(t, "office-cleaning-austin", DeriveSlug("Office Cleaning", "Austin"))
	assert.Equal(t, "residential-cleaning-san-antonio", DeriveSlug("Residential Cleaning", "San Antonio"))
}

func TestDeriveSlugDeterministic(t *testing.T) {
	a := DeriveSlug("Commercial Cleaning", "Dallas")
	for i := 0; i < 10; i++ {
		assert.Equal(t, a, DeriveSlug("Commercial Cleaning", "Dallas"))
	}
}

func TestDeriveSlugMixedSeparators(t *testing.T) {
	slug := DeriveSlug("Move-In / Move-Out Cleaning", "Austin")
	assert.Equal(t, "move-in-move-out-cleaning-austin", slug)
	assert.NotContains(t, slug, "--")
	assert.NotContains(t, slug, " ")
	assert.NotContains(t, slug, "/")
}

func TestDeriveSlugWhitespaceVariants(t *testing.T) {
	base := DeriveSlug("Office Cleaning", "Austin")
	assert.Equal(t, base, DeriveSlug("  Office Cleaning  ", "Austin"))
	assert.Equal(t, base, DeriveSlug("Office   Cleaning", " Austin "))
	assert.Equal(t, base, DeriveSlug("office cleaning", "AUSTIN"))
}

func TestDeriveContentKeyKeepsLegacyShape(t *testing.T) {
	assert.Equal(t, "office_cleaning", DeriveContentKey("Office Cleaning"))
	// Slash-separated names historically produced a doubled underscore;
	// stored documents are keyed by it, so it must not change.
	assert.Equal(t, "move-in__move-out_cleaning", DeriveContentKey("Move-In / Move-Out Cleaning"))
}

func TestCompanySlug(t *testing.T) {
	assert.Equal(t, "sparkle-shine-co", CompanySlug("Sparkle & Shine Co."))
	assert.Equal(t, "site", CompanySlug("!!!"))
	assert.Equal(t, "site", CompanySlug(""))
}
