package content

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cleaninghq-app/internal/domain/sites"
)

func promptSite() *sites.SiteRequest {
	return &sites.SiteRequest{
		CompanyName:     "Sparkle Co",
		City:            "Austin",
		State:           "TX",
		ServiceTypes:    sites.StringList{"Office Cleaning", "Residential Cleaning"},
		YearsInBusiness: 7,
		Insured:         true,
		GoogleRating:    4.8,
	}
}

func TestSelectTone(t *testing.T) {
	warm := SelectTone([]string{"Residential Cleaning"})
	assert.Contains(t, warm, "warm")

	pro := SelectTone([]string{"Office Cleaning", "Medical Cleaning"})
	assert.Contains(t, pro, "compliance")

	dual := SelectTone([]string{"Residential Cleaning", "Office Cleaning"})
	assert.Contains(t, dual, "dual-tone")

	// Unknown services get the professional default.
	assert.Contains(t, SelectTone([]string{"Chimney Sweeping"}), "professional")
}

func TestBuildGenerationPromptPinsSlugs(t *testing.T) {
	s := promptSite()
	prompt, schema := BuildGenerationPrompt(s)

	assert.Contains(t, prompt, "Sparkle Co")
	assert.Contains(t, prompt, "Austin, TX")
	assert.Contains(t, prompt, `"office-cleaning-austin"`)
	assert.Contains(t, prompt, `"residential-cleaning-austin"`)

	pages := schema["properties"].(map[string]interface{})["pages"].(map[string]interface{})
	services := pages["properties"].(map[string]interface{})["services"].(map[string]interface{})
	assert.Equal(t, 2, services["minItems"])
	assert.Equal(t, 2, services["maxItems"])

	slugEnum := services["items"].(map[string]interface{})["properties"].(map[string]interface{})["slug"].(map[string]interface{})["enum"].([]interface{})
	assert.ElementsMatch(t, []interface{}{"office-cleaning-austin", "residential-cleaning-austin"}, slugEnum)
}

func TestBuildGenerationPromptWeavesIndustryGuidance(t *testing.T) {
	s := promptSite()
	s.IndustriesServed = sites.StringList{"Medical & Healthcare", "Gym & Fitness"}

	prompt, _ := BuildGenerationPrompt(s)
	assert.Contains(t, prompt, "INDUSTRY-SPECIFIC REQUIREMENTS")
	assert.Contains(t, prompt, "infection control")
	assert.Contains(t, prompt, "odor control")
	assert.Contains(t, prompt, "throughout ALL content")
}

func TestBuildGenerationPromptNoIndustries(t *testing.T) {
	prompt, _ := BuildGenerationPrompt(promptSite())
	assert.NotContains(t, prompt, "INDUSTRY-SPECIFIC REQUIREMENTS")
	assert.Contains(t, prompt, "Industries: General")
}

func TestAllowExternalContext(t *testing.T) {
	s := promptSite()
	assert.False(t, AllowExternalContext(s))

	empty := "   "
	s.ExistingWebsiteURL = &empty
	assert.False(t, AllowExternalContext(s))

	url := "https://old.sparkle.co"
	s.ExistingWebsiteURL = &url
	assert.True(t, AllowExternalContext(s))
}

func TestBuildEditPrompt(t *testing.T) {
	s := promptSite()
	prompt, schema := BuildEditPrompt(s, "make the headline catchier", "")

	assert.Contains(t, prompt, `"make the headline catchier"`)
	assert.Contains(t, prompt, "add_service")
	assert.NotContains(t, prompt, "uploaded file")

	action := schema["properties"].(map[string]interface{})["action"].(map[string]interface{})
	require.Contains(t, action["enum"], ActionChangeText)

	withFile, _ := BuildEditPrompt(s, "use this logo", "/uploads/logo.png")
	assert.Contains(t, withFile, "/uploads/logo.png")
}
