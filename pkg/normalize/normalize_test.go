package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRegion_AliasCollapse(t *testing.T) {
	assert.Equal(t, "tokyo", Region("Tokyo"))
	assert.Equal(t, "tokyo", Region("東京"))
	assert.Equal(t, "tokyo", Region("tokyo-to"))
	assert.Equal(t, "tokyo", Region("  TOKYO  "))
	assert.Equal(t, "osaka", Region("osaka "))
	assert.Equal(t, "osaka", Region("大阪"))
}

func TestRegion_UnknownPassesThroughCleaned(t *testing.T) {
	assert.Equal(t, "testcity", Region(" TestCity "))
	assert.Equal(t, "little rock", Region("Little  Rock"))
}

func TestCategory_AliasCollapse(t *testing.T) {
	assert.Equal(t, "cardiology", Category("heart doctor"))
	assert.Equal(t, "cardiology", Category("Cardiology"))
	assert.Equal(t, "cardiology", Category("循環器科"))
	assert.Equal(t, "dentistry", Category("Dental Clinic"))
	assert.Equal(t, "internal medicine", Category("GP"))
}

func TestSlug(t *testing.T) {
	assert.Equal(t, "testcity", Slug("TestCity"))
	assert.Equal(t, "internal_medicine", Slug("Internal Medicine"))
	assert.Equal(t, "shinjuku_ku", Slug("Shinjuku-ku"))
}

func TestValidate_NoCircularAliases(t *testing.T) {
	assert.NoError(t, Validate())
}
