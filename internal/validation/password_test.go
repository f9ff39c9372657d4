package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidatePassword_Length(t *testing.T) {
	t.Parallel()

	err := ValidatePassword("Np5!short")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at least 12")

	// Length is counted in runes, not bytes
	assert.NoError(t, ValidatePassword("Pässwörter1!"))

	ceiling := "Zz1!" + strings.Repeat("x", 124)
	assert.NoError(t, ValidatePassword(ceiling))

	err = ValidatePassword(ceiling + "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at most 128")
}

func TestValidatePassword_CharacterClasses(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		password string
		missing  string
	}{
		{"All Classes Present", "correct-Horse7battery", ""},
		{"Symbol Counts As Special", "correct+Horse7battery", ""},
		{"No Uppercase", "quiet.village9morning", "uppercase"},
		{"No Lowercase", "QUIET.VILLAGE9MORNING", "lowercase"},
		{"No Digit", "quiet.Village!morning", "digit"},
		{"No Special", "quietVillage9morning", "special"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePassword(tt.password)
			if tt.missing == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.missing)
		})
	}
}

func TestValidateUsername(t *testing.T) {
	t.Parallel()

	for _, valid := range []string{"ana", "market-fan_42", strings.Repeat("x", 30)} {
		assert.NoError(t, ValidateUsername(valid), valid)
	}

	// Too short, too long, bad boundary characters, illegal characters
	invalid := []string{
		"ab",
		strings.Repeat("x", 31),
		"_leading",
		"trailing-",
		"spaced name",
		"café",
	}
	for _, username := range invalid {
		assert.Error(t, ValidateUsername(username), username)
	}
}

func TestValidateEmail(t *testing.T) {
	t.Parallel()

	assert.NoError(t, ValidateEmail("ana@example.com"))
	assert.NoError(t, ValidateEmail("ana+tag@mail.example.co"))

	// 254 is the RFC ceiling, one more is rejected before the format check
	local := strings.Repeat("a", 64)
	domain := strings.Repeat("b", 185) + ".com"
	assert.NoError(t, ValidateEmail(local+"@"+domain))
	assert.Error(t, ValidateEmail(local+"a@"+domain))

	for _, email := range []string{"bare-string", "ana@", "@example.com", "ana@@example.com", "ana [a]t example.com", "ana@example.com."} {
		assert.Error(t, ValidateEmail(email), email)
	}
}
