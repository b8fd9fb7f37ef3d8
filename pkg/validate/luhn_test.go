package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsLuhn(t *testing.T) {
	tests := []struct {
		name  string
		code  string
		valid bool
	}{
		{"Valid code", "79927398713", true},
		{"Wrong check digit", "79927398710", false},
		{"Short valid code", "26", true},
		{"Non-numeric input", "12a45", false},
		{"Empty string", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.valid, IsLuhn(tt.code))
		})
	}
}

func TestGenerateCode(t *testing.T) {
	for _, length := range []int{2, 4, 8, 12} {
		code := GenerateCode(length)
		assert.Len(t, code, length)
		assert.True(t, IsLuhn(code), "generated code %q should pass the check digit", code)
	}
}

func TestGenerateCodeMinimumLength(t *testing.T) {
	code := GenerateCode(0)
	assert.Len(t, code, 2)
	assert.True(t, IsLuhn(code))
}
