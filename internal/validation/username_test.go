package validation_test

import (
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/EgehanKilicarslan/speertweet/backend-go/internal/validation"
)

func TestUsername(t *testing.T) {
	tests := []struct {
		name     string
		username string
		want     bool
	}{
		{"simple", "alice", true},
		{"allowed punctuation", "a.b@c+d-e_f", true},
		{"digits only", "12345", true},
		{"max length", strings.Repeat("a", validation.MaxUsernameLength), true},
		{"empty", "", false},
		{"too long", strings.Repeat("a", validation.MaxUsernameLength+1), false},
		{"space", "alice smith", false},
		{"slash", "alice/bob", false},
		{"accented letters", "josé", true},
		{"non-latin script", "аня_2024", true},
		{"reserved profile route", "me", false},
		{"reserved name is exact", "me2", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, validation.Username(tt.username))
		})
	}
}

func TestRegisterRules_UsesJSONFieldNames(t *testing.T) {
	v := validator.New()
	require.NoError(t, validation.RegisterRules(v))

	req := struct {
		ConfirmPassword string `json:"confirm_password" validate:"required"`
		Username        string `json:"username" validate:"username"`
	}{Username: "not valid"}

	err := v.Struct(req)
	require.Error(t, err)

	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)

	fields := map[string]string{}
	for _, fe := range verrs {
		fields[fe.Field()] = fe.Tag()
	}
	assert.Equal(t, map[string]string{"confirm_password": "required", "username": "username"}, fields)
}
