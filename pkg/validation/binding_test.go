package validation

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/require"
)

type phoneForm struct {
	Phone string `validate:"kwphone"`
}

func newPhoneValidator(t *testing.T) *validator.Validate {
	t.Helper()
	v := validator.New()
	require.NoError(t, v.RegisterValidation("kwphone", kuwaitPhone))
	return v
}

func TestKuwaitPhoneRule(t *testing.T) {
	v := newPhoneValidator(t)

	tests := []struct {
		phone string
		valid bool
	}{
		{"55512345", true},
		{"00000000", true},
		{"1234567", false},
		{"123456789", false},
		{"5551234a", false},
		{"+9655551", false},
		{"", false},
	}
	for _, tt := range tests {
		err := v.Struct(phoneForm{Phone: tt.phone})
		if tt.valid {
			require.NoError(t, err, tt.phone)
		} else {
			require.Error(t, err, tt.phone)
		}
	}
}

func TestKuwaitPhoneFailureTranslates(t *testing.T) {
	v := newPhoneValidator(t)

	err := v.Struct(phoneForm{Phone: "abc"})
	require.Error(t, err)

	messages := Translate(err)
	require.Equal(t, "phone must be exactly 8 digits", messages["phone"])
}

func TestRegisterBindings(t *testing.T) {
	require.NoError(t, RegisterBindings())
}
