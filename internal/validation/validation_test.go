package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-esg-platform/internal/model"
	"go-esg-platform/pkg/apierror"
)

func fieldsOf(t *testing.T, err error) []apierror.FieldError {
	t.Helper()

	var apiErr *apierror.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, apierror.CodeValidation, apiErr.Code)
	return apiErr.Fields
}

func TestStruct_ChangePassword(t *testing.T) {
	t.Parallel()

	require.NoError(t, Struct(model.ChangePasswordRequest{
		CurrentPassword: "old", NewPassword: "secret1", ConfirmNewPassword: "secret1",
	}))

	fields := fieldsOf(t, Struct(model.ChangePasswordRequest{
		CurrentPassword: "old", NewPassword: "abc", ConfirmNewPassword: "abd",
	}))
	require.Len(t, fields, 2)
	assert.Equal(t, "newPassword", fields[0].Field)
	assert.Equal(t, "New password must be at least 6 characters long", fields[0].Message)
	assert.Equal(t, "confirmNewPassword", fields[1].Field)
	assert.Equal(t, "Confirm new password must match new password", fields[1].Message)
}

func TestStruct_LoginEmail(t *testing.T) {
	t.Parallel()

	fields := fieldsOf(t, Struct(model.LoginRequest{Email: "nope"}))
	require.Len(t, fields, 2)
	assert.Equal(t, "Email must be a valid email address", fields[0].Message)
	assert.Equal(t, "Password is required", fields[1].Message)
}

func TestRequired(t *testing.T) {
	t.Parallel()

	out := Required(map[string]string{"companyName": "Acme", "contactPerson": "  "}, "companyName", "contactPerson")
	require.Len(t, out, 1)
	assert.Equal(t, "contactPerson", out[0].Field)
	assert.Equal(t, "Contact person is required", out[0].Message)
}

func TestHumanize(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Organization name", humanize("organizationName"))
	assert.Equal(t, "Email", humanize("email"))
}
