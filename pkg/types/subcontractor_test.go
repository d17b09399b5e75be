package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "jo@acme.com", NormalizeEmail("  Jo@Acme.COM "))
	assert.Equal(t, "jo@acme.com", NormalizeEmail("jo@acme.com"))
}

func TestValidEmail(t *testing.T) {
	assert.True(t, ValidEmail("jo@acme.com"))
	assert.True(t, ValidEmail("first.last@sub.acme.co"))
	assert.False(t, ValidEmail("jo@acme"))
	assert.False(t, ValidEmail("not-an-email"))
	assert.False(t, ValidEmail("jo lee@acme.com"))
	assert.False(t, ValidEmail(""))
}

func TestSubcontractorValidate(t *testing.T) {
	valid := func() *Subcontractor {
		return &Subcontractor{
			BusinessName:     "Acme",
			ContactFirstName: "Jo",
			ContactLastName:  "Lee",
			ContactEmail:     "jo@acme.com",
		}
	}

	require.NoError(t, valid().Validate())

	sub := valid()
	sub.BusinessName = "  "
	require.ErrorIs(t, sub.Validate(), ErrValidation)

	sub = valid()
	sub.ContactFirstName = ""
	require.ErrorIs(t, sub.Validate(), ErrValidation)

	sub = valid()
	sub.ContactEmail = "bad-email"
	require.ErrorIs(t, sub.Validate(), ErrValidation)

	sub = valid()
	sub.InsuranceContactEmail = strPtr("also-bad")
	require.ErrorIs(t, sub.Validate(), ErrValidation)

	// optional insurance fields may be empty
	sub = valid()
	sub.InsuranceContactEmail = strPtr("")
	require.NoError(t, sub.Validate())
}

func TestSubcontractorPatchChanges(t *testing.T) {
	t.Run("only supplied fields change", func(t *testing.T) {
		patch := &SubcontractorPatch{ContactPhone: strPtr(" 555-0100 ")}

		changes, err := patch.Changes()
		require.NoError(t, err)
		require.Len(t, changes, 1)
		assert.Equal(t, "555-0100", changes["contact_phone"])
	})

	t.Run("empty patch changes nothing", func(t *testing.T) {
		changes, err := (&SubcontractorPatch{}).Changes()
		require.NoError(t, err)
		assert.Empty(t, changes)
	})

	t.Run("email is normalized", func(t *testing.T) {
		patch := &SubcontractorPatch{ContactEmail: strPtr(" Jo@Acme.COM ")}

		changes, err := patch.Changes()
		require.NoError(t, err)
		assert.Equal(t, "jo@acme.com", changes["contact_email"])
	})

	t.Run("invalid email rejected", func(t *testing.T) {
		patch := &SubcontractorPatch{ContactEmail: strPtr("nope")}

		_, err := patch.Changes()
		require.ErrorIs(t, err, ErrValidation)
	})

	t.Run("required field cannot be blanked", func(t *testing.T) {
		patch := &SubcontractorPatch{BusinessName: strPtr("  ")}

		_, err := patch.Changes()
		require.ErrorIs(t, err, ErrValidation)
	})
}
