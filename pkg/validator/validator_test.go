package validator

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reunion/internal/dto"
)

func validAlumniRequest() dto.RegisterAlumniRequest {
	return dto.RegisterAlumniRequest{
		PersonalInfo: dto.AlumniPersonalPayload{
			Name:           "John Doe",
			Roll:           123,
			RegistrationNo: 456,
			Session:        "2012-2013",
			PassingYear:    2016,
		},
		ContactInfo: dto.ContactPayload{
			Mobile:         "01712345678",
			Email:          "john@example.com",
			CurrentAddress: "12/A, Green Road, Dhaka",
		},
		Participants: dto.AlumniParticipantsPayload{Adult: 2, Child: 1, Total: 3},
		PaymentInfo: dto.PaymentPayload{
			TotalAmount:       2300,
			MobileBankingName: "bKash",
			TransactionID:     "TX12345",
		},
	}
}

func TestValidateAlumniRequest(t *testing.T) {
	ctx := context.Background()

	t.Run("valid request passes", func(t *testing.T) {
		require.NoError(t, Validate(ctx, validAlumniRequest()))
	})

	t.Run("name with digits fails", func(t *testing.T) {
		req := validAlumniRequest()
		req.PersonalInfo.Name = "John 2nd"
		err := Validate(ctx, req)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Only letters and spaces")
	})

	t.Run("name with markup fails after stripping", func(t *testing.T) {
		req := validAlumniRequest()
		req.PersonalInfo.Name = "Jo<b>hn1</b>"
		assert.Error(t, Validate(ctx, req))
	})

	t.Run("mobile must be eleven digits", func(t *testing.T) {
		req := validAlumniRequest()
		req.ContactInfo.Mobile = "017123"
		err := Validate(ctx, req)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "11 digits")
	})

	t.Run("bad email", func(t *testing.T) {
		req := validAlumniRequest()
		req.ContactInfo.Email = "not-an-email"
		assert.Error(t, Validate(ctx, req))
	})

	t.Run("non consecutive session years", func(t *testing.T) {
		req := validAlumniRequest()
		req.PersonalInfo.Session = "2012-2015"
		err := Validate(ctx, req)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "academic year")
	})

	t.Run("session before the university existed", func(t *testing.T) {
		req := validAlumniRequest()
		req.PersonalInfo.Session = "1800-1801"
		assert.Error(t, Validate(ctx, req))
	})

	t.Run("session in the future", func(t *testing.T) {
		req := validAlumniRequest()
		req.PersonalInfo.Session = "3000-3001"
		assert.Error(t, Validate(ctx, req))
	})

	t.Run("address with disallowed characters", func(t *testing.T) {
		req := validAlumniRequest()
		req.ContactInfo.CurrentAddress = "Green Road; DROP TABLE"
		assert.Error(t, Validate(ctx, req))
	})

	t.Run("missing passing year", func(t *testing.T) {
		req := validAlumniRequest()
		req.PersonalInfo.PassingYear = 0
		assert.Error(t, Validate(ctx, req))
	})

	t.Run("negative roll", func(t *testing.T) {
		req := validAlumniRequest()
		req.PersonalInfo.Roll = -5
		assert.Error(t, Validate(ctx, req))
	})

	t.Run("first violation wins", func(t *testing.T) {
		req := validAlumniRequest()
		req.PersonalInfo.Name = "John 2nd"
		req.ContactInfo.Mobile = "bad"
		err := Validate(ctx, req)
		require.Error(t, err)
		// One message, not an accumulated list.
		assert.Equal(t, 1, strings.Count(err.Error(), ":"))
	})
}

func TestValidateStudentRequest(t *testing.T) {
	ctx := context.Background()

	valid := dto.RegisterStudentRequest{
		PersonalInfo: dto.StudentPersonalPayload{
			Name:           "Jane Roe",
			Roll:           321,
			RegistrationNo: 654,
			Session:        "2022-2023",
		},
		ContactInfo: dto.ContactPayload{
			Mobile:         "01812345678",
			Email:          "jane@example.com",
			CurrentAddress: "Hall 3, Campus Road",
		},
		Participants: dto.StudentParticipantsPayload{Adult: 1, Child: 0, Total: 1},
		PaymentInfo: dto.PaymentPayload{
			TotalAmount:       500,
			MobileBankingName: "Nagad",
			TransactionID:     "TX99",
		},
	}
	require.NoError(t, Validate(ctx, valid))

	t.Run("extra adults rejected by schema", func(t *testing.T) {
		req := valid
		req.Participants.Adult = 2
		assert.Error(t, Validate(ctx, req))
	})

	t.Run("children rejected by schema", func(t *testing.T) {
		req := valid
		req.Participants.Child = 1
		assert.Error(t, Validate(ctx, req))
	})
}
