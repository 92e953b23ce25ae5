package dto

import (
	"github.com/wb-go/wbf/ginext"

	"reunion/internal/model"
)

const (
	FieldBadFormat     = "FIELD_BADFORMAT"
	FieldIncorrect     = "FIELD_INCORRECT"
	DangerousInput     = "DANGEROUS_INPUT"
	FeeMismatch        = "FEE_MISMATCH"
	InvalidFile        = "INVALID_FILE"
	Unauthorized       = "UNAUTHORIZED"
	ServiceUnavailable = "SERVICE_UNAVAILABLE"
	InternalError      = "Service is currently unavailable. Please try again later."

	RegistrationNotFound = "REGISTRATION_NOT_FOUND"
	AnnouncementNotFound = "ANNOUNCEMENT_NOT_FOUND"

	// One generic message for every denylist hit anywhere in the
	// payload. Deliberately names no field.
	DangerousInputMessage = "Invalid or dangerous input detected"
)

type AlumniPersonalPayload struct {
	Name           string `json:"name" validate:"required,max=100,personname"`
	Roll           int    `json:"roll" validate:"required,positive"`
	RegistrationNo int    `json:"registrationNo" validate:"required,positive"`
	Session        string `json:"session" validate:"required,max=10,session"`
	PassingYear    int    `json:"passingYear" validate:"required,positive"`
}

type StudentPersonalPayload struct {
	Name           string `json:"name" validate:"required,max=100,personname"`
	Roll           int    `json:"roll" validate:"required,positive"`
	RegistrationNo int    `json:"registrationNo" validate:"required,positive"`
	Session        string `json:"session" validate:"required,max=10,session"`
}

type ContactPayload struct {
	Mobile         string `json:"mobile" validate:"required,mobilebd"`
	Email          string `json:"email" validate:"required,email"`
	CurrentAddress string `json:"currentAddress" validate:"required,max=255,address"`
}

type EmploymentPayload struct {
	Designation  string `json:"designation" validate:"omitempty,personname"`
	Organization string `json:"organization" validate:"omitempty,personname"`
	From         string `json:"from" validate:"omitempty,max=20"`
	To           string `json:"to" validate:"omitempty,max=20"`
}

type AlumniParticipantsPayload struct {
	Adult int `json:"adult" validate:"gte=1"`
	Child int `json:"child" validate:"gte=0"`
	Total int `json:"total" validate:"gte=1"`
}

// Students register alone: the schema itself pins the counts, the fee
// calculator never sees anything else.
type StudentParticipantsPayload struct {
	Adult int `json:"adult" validate:"eq=1"`
	Child int `json:"child" validate:"eq=0"`
	Total int `json:"total" validate:"eq=1"`
}

type PaymentPayload struct {
	TotalAmount       int    `json:"totalAmount" validate:"required,positive"`
	MobileBankingName string `json:"mobileBankingName" validate:"required,max=50"`
	TransactionID     string `json:"transactionId" validate:"required,max=100"`
}

type RegisterAlumniRequest struct {
	PersonalInfo     AlumniPersonalPayload     `json:"personalInfo"`
	ContactInfo      ContactPayload            `json:"contactInfo"`
	ProfessionalInfo *EmploymentPayload        `json:"professionalInfo"`
	PrevProfessional *EmploymentPayload        `json:"prevProfessionalInfo"`
	Participants     AlumniParticipantsPayload `json:"numberOfParticipantInfo"`
	PaymentInfo      PaymentPayload            `json:"paymentInfo"`
}

type RegisterStudentRequest struct {
	PersonalInfo StudentPersonalPayload     `json:"personalInfo"`
	ContactInfo  ContactPayload             `json:"contactInfo"`
	Participants StudentParticipantsPayload `json:"numberOfParticipantInfo"`
	PaymentInfo  PaymentPayload             `json:"paymentInfo"`
}

// UpdateRegistrationRequest is the admin patch: only the sections that
// are present replace the stored ones. No schema re-validation runs on
// updates, matching the creation-only fee and format guarantees.
type UpdateRegistrationRequest struct {
	PersonalInfo     *model.PersonalInfo    `json:"personalInfo"`
	ContactInfo      *model.ContactInfo     `json:"contactInfo"`
	ProfessionalInfo *model.EmploymentInfo  `json:"professionalInfo"`
	PrevProfessional *model.EmploymentInfo  `json:"prevProfessionalInfo"`
	Participants     *model.ParticipantInfo `json:"numberOfParticipantInfo"`
	PaymentInfo      *model.PaymentInfo     `json:"paymentInfo"`
}

type CreateAnnouncementRequest struct {
	Title string `json:"title" validate:"required,max=150"`
	Body  string `json:"body" validate:"required"`
}

// PaymentNotification is the queue message produced on a payment
// status transition and consumed by the mail worker.
type PaymentNotification struct {
	RegistrationID int64 `json:"registration_id"`
	Status         int   `json:"status"`
}

type PaymentCheckResponse struct {
	Roll           int    `json:"roll"`
	RegistrationNo int    `json:"registrationNo"`
	TransactionID  string `json:"transactionId"`
	Status         int    `json:"status"`
}

type FeeMismatchData struct {
	ExpectedFee int `json:"expectedFee"`
	ProvidedFee int `json:"providedFee"`
}

type Response struct {
	Status string `json:"status"`
	Error  *Error `json:"error,omitempty"`
	Data   any    `json:"data,omitempty"`
}

type Error struct {
	Code string `json:"code"`
	Desc string `json:"desc"`
}

func BadResponseError(c *ginext.Context, code, desc string) {
	c.JSON(400, Response{
		Status: "error",
		Error: &Error{
			Code: code,
			Desc: desc,
		},
	})
}

func InternalServerError(c *ginext.Context) {
	c.JSON(500, Response{
		Status: "error",
		Error: &Error{
			Code: ServiceUnavailable,
			Desc: InternalError,
		},
	})
}

func DangerousInputError(c *ginext.Context) {
	BadResponseError(c, DangerousInput, DangerousInputMessage)
}

// FeeMismatchError discloses both numbers: the fee schedule is public,
// and legitimate registrants need the expected value to fix their form.
func FeeMismatchError(c *ginext.Context, expected, provided int) {
	c.JSON(400, Response{
		Status: "error",
		Error: &Error{
			Code: FeeMismatch,
			Desc: "Submitted totalAmount does not match the expected registration fee",
		},
		Data: FeeMismatchData{ExpectedFee: expected, ProvidedFee: provided},
	})
}

func NotFoundError(c *ginext.Context, code, desc string) {
	c.JSON(404, Response{
		Status: "error",
		Error: &Error{
			Code: code,
			Desc: desc,
		},
	})
}

func RegistrationNotFoundError(c *ginext.Context) {
	NotFoundError(c, RegistrationNotFound, "Registration not found")
}

func AnnouncementNotFoundError(c *ginext.Context) {
	NotFoundError(c, AnnouncementNotFound, "Announcement not found")
}

func UnauthorizedError(c *ginext.Context) {
	c.AbortWithStatusJSON(401, Response{
		Status: "error",
		Error: &Error{
			Code: Unauthorized,
			Desc: "Admin token is missing or invalid",
		},
	})
}

func SuccessResponse(c *ginext.Context, data any) {
	c.JSON(200, Response{
		Status: "ok",
		Data:   data,
	})
}

func SuccessCreatedResponse(c *ginext.Context, data any) {
	c.JSON(201, Response{
		Status: "ok",
		Data:   data,
	})
}
