package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"github.com/wb-go/wbf/ginext"

	"reunion/internal/dto"
	"reunion/internal/fee"
	"reunion/internal/model"
	"reunion/internal/normalize"
	"reunion/internal/repo"
	"reunion/internal/sanitize"
	"reunion/internal/upload"
	"reunion/pkg/validator"
)

type Service interface {
	RegisterAlumni(ctx *ginext.Context)
	RegisterStudent(ctx *ginext.Context)
	ListAlumni(ctx *ginext.Context)
	ListStudents(ctx *ginext.Context)
	GetRegistration(ctx *ginext.Context)
	UpdatePaymentStatus(ctx *ginext.Context)
	UpdateRegistration(ctx *ginext.Context)
	DeleteRegistration(ctx *ginext.Context)
	CheckPayment(ctx *ginext.Context)
	CreateAnnouncement(ctx *ginext.Context)
	ListAnnouncements(ctx *ginext.Context)
	DeleteAnnouncement(ctx *ginext.Context)
}

// Publisher abstracts the notification queue so handlers can be tested
// without a broker. *rabbit.Client satisfies it.
type Publisher interface {
	Publish(message []byte) error
}

type service struct {
	repo  repo.Repository
	log   *zerolog.Logger
	queue Publisher
	fees  *fee.Calculator
	guard *upload.Guard
}

func NewService(repository repo.Repository, logger *zerolog.Logger, queue Publisher, fees *fee.Calculator, guard *upload.Guard) Service {
	return &service{
		repo:  repository,
		log:   logger,
		queue: queue,
		fees:  fees,
		guard: guard,
	}
}

// Sections every registration must carry, checked in this order so the
// first missing one names the failure.
var requiredSections = []string{
	"personalInfo",
	"contactInfo",
	"numberOfParticipantInfo",
	"paymentInfo",
}

// decodeForm runs the shared front half of the registration pipeline:
// multipart parse, per-field JSON normalization, denylist sanitation,
// typed decode (numeric-looking strings fail here, by type) and the
// fail-fast schema validation. On any failure the response is already
// written and false is returned.
func (s *service) decodeForm(ctx *ginext.Context, dst any) bool {
	form, err := ctx.MultipartForm()
	if err != nil {
		dto.BadResponseError(ctx, dto.FieldBadFormat, "Invalid multipart form")
		return false
	}

	fields := normalize.Form(form.Value)

	// The denylist runs before any structural checks: a payload carrying
	// an injection attempt gets the generic rejection even when it is
	// also incomplete.
	if !sanitize.Payload(fields) {
		dto.DangerousInputError(ctx)
		return false
	}

	for _, section := range requiredSections {
		if _, ok := fields[section]; !ok {
			dto.BadResponseError(ctx, dto.FieldIncorrect, section+" is required")
			return false
		}
	}

	raw, err := json.Marshal(fields)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to re-encode normalized form")
		dto.InternalServerError(ctx)
		return false
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		dto.BadResponseError(ctx, dto.FieldBadFormat, "Field has wrong type")
		return false
	}

	if verr := validator.Validate(ctx, dst); verr != nil {
		dto.BadResponseError(ctx, dto.FieldIncorrect, fmt.Sprintf("%v", verr))
		return false
	}
	return true
}

func (s *service) readImage(ctx *ginext.Context) ([]byte, bool) {
	fileHeader, err := ctx.FormFile("image")
	if err != nil {
		dto.BadResponseError(ctx, dto.InvalidFile, "Profile picture is required")
		return nil, false
	}
	f, err := fileHeader.Open()
	if err != nil {
		s.log.Error().Err(err).Msg("failed to open uploaded file")
		dto.InternalServerError(ctx)
		return nil, false
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to read uploaded file")
		dto.InternalServerError(ctx)
		return nil, false
	}
	return data, true
}

func (s *service) respondUploadError(ctx *ginext.Context, err error) {
	switch {
	case errors.Is(err, upload.ErrNoFile):
		dto.BadResponseError(ctx, dto.InvalidFile, "Profile picture is required")
	case errors.Is(err, upload.ErrInvalidType):
		dto.BadResponseError(ctx, dto.InvalidFile, "Invalid file type")
	case errors.Is(err, upload.ErrDangerousContent):
		dto.DangerousInputError(ctx)
	case errors.Is(err, upload.ErrTooLarge):
		dto.BadResponseError(ctx, dto.InvalidFile, "File exceeds maximum allowed size")
	default:
		s.log.Error().Err(err).Msg("failed to store profile picture")
		dto.InternalServerError(ctx)
	}
}

// attachImage stores the verified image and records the filename. Any
// failure after the record exists rolls the registration back: a
// registration without a photo must never survive.
func (s *service) attachImage(ctx *ginext.Context, id int64, data []byte) bool {
	filename, err := s.guard.Store(data)
	if err != nil {
		if derr := s.repo.DeleteRegistration(ctx.Request.Context(), id); derr != nil {
			s.log.Error().Err(derr).Int64("registration_id", id).Msg("failed to roll back registration after image failure")
		}
		s.respondUploadError(ctx, err)
		return false
	}

	if err := s.repo.SetProfileImage(ctx.Request.Context(), id, filename); err != nil {
		s.guard.Remove(filename)
		if derr := s.repo.DeleteRegistration(ctx.Request.Context(), id); derr != nil {
			s.log.Error().Err(derr).Int64("registration_id", id).Msg("failed to roll back registration after image failure")
		}
		s.log.Error().Err(err).Msg("failed to record profile image")
		dto.InternalServerError(ctx)
		return false
	}
	return true
}

func (s *service) register(ctx *ginext.Context, reg *model.Registration, expected, provided int) {
	if expected != provided {
		dto.FeeMismatchError(ctx, expected, provided)
		return
	}

	// The picture is mandatory, so its presence is checked before the
	// record is created; content validation still happens afterwards,
	// with a compensating delete on failure.
	image, ok := s.readImage(ctx)
	if !ok {
		return
	}

	id, err := s.repo.CreateRegistration(ctx.Request.Context(), reg)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to create registration in DB")
		dto.InternalServerError(ctx)
		return
	}

	if !s.attachImage(ctx, id, image) {
		return
	}

	stored, err := s.repo.GetRegistrationByID(ctx.Request.Context(), id)
	if err != nil {
		s.log.Error().Err(err).Int64("registration_id", id).Msg("failed to load stored registration")
		dto.InternalServerError(ctx)
		return
	}

	s.log.Info().Int64("registration_id", id).Str("role", reg.Role).Msg("registration created successfully")
	dto.SuccessCreatedResponse(ctx, stored)
}

func (s *service) RegisterAlumni(ctx *ginext.Context) {
	var req dto.RegisterAlumniRequest
	if !s.decodeForm(ctx, &req) {
		return
	}

	p := req.Participants
	if p.Total != p.Adult+p.Child {
		dto.BadResponseError(ctx, dto.FieldIncorrect, "numberOfParticipantInfo.total must equal adult + child")
		return
	}

	expected := s.fees.Expected(model.RoleAlumni, req.PersonalInfo.Session, p.Adult, p.Child)
	s.register(ctx, alumniRecord(&req), expected, req.PaymentInfo.TotalAmount)
}

func (s *service) RegisterStudent(ctx *ginext.Context) {
	var req dto.RegisterStudentRequest
	if !s.decodeForm(ctx, &req) {
		return
	}

	expected := s.fees.Expected(model.RoleStudent, req.PersonalInfo.Session, req.Participants.Adult, req.Participants.Child)
	s.register(ctx, studentRecord(&req), expected, req.PaymentInfo.TotalAmount)
}

func alumniRecord(req *dto.RegisterAlumniRequest) *model.Registration {
	reg := &model.Registration{
		Role: model.RoleAlumni,
		Personal: model.PersonalInfo{
			Name:           strings.TrimSpace(req.PersonalInfo.Name),
			Roll:           req.PersonalInfo.Roll,
			RegistrationNo: req.PersonalInfo.RegistrationNo,
			Session:        strings.TrimSpace(req.PersonalInfo.Session),
			PassingYear:    req.PersonalInfo.PassingYear,
		},
		Contact:      contactRecord(&req.ContactInfo),
		Participants: model.ParticipantInfo(req.Participants),
		Payment: model.PaymentInfo{
			TotalAmount:       req.PaymentInfo.TotalAmount,
			MobileBankingName: strings.TrimSpace(req.PaymentInfo.MobileBankingName),
			TransactionID:     strings.TrimSpace(req.PaymentInfo.TransactionID),
			Status:            model.StatusPending,
		},
	}
	if req.ProfessionalInfo != nil {
		reg.Professional = employmentRecord(req.ProfessionalInfo)
	}
	if req.PrevProfessional != nil {
		reg.PrevProfessional = employmentRecord(req.PrevProfessional)
	}
	return reg
}

func studentRecord(req *dto.RegisterStudentRequest) *model.Registration {
	return &model.Registration{
		Role: model.RoleStudent,
		Personal: model.PersonalInfo{
			Name:           strings.TrimSpace(req.PersonalInfo.Name),
			Roll:           req.PersonalInfo.Roll,
			RegistrationNo: req.PersonalInfo.RegistrationNo,
			Session:        strings.TrimSpace(req.PersonalInfo.Session),
		},
		Contact:      contactRecord(&req.ContactInfo),
		Participants: model.ParticipantInfo(req.Participants),
		Payment: model.PaymentInfo{
			TotalAmount:       req.PaymentInfo.TotalAmount,
			MobileBankingName: strings.TrimSpace(req.PaymentInfo.MobileBankingName),
			TransactionID:     strings.TrimSpace(req.PaymentInfo.TransactionID),
			Status:            model.StatusPending,
		},
	}
}

func contactRecord(c *dto.ContactPayload) model.ContactInfo {
	return model.ContactInfo{
		Mobile:         strings.TrimSpace(c.Mobile),
		Email:          strings.TrimSpace(c.Email),
		CurrentAddress: strings.TrimSpace(c.CurrentAddress),
	}
}

func employmentRecord(e *dto.EmploymentPayload) *model.EmploymentInfo {
	return &model.EmploymentInfo{
		Designation:  strings.TrimSpace(e.Designation),
		Organization: strings.TrimSpace(e.Organization),
		From:         strings.TrimSpace(e.From),
		To:           strings.TrimSpace(e.To),
	}
}

func (s *service) listByRole(ctx *ginext.Context, role string) {
	regs, err := s.repo.GetRegistrationsByRole(ctx.Request.Context(), role)
	if err != nil {
		s.log.Error().Err(err).Str("role", role).Msg("failed to list registrations")
		dto.InternalServerError(ctx)
		return
	}
	if regs == nil {
		regs = []model.Registration{}
	}
	dto.SuccessResponse(ctx, regs)
}

func (s *service) ListAlumni(ctx *ginext.Context)   { s.listByRole(ctx, model.RoleAlumni) }
func (s *service) ListStudents(ctx *ginext.Context) { s.listByRole(ctx, model.RoleStudent) }

func (s *service) GetRegistration(ctx *ginext.Context) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		dto.BadResponseError(ctx, dto.FieldIncorrect, "Invalid registration ID")
		return
	}

	reg, err := s.repo.GetRegistrationByID(ctx.Request.Context(), id)
	if err != nil {
		if errors.Is(err, repo.ErrRegistrationNotFound) {
			dto.RegistrationNotFoundError(ctx)
			return
		}
		s.log.Error().Err(err).Int64("registration_id", id).Msg("failed to get registration")
		dto.InternalServerError(ctx)
		return
	}
	dto.SuccessResponse(ctx, reg)
}

func (s *service) UpdatePaymentStatus(ctx *ginext.Context) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		dto.BadResponseError(ctx, dto.FieldIncorrect, "Invalid registration ID")
		return
	}

	status, err := strconv.Atoi(ctx.Param("status"))
	if err != nil || status < model.StatusPending || status > model.StatusRejected {
		dto.BadResponseError(ctx, dto.FieldIncorrect, "Invalid payment status")
		return
	}

	reg, err := s.repo.GetRegistrationByID(ctx.Request.Context(), id)
	if err != nil {
		if errors.Is(err, repo.ErrRegistrationNotFound) {
			dto.RegistrationNotFoundError(ctx)
			return
		}
		s.log.Error().Err(err).Int64("registration_id", id).Msg("failed to get registration for status update")
		dto.InternalServerError(ctx)
		return
	}

	if err := s.repo.UpdatePaymentStatus(ctx.Request.Context(), id, status); err != nil {
		if errors.Is(err, repo.ErrRegistrationNotFound) {
			dto.RegistrationNotFoundError(ctx)
			return
		}
		s.log.Error().Err(err).Int64("registration_id", id).Msg("failed to update payment status")
		dto.InternalServerError(ctx)
		return
	}

	s.log.Info().
		Int64("registration_id", id).
		Int("status", status).
		Str("email", reg.Contact.Email).
		Msg("payment status updated")

	// The email is dispatched through the queue and never blocks or
	// fails the status change.
	if status == model.StatusPaid || status == model.StatusRejected {
		payload, err := json.Marshal(dto.PaymentNotification{RegistrationID: id, Status: status})
		if err != nil {
			s.log.Error().Err(err).Msg("failed to marshal payment notification")
		} else if err := s.queue.Publish(payload); err != nil {
			s.log.Warn().Err(err).Int64("registration_id", id).Msg("failed to publish payment notification")
		}
	}

	reg.Payment.Status = status
	dto.SuccessResponse(ctx, reg)
}

func (s *service) UpdateRegistration(ctx *ginext.Context) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		dto.BadResponseError(ctx, dto.FieldIncorrect, "Invalid registration ID")
		return
	}

	existing, err := s.repo.GetRegistrationByID(ctx.Request.Context(), id)
	if err != nil {
		if errors.Is(err, repo.ErrRegistrationNotFound) {
			dto.RegistrationNotFoundError(ctx)
			return
		}
		s.log.Error().Err(err).Int64("registration_id", id).Msg("failed to get registration for update")
		dto.InternalServerError(ctx)
		return
	}

	form, err := ctx.MultipartForm()
	if err != nil {
		dto.BadResponseError(ctx, dto.FieldBadFormat, "Invalid multipart form")
		return
	}

	fields := normalize.Form(form.Value)
	if !sanitize.Payload(fields) {
		dto.DangerousInputError(ctx)
		return
	}

	raw, err := json.Marshal(fields)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to re-encode normalized form")
		dto.InternalServerError(ctx)
		return
	}
	var patch dto.UpdateRegistrationRequest
	if err := json.Unmarshal(raw, &patch); err != nil {
		dto.BadResponseError(ctx, dto.FieldBadFormat, "Field has wrong type")
		return
	}

	if patch.PersonalInfo != nil {
		existing.Personal = *patch.PersonalInfo
	}
	if patch.ContactInfo != nil {
		existing.Contact = *patch.ContactInfo
	}
	if patch.ProfessionalInfo != nil {
		existing.Professional = patch.ProfessionalInfo
	}
	if patch.PrevProfessional != nil {
		existing.PrevProfessional = patch.PrevProfessional
	}
	if patch.Participants != nil {
		existing.Participants = *patch.Participants
	}
	if patch.PaymentInfo != nil {
		existing.Payment = *patch.PaymentInfo
	}

	// Optional image replacement. The record already owns a valid
	// image, so a bad replacement leaves it untouched.
	oldImage := ""
	if _, ferr := ctx.FormFile("image"); ferr == nil {
		data, ok := s.readImage(ctx)
		if !ok {
			return
		}
		filename, serr := s.guard.Store(data)
		if serr != nil {
			s.respondUploadError(ctx, serr)
			return
		}
		oldImage = existing.ProfilePicture.Image
		existing.ProfilePicture.Image = filename
	}

	if err := s.repo.UpdateRegistration(ctx.Request.Context(), existing); err != nil {
		if existing.ProfilePicture.Image != oldImage && oldImage != "" {
			s.guard.Remove(existing.ProfilePicture.Image)
		}
		s.log.Error().Err(err).Int64("registration_id", id).Msg("failed to update registration")
		dto.InternalServerError(ctx)
		return
	}

	if oldImage != "" && oldImage != existing.ProfilePicture.Image {
		s.guard.Remove(oldImage)
	}

	s.log.Info().Int64("registration_id", id).Msg("registration updated")
	dto.SuccessResponse(ctx, existing)
}

func (s *service) DeleteRegistration(ctx *ginext.Context) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		dto.BadResponseError(ctx, dto.FieldIncorrect, "Invalid registration ID")
		return
	}

	reg, err := s.repo.GetRegistrationByID(ctx.Request.Context(), id)
	if err != nil {
		if errors.Is(err, repo.ErrRegistrationNotFound) {
			dto.RegistrationNotFoundError(ctx)
			return
		}
		s.log.Error().Err(err).Int64("registration_id", id).Msg("failed to get registration for delete")
		dto.InternalServerError(ctx)
		return
	}

	if err := s.repo.DeleteRegistration(ctx.Request.Context(), id); err != nil {
		s.log.Error().Err(err).Int64("registration_id", id).Msg("failed to delete registration")
		dto.InternalServerError(ctx)
		return
	}

	s.guard.Remove(reg.ProfilePicture.Image)

	s.log.Info().Int64("registration_id", id).Msg("registration deleted")
	dto.SuccessResponse(ctx, map[string]any{"id": id})
}

func (s *service) CheckPayment(ctx *ginext.Context) {
	roll, err := strconv.Atoi(ctx.Param("roll"))
	if err != nil {
		dto.BadResponseError(ctx, dto.FieldIncorrect, "Invalid roll")
		return
	}
	registrationNo, err := strconv.Atoi(ctx.Param("reg"))
	if err != nil {
		dto.BadResponseError(ctx, dto.FieldIncorrect, "Invalid registration number")
		return
	}
	transactionID := ctx.Param("transactionId")
	if transactionID == "" {
		dto.BadResponseError(ctx, dto.FieldIncorrect, "Invalid transaction ID")
		return
	}

	reg, err := s.repo.FindByPayment(ctx.Request.Context(), roll, registrationNo, transactionID)
	if err != nil {
		if errors.Is(err, repo.ErrRegistrationNotFound) {
			dto.RegistrationNotFoundError(ctx)
			return
		}
		s.log.Error().Err(err).Msg("failed to check payment")
		dto.InternalServerError(ctx)
		return
	}

	dto.SuccessResponse(ctx, dto.PaymentCheckResponse{
		Roll:           reg.Personal.Roll,
		RegistrationNo: reg.Personal.RegistrationNo,
		TransactionID:  reg.Payment.TransactionID,
		Status:         reg.Payment.Status,
	})
}

func (s *service) CreateAnnouncement(ctx *ginext.Context) {
	var req dto.CreateAnnouncementRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		dto.BadResponseError(ctx, dto.FieldBadFormat, "Invalid JSON format")
		return
	}

	title, okTitle := sanitize.Clean(req.Title)
	body, okBody := sanitize.Clean(req.Body)
	if !okTitle || !okBody {
		dto.DangerousInputError(ctx)
		return
	}
	req.Title, req.Body = title, body

	if verr := validator.Validate(ctx, req); verr != nil {
		dto.BadResponseError(ctx, dto.FieldIncorrect, fmt.Sprintf("%v", verr))
		return
	}

	a := &model.Announcement{Title: req.Title, Body: req.Body}
	id, err := s.repo.CreateAnnouncement(ctx.Request.Context(), a)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to create announcement")
		dto.InternalServerError(ctx)
		return
	}
	a.ID = id

	s.log.Info().Int64("announcement_id", id).Msg("announcement published")
	dto.SuccessCreatedResponse(ctx, a)
}

func (s *service) ListAnnouncements(ctx *ginext.Context) {
	items, err := s.repo.GetAllAnnouncements(ctx.Request.Context())
	if err != nil {
		s.log.Error().Err(err).Msg("failed to list announcements")
		dto.InternalServerError(ctx)
		return
	}
	if items == nil {
		items = []model.Announcement{}
	}
	dto.SuccessResponse(ctx, items)
}

func (s *service) DeleteAnnouncement(ctx *ginext.Context) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		dto.BadResponseError(ctx, dto.FieldIncorrect, "Invalid announcement ID")
		return
	}

	if err := s.repo.DeleteAnnouncement(ctx.Request.Context(), id); err != nil {
		if errors.Is(err, repo.ErrAnnouncementNotFound) {
			dto.AnnouncementNotFoundError(ctx)
			return
		}
		s.log.Error().Err(err).Int64("announcement_id", id).Msg("failed to delete announcement")
		dto.InternalServerError(ctx)
		return
	}
	dto.SuccessResponse(ctx, map[string]any{"id": id})
}
