package repo

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/wb-go/wbf/dbpg"

	"reunion/internal/model"
)

var (
	ErrRegistrationNotFound = errors.New("registration not found")
	ErrAnnouncementNotFound = errors.New("announcement not found")
)

type Repository interface {
	CreateRegistration(ctx context.Context, reg *model.Registration) (int64, error)
	GetRegistrationByID(ctx context.Context, id int64) (*model.Registration, error)
	GetRegistrationsByRole(ctx context.Context, role string) ([]model.Registration, error)
	SetProfileImage(ctx context.Context, id int64, filename string) error
	UpdatePaymentStatus(ctx context.Context, id int64, status int) error
	UpdateRegistration(ctx context.Context, reg *model.Registration) error
	DeleteRegistration(ctx context.Context, id int64) error
	FindByPayment(ctx context.Context, roll, registrationNo int, transactionID string) (*model.Registration, error)
	CreateAnnouncement(ctx context.Context, a *model.Announcement) (int64, error)
	GetAllAnnouncements(ctx context.Context) ([]model.Announcement, error)
	DeleteAnnouncement(ctx context.Context, id int64) error
	MigrateUp(migrationsDir string) error
	MigrateDown(migrationsDir string) error
}

type repository struct {
	db  *dbpg.DB
	log *zerolog.Logger
}

func NewRepository(db *dbpg.DB, log *zerolog.Logger) (Repository, error) {
	if db == nil {
		return nil, fmt.Errorf("db cannot be nil")
	}
	if err := db.Master.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping DB: %w", err)
	}
	return &repository{db: db, log: log}, nil
}

func (r *repository) MigrateUp(migrationsDir string) error {
	files, err := filepath.Glob(filepath.Join(migrationsDir, "*.up.sql"))
	if err != nil {
		return fmt.Errorf("failed to read migration files: %w", err)
	}

	for _, file := range files {
		sqlBytes, err := os.ReadFile(file)
		if err != nil {
			return fmt.Errorf("failed to read migration file %s: %w", file, err)
		}

		if _, err := r.db.ExecContext(context.Background(), string(sqlBytes)); err != nil {
			return fmt.Errorf("failed to apply migration %s: %w", file, err)
		}
	}

	r.log.Info().Msgf("Migrations applied successfully from %s", migrationsDir)
	return nil
}

func (r *repository) MigrateDown(migrationsDir string) error {
	files, err := filepath.Glob(filepath.Join(migrationsDir, "*.down.sql"))
	if err != nil {
		return fmt.Errorf("failed to read rollback files: %w", err)
	}

	for _, file := range files {
		sqlBytes, err := os.ReadFile(file)
		if err != nil {
			return fmt.Errorf("failed to read rollback file %s: %w", file, err)
		}

		if _, err := r.db.ExecContext(context.Background(), string(sqlBytes)); err != nil {
			return fmt.Errorf("failed to rollback migration %s: %w", file, err)
		}
	}

	r.log.Info().Msgf("Migrations rolled back successfully from %s", migrationsDir)
	return nil
}

const registrationColumns = `
	id, role, name, roll, registration_no, session, passing_year,
	mobile, email, current_address, professional_info, prev_professional_info,
	adult_count, child_count, total_count,
	total_amount, mobile_banking_name, transaction_id, payment_status,
	profile_image, created_at, updated_at
`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRegistration(row rowScanner) (*model.Registration, error) {
	var (
		reg        model.Registration
		prof, prev []byte
	)
	if err := row.Scan(
		&reg.ID,
		&reg.Role,
		&reg.Personal.Name,
		&reg.Personal.Roll,
		&reg.Personal.RegistrationNo,
		&reg.Personal.Session,
		&reg.Personal.PassingYear,
		&reg.Contact.Mobile,
		&reg.Contact.Email,
		&reg.Contact.CurrentAddress,
		&prof,
		&prev,
		&reg.Participants.Adult,
		&reg.Participants.Child,
		&reg.Participants.Total,
		&reg.Payment.TotalAmount,
		&reg.Payment.MobileBankingName,
		&reg.Payment.TransactionID,
		&reg.Payment.Status,
		&reg.ProfilePicture.Image,
		&reg.CreatedAt,
		&reg.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if len(prof) > 0 {
		reg.Professional = &model.EmploymentInfo{}
		if err := json.Unmarshal(prof, reg.Professional); err != nil {
			return nil, fmt.Errorf("failed to decode professional info: %w", err)
		}
	}
	if len(prev) > 0 {
		reg.PrevProfessional = &model.EmploymentInfo{}
		if err := json.Unmarshal(prev, reg.PrevProfessional); err != nil {
			return nil, fmt.Errorf("failed to decode previous professional info: %w", err)
		}
	}
	return &reg, nil
}

func employmentJSON(e *model.EmploymentInfo) (any, error) {
	if e == nil {
		return nil, nil
	}
	b, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("failed to encode employment info: %w", err)
	}
	return b, nil
}

func (r *repository) CreateRegistration(ctx context.Context, reg *model.Registration) (int64, error) {
	prof, err := employmentJSON(reg.Professional)
	if err != nil {
		return 0, err
	}
	prev, err := employmentJSON(reg.PrevProfessional)
	if err != nil {
		return 0, err
	}

	query := `
		INSERT INTO registrations (
			role, name, roll, registration_no, session, passing_year,
			mobile, email, current_address, professional_info, prev_professional_info,
			adult_count, child_count, total_count,
			total_amount, mobile_banking_name, transaction_id, payment_status,
			profile_image, created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, NOW())
		RETURNING id
	`

	row := r.db.QueryRowContext(ctx, query,
		reg.Role, reg.Personal.Name, reg.Personal.Roll, reg.Personal.RegistrationNo,
		reg.Personal.Session, reg.Personal.PassingYear,
		reg.Contact.Mobile, reg.Contact.Email, reg.Contact.CurrentAddress,
		prof, prev,
		reg.Participants.Adult, reg.Participants.Child, reg.Participants.Total,
		reg.Payment.TotalAmount, reg.Payment.MobileBankingName, reg.Payment.TransactionID,
		reg.Payment.Status, reg.ProfilePicture.Image,
	)

	var id int64
	if err := row.Scan(&id); err != nil {
		return 0, fmt.Errorf("failed to insert registration: %w", err)
	}
	return id, nil
}

func (r *repository) GetRegistrationByID(ctx context.Context, id int64) (*model.Registration, error) {
	query := `SELECT ` + registrationColumns + ` FROM registrations WHERE id = $1`
	reg, err := scanRegistration(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrRegistrationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get registration: %w", err)
	}
	return reg, nil
}

func (r *repository) GetRegistrationsByRole(ctx context.Context, role string) ([]model.Registration, error) {
	query := `SELECT ` + registrationColumns + ` FROM registrations WHERE role = $1 ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, role)
	if err != nil {
		return nil, fmt.Errorf("failed to get registrations: %w", err)
	}
	defer rows.Close()

	var regs []model.Registration
	for rows.Next() {
		reg, err := scanRegistration(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan registration: %w", err)
		}
		regs = append(regs, *reg)
	}
	return regs, rows.Err()
}

func (r *repository) SetProfileImage(ctx context.Context, id int64, filename string) error {
	query := `
		UPDATE registrations
		SET profile_image = $1, updated_at = NOW()
		WHERE id = $2
		RETURNING id
	`
	var got int64
	if err := r.db.QueryRowContext(ctx, query, filename, id).Scan(&got); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrRegistrationNotFound
		}
		return fmt.Errorf("failed to set profile image: %w", err)
	}
	return nil
}

func (r *repository) UpdatePaymentStatus(ctx context.Context, id int64, status int) error {
	tx, err := r.db.Master.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	query := `
		UPDATE registrations
		SET payment_status = $1, updated_at = NOW()
		WHERE id = $2
		RETURNING id
	`

	var got int64
	if err := tx.QueryRowContext(ctx, query, status, id).Scan(&got); err != nil {
		_ = tx.Rollback()
		if errors.Is(err, sql.ErrNoRows) {
			return ErrRegistrationNotFound
		}
		return fmt.Errorf("failed to update payment status: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func (r *repository) UpdateRegistration(ctx context.Context, reg *model.Registration) error {
	prof, err := employmentJSON(reg.Professional)
	if err != nil {
		return err
	}
	prev, err := employmentJSON(reg.PrevProfessional)
	if err != nil {
		return err
	}

	query := `
		UPDATE registrations
		SET name = $1, roll = $2, registration_no = $3, session = $4, passing_year = $5,
		    mobile = $6, email = $7, current_address = $8,
		    professional_info = $9, prev_professional_info = $10,
		    adult_count = $11, child_count = $12, total_count = $13,
		    total_amount = $14, mobile_banking_name = $15, transaction_id = $16,
		    payment_status = $17, profile_image = $18, updated_at = NOW()
		WHERE id = $19
		RETURNING id
	`

	var got int64
	if err := r.db.QueryRowContext(ctx, query,
		reg.Personal.Name, reg.Personal.Roll, reg.Personal.RegistrationNo,
		reg.Personal.Session, reg.Personal.PassingYear,
		reg.Contact.Mobile, reg.Contact.Email, reg.Contact.CurrentAddress,
		prof, prev,
		reg.Participants.Adult, reg.Participants.Child, reg.Participants.Total,
		reg.Payment.TotalAmount, reg.Payment.MobileBankingName, reg.Payment.TransactionID,
		reg.Payment.Status, reg.ProfilePicture.Image,
		reg.ID,
	).Scan(&got); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrRegistrationNotFound
		}
		return fmt.Errorf("failed to update registration: %w", err)
	}
	return nil
}

func (r *repository) DeleteRegistration(ctx context.Context, id int64) error {
	query := `DELETE FROM registrations WHERE id = $1 RETURNING id`
	var got int64
	if err := r.db.QueryRowContext(ctx, query, id).Scan(&got); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrRegistrationNotFound
		}
		return fmt.Errorf("failed to delete registration: %w", err)
	}
	return nil
}

// FindByPayment looks up a registration by the combination a
// registrant can quote back: roll, registration number and the mobile
// banking transaction id. transaction_id carries no uniqueness
// constraint, so the newest match wins.
func (r *repository) FindByPayment(ctx context.Context, roll, registrationNo int, transactionID string) (*model.Registration, error) {
	query := `SELECT ` + registrationColumns + `
		FROM registrations
		WHERE roll = $1 AND registration_no = $2 AND transaction_id = $3
		ORDER BY created_at DESC
		LIMIT 1`
	reg, err := scanRegistration(r.db.QueryRowContext(ctx, query, roll, registrationNo, transactionID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrRegistrationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find registration by payment: %w", err)
	}
	return reg, nil
}

func (r *repository) CreateAnnouncement(ctx context.Context, a *model.Announcement) (int64, error) {
	query := `
		INSERT INTO announcements (title, body, created_at)
		VALUES ($1, $2, NOW())
		RETURNING id
	`
	var id int64
	if err := r.db.QueryRowContext(ctx, query, a.Title, a.Body).Scan(&id); err != nil {
		return 0, fmt.Errorf("failed to insert announcement: %w", err)
	}
	return id, nil
}

func (r *repository) GetAllAnnouncements(ctx context.Context) ([]model.Announcement, error) {
	query := `SELECT id, title, body, created_at FROM announcements ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to get announcements: %w", err)
	}
	defer rows.Close()

	var items []model.Announcement
	for rows.Next() {
		var a model.Announcement
		if err := rows.Scan(&a.ID, &a.Title, &a.Body, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan announcement: %w", err)
		}
		items = append(items, a)
	}
	return items, rows.Err()
}

func (r *repository) DeleteAnnouncement(ctx context.Context, id int64) error {
	query := `DELETE FROM announcements WHERE id = $1 RETURNING id`
	var got int64
	if err := r.db.QueryRowContext(ctx, query, id).Scan(&got); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrAnnouncementNotFound
		}
		return fmt.Errorf("failed to delete announcement: %w", err)
	}
	return nil
}
