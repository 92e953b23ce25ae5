package model

import "time"

const (
	RoleAlumni  = "alumni"
	RoleStudent = "student"
)

// Payment status values stored in registrations.payment_status.
const (
	StatusPending  = 0
	StatusPaid     = 1
	StatusRejected = 2
)

type PersonalInfo struct {
	Name           string `json:"name"`
	Roll           int    `json:"roll"`
	RegistrationNo int    `json:"registrationNo"`
	Session        string `json:"session"`
	PassingYear    int    `json:"passingYear,omitempty"`
}

type ContactInfo struct {
	Mobile         string `json:"mobile"`
	Email          string `json:"email"`
	CurrentAddress string `json:"currentAddress"`
}

type EmploymentInfo struct {
	Designation  string `json:"designation,omitempty"`
	Organization string `json:"organization,omitempty"`
	From         string `json:"from,omitempty"`
	To           string `json:"to,omitempty"`
}

type ParticipantInfo struct {
	Adult int `json:"adult"`
	Child int `json:"child"`
	Total int `json:"total"`
}

type PaymentInfo struct {
	TotalAmount       int    `json:"totalAmount"`
	MobileBankingName string `json:"mobileBankingName"`
	TransactionID     string `json:"transactionId"`
	Status            int    `json:"status"`
}

type ProfilePictureInfo struct {
	Image string `json:"image"`
}

type Registration struct {
	ID               int64              `db:"id" json:"id"`
	Role             string             `db:"role" json:"role"`
	Personal         PersonalInfo       `json:"personalInfo"`
	Contact          ContactInfo        `json:"contactInfo"`
	Professional     *EmploymentInfo    `json:"professionalInfo,omitempty"`
	PrevProfessional *EmploymentInfo    `json:"prevProfessionalInfo,omitempty"`
	Participants     ParticipantInfo    `json:"numberOfParticipantInfo"`
	Payment          PaymentInfo        `json:"paymentInfo"`
	ProfilePicture   ProfilePictureInfo `json:"profilePictureInfo"`
	CreatedAt        time.Time          `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time          `db:"updated_at" json:"updated_at"`
}

type Announcement struct {
	ID        int64     `db:"id" json:"id"`
	Title     string    `db:"title" json:"title"`
	Body      string    `db:"body" json:"body"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
