package application

import (
	"time"

	"recruitflow/internal/common"
)

type Status string

const (
	StatusNew        Status = "new"
	StatusInProgress Status = "in_progress"
	StatusInvited    Status = "invited"
	StatusRejected   Status = "rejected"
)

// Contacts and ProfessionalInfo mirror the candidate block of the ATS
// submission contract.
type Contacts struct {
	Phone            string `json:"phone"`
	Email            string `json:"email"`
	TelegramUsername string `json:"telegram_username"`
	TgID             int64  `json:"tg_id"`
}

type ProfessionalInfo struct {
	Level      string `json:"level"`
	Skills     string `json:"skills"`
	Experience string `json:"experience"`
}

// CandidateData is the immutable record assembled once by finalize.
type CandidateData struct {
	FullName         string           `json:"full_name"`
	Contacts         Contacts         `json:"contacts"`
	ProfessionalInfo ProfessionalInfo `json:"professional_info"`
	ResumeLink       string           `json:"resume_link"`
	Source           string           `json:"source"`
}

type Application struct {
	ID                common.UUID    `json:"id"`
	CandidateTgID     int64          `json:"candidate_tg_id"`
	VacancyID         string         `json:"vacancy_id"`
	VacancyTitle      string         `json:"vacancy_title"`
	Direction         string         `json:"direction"`
	Status            Status         `json:"status"`
	AssignedRecruiter *int64         `json:"assigned_recruiter,omitempty"`
	CandidateData     *CandidateData `json:"candidate_data,omitempty"`
	Draft             *Draft         `json:"draft_data,omitempty"`
	ExternalRef       string         `json:"external_ref,omitempty"`
	CreatedAt         time.Time      `json:"created_at"`
	UpdatedAt         time.Time      `json:"updated_at"`
}

// Finalized reports whether the one-time draft commit already happened.
func (a *Application) Finalized() bool {
	return a.CandidateData != nil && a.ExternalRef != ""
}
