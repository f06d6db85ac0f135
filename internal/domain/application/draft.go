package application

import "time"

// Draft is the typed partial record built up step by step during intake.
// A nil field means the step has not been answered yet; the next expected
// step is always derived from the first unfilled field, so a draft can
// never get into a "missing key" state at finalize time.
type Draft struct {
	FullName         *string `json:"full_name,omitempty"`
	Phone            *string `json:"phone,omitempty"`
	TelegramUsername *string `json:"telegram_username,omitempty"`
	Email            *string `json:"email,omitempty"`
	Level            *string `json:"level,omitempty"`
	Skills           *string `json:"skills,omitempty"`
	Experience       *string `json:"experience,omitempty"`
	// ResumeLink is set to the empty string when the candidate skipped
	// the resume step.
	ResumeLink *string `json:"resume_link,omitempty"`

	// Failure annotation recorded when finalize could not reach the ATS.
	// The draft stays intact so a retry or manual recovery is possible.
	LastError *string    `json:"last_error,omitempty"`
	FailedAt  *time.Time `json:"failed_at,omitempty"`
}

// Complete reports whether every intake step has been answered.
func (d *Draft) Complete() bool {
	if d == nil {
		return false
	}
	return d.FullName != nil && d.Phone != nil && d.Email != nil &&
		d.Level != nil && d.Skills != nil && d.Experience != nil && d.ResumeLink != nil
}

// Failed reports whether a finalize attempt already failed for this draft.
func (d *Draft) Failed() bool {
	return d != nil && d.LastError != nil
}

// RecordFailure annotates the draft with a finalize failure.
func (d *Draft) RecordFailure(message string, at time.Time) {
	d.LastError = &message
	d.FailedAt = &at
}

// ClearFailure drops the failure annotation before a retry.
func (d *Draft) ClearFailure() {
	d.LastError = nil
	d.FailedAt = nil
}

// Assemble builds the immutable candidate record from a complete draft.
func (d *Draft) Assemble(candidateTgID int64, source string) CandidateData {
	return CandidateData{
		FullName: *d.FullName,
		Contacts: Contacts{
			Phone:            *d.Phone,
			Email:            *d.Email,
			TelegramUsername: stringOr(d.TelegramUsername),
			TgID:             candidateTgID,
		},
		ProfessionalInfo: ProfessionalInfo{
			Level:      *d.Level,
			Skills:     *d.Skills,
			Experience: *d.Experience,
		},
		ResumeLink: *d.ResumeLink,
		Source:     source,
	}
}

func stringOr(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}
