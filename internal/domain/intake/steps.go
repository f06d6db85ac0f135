package intake

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"recruitflow/internal/common"
	"recruitflow/internal/domain/application"
)

// Step identifies one data-collection step of the intake wizard.
type Step string

const (
	StepFullName   Step = "full_name"
	StepContact    Step = "contact"
	StepEmail      Step = "email"
	StepLevel      Step = "level"
	StepSkills     Step = "skills"
	StepExperience Step = "experience"
	StepResume     Step = "resume"
	// StepDone means the draft is complete and only finalize remains.
	StepDone Step = "done"
)

const (
	minFullNameRunes   = 5
	minPhoneDigits     = 7
	minSkillsRunes     = 10
	minExperienceRunes = 20
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[A-Za-z]{2,}$`)

// SharedContact is a contact card shared by the chat platform instead of
// a typed phone number.
type SharedContact struct {
	Phone    string `json:"phone"`
	Username string `json:"username,omitempty"`
}

// DocumentRef points at an uploaded resume document.
type DocumentRef struct {
	FileID   string `json:"file_id"`
	FileName string `json:"file_name,omitempty"`
}

// Input is one inbound actor answer, tagged by the caller with the step
// it is meant for. Exactly which fields are meaningful depends on the step.
type Input struct {
	Text     string         `json:"text,omitempty"`
	Contact  *SharedContact `json:"contact,omitempty"`
	Document *DocumentRef   `json:"document,omitempty"`
	Skip     bool           `json:"skip,omitempty"`
}

// NextStep derives the expected step from the first unfilled draft field.
func NextStep(d *application.Draft) Step {
	switch {
	case d == nil || d.FullName == nil:
		return StepFullName
	case d.Phone == nil:
		return StepContact
	case d.Email == nil:
		return StepEmail
	case d.Level == nil:
		return StepLevel
	case d.Skills == nil:
		return StepSkills
	case d.Experience == nil:
		return StepExperience
	case d.ResumeLink == nil:
		return StepResume
	default:
		return StepDone
	}
}

// KnownStep reports whether the value names a real collection step.
func KnownStep(step Step) bool {
	switch step {
	case StepFullName, StepContact, StepEmail, StepLevel, StepSkills, StepExperience, StepResume:
		return true
	default:
		return false
	}
}

// Apply validates the input against the step's predicate and merges the
// parsed value into the draft. The draft is untouched on a validation error.
func Apply(d *application.Draft, step Step, in Input) error {
	switch step {
	case StepFullName:
		name := strings.TrimSpace(in.Text)
		if len(strings.Fields(name)) < 2 || utf8.RuneCountInString(name) < minFullNameRunes {
			return common.NewValidationError("full name must contain at least a first and last name", map[string]string{"full_name": "at least two words expected"})
		}
		d.FullName = &name
	case StepContact:
		if in.Contact != nil {
			phone := strings.TrimSpace(in.Contact.Phone)
			if phone == "" {
				return common.NewValidationError("shared contact has no phone number", map[string]string{"contact": "phone is empty"})
			}
			d.Phone = &phone
			if username := strings.TrimSpace(in.Contact.Username); username != "" {
				d.TelegramUsername = &username
			}
			break
		}
		phone := strings.TrimSpace(in.Text)
		if !phoneLike(phone) {
			return common.NewValidationError("phone number looks invalid", map[string]string{"contact": "expected a phone number or a shared contact"})
		}
		d.Phone = &phone
	case StepEmail:
		email := strings.TrimSpace(in.Text)
		if !emailPattern.MatchString(email) {
			return common.NewValidationError("email address looks invalid", map[string]string{"email": "expected local@domain.tld"})
		}
		d.Email = &email
	case StepLevel:
		level := strings.TrimSpace(in.Text)
		if level == "" {
			return common.NewValidationError("level must not be empty", map[string]string{"level": "value is required"})
		}
		d.Level = &level
	case StepSkills:
		skills := strings.TrimSpace(in.Text)
		if utf8.RuneCountInString(skills) < minSkillsRunes {
			return common.NewValidationError("skills answer is too short", map[string]string{"skills": "please list your key skills"})
		}
		d.Skills = &skills
	case StepExperience:
		experience := strings.TrimSpace(in.Text)
		if utf8.RuneCountInString(experience) < minExperienceRunes {
			return common.NewValidationError("experience answer is too short", map[string]string{"experience": "please describe your experience"})
		}
		d.Experience = &experience
	case StepResume:
		reference, err := resumeReference(in)
		if err != nil {
			return err
		}
		d.ResumeLink = &reference
	default:
		return common.NewValidationError("unknown intake step", map[string]string{"step": string(step)})
	}
	return nil
}

func resumeReference(in Input) (string, error) {
	if in.Skip {
		return "", nil
	}
	if in.Document != nil && strings.TrimSpace(in.Document.FileID) != "" {
		return strings.TrimSpace(in.Document.FileID), nil
	}
	link := strings.TrimSpace(in.Text)
	lowered := strings.ToLower(link)
	if strings.HasPrefix(lowered, "http://") || strings.HasPrefix(lowered, "https://") || strings.HasPrefix(lowered, "www.") {
		return link, nil
	}
	return "", common.NewValidationError("resume must be a document, a link, or an explicit skip", map[string]string{"resume": "unrecognized reference"})
}

func phoneLike(value string) bool {
	if value == "" {
		return false
	}
	digits := 0
	for i, r := range value {
		switch {
		case r >= '0' && r <= '9':
			digits++
		case r == '+' && i == 0:
		case r == ' ' || r == '-' || r == '(' || r == ')':
		default:
			return false
		}
	}
	return digits >= minPhoneDigits
}
