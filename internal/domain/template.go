package domain

import (
	"strings"
	"time"
	"unicode/utf8"
)

type TemplateID string

const maxTemplateNameLength = 200

// CouncilTemplate is a saved member lineup that sessions can start from.
type CouncilTemplate struct {
	ID          TemplateID
	Name        string
	Description string
	Members     []CouncilMember
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (t CouncilTemplate) Validate(limits Limits) error {
	name := strings.TrimSpace(t.Name)
	if name == "" {
		return invalid("name", "must not be empty")
	}
	if n := utf8.RuneCountInString(name); n > maxTemplateNameLength {
		return invalid("name", "length %d exceeds maximum %d", n, maxTemplateNameLength)
	}
	return validateMembers(t.Members, limits.MaxMembers)
}

func (t CouncilTemplate) Clone() CouncilTemplate {
	clone := t
	clone.Members = append([]CouncilMember(nil), t.Members...)
	return clone
}
