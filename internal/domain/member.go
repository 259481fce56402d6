package domain

import "strings"

type MemberID string

type CouncilMember struct {
	ID                MemberID
	Provider          Provider
	Model             string
	Role              string
	Archetype         string
	CustomPersonality string
	IsChair           bool
}

// DisplayRole falls back to the provider name when no role label was given.
func (m CouncilMember) DisplayRole() string {
	if role := strings.TrimSpace(m.Role); role != "" {
		return role
	}
	return string(m.Provider)
}

func Chair(members []CouncilMember) (CouncilMember, bool) {
	for _, member := range members {
		if member.IsChair {
			return member, true
		}
	}
	return CouncilMember{}, false
}

func NonChair(members []CouncilMember) []CouncilMember {
	result := make([]CouncilMember, 0, len(members))
	for _, member := range members {
		if !member.IsChair {
			result = append(result, member)
		}
	}
	return result
}
