package domain

import (
	"strings"
	"unicode/utf8"
)

type SessionID string

type SynthesisStyle string

const (
	StyleAnalytical SynthesisStyle = "analytical"
	StyleCreative   SynthesisStyle = "creative"
	StyleTechnical  SynthesisStyle = "technical"
	StyleBalanced   SynthesisStyle = "balanced"
)

func (s SynthesisStyle) Known() bool {
	switch s {
	case StyleAnalytical, StyleCreative, StyleTechnical, StyleBalanced:
		return true
	default:
		return false
	}
}

// OrDefault maps empty and unknown styles to balanced.
func (s SynthesisStyle) OrDefault() SynthesisStyle {
	if s.Known() {
		return s
	}
	return StyleBalanced
}

type Preset string

const (
	PresetCreative Preset = "creative"
	PresetBalanced Preset = "balanced"
	PresetPrecise  Preset = "precise"
)

func (p Preset) Known() bool {
	switch p {
	case PresetCreative, PresetBalanced, PresetPrecise:
		return true
	default:
		return false
	}
}

func (p Preset) Temperature() float64 {
	switch p {
	case PresetCreative:
		return 0.9
	case PresetPrecise:
		return 0.3
	default:
		return 0.7
	}
}

type Attachment struct {
	Filename      string
	ContentType   string
	Size          int64
	ExtractedText string
	Base64Data    string
}

func (a Attachment) IsImage() bool {
	return a.Base64Data != "" && strings.HasPrefix(a.ContentType, "image/")
}

type SessionConfig struct {
	Prompt         string
	Members        []CouncilMember
	Iterations     int
	SynthesisStyle SynthesisStyle
	Preset         Preset
	Files          []Attachment
	// Autopilot is accepted for compatibility. Sessions always auto-advance.
	Autopilot bool
}

type Limits struct {
	MaxPromptLength int
	MaxIterations   int
	MaxMembers      int
}

func DefaultLimits() Limits {
	return Limits{
		MaxPromptLength: 50_000,
		MaxIterations:   10,
		MaxMembers:      10,
	}
}

func (c SessionConfig) Validate(limits Limits) error {
	prompt := strings.TrimSpace(c.Prompt)
	if prompt == "" {
		return invalid("prompt", "must not be empty")
	}
	if n := utf8.RuneCountInString(prompt); n > limits.MaxPromptLength {
		return invalid("prompt", "length %d exceeds maximum %d", n, limits.MaxPromptLength)
	}

	if c.Iterations < 1 || c.Iterations > limits.MaxIterations {
		return invalid("iterations", "must be between 1 and %d, got %d", limits.MaxIterations, c.Iterations)
	}

	if err := validateMembers(c.Members, limits.MaxMembers); err != nil {
		return err
	}

	if c.SynthesisStyle != "" && !c.SynthesisStyle.Known() {
		return invalid("template", "unknown synthesis style %q", c.SynthesisStyle)
	}
	if c.Preset != "" && !c.Preset.Known() {
		return invalid("preset", "unknown preset %q", c.Preset)
	}

	return nil
}

func (c SessionConfig) Member(id MemberID) (CouncilMember, bool) {
	for _, member := range c.Members {
		if member.ID == id {
			return member, true
		}
	}
	return CouncilMember{}, false
}

func validateMembers(members []CouncilMember, maxMembers int) error {
	if len(members) == 0 {
		return invalid("council_members", "at least one member is required")
	}
	if len(members) > maxMembers {
		return invalid("council_members", "at most %d members are allowed, got %d", maxMembers, len(members))
	}

	seen := make(map[MemberID]struct{}, len(members))
	chairs := 0
	for i, member := range members {
		if strings.TrimSpace(string(member.ID)) == "" {
			return invalid("council_members", "member %d has no id", i)
		}
		if _, ok := seen[member.ID]; ok {
			return invalid("council_members", "duplicate member id %q", member.ID)
		}
		seen[member.ID] = struct{}{}

		if !member.Provider.Known() {
			return invalid("council_members", "member %q has unknown provider %q", member.ID, member.Provider)
		}
		if strings.TrimSpace(member.Model) == "" {
			return invalid("council_members", "member %q has no model", member.ID)
		}
		if member.IsChair {
			chairs++
		}
	}

	switch {
	case chairs == 0:
		return invalid("council_members", "no member is designated as chair")
	case chairs > 1:
		return invalid("council_members", "exactly one chair is required, got %d", chairs)
	}
	return nil
}
