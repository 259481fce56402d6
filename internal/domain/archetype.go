package domain

type Archetype struct {
	ID             string
	Name           string
	Description    string
	PromptFragment string
}
