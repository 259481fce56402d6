package application

import (
	"github.com/bnema/llm-council/internal/domain"
	"github.com/google/uuid"
)

func newResponseID() string {
	return uuid.NewString()
}

func newSessionID() domain.SessionID {
	return domain.SessionID(uuid.NewString())
}
