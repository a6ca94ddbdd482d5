package entities

import "time"

// DialogueKind names the command that owns an in-flight dialogue
type DialogueKind string

const (
	DialogueKindQuiz       DialogueKind = "quiz"
	DialogueKindRegister   DialogueKind = "register"
	DialogueKindDistribute DialogueKind = "distribute_stats"
)

// DialogueSession marks a user as busy with one interactive exchange
type DialogueSession struct {
	ID        string
	UserID    string
	Kind      DialogueKind
	StartedAt time.Time
}
