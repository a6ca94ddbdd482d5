package entities

// Question is one entry of the personality quiz
type Question struct {
	Prompt  string   `yaml:"prompt"`
	Options []string `yaml:"options"`
}

// NatureProfile is the outcome bound to an answer option
type NatureProfile struct {
	Nature      string `yaml:"nature"`
	Recommended string `yaml:"recommended"`
	Description string `yaml:"description"`
}

// UnknownNatureProfile is used when the dominant answer has no profile
var UnknownNatureProfile = NatureProfile{
	Nature:      "Unknown",
	Recommended: "Unknown",
	Description: "No suitable nature found.",
}

// NatureStatProfile describes how a nature bends a character's stats
type NatureStatProfile struct {
	Label     string               `yaml:"label"`
	Modifiers map[StatCategory]int `yaml:"modifiers"`
}

// QuizSession is the per-user progress through one quiz run
type QuizSession struct {
	UserID  string
	Answers []string
	Asked   map[string]struct{}
}

// NewQuizSession creates an empty session for a user
func NewQuizSession(userID string) *QuizSession {
	return &QuizSession{
		UserID: userID,
		Asked:  make(map[string]struct{}),
	}
}

// HasAsked reports whether the prompt was already asked in this session
func (s *QuizSession) HasAsked(prompt string) bool {
	_, ok := s.Asked[prompt]
	return ok
}

// Record stores an answer and marks the question as asked
func (s *QuizSession) Record(prompt, answer string) {
	s.Answers = append(s.Answers, answer)
	s.Asked[prompt] = struct{}{}
}

// DominantAnswer returns the most frequent answer. Ties go to the answer
// encountered first in the collected sequence.
func (s *QuizSession) DominantAnswer() (string, bool) {
	if len(s.Answers) == 0 {
		return "", false
	}

	counts := make(map[string]int, len(s.Answers))
	for _, a := range s.Answers {
		counts[a]++
	}

	best := s.Answers[0]
	for _, a := range s.Answers {
		if counts[a] > counts[best] {
			best = a
		}
	}
	return best, true
}
