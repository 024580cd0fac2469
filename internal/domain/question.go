package domain

// Question is a single question-answer-context entry of a study set.
// Index is the stable integer identifier review state is keyed by; it is
// assigned when the question first enters the question bank.
type Question struct {
	Index    int    `json:"index"`
	Question string `json:"question"`
	Answer   string `json:"answer"`
	Context  string `json:"context,omitempty"`
	Hash     string `json:"hash"`
	Source   string `json:"source,omitempty"`
}
