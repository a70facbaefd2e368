package api

type ResponseError struct {
	Message string `json:"message,omitempty"`
	Type    string `json:"type,omitempty"`
	// Param names the request field at fault, if any.
	Param string `json:"param,omitempty"`
}

type ModelResponse struct {
	ID        string `json:"id"`
	Object    string `json:"object"`
	Name      string `json:"name,omitempty"`
	Type      string `json:"type"`
	Order     int    `json:"order"`
	Counts    []int  `json:"counts"`
	VocabSize int    `json:"vocabulary_size"`
	OOV       string `json:"oov"`
}

// LogProbRequest carries either Words or Text, which is split on
// whitespace.
type LogProbRequest struct {
	Words []string `json:"words,omitempty"`
	Text  string   `json:"text,omitempty"`
}

type LogProbResponse struct {
	ID      string   `json:"id"`
	Object  string   `json:"object"`
	Words   []string `json:"words"`
	LogProb float64  `json:"log_prob"`
	// Unknown lists the words mapped to the OOV token.
	Unknown []string `json:"unknown,omitempty"`
}

type SentenceRequest struct {
	Text string `json:"text"`
}

type SentenceResponse struct {
	ID      string   `json:"id"`
	Object  string   `json:"object"`
	Words   []string `json:"words"`
	LogProb float64  `json:"log_prob"`
	// Perplexity is per predicted token, </s> included.
	Perplexity float64  `json:"perplexity"`
	Unknown    []string `json:"unknown,omitempty"`
}
