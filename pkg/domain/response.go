package domain

// ResponseKind distinguishes a final answer from a clarifying question.
type ResponseKind string

const (
	ResponseReply  ResponseKind = "reply"
	ResponsePrompt ResponseKind = "prompt"
)

// Response is what a handler emits for a turn: exactly one reply or one prompt.
type Response struct {
	Kind ResponseKind `json:"kind"`
	Text string       `json:"text"`
}

// Reply builds a final response.
func Reply(text string) Response {
	return Response{Kind: ResponseReply, Text: text}
}

// Prompt builds a clarifying response; the session stays open for the answer.
func Prompt(text string) Response {
	return Response{Kind: ResponsePrompt, Text: text}
}
