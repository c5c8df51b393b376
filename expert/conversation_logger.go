package expert

// ConversationLogger is an interface for logging the interactions
// between an AI and the tools it calls. An implementation of this
// interface is passed to an expert at construction to handle the output.
type ConversationLogger interface {
	LogQuestion(expertName, question string)
	LogResponse(expertName, response string)
}

type nopLogger struct{}

func (nopLogger) LogQuestion(string, string) {}
func (nopLogger) LogResponse(string, string) {}
