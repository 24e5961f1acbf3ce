package constant

const (
	ChatMessageRoleUser  = "user"
	ChatMessageRoleModel = "model"

	ChatSessionDefaultTitle = "Unnamed session"

	ChatInitialGreeting = "Hi! Ask me anything about this study material."
)
