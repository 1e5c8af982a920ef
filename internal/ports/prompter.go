package ports

// ReconnectPrompter surfaces the "not connected, retry?" prompt. Show must not
// block; the answer comes back through the reconnect gate.
type ReconnectPrompter interface {
	ShowReconnectPrompt()
}
