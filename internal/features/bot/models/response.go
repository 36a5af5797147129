package models

// ActionType discriminates menu actions.
type ActionType string

const (
	// ActionMessage sends the action text as the user's next message.
	ActionMessage ActionType = "message"
	// ActionURI opens a link.
	ActionURI ActionType = "uri"
)

// Action is one tappable entry of a Menu.
type Action struct {
	Type  ActionType
	Label string
	// Text is set for ActionMessage, URI for ActionURI.
	Text string
	URI  string
}

// Response is the abstract reply produced by the command router and consumed
// by the delivery layer. Exactly one of the two forms is populated: a plain
// Text, or a Menu with actions.
type Response struct {
	Text string
	Menu *Menu
}

// Menu is a titled block of text with up to a handful of actions. The
// delivery layer renders it as a LINE buttons template.
type Menu struct {
	Title   string
	Text    string
	Actions []Action
}

// NewText builds a plain text response.
func NewText(text string) Response {
	return Response{Text: text}
}

// NewMenu builds a menu response.
func NewMenu(title, text string, actions ...Action) Response {
	return Response{Menu: &Menu{Title: title, Text: text, Actions: actions}}
}

// MessageAction builds an action that sends text as the next user message.
func MessageAction(label, text string) Action {
	return Action{Type: ActionMessage, Label: label, Text: text}
}

// URIAction builds an action that opens a link.
func URIAction(label, uri string) Action {
	return Action{Type: ActionURI, Label: label, URI: uri}
}
