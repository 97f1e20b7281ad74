package domain

// EventKind tags the variant carried by an Event.
type EventKind int

const (
	EventStart EventKind = iota + 1
	EventPhoto
	EventDone
	EventText
	EventButton
	EventCancel
)

func (k EventKind) String() string {
	switch k {
	case EventStart:
		return "start"
	case EventPhoto:
		return "photo"
	case EventDone:
		return "done"
	case EventText:
		return "text"
	case EventButton:
		return "button"
	case EventCancel:
		return "cancel"
	default:
		return "unknown"
	}
}

// Action is the payload of an inline keyboard button.
type Action string

const (
	ActionAddDescription Action = "add_description"
	ActionNoDescription  Action = "no_description"
	ActionAccept         Action = "accept"
	ActionEdit           Action = "edit"
	ActionRegenerate     Action = "regenerate"
)

// Known reports whether the action is one the controller understands.
func (a Action) Known() bool {
	switch a {
	case ActionAddDescription, ActionNoDescription, ActionAccept, ActionEdit, ActionRegenerate:
		return true
	}
	return false
}

// Event is a single inbound user interaction.
type Event struct {
	Kind EventKind

	// Photo holds the downloaded image bytes for EventPhoto; nil when the
	// download failed.
	Photo []byte

	// MessageID is the inbound photo message for EventPhoto and the message
	// carrying the keyboard for EventButton. Zero when unknown.
	MessageID int

	// StatusMessageID is the progress notice sent for a photo, if any.
	StatusMessageID int

	Text   string
	Action Action
}

func StartEvent() Event {
	return Event{Kind: EventStart}
}

func PhotoEvent(data []byte, messageID, statusMessageID int) Event {
	return Event{Kind: EventPhoto, Photo: data, MessageID: messageID, StatusMessageID: statusMessageID}
}

func DoneEvent() Event {
	return Event{Kind: EventDone}
}

func TextEvent(text string) Event {
	return Event{Kind: EventText, Text: text}
}

func ButtonEvent(action Action, messageID int) Event {
	return Event{Kind: EventButton, Action: action, MessageID: messageID}
}

func CancelEvent() Event {
	return Event{Kind: EventCancel}
}
