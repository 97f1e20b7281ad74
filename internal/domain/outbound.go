package domain

// OutboundKind selects how a reply is delivered.
type OutboundKind int

const (
	// OutboundText sends a new text message.
	OutboundText OutboundKind = iota
	// OutboundEdit replaces the text of an earlier message.
	OutboundEdit
	// OutboundPost sends the session photos as a group captioned with Text.
	OutboundPost
	// OutboundDelete removes an earlier message.
	OutboundDelete
)

// Button is one inline keyboard button.
type Button struct {
	Label  string
	Action Action
}

// Outbound describes one message the transport should deliver.
type Outbound struct {
	Kind      OutboundKind
	Text      string
	MessageID int
	Photos    []string
	Buttons   [][]Button
	Markdown  bool
}

func TextReply(text string, rows ...[]Button) Outbound {
	return Outbound{Kind: OutboundText, Text: text, Buttons: rows}
}

// EditReply edits messageID, or sends a new message when messageID is zero.
func EditReply(messageID int, text string, rows ...[]Button) Outbound {
	if messageID == 0 {
		return TextReply(text, rows...)
	}
	return Outbound{Kind: OutboundEdit, MessageID: messageID, Text: text, Buttons: rows}
}

func PostReply(photos []string, caption string) Outbound {
	return Outbound{Kind: OutboundPost, Photos: photos, Text: caption, Markdown: true}
}

func DeleteReply(messageID int) Outbound {
	return Outbound{Kind: OutboundDelete, MessageID: messageID}
}
