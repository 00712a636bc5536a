package enums

import "strings"

type AttachmentKind string

const (
	AttachmentKindPoll  AttachmentKind = "poll"
	AttachmentKindQuote AttachmentKind = "quote"
	AttachmentKindLink  AttachmentKind = "link"
)

func ParseAttachmentKind(raw string) (AttachmentKind, bool) {
	switch AttachmentKind(strings.ToLower(strings.TrimSpace(raw))) {
	case AttachmentKindPoll:
		return AttachmentKindPoll, true
	case AttachmentKindQuote:
		return AttachmentKindQuote, true
	case AttachmentKindLink:
		return AttachmentKindLink, true
	default:
		return "", false
	}
}
