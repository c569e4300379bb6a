package chat

import (
	"strconv"
	"strings"
)

// CommandKind classifies one inbound message. Parsing never fails:
// anything that is not a recognized command is a step answer for
// whatever flow the user is in (or noise if they are in none).
type CommandKind int

const (
	CmdStepAnswer CommandKind = iota
	CmdMainMenu
	CmdStartBooking
	CmdListBookings
	CmdStartProviderReg
	CmdHelp
	CmdCancelFlow
	CmdAccept
	CmdDecline
	CmdPay
	CmdRate
)

// Command is one parsed inbound message. Text always carries the
// original trimmed message so step answers keep their casing.
type Command struct {
	Kind      CommandKind
	BookingID string
	Rating    int
	Text      string
}

// ParseCommand classifies a raw message. Prefix commands (accept,
// decline, pay, rate) win over menu shortcuts, and menu shortcuts win
// over step answers.
func ParseCommand(raw string) Command {
	text := strings.TrimSpace(raw)
	lower := strings.ToLower(text)

	if rest, ok := strings.CutPrefix(lower, "accept "); ok {
		return Command{Kind: CmdAccept, BookingID: strings.TrimSpace(rest), Text: text}
	}
	if rest, ok := strings.CutPrefix(lower, "decline "); ok {
		return Command{Kind: CmdDecline, BookingID: strings.TrimSpace(rest), Text: text}
	}
	if rest, ok := strings.CutPrefix(lower, "pay "); ok {
		return Command{Kind: CmdPay, BookingID: strings.TrimSpace(rest), Text: text}
	}
	if rest, ok := strings.CutPrefix(lower, "rate "); ok {
		fields := strings.Fields(rest)
		if len(fields) == 2 {
			if rating, err := strconv.Atoi(fields[1]); err == nil {
				return Command{Kind: CmdRate, BookingID: fields[0], Rating: rating, Text: text}
			}
		}
		return Command{Kind: CmdStepAnswer, Text: text}
	}

	switch lower {
	case "hi", "hello", "start", "menu":
		return Command{Kind: CmdMainMenu, Text: text}
	case "1", "book service", "book":
		return Command{Kind: CmdStartBooking, Text: text}
	case "2", "my bookings":
		return Command{Kind: CmdListBookings, Text: text}
	case "3", "become provider", "become a provider":
		return Command{Kind: CmdStartProviderReg, Text: text}
	case "4", "help":
		return Command{Kind: CmdHelp, Text: text}
	case "0", "cancel":
		return Command{Kind: CmdCancelFlow, Text: text}
	}

	return Command{Kind: CmdStepAnswer, Text: text}
}
