package chat

import "testing"

func TestParseCommandMenu(t *testing.T) {
	cases := []struct {
		in   string
		want CommandKind
	}{
		{"hi", CmdMainMenu},
		{"Hello", CmdMainMenu},
		{"START", CmdMainMenu},
		{"menu", CmdMainMenu},
		{"1", CmdStartBooking},
		{"book service", CmdStartBooking},
		{"2", CmdListBookings},
		{"My Bookings", CmdListBookings},
		{"3", CmdStartProviderReg},
		{"become a provider", CmdStartProviderReg},
		{"4", CmdHelp},
		{"help", CmdHelp},
		{"0", CmdCancelFlow},
		{"cancel", CmdCancelFlow},
		{"I have a leaking sink", CmdStepAnswer},
		{"tomorrow", CmdStepAnswer},
	}
	for _, tc := range cases {
		if got := ParseCommand(tc.in); got.Kind != tc.want {
			t.Errorf("ParseCommand(%q).Kind = %v, want %v", tc.in, got.Kind, tc.want)
		}
	}
}

func TestParseCommandPrefixes(t *testing.T) {
	cmd := ParseCommand("ACCEPT bk-123")
	if cmd.Kind != CmdAccept || cmd.BookingID != "bk-123" {
		t.Fatalf("got %+v", cmd)
	}

	cmd = ParseCommand("decline bk-123")
	if cmd.Kind != CmdDecline || cmd.BookingID != "bk-123" {
		t.Fatalf("got %+v", cmd)
	}

	cmd = ParseCommand("Pay bk-123")
	if cmd.Kind != CmdPay || cmd.BookingID != "bk-123" {
		t.Fatalf("got %+v", cmd)
	}

	cmd = ParseCommand("rate bk-123 5")
	if cmd.Kind != CmdRate || cmd.BookingID != "bk-123" || cmd.Rating != 5 {
		t.Fatalf("got %+v", cmd)
	}

	// Malformed rate is a plain step answer.
	cmd = ParseCommand("rate bk-123 five")
	if cmd.Kind != CmdStepAnswer {
		t.Fatalf("got %+v", cmd)
	}
}

func TestParseCommandKeepsOriginalText(t *testing.T) {
	cmd := ParseCommand("  Kileleshwa, Nairobi  ")
	if cmd.Kind != CmdStepAnswer {
		t.Fatalf("kind = %v", cmd.Kind)
	}
	if cmd.Text != "Kileleshwa, Nairobi" {
		t.Errorf("text = %q, casing must survive", cmd.Text)
	}
}
