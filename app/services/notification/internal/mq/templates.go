package mq

import (
	"errors"
	"fmt"
	"html"
	"strconv"
	"unicode/utf8"

	"SwapIt/app/common/bus"
	"SwapIt/app/services/notification/internal/mailer"
)

const previewLength = 50

var errNoRecipient = errors.New("event carries no recipient")

// compose renders the mail an event triggers. Until users can be looked up,
// sellers and receivers get a placeholder address derived from their id.
func compose(evt bus.Event) (mailer.Mail, error) {
	switch e := evt.(type) {
	case bus.UserRegistered:
		if e.Email == "" {
			return mailer.Mail{}, errNoRecipient
		}
		return mailer.Mail{
			To:      e.Email,
			Subject: "Welcome to SwapIt!",
			HTML:    fmt.Sprintf("<h1>Welcome to SwapIt!</h1><p>Hi %s, thank you for joining SwapIt!</p>", html.EscapeString(e.Username)),
		}, nil
	case bus.OrderPlaced:
		if e.SellerID == "" {
			return mailer.Mail{}, errNoRecipient
		}
		return mailer.Mail{
			To:      "seller-" + e.SellerID + "@example.com",
			Subject: "New Order Received",
			HTML:    fmt.Sprintf("<h1>New Order!</h1><p>You have received a new order for %s€</p>", strconv.FormatFloat(e.Amount, 'f', -1, 64)),
		}, nil
	case bus.MessageSent:
		if e.ReceiverID == "" {
			return mailer.Mail{}, errNoRecipient
		}
		return mailer.Mail{
			To:      "user-" + e.ReceiverID + "@example.com",
			Subject: "New Message on SwapIt",
			HTML:    fmt.Sprintf("<h1>New Message</h1><p>You have received a new message: %s</p>", html.EscapeString(preview(e.Content))),
		}, nil
	default:
		return mailer.Mail{}, fmt.Errorf("no notification for %s", evt.Type())
	}
}

func preview(s string) string {
	if utf8.RuneCountInString(s) <= previewLength {
		return s
	}
	return string([]rune(s)[:previewLength]) + "..."
}
