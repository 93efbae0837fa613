package leads

import (
	"fmt"
	"net/url"
	"strings"
)

const waGreeting = "Hello %s, this is the JMK sales team. We have a special offer prepared for you. Would you have a moment to talk?"

// WhatsAppLink builds a wa.me deep link for a lead's phone number with a
// pre-filled greeting. Non-digit characters are stripped and a leading 0
// is rewritten to the 62 country code. Returns "" when the lead has no
// usable phone number.
func WhatsAppLink(l Lead) string {
	var b strings.Builder
	for _, r := range l.Phone {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	phone := b.String()
	if phone == "" {
		return ""
	}
	if strings.HasPrefix(phone, "0") {
		phone = "62" + phone[1:]
	}

	msg := fmt.Sprintf(waGreeting, l.Name)
	return "https://wa.me/" + phone + "?text=" + url.QueryEscape(msg)
}
