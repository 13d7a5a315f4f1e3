package order

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const timestampLayout = "Monday, January 2, 2006 at 3:04:05 PM"

// cairo is the display timezone for derived timestamps. The fallback zone
// keeps formatting working on hosts without tzdata.
var cairo = func() *time.Location {
	loc, err := time.LoadLocation("Africa/Cairo")
	if err != nil {
		return time.FixedZone("EET", 2*60*60)
	}
	return loc
}()

// Reference returns the synthetic order identifier for the given instant.
// It is a display artifact only: non-unique, non-persisted, recomputed on
// every render.
func Reference(t time.Time) string {
	return "ORD-" + strconv.FormatInt(t.UnixMilli(), 10)
}

// DisplayTimestamp returns the caller-supplied timestamp verbatim when
// present, otherwise a localized human-readable rendering of now.
func (s *Submission) DisplayTimestamp(now time.Time) string {
	if s.Timestamp != "" {
		return s.Timestamp
	}
	return now.In(cairo).Format(timestampLayout)
}

// NotificationBody renders the primary new-order message in Telegram HTML.
// The phone number is wrapped in <code> so it stays a verbatim,
// copy-pastable span.
func (s *Submission) NotificationBody(now time.Time) string {
	var b strings.Builder

	b.WriteString("🛒 <b>New Order Received</b>\n\n")
	fmt.Fprintf(&b, "📦 Product: %s\n", s.ProductName)
	price := string(s.ProductPrice)
	if price == "" {
		price = "N/A"
	}
	fmt.Fprintf(&b, "💰 Price: %s\n", price)
	fmt.Fprintf(&b, "🔢 Quantity: %s\n\n", formatQuantity(s.Quantity))

	fmt.Fprintf(&b, "👤 Customer: %s\n", s.Name)
	fmt.Fprintf(&b, "📞 Phone: <code>%s</code>\n", s.Phone)
	fmt.Fprintf(&b, "📍 Address: %s\n", s.Address)

	if s.Notes != "" {
		fmt.Fprintf(&b, "\n📝 Notes: %s\n", s.Notes)
	}

	page := s.PageURL
	if page == "" {
		page = "Not provided"
	}
	fmt.Fprintf(&b, "\n🔗 Page: %s\n", page)

	fmt.Fprintf(&b, "\n🕐 Time: %s\n", s.DisplayTimestamp(now))
	fmt.Fprintf(&b, "🆔 Order ID: #%s", Reference(now))

	return b.String()
}

// ConfirmationBody renders the short follow-up reply sent after the primary
// message succeeds. Its order reference is computed fresh, so it differs
// from the one in the primary body.
func (s *Submission) ConfirmationBody(now time.Time) string {
	var b strings.Builder

	b.WriteString("✅ <b>Order logged</b>\n\n")
	fmt.Fprintf(&b, "👤 %s\n", s.Name)
	fmt.Fprintf(&b, "📞 <code>%s</code>\n", s.Phone)
	fmt.Fprintf(&b, "📦 %s\n", s.ProductName)
	fmt.Fprintf(&b, "🆔 #%s", Reference(now))

	return b.String()
}

func formatQuantity(q *float64) string {
	if q == nil {
		return ""
	}
	return strconv.FormatFloat(*q, 'f', -1, 64)
}
