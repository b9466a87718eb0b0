package contactService

import (
	"fmt"
	"strings"
	"time"

	"portfolio/internal/api/contact"
	"portfolio/internal/entity"
)

const (
	csvHeader  = "Name,Email,Subject,Message,Date"
	csvDateFmt = "Jan 2, 2006, 03:04 PM"
)

// Filter keeps messages whose name, email, subject or message contains term,
// ignoring case. An empty term keeps everything.
func Filter(messages []entity.ContactMessage, term string) []entity.ContactMessage {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return messages
	}

	out := make([]entity.ContactMessage, 0, len(messages))
	for _, m := range messages {
		if strings.Contains(strings.ToLower(m.Name), term) ||
			strings.Contains(strings.ToLower(m.Email), term) ||
			strings.Contains(strings.ToLower(m.Subject), term) ||
			strings.Contains(strings.ToLower(m.Message), term) {
			out = append(out, m)
		}
	}
	return out
}

// Paginate clamps page into [1, totalPages] and returns the bounds of that page.
// An empty list has one empty page.
func Paginate(total, page, size int) (clamped, totalPages, start, end int) {
	totalPages = (total + size - 1) / size
	if totalPages < 1 {
		totalPages = 1
	}

	clamped = page
	if clamped < 1 {
		clamped = 1
	}
	if clamped > totalPages {
		clamped = totalPages
	}

	start = (clamped - 1) * size
	end = start + size
	if start > total {
		start = total
	}
	if end > total {
		end = total
	}
	return clamped, totalPages, start, end
}

func ComputeStats(messages []entity.ContactMessage, now time.Time) contact.Stats {
	senders := make(map[string]struct{}, len(messages))
	thisMonth := 0

	for _, m := range messages {
		senders[m.Email] = struct{}{}

		at := m.CreatedAt.In(now.Location())
		if at.Year() == now.Year() && at.Month() == now.Month() {
			thisMonth++
		}
	}

	return contact.Stats{
		Total:         len(messages),
		ThisMonth:     thisMonth,
		UniqueSenders: len(senders),
	}
}

// ExportCSV renders messages with every field double-quoted and embedded quotes
// doubled. Dates are formatted in loc.
func ExportCSV(messages []entity.ContactMessage, loc *time.Location) string {
	lines := make([]string, 0, len(messages)+1)
	lines = append(lines, csvHeader)

	for _, m := range messages {
		lines = append(lines, strings.Join([]string{
			quote(m.Name),
			quote(m.Email),
			quote(m.Subject),
			quote(m.Message),
			quote(m.CreatedAt.In(loc).Format(csvDateFmt)),
		}, ","))
	}

	return strings.Join(lines, "\n")
}

func quote(field string) string {
	return `"` + strings.ReplaceAll(field, `"`, `""`) + `"`
}

func ExportFilename(now time.Time) string {
	return fmt.Sprintf("contact-messages-%s.csv", now.Format("2006-01-02"))
}

func makeMessageResponse(m entity.ContactMessage) contact.MessageResponse {
	return contact.MessageResponse{
		ID:        m.ID,
		Name:      m.Name,
		Email:     m.Email,
		Subject:   m.Subject,
		Message:   m.Message,
		CreatedAt: m.CreatedAt,
	}
}
