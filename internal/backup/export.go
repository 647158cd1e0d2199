package backup

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// ExportJSON serializes the document with full fidelity.
func ExportJSON(doc *Document) ([]byte, error) {
	return json.MarshalIndent(doc, "", "  ")
}

// ExportCSV flattens the three collections into labeled sections with fixed
// column headers. The format is lossy for long text: quotes are doubled and
// newlines replaced with spaces.
func ExportCSV(doc *Document) []byte {
	var lines []string

	lines = append(lines,
		"# ABA Creative Group - Backup Export",
		fmt.Sprintf("# Generated: %s", doc.Timestamp.Format(time.RFC3339)),
		fmt.Sprintf("# Total Records: %d", doc.Metadata.TotalRecords),
		fmt.Sprintf("# Version: %s", doc.Version),
		"",
	)

	lines = append(lines, "=== USERS ===",
		"ID,Username,Name,Email,Role,Active,Created,Last Login")
	for _, u := range doc.Data.Users {
		last := "Never"
		if u.LastLogin != nil {
			last = u.LastLogin.Format(time.RFC3339)
		}
		lines = append(lines, csvLine(
			u.ID, u.Username, u.Name, u.Email, u.Role,
			fmt.Sprintf("%t", u.IsActive), u.CreatedAt.Format(time.RFC3339), last,
		))
	}
	lines = append(lines, "")

	lines = append(lines, "=== CONTACT MESSAGES ===",
		"ID,Name,Email,Subject,Message,Status,Submitted,Processed By,Notes")
	for _, m := range doc.Data.ContactMessages {
		lines = append(lines, csvLine(
			m.ID, m.Name, m.Email, m.Subject, flatten(m.Message),
			m.Status, m.SubmittedAt.Format(time.RFC3339), m.ProcessedBy, flatten(m.Notes),
		))
	}
	lines = append(lines, "")

	lines = append(lines, "=== JOIN US APPLICATIONS ===",
		"ID,Name,Email,Phone,Domain,Presentation,Portfolio,Status,Submitted,Processed By,Notes")
	for _, a := range doc.Data.JoinUsApplications {
		lines = append(lines, csvLine(
			a.ID, a.Name, a.Email, a.Phone, a.Domain, flatten(a.Presentation),
			a.Portfolio, a.Status, a.SubmittedAt.Format(time.RFC3339), a.ProcessedBy, flatten(a.Notes),
		))
	}

	return []byte(strings.Join(lines, "\n"))
}

// Filename returns the dated artifact name for an export.
func Filename(format string, at time.Time) string {
	return fmt.Sprintf("aba-backup-%s.%s", at.UTC().Format("2006-01-02"), format)
}

func csvLine(fields ...string) string {
	quoted := make([]string, len(fields))
	for i, f := range fields {
		quoted[i] = `"` + strings.ReplaceAll(f, `"`, `""`) + `"`
	}
	return strings.Join(quoted, ",")
}

func flatten(s string) string {
	return strings.ReplaceAll(s, "\n", " ")
}
