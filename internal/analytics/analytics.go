package analytics

import (
	"math"
	"sort"
	"time"

	"github.com/abacreative/admin-services/internal/models"
)

// StatusStats is a per-workflow-state breakdown of one submission kind.
type StatusStats struct {
	Pending   int `json:"pending"`
	Processed int `json:"processed"`
	Rejected  int `json:"rejected"`
	Total     int `json:"total"`
}

// DomainStats counts applications per talent domain.
type DomainStats struct {
	Domain     string `json:"domain"`
	Count      int    `json:"count"`
	Percentage int    `json:"percentage"`
}

// DateStats is submission volume for one calendar day.
type DateStats struct {
	Date     string `json:"date"`
	Contacts int    `json:"contacts"`
	JoinUs   int    `json:"joinUs"`
	Total    int    `json:"total"`
}

// ConversionRate is the processed share of each submission kind, percent.
type ConversionRate struct {
	Contacts int `json:"contacts"`
	JoinUs   int `json:"joinUs"`
}

// Trends compares the last 3 days of activity against the 3 before them.
type Trends struct {
	Contacts int `json:"contacts"`
	JoinUs   int `json:"joinUs"`
	Overall  int `json:"overall"`
}

// Highlights are the headline numbers shown at the top of the analytics view.
type Highlights struct {
	MostActiveDomain string    `json:"mostActiveDomain"`
	BusiestDay       DateStats `json:"busiestDay"`
	TotalSubmissions int       `json:"totalSubmissions"`
	PendingTotal     int       `json:"pendingTotal"`
}

// Snapshot is the full derived analytics view. It is recomputed from the
// underlying collections on demand and also embedded in backup documents.
type Snapshot struct {
	ContactStats   StatusStats    `json:"contactStats"`
	JoinUsStats    StatusStats    `json:"joinUsStats"`
	DomainStats    []DomainStats  `json:"domainStats"`
	DailyStats     []DateStats    `json:"dailyStats"`
	ConversionRate ConversionRate `json:"conversionRate"`
	Trends         Trends         `json:"trends"`
	Highlights     Highlights     `json:"highlights"`
}

// Compute derives a snapshot from the two submission collections. now anchors
// the 7-day daily window.
func Compute(contacts []models.ContactMessage, apps []models.JoinUsApplication, now time.Time) Snapshot {
	var cs, js StatusStats
	for _, c := range contacts {
		bump(&cs, c.Status)
	}
	for _, a := range apps {
		bump(&js, a.Status)
	}

	domainCounts := map[string]int{}
	for _, a := range apps {
		domainCounts[a.Domain]++
	}
	domains := make([]DomainStats, 0, len(domainCounts))
	for d, n := range domainCounts {
		pct := 0
		if len(apps) > 0 {
			pct = int(math.Round(float64(n) / float64(len(apps)) * 100))
		}
		domains = append(domains, DomainStats{Domain: d, Count: n, Percentage: pct})
	}
	sort.Slice(domains, func(i, j int) bool {
		if domains[i].Count != domains[j].Count {
			return domains[i].Count > domains[j].Count
		}
		return domains[i].Domain < domains[j].Domain
	})

	daily := make([]DateStats, 0, 7)
	for i := 6; i >= 0; i-- {
		day := now.UTC().AddDate(0, 0, -i).Format("2006-01-02")
		ds := DateStats{Date: day}
		for _, c := range contacts {
			if c.SubmittedAt.UTC().Format("2006-01-02") == day {
				ds.Contacts++
			}
		}
		for _, a := range apps {
			if a.SubmittedAt.UTC().Format("2006-01-02") == day {
				ds.JoinUs++
			}
		}
		ds.Total = ds.Contacts + ds.JoinUs
		daily = append(daily, ds)
	}

	conv := ConversionRate{
		Contacts: ratio(cs.Processed, cs.Total),
		JoinUs:   ratio(js.Processed, js.Total),
	}

	trend := dailyTrend(daily)
	trends := Trends{Contacts: trend, JoinUs: trend, Overall: trend}

	highlights := Highlights{
		MostActiveDomain: "Aucun",
		TotalSubmissions: cs.Total + js.Total,
		PendingTotal:     cs.Pending + js.Pending,
	}
	if len(domains) > 0 {
		highlights.MostActiveDomain = domains[0].Domain
	}
	if len(daily) > 0 {
		busiest := daily[0]
		for _, d := range daily[1:] {
			if d.Total > busiest.Total {
				busiest = d
			}
		}
		highlights.BusiestDay = busiest
	}

	return Snapshot{
		ContactStats:   cs,
		JoinUsStats:    js,
		DomainStats:    domains,
		DailyStats:     daily,
		ConversionRate: conv,
		Trends:         trends,
		Highlights:     highlights,
	}
}

func bump(s *StatusStats, status string) {
	s.Total++
	switch status {
	case models.StatusPending:
		s.Pending++
	case models.StatusProcessed:
		s.Processed++
	case models.StatusRejected:
		s.Rejected++
	}
}

func ratio(part, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(part) / float64(total) * 100))
}

// dailyTrend compares the last 3 days against the 3 prior: percent change,
// 0 when there is no prior activity to compare against.
func dailyTrend(daily []DateStats) int {
	if len(daily) < 6 {
		return 0
	}
	recent := daily[len(daily)-3:]
	previous := daily[len(daily)-6 : len(daily)-3]
	var r, p int
	for _, d := range recent {
		r += d.Total
	}
	for _, d := range previous {
		p += d.Total
	}
	if p == 0 {
		return 0
	}
	return int(math.Round(float64(r-p) / float64(p) * 100))
}
