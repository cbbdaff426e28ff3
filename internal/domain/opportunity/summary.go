package opportunity

import (
	"strconv"
	"strings"

	"github.com/mbernardes19/torre-matheus/internal/domain"
	"github.com/mbernardes19/torre-matheus/pkg/torre"
)

const (
	unknownCompany = "Unknown Company"
	untitled       = "Untitled opportunity"
	maxSkills      = 5
)

// Summarize maps the records of page to display summaries, in order.
func Summarize(page *torre.ResultPage) []domain.OpportunitySummary {
	if page == nil {
		return []domain.OpportunitySummary{}
	}

	out := make([]domain.OpportunitySummary, 0, len(page.Results))
	for _, o := range page.Results {
		out = append(out, Summary(o))
	}
	return out
}

// Summary flattens an opportunity into display strings. Absent fields stay empty
// except company and title, which fall back to placeholders.
func Summary(o torre.Opportunity) domain.OpportunitySummary {
	s := domain.OpportunitySummary{
		ID:           o.ID,
		Title:        o.Objective,
		Type:         o.Type,
		Company:      unknownCompany,
		Remote:       o.Remote != nil && *o.Remote,
		Compensation: FormatCompensation(o.Compensation),
		Commitment:   strings.Replace(o.Commitment, "-", " ", 1),
		Status:       o.Status,
		Deadline:     o.Deadline,
	}
	if s.Title == "" {
		s.Title = untitled
	}

	if len(o.Organizations) > 0 {
		if name := o.Organizations[0].Name; name != "" {
			s.Company = name
		}
		s.Logo = o.Organizations[0].Picture
	}

	switch {
	case s.Remote:
		s.Location = "Remote"
	case len(o.Locations) > 0:
		s.Location = strings.Join(o.Locations, ", ")
	}

	for i, sk := range o.Skills {
		if i == maxSkills {
			s.MoreSkills = len(o.Skills) - maxSkills
			break
		}
		s.Skills = append(s.Skills, sk.Name)
	}

	return s
}

// FormatCompensation renders a salary range such as "$1,000 - $2,000/monthly".
// USD uses a dollar sign; other currencies prefix their code. Zero amounts count as absent.
func FormatCompensation(c *torre.Compensation) string {
	if c == nil {
		return ""
	}
	hasMin := c.MinAmount != nil && *c.MinAmount != 0
	hasMax := c.MaxAmount != nil && *c.MaxAmount != 0

	symbol := c.Currency
	if symbol == "USD" {
		symbol = "$"
	}

	var out string
	switch {
	case hasMin && hasMax:
		out = symbol + formatAmount(*c.MinAmount) + " - " + symbol + formatAmount(*c.MaxAmount)
	case hasMin:
		out = symbol + formatAmount(*c.MinAmount) + "+"
	case hasMax:
		out = "Up to " + symbol + formatAmount(*c.MaxAmount)
	default:
		return ""
	}

	if c.Periodicity != "" {
		out += "/" + c.Periodicity
	}
	return out
}

// formatAmount groups thousands with commas and keeps up to three decimals.
func formatAmount(v float64) string {
	neg := v < 0
	if neg {
		v = -v
	}

	s := strconv.FormatFloat(v, 'f', -1, 64)
	intPart, frac, _ := strings.Cut(s, ".")
	if len(frac) > 3 {
		rounded := strconv.FormatFloat(v, 'f', 3, 64)
		intPart, frac, _ = strings.Cut(rounded, ".")
		frac = strings.TrimRight(frac, "0")
	}

	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	if frac != "" {
		b.WriteByte('.')
		b.WriteString(frac)
	}
	return b.String()
}
