package opportunity

import (
	"testing"

	"github.com/mbernardes19/torre-matheus/pkg/torre"
)

func f64(v float64) *float64 { return &v }

func TestFormatCompensation(t *testing.T) {
	tests := []struct {
		name string
		in   *torre.Compensation
		want string
	}{
		{"nil", nil, ""},
		{"range usd", &torre.Compensation{MinAmount: f64(1000), MaxAmount: f64(2500), Currency: "USD", Periodicity: "monthly"}, "$1,000 - $2,500/monthly"},
		{"range other currency", &torre.Compensation{MinAmount: f64(40), MaxAmount: f64(55.5), Currency: "EUR", Periodicity: "hourly"}, "EUR40 - EUR55.5/hourly"},
		{"min only", &torre.Compensation{MinAmount: f64(120000), Currency: "USD", Periodicity: "yearly"}, "$120,000+/yearly"},
		{"max only no periodicity", &torre.Compensation{MaxAmount: f64(999), Currency: "USD"}, "Up to $999"},
		{"zero amounts", &torre.Compensation{MinAmount: f64(0), MaxAmount: f64(0), Currency: "USD"}, ""},
		{"no currency", &torre.Compensation{MinAmount: f64(1234567)}, "1,234,567+"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatCompensation(tt.in); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSummaryFallbacks(t *testing.T) {
	s := Summary(torre.Opportunity{ID: "x"})

	if s.Title != untitled || s.Company != unknownCompany {
		t.Errorf("fallbacks: %+v", s)
	}
	if s.Location != "" || s.Remote || s.Compensation != "" || len(s.Skills) != 0 {
		t.Errorf("absent fields should stay empty: %+v", s)
	}
}

func TestSummaryFields(t *testing.T) {
	remote := true
	o := torre.Opportunity{
		ID:         "abc",
		Objective:  "Senior Designer",
		Commitment: "full-time",
		Organizations: []torre.Organization{
			{ID: "org1", Name: "Acme", Picture: "https://cdn/acme.png"},
			{ID: "org2", Name: "Other"},
		},
		Locations: []string{"Bogotá", "Medellín"},
		Remote:    &remote,
		Skills: []torre.Skill{
			{Name: "Figma"}, {Name: "UX"}, {Name: "UI"}, {Name: "Research"}, {Name: "Prototyping"}, {Name: "CSS"}, {Name: "Writing"},
		},
	}

	s := Summary(o)
	if s.Company != "Acme" || s.Logo != "https://cdn/acme.png" {
		t.Errorf("organization: %+v", s)
	}
	if s.Location != "Remote" {
		t.Errorf("location: got %q", s.Location)
	}
	if s.Commitment != "full time" {
		t.Errorf("commitment: got %q", s.Commitment)
	}
	if len(s.Skills) != 5 || s.MoreSkills != 2 {
		t.Errorf("skills: %v (+%d)", s.Skills, s.MoreSkills)
	}

	o.Remote = nil
	if got := Summary(o).Location; got != "Bogotá, Medellín" {
		t.Errorf("on-site location: got %q", got)
	}
}

func TestSummarizeNilPage(t *testing.T) {
	if got := Summarize(nil); got == nil || len(got) != 0 {
		t.Errorf("expected empty non-nil slice, got %v", got)
	}
}
