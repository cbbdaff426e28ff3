package torre

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/mbernardes19/torre-matheus/pkg/httpclient"
)

type searchCall struct {
	method string
	uri    string
	body   string
}

func newSearchServer(t *testing.T, status int, response string) (*httptest.Server, *searchCall) {
	t.Helper()

	call := &searchCall{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, _ := io.ReadAll(r.Body)
		call.method = r.Method
		call.uri = r.URL.RequestURI()
		call.body = string(data)

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, response)
	}))
	t.Cleanup(srv.Close)

	return srv, call
}

const basicResponse = `{"total":1,"offset":0,"size":10,"results":[{"id":"1","objective":"Designer","type":"job","organizations":[{"id":"org1","name":"Test Company"}],"locations":["Remote"],"remote":true}]}`

func TestSearchOpportunitiesBasic(t *testing.T) {
	srv, call := newSearchServer(t, http.StatusOK, basicResponse)
	client := NewClient(Config{BaseURL: srv.URL})

	page, err := client.SearchOpportunities(context.Background(), Expression{
		And: []Filter{Keywords{Term: "Designer", Locale: "en"}},
	}, nil)
	if err != nil {
		t.Fatalf("SearchOpportunities: %v", err)
	}

	if call.method != http.MethodPost {
		t.Errorf("method: got %s", call.method)
	}
	if call.uri != "/opportunities/_search" {
		t.Errorf("uri: got %s", call.uri)
	}
	want := `{"and":[{"keywords":{"term":"Designer","locale":"en"}}]}`
	if call.body != want {
		t.Errorf("body:\n got %s\nwant %s", call.body, want)
	}

	if page.Total != 1 || len(page.Results) != 1 {
		t.Fatalf("unexpected page: %+v", page)
	}
	opp := page.Results[0]
	if opp.Objective != "Designer" || opp.Type != "job" {
		t.Errorf("unexpected opportunity: %+v", opp)
	}
	if len(opp.Organizations) != 1 || opp.Organizations[0].ID != "org1" {
		t.Errorf("unexpected organizations: %+v", opp.Organizations)
	}
	if opp.Remote == nil || !*opp.Remote {
		t.Errorf("remote: got %v", opp.Remote)
	}
	if string(page.Raw) != basicResponse {
		t.Errorf("raw body not preserved: %s", page.Raw)
	}
}

func TestSearchOpportunitiesQueryParams(t *testing.T) {
	tests := []struct {
		name   string
		params *Params
		want   string
	}{
		{
			name: "service parameters in fixed order",
			params: &Params{
				Currency:       CurrencyUSD,
				Periodicity:    PeriodicityHourly,
				Lang:           "en",
				Size:           Int(10),
				ContextFeature: "job_feed",
			},
			want: "/opportunities/_search?currency=USD&periodicity=hourly&lang=en&size=10&contextFeature=job_feed",
		},
		{
			name:   "offset pagination",
			params: &Params{Size: Int(10), Offset: Int(20)},
			want:   "/opportunities/_search?size=10&offset=20",
		},
		{
			name:   "zero values still sent when set",
			params: &Params{Offset: Int(0), Aggregate: Bool(false)},
			want:   "/opportunities/_search?offset=0&aggregate=false",
		},
		{
			name:   "cursor after aggregate",
			params: &Params{Aggregate: Bool(true), After: "tok-1"},
			want:   "/opportunities/_search?aggregate=true&after=tok-1",
		},
		{
			name:   "empty params",
			params: &Params{},
			want:   "/opportunities/_search",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, call := newSearchServer(t, http.StatusOK, `{"total":0,"offset":0,"size":10,"results":[]}`)
			client := NewClient(Config{BaseURL: srv.URL})

			_, err := client.SearchOpportunities(context.Background(), Expression{
				And: []Filter{Keywords{Term: "Developer"}},
			}, tt.params)
			if err != nil {
				t.Fatalf("SearchOpportunities: %v", err)
			}
			if call.uri != tt.want {
				t.Errorf("uri:\n got %s\nwant %s", call.uri, tt.want)
			}
		})
	}
}

func TestSearchOpportunitiesBodyShapes(t *testing.T) {
	tests := []struct {
		name string
		expr Expression
		want string
	}{
		{
			name: "complex filters",
			expr: Expression{And: []Filter{
				Keywords{Term: "Designer", Locale: "en"},
				Language{Term: "English", Fluency: FluencyFullyFluent},
				SkillRole{Text: "Design systems", Proficiency: ProficiencyExpert},
				Status{Code: StatusOpen},
			}},
			want: `{"and":[{"keywords":{"term":"Designer","locale":"en"}},{"language":{"term":"English","fluency":"fully-fluent"}},{"skill/role":{"text":"Design systems","proficiency":"expert"}},{"status":{"code":"open"}}]}`,
		},
		{
			name: "or only",
			expr: Expression{Or: []Filter{Keywords{Term: "Designer"}, Keywords{Term: "Developer"}}},
			want: `{"or":[{"keywords":{"term":"Designer"}},{"keywords":{"term":"Developer"}}]}`,
		},
		{
			name: "and with not",
			expr: Expression{
				And: []Filter{Keywords{Term: "Engineer"}},
				Not: []Filter{Keywords{Term: "Junior"}},
			},
			want: `{"and":[{"keywords":{"term":"Engineer"}}],"not":[{"keywords":{"term":"Junior"}}]}`,
		},
		{
			name: "empty expression",
			expr: Expression{},
			want: `{}`,
		},
		{
			name: "empty group omitted",
			expr: Expression{And: []Filter{}, Or: []Filter{Keywords{Term: "R&D <lead>"}}},
			want: `{"or":[{"keywords":{"term":"R&D <lead>"}}]}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, call := newSearchServer(t, http.StatusOK, `{"total":0,"offset":0,"size":10,"results":[]}`)
			client := NewClient(Config{BaseURL: srv.URL})

			if _, err := client.SearchOpportunities(context.Background(), tt.expr, nil); err != nil {
				t.Fatalf("SearchOpportunities: %v", err)
			}
			if call.body != tt.want {
				t.Errorf("body:\n got %s\nwant %s", call.body, tt.want)
			}
		})
	}
}

func TestSearchOpportunitiesPropagatesExecutorErrors(t *testing.T) {
	t.Run("status", func(t *testing.T) {
		srv, _ := newSearchServer(t, http.StatusInternalServerError, `{"message":"boom"}`)
		client := NewClient(Config{BaseURL: srv.URL})

		_, err := client.SearchOpportunities(context.Background(), Expression{}, nil)
		var statusErr *httpclient.HTTPStatusError
		if !errors.As(err, &statusErr) {
			t.Fatalf("expected HTTPStatusError, got %T: %v", err, err)
		}
		if err.Error() != "HTTP Error: 500 Internal Server Error" {
			t.Errorf("message: got %q", err.Error())
		}
	})

	t.Run("timeout", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-r.Context().Done():
			case <-time.After(2 * time.Second):
			}
		}))
		t.Cleanup(srv.Close)
		client := NewClient(Config{BaseURL: srv.URL, Timeout: 30 * time.Millisecond})

		_, err := client.SearchOpportunities(context.Background(), Expression{}, nil)
		var timeoutErr *httpclient.TimeoutError
		if !errors.As(err, &timeoutErr) {
			t.Fatalf("expected TimeoutError, got %T: %v", err, err)
		}
		if err.Error() != "Request timeout after 30ms" {
			t.Errorf("message: got %q", err.Error())
		}
	})

	t.Run("decode", func(t *testing.T) {
		srv, _ := newSearchServer(t, http.StatusOK, `{"total":`)
		client := NewClient(Config{BaseURL: srv.URL})

		_, err := client.SearchOpportunities(context.Background(), Expression{}, nil)
		var decodeErr *httpclient.DecodeError
		if !errors.As(err, &decodeErr) {
			t.Fatalf("expected DecodeError, got %T: %v", err, err)
		}
	})

	t.Run("wrong shape", func(t *testing.T) {
		srv, _ := newSearchServer(t, http.StatusOK, `{"total":"many"}`)
		client := NewClient(Config{BaseURL: srv.URL})

		_, err := client.SearchOpportunities(context.Background(), Expression{}, nil)
		var decodeErr *httpclient.DecodeError
		if !errors.As(err, &decodeErr) {
			t.Fatalf("expected DecodeError, got %T: %v", err, err)
		}
	})
}

func TestResultPageCursors(t *testing.T) {
	tests := []struct {
		name         string
		body         string
		wantNext     bool
		wantPrevious bool
		nextNull     bool
	}{
		{
			name:     "first page",
			body:     `{"total":100,"offset":0,"size":20,"results":[],"pagination":{"previous":null,"next":"next-page-token"}}`,
			wantNext: true,
		},
		{
			name:         "last page",
			body:         `{"total":100,"offset":80,"size":20,"results":[],"pagination":{"previous":"prev-page-token","next":null}}`,
			wantPrevious: true,
			nextNull:     true,
		},
		{
			name: "no pagination",
			body: `{"total":0,"offset":0,"size":20,"results":[]}`,
		},
		{
			name: "empty token",
			body: `{"total":10,"offset":0,"size":20,"results":[],"pagination":{"next":""}}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var page ResultPage
			if err := json.Unmarshal([]byte(tt.body), &page); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			if _, ok := page.NextCursor(); ok != tt.wantNext {
				t.Errorf("next: got %v, want %v", ok, tt.wantNext)
			}
			if _, ok := page.PreviousCursor(); ok != tt.wantPrevious {
				t.Errorf("previous: got %v, want %v", ok, tt.wantPrevious)
			}
			if page.Pagination != nil && page.Pagination.Next.IsNull() != tt.nextNull {
				t.Errorf("next null: got %v, want %v", page.Pagination.Next.IsNull(), tt.nextNull)
			}
		})
	}
}

func TestCursorOmittedVersusNull(t *testing.T) {
	var p Pagination
	if err := json.Unmarshal([]byte(`{"next":null}`), &p); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !p.Previous.IsZero() {
		t.Errorf("previous should be omitted")
	}
	if !p.Next.IsNull() {
		t.Errorf("next should be null")
	}

	out, err := json.Marshal(p)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(out) != `{"next":null}` {
		t.Errorf("round trip: got %s", out)
	}
}

func TestExpressionRoundTrip(t *testing.T) {
	in := `{"and":[{"keywords":{"term":"Go","locale":"en"}},{"skill/role":{"text":"Backend","proficiency":"expert"}}],"not":[{"status":{"code":"closed"}}]}`

	var expr Expression
	if err := json.Unmarshal([]byte(in), &expr); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(expr.And) != 2 || len(expr.Not) != 1 || expr.Or != nil {
		t.Fatalf("unexpected expression: %+v", expr)
	}
	if _, ok := expr.And[1].(SkillRole); !ok {
		t.Errorf("and[1]: got %T", expr.And[1])
	}

	out, err := json.Marshal(expr)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(out) != in {
		t.Errorf("round trip:\n got %s\nwant %s", out, in)
	}
}

func TestParseFilterRejects(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"unknown key", `{"salary":{"min":1}}`, `unknown filter "salary"`},
		{"two keys", `{"keywords":{"term":"a"},"status":{"code":"open"}}`, "exactly one key"},
		{"not an object", `["keywords"]`, "must be an object"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseFilter([]byte(tt.in))
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("got %v, want error containing %q", err, tt.want)
			}
		})
	}
}

func TestOrganizationNumericID(t *testing.T) {
	var org Organization
	if err := json.Unmarshal([]byte(`{"id":748392,"name":"Torre"}`), &org); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if org.ID != "748392" {
		t.Errorf("id: got %q", org.ID)
	}
}

func TestParamsClone(t *testing.T) {
	orig := &Params{Size: Int(10), Aggregate: Bool(true)}
	clone := orig.Clone()
	*clone.Size = 50
	clone.After = "x"

	if *orig.Size != 10 || orig.After != "" {
		t.Errorf("clone aliased original: %+v", orig)
	}
	if (*Params)(nil).Clone() == nil {
		t.Errorf("nil clone should be empty params")
	}
}
