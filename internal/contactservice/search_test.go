package contactservice_test

import (
	"context"
	"testing"

	"github.com/starford/contacthub/internal/contactservice"
	"github.com/starford/contacthub/internal/models"
	"github.com/starford/contacthub/internal/testutil"
)

func TestMatch(t *testing.T) {
	c := models.Contact{
		FirstName: "Ada", LastName: "Lovelace", Email: "ada@engines.io",
		Phone: "555-0101", Company: "Analytical Engines", Tags: []string{"vip"},
	}
	tests := []struct {
		term string
		want bool
	}{
		{"ada love", true},
		{"ENGINES", true},
		{"0101", true},
		{"VIP", true},
		{"engineer", false},
		{"grace", false},
	}
	for _, tt := range tests {
		if got := contactservice.Match(c, tt.term); got != tt.want {
			t.Errorf("Match(%q) = %v, want %v", tt.term, got, tt.want)
		}
	}
}

func TestSearch(t *testing.T) {
	svc, _ := testutil.TestService(t)
	ctx := context.Background()

	got, err := svc.Search(ctx, "navy")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].ID != 2 {
		t.Errorf("search navy = %+v", got)
	}

	all, _ := svc.Search(ctx, "  ")
	if len(all) != 3 {
		t.Errorf("blank search returned %d", len(all))
	}
}

func TestFilterTrimsTerm(t *testing.T) {
	contacts := []models.Contact{
		{ID: 2, FirstName: "Grace", LastName: "Hopper", Company: "US Navy"},
		{ID: 1, FirstName: "Ada", LastName: "Lovelace"},
	}
	got := contactservice.Filter(contacts, "  navy ")
	if len(got) != 1 || got[0].ID != 2 {
		t.Errorf("Filter(navy) = %+v", got)
	}
	// The inner space of a full-name term is significant.
	if got := contactservice.Filter(contacts, " ada lovelace "); len(got) != 1 || got[0].ID != 1 {
		t.Errorf("Filter(full name) = %+v", got)
	}
	if got := contactservice.Filter(contacts, "\t"); len(got) != 2 {
		t.Errorf("blank term kept %d of 2", len(got))
	}
}
