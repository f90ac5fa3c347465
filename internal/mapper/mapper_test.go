package mapper

import (
	"encoding/json"
	"reflect"
	"testing"
	"time"

	"github.com/starford/contacthub/internal/models"
)

func fullContact() models.Contact {
	ts := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	return models.Contact{
		ID:          3,
		FirstName:   "Ada",
		LastName:    "Lovelace",
		Email:       "ada@example.com",
		Phone:       "+44 20 0000 0000",
		Company:     "Analytical Engines",
		Position:    "Engineer",
		Photo:       "/photos/ada.png",
		Notes:       "met at conference",
		Tags:        []string{"a", "b", "c"},
		EmailStatus: "Sent",
		CreatedAt:   ts,
		UpdatedAt:   ts.Add(time.Minute),
	}
}

func TestRoundTrip(t *testing.T) {
	c := fullContact()
	got := FromStore(ToStoreFull(c))
	if !reflect.DeepEqual(got, c) {
		t.Errorf("round trip mismatch:\n got  %+v\n want %+v", got, c)
	}
}

func TestRoundTripThroughPatch(t *testing.T) {
	c := fullContact()
	var r models.Record
	ToStore(models.InputFrom(c)).Apply(&r)
	got := FromStore(r)
	if !reflect.DeepEqual(got.Tags, []string{"a", "b", "c"}) {
		t.Errorf("tags = %v", got.Tags)
	}
	if got.Company != c.Company || got.EmailStatus != c.EmailStatus {
		t.Errorf("fields lost: %+v", got)
	}
}

func TestToStoreOnlyPresentFields(t *testing.T) {
	p := ToStore(models.ContactInput{Company: models.String("D")})
	vals := p.Values()
	if len(vals) != 1 || vals[0].Name != models.ColCompany || vals[0].Value != "D" {
		t.Fatalf("values = %+v", vals)
	}

	raw, err := json.Marshal(p)
	if err != nil {
		t.Fatal(err)
	}
	if string(raw) != `{"Company_c":"D"}` {
		t.Errorf("json = %s", raw)
	}
}

func TestToStoreJoinsTagsWithoutSpacing(t *testing.T) {
	tags := models.Tags{"vip", "client"}
	p := ToStore(models.ContactInput{Tags: &tags})
	if p.Tags == nil || *p.Tags != "vip,client" {
		t.Fatalf("tags column = %v", p.Tags)
	}
}

func TestToStoreAcceptsJoinedTagString(t *testing.T) {
	var in models.ContactInput
	if err := json.Unmarshal([]byte(`{"tags":"vip, client"}`), &in); err != nil {
		t.Fatal(err)
	}
	p := ToStore(in)
	if p.Tags == nil || *p.Tags != "vip,client" {
		t.Fatalf("tags column = %v", p.Tags)
	}
}

func TestFromStoreDefaults(t *testing.T) {
	var r models.Record
	if err := json.Unmarshal([]byte(`{"Id":4,"First_Name_c":"A","Position_c":null,"Unknown_c":"x"}`), &r); err != nil {
		t.Fatal(err)
	}
	c := FromStore(r)
	if c.ID != 4 || c.FirstName != "A" {
		t.Errorf("contact = %+v", c)
	}
	if c.Position != "" || c.Notes != "" || c.Photo != "" {
		t.Errorf("optional fields not empty: %+v", c)
	}
	if c.Tags == nil || len(c.Tags) != 0 {
		t.Errorf("tags = %#v, want empty slice", c.Tags)
	}
}

func TestFromStoreTrimsTags(t *testing.T) {
	c := FromStore(models.Record{Tags: " a ,b,  c"})
	if !reflect.DeepEqual(c.Tags, []string{"a", "b", "c"}) {
		t.Errorf("tags = %v", c.Tags)
	}
}

func TestNormalizedTagsSurviveRoundTrip(t *testing.T) {
	c := fullContact()
	c.Tags = models.NormalizeTags([]string{"Sales,EMEA", "vip", " emea "})

	got := FromStore(ToStoreFull(c))
	if !reflect.DeepEqual(got.Tags, c.Tags) {
		t.Errorf("tags = %q, want %q", got.Tags, c.Tags)
	}
	if want := []string{"sales", "emea", "vip"}; !reflect.DeepEqual(c.Tags, want) {
		t.Errorf("normalized = %q, want %q", c.Tags, want)
	}
}
