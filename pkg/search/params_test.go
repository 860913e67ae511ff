package search_test

import (
	"reflect"
	"testing"

	"github.com/forkfilter/forkfilter/pkg/search"
)

func TestParseMenuTerms(t *testing.T) {
	cases := []struct {
		in   string
		want []string
	}{
		{"", nil},
		{"Tacos, Pho ,  ", []string{"tacos", "pho"}},
		{"falafel+shawarma", []string{"falafel", "shawarma"}},
		{",,a,,b,", []string{"a", "b"}},
	}
	for _, c := range cases {
		if got := search.ParseMenuTerms(c.in); !reflect.DeepEqual(got, c.want) {
			t.Errorf("ParseMenuTerms(%q) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestParsePrices(t *testing.T) {
	if got := search.ParsePrices("1,2,x,3"); !reflect.DeepEqual(got, []int{1, 2, 3}) {
		t.Errorf("ParsePrices = %v, want [1 2 3]", got)
	}
	if got := search.ParsePrices(""); got != nil {
		t.Errorf("ParsePrices(\"\") = %v, want nil", got)
	}
}

func TestParseBusyLevels(t *testing.T) {
	got := search.ParseBusyLevels("Low, high, bogus")
	want := map[string]bool{"Low": true, "High": true}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ParseBusyLevels = %v, want %v", got, want)
	}
}

func TestTruthy(t *testing.T) {
	for _, s := range []string{"1", "true", "T", "YES", "y", "on"} {
		if !search.Truthy(s) {
			t.Errorf("Truthy(%q) = false, want true", s)
		}
	}
	for _, s := range []string{"", "0", "false", "no", "off", "maybe"} {
		if search.Truthy(s) {
			t.Errorf("Truthy(%q) = true, want false", s)
		}
	}
}
