package utils

import "testing"

func TestParseQuantity(t *testing.T) {
	cases := []struct {
		in   string
		want int
		ok   bool
	}{
		{"10", 10, true},
		{" 1 200 ", 1200, true},
		{"2.0", 2, true},
		{"5 pcs", 5, true},
		{"", 0, false},
		{"n/a", 0, false},
	}
	for _, c := range cases {
		got, ok := ParseQuantity(c.in)
		if got != c.want || ok != c.ok {
			t.Errorf("ParseQuantity(%q) = %d, %v; want %d, %v", c.in, got, ok, c.want, c.ok)
		}
	}
}

func TestParseMoney(t *testing.T) {
	cases := map[string]float64{
		"Rs 1,250.00": 1250,
		"$0.35":       0.35,
		"LKR 45":      45,
		"USD 2.5":     2.5,
		"call":        0,
		"":            0,
	}
	for in, want := range cases {
		if got := ParseMoney(in); got != want {
			t.Errorf("ParseMoney(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestFormHelpers(t *testing.T) {
	if got := ToFloat(" 72.5 ", 70); got != 72.5 {
		t.Errorf("ToFloat = %v", got)
	}
	if got := ToFloat("NaN", 70); got != 70 {
		t.Errorf("ToFloat(NaN) = %v", got)
	}
	if !ToBool("on", false) || ToBool("off", true) || !ToBool("maybe", true) {
		t.Error("ToBool mismatch")
	}
	if got := Atoi("x", 1); got != 1 {
		t.Errorf("Atoi = %d", got)
	}
	got := SplitValues([]string{"LCSC, Mouser", "", "Tronic.lk"})
	want := []string{"LCSC", "Mouser", "Tronic.lk"}
	if len(got) != len(want) {
		t.Fatalf("SplitValues = %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("SplitValues[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}
