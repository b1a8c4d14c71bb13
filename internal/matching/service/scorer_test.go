package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	cases := map[string]string{
		"":                         "",
		"  10K  Ohm\tResistor\n ": "10k ohm resistor",
		"LM7805":                   "lm7805",
		"\n\t ":                    "",
	}
	for in, want := range cases {
		assert.Equal(t, want, Normalize(in), "Normalize(%q)", in)
	}
}

func TestNameSimilarity(t *testing.T) {
	assert.Equal(t, 100.0, NameSimilarity("ATmega328P", "atmega328p"))
	assert.Equal(t, 100.0, NameSimilarity("10k resistor", "10k  resistor"))
	assert.Equal(t, 0.0, NameSimilarity("", "lm7805"))
	assert.Equal(t, 0.0, NameSimilarity("lm7805", "   "))
	assert.Equal(t, 0.0, NameSimilarity("abc", "xyz"))

	// "10k resistor 0805" is a subsequence of the longer name: 2*17/38
	assert.InDelta(t, 89.47, NameSimilarity("10k resistor 0805", "10K Ohm Resistor 0805"), 0.01)
	assert.InDelta(t, 50.0, NameSimilarity("ab", "a"+"c"), 0.0001)
}

func TestNameSimilaritySymmetric(t *testing.T) {
	pairs := [][2]string{
		{"NE555", "NE556 timer"},
		{"capacitor 100nF", "100nF ceramic capacitor"},
		{"ESP32-WROOM-32", "esp32 wroom"},
		{"µA741", "ua741"},
	}
	for _, p := range pairs {
		assert.Equal(t, NameSimilarity(p[0], p[1]), NameSimilarity(p[1], p[0]), "%v", p)
	}
}

func TestSpecSimilarityEmpty(t *testing.T) {
	assert.Equal(t, 0.0, SpecSimilarity("", ""))
	assert.Equal(t, 0.0, SpecSimilarity("smd resistor 0805", ""))
	assert.Equal(t, 0.0, SpecSimilarity("", "smd resistor 0805"))
	// only stop words and single characters
	assert.Equal(t, 0.0, SpecSimilarity("the a of", "x y z"))
}

func TestSpecSimilarity(t *testing.T) {
	assert.InDelta(t, 100.0, SpecSimilarity("smd resistor 0805", "smd resistor 0805"), 1e-9)
	assert.InDelta(t, 100.0, SpecSimilarity("resistor smd", "the smd resistor"), 1e-9)
	assert.Equal(t, 0.0, SpecSimilarity("ceramic capacitor", "voltage regulator"))

	// one shared term out of two per side: shared idf 1, one-sided ln(1.5)+1
	one := 1.0
	side := 1.4054651081081644
	want := 100 * one * one / (one*one + side*side)
	assert.InDelta(t, want, SpecSimilarity("smd resistor", "smd capacitor"), 1e-9)

	a, b := "10k 1% thick film resistor", "thick film chip resistor 10k"
	assert.Equal(t, SpecSimilarity(a, b), SpecSimilarity(b, a))
}

func TestTokenizeSplitsOnCombiningMarks(t *testing.T) {
	// decomposed umlaut: the combining mark is not a word character
	assert.Equal(t, []string{"mo", "tor", "driver"}, tokenize("Mo\u0308tor driver"))
	// precomposed letters stay whole
	assert.Equal(t, []string{"caf\u00e9"}, tokenize("CAF\u00c9"))
}

func TestRound1TiesToEven(t *testing.T) {
	cases := []struct{ in, want float64 }{
		{56.25, 56.2},
		{71.25, 71.2},
		{11.25, 11.2},
		{56.75, 56.8},
		{89.47368421052632, 89.5},
		{100, 100},
		{0, 0},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, round1(c.in), "round1(%v)", c.in)
	}
}
