package fieldname

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name string
		want Field
	}{
		{"phi0", Field{Base: "phi", Index: 0, Indexed: true}},
		{"phi12", Field{Base: "phi", Index: 12, Indexed: true}},
		{"psi103", Field{Base: "psi", Index: 103, Indexed: true}},
		{"ene", Field{Base: "ene"}},
		{"ww", Field{Base: "ww"}},
		{"noe7a", Field{Base: "noe7a"}},
		{"42", Field{Base: "42"}},
		{"", Field{Base: ""}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Parse(tt.name))
		})
	}
}

func TestNameRoundTrip(t *testing.T) {
	for _, name := range []string{"phi0", "phi12", "ene", "42"} {
		assert.Equal(t, name, Parse(name).Name())
	}
}

func TestJoin(t *testing.T) {
	assert.Equal(t, "phi3", Join("phi", 3))
	assert.Equal(t, "chi20", Join("chi2", 0))
}

func TestBases(t *testing.T) {
	names := []string{"time", "ww", "phi0", "phi1", "psi0", "psi1", "ene"}

	got := Bases(names, "time", "ww")
	assert.Equal(t, []string{"ene", "phi", "psi"}, got)

	// Excluded names do not contribute even when indexed names share
	// their base.
	got = Bases([]string{"ww", "ww0", "ww1"}, "ww")
	assert.Equal(t, []string{"ww"}, got)
}
