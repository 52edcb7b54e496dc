package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEscapeLike(t *testing.T) {
	for in, want := range map[string]string{
		"mordris": "mordris",
		"100%":    `100\%`,
		"%gele%":  `\%gele\%`,
		"a_b":     `a\_b`,
		`c\d`:     `c\\d`,
	} {
		assert.Equal(t, want, escapeLike(in), "entrée %q", in)
	}
}
