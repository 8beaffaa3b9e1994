package labreport

import (
	"testing"

	"github.com/stretchr/testify/require"
)

const fixturePath = "testdata/phase1show_labo.html"

func loadFixture(t testing.TB) Document {
	t.Helper()
	doc, err := LoadFile(fixturePath)
	require.NoError(t, err)
	return doc
}

func mustParse(t testing.TB, markup string) Document {
	t.Helper()
	doc, err := ParseString(markup)
	require.NoError(t, err)
	return doc
}
