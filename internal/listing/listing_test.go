package listing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	p, s := Normalize(0, 0, 50)
	assert.Equal(t, 1, p)
	assert.Equal(t, 50, s)

	p, s = Normalize(3, 1000, 50)
	assert.Equal(t, 3, p)
	assert.Equal(t, MaxPageSize, s)
	assert.Equal(t, 2*MaxPageSize, Offset(p, s))
}

func TestNewPage(t *testing.T) {
	pg := NewPage(101, 2, 50)
	assert.Equal(t, Page{Total: 101, PageCount: 3, CurrentPage: 2, PageSize: 50}, pg)
	assert.Equal(t, 0, PageCount(0, 15))
	assert.Equal(t, 1, PageCount(15, 15))
}

func TestDirectionAndColumn(t *testing.T) {
	assert.Equal(t, "ASC", Direction("asc"))
	assert.Equal(t, "DESC", Direction("desc"))
	assert.Equal(t, "DESC", Direction("; DROP TABLE skus"))

	m := map[string]string{"product": "name"}
	assert.Equal(t, "name", Column("product", m, "created_at"))
	assert.Equal(t, "created_at", Column("password", m, "created_at"))
}

func TestParseRange(t *testing.T) {
	from, to, err := ParseRange("2024-03-01", "2024-03-31")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), *from)
	assert.Equal(t, time.Date(2024, 3, 31, 23, 59, 59, 999000000, time.UTC), *to)

	from, to, err = ParseRange("", "")
	require.NoError(t, err)
	assert.Nil(t, from)
	assert.Nil(t, to)

	_, _, err = ParseRange("03/01/2024", "")
	assert.Error(t, err)
}

func TestContainsEscapesWildcards(t *testing.T) {
	assert.Equal(t, "%sensor%", Contains("sensor"))
	assert.Equal(t, `%50\% off%`, Contains("50% off"))
	assert.Equal(t, `%SEN\_001%`, Contains("SEN_001"))
	assert.Equal(t, `%a\\b%`, Contains(`a\b`))
	assert.Equal(t, "%%", Contains(""))
}
