package pkg

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPageQuery_Normalize(t *testing.T) {
	q := PageQuery{}
	assert.NoError(t, q.Normalize())
	assert.Equal(t, 1, q.Page)
	assert.Equal(t, 10, q.Limit)
	assert.Equal(t, 0, q.Offset())

	q = PageQuery{Page: 3, Limit: 20}
	assert.NoError(t, q.Normalize())
	assert.Equal(t, 40, q.Offset())

	for _, bad := range []PageQuery{{Page: -1, Limit: 10}, {Page: 1, Limit: 101}, {Page: 1, Limit: -5}} {
		assert.ErrorIs(t, bad.Normalize(), ErrInvalidPage)
	}
}

func TestNewPageResult(t *testing.T) {
	r := NewPageResult([]int{1, 2}, 21, PageQuery{Page: 1, Limit: 10})
	assert.Equal(t, int64(3), r.TotalPages)

	empty := NewPageResult[int](nil, 0, PageQuery{Page: 1, Limit: 10})
	assert.NotNil(t, empty.Records)
	assert.Equal(t, int64(0), empty.TotalPages)
}

func TestCaptchaSVG(t *testing.T) {
	svg := CaptchaSVG("ab<d")
	assert.Contains(t, svg, "<svg")
	assert.Contains(t, svg, "&lt;")
	assert.NotContains(t, svg, ">ab<d<")
}
