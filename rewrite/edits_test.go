package rewrite

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestApply(t *testing.T) {
	source := []byte(`a('x'); b('y');`)

	got := Apply(source, []Edit{
		{Span: Span{Start: 10, End: 13}, Text: `'yy'`},
		{Span: Span{Start: 2, End: 5}, Text: `'xxx'`},
	})

	assert.Equal(t, `a('xxx'); b('yy');`, string(got))
	assert.Equal(t, `a('x'); b('y');`, string(source))
}

func TestApply_NoEdits(t *testing.T) {
	source := []byte("same")
	got := Apply(source, nil)

	assert.Equal(t, "same", string(got))
	got[0] = 'S'
	assert.Equal(t, "same", string(source))
}
