package bind_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	brannigan "github.com/ido50/Brannigan"
	"github.com/ido50/Brannigan/bind"
)

type post struct {
	Subject string   `json:"subject"`
	Section int      `json:"section"`
	Tags    []string `json:"tags"`
	Author  author   `json:"author"`
}

type author struct {
	Name string `json:"name"`
}

func TestResult(t *testing.T) {
	b := brannigan.New(&brannigan.Schema{
		Name: "post",
		Params: map[string]*brannigan.FieldSpec{
			"subject": {Rules: brannigan.Rules{"required": nil}},
			"section": {Rules: brannigan.Rules{"integer": nil}},
		},
	})
	res, err := b.Process("post", map[string]any{
		"subject": "well hello there",
		"section": "2",
		"tags":    []any{"a", "b"},
		"author":  map[string]any{"name": "fry"},
	})
	require.NoError(t, err)
	require.Empty(t, res.Rejects)

	var p post
	require.NoError(t, bind.Result(res, &p))
	assert.Equal(t, "well hello there", p.Subject)
	assert.Equal(t, 2, p.Section, "numeric strings coerce into int fields")
	assert.Equal(t, []string{"a", "b"}, p.Tags)
	assert.Equal(t, "fry", p.Author.Name)
}

func TestOutput_TypeMismatch(t *testing.T) {
	var p post
	err := bind.Output(map[string]any{"tags": map[string]any{"oops": 1}}, &p)
	assert.Error(t, err)
}

func TestOutput_NonPointer(t *testing.T) {
	var p post
	assert.Error(t, bind.Output(map[string]any{}, p))
}
