package schemafile_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	brannigan "github.com/ido50/Brannigan"
	"github.com/ido50/Brannigan/schemafile"
)

const postYAML = `
name: post
params:
  subject:
    rules:
      required: true
      length_between: [3, 40]
  section:
    rules:
      required: true
      integer:
      value_between: [1, 3]
  tags:
    array: true
    values:
      rules:
        min_length: 2
  author:
    hash: true
    keys:
      name:
        rules:
          required: true
---
name: edit_post
inherits: [post]
params:
  subject:
    rules:
      required: false
  id:
    rules:
      required: true
      integer: true
`

func TestLoadYAML_MultiDocument(t *testing.T) {
	schemas, err := schemafile.LoadYAML([]byte(postYAML))
	require.NoError(t, err)
	require.Len(t, schemas, 2)

	b := brannigan.New(schemas...)
	res, err := b.Process("post", map[string]any{
		"subject": "hi",
		"section": 2,
		"tags":    []any{"x"},
		"author":  map[string]any{},
	})
	require.NoError(t, err)
	assert.True(t, res.Rejects.Has("subject"))
	assert.True(t, res.Rejects.Has("tags.0"))
	assert.True(t, res.Rejects.Has("author.name"))
	assert.False(t, res.Rejects.Has("section"))

	// the child relaxes subject and demands an id
	res, err = b.Process("edit_post", map[string]any{
		"subject": "hi",
		"section": 2,
	})
	require.NoError(t, err)
	assert.False(t, res.Rejects.Has("subject"))
	assert.True(t, res.Rejects.Has("id"))
}

func TestLoadYAML_BareRuleKeyIsEnabledFlag(t *testing.T) {
	schemas, err := schemafile.LoadYAML([]byte(`
name: s
params:
  n:
    rules:
      integer:
`))
	require.NoError(t, err)

	b := brannigan.New(schemas...)
	res, err := b.Process("s", map[string]any{"n": "12x"})
	require.NoError(t, err)
	assert.True(t, res.Rejects.Has("n"))
}

func TestLoadYAML_ParamGroupJoins(t *testing.T) {
	schemas, err := schemafile.LoadYAML([]byte(`
name: s
params:
  day:
    rules: {required: true}
  month:
    rules: {required: true}
  year:
    rules: {required: true}
param_groups:
  date:
    fields: [year, month, day]
    join: "-"
`))
	require.NoError(t, err)

	b := brannigan.New(schemas...)
	res, err := b.Process("s", map[string]any{"day": "13", "month": "12", "year": "2010"})
	require.NoError(t, err)
	assert.Equal(t, "2010-12-13", res.Output["date"])

	// missing member: the group stays out of the result
	res, err = b.Process("s", map[string]any{"day": "13", "year": "2010"})
	require.NoError(t, err)
	_, ok := res.Output["date"]
	assert.False(t, ok)
}

func TestLoadYAML_RejectsUnknownKeys(t *testing.T) {
	_, err := schemafile.LoadYAML([]byte(`
name: s
handle_unknown: reject
`))
	assert.Error(t, err)
}

func TestLoadYAML_StructuralErrors(t *testing.T) {
	cases := map[string]string{
		"missing name": `
params:
  x: {}
`,
		"array without values": `
name: s
params:
  x:
    array: true
`,
		"hash without keys": `
name: s
params:
  x:
    hash: true
`,
		"array and hash": `
name: s
params:
  x:
    array: true
    hash: true
    values: {}
`,
		"nesting without marker": `
name: s
params:
  x:
    keys:
      y: {}
`,
		"group without fields": `
name: s
param_groups:
  g:
    join: "-"
`,
		"empty stream": `
`,
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := schemafile.LoadYAML([]byte(doc))
			assert.Error(t, err)
		})
	}
}

func TestLoad_Reader(t *testing.T) {
	schemas, err := schemafile.Load(strings.NewReader(postYAML))
	require.NoError(t, err)
	assert.Len(t, schemas, 2)
}

func TestLoadJSON(t *testing.T) {
	s, err := schemafile.LoadJSON([]byte(`{
		"name": "s",
		"params": {
			"subject": {"rules": {"required": true, "max_length": [10]}}
		}
	}`))
	require.NoError(t, err)
	require.Equal(t, "s", s.Name)

	b := brannigan.New(s)
	res, err := b.Process("s", map[string]any{"subject": "far far too long"})
	require.NoError(t, err)
	assert.True(t, res.Rejects.Has("subject"))
}

func TestLoadJSON_UnknownKey(t *testing.T) {
	_, err := schemafile.LoadJSON([]byte(`{"name": "s", "bogus": 1}`))
	assert.Error(t, err)
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()

	yml := filepath.Join(dir, "defs.yaml")
	require.NoError(t, os.WriteFile(yml, []byte(postYAML), 0o644))
	schemas, err := schemafile.LoadFile(yml)
	require.NoError(t, err)
	assert.Len(t, schemas, 2)

	jsn := filepath.Join(dir, "defs.json")
	require.NoError(t, os.WriteFile(jsn, []byte(`{"name":"s"}`), 0o644))
	schemas, err = schemafile.LoadFile(jsn)
	require.NoError(t, err)
	assert.Len(t, schemas, 1)

	_, err = schemafile.LoadFile(filepath.Join(dir, "defs.toml"))
	assert.Error(t, err)
}
