package brannigan_test

import (
	"fmt"
	"testing"

	brannigan "github.com/ido50/Brannigan"
)

func benchEngine(tb testing.TB) *brannigan.Brannigan {
	tb.Helper()
	return brannigan.New(postSchema())
}

func benchInput() map[string]any {
	return map[string]any{
		"subject":   "a perfectly fine subject",
		"section":   2,
		"id":        17,
		"picture_1": "http://www.example.com/images/1.png",
	}
}

func BenchmarkProcess_SmallFlat(b *testing.B) {
	eng := benchEngine(b)
	input := benchInput()
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := eng.Process("post", input); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkProcess_NestedArray(b *testing.B) {
	eng := brannigan.New(&brannigan.Schema{
		Name: "cv",
		Params: map[string]*brannigan.FieldSpec{
			"education": {
				Kind: brannigan.KindArray,
				Values: &brannigan.FieldSpec{
					Kind: brannigan.KindHash,
					Keys: &brannigan.KeySet{Params: map[string]*brannigan.FieldSpec{
						"school": {Rules: brannigan.Rules{"required": nil, "min_length": {4}}},
						"year":   {Rules: brannigan.Rules{"integer": nil}},
					}},
				},
			},
		},
	})
	items := make([]any, 50)
	for i := range items {
		items[i] = map[string]any{
			"school": fmt.Sprintf("school number %d", i),
			"year":   2000 + i%20,
		}
	}
	input := map[string]any{"education": items}
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := eng.Process("cv", input); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkProcessJSON(b *testing.B) {
	eng := benchEngine(b)
	doc := []byte(`{"subject":"a perfectly fine subject","section":2,"id":17}`)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := eng.ProcessJSON("post", doc); err != nil {
			b.Fatal(err)
		}
	}
}
