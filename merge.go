package brannigan

// All deep-merge behavior lives here: the schema resolver merges ancestor
// field specs rule name by rule name, and the transform pass merges parse
// hook results into the output. Keeping both in one place makes the merge
// rules testable in isolation.

// outputMergeDepth bounds how deep parse results merge into the output: the
// top-level keys merge, and maps one level below them merge key-by-key.
// Anything deeper overwrites wholesale.
const outputMergeDepth = 2

// mergeOutput merges src into dst in place. When both sides hold a map under
// the same key and depth allows, the maps are merged recursively; otherwise
// src overwrites. A nil src is a no-op so defensive hooks can return nothing.
func mergeOutput(dst, src map[string]any, depth int) {
	for k, v := range src {
		if depth > 1 {
			if dm, ok := dst[k].(map[string]any); ok {
				if sm, ok := v.(map[string]any); ok {
					mergeOutput(dm, sm, depth-1)
					continue
				}
			}
		}
		dst[k] = v
	}
}

// mergeFieldSpec deep-merges override on top of base and returns a fresh
// spec; neither input is mutated. Individual rule names are the override
// unit, hooks and defaults override only when set, and nested Values/Keys
// sub-trees merge recursively, never wholesale.
func mergeFieldSpec(base, override *FieldSpec) *FieldSpec {
	if base == nil {
		return cloneFieldSpec(override)
	}
	if override == nil {
		return cloneFieldSpec(base)
	}
	out := cloneFieldSpec(base)
	if len(override.Rules) > 0 {
		if out.Rules == nil {
			out.Rules = make(Rules, len(override.Rules))
		}
		for name, args := range override.Rules {
			out.Rules[name] = append([]any(nil), args...)
		}
	}
	if override.Validate != nil {
		out.Validate = override.Validate
	}
	if override.Parse != nil {
		out.Parse = override.Parse
	}
	if override.Preprocess != nil {
		out.Preprocess = override.Preprocess
	}
	if override.Postprocess != nil {
		out.Postprocess = override.Postprocess
	}
	if override.Default != nil {
		out.Default = override.Default
	}
	if override.Kind != KindScalar {
		out.Kind = override.Kind
	}
	if override.Values != nil {
		out.Values = mergeFieldSpec(out.Values, override.Values)
	}
	if override.Keys != nil {
		out.Keys = mergeKeySet(out.Keys, override.Keys)
	}
	return out
}

// mergeKeySet merges override's literal and pattern entries on top of base,
// key by key.
func mergeKeySet(base, override *KeySet) *KeySet {
	if base == nil {
		return cloneKeySet(override)
	}
	if override == nil {
		return cloneKeySet(base)
	}
	out := cloneKeySet(base)
	for name, spec := range override.Params {
		if out.Params == nil {
			out.Params = make(map[string]*FieldSpec, len(override.Params))
		}
		out.Params[name] = mergeFieldSpec(out.Params[name], spec)
	}
	for src, spec := range override.Patterns {
		if out.Patterns == nil {
			out.Patterns = make(map[string]*FieldSpec, len(override.Patterns))
		}
		out.Patterns[src] = mergeFieldSpec(out.Patterns[src], spec)
	}
	return out
}

// mergeSchema folds override on top of base: params and patterns merge field
// by field, groups replace wholesale by name, and the postprocess hook
// overrides only when set. IgnoreMissing is sticky across the chain: any
// schema enabling it keeps it enabled.
func mergeSchema(base, override *Schema) *Schema {
	out := &Schema{
		Name:          base.Name,
		IgnoreMissing: base.IgnoreMissing || override.IgnoreMissing,
		Postprocess:   base.Postprocess,
	}
	if override.Name != "" {
		out.Name = override.Name
	}
	if override.Postprocess != nil {
		out.Postprocess = override.Postprocess
	}
	out.Params = mergeSpecMap(base.Params, override.Params)
	out.Patterns = mergeSpecMap(base.Patterns, override.Patterns)
	if len(base.Groups) > 0 || len(override.Groups) > 0 {
		out.Groups = make(map[string]*GroupSpec, len(base.Groups)+len(override.Groups))
		for name, g := range base.Groups {
			out.Groups[name] = cloneGroupSpec(g)
		}
		for name, g := range override.Groups {
			out.Groups[name] = cloneGroupSpec(g)
		}
	}
	return out
}

func mergeSpecMap(base, override map[string]*FieldSpec) map[string]*FieldSpec {
	if base == nil && override == nil {
		return nil
	}
	out := make(map[string]*FieldSpec, len(base)+len(override))
	for name, spec := range base {
		out[name] = cloneFieldSpec(spec)
	}
	for name, spec := range override {
		out[name] = mergeFieldSpec(base[name], spec)
	}
	return out
}

func cloneGroupSpec(g *GroupSpec) *GroupSpec {
	if g == nil {
		return nil
	}
	out := *g
	out.Fields = append([]string(nil), g.Fields...)
	return &out
}

func cloneFieldSpec(s *FieldSpec) *FieldSpec {
	if s == nil {
		return nil
	}
	out := &FieldSpec{
		Validate:    s.Validate,
		Parse:       s.Parse,
		Preprocess:  s.Preprocess,
		Postprocess: s.Postprocess,
		Default:     s.Default,
		Kind:        s.Kind,
		Values:      cloneFieldSpec(s.Values),
		Keys:        cloneKeySet(s.Keys),
	}
	if s.Rules != nil {
		out.Rules = make(Rules, len(s.Rules))
		for name, args := range s.Rules {
			out.Rules[name] = append([]any(nil), args...)
		}
	}
	return out
}

func cloneKeySet(ks *KeySet) *KeySet {
	if ks == nil {
		return nil
	}
	out := &KeySet{}
	if ks.Params != nil {
		out.Params = make(map[string]*FieldSpec, len(ks.Params))
		for name, spec := range ks.Params {
			out.Params[name] = cloneFieldSpec(spec)
		}
	}
	if ks.Patterns != nil {
		out.Patterns = make(map[string]*FieldSpec, len(ks.Patterns))
		for src, spec := range ks.Patterns {
			out.Patterns[src] = cloneFieldSpec(spec)
		}
	}
	return out
}
