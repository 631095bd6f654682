package brannigan

import "strconv"

// walker carries one Process call's state: the registry for validator
// lookups, the policy snapshot, and the reject accumulator. A walker is
// created fresh per call and never shared.
type walker struct {
	b             *Brannigan
	policy        UnknownPolicy
	ignoreMissing bool
	rejects       RejectMap
}

// walkLevel runs the two passes over one level of input: the top-level map
// or any nested hash reached through a field's sub-schema. It returns the
// transformed output for that level; rejects accumulate on the walker under
// dotted paths rooted at path.
func (w *walker) walkLevel(path string, lv *level, input map[string]any) (map[string]any, error) {
	// Working set: raw input, then defaults for absent fields (defaults run
	// before validation), then preprocess on present fields so validation and
	// parse both see the rewritten value. Only literal keys can carry a
	// default; a pattern has no concrete field name to fill in.
	working := make(map[string]any, len(input))
	for k, v := range input {
		working[k] = v
	}
	for _, name := range sortedKeys(lv.literals) {
		cf := lv.literals[name]
		if cf.spec.Default == nil {
			continue
		}
		if _, ok := working[name]; ok {
			continue
		}
		working[name] = resolveDefault(cf.spec.Default)
	}
	for _, name := range sortedKeys(working) {
		for _, m := range lv.match(name) {
			if m.field.spec.Preprocess != nil {
				working[name] = m.field.spec.Preprocess(working[name])
			}
		}
	}

	// Validate pass. Unreferenced fields are never validated; they answer
	// only to the unknown-field policy.
	for _, name := range sortedKeys(working) {
		matches := lv.match(name)
		fieldPath := joinPath(path, name)
		if len(matches) == 0 {
			if w.policy == UnknownReject {
				w.rejects.add(fieldPath, Reject{Unknown: true})
			}
			continue
		}
		for _, m := range matches {
			if err := w.validateField(fieldPath, m, working[name]); err != nil {
				return nil, err
			}
		}
	}
	// required/forbidden still fire for literal fields absent from the input.
	for _, name := range sortedKeys(lv.literals) {
		if _, ok := working[name]; ok {
			continue
		}
		if err := w.validateAbsent(joinPath(path, name), lv.literals[name]); err != nil {
			return nil, err
		}
	}

	// Transform pass. Runs regardless of validation outcome: rejection
	// annotates a value, it does not remove it from the output.
	out := make(map[string]any, len(working))
	for _, name := range sortedKeys(working) {
		matches := lv.match(name)
		if len(matches) == 0 {
			switch w.policy {
			case UnknownIgnore:
				out[name] = working[name]
			case UnknownRemove:
				// dropped
			case UnknownReject:
				if !w.ignoreMissing {
					out[name] = working[name]
				}
			}
			continue
		}
		fieldPath := joinPath(path, name)
		value := working[name]
		for _, m := range matches {
			v2, err := w.walkNested(fieldPath, m.field, value)
			if err != nil {
				return nil, err
			}
			value = v2
		}
		parsed := false
		for _, m := range matches {
			if m.field.spec.Parse != nil {
				parsed = true
				mergeOutput(out, m.field.spec.Parse(value, m.captures...), outputMergeDepth)
			}
		}
		if !parsed {
			out[name] = value
		}
		for _, m := range matches {
			if m.field.spec.Postprocess == nil {
				continue
			}
			if cur, ok := out[name]; ok {
				out[name] = m.field.spec.Postprocess(cur, m.captures...)
			}
		}
	}
	return out, nil
}

// validateField dispatches every named rule of one match, then the inline
// Validate hook. Absent or empty values answer only to required/forbidden;
// their other rules are skipped entirely, not failed.
func (w *walker) validateField(path string, m fieldMatch, val any) error {
	spec := m.field.spec
	empty := isEmpty(val)
	for _, name := range sortedKeys(spec.Rules) {
		if empty && name != "required" && name != "forbidden" {
			continue
		}
		args := spec.Rules[name]
		fn, err := w.b.lookupValidator(name)
		if err != nil {
			return err
		}
		if !fn(val, args...) {
			w.rejects.add(path, Reject{Rule: name, Args: args})
		}
	}
	if spec.Validate != nil && !empty {
		if !spec.Validate(val, m.captures...) {
			w.rejects.add(path, Reject{Rule: "validate"})
		}
	}
	return nil
}

// validateAbsent checks required/forbidden for a literal field missing from
// the input; no other rule is evaluated for absent fields.
func (w *walker) validateAbsent(path string, cf *compiledField) error {
	for _, name := range []string{"forbidden", "required"} {
		args, ok := cf.spec.Rules[name]
		if !ok {
			continue
		}
		fn, err := w.b.lookupValidator(name)
		if err != nil {
			return err
		}
		if !fn(nil, args...) {
			w.rejects.add(path, Reject{Rule: name, Args: args})
		}
	}
	return nil
}

// walkNested recurses into a declared container. Values that do not have the
// declared shape pass through untouched; reporting the mismatch is the job
// of the field's own array/hash rule.
func (w *walker) walkNested(path string, cf *compiledField, value any) (any, error) {
	switch cf.spec.Kind {
	case KindArray:
		items, ok := value.([]any)
		if !ok {
			return value, nil
		}
		return w.walkItems(path, cf.values, items)
	case KindHash:
		entries, ok := value.(map[string]any)
		if !ok {
			return value, nil
		}
		return w.walkLevel(path, cf.keys, entries)
	}
	return value, nil
}

// walkItems validates and transforms each array item against the values
// sub-tree, with the reject path suffixed by the item's index. An item-level
// Parse rewrites the item in place; there is no fan-out inside arrays.
func (w *walker) walkItems(path string, item *compiledField, items []any) ([]any, error) {
	out := make([]any, len(items))
	for i, raw := range items {
		itemPath := path + "." + strconv.Itoa(i)
		v := raw
		if item.spec.Preprocess != nil {
			v = item.spec.Preprocess(v)
		}
		if err := w.validateField(itemPath, fieldMatch{field: item}, v); err != nil {
			return nil, err
		}
		v2, err := w.walkNested(itemPath, item, v)
		if err != nil {
			return nil, err
		}
		if item.spec.Parse != nil {
			if m := item.spec.Parse(v2); m != nil {
				v2 = m
			}
		}
		if item.spec.Postprocess != nil {
			v2 = item.spec.Postprocess(v2)
		}
		out[i] = v2
	}
	return out, nil
}

// applyGroups evaluates every group against the assembled top-level output.
// Params-style groups gather the named fields' current values in declared
// order and are skipped, never defaulted, when a field is absent.
// Regex-style groups gather matching fields in sorted name order.
func (w *walker) applyGroups(cs *compiledSchema, out map[string]any) {
	for _, g := range cs.groups {
		if g.re != nil {
			var matches []Match
			for _, name := range sortedKeys(out) {
				if sub := g.re.FindStringSubmatch(name); sub != nil {
					matches = append(matches, Match{Value: out[name], Captures: sub[1:]})
				}
			}
			if len(matches) == 0 {
				continue
			}
			mergeOutput(out, g.parseMatches(matches), outputMergeDepth)
			continue
		}
		values := make([]any, len(g.fields))
		skip := false
		for i, f := range g.fields {
			v, ok := out[f]
			if !ok {
				skip = true
				break
			}
			values[i] = v
		}
		if skip {
			continue
		}
		mergeOutput(out, g.parse(values...), outputMergeDepth)
	}
}

func resolveDefault(d any) any {
	switch fn := d.(type) {
	case DefaultFunc:
		return fn()
	case func() any:
		return fn()
	}
	return d
}

func joinPath(base, seg string) string {
	if base == "" {
		return seg
	}
	return base + "." + seg
}
