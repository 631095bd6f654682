package brannigan

// fieldMatch is one applicable rule set for an input field name. Literal
// matches carry no captures; pattern matches carry that pattern's ordered
// capture groups, handed to the field's Validate/Parse/Postprocess hooks.
type fieldMatch struct {
	field    *compiledField
	captures []string
}

// match resolves the rule sets applying to an input field name. An exact
// literal match wins unconditionally and fully replaces pattern matches; the
// two are never merged. Otherwise every matching pattern contributes, in
// sorted pattern-source order. An empty result marks the field as
// unreferenced, governed solely by the unknown-field policy.
func (lv *level) match(name string) []fieldMatch {
	if cf, ok := lv.literals[name]; ok {
		return []fieldMatch{{field: cf}}
	}
	var ms []fieldMatch
	for _, p := range lv.patterns {
		if sub := p.re.FindStringSubmatch(name); sub != nil {
			ms = append(ms, fieldMatch{field: p.field, captures: sub[1:]})
		}
	}
	return ms
}
