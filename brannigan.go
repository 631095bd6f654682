package brannigan

import (
	"sync"

	json "github.com/goccy/go-json"
)

// Brannigan holds a set of named schemas and validators and processes input
// maps against them. Registration is expected at setup; once populated, the
// registry is read-mostly and Process calls may run concurrently across
// independent inputs. Re-registering while processing must be serialized by
// the caller.
type Brannigan struct {
	mu         sync.RWMutex
	schemas    map[string]*Schema
	validators map[string]ValidatorFunc
	policy     UnknownPolicy
	version    uint64
	compiled   map[string]*compiledEntry
}

// compiledEntry caches one schema's compiled tree together with the registry
// version it was derived from.
type compiledEntry struct {
	tree    *compiledSchema
	version uint64
}

// Result is the outcome of one Process call: the transformed output and the
// accumulated rejects. Both are owned solely by the caller. A caller
// receiving a non-empty RejectMap must treat Output as provisional.
type Result struct {
	Output  map[string]any `json:"output"`
	Rejects RejectMap      `json:"rejects,omitempty"`
}

// New creates a registry pre-populated with the given schemas. The built-in
// validators are always available; RegisterValidator entries shadow them.
func New(schemas ...*Schema) *Brannigan {
	b := &Brannigan{
		schemas:    make(map[string]*Schema),
		validators: make(map[string]ValidatorFunc),
		compiled:   make(map[string]*compiledEntry),
	}
	for _, s := range schemas {
		b.RegisterSchema(s)
	}
	return b
}

// RegisterSchema adds s under its name, replacing any schema registered
// under the same name and invalidating every cached compiled tree that could
// have depended on it.
func (b *Brannigan) RegisterSchema(s *Schema) {
	if s == nil {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.schemas[s.Name] = s
	b.version++
	b.compiled = make(map[string]*compiledEntry)
}

// RegisterValidator adds a named predicate. User entries shadow built-ins of
// the same name; a field's inline Validate hook shadows both.
func (b *Brannigan) RegisterValidator(name string, fn ValidatorFunc) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.validators[name] = fn
}

// SetUnknownPolicy sets the registry-wide handling of unreferenced input
// fields. Individual schemas cannot override it; the per-schema
// IgnoreMissing flag only controls pass-through under UnknownReject.
func (b *Brannigan) SetUnknownPolicy(p UnknownPolicy) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.policy = p
}

// Process validates and transforms input against the named schema. Schema
// errors (unknown schema, cyclic inheritance, malformed rules, unknown
// validators) are returned as errors and fail the call; validation failures
// are returned as data in Result.Rejects, never as errors.
func (b *Brannigan) Process(schemaName string, input map[string]any) (*Result, error) {
	cs, err := b.compiledFor(schemaName)
	if err != nil {
		return nil, err
	}
	b.mu.RLock()
	policy := b.policy
	b.mu.RUnlock()

	w := &walker{
		b:             b,
		policy:        policy,
		ignoreMissing: cs.ignoreMissing,
		rejects:       RejectMap{},
	}
	out, err := w.walkLevel("", cs.params, input)
	if err != nil {
		return nil, err
	}
	w.applyGroups(cs, out)
	// Postprocessing never runs over data that failed validation.
	if cs.postprocess != nil && len(w.rejects) == 0 {
		if pp := cs.postprocess(out); pp != nil {
			out = pp
		}
	}
	res := &Result{Output: out}
	if len(w.rejects) > 0 {
		res.Rejects = w.rejects
	}
	return res, nil
}

// ProcessJSON decodes a JSON object and delegates to Process. A top-level
// value that is not an object yields ErrNotObject.
func (b *Brannigan) ProcessJSON(schemaName string, data []byte) (*Result, error) {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, err
	}
	m, ok := v.(map[string]any)
	if !ok {
		return nil, ErrNotObject
	}
	return b.Process(schemaName, m)
}

// lookupValidator resolves a rule name: registered validators first, then
// built-ins. Inline Validate hooks never reach here; they are dispatched by
// the walker directly.
func (b *Brannigan) lookupValidator(name string) (ValidatorFunc, error) {
	b.mu.RLock()
	fn, ok := b.validators[name]
	b.mu.RUnlock()
	if ok {
		return fn, nil
	}
	if fn, ok := builtins[name]; ok {
		return fn, nil
	}
	return nil, &UnknownValidatorError{Name: name}
}

// compiledFor returns the cached compiled tree for name, compiling it on
// demand. Entries are keyed by the registry version so a re-registration
// anywhere in the inheritance chain forces a fresh compile.
func (b *Brannigan) compiledFor(name string) (*compiledSchema, error) {
	b.mu.RLock()
	if ent, ok := b.compiled[name]; ok && ent.version == b.version {
		b.mu.RUnlock()
		return ent.tree, nil
	}
	version := b.version
	eff, err := b.resolve(name, make(map[string]bool))
	b.mu.RUnlock()
	if err != nil {
		return nil, err
	}
	cs, err := newCompiledSchema(eff)
	if err != nil {
		return nil, err
	}
	b.mu.Lock()
	if b.version == version {
		b.compiled[name] = &compiledEntry{tree: cs, version: version}
	}
	b.mu.Unlock()
	return cs, nil
}
