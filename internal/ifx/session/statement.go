package session

import (
	"github.com/ifxcli/ifxcli/internal/ifx/quote"
	"github.com/ifxcli/ifxcli/internal/ifx/template"
	"github.com/ifxcli/ifxcli/internal/log"
)

// Statement owns a SQL template and the result sets it spawned. It holds no
// native execution state: the template is substituted afresh on every
// Execute, and each execution yields a new ResultSet.
type Statement struct {
	name        string
	conn        *Connection
	template    string
	hintsByPos  map[int]quote.TypeHint
	hintsByName map[string]quote.TypeHint
	results     map[string]*ResultSet
	closed      bool
}

// ExecOpts carries the parameter source and quoting policy for one
// execution. Args and Named are mutually exclusive; supplying Named or
// Fallback selects the named placeholder protocol.
type ExecOpts struct {
	Args        []any
	Named       map[string]any
	Fallback    template.Lookup
	ForceString bool
}

// Name returns the unique handle name of the statement.
func (s *Statement) Name() string {
	return s.name
}

// Connection returns the owning connection. The reference is for
// introspection only; it carries no lifecycle control.
func (s *Statement) Connection() *Connection {
	return s.conn
}

// Template returns the original, unsubstituted SQL template.
func (s *Statement) Template() string {
	return s.template
}

// SetHint declares the type of the positional parameter at the given
// zero-based index, overriding auto-detection for it.
func (s *Statement) SetHint(pos int, hint quote.TypeHint) {
	if s.hintsByPos == nil {
		s.hintsByPos = map[int]quote.TypeHint{}
	}
	s.hintsByPos[pos] = hint
}

// SetNamedHint declares the type of a named parameter, overriding
// auto-detection for it.
func (s *Statement) SetNamedHint(name string, hint quote.TypeHint) {
	if s.hintsByName == nil {
		s.hintsByName = map[string]quote.TypeHint{}
	}
	s.hintsByName[name] = hint
}

// Execute substitutes positional parameters into the template and runs it.
func (s *Statement) Execute(args ...any) (*ResultSet, error) {
	return s.ExecuteOpts(ExecOpts{Args: args})
}

// ExecuteNamed substitutes named parameters into the template and runs it.
// An optional fallback resolves names absent from the map.
func (s *Statement) ExecuteNamed(named map[string]any, fallback ...template.Lookup) (*ResultSet, error) {
	opts := ExecOpts{Named: named}
	if named == nil {
		opts.Named = map[string]any{}
	}
	if len(fallback) > 0 {
		opts.Fallback = fallback[0]
	}
	return s.ExecuteOpts(opts)
}

// ExecuteOpts is the full-control execution entry point. Template errors are
// raised before anything reaches the driver; driver errors come back
// enriched with the substituted SQL.
func (s *Statement) ExecuteOpts(opts ExecOpts) (*ResultSet, error) {
	if s.closed {
		return nil, closedErr(s.name)
	}

	sql, err := template.Substitute(s.template, template.Params{
		Positional:  opts.Args,
		Named:       opts.Named,
		Fallback:    opts.Fallback,
		HintsByPos:  s.hintsByPos,
		HintsByName: s.hintsByName,
		ForceString: opts.ForceString,
	})
	if err != nil {
		return nil, err
	}

	res, err := s.conn.execute(sql)
	if err != nil {
		return nil, err
	}

	rs := &ResultSet{
		name: resSeq.NextName("ifxres"),
		stmt: s,
		res:  res,
	}
	s.results[rs.name] = rs

	s.conn.logger.DebugNs(log.NsSession, "statement executed", log.KV{
		"handle": s.name,
		"result": rs.name,
	})
	return rs, nil
}

// Close releases the statement and every result set it spawned, then
// detaches it from the owning connection. Idempotent and best-effort.
func (s *Statement) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true

	for name, rs := range s.results {
		_ = rs.Close()
		delete(s.results, name)
	}
	delete(s.conn.stmts, s.name)

	s.conn.logger.DebugNs(log.NsSession, "statement closed", log.KV{"handle": s.name})
	return nil
}
