package engine

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"maps"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/roach88/seqraph/internal/hypergraph"
	"github.com/roach88/seqraph/internal/ir"
	"github.com/roach88/seqraph/internal/token"
)

// Recorder receives every completed operation of an engine, in seq order
// for mutations. Implemented by the SQLite journal.
type Recorder interface {
	RecordStep(ctx context.Context, step ir.StepRecord) error
}

// Engine is a synchronized, named view of a Hypergraph[string].
//
// INVARIANTS:
//   - names and labels only refer to vertices of graph
//   - every vertex has at most one label (the first name registered for it)
//   - the clock advances exactly once per operation
type Engine struct {
	mu sync.RWMutex

	graph   *hypergraph.Hypergraph[string]
	text    *token.Text
	names   map[string]hypergraph.VertexIndex
	labels  map[hypergraph.VertexIndex]string
	fixture string

	runID    string
	runGen   RunIDGenerator
	clock    *Clock
	logger   *slog.Logger
	reg      prometheus.Registerer
	metrics  *metrics
	recorder Recorder
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the structured logger. Default: slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = l
	}
}

// WithClock sets the logical clock, e.g. to resume a journaled run.
func WithClock(c *Clock) Option {
	return func(e *Engine) {
		e.clock = c
	}
}

// WithTokenizer sets the text tokenizer. Load replaces it with one built
// from the fixture's mode.
func WithTokenizer(t *token.Text) Option {
	return func(e *Engine) {
		e.text = t
	}
}

// WithRunIDGenerator sets the generator for the run id.
// Default: UUIDv7Generator.
func WithRunIDGenerator(g RunIDGenerator) Option {
	return func(e *Engine) {
		e.runGen = g
	}
}

// WithRegisterer registers the engine's metrics. Two engines cannot share
// a Registerer. Default: metrics are kept but not registered.
func WithRegisterer(reg prometheus.Registerer) Option {
	return func(e *Engine) {
		e.reg = reg
	}
}

// WithRecorder journals every operation.
func WithRecorder(r Recorder) Option {
	return func(e *Engine) {
		e.recorder = r
	}
}

// New creates an engine with an empty graph.
func New(opts ...Option) *Engine {
	e := &Engine{
		graph:  hypergraph.New[string](),
		text:   token.New(token.ModeChars),
		names:  make(map[string]hypergraph.VertexIndex),
		labels: make(map[hypergraph.VertexIndex]string),
		runGen: UUIDv7Generator{},
		clock:  NewClock(),
		logger: slog.Default(),
	}

	for _, opt := range opts {
		opt(e)
	}

	e.runID = e.runGen.Generate()
	e.metrics = newMetrics(e.reg, func() float64 {
		e.mu.RLock()
		defer e.mu.RUnlock()
		return float64(e.graph.VertexCount())
	})
	return e
}

// RunID returns the identifier of this engine's run.
func (e *Engine) RunID() string {
	return e.runID
}

// Clock returns the engine's logical clock.
func (e *Engine) Clock() *Clock {
	return e.clock
}

// Mode returns the tokenization mode in use.
func (e *Engine) Mode() token.Mode {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.text.Mode()
}

// Load builds a compiled fixture into the graph: every token, then every
// pattern in the given order. Names and references are checked first; the
// fixture is then built on a copy of the graph that replaces the current
// one only when every pattern was inserted, so a failed Load leaves the
// engine as it was.
func (e *Engine) Load(ctx context.Context, spec *ir.GraphSpec) error {
	start := time.Now()
	e.mu.Lock()
	defer e.mu.Unlock()

	stats, err := e.load(spec)
	e.observe(ctx, ir.OpLoad, spec.Name, start, stats, err)
	if err == nil {
		e.logger.Info("fixture loaded",
			"fixture", spec.Name,
			"vertices", stats.Vertices,
			"patterns", stats.Patterns)
	}
	return err
}

func (e *Engine) load(spec *ir.GraphSpec) (*ir.Stats, error) {
	mode, err := token.ParseMode(spec.Mode)
	if err != nil {
		return nil, newFixtureError("%v", err)
	}
	var topts []token.Option
	if spec.Fold {
		topts = append(topts, token.WithFold())
	}
	text := token.New(mode, topts...)

	// Check every reference against the names known before each pattern.
	known := make(map[string]bool, len(e.names)+len(spec.Tokens)+len(spec.Patterns))
	for name := range e.names {
		known[name] = true
	}
	for _, t := range spec.Tokens {
		if n := len(text.Tokenize(t)); n != 1 {
			return nil, newFixtureError("token %q splits into %d %s tokens", t, n, mode)
		}
		known[t] = true
	}
	for _, ps := range spec.Patterns {
		if known[ps.Name] {
			return nil, newFixtureError("name %q is already defined", ps.Name)
		}
		if len(ps.Decompositions) == 0 {
			return nil, newFixtureError("pattern %q has no decompositions", ps.Name)
		}
		for _, d := range ps.Decompositions {
			if len(d) == 0 {
				return nil, newFixtureError("pattern %q has an empty decomposition", ps.Name)
			}
			for _, ref := range d {
				if !known[ref] {
					return nil, newFixtureError("pattern %q refers to unknown name %q", ps.Name, ref)
				}
			}
		}
		known[ps.Name] = true
	}

	st := &staging{
		graph:  e.graph.Clone(),
		names:  maps.Clone(e.names),
		labels: maps.Clone(e.labels),
	}
	for _, t := range spec.Tokens {
		st.register(t, st.graph.InsertToken(text.Tokenize(t)[0]))
	}
	for _, ps := range spec.Patterns {
		decomps := make([][]hypergraph.VertexIndex, len(ps.Decompositions))
		for i, d := range ps.Decompositions {
			decomps[i] = make([]hypergraph.VertexIndex, len(d))
			for j, ref := range d {
				decomps[i][j] = st.names[ref]
			}
		}
		idx, err := st.graph.InsertPatternsChecked(decomps)
		if err != nil {
			return nil, newGraphError("load pattern "+ps.Name, err)
		}
		st.register(ps.Name, idx)
	}

	e.graph, e.names, e.labels = st.graph, st.names, st.labels
	e.text = text
	e.fixture = spec.Name

	stats := e.stats()
	return &stats, nil
}

// staging holds the graph and name tables a Load builds before they
// replace the engine's own.
type staging struct {
	graph  *hypergraph.Hypergraph[string]
	names  map[string]hypergraph.VertexIndex
	labels map[hypergraph.VertexIndex]string
}

func (s *staging) register(name string, idx hypergraph.VertexIndex) {
	s.names[name] = idx
	if _, ok := s.labels[idx]; !ok {
		s.labels[idx] = name
	}
}

// InsertText tokenizes text, inserts any new tokens and returns the vertex
// spanning the whole text. An existing vertex with exactly that content is
// reused; otherwise a new composite is created over the token leaves.
func (e *Engine) InsertText(ctx context.Context, text string) (*ir.InsertResult, error) {
	start := time.Now()
	e.mu.Lock()
	defer e.mu.Unlock()

	res, err := e.insertText(text)
	e.observe(ctx, ir.OpInsert, text, start, res, err)
	return res, err
}

func (e *Engine) insertText(text string) (*ir.InsertResult, error) {
	tokens := e.text.Tokenize(text)
	if len(tokens) == 0 {
		return nil, newGraphError("insert", &hypergraph.GraphError{
			Code:    hypergraph.ErrCodeEmptyPattern,
			Index:   -1,
			Message: "no tokens in input",
		})
	}
	created := false
	leaves := make([]hypergraph.VertexIndex, len(tokens))
	for i, t := range tokens {
		if _, ok := e.graph.TokenIndex(t); !ok {
			created = true
		}
		leaves[i] = e.graph.InsertToken(t)
	}
	return e.insertIndices(leaves, created)
}

// InsertNames returns the vertex for the concatenation of the referenced
// vertices, creating it unless a vertex with exactly that content exists.
func (e *Engine) InsertNames(ctx context.Context, refs []string) (*ir.InsertResult, error) {
	start := time.Now()
	e.mu.Lock()
	defer e.mu.Unlock()

	res, err := e.insertNames(refs)
	e.observe(ctx, ir.OpInsert, strings.Join(refs, " "), start, res, err)
	return res, err
}

func (e *Engine) insertNames(refs []string) (*ir.InsertResult, error) {
	indices, err := e.resolveAll(refs)
	if err != nil {
		return nil, err
	}
	if len(indices) == 0 {
		return nil, newGraphError("insert", &hypergraph.GraphError{
			Code:    hypergraph.ErrCodeEmptyPattern,
			Index:   -1,
			Message: "no references given",
		})
	}
	return e.insertIndices(indices, false)
}

func (e *Engine) insertIndices(indices []hypergraph.VertexIndex, created bool) (*ir.InsertResult, error) {
	idx := indices[0]
	if len(indices) > 1 {
		found, err := e.graph.FindPattern(childrenOf(indices))
		if err != nil {
			return nil, newGraphError("insert", err)
		}
		if found != nil && found.Range.IsMatching() {
			idx = found.Vertex.Index
		} else {
			idx, err = e.graph.InsertPattern(indices)
			if err != nil {
				return nil, newGraphError("insert", err)
			}
			created = true
		}
	}
	width, err := e.graph.IndexWidth(idx)
	if err != nil {
		return nil, newGraphError("insert", err)
	}
	return &ir.InsertResult{
		Vertex:  e.render(idx),
		Index:   int(idx),
		Width:   width,
		Created: created,
	}, nil
}

// FindText searches for the smallest vertex containing the tokens of text.
// A miss, including text with a token that was never inserted, returns a
// result with Found == false and no error.
func (e *Engine) FindText(ctx context.Context, text string) (*ir.FindResult, error) {
	start := time.Now()
	e.mu.RLock()
	defer e.mu.RUnlock()

	found, err := e.graph.FindSequence(e.text, text)
	var res *ir.FindResult
	if err != nil {
		err = newGraphError("find", err)
	} else {
		res = e.findResult(found)
	}
	e.observe(ctx, ir.OpFind, text, start, res, err)
	return res, err
}

// FindNames searches for the concatenation of the referenced vertices.
func (e *Engine) FindNames(ctx context.Context, refs []string) (*ir.FindResult, error) {
	start := time.Now()
	e.mu.RLock()
	defer e.mu.RUnlock()

	res, err := e.findNames(refs)
	e.observe(ctx, ir.OpFind, strings.Join(refs, " "), start, res, err)
	return res, err
}

func (e *Engine) findNames(refs []string) (*ir.FindResult, error) {
	indices, err := e.resolveAll(refs)
	if err != nil {
		return nil, err
	}
	found, err := e.graph.FindPattern(childrenOf(indices))
	if err != nil {
		return nil, newGraphError("find", err)
	}
	return e.findResult(found), nil
}

func (e *Engine) findResult(found *hypergraph.SearchFound) *ir.FindResult {
	if found == nil {
		return &ir.FindResult{Found: false}
	}
	return &ir.FindResult{
		Found:    true,
		Vertex:   e.render(found.Vertex.Index),
		Index:    int(found.Vertex.Index),
		Width:    found.Vertex.Width,
		Pattern:  int(found.Pattern),
		Position: found.Position,
		Range:    found.Range.Kind.String(),
		Pre:      e.renderPattern(found.Range.Pre),
		Post:     e.renderPattern(found.Range.Post),
	}
}

// Split reports the left and right alternatives of the referenced vertex at
// token offset pos without modifying the graph.
func (e *Engine) Split(ctx context.Context, ref string, pos int) (*ir.SplitResult, error) {
	start := time.Now()
	e.mu.RLock()
	defer e.mu.RUnlock()

	res, _, err := e.split(ref, pos)
	e.observe(ctx, ir.OpSplit, splitInput(ref, pos), start, res, err)
	return res, err
}

// SplitInsert splits the referenced vertex at pos, inserts vertices for the
// two halves and attaches [left, right] as a decomposition of the vertex.
func (e *Engine) SplitInsert(ctx context.Context, ref string, pos int) (*ir.SplitResult, error) {
	start := time.Now()
	e.mu.Lock()
	defer e.mu.Unlock()

	res, err := e.splitInsert(ref, pos)
	e.observe(ctx, ir.OpSplitInsert, splitInput(ref, pos), start, res, err)
	return res, err
}

func (e *Engine) splitInsert(ref string, pos int) (*ir.SplitResult, error) {
	res, idx, err := e.split(ref, pos)
	if err != nil {
		return nil, err
	}
	left, right, err := e.graph.InsertSplit(idx, pos)
	if err != nil {
		return nil, newGraphError("split_insert", err)
	}
	res.Left = e.render(left)
	res.Right = e.render(right)
	return res, nil
}

func (e *Engine) split(ref string, pos int) (*ir.SplitResult, hypergraph.VertexIndex, error) {
	idx, err := e.resolve(ref)
	if err != nil {
		return nil, -1, err
	}
	tree, err := e.graph.SplitTree(idx, pos)
	if err != nil {
		return nil, -1, newGraphError("split", err)
	}
	lefts, rights, err := e.graph.SplitIndexAtPos(idx, pos)
	if err != nil {
		return nil, -1, newGraphError("split", err)
	}
	res := &ir.SplitResult{
		Vertex: e.render(idx),
		Pos:    pos,
		Lefts:  make([][]string, len(lefts)),
		Rights: make([][]string, len(rights)),
		Tree:   e.graph.SplitTreeString(tree),
	}
	for i, p := range lefts {
		res.Lefts[i] = e.renderPattern(p)
	}
	for i, p := range rights {
		res.Rights[i] = e.renderPattern(p)
	}
	return res, idx, nil
}

func splitInput(ref string, pos int) string {
	return ref + "@" + strconv.Itoa(pos)
}

// Check verifies the structural invariants of the graph.
func (e *Engine) Check(ctx context.Context) (*ir.CheckResult, error) {
	start := time.Now()
	e.mu.RLock()
	defer e.mu.RUnlock()

	res := &ir.CheckResult{
		Vertices: e.graph.VertexCount(),
		Patterns: e.graph.PatternCount(),
	}
	for _, v := range e.graph.CheckInvariants() {
		res.Violations = append(res.Violations, v.Error())
	}
	e.observe(ctx, ir.OpCheck, "", start, res, nil)
	return res, nil
}

// ExportDOT writes the graph in Graphviz DOT format.
func (e *Engine) ExportDOT(w io.Writer) error {
	e.mu.RLock()
	defer e.mu.RUnlock()

	name := e.fixture
	if name == "" {
		name = "seqraph"
	}
	return e.graph.ExportDOT(w, name)
}

// Dump writes one line per vertex.
func (e *Engine) Dump(w io.Writer) error {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.graph.Dump(w)
}

// Stats reports graph and engine counters.
func (e *Engine) Stats() ir.Stats {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.stats()
}

func (e *Engine) stats() ir.Stats {
	tokens := 0
	for i := 0; i < e.graph.VertexCount(); i++ {
		if key, err := e.graph.VertexKey(hypergraph.VertexIndex(i)); err == nil && key.IsToken() {
			tokens++
		}
	}
	return ir.Stats{
		Vertices:   e.graph.VertexCount(),
		Tokens:     tokens,
		Patterns:   e.graph.PatternCount(),
		Names:      len(e.names),
		Operations: e.clock.Current(),
	}
}

// Name returns the label of a vertex, if it has one.
func (e *Engine) Name(index int) (string, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	name, ok := e.labels[hypergraph.VertexIndex(index)]
	return name, ok
}

// Lookup resolves a reference to a vertex index.
func (e *Engine) Lookup(ref string) (int, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	idx, err := e.resolve(ref)
	return int(idx), err
}

// resolve maps a reference to a vertex: a registered name first, then text
// whose tokens span exactly one vertex.
func (e *Engine) resolve(ref string) (hypergraph.VertexIndex, error) {
	if idx, ok := e.names[ref]; ok {
		return idx, nil
	}
	tokens := e.text.Tokenize(ref)
	if len(tokens) == 0 {
		return -1, newUnknownName(ref)
	}
	leaves := make([]hypergraph.VertexIndex, len(tokens))
	for i, t := range tokens {
		idx, ok := e.graph.TokenIndex(t)
		if !ok {
			return -1, newUnknownToken(ref, t)
		}
		leaves[i] = idx
	}
	if len(leaves) == 1 {
		return leaves[0], nil
	}
	found, err := e.graph.FindPattern(childrenOf(leaves))
	if err != nil {
		return -1, newGraphError("resolve", err)
	}
	if found == nil || !found.Range.IsMatching() {
		return -1, newUnknownName(ref)
	}
	return found.Vertex.Index, nil
}

func (e *Engine) resolveAll(refs []string) ([]hypergraph.VertexIndex, error) {
	out := make([]hypergraph.VertexIndex, len(refs))
	for i, ref := range refs {
		idx, err := e.resolve(ref)
		if err != nil {
			return nil, err
		}
		out[i] = idx
	}
	return out, nil
}

// render names a vertex by its label, or by its token content.
func (e *Engine) render(idx hypergraph.VertexIndex) string {
	if name, ok := e.labels[idx]; ok {
		return name
	}
	tokens, err := e.graph.LeafTokens(idx)
	if err != nil {
		return e.graph.IndexString(idx)
	}
	return e.text.Join(tokens)
}

func (e *Engine) renderPattern(p hypergraph.Pattern) []string {
	if len(p) == 0 {
		return nil
	}
	out := make([]string, len(p))
	for i, c := range p {
		out[i] = e.render(c.Index)
	}
	return out
}

func childrenOf(indices []hypergraph.VertexIndex) hypergraph.Pattern {
	p := make(hypergraph.Pattern, len(indices))
	for i, idx := range indices {
		p[i] = hypergraph.Child{Index: idx}
	}
	return p
}

// observe stamps, counts, logs and records a finished operation.
// Journal failures are logged; the operation's own result stands.
func (e *Engine) observe(ctx context.Context, op ir.Op, input string, start time.Time, output any, opErr error) {
	seq := e.clock.Next()

	result := resultOK
	switch {
	case opErr != nil:
		result = resultError
	case isMiss(output):
		result = resultMiss
	}
	e.metrics.operations.WithLabelValues(string(op), result).Inc()
	e.metrics.duration.WithLabelValues(string(op)).Observe(time.Since(start).Seconds())

	if opErr != nil {
		e.logger.Debug("operation failed", "op", op, "seq", seq, "input", input, "error", opErr)
	} else {
		e.logger.Debug("operation", "op", op, "seq", seq, "input", input, "result", result)
	}

	if e.recorder == nil {
		return
	}
	step := ir.StepRecord{
		RunID: e.runID,
		Seq:   seq,
		Op:    op,
		Input: input,
	}
	if opErr != nil {
		step.Error = opErr.Error()
	} else if output != nil {
		data, err := json.Marshal(output)
		if err != nil {
			e.logger.Error("failed to encode step output", "op", op, "seq", seq, "error", err)
		} else {
			step.Output = data
		}
	}
	step.Hash = ir.StepHash(seq, op, input, step.Output)
	if err := e.recorder.RecordStep(ctx, step); err != nil {
		e.logger.Error("failed to record step", "op", op, "seq", seq, "error", err)
	}
}

func isMiss(output any) bool {
	res, ok := output.(*ir.FindResult)
	return ok && res != nil && !res.Found
}
