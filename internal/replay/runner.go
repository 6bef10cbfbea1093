package replay

import (
	"strings"
	"unsafe"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"github.com/pavanmanishd/fixedarena"
	"github.com/pavanmanishd/fixedarena/internal/wordbuf"
)

// Target is what the runner needs from an allocator.
type Target interface {
	fixedarena.Allocator
	Offset(p []byte) int
	Metrics() fixedarena.ArenaMetrics
	Close()
}

// chain is implemented by the allocators that keep headers.
type chain interface {
	Blocks() []fixedarena.Block
}

// New builds an allocator of the given kind over a fresh word-aligned
// arena of size bytes.
func New(kind Kind, size int) (Target, error) {
	buf := wordbuf.New(size)
	switch kind {
	case KindBump:
		return fixedarena.NewBump(buf), nil
	case KindTagging:
		return fixedarena.NewTagging(buf), nil
	case KindRecycling:
		return fixedarena.NewRecycling(buf), nil
	}
	return nil, errors.Newf("unknown allocator %q", kind)
}

// StepResult records what one step did.
type StepResult struct {
	Index  int
	Op     string // "alloc" or "release"
	Label  string
	Offset int // data offset, -1 when the allocation failed
	Length int
	Err    error // allocation error, if any
}

// ErrExpectation is returned by Run when at least one step did not land
// where its expectation said.
var ErrExpectation = errors.New("unmet expectation")

// Result is the outcome of a scenario run.
type Result struct {
	Scenario *Scenario
	Steps    []StepResult
	Failures []error // unmet expectations in step order
	Metrics  fixedarena.ArenaMetrics
	Blocks   []fixedarena.Block // nil for bump
}

// Run replays s on a fresh allocator. Unmet expectations are collected
// in Result.Failures and do not stop the run; an unexpected allocation
// failure does. The Result is returned in both cases.
func Run(s *Scenario, logger *zap.Logger) (*Result, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	target, err := New(s.Allocator, s.Arena)
	if err != nil {
		return nil, err
	}
	defer target.Close()

	log := logger.With(zap.String("scenario", s.Name), zap.String("allocator", string(s.Allocator)))
	log.Debug("replay started", zap.Int("arena", s.Arena), zap.Int("steps", len(s.Steps)))

	r := &runner{
		target: target,
		log:    log,
		live:   make(map[string][]byte),
		spans:  make(map[string]span),
	}
	res := &Result{Scenario: s}
	for i := range s.Steps {
		step := &s.Steps[i]
		var sr StepResult
		var fatal error
		if step.Alloc != "" {
			sr, fatal = r.alloc(i, step)
		} else {
			sr, fatal = r.release(i, step)
		}
		res.Steps = append(res.Steps, sr)
		if fatal != nil {
			r.finish(res)
			if err := unmet(res.Failures); err != nil {
				fatal = errors.WithSecondaryError(fatal, err)
			}
			log.Warn("replay aborted", zap.Int("step", i), zap.Error(fatal))
			return res, fatal
		}
	}
	r.finish(res)
	if err := unmet(res.Failures); err != nil {
		log.Warn("replay finished with unmet expectations", zap.Int("failures", len(res.Failures)))
		return res, err
	}
	log.Info("replay finished", zap.Stringer("metrics", res.Metrics))
	return res, nil
}

// unmet folds expectation failures into one error marked ErrExpectation.
func unmet(failures []error) error {
	if len(failures) == 0 {
		return nil
	}
	msgs := make([]string, len(failures))
	for i, err := range failures {
		msgs[i] = err.Error()
	}
	return errors.Wrapf(ErrExpectation, "%s", strings.Join(msgs, "; "))
}

type span struct {
	offset, length int
}

func (s span) end() int {
	return s.offset + s.length
}

type runner struct {
	target   Target
	log      *zap.Logger
	live     map[string][]byte
	spans    map[string]span
	failures []error
}

func (r *runner) alloc(i int, step *Step) (StepResult, error) {
	align := step.alignment()
	sr := StepResult{Index: i, Op: "alloc", Label: step.Alloc, Offset: -1, Length: step.Size}
	p, err := r.target.Allocate(step.Size, align)
	expect := step.Expect
	if err != nil {
		sr.Err = err
		if expect != nil && expect.OOM && errors.Is(err, fixedarena.ErrOutOfMemory) {
			r.log.Debug("allocation failed as expected", zap.String("label", step.Alloc), zap.Error(err))
			return sr, nil
		}
		return sr, errors.Wrapf(err, "step %d: alloc %q", i, step.Alloc)
	}

	off := r.target.Offset(p)
	sr.Offset = off
	r.live[step.Alloc] = p
	r.spans[step.Alloc] = span{offset: off, length: len(p)}
	r.log.Debug("allocated",
		zap.String("label", step.Alloc),
		zap.Int("offset", off),
		zap.Int("size", step.Size),
		zap.Int("align", align))

	if uintptr(unsafe.Pointer(&p[0]))%uintptr(align) != 0 {
		r.fail(errors.Newf("step %d: %q at offset %d is not aligned to %d", i, step.Alloc, off, align))
	}
	if expect == nil {
		return sr, nil
	}
	if expect.OOM {
		r.fail(errors.Newf("step %d: %q allocated at offset %d, expected out of memory", i, step.Alloc, off))
	}
	if expect.Same != "" {
		if ref, ok := r.spans[expect.Same]; !ok {
			r.fail(errors.Newf("step %d: %q expected at the offset of %q, which was never placed", i, step.Alloc, expect.Same))
		} else if off != ref.offset {
			r.fail(errors.Newf("step %d: %q at offset %d, expected %d (same as %q)", i, step.Alloc, off, ref.offset, expect.Same))
		}
	}
	if expect.After != "" {
		if ref, ok := r.spans[expect.After]; !ok {
			r.fail(errors.Newf("step %d: %q expected after %q, which was never placed", i, step.Alloc, expect.After))
		} else if off < ref.end() {
			r.fail(errors.Newf("step %d: %q at offset %d, expected at or after %d (end of %q)", i, step.Alloc, off, ref.end(), expect.After))
		}
	}
	if expect.Offset != nil && off != *expect.Offset {
		r.fail(errors.Newf("step %d: %q at offset %d, expected %d", i, step.Alloc, off, *expect.Offset))
	}
	return sr, nil
}

func (r *runner) release(i int, step *Step) (StepResult, error) {
	sr := StepResult{Index: i, Op: "release", Label: step.Release, Offset: -1}
	p, ok := r.live[step.Release]
	if !ok {
		return sr, errors.Newf("step %d: release of %q, which is not live", i, step.Release)
	}
	rel, ok := r.target.(fixedarena.Releaser)
	if !ok {
		return sr, errors.Wrapf(fixedarena.ErrNotSupported, "step %d: release on %T", i, r.target)
	}
	rel.Release(p)
	delete(r.live, step.Release)
	sr.Offset = r.spans[step.Release].offset
	sr.Length = len(p)
	r.log.Debug("released", zap.String("label", step.Release), zap.Int("offset", sr.Offset))
	return sr, nil
}

func (r *runner) fail(err error) {
	r.log.Debug("expectation failed", zap.Error(err))
	r.failures = append(r.failures, err)
}

func (r *runner) finish(res *Result) {
	res.Failures = r.failures
	res.Metrics = r.target.Metrics()
	if c, ok := r.target.(chain); ok {
		res.Blocks = c.Blocks()
	}
}
