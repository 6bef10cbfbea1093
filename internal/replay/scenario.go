// Package replay runs scripted allocation scenarios against the
// fixedarena allocators and checks the resulting block placement.
package replay

import (
	"embed"
	"io"
	"io/fs"
	"os"
	"path"

	"github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"
)

// Kind names one of the allocators.
type Kind string

const (
	KindBump      Kind = "bump"
	KindTagging   Kind = "tagging"
	KindRecycling Kind = "recycling"
)

// Kinds lists every allocator kind in order of capability.
var Kinds = []Kind{KindBump, KindTagging, KindRecycling}

// ParseKind validates an allocator name.
func ParseKind(s string) (Kind, error) {
	for _, k := range Kinds {
		if string(k) == s {
			return k, nil
		}
	}
	return "", errors.Newf("unknown allocator %q (want bump, tagging or recycling)", s)
}

// Scenario is a sequence of allocations and releases on a fresh arena.
type Scenario struct {
	Name      string `yaml:"name"`
	Allocator Kind   `yaml:"allocator"`
	Arena     int    `yaml:"arena"` // arena length in bytes
	Steps     []Step `yaml:"steps"`
}

// Step is either an allocation (Alloc set) or a release (Release set).
type Step struct {
	Alloc   string  `yaml:"alloc,omitempty"`
	Release string  `yaml:"release,omitempty"`
	Size    int     `yaml:"size,omitempty"`
	Align   int     `yaml:"align,omitempty"` // defaults to 1
	Expect  *Expect `yaml:"expect,omitempty"`
}

// Expect constrains where an allocation lands.
type Expect struct {
	Same   string `yaml:"same,omitempty"`   // same data offset as this label
	After  string `yaml:"after,omitempty"`  // at or past the end of this label's block
	Offset *int   `yaml:"offset,omitempty"` // exact data offset
	OOM    bool   `yaml:"oom,omitempty"`    // must fail with ErrOutOfMemory
}

func (s *Step) alignment() int {
	if s.Align == 0 {
		return 1
	}
	return s.Align
}

// Validate checks the scenario without running it.
func (s *Scenario) Validate() error {
	if _, err := ParseKind(string(s.Allocator)); err != nil {
		return errors.Wrapf(err, "scenario %q", s.Name)
	}
	if s.Arena <= 0 {
		return errors.Newf("scenario %q: arena size must be positive, got %d", s.Name, s.Arena)
	}
	// placed maps every label seen so far to whether its allocation is
	// expected to succeed.
	placed := make(map[string]bool)
	for i, st := range s.Steps {
		switch {
		case st.Alloc != "" && st.Release != "":
			return errors.Newf("scenario %q step %d: alloc and release in one step", s.Name, i)
		case st.Alloc != "":
			if _, ok := placed[st.Alloc]; ok {
				return errors.Newf("scenario %q step %d: label %q allocated twice", s.Name, i, st.Alloc)
			}
			if st.Size <= 0 {
				return errors.Newf("scenario %q step %d: size must be positive, got %d", s.Name, i, st.Size)
			}
			if a := st.alignment(); a < 0 || a&(a-1) != 0 {
				return errors.Newf("scenario %q step %d: alignment %d is not a power of two", s.Name, i, a)
			}
			if err := st.Expect.validate(placed); err != nil {
				return errors.Wrapf(err, "scenario %q step %d", s.Name, i)
			}
			placed[st.Alloc] = st.Expect == nil || !st.Expect.OOM
		case st.Release != "":
			if s.Allocator == KindBump {
				return errors.Newf("scenario %q step %d: bump allocator cannot release", s.Name, i)
			}
			ok, known := placed[st.Release]
			if !known {
				return errors.Newf("scenario %q step %d: release of unknown label %q", s.Name, i, st.Release)
			}
			if !ok {
				return errors.Newf("scenario %q step %d: release of %q, which is expected to run out of memory", s.Name, i, st.Release)
			}
		default:
			return errors.Newf("scenario %q step %d: neither alloc nor release", s.Name, i)
		}
	}
	return nil
}

func (e *Expect) validate(placed map[string]bool) error {
	if e == nil {
		return nil
	}
	for _, label := range []string{e.Same, e.After} {
		if label == "" {
			continue
		}
		ok, known := placed[label]
		if !known {
			return errors.Newf("expectation refers to unknown label %q", label)
		}
		if !ok {
			return errors.Newf("expectation refers to %q, which is expected to run out of memory", label)
		}
	}
	if e.OOM && (e.Same != "" || e.After != "" || e.Offset != nil) {
		return errors.New("oom expectation cannot be combined with placement")
	}
	return nil
}

// Load decodes and validates a YAML scenario.
func Load(r io.Reader) (*Scenario, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	var s Scenario
	if err := dec.Decode(&s); err != nil {
		return nil, errors.Wrap(err, "decode scenario")
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// LoadFile reads a scenario from a file.
func LoadFile(name string) (*Scenario, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, errors.Wrap(err, "open scenario")
	}
	defer f.Close()
	s, err := Load(f)
	if err != nil {
		return nil, errors.Wrapf(err, "%s", name)
	}
	return s, nil
}

//go:embed scenarios/*.yaml
var builtin embed.FS

// Builtin returns the scenarios shipped with the package, sorted by file
// name.
func Builtin() ([]*Scenario, error) {
	entries, err := fs.ReadDir(builtin, "scenarios")
	if err != nil {
		return nil, errors.Wrap(err, "read builtin scenarios")
	}

	scenarios := make([]*Scenario, 0, len(entries))
	for _, e := range entries {
		f, err := builtin.Open(path.Join("scenarios", e.Name()))
		if err != nil {
			return nil, errors.Wrapf(err, "open %s", e.Name())
		}
		s, err := Load(f)
		f.Close()
		if err != nil {
			return nil, errors.Wrapf(err, "%s", e.Name())
		}
		scenarios = append(scenarios, s)
	}
	return scenarios, nil
}
