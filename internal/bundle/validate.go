package bundle

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/starford/ansuz/internal/apperr"
)

// Fault is one validation finding.
type Fault struct {
	Path string
	Err  error
}

// Report summarises a validation pass. Missing and Malformed are disjoint:
// a missing file means the generator and resolver disagree on paths
// (encoder drift), a malformed file means content generation went wrong.
type Report struct {
	Checked   int
	Missing   []Fault
	Malformed []Fault
}

// OK reports whether the bundle matched the plan exactly.
func (r *Report) OK() bool {
	return len(r.Missing) == 0 && len(r.Malformed) == 0
}

// Validate checks an on-disk bundle against a freshly computed plan. Every
// planned artifact must exist at its canonical path and decode as JSON.
func Validate(root string, plan *Plan) (*Report, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}

	rep := &Report{}
	for _, a := range plan.Artifacts {
		rep.Checked++
		p := filepath.Join(abs, filepath.FromSlash(a.Path))

		data, err := os.ReadFile(p)
		if err != nil {
			rep.Missing = append(rep.Missing, Fault{Path: a.Path, Err: apperr.ErrArtifactMissing})
			continue
		}
		var decoded any
		if err := json.Unmarshal(data, &decoded); err != nil {
			rep.Malformed = append(rep.Malformed, Fault{Path: a.Path, Err: apperr.ErrArtifactMalformed})
		}
	}
	return rep, nil
}
