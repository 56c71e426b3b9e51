// Package generator orchestrates the generation pipeline: binding
// resolution, skip evaluation, rendering, fingerprint comparison, and
// artifact writes tracked in the generation map.
package generator

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"brassworks.dev/fieldsmith/internal/binding"
	"brassworks.dev/fieldsmith/internal/field"
	"brassworks.dev/fieldsmith/internal/genmap"
	"brassworks.dev/fieldsmith/internal/remote"
	"brassworks.dev/fieldsmith/internal/render"
)

// Outcome is the terminal state of one field's pass through the pipeline.
type Outcome int

const (
	Written Outcome = iota
	Skipped
	Unchanged
	Failed
)

func (o Outcome) String() string {
	switch o {
	case Written:
		return "written"
	case Skipped:
		return "skipped"
	case Unchanged:
		return "unchanged"
	case Failed:
		return "failed"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// Result reports the terminal state of one field.
type Result struct {
	FieldID string
	Name    string
	Outcome Outcome
	Reason  binding.SkipReason
	Path    string
	Err     error
}

// Generator runs the pipeline. It owns the generation map and the target
// directory exclusively for the duration of a run and processes fields
// strictly sequentially.
type Generator struct {
	Service  remote.Service
	Renderer render.Renderer
	Table    *binding.Table
	Rules    *binding.Rules
	Map      *genmap.Map

	// MapPath is where the map is flushed after every successful write, so
	// an interrupted run keeps already-written fields recorded.
	MapPath string

	OutDir    string
	Namespace string
	Extension string

	// DryRun renders and compares but never writes files or mutates the map.
	DryRun bool

	Log *zap.Logger

	// claimed tracks which field owns each target path this run. Display
	// names are not unique, so derived artifact paths can collide; a
	// collision must never let one field's write destroy another's.
	claimed map[string]string
}

// Context is the data handed to templates.
type Context struct {
	Field     *field.Field
	Options   []field.Option
	Namespace string
	ClassName string
}

// Process runs a single field through the pipeline to a terminal state.
func (g *Generator) Process(ctx context.Context, f *field.Field) Result {
	res := Result{FieldID: f.ID, Name: f.Name}

	b := g.Table.Resolve(f)
	skip, reason := g.Rules.Evaluate(f, b != nil)
	if skip {
		res.Outcome = Skipped
		res.Reason = reason
		if reason == binding.SkipUnbound {
			// A configuration gap, unlike an explicit rule.
			g.Log.Warn("field has no template binding",
				zap.String("field", f.ID), zap.String("name", f.Name),
				zap.String("type", f.Type))
		} else {
			g.Log.Debug("field skipped by rule",
				zap.String("field", f.ID), zap.String("reason", string(reason)))
		}
		return res
	}

	className := g.classNameFor(f)
	if owner, taken := g.targetOwner(g.targetPath(className)); taken && owner != f.ID {
		className += render.Pascal(f.ID)
		g.Log.Warn("display name collides with another field, disambiguating artifact name",
			zap.String("field", f.ID), zap.String("name", f.Name),
			zap.String("class", className), zap.String("other", owner))
	}
	target := g.targetPath(className)
	g.claim(target, f.ID)

	tctx := Context{
		Field:     f,
		Namespace: g.Namespace,
		ClassName: className,
	}
	if b.LoadOptions {
		opts, err := g.Service.GetOptions(ctx, f.ID)
		if err != nil {
			// Degrade to rendering without options.
			g.Log.Warn("fetching options failed, rendering without them",
				zap.String("field", f.ID), zap.Error(err))
		} else {
			tctx.Options = opts
		}
	}

	text, err := g.Renderer.Render(b.Path, tctx)
	if err != nil {
		res.Outcome = Failed
		res.Err = err
		g.Log.Error("rendering failed",
			zap.String("field", f.ID), zap.String("template", b.Path), zap.Error(err))
		return res
	}

	res.Path = target
	fp := Fingerprint(text)

	if prev, ok := g.Map.Get(f.ID); ok && prev.Fingerprint == fp && fileExists(target) {
		res.Outcome = Unchanged
		g.Log.Debug("artifact unchanged",
			zap.String("field", f.ID), zap.String("path", target))
		return res
	}

	if g.DryRun {
		res.Outcome = Written
		g.Log.Info("would write artifact",
			zap.String("field", f.ID), zap.String("path", target))
		return res
	}

	if err := writeFile(target, []byte(text)); err != nil {
		res.Outcome = Failed
		res.Err = err
		g.Log.Error("writing artifact failed",
			zap.String("field", f.ID), zap.String("path", target), zap.Error(err))
		return res
	}

	g.Map.Put(genmap.Entry{
		Field:       f.ID,
		Path:        target,
		Template:    b.Template,
		Fingerprint: fp,
	})
	if err := g.Map.Flush(g.MapPath); err != nil {
		res.Outcome = Failed
		res.Err = err
		g.Log.Error("flushing generation map failed",
			zap.String("field", f.ID), zap.String("map", g.MapPath), zap.Error(err))
		return res
	}

	res.Outcome = Written
	g.Log.Info("artifact written",
		zap.String("field", f.ID), zap.String("path", target),
		zap.String("template", b.Template))
	return res
}

// GenerateField processes one field and reports success. Every outcome
// except Failed counts as success.
func (g *Generator) GenerateField(ctx context.Context, f *field.Field) bool {
	return g.Process(ctx, f).Outcome != Failed
}

// GenerateAll processes the full remote field catalog. Every field is
// attempted regardless of earlier failures; the aggregate is false if any
// field failed. Per-field results are returned in catalog order.
func (g *Generator) GenerateAll(ctx context.Context) (bool, []Result, error) {
	fields, err := g.Service.ListFields(ctx)
	if err != nil {
		return false, nil, fmt.Errorf("listing fields: %w", err)
	}

	ok := true
	results := make([]Result, 0, len(fields))
	for i := range fields {
		res := g.Process(ctx, &fields[i])
		if res.Outcome == Failed {
			ok = false
		}
		results = append(results, res)
	}
	return ok, results, nil
}

func (g *Generator) classNameFor(f *field.Field) string {
	if name := render.Pascal(f.Name); name != "" {
		return name
	}
	return render.Pascal(f.ID)
}

func (g *Generator) targetPath(className string) string {
	return filepath.Join(g.OutDir, filepath.FromSlash(g.Namespace), className+g.Extension)
}

// targetOwner reports which field owns target: a field processed earlier in
// this run, or failing that the field recorded for it in the generation map.
func (g *Generator) targetOwner(target string) (string, bool) {
	if owner, ok := g.claimed[target]; ok {
		return owner, true
	}
	return g.Map.FieldFor(target)
}

func (g *Generator) claim(target, fieldID string) {
	if g.claimed == nil {
		g.claimed = make(map[string]string)
	}
	g.claimed[target] = fieldID
}

// Fingerprint returns the content hash recorded in the generation map.
func Fingerprint(text string) string {
	sum := sha256.Sum256([]byte(text))
	return "sha256:" + hex.EncodeToString(sum[:])
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// writeFile writes via a temp file and rename so a crash never leaves a
// half-written artifact behind.
func writeFile(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, ".artifact-*")
	if err != nil {
		return fmt.Errorf("creating temp file in %s: %w", dir, err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("closing %s: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("replacing %s: %w", path, err)
	}
	return nil
}
