// Package traverse flattens a platform view tree into a FormSnapshot.
//
// Windows are parsed one at a time in order. The first window whose tree
// yields at least one guess other than "autofill disabled" becomes the
// snapshot and later windows are never inspected.
package traverse

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ppiankov/formsense/internal/infer"
	"github.com/ppiankov/formsense/internal/model"
	"github.com/ppiankov/formsense/internal/structure"
)

// ErrAborted means the tree could not be walked and there is nothing to
// autofill
var ErrAborted = errors.New("structure traversal aborted")

// Builder builds snapshots from view trees
type Builder struct {
	engine *infer.Engine
}

// NewBuilder creates a builder using engine for per-node inference
func NewBuilder(engine *infer.Engine) *Builder {
	if engine == nil {
		engine = infer.NewEngine(nil)
	}
	return &Builder{engine: engine}
}

// parsed is the result of walking one subtree
type parsed struct {
	webView   bool
	webDomain string
	webScheme string
	fields    []model.FieldObservation
}

// Build walks s and returns the snapshot of the first window with anything
// to fill. A structure without such a window yields an empty snapshot
// carrying the last candidate application id. Panics raised while walking
// are returned as ErrAborted.
func (b *Builder) Build(s *structure.Structure) (snapshot *model.FormSnapshot, err error) {
	defer func() {
		if r := recover(); r != nil {
			snapshot = nil
			err = fmt.Errorf("%w: %v", ErrAborted, r)
		}
	}()

	snapshot = &model.FormSnapshot{}
	if s == nil {
		return snapshot, nil
	}

	for _, w := range s.Windows {
		appID := strings.SplitN(w.Title, "/", 2)[0]
		if strings.Contains(appID, ":") {
			continue
		}
		snapshot.ApplicationID = appID

		p := b.walk(w.Root)
		if hasFillable(p.fields) {
			snapshot.WebView = p.webView
			snapshot.WebDomain = p.webDomain
			snapshot.WebScheme = p.webScheme
			snapshot.Fields = p.fields
			break
		}
	}
	return snapshot, nil
}

// walk parses node and its visible descendants. Web view flag, domain and
// scheme found on children fill in what the node itself lacks.
func (b *Builder) walk(node *structure.ViewNode) parsed {
	if node == nil {
		return parsed{}
	}

	p := parsed{
		webView:   node.IsWebView(),
		webDomain: node.WebDomain,
		webScheme: node.WebScheme,
	}
	if !node.Visible {
		return p
	}

	if node.AutofillID != "" {
		if guesses := b.engine.Infer(node); len(guesses) > 0 {
			p.fields = append(p.fields, model.FieldObservation{
				ID:      model.FieldID(node.AutofillID),
				Guesses: guesses,
				Value:   node.Text,
			})
		}
	}

	for _, child := range node.Children {
		c := b.walk(child)
		if c.webView {
			p.webView = true
		}
		if p.webDomain == "" {
			p.webDomain = c.webDomain
		}
		if p.webScheme == "" {
			p.webScheme = c.webScheme
		}
		p.fields = append(p.fields, c.fields...)
	}
	return p
}

func hasFillable(fields []model.FieldObservation) bool {
	for _, f := range fields {
		for _, g := range f.Guesses {
			if g.Hint != model.HintOff {
				return true
			}
		}
	}
	return false
}
