// Package structure models the view hierarchy a host platform hands to the
// autofill engine: windows, each holding a tree of view nodes with their
// autofill metadata.
//
// Trees come from two places: JSON or YAML dumps of a real device screen
// (Load) and HTML login pages rendered as a single web view (FromHTML).
package structure

// WebViewClass is the class name of an embedded browser view
const WebViewClass = "android.webkit.WebView"

// Importance is a node's declared importance for autofill
type Importance string

const (
	ImportanceAuto                   Importance = "auto"
	ImportanceYes                    Importance = "yes"
	ImportanceNo                     Importance = "no"
	ImportanceYesExcludeDescendants Importance = "yesExcludeDescendants"
	ImportanceNoExcludeDescendants  Importance = "noExcludeDescendants"
)

// Attribute is one HTML attribute of a web node, in document order
type Attribute struct {
	Name  string `json:"name" yaml:"name"`
	Value string `json:"value" yaml:"value"`
}

// ViewNode is one node of a screen's view tree
type ViewNode struct {
	AutofillID     string      `json:"autofill_id,omitempty" yaml:"autofill_id,omitempty"` // Empty for nodes that cannot be filled
	Visible        bool        `json:"visible" yaml:"visible"`
	ClassName      string      `json:"class_name,omitempty" yaml:"class_name,omitempty"`
	WebDomain      string      `json:"web_domain,omitempty" yaml:"web_domain,omitempty"`
	WebScheme      string      `json:"web_scheme,omitempty" yaml:"web_scheme,omitempty"`
	AutofillHints  []string    `json:"autofill_hints,omitempty" yaml:"autofill_hints,omitempty"`
	HTMLTag        string      `json:"html_tag,omitempty" yaml:"html_tag,omitempty"`
	HTMLAttributes []Attribute `json:"html_attributes,omitempty" yaml:"html_attributes,omitempty"`
	Hint           string      `json:"hint,omitempty" yaml:"hint,omitempty"` // Placeholder or label text
	IDEntry        string      `json:"id_entry,omitempty" yaml:"id_entry,omitempty"`
	IDType         string      `json:"id_type,omitempty" yaml:"id_type,omitempty"`
	Importance     Importance  `json:"importance,omitempty" yaml:"importance,omitempty"`
	InputType      InputType   `json:"input_type,omitempty" yaml:"input_type,omitempty"`
	Text           string      `json:"text,omitempty" yaml:"text,omitempty"` // Current text value
	Children       []*ViewNode `json:"children,omitempty" yaml:"children,omitempty"`
}

// IsWebView reports whether the node is an embedded browser
func (n *ViewNode) IsWebView() bool {
	return n.ClassName == WebViewClass
}

// Window is one top-level window of a screen
type Window struct {
	Title string    `json:"title" yaml:"title"` // "<package>/<activity>" for application windows
	Root  *ViewNode `json:"root" yaml:"root"`
}

// Structure is one snapshot of everything on screen
type Structure struct {
	Windows []Window `json:"windows" yaml:"windows"`
}

// Walk visits every node of every window depth-first. Returning false from
// fn stops the descent into that node's children.
func (s *Structure) Walk(fn func(*ViewNode) bool) {
	var walk func(*ViewNode)
	walk = func(n *ViewNode) {
		if n == nil || !fn(n) {
			return
		}
		for _, c := range n.Children {
			walk(c)
		}
	}
	for _, w := range s.Windows {
		walk(w.Root)
	}
}
