package structure

import (
	"fmt"
	"io"
	"net/url"
	"strings"

	"golang.org/x/net/html"
)

// Input types that never hold text a credential could fill
var skippedInputTypes = map[string]bool{
	"submit":   true,
	"button":   true,
	"reset":    true,
	"image":    true,
	"checkbox": true,
	"radio":    true,
	"file":     true,
	"range":    true,
	"color":    true,
}

// FromHTML renders an HTML page as the view tree a browser would report:
// one window whose root is a web view carrying the page origin, with one
// child per text input. Hidden inputs are kept but marked invisible.
func FromHTML(r io.Reader, pageURL string) (*Structure, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	base, err := url.Parse(pageURL)
	if err != nil {
		return nil, fmt.Errorf("parse page url: %w", err)
	}

	root := &ViewNode{
		Visible:   true,
		ClassName: WebViewClass,
		WebDomain: base.Hostname(),
		WebScheme: base.Scheme,
	}

	labels := collectLabels(doc)
	count := 0

	var walk func(n *html.Node, hidden bool, label string)
	walk = func(n *html.Node, hidden bool, label string) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style", "noscript", "template":
				return
			}
			if isHiddenElement(n) {
				hidden = true
			}
			if n.Data == "label" && attr(n, "for") == "" {
				label = textContent(n)
			}

			if node := inputNode(n, hidden); node != nil {
				count++
				node.AutofillID = fmt.Sprintf("web-%d", count)
				if text := labels[attr(n, "id")]; text != "" {
					label = text
				}
				if label != "" && !hasAttr(n, "label") {
					node.HTMLAttributes = append(node.HTMLAttributes, Attribute{Name: "label", Value: label})
				}
				root.Children = append(root.Children, node)
			}
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c, hidden, label)
		}
	}
	walk(doc, false, "")

	return &Structure{Windows: []Window{{Root: root}}}, nil
}

// inputNode builds the node for a fillable element, or nil
func inputNode(n *html.Node, hidden bool) *ViewNode {
	var inputType InputType
	switch n.Data {
	case "input":
		typ := strings.ToLower(strings.TrimSpace(attr(n, "type")))
		if skippedInputTypes[typ] {
			return nil
		}
		if typ == "hidden" {
			hidden = true
		}
		inputType = inputTypeOf(typ)
	case "textarea":
		inputType = ClassText | TextVariationLongMessage
	default:
		return nil
	}

	node := &ViewNode{
		Visible:   !hidden,
		HTMLTag:   n.Data,
		IDEntry:   attr(n, "id"),
		InputType: inputType,
		Text:      attr(n, "value"),
	}
	for _, a := range n.Attr {
		node.HTMLAttributes = append(node.HTMLAttributes, Attribute{
			Name:  strings.ToLower(a.Key),
			Value: a.Val,
		})
	}

	node.Hint = strings.TrimSpace(attr(n, "placeholder"))
	if node.Hint == "" {
		node.Hint = strings.TrimSpace(attr(n, "aria-label"))
	}
	return node
}

// inputTypeOf maps an HTML input type to the input type a browser reports
func inputTypeOf(typ string) InputType {
	switch typ {
	case "password":
		return ClassText | TextVariationWebPassword
	case "email":
		return ClassText | TextVariationWebEmailAddress
	case "tel":
		return ClassPhone
	case "number":
		return ClassNumber | NumberVariationNormal
	case "url":
		return ClassText | TextVariationURI
	case "search":
		return ClassText | TextVariationFilter
	case "date", "month", "week", "time", "datetime-local":
		return ClassDateTime
	default:
		return ClassText | TextVariationWebEditText
	}
}

// collectLabels maps element ids to the text of <label for="..."> elements
func collectLabels(doc *html.Node) map[string]string {
	labels := make(map[string]string)

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "label" {
			if target := attr(n, "for"); target != "" {
				if text := textContent(n); text != "" {
					labels[target] = text
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return labels
}

// isHiddenElement reports elements the browser would not render
func isHiddenElement(n *html.Node) bool {
	if hasAttr(n, "hidden") {
		return true
	}
	if strings.EqualFold(attr(n, "aria-hidden"), "true") {
		return true
	}
	style := strings.ToLower(strings.ReplaceAll(attr(n, "style"), " ", ""))
	return strings.Contains(style, "display:none") || strings.Contains(style, "visibility:hidden")
}

// textContent returns the whitespace-collapsed text under n
func textContent(n *html.Node) string {
	var parts []string

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			parts = append(parts, strings.Fields(n.Data)...)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)

	return strings.Join(parts, " ")
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if strings.EqualFold(a.Key, key) {
			return a.Val
		}
	}
	return ""
}

func hasAttr(n *html.Node, key string) bool {
	for _, a := range n.Attr {
		if strings.EqualFold(a.Key, key) {
			return true
		}
	}
	return false
}
