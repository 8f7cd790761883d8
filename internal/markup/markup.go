// Package markup wraps golang.org/x/net/html with the small set of helpers
// the layout views need: element construction, class and data attribute
// access, scoped descendant lookup and serialisation.
package markup

import (
	"bytes"
	"fmt"
	"io"
	"iter"
	"slices"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Element creates a detached element node. attrs are key/value pairs.
func Element(tag string, attrs ...string) *html.Node {
	n := &html.Node{
		Type:     html.ElementNode,
		Data:     tag,
		DataAtom: atom.Lookup([]byte(tag)),
	}
	for i := 0; i+1 < len(attrs); i += 2 {
		SetAttr(n, attrs[i], attrs[i+1])
	}
	return n
}

// Text creates a detached text node.
func Text(value string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: value}
}

// Append attaches child to parent, detaching it from any previous parent.
func Append(parent, child *html.Node) *html.Node {
	if parent == nil || child == nil {
		return child
	}
	Detach(child)
	parent.AppendChild(child)
	return child
}

// Detach removes n from its parent, if any.
func Detach(n *html.Node) {
	if n != nil && n.Parent != nil {
		n.Parent.RemoveChild(n)
	}
}

// Clear removes every child of n.
func Clear(n *html.Node) {
	for n != nil && n.FirstChild != nil {
		n.RemoveChild(n.FirstChild)
	}
}

// Attr returns the value of key on n.
func Attr(n *html.Node, key string) (string, bool) {
	if n == nil {
		return "", false
	}
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

// GetAttr returns the value of key or an empty string.
func GetAttr(n *html.Node, key string) string {
	value, _ := Attr(n, key)
	return value
}

// SetAttr sets or replaces key on n.
func SetAttr(n *html.Node, key, value string) {
	if n == nil {
		return
	}
	for i, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			n.Attr[i].Val = value
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: value})
}

// RemoveAttr deletes key from n.
func RemoveAttr(n *html.Node, key string) {
	if n == nil {
		return
	}
	n.Attr = slices.DeleteFunc(n.Attr, func(a html.Attribute) bool {
		return a.Namespace == "" && a.Key == key
	})
}

// Classes returns the class list of n.
func Classes(n *html.Node) []string {
	return strings.Fields(GetAttr(n, "class"))
}

// HasClass reports whether n is an element carrying class.
func HasClass(n *html.Node, class string) bool {
	if n == nil || n.Type != html.ElementNode {
		return false
	}
	return slices.Contains(Classes(n), class)
}

// AddClass appends classes missing from n.
func AddClass(n *html.Node, classes ...string) {
	current := Classes(n)
	for _, class := range classes {
		for _, c := range strings.Fields(class) {
			if !slices.Contains(current, c) {
				current = append(current, c)
			}
		}
	}
	SetAttr(n, "class", strings.Join(current, " "))
}

// RemoveClass drops classes from n.
func RemoveClass(n *html.Node, classes ...string) {
	current := slices.DeleteFunc(Classes(n), func(c string) bool {
		return slices.Contains(classes, c)
	})
	if len(current) == 0 {
		RemoveAttr(n, "class")
		return
	}
	SetAttr(n, "class", strings.Join(current, " "))
}

// Data returns the data-* attributes of n with the prefix stripped, in
// document order.
func Data(n *html.Node) []html.Attribute {
	if n == nil {
		return nil
	}
	out := make([]html.Attribute, 0, len(n.Attr))
	for _, a := range n.Attr {
		if a.Namespace == "" && strings.HasPrefix(a.Key, "data-") {
			out = append(out, html.Attribute{Key: strings.TrimPrefix(a.Key, "data-"), Val: a.Val})
		}
	}
	return out
}

// ElementChildren yields the direct element children of n.
func ElementChildren(n *html.Node) iter.Seq[*html.Node] {
	return func(yield func(*html.Node) bool) {
		if n == nil {
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.ElementNode && !yield(c) {
				return
			}
		}
	}
}

// Outermost returns the descendants of root matching match that have no
// matching ancestor between themselves and root, in document order.
func Outermost(root *html.Node, match func(*html.Node) bool) []*html.Node {
	var found []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type != html.ElementNode {
				continue
			}
			if match(c) {
				found = append(found, c)
				continue
			}
			walk(c)
		}
	}
	if root != nil {
		walk(root)
	}
	return found
}

// OutermostByClass is Outermost for a class marker.
func OutermostByClass(root *html.Node, class string) []*html.Node {
	return Outermost(root, func(n *html.Node) bool { return HasClass(n, class) })
}

// FindFirst returns the first element at or below root satisfying match.
func FindFirst(root *html.Node, match func(*html.Node) bool) *html.Node {
	if root == nil {
		return nil
	}
	if root.Type == html.ElementNode && match(root) {
		return root
	}
	for c := root.FirstChild; c != nil; c = c.NextSibling {
		if found := FindFirst(c, match); found != nil {
			return found
		}
	}
	return nil
}

// Closest walks up from n, including n, to the first element matching match.
func Closest(n *html.Node, match func(*html.Node) bool) *html.Node {
	for cur := n; cur != nil; cur = cur.Parent {
		if cur.Type == html.ElementNode && match(cur) {
			return cur
		}
	}
	return nil
}

// Parse reads a full HTML document.
func Parse(r io.Reader) (*html.Node, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("markup: parse: %w", err)
	}
	return doc, nil
}

// ParseFragment parses src as body content and returns it under a detached
// div so callers get a single root.
func ParseFragment(src string) (*html.Node, error) {
	root := Element("div")
	nodes, err := html.ParseFragment(strings.NewReader(src), &html.Node{
		Type:     html.ElementNode,
		Data:     "body",
		DataAtom: atom.Body,
	})
	if err != nil {
		return nil, fmt.Errorf("markup: parse fragment: %w", err)
	}
	for _, n := range nodes {
		root.AppendChild(n)
	}
	return root, nil
}

// SetInnerHTML replaces the children of n with the parsed src.
func SetInnerHTML(n *html.Node, src string) error {
	fragment, err := ParseFragment(src)
	if err != nil {
		return err
	}
	Clear(n)
	for fragment.FirstChild != nil {
		child := fragment.FirstChild
		fragment.RemoveChild(child)
		n.AppendChild(child)
	}
	return nil
}

// SetText replaces the children of n with a single text node.
func SetText(n *html.Node, value string) {
	Clear(n)
	n.AppendChild(Text(value))
}

// InnerHTML renders the children of n.
func InnerHTML(n *html.Node) string {
	if n == nil {
		return ""
	}
	var buf bytes.Buffer
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		_ = html.Render(&buf, c)
	}
	return buf.String()
}

// TextContent concatenates the text below n.
func TextContent(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(cur *html.Node) {
		if cur.Type == html.TextNode {
			b.WriteString(cur.Data)
		}
		for c := cur.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	if n != nil {
		walk(n)
	}
	return b.String()
}

// Render serialises n and its subtree.
func Render(n *html.Node) (string, error) {
	if n == nil {
		return "", nil
	}
	var buf bytes.Buffer
	if err := html.Render(&buf, n); err != nil {
		return "", fmt.Errorf("markup: render: %w", err)
	}
	return buf.String(), nil
}
