package funpay

import (
	"bytes"
	"strings"

	"golang.org/x/net/html"
)

func parseHTML(body []byte) (*html.Node, error) {
	return html.Parse(bytes.NewReader(body))
}

func parseFragment(fragment string) (*html.Node, error) {
	return html.Parse(strings.NewReader("<html><body>" + fragment + "</body></html>"))
}

func attr(n *html.Node, key string) (string, bool) {
	if n == nil {
		return "", false
	}
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

func hasClass(n *html.Node, class string) bool {
	value, ok := attr(n, "class")
	if !ok {
		return false
	}
	for _, c := range strings.Fields(value) {
		if c == class {
			return true
		}
	}
	return false
}

func element(tag string, classes ...string) func(*html.Node) bool {
	return func(n *html.Node) bool {
		if n.Type != html.ElementNode || (tag != "" && n.Data != tag) {
			return false
		}
		for _, class := range classes {
			if !hasClass(n, class) {
				return false
			}
		}
		return true
	}
}

// find returns the first descendant of n matching match, depth first.
func find(n *html.Node, match func(*html.Node) bool) *html.Node {
	if n == nil {
		return nil
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if match(c) {
			return c
		}
		if found := find(c, match); found != nil {
			return found
		}
	}
	return nil
}

func findAll(n *html.Node, match func(*html.Node) bool) []*html.Node {
	var result []*html.Node
	var walk func(*html.Node)
	walk = func(node *html.Node) {
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			if match(c) {
				result = append(result, c)
				continue
			}
			walk(c)
		}
	}
	if n != nil {
		walk(n)
	}
	return result
}

// text concatenates all text below n; <br> becomes a newline.
func text(n *html.Node) string {
	if n == nil {
		return ""
	}
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(node *html.Node) {
		switch {
		case node.Type == html.TextNode:
			sb.WriteString(node.Data)
		case node.Type == html.ElementNode && node.Data == "br":
			sb.WriteByte('\n')
		}
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return sb.String()
}
