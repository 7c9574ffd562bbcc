// Package parse turns the league's raw feeds into canonical records: the
// game-center JSON into API events, and the RO/PL/TH/TV reports into HTML
// events, rosters, shifts, and changes. Parsers are pure functions over
// fetched bytes so they can be exercised against fixture files.
package parse

import (
	"bytes"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/net/html"
)

// parseDoc parses an HTML report into a node tree.
func parseDoc(data []byte) (*html.Node, error) {
	doc, err := html.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	return doc, nil
}

// findAll walks the tree depth-first collecting nodes that satisfy pred.
func findAll(n *html.Node, pred func(*html.Node) bool) []*html.Node {
	var out []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if pred(n) {
			out = append(out, n)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return out
}

// isElement reports whether n is an element with the given tag name.
func isElement(n *html.Node, tag string) bool {
	return n.Type == html.ElementNode && n.Data == tag
}

// attrVal returns the value of the named attribute, or "".
func attrVal(n *html.Node, name string) string {
	for _, a := range n.Attr {
		if a.Key == name {
			return a.Val
		}
	}
	return ""
}

// nodeText collects all descendant text of n. <br> elements become newlines
// so callers can split multi-line cells.
func nodeText(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		switch {
		case n.Type == html.TextNode:
			sb.WriteString(n.Data)
		case isElement(n, "br"):
			sb.WriteByte('\n')
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return sb.String()
}

// rowCells returns the cleaned text of a row's direct td children. The
// on-ice columns of the plays report nest whole tables inside a cell, so
// only direct children count as cells.
func rowCells(tr *html.Node) []string {
	var cells []string
	for c := tr.FirstChild; c != nil; c = c.NextSibling {
		if isElement(c, "td") || isElement(c, "th") {
			cells = append(cells, cleanCell(nodeText(c)))
		}
	}
	return cells
}

// cleanCell normalizes whitespace within a cell, preserving line breaks.
var nbsp = string(rune(0xa0))

func cleanCell(s string) string {
	s = strings.ReplaceAll(s, nbsp, " ")
	lines := strings.Split(s, "\n")
	out := lines[:0]
	for _, ln := range lines {
		ln = strings.Join(strings.Fields(ln), " ")
		if ln != "" {
			out = append(out, ln)
		}
	}
	return strings.Join(out, "\n")
}

// hasBold reports whether the node or any descendant carries bold styling,
// either via a class containing "bold" or a <b> element. The roster report
// marks starters this way.
func hasBold(n *html.Node) bool {
	if n.Type == html.ElementNode {
		if n.Data == "b" {
			return true
		}
		if strings.Contains(attrVal(n, "class"), "bold") {
			return true
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if hasBold(c) {
			return true
		}
	}
	return false
}

// clockRE matches a mm:ss clock reading.
var clockRE = regexp.MustCompile(`(\d+):(\d{2})`)

// clockSeconds converts the first mm:ss in s to seconds.
func clockSeconds(s string) (int, error) {
	m := clockRE.FindStringSubmatch(s)
	if m == nil {
		return 0, fmt.Errorf("no clock reading in %q", s)
	}
	mins, _ := strconv.Atoi(m[1])
	secs, _ := strconv.Atoi(m[2])
	return mins*60 + secs, nil
}

// atoi is a forgiving Atoi for report cells.
func atoi(s string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	return n, err == nil
}
