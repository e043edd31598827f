package sheet

import (
	"bytes"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/saintfish/chardet"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
	"golang.org/x/net/html/charset"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/transform"
)

var bomUTF8 = []byte{0xEF, 0xBB, 0xBF}

// wideCharsets are the detector results trusted over the Windows-1251
// default. Single-byte Cyrillic guesses on short pages are unreliable.
var wideCharsets = map[string]bool{
	"UTF-16LE": true,
	"UTF-16BE": true,
}

// LooksLikeHTML reports whether data is an HTML page rather than a binary workbook.
func LooksLikeHTML(data []byte) bool {
	head := bytes.ToLower(data[:min(len(data), 4096)])
	return bytes.Contains(head, []byte("<html")) || bytes.Contains(head, []byte("<table"))
}

// readHTML turns each <table> of an HTML export into one sheet named
// Sheet1, Sheet2 and so on.
func readHTML(data []byte) ([]*Sheet, error) {
	if !LooksLikeHTML(data) {
		return nil, ErrNotHTML
	}
	text, err := decodeHTML(data)
	if err != nil {
		return nil, err
	}
	doc, err := html.Parse(bytes.NewReader(text))
	if err != nil {
		return nil, fmt.Errorf("parsing html: %w", err)
	}

	var sheets []*Sheet
	for _, table := range findAll(doc, atom.Table) {
		var grid [][]any
		for _, tr := range rowsOf(table) {
			var row []any
			for c := tr.FirstChild; c != nil; c = c.NextSibling {
				if c.Type == html.ElementNode && (c.DataAtom == atom.Td || c.DataAtom == atom.Th) {
					if s := cellText(c); s != "" {
						row = append(row, s)
					} else {
						row = append(row, nil)
					}
				}
			}
			grid = append(grid, row)
		}
		sheets = append(sheets, New(fmt.Sprintf("Sheet%d", len(sheets)+1), grid))
	}
	if len(sheets) == 0 {
		return nil, ErrNoTables
	}
	return sheets, nil
}

// decodeHTML converts data to UTF-8. Kazakh bank exports without a declared
// charset are almost always Windows-1251.
func decodeHTML(data []byte) ([]byte, error) {
	if bytes.HasPrefix(data, bomUTF8) {
		return data[len(bomUTF8):], nil
	}
	if utf8.Valid(data) {
		return data, nil
	}

	var enc encoding.Encoding = charmap.Windows1251
	if e, _, certain := charset.DetermineEncoding(data, "text/html"); certain {
		enc = e
	} else if res, err := chardet.NewHtmlDetector().DetectBest(data); err == nil && wideCharsets[res.Charset] {
		if e, err := htmlindex.Get(res.Charset); err == nil {
			enc = e
		}
	}

	out, _, err := transform.Bytes(enc.NewDecoder(), data)
	if err != nil {
		return nil, fmt.Errorf("decoding html: %w", err)
	}
	return out, nil
}

// findAll collects elements of type a in document order, nested ones included.
func findAll(n *html.Node, a atom.Atom) []*html.Node {
	var out []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.DataAtom == a {
			out = append(out, n)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return out
}

// rowsOf returns the <tr> elements of table, skipping those of nested tables.
func rowsOf(table *html.Node) []*html.Node {
	var rows []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type != html.ElementNode {
				continue
			}
			switch c.DataAtom {
			case atom.Tr:
				rows = append(rows, c)
			case atom.Table:
			default:
				walk(c)
			}
		}
	}
	walk(table)
	return rows
}

func cellText(n *html.Node) string {
	var parts []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			if s := strings.TrimSpace(n.Data); s != "" {
				parts = append(parts, s)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.Join(strings.Fields(strings.Join(parts, " ")), " ")
}
