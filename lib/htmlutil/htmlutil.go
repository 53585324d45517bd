package htmlutil

import (
	"bytes"
	"context"
	"net/url"
	"regexp"
	"strings"
	"unicode"

	"github.com/PuerkitoBio/goquery"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/net/html"
)

var tracer = otel.Tracer("godelterm.lib.htmlutil")

func GetText(node *html.Node) string {
	var buffer bytes.Buffer
	getTextRecursive(node, &buffer)
	return buffer.String()
}

func getTextRecursive(node *html.Node, buffer *bytes.Buffer) {
	if node == nil {
		return
	}
	if node.Type == html.TextNode {
		buffer.WriteString(node.Data)
		return
	}
	child := node.FirstChild
	for child != nil {
		getTextRecursive(child, buffer)
		child = child.NextSibling
	}
}

var innerWhitespace = regexp.MustCompile(`\s\s+`)

func removeNonPrintable(s string) string {
	newStr := strings.Builder{}
	for _, c := range s {
		if unicode.IsPrint(c) {
			newStr.WriteRune(c)
		}
	}
	return newStr.String()
}

// CleanText collapses inner whitespace and strips non-printable
// characters and surrounding space.
func CleanText(s string) string {
	s = removeNonPrintable(s)
	s = strings.Trim(s, " \t\n")
	return innerWhitespace.ReplaceAllString(s, " ")
}

type Anchor struct {
	Name string
	Href string
}

func GetAnchors(ctx context.Context, sel *goquery.Selection) []Anchor {
	ctx, span := tracer.Start(ctx, "GetAnchors")
	defer span.End()

	anchors := []Anchor{}
	for _, n := range sel.Nodes {
		href := ""
		for _, a := range n.Attr {
			if a.Key == "href" {
				href = a.Val
				break
			}
		}

		link, err := url.Parse(href)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "got error while parsing url")
			continue
		}

		name := CleanText(GetText(n))
		linkStr := link.String()
		anchors = append(anchors, Anchor{
			Name: name,
			Href: linkStr,
		})
		span.AddEvent("anchor", trace.WithAttributes(
			attribute.String("name", name),
			attribute.String("url", linkStr),
		))
	}

	return anchors
}

type Table struct {
	Headers []string
	Rows    [][]string
}

// ExtractTable reads a <table> element into headers and row cells.
// Header text comes from thead th (falling back to the first tr when
// there is no thead). Cell text prefers the innermost span since the
// terminal wraps formatted values in nested spans.
func ExtractTable(table *goquery.Selection) Table {
	var out Table

	head := table.Find("thead th")
	if head.Length() == 0 {
		head = table.Find("tr").First().Find("th, td")
	}
	head.Each(func(_ int, th *goquery.Selection) {
		out.Headers = append(out.Headers, CleanText(th.Text()))
	})

	body := table.Find("tbody tr")
	if body.Length() == 0 {
		if rows := table.Find("tr"); rows.Length() > 1 {
			body = rows.Slice(1, goquery.ToEnd)
		}
	}
	body.Each(func(_ int, tr *goquery.Selection) {
		var row []string
		tr.Find("td").Each(func(_ int, td *goquery.Selection) {
			row = append(row, CellText(td))
		})
		if len(row) > 0 {
			out.Rows = append(out.Rows, row)
		}
	})

	return out
}

// CellText returns the text of a table cell, preferring the innermost
// non-empty span over the cell's full text.
func CellText(cell *goquery.Selection) string {
	text := ""
	cell.Find("span").Each(func(_ int, span *goquery.Selection) {
		t := CleanText(span.Text())
		if t != "" {
			text = t
		}
	})
	if text != "" {
		return text
	}
	return CleanText(cell.Text())
}

// KeyValuePairs reads label/value span pairs out of row elements
// matched by rowSelector, e.g. the two-span flex rows the terminal
// uses for snapshot sections.
func KeyValuePairs(sel *goquery.Selection, rowSelector string) map[string]string {
	pairs := map[string]string{}
	sel.Find(rowSelector).Each(func(_ int, row *goquery.Selection) {
		spans := row.Find("span")
		if spans.Length() < 2 {
			return
		}
		key := CleanText(spans.First().Text())
		value := CleanText(spans.Last().Text())
		if key != "" {
			pairs[key] = value
		}
	})
	return pairs
}
