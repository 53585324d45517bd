package des

import (
	"regexp"
	"strings"

	"godelterm/lib/htmlutil"

	"github.com/PuerkitoBio/goquery"
)

type Company struct {
	Name string `json:"name"`
	// exchange / asset class badge next to the company name
	Badge   string   `json:"badge,omitempty"`
	LogoUrl string   `json:"logo_url,omitempty"`
	Website string   `json:"website,omitempty"`
	Address []string `json:"address,omitempty"`
	Ceo     string   `json:"ceo,omitempty"`
}

type AnalystRating struct {
	Firm    string `json:"firm"`
	Analyst string `json:"analyst"`
	Rating  string `json:"rating"`
	Target  string `json:"target"`
	Date    string `json:"date"`
}

type Security struct {
	Ticker      string `json:"ticker"`
	Company     Company `json:"company"`
	Description string `json:"description,omitempty"`
	// "<quarter>, <date>" -> estimated eps, e.g. "Q4, Dec 25" -> "-0.85"
	EpsEstimates   map[string]string `json:"eps_estimates,omitempty"`
	AnalystRatings []AnalystRating   `json:"analyst_ratings,omitempty"`
	// section -> field -> value
	Snapshot map[string]map[string]string `json:"snapshot,omitempty"`
}

func ParseSecurity(doc *goquery.Document) Security {
	return Security{
		Ticker:         parseTicker(doc),
		Company:        parseCompany(doc),
		Description:    parseDescription(doc),
		EpsEstimates:   parseEpsEstimates(doc),
		AnalystRatings: parseAnalystRatings(doc),
		Snapshot:       parseSnapshot(doc),
	}
}

func parseTicker(doc *goquery.Document) string {
	ticker, _ := doc.Find("input.uppercase").First().Attr("value")
	return strings.ToUpper(strings.TrimSpace(ticker))
}

var backgroundUrlRegex = regexp.MustCompile(`url\(["']?(.+?)["']?\)`)

func parseCompany(doc *goquery.Document) Company {
	var company Company

	header := doc.Find("h1.text-2xl.font-semibold").First()
	badge := header.Find("span.blue-box")
	company.Badge = htmlutil.CleanText(badge.Text())
	name := htmlutil.CleanText(header.Text())
	if company.Badge != "" {
		name = htmlutil.CleanText(strings.ReplaceAll(name, company.Badge, ""))
	}
	company.Name = name

	logo := doc.Find("div.w-16.h-16").First()
	if style, ok := logo.Attr("style"); ok {
		groups := backgroundUrlRegex.FindStringSubmatch(style)
		if len(groups) >= 2 {
			company.LogoUrl = groups[1]
		}
	}

	if href, ok := doc.Find("a[href][target='_blank']").First().Attr("href"); ok {
		company.Website = href
	}

	// the address block is the right-aligned uppercase column, its
	// last line is the chief executive
	contact := doc.Find("div.text-right.uppercase").First()
	if contact.Length() > 0 {
		var lines []string
		for _, line := range strings.Split(contact.Text(), "\n") {
			line = htmlutil.CleanText(line)
			if line != "" {
				lines = append(lines, line)
			}
		}
		if len(lines) > 1 {
			company.Address = lines[:len(lines)-1]
			company.Ceo = lines[len(lines)-1]
		} else if len(lines) == 1 {
			company.Address = lines
		}
	}

	return company
}

// the long-form business summary is styled with this exact text color
const descriptionColor = "rgb(234, 234, 234)"

func parseDescription(doc *goquery.Document) string {
	description := ""
	doc.Find("div").EachWithBreak(func(_ int, div *goquery.Selection) bool {
		style, ok := div.Attr("style")
		if !ok || !strings.Contains(style, descriptionColor) {
			return true
		}
		text := htmlutil.CleanText(div.Text())
		if len(text) <= 100 {
			return true
		}
		text = strings.TrimSuffix(text, "See more")
		text = strings.TrimSuffix(text, "See less")
		description = strings.TrimSpace(text)
		return false
	})
	return description
}

func parseEpsEstimates(doc *goquery.Document) map[string]string {
	table := tableAfterLabel(doc, "EPS ESTIMATES")
	if table == nil {
		return nil
	}

	parsed := htmlutil.ExtractTable(table)
	var dates, eps []string
	for _, row := range parsed.Rows {
		if len(row) < 2 {
			continue
		}
		switch strings.ToUpper(row[0]) {
		case "DATE":
			dates = row[1:]
		case "EPS":
			eps = row[1:]
		}
	}
	if len(eps) == 0 {
		return nil
	}

	// headers hold quarter labels, the first column is the row label
	quarters := parsed.Headers
	if len(quarters) > 0 {
		quarters = quarters[1:]
	}

	estimates := map[string]string{}
	for i, value := range eps {
		if i >= len(quarters) {
			break
		}
		key := quarters[i]
		if i < len(dates) && dates[i] != "" {
			key = key + ", " + dates[i]
		}
		estimates[key] = value
	}
	return estimates
}

func parseAnalystRatings(doc *goquery.Document) []AnalystRating {
	var ratings []AnalystRating
	doc.Find("table").EachWithBreak(func(_ int, table *goquery.Selection) bool {
		parsed := htmlutil.ExtractTable(table)
		if len(parsed.Headers) < 5 {
			return true
		}
		if !strings.EqualFold(parsed.Headers[0], "Firm") {
			return true
		}
		for _, row := range parsed.Rows {
			if len(row) < 5 {
				continue
			}
			ratings = append(ratings, AnalystRating{
				Firm:    row[0],
				Analyst: row[1],
				Rating:  row[2],
				Target:  row[3],
				Date:    row[4],
			})
		}
		return false
	})
	return ratings
}

func parseSnapshot(doc *goquery.Document) map[string]map[string]string {
	var container *goquery.Selection
	doc.Find("div").EachWithBreak(func(_ int, div *goquery.Selection) bool {
		if htmlutil.CleanText(div.Children().First().Text()) == "SNAPSHOT" ||
			strings.HasPrefix(htmlutil.CleanText(div.Text()), "SNAPSHOT") {
			container = div
			return false
		}
		return true
	})
	if container == nil {
		return nil
	}

	snapshot := map[string]map[string]string{}
	container.Find("div.mt-2").Each(func(_ int, section *goquery.Selection) {
		title := htmlutil.CleanText(section.Children().First().Text())
		pairs := htmlutil.KeyValuePairs(section, "div.flex.justify-between.text-sm")
		if len(pairs) == 0 {
			return
		}
		if title == "" {
			title = "General"
		}
		snapshot[title] = pairs
	})
	if len(snapshot) == 0 {
		return nil
	}
	return snapshot
}

// tableAfterLabel finds the first <table> following the element whose
// text is exactly the given label.
func tableAfterLabel(doc *goquery.Document, label string) *goquery.Selection {
	var table *goquery.Selection
	doc.Find("span, div").EachWithBreak(func(_ int, el *goquery.Selection) bool {
		if htmlutil.CleanText(el.Text()) != label {
			return true
		}
		candidate := el.NextAllFiltered("table").First()
		if candidate.Length() == 0 {
			candidate = el.Parent().Find("table").First()
		}
		if candidate.Length() > 0 {
			table = candidate
			return false
		}
		return true
	})
	return table
}
