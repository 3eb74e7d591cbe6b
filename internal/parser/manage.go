// Package parser extracts orders and queue membership from the portal's
// browser-rendered HTML tables.
package parser

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/shopmetrics/ybscontrol/internal/domain/models"
)

// portalTimeLayout is the MM/DD/YY HH:MM format the portal renders step
// timestamps in.
const portalTimeLayout = "01/02/06 15:04"

var (
	hasDigit      = regexp.MustCompile(`\d`)
	hasLetter     = regexp.MustCompile(`[A-Za-z]`)
	leadingDigits = regexp.MustCompile(`^\d+`)
	jobToken      = regexp.MustCompile(`[A-Za-z0-9_-]*\d+[A-Za-z0-9_-]*`)
)

// ParseOrders parses the manage page into orders. Rows whose first cell
// carries no job number are skipped; steps without a rendered timestamp get
// a nil Timestamp but stay in the list so pairwise lead-time math keeps its
// predecessors straight.
func ParseOrders(html string) ([]models.Order, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parse orders page: %w", err)
	}

	var orders []models.Order
	doc.Find("tbody#table tr").Each(func(_ int, tr *goquery.Selection) {
		tds := tr.Find("td")
		if tds.Length() == 0 {
			return
		}

		number, company := orderIdentity(tds)
		if number == "" {
			return
		}

		status := ""
		if tds.Length() > 2 {
			status = strings.TrimSpace(tds.Eq(2).Text())
		}
		priority := ""
		if tds.Length() > 4 {
			priorityCell := tds.Eq(4)
			if input := priorityCell.Find("input"); input.Length() > 0 {
				priority, _ = input.Attr("value")
			} else {
				priority = strings.TrimSpace(priorityCell.Text())
			}
		}

		orders = append(orders, models.Order{
			Number:   number,
			Company:  company,
			Status:   status,
			Priority: priority,
			Steps:    parseSteps(tr),
		})
	})
	return orders, nil
}

// orderIdentity pulls the job number and company out of the row's leading
// cells. The number is the last whitespace token containing a digit, with
// stray punctuation trimmed off; the company is the first remaining text
// with a letter, falling back to the second cell.
func orderIdentity(tds *goquery.Selection) (number, company string) {
	for _, part := range strippedStrings(tds.Eq(0)) {
		if number == "" && hasDigit.MatchString(part) {
			number = extractJobNumber(part)
			continue
		}
		if company == "" && hasLetter.MatchString(part) {
			company = part
		}
	}
	if company == "" && tds.Length() > 1 {
		parts := strippedStrings(tds.Eq(1))
		if len(parts) > 0 {
			company = parts[0]
		}
	}
	return number, company
}

// extractJobNumber returns the job number token inside text, or "" when no
// token contains a digit. Handles trailing punctuation ("YBS 1002.") and
// surrounding words ("Order 1003 extra").
func extractJobNumber(text string) string {
	fields := strings.Fields(text)
	for i := len(fields) - 1; i >= 0; i-- {
		if !hasDigit.MatchString(fields[i]) {
			continue
		}
		if token := jobToken.FindString(fields[i]); token != "" {
			return token
		}
	}
	return ""
}

func parseSteps(tr *goquery.Selection) []models.Step {
	var steps []models.Step
	tr.Find("ul.workplaces li").Each(func(_ int, li *goquery.Selection) {
		nameP := li.Find("p").First()
		if nameP.Length() == 0 {
			return
		}
		// The step label is prefixed with its position digit from the
		// status circle span.
		name := leadingDigits.ReplaceAllString(strings.TrimSpace(nameP.Text()), "")

		var ts *time.Time
		text := strings.TrimSpace(strings.ReplaceAll(li.Find("p.np").Text(), "\u00a0", ""))
		if text != "" {
			if parsed, err := time.Parse(portalTimeLayout, text); err == nil {
				ts = &parsed
			}
		}
		steps = append(steps, models.Step{Name: strings.TrimSpace(name), Timestamp: ts})
	})
	return steps
}

// ParseQueue returns the set of job numbers currently listed on the queue
// page.
func ParseQueue(html string) (map[string]struct{}, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parse queue page: %w", err)
	}

	current := make(map[string]struct{})
	doc.Find("tbody tr").Each(func(_ int, tr *goquery.Selection) {
		text := strings.Join(strings.Fields(tr.Text()), " ")
		if match := jobToken.FindString(text); match != "" {
			current[match] = struct{}{}
		}
	})
	return current, nil
}

// strippedStrings collects the trimmed, non-empty text nodes under sel in
// document order.
func strippedStrings(sel *goquery.Selection) []string {
	var out []string
	sel.Contents().Each(func(_ int, s *goquery.Selection) {
		if goquery.NodeName(s) == "#text" {
			if t := strings.TrimSpace(s.Text()); t != "" {
				out = append(out, t)
			}
			return
		}
		out = append(out, strippedStrings(s)...)
	})
	return out
}
