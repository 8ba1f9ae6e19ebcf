package scrape

import (
	"bytes"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/rotisserie/eris"

	"github.com/vishnuk/fuelwatch/internal/model"
)

// Candidates holds the raw field candidates extracted from a fuel center
// page before validation or parsing.
type Candidates struct {
	AddressText string
	Prices      map[model.FuelType]string
}

// Extractor turns raw page bytes into field candidates.
type Extractor interface {
	Extract(body []byte) (*Candidates, error)
}

// HTMLExtractor extracts candidates from club pages via goquery. Selector
// order matters: the fuel price cards use utility-class markup that has been
// stable across site redesigns, with looser fallbacks behind it.
type HTMLExtractor struct{}

// NewHTMLExtractor creates the default page extractor.
func NewHTMLExtractor() *HTMLExtractor { return &HTMLExtractor{} }

var (
	addressRe   = regexp.MustCompile(`[A-Z][a-z]+(?:[\s,]+[A-Z][a-z]+)*,\s*[A-Z]{2}\s+\d{5}(?:-\d{4})?`)
	dollarRe    = regexp.MustCompile(`\$[\d,]+\.\d{2,3}`)
	priceCardCS = "div.pa3.br3.flex-grow-1"
)

// Extract parses a fuel center page into an address candidate and per-grade
// price text. An absent address or empty price map is not an error; the
// caller decides how to degrade.
func (e *HTMLExtractor) Extract(body []byte) (*Candidates, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, eris.Wrap(err, "extract: parse html")
	}

	c := &Candidates{Prices: make(map[model.FuelType]string)}
	c.AddressText = extractAddress(doc)

	doc.Find(priceCardCS).Each(func(_ int, card *goquery.Selection) {
		label := strings.TrimSpace(card.Find("div.tc.f6.fw4.lh-title").First().Text())
		price := strings.TrimSpace(card.Find("div.flex.items-center.justify-center.f2.fw5").First().Text())
		addPrice(c.Prices, label, price)
	})

	if len(c.Prices) == 0 {
		e.extractFallback(doc, c)
	}

	return c, nil
}

// extractFallback tries looser selectors, then a raw dollar-amount sweep.
func (e *HTMLExtractor) extractFallback(doc *goquery.Document, c *Candidates) {
	doc.Find(`div[class*='pa3'][class*='br3']`).Each(func(_ int, card *goquery.Selection) {
		label := strings.TrimSpace(card.Find(`[class*='tc'][class*='f6']`).First().Text())
		price := strings.TrimSpace(card.Find(`[class*='f2'][class*='fw5']`).First().Text())
		addPrice(c.Prices, label, price)
	})
	if len(c.Prices) > 0 {
		return
	}

	// Last resort: pair known grade names with nearby dollar amounts in the
	// page text.
	text := doc.Text()
	for _, fuel := range model.TrackedFuelTypes() {
		idx := strings.Index(text, string(fuel))
		if idx < 0 {
			continue
		}
		tail := text[idx:]
		if len(tail) > 200 {
			tail = tail[:200]
		}
		if m := dollarRe.FindString(tail); m != "" {
			c.Prices[fuel] = m
		}
	}
}

func extractAddress(doc *goquery.Document) string {
	for _, sel := range []string{
		"address",
		`[data-testid*='address']`,
		".club-address",
		".address",
		`[class*='address']`,
	} {
		if s := strings.TrimSpace(doc.Find(sel).First().Text()); s != "" {
			return s
		}
	}
	// Unstructured fallback: look for "City, ST 12345" in the page text.
	return addressRe.FindString(doc.Text())
}

func addPrice(prices map[model.FuelType]string, label, price string) {
	if label == "" || price == "" {
		return
	}
	fuel, ok := canonicalFuel(label)
	if !ok {
		return
	}
	if _, seen := prices[fuel]; !seen {
		prices[fuel] = price
	}
}

// canonicalFuel maps a card label to a tracked grade. Labels the catalog
// does not track (e.g. "Mid-grade") are dropped.
func canonicalFuel(label string) (model.FuelType, bool) {
	lower := strings.ToLower(label)
	switch {
	case strings.Contains(lower, "regular") || strings.Contains(lower, "unleaded"):
		return model.FuelRegular, true
	case strings.Contains(lower, "premium"):
		return model.FuelPremium, true
	case strings.Contains(lower, "diesel"):
		return model.FuelDiesel, true
	}
	return "", false
}
