// Package goquery implements jobsift.Parser with CSS selector rules.
package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	"github.com/fwojciec/jobsift"
)

var _ jobsift.Parser = (*Parser)(nil)

type field struct {
	Field
	matcher goquery.Matcher
}

// Parser extracts posting fields for one site using its Rule.
// Parser is safe for concurrent use.
type Parser struct {
	site        jobsift.Site
	company     field
	title       field
	description field
}

// NewParser compiles the rule's selectors.
// Returns EINVALID if any selector does not compile.
func NewParser(rule Rule) (*Parser, error) {
	p := &Parser{site: rule.Site}
	targets := []struct {
		name string
		src  Field
		dst  *field
	}{
		{"company", rule.Company, &p.company},
		{"title", rule.Title, &p.title},
		{"description", rule.Description, &p.description},
	}
	for _, t := range targets {
		sel, err := cascadia.Compile(t.src.Selector)
		if err != nil {
			return nil, jobsift.Errorf(jobsift.EINVALID, "%s %s selector %q: %v", rule.Site, t.name, t.src.Selector, err)
		}
		*t.dst = field{Field: t.src, matcher: sel}
	}
	return p, nil
}

// NewParsers compiles a parser for every rule in Rules.
func NewParsers() ([]*Parser, error) {
	parsers := make([]*Parser, 0, len(Rules))
	for _, rule := range Rules {
		p, err := NewParser(rule)
		if err != nil {
			return nil, err
		}
		parsers = append(parsers, p)
	}
	return parsers, nil
}

// Site returns the board this parser understands.
func (p *Parser) Site() jobsift.Site {
	return p.site
}

// Parse extracts company, title and description from html.
// Any panic raised while walking the document is recovered and reported as
// an error alongside an all-null posting.
func (p *Parser) Parse(html string) (posting *jobsift.Posting, err error) {
	defer func() {
		if r := recover(); r != nil {
			posting = &jobsift.Posting{}
			err = jobsift.Errorf(jobsift.EINTERNAL, "parsing %s page: %v", p.site, r)
		}
	}()

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return &jobsift.Posting{}, jobsift.Errorf(jobsift.EINVALID, "failed to parse HTML: %v", err)
	}

	return &jobsift.Posting{
		Company:     p.company.extract(doc.Selection),
		Title:       p.title.extract(doc.Selection),
		Description: p.description.extract(doc.Selection),
	}, nil
}

// extract returns the field's normalized text, or nil when no node matches.
func (f field) extract(sel *goquery.Selection) *string {
	match := sel.FindMatcher(f.matcher).First()
	if match.Length() == 0 {
		return nil
	}

	node := match.Get(0)
	var text string
	if f.Block {
		text = blockText(node)
	} else {
		text = inlineText(node)
	}
	text = applySplit(text, f.Split)
	return &text
}
