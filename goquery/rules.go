package goquery

import "github.com/fwojciec/jobsift"

// Split trims trailing tokens a site renders next to a field's value.
// The field text is split on Sep and the part at Index is kept.
type Split struct {
	Sep   string
	Index int
}

// Field describes how to select and normalize one posting field.
type Field struct {
	// Selector is a CSS selector; the first match in document order is used.
	Selector string

	// Block joins the node's text segments with "\n" instead of
	// collapsing them onto one line.
	Block bool

	// Split, if set, is applied to the normalized text.
	Split *Split
}

// Rule holds the selectors for one site. Adding a site means adding a Rule;
// the parser has no per-site logic.
type Rule struct {
	Site        jobsift.Site
	Company     Field
	Title       Field
	Description Field
}

// firstSegment keeps the first line of block text. Boards render ratings,
// badges and "- job post" suffixes as separate text nodes after the value.
var firstSegment = &Split{Sep: "\n", Index: 0}

// Rules lists the built-in site rules.
var Rules = []Rule{
	{
		Site: jobsift.SiteLinkedIn,
		Company: Field{
			Selector: "a.topcard__org-name-link, span.topcard__flavor a, [class*='topcard__org-name']",
		},
		Title: Field{
			Selector: "h1[class*='top-card-layout__title']",
		},
		Description: Field{
			Selector: "div[class*='description__text description__text--rich'] section div[class*='show-more-less-html__markup']",
			Block:    true,
		},
	},
	{
		Site: jobsift.SiteIndeed,
		Company: Field{
			Selector: "div[data-company-name='true'], [data-testid='inlineHeader-companyName']",
			Block:    true,
			Split:    firstSegment,
		},
		Title: Field{
			Selector: "div[class*='jobsearch-JobInfoHeader-title-container']",
			Block:    true,
			Split:    firstSegment,
		},
		Description: Field{
			Selector: "div#jobDescriptionText",
			Block:    true,
		},
	},
	{
		Site: jobsift.SiteGlassdoor,
		Company: Field{
			Selector: "[data-test='employer-name'], div[class*='EmployerProfile_employerName']",
			Block:    true,
			Split:    firstSegment,
		},
		Title: Field{
			Selector: "h1[id^='jd-job-title'], [data-test='job-title']",
		},
		Description: Field{
			Selector: "div[class*='JobDetails_jobDescription']",
			Block:    true,
		},
	},
}

// RuleFor returns the built-in rule for site.
func RuleFor(site jobsift.Site) (Rule, bool) {
	for _, r := range Rules {
		if r.Site == site {
			return r, true
		}
	}
	return Rule{}, false
}
