// Package scraper implements the search-results scraping engine and its
// headless browser session.
package scraper

import (
	"regexp"
	"strings"

	"github.com/outflo/outreach-service/internal/outreach"
)

// profileURLMarker distinguishes people profiles from company and school
// links on a results page.
const profileURLMarker = "linkedin.com/in/"

// currentRoleRe parses the "Current: <job title> at <company>" summary line
// shown under each search result. A trailing " - ..." segment is ignored.
var currentRoleRe = regexp.MustCompile(`^Current:\s*(.*?)\s+at\s+(.*?)(?:\s*-\s*|$)`)

// CanonicalProfileURL strips the query string so the same profile reached
// through different search contexts dedups to one key.
func CanonicalProfileURL(link string) string {
	if i := strings.IndexByte(link, '?'); i >= 0 {
		link = link[:i]
	}
	return link
}

// ParseCurrentRole extracts the job title and company from a result summary.
func ParseCurrentRole(summary string) (jobTitle, company string, ok bool) {
	m := currentRoleRe.FindStringSubmatch(summary)
	if m == nil {
		return "", "", false
	}
	jobTitle = strings.TrimSpace(m[1])
	company = strings.TrimSpace(m[2])
	if jobTitle == "" || company == "" {
		return "", "", false
	}
	return jobTitle, company, true
}

// ProfileFromCandidate validates a raw candidate and shapes it into a
// Profile. It reports false for candidates that must be discarded: missing
// full name, a link that is not a people-profile URL, or a summary the role
// pattern cannot parse. ScrapedAt is left for the caller to stamp.
func ProfileFromCandidate(c outreach.Candidate) (outreach.Profile, bool) {
	fullName := strings.TrimSpace(c.FullName)
	if fullName == "" {
		return outreach.Profile{}, false
	}
	link := strings.TrimSpace(c.ProfileLink)
	if !strings.Contains(link, profileURLMarker) {
		return outreach.Profile{}, false
	}
	jobTitle, company, ok := ParseCurrentRole(strings.TrimSpace(c.CurrentRole))
	if !ok {
		return outreach.Profile{}, false
	}
	return outreach.Profile{
		FullName:   fullName,
		JobTitle:   jobTitle,
		Company:    company,
		Location:   strings.TrimSpace(c.Location),
		ProfileURL: CanonicalProfileURL(link),
	}, true
}
