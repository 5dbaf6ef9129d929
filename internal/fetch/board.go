package fetch

import (
	"net/url"
	"strings"
)

// Board identifies a known applicant-tracking-system host family. Each board
// gets its own content and noise selectors because the markup differs enough
// that generic readability heuristics miss or over-collect.
type Board string

// Known boards.
const (
	BoardGreenhouse Board = "greenhouse"
	BoardLever      Board = "lever"
	BoardWorkday    Board = "workday"
	BoardGeneric    Board = "generic"
)

// DetectBoard identifies the job board family from the posting URL.
func DetectBoard(urlStr string) Board {
	parsed, err := url.Parse(urlStr)
	if err != nil {
		return BoardGeneric
	}
	host := strings.ToLower(parsed.Host)
	switch {
	case strings.Contains(host, "greenhouse.io"):
		return BoardGreenhouse
	case strings.Contains(host, "lever.co"):
		return BoardLever
	case strings.Contains(host, "workday.com") || strings.Contains(host, "myworkdayjobs.com"):
		return BoardWorkday
	default:
		return BoardGeneric
	}
}

// contentSelectors returns CSS selectors for the posting body, most specific
// first. The generic set covers unbranded career pages.
func (b Board) contentSelectors() []string {
	switch b {
	case BoardGreenhouse:
		return []string{
			".job__description.body",
			".job__description",
			"#content",
			".job-post-container",
		}
	case BoardLever:
		return []string{
			".posting-page",
			".posting-description",
			".content",
		}
	case BoardWorkday:
		return []string{
			"[data-automation-id='jobDescription']",
			".job-description",
		}
	default:
		return []string{
			".job-description",
			"#job-description",
			".posting-content",
			".job-details",
			"[data-testid='job-description']",
			"main",
			"article",
			".content",
			"#content",
		}
	}
}

// noiseSelectors returns elements to strip before text extraction:
// application forms, EEO and legal boilerplate, social widgets.
func (b Board) noiseSelectors() []string {
	common := []string{
		"form",
		".application-form",
		"[data-testid='application-form']",
		".voluntary-disclosure",
		".eeo-statement",
		".legal-disclosure",
		".self-identification",
		".social-share",
		".share-buttons",
		".cookie-consent",
		".gdpr-notice",
	}
	switch b {
	case BoardGreenhouse:
		return append(common, ".application--wrapper", ".voluntary-self-id", ".post-apply")
	case BoardLever:
		return append(common, ".apply-section", ".posting-apply")
	case BoardWorkday:
		return append(common, "[data-automation-id='applyButton']", ".application-section")
	default:
		return common
	}
}
