package rerank

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"SearchRerank/internal/domain"
)

// Rule names a quality check.
type Rule string

const (
	RuleBlacklist        Rule = "blacklist"
	RuleIPHost           Rule = "ip_host"
	RuleTrackingParams   Rule = "tracking_params"
	RuleSuspiciousDomain Rule = "suspicious_domain"
	RuleTitleLength      Rule = "title_length"
	RuleShortSnippet     Rule = "short_snippet"
	RuleTitleEcho        Rule = "title_echo"
	RuleAdPhrase         Rule = "ad_phrase"
)

const (
	minTitleLen       = 5
	maxTitleLen       = 150
	minSnippetLen     = 15
	maxTrackingParams = 3
	maxTitleEcho      = 0.9
)

var (
	ipv4Host          = regexp.MustCompile(`^\d{1,3}\.\d{1,3}\.\d{1,3}\.\d{1,3}`)
	suspiciousDomains = []*regexp.Regexp{
		regexp.MustCompile(`\d{5,}`),
		regexp.MustCompile(`[a-z]{20,}`),
		regexp.MustCompile(`[-_]{2,}`),
	}
)

// Reason explains why a result was dropped. It is diagnostic only.
type Reason struct {
	Rule   Rule
	Detail string
}

func (r Reason) String() string {
	if r.Detail == "" {
		return string(r.Rule)
	}
	return fmt.Sprintf("%s: %s", r.Rule, r.Detail)
}

// QualityFilter rejects advertising, spam and thin results before scoring.
type QualityFilter struct {
	blacklist []string
	adPhrases []string
}

// NewQualityFilter lower-cases the configured blacklist and ad phrases.
func NewQualityFilter(lists Lists) *QualityFilter {
	return &QualityFilter{
		blacklist: lowerAll(lists.Blacklist),
		adPhrases: lowerAll(lists.AdPhrases),
	}
}

// ShouldDrop runs the rules in order and stops at the first that matches.
func (f *QualityFilter) ShouldDrop(r domain.RawResult, kw Keywords) (bool, Reason) {
	title := strings.ToLower(r.Title)
	snippet := strings.ToLower(r.Snippet)
	rawURL := strings.ToLower(r.URL)
	text := title + " " + snippet

	for _, term := range f.blacklist {
		if kw.Has(term) {
			continue
		}
		if strings.Contains(text, term) {
			return true, Reason{Rule: RuleBlacklist, Detail: fmt.Sprintf("term %q", term)}
		}
	}

	host := domain.Authority(rawURL)
	if ipv4Host.MatchString(host) {
		return true, Reason{Rule: RuleIPHost, Detail: host}
	}

	if n := strings.Count(rawURL, "utm_"); n > maxTrackingParams {
		return true, Reason{Rule: RuleTrackingParams, Detail: fmt.Sprintf("%d utm_ parameters", n)}
	}

	for _, pattern := range suspiciousDomains {
		if pattern.MatchString(host) {
			return true, Reason{Rule: RuleSuspiciousDomain, Detail: fmt.Sprintf("%s matches %s", host, pattern)}
		}
	}

	titleLen := utf8.RuneCountInString(r.Title)
	if titleLen < minTitleLen || titleLen > maxTitleLen {
		return true, Reason{Rule: RuleTitleLength, Detail: fmt.Sprintf("%d characters", titleLen)}
	}

	if n := utf8.RuneCountInString(snippet); n < minSnippetLen {
		return true, Reason{Rule: RuleShortSnippet, Detail: fmt.Sprintf("%d characters", n)}
	}

	if sim := Similarity(title, snippet); sim > maxTitleEcho {
		return true, Reason{Rule: RuleTitleEcho, Detail: fmt.Sprintf("similarity %.3f", sim)}
	}

	for _, phrase := range f.adPhrases {
		if strings.Contains(text, phrase) && !kw.Has(phrase) {
			return true, Reason{Rule: RuleAdPhrase, Detail: fmt.Sprintf("phrase %q", phrase)}
		}
	}

	return false, Reason{}
}
