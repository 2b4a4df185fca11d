package rerank

import "strings"

// Lists holds the term lists consulted by the quality filter and the
// relevance scorer. Matching is case-insensitive substring matching.
type Lists struct {
	// Blacklist terms drop a result whose title or snippet contains them,
	// unless the query itself carries the term.
	Blacklist []string `yaml:"blacklist"`
	// AdPhrases are call-to-action phrases typical of landing pages.
	AdPhrases []string `yaml:"adPhrases"`
	// LowQualityDomains are URL fragments that cost relevance.
	LowQualityDomains []string `yaml:"lowQualityDomains"`
	// TrustedDomains are URL fragments of well-known reference sites.
	TrustedDomains []string `yaml:"trustedDomains"`
}

// DefaultLists returns a fresh copy of the built-in lists.
func DefaultLists() Lists {
	return Lists{
		Blacklist: []string{
			// advertising
			"广告", "推广", "赞助", "ad", "advertisement", "sponsored",
			// downloads and piracy
			"下载", "安装", "download", "install", " crack", "破解", "注册码",
			// gambling and adult
			"赌博", "博彩", "色情", "成人", "sex", "porn", "casino", "betting",
			// shopping
			"淘宝", "天猫", "京东", "拼多多", "价格", "多少钱", "buy now", "shop",
			// recruitment
			"招聘", "兼职", "求职", "resume", "job opening", "hiring",
		},
		AdPhrases: []string{
			"点击了解", "立即购买", "限时优惠", "免费试用",
			"点击查看", "了解更多", "立即咨询", "马上",
			"click here", "buy now", "limited time", "free trial",
		},
		LowQualityDomains: []string{
			"ads.", "ad.", "tracking.", "promo.", "spam.", "fake.", "scam.",
		},
		TrustedDomains: []string{
			".edu", ".gov", ".org",
			"wikipedia.", "zhihu.", "csdn.", "github.",
			"stackoverflow.", "reddit.", "medium.",
			"jianshu.", "bilibili.", "douban.",
			"dev.to", "hashnode.", "freecodecamp.",
			"mdn.", "developer.mozilla.",
		},
	}
}

// Merge replaces every list that override sets, keeping the rest.
func (l Lists) Merge(override Lists) Lists {
	if len(override.Blacklist) > 0 {
		l.Blacklist = override.Blacklist
	}
	if len(override.AdPhrases) > 0 {
		l.AdPhrases = override.AdPhrases
	}
	if len(override.LowQualityDomains) > 0 {
		l.LowQualityDomains = override.LowQualityDomains
	}
	if len(override.TrustedDomains) > 0 {
		l.TrustedDomains = override.TrustedDomains
	}
	return l
}

func lowerAll(terms []string) []string {
	out := make([]string, 0, len(terms))
	for _, t := range terms {
		if t == "" {
			continue
		}
		out = append(out, strings.ToLower(t))
	}
	return out
}
