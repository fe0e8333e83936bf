package fetcher

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/starkadvisor/newshound/internal/types"
)

// tbsDateLayout is the MM/DD/YYYY form the engine expects inside the
// tbs date-range directive.
const tbsDateLayout = "01/02/2006"

// SearchURLConfig holds the fixed parts of every search URL.
type SearchURLConfig struct {
	BaseURL string

	// Domains are OR'd into the query as site: filters.
	Domains []string

	// Language (hl) and LanguageCode (lr) hint result language/region.
	Language     string
	LanguageCode string
}

// BuildSearchURL constructs the listing URL for one page: the topic
// keyword OR'd with the domain allow-list, a cdr date-range directive,
// news mode, pagination offset, and language hints.
func BuildSearchURL(cfg SearchURLConfig, q types.SearchQuery) string {
	terms := q.Topic
	if len(cfg.Domains) > 0 {
		sites := make([]string, len(cfg.Domains))
		for i, d := range cfg.Domains {
			sites[i] = "site:" + d
		}
		terms += " " + strings.Join(sites, " OR ")
	}

	tbs := []string{
		"cdr:1",
		"cd_min:" + q.StartDate.Format(tbsDateLayout),
		"cd_max:" + q.EndDate.Format(tbsDateLayout),
	}
	if q.SortByDate {
		tbs = append(tbs, "sbd:1")
	}

	params := url.Values{}
	params.Set("q", terms)
	params.Set("tbm", "nws")
	params.Set("tbs", strings.Join(tbs, ","))
	params.Set("start", strconv.Itoa(q.Offset()))
	params.Set("hl", cfg.Language)
	params.Set("lr", cfg.LanguageCode)
	params.Set("num", strconv.Itoa(q.PageSize))

	return fmt.Sprintf("%s?%s", cfg.BaseURL, params.Encode())
}
