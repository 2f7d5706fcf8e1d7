////////////////////////////////////////////////////////////////////////////////
// Copyright © 2024 ClipVault                                                 //
//                                                                            //
// Use of this source code is governed by a license that can be found in the  //
// LICENSE file.                                                              //
////////////////////////////////////////////////////////////////////////////////

package capture

// Default page sizes per UI surface. The popup shows compact lists; the
// full-tab manager shows larger ones.
const (
	DefaultListLimit      = 3
	DefaultClipboardLimit = 5
	ManagerListLimit      = 15
	ManagerClipboardLimit = 25
)

// PageInfo describes one page of a paginated query. It is embedded in each
// paged response so the JSON shape is {data, page, limit, totalCount,
// hasMore}.
type PageInfo struct {
	Page       int  `json:"page"`
	Limit      int  `json:"limit"`
	TotalCount int  `json:"totalCount"`
	HasMore    bool `json:"hasMore"`
}

// DomainPage is one page of Domain records, oldest first.
type DomainPage struct {
	Data []Domain `json:"data"`
	PageInfo
}

// AppPage is one page of App records under a single domain, oldest first.
type AppPage struct {
	Data []App `json:"data"`
	PageInfo
}

// FlowPage is one page of Flow records under a single app, oldest first.
type FlowPage struct {
	Data []Flow `json:"data"`
	PageInfo
}

// ClipboardPage is one page of ClipboardEntry records under a single flow,
// newest first.
type ClipboardPage struct {
	Data []ClipboardEntry `json:"data"`
	PageInfo
}

// NewPageInfo fills in the paging metadata for the given request and total
// matching record count.
func NewPageInfo(page, limit, totalCount int) PageInfo {
	return PageInfo{
		Page:       page,
		Limit:      limit,
		TotalCount: totalCount,
		HasMore:    (page+1)*limit < totalCount,
	}
}

// NormalizeLimit replaces a zero or negative limit with the surface default.
func NormalizeLimit(limit, fallback int) int {
	if limit <= 0 {
		return fallback
	}
	return limit
}

// NormalizePage replaces a negative page number with the first page.
func NormalizePage(page int) int {
	if page < 0 {
		return 0
	}
	return page
}

// PageBounds returns the half-open slice bounds [start, end) for the page
// within a collection of n records. A page past the end yields an empty
// range rather than an error; a negative page is treated as the first page.
func PageBounds(page, limit, n int) (start, end int) {
	start = page * limit
	if start < 0 {
		start = 0
	}
	if start > n {
		start = n
	}
	end = start + limit
	if end > n {
		end = n
	}
	return start, end
}
