package ebay

// The Finding API wraps every field in a single-element array, a relic of
// its XML origins. The structs below mirror that shape verbatim; the
// accessors flatten it.

type findingResponse struct {
	FindItemsByKeywordsResponse []struct {
		SearchResult []struct {
			Count string        `json:"@count"`
			Item  []findingItem `json:"item"`
		} `json:"searchResult"`
	} `json:"findItemsByKeywordsResponse"`
}

func (r *findingResponse) items() []findingItem {
	if len(r.FindItemsByKeywordsResponse) == 0 {
		return nil
	}
	if len(r.FindItemsByKeywordsResponse[0].SearchResult) == 0 {
		return nil
	}
	return r.FindItemsByKeywordsResponse[0].SearchResult[0].Item
}

type findingItem struct {
	ItemID        []string        `json:"itemId"`
	Title         []string        `json:"title"`
	Subtitle      []string        `json:"subtitle"`
	GalleryURL    []string        `json:"galleryURL"`
	ViewItemURL   []string        `json:"viewItemURL"`
	SellingStatus []sellingStatus `json:"sellingStatus"`
	Condition     []itemCondition `json:"condition"`
	ListingInfo   []listingInfo   `json:"listingInfo"`
}

type sellingStatus struct {
	CurrentPrice []currentPrice `json:"currentPrice"`
}

type currentPrice struct {
	Value    string `json:"__value__"`
	Currency string `json:"@currencyId"`
}

type itemCondition struct {
	ConditionID          []string `json:"conditionId"`
	ConditionDisplayName []string `json:"conditionDisplayName"`
}

type listingInfo struct {
	StartTime []string `json:"startTime"`
}

func first(ss []string) string {
	if len(ss) == 0 {
		return ""
	}
	return ss[0]
}

func (i *findingItem) price() string {
	if len(i.SellingStatus) == 0 || len(i.SellingStatus[0].CurrentPrice) == 0 {
		return ""
	}
	return i.SellingStatus[0].CurrentPrice[0].Value
}

func (i *findingItem) condition() string {
	if len(i.Condition) == 0 {
		return ""
	}
	return first(i.Condition[0].ConditionDisplayName)
}

func (i *findingItem) startTime() string {
	if len(i.ListingInfo) == 0 {
		return ""
	}
	return first(i.ListingInfo[0].StartTime)
}
