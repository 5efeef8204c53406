package shopify

// Wire types for the getOrder query. Shopify stores custom flags as
// string-typed metafields; the accessor methods below convert them to real
// booleans so nothing deeper in the pipeline compares strings.

// MetafieldValue is a single aliased metafield value node
type MetafieldValue struct {
	Value string `json:"value"`
}

// Metafield is a namespaced key/value metadata entry on the order
type Metafield struct {
	Namespace string `json:"namespace"`
	Key       string `json:"key"`
	Value     string `json:"value"`
}

// Order is the order detail shape returned by GetOrderDetailsQuery
type Order struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Tags       []string `json:"tags"`
	Metafields struct {
		Edges []struct {
			Node Metafield `json:"node"`
		} `json:"edges"`
	} `json:"metafields"`
	DisplayFinancialStatus string `json:"displayFinancialStatus"`
	LineItems              struct {
		Nodes []LineItem `json:"nodes"`
	} `json:"lineItems"`
}

// HasTag reports whether the order carries the given tag
func (o *Order) HasTag(tag string) bool {
	for _, t := range o.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// HasMetafield reports whether the order carries a metafield with the given
// namespace and key
func (o *Order) HasMetafield(namespace, key string) bool {
	for _, e := range o.Metafields.Edges {
		if e.Node.Namespace == namespace && e.Node.Key == key {
			return true
		}
	}
	return false
}

// LineItem is one order line with its variant and assigned location
type LineItem struct {
	ID       string   `json:"id"`
	Quantity int      `json:"quantity"`
	Variant  *Variant `json:"variant"`
	Location *struct {
		Location *LocationNode `json:"location"`
	} `json:"location"`
}

// Presale reports whether the line's assigned location carries a truthy
// pre_sale flag. A missing location or missing metafield means not pre-sale.
func (li *LineItem) Presale() bool {
	if li.Location == nil || li.Location.Location == nil || li.Location.Location.IsPresale == nil {
		return false
	}
	return li.Location.Location.IsPresale.Value == "true"
}

// LocationCode returns the variant's merchant location code, or empty when
// the variant or metafield is absent
func (li *LineItem) LocationCode() string {
	if li.Variant == nil || li.Variant.LocationCode == nil {
		return ""
	}
	return li.Variant.LocationCode.Value
}

// Variant is the purchasable variant on a line item
type Variant struct {
	ID           string          `json:"id"`
	Price        string          `json:"price"`
	LocationCode *MetafieldValue `json:"locationCode"`
}

// LocationNode is the assigned fulfillment location with its pre-sale flag
type LocationNode struct {
	ID        string          `json:"id"`
	IsPresale *MetafieldValue `json:"isPresale"`
}

// DraftOrder is the draft order shape returned by create/complete mutations
type DraftOrder struct {
	ID    string `json:"id"`
	Order *struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	} `json:"order"`
}

// CalculatedLineItem is one line of a calculated order, linked back to the
// original line item it derives from
type CalculatedLineItem struct {
	ID       string `json:"id"`
	Quantity int    `json:"quantity"`
	LineItem struct {
		ID string `json:"id"`
	} `json:"lineItem"`
}

// CalculatedOrder is the ephemeral server-side order inside an edit session.
// It exists only between orderEditBegin and orderEditCommit.
type CalculatedOrder struct {
	ID                  string `json:"id"`
	CalculatedLineItems struct {
		Nodes []CalculatedLineItem `json:"nodes"`
	} `json:"calculatedLineItems"`
}
