package shopify

// DraftOrderCreateMutation creates a draft order
const DraftOrderCreateMutation = `
mutation draftOrderCreate($input: DraftOrderInput!) {
  draftOrderCreate(input: $input) {
    draftOrder {
      id
      order {
        id
        name
      }
    }
    userErrors {
      field
      message
    }
  }
}
`

// DraftOrderCompleteMutation completes a draft order and converts it into an order.
const DraftOrderCompleteMutation = `
mutation draftOrderComplete($id: ID!) {
  draftOrderComplete(id: $id) {
    draftOrder {
      id
      order {
        id
        name
      }
    }
    userErrors {
      field
      message
    }
  }
}
`

// OrderEditBeginMutation opens an edit session on an order and returns the
// calculated order with its calculated line items, each linked back to the
// original line item.
const OrderEditBeginMutation = `
mutation orderEditBegin($id: ID!) {
  orderEditBegin(id: $id) {
    calculatedOrder { id calculatedLineItems(first: 50) { nodes { id quantity lineItem { id } } } }
    userErrors {
      field
      message
    }
  }
}
`

// OrderEditSetQuantityMutation changes a calculated line item's quantity
const OrderEditSetQuantityMutation = `
mutation orderEditSetQuantity($id: ID!, $lineItemId: ID!, $quantity: Int!) {
  orderEditSetQuantity(id: $id, lineItemId: $lineItemId, quantity: $quantity) {
    calculatedLineItem { id quantity }
    userErrors {
      field
      message
    }
  }
}
`

// OrderEditRemoveLineItemMutation removes a calculated line item entirely
const OrderEditRemoveLineItemMutation = `
mutation orderEditRemoveLineItem($id: ID!, $lineItemId: ID!) {
  orderEditRemoveLineItem(id: $id, lineItemId: $lineItemId) {
    calculatedLineItems { id }
    userErrors {
      field
      message
    }
  }
}
`

// OrderEditCommitMutation commits the calculated order
const OrderEditCommitMutation = `
mutation orderEditCommit($id: ID!, $notifyCustomer: Boolean, $staffNote: String) {
  orderEditCommit(id: $id, notifyCustomer: $notifyCustomer, staffNote: $staffNote) {
    order { id }
    userErrors {
      field
      message
    }
  }
}
`

// TagsAddMutation appends tags to a resource
const TagsAddMutation = `
mutation tagsAdd($id: ID!, $tags: [String!]!) {
  tagsAdd(id: $id, tags: $tags) {
    node { id }
    userErrors {
      field
      message
    }
  }
}
`

// MetafieldUpsertMutation writes a namespaced metafield on a resource.
// Used for the custom.split_id sentinel on processed orders.
const MetafieldUpsertMutation = `
mutation metafieldUpsert($ownerId: ID!, $namespace: String!, $key: String!, $value: String!, $type: String!) {
  metafieldUpsert(ownerId: $ownerId, namespace: $namespace, key: $key, value: $value, type: $type) {
    metafield { id key value }
    userErrors {
      field
      message
    }
  }
}
`

// DraftOrderInput represents the input for creating a draft order
type DraftOrderInput struct {
	LineItems       []DraftOrderLineItemInput `json:"lineItems"`
	ShippingAddress *DraftOrderAddressInput   `json:"shippingAddress,omitempty"`
	Customer        *DraftOrderCustomerInput  `json:"customer,omitempty"`
	Tags            []string                  `json:"tags,omitempty"`
	Note            *string                   `json:"note,omitempty"`
}

type DraftOrderLineItemInput struct {
	VariantID string `json:"variantId"`
	Quantity  int    `json:"quantity"`
}

// DraftOrderCustomerInput links the draft to an existing customer by GID
type DraftOrderCustomerInput struct {
	ID string `json:"id"`
}

// DraftOrderAddressInput is a sanitized shipping address. All fields are
// optional; absent fields are omitted from the mutation input.
type DraftOrderAddressInput struct {
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
	Address1  string `json:"address1,omitempty"`
	Address2  string `json:"address2,omitempty"`
	City      string `json:"city,omitempty"`
	Province  string `json:"province,omitempty"`
	Country   string `json:"country,omitempty"`
	Zip       string `json:"zip,omitempty"`
	Phone     string `json:"phone,omitempty"`
}
