package shopify

// GetOrderDetailsQuery fetches the order fields the splitter needs: sentinel
// tags and metafields, financial status, and line items with the variant's
// location_code metafield and the assigned location's pre_sale metafield.
const GetOrderDetailsQuery = `
query getOrder($id: ID!) {
  order(id: $id) {
    id
    name
    tags
    metafields(namespaces: ["custom"]) {
      edges { node { namespace key value } }
    }
    displayFinancialStatus
    lineItems(first: 50) {
      nodes {
        id
        quantity
        variant { id price locationCode: metafield(namespace: "custom", key: "location_code") { value } }
        customAttributes { key value }
        product { id }
        location: assignedLocation { location { id isPresale: metafield(namespace: "custom", key: "pre_sale") { value } } }
      }
    }
  }
}
`
