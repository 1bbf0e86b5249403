package shopify

import "github.com/erp/shopsync/internal/domain/integration"

// graphqlRequest is the body of a GraphQL Admin API call
type graphqlRequest struct {
	Query string `json:"query"`
}

// graphqlError is a request-level GraphQL error
type graphqlError struct {
	Message string `json:"message"`
}

// userError is a mutation-level validation error
type userError struct {
	Field   []string `json:"field"`
	Message string   `json:"message"`
}

// bulkOperationPayload mirrors the BulkOperation GraphQL object
type bulkOperationPayload struct {
	ID     string `json:"id"`
	Status string `json:"status"`
	URL    string `json:"url"`
}

// bulkRunResponse is the response of the bulkOperationRunQuery mutation
type bulkRunResponse struct {
	Data struct {
		BulkOperationRunQuery struct {
			BulkOperation *bulkOperationPayload `json:"bulkOperation"`
			UserErrors    []userError           `json:"userErrors"`
		} `json:"bulkOperationRunQuery"`
	} `json:"data"`
	Errors []graphqlError `json:"errors"`
}

// nodeResponse is the response of the operation status query
type nodeResponse struct {
	Data struct {
		Node *bulkOperationPayload `json:"node"`
	} `json:"data"`
	Errors []graphqlError `json:"errors"`
}

// productListResponse is the body of the REST products listing
type productListResponse struct {
	Products []integration.Record `json:"products"`
}

// productResponse is the body of a single-product REST fetch
type productResponse struct {
	Product integration.Record `json:"product"`
}

// productCountResponse is the body of the REST product count endpoint
type productCountResponse struct {
	Count int `json:"count"`
}
