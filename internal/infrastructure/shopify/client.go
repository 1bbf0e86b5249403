package shopify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/erp/shopsync/internal/domain/integration"
)

const (
	// maxResponseSize limits JSON API response bodies to prevent memory
	// exhaustion; export artifacts are streamed and not subject to it
	maxResponseSize = 10 * 1024 * 1024 // 10MB

	accessTokenHeader = "X-Shopify-Access-Token"
)

// bulkExportQuery is the GraphQL document submitted with
// bulkOperationRunQuery. It exports every product with its variants,
// options and images, one JSONL object per node.
const bulkExportQuery = `mutation {
  bulkOperationRunQuery(
    query: """
    {
      products {
        edges {
          node {
            id
            title
            description
            productType
            vendor
            status
            tags
            variants {
              edges {
                node {
                  id
                  sku
                  title
                  price
                  compareAtPrice
                  inventoryQuantity
                  weight
                  weightUnit
                  option1
                  option2
                  option3
                }
              }
            }
            options {
              name
              values
            }
            images {
              edges {
                node {
                  id
                  src
                  altText
                }
              }
            }
          }
        }
      }
    }
    """
  ) {
    bulkOperation {
      id
      status
      url
    }
    userErrors {
      field
      message
    }
  }
}`

// operationStateQuery is the GraphQL document polling a bulk operation
const operationStateQuery = `query {
  node(id: %q) {
    ... on BulkOperation {
      id
      status
      url
    }
  }
}`

// Client talks to the Shopify Admin API: GraphQL for bulk export
// operations, REST for paginated catalog access. It implements the
// integration.BulkExporter and integration.PageSource ports.
type Client struct {
	config     *Config
	httpClient *http.Client
}

// NewClient creates a new Shopify Admin API client
func NewClient(config *Config) (*Client, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &Client{
		config: config,
		httpClient: &http.Client{
			Timeout: time.Duration(config.TimeoutSeconds) * time.Second,
		},
	}, nil
}

// ---------------------------------------------------------------------------
// Bulk export operations
// ---------------------------------------------------------------------------

// RunBulkExport submits the bulk product export and returns the remote
// operation id. Request-level and mutation-level rejections surface as
// *integration.SubmissionError carrying the remote messages verbatim.
func (c *Client) RunBulkExport(ctx context.Context) (string, error) {
	var response bulkRunResponse
	if err := c.executeGraphQL(ctx, bulkExportQuery, &response); err != nil {
		return "", err
	}

	if len(response.Errors) > 0 {
		return "", &integration.SubmissionError{Messages: graphqlMessages(response.Errors)}
	}

	payload := response.Data.BulkOperationRunQuery
	if len(payload.UserErrors) > 0 {
		messages := make([]string, 0, len(payload.UserErrors))
		for _, ue := range payload.UserErrors {
			messages = append(messages, ue.Message)
		}
		return "", &integration.SubmissionError{Messages: messages}
	}
	if payload.BulkOperation == nil || payload.BulkOperation.ID == "" {
		return "", &integration.SubmissionError{Messages: []string{"no bulk operation returned"}}
	}

	return payload.BulkOperation.ID, nil
}

// OperationState queries the current state of a bulk operation
func (c *Client) OperationState(ctx context.Context, operationID string) (integration.BulkOperation, error) {
	query := fmt.Sprintf(operationStateQuery, operationID)

	var response nodeResponse
	if err := c.executeGraphQL(ctx, query, &response); err != nil {
		return integration.BulkOperation{}, err
	}
	if len(response.Errors) > 0 {
		return integration.BulkOperation{}, fmt.Errorf("shopify: status query failed: %s",
			strings.Join(graphqlMessages(response.Errors), "; "))
	}
	if response.Data.Node == nil {
		return integration.BulkOperation{}, fmt.Errorf("%w: %s", integration.ErrOperationNotFound, operationID)
	}

	status := integration.OperationStatus(response.Data.Node.Status)
	if !status.IsValid() {
		return integration.BulkOperation{}, fmt.Errorf("shopify: unknown bulk operation status %q", response.Data.Node.Status)
	}

	return integration.BulkOperation{
		ID:        operationID,
		Status:    status,
		ResultURL: response.Data.Node.URL,
	}, nil
}

// DownloadArtifact fetches the export result stream from its opaque URL.
// There is no retry at this layer; retries belong to the caller's policy.
func (c *Client) DownloadArtifact(ctx context.Context, artifactURL string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, artifactURL, nil)
	if err != nil {
		return nil, fmt.Errorf("shopify: failed to build artifact request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("shopify: artifact request failed: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_ = resp.Body.Close()
		return nil, &integration.DownloadError{URL: artifactURL, StatusCode: resp.StatusCode}
	}

	return resp.Body, nil
}

// ---------------------------------------------------------------------------
// Paginated catalog access
// ---------------------------------------------------------------------------

// FetchPage returns one page of the remote catalog. An empty cursor fetches
// the first page; otherwise the cursor must come from a previous page of
// this client.
func (c *Client) FetchPage(ctx context.Context, cursor string) (integration.ProductPage, error) {
	params := url.Values{}
	params.Set("limit", strconv.Itoa(c.config.PageSize))
	if cursor != "" {
		params.Set("page_info", cursor)
	}

	endpoint := c.config.apiURL("products.json") + "?" + params.Encode()

	var listing productListResponse
	header, err := c.getJSON(ctx, endpoint, &listing)
	if err != nil {
		return integration.ProductPage{}, err
	}

	next, prev := parseLinkHeader(header.Get("Link"))
	return integration.ProductPage{
		Products:   listing.Products,
		HasNext:    next != "",
		NextCursor: next,
		PrevCursor: prev,
	}, nil
}

// FetchProduct returns one product by its remote id
func (c *Client) FetchProduct(ctx context.Context, productID string) (integration.Record, error) {
	endpoint := c.config.apiURL(fmt.Sprintf("products/%s.json", productID))

	var payload productResponse
	if _, err := c.getJSON(ctx, endpoint, &payload); err != nil {
		return nil, err
	}
	if payload.Product == nil {
		return nil, fmt.Errorf("shopify: product %s not found in response", productID)
	}
	return payload.Product, nil
}

// ProductCount returns the total number of products on the remote side
func (c *Client) ProductCount(ctx context.Context) (int, error) {
	endpoint := c.config.apiURL("products/count.json")

	var payload productCountResponse
	if _, err := c.getJSON(ctx, endpoint, &payload); err != nil {
		return 0, err
	}
	return payload.Count, nil
}

// ---------------------------------------------------------------------------
// HTTP plumbing
// ---------------------------------------------------------------------------

// executeGraphQL posts a GraphQL document and decodes the response
func (c *Client) executeGraphQL(ctx context.Context, query string, out any) error {
	body, err := json.Marshal(graphqlRequest{Query: query})
	if err != nil {
		return fmt.Errorf("shopify: failed to encode GraphQL request: %w", err)
	}

	endpoint := c.config.apiURL("graphql.json")
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("shopify: failed to build GraphQL request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(accessTokenHeader, c.config.AccessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("shopify: GraphQL request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("shopify: GraphQL endpoint returned status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return fmt.Errorf("shopify: failed to read GraphQL response: %w", err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("shopify: failed to decode GraphQL response: %w", err)
	}
	return nil
}

// getJSON performs an authenticated REST GET and decodes the JSON body,
// returning the response headers for Link-based pagination
func (c *Client) getJSON(ctx context.Context, endpoint string, out any) (http.Header, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("shopify: failed to build request: %w", err)
	}
	req.Header.Set(accessTokenHeader, c.config.AccessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("shopify: request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("shopify: endpoint %s returned status %d", endpoint, resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("shopify: failed to read response: %w", err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return nil, fmt.Errorf("shopify: failed to decode response: %w", err)
	}
	return resp.Header, nil
}

// graphqlMessages extracts the message strings from request-level errors
func graphqlMessages(errs []graphqlError) []string {
	messages := make([]string, 0, len(errs))
	for _, e := range errs {
		messages = append(messages, e.Message)
	}
	return messages
}

// parseLinkHeader extracts the next and previous page_info cursors from a
// Shopify REST Link header, e.g.
//
//	<https://shop/admin/api/2024-01/products.json?page_info=abc&limit=100>; rel="next"
func parseLinkHeader(header string) (next, prev string) {
	if header == "" {
		return "", ""
	}
	for _, part := range strings.Split(header, ",") {
		segments := strings.Split(part, ";")
		if len(segments) < 2 {
			continue
		}

		target := strings.Trim(strings.TrimSpace(segments[0]), "<>")
		parsed, err := url.Parse(target)
		if err != nil {
			continue
		}
		pageInfo := parsed.Query().Get("page_info")
		if pageInfo == "" {
			continue
		}

		rel := strings.TrimSpace(segments[1])
		switch {
		case strings.Contains(rel, `"next"`):
			next = pageInfo
		case strings.Contains(rel, `"previous"`):
			prev = pageInfo
		}
	}
	return next, prev
}
