package priceserver

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"trolley/internal/domain"
)

const (
	defaultTimeout = 30 * time.Second
	userAgent      = "Trolley/1.0"
)

// Client implements domain.ShoppingListRepository, domain.PriceRepository,
// and domain.AccountRepository against the price service REST API.
type Client struct {
	baseURL    string
	session    *domain.Session
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a new price service API client. The session is held by
// reference so a token refresh is visible to in-flight requests.
func NewClient(session *domain.Session, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		baseURL: strings.TrimRight(session.ServerURL, "/"),
		session: session,
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
		logger: logger,
	}
}

// doRequest performs an authenticated HTTP request. rawURL may be a path
// relative to the base URL or an absolute URL (DRF "next" page links are
// absolute).
func (c *Client) doRequest(ctx context.Context, method, rawURL string, query url.Values, payload any) ([]byte, error) {
	reqURL := rawURL
	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		reqURL = c.baseURL + rawURL
	}
	if query != nil {
		reqURL = fmt.Sprintf("%s?%s", reqURL, query.Encode())
	}

	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.session.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.session.Token)
	}

	c.logger.Debug("price service request", "method", method, "url", reqURL)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("price service request failed", "error", err)
		return nil, domain.ErrServerOffline
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return nil, domain.ErrAuthFailed
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.Error("price service request error", "status", resp.StatusCode, "body", string(respBody))
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	return respBody, nil
}

// === domain.ShoppingListRepository ===

// GetLists returns one page of shopping lists. pageURL is the "next" link
// from the previous page, or "" for the first page.
func (c *Client) GetLists(ctx context.Context, pageURL string) ([]domain.ShoppingList, string, error) {
	reqURL := pageURL
	if reqURL == "" {
		reqURL = "/shoppinglist/shoppinglist/"
	}

	body, err := c.doRequest(ctx, http.MethodGet, reqURL, nil, nil)
	if err != nil {
		return nil, "", err
	}

	var page shoppingListPage
	if err := json.Unmarshal(body, &page); err != nil {
		return nil, "", fmt.Errorf("failed to parse shopping list page: %w", err)
	}

	next := ""
	if page.Next != nil {
		next = *page.Next
	}
	return mapShoppingLists(page.Results), next, nil
}

// CreateList creates a new shopping list.
func (c *Client) CreateList(ctx context.Context, name, description string) (*domain.ShoppingList, error) {
	payload := map[string]string{"name": name, "description": description}

	body, err := c.doRequest(ctx, http.MethodPost, "/shoppinglist/shoppinglist/", nil, payload)
	if err != nil {
		return nil, err
	}

	var dto shoppingListDTO
	if err := json.Unmarshal(body, &dto); err != nil {
		return nil, fmt.Errorf("failed to parse created list: %w", err)
	}

	list := mapShoppingList(dto)
	return &list, nil
}

// UpdateList performs a full-record update of name and description.
func (c *Client) UpdateList(ctx context.Context, id, name, description string) (*domain.ShoppingList, error) {
	payload := map[string]string{"name": name, "description": description}

	body, err := c.doRequest(ctx, http.MethodPut, "/shoppinglist/shoppinglist/"+id+"/", nil, payload)
	if err != nil {
		return nil, err
	}

	var dto shoppingListDTO
	if err := json.Unmarshal(body, &dto); err != nil {
		return nil, fmt.Errorf("failed to parse updated list: %w", err)
	}

	list := mapShoppingList(dto)
	return &list, nil
}

// DeleteList deletes a shopping list.
func (c *Client) DeleteList(ctx context.Context, id string) error {
	_, err := c.doRequest(ctx, http.MethodDelete, "/shoppinglist/shoppinglist/"+id+"/", nil, nil)
	return err
}

// GetItems returns one page of items belonging to listID.
func (c *Client) GetItems(ctx context.Context, listID, pageURL string) ([]domain.ShoppingListItem, string, error) {
	reqURL := pageURL
	var query url.Values
	if reqURL == "" {
		reqURL = "/shoppinglist/shoppinglistitem/"
		query = url.Values{"shopping_list": []string{listID}}
	}

	body, err := c.doRequest(ctx, http.MethodGet, reqURL, query, nil)
	if err != nil {
		return nil, "", err
	}

	var page listItemPage
	if err := json.Unmarshal(body, &page); err != nil {
		return nil, "", fmt.Errorf("failed to parse item page: %w", err)
	}

	next := ""
	if page.Next != nil {
		next = *page.Next
	}
	return mapListItems(page.Results), next, nil
}

// CreateItem adds a product-at-a-store entry to a shopping list.
func (c *Client) CreateItem(ctx context.Context, listID, productID, storeID string, isNeeded bool) (*domain.ShoppingListItem, error) {
	payload := map[string]any{
		"shopping_list": atoi(listID),
		"product":       atoi(productID),
		"store":         atoi(storeID),
		"is_needed":     isNeeded,
	}

	body, err := c.doRequest(ctx, http.MethodPost, "/shoppinglist/shoppinglistitem/", nil, payload)
	if err != nil {
		return nil, err
	}

	var dto listItemDTO
	if err := json.Unmarshal(body, &dto); err != nil {
		return nil, fmt.Errorf("failed to parse created item: %w", err)
	}

	item := mapListItem(dto)
	return &item, nil
}

// PatchItem applies a partial update to an item.
func (c *Client) PatchItem(ctx context.Context, id string, patch domain.ItemPatch) (*domain.ShoppingListItem, error) {
	payload := map[string]any{}
	if patch.IsNeeded != nil {
		payload["is_needed"] = *patch.IsNeeded
	}

	body, err := c.doRequest(ctx, http.MethodPatch, "/shoppinglist/shoppinglistitem/"+id+"/", nil, payload)
	if err != nil {
		return nil, err
	}

	var dto listItemDTO
	if err := json.Unmarshal(body, &dto); err != nil {
		return nil, fmt.Errorf("failed to parse patched item: %w", err)
	}

	item := mapListItem(dto)
	return &item, nil
}

// DeleteItem removes an item from its shopping list.
func (c *Client) DeleteItem(ctx context.Context, id string) error {
	_, err := c.doRequest(ctx, http.MethodDelete, "/shoppinglist/shoppinglistitem/"+id+"/", nil, nil)
	return err
}

// === domain.PriceRepository ===

// FindSnapshot returns the latest price snapshot for a product at a store,
// or nil when no listing exists. First result wins.
func (c *Client) FindSnapshot(ctx context.Context, productID, storeID string) (*domain.PriceSnapshot, error) {
	query := url.Values{
		"product": []string{productID},
		"store":   []string{storeID},
	}

	body, err := c.doRequest(ctx, http.MethodGet, "/price/price/", query, nil)
	if err != nil {
		return nil, err
	}

	var page priceListingPage
	if err := json.Unmarshal(body, &page); err != nil {
		return nil, fmt.Errorf("failed to parse price page: %w", err)
	}

	if len(page.Results) == 0 {
		return nil, nil
	}

	snap := mapSnapshot(page.Results[0])
	return &snap, nil
}

// SearchListings returns one page of price listings matching the query.
func (c *Client) SearchListings(ctx context.Context, q domain.SearchQuery) ([]domain.PriceListing, bool, error) {
	query := url.Values{}
	if q.Text != "" {
		query.Set("search", q.Text)
	}
	if q.Region != "" {
		query.Set("region", q.Region)
	}
	if q.Ordering != "" {
		query.Set("ordering", q.Ordering)
	}
	if q.Page > 1 {
		query.Set("page", fmt.Sprintf("%d", q.Page))
	}

	body, err := c.doRequest(ctx, http.MethodGet, "/price/price/", query, nil)
	if err != nil {
		return nil, false, err
	}

	var page priceListingPage
	if err := json.Unmarshal(body, &page); err != nil {
		return nil, false, fmt.Errorf("failed to parse search page: %w", err)
	}

	return mapListings(page.Results), page.Next != nil, nil
}

// === domain.AccountRepository ===

// GetProfile fetches the authenticated user's profile.
func (c *Client) GetProfile(ctx context.Context) (*domain.Profile, error) {
	body, err := c.doRequest(ctx, http.MethodGet, "/core/me/", nil, nil)
	if err != nil {
		return nil, err
	}

	var dto profileDTO
	if err := json.Unmarshal(body, &dto); err != nil {
		return nil, fmt.Errorf("failed to parse profile: %w", err)
	}

	profile := mapProfile(dto)
	return &profile, nil
}

// UpdateProfile updates the display name and preferred region.
func (c *Client) UpdateProfile(ctx context.Context, name, region string) (*domain.Profile, error) {
	first, last, _ := strings.Cut(name, " ")
	payload := map[string]any{
		"first_name": first,
		"last_name":  last,
	}

	body, err := c.doRequest(ctx, http.MethodPatch, "/core/me/", nil, payload)
	if err != nil {
		return nil, err
	}

	if region != "" {
		regionPayload := map[string]string{"region": region}
		if _, err := c.doRequest(ctx, http.MethodPost, "/core/update-region/", nil, regionPayload); err != nil {
			return nil, err
		}
	}

	var dto profileDTO
	if err := json.Unmarshal(body, &dto); err != nil {
		return nil, fmt.Errorf("failed to parse profile: %w", err)
	}

	profile := mapProfile(dto)
	if region != "" {
		profile.Region = region
	}
	return &profile, nil
}

// atoi converts a server-assigned identifier back to its numeric form.
// Identifiers are opaque to the rest of the client.
func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}
