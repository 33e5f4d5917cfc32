package services

import (
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/cachapa/comanda-api/models"
)

// MenuService loads the menu from the published spreadsheet feed. The feed
// is fetched on demand; any transport or parse failure surfaces as one
// retryable MenuLoadError.
type MenuService struct {
	url        string
	httpClient *http.Client
}

// NewMenuService creates a menu service reading from csvURL.
func NewMenuService(csvURL string) *MenuService {
	return &MenuService{
		url: csvURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// FetchMenu downloads and parses the feed, returning the items and the
// distinct sorted categories.
func (s *MenuService) FetchMenu() ([]models.MenuItem, []string, error) {
	resp, err := s.httpClient.Get(s.url)
	if err != nil {
		return nil, nil, &MenuLoadError{Cause: err}
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, nil, &MenuLoadError{Cause: fmt.Errorf("menu feed returned status %d", resp.StatusCode)}
	}

	items, err := ParseMenuCSV(resp.Body)
	if err != nil {
		return nil, nil, &MenuLoadError{Cause: err}
	}
	if len(items) == 0 {
		return nil, nil, &MenuLoadError{Cause: fmt.Errorf("menu feed is empty or could not be parsed")}
	}

	seen := make(map[string]bool)
	var categories []string
	for _, it := range items {
		if it.Category != "" && !seen[it.Category] {
			seen[it.Category] = true
			categories = append(categories, it.Category)
		}
	}
	sort.Strings(categories)

	return items, categories, nil
}

// ParseMenuCSV parses the feed rows. The header row names the columns;
// rows with a mismatched column count are skipped, a missing price
// defaults to 0, and a missing id gets a generated one.
func ParseMenuCSV(r io.Reader) ([]models.MenuItem, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse csv: %w", err)
	}
	if len(rows) < 2 {
		return nil, nil
	}

	header := rows[0]
	col := make(map[string]int, len(header))
	for i, name := range header {
		col[strings.TrimSpace(strings.ToLower(name))] = i
	}

	field := func(row []string, name string) string {
		i, ok := col[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	var items []models.MenuItem
	for _, row := range rows[1:] {
		if len(row) < len(header)-1 || len(row) > len(header) {
			continue
		}
		price, _ := strconv.ParseFloat(field(row, "price"), 64)
		item := models.MenuItem{
			ID:          field(row, "id"),
			Name:        field(row, "name"),
			Description: field(row, "description"),
			Price:       price,
			Category:    field(row, "category"),
			ImageURL:    field(row, "image_url"),
		}
		if item.ID == "" {
			item.ID = uuid.NewString()
		}
		if item.Name == "" {
			item.Name = "No Name"
		}
		if item.Category == "" {
			item.Category = "Uncategorized"
		}
		items = append(items, item)
	}
	return items, nil
}
