package api

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"floure-storefront/models"

	"go.uber.org/zap"
)

// maxProductPages bounds a full listing walk against a server whose next
// link never ends.
const maxProductPages = 200

// ProductFilter narrows GET /products/. Zero values are omitted.
type ProductFilter struct {
	Category string
	Search   string
	Featured *bool
	Page     int
}

func (f ProductFilter) values() url.Values {
	q := url.Values{}
	if v := strings.TrimSpace(f.Category); v != "" {
		q.Set("category", v)
	}
	if v := strings.TrimSpace(f.Search); v != "" {
		q.Set("search", v)
	}
	if f.Featured != nil {
		q.Set("is_featured", strconv.FormatBool(*f.Featured))
	}
	if f.Page > 0 {
		q.Set("page", strconv.Itoa(f.Page))
	}
	return q
}

func (c *Client) GetSiteConfig(ctx context.Context) (*models.SiteConfig, error) {
	raw, err := c.getCached(ctx, "site-config/", nil)
	if err != nil {
		return nil, err
	}
	return decode[models.SiteConfig](raw, "site config")
}

func (c *Client) GetCategories(ctx context.Context) ([]models.Category, error) {
	raw, err := c.getCached(ctx, "categories/", nil)
	if err != nil {
		return nil, err
	}
	return decodeList[models.Category](raw, "categories")
}

func (c *Client) GetCategory(ctx context.Context, slug string) (*models.Category, error) {
	path, err := slugPath("categories", slug, "")
	if err != nil {
		return nil, err
	}
	raw, err := c.getCached(ctx, path, nil)
	if err != nil {
		return nil, err
	}
	return decode[models.Category](raw, "category")
}

func (c *Client) GetCategoryProducts(ctx context.Context, slug string) ([]models.Product, error) {
	path, err := slugPath("categories", slug, "products/")
	if err != nil {
		return nil, err
	}
	raw, err := c.getCached(ctx, path, nil)
	if err != nil {
		return nil, err
	}
	return decodeList[models.Product](raw, "category products")
}

func (c *Client) GetProducts(ctx context.Context, filter ProductFilter) ([]models.Product, error) {
	raw, err := c.getCached(ctx, "products/", filter.values())
	if err != nil {
		return nil, err
	}
	return decodeList[models.Product](raw, "products")
}

func (c *Client) GetProduct(ctx context.Context, slug string) (*models.Product, error) {
	path, err := slugPath("products", slug, "")
	if err != nil {
		return nil, err
	}
	raw, err := c.getCached(ctx, path, nil)
	if err != nil {
		return nil, err
	}
	return decode[models.Product](raw, "product")
}

// GetAllProducts follows the listing's pages from filter.Page (or the
// first page) to the last one.
func (c *Client) GetAllProducts(ctx context.Context, filter ProductFilter) ([]models.Product, error) {
	var all []models.Product
	err := c.eachProductPage(ctx, filter, func(page []models.Product) bool {
		all = append(all, page...)
		return true
	})
	if err != nil {
		return nil, err
	}
	if all == nil {
		all = []models.Product{}
	}
	return all, nil
}

// GetProductByID scans the product listing page by page; the API only
// looks products up by slug.
func (c *Client) GetProductByID(ctx context.Context, id int64) (*models.Product, error) {
	var found *models.Product
	err := c.eachProductPage(ctx, ProductFilter{}, func(page []models.Product) bool {
		for i := range page {
			if page[i].ID == id {
				found = &page[i]
				return false
			}
		}
		return true
	})
	if err != nil {
		return nil, err
	}
	if found == nil {
		return nil, fmt.Errorf("product %d: %w", id, ErrNotFound)
	}
	return found, nil
}

// ForgetProduct drops cached reads that may still describe product: its
// detail and the first page of the unfiltered listing. Callers use it when
// the API rejects a cart holding the product.
func (c *Client) ForgetProduct(ctx context.Context, product models.Product) {
	if c.cache == nil {
		return
	}
	keys := []string{"products/", "products/?" + ProductFilter{Page: 1}.values().Encode()}
	if path, err := slugPath("products", product.Slug, ""); err == nil {
		keys = append(keys, path)
	}
	for _, key := range keys {
		if err := c.cache.Delete(ctx, key); err != nil {
			c.log.Warn("catalog cache delete failed", zap.String("key", key), zap.Error(err))
		}
	}
}

// eachProductPage calls fn with every page of the listing until fn returns
// false or the last page is reached.
func (c *Client) eachProductPage(ctx context.Context, filter ProductFilter, fn func([]models.Product) bool) error {
	if filter.Page < 1 {
		filter.Page = 1
	}
	for n := 0; n < maxProductPages; n++ {
		raw, err := c.getCached(ctx, "products/", filter.values())
		if err != nil {
			return err
		}
		page, more, err := decodePage[models.Product](raw, "products")
		if err != nil {
			return err
		}
		if !fn(page) || !more || len(page) == 0 {
			return nil
		}
		filter.Page++
	}
	c.log.Warn("product listing truncated", zap.Int("pages", maxProductPages))
	return nil
}

func slugPath(resource, slug, suffix string) (string, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return "", fmt.Errorf("api: empty %s slug", resource)
	}
	return resource + "/" + url.PathEscape(slug) + "/" + suffix, nil
}
