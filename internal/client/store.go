package client

import (
	"context"
	"fmt"

	"github.com/commercekit/magento-go/pkg/magento"
)

// StoresClient implements magento.StoresService. Store topology and
// the website-scoped attribute set change rarely, so both are cached
// for the lifetime of the session.
type StoresClient struct {
	session magento.Session

	views        []magento.StoreView
	websites     []magento.Website
	configs      []magento.StoreConfig
	websiteAttrs map[string]bool
}

var _ magento.StoresService = (*StoresClient)(nil)

// Views returns every store view, including the admin view.
func (s *StoresClient) Views(ctx context.Context) ([]magento.StoreView, error) {
	if s.views != nil {
		return s.views, nil
	}
	var views []magento.StoreView
	if err := s.fetch(ctx, "store/storeViews", &views); err != nil {
		return nil, err
	}
	s.views = views
	return views, nil
}

// Websites returns every website.
func (s *StoresClient) Websites(ctx context.Context) ([]magento.Website, error) {
	if s.websites != nil {
		return s.websites, nil
	}
	var websites []magento.Website
	if err := s.fetch(ctx, "store/websites", &websites); err != nil {
		return nil, err
	}
	s.websites = websites
	return websites, nil
}

// Configs returns the configuration of every store view.
func (s *StoresClient) Configs(ctx context.Context) ([]magento.StoreConfig, error) {
	if s.configs != nil {
		return s.configs, nil
	}
	var configs []magento.StoreConfig
	if err := s.fetch(ctx, "store/storeConfigs", &configs); err != nil {
		return nil, err
	}
	s.configs = configs
	return configs, nil
}

func (s *StoresClient) fetch(ctx context.Context, endpoint string, out any) error {
	resp, err := s.session.Get(ctx, endpoint, nil, magento.NoScope())
	if err != nil {
		return err
	}
	if !resp.OK() {
		return fmt.Errorf("fetching %s: %w", endpoint, magento.ParseAPIError(resp.Body))
	}
	return resp.JSON(out)
}

// IsSingleStore reports whether the shop has exactly one storefront
// view. The admin view (ID 0) does not count.
func (s *StoresClient) IsSingleStore(ctx context.Context) (bool, error) {
	views, err := s.Views(ctx)
	if err != nil {
		return false, err
	}
	storefronts := 0
	for _, view := range views {
		if view.ID != 0 {
			storefronts++
		}
	}
	return storefronts == 1, nil
}

// FilterWebsiteAttributes returns the subset of attrs whose keys are
// website-scoped product attributes.
func (s *StoresClient) FilterWebsiteAttributes(ctx context.Context, attrs map[string]any) (map[string]any, error) {
	if s.websiteAttrs == nil {
		all, err := (&AttributesClient{session: s.session}).All(ctx)
		if err != nil {
			return nil, fmt.Errorf("classifying attribute scopes: %w", err)
		}
		s.websiteAttrs = make(map[string]bool, len(all))
		for _, attr := range all {
			if attr.IsWebsiteScoped() {
				s.websiteAttrs[attr.AttributeCode] = true
			}
		}
	}

	filtered := make(map[string]any)
	for code, value := range attrs {
		if s.websiteAttrs[code] {
			filtered[code] = value
		}
	}
	return filtered, nil
}

// Invalidate drops the cached topology so the next call re-fetches it.
func (s *StoresClient) Invalidate() {
	s.views = nil
	s.websites = nil
	s.configs = nil
	s.websiteAttrs = nil
}
