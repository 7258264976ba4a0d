package magento

// StoreView is one store view of the shop. The admin view has ID 0 and
// is not a storefront.
type StoreView struct {
	ID           int    `json:"id"`
	Code         string `json:"code"`
	Name         string `json:"name"`
	WebsiteID    int    `json:"website_id"`
	StoreGroupID int    `json:"store_group_id"`
	IsActive     int    `json:"is_active"`
}

// Website is one website of the shop.
type Website struct {
	ID             int    `json:"id"`
	Code           string `json:"code"`
	Name           string `json:"name"`
	DefaultGroupID int    `json:"default_group_id"`
}

// StoreConfig is the configuration of one store view.
type StoreConfig struct {
	ID               int    `json:"id"`
	Code             string `json:"code"`
	WebsiteID        int    `json:"website_id"`
	Locale           string `json:"locale"`
	BaseCurrencyCode string `json:"base_currency_code"`
	Timezone         string `json:"timezone"`
	BaseURL          string `json:"base_url"`
	SecureBaseURL    string `json:"secure_base_url"`
}

// AttributeType is one entry of the product attribute types list.
type AttributeType struct {
	Label string `json:"label"`
	Value string `json:"value"`
}
