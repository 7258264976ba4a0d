package magento

import "context"

// Client is the full typed API surface. Construct one with the
// mageclient package.
type Client interface {
	Session

	// Authenticate obtains a fresh access token and validates it
	// against the API.
	Authenticate(ctx context.Context) error

	// AccessToken returns the current bearer token, obtaining one if
	// none is held.
	AccessToken(ctx context.Context) (string, error)

	Orders() OrdersService
	OrderItems() OrderItemsService
	Products() ProductsService
	Categories() CategoriesService
	Invoices() InvoicesService
	Customers() CustomersService
	ProductAttributes() AttributesService
	Stores() StoresService
}

// OrdersService searches sales orders.
type OrdersService interface {
	Search() *Query[*Order]
	ByID(ctx context.Context, id int) (*Order, error)
	ByNumber(ctx context.Context, incrementID string) (*Order, error)
	ByCustomerID(ctx context.Context, customerID int) ([]*Order, error)
}

// OrderItemsService searches order lines across orders.
type OrderItemsService interface {
	Search() *Query[*OrderItem]
	BySKU(ctx context.Context, sku string) ([]*OrderItem, error)
	ByProductID(ctx context.Context, productID int) ([]*OrderItem, error)
	ByCategory(ctx context.Context, category *Category) ([]*OrderItem, error)
}

// ProductsService searches the catalog.
type ProductsService interface {
	Search() *Query[*Product]
	BySKU(ctx context.Context, sku string) (*Product, error)
	BySKUList(ctx context.Context, skus ...string) ([]*Product, error)
	ByCategoryID(ctx context.Context, categoryID int) ([]*Product, error)
	EnabledSimpleSKUs(ctx context.Context) ([]string, error)
}

// CategoriesService reads the category tree.
type CategoriesService interface {
	Search() *Query[*Category]
	Root(ctx context.Context) (*Category, error)
	All(ctx context.Context) ([]*Category, error)
	ByID(ctx context.Context, id int) (*Category, error)
	ByName(ctx context.Context, name string, exact bool) ([]*Category, error)
}

// InvoicesService searches sales invoices.
type InvoicesService interface {
	Search() *Query[*Invoice]
	ByNumber(ctx context.Context, incrementID string) (*Invoice, error)
	ByOrder(ctx context.Context, order *Order) (*Invoice, error)
	ByOrderNumber(ctx context.Context, incrementID string) (*Invoice, error)
}

// CustomersService searches customer accounts.
type CustomersService interface {
	Search() *Query[*Customer]
	ByID(ctx context.Context, id int) (*Customer, error)
	ByEmail(ctx context.Context, email string) (*Customer, error)
}

// AttributesService reads product attribute definitions.
type AttributesService interface {
	Search() *Query[*ProductAttribute]
	All(ctx context.Context) ([]*ProductAttribute, error)
	ByCode(ctx context.Context, code string) (*ProductAttribute, error)
	Types(ctx context.Context) ([]AttributeType, error)
}

// StoresService reads store topology. Results are cached for the
// lifetime of the session; Invalidate drops the cache.
type StoresService interface {
	StoreInfo

	Views(ctx context.Context) ([]StoreView, error)
	Websites(ctx context.Context) ([]Website, error)
	Configs(ctx context.Context) ([]StoreConfig, error)
	Invalidate()
}
