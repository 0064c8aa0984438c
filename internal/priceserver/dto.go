package priceserver

// DRF paginated envelope: results plus absolute next/previous page links.

type shoppingListPage struct {
	Count    int               `json:"count"`
	Next     *string           `json:"next"`
	Previous *string           `json:"previous"`
	Results  []shoppingListDTO `json:"results"`
}

type shoppingListDTO struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	LastUpdated string `json:"last_updated"`
}

type listItemPage struct {
	Count    int           `json:"count"`
	Next     *string       `json:"next"`
	Previous *string       `json:"previous"`
	Results  []listItemDTO `json:"results"`
}

type listItemDTO struct {
	ID           int  `json:"id"`
	ShoppingList int  `json:"shopping_list"`
	Product      int  `json:"product"`
	Store        int  `json:"store"`
	IsNeeded     bool `json:"is_needed"`
}

type priceListingPage struct {
	Count    int               `json:"count"`
	Next     *string           `json:"next"`
	Previous *string           `json:"previous"`
	Results  []priceListingDTO `json:"results"`
}

type priceListingDTO struct {
	ID            int    `json:"id"`
	Price         string `json:"price"`
	DateAdded     string `json:"date_added"`
	ProductID     int    `json:"product_id"`
	ProductName   string `json:"product_name"`
	ProductBrand  string `json:"product_brand"`
	ProductAmount string `json:"product_amount"`
	ProductImage  string `json:"product_image"`
	StoreID       int    `json:"store_id"`
	StoreName     string `json:"store_name"`
	StoreAddress  string `json:"store_address"`
	StoreRegion   string `json:"store_region"`
	StoreImage    string `json:"store_image"`
}

type loginResponse struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

type profileDTO struct {
	Email           string     `json:"email"`
	FirstName       string     `json:"first_name"`
	LastName        string     `json:"last_name"`
	PreferredRegion *regionDTO `json:"preferred_region"`
	IsSuperuser     bool       `json:"is_superuser"`
}

type regionDTO struct {
	Region string `json:"region"`
}
