package priceserver

import (
	"strconv"
	"time"

	"trolley/internal/domain"
)

func mapShoppingList(dto shoppingListDTO) domain.ShoppingList {
	updated, _ := time.Parse(time.RFC3339, dto.LastUpdated)
	return domain.ShoppingList{
		ID:          strconv.Itoa(dto.ID),
		Name:        dto.Name,
		Description: dto.Description,
		LastUpdated: updated,
	}
}

func mapShoppingLists(dtos []shoppingListDTO) []domain.ShoppingList {
	lists := make([]domain.ShoppingList, 0, len(dtos))
	for _, dto := range dtos {
		lists = append(lists, mapShoppingList(dto))
	}
	return lists
}

func mapListItem(dto listItemDTO) domain.ShoppingListItem {
	return domain.ShoppingListItem{
		ID:        strconv.Itoa(dto.ID),
		ListID:    strconv.Itoa(dto.ShoppingList),
		ProductID: strconv.Itoa(dto.Product),
		StoreID:   strconv.Itoa(dto.Store),
		IsNeeded:  dto.IsNeeded,
	}
}

func mapListItems(dtos []listItemDTO) []domain.ShoppingListItem {
	items := make([]domain.ShoppingListItem, 0, len(dtos))
	for _, dto := range dtos {
		items = append(items, mapListItem(dto))
	}
	return items
}

// mapSnapshot applies the display sanitization rule at the boundary so every
// snapshot surfaced by this client is already normalized.
func mapSnapshot(dto priceListingDTO) domain.PriceSnapshot {
	snap := domain.PriceSnapshot{
		ProductName:   dto.ProductName,
		ProductBrand:  dto.ProductBrand,
		ProductAmount: dto.ProductAmount,
		ProductImage:  dto.ProductImage,
		StoreName:     dto.StoreName,
		StoreAddress:  dto.StoreAddress,
		StoreRegion:   dto.StoreRegion,
		StoreImage:    dto.StoreImage,
		Price:         dto.Price,
	}
	return snap.Sanitize()
}

func mapListing(dto priceListingDTO) domain.PriceListing {
	added, _ := time.Parse(time.RFC3339, dto.DateAdded)
	return domain.PriceListing{
		ID:        strconv.Itoa(dto.ID),
		ProductID: strconv.Itoa(dto.ProductID),
		StoreID:   strconv.Itoa(dto.StoreID),
		DateAdded: added,
		Snapshot:  mapSnapshot(dto),
	}
}

func mapListings(dtos []priceListingDTO) []domain.PriceListing {
	listings := make([]domain.PriceListing, 0, len(dtos))
	for _, dto := range dtos {
		listings = append(listings, mapListing(dto))
	}
	return listings
}

func mapProfile(dto profileDTO) domain.Profile {
	region := ""
	if dto.PreferredRegion != nil {
		region = dto.PreferredRegion.Region
	}
	name := dto.FirstName
	if dto.LastName != "" {
		if name != "" {
			name += " "
		}
		name += dto.LastName
	}
	return domain.Profile{
		Email:     dto.Email,
		Name:      name,
		Region:    region,
		Superuser: dto.IsSuperuser,
	}
}
