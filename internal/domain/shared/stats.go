package shared

// Stats is the process-wide ledger state: derived sums maintained
// incrementally alongside the item and user records they summarize.
// ItemCount doubles as the next item id to assign.
type Stats struct {
	ItemCount        int64 `json:"item_count"`
	TotalWasteSaved  int64 `json:"total_waste_saved"`
	TotalItemsListed int64 `json:"total_items_listed"`
}
