package request

// ReorderQueueRequest lists every slot identity in the new order.
type ReorderQueueRequest struct {
	Order []string `json:"order" binding:"required,len=6"`
}

// MoveSlotRequest drags the slot with SourceID onto TargetID's position.
type MoveSlotRequest struct {
	SourceID string `json:"sourceId" binding:"required"`
	TargetID string `json:"targetId" binding:"required"`
}

// PrintThermalRequest selects 1-based slots to print; empty prints the page.
type PrintThermalRequest struct {
	Slots []int `json:"slots" binding:"omitempty,dive,min=1,max=6"`
}
