package request

// RecordFilterRequest represents record list and export filters
type RecordFilterRequest struct {
	Search    string `form:"search"`
	Type      string `form:"type"`
	StartDate string `form:"start_date"`
	EndDate   string `form:"end_date"`
	SortOrder string `form:"sort_order"`
	Page      int    `form:"page"`
	PerPage   int    `form:"per_page"`
	Limit     int    `form:"limit"`
	Format    string `form:"format"`
}
