package pagination

import "testing"

func TestPaginationParams_Validate(t *testing.T) {
	tests := []struct {
		name        string
		in          PaginationParams
		wantPage    int
		wantPerPage int
	}{
		{"zero values", PaginationParams{}, 1, defaultPerPage},
		{"limit alias", PaginationParams{Page: 2, Limit: 25}, 2, 25},
		{"per page wins over limit", PaginationParams{PerPage: 5, Limit: 25}, 1, 5},
		{"capped", PaginationParams{Page: 3, PerPage: 500}, 3, maxPerPage},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := tt.in
			p.Validate()
			if p.Page != tt.wantPage || p.PerPage != tt.wantPerPage {
				t.Errorf("got page %d per page %d", p.Page, p.PerPage)
			}
		})
	}
}

func TestNewPagination(t *testing.T) {
	p := NewPagination(2, 10, 25)
	if p.TotalPages != 3 || !p.HasNext || !p.HasPrev {
		t.Errorf("p = %+v", p)
	}
	if p := NewPagination(1, 0, 5); p.TotalPages != 0 {
		t.Errorf("zero per page: %+v", p)
	}
}
