package models

import "net/url"

// PqrReport holds the detail-form fields of a new complaint.
type PqrReport struct {
	Name        string `json:"name"`
	Dni         string `json:"dni"`
	PhoneNumber string `json:"phone_number"`
	Email       string `json:"email"`
	Observation string `json:"observation"`
	TypeDamage  string `json:"typeDamage"`
	Origin      string `json:"origin"`
}

// Form encodes the report plus the selected pole as the create endpoint expects.
func (p PqrReport) Form(nodeID string) url.Values {
	form := url.Values{}
	form.Set("name", p.Name)
	form.Set("dni", p.Dni)
	form.Set("phone_number", p.PhoneNumber)
	form.Set("email", p.Email)
	form.Set("observation", p.Observation)
	form.Set("typeDamage", p.TypeDamage)
	form.Set("origin", p.Origin)
	form.Set("idNode", nodeID)
	return form
}

// PqrListItem is one row of the complaints table.
type PqrListItem struct {
	ID               int64  `json:"id"`
	DateCreation     string `json:"date_creation"`
	FileNumber       int64  `json:"file_number"`
	TypeDamageName   string `json:"fk_type_damage__name"`
	NodeReported     int64  `json:"fk_node_reported"`
	NodePaintingCode int64  `json:"fk_node_reported__painting_code"`
	ComunaName       string `json:"fk_node_reported__fk_district__fk_comuna__name"`
	DistrictName     string `json:"fk_node_reported__fk_district__name"`
	OriginName       string `json:"fk_origin__name"`
	Name             string `json:"name"`
}

// PqrListResponse is the searchdata answer of the list views.
type PqrListResponse struct {
	Type    string        `json:"type"`
	Msg     string        `json:"msg,omitempty"`
	Length  int           `json:"length"`
	Objects []PqrListItem `json:"objects"`
}

// PqrListQuery is the server-side search/sort/page request.
type PqrListQuery struct {
	Status     string
	Start      int
	Limit      int
	Filter     string
	OrderBy    string
	OrderDir   string
	WithOrders bool
	Canceled   bool
}

// PqrListPage is a decoded page of complaints.
type PqrListPage struct {
	Total   int           `json:"total"`
	Objects []PqrListItem `json:"objects"`
}
