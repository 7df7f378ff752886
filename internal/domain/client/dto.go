// internal/domain/client/dto.go
package client

// CreateClientRequest for adding a coached client
type CreateClientRequest struct {
	FullName string                 `json:"full_name" binding:"required"`
	Email    string                 `json:"email" binding:"omitempty,email"`
	Phone    string                 `json:"phone"`
	Goals    []string               `json:"goals"`
	Notes    string                 `json:"notes"`
	Metadata map[string]interface{} `json:"metadata"`
}

// UpdateClientRequest for editing a coached client
type UpdateClientRequest struct {
	FullName string                 `json:"full_name"`
	Email    string                 `json:"email" binding:"omitempty,email"`
	Phone    string                 `json:"phone"`
	Goals    []string               `json:"goals"`
	Notes    string                 `json:"notes"`
	Metadata map[string]interface{} `json:"metadata"`
}

// ListClientsQuery for list/search filtering
type ListClientsQuery struct {
	Search   string `form:"search"`
	Active   *bool  `form:"active"`
	Page     int    `form:"page,default=1" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size,default=20" binding:"omitempty,min=1,max=100"`
}

// ClientList is a paginated list response
type ClientList struct {
	Clients  []*Client `json:"clients"`
	Total    int64     `json:"total"`
	Page     int       `json:"page"`
	PageSize int       `json:"page_size"`
}
