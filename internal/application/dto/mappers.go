package dto

import "github.com/domka/erp-api/internal/domain/entity"

// DateLayout formato de fechas sin hora en la API.
const DateLayout = "2006-01-02"

// ToUserResponse convierte entity.User (nunca expone el hash).
func ToUserResponse(u *entity.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		CompanyID: u.CompanyID,
		Email:     u.Email,
		Name:      u.Name,
		Role:      u.Role,
		Status:    u.Status,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

// ToCompanySummary nil-safe: superadmin no tiene empresa.
func ToCompanySummary(c *entity.Company) *CompanySummary {
	if c == nil {
		return nil
	}
	return &CompanySummary{ID: c.ID, Name: c.Name, Plan: c.Plan, Status: c.Status}
}

func ToCompanyResponse(c *entity.Company) CompanyResponse {
	mods := make(map[string]bool, len(entity.AllModules))
	for _, m := range entity.AllModules {
		mods[m] = c.Modules[m]
	}
	return CompanyResponse{
		ID:        c.ID,
		Name:      c.Name,
		Plan:      c.Plan,
		Status:    c.Status,
		Modules:   mods,
		UserCount: c.UserCount,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

func ToClientResponse(c *entity.Client) ClientResponse {
	return ClientResponse{
		ID:          c.ID,
		CompanyID:   c.CompanyID,
		Name:        c.Name,
		Email:       c.Email,
		Phone:       c.Phone,
		CompanyName: c.CompanyName,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

func ToProductResponse(p *entity.Product) ProductResponse {
	return ProductResponse{
		ID:          p.ID,
		CompanyID:   p.CompanyID,
		SKU:         p.SKU,
		Name:        p.Name,
		Description: p.Description,
		Stock:       p.Stock,
		Price:       p.Price,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func ToQuoteResponse(q *entity.Quote) QuoteResponse {
	return QuoteResponse{
		ID:          q.ID,
		CompanyID:   q.CompanyID,
		Number:      q.Number,
		ClientID:    q.ClientID,
		ClientName:  q.ClientName,
		Description: q.Description,
		Amount:      q.Amount,
		ValidUntil:  q.ValidUntil.Format(DateLayout),
		Status:      q.Status,
		CreatedBy:   q.CreatedBy,
		DocumentKey: q.DocumentKey,
		CreatedAt:   q.CreatedAt,
		UpdatedAt:   q.UpdatedAt,
	}
}

func ToTaskResponse(t *entity.Task) TaskResponse {
	return TaskResponse{
		ID:        t.ID,
		Title:     t.Title,
		DueDate:   t.DueDate.Format(DateLayout),
		Priority:  t.Priority,
		Completed: t.Completed,
		CreatedAt: t.CreatedAt,
	}
}

func ToActivityResponse(a *entity.Activity) ActivityResponse {
	return ActivityResponse{
		ID:          a.ID,
		CompanyID:   a.CompanyID,
		UserID:      a.UserID,
		Type:        a.Type,
		Description: a.Description,
		CreatedAt:   a.CreatedAt,
	}
}
