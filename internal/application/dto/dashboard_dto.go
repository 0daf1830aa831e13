package dto

import "github.com/shopspring/decimal"

// CompanyDashboardDTO respuesta de GET /api/dashboard.
type CompanyDashboardDTO struct {
	ClientsCount   int                `json:"clients_count"`
	QuotesCount    int                `json:"quotes_count"`
	InventoryCount int                `json:"inventory_count"`
	Revenue        decimal.Decimal    `json:"revenue"` // suma de cotizaciones aceptadas
	RevenueSeries  []SeriesPointDTO   `json:"revenue_series"`
	RecentQuotes   []QuoteResponse    `json:"recent_quotes"`
	PendingTasks   []TaskResponse     `json:"pending_tasks"`
	Activity       []ActivityResponse `json:"activity"`
}

// SeriesPointDTO punto de una serie temporal con etiqueta en español.
type SeriesPointDTO struct {
	Label string          `json:"label"`
	Value decimal.Decimal `json:"value"`
}

// CountPointDTO punto de una serie de conteos.
type CountPointDTO struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// SystemDashboardDTO respuesta de GET /api/superadmin/dashboard.
type SystemDashboardDTO struct {
	TotalCompanies  int                `json:"total_companies"`
	TotalUsers      int                `json:"total_users"`
	LoginsByWeekday []CountPointDTO    `json:"logins_by_weekday"`
	CompaniesByPlan []CountPointDTO    `json:"companies_by_plan"`
	WeeklySignups   []CountPointDTO    `json:"weekly_signups"`
	RecentActivity  []ActivityResponse `json:"recent_activity"`
}
