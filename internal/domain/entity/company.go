package entity

import "time"

// Estados de Company.
const (
	CompanyStatusActive   = "active"
	CompanyStatusInactive = "inactive"
)

// Planes comerciales.
const (
	PlanFree         = "free"
	PlanBasic        = "basic"
	PlanProfessional = "professional"
	PlanEnterprise   = "enterprise"
)

// Módulos del ERP (deben coincidir con el CHECK de la tabla company_modules).
const (
	ModuleClientes     = "clientes"
	ModuleCotizaciones = "cotizaciones"
	ModuleInventario   = "inventario"
	ModuleContabilidad = "contabilidad"
	ModuleNomina       = "nomina"
	ModulePagos        = "pagos"
	ModuleCRM          = "crm"
	ModuleAI           = "ai"
)

// AllModules en el orden en que aparecen en la navegación.
var AllModules = []string{
	ModuleClientes, ModuleCotizaciones, ModuleInventario,
	ModuleContabilidad, ModuleNomina, ModulePagos,
	ModuleCRM, ModuleAI,
}

// Company representa una organización/tenant del sistema.
type Company struct {
	ID        string
	Name      string
	Plan      string
	Status    string
	Modules   map[string]bool // módulo -> habilitado
	UserCount int             // solo en listados
	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsActive informa si la empresa puede operar.
func (c *Company) IsActive() bool {
	return c != nil && c.Status == CompanyStatusActive
}

// EnabledModules devuelve los módulos habilitados en orden de navegación.
func (c *Company) EnabledModules() []string {
	out := make([]string, 0, len(c.Modules))
	for _, m := range AllModules {
		if c.Modules[m] {
			out = append(out, m)
		}
	}
	return out
}
