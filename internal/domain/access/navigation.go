package access

import "github.com/domka/erp-api/internal/domain/entity"

// Rutas de la convención de redirección de sesión.
const (
	LoginPath      = "/auth"
	DashboardPath  = "/dashboard"
	SuperadminPath = "/superadmin"
)

// Secciones de navegación.
const (
	SectionGestion      = "gestion"
	SectionFinanzas     = "finanzas"
	SectionHerramientas = "herramientas"
)

// NavItem entrada del menú lateral.
type NavItem struct {
	Module  string `json:"module"`
	Label   string `json:"label"`
	Icon    string `json:"icon"`
	Path    string `json:"path"`
	Section string `json:"section"`
}

// NavSection grupo de entradas con título.
type NavSection struct {
	Key   string    `json:"key"`
	Title string    `json:"title"`
	Items []NavItem `json:"items"`
}

// DashboardItem siempre visible para cualquier sesión válida.
var DashboardItem = NavItem{Module: "dashboard", Label: "Dashboard", Icon: "📊", Path: DashboardPath}

// NavigationItems catálogo de módulos en orden de menú.
var NavigationItems = []NavItem{
	{Module: entity.ModuleClientes, Label: "Clientes", Icon: "👥", Path: "/modules/clientes", Section: SectionGestion},
	{Module: entity.ModuleCotizaciones, Label: "Cotizaciones", Icon: "📋", Path: "/modules/cotizaciones", Section: SectionGestion},
	{Module: entity.ModuleInventario, Label: "Inventario", Icon: "📦", Path: "/modules/inventario", Section: SectionGestion},
	{Module: entity.ModuleContabilidad, Label: "Contabilidad", Icon: "📒", Path: "/modules/contabilidad", Section: SectionFinanzas},
	{Module: entity.ModuleNomina, Label: "Nómina", Icon: "💰", Path: "/modules/nomina", Section: SectionFinanzas},
	{Module: entity.ModulePagos, Label: "Pagos", Icon: "💳", Path: "/modules/pagos", Section: SectionFinanzas},
	{Module: entity.ModuleCRM, Label: "CRM", Icon: "🤝", Path: "/modules/crm", Section: SectionHerramientas},
	{Module: entity.ModuleAI, Label: "Asistente AI", Icon: "🤖", Path: "/modules/ai", Section: SectionHerramientas},
}

var sectionTitles = []struct{ key, title string }{
	{SectionGestion, "Gestión"},
	{SectionFinanzas, "Finanzas"},
	{SectionHerramientas, "Herramientas"},
}

// FilterNavigation devuelve las entradas de items visibles para p en t.
// Principal inválido: lista vacía.
func FilterNavigation(p *Principal, t *Tenant, items []NavItem) []NavItem {
	out := make([]NavItem, 0, len(items))
	if !wellFormed(p) {
		return out
	}
	for _, it := range items {
		if CanAccessModule(p, t, it.Module) {
			out = append(out, it)
		}
	}
	return out
}

// BuildNavigation agrupa la navegación visible en secciones. El dashboard va
// siempre primero en su propia sección; las secciones vacías se omiten.
func BuildNavigation(p *Principal, t *Tenant) []NavSection {
	if !wellFormed(p) {
		return []NavSection{}
	}
	visible := FilterNavigation(p, t, NavigationItems)
	sections := []NavSection{{Key: "principal", Title: "Principal", Items: []NavItem{DashboardItem}}}
	for _, s := range sectionTitles {
		var items []NavItem
		for _, it := range visible {
			if it.Section == s.key {
				items = append(items, it)
			}
		}
		if len(items) > 0 {
			sections = append(sections, NavSection{Key: s.key, Title: s.title, Items: items})
		}
	}
	return sections
}

// RedirectFor destino tras autenticarse según el rol; rol vacío o
// desconocido vuelve al login.
func RedirectFor(role string) string {
	switch role {
	case entity.RoleSuperadmin:
		return SuperadminPath
	case entity.RoleAdmin, entity.RoleUser:
		return DashboardPath
	default:
		return LoginPath
	}
}
