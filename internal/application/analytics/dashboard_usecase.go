// Package analytics contiene los casos de uso de los tableros: el resumen de
// la empresa y el panel del sistema para superadmin.
package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/domka/erp-api/internal/application/dto"
	"github.com/domka/erp-api/internal/domain"
	"github.com/domka/erp-api/internal/domain/access"
	"github.com/domka/erp-api/internal/domain/entity"
	"github.com/domka/erp-api/internal/domain/repository"
)

const (
	revenueMonths   = 6  // meses de la serie de ingresos
	recentQuotes    = 5  // cotizaciones en el widget
	pendingTasks    = 10 // tareas pendientes del usuario
	recentActivity  = 10 // entradas de actividad
	signupWeeks     = 4  // semanas de registros en el panel del sistema
	loginWindowDays = 7
)

var (
	monthLabels   = [...]string{"Ene", "Feb", "Mar", "Abr", "May", "Jun", "Jul", "Ago", "Sep", "Oct", "Nov", "Dic"}
	weekdayLabels = [...]string{"Lun", "Mar", "Mié", "Jue", "Vie", "Sáb", "Dom"}
	planLabels    = map[string]string{
		entity.PlanFree:         "Gratuito",
		entity.PlanBasic:        "Básico",
		entity.PlanProfessional: "Profesional",
		entity.PlanEnterprise:   "Empresarial",
	}
	planOrder = [...]string{entity.PlanFree, entity.PlanBasic, entity.PlanProfessional, entity.PlanEnterprise}
)

// DashboardUseCase arma los tableros a partir de consultas de solo lectura.
type DashboardUseCase struct {
	clients  repository.ClientRepository
	products repository.ProductRepository
	quotes   repository.QuoteRepository
	tasks    repository.TaskRepository
	activity repository.ActivityRepository
	stats    repository.SystemStatsRepository
	now      func() time.Time
}

// NewDashboardUseCase construye el caso de uso.
func NewDashboardUseCase(
	clients repository.ClientRepository,
	products repository.ProductRepository,
	quotes repository.QuoteRepository,
	tasks repository.TaskRepository,
	activity repository.ActivityRepository,
	stats repository.SystemStatsRepository,
) *DashboardUseCase {
	return &DashboardUseCase{
		clients:  clients,
		products: products,
		quotes:   quotes,
		tasks:    tasks,
		activity: activity,
		stats:    stats,
		now:      time.Now,
	}
}

type result[T any] struct {
	val T
	err error
}

// async ejecuta fn en su propia goroutine. Canal con buffer de 1.
func async[T any](fn func() (T, error)) <-chan result[T] {
	ch := make(chan result[T], 1)
	go func() {
		v, err := fn()
		ch <- result[T]{val: v, err: err}
	}()
	return ch
}

// Company construye el tablero de la empresa del usuario. Un superadmin debe
// indicar companyID.
//
// Las ocho consultas son independientes y corren en paralelo:
//  1. conteos de clientes, cotizaciones e inventario
//  2. ingresos aceptados (total y serie mensual)
//  3. cotizaciones recientes, tareas pendientes y actividad
func (uc *DashboardUseCase) Company(ctx context.Context, p *access.Principal, companyID string) (*dto.CompanyDashboardDTO, error) {
	companyID, err := access.TargetCompany(p, companyID)
	if err != nil {
		return nil, err
	}
	now := uc.now().UTC()
	since := firstOfMonth(now).AddDate(0, -(revenueMonths - 1), 0)

	clientsCh := async(func() (int, error) { return uc.clients.Count(ctx, companyID) })
	quotesCh := async(func() (int, error) { return uc.quotes.Count(ctx, companyID) })
	productsCh := async(func() (int, error) { return uc.products.Count(ctx, companyID) })
	revenueCh := async(func() (decimal.Decimal, error) { return uc.quotes.AcceptedRevenue(ctx, companyID) })
	seriesCh := async(func() ([]repository.MonthlyAmount, error) {
		return uc.quotes.MonthlyAcceptedRevenue(ctx, companyID, since)
	})
	recentCh := async(func() ([]*entity.Quote, error) { return uc.quotes.List(ctx, companyID, recentQuotes, 0) })
	tasksCh := async(func() ([]*entity.Task, error) { return uc.tasks.ListByUser(ctx, p.UserID, true, pendingTasks) })
	activityCh := async(func() ([]*entity.Activity, error) {
		return uc.activity.ListRecent(ctx, companyID, recentActivity)
	})

	clients, quotes, products := <-clientsCh, <-quotesCh, <-productsCh
	revenue, series := <-revenueCh, <-seriesCh
	recent, tasks, activity := <-recentCh, <-tasksCh, <-activityCh

	for _, e := range []struct {
		what string
		err  error
	}{
		{"clientes", clients.err},
		{"cotizaciones", quotes.err},
		{"inventario", products.err},
		{"ingresos", revenue.err},
		{"serie de ingresos", series.err},
		{"cotizaciones recientes", recent.err},
		{"tareas", tasks.err},
		{"actividad", activity.err},
	} {
		if e.err != nil {
			return nil, fmt.Errorf("dashboard: %s: %w", e.what, e.err)
		}
	}

	out := &dto.CompanyDashboardDTO{
		ClientsCount:   clients.val,
		QuotesCount:    quotes.val,
		InventoryCount: products.val,
		Revenue:        revenue.val.Round(2),
		RevenueSeries:  RevenueSeries(series.val, now, revenueMonths),
		RecentQuotes:   make([]dto.QuoteResponse, 0, len(recent.val)),
		PendingTasks:   make([]dto.TaskResponse, 0, len(tasks.val)),
		Activity:       make([]dto.ActivityResponse, 0, len(activity.val)),
	}
	for _, q := range recent.val {
		out.RecentQuotes = append(out.RecentQuotes, dto.ToQuoteResponse(q))
	}
	for _, t := range tasks.val {
		out.PendingTasks = append(out.PendingTasks, dto.ToTaskResponse(t))
	}
	for _, a := range activity.val {
		out.Activity = append(out.Activity, dto.ToActivityResponse(a))
	}
	return out, nil
}

// System construye el panel del sistema. Solo superadmin.
func (uc *DashboardUseCase) System(ctx context.Context, p *access.Principal) (*dto.SystemDashboardDTO, error) {
	if err := access.RequireSession(p); err != nil {
		return nil, err
	}
	if !access.HasPermission(p, access.PermViewSuperadminPanel) {
		return nil, domain.ErrForbidden
	}
	now := uc.now().UTC()
	today := midnight(now)
	loginSince := today.AddDate(0, 0, -(loginWindowDays - 1))
	signupSince := today.AddDate(0, 0, -(signupWeeks*7 - 1))

	companiesCh := async(func() (int, error) { return uc.stats.CountCompanies(ctx) })
	usersCh := async(func() (int, error) { return uc.stats.CountUsers(ctx) })
	plansCh := async(func() (map[string]int, error) { return uc.stats.CompaniesByPlan(ctx) })
	loginsCh := async(func() ([]repository.DailyCount, error) {
		return uc.activity.CountByDay(ctx, entity.ActivityLogin, loginSince)
	})
	signupsCh := async(func() ([]repository.DailyCount, error) {
		return uc.stats.UserRegistrationsByDay(ctx, signupSince)
	})
	activityCh := async(func() ([]*entity.Activity, error) { return uc.activity.ListRecent(ctx, "", recentActivity) })

	companies, users, plans := <-companiesCh, <-usersCh, <-plansCh
	logins, signups, activity := <-loginsCh, <-signupsCh, <-activityCh

	for _, err := range []error{companies.err, users.err, plans.err, logins.err, signups.err, activity.err} {
		if err != nil {
			return nil, fmt.Errorf("dashboard sistema: %w", err)
		}
	}

	out := &dto.SystemDashboardDTO{
		TotalCompanies:  companies.val,
		TotalUsers:      users.val,
		LoginsByWeekday: LoginsByWeekday(logins.val, loginSince),
		CompaniesByPlan: PlanDistribution(plans.val),
		WeeklySignups:   WeeklySignups(signups.val, signupSince, signupWeeks),
		RecentActivity:  make([]dto.ActivityResponse, 0, len(activity.val)),
	}
	for _, a := range activity.val {
		out.RecentActivity = append(out.RecentActivity, dto.ToActivityResponse(a))
	}
	return out, nil
}

// RevenueSeries rellena con cero los meses sin ventas y etiqueta en español,
// del más antiguo al actual.
func RevenueSeries(rows []repository.MonthlyAmount, now time.Time, months int) []dto.SeriesPointDTO {
	byMonth := make(map[time.Time]decimal.Decimal, len(rows))
	for _, r := range rows {
		m := firstOfMonth(r.Month.UTC())
		byMonth[m] = byMonth[m].Add(r.Amount)
	}
	start := firstOfMonth(now.UTC()).AddDate(0, -(months - 1), 0)
	out := make([]dto.SeriesPointDTO, 0, months)
	for i := 0; i < months; i++ {
		m := start.AddDate(0, i, 0)
		out = append(out, dto.SeriesPointDTO{Label: monthLabels[m.Month()-1], Value: byMonth[m].Round(2)})
	}
	return out
}

// LoginsByWeekday suma los días desde since por día de la semana, de lunes a domingo.
func LoginsByWeekday(rows []repository.DailyCount, since time.Time) []dto.CountPointDTO {
	var counts [7]int
	for _, r := range rows {
		if r.Day.Before(since) {
			continue
		}
		// time.Sunday == 0; lunes queda en el índice 0.
		counts[(int(r.Day.Weekday())+6)%7] += r.Count
	}
	out := make([]dto.CountPointDTO, 0, 7)
	for i, label := range weekdayLabels {
		out = append(out, dto.CountPointDTO{Label: label, Count: counts[i]})
	}
	return out
}

// PlanDistribution lista los planes conocidos en orden comercial; los
// desconocidos se omiten.
func PlanDistribution(byPlan map[string]int) []dto.CountPointDTO {
	out := make([]dto.CountPointDTO, 0, len(planOrder))
	for _, plan := range planOrder {
		out = append(out, dto.CountPointDTO{Label: planLabels[plan], Count: byPlan[plan]})
	}
	return out
}

// WeeklySignups agrupa conteos diarios en semanas de 7 días desde since;
// "Sem N" es la más reciente.
func WeeklySignups(rows []repository.DailyCount, since time.Time, weeks int) []dto.CountPointDTO {
	counts := make([]int, weeks)
	for _, r := range rows {
		if r.Day.Before(since) {
			continue
		}
		idx := int(r.Day.Sub(since).Hours()/24) / 7
		if idx >= weeks {
			continue
		}
		counts[idx] += r.Count
	}
	out := make([]dto.CountPointDTO, 0, weeks)
	for i, c := range counts {
		out = append(out, dto.CountPointDTO{Label: fmt.Sprintf("Sem %d", i+1), Count: c})
	}
	return out
}

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func firstOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}
