package forecast

import (
	"math"

	"github.com/shopspring/decimal"
)

// Servicio de dominio puro: pronóstico de demanda y sugerencia de reorden a
// partir del historial de ventas del ledger. No toca persistencia.

// Params entrada del cálculo para un (item, bodega).
type Params struct {
	// DailyDemand tiene una entrada por día de la ventana, en orden cronológico,
	// con ceros en los días sin ventas.
	DailyDemand  []decimal.Decimal
	ObservedDays int // días transcurridos desde la primera venta dentro de la ventana
	WindowDays   int
	HorizonDays  int
	LeadTimeDays int
	SafetyFactor decimal.Decimal // >= 1.0
	OnHand       decimal.Decimal
	OptimalLevel decimal.Decimal
	ReorderPoint decimal.Decimal
}

// Result salida del cálculo.
type Result struct {
	AvgDailyDemand    decimal.Decimal
	ForecastedDemand  decimal.Decimal
	SuggestedOrderQty decimal.Decimal
	Confidence        decimal.Decimal // [0,1]
	AlertFlag         bool
}

// Compute aplica:
//
//	avgDailyDemand    = Σ ventas diarias / días de la ventana
//	forecastedDemand  = avgDailyDemand × horizonte
//	suggestedOrderQty = max(optimalLevel − onHand, ceil(avgDailyDemand × leadTime × safetyFactor))
//	alertFlag         = onHand <= reorderPoint
//
// La confianza baja con ventanas cortas y con mayor variabilidad de la demanda
// (coeficiente de variación): clamp(1 − cv, 0, 1) × cobertura.
func Compute(p Params) Result {
	var res Result
	res.AlertFlag = p.OnHand.LessThanOrEqual(p.ReorderPoint)

	windowDays := p.WindowDays
	if windowDays <= 0 {
		windowDays = len(p.DailyDemand)
	}
	if windowDays == 0 {
		res.SuggestedOrderQty = clampNonNegative(p.OptimalLevel.Sub(p.OnHand))
		return res
	}

	total := decimal.Zero
	for _, d := range p.DailyDemand {
		total = total.Add(d)
	}
	avg := total.Div(decimal.NewFromInt(int64(windowDays)))
	res.AvgDailyDemand = avg
	res.ForecastedDemand = avg.Mul(decimal.NewFromInt(int64(p.HorizonDays)))

	safety := p.SafetyFactor
	if safety.LessThan(decimal.NewFromInt(1)) {
		safety = decimal.NewFromInt(1)
	}
	leadDemand := avg.Mul(decimal.NewFromInt(int64(p.LeadTimeDays))).Mul(safety).Ceil()
	deficit := p.OptimalLevel.Sub(p.OnHand)
	suggested := deficit
	if leadDemand.GreaterThan(suggested) {
		suggested = leadDemand
	}
	res.SuggestedOrderQty = clampNonNegative(suggested)

	res.Confidence = confidence(p.DailyDemand, avg, p.ObservedDays, windowDays)
	return res
}

// confidence = clamp(1 − cv, 0, 1) × min(1, observados/ventana).
func confidence(daily []decimal.Decimal, avg decimal.Decimal, observedDays, windowDays int) decimal.Decimal {
	if !avg.GreaterThan(decimal.Zero) || len(daily) == 0 {
		return decimal.Zero
	}
	avgF, _ := avg.Float64()
	var sumSq float64
	for _, d := range daily {
		f, _ := d.Float64()
		diff := f - avgF
		sumSq += diff * diff
	}
	stddev := math.Sqrt(sumSq / float64(len(daily)))
	cv := stddev / avgF

	conf := 1 - cv
	if conf < 0 {
		conf = 0
	}
	coverage := float64(observedDays) / float64(windowDays)
	if coverage > 1 {
		coverage = 1
	}
	conf *= coverage
	return decimal.NewFromFloat(conf).Round(4)
}

func clampNonNegative(d decimal.Decimal) decimal.Decimal {
	if d.LessThan(decimal.Zero) {
		return decimal.Zero
	}
	return d
}
