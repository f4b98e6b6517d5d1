// Package portal implements the read-only delivery views: the
// formatted grid the dashboard renders and the consolidated metrics.
package portal

import (
	"context"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"ctrc/internal/domain/portal"
	appErrors "ctrc/internal/shared/errors"
	"ctrc/internal/shared/logger"
	"ctrc/internal/store"
)

// displayDateLayout is the Brazilian date rendering of the dashboard.
const displayDateLayout = "02/01/2006"

const dayMillis = 24 * 60 * 60 * 1000

type Service struct {
	store   store.TableStore
	logger  logger.Interface
	printer *message.Printer
	now     func() time.Time
}

// NewService builds the portal view service. The PORTAL table is never
// created here: its banner-and-header layout is maintained by hand, and
// reading a missing table yields an empty grid.
func NewService(st store.TableStore, log logger.Interface) *Service {
	return &Service{
		store:   st,
		logger:  log,
		printer: message.NewPrinter(language.BrazilianPortuguese),
		now:     time.Now,
	}
}

// Data returns the delivery grid ready for display: the header row
// followed by every data row, with dates, quantities, weights and
// amounts rendered in Brazilian conventions. A non-empty search term
// keeps only rows containing it anywhere, case-insensitively.
func (s *Service) Data(ctx context.Context, search string) ([][]string, error) {
	rows, err := s.store.ReadAll(ctx, portal.Table)
	if err != nil {
		return nil, appErrors.WrapInternal(err, "Erro ao carregar dados do portal")
	}
	if len(rows) <= portal.HeaderRow {
		return [][]string{}, nil
	}

	header := rows[portal.HeaderRow]
	term := strings.ToLower(strings.TrimSpace(search))

	out := [][]string{header}
	for _, row := range rows[min(portal.DataRow, len(rows)):] {
		formatted := s.formatRow(row)
		if term != "" && !rowContains(formatted, term) {
			continue
		}
		out = append(out, formatted)
	}
	return out, nil
}

func (s *Service) formatRow(row []string) []string {
	formatted := make([]string, len(row))
	copy(formatted, row)

	set := func(col int, value string) {
		if col < len(formatted) {
			formatted[col] = value
		}
	}

	dateCols := append([]int{portal.ColEmissionDate, portal.ColDeliveredDate}, portal.ExtraDateCols...)
	for _, col := range dateCols {
		set(col, formatDate(store.Cell(row, col)))
	}

	if v, ok := parseNumber(store.Cell(row, portal.ColQuantity)); ok {
		set(portal.ColQuantity, s.printer.Sprintf("%.0f", v))
	}
	if v, ok := parseNumber(store.Cell(row, portal.ColWeight)); ok {
		set(portal.ColWeight, s.printer.Sprintf("%.2f", v))
	}
	for _, col := range []int{portal.ColAmountFreight, portal.ColAmountGoods} {
		if v, ok := parseNumber(store.Cell(row, col)); ok {
			set(col, s.printer.Sprintf("R$ %.2f", v))
		}
	}
	return formatted
}

// Metrics aggregates the delivery table into status counts, duration
// averages and the pending-per-partner histogram. Rows with missing or
// unparseable dates simply drop out of the averages they cannot feed.
func (s *Service) Metrics(ctx context.Context) (portal.Metrics, error) {
	rows, err := s.store.ReadAll(ctx, portal.Table)
	if err != nil {
		return portal.EmptyMetrics(), appErrors.WrapInternal(err, "Erro ao calcular métricas")
	}
	if len(rows) <= portal.DataRow {
		return portal.EmptyMetrics(), nil
	}

	header := rows[portal.HeaderRow]
	statusCol := findColumn(header, portal.HeaderStatus)
	partnerCol := findColumn(header, portal.HeaderPartner)
	if partnerCol < 0 {
		partnerCol = findColumn(header, portal.HeaderAssignee)
	}

	metrics := portal.EmptyMetrics()
	var emissionToPartner, partnerToToday, partnerToDelivered durationSum
	today := s.now()

	for _, row := range rows[portal.DataRow:] {
		status := ""
		if statusCol >= 0 {
			status = store.Cell(row, statusCol)
		}
		metrics.StatusCounts.Add(portal.Classify(status))

		emission, hasEmission := store.ParseCellTime(store.Cell(row, portal.ColEmissionDate))
		arrival, hasArrival := store.ParseCellTime(store.Cell(row, portal.ColArrivalDate))
		delivered, hasDelivered := store.ParseCellTime(store.Cell(row, portal.ColDeliveredDate))

		if hasEmission && hasArrival {
			emissionToPartner.add(emission, arrival)
		}
		if hasArrival && hasDelivered {
			partnerToDelivered.add(arrival, delivered)
		}

		pendingStatus := !portal.IsDelivered(status)
		if pendingStatus && !hasDelivered && hasArrival {
			partnerToToday.add(arrival, today)
		}
		if pendingStatus {
			partner := portal.UnknownPartner
			if partnerCol >= 0 {
				if p := store.Cell(row, partnerCol); p != "" {
					partner = p
				}
			}
			metrics.PendingByPartner[partner]++
		}
	}

	metrics.DurationAverages = portal.DurationAverages{
		EmissionToPartner:  emissionToPartner.average(),
		PartnerToToday:     partnerToToday.average(),
		PartnerToDelivered: partnerToDelivered.average(),
	}
	return metrics, nil
}

// durationSum accumulates whole-day gaps. Negative gaps are data-entry
// mistakes and are excluded rather than dragging averages down.
type durationSum struct {
	days  float64
	count int
}

func (d *durationSum) add(from, to time.Time) {
	diff := to.UnixMilli() - from.UnixMilli()
	if diff < 0 {
		return
	}
	d.days += math.Floor(float64(diff) / dayMillis)
	d.count++
}

func (d durationSum) average() float64 {
	if d.count == 0 {
		return 0
	}
	return d.days / float64(d.count)
}

func findColumn(header []string, name string) int {
	for i, cell := range header {
		if strings.EqualFold(strings.TrimSpace(cell), name) {
			return i
		}
	}
	return -1
}

func rowContains(row []string, term string) bool {
	return strings.Contains(strings.ToLower(strings.Join(row, " ")), term)
}

func formatDate(raw string) string {
	if raw == "" {
		return raw
	}
	if t, ok := store.ParseCellTime(raw); ok {
		return t.Format(displayDateLayout)
	}
	return raw
}

// dotGroupedPattern matches dot-separated thousands groups with no
// decimal part, e.g. "1.500" or "12.345.678".
var dotGroupedPattern = regexp.MustCompile(`^-?\d{1,3}(\.\d{3})+$`)

func parseNumber(raw string) (float64, bool) {
	cleaned := strings.TrimSpace(raw)
	if cleaned == "" {
		return 0, false
	}
	switch {
	case strings.Contains(cleaned, ","):
		// Brazilian format: dots group thousands, comma is the decimal.
		cleaned = strings.ReplaceAll(cleaned, ".", "")
		cleaned = strings.ReplaceAll(cleaned, ",", ".")
	case dotGroupedPattern.MatchString(cleaned):
		cleaned = strings.ReplaceAll(cleaned, ".", "")
	}
	// anything else is a plain machine number, dot decimal included
	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
