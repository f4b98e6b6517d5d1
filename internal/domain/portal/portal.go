// Package portal holds the delivery-records schema and the status
// classification used by portal metrics.
package portal

import "strings"

// Table is the sheet holding delivery records. The first two rows are
// banner rows; the header lives at row 2 and data starts at row 3.
// This offset is a load-bearing convention of the sheet, not an
// accident.
const (
	Table     = "PORTAL"
	HeaderRow = 2
	DataRow   = 3
)

// Fixed positional columns of a delivery row.
const (
	ColEmissionDate  = 1
	ColQuantity      = 10
	ColWeight        = 11
	ColAmountFreight = 12
	ColAmountGoods   = 13
	ColArrivalDate   = 15
	ColDeliveredDate = 16
)

// Date columns display-formatted beyond the fixed ones above.
var ExtraDateCols = []int{20, 21}

// Header names located by lookup rather than position.
const (
	HeaderStatus    = "STATUS"
	HeaderPartner   = "PARCEIRO"
	HeaderAssignee  = "ENTREGADOR"
	UnknownPartner  = "Não informado"
	DeliveredMarker = "ENTREGUE"
)

// Bucket is one of the nine mutually exclusive delivery status
// buckets.
type Bucket int

const (
	BucketNone Bucket = iota
	BucketInTransit
	BucketAtPartner
	BucketOnRoute
	BucketAwaitingClient
	BucketDelivered
	BucketReturned
	BucketInspection
	BucketOffRoute
	BucketAwaitingDecision
)

// classifier entries are tested in order; the first match wins. The
// order matters because the substrings overlap ("DEVOLU" also appears
// inside longer status texts that earlier entries must claim first).
var classifier = []struct {
	bucket  Bucket
	needles []string
}{
	{BucketInTransit, []string{"EM TRANSITO", "EM TRÂNSITO"}},
	{BucketAtPartner, []string{"PARCEIRO"}},
	{BucketOnRoute, []string{"ROTA DE ENTREGA", "EM ROTA"}},
	{BucketAwaitingClient, []string{"AGUARDANDO NO CLIENTE"}},
	{BucketDelivered, []string{"ENTREGUE"}},
	{BucketReturned, []string{"DEVOLUÇÃO", "DEVOLU"}},
	{BucketInspection, []string{"CONFERÊNCIA", "CONFER", "AVERIGUAÇÃO"}},
	{BucketOffRoute, []string{"NÃO ATENDE ROTA"}},
	{BucketAwaitingDecision, []string{"AGUARDANDO DECISÃO"}},
}

// Classify maps a free-text status to its bucket, case-insensitively.
// Unrecognized statuses fall into no bucket at all.
func Classify(status string) Bucket {
	upper := strings.ToUpper(strings.TrimSpace(status))
	if upper == "" {
		return BucketNone
	}
	for _, entry := range classifier {
		for _, needle := range entry.needles {
			if strings.Contains(upper, needle) {
				return entry.bucket
			}
		}
	}
	return BucketNone
}

// IsDelivered reports whether a status counts as delivered for the
// pending-per-partner histogram.
func IsDelivered(status string) bool {
	return strings.Contains(strings.ToUpper(status), DeliveredMarker)
}

// StatusCounts is the per-bucket histogram of delivery rows.
type StatusCounts struct {
	InTransit        int `json:"transito"`
	AtPartner        int `json:"parceiro"`
	OnRoute          int `json:"rota"`
	AwaitingClient   int `json:"aguardando"`
	Delivered        int `json:"entregue"`
	Returned         int `json:"devolucao"`
	Inspection       int `json:"conferencia"`
	OffRoute         int `json:"naoAtende"`
	AwaitingDecision int `json:"decisao"`
}

// Add increments the counter for a bucket.
func (c *StatusCounts) Add(b Bucket) {
	switch b {
	case BucketInTransit:
		c.InTransit++
	case BucketAtPartner:
		c.AtPartner++
	case BucketOnRoute:
		c.OnRoute++
	case BucketAwaitingClient:
		c.AwaitingClient++
	case BucketDelivered:
		c.Delivered++
	case BucketReturned:
		c.Returned++
	case BucketInspection:
		c.Inspection++
	case BucketOffRoute:
		c.OffRoute++
	case BucketAwaitingDecision:
		c.AwaitingDecision++
	}
}

// DurationAverages are mean elapsed times in whole days (per-pair
// floor of millisecond difference over 86,400,000).
type DurationAverages struct {
	EmissionToPartner  float64 `json:"emissionToPartner"`
	PartnerToToday     float64 `json:"partnerToToday"`
	PartnerToDelivered float64 `json:"partnerToDelivered"`
}

// Metrics is the consolidated read-only aggregation over the PORTAL
// table.
type Metrics struct {
	StatusCounts     StatusCounts     `json:"statusCounts"`
	DurationAverages DurationAverages `json:"durationAverages"`
	PendingByPartner map[string]int   `json:"pendingByPartner"`
}

// EmptyMetrics is the well-formed zero shape returned on any failure.
func EmptyMetrics() Metrics {
	return Metrics{PendingByPartner: map[string]int{}}
}
