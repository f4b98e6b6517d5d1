package portal

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		status   string
		expected Bucket
	}{
		{name: "in transit", status: "EM TRANSITO", expected: BucketInTransit},
		{name: "in transit accented", status: "em trânsito para SP", expected: BucketInTransit},
		{name: "at partner", status: "No PARCEIRO desde ontem", expected: BucketAtPartner},
		{name: "on route", status: "EM ROTA", expected: BucketOnRoute},
		{name: "on delivery route", status: "rota de entrega", expected: BucketOnRoute},
		{name: "awaiting client", status: "AGUARDANDO NO CLIENTE", expected: BucketAwaitingClient},
		{name: "delivered", status: "Entregue", expected: BucketDelivered},
		{name: "returned", status: "DEVOLUÇÃO", expected: BucketReturned},
		{name: "returned unaccented fragment", status: "devolucao parcial", expected: BucketReturned},
		{name: "inspection", status: "em conferência", expected: BucketInspection},
		{name: "off route", status: "NÃO ATENDE ROTA", expected: BucketOffRoute},
		{name: "awaiting decision", status: "AGUARDANDO DECISÃO", expected: BucketAwaitingDecision},
		{name: "unknown", status: "extraviado", expected: BucketNone},
		{name: "blank", status: "  ", expected: BucketNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Classify(tt.status))
		})
	}
}

func TestClassifyOrderFirstMatchWins(t *testing.T) {
	// contains both a transit and a partner needle; the transit entry
	// comes first in the classifier
	assert.Equal(t, BucketInTransit, Classify("EM TRANSITO PARA O PARCEIRO"))
}

func TestIsDelivered(t *testing.T) {
	assert.True(t, IsDelivered("ENTREGUE"))
	assert.True(t, IsDelivered("entregue ao cliente"))
	assert.False(t, IsDelivered("EM ROTA"))
	assert.False(t, IsDelivered(""))
}

func TestStatusCountsAdd(t *testing.T) {
	var counts StatusCounts

	counts.Add(BucketInTransit)
	counts.Add(BucketInTransit)
	counts.Add(BucketDelivered)
	counts.Add(BucketNone)

	assert.Equal(t, 2, counts.InTransit)
	assert.Equal(t, 1, counts.Delivered)
	assert.Equal(t, 0, counts.Returned)
}

func TestEmptyMetrics(t *testing.T) {
	m := EmptyMetrics()

	assert.NotNil(t, m.PendingByPartner)
	assert.Empty(t, m.PendingByPartner)
	assert.Zero(t, m.StatusCounts)
	assert.Zero(t, m.DurationAverages)
}
