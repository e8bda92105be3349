package assistant

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/pillguard/pillguard/internal/config"
	"github.com/pillguard/pillguard/internal/medication"
)

func offlineClient() *Client {
	return NewClient(config.AssistantConfig{Model: "gpt-4o-mini", Timeout: 5}, zap.NewNop())
}

func TestAnalyzeInteractions_TooFewMedications(t *testing.T) {
	client := offlineClient()

	result := client.AnalyzeInteractions(context.Background(), []medication.Medication{
		{Name: "Lisinopril"},
	})

	assert.False(t, result.HasInteraction)
	assert.Equal(t, SeverityNone, result.Severity)
	assert.Contains(t, result.Summary, "Not enough medications")
}

func TestAnalyzeInteractions_OfflineFallback(t *testing.T) {
	client := offlineClient()
	assert.False(t, client.Enabled())

	result := client.AnalyzeInteractions(context.Background(), []medication.Medication{
		{Name: "Lisinopril", DosageText: "10mg"},
		{Name: "Ibuprofen", DosageText: "200mg"},
	})

	// The degraded result must read as "could not analyze", never as a
	// clean bill of health.
	assert.False(t, result.HasInteraction)
	assert.Contains(t, result.Summary, "Could not analyze")
	assert.Contains(t, result.Recommendation, "pharmacist")
}

func TestChat_OfflineFallback(t *testing.T) {
	client := offlineClient()

	reply := client.Chat(context.Background(), nil, "Can I take these together?")
	assert.Equal(t, offlineReply, reply)
}
