package integration_tests

import (
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vcscsvcscs/vitals-tracker/internal/prompt"
	"github.com/vcscsvcscs/vitals-tracker/pkg/api"
)

// TestAssistantIntegration drives the chat and health-data analysis against a
// fake generative model endpoint through the real Gemini client.
func TestAssistantIntegration(t *testing.T) {
	env := newTestEnv(t)

	t.Log("Step 1: Transcript starts with the greeting")
	w := env.do(t, http.MethodGet, "/api/v1/assistant/messages", nil)
	require.Equal(t, http.StatusOK, w.Code)
	transcript := decode[api.MessagesResponse](t, w)
	require.Len(t, transcript.Messages, 1)
	assert.Equal(t, prompt.Greeting, transcript.Messages[0].Text)
	assert.True(t, transcript.Messages[0].IsBot)

	t.Log("Step 2: Analysis without data reports that nothing was found")
	w = env.do(t, http.MethodPost, "/api/v1/assistant/health-data", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	ex := decode[api.ExchangeResponse](t, w)
	require.Len(t, ex.Messages, 1)
	assert.Equal(t, prompt.NoDataFound, ex.Messages[0].Text)
	assert.Empty(t, env.gemini.lastPrompt(), "no model call without data")

	t.Log("Step 3: Record a reading and fetch the analysis")
	w = env.do(t, http.MethodPost, "/api/v1/vitals", map[string]any{"systolic": "165", "diastolic": "92", "pulse": "104"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = env.do(t, http.MethodPost, "/api/v1/assistant/health-data", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	ex = decode[api.ExchangeResponse](t, w)
	require.Len(t, ex.Messages, 2)
	assert.True(t, strings.HasPrefix(ex.Messages[0].Text, "✅ Health data retrieved successfully!"))
	assert.Contains(t, ex.Messages[0].Text, "165/92")
	assert.Equal(t, prompt.AnalysisResult(env.gemini.reply), ex.Messages[1].Text)
	assert.Nil(t, ex.Alert)
	assert.Contains(t, env.gemini.lastPrompt(), "165/92")

	t.Log("Step 4: A question with health data carries the CSV projection")
	w = env.do(t, http.MethodPost, "/api/v1/assistant/messages", map[string]any{
		"text": "Is my blood pressure too high?", "include_health_data": true,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	ex = decode[api.ExchangeResponse](t, w)
	require.Len(t, ex.Messages, 2)
	assert.Equal(t, "Is my blood pressure too high?", ex.Messages[0].Text)
	assert.False(t, ex.Messages[0].IsBot)
	assert.Equal(t, env.gemini.reply, ex.Messages[1].Text)
	last := env.gemini.lastPrompt()
	assert.Contains(t, last, "Is my blood pressure too high?")
	assert.Contains(t, last, "Blood Pressure Data")
	assert.Contains(t, last, ",165,92,mmHg")

	t.Log("Step 5: A model failure becomes an apology and an alert")
	env.gemini.setFail(true)
	w = env.do(t, http.MethodPost, "/api/v1/assistant/messages", map[string]any{"text": "Hello?"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	ex = decode[api.ExchangeResponse](t, w)
	require.Len(t, ex.Messages, 2)
	assert.Equal(t, prompt.SendFailure, ex.Messages[1].Text)
	require.NotNil(t, ex.Alert)
	assert.Equal(t, prompt.SendFailureAlert, *ex.Alert)
	env.gemini.setFail(false)

	t.Log("Step 6: Transcript holds every exchange, then clears")
	w = env.do(t, http.MethodGet, "/api/v1/assistant/messages", nil)
	assert.Len(t, decode[api.MessagesResponse](t, w).Messages, 8)

	w = env.do(t, http.MethodDelete, "/api/v1/assistant/messages", nil)
	require.Equal(t, http.StatusOK, w.Code)
	cleared := decode[api.MessagesResponse](t, w)
	require.Len(t, cleared.Messages, 1)
	assert.Equal(t, prompt.ClearedGreeting, cleared.Messages[0].Text)
}

func TestAssistantEmptyQuestionIntegration(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodPost, "/api/v1/assistant/messages", map[string]any{"text": "   "})

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, api.CodeValidationError, decode[api.ErrorResponse](t, w).Code)
	assert.Empty(t, env.gemini.lastPrompt())
}
