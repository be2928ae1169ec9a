package services

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dukex/timely/pkg/canvas"
	"github.com/dukex/timely/pkg/engine"
	"github.com/dukex/timely/pkg/models"
	"github.com/dukex/timely/pkg/registry"
	"github.com/dukex/timely/pkg/status"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type editorFixture struct {
	editor    *Editor
	scenarios *Scenarios
	settings  *Settings
	board     *status.Board
}

func newEditorFixture(t *testing.T) *editorFixture {
	t.Helper()

	p := newTestPersistence(t)
	logger := slog.Default()
	scenarios := NewScenarios(p, logger)
	settings := NewSettings(p)
	board := status.NewBoard(status.WithTTL(time.Minute))
	eng := engine.New(engine.NewHTTPDispatcher(time.Second), engine.WithPromoter(scenarios), engine.WithStatus(board))

	return &editorFixture{
		editor:    NewEditor(p, scenarios, settings, registry.Default(logger), eng, logger),
		scenarios: scenarios,
		settings:  settings,
		board:     board,
	}
}

func TestEditor_HealthCheck(t *testing.T) {
	f := newEditorFixture(t)

	message, healthy := f.editor.HealthCheck(t.Context())
	assert.True(t, healthy)
	assert.Equal(t, "Persistence layer is healthy", message)
}

func TestEditor_OpenWithoutRecord(t *testing.T) {
	f := newEditorFixture(t)

	session, err := f.editor.Open(t.Context(), "orphan")
	require.NoError(t, err)

	assert.Nil(t, session.Scenario())
	assert.Zero(t, session.Graph().Len())
}

func TestSession_EditNodeConfig(t *testing.T) {
	f := newEditorFixture(t)

	scenario, err := f.scenarios.Create(t.Context())
	require.NoError(t, err)

	session, err := f.editor.Open(t.Context(), scenario.ID)
	require.NoError(t, err)

	node, err := session.Graph().AddNode(t.Context(), models.NodeTypePush)
	require.NoError(t, err)

	updated, err := session.EditNodeConfig(t.Context(), node.ID, map[string]any{"title": "Flash sale"})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"title": "Flash sale", "body": "Message from Timely"}, updated.Config)

	_, err = session.EditNodeConfig(t.Context(), node.ID, map[string]any{"title": 42})
	require.Error(t, err)
	assert.True(t, IsValidationError(err))

	_, err = session.EditNodeConfig(t.Context(), "missing", map[string]any{})
	assert.ErrorIs(t, err, ErrNodeNotFound)

	// Changes survive reopening.
	reopened, err := f.editor.Open(t.Context(), scenario.ID)
	require.NoError(t, err)

	stored, ok := reopened.Graph().Node(node.ID)
	require.True(t, ok)
	assert.Equal(t, "Flash sale", stored.PushConfig().Title)
}

func TestSession_CanvasOpenConfig(t *testing.T) {
	f := newEditorFixture(t)

	session, err := f.editor.Open(t.Context(), "s1")
	require.NoError(t, err)

	node, err := session.Graph().AddNode(t.Context(), models.NodeTypeCondition)
	require.NoError(t, err)

	_, ok := session.PendingConfig()
	assert.False(t, ok)

	session.Canvas().DoubleClick(t.Context(), canvas.Target{Kind: canvas.TargetNode, NodeID: node.ID})

	request, ok := session.PendingConfig()
	require.True(t, ok)
	assert.Equal(t, canvas.ConfigRequest{NodeID: node.ID, Type: models.NodeTypeCondition}, request)

	_, ok = session.PendingConfig()
	assert.False(t, ok)
}

func TestSession_Rename(t *testing.T) {
	f := newEditorFixture(t)

	scenario, err := f.scenarios.Create(t.Context())
	require.NoError(t, err)

	session, err := f.editor.Open(t.Context(), scenario.ID)
	require.NoError(t, err)

	require.NoError(t, session.Rename(t.Context(), "Welcome flow"))
	assert.Equal(t, "Welcome flow", session.Scenario().Name)

	fetched, err := f.scenarios.FetchByID(t.Context(), scenario.ID)
	require.NoError(t, err)
	assert.Equal(t, "Welcome flow", fetched.Name)
}

func TestSession_Run(t *testing.T) {
	var requests atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)

		assert.Equal(t, "new-key", r.Header.Get(engine.APIKeyHeader))
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	f := newEditorFixture(t)

	scenario, err := f.scenarios.Create(t.Context())
	require.NoError(t, err)

	session, err := f.editor.Open(t.Context(), scenario.ID)
	require.NoError(t, err)

	_, err = session.Run(t.Context())
	require.ErrorIs(t, err, engine.ErrMissingConfiguration)
	assert.Equal(t, models.ExecutionStatus{Kind: models.StatusError, Message: engine.MessageMissingConfiguration}, f.board.Current())

	require.NoError(t, f.settings.Save(t.Context(), models.Settings{BackendURL: server.URL, APIKey: "old-key"}))
	require.NoError(t, session.SetAPIKey(t.Context(), "new-key"))

	_, err = session.Run(t.Context())
	require.ErrorIs(t, err, engine.ErrIncompleteFlow)

	for _, nodeType := range []models.NodeType{models.NodeTypeTrigger, models.NodeTypeCondition, models.NodeTypePush} {
		_, err := session.Graph().AddNode(t.Context(), nodeType)
		require.NoError(t, err)
	}

	condition, ok := session.Graph().FindByType(models.NodeTypeCondition)
	require.True(t, ok)

	_, err = session.EditNodeConfig(t.Context(), condition.ID, map[string]any{"tokens": "tok-a,\ntok-b"})
	require.NoError(t, err)

	report, err := session.Run(t.Context())
	require.NoError(t, err)

	assert.Equal(t, int32(2), requests.Load())
	assert.Equal(t, "2/2 notifications sent", report.Message)
	assert.True(t, report.Promoted)
	assert.Equal(t, models.ScenarioStatusActive, session.Scenario().Status)
	assert.Equal(t, models.ExecutionStatus{Kind: models.StatusSuccess, Message: "2/2 notifications sent"}, f.board.Current())

	fetched, err := f.scenarios.FetchByID(t.Context(), scenario.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ScenarioStatusActive, fetched.Status)

	// A second run of an active scenario keeps it active.
	report, err = session.Run(t.Context())
	require.NoError(t, err)
	assert.False(t, report.Promoted)
	assert.Equal(t, models.ScenarioStatusActive, session.Scenario().Status)
}
