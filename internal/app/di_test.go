package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/allisson/sampletrack/internal/config"
	"github.com/allisson/sampletrack/internal/metrics"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	m.Run()
}

func memoryConfig() *config.Config {
	return &config.Config{
		ServerHost:            "127.0.0.1",
		ServerPort:            0,
		DBDriver:              memoryDriver,
		LogLevel:              "error",
		TransitionMaxAttempts: 3,
		OrchestrationTimeout:  5 * time.Second,
		DispatchConcurrency:   2,
		DispatchSendTimeout:   time.Second,
		NotificationGateway:   "log",
		AuditIDPrefix:         "audit",
		MetricsNamespace:      "sampletrack",
	}
}

func TestNewContainer(t *testing.T) {
	cfg := memoryConfig()

	container := NewContainer(cfg)

	require.NotNil(t, container)
	assert.Same(t, cfg, container.Config())
}

func TestContainer_Logger(t *testing.T) {
	t.Run("Success_Singleton", func(t *testing.T) {
		container := NewContainer(&config.Config{LogLevel: "debug"})

		assert.Nil(t, container.logger)
		logger := container.Logger()
		require.NotNil(t, logger)
		assert.Same(t, logger, container.Logger())
	})

	t.Run("Success_UnknownLevelFallsBackToInfo", func(t *testing.T) {
		container := NewContainer(&config.Config{LogLevel: "verbose"})

		logger := container.Logger()
		require.NotNil(t, logger)
		assert.True(t, logger.Enabled(context.Background(), 0))
		assert.False(t, logger.Enabled(context.Background(), -4))
	})
}

func TestContainer_DB(t *testing.T) {
	t.Run("Error_MemoryDriverHasNoDatabase", func(t *testing.T) {
		container := NewContainer(memoryConfig())

		_, err := container.DB()
		assert.Error(t, err)
	})

	t.Run("Error_InvalidDriverIsRemembered", func(t *testing.T) {
		container := NewContainer(&config.Config{DBDriver: "invalid_driver"})

		_, err := container.DB()
		require.Error(t, err)

		_, err = container.DB()
		assert.Error(t, err)
		assert.Contains(t, container.initErrors, "db")
	})

	t.Run("Error_RepositoryPropagatesDatabaseFailure", func(t *testing.T) {
		container := NewContainer(&config.Config{DBDriver: "invalid_driver"})

		_, err := container.SampleRepository()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to get database for sample repository")
	})
}

func TestContainer_MemoryWiring(t *testing.T) {
	container := NewContainer(memoryConfig())

	txManager, err := container.TxManager()
	require.NoError(t, err)
	assert.NotNil(t, txManager)

	for name, get := range map[string]func() (any, error){
		"counter repository": func() (any, error) { return container.CounterRepository() },
		"audit repository":   func() (any, error) { return container.AuditRepository() },
		"device repository":  func() (any, error) { return container.DeviceRepository() },
		"sample repository":  func() (any, error) { return container.SampleRepository() },
		"sequence use case":  func() (any, error) { return container.SequenceUseCase() },
		"audit use case":     func() (any, error) { return container.AuditUseCase() },
		"device use case":    func() (any, error) { return container.DeviceUseCase() },
		"dispatch use case":  func() (any, error) { return container.DispatchUseCase() },
		"sample use case":    func() (any, error) { return container.SampleUseCase() },
		"status use case":    func() (any, error) { return container.StatusUseCase() },
	} {
		component, err := get()
		require.NoError(t, err, name)
		assert.NotNil(t, component, name)
	}

	businessMetrics, err := container.BusinessMetrics()
	require.NoError(t, err)
	assert.IsType(t, metrics.NewNoOpBusinessMetrics(), businessMetrics)

	provider, err := container.MetricsProvider()
	require.NoError(t, err)
	assert.Nil(t, provider)

	signer, err := container.AuditSigner()
	require.NoError(t, err)
	assert.Nil(t, signer)

	publisher, err := container.AuditPublisher()
	require.NoError(t, err)
	assert.Nil(t, publisher)
}

func TestContainer_HTTPServer(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	container := NewContainer(memoryConfig())

	server, err := container.HTTPServer(ctx)
	require.NoError(t, err)
	require.NotNil(t, server)

	again, err := container.HTTPServer(ctx)
	require.NoError(t, err)
	assert.Same(t, server, again)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ready", nil)
	server.GetHandler().ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	body := `{"client_id":"0192a5b4-7c3d-7e8f-9a0b-1c2d3e4f5a6b","actor":{"id":"tech-1","name":"Tech One","role":"technician"}}`
	req = httptest.NewRequest(http.MethodPost, "/v1/samples", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	server.GetHandler().ServeHTTP(w, req)
	assert.Equal(t, http.StatusCreated, w.Code)

	assert.NoError(t, container.Shutdown(context.Background()))
}

func TestContainer_NotificationGateway(t *testing.T) {
	t.Run("Success_Push", func(t *testing.T) {
		cfg := memoryConfig()
		cfg.NotificationGateway = "push"
		cfg.PushGatewayURL = "http://push.local/send"

		gw, err := NewContainer(cfg).NotificationGateway()
		require.NoError(t, err)
		assert.NotNil(t, gw)
	})

	t.Run("Error_PushWithoutURL", func(t *testing.T) {
		cfg := memoryConfig()
		cfg.NotificationGateway = "push"

		_, err := NewContainer(cfg).NotificationGateway()
		assert.Error(t, err)
	})

	t.Run("Error_Unsupported", func(t *testing.T) {
		cfg := memoryConfig()
		cfg.NotificationGateway = "carrier-pigeon"
		container := NewContainer(cfg)

		_, err := container.StatusUseCase()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unsupported notification gateway: carrier-pigeon")
	})
}

func TestContainer_AuditSigner(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		cfg := memoryConfig()
		cfg.AuditSigningKey = "MDEyMzQ1Njc4OWFiY2RlZjAxMjM0NTY3ODlhYmNkZWY="

		signer, err := NewContainer(cfg).AuditSigner()
		require.NoError(t, err)
		assert.NotNil(t, signer)
	})

	t.Run("Error_NotBase64", func(t *testing.T) {
		cfg := memoryConfig()
		cfg.AuditSigningKey = "not base64!"

		_, err := NewContainer(cfg).AuditSigner()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "AUDIT_SIGNING_KEY")
	})

	t.Run("Error_TooShort", func(t *testing.T) {
		cfg := memoryConfig()
		cfg.AuditSigningKey = "c2hvcnQ="

		_, err := NewContainer(cfg).AuditUseCase()
		assert.Error(t, err)
	})
}

func TestContainer_AuditPublisher(t *testing.T) {
	cfg := memoryConfig()
	cfg.AuditPublishURL = "mem://audit-records"
	container := NewContainer(cfg)

	publisher, err := container.AuditPublisher()
	require.NoError(t, err)
	require.NotNil(t, publisher)

	assert.NoError(t, container.Shutdown(context.Background()))
}

func TestContainer_MetricsEnabled(t *testing.T) {
	cfg := memoryConfig()
	cfg.MetricsEnabled = true
	container := NewContainer(cfg)

	provider, err := container.MetricsProvider()
	require.NoError(t, err)
	require.NotNil(t, provider)

	businessMetrics, err := container.BusinessMetrics()
	require.NoError(t, err)
	assert.NotNil(t, businessMetrics)

	metricsServer, err := container.MetricsServer()
	require.NoError(t, err)
	assert.NotNil(t, metricsServer)

	assert.NoError(t, container.Shutdown(context.Background()))
}

func TestContainer_Shutdown(t *testing.T) {
	container := NewContainer(memoryConfig())

	assert.NoError(t, container.Shutdown(context.Background()))
}
