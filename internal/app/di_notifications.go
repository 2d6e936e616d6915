package app

import (
	"fmt"

	"github.com/allisson/sampletrack/internal/database"
	deviceHTTP "github.com/allisson/sampletrack/internal/device/http"
	deviceRepository "github.com/allisson/sampletrack/internal/device/repository"
	deviceUseCase "github.com/allisson/sampletrack/internal/device/usecase"
	"github.com/allisson/sampletrack/internal/notification/gateway"
	notificationUseCase "github.com/allisson/sampletrack/internal/notification/usecase"
)

// DeviceRepository returns the device registration repository for the configured driver.
func (c *Container) DeviceRepository() (deviceUseCase.DeviceRepository, error) {
	var err error
	c.deviceRepositoryInit.Do(func() {
		c.deviceRepository, err = c.initDeviceRepository()
		if err != nil {
			c.initErrors["deviceRepository"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["deviceRepository"]; exists {
		return nil, storedErr
	}
	return c.deviceRepository, nil
}

// DeviceUseCase returns the device registry use case.
func (c *Container) DeviceUseCase() (deviceUseCase.DeviceUseCase, error) {
	var err error
	c.deviceUseCaseInit.Do(func() {
		c.deviceUseCase, err = c.initDeviceUseCase()
		if err != nil {
			c.initErrors["deviceUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["deviceUseCase"]; exists {
		return nil, storedErr
	}
	return c.deviceUseCase, nil
}

// DeviceHandler returns the HTTP handler for device registrations.
func (c *Container) DeviceHandler() (*deviceHTTP.DeviceHandler, error) {
	var err error
	c.deviceHandlerInit.Do(func() {
		c.deviceHandler, err = c.initDeviceHandler()
		if err != nil {
			c.initErrors["deviceHandler"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["deviceHandler"]; exists {
		return nil, storedErr
	}
	return c.deviceHandler, nil
}

// NotificationGateway returns the push gateway selected by NOTIFICATION_GATEWAY.
func (c *Container) NotificationGateway() (notificationUseCase.Gateway, error) {
	var err error
	c.gatewayInit.Do(func() {
		c.gateway, err = c.initNotificationGateway()
		if err != nil {
			c.initErrors["gateway"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["gateway"]; exists {
		return nil, storedErr
	}
	return c.gateway, nil
}

// DispatchUseCase returns the notification dispatch use case wrapped with metrics.
func (c *Container) DispatchUseCase() (notificationUseCase.DispatchUseCase, error) {
	var err error
	c.dispatchUseCaseInit.Do(func() {
		c.dispatchUseCase, err = c.initDispatchUseCase()
		if err != nil {
			c.initErrors["dispatchUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["dispatchUseCase"]; exists {
		return nil, storedErr
	}
	return c.dispatchUseCase, nil
}

func (c *Container) initDeviceRepository() (deviceUseCase.DeviceRepository, error) {
	if c.usesMemory() {
		return deviceRepository.NewMemoryDeviceRepository(), nil
	}

	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for device repository: %w", err)
	}

	dialect, err := database.Dialect(c.config.DBDriver)
	if err != nil {
		return nil, err
	}
	if dialect == "mysql" {
		return deviceRepository.NewMySQLDeviceRepository(db), nil
	}
	return deviceRepository.NewPostgreSQLDeviceRepository(db), nil
}

func (c *Container) initDeviceUseCase() (deviceUseCase.DeviceUseCase, error) {
	repository, err := c.DeviceRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get device repository for device use case: %w", err)
	}
	return deviceUseCase.NewDeviceUseCase(repository, c.Logger()), nil
}

func (c *Container) initDeviceHandler() (*deviceHTTP.DeviceHandler, error) {
	useCase, err := c.DeviceUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get device use case for device handler: %w", err)
	}
	return deviceHTTP.NewDeviceHandler(useCase, c.Logger()), nil
}

func (c *Container) initNotificationGateway() (notificationUseCase.Gateway, error) {
	switch c.config.NotificationGateway {
	case "log":
		return gateway.NewLogGateway(c.Logger()), nil
	case "push":
		if c.config.PushGatewayURL == "" {
			return nil, fmt.Errorf("PUSH_GATEWAY_URL is required for the push gateway")
		}
		return gateway.NewPushGateway(gateway.PushConfig{
			URL:         c.config.PushGatewayURL,
			AccessToken: c.config.PushGatewayAccessToken,
			MaxRetries:  c.config.PushGatewayMaxRetries,
			Timeout:     c.config.DispatchSendTimeout,
		}, c.Logger()), nil
	default:
		return nil, fmt.Errorf("unsupported notification gateway: %s", c.config.NotificationGateway)
	}
}

func (c *Container) initDispatchUseCase() (notificationUseCase.DispatchUseCase, error) {
	devices, err := c.DeviceUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get device use case for dispatch use case: %w", err)
	}

	gw, err := c.NotificationGateway()
	if err != nil {
		return nil, fmt.Errorf("failed to get notification gateway for dispatch use case: %w", err)
	}

	businessMetrics, err := c.BusinessMetrics()
	if err != nil {
		return nil, fmt.Errorf("failed to get business metrics for dispatch use case: %w", err)
	}

	useCase := notificationUseCase.NewDispatchUseCase(
		notificationUseCase.Config{
			Concurrency: c.config.DispatchConcurrency,
			SendTimeout: c.config.DispatchSendTimeout,
		},
		devices,
		gw,
		c.Logger(),
	)
	return notificationUseCase.NewDispatchUseCaseWithMetrics(useCase, businessMetrics), nil
}
